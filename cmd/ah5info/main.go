// Diagnostic tool for inspecting AH5 files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/scigolabs/go-native-arrayh5/arrayh5"
	"github.com/scigolabs/go-native-arrayh5/arrayh5/store"
)

var (
	dataset  = flag.String("d", "", "dataset to inspect (default: all of them)")
	slicedim = flag.Int("s", -1, "axis to slice along (default: full read)")
	islice   = flag.Int("i", 0, "index of the slice along the -s axis")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ah5info [-d dataset] [-s axis [-i index]] <file>")
		os.Exit(1)
	}
	fname := flag.Arg(0)

	names := []string{*dataset}
	if *dataset == "" {
		s, err := store.Open(fname)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ah5info: %s: %v\n", fname, err)
			os.Exit(1)
		}
		names = s.ListDatasets()
		s.Close()
	}

	for _, name := range names {
		a, err := arrayh5.Read(fname, name, *slicedim, *islice)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ah5info: %s: %v\n", name, err)
			os.Exit(1)
		}
		min, max, err := a.Range()
		if err != nil {
			fmt.Printf("%s: shape %v, no elements\n", name, a.Dims())
			continue
		}
		fmt.Printf("%s: shape %v, min %g, max %g\n", name, a.Dims(), min, max)
	}
}
