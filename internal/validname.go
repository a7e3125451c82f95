package internal

import (
	"regexp"
)

const (
	// A valid dataset name must start with a letter, digit or underscore.
	// It may contain any character after that except control characters
	// and slashes, and may not end with whitespace.
	pattern     = `^[\pL\pN_][^\pC/]*$`
	antiPattern = `\pZ$`
)

var (
	re     *regexp.Regexp
	antiRe *regexp.Regexp
)

func init() {
	var err error
	re, err = regexp.Compile(pattern)
	if err != nil {
		panic(err)
	}
	antiRe, err = regexp.Compile(antiPattern)
	if err != nil {
		panic(err)
	}
}

// IsValidDatasetName returns true if name may be used as a dataset name.
func IsValidDatasetName(name string) bool {
	return re.MatchString(name) && !antiRe.MatchString(name)
}
