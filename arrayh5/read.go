package arrayh5

import (
	"errors"

	"github.com/scigolabs/go-native-arrayh5/arrayh5/store"
)

// Read failure modes.  Every error returned by Read is exactly one of
// these.
var (
	ErrFileOpen     = errors.New("error opening AH5 file")
	ErrNotFound     = errors.New("couldn't find dataset in AH5 file")
	ErrRead         = errors.New("error reading data from AH5 file")
	ErrSliceRead    = errors.New("error reading data slice from AH5 file")
	ErrInvalidSlice = errors.New("invalid slice of AH5 data")
	ErrInvalidRank  = errors.New("non-positive rank in AH5 file")
	ErrDatasetOpen  = errors.New("error opening dataset in AH5 file")
)

// Read materializes a dataset from the AH5 file fname into a freshly
// allocated array.
//
// datapath names the dataset; if it is empty, the first dataset in the
// file is used.
//
// slicedim and islice select between a full read and a slice read.  A
// negative slicedim (or slicedim >= rank with islice == 0) reads the
// whole dataset.  With 0 <= slicedim < rank and 0 <= islice <
// dims[slicedim], the hyperplane with axis slicedim fixed at islice is
// read instead, yielding an array of one lower rank; slicing a rank-1
// dataset yields a rank-1 array with a single element, never a rank-0
// scalar.  Any other combination is an invalid slice.
func Read(fname, datapath string, slicedim, islice int) (*NDArray, error) {
	s, err := store.Open(fname)
	if err != nil {
		return nil, ErrFileOpen
	}
	defer s.Close()

	name := datapath
	if name == "" {
		names := s.ListDatasets()
		if len(names) == 0 {
			return nil, ErrNotFound
		}
		name = names[0]
	}

	d, err := s.OpenDataset(name)
	if err != nil {
		return nil, ErrDatasetOpen
	}

	rank := d.Rank()
	if rank <= 0 {
		return nil, ErrInvalidRank
	}
	dims := d.Dims()

	switch {
	case slicedim < 0 || (slicedim >= rank && islice == 0):
		a, err := New(dims)
		if err != nil {
			return nil, ErrRead
		}
		if err := d.Read(a.data); err != nil {
			return nil, ErrRead
		}
		return a, nil

	case slicedim < rank && islice >= 0 && islice < dims[slicedim]:
		start := make([]int, rank)
		count := make([]int, rank)
		copy(count, dims)
		start[slicedim] = islice
		count[slicedim] = 1

		newdims := make([]int, 0, rank-1)
		newdims = append(newdims, dims[:slicedim]...)
		newdims = append(newdims, dims[slicedim+1:]...)
		if len(newdims) == 0 {
			// rank never collapses to 0 via slicing
			newdims = []int{1}
		}

		a, err := New(newdims)
		if err != nil {
			return nil, ErrSliceRead
		}
		if err := d.ReadSlab(start, count, a.data); err != nil {
			return nil, ErrSliceRead
		}
		return a, nil

	default:
		return nil, ErrInvalidSlice
	}
}
