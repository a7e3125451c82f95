// Package arrayh5 provides a dense N-dimensional array of float64 values
// with row-major (C-order) layout, and persistence to and from AH5
// container files.  One array is stored per named dataset.
package arrayh5

import (
	"errors"
)

var (
	ErrBadDims    = errors.New("invalid dimensions")
	ErrEmptyArray = errors.New("no elements in array")
	ErrZeroRank   = errors.New("non-positive rank")
)

// NDArray is a dense array of float64 values.  The rank is the number of
// dimensions; dims holds the per-axis extents, outermost first.  The
// element at multi-index (i0, i1, ..., i_{rank-1}) sits at flat offset
// i0*stride0 + i1*stride1 + ... where stride_k is the product of the
// extents after axis k.  A rank-0 array holds a single scalar.
//
// The array owns both its shape and its buffer; no storage is ever
// shared between two arrays.
type NDArray struct {
	dims []int
	data []float64
}

func numElements(dims []int) (int, error) {
	n := 1
	for _, d := range dims {
		if d < 0 {
			return 0, ErrBadDims
		}
		n *= d
	}
	return n, nil
}

// New returns a zero-filled array of the given shape.  dims is copied.
// An empty or nil dims makes a rank-0 scalar.
func New(dims []int) (*NDArray, error) {
	return NewWithData(dims, nil)
}

// NewWithData is New, but takes ownership of an already-allocated
// buffer, which must hold exactly product(dims) elements.  A nil buffer
// behaves like New.
func NewWithData(dims []int, data []float64) (*NDArray, error) {
	n, err := numElements(dims)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = make([]float64, n)
	} else if len(data) != n {
		return nil, ErrBadDims
	}
	return &NDArray{
		dims: append([]int(nil), dims...),
		data: data,
	}, nil
}

// Clone returns a new zero-filled array with the same shape as a.  The
// contents are not copied.
func (a *NDArray) Clone() *NDArray {
	return &NDArray{
		dims: append([]int(nil), a.dims...),
		data: make([]float64, len(a.data)),
	}
}

// Rank returns the number of dimensions.
func (a *NDArray) Rank() int {
	return len(a.dims)
}

// Dims returns a copy of the per-axis extents, outermost first.
func (a *NDArray) Dims() []int {
	return append([]int(nil), a.dims...)
}

// N returns the total number of elements.
func (a *NDArray) N() int {
	return len(a.data)
}

// Data returns the backing buffer in row-major order.  The buffer is
// owned by the array; the caller may read and write elements but must
// not grow or re-slice it.
func (a *NDArray) Data() []float64 {
	return a.data
}

// Conformant returns true if a and b have the same rank and identical
// extents on every axis.
func (a *NDArray) Conformant(b *NDArray) bool {
	if len(a.dims) != len(b.dims) {
		return false
	}
	for i, d := range a.dims {
		if d != b.dims[i] {
			return false
		}
	}
	return true
}

// Range returns the minimum and maximum element values.  An array with
// no elements has no range.
func (a *NDArray) Range() (min, max float64, err error) {
	if len(a.data) == 0 {
		return 0, 0, ErrEmptyArray
	}
	min, max = a.data[0], a.data[0]
	for _, v := range a.data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, nil
}

// offset converts a multi-index to a flat row-major offset.  It panics
// on a wrong number of indices or an out-of-range index, the same way a
// Go slice does.
func (a *NDArray) offset(index []int) int {
	if len(index) != len(a.dims) {
		panic("arrayh5: wrong number of indices")
	}
	off := 0
	for i, ix := range index {
		if ix < 0 || ix >= a.dims[i] {
			panic("arrayh5: index out of range")
		}
		off = off*a.dims[i] + ix
	}
	return off
}

// At returns the element at the given multi-index.
func (a *NDArray) At(index ...int) float64 {
	return a.data[a.offset(index)]
}

// SetAt stores v at the given multi-index.
func (a *NDArray) SetAt(v float64, index ...int) {
	a.data[a.offset(index)] = v
}
