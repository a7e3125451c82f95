package arrayh5

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scigolabs/go-native-arrayh5/arrayh5/store"
)

func testFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.ah5")
}

func mustArray(t *testing.T, dims []int, data []float64) *NDArray {
	t.Helper()
	a, err := NewWithData(dims, data)
	require.NoError(t, err)
	return a
}

func sequence(n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i)
	}
	return data
}

func TestWriteReadRoundTrip(t *testing.T) {
	fname := testFile(t)
	a := mustArray(t, []int{2, 3, 4}, sequence(24))
	require.NoError(t, Write(a, fname, "data", false))

	b, err := Read(fname, "data", -1, 0)
	require.NoError(t, err)
	assert.True(t, a.Conformant(b))
	assert.Equal(t, a.Data(), b.Data())
}

func TestReadDefaultDataset(t *testing.T) {
	fname := testFile(t)
	a := mustArray(t, []int{3}, []float64{1, 2, 3})
	require.NoError(t, Write(a, fname, "first", false))
	require.NoError(t, Write(mustArray(t, []int{2}, []float64{8, 9}),
		fname, "second", true))

	// empty datapath scans for the first dataset in the file
	b, err := Read(fname, "", -1, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, b.Dims())
	assert.Equal(t, []float64{1, 2, 3}, b.Data())
}

func TestReadFullWhenSlicedimPastRank(t *testing.T) {
	fname := testFile(t)
	a := mustArray(t, []int{2, 2}, []float64{1, 2, 3, 4})
	require.NoError(t, Write(a, fname, "data", false))

	// slicedim >= rank with islice == 0 still means a full read
	b, err := Read(fname, "data", 5, 0)
	require.NoError(t, err)
	assert.True(t, a.Conformant(b))
	assert.Equal(t, a.Data(), b.Data())
}

func TestWriteOverwritesExisting(t *testing.T) {
	fname := testFile(t)
	require.NoError(t, Write(mustArray(t, []int{2}, []float64{1, 2}),
		fname, "keep", false))
	require.NoError(t, Write(mustArray(t, []int{3}, []float64{1, 2, 3}),
		fname, "data", true))

	replacement := mustArray(t, []int{2, 2}, []float64{9, 8, 7, 6})
	require.NoError(t, Write(replacement, fname, "data", true))

	b, err := Read(fname, "data", -1, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, b.Dims())
	assert.Equal(t, replacement.Data(), b.Data())

	// the other dataset is untouched
	c, err := Read(fname, "keep", -1, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, c.Data())
}

func TestWriteTruncatesWithoutAppend(t *testing.T) {
	fname := testFile(t)
	require.NoError(t, Write(mustArray(t, []int{2}, []float64{1, 2}),
		fname, "old", false))
	require.NoError(t, Write(mustArray(t, []int{2}, []float64{3, 4}),
		fname, "new", false))

	_, err := Read(fname, "old", -1, 0)
	assert.ErrorIs(t, err, ErrDatasetOpen)
}

func TestSliceReadEveryAxis(t *testing.T) {
	fname := testFile(t)
	dims := []int{2, 3, 4}
	a := mustArray(t, dims, sequence(24))
	require.NoError(t, Write(a, fname, "data", false))

	for slicedim := 0; slicedim < 3; slicedim++ {
		for islice := 0; islice < dims[slicedim]; islice++ {
			b, err := Read(fname, "data", slicedim, islice)
			require.NoError(t, err)

			wantDims := make([]int, 0, 2)
			wantDims = append(wantDims, dims[:slicedim]...)
			wantDims = append(wantDims, dims[slicedim+1:]...)
			require.Equal(t, wantDims, b.Dims())

			// contents equal the original restricted to
			// index[slicedim] == islice
			idx := make([]int, 3)
			out := make([]int, 2)
			for i := 0; i < wantDims[0]; i++ {
				for j := 0; j < wantDims[1]; j++ {
					out[0], out[1] = i, j
					k := 0
					for d := 0; d < 3; d++ {
						if d == slicedim {
							idx[d] = islice
							continue
						}
						idx[d] = out[k]
						k++
					}
					assert.Equal(t, a.At(idx...), b.At(i, j),
						"slicedim=%d islice=%d at (%d,%d)",
						slicedim, islice, i, j)
				}
			}
		}
	}
}

func TestSliceReadRank1(t *testing.T) {
	fname := testFile(t)
	a := mustArray(t, []int{5}, []float64{10, 11, 12, 13, 14})
	require.NoError(t, Write(a, fname, "data", false))

	// slicing a rank-1 dataset yields rank 1 with extent 1, not rank 0
	b, err := Read(fname, "data", 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, b.Dims())
	assert.Equal(t, []float64{13}, b.Data())
}

func TestReadInvalidSlice(t *testing.T) {
	fname := testFile(t)
	a := mustArray(t, []int{2, 3}, sequence(6))
	require.NoError(t, Write(a, fname, "data", false))

	tests := []struct {
		name     string
		slicedim int
		islice   int
	}{
		{"islice past extent", 0, 2},
		{"islice negative", 1, -1},
		{"slicedim past rank, islice nonzero", 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Read(fname, "data", tt.slicedim, tt.islice)
			assert.ErrorIs(t, err, ErrInvalidSlice)
			assert.Nil(t, b)
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nosuch.ah5"), "", -1, 0)
	assert.ErrorIs(t, err, ErrFileOpen)
}

func TestReadMissingDataset(t *testing.T) {
	fname := testFile(t)
	require.NoError(t, Write(mustArray(t, []int{2}, []float64{1, 2}),
		fname, "data", false))
	_, err := Read(fname, "nosuch", -1, 0)
	assert.ErrorIs(t, err, ErrDatasetOpen)
}

func TestReadEmptyContainer(t *testing.T) {
	// a valid container with no datasets at all
	fname := testFile(t)
	w, err := store.NewWriter(fname)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = Read(fname, "", -1, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWriteZeroRank(t *testing.T) {
	a := mustArray(t, nil, []float64{1})
	err := Write(a, testFile(t), "scalar", false)
	assert.ErrorIs(t, err, ErrZeroRank)
}

func TestWriteAppendMissingFile(t *testing.T) {
	a := mustArray(t, []int{2}, []float64{1, 2})
	err := Write(a, filepath.Join(t.TempDir(), "nosuch.ah5"), "data", true)
	assert.ErrorIs(t, err, ErrFileOpen)
}

func TestWriteTransposedRoundTrip(t *testing.T) {
	fname := testFile(t)
	a := mustArray(t, []int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	a.Transpose()
	require.NoError(t, Write(a, fname, "data", false))

	b, err := Read(fname, "data", -1, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, b.Dims())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, b.Data())
}
