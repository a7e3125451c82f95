package store

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/batchatco/go-thrower"

	"github.com/scigolabs/go-native-arrayh5/arrayh5/util"
	"github.com/scigolabs/go-native-arrayh5/internal"
)

type countedWriter struct {
	w     *bufio.Writer
	count int64
}

func (c *countedWriter) Count() int64 {
	return c.count
}

func (c *countedWriter) Flush() error {
	return c.w.Flush()
}

func (c *countedWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.count += int64(n)
	return n, err
}

// saved is one dataset pending write.
type saved struct {
	name   string
	dims   []int
	data   []float64
	offset int64 // position of the offset field in the header, to patch
}

// Writer builds an AH5 file.  Datasets accumulate in memory and the file
// is written in one pass on Close.
type Writer struct {
	fname    string
	file     *os.File
	bf       *countedWriter
	datasets *util.OrderedMap
}

// NewWriter creates an AH5 file, truncating any existing file of the
// same name.
func NewWriter(fname string) (*Writer, error) {
	file, err := os.Create(fname)
	if err != nil {
		return nil, err
	}
	datasets, err := util.NewOrderedMap(nil, nil)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &Writer{fname: fname, file: file, datasets: datasets}, nil
}

// OpenWriter opens an existing AH5 file for rewriting.  The current
// directory and contents are loaded so that datasets can be added,
// replaced or deleted; Close writes the whole file back out.
func OpenWriter(fname string) (w *Writer, err error) {
	defer thrower.RecoverError(&err)
	file, err := os.OpenFile(fname, os.O_RDWR, 0666)
	if err != nil {
		return nil, err
	}
	s, err := newStore(file, fname)
	if err != nil {
		file.Close()
		return nil, err
	}
	datasets, err := util.NewOrderedMap(nil, nil)
	if err != nil {
		file.Close()
		return nil, err
	}
	w = &Writer{fname: fname, file: file, datasets: datasets}
	for _, name := range s.ListDatasets() {
		d, err := s.OpenDataset(name)
		if err != nil {
			file.Close()
			return nil, err
		}
		buf := make([]float64, d.Len())
		if err := d.Read(buf); err != nil {
			file.Close()
			return nil, err
		}
		w.datasets.Add(name, &saved{name: name, dims: d.Dims(), data: buf})
	}
	return w, nil
}

// HasDataset returns true if the named dataset is pending in the writer.
// A missing dataset is reported through the store's diagnostics as well.
func (w *Writer) HasDataset(name string) bool {
	_, has := w.datasets.Get(name)
	if !has {
		logger.Error("dataset not found:", name)
	}
	return has
}

// Delete removes a pending dataset and reports whether it was present.
func (w *Writer) Delete(name string) bool {
	if _, has := w.datasets.Get(name); !has {
		return false
	}
	w.datasets.Del(name)
	return true
}

// Add queues a dataset for writing.  dims is copied; data is not, and
// the caller must not modify it before Close.
func (w *Writer) Add(name string, dims []int, data []float64) error {
	if !internal.IsValidDatasetName(name) {
		return ErrInvalidName
	}
	if _, has := w.datasets.Get(name); has {
		return ErrDuplicateDataset
	}
	if len(dims) > maxDimensions {
		return ErrDimensions
	}
	n := 1
	for _, d := range dims {
		if d < 0 {
			return ErrDimensions
		}
		n *= d
	}
	if len(data) != n {
		return ErrDataSize
	}
	w.datasets.Add(name, &saved{
		name: name,
		dims: append([]int(nil), dims...),
		data: data,
	})
	return nil
}

// Close writes the file and closes it.
func (w *Writer) Close() (err error) {
	defer thrower.RecoverError(&err)
	if w.file == nil {
		return nil
	}
	seekTo(w.file, 0)
	err = w.file.Truncate(0)
	thrower.ThrowIfError(err)
	w.bf = &countedWriter{bufio.NewWriter(w.file), 0}
	w.writeAll()
	err = w.bf.Flush()
	err2 := w.file.Close()
	if err == nil {
		err = err2
	} else {
		// return the first error, log the second
		logger.Error(err2)
	}
	w.file = nil
	return err
}

func writeAny(w io.Writer, val interface{}) {
	err := binary.Write(w, binary.BigEndian, val)
	thrower.ThrowIfError(err)
}

func writeBytes(w io.Writer, bytes []byte) {
	err := binary.Write(w, binary.BigEndian, bytes)
	thrower.ThrowIfError(err)
}

func write8(w io.Writer, i int8) {
	data := byte(i)
	err := binary.Write(w, binary.BigEndian, &data)
	thrower.ThrowIfError(err)
}

func write64(w io.Writer, i int64) {
	err := binary.Write(w, binary.BigEndian, &i)
	thrower.ThrowIfError(err)
}

func (w *Writer) pad() {
	offset := w.bf.Count()
	extra := roundInt64(offset) - offset
	if extra > 0 {
		zero := [3]byte{}
		writeBytes(w.bf, zero[:extra])
	}
}

func (w *Writer) writeName(name string) {
	write64(w.bf, int64(len(name)))
	writeBytes(w.bf, []byte(name))
	w.pad()
}

func (w *Writer) writeAll() {
	writeBytes(w.bf, []byte(magic))
	write8(w.bf, currentVersion)
	write64(w.bf, int64(w.datasets.Len()))

	entries := make([]*saved, 0, w.datasets.Len())
	for _, name := range w.datasets.Keys() {
		v, has := w.datasets.Get(name)
		if !has {
			thrower.Throw(ErrInternal)
		}
		entries = append(entries, v.(*saved))
	}
	for _, sv := range entries {
		w.writeEntry(sv)
	}
	for _, sv := range entries {
		w.writeData(sv)
	}
}

func (w *Writer) writeEntry(sv *saved) {
	w.writeName(sv.name)
	write64(w.bf, int64(len(sv.dims)))
	for _, d := range sv.dims {
		write64(w.bf, int64(d))
	}
	sv.offset = w.bf.Count()
	write64(w.bf, 0) // data offset, patched by writeData
}

func (w *Writer) writeData(sv *saved) {
	offset := w.bf.Count()
	writeAny(w.bf, sv.data)

	// then go and patch the offset
	err := w.bf.Flush()
	thrower.ThrowIfError(err)

	// save current
	current, err := w.file.Seek(0, io.SeekCurrent)
	thrower.ThrowIfError(err)

	// patch
	_, err = w.file.Seek(sv.offset, io.SeekStart)
	thrower.ThrowIfError(err)
	write64(w.file, offset)

	// reset to current
	_, err = w.file.Seek(current, io.SeekStart)
	thrower.ThrowIfError(err)
}
