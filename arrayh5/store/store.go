// Package store reads and writes AH5 files: flat, self-describing binary
// containers of named N-dimensional float64 datasets.  All multi-byte
// fields are big-endian and dataset contents are stored contiguously in
// row-major order.
package store

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/batchatco/go-thrower"

	"github.com/scigolabs/go-native-arrayh5/arrayh5/util"
	"github.com/scigolabs/go-native-arrayh5/internal"
)

const (
	magic          = "AH5"
	currentVersion = 1
)

const maxDimensions = 1024

var (
	ErrNotAH5           = errors.New("not an AH5 file")
	ErrUnknownVersion   = errors.New("unknown AH5 version")
	ErrCorrupted        = errors.New("corrupted file")
	ErrNotFound         = errors.New("dataset not found")
	ErrInvalidName      = errors.New("invalid dataset name")
	ErrDuplicateDataset = errors.New("duplicate dataset")
	ErrDimensions       = errors.New("invalid dimensions")
	ErrDataSize         = errors.New("data doesn't match dimensions")
	ErrBadSlab          = errors.New("slab out of bounds")
	ErrInternal         = errors.New("internal error")
)

var (
	logger = internal.NewLogger()
)

// entry is one dataset in the file directory.
type entry struct {
	name  string
	dims  []int
	begin int64 // byte offset of the first element
}

func (e *entry) numElements() int64 {
	n := int64(1)
	for _, d := range e.dims {
		n *= int64(d)
	}
	return n
}

// Store is an AH5 file open for reading.
type Store struct {
	fname    string
	file     *os.File
	version  uint8
	datasets *util.OrderedMap
}

// Dataset is a handle to one dataset of an open Store.
type Dataset struct {
	store *Store
	ent   *entry
}

// SetLogLevel sets the store's diagnostic verbosity to the given level,
// and returns the old level.  Level 0 silences the store entirely; the
// highest level is 3 (errors, warnings and debug messages).  Callers
// probing for a dataset that may legitimately be absent silence the
// store around the probe and restore the old level afterwards.
func SetLogLevel(level int) int {
	old := logger.LogLevel()
	switch level {
	case 0:
		logger.SetLogLevel(internal.LevelSilent)
	case 1:
		logger.SetLogLevel(internal.LevelError)
	case 2:
		logger.SetLogLevel(internal.LevelWarn)
	default:
		logger.SetLogLevel(internal.LevelInfo)
	}
	return int(old)
}

func fail(message string, err error) {
	logger.Error(message)
	thrower.Throw(err)
}

func assert(condition bool, message string, err error) {
	if condition {
		return
	}
	fail(message, err)
}

// Read exactly nBytes
func readBytes(r io.Reader, nBytes int64) []byte {
	b := make([]byte, nBytes)
	err := binary.Read(r, binary.BigEndian, b)
	thrower.ThrowIfError(err)
	return b
}

func read64(r io.Reader) int64 {
	var data int64
	err := binary.Read(r, binary.BigEndian, &data)
	thrower.ThrowIfError(err)
	return data
}

func seekTo(f io.Seeker, offset int64) {
	_, err := f.Seek(offset, io.SeekStart)
	thrower.ThrowIfError(err)
}

// Rounds up to the next 4-byte boundary
func roundInt64(i int64) int64 {
	return (i + 3) & ^int64(0x3)
}

// Open opens an AH5 file for reading.
func Open(fname string) (*Store, error) {
	file, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	s, err := newStore(file, fname)
	if err != nil {
		file.Close()
		return nil, err
	}
	return s, nil
}

func newStore(file *os.File, fname string) (s *Store, err error) {
	defer thrower.RecoverError(&err)
	s = &Store{fname: fname, file: file}
	s.readHeader()
	return s, nil
}

func (s *Store) readHeader() {
	bf := io.Reader(bufio.NewReader(s.file))

	b := readBytes(bf, 4)
	if string(b[:3]) != magic {
		logger.Infof("bad magic: %q", string(b[:3]))
		thrower.Throw(ErrNotAH5)
	}
	version := b[3]
	if version != currentVersion {
		fail(fmt.Sprint("unknown version: ", version), ErrUnknownVersion)
	}
	s.version = version

	nDatasets := read64(bf)
	assert(nDatasets >= 0, "negative dataset count", ErrCorrupted)

	datasets, err := util.NewOrderedMap(nil, nil)
	thrower.ThrowIfError(err)
	s.datasets = datasets
	for i := int64(0); i < nDatasets; i++ {
		e := s.getEntry(bf)
		_, has := s.datasets.Get(e.name)
		assert(!has, fmt.Sprint("duplicate dataset: ", e.name),
			ErrDuplicateDataset)
		s.datasets.Add(e.name, e)
	}
}

func (s *Store) getEntry(bf io.Reader) *entry {
	name := readName(bf)
	rank := read64(bf)
	assert(rank >= 0, "negative rank", ErrCorrupted)
	assert(rank <= maxDimensions, "too many dimensions", ErrCorrupted)
	dims := make([]int, rank)
	for i := range dims {
		d := read64(bf)
		assert(d >= 0, "negative extent", ErrCorrupted)
		dims[i] = int(d)
	}
	begin := read64(bf)
	assert(begin >= 0, "negative data offset", ErrCorrupted)
	return &entry{name: name, dims: dims, begin: begin}
}

func readName(bf io.Reader) string {
	nameLen := read64(bf)
	assert(nameLen >= 0, "negative name length", ErrCorrupted)
	b := readBytes(bf, roundInt64(nameLen))
	return string(b[:nameLen])
}

// ListDatasets returns the dataset names in file order.
func (s *Store) ListDatasets() []string {
	return s.datasets.Keys()
}

// HasDataset returns true if the named dataset is present.
func (s *Store) HasDataset(name string) bool {
	_, has := s.datasets.Get(name)
	return has
}

// OpenDataset returns a handle to the named dataset.
func (s *Store) OpenDataset(name string) (*Dataset, error) {
	v, has := s.datasets.Get(name)
	if !has {
		logger.Error("dataset not found:", name)
		return nil, ErrNotFound
	}
	return &Dataset{store: s, ent: v.(*entry)}, nil
}

// Close closes the underlying file.
func (s *Store) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	if err != nil {
		logger.Error("error on close:", err)
	}
	return err
}

// Name returns the dataset name.
func (d *Dataset) Name() string {
	return d.ent.name
}

// Rank returns the number of dimensions.
func (d *Dataset) Rank() int {
	return len(d.ent.dims)
}

// Dims returns a copy of the per-axis extents, outermost first.
func (d *Dataset) Dims() []int {
	return append([]int(nil), d.ent.dims...)
}

// Len returns the total number of elements.
func (d *Dataset) Len() int64 {
	return d.ent.numElements()
}

// Read reads the full dataset contents into buf, which must hold exactly
// Len() elements.
func (d *Dataset) Read(buf []float64) (err error) {
	defer thrower.RecoverError(&err)
	if int64(len(buf)) != d.ent.numElements() {
		return ErrDataSize
	}
	if len(buf) == 0 {
		return nil
	}
	seekTo(d.store.file, d.ent.begin)
	bf := io.Reader(bufio.NewReader(d.store.file))
	err = binary.Read(bf, binary.BigEndian, buf)
	if err != nil {
		fail(fmt.Sprint("short read on dataset ", d.ent.name), ErrCorrupted)
	}
	return nil
}

// ReadSlab reads a rectangular sub-region into buf.  start and count give
// the per-axis origin and extent of the region; buf must hold exactly
// product(count) elements.
func (d *Dataset) ReadSlab(start, count []int, buf []float64) (err error) {
	defer thrower.RecoverError(&err)
	rank := len(d.ent.dims)
	if len(start) != rank || len(count) != rank {
		return ErrBadSlab
	}
	total := int64(1)
	for i := range count {
		if start[i] < 0 || count[i] < 0 || start[i]+count[i] > d.ent.dims[i] {
			return ErrBadSlab
		}
		total *= int64(count[i])
	}
	if int64(len(buf)) != total {
		return ErrDataSize
	}
	if total == 0 {
		return nil
	}
	if rank == 0 {
		seekTo(d.store.file, d.ent.begin)
		return binary.Read(d.store.file, binary.BigEndian, buf)
	}

	// Row-major element strides of the full dataset.
	stride := make([]int64, rank)
	n := int64(1)
	for i := rank - 1; i >= 0; i-- {
		stride[i] = n
		n *= int64(d.ent.dims[i])
	}

	// The innermost axis of the slab is contiguous on disk; walk an
	// odometer over the outer axes and read one run per position.
	run := int64(count[rank-1])
	idx := make([]int, rank-1)
	pos := int64(0)
	for {
		off := int64(start[rank-1])
		for i := 0; i < rank-1; i++ {
			off += int64(start[i]+idx[i]) * stride[i]
		}
		seekTo(d.store.file, d.ent.begin+off*8)
		err = binary.Read(d.store.file, binary.BigEndian, buf[pos:pos+run])
		if err != nil {
			fail(fmt.Sprint("short read on dataset ", d.ent.name), ErrCorrupted)
		}
		pos += run

		i := rank - 2
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < count[i] {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			break
		}
	}
	return nil
}
