package arrayh5

import (
	"github.com/scigolabs/go-native-arrayh5/arrayh5/store"
)

// Write stores the array in the AH5 file fname under the dataset name
// dataname.  With appendData false a new file is created, truncating any
// existing one; with appendData true the file must already exist and the
// other datasets in it are preserved.  An existing dataset of the same
// name is deleted first, so writing always replaces.
//
// Writing a rank-0 array is unsupported.
func Write(a *NDArray, fname, dataname string, appendData bool) error {
	if a.Rank() <= 0 {
		return ErrZeroRank
	}

	var w *store.Writer
	var err error
	if appendData {
		w, err = store.OpenWriter(fname)
	} else {
		w, err = store.NewWriter(fname)
	}
	if err != nil {
		return ErrFileOpen
	}

	// A missing dataset is the common case here; keep the store quiet
	// while probing.
	old := store.SetLogLevel(0)
	exists := w.HasDataset(dataname)
	store.SetLogLevel(old)
	if exists {
		w.Delete(dataname)
	}

	if err := w.Add(dataname, a.Dims(), a.Data()); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
