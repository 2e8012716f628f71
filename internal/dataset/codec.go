package dataset

import "errors"

// ErrNotDataset marks files that are readable but not in the codec's
// container format. Callers use it to distinguish malformed inputs, which
// are quarantined, from I/O failures, which abort the run.
var ErrNotDataset = errors.New("not a dataset file")

// Codec reads and writes datasets in a concrete container format.
// Implementations must return errors wrapping ErrNotDataset for files that
// are not in their format.
type Codec interface {
	Read(path string) (*Dataset, error)
	Write(ds *Dataset, path string) error
	// Ext is the filename extension for files written by this codec,
	// without the leading dot.
	Ext() string
}
