package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"pseudonym/internal/dataset"
)

// NewDataset builds a dataset that passes the default quarantine rules,
// keyed by accession number.
func NewDataset(t testing.TB, accession string) *dataset.Dataset {
	t.Helper()

	ds := dataset.New()
	ds.MetaSetValue(dataset.TagMediaStorageSOPInstanceUID, "1.2.3."+accession)
	ds.MetaSetValue(dataset.TagTransferSyntaxUID, "1.2.840.10008.1.2.1")
	ds.SetValue(dataset.TagSOPInstanceUID, "1.2.3."+accession)
	ds.SetValue(dataset.TagAccessionNumber, accession)
	ds.SetValue(dataset.TagModality, "MR")
	ds.SetValue(dataset.TagSeriesDescription, "Sagittal T2")
	ds.SetBytes(dataset.TagPixelData, []byte{0x10, 0x20, 0x30})
	return ds
}

// WriteDataset persists a dataset beneath dir using the msgpack codec,
// creating parent directories as needed.
func WriteDataset(t testing.TB, ds *dataset.Dataset, dir, name string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := (dataset.MsgpackCodec{}).Write(ds, path); err != nil {
		t.Fatalf("write dataset %s: %v", path, err)
	}
	return path
}
