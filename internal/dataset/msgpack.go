package dataset

import (
	"bytes"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// wireMagic prefixes every file written by the msgpack codec.
var wireMagic = []byte("PSDM1\n")

type wireElement struct {
	Group   uint16   `msgpack:"g"`
	Element uint16   `msgpack:"e"`
	Values  []string `msgpack:"v,omitempty"`
	Bytes   []byte   `msgpack:"b,omitempty"`
}

type wireDataset struct {
	Meta []wireElement `msgpack:"meta"`
	Main []wireElement `msgpack:"main"`
}

// MsgpackCodec is the default Codec: a magic header followed by a msgpack
// document holding both mappings in tag order.
type MsgpackCodec struct{}

// Ext returns the extension used for msgpack dataset files.
func (MsgpackCodec) Ext() string { return "pds" }

// Read parses a dataset file. Files missing the magic header or failing to
// decode return an error wrapping ErrNotDataset.
func (MsgpackCodec) Read(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if !bytes.HasPrefix(raw, wireMagic) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotDataset)
	}

	var wire wireDataset
	if err := msgpack.Unmarshal(raw[len(wireMagic):], &wire); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", path, ErrNotDataset)
	}

	ds := New()
	for i := range wire.Meta {
		ds.MetaSet(fromWire(&wire.Meta[i]))
	}
	for i := range wire.Main {
		ds.Set(fromWire(&wire.Main[i]))
	}
	return ds, nil
}

// Write serializes the dataset to path as a whole-file write.
func (MsgpackCodec) Write(ds *Dataset, path string) error {
	payload, err := Marshal(ds)
	if err != nil {
		return err
	}
	data := make([]byte, 0, len(wireMagic)+len(payload))
	data = append(data, wireMagic...)
	data = append(data, payload...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

// Marshal encodes the dataset canonically: both mappings in tag order,
// without the file magic. Datasets with equal attributes yield equal bytes,
// which the fingerprint engine relies on.
func Marshal(ds *Dataset) ([]byte, error) {
	var wire wireDataset
	ds.MetaWalk(func(e *Element) {
		wire.Meta = append(wire.Meta, toWire(e))
	})
	ds.Walk(func(e *Element) {
		wire.Main = append(wire.Main, toWire(e))
	})

	payload, err := msgpack.Marshal(&wire)
	if err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}
	return payload, nil
}

func toWire(e *Element) wireElement {
	return wireElement{Group: e.Tag.Group, Element: e.Tag.Element, Values: e.Values, Bytes: e.Bytes}
}

func fromWire(w *wireElement) *Element {
	return &Element{Tag: Tag{Group: w.Group, Element: w.Element}, Values: w.Values, Bytes: w.Bytes}
}
