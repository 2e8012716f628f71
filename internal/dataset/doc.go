// Package dataset defines the in-memory model for imaging datasets: tags,
// elements, the ordered attribute mappings, and the Codec interface used to
// read and write datasets from disk. The container format itself is a codec
// concern; the rest of the pipeline only sees Dataset values.
package dataset
