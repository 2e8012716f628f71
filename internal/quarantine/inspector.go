// Package quarantine flags datasets whose pixel content may leak identity:
// screen captures, burnt-in annotations, and devices known to embed text in
// images. Attribute scrubbing cannot catch these, so flagged datasets are
// copied aside for human review instead of being pseudonymized.
package quarantine

import (
	"strings"

	"golang.org/x/text/cases"

	"pseudonym/internal/dataset"
)

// Decision is the inspector's verdict for one dataset.
type Decision struct {
	Quarantine bool
	Reason     string
}

// Inspector applies the ordered content-safety rules. The zero value is not
// usable; construct with New.
type Inspector struct {
	modalities map[string]struct{}
	fold       cases.Caser
}

// New returns an inspector accepting the given modalities. Matching is
// case-insensitive.
func New(modalities []string) *Inspector {
	fold := cases.Fold()
	allowed := make(map[string]struct{}, len(modalities))
	for _, m := range modalities {
		allowed[fold.String(strings.TrimSpace(m))] = struct{}{}
	}
	return &Inspector{modalities: allowed, fold: fold}
}

func (in *Inspector) norm(value string) string {
	return in.fold.String(strings.TrimSpace(value))
}

// Inspect evaluates the rules in order; the first match wins.
func (in *Inspector) Inspect(ds *dataset.Dataset) Decision {
	if desc := in.norm(ds.Value(dataset.TagSeriesDescription)); desc != "" {
		if strings.Contains(desc, "patient protocol") {
			return Decision{Quarantine: true, Reason: "patient protocol"}
		}
		if strings.Contains(desc, "save") {
			return Decision{Quarantine: true, Reason: "likely screen capture"}
		}
	}

	modality, ok := ds.Get(dataset.TagModality)
	if !ok {
		return Decision{Quarantine: true, Reason: "modality missing"}
	}
	for _, value := range modality.Values {
		if _, allowed := in.modalities[in.norm(value)]; !allowed {
			return Decision{Quarantine: true, Reason: "modality not allowed"}
		}
	}
	if len(modality.Values) == 0 {
		return Decision{Quarantine: true, Reason: "modality not allowed"}
	}

	switch in.norm(ds.Value(dataset.TagBurnedInAnnotation)) {
	case "yes", "y":
		return Decision{Quarantine: true, Reason: "burnt-in data"}
	}

	if imageType, ok := ds.Get(dataset.TagImageType); ok {
		for _, value := range imageType.Values {
			if strings.Contains(in.norm(value), "save") {
				return Decision{Quarantine: true, Reason: "likely screen capture"}
			}
		}
	}

	if manufacturer := in.norm(ds.Value(dataset.TagManufacturer)); manufacturer != "" {
		if strings.Contains(manufacturer, "north american imaging, inc") ||
			strings.Contains(manufacturer, "pacsgear") {
			return Decision{Quarantine: true, Reason: "manufacturer is suspect"}
		}
	}

	if model := in.norm(ds.Value(dataset.TagManufacturerModelName)); model != "" {
		if strings.Contains(model, "the dicom box") {
			return Decision{Quarantine: true, Reason: "model name is suspect"}
		}
	}

	return Decision{}
}
