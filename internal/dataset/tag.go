package dataset

import (
	"fmt"
	"strings"
)

// Tag identifies one attribute slot as a (group, element) pair.
type Tag struct {
	Group   uint16
	Element uint16
}

// Well-known tags referenced across the pipeline.
var (
	TagFileMetaGroupLength        = Tag{0x0002, 0x0000}
	TagFileMetaVersion            = Tag{0x0002, 0x0001}
	TagMediaStorageSOPClassUID    = Tag{0x0002, 0x0002}
	TagMediaStorageSOPInstanceUID = Tag{0x0002, 0x0003}
	TagTransferSyntaxUID          = Tag{0x0002, 0x0010}
	TagImplementationClassUID     = Tag{0x0002, 0x0012}
	TagImplementationVersionName  = Tag{0x0002, 0x0013}

	TagImageType             = Tag{0x0008, 0x0008}
	TagSOPInstanceUID        = Tag{0x0008, 0x0018}
	TagAccessionNumber       = Tag{0x0008, 0x0050}
	TagModality              = Tag{0x0008, 0x0060}
	TagManufacturer          = Tag{0x0008, 0x0070}
	TagSeriesDescription     = Tag{0x0008, 0x103E}
	TagManufacturerModelName = Tag{0x0008, 0x1090}

	TagPatientIdentityRemoved  = Tag{0x0012, 0x0062}
	TagDeidentificationMethod  = Tag{0x0012, 0x0063}
	TagBurnedInAnnotation      = Tag{0x0028, 0x0301}
	TagPixelData               = Tag{0x7FE0, 0x0010}
)

// Less reports whether t sorts before other in (group, element) order.
func (t Tag) Less(other Tag) bool {
	if t.Group != other.Group {
		return t.Group < other.Group
	}
	return t.Element < other.Element
}

// Compare returns -1, 0, or 1 per the total (group, element) order.
func (t Tag) Compare(other Tag) int {
	switch {
	case t.Less(other):
		return -1
	case other.Less(t):
		return 1
	default:
		return 0
	}
}

// String renders the tag in the conventional "(gggg,eeee)" hex form.
func (t Tag) String() string {
	return fmt.Sprintf("(%04x,%04x)", t.Group, t.Element)
}

// ParseTag parses a "(gggg,eeee)" pair. Parentheses and surrounding
// whitespace are optional; the components are hexadecimal.
func ParseTag(value string) (Tag, error) {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimPrefix(trimmed, "(")
	trimmed = strings.TrimSuffix(trimmed, ")")
	parts := strings.Split(trimmed, ",")
	if len(parts) != 2 {
		return Tag{}, fmt.Errorf("parse tag %q: expected two comma-separated components", value)
	}

	var group, element uint16
	if _, err := fmt.Sscanf(strings.TrimSpace(parts[0]), "%x", &group); err != nil {
		return Tag{}, fmt.Errorf("parse tag %q: group: %w", value, err)
	}
	if _, err := fmt.Sscanf(strings.TrimSpace(parts[1]), "%x", &element); err != nil {
		return Tag{}, fmt.Errorf("parse tag %q: element: %w", value, err)
	}
	return Tag{Group: group, Element: element}, nil
}
