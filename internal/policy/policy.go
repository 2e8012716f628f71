package policy

import "pseudonym/internal/dataset"

// AttributeClass is the retention decision for one attribute.
type AttributeClass int

const (
	// Whitelisted attributes are retained with their values.
	Whitelisted AttributeClass = iota
	// RequiredBlank attributes are retained with their values blanked.
	RequiredBlank
	// PixelPreserved attributes are retained verbatim.
	PixelPreserved
	// Removed attributes are deleted from the dataset.
	Removed
	// MetaAllowed file-meta attributes are retained regardless of the
	// whitelist.
	MetaAllowed
)

func (c AttributeClass) String() string {
	switch c {
	case Whitelisted:
		return "whitelisted"
	case RequiredBlank:
		return "required-blank"
	case PixelPreserved:
		return "pixel-preserved"
	case Removed:
		return "removed"
	case MetaAllowed:
		return "meta-allowed"
	default:
		return "unknown"
	}
}

// MappingKind selects which of a dataset's two mappings a tag belongs to.
type MappingKind int

const (
	MainMapping MappingKind = iota
	MetaMapping
)

// Classify returns the retention class for a tag. It is total and pure:
// the decision depends only on the tag, the mapping kind, and the
// whitelist.
//
// Main mapping precedence: whitelist, required set, pixel-module set,
// removed. Meta mapping: the allowed-file-meta set replaces the required
// and pixel rules, so a non-allowed, non-whitelisted meta attribute is
// deleted outright, never blanked.
func Classify(tag dataset.Tag, kind MappingKind, whitelist *WhiteList) AttributeClass {
	if kind == MetaMapping {
		if _, ok := allowedFileMeta[tag]; ok {
			return MetaAllowed
		}
		if whitelist.Contains(tag) {
			return Whitelisted
		}
		return Removed
	}

	if whitelist.Contains(tag) {
		return Whitelisted
	}
	if _, ok := requiredTags[tag]; ok {
		return RequiredBlank
	}
	if _, ok := pixelModuleTags[tag]; ok {
		return PixelPreserved
	}
	return Removed
}

// IsRequired reports whether tag is in the required set.
func IsRequired(tag dataset.Tag) bool {
	_, ok := requiredTags[tag]
	return ok
}

// IsPixelModule reports whether tag is in the pixel-module set.
func IsPixelModule(tag dataset.Tag) bool {
	_, ok := pixelModuleTags[tag]
	return ok
}

// IsAuditTag reports whether tag is one of the stamped audit attributes.
func IsAuditTag(tag dataset.Tag) bool {
	_, ok := auditTags[tag]
	return ok
}

// IsAllowedMeta reports whether tag is in the fixed allowed-file-meta set.
func IsAllowedMeta(tag dataset.Tag) bool {
	_, ok := allowedFileMeta[tag]
	return ok
}

// Apply mutates ds in place per the retention policy, visiting every
// attribute of both mappings exactly once.
func Apply(ds *dataset.Dataset, whitelist *WhiteList) {
	ds.MetaWalk(func(e *dataset.Element) {
		if Classify(e.Tag, MetaMapping, whitelist) == Removed {
			ds.MetaDelete(e.Tag)
		}
	})
	ds.Walk(func(e *dataset.Element) {
		switch Classify(e.Tag, MainMapping, whitelist) {
		case RequiredBlank:
			ds.SetValue(e.Tag, "")
		case Removed:
			ds.Delete(e.Tag)
		}
	})
}

// SyncStorageUID points the file-meta media-storage instance UID at the
// dataset's SOP instance UID, mirroring the rewrite the policy performs
// before meta attributes are cleaned.
func SyncStorageUID(ds *dataset.Dataset) {
	if _, ok := ds.MetaGet(dataset.TagMediaStorageSOPInstanceUID); !ok {
		return
	}
	if uid := ds.Value(dataset.TagSOPInstanceUID); uid != "" {
		ds.MetaSetValue(dataset.TagMediaStorageSOPInstanceUID, uid)
	}
}

// StampAudit overwrites the accession attribute with the assigned serial
// and records the de-identification audit attributes.
func StampAudit(ds *dataset.Dataset, serial string) {
	ds.SetValue(dataset.TagAccessionNumber, serial)
	ds.SetValue(dataset.TagPatientIdentityRemoved, "YES")
	ds.SetValue(dataset.TagDeidentificationMethod, DeidentificationMethod)
}
