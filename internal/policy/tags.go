package policy

import "pseudonym/internal/dataset"

// DeidentificationMethod is stamped into every pseudonymized dataset.
const DeidentificationMethod = "Pseudonymized by accession-serial substitution with attribute whitelisting"

func tagSet(tags ...dataset.Tag) map[dataset.Tag]struct{} {
	set := make(map[dataset.Tag]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

// allowedFileMeta is the fixed set of file-meta attributes retained
// regardless of the whitelist.
var allowedFileMeta = tagSet(
	dataset.TagFileMetaGroupLength,
	dataset.TagFileMetaVersion,
	dataset.TagMediaStorageSOPClassUID,
	dataset.TagMediaStorageSOPInstanceUID,
	dataset.TagTransferSyntaxUID,
	dataset.TagImplementationClassUID,
	dataset.TagImplementationVersionName,
)

// requiredTags must stay present in every dataset; when not whitelisted
// their values are blanked rather than the attribute deleted.
var requiredTags = tagSet(
	dataset.TagAccessionNumber,
	dataset.Tag{Group: 0x0008, Element: 0x0020}, // study date
	dataset.Tag{Group: 0x0008, Element: 0x0030}, // study time
	dataset.Tag{Group: 0x0008, Element: 0x0090}, // referring physician's name
	dataset.Tag{Group: 0x0010, Element: 0x0010}, // patient's name
	dataset.Tag{Group: 0x0010, Element: 0x0020}, // patient's ID
	dataset.Tag{Group: 0x0010, Element: 0x0030}, // patient's date of birth
	dataset.Tag{Group: 0x0010, Element: 0x0040}, // patient's sex
	dataset.Tag{Group: 0x0020, Element: 0x000D}, // study UID
	dataset.Tag{Group: 0x0020, Element: 0x000E}, // series UID
	dataset.Tag{Group: 0x0020, Element: 0x0010}, // study ID
	dataset.Tag{Group: 0x0020, Element: 0x0011}, // series number
	dataset.Tag{Group: 0x0020, Element: 0x0013}, // instance number
	dataset.Tag{Group: 0x0020, Element: 0x0020}, // patient orientation
)

// pixelModuleTags describe the pixel payload and are always retained
// verbatim; stripping them would make the image undecodable.
var pixelModuleTags = tagSet(
	dataset.Tag{Group: 0x0028, Element: 0x0002}, // samples per pixel
	dataset.Tag{Group: 0x0028, Element: 0x0004}, // photometric interpretation
	dataset.Tag{Group: 0x0028, Element: 0x0006}, // planar configuration
	dataset.Tag{Group: 0x0028, Element: 0x0010}, // rows
	dataset.Tag{Group: 0x0028, Element: 0x0011}, // columns
	dataset.Tag{Group: 0x0028, Element: 0x0034}, // pixel aspect ratio
	dataset.Tag{Group: 0x0028, Element: 0x0100}, // bits allocated
	dataset.Tag{Group: 0x0028, Element: 0x0101}, // bits stored
	dataset.Tag{Group: 0x0028, Element: 0x0102}, // high bit
	dataset.Tag{Group: 0x0028, Element: 0x0103}, // pixel representation
	dataset.Tag{Group: 0x0028, Element: 0x0106}, // smallest image pixel value
	dataset.Tag{Group: 0x0028, Element: 0x0107}, // largest image pixel value
	dataset.Tag{Group: 0x0028, Element: 0x0121}, // pixel padding range limit
	dataset.Tag{Group: 0x0028, Element: 0x1101}, // red palette LUT descriptor
	dataset.Tag{Group: 0x0028, Element: 0x1102}, // green palette LUT descriptor
	dataset.Tag{Group: 0x0028, Element: 0x1103}, // blue palette LUT descriptor
	dataset.Tag{Group: 0x0028, Element: 0x1201}, // red palette LUT data
	dataset.Tag{Group: 0x0028, Element: 0x1202}, // green palette LUT data
	dataset.Tag{Group: 0x0028, Element: 0x1203}, // blue palette LUT data
	dataset.Tag{Group: 0x0028, Element: 0x2000}, // ICC profile
	dataset.Tag{Group: 0x0028, Element: 0x2002}, // color space
	dataset.Tag{Group: 0x0028, Element: 0x7FE0}, // pixel data provider URL
	dataset.TagPixelData,
)

// auditTags are added by StampAudit and accepted by the output validator.
var auditTags = tagSet(
	dataset.TagPatientIdentityRemoved,
	dataset.TagDeidentificationMethod,
)
