package matching

// Field names used in score maps, weight configuration and JSON payloads.
// They match the column names of the voter roll upload format.
const (
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldStreetNumber    = "street_number"
	FieldStreetName      = "street_name"
	FieldStreetType      = "street_type"
	FieldStreetDirSuffix = "street_dir_suffix"
)

// Fields lists all identity field names in a stable order
var Fields = []string{
	FieldFirstName,
	FieldLastName,
	FieldStreetNumber,
	FieldStreetName,
	FieldStreetType,
	FieldStreetDirSuffix,
}

// IdentityRecord raw signer identity fields as they arrive from the voter
// roll or from OCR extraction. Any field may be empty.
type IdentityRecord struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	StreetNumber    string `json:"street_number"`
	StreetName      string `json:"street_name"`
	StreetType      string `json:"street_type"`
	StreetDirSuffix string `json:"street_dir_suffix"`
}

// Field returns the named field's raw value
func (r IdentityRecord) Field(name string) string {
	switch name {
	case FieldFirstName:
		return r.FirstName
	case FieldLastName:
		return r.LastName
	case FieldStreetNumber:
		return r.StreetNumber
	case FieldStreetName:
		return r.StreetName
	case FieldStreetType:
		return r.StreetType
	case FieldStreetDirSuffix:
		return r.StreetDirSuffix
	default:
		return ""
	}
}

// VoterRecord an identity record from the authoritative roll plus its
// stable identifier
type VoterRecord struct {
	ID string `json:"id"`
	IdentityRecord
}

// ExtractedSignature an OCR-extracted petition row. Page and Line carry the
// provenance of the row on the scanned sheet; their order is significant
// and is preserved through the whole pipeline.
type ExtractedSignature struct {
	IdentityRecord
	Page       int                `json:"page"`
	Line       int                `json:"line"`
	Confidence map[string]float64 `json:"confidence,omitempty"` // per-field OCR confidence in [0,1]
}

// NormalizedRecord canonical, comparison-ready view of an IdentityRecord.
// Derived deterministically by the Normalizer and never persisted. Missing
// source fields normalize to the empty string.
type NormalizedRecord struct {
	FirstName       string
	LastName        string
	StreetNumber    string
	StreetName      string
	StreetType      string
	StreetDirSuffix string
}

// Field returns the named field's normalized value
func (n NormalizedRecord) Field(name string) string {
	switch name {
	case FieldFirstName:
		return n.FirstName
	case FieldLastName:
		return n.LastName
	case FieldStreetNumber:
		return n.StreetNumber
	case FieldStreetName:
		return n.StreetName
	case FieldStreetType:
		return n.StreetType
	case FieldStreetDirSuffix:
		return n.StreetDirSuffix
	default:
		return ""
	}
}
