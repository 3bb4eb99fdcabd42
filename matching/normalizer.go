package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// streetTypeAbbreviations maps spelled-out street types to their postal
// abbreviations. Keys are already-normalized (uppercase) tokens; values
// never appear as keys so a second application is a no-op.
var streetTypeAbbreviations = map[string]string{
	"STREET":    "ST",
	"STR":       "ST",
	"AVENUE":    "AVE",
	"AVENU":     "AVE",
	"AV":        "AVE",
	"BOULEVARD": "BLVD",
	"BOULEVRD":  "BLVD",
	"DRIVE":     "DR",
	"DRV":       "DR",
	"ROAD":      "RD",
	"LANE":      "LN",
	"COURT":     "CT",
	"CIRCLE":    "CIR",
	"PLACE":     "PL",
	"TERRACE":   "TER",
	"TRAIL":     "TRL",
	"PARKWAY":   "PKWY",
	"HIGHWAY":   "HWY",
	"WAY":       "WAY",
	"LOOP":      "LOOP",
}

// streetDirAbbreviations maps spelled-out compass directions to the postal
// single- or double-letter form
var streetDirAbbreviations = map[string]string{
	"NORTH":     "N",
	"SOUTH":     "S",
	"EAST":      "E",
	"WEST":      "W",
	"NORTHEAST": "NE",
	"NORTHWEST": "NW",
	"SOUTHEAST": "SE",
	"SOUTHWEST": "SW",
}

// Normalizer canonicalizes identity records so that voter-roll rows and
// OCR-extracted rows can be compared field by field. The same normalizer is
// applied to both sides; normalization is pure and idempotent, so applying
// it twice yields the same NormalizedRecord.
type Normalizer struct {
	diacritics transform.Transformer
}

// NewNormalizer creates a new identity record normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{
		// NFD decomposition, drop combining marks, recompose
		diacritics: transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
	}
}

// Normalize canonicalizes all fields of an identity record
func (n *Normalizer) Normalize(record IdentityRecord) NormalizedRecord {
	return NormalizedRecord{
		FirstName:       n.normalizeText(record.FirstName),
		LastName:        n.normalizeText(record.LastName),
		StreetNumber:    n.normalizeText(record.StreetNumber),
		StreetName:      n.normalizeStreetName(record.StreetName),
		StreetType:      mapTokens(n.normalizeText(record.StreetType), streetTypeAbbreviations),
		StreetDirSuffix: mapTokens(n.normalizeText(record.StreetDirSuffix), streetDirAbbreviations),
	}
}

// normalizeText upper-cases, strips diacritics and punctuation, and
// collapses internal whitespace
func (n *Normalizer) normalizeText(text string) string {
	folded, _, err := transform.String(n.diacritics, text)
	if err != nil {
		// Malformed UTF-8; fall back to the raw input rather than dropping
		// the field
		folded = text
	}

	var builder strings.Builder
	builder.Grow(len(folded))
	for _, r := range strings.ToUpper(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			builder.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '/':
			// Hyphenated and slashed compounds split into separate tokens
			builder.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(builder.String()), " ")
}

// normalizeStreetName additionally folds direction and street-type tokens
// embedded in the name itself ("NORTH MAIN STREET" and "N MAIN ST" must
// compare equal when the roll and the petition split the address
// differently)
func (n *Normalizer) normalizeStreetName(text string) string {
	cleaned := mapTokens(n.normalizeText(text), streetDirAbbreviations)
	return mapTokens(cleaned, streetTypeAbbreviations)
}

// mapTokens rewrites each whitespace-separated token through the table,
// leaving unknown tokens unchanged
func mapTokens(text string, table map[string]string) string {
	if text == "" {
		return ""
	}

	tokens := strings.Fields(text)
	for i, token := range tokens {
		if abbrev, ok := table[token]; ok {
			tokens[i] = abbrev
		}
	}
	return strings.Join(tokens, " ")
}
