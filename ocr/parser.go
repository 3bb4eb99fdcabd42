package ocr

import (
	"strings"
	"unicode"

	"petitionserver/matching"
)

// streetTypeTokens street type spellings accepted at the tail of a petition
// address. Both the full word and the postal abbreviation appear on real
// sheets.
var streetTypeTokens = map[string]bool{
	"ST": true, "STREET": true,
	"AVE": true, "AVENUE": true,
	"BLVD": true, "BOULEVARD": true,
	"DR": true, "DRIVE": true,
	"RD": true, "ROAD": true,
	"LN": true, "LANE": true,
	"CT": true, "COURT": true,
	"PL": true, "PLACE": true,
	"CIR": true, "CIRCLE": true,
	"WAY": true,
	"TER": true, "TERRACE": true,
	"PKWY": true, "PARKWAY": true,
	"HWY": true, "HIGHWAY": true,
	"TRL": true, "TRAIL": true,
}

// streetDirTokens direction suffix spellings accepted after the street type
var streetDirTokens = map[string]bool{
	"N": true, "NORTH": true,
	"S": true, "SOUTH": true,
	"E": true, "EAST": true,
	"W": true, "WEST": true,
	"NE": true, "NORTHEAST": true,
	"NW": true, "NORTHWEST": true,
	"SE": true, "SOUTHEAST": true,
	"SW": true, "SOUTHWEST": true,
}

// headerWords words that identify a sheet header or footer line rather than
// a signer row
var headerWords = []string{
	"PRINTED", "SIGNATURE", "ADDRESS", "PETITION", "COUNTY", "DATE", "PAGE",
}

// ParseSignatureLine parses one recognized text line into an identity
// record.
//
// The expected row shape is "First Last Number Street... [Type] [Dir]":
// the first two tokens are the printed name, the first token containing a
// digit starts the address, a trailing direction token and a trailing
// street type token are split off, and whatever remains between number and
// type is the street name. Returns false for header lines, separators and
// anything too short to be a signer row.
func ParseSignatureLine(text string) (matching.IdentityRecord, bool) {
	tokens := strings.Fields(text)
	if len(tokens) < 4 {
		return matching.IdentityRecord{}, false
	}

	upper := strings.ToUpper(text)
	for _, word := range headerWords {
		if strings.Contains(upper, word) {
			return matching.IdentityRecord{}, false
		}
	}

	// The address starts at the first numeric token; the name is whatever
	// precedes it
	numIdx := -1
	for i, tok := range tokens {
		if startsWithDigit(tok) {
			numIdx = i
			break
		}
	}
	if numIdx < 2 || numIdx == len(tokens)-1 {
		return matching.IdentityRecord{}, false
	}

	rec := matching.IdentityRecord{
		FirstName:    strings.Join(tokens[:numIdx-1], " "),
		LastName:     tokens[numIdx-1],
		StreetNumber: tokens[numIdx],
	}

	street := tokens[numIdx+1:]
	if last := strings.ToUpper(trimPunct(street[len(street)-1])); len(street) > 1 && streetDirTokens[last] {
		rec.StreetDirSuffix = street[len(street)-1]
		street = street[:len(street)-1]
	}
	if last := strings.ToUpper(trimPunct(street[len(street)-1])); len(street) > 1 && streetTypeTokens[last] {
		rec.StreetType = street[len(street)-1]
		street = street[:len(street)-1]
	}
	rec.StreetName = strings.Join(street, " ")

	return rec, true
}

func startsWithDigit(s string) bool {
	for _, r := range s {
		return unicode.IsDigit(r)
	}
	return false
}

func trimPunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsPunct(r)
	})
}
