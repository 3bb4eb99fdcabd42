package algorithms

import (
	"strings"
	"unicode"
)

// Soundex implements the American Soundex algorithm. The encoding is the
// first letter of the word followed by three digits describing the
// remaining consonant sounds, so surnames that an OCR pass garbled at the
// letter level usually still collapse to the same code.
type Soundex struct{}

// NewSoundex creates a new Soundex encoder
func NewSoundex() *Soundex {
	return &Soundex{}
}

// Encode encodes a word into its four-character Soundex code.
// Returns "" for input without any letters.
func (s *Soundex) Encode(text string) string {
	text = strings.ToUpper(strings.TrimSpace(text))

	runes := make([]rune, 0, len(text))
	for _, r := range text {
		if unicode.IsLetter(r) && r < 128 {
			runes = append(runes, r)
		}
	}
	if len(runes) == 0 {
		return ""
	}

	code := strings.Builder{}
	code.WriteRune(runes[0])
	lastCode := soundexCode(runes[0])

	for _, r := range runes[1:] {
		num := soundexCode(r)

		// H and W do not reset the previous code; vowels do
		if r == 'H' || r == 'W' {
			continue
		}
		if num == 0 {
			lastCode = 0
			continue
		}
		if num != lastCode {
			code.WriteRune(rune('0' + num))
			lastCode = num
			if code.Len() >= 4 {
				break
			}
		}
	}

	result := code.String()
	for len(result) < 4 {
		result += "0"
	}

	return result[:4]
}

// soundexCode maps a letter to its Soundex digit group (0 for vowels and
// the ignored letters H, W, Y)
func soundexCode(r rune) int {
	switch r {
	case 'B', 'F', 'P', 'V':
		return 1
	case 'C', 'G', 'J', 'K', 'Q', 'S', 'X', 'Z':
		return 2
	case 'D', 'T':
		return 3
	case 'L':
		return 4
	case 'M', 'N':
		return 5
	case 'R':
		return 6
	default:
		return 0
	}
}

// Similarity computes a positional similarity of the Soundex codes of two
// words
func (s *Soundex) Similarity(text1, text2 string) float64 {
	code1 := s.Encode(text1)
	code2 := s.Encode(text2)

	if code1 == "" && code2 == "" {
		return 1.0
	}
	if code1 == "" || code2 == "" {
		return 0.0
	}
	if code1 == code2 {
		return 1.0
	}

	matches := 0
	minLen := len(code1)
	if len(code2) < minLen {
		minLen = len(code2)
	}

	for i := 0; i < minLen; i++ {
		if code1[i] == code2[i] {
			matches++
		}
	}

	return float64(matches) / float64(minLen)
}
