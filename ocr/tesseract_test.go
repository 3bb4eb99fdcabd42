package ocr

import (
	"reflect"
	"testing"
)

func TestNewTesseractExtractorLanguages(t *testing.T) {
	tests := []struct {
		name     string
		language string
		want     []string
	}{
		{"empty falls back to english", "", []string{"eng"}},
		{"single language", "deu", []string{"deu"}},
		{"combined languages", "eng+spa", []string{"eng", "spa"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewTesseractExtractor(tt.language)
			if !reflect.DeepEqual(e.languages, tt.want) {
				t.Errorf("languages = %v, want %v", e.languages, tt.want)
			}
		})
	}
}
