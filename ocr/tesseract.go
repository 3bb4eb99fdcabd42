package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"petitionserver/matching"
)

// TesseractExtractor recognizes petition rows with a Tesseract client per
// page image. Petition PDFs are rasterized first; tesseract itself only
// consumes images.
type TesseractExtractor struct {
	// clientFactory swapped in tests to avoid a live tesseract install
	clientFactory func() *gosseract.Client
	languages     []string
	dpi           int
}

// NewTesseractExtractor creates an extractor recognizing text in the given
// language at the rasterization DPI. Multiple languages are joined
// tesseract-style with "+", e.g. "eng+spa"; an empty language falls back to
// English.
func NewTesseractExtractor(language string) *TesseractExtractor {
	languages := []string{"eng"}
	if language != "" {
		languages = strings.Split(language, "+")
	}
	return &TesseractExtractor{
		clientFactory: gosseract.NewClient,
		languages:     languages,
		dpi:           300,
	}
}

// Extract renders the PDF at dir/filename to page images, recognizes each
// page and parses the recognized lines into signature rows. Rows carry
// (page, line) provenance in scan order and the recognition confidence of
// their source line. A sheet with no parsable rows yields an empty batch,
// not an error.
func (e *TesseractExtractor) Extract(ctx context.Context, dir, filename string) ([]matching.ExtractedSignature, error) {
	pdfPath := filepath.Join(dir, filename)
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, fmt.Errorf("petition file not found: %w", err)
	}

	pageDir, pages, err := rasterizePDF(ctx, pdfPath)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(pageDir)

	var signatures []matching.ExtractedSignature
	for pageNum, pagePath := range pages {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		lines, err := e.recognizePage(pagePath)
		if err != nil {
			return nil, fmt.Errorf("failed to recognize page %d: %w", pageNum+1, err)
		}

		lineNum := 0
		for _, line := range lines {
			rec, ok := ParseSignatureLine(line.text)
			if !ok {
				continue
			}
			lineNum++
			signatures = append(signatures, matching.ExtractedSignature{
				IdentityRecord: rec,
				Page:           pageNum + 1,
				Line:           lineNum,
				Confidence:     fieldConfidence(line.confidence),
			})
		}
	}

	return signatures, nil
}

// recognizedLine one text line from a page with its mean recognition
// confidence in [0, 1]
type recognizedLine struct {
	text       string
	confidence float64
}

// recognizePage runs one tesseract client over a single page image and
// returns its text lines in top-to-bottom order
func (e *TesseractExtractor) recognizePage(imagePath string) ([]recognizedLine, error) {
	client := e.clientFactory()
	defer client.Close()

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read page image: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set page image: %w", err)
	}
	if len(e.languages) > 0 {
		if err := client.SetLanguage(e.languages...); err != nil {
			return nil, fmt.Errorf("failed to set languages: %w", err)
		}
	}
	if e.dpi > 0 {
		if err := client.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(e.dpi)); err != nil {
			return nil, fmt.Errorf("failed to set dpi: %w", err)
		}
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("failed to get text lines: %w", err)
	}

	lines := make([]recognizedLine, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		lines = append(lines, recognizedLine{
			text:       text,
			confidence: box.Confidence / 100.0,
		})
	}
	return lines, nil
}

// fieldConfidence spreads a line-level confidence over every identity
// field. Tesseract reports confidence per recognized region, not per parsed
// column, so the line value is the best per-field estimate available.
func fieldConfidence(conf float64) map[string]float64 {
	m := make(map[string]float64, len(matching.Fields))
	for _, field := range matching.Fields {
		m[field] = conf
	}
	return m
}
