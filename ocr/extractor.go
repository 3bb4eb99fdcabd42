// Package ocr extracts petition signature rows from scanned petition
// sheets. Extraction is a collaborator of the matching pipeline: it produces
// the ordered signature batch and nothing else.
package ocr

import (
	"context"

	"petitionserver/matching"
)

// Extractor extracts signature rows from an uploaded petition document.
//
// An empty result with a nil error means the document was processed but no
// signature rows were recognized; the caller must not treat that as a
// failure.
type Extractor interface {
	Extract(ctx context.Context, dir, filename string) ([]matching.ExtractedSignature, error)
}
