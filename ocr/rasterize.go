package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
)

// rasterDPI resolution used when rendering petition pages. Tesseract
// accuracy degrades sharply on handwriting below ~300 DPI.
const rasterDPI = "300"

// rasterizePDF renders every page of a PDF into numbered PNG files under a
// fresh temporary directory and returns the page paths in page order.
// Rendering shells out to pdftoppm; tesseract consumes images, not PDFs.
// The caller owns cleanup of the returned directory.
func rasterizePDF(ctx context.Context, pdfPath string) (string, []string, error) {
	outDir, err := os.MkdirTemp("", "petition-pages-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create page directory: %w", err)
	}

	prefix := filepath.Join(outDir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm", "-png", "-r", rasterDPI, pdfPath, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(outDir)
		return "", nil, fmt.Errorf("failed to rasterize %s: %w: %s", filepath.Base(pdfPath), err, out)
	}

	pages, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		os.RemoveAll(outDir)
		return "", nil, fmt.Errorf("failed to list rendered pages: %w", err)
	}
	if len(pages) == 0 {
		os.RemoveAll(outDir)
		return "", nil, fmt.Errorf("no pages rendered from %s", filepath.Base(pdfPath))
	}

	// pdftoppm zero-pads page numbers, so lexical order is page order
	sort.Strings(pages)
	return outDir, pages, nil
}
