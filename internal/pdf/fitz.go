package pdf

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"

	"github.com/dragoncodes/pdf-math-localisator/internal/domain"
)

// FitzExtractor reads page text in-process through MuPDF (go-fitz).
type FitzExtractor struct{}

// NewFitzExtractor creates a MuPDF-backed extractor
func NewFitzExtractor() *FitzExtractor {
	return &FitzExtractor{}
}

// ExtractPage implements domain.PageExtractor. The document is opened per
// call so no handle outlives discovery.
func (e *FitzExtractor) ExtractPage(ctx context.Context, pdfPath string, page int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return "", domain.ExtractionError("Failed to open PDF", err)
	}
	defer doc.Close()

	if page < 1 || page > doc.NumPage() {
		return "", domain.ExtractionError(fmt.Sprintf("page %d out of range", page), domain.ErrPageNotFound)
	}

	// fitz pages are 0-based
	text, err := doc.Text(page - 1)
	if err != nil {
		return "", domain.ExtractionError(fmt.Sprintf("Failed to extract text from page %d", page), err)
	}
	if text == "" {
		return "", domain.ExtractionError(fmt.Sprintf("no text extracted from page %d", page), domain.ErrPageNotFound)
	}

	return text, nil
}
