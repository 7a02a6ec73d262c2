package pdf

import (
	"context"
	"fmt"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/dragoncodes/pdf-math-localisator/internal/domain"
)

// NativeExtractor reads page text with the pure-Go ledongthuc/pdf parser.
// It needs no external binary or shared library.
type NativeExtractor struct{}

// NewNativeExtractor creates a pure-Go extractor
func NewNativeExtractor() *NativeExtractor {
	return &NativeExtractor{}
}

// ExtractPage implements domain.PageExtractor
func (e *NativeExtractor) ExtractPage(ctx context.Context, pdfPath string, page int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, r, err := lpdf.Open(pdfPath)
	if err != nil {
		return "", domain.ExtractionError("Failed to open PDF", err)
	}
	defer f.Close()

	if page < 1 || page > r.NumPage() {
		return "", domain.ExtractionError(fmt.Sprintf("page %d out of range", page), domain.ErrPageNotFound)
	}

	p := r.Page(page)
	if p.V.IsNull() {
		return "", domain.ExtractionError(fmt.Sprintf("page %d has no content", page), domain.ErrPageNotFound)
	}

	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", domain.ExtractionError(fmt.Sprintf("Failed to extract text from page %d", page), err)
	}
	if text == "" {
		return "", domain.ExtractionError(fmt.Sprintf("no text extracted from page %d", page), domain.ErrPageNotFound)
	}

	return text, nil
}
