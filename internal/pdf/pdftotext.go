package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/dragoncodes/pdf-math-localisator/internal/config"
	"github.com/dragoncodes/pdf-math-localisator/internal/domain"
)

// PdftotextExtractor shells out to poppler's pdftotext, one process per page.
type PdftotextExtractor struct {
	binary string
}

// NewPdftotextExtractor creates an extractor invoking the given binary
func NewPdftotextExtractor(binary string) *PdftotextExtractor {
	if binary == "" {
		binary = config.DefaultPdftotextPath
	}
	return &PdftotextExtractor{binary: binary}
}

// args builds the argument vector: layout mode, a single-page range and "-"
// so the text is written to stdout.
func (e *PdftotextExtractor) args(pdfPath string, page int) []string {
	n := strconv.Itoa(page)
	return []string{"-layout", "-f", n, "-l", n, pdfPath, "-"}
}

// ExtractPage implements domain.PageExtractor
func (e *PdftotextExtractor) ExtractPage(ctx context.Context, pdfPath string, page int) (string, error) {
	if page < 1 {
		return "", domain.ExtractionError(fmt.Sprintf("invalid page number %d", page), domain.ErrPageNotFound)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, e.args(pdfPath, page)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", domain.ExtractionError(
			fmt.Sprintf("pdftotext failed on page %d: %s", page, strings.TrimSpace(stderr.String())), err)
	}

	if stdout.Len() == 0 {
		return "", domain.ExtractionError(fmt.Sprintf("no text extracted from page %d", page), domain.ErrPageNotFound)
	}

	return strings.ToValidUTF8(stdout.String(), "\uFFFD"), nil
}
