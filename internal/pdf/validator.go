package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/dragoncodes/pdf-math-localisator/internal/domain"
)

var pdfMagic = []byte("%PDF-")

// Validator provides input validation for downloaded documents
type Validator struct {
	conf *model.Configuration
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{conf: model.NewDefaultConfiguration()}
}

// ValidatePDFPath validates that a path points to a readable file that starts
// with a PDF header.
func (v *Validator) ValidatePDFPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.ValidationError("file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ValidationError(fmt.Sprintf("file does not exist: %s", path), err)
		}
		return domain.ValidationError(fmt.Sprintf("cannot access file: %s", path), err)
	}

	if info.IsDir() {
		return domain.ValidationError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}

	if info.Size() == 0 {
		return domain.ValidationError(fmt.Sprintf("file is empty: %s", path), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		return domain.ValidationError(fmt.Sprintf("cannot open file: %s", path), err)
	}
	defer file.Close()

	header := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(file, header); err != nil || !bytes.Equal(header, pdfMagic) {
		return domain.ValidationError(fmt.Sprintf("file does not start with a PDF header: %s", path), err)
	}

	return nil
}

// ValidateStructure runs pdfcpu's validator over the document.
func (v *Validator) ValidateStructure(path string) error {
	if err := api.ValidateFile(path, v.conf); err != nil {
		return domain.ValidationError("document failed structural validation", err)
	}
	return nil
}

// Check runs every validation and returns the problems found. None of them
// stop a run: page extraction is the only authority on where the document
// ends.
func (v *Validator) Check(path string) []error {
	if err := v.ValidatePDFPath(path); err != nil {
		return []error{err}
	}
	if err := v.ValidateStructure(path); err != nil {
		return []error{err}
	}
	return nil
}
