// Package pdf provides page text extractors and document validation.
package pdf

import (
	"fmt"

	"github.com/dragoncodes/pdf-math-localisator/internal/config"
	"github.com/dragoncodes/pdf-math-localisator/internal/domain"
)

// New returns the extractor selected by the configuration
func New(cfg config.ExtractorConfig) (domain.PageExtractor, error) {
	switch cfg.Backend {
	case config.BackendPdftotext, "":
		return NewPdftotextExtractor(cfg.PdftotextPath), nil
	case config.BackendFitz:
		return NewFitzExtractor(), nil
	case config.BackendNative:
		return NewNativeExtractor(), nil
	default:
		return nil, domain.ConfigError(fmt.Sprintf("unknown extractor backend %q", cfg.Backend), nil)
	}
}
