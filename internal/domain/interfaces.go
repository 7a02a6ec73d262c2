package domain

import "context"

// PageExtractor returns the plain text of a single page of a local PDF.
type PageExtractor interface {
	// ExtractPage returns the text of the 1-based page. Any error, including
	// ErrPageNotFound, marks the end of the document for discovery.
	ExtractPage(ctx context.Context, pdfPath string, page int) (string, error)
}

// Translator translates one page of text into the target language
type Translator interface {
	Translate(ctx context.Context, text, language string) (string, error)
}

// Downloader fetches a remote document into a local file
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}
