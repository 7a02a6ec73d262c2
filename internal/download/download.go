// Package download fetches the source document to a local file.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dragoncodes/pdf-math-localisator/internal/domain"
)

// Downloader performs a single blocking GET per document
type Downloader struct {
	httpClient *http.Client
	logger     *domain.Logger
}

// NewDownloader creates a downloader. A nil client means http.DefaultClient.
func NewDownloader(httpClient *http.Client) *Downloader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Downloader{
		httpClient: httpClient,
		logger:     domain.DefaultLogger.WithPrefix("download"),
	}
}

// Download writes the body at url to dest. The body goes to dest+".part" first
// and is renamed into place, so a failed download never leaves a truncated
// document behind.
func (d *Downloader) Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.IOError("Failed to build download request", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return domain.IOError("Failed to download document", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.IOError(fmt.Sprintf("unexpected status downloading document: %s", resp.Status), nil)
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.IOError("Failed to create download directory", err)
		}
	}

	tmp := dest + ".part"
	tmpFile, err := os.Create(tmp)
	if err != nil {
		return domain.IOError("Failed to create document file", err)
	}

	n, err := io.Copy(tmpFile, resp.Body)
	if err == nil {
		err = tmpFile.Sync()
	}
	if closeErr := tmpFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return domain.IOError("Failed to write document", err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return domain.IOError("Failed to move document into place", err)
	}

	d.logger.Debug("Downloaded %d bytes from %s to %s", n, url, dest)
	return nil
}
