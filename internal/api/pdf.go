package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// PDFFileName returns the local file name used for a downloaded document.
func PDFFileName(id int64) string {
	return fmt.Sprintf("pahani-document-%d.pdf", id)
}

// FetchPDF downloads the prepared document for a request. Returns the raw
// PDF bytes; 403 means payment is outstanding, 404 means the artifact is not
// ready yet (both surfaced as *Error).
func (c *Client) FetchPDF(ctx context.Context, id int64) ([]byte, error) {
	path := "/user/view-pahani-pdf/" + strconv.FormatInt(id, 10)
	raw, err := c.doRaw(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// DownloadPDF fetches the document and writes it into dir, returning the
// path written. The file is written atomically via a temp file so a failed
// download never leaves a truncated PDF behind.
func (c *Client) DownloadPDF(ctx context.Context, id int64, dir string) (string, error) {
	raw, err := c.FetchPDF(ctx, id)
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	dest := filepath.Join(dir, PDFFileName(id))
	tmp, err := os.CreateTemp(dir, ".pahani-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write PDF: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close PDF: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to move PDF into place: %w", err)
	}
	return dest, nil
}
