// Package export fetches generated result bytes so they can be handed to the
// client as downloads, individually or as a single bundled archive.
package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"headshot/internal/domain"
)

// Download is one fetched result ready to be saved client-side.
type Download struct {
	Filename string
	MIME     string
	Data     []byte
}

// Exporter retrieves result content over plain HTTP.
type Exporter struct {
	client *http.Client
}

func NewExporter(client *http.Client) *Exporter {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Exporter{client: client}
}

// ExportOne fetches the result's remote content. The filename is derived from
// the result id plus an extension matching the served content type.
func (e *Exporter) ExportOne(ctx context.Context, result domain.GeneratedResult) (*Download, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, result.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrExportFailure, err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", domain.ErrExportFailure, result.ID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: status %d", domain.ErrExportFailure, result.ID, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrExportFailure, result.ID, err)
	}
	mime := resp.Header.Get("Content-Type")
	return &Download{
		Filename: result.ID + extensionFor(mime),
		MIME:     mime,
		Data:     data,
	}, nil
}

// ExportAll fetches every result sequentially. The first failure aborts the
// batch; there is no partial-success reporting, callers surface the single
// failure notice instead.
func (e *Exporter) ExportAll(ctx context.Context, results []domain.GeneratedResult) ([]Download, error) {
	downloads := make([]Download, 0, len(results))
	for _, result := range results {
		d, err := e.ExportOne(ctx, result)
		if err != nil {
			return nil, err
		}
		downloads = append(downloads, *d)
	}
	return downloads, nil
}

func extensionFor(mime string) string {
	switch strings.ToLower(strings.TrimSpace(strings.SplitN(mime, ";", 2)[0])) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
