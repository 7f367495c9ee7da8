package image

import (
	"context"
	"fmt"
	"strings"
	"time"

	"headshot/internal/providers/genai"
	"headshot/internal/storage"
)

// GeminiTransformer edits portraits through the Gemini client and persists
// the returned bytes to the blob store so results are plain retrievable URLs.
type GeminiTransformer struct {
	client *genai.Client
	store  storage.BlobStore
}

func NewGeminiTransformer(client *genai.Client, store storage.BlobStore) *GeminiTransformer {
	return &GeminiTransformer{client: client, store: store}
}

func (t *GeminiTransformer) Transform(ctx context.Context, req TransformRequest) ([]Result, error) {
	assets, err := t.client.EditImages(ctx, genai.EditRequest{
		SourceURLs: req.SourceURLs,
		Prompt:     req.Prompt,
		Count:      req.Count,
		Quality:    req.Quality,
		OutputSize: req.OutputSize,
		RequestID:  req.RequestID,
	})
	if err != nil {
		return nil, err
	}
	if len(assets) != req.Count {
		return nil, fmt.Errorf("transformer returned %d results, want %d", len(assets), req.Count)
	}

	stamp := time.Now().UnixMilli()
	results := make([]Result, len(assets))
	for i, asset := range assets {
		key := fmt.Sprintf("results/%d-%02d.%s", stamp, i, formatExtension(asset.Format))
		url, err := t.store.Upload(ctx, key, asset.Data, storage.UploadOptions{
			ContentType: asset.Format,
			Overwrite:   true,
		})
		if err != nil {
			return nil, fmt.Errorf("persist result %d: %w", i, err)
		}
		results[i] = Result{URL: url}
	}
	return results, nil
}

func formatExtension(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	default:
		return "png"
	}
}

var _ Transformer = (*GeminiTransformer)(nil)
