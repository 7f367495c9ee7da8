package storage

import "context"

// UploadOptions control how a blob is written.
type UploadOptions struct {
	ContentType string
	// Overwrite enables upsert semantics: an existing blob under the same key
	// is replaced instead of causing a conflict error.
	Overwrite bool
}

// BlobStore persists raw payloads and returns publicly retrievable URLs. A
// failed network call must surface as an error, never as an empty URL.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, opts UploadOptions) (string, error)
}
