package image

import "context"

// TransformRequest describes one atomic transformation call: source photo
// URL(s), the composed prompt, and fixed generation parameters.
type TransformRequest struct {
	SourceURLs []string
	Prompt     string
	Quality    string
	Count      int
	OutputSize string
	RequestID  string
}

// Result is one transformed output reference.
type Result struct {
	URL string
}

// Transformer is the contract implemented by all image providers. A call
// either yields exactly Count results or fails as a whole; partial output is
// an error, never a truncated success.
type Transformer interface {
	Transform(ctx context.Context, req TransformRequest) ([]Result, error)
}
