package domain

import (
	"fmt"
	"time"
)

// GeneratedResult is one AI-produced output image reference. The result set
// of a session is replaced wholesale on every (re)generation.
type GeneratedResult struct {
	ID  string
	URL string
}

// ResultID derives a stable per-run identifier from the attempt timestamp and
// the positional index. The index is always part of the id so two runs inside
// the same millisecond cannot produce colliding keys.
func ResultID(attempt time.Time, index int) string {
	return fmt.Sprintf("headshot-%d-%d", attempt.UnixMilli(), index)
}
