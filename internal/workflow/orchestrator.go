package workflow

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"headshot/internal/compose"
	"headshot/internal/domain"
	image "headshot/internal/providers/image"
	"headshot/internal/storage"
)

// Fixed generation parameters for every transformer call.
const (
	qualityTier = "high"
	outputSize  = "1024x1024"
)

// Progress milestones, in the order they are reported within one attempt.
const (
	progressStart       = 0
	progressUploadBegin = 10
	progressUploaded    = 30
	progressPromptReady = 50
	progressTransformed = 90
	progressComplete    = 100
)

const genericFailureNotice = "image generation failed, please try again"

// Orchestrator sequences one generation attempt: durable upload of the source
// photo, prompt composition, the single atomic transformer call, and result
// mapping. The two network operations are awaited sequentially; milestones
// are reported strictly after the preceding step resolves.
type Orchestrator struct {
	store       storage.BlobStore
	transformer image.Transformer
	logger      zerolog.Logger
	now         func() time.Time
}

func NewOrchestrator(store storage.BlobStore, transformer image.Transformer, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		store:       store,
		transformer: transformer,
		logger:      logger,
		now:         time.Now,
	}
}

// Run executes one attempt and returns the full replacement result set. The
// inputs are read-only copies; Run never mutates session state directly.
func (o *Orchestrator) Run(ctx context.Context, source domain.SourceImage, req domain.GenerationRequest, report func(int)) ([]domain.GeneratedResult, error) {
	if report == nil {
		report = func(int) {}
	}
	attempt := o.now()
	requestID := uuid.NewString()
	quantity := domain.ClampQuantity(req.Quantity)

	report(progressStart)
	report(progressUploadBegin)

	key := sourceKey(attempt, source.Filename)
	publicURL, err := o.store.Upload(ctx, key, source.Data, storage.UploadOptions{
		ContentType: source.MIME,
		Overwrite:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("durable upload: %w", err)
	}
	if publicURL == "" {
		return nil, errors.New("durable upload returned an empty URL")
	}
	report(progressUploaded)

	prompt := compose.Compose(req.Style, req.FreeText)
	report(progressPromptReady)

	out, err := o.transformer.Transform(ctx, image.TransformRequest{
		SourceURLs: []string{publicURL},
		Prompt:     prompt,
		Quality:    qualityTier,
		Count:      quantity,
		OutputSize: outputSize,
		RequestID:  requestID,
	})
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	if len(out) != quantity {
		return nil, fmt.Errorf("transformer returned %d results, want %d", len(out), quantity)
	}
	report(progressTransformed)

	results := make([]domain.GeneratedResult, len(out))
	for i, r := range out {
		if r.URL == "" {
			return nil, fmt.Errorf("transformer returned an empty URL at index %d", i)
		}
		results[i] = domain.GeneratedResult{ID: domain.ResultID(attempt, i), URL: r.URL}
	}
	report(progressComplete)

	o.logger.Info().
		Str("request_id", requestID).
		Str("style", string(req.Style)).
		Int("quantity", quantity).
		Msg("generation attempt completed")

	return results, nil
}

// Generate starts an attempt for the session on a background goroutine. The
// Generating stage transition happens synchronously so the caller can report
// the busy state immediately; the outcome lands through the session's attempt
// token. In-flight work is deliberately not cancellable.
func (o *Orchestrator) Generate(s *Session) error {
	source, req, attempt, err := s.beginGeneration()
	if err != nil {
		return err
	}
	go func() {
		results, err := o.Run(context.Background(), source, req, func(p int) {
			s.setProgress(attempt, p)
		})
		if err != nil {
			o.logger.Warn().Err(err).Str("session_id", s.ID).Msg("generation attempt failed")
			s.failGeneration(attempt, NormalizeFailure(err))
			return
		}
		s.completeGeneration(attempt, results)
	}()
	return nil
}

// NormalizeFailure converts an orchestration error into a human-readable
// notice, falling back to a generic message when the error carries none.
func NormalizeFailure(err error) string {
	if err == nil {
		return genericFailureNotice
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return genericFailureNotice
	}
	return msg
}

// sourceKey builds a collision-resistant storage key from the attempt
// timestamp and the sanitized original filename.
func sourceKey(attempt time.Time, filename string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	if name == "" || name == "." {
		name = "upload"
	}
	return fmt.Sprintf("sources/%d-%s", attempt.UnixMilli(), name)
}
