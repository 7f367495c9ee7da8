package workflow

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"headshot/internal/domain"
	"headshot/internal/upload"
)

// state is the stage-tagged bundle of workflow data. Every field outside the
// stage tag is scoped to it, and the constructors below enforce the per-stage
// invariants so an illegal combination (Results with an empty result set,
// Generating without a source image) cannot be assembled.
type state struct {
	stage    domain.Stage
	source   *domain.SourceImage
	request  domain.GenerationRequest
	progress int
	results  []domain.GeneratedResult
	notice   string
}

func uploadState(source *domain.SourceImage, req domain.GenerationRequest) state {
	return state{stage: domain.StageUpload, source: source, request: req}
}

func customizeState(source *domain.SourceImage, req domain.GenerationRequest, notice string) (state, error) {
	if source == nil {
		return state{}, domain.ErrNoSourceImage
	}
	return state{stage: domain.StageCustomize, source: source, request: req, notice: notice}, nil
}

func generatingState(source *domain.SourceImage, req domain.GenerationRequest) (state, error) {
	if source == nil {
		return state{}, domain.ErrNoSourceImage
	}
	return state{stage: domain.StageGenerating, source: source, request: req}, nil
}

func resultsState(source *domain.SourceImage, req domain.GenerationRequest, results []domain.GeneratedResult) (state, error) {
	if source == nil {
		return state{}, domain.ErrNoSourceImage
	}
	if len(results) == 0 {
		return state{}, fmt.Errorf("%w: results stage requires a non-empty result set", domain.ErrInvalidTransition)
	}
	return state{stage: domain.StageResults, source: source, request: req, progress: 100, results: results}, nil
}

// Session is one guided workflow from upload to results. All mutation goes
// through methods holding the session mutex, so HTTP handlers and the
// generation goroutine observe transitions atomically.
type Session struct {
	ID string

	mu        sync.Mutex
	st        state
	attempt   uint64
	previews  *upload.PreviewStore
	createdAt time.Time
	updatedAt time.Time
}

// NewSession starts a fresh workflow at the Upload stage with default
// generation parameters.
func NewSession(previews *upload.PreviewStore) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		st:        uploadState(nil, domain.DefaultGenerationRequest()),
		previews:  previews,
		createdAt: now,
		updatedAt: now,
	}
}

// View is an immutable snapshot of the session for presentation.
type View struct {
	ID        string
	Stage     domain.Stage
	HasSource bool
	Filename  string
	PreviewID string
	Request   domain.GenerationRequest
	Progress  int
	Results   []domain.GeneratedResult
	Notice    string
	UpdatedAt time.Time
}

// Snapshot returns a consistent view of the current stage and its data.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{
		ID:        s.ID,
		Stage:     s.st.stage,
		HasSource: s.st.source != nil,
		Request:   s.st.request,
		Progress:  s.st.progress,
		Notice:    s.st.notice,
		UpdatedAt: s.updatedAt,
	}
	if s.st.source != nil {
		v.Filename = s.st.source.Filename
		v.PreviewID = s.st.source.PreviewID
	}
	if len(s.st.results) > 0 {
		v.Results = append([]domain.GeneratedResult(nil), s.st.results...)
	}
	return v
}

// Results returns a copy of the current result set.
func (s *Session) Results() []domain.GeneratedResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.GeneratedResult(nil), s.st.results...)
}

// AttachSource stores a validated source image. Only legal while on the
// Upload stage; a prior image's preview reference is released so re-uploads
// do not leak.
func (s *Session) AttachSource(img *domain.SourceImage) error {
	if img == nil {
		return domain.ErrNoSourceImage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.stage != domain.StageUpload {
		return fmt.Errorf("%w: upload only allowed on the upload stage", domain.ErrInvalidTransition)
	}
	s.releasePreviewLocked()
	s.st = uploadState(img, s.st.request)
	s.touchLocked()
	return nil
}

// Confirm advances Upload -> Customize. Blocked without a validated source.
func (s *Session) Confirm() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.stage != domain.StageUpload {
		return fmt.Errorf("%w: confirm from %s", domain.ErrInvalidTransition, s.st.stage)
	}
	next, err := customizeState(s.st.source, s.st.request, "")
	if err != nil {
		return err
	}
	s.st = next
	s.touchLocked()
	return nil
}

// RequestUpdate mutates the generation request while on the Customize stage
// (the self-loop transition). Nil fields are left untouched; quantity is
// clamped to its bounds rather than rejected.
type RequestUpdate struct {
	Style    *string
	FreeText *string
	Quantity *int
}

// UpdateRequest applies a Customize-stage edit.
func (s *Session) UpdateRequest(upd RequestUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.stage != domain.StageCustomize {
		return fmt.Errorf("%w: edits only allowed on the customize stage", domain.ErrInvalidTransition)
	}
	if upd.Style != nil {
		s.st.request.Style = domain.NormalizeStyle(*upd.Style)
	}
	if upd.FreeText != nil {
		s.st.request.FreeText = *upd.FreeText
	}
	if upd.Quantity != nil {
		s.st.request.Quantity = domain.ClampQuantity(*upd.Quantity)
	}
	s.touchLocked()
	return nil
}

// Back returns Customize -> Upload, keeping the stored source image so the
// user can swap it without losing their request settings.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.stage != domain.StageCustomize {
		return fmt.Errorf("%w: back from %s", domain.ErrInvalidTransition, s.st.stage)
	}
	s.st = uploadState(s.st.source, s.st.request)
	s.touchLocked()
	return nil
}

// Reset returns to the Upload stage from any stage, clearing the source
// image (and its preview reference), the result set, and restoring default
// generation parameters. A generation still in flight becomes stale and its
// outcome is discarded when it lands.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releasePreviewLocked()
	s.attempt++
	s.st = uploadState(nil, domain.DefaultGenerationRequest())
	s.touchLocked()
}

// beginGeneration moves Customize/Results -> Generating and hands back copies
// of the inputs for the orchestrator. The attempt token ties the eventual
// outcome to this transition; the in-flight guard is the Generating stage
// itself.
func (s *Session) beginGeneration() (domain.SourceImage, domain.GenerationRequest, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.st.stage {
	case domain.StageGenerating:
		return domain.SourceImage{}, domain.GenerationRequest{}, 0, domain.ErrGenerationInFlight
	case domain.StageCustomize, domain.StageResults:
	default:
		return domain.SourceImage{}, domain.GenerationRequest{}, 0, fmt.Errorf("%w: generate from %s", domain.ErrInvalidTransition, s.st.stage)
	}
	next, err := generatingState(s.st.source, s.st.request)
	if err != nil {
		return domain.SourceImage{}, domain.GenerationRequest{}, 0, err
	}
	s.attempt++
	s.st = next
	s.touchLocked()
	return *s.st.source, s.st.request, s.attempt, nil
}

// setProgress records a milestone for the given attempt. Stale attempts are
// ignored, and progress never moves backwards within one attempt.
func (s *Session) setProgress(attempt uint64, progress int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt != s.attempt || s.st.stage != domain.StageGenerating {
		return
	}
	if progress > s.st.progress {
		s.st.progress = progress
	}
	s.touchLocked()
}

// completeGeneration lands a successful attempt: Generating -> Results with
// the prior result set replaced wholesale.
func (s *Session) completeGeneration(attempt uint64, results []domain.GeneratedResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt != s.attempt || s.st.stage != domain.StageGenerating {
		return
	}
	next, err := resultsState(s.st.source, s.st.request, results)
	if err != nil {
		// An empty success is treated like any other generation failure.
		s.st, _ = customizeState(s.st.source, s.st.request, genericFailureNotice)
		s.touchLocked()
		return
	}
	s.st = next
	s.touchLocked()
}

// failGeneration lands a failed attempt: Generating -> Customize with the
// source image and request untouched so the user can retry immediately.
func (s *Session) failGeneration(attempt uint64, notice string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt != s.attempt || s.st.stage != domain.StageGenerating {
		return
	}
	s.st, _ = customizeState(s.st.source, s.st.request, notice)
	s.touchLocked()
}

// Touched reports the last time any operation mutated the session.
func (s *Session) Touched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) touchLocked() {
	s.updatedAt = time.Now()
}

func (s *Session) releasePreviewLocked() {
	if s.previews != nil && s.st.source != nil {
		s.previews.Release(s.st.source.PreviewID)
	}
}
