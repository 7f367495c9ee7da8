package upload

import (
	"sync"

	"github.com/google/uuid"
)

// PreviewStore hands out revocable in-memory preview references for uploaded
// payloads. A reference stays valid until it is released, which happens on
// re-upload and on workflow reset.
type PreviewStore struct {
	mu       sync.RWMutex
	previews map[string]Preview
}

// Preview is the payload bound to a preview reference.
type Preview struct {
	MIME string
	Data []byte
}

func NewPreviewStore() *PreviewStore {
	return &PreviewStore{previews: make(map[string]Preview)}
}

// Put allocates a fresh preview reference for the payload.
func (s *PreviewStore) Put(mime string, data []byte) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.previews[id] = Preview{MIME: mime, Data: data}
	s.mu.Unlock()
	return id
}

// Get resolves a preview reference. The second return reports whether the
// reference is still live.
func (s *PreviewStore) Get(id string) (Preview, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.previews[id]
	return p, ok
}

// Release revokes a preview reference. Releasing an unknown or already
// released reference is a no-op.
func (s *PreviewStore) Release(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	delete(s.previews, id)
	s.mu.Unlock()
}

// Len returns the number of live preview references.
func (s *PreviewStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.previews)
}
