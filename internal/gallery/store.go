package gallery

import (
	"sync"

	"manifest-gallery/internal/metrics"

	"github.com/google/uuid"
)

type storeItem struct {
	payload     []byte
	contentType string
}

// Store holds verified preview payloads for the current session, keyed
// by opaque IDs handed out to the renderer. It enforces a byte budget
// by evicting the oldest payloads first; previews are ephemeral and a
// re-fetch is always possible, so eviction is safe.
type Store struct {
	mu       sync.Mutex
	maxBytes int64
	size     int64
	order    []string
	items    map[string]storeItem
}

// NewStore creates a Store with the given byte budget. A non-positive
// budget disables eviction.
func NewStore(maxBytes int64) *Store {
	return &Store{
		maxBytes: maxBytes,
		items:    make(map[string]storeItem),
	}
}

// Put stores a payload and returns its ID.
func (s *Store) Put(payload []byte, contentType string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.items[id] = storeItem{payload: payload, contentType: contentType}
	s.order = append(s.order, id)
	s.size += int64(len(payload))

	for s.maxBytes > 0 && s.size > s.maxBytes && len(s.order) > 1 {
		s.evictOldestLocked()
	}

	s.publishLocked()
	return id
}

// Get returns the payload and content type for an ID.
func (s *Store) Get(id string) ([]byte, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, "", false
	}
	return item.payload, item.contentType, true
}

// Reset drops every stored payload. Called when a new manifest
// supersedes the gallery the payloads belonged to.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]storeItem)
	s.order = nil
	s.size = 0
	s.publishLocked()
}

// Size returns the current total payload size in bytes.
func (s *Store) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Len returns the number of stored payloads.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) evictOldestLocked() {
	id := s.order[0]
	s.order = s.order[1:]
	if item, ok := s.items[id]; ok {
		s.size -= int64(len(item.payload))
		delete(s.items, id)
		metrics.PreviewEvictionsTotal.Inc()
	}
}

func (s *Store) publishLocked() {
	metrics.PreviewStoreBytes.Set(float64(s.size))
	metrics.PreviewStoreEntries.Set(float64(len(s.items)))
}
