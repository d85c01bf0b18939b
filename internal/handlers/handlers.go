package handlers

import (
	"sync"
	"time"

	"manifest-gallery/internal/gallery"
	"manifest-gallery/internal/templates"
)

// Handlers owns the HTTP surface and the session state the core
// pipeline deliberately does not keep: the active template set, the
// last manifest fingerprint, and the last rendered gallery. The core
// packages stay pure; all mutability lives here, behind one mutex.
type Handlers struct {
	builder *gallery.Builder
	store   *gallery.Store

	mu            sync.Mutex
	set           *templates.Set
	lastSelection string
	lastGallery   *gallery.Gallery

	startTime time.Time
}

// New creates the handler set. set may be nil when no startup template
// configuration was provided; gallery requests are rejected until a
// valid one is uploaded.
func New(builder *gallery.Builder, store *gallery.Store, set *templates.Set) *Handlers {
	return &Handlers{
		builder:   builder,
		store:     store,
		set:       set,
		startTime: time.Now(),
	}
}

// TemplatesLoaded reports whether a valid template set is active.
func (h *Handlers) TemplatesLoaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.set != nil
}
