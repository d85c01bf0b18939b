package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"manifest-gallery/internal/logging"
	"manifest-gallery/internal/manifest"
	"manifest-gallery/internal/metrics"
)

// maxManifestBytes caps uploaded manifest size.
const maxManifestBytes = 4 << 20 // 4MB

// GalleryRequest is the JSON body for POST /api/gallery.
type GalleryRequest struct {
	Text   string   `json:"text"`
	Mode   string   `json:"mode"`
	Labels []string `json:"labels"`
}

// GalleryResponse wraps the render model with a flag telling the client
// whether it was served from the unchanged-manifest cache.
type GalleryResponse struct {
	Cached  bool        `json:"cached"`
	Gallery interface{} `json:"gallery"`
}

// BuildGallery runs the gated manifest pipeline. When the manifest text
// and template selection are byte-identical to the previous request the
// cached render model is returned and no parsing or fetching happens.
func (h *Handlers) BuildGallery(w http.ResponseWriter, r *http.Request) {
	var req GalleryRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxManifestBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSONError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	mode, err := manifest.ParseMode(req.Mode)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Labels) == 0 {
		writeJSONError(w, "at least one template label must be selected", http.StatusBadRequest)
		return
	}

	// The build holds the session lock end to end: a manifest submitted
	// mid-build supersedes this one only after it completes, matching
	// the synchronous interaction model.
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.set == nil {
		writeJSONError(w, "no valid template configuration loaded", http.StatusConflict)
		return
	}

	selected, err := h.set.Select(mode, req.Labels)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	selection := string(mode) + "|" + strings.Join(req.Labels, ",")
	if h.lastGallery != nil && h.lastSelection == selection &&
		!manifest.Changed(h.lastGallery.Fingerprint, req.Text) {
		metrics.GalleryCacheHitsTotal.Inc()
		logging.Debug("manifest unchanged (%s), serving cached gallery", h.lastGallery.Fingerprint[:12])
		w.Header().Set("Content-Type", "application/json")
		writeJSON(w, GalleryResponse{Cached: true, Gallery: h.lastGallery})
		return
	}

	// New manifest or new selection: previous previews are superseded.
	h.store.Reset()
	g := h.builder.Build(r.Context(), req.Text, mode, selected)
	h.lastGallery = g
	h.lastSelection = selection

	logging.Info("built %s gallery: %d sections, %d warnings", mode, len(g.Sections), len(g.Warnings))

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, GalleryResponse{Cached: false, Gallery: g})
}

// GetGallery returns the last rendered gallery, if any.
func (h *Handlers) GetGallery(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	g := h.lastGallery
	h.mu.Unlock()

	if g == nil {
		writeJSONError(w, "no gallery has been built yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, GalleryResponse{Cached: true, Gallery: g})
}
