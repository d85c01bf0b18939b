package handlers

import (
	"io"
	"net/http"

	"manifest-gallery/internal/logging"
	"manifest-gallery/internal/manifest"
	"manifest-gallery/internal/templates"
)

// maxTemplateConfigBytes caps uploaded template configuration size.
const maxTemplateConfigBytes = 1 << 20 // 1MB

// TemplatesResponse lists the labels available per content kind.
type TemplatesResponse struct {
	Loaded bool     `json:"loaded"`
	Image  []string `json:"image"`
	Video  []string `json:"video"`
}

// GetTemplates returns the labels available in the active template set.
func (h *Handlers) GetTemplates(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	set := h.set
	h.mu.Unlock()

	resp := TemplatesResponse{}
	if set != nil {
		resp.Loaded = true
		resp.Image = set.Labels(manifest.ModeImage)
		resp.Video = set.Labels(manifest.ModeVideo)
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, resp)
}

// UploadTemplates replaces the session's template set with an uploaded
// TOML configuration unit. A malformed unit is rejected wholesale and
// the previous set (if any) stays active; an accepted unit invalidates
// the cached gallery since its URLs may no longer be reproducible.
func (h *Handlers) UploadTemplates(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxTemplateConfigBytes+1))
	if err != nil {
		writeJSONError(w, "failed to read configuration body", http.StatusBadRequest)
		return
	}
	if len(body) > maxTemplateConfigBytes {
		writeJSONError(w, "configuration exceeds 1MB", http.StatusRequestEntityTooLarge)
		return
	}

	set, err := templates.Load(body)
	if err != nil {
		logging.Warn("rejected template configuration: %v", err)
		writeJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	h.mu.Lock()
	h.set = set
	h.lastSelection = ""
	h.lastGallery = nil
	h.mu.Unlock()
	h.store.Reset()

	logging.Info("template configuration replaced: %d image, %d video labels",
		len(set.Labels(manifest.ModeImage)), len(set.Labels(manifest.ModeVideo)))

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, TemplatesResponse{
		Loaded: true,
		Image:  set.Labels(manifest.ModeImage),
		Video:  set.Labels(manifest.ModeVideo),
	})
}
