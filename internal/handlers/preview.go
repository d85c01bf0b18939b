package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// GetPreview serves a verified image payload from the preview store.
// IDs are minted per build; a stale ID after a new manifest simply 404s
// and the client re-requests the gallery.
func (h *Handlers) GetPreview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	payload, contentType, ok := h.store.Get(id)
	if !ok {
		writeJSONError(w, "unknown preview id", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(payload); err != nil {
		// Client went away mid-transfer; nothing to recover.
		return
	}
}
