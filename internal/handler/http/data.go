package http

import (
	"net/http"

	"github.com/MKhiriev/go-lesson-sync/internal/utils"
)

// data returns the current lesson state as one update frame per top-level
// path.
func (h *Handler) data(w http.ResponseWriter, r *http.Request) {
	frames, err := h.hub.Frames(r.Context())
	if err != nil {
		h.writeError(w, r, err, "error reading lesson state")
		return
	}

	utils.WriteJSON(w, frames, http.StatusOK)
}
