package http

import (
	"net/http"

	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/utils"
)

// login issues a session token for the roster member named by the "auth"
// query parameter.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	name := r.URL.Query().Get("auth")
	if name == "" {
		log.Err(ErrEmptyName).Send()
		utils.WriteError(w, ErrEmptyName.Error(), http.StatusBadRequest)
		return
	}

	response, err := h.hub.Login(ctx, name)
	if err != nil {
		h.writeError(w, r, err, "login failed")
		return
	}

	log.Debug().Str("name", response.Name).Str("role", response.Role).Msg("member logged in")
	utils.WriteJSON(w, response, http.StatusOK)
}

// writeError logs err and answers with the status it maps to. Server-side
// failures are reported by status text only.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFromError(err)
	logger.FromRequest(r).Err(err).Int("status", status).Msg(msg)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = ""
	}
	utils.WriteError(w, message, status)
}
