package http

import (
	"net/http"

	"github.com/MKhiriev/go-lesson-sync/internal/utils"
)

type statusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	utils.WriteJSON(w, statusResponse{Status: "ok", Version: serverVersion}, http.StatusOK)
}
