// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/utils"
)

// sync upgrades the request to a websocket and serves it as the caller's
// live session until either side closes it.
func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	token, ok := utils.GetTokenFromContext(ctx)
	if !ok {
		h.writeError(w, r, ErrEmptyToken, "no token in context")
		return
	}

	from, err := parseFrom(r.URL.Query().Get("from"))
	if err != nil {
		h.writeError(w, r, err, "bad sync request")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already answered
		log.Err(err).Msg("websocket upgrade failed")
		return
	}
	conn.SetReadLimit(maxFrameSize)

	session, err := h.hub.Connect(ctx, token.Name, from, conn)
	if err != nil {
		log.Err(err).Str("name", token.Name).Msg("session refused")
		closing := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error())
		_ = conn.WriteMessage(websocket.CloseMessage, closing)
		_ = conn.Close()
		return
	}

	log.Info().Str("name", token.Name).Int64("from", from).Msg("session started")
	session.Run(ctx)
	log.Info().Str("name", token.Name).Msg("session ended")
}

// parseFrom reads the version a reconnecting client already holds. An empty
// value means the client holds nothing.
func parseFrom(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	from, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || from < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFrom, raw)
	}
	return from, nil
}
