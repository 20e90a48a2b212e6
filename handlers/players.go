// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/craque/middleware"
)

type PlayerHandler struct {
	players PlayerStore
}

func NewPlayerHandler(players PlayerStore) *PlayerHandler {
	return &PlayerHandler{players: players}
}

// Image handles GET /players/{id}/image
func (h *PlayerHandler) Image(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	img, err := h.players.PlayerImage(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(img))
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}
