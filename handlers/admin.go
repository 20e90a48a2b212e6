// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/craque/middleware"
	"github.com/danielhkuo/craque/models"
)

// ListaStore adds players to the extra eligibility list.
type ListaStore interface {
	AddListaExtra(ctx context.Context, jogadorID int64, data time.Time) (int64, error)
}

type AdminHandler struct {
	lista ListaStore
	now   Clock
}

func NewAdminHandler(lista ListaStore, now Clock) *AdminHandler {
	return &AdminHandler{lista: lista, now: now}
}

// AddListaExtra handles POST /admin/lista-extra
// The entry is dated now unless the request carries a date.
func (h *AdminHandler) AddListaExtra(w http.ResponseWriter, r *http.Request) {
	var req models.AddListaExtraRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	data := h.now()
	if req.Data != nil {
		data = *req.Data
	}

	id, err := h.lista.AddListaExtra(r.Context(), req.JogadorID, data)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	admin, _ := middleware.VoterFromContext(r.Context())
	slog.Info("lista extra added", "id", id, "jogador_id", req.JogadorID, "by", admin)

	middleware.JSONResponse(w, http.StatusCreated, models.ListaExtra{
		ID:        id,
		JogadorID: req.JogadorID,
		Data:      data.UTC(),
	})
}
