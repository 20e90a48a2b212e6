// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/craque/auth"
	"github.com/danielhkuo/craque/middleware"
	"github.com/danielhkuo/craque/models"
)

// PlayerStore is the player lookup used by login and player endpoints.
type PlayerStore interface {
	GetPlayerByEmail(ctx context.Context, email string) (models.Player, error)
	PlayerImage(ctx context.Context, id int64) ([]byte, error)
}

type AuthHandler struct {
	players PlayerStore
	secret  string
}

func NewAuthHandler(players PlayerStore, secret string) *AuthHandler {
	return &AuthHandler{players: players, secret: secret}
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	p, err := h.players.GetPlayerByEmail(r.Context(), req.Email)
	if errors.Is(err, models.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, auth.ErrInvalidPassword.Error())
		return
	}
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	if err := auth.CheckPassword(p.PasswordHash, req.Password); err != nil {
		slog.Info("login failed", "player_id", p.ID)
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	slog.Info("login", "player_id", p.ID)
	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token: auth.IssueSessionToken(p.Email, h.secret),
	})
}
