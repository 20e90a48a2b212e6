// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielhkuo/craque/auth"
	"github.com/danielhkuo/craque/models"
)

type contextKey struct{}

var voterKey contextKey

// PlayerLookup resolves a voter email to a player.
type PlayerLookup interface {
	GetPlayerByEmail(ctx context.Context, email string) (models.Player, error)
}

// Identity authenticates requests carrying "Authorization: Bearer <token>".
type Identity struct {
	secret  string
	players PlayerLookup
}

func NewIdentity(secret string, players PlayerLookup) *Identity {
	return &Identity{secret: secret, players: players}
}

// RequireVoter rejects requests without a valid session token and stores
// the voter email in the request context.
func (id *Identity) RequireVoter(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := id.authenticate(w, r)
		if !ok {
			return
		}
		next(w, r.WithContext(WithVoter(r.Context(), email)))
	}
}

// RequireAdmin is RequireVoter restricted to players with the admin flag.
func (id *Identity) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := id.authenticate(w, r)
		if !ok {
			return
		}

		p, err := id.players.GetPlayerByEmail(r.Context(), email)
		if errors.Is(err, models.ErrNotFound) {
			ErrorResponse(w, http.StatusForbidden, "admin access required")
			return
		}
		if err != nil {
			WriteError(w, r, err)
			return
		}
		if !p.Admin {
			ErrorResponse(w, http.StatusForbidden, "admin access required")
			return
		}
		next(w, r.WithContext(WithVoter(r.Context(), email)))
	}
}

func (id *Identity) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		ErrorResponse(w, http.StatusUnauthorized, "missing bearer token")
		return "", false
	}
	email, err := auth.VerifySessionToken(strings.TrimSpace(token), id.secret)
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, err.Error())
		return "", false
	}
	return email, true
}

func WithVoter(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, voterKey, email)
}

// VoterFromContext returns the authenticated voter email.
func VoterFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(voterKey).(string)
	return email, ok && email != ""
}
