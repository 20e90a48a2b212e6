// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /week", middleware.WithLogging(handler))

Logs method, path, status, request id and duration_ms on completion and
records the request in the Prometheus HTTP metrics.

# Identity

Voter routes require "Authorization: Bearer <token>" issued at login:

	ident := middleware.NewIdentity(cfg.SessionSecret, store)
	mux.HandleFunc("POST /voting/create", ident.RequireVoter(h.Create))

Handlers read the voter with middleware.VoterFromContext. RequireAdmin also
checks the player's admin flag.

# Rate Limiting

	rl := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	mux.HandleFunc("POST /login", rl.Limit(h.Login))

One token bucket per client IP. Over-budget requests get 429.

# CORS

	handler := middleware.CORS(cfg.CORSOrigins)(mux)

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.WriteError(w, r, err)

WriteError maps models.ErrNotFound, ErrForbidden, ErrConflict and
ErrValidation to 404, 403, 409 and 400. Anything else is a logged 500.

	var req models.CastVoteRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
*/
package middleware
