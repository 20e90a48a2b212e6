// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/craque/apuracao"
	"github.com/danielhkuo/craque/attendance"
	"github.com/danielhkuo/craque/cliparse"
	"github.com/danielhkuo/craque/eligibility"
	"github.com/danielhkuo/craque/handlers"
	"github.com/danielhkuo/craque/middleware"
	"github.com/danielhkuo/craque/store"
	"github.com/danielhkuo/craque/voting"
)

func NewRouter(st *store.Store, src attendance.Source, cfg cliparse.Config, now handlers.Clock) http.Handler {
	mux := http.NewServeMux()

	// Services
	resolver := eligibility.NewResolver(st, src)
	votingSvc := voting.NewService(st, resolver)
	apuracaoSvc := apuracao.NewService(st)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(st, cfg.SessionSecret)
	weekHandler := handlers.NewWeekHandler(now)
	ballotHandler := handlers.NewBallotHandler(votingSvc, resolver, now)
	rankingHandler := handlers.NewRankingHandler(apuracaoSvc, now)
	playerHandler := handlers.NewPlayerHandler(st)
	adminHandler := handlers.NewAdminHandler(st, now)

	identity := middleware.NewIdentity(cfg.SessionSecret, st)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)

	voter := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(identity.RequireVoter(h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(identity.RequireAdmin(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := st.DB().PingContext(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Session
	mux.HandleFunc("POST /login", middleware.WithLogging(limiter.Limit(authHandler.Login)))

	// Week and eligibility
	mux.HandleFunc("GET /week", middleware.WithLogging(weekHandler.GetWeek))
	mux.HandleFunc("GET /eligible", voter(ballotHandler.ListEligible))

	// Ballots
	mux.HandleFunc("GET /voting", voter(ballotHandler.ListMine))
	mux.HandleFunc("POST /voting/create", voter(limiter.Limit(ballotHandler.Create)))
	mux.HandleFunc("GET /voting/{id}", voter(ballotHandler.Get))
	mux.HandleFunc("POST /voting/{id}", voter(limiter.Limit(ballotHandler.CastVote)))

	// Rankings (public once published)
	mux.HandleFunc("GET /week_ranking/{week_id}", middleware.WithLogging(rankingHandler.WeekRanking))
	mux.HandleFunc("GET /players/{id}/image", middleware.WithLogging(playerHandler.Image))

	// Admin
	mux.HandleFunc("GET /admin/ranking/live", admin(rankingHandler.LiveRanking))
	mux.HandleFunc("POST /admin/lista-extra", admin(adminHandler.AddListaExtra))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("craque API v1"))
	})

	var h http.Handler = mux
	h = middleware.CORS(cfg.CORSOrigins)(h)
	h = chimw.Recoverer(h)
	h = chimw.RealIP(h)
	h = chimw.RequestID(h)
	return h
}
