// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/craque/apuracao"
	"github.com/danielhkuo/craque/middleware"
	"github.com/danielhkuo/craque/models"
	"github.com/danielhkuo/craque/timings"
)

type RankingHandler struct {
	apuracao *apuracao.Service
	now      Clock
}

func NewRankingHandler(a *apuracao.Service, now Clock) *RankingHandler {
	return &RankingHandler{apuracao: a, now: now}
}

// WeekRanking handles GET /week_ranking/{week_id}
// Unpublished weeks answer 200 with published=false and the publish time.
func (h *RankingHandler) WeekRanking(w http.ResponseWriter, r *http.Request) {
	weekID, err := strconv.Atoi(r.PathValue("week_id"))
	if err != nil || !timings.ValidWeekID(weekID) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "week_id must be an integer between 0 and "+strconv.Itoa(timings.MaxWeekID))
		return
	}

	now := h.now()
	wr, err := h.apuracao.WeekRanking(r.Context(), weekID, now)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	resp := models.WeekRankingResponse{
		WeekID:    wr.WeekID,
		Semana:    wr.Semana,
		Published: wr.Published,
		PublishAt: wr.PublishAt,
		Ranking:   wr.Ranking,
	}
	if !wr.Published {
		resp.PublishIn = humanize.RelTime(wr.PublishAt, now, "ago", "from now")
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// LiveRanking handles GET /admin/ranking/live
func (h *RankingHandler) LiveRanking(w http.ResponseWriter, r *http.Request) {
	rk, err := h.apuracao.LiveRanking(r.Context(), h.now())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, rk)
}
