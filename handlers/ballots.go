// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/craque/eligibility"
	"github.com/danielhkuo/craque/middleware"
	"github.com/danielhkuo/craque/models"
	"github.com/danielhkuo/craque/voting"
)

type BallotHandler struct {
	voting      *voting.Service
	eligibility *eligibility.Resolver
	now         Clock
}

func NewBallotHandler(v *voting.Service, el *eligibility.Resolver, now Clock) *BallotHandler {
	return &BallotHandler{voting: v, eligibility: el, now: now}
}

// ListEligible handles GET /eligible
func (h *BallotHandler) ListEligible(w http.ResponseWriter, r *http.Request) {
	players, err := h.eligibility.ListEligiblePlayers(r.Context(), h.now())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, players)
}

// Create handles POST /voting/create
func (h *BallotHandler) Create(w http.ResponseWriter, r *http.Request) {
	voter, _ := middleware.VoterFromContext(r.Context())

	res, err := h.voting.Create(r.Context(), voter, h.now())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	w.Header().Set("Location", "/voting/"+strconv.FormatInt(res.BallotID, 10))
	middleware.JSONResponse(w, status, models.CreateBallotResponse{
		BallotID: res.BallotID,
		Created:  res.Created,
	})
}

// ListMine handles GET /voting
func (h *BallotHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	voter, _ := middleware.VoterFromContext(r.Context())

	ballots, err := h.voting.CurrentWeekBallots(r.Context(), voter, h.now())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, ballots)
}

// Get handles GET /voting/{id}
func (h *BallotHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	voter, _ := middleware.VoterFromContext(r.Context())

	resp, err := h.voting.Get(r.Context(), id, voter)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// CastVote handles POST /voting/{id}
func (h *BallotHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	voter, _ := middleware.VoterFromContext(r.Context())

	var req models.CastVoteRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	ranked := make([]int64, 0, len(req.Players))
	for _, s := range req.Players {
		pid, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "player ids must be integers")
			return
		}
		ranked = append(ranked, pid)
	}

	if err := h.voting.CastVote(r.Context(), id, voter, ranked, h.now()); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		BallotID: id,
		Message:  "vote recorded",
	})
}

// pathID parses a positive integer path value, writing 400 on failure
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
