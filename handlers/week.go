// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/danielhkuo/craque/middleware"
	"github.com/danielhkuo/craque/timings"
)

// Clock returns the current time. Tests pin it to a fixed week.
type Clock func() time.Time

type WeekHandler struct {
	now Clock
}

func NewWeekHandler(now Clock) *WeekHandler {
	return &WeekHandler{now: now}
}

// GetWeek handles GET /week
func (h *WeekHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, timings.Window(h.now()))
}
