// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/craque/testutil"
	"github.com/danielhkuo/craque/timings"
)

func TestGetWeek(t *testing.T) {
	handler := NewWeekHandler(fixedClock(testNow))

	req := testutil.MakeRequest("GET", "/week", nil, nil)
	w := httptest.NewRecorder()
	handler.GetWeek(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp timings.WeekWindow
	testutil.AssertJSON(t, w, &resp)
	if resp.WeekID != 10 {
		t.Errorf("Expected week 10, got %d", resp.WeekID)
	}
	if !resp.RefPoint.Equal(timings.RefPointFromID(10)) {
		t.Errorf("Expected ref point %v, got %v", timings.RefPointFromID(10), resp.RefPoint)
	}
	if !resp.PublishAt.Equal(timings.PublishTime(resp.RefPoint)) {
		t.Errorf("Unexpected publish time %v", resp.PublishAt)
	}
}
