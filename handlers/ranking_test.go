// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/craque/apuracao"
	"github.com/danielhkuo/craque/models"
	"github.com/danielhkuo/craque/testutil"
	"github.com/danielhkuo/craque/timings"
)

func TestWeekRanking(t *testing.T) {
	st := testutil.SetupTestStore(t)
	players := testutil.CreateTestPlayers(t, st, 5)
	ids := testutil.PlayerIDs(players)
	testutil.InsertTestBallot(t, st.DB(), "a@craque.test", 10, ids, []int64{ids[0], ids[1]}, models.BallotClosed)
	testutil.InsertTestBallot(t, st.DB(), "b@craque.test", 10, ids, []int64{ids[0]}, models.BallotClosed)

	published := timings.PublishTime(timings.RefPointFromID(10)).Add(time.Minute)

	tests := []struct {
		name           string
		weekID         string
		now            time.Time
		expectedStatus int
		checkResponse  func(*testing.T, models.WeekRankingResponse)
	}{
		{
			name:           "not yet published",
			weekID:         "10",
			now:            testNow,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp models.WeekRankingResponse) {
				if resp.Published || resp.Ranking != nil {
					t.Errorf("Expected unpublished week without ranking, got %+v", resp)
				}
				if resp.PublishIn == "" {
					t.Error("Expected publish_in to be set")
				}
			},
		},
		{
			name:           "published",
			weekID:         "10",
			now:            published,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp models.WeekRankingResponse) {
				if !resp.Published || resp.Ranking == nil {
					t.Fatalf("Expected published ranking, got %+v", resp)
				}
				if resp.Ranking.Votes != 2 {
					t.Errorf("Expected 2 votes, got %d", resp.Ranking.Votes)
				}
				if len(resp.Ranking.Entries) == 0 || resp.Ranking.Entries[0].ID != ids[0] {
					t.Errorf("Expected player %d first, got %+v", ids[0], resp.Ranking.Entries)
				}
			},
		},
		{
			name:           "negative week",
			weekID:         "-1",
			now:            published,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "beyond last week",
			weekID:         "20000",
			now:            published,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "not a number",
			weekID:         "dez",
			now:            published,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewRankingHandler(apuracao.NewService(st), fixedClock(tt.now))

			req := testutil.MakeRequest("GET", "/week_ranking/"+tt.weekID, nil, nil)
			req.SetPathValue("week_id", tt.weekID)
			w := httptest.NewRecorder()
			handler.WeekRanking(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.checkResponse != nil {
				var resp models.WeekRankingResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestLiveRanking(t *testing.T) {
	st := testutil.SetupTestStore(t)
	players := testutil.CreateTestPlayers(t, st, 5)
	ids := testutil.PlayerIDs(players)
	testutil.InsertTestBallot(t, st.DB(), "a@craque.test", 10, ids, []int64{ids[3]}, models.BallotClosed)

	handler := NewRankingHandler(apuracao.NewService(st), fixedClock(testNow))

	req := withVoter(testutil.MakeRequest("GET", "/admin/ranking/live", nil, nil), "admin@craque.test")
	w := httptest.NewRecorder()
	handler.LiveRanking(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var rk models.Ranking
	testutil.AssertJSON(t, w, &rk)
	if rk.Votes != 1 || len(rk.Entries) == 0 || rk.Entries[0].ID != ids[3] {
		t.Errorf("Unexpected live ranking %+v", rk)
	}

	if _, err := st.GetApuracao(t.Context(), 10); err == nil {
		t.Error("Live ranking must not persist an apuracao")
	}
}
