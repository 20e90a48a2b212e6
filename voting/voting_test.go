// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/craque/eligibility"
	"github.com/danielhkuo/craque/models"
	"github.com/danielhkuo/craque/store"
	"github.com/danielhkuo/craque/testutil"
	"github.com/danielhkuo/craque/timings"
	"github.com/danielhkuo/craque/voting"
)

const voter = "torcedor@craque.test"

// Tuesday of week 10.
var now = timings.RefPointFromID(10).Add(2 * 24 * time.Hour)

func setup(t *testing.T, eligible int) (*voting.Service, *store.Store, []models.Player) {
	t.Helper()
	st := testutil.SetupTestStore(t)
	players := testutil.CreateTestPlayers(t, st, eligible)
	testutil.AddTestListaExtra(t, st, players, timings.RefPointFromID(10).Add(-24*time.Hour))
	return voting.NewService(st, eligibility.NewResolver(st, nil)), st, players
}

func TestCreateWeekTen(t *testing.T) {
	ctx := context.Background()
	svc, st, players := setup(t, 8)

	first, err := svc.Create(ctx, voter, now)
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := svc.Create(ctx, voter, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.BallotID, second.BallotID)

	ballots, err := svc.CurrentWeekBallots(ctx, voter, now)
	require.NoError(t, err)
	require.Len(t, ballots, 1)

	b := ballots[0]
	assert.Equal(t, models.BallotOpen, b.State)
	assert.Equal(t, 10, b.WeekID)
	assert.Empty(t, b.Vote)
	require.Len(t, b.Players, voting.PlayersPerBallot)

	eligible := map[int64]bool{}
	for _, id := range testutil.PlayerIDs(players) {
		eligible[id] = true
	}
	seen := map[int64]bool{}
	for _, id := range b.Players {
		assert.True(t, eligible[id], "player %d is not eligible", id)
		assert.False(t, seen[id], "player %d drawn twice", id)
		seen[id] = true
	}

	open, found, err := st.FindOpenBallot(ctx, voter, 10)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, first.BallotID, open.ID)
}

func TestCreateConcurrent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t, 6)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = map[int64]bool{}
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Create(ctx, voter, now)
			assert.NoError(t, err)
			mu.Lock()
			ids[res.BallotID] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 1)
	ballots, err := svc.CurrentWeekBallots(ctx, voter, now)
	require.NoError(t, err)
	assert.Len(t, ballots, 1)
}

func TestCreateNotEnoughPlayers(t *testing.T) {
	svc, _, _ := setup(t, eligibility.MinEligiblePlayers-1)

	_, err := svc.Create(context.Background(), voter, now)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestCreateOutsideWindow(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t, 5)
	late := timings.EndCreateBallot(now).Add(time.Minute)

	_, err := svc.Create(ctx, voter, late)
	assert.ErrorIs(t, err, models.ErrConflict)

	// an open ballot is still returned after the creation cutoff
	res, err := svc.Create(ctx, voter, now)
	require.NoError(t, err)
	again, err := svc.Create(ctx, voter, late)
	require.NoError(t, err)
	assert.Equal(t, res.BallotID, again.BallotID)
	assert.False(t, again.Created)
}

func TestCastVote(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t, 5)

	res, err := svc.Create(ctx, voter, now)
	require.NoError(t, err)
	got, err := svc.Get(ctx, res.BallotID, voter)
	require.NoError(t, err)
	offered := got.Ballot.Players

	tests := []struct {
		name    string
		id      int64
		voter   string
		ranked  []int64
		at      time.Time
		wantErr error
	}{
		{"unknown ballot", res.BallotID + 100, voter, offered[:2], now, models.ErrNotFound},
		{"other voter", res.BallotID, "intruso@craque.test", offered[:2], now, models.ErrForbidden},
		{"after voting window", res.BallotID, voter, offered[:2], timings.EndVoting(now), models.ErrConflict},
		{"empty vote", res.BallotID, voter, []int64{}, now, models.ErrValidation},
		{"not offered", res.BallotID, voter, []int64{offered[0], 9999}, now, models.ErrValidation},
		{"duplicate", res.BallotID, voter, []int64{offered[0], offered[0]}, now, models.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CastVote(ctx, tt.id, tt.voter, tt.ranked, tt.at)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	ranked := []int64{offered[3], offered[0], offered[4]}
	require.NoError(t, svc.CastVote(ctx, res.BallotID, voter, ranked, now))

	got, err = svc.Get(ctx, res.BallotID, voter)
	require.NoError(t, err)
	assert.Equal(t, models.BallotClosed, got.Ballot.State)
	assert.Equal(t, ranked, got.Ballot.Vote)

	err = svc.CastVote(ctx, res.BallotID, voter, ranked, now)
	assert.ErrorIs(t, err, models.ErrConflict)

	// a closed ballot lets the voter draw a new one
	next, err := svc.Create(ctx, voter, now)
	require.NoError(t, err)
	assert.True(t, next.Created)
	assert.NotEqual(t, res.BallotID, next.BallotID)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	svc, _, players := setup(t, 5)

	res, err := svc.Create(ctx, voter, now)
	require.NoError(t, err)

	got, err := svc.Get(ctx, res.BallotID, voter)
	require.NoError(t, err)
	assert.Equal(t, timings.RefPointFromID(10), got.Semana)
	require.Len(t, got.Players, 5)

	byID := map[int64]models.Player{}
	for _, p := range players {
		byID[p.ID] = p
	}
	for i, summary := range got.Players {
		assert.Equal(t, got.Ballot.Players[i], summary.ID)
		assert.Equal(t, byID[summary.ID].Apelido, summary.Apelido)
	}

	_, err = svc.Get(ctx, res.BallotID, "outro@craque.test")
	assert.ErrorIs(t, err, models.ErrForbidden)
}
