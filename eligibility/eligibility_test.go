// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package eligibility_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/craque/attendance"
	"github.com/danielhkuo/craque/eligibility"
	"github.com/danielhkuo/craque/models"
	"github.com/danielhkuo/craque/testutil"
	"github.com/danielhkuo/craque/timings"
)

// Monday of week 10.
var now = timings.RefPointFromID(10).Add(20 * time.Hour)

type failingSource struct{}

func (failingSource) Emails(context.Context, time.Time, time.Time) ([]string, error) {
	return nil, errors.New("connection refused")
}

func TestEligibleListaExtraBoundary(t *testing.T) {
	ctx := context.Background()
	st := testutil.SetupTestStore(t)
	players := testutil.CreateTestPlayers(t, st, 3)

	end := timings.EndEligibleCheck(now)
	testutil.AddTestListaExtra(t, st, players[0:1], end.Add(-24*time.Hour))
	testutil.AddTestListaExtra(t, st, players[1:2], end.Add(24*time.Hour))
	testutil.AddTestListaExtra(t, st, players[2:3], timings.StartEligibleCheck(now).Add(-time.Hour))

	r := eligibility.NewResolver(st, nil)
	got, err := r.Eligible(ctx, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, players[0].ID, got[0].ID)
}

func TestEligibleAttendanceCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	st := testutil.SetupTestStore(t)
	players := testutil.CreateTestPlayers(t, st, 4)

	src := attendance.Static{"P1@CRAQUE.test", " p3@craque.test", "stranger@craque.test"}
	testutil.AddTestListaExtra(t, st, players[3:4], now.Add(-7*24*time.Hour))

	r := eligibility.NewResolver(st, src)
	got, err := r.Eligible(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{players[0].ID, players[2].ID, players[3].ID}, testutil.PlayerIDs(got))
}

func TestEligibleUnionHasNoDuplicates(t *testing.T) {
	ctx := context.Background()
	st := testutil.SetupTestStore(t)
	players := testutil.CreateTestPlayers(t, st, 2)

	testutil.AddTestListaExtra(t, st, players[:1], now.Add(-48*time.Hour))
	testutil.AddTestListaExtra(t, st, players[:1], now.Add(-72*time.Hour))

	r := eligibility.NewResolver(st, attendance.Static{"p1@craque.test"})
	got, err := r.Eligible(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{players[0].ID}, testutil.PlayerIDs(got))
}

func TestEligibleEmptyIsNotAnError(t *testing.T) {
	st := testutil.SetupTestStore(t)
	testutil.CreateTestPlayers(t, st, 3)

	got, err := eligibility.NewResolver(st, nil).Eligible(context.Background(), now)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEligibleSourceFailure(t *testing.T) {
	st := testutil.SetupTestStore(t)

	_, err := eligibility.NewResolver(st, failingSource{}).Eligible(context.Background(), now)
	assert.ErrorIs(t, err, models.ErrStorage)
}

func TestListEligiblePlayersSortedByApelido(t *testing.T) {
	ctx := context.Background()
	st := testutil.SetupTestStore(t)
	zico := testutil.CreateTestPlayer(t, st, "zico", false)
	bebeto := testutil.CreateTestPlayer(t, st, "bebeto", false)
	romario := testutil.CreateTestPlayer(t, st, "romario", false)

	src := attendance.Static{zico.Email, bebeto.Email, romario.Email}
	got, err := eligibility.NewResolver(st, src).ListEligiblePlayers(ctx, now)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "bebeto", got[0].Apelido)
	assert.Equal(t, "romario", got[1].Apelido)
	assert.Equal(t, "zico", got[2].Apelido)
	assert.Equal(t, models.PlayerSummary{ID: zico.ID, Nome: zico.Nome, Apelido: "zico"}, got[2])
}
