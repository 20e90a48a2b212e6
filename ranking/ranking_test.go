// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/craque/models"
)

var now = time.Date(2023, 8, 21, 1, 30, 0, 0, time.UTC)

func testRoster(n int) map[int64]models.PlayerSummary {
	roster := make(map[int64]models.PlayerSummary, n)
	for i := int64(1); i <= int64(n); i++ {
		roster[i] = models.PlayerSummary{ID: i, Nome: "P" + string(rune('0'+i)), Apelido: "p"}
	}
	return roster
}

func ballot(id int64, voter string, vote ...int64) models.Ballot {
	return models.Ballot{
		ID:      id,
		Players: []int64{1, 2, 3, 4, 5},
		Vote:    vote,
		Voter:   voter,
		State:   models.BallotClosed,
	}
}

func medias(r models.Ranking) map[int64]float64 {
	m := make(map[int64]float64, len(r.Entries))
	for _, e := range r.Entries {
		m[e.ID] = e.Media
	}
	return m
}

func TestVoterWeight(t *testing.T) {
	tests := []struct {
		count int
		want  float64
	}{
		{1, 1},
		{2, 1},
		{3, 2.5 / 3},
		{5, 0.5},
		{10, 0.25},
	}
	for _, tt := range tests {
		got := VoterWeight(tt.count)
		assert.InDelta(t, tt.want, got, 1e-12, "count %d", tt.count)
		assert.Greater(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}

func TestComputeSingleFullRanking(t *testing.T) {
	r, err := Compute([]models.Ballot{ballot(1, "a", 1, 2, 3, 4)}, testRoster(5), now)
	require.NoError(t, err)

	want := map[int64]float64{1: 1, 2: 0.75, 3: 0.5, 4: 0.25, 5: 0}
	assert.Equal(t, want, medias(r))
	assert.Equal(t, 1, r.Votes)
	assert.Equal(t, now, r.Timestamp)

	for i, e := range r.Entries {
		assert.Equal(t, i+1, e.Pos)
		assert.Equal(t, 1, e.Votos)
		assert.Nil(t, e.DesvioPadrao, "single entry has no deviation")
	}
	assert.Equal(t, int64(1), r.Entries[0].ID)
	assert.Equal(t, int64(5), r.Entries[4].ID)
}

func TestComputeUnrankedScore(t *testing.T) {
	r, err := Compute([]models.Ballot{ballot(1, "a", 1, 2)}, testRoster(5), now)
	require.NoError(t, err)

	m := medias(r)
	assert.Equal(t, 1.0, m[1])
	assert.Equal(t, 0.75, m[2])
	for _, id := range []int64{3, 4, 5} {
		assert.Equal(t, 0.25, m[id])
	}
}

func TestComputeRankedAndUnrankedIndependent(t *testing.T) {
	tests := []struct {
		name  string
		vote  []int64
		total float64
	}{
		{"one ranked", []int64{1}, 1 + 4*0.375},
		{"two ranked", []int64{1, 2}, 1 + 0.75 + 3*0.25},
		{"all ranked", []int64{1, 2, 3, 4, 5}, 1 + 0.75 + 0.5 + 0.25 + 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Compute([]models.Ballot{ballot(1, "a", tt.vote...)}, testRoster(5), now)
			require.NoError(t, err)

			var total float64
			for _, e := range r.Entries {
				total += e.Media
			}
			assert.InDelta(t, tt.total, total, 1e-12)
		})
	}
}

func TestComputeStdDev(t *testing.T) {
	ballots := []models.Ballot{
		ballot(1, "a", 1, 2, 3, 4),
		ballot(2, "b", 2, 1, 3, 4),
	}
	r, err := Compute(ballots, testRoster(5), now)
	require.NoError(t, err)

	for _, e := range r.Entries {
		require.NotNil(t, e.DesvioPadrao)
		assert.Equal(t, 2, e.Votos)
		switch e.ID {
		case 1, 2:
			assert.InDelta(t, 0.875, e.Media, 1e-12)
			assert.InDelta(t, math.Sqrt(0.03125), *e.DesvioPadrao, 1e-12)
		default:
			assert.InDelta(t, 0, *e.DesvioPadrao, 1e-12)
		}
	}

	// equal media, lower id first
	assert.Equal(t, int64(1), r.Entries[0].ID)
	assert.Equal(t, int64(2), r.Entries[1].ID)
}

func TestComputeVotingPowerCap(t *testing.T) {
	var ballots []models.Ballot
	for i := range 5 {
		ballots = append(ballots, ballot(int64(i+1), "heavy", 1, 2, 3, 4))
	}
	ballots = append(ballots, ballot(6, "light", 2, 3, 4, 5, 1))

	r, err := Compute(ballots, testRoster(5), now)
	require.NoError(t, err)

	// heavy: five entries of 1.0 at weight 0.5; light: one entry of 0 at weight 1
	assert.InDelta(t, 2.5/3.5, medias(r)[1], 1e-12)
	assert.Equal(t, 6, r.Votes)
}

func TestComputeEmptyVotes(t *testing.T) {
	ballots := []models.Ballot{
		ballot(1, "a", 1, 2, 3, 4),
		ballot(2, "a", 1, 2, 3, 4),
		ballot(3, "a"),
		ballot(4, "b", 2, 3, 4, 5),
		ballot(5, "c"),
	}
	r, err := Compute(ballots, testRoster(5), now)
	require.NoError(t, err)

	assert.Equal(t, 5, r.Votes)
	for _, e := range r.Entries {
		assert.Equal(t, 3, e.Votos)
	}

	// a has three closed ballots, the empty one included: weight 2.5/3.
	// b leaves P1 as the only unranked player, scoring 0 at weight 1.
	wa := 2.5 / 3
	assert.InDelta(t, 2*wa/(2*wa+1), medias(r)[1], 1e-12)
	assert.InDelta(t, 0.625, medias(r)[1], 1e-12)

	empty, err := Compute([]models.Ballot{ballot(1, "a")}, testRoster(5), now)
	require.NoError(t, err)
	assert.Empty(t, empty.Entries)
	assert.Equal(t, 1, empty.Votes)
}

func TestComputeCorruptBallots(t *testing.T) {
	tests := []struct {
		name   string
		ballot models.Ballot
		roster map[int64]models.PlayerSummary
	}{
		{"vote not offered", ballot(1, "a", 9), testRoster(9)},
		{"duplicate vote", ballot(1, "a", 1, 1), testRoster(5)},
		{"missing from roster", ballot(1, "a", 1), testRoster(4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute([]models.Ballot{tt.ballot}, tt.roster, now)
			assert.ErrorIs(t, err, models.ErrCorruptBallot)
		})
	}
}

func TestRoster(t *testing.T) {
	roster := Roster([]models.Player{{ID: 3, Nome: "Ana", Apelido: "aninha", Email: "a@x"}})
	assert.Equal(t, models.PlayerSummary{ID: 3, Nome: "Ana", Apelido: "aninha"}, roster[3])
}
