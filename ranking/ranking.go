// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/danielhkuo/craque/models"
)

const (
	// SlotsPerBallot is K, the number of ranked positions that score above zero.
	SlotsPerBallot = 4
	// MaxVotingPower caps the total weight a voter carries across a week.
	MaxVotingPower = 2.5
)

// score is one (value, weight) pair contributed to a player by a ballot.
type score struct {
	value  float64
	weight float64
}

// VoterWeight returns the weight of each ballot of a voter who cast count
// votes in the week.
func VoterWeight(count int) float64 {
	if float64(count) <= MaxVotingPower {
		return 1
	}
	return MaxVotingPower / float64(count)
}

// Roster indexes players by id for Compute.
func Roster(players []models.Player) map[int64]models.PlayerSummary {
	roster := make(map[int64]models.PlayerSummary, len(players))
	for _, p := range players {
		roster[p.ID] = p.Summary()
	}
	return roster
}

// Compute turns the closed ballots of a week into a ranking.
//
// Every closed ballot of a voter counts towards that voter's weight and
// towards Votes. Ballots without a cast vote contribute no scores. Entries are ordered by media descending,
// ties broken by player id ascending.
func Compute(ballots []models.Ballot, roster map[int64]models.PlayerSummary, now time.Time) (models.Ranking, error) {
	counts := make(map[string]int)
	for _, b := range ballots {
		counts[b.Voter]++
	}

	scores := make(map[int64][]score)
	for _, b := range ballots {
		if !b.HasVote() {
			continue
		}
		if err := scoreBallot(b, VoterWeight(counts[b.Voter]), scores); err != nil {
			return models.Ranking{}, err
		}
	}

	entries := make([]models.RankingEntry, 0, len(scores))
	for id, ss := range scores {
		p, ok := roster[id]
		if !ok {
			return models.Ranking{}, fmt.Errorf("player %d is not in the roster: %w", id, models.ErrCorruptBallot)
		}
		media, stddev := weightedStats(ss)
		entry := models.RankingEntry{
			ID:    id,
			Nome:  p.Nome,
			Media: media,
			Votos: len(ss),
		}
		if !math.IsNaN(stddev) && !math.IsInf(stddev, 0) {
			entry.DesvioPadrao = &stddev
		}
		entries = append(entries, entry)
	}

	slices.SortFunc(entries, func(a, b models.RankingEntry) int {
		if c := cmp.Compare(b.Media, a.Media); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	for i := range entries {
		entries[i].Pos = i + 1
	}

	return models.Ranking{
		Entries:   entries,
		Timestamp: now.UTC(),
		Votes:     len(ballots),
	}, nil
}

// scoreBallot appends the ranked and unranked scores of one ballot.
// Ranked position i scores (K-i)/K; each of the u unranked offered players
// scores (u-1)/(2K).
func scoreBallot(b models.Ballot, weight float64, scores map[int64][]score) error {
	offered := make(map[int64]bool, len(b.Players))
	for _, id := range b.Players {
		offered[id] = true
	}

	ranked := make(map[int64]bool, len(b.Vote))
	for i, id := range b.Vote {
		if !offered[id] {
			return fmt.Errorf("ballot %d ranks player %d that was not offered: %w", b.ID, id, models.ErrCorruptBallot)
		}
		if ranked[id] {
			return fmt.Errorf("ballot %d ranks player %d twice: %w", b.ID, id, models.ErrCorruptBallot)
		}
		ranked[id] = true
		value := float64(SlotsPerBallot-i) / SlotsPerBallot
		scores[id] = append(scores[id], score{value: value, weight: weight})
	}

	unranked := len(b.Players) - len(b.Vote)
	value := float64(unranked-1) / (2 * SlotsPerBallot)
	for _, id := range b.Players {
		if !ranked[id] {
			scores[id] = append(scores[id], score{value: value, weight: weight})
		}
	}
	return nil
}

// weightedStats returns the weighted mean and the reliability-weighted
// standard deviation. A single entry yields NaN.
func weightedStats(ss []score) (float64, float64) {
	var sum, totalWeight float64
	for _, s := range ss {
		sum += s.value * s.weight
		totalWeight += s.weight
	}
	mean := sum / totalWeight

	var sq float64
	n := 0
	for _, s := range ss {
		sq += s.weight * (s.value - mean) * (s.value - mean)
		if s.weight > 0 {
			n++
		}
	}
	if n == 0 {
		return mean, 0
	}
	denominator := (float64(n-1) * totalWeight) / float64(n)
	return mean, math.Sqrt(sq / denominator)
}
