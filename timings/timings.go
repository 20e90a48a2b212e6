// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package timings

import (
	"math"
	"time"
)

const (
	// Week is the length of one voting cycle.
	Week = 7 * 24 * time.Hour

	// EligibilityWeeks is how far back attendance and the extra list are checked.
	EligibilityWeeks = 4

	createBallotCutoff = 30 * time.Minute
	publishDelay       = 90 * time.Minute
)

// MaxWeekID is the last week whose offset from FirstRefPoint fits in a
// time.Duration.
const MaxWeekID = int(math.MaxInt64 / int64(Week))

// FirstRefPoint is the anchor every week is measured from:
// 2023-06-04 19:00 in São Paulo (UTC-3).
var FirstRefPoint = time.Date(2023, time.June, 4, 22, 0, 0, 0, time.UTC)

// RefPointOf returns the most recent anchor-aligned instant not after t.
func RefPointOf(t time.Time) time.Time {
	rem := t.Sub(FirstRefPoint) % Week
	if rem < 0 {
		rem += Week
	}
	return t.Add(-rem).UTC()
}

// WeekID returns the index of the week containing t. Week 0 starts at FirstRefPoint.
func WeekID(t time.Time) int {
	return int(RefPointOf(t).Sub(FirstRefPoint) / Week)
}

// ValidWeekID reports whether id names a week at or after FirstRefPoint
// that RefPointFromID can represent.
func ValidWeekID(id int) bool {
	return id >= 0 && id <= MaxWeekID
}

// RefPointFromID is the inverse of WeekID. It is exact for |id| <= MaxWeekID;
// ids beyond that saturate at the bound.
func RefPointFromID(id int) time.Time {
	id = max(-MaxWeekID, min(id, MaxWeekID))
	return FirstRefPoint.Add(time.Duration(id) * Week)
}

// StartEligibleCheck opens the attendance window counted for the week of t.
func StartEligibleCheck(t time.Time) time.Time {
	return RefPointOf(t).Add(-EligibilityWeeks * Week)
}

// EndEligibleCheck closes the attendance window; it is the reference point of t.
func EndEligibleCheck(t time.Time) time.Time {
	return RefPointOf(t)
}

// StartVoting is when ballots of the week of t can first be created.
func StartVoting(t time.Time) time.Time {
	return RefPointOf(t)
}

// EndCreateBallot is the creation cutoff, half an hour before voting ends.
func EndCreateBallot(t time.Time) time.Time {
	return RefPointOf(t).Add(Week - createBallotCutoff)
}

// EndVoting is the end of the week of t; no vote is accepted from then on.
func EndVoting(t time.Time) time.Time {
	return RefPointOf(t).Add(Week)
}

// CanCreateBallot reports whether a new ballot may be created at t.
func CanCreateBallot(t time.Time) bool {
	return !t.Before(StartVoting(t)) && t.Before(EndCreateBallot(t))
}

// CanCastVote reports whether a ballot of the week starting at ref accepts votes at now.
func CanCastVote(ref, now time.Time) bool {
	return !now.Before(StartVoting(ref)) && now.Before(EndVoting(ref))
}

// PublishTime is when the results of the week starting at ref become visible.
func PublishTime(ref time.Time) time.Time {
	return EndVoting(ref).Add(publishDelay)
}

// PublishResults reports whether the week starting at ref is published at now.
func PublishResults(ref, now time.Time) bool {
	return !now.Before(PublishTime(ref))
}

// WeekWindow bundles every boundary of one week.
type WeekWindow struct {
	WeekID             int       `json:"week_id"`
	RefPoint           time.Time `json:"ref_point"`
	StartEligibleCheck time.Time `json:"start_eligible_check"`
	EndEligibleCheck   time.Time `json:"end_eligible_check"`
	EndCreateBallot    time.Time `json:"end_create_ballot"`
	EndVoting          time.Time `json:"end_voting"`
	PublishAt          time.Time `json:"publish_at"`
}

// Window computes the WeekWindow containing t.
func Window(t time.Time) WeekWindow {
	ref := RefPointOf(t)
	return WeekWindow{
		WeekID:             WeekID(t),
		RefPoint:           ref,
		StartEligibleCheck: StartEligibleCheck(t),
		EndEligibleCheck:   EndEligibleCheck(t),
		EndCreateBallot:    EndCreateBallot(t),
		EndVoting:          EndVoting(t),
		PublishAt:          PublishTime(ref),
	}
}
