// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ranking computes the weekly ranking from closed ballots.

# Scoring

Every ballot offers five players. The voter ranks some of them, best first.
With K = SlotsPerBallot, the player ranked at position i (0-based) scores
(K-i)/K. The u offered players left unranked each score (u-1)/(2K).

# Voting Power

A voter with c closed ballots in a week, force-closed empty ones
included, has each ballot weighted by VoterWeight(c): 1 up to
MaxVotingPower ballots, MaxVotingPower/c beyond.

# Aggregation

For each player:

	media  = Σ(s·w) / Σw
	stddev = sqrt( Σ w·(s-media)² / (((n-1)·Σw)/n) )

where n is the number of entries with positive weight. A player scored by
a single ballot has no standard deviation.

Compute is pure: the caller supplies the ballots, the roster and the
timestamp.
*/
package ranking
