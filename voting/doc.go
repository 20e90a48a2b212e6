// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements the ballot lifecycle.

# States

A ballot is created open and becomes closed exactly once, either when the
voter casts a vote or when the weekly tally force-closes it. A voter has at
most one open ballot per week; closing it lets them request another one.

# Create

Create returns the voter's open ballot when there is one. Otherwise it
requires the creation window to be open and at least
eligibility.MinEligiblePlayers eligible players, draws PlayersPerBallot of
them at random and inserts the ballot. Concurrent calls for the same voter
converge on a single ballot.

# CastVote

Errors, in the order they are checked:

  - models.ErrNotFound: unknown ballot
  - models.ErrForbidden: ballot belongs to another voter
  - models.ErrConflict: ballot already closed or voting window over
  - models.ErrValidation: empty vote, player not offered, or duplicate
*/
package voting
