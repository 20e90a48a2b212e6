// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package eligibility resolves the set of players that can be drawn onto a
ballot.

A player is eligible at time t when either

  - their email holds a ticket for an event that started inside
    [timings.StartEligibleCheck(t), timings.EndEligibleCheck(t)], compared
    after Unicode case folding, or
  - they have a ListaExtra entry strictly inside that window.

The attendance source and the store are queried concurrently. An empty
result is not an error; callers check MinEligiblePlayers themselves.
*/
package eligibility
