// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package apuracao memoizes the weekly tally.

The first GetOrCreate for a week reserves a row (state started, random
UUID), force-closes the week's open ballots, runs ranking.Compute and stores
the result as complete. Later calls decode the stored JSON, so every caller
sees the same ranking even if ballots change afterwards.

# Concurrency

Calls for the same week within a process are collapsed with singleflight.
Across processes the unique week_id decides who computes; the others get
models.ErrConflict until the row is complete. A started row whose
updated_at is older than StaleAfter is taken over by the next caller.
*/
package apuracao
