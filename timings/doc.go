// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package timings maps instants to weekly voting cycles.

Every week starts at a reference point aligned to FirstRefPoint in fixed
7-day steps. Week ids count those steps:

	id := timings.WeekID(now)
	start := timings.RefPointFromID(id)

# Windows

Relative to the reference point r of a week:

  - eligibility check: [r - 4 weeks, r]
  - ballot creation:   [r, r + 1 week - 30 minutes)
  - voting:            [r, r + 1 week)
  - publication:       r + 1 week + 90 minutes

All functions are pure; callers pass the current time explicitly.
*/
package timings
