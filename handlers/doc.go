// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Craque API.

# Handler Types

Each handler is a struct over a service or store plus a Clock:

  - AuthHandler: login and session tokens
  - WeekHandler: current week windows
  - BallotHandler: eligibility, ballot creation and vote casting
  - RankingHandler: published and live rankings
  - PlayerHandler: profile images
  - AdminHandler: lista extra entries

Handlers read the authenticated voter from the request context, which is
set by middleware.Identity. Service errors are mapped to status codes by
middleware.WriteError:

	ErrNotFound   → 404
	ErrForbidden  → 403
	ErrConflict   → 409
	ErrValidation → 400
	anything else → 500

# Voting Flow

	POST /voting/create → Create (201 new ballot, 200 existing one)
	GET  /voting/{id}   → Get
	POST /voting/{id}   → CastVote, body {"players": ["12", "7"]}

# Publication

GET /week_ranking/{week_id} answers 200 in both states. Before the
publish time the body carries published=false, publish_at and a
humanized publish_in; afterwards the memoized ranking.
*/
package handlers
