// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires services, handlers and middleware into the HTTP API.

	h := router.NewRouter(store.New(conn), source, cfg, time.Now)

# Endpoints

Public:

	GET  /health                 - Database ping
	GET  /metrics                - Prometheus metrics
	POST /login                  - Exchange email and password for a session token
	GET  /week                   - Current week id and windows
	GET  /week_ranking/{week_id} - Published ranking, or when it will be published
	GET  /players/{id}/image     - Profile image

Voter (Authorization: Bearer <token>):

	GET  /eligible      - Players eligible this week
	GET  /voting        - Own ballots this week
	POST /voting/create - Draw a ballot, or return the open one
	GET  /voting/{id}   - Ballot with the offered players
	POST /voting/{id}   - Cast the ranking

Admin:

	GET  /admin/ranking/live - Ranking of the current week so far
	POST /admin/lista-extra  - Add a player to the extra list

Login, ballot creation and vote casting are rate limited per client IP.
Every request passes chi's RequestID, RealIP and Recoverer and the CORS
policy from the configuration.
*/
package router
