// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Craque da Semana API server.

Every week the players who attended a match vote for the best of them.
Each voter gets a ballot with five randomly drawn eligible players, ranks
up to four of them, and after the week closes the ballots are tallied
(apuração) into a weighted ranking.

# Starting the Server

Configuration comes from flags, environment, an optional YAML file and
an optional .env file:

	DATABASE_URL=craque.db SESSION_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -session-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string or SQLite path
  - SESSION_SECRET (-session-secret): key for session token HMAC

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): postgres or sqlite (default: sqlite)
  - ATTENDANCE_URL (-attendance-url): ticketing database for attendance
  - EVENT_FILTER (-event-filter): LIKE pattern on event short names
  - CORS_ORIGINS (-cors): comma separated allowed origins
  - RATE_LIMIT_PER_MINUTE (-rate-limit): per-IP budget on write routes
  - LOG_LEVEL (-log-level): debug, info, warn or error
  - CONFIG_FILE (-c): YAML file with the same keys

# Architecture

  - timings: week arithmetic and windows
  - eligibility: who may be drawn onto a ballot
  - voting: ballot creation and vote casting
  - ranking: the weighted tally
  - apuracao: memoized weekly tally
  - store, db: persistence
  - attendance: ticketing database reader
  - handlers, router, middleware: HTTP API
  - auth, cliparse, metrics: sessions, configuration, Prometheus

The cmd/craque-admin command manages players and lista extra entries.
*/
package main
