// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package attendance provides the ticket-holder source used by eligibility.

PGSource queries the event ticketing database (alf.io schema: event and
ticket tables) through a pgx connection pool. Static serves a fixed list and
is the fallback when no ticketing database is configured.
*/
package attendance
