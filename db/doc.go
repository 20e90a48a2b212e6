// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables for the configured dialect:

	if err := db.CreateSchema(ctx, conn, db.Postgres); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
Postgres is the production database; SQLite backs local runs and tests.

# Tables

  - jogador: players and voter accounts
  - ballot: one row per generated ballot
  - apuracao: one tally per week
  - lista_extra: manual eligibility entries

# Relationships

	jogador 1──* lista_extra

Ballots reference players by id inside their JSON arrays and voters by email.

# Constraints

  - ballot.(voter, fute_id) is unique among open ballots (partial index)
  - apuracao.week_id and apuracao.random_id are unique
  - jogador.email is unique
*/
package db
