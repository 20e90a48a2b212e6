// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// DriverName maps a database type to its database/sql driver.
func DriverName(dbType string) (string, error) {
	switch dbType {
	case Postgres:
		return "postgres", nil
	case SQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported database type %q", dbType)
	}
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB, dbType string) error {
	var schema string
	switch dbType {
	case Postgres:
		schema = postgresSchema
	case SQLite:
		schema = sqliteSchema
	default:
		return fmt.Errorf("unsupported database type %q", dbType)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const postgresSchema = `
-- Players
CREATE TABLE IF NOT EXISTS jogador (
    id BIGSERIAL PRIMARY KEY,
    nome TEXT NOT NULL,
    apelido TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    senha_hash TEXT NOT NULL,
    admin BOOLEAN NOT NULL DEFAULT FALSE,
    imagem BYTEA
);

-- Ballots
CREATE TABLE IF NOT EXISTS ballot (
    id BIGSERIAL PRIMARY KEY,
    players JSONB NOT NULL,
    vote JSONB NOT NULL DEFAULT '[]',
    date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    voter TEXT NOT NULL,
    fute_id INTEGER NOT NULL,
    state TEXT NOT NULL DEFAULT 'open' CHECK (state IN ('open', 'closed'))
);

CREATE INDEX IF NOT EXISTS idx_ballot_fute_id_state ON ballot(fute_id, state);
CREATE UNIQUE INDEX IF NOT EXISTS idx_ballot_one_open ON ballot(voter, fute_id) WHERE state = 'open';

-- Tallies
CREATE TABLE IF NOT EXISTS apuracao (
    id BIGSERIAL PRIMARY KEY,
    week_id INTEGER NOT NULL UNIQUE,
    random_id TEXT NOT NULL UNIQUE,
    state TEXT NOT NULL CHECK (state IN ('started', 'complete')),
    results JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Extra eligibility list
CREATE TABLE IF NOT EXISTS lista_extra (
    id BIGSERIAL PRIMARY KEY,
    jogador_id BIGINT NOT NULL REFERENCES jogador(id) ON DELETE CASCADE,
    data TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lista_extra_data ON lista_extra(data);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS jogador (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    nome TEXT NOT NULL,
    apelido TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    senha_hash TEXT NOT NULL,
    admin BOOLEAN NOT NULL DEFAULT FALSE,
    imagem BLOB
);

CREATE TABLE IF NOT EXISTS ballot (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    players TEXT NOT NULL,
    vote TEXT NOT NULL DEFAULT '[]',
    date TIMESTAMP NOT NULL,
    voter TEXT NOT NULL,
    fute_id INTEGER NOT NULL,
    state TEXT NOT NULL DEFAULT 'open' CHECK (state IN ('open', 'closed'))
);

CREATE INDEX IF NOT EXISTS idx_ballot_fute_id_state ON ballot(fute_id, state);
CREATE UNIQUE INDEX IF NOT EXISTS idx_ballot_one_open ON ballot(voter, fute_id) WHERE state = 'open';

CREATE TABLE IF NOT EXISTS apuracao (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    week_id INTEGER NOT NULL UNIQUE,
    random_id TEXT NOT NULL UNIQUE,
    state TEXT NOT NULL CHECK (state IN ('started', 'complete')),
    results TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS lista_extra (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    jogador_id INTEGER NOT NULL REFERENCES jogador(id) ON DELETE CASCADE,
    data TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lista_extra_data ON lista_extra(data);
`
