// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command craque-admin manages players, the lista extra and weekly tallies
// directly against the database.
//
// Usage:
//
//	craque-admin player add --nome "Arthur Antunes" --apelido zico --email zico@example.com --password ...
//	craque-admin player list
//	craque-admin lista add --player 12 --date 2025-03-01T20:00:00Z
//	craque-admin apurar --week 95
//	craque-admin week --at 2025-03-01T20:00:00Z
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
