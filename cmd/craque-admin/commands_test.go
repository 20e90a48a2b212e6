// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/craque/timings"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlayerAddAndList(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "craque.db")

	out, err := runCmd(t, "player", "add", "-d", dbPath,
		"--nome", "Arthur Antunes", "--apelido", "zico", "--email", "zico@craque.test", "--password", "hunter22", "--admin")
	if err != nil {
		t.Fatalf("player add failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "player 1 created (zico)") {
		t.Errorf("Unexpected output: %s", out)
	}

	if _, err := runCmd(t, "player", "add", "-d", dbPath,
		"--nome", "Outro", "--apelido", "zico2", "--email", "zico@craque.test", "--password", "x"); err == nil {
		t.Error("Expected duplicate email to fail")
	}

	out, err = runCmd(t, "player", "list", "-d", dbPath)
	if err != nil {
		t.Fatalf("player list failed: %v", err)
	}
	if !strings.Contains(out, "zico@craque.test") || !strings.Contains(out, "true") {
		t.Errorf("Expected admin zico in listing, got:\n%s", out)
	}
}

func TestPlayerAddRequiresFields(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "craque.db")
	if _, err := runCmd(t, "player", "add", "-d", dbPath, "--apelido", "zico"); err == nil {
		t.Error("Expected missing flags to fail")
	}
}

func TestListaAdd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "craque.db")
	if _, err := runCmd(t, "player", "add", "-d", dbPath,
		"--nome", "Manoel dos Santos", "--apelido", "garrincha", "--email", "mane@craque.test", "--password", "x"); err != nil {
		t.Fatalf("player add failed: %v", err)
	}

	at := timings.RefPointFromID(10).Add(-time.Hour)
	out, err := runCmd(t, "lista", "add", "-d", dbPath, "--player", "1", "--date", at.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("lista add failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "eligible for weeks 10-13") {
		t.Errorf("Unexpected output: %s", out)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"unknown player", []string{"--player", "99"}},
		{"missing player", nil},
		{"bad date", []string{"--player", "1", "--date", "yesterday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"lista", "add", "-d", dbPath}, tt.args...)
			if _, err := runCmd(t, args...); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestApurar(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "craque.db")

	out, err := runCmd(t, "apurar", "-d", dbPath, "--week", "10")
	if err != nil {
		t.Fatalf("apurar failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Semana 10 (2023-08-13), 0 votes") {
		t.Errorf("Unexpected output: %s", out)
	}

	next := strconv.Itoa(timings.WeekID(time.Now()) + 1)
	if _, err := runCmd(t, "apurar", "-d", dbPath, "--week", next); err == nil {
		t.Error("Expected tally of an unfinished week to require --force")
	}

	if _, err := runCmd(t, "apurar", "-d", dbPath, "--week", strconv.Itoa(timings.MaxWeekID+1), "--force"); err == nil {
		t.Error("Expected out of range week to fail")
	}

	if _, err := runCmd(t, "apurar", "-d", dbPath); err == nil {
		t.Error("Expected missing --week to fail")
	}
}

func TestWeek(t *testing.T) {
	at := timings.RefPointFromID(10).Add(time.Hour)
	out, err := runCmd(t, "week", "--at", at.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("week failed: %v", err)
	}
	if !strings.Contains(out, "week") || !strings.Contains(out, "10") {
		t.Errorf("Expected week 10, got:\n%s", out)
	}
	if !strings.Contains(out, timings.PublishTime(timings.RefPointFromID(10)).Format(time.RFC3339)) {
		t.Errorf("Expected publish time in output:\n%s", out)
	}
}

func TestMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := runCmd(t, "player", "list"); err == nil {
		t.Error("Expected error without database URL")
	}
}
