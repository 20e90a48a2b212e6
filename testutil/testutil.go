// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/craque/auth"
	"github.com/danielhkuo/craque/cliparse"
	"github.com/danielhkuo/craque/db"
	"github.com/danielhkuo/craque/models"
	"github.com/danielhkuo/craque/store"
)

// TestSecret signs session tokens in tests
const TestSecret = "test-session-secret"

// TestPassword is the password of every player created by CreateTestPlayer
const TestPassword = "hunter22"

// SetupTestDB opens a private in-memory SQLite database with the full schema.
// A single connection keeps every query on the same in-memory database.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(context.Background(), conn, db.SQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore returns a store over a fresh test database
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(SetupTestDB(t))
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:               3318,
		DatabaseURL:        ":memory:",
		DatabaseType:       db.SQLite,
		EventFilter:        "%",
		SessionSecret:      TestSecret,
		RateLimitPerMinute: 600,
		LogLevel:           "info",
	}
}

// testPasswordHash is shared by all test players
var testPasswordHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// CreateTestPlayer inserts a player whose email is derived from apelido
func CreateTestPlayer(t *testing.T, st *store.Store, apelido string, admin bool) models.Player {
	t.Helper()

	p := models.Player{
		Nome:         "Jogador " + apelido,
		Apelido:      apelido,
		Email:        apelido + "@craque.test",
		PasswordHash: testPasswordHash,
		Admin:        admin,
	}
	id, err := st.CreatePlayer(context.Background(), p)
	if err != nil {
		t.Fatalf("Failed to create test player: %v", err)
	}
	p.ID = id
	return p
}

// CreateTestPlayers inserts n regular players named p1..pn
func CreateTestPlayers(t *testing.T, st *store.Store, n int) []models.Player {
	t.Helper()

	players := make([]models.Player, 0, n)
	for i := 1; i <= n; i++ {
		players = append(players, CreateTestPlayer(t, st, fmt.Sprintf("p%d", i), false))
	}
	return players
}

// AddTestListaExtra lists every player at the given date
func AddTestListaExtra(t *testing.T, st *store.Store, players []models.Player, at time.Time) {
	t.Helper()

	for _, p := range players {
		if _, err := st.AddListaExtra(context.Background(), p.ID, at); err != nil {
			t.Fatalf("Failed to add lista extra: %v", err)
		}
	}
}

// InsertTestBallot writes a ballot directly, bypassing the voting rules
func InsertTestBallot(t *testing.T, conn *sql.DB, voter string, weekID int, offered, vote []int64, state models.BallotState) int64 {
	t.Helper()

	if vote == nil {
		vote = []int64{}
	}
	offeredJSON, _ := json.Marshal(offered)
	voteJSON, _ := json.Marshal(vote)

	var id int64
	err := conn.QueryRow(`
		INSERT INTO ballot (players, vote, date, voter, fute_id, state)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, string(offeredJSON), string(voteJSON), time.Now().UTC(), voter, weekID, string(state)).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}
	return id
}

// PlayerIDs returns the ids of the given players in order
func PlayerIDs(players []models.Player) []int64 {
	ids := make([]int64, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}

// AuthHeader returns the Authorization header for the given email
func AuthHeader(email string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + auth.IssueSessionToken(email, TestSecret)}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
