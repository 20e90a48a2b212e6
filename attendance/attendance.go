// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Source lists the emails of ticket holders of events that started within
// a time range.
type Source interface {
	Emails(ctx context.Context, from, to time.Time) ([]string, error)
}

// PGSource reads tickets from the alf.io ticketing database.
type PGSource struct {
	pool   *pgxpool.Pool
	filter string
}

// NewPGSource connects to the ticketing database. eventFilter is a LIKE
// pattern matched against event short names; "%" accepts every event.
func NewPGSource(ctx context.Context, url, eventFilter string) (*PGSource, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create attendance pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("attendance database ping failed: %w", err)
	}
	if eventFilter == "" {
		eventFilter = "%"
	}
	return &PGSource{pool: pool, filter: eventFilter}, nil
}

// Emails returns the distinct ticket emails of matching events whose
// start_ts lies in [from, to].
func (s *PGSource) Emails(ctx context.Context, from, to time.Time) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT email_address FROM ticket
		WHERE email_address IS NOT NULL
		  AND event_id IN (
			SELECT id FROM event
			WHERE start_ts BETWEEN $1 AND $2 AND short_name LIKE $3
		  )
	`, from.UTC(), to.UTC(), s.filter)
	if err != nil {
		return nil, fmt.Errorf("query ticket emails: %w", err)
	}
	defer rows.Close()

	emails := []string{}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan ticket email: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticket emails: %w", err)
	}
	return emails, nil
}

func (s *PGSource) Close() {
	s.pool.Close()
}

// Static is a fixed attendance list used when no ticketing database is
// configured. It ignores the time range.
type Static []string

func (s Static) Emails(context.Context, time.Time, time.Time) ([]string, error) {
	out := make([]string, len(s))
	copy(out, s)
	return out, nil
}
