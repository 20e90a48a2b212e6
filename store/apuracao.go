// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/craque/models"
)

func (s *Store) GetApuracao(ctx context.Context, weekID int) (models.Apuracao, error) {
	var (
		a     models.Apuracao
		state string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, week_id, random_id, state, results, created_at, updated_at
		FROM apuracao WHERE week_id = $1
	`, weekID).Scan(&a.ID, &a.WeekID, &a.RandomID, &state, &a.Results, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Apuracao{}, fmt.Errorf("apuracao for week %d: %w", weekID, models.ErrNotFound)
	}
	if err != nil {
		return models.Apuracao{}, storageErr("query apuracao", err)
	}
	a.State = models.ApuracaoState(state)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

// ReserveApuracao claims the tally of a week by inserting a started row.
// It reports false when another caller already holds a row for the week.
func (s *Store) ReserveApuracao(ctx context.Context, weekID int, randomID string, now time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO apuracao (week_id, random_id, state, results, created_at, updated_at)
		VALUES ($1, $2, 'started', '{}', $3, $3)
		ON CONFLICT (week_id) DO NOTHING
	`, weekID, randomID, now.UTC())
	if err != nil {
		return false, storageErr("reserve apuracao", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("reserve apuracao", err)
	}
	return n == 1, nil
}

// TakeOverApuracao claims a started tally whose holder stopped refreshing it
// before staleBefore. It reports whether the claim succeeded.
func (s *Store) TakeOverApuracao(ctx context.Context, weekID int, now, staleBefore time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE apuracao SET updated_at = $1
		WHERE week_id = $2 AND state = 'started' AND updated_at < $3
	`, now.UTC(), weekID, staleBefore.UTC())
	if err != nil {
		return false, storageErr("take over apuracao", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("take over apuracao", err)
	}
	return n == 1, nil
}

// CompleteApuracao stores the final results. Only a started row transitions;
// a completed one is never rewritten.
func (s *Store) CompleteApuracao(ctx context.Context, weekID int, results []byte, now time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE apuracao SET results = $1, state = 'complete', updated_at = $2
		WHERE week_id = $3 AND state = 'started'
	`, string(results), now.UTC(), weekID)
	if err != nil {
		return storageErr("complete apuracao", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("complete apuracao", err)
	}
	if n != 1 {
		return fmt.Errorf("apuracao for week %d is not started: %w", weekID, models.ErrConflict)
	}
	return nil
}
