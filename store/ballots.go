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

// insertAttempts bounds the insert/lookup loop when an open ballot disappears
// between a conflicting insert and the follow-up read.
const insertAttempts = 3

// InsertResult tells whether InsertOpenBallot created a row or found the
// voter's existing open ballot.
type InsertResult struct {
	BallotID int64
	Created  bool
}

// InsertOpenBallot atomically inserts an open ballot for (voter, week) or
// returns the one that already exists. The partial unique index on open
// ballots makes the insert fail silently on conflict.
func (s *Store) InsertOpenBallot(ctx context.Context, voter string, weekID int, players []int64, date time.Time) (InsertResult, error) {
	playersJSON, err := encodeIDs(players)
	if err != nil {
		return InsertResult{}, fmt.Errorf("encode players: %w", err)
	}

	for range insertAttempts {
		var id int64
		err := s.db.QueryRowContext(ctx, `
			INSERT INTO ballot (players, vote, date, voter, fute_id, state)
			VALUES ($1, '[]', $2, $3, $4, 'open')
			ON CONFLICT DO NOTHING
			RETURNING id
		`, playersJSON, date.UTC(), voter, weekID).Scan(&id)
		if err == nil {
			return InsertResult{BallotID: id, Created: true}, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return InsertResult{}, storageErr("insert ballot", err)
		}

		existing, found, err := s.FindOpenBallot(ctx, voter, weekID)
		if err != nil {
			return InsertResult{}, err
		}
		if found {
			return InsertResult{BallotID: existing.ID, Created: false}, nil
		}
	}

	return InsertResult{}, fmt.Errorf("insert ballot for week %d: %w", weekID, models.ErrConflict)
}

// FindOpenBallot returns the voter's open ballot for the week, if any.
func (s *Store) FindOpenBallot(ctx context.Context, voter string, weekID int) (models.Ballot, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, players, vote, date, voter, fute_id, state
		FROM ballot
		WHERE voter = $1 AND fute_id = $2 AND state = 'open'
	`, voter, weekID)
	b, err := scanBallot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ballot{}, false, nil
	}
	if err != nil {
		return models.Ballot{}, false, storageErr("query open ballot", err)
	}
	return b, true, nil
}

func (s *Store) GetBallot(ctx context.Context, id int64) (models.Ballot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, players, vote, date, voter, fute_id, state
		FROM ballot WHERE id = $1
	`, id)
	b, err := scanBallot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ballot{}, fmt.Errorf("ballot %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Ballot{}, storageErr("query ballot", err)
	}
	return b, nil
}

// SubmitVote records the ranked vote and closes the ballot. Only an open
// ballot is updated; anything else is a conflict.
func (s *Store) SubmitVote(ctx context.Context, id int64, vote []int64) error {
	voteJSON, err := encodeIDs(vote)
	if err != nil {
		return fmt.Errorf("encode vote: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE ballot SET vote = $1, state = 'closed'
		WHERE id = $2 AND state = 'open'
	`, voteJSON, id)
	if err != nil {
		return storageErr("update ballot", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("update ballot", err)
	}
	if n == 1 {
		return nil
	}

	if _, err := s.GetBallot(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("ballot %d is not open: %w", id, models.ErrConflict)
}

// CloseOpenBallots force-closes every open ballot of the week and returns how
// many were closed. Running it twice is a no-op.
func (s *Store) CloseOpenBallots(ctx context.Context, weekID int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE ballot SET state = 'closed'
		WHERE fute_id = $1 AND state = 'open'
	`, weekID)
	if err != nil {
		return 0, storageErr("close ballots", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("close ballots", err)
	}
	return n, nil
}

// ListClosedBallots returns the week's closed ballots ordered by id.
func (s *Store) ListClosedBallots(ctx context.Context, weekID int) ([]models.Ballot, error) {
	return s.queryBallots(ctx, "list closed ballots", `
		SELECT id, players, vote, date, voter, fute_id, state
		FROM ballot
		WHERE fute_id = $1 AND state = 'closed'
		ORDER BY id
	`, weekID)
}

// ListVoterBallots returns every ballot of the voter in the week.
func (s *Store) ListVoterBallots(ctx context.Context, voter string, weekID int) ([]models.Ballot, error) {
	return s.queryBallots(ctx, "list voter ballots", `
		SELECT id, players, vote, date, voter, fute_id, state
		FROM ballot
		WHERE voter = $1 AND fute_id = $2
		ORDER BY id
	`, voter, weekID)
}

func (s *Store) queryBallots(ctx context.Context, op, query string, args ...any) ([]models.Ballot, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	ballots := []models.Ballot{}
	for rows.Next() {
		b, err := scanBallot(rows)
		if err != nil {
			if errors.Is(err, models.ErrCorruptBallot) {
				return nil, err
			}
			return nil, storageErr(op, err)
		}
		ballots = append(ballots, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return ballots, nil
}

func scanBallot(row rowScanner) (models.Ballot, error) {
	var (
		b                   models.Ballot
		playersRaw, voteRaw []byte
		state               string
	)
	if err := row.Scan(&b.ID, &playersRaw, &voteRaw, &b.Date, &b.Voter, &b.WeekID, &state); err != nil {
		return models.Ballot{}, err
	}

	var err error
	if b.Players, err = decodeIDs(playersRaw); err != nil {
		return models.Ballot{}, fmt.Errorf("ballot %d players: %w", b.ID, err)
	}
	if b.Vote, err = decodeIDs(voteRaw); err != nil {
		return models.Ballot{}, fmt.Errorf("ballot %d vote: %w", b.ID, err)
	}

	switch models.BallotState(state) {
	case models.BallotOpen, models.BallotClosed:
		b.State = models.BallotState(state)
	default:
		return models.Ballot{}, fmt.Errorf("ballot %d state %q: %w", b.ID, state, models.ErrCorruptBallot)
	}
	b.Date = b.Date.UTC()
	return b, nil
}
