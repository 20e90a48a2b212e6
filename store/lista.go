// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"time"
)

// AddListaExtra marks a player as eligible around the given date.
func (s *Store) AddListaExtra(ctx context.Context, jogadorID int64, data time.Time) (int64, error) {
	if _, err := s.GetPlayer(ctx, jogadorID); err != nil {
		return 0, err
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO lista_extra (jogador_id, data)
		VALUES ($1, $2)
		RETURNING id
	`, jogadorID, data.UTC()).Scan(&id)
	if err != nil {
		return 0, storageErr("insert lista extra", err)
	}
	return id, nil
}

// ListaExtraPlayerIDs returns the distinct players listed strictly inside (from, to).
func (s *Store) ListaExtraPlayerIDs(ctx context.Context, from, to time.Time) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT jogador_id FROM lista_extra
		WHERE data > $1 AND data < $2
		ORDER BY jogador_id
	`, from.UTC(), to.UTC())
	if err != nil {
		return nil, storageErr("query lista extra", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr("scan lista extra", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate lista extra", err)
	}
	return ids, nil
}
