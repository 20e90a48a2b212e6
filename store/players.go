// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/craque/models"
)

// CreatePlayer inserts a player and returns its id.
func (s *Store) CreatePlayer(ctx context.Context, p models.Player) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO jogador (nome, apelido, email, senha_hash, admin, imagem)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, p.Nome, p.Apelido, strings.TrimSpace(p.Email), p.PasswordHash, p.Admin, p.Image).Scan(&id)
	if err != nil {
		return 0, storageErr("insert player", err)
	}
	return id, nil
}

func (s *Store) GetPlayer(ctx context.Context, id int64) (models.Player, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, nome, apelido, email, senha_hash, admin
		FROM jogador WHERE id = $1
	`, id)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Player{}, fmt.Errorf("player %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Player{}, storageErr("query player", err)
	}
	return p, nil
}

func (s *Store) GetPlayerByEmail(ctx context.Context, email string) (models.Player, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, nome, apelido, email, senha_hash, admin
		FROM jogador WHERE email = $1
	`, strings.TrimSpace(email))
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Player{}, fmt.Errorf("player %q: %w", email, models.ErrNotFound)
	}
	if err != nil {
		return models.Player{}, storageErr("query player by email", err)
	}
	return p, nil
}

// ListPlayers returns the full roster ordered by id. Images are not loaded.
func (s *Store) ListPlayers(ctx context.Context) ([]models.Player, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nome, apelido, email, senha_hash, admin
		FROM jogador ORDER BY id
	`)
	if err != nil {
		return nil, storageErr("query players", err)
	}
	defer rows.Close()

	players := []models.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, storageErr("scan player", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate players", err)
	}
	return players, nil
}

// PlayerImage returns the stored profile image, or ErrNotFound when the
// player or the image is missing.
func (s *Store) PlayerImage(ctx context.Context, id int64) ([]byte, error) {
	var img []byte
	err := s.db.QueryRowContext(ctx, `SELECT imagem FROM jogador WHERE id = $1`, id).Scan(&img)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("query player image", err)
	}
	if len(img) == 0 {
		return nil, fmt.Errorf("image of player %d: %w", id, models.ErrNotFound)
	}
	return img, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (models.Player, error) {
	var p models.Player
	err := row.Scan(&p.ID, &p.Nome, &p.Apelido, &p.Email, &p.PasswordHash, &p.Admin)
	return p, err
}
