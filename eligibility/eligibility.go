// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package eligibility

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"

	"github.com/danielhkuo/craque/attendance"
	"github.com/danielhkuo/craque/models"
	"github.com/danielhkuo/craque/timings"
)

// MinEligiblePlayers is the quorum needed to draw a ballot.
const MinEligiblePlayers = 5

// PlayerStore is the part of the store the resolver reads.
type PlayerStore interface {
	ListPlayers(ctx context.Context) ([]models.Player, error)
	ListaExtraPlayerIDs(ctx context.Context, from, to time.Time) ([]int64, error)
}

// Resolver decides which players may appear on ballots at a given time.
type Resolver struct {
	store  PlayerStore
	source attendance.Source
}

func NewResolver(store PlayerStore, source attendance.Source) *Resolver {
	if source == nil {
		source = attendance.Static(nil)
	}
	return &Resolver{store: store, source: source}
}

// Eligible returns the players, ordered by id, who attended an event in the
// eligibility window of t or were listed in ListaExtra strictly inside it.
func (r *Resolver) Eligible(ctx context.Context, t time.Time) ([]models.Player, error) {
	from, to := timings.StartEligibleCheck(t), timings.EndEligibleCheck(t)

	var (
		players []models.Player
		emails  []string
		extra   []int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = r.store.ListPlayers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		emails, err = r.source.Emails(gctx, from, to)
		if err != nil {
			return fmt.Errorf("attendance: %w: %w", models.ErrStorage, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		extra, err = r.store.ListaExtraPlayerIDs(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fold := cases.Fold()
	attended := make(map[string]bool, len(emails))
	for _, e := range emails {
		attended[fold.String(strings.TrimSpace(e))] = true
	}
	listed := make(map[int64]bool, len(extra))
	for _, id := range extra {
		listed[id] = true
	}

	eligible := []models.Player{}
	for _, p := range players {
		if listed[p.ID] || attended[fold.String(strings.TrimSpace(p.Email))] {
			eligible = append(eligible, p)
		}
	}

	slog.Debug("eligibility resolved",
		"from", from,
		"to", to,
		"attendees", len(emails),
		"lista_extra", len(extra),
		"eligible", len(eligible),
	)
	return eligible, nil
}

// ListEligiblePlayers returns the eligible players at now, sorted by apelido.
func (r *Resolver) ListEligiblePlayers(ctx context.Context, now time.Time) ([]models.PlayerSummary, error) {
	players, err := r.Eligible(ctx, now)
	if err != nil {
		return nil, err
	}

	out := make([]models.PlayerSummary, 0, len(players))
	for _, p := range players {
		out = append(out, p.Summary())
	}
	slices.SortFunc(out, func(a, b models.PlayerSummary) int {
		if c := cmp.Compare(a.Apelido, b.Apelido); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}
