// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apuracao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/danielhkuo/craque/metrics"
	"github.com/danielhkuo/craque/models"
	"github.com/danielhkuo/craque/ranking"
	"github.com/danielhkuo/craque/timings"
)

// StaleAfter is how long a started tally may go without progress before
// another request takes it over.
const StaleAfter = 2 * time.Minute

// Store is the persistence the tally needs.
type Store interface {
	GetApuracao(ctx context.Context, weekID int) (models.Apuracao, error)
	ReserveApuracao(ctx context.Context, weekID int, randomID string, now time.Time) (bool, error)
	TakeOverApuracao(ctx context.Context, weekID int, now, staleBefore time.Time) (bool, error)
	CompleteApuracao(ctx context.Context, weekID int, results []byte, now time.Time) error
	CloseOpenBallots(ctx context.Context, weekID int) (int64, error)
	ListClosedBallots(ctx context.Context, weekID int) ([]models.Ballot, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
}

// WeekRanking is the answer to a ranking request for one week.
type WeekRanking struct {
	WeekID    int
	Semana    time.Time
	Published bool
	PublishAt time.Time
	Ranking   *models.Ranking
}

type Service struct {
	store  Store
	group  singleflight.Group
	tracer trace.Tracer
}

func NewService(st Store) *Service {
	return &Service{
		store:  st,
		tracer: otel.Tracer("github.com/danielhkuo/craque/apuracao"),
	}
}

// GetOrCreate returns the persisted ranking of the week, computing and
// storing it on first use. Every call for a week returns the same ranking.
// A tally being computed elsewhere yields models.ErrConflict.
func (s *Service) GetOrCreate(ctx context.Context, weekID int, now time.Time) (models.Ranking, error) {
	if !timings.ValidWeekID(weekID) {
		return models.Ranking{}, fmt.Errorf("week %d out of range [0, %d]: %w", weekID, timings.MaxWeekID, models.ErrValidation)
	}

	// The shared tally outlives any single caller; each caller still
	// stops waiting when its own context ends.
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(strconv.Itoa(weekID), func() (any, error) {
		return s.getOrCreate(detached, weekID, now)
	})
	select {
	case <-ctx.Done():
		return models.Ranking{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return models.Ranking{}, res.Err
		}
		return res.Val.(models.Ranking), nil
	}
}

func (s *Service) getOrCreate(ctx context.Context, weekID int, now time.Time) (r models.Ranking, err error) {
	ctx, span := s.tracer.Start(ctx, "apuracao.GetOrCreate", trace.WithAttributes(attribute.Int("week_id", weekID)))
	defer func() {
		if err != nil {
			metrics.ApuracaoRuns.WithLabelValues(outcome(err)).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	a, err := s.store.GetApuracao(ctx, weekID)
	switch {
	case err == nil && a.State == models.ApuracaoComplete:
		metrics.ApuracaoRuns.WithLabelValues("cached").Inc()
		return decode(a)
	case err != nil && !errors.Is(err, models.ErrNotFound):
		return models.Ranking{}, err
	}

	owned := false
	if err != nil {
		owned, err = s.store.ReserveApuracao(ctx, weekID, uuid.NewString(), now)
		if err != nil {
			return models.Ranking{}, err
		}
	}
	if !owned {
		owned, err = s.store.TakeOverApuracao(ctx, weekID, now, now.Add(-StaleAfter))
		if err != nil {
			return models.Ranking{}, err
		}
		if !owned {
			return s.readComplete(ctx, weekID)
		}
		slog.Warn("took over stale apuracao", "week_id", weekID)
	}

	start := time.Now()
	results, err := s.compute(ctx, weekID, now)
	if err != nil {
		return models.Ranking{}, err
	}

	err = s.store.CompleteApuracao(ctx, weekID, results, now)
	if errors.Is(err, models.ErrConflict) {
		return s.readComplete(ctx, weekID)
	}
	if err != nil {
		return models.Ranking{}, err
	}

	metrics.ApuracaoRuns.WithLabelValues("computed").Inc()
	metrics.ApuracaoDuration.Observe(time.Since(start).Seconds())
	slog.Info("apuracao complete", "week_id", weekID, "duration_ms", time.Since(start).Milliseconds())

	var out models.Ranking
	if err := json.Unmarshal(results, &out); err != nil {
		return models.Ranking{}, fmt.Errorf("decode results: %w", err)
	}
	return out, nil
}

// compute closes the week's open ballots and ranks the closed ones.
func (s *Service) compute(ctx context.Context, weekID int, now time.Time) ([]byte, error) {
	closed, err := s.store.CloseOpenBallots(ctx, weekID)
	if err != nil {
		return nil, err
	}
	if closed > 0 {
		slog.Info("closed open ballots", "week_id", weekID, "count", closed)
	}

	r, err := s.rank(ctx, weekID, now)
	if err != nil {
		return nil, err
	}

	results, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode results: %w", err)
	}
	return results, nil
}

func (s *Service) rank(ctx context.Context, weekID int, now time.Time) (models.Ranking, error) {
	ballots, err := s.store.ListClosedBallots(ctx, weekID)
	if err != nil {
		return models.Ranking{}, err
	}
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return models.Ranking{}, err
	}

	r, err := ranking.Compute(ballots, ranking.Roster(players), now)
	if err != nil {
		return models.Ranking{}, fmt.Errorf("rank week %d: %w", weekID, err)
	}
	return r, nil
}

// readComplete returns the ranking of a row finished by another caller.
func (s *Service) readComplete(ctx context.Context, weekID int) (models.Ranking, error) {
	a, err := s.store.GetApuracao(ctx, weekID)
	if err != nil {
		return models.Ranking{}, err
	}
	if a.State != models.ApuracaoComplete {
		return models.Ranking{}, fmt.Errorf("apuracao for week %d in progress: %w", weekID, models.ErrConflict)
	}
	metrics.ApuracaoRuns.WithLabelValues("cached").Inc()
	return decode(a)
}

// WeekRanking returns the ranking of the week once it is published. Before
// that only the publication time is reported and nothing is computed.
func (s *Service) WeekRanking(ctx context.Context, weekID int, now time.Time) (WeekRanking, error) {
	if !timings.ValidWeekID(weekID) {
		return WeekRanking{}, fmt.Errorf("week %d out of range [0, %d]: %w", weekID, timings.MaxWeekID, models.ErrValidation)
	}

	ref := timings.RefPointFromID(weekID)
	wr := WeekRanking{
		WeekID:    weekID,
		Semana:    ref,
		PublishAt: timings.PublishTime(ref),
	}
	if !timings.PublishResults(ref, now) {
		return wr, nil
	}

	r, err := s.GetOrCreate(ctx, weekID, now)
	if err != nil {
		return WeekRanking{}, err
	}
	wr.Published = true
	wr.Ranking = &r
	return wr, nil
}

// LiveRanking ranks the closed ballots of the current week without closing
// or persisting anything.
func (s *Service) LiveRanking(ctx context.Context, now time.Time) (models.Ranking, error) {
	return s.rank(ctx, timings.WeekID(now), now)
}

func decode(a models.Apuracao) (models.Ranking, error) {
	var r models.Ranking
	if err := json.Unmarshal(a.Results, &r); err != nil {
		return models.Ranking{}, fmt.Errorf("decode apuracao %s: %w", a.RandomID, err)
	}
	return r, nil
}

func outcome(err error) string {
	if errors.Is(err, models.ErrConflict) {
		return "in_progress"
	}
	return "error"
}
