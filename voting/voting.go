// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/danielhkuo/craque/eligibility"
	"github.com/danielhkuo/craque/metrics"
	"github.com/danielhkuo/craque/models"
	"github.com/danielhkuo/craque/store"
	"github.com/danielhkuo/craque/timings"
)

// PlayersPerBallot is the number of players drawn onto every ballot.
const PlayersPerBallot = 5

// Store is the persistence the ballot lifecycle needs.
type Store interface {
	InsertOpenBallot(ctx context.Context, voter string, weekID int, players []int64, date time.Time) (store.InsertResult, error)
	FindOpenBallot(ctx context.Context, voter string, weekID int) (models.Ballot, bool, error)
	GetBallot(ctx context.Context, id int64) (models.Ballot, error)
	SubmitVote(ctx context.Context, id int64, vote []int64) error
	ListVoterBallots(ctx context.Context, voter string, weekID int) ([]models.Ballot, error)
	GetPlayer(ctx context.Context, id int64) (models.Player, error)
}

// Eligibility returns the players that may be drawn at a given time.
type Eligibility interface {
	Eligible(ctx context.Context, t time.Time) ([]models.Player, error)
}

// CreateResult identifies the voter's open ballot and whether this call
// created it.
type CreateResult struct {
	BallotID int64
	Created  bool
}

type Service struct {
	store       Store
	eligibility Eligibility
	tracer      trace.Tracer
}

func NewService(st Store, el Eligibility) *Service {
	return &Service{
		store:       st,
		eligibility: el,
		tracer:      otel.Tracer("github.com/danielhkuo/craque/voting"),
	}
}

// Create returns the voter's open ballot for the current week, drawing a
// new one when none exists.
func (s *Service) Create(ctx context.Context, voter string, now time.Time) (res CreateResult, err error) {
	weekID := timings.WeekID(now)
	ctx, span := s.tracer.Start(ctx, "voting.Create", trace.WithAttributes(attribute.Int("week_id", weekID)))
	defer endSpan(span, &err)

	existing, found, err := s.store.FindOpenBallot(ctx, voter, weekID)
	if err != nil {
		return CreateResult{}, err
	}
	if found {
		metrics.BallotsCreated.WithLabelValues("existing").Inc()
		return CreateResult{BallotID: existing.ID}, nil
	}

	if !timings.CanCreateBallot(now) {
		return CreateResult{}, fmt.Errorf("ballot creation closed for week %d: %w", weekID, models.ErrConflict)
	}

	eligible, err := s.eligibility.Eligible(ctx, now)
	if err != nil {
		return CreateResult{}, fmt.Errorf("resolve eligibility: %w", err)
	}
	if len(eligible) < eligibility.MinEligiblePlayers {
		return CreateResult{}, fmt.Errorf("only %d eligible players, need %d: %w",
			len(eligible), eligibility.MinEligiblePlayers, models.ErrConflict)
	}

	drawn := draw(eligible, PlayersPerBallot)
	ins, err := s.store.InsertOpenBallot(ctx, voter, weekID, drawn, now)
	if err != nil {
		return CreateResult{}, err
	}

	if ins.Created {
		metrics.BallotsCreated.WithLabelValues("created").Inc()
		slog.Info("ballot created", "ballot_id", ins.BallotID, "week_id", weekID, "eligible", len(eligible))
	} else {
		metrics.BallotsCreated.WithLabelValues("existing").Inc()
	}
	return CreateResult{BallotID: ins.BallotID, Created: ins.Created}, nil
}

// CastVote records the voter's ranking, best first, and closes the ballot.
func (s *Service) CastVote(ctx context.Context, ballotID int64, voter string, ranked []int64, now time.Time) (err error) {
	ctx, span := s.tracer.Start(ctx, "voting.CastVote", trace.WithAttributes(attribute.Int64("ballot_id", ballotID)))
	defer endSpan(span, &err)

	b, err := s.store.GetBallot(ctx, ballotID)
	if err != nil {
		return reject("not_found", err)
	}
	if b.Voter != voter {
		return reject("forbidden", fmt.Errorf("ballot %d: %w", ballotID, models.ErrForbidden))
	}
	if b.State != models.BallotOpen {
		return reject("closed", fmt.Errorf("ballot %d already closed: %w", ballotID, models.ErrConflict))
	}
	if !timings.CanCastVote(timings.RefPointFromID(b.WeekID), now) {
		return reject("window", fmt.Errorf("voting closed for week %d: %w", b.WeekID, models.ErrConflict))
	}
	if err := validateVote(b.Players, ranked); err != nil {
		return reject("invalid", err)
	}

	if err := s.store.SubmitVote(ctx, ballotID, ranked); err != nil {
		return reject("closed", err)
	}

	metrics.VotesCast.Inc()
	slog.Info("vote cast", "ballot_id", ballotID, "week_id", b.WeekID, "ranked", len(ranked))
	return nil
}

// Get returns the voter's ballot with the offered players resolved.
func (s *Service) Get(ctx context.Context, ballotID int64, voter string) (models.BallotResponse, error) {
	b, err := s.store.GetBallot(ctx, ballotID)
	if err != nil {
		return models.BallotResponse{}, err
	}
	if b.Voter != voter {
		return models.BallotResponse{}, fmt.Errorf("ballot %d: %w", ballotID, models.ErrForbidden)
	}

	players := make([]models.PlayerSummary, 0, len(b.Players))
	for _, id := range b.Players {
		p, err := s.store.GetPlayer(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			return models.BallotResponse{}, fmt.Errorf("ballot %d offers unknown player %d: %w", ballotID, id, models.ErrCorruptBallot)
		}
		if err != nil {
			return models.BallotResponse{}, err
		}
		players = append(players, p.Summary())
	}

	return models.BallotResponse{
		Ballot:  b,
		Players: players,
		Semana:  timings.RefPointFromID(b.WeekID),
	}, nil
}

// CurrentWeekBallots lists every ballot of the voter in the week of now.
func (s *Service) CurrentWeekBallots(ctx context.Context, voter string, now time.Time) ([]models.Ballot, error) {
	return s.store.ListVoterBallots(ctx, voter, timings.WeekID(now))
}

// validateVote checks that ranked is a non-empty, duplicate-free subset of offered.
func validateVote(offered, ranked []int64) error {
	if len(ranked) == 0 {
		return fmt.Errorf("empty vote: %w", models.ErrValidation)
	}
	allowed := make(map[int64]bool, len(offered))
	for _, id := range offered {
		allowed[id] = true
	}
	seen := make(map[int64]bool, len(ranked))
	for _, id := range ranked {
		if !allowed[id] {
			return fmt.Errorf("player %d was not offered: %w", id, models.ErrValidation)
		}
		if seen[id] {
			return fmt.Errorf("player %d ranked twice: %w", id, models.ErrValidation)
		}
		seen[id] = true
	}
	return nil
}

// draw picks n distinct players uniformly at random.
func draw(players []models.Player, n int) []int64 {
	ids := make([]int64, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	return ids[:n]
}

func reject(reason string, err error) error {
	metrics.VotesRejected.WithLabelValues(reason).Inc()
	return err
}

func endSpan(span trace.Span, err *error) {
	if *err != nil {
		span.RecordError(*err)
		span.SetStatus(codes.Error, (*err).Error())
	}
	span.End()
}
