package models

import "time"

// BallotState is the lifecycle state of a ballot. Open → Closed happens once.
type BallotState string

const (
	BallotOpen   BallotState = "open"
	BallotClosed BallotState = "closed"
)

// ApuracaoState is the lifecycle state of a weekly tally.
type ApuracaoState string

const (
	ApuracaoStarted  ApuracaoState = "started"
	ApuracaoComplete ApuracaoState = "complete"
)

// Domain types

type Ballot struct {
	ID      int64       `json:"id"`
	Players []int64     `json:"players"`
	Vote    []int64     `json:"vote"`
	Date    time.Time   `json:"date"`
	Voter   string      `json:"-"`
	WeekID  int         `json:"week_id"`
	State   BallotState `json:"state"`
}

// HasVote reports whether the voter submitted a ranking.
func (b Ballot) HasVote() bool {
	return len(b.Vote) > 0
}

type Player struct {
	ID           int64  `json:"id"`
	Nome         string `json:"nome"`
	Apelido      string `json:"apelido"`
	Email        string `json:"-"`
	PasswordHash string `json:"-"`
	Admin        bool   `json:"admin"`
	Image        []byte `json:"-"`
}

// Summary drops everything but the public fields.
func (p Player) Summary() PlayerSummary {
	return PlayerSummary{ID: p.ID, Nome: p.Nome, Apelido: p.Apelido}
}

type PlayerSummary struct {
	ID      int64  `json:"id"`
	Nome    string `json:"nome"`
	Apelido string `json:"apelido"`
}

type ListaExtra struct {
	ID        int64     `json:"id"`
	JogadorID int64     `json:"jogador_id"`
	Data      time.Time `json:"data"`
}

type Apuracao struct {
	ID        int64         `json:"id"`
	WeekID    int           `json:"week_id"`
	RandomID  string        `json:"random_id"`
	State     ApuracaoState `json:"state"`
	Results   []byte        `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Ranking types

type RankingEntry struct {
	Pos          int      `json:"pos"`
	ID           int64    `json:"id"`
	Nome         string   `json:"nome"`
	Media        float64  `json:"media"`
	Votos        int      `json:"votos"`
	DesvioPadrao *float64 `json:"desvio_padrao,omitempty"`
}

type Ranking struct {
	Entries   []RankingEntry `json:"entries"`
	Timestamp time.Time      `json:"timestamp"`
	Votes     int            `json:"votes"`
}

// Request types

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Player ids arrive as strings, best first.
type CastVoteRequest struct {
	Players []string `json:"players" validate:"required,min=1,max=5,dive,numeric"`
}

type AddListaExtraRequest struct {
	JogadorID int64      `json:"jogador_id" validate:"required,gt=0"`
	Data      *time.Time `json:"data,omitempty"`
}

// Response types

type LoginResponse struct {
	Token string `json:"token"`
}

type CreateBallotResponse struct {
	BallotID int64 `json:"ballot_id"`
	Created  bool  `json:"created"`
}

type BallotResponse struct {
	Ballot  Ballot          `json:"ballot"`
	Players []PlayerSummary `json:"players"`
	Semana  time.Time       `json:"semana"`
}

type CastVoteResponse struct {
	BallotID int64  `json:"ballot_id"`
	Message  string `json:"message"`
}

type WeekRankingResponse struct {
	WeekID    int       `json:"week_id"`
	Semana    time.Time `json:"semana"`
	Published bool      `json:"published"`
	PublishAt time.Time `json:"publish_at"`
	PublishIn string    `json:"publish_in,omitempty"`
	Ranking   *Ranking  `json:"ranking,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
