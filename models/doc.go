// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain types and API request/response shapes.

# Domain Types

  - Ballot: five offered players and the voter's ranked choice for one week
  - Player: a registered player (jogador); also the voter account
  - ListaExtra: manual eligibility entries
  - Apuracao: the persisted tally of one week
  - Ranking / RankingEntry: the tally result, stored as JSON in Apuracao

# States

Ballots move from BallotOpen to BallotClosed exactly once. Closed means the
vote was recorded or the week was force-closed before tallying.

Tallies move from ApuracaoStarted to ApuracaoComplete; a complete tally
never changes.

# Errors

Error kinds (ErrNotFound, ErrForbidden, ErrConflict, ErrValidation,
ErrStorage, ErrCorruptBallot) are sentinels wrapped by every layer:

	if errors.Is(err, models.ErrNotFound) { ... }

# JSON Conventions

Voter emails, password hashes and image blobs are never serialized.
Optional fields use omitempty; RankingEntry.DesvioPadrao is omitted when the
deviation is undefined.
*/
package models
