// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

// Error kinds shared by every layer. Wrap them with fmt.Errorf("...: %w", Err...)
// and inspect with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	ErrStorage    = errors.New("storage error")

	// ErrCorruptBallot marks stored ballots that cannot be tallied.
	ErrCorruptBallot = errors.New("corrupt ballot")
)
