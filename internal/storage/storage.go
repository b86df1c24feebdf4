// Package storage defines the persistence contracts for game sessions
// and teams. Implementations must apply each operation atomically: a
// failed call leaves no partial update behind.
package storage

import (
	"context"

	"github.com/sandlotlabs/dugout/internal/game"
	apperrors "github.com/sandlotlabs/dugout/internal/platform/errors"
	"github.com/sandlotlabs/dugout/internal/roster"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// SessionStore persists game sessions. Mutations to one session id are
// serialized; reads and writes for different ids may proceed
// concurrently.
type SessionStore interface {
	// Save inserts or replaces a session.
	Save(ctx context.Context, session game.Session) error
	// Get returns the session with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (game.Session, error)
	// GetByJoinCode returns the waiting session with the given join
	// code, or ErrNotFound. Join codes are only unique among waiting
	// sessions, so terminal and active sessions never match.
	GetByJoinCode(ctx context.Context, code string) (game.Session, error)
	// ListByUser returns every session where the user is a participant,
	// optionally filtered to the given statuses.
	ListByUser(ctx context.Context, userID string, statuses ...game.Status) ([]game.Session, error)
	// Mutate runs fn against the current session under the per-id write
	// lock and persists the returned session. When fn errors, nothing
	// is written and the error is returned as-is.
	Mutate(ctx context.Context, id string, fn func(game.Session) (game.Session, error)) (game.Session, error)
	// Delete removes a session. Missing ids return ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// TeamStore persists team rosters.
type TeamStore interface {
	PutTeam(ctx context.Context, team roster.Team) error
	GetTeam(ctx context.Context, id string) (roster.Team, error)
}
