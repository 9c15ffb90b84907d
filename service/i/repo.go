package i

import (
	"context"
	"errors"

	"github.com/google/uuid"
	dmn "github.com/rssebastian/maze-game/domain"
	"github.com/rssebastian/maze-game/game"
)

// ResultRepo defines the interface for persisting finished sessions.
type ResultRepo interface {
	// Save inserts or updates the result of a session.
	Save(ctx context.Context, result *dmn.Result) error

	// ByID retrieves the result of a session.
	// Returns an error if the result is not found or in case of an unexpected error.
	ByID(ctx context.Context, sessionID uuid.UUID) (*dmn.Result, error)
}

// SessionStore keeps the latest snapshot of every live or recently ended session.
type SessionStore interface {
	// Save replaces the stored snapshot of the session.
	Save(ctx context.Context, snapshot game.Snapshot) error

	// ByID retrieves the stored snapshot of a session.
	ByID(ctx context.Context, sessionID uuid.UUID) (*game.Snapshot, error)
}

// ErrNotFound is returned by stores and repositories when nothing is stored under the key.
var ErrNotFound = errors.New("not found")
