package i

import (
	"context"

	"github.com/google/uuid"
	"github.com/rssebastian/maze-game/game"
)

// SessionRequest describes the maze a new session should use.
type SessionRequest struct {
	Rows int
	Cols int
	Seed int64 // Zero picks a random seed.
}

// NewSessionResponse is returned when a session is created.
type NewSessionResponse struct {
	Snapshot game.Snapshot
	Token    string // Bearer token authorising collision and command reports.
}

// GameSessionManager manages maze sessions.
type GameSessionManager interface {
	// NewSession generates a maze, starts its game loop and returns its first snapshot.
	NewSession(ctx context.Context, req SessionRequest) (*NewSessionResponse, error)

	// Session returns the latest snapshot of a session.
	Session(ctx context.Context, id uuid.UUID) (*game.Snapshot, error)

	// Maze returns the ASCII rendering of a live session's maze.
	Maze(id uuid.UUID) (string, error)

	// ReportCollisions forwards one tick's collision-start pairs.
	ReportCollisions(ctx context.Context, id uuid.UUID, pairs []game.CollisionPair) (game.State, error)

	// ApplyCommand forwards a key press.
	ApplyCommand(ctx context.Context, id uuid.UUID, key string) (game.Vector, error)
}
