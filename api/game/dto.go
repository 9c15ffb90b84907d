// Package gameapi exposes maze sessions over HTTP.
package gameapi

import (
	"github.com/google/uuid"
	"github.com/rssebastian/maze-game/game"
)

// NewSessionRequest represents a request to create a new maze session.
type NewSessionRequest struct {
	Rows int   `json:"rows" binding:"required"`
	Cols int   `json:"cols" binding:"required"`
	Seed int64 `json:"seed"`
}

// NewSessionResponse carries the created session and its bearer token.
type NewSessionResponse struct {
	ID       uuid.UUID     `json:"id"`
	Token    string        `json:"token"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// CollisionsRequest holds the collision-start pairs of one engine tick.
type CollisionsRequest struct {
	Pairs []game.CollisionPair `json:"pairs"`
}

// CollisionsResponse reports the session state after the batch.
type CollisionsResponse struct {
	State game.State `json:"state"`
}

// CommandRequest holds a single key press.
type CommandRequest struct {
	Key string `json:"key" binding:"required"`
}

// CommandResponse reports the player's velocity after the key press.
type CommandResponse struct {
	Velocity game.Vector `json:"velocity"`
}
