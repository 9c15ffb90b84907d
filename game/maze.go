package game

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUnknownBody = errors.New("unknown body")
)

// World defines the body API of the external physics engine that the game
// configures and queries. Implementations must be safe for concurrent use.
type World interface {
	// Add registers bodies with the world.
	Add(bodies ...Body) error

	// Body returns a copy of the body with the given ID.
	Body(id uuid.UUID) (Body, error)

	// Bodies returns copies of all bodies carrying the label.
	Bodies(label Label) []Body

	// All returns copies of every registered body.
	All() []Body

	// SetStatic flips the static (solid) flag of a body.
	SetStatic(id uuid.UUID, static bool) error

	// SetVelocity replaces the velocity of a body.
	SetVelocity(id uuid.UUID, v Vector) error

	// Gravity returns the global gravity vector.
	Gravity() Vector

	// SetGravity replaces the global gravity vector.
	SetGravity(Vector)
}

// CollisionPair is one collision-start notification reported by the engine.
type CollisionPair struct {
	A uuid.UUID `json:"a"`
	B uuid.UUID `json:"b"`
}

// Matches reports whether the pair joins x and y, in either order.
func (p CollisionPair) Matches(x, y uuid.UUID) bool {
	return (p.A == x && p.B == y) || (p.A == y && p.B == x)
}
