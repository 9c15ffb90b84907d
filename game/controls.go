package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnknownKey = errors.New("unknown key")
)

// impulse is the velocity change applied per key press.
const impulse = 5

var keyDeltas = map[string]Vector{
	"w": {X: 0, Y: -impulse},
	"a": {X: -impulse, Y: 0},
	"s": {X: 0, Y: impulse},
	"d": {X: impulse, Y: 0},
}

// KeyDelta returns the velocity delta bound to a key. Keys are matched
// case-insensitively.
func KeyDelta(key string) (Vector, error) {
	delta, ok := keyDeltas[strings.ToLower(key)]
	if !ok {
		return Vector{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return delta, nil
}

// ApplyKey adds the key's velocity delta to the body's current velocity and
// returns the new velocity.
func ApplyKey(w World, id uuid.UUID, key string) (Vector, error) {
	delta, err := KeyDelta(key)
	if err != nil {
		return Vector{}, err
	}

	body, err := w.Body(id)
	if err != nil {
		return Vector{}, err
	}

	velocity := body.Velocity.Add(delta)
	if err := w.SetVelocity(id, velocity); err != nil {
		return Vector{}, err
	}
	return velocity, nil
}
