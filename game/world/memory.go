// Package world provides an in-memory body registry implementing game.World.
// It mirrors the state the host engine holds for a session (bodies, their
// static flags, velocities and gravity) without simulating motion.
package world

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rssebastian/maze-game/game"
)

var (
	ErrDuplicateBody = errors.New("body already registered")
)

var _ game.World = &Memory{}

// Memory is a thread-safe body registry.
type Memory struct {
	bodies  map[uuid.UUID]*game.Body
	order   []uuid.UUID // Insertion order, for stable listings.
	gravity game.Vector
	sync.RWMutex
}

// NewMemory returns an empty registry with zero gravity.
func NewMemory() *Memory {
	return &Memory{
		bodies: make(map[uuid.UUID]*game.Body),
	}
}

// Add implements game.World.
func (m *Memory) Add(bodies ...game.Body) error {
	m.Lock()
	defer m.Unlock()

	// Nothing is registered unless every ID is new.
	seen := make(map[uuid.UUID]struct{}, len(bodies))
	for _, b := range bodies {
		_, registered := m.bodies[b.ID]
		_, repeated := seen[b.ID]
		if registered || repeated {
			return fmt.Errorf("%w: %s", ErrDuplicateBody, b.ID)
		}
		seen[b.ID] = struct{}{}
	}

	for _, b := range bodies {
		body := b
		m.bodies[b.ID] = &body
		m.order = append(m.order, b.ID)
	}
	return nil
}

// Body implements game.World.
func (m *Memory) Body(id uuid.UUID) (game.Body, error) {
	m.RLock()
	defer m.RUnlock()

	b, ok := m.bodies[id]
	if !ok {
		return game.Body{}, fmt.Errorf("%w: %s", game.ErrUnknownBody, id)
	}
	return *b, nil
}

// Bodies implements game.World.
func (m *Memory) Bodies(label game.Label) []game.Body {
	m.RLock()
	defer m.RUnlock()

	var result []game.Body
	for _, id := range m.order {
		if b := m.bodies[id]; b.Label == label {
			result = append(result, *b)
		}
	}
	return result
}

// All implements game.World.
func (m *Memory) All() []game.Body {
	m.RLock()
	defer m.RUnlock()

	result := make([]game.Body, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, *m.bodies[id])
	}
	return result
}

// SetStatic implements game.World.
func (m *Memory) SetStatic(id uuid.UUID, static bool) error {
	return m.update(id, func(b *game.Body) { b.Static = static })
}

// SetVelocity implements game.World.
func (m *Memory) SetVelocity(id uuid.UUID, v game.Vector) error {
	return m.update(id, func(b *game.Body) { b.Velocity = v })
}

// Gravity implements game.World.
func (m *Memory) Gravity() game.Vector {
	m.RLock()
	defer m.RUnlock()
	return m.gravity
}

// SetGravity implements game.World.
func (m *Memory) SetGravity(g game.Vector) {
	m.Lock()
	defer m.Unlock()
	m.gravity = g
}

func (m *Memory) update(id uuid.UUID, mutate func(*game.Body)) error {
	m.Lock()
	defer m.Unlock()

	b, ok := m.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %s", game.ErrUnknownBody, id)
	}
	mutate(b)
	return nil
}
