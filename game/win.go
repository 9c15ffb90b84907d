package game

import (
	"fmt"

	"github.com/google/uuid"
)

// State of a maze session.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won" // Terminal.
)

// collapseGravity is the downward force enabled once the goal is reached.
var collapseGravity = Vector{X: 0, Y: 1}

// WinStateMachine watches collision batches for the player touching the goal.
// On the first such contact it fires onWin, makes every wall non-static and
// turns gravity on. Later batches are ignored.
type WinStateMachine struct {
	state  State
	player uuid.UUID
	goal   uuid.UUID
	world  World
	onWin  func()
}

// NewWinStateMachine returns a machine in the playing state.
// onWin may be nil.
func NewWinStateMachine(w World, player, goal uuid.UUID, onWin func()) *WinStateMachine {
	return &WinStateMachine{
		state:  StatePlaying,
		player: player,
		goal:   goal,
		world:  w,
		onWin:  onWin,
	}
}

// State returns the current state.
func (m *WinStateMachine) State() State {
	return m.state
}

// HandleCollisions consumes one tick's worth of collision-start pairs in any
// order. It reports whether this batch caused the transition to won.
func (m *WinStateMachine) HandleCollisions(pairs []CollisionPair) (bool, error) {
	if m.state == StateWon {
		return false, nil
	}

	for _, pair := range pairs {
		if !pair.Matches(m.player, m.goal) {
			continue
		}

		m.state = StateWon
		if m.onWin != nil {
			m.onWin()
		}
		return true, m.Collapse()
	}

	return false, nil
}

// Collapse makes every wall non-static and enables gravity. Calling it more
// than once leaves the world unchanged.
func (m *WinStateMachine) Collapse() error {
	m.world.SetGravity(collapseGravity)
	for _, wall := range m.world.Bodies(LabelWall) {
		if !wall.Static {
			continue
		}
		if err := m.world.SetStatic(wall.ID, false); err != nil {
			return fmt.Errorf("releasing wall %s: %w", wall.ID, err)
		}
	}
	return nil
}
