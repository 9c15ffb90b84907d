package game_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rssebastian/maze-game/game"
	"github.com/rssebastian/maze-game/game/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWinFixture(t *testing.T) (*game.WinStateMachine, *world.Memory, *game.Layout, *int) {
	t.Helper()
	layout, err := game.NewLayout(generated(t, 4, 4, 8), game.LayoutOptions{UnitWidth: 10, UnitHeight: 10})
	require.NoError(t, err)

	w := world.NewMemory()
	require.NoError(t, w.Add(layout.Bodies()...))

	signals := 0
	m := game.NewWinStateMachine(w, layout.Player.ID, layout.Goal.ID, func() { signals++ })
	return m, w, layout, &signals
}

func TestWinStateMachine(t *testing.T) {
	t.Run("Player reaching goal wins", func(t *testing.T) {
		m, w, layout, signals := newWinFixture(t)

		won, err := m.HandleCollisions([]game.CollisionPair{{A: layout.Player.ID, B: layout.Goal.ID}})
		require.NoError(t, err)

		assert.True(t, won)
		assert.Equal(t, game.StateWon, m.State())
		assert.Equal(t, 1, *signals)
		assert.Equal(t, game.Vector{X: 0, Y: 1}, w.Gravity())
		for _, wall := range w.Bodies(game.LabelWall) {
			assert.False(t, wall.Static)
		}
		for _, boundary := range w.Bodies(game.LabelBoundary) {
			assert.True(t, boundary.Static)
		}
	})

	t.Run("Pair order does not matter", func(t *testing.T) {
		m, _, layout, _ := newWinFixture(t)

		won, err := m.HandleCollisions([]game.CollisionPair{{A: layout.Goal.ID, B: layout.Player.ID}})
		require.NoError(t, err)
		assert.True(t, won)
	})

	t.Run("Unrelated collisions are ignored", func(t *testing.T) {
		m, w, layout, signals := newWinFixture(t)

		won, err := m.HandleCollisions([]game.CollisionPair{
			{A: layout.Player.ID, B: layout.Walls[0].ID},
			{A: layout.Walls[0].ID, B: layout.Goal.ID},
			{A: layout.Player.ID, B: layout.Boundaries[1].ID},
			{A: uuid.New(), B: uuid.New()},
		})
		require.NoError(t, err)

		assert.False(t, won)
		assert.Equal(t, game.StatePlaying, m.State())
		assert.Zero(t, *signals)
		assert.Equal(t, game.Vector{}, w.Gravity())
		for _, wall := range w.Bodies(game.LabelWall) {
			assert.True(t, wall.Static)
		}
	})

	t.Run("Multiple qualifying pairs in one batch transition once", func(t *testing.T) {
		m, _, layout, signals := newWinFixture(t)
		hit := game.CollisionPair{A: layout.Player.ID, B: layout.Goal.ID}

		won, err := m.HandleCollisions([]game.CollisionPair{
			{A: layout.Player.ID, B: layout.Walls[0].ID}, hit, hit,
		})
		require.NoError(t, err)
		assert.True(t, won)
		assert.Equal(t, 1, *signals)
	})

	t.Run("Later batches are no-ops", func(t *testing.T) {
		m, _, layout, signals := newWinFixture(t)
		hit := []game.CollisionPair{{A: layout.Player.ID, B: layout.Goal.ID}}

		_, err := m.HandleCollisions(hit)
		require.NoError(t, err)
		won, err := m.HandleCollisions(hit)
		require.NoError(t, err)

		assert.False(t, won)
		assert.Equal(t, game.StateWon, m.State())
		assert.Equal(t, 1, *signals)
	})

	t.Run("Collapse is idempotent", func(t *testing.T) {
		m, w, _, _ := newWinFixture(t)

		require.NoError(t, m.Collapse())
		once := w.All()
		require.NoError(t, m.Collapse())

		assert.Equal(t, once, w.All())
		assert.Equal(t, game.Vector{X: 0, Y: 1}, w.Gravity())
	})

	t.Run("Nil signal is allowed", func(t *testing.T) {
		_, w, layout, _ := newWinFixture(t)
		m := game.NewWinStateMachine(w, layout.Player.ID, layout.Goal.ID, nil)

		won, err := m.HandleCollisions([]game.CollisionPair{{A: layout.Player.ID, B: layout.Goal.ID}})
		require.NoError(t, err)
		assert.True(t, won)
	})
}
