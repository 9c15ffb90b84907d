package game_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rssebastian/maze-game/game"
	"github.com/rssebastian/maze-game/game/world"
	"github.com/rssebastian/maze-game/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T) *game.Game {
	t.Helper()
	grid, start, err := maze.New(5, 5, maze.NewSource(21))
	require.NoError(t, err)

	g, err := game.New(game.Config{
		Grid:   grid,
		Start:  start,
		Seed:   21,
		Layout: game.LayoutOptions{UnitWidth: 40, UnitHeight: 40},
		World:  world.NewMemory(),
	})
	require.NoError(t, err)
	return g
}

func TestNew(t *testing.T) {
	t.Run("Registers layout", func(t *testing.T) {
		g := newGame(t)
		s := g.Snapshot()

		assert.NotEqual(t, uuid.Nil, s.ID)
		assert.Equal(t, 5, s.Rows)
		assert.Equal(t, 5, s.Cols)
		assert.Equal(t, int64(21), s.Seed)
		assert.Equal(t, game.StatePlaying, s.State)
		assert.Equal(t, game.Vector{}, s.Gravity)
		assert.Len(t, s.Bodies, len(g.Layout().Bodies()))
		assert.Equal(t, g.Layout().Player.ID, s.Player)
		assert.Equal(t, g.Layout().Goal.ID, s.Goal)
		assert.Nil(t, s.WonAt)
	})

	t.Run("Keeps provided ID", func(t *testing.T) {
		grid, _, err := maze.New(2, 2, maze.NewSource(1))
		require.NoError(t, err)
		id := uuid.New()

		g, err := game.New(game.Config{ID: id, Grid: grid, Layout: game.LayoutOptions{UnitWidth: 1, UnitHeight: 1}, World: world.NewMemory()})
		require.NoError(t, err)
		assert.Equal(t, id, g.ID())
	})

	t.Run("Rejects bad config", func(t *testing.T) {
		_, err := game.New(game.Config{World: world.NewMemory()})
		assert.ErrorIs(t, err, game.ErrMissingGrid)

		grid, _, err := maze.New(2, 2, maze.NewSource(1))
		require.NoError(t, err)
		_, err = game.New(game.Config{Grid: grid})
		assert.ErrorIs(t, err, game.ErrMissingWorld)

		_, err = game.New(game.Config{Grid: grid, World: world.NewMemory()})
		assert.ErrorIs(t, err, maze.ErrInvalidDimension)

		blank, err := maze.NewGrid(3, 3)
		require.NoError(t, err)
		_, err = game.New(game.Config{Grid: blank, Layout: game.LayoutOptions{UnitWidth: 1, UnitHeight: 1}, World: world.NewMemory()})
		assert.ErrorIs(t, err, game.ErrUngeneratedMaze)
	})
}

func TestGameLoop(t *testing.T) {
	ctx := context.Background()

	t.Run("Winning emits one snapshot", func(t *testing.T) {
		g := newGame(t)
		go g.Start(0)
		defer g.Stop()

		hit := []game.CollisionPair{{A: g.Layout().Goal.ID, B: g.Layout().Player.ID}}
		state, err := g.ReportCollisions(ctx, hit)
		require.NoError(t, err)
		assert.Equal(t, game.StateWon, state)

		select {
		case s := <-g.WonChan():
			assert.Equal(t, game.StateWon, s.State)
			assert.NotNil(t, s.WonAt)
			assert.Equal(t, game.Vector{X: 0, Y: 1}, s.Gravity)
			for _, b := range s.Bodies {
				if b.Label == game.LabelWall {
					assert.False(t, b.Static)
				}
			}
		case <-time.After(time.Second):
			t.Fatal("won snapshot not emitted")
		}

		state, err = g.ReportCollisions(ctx, hit)
		require.NoError(t, err)
		assert.Equal(t, game.StateWon, state)

		select {
		case <-g.WonChan():
			t.Fatal("won snapshot emitted twice")
		default:
		}
	})

	t.Run("Unrelated batch keeps playing", func(t *testing.T) {
		g := newGame(t)
		go g.Start(0)
		defer g.Stop()

		state, err := g.ReportCollisions(ctx, []game.CollisionPair{{A: g.Layout().Player.ID, B: g.Layout().Boundaries[0].ID}})
		require.NoError(t, err)
		assert.Equal(t, game.StatePlaying, state)
		assert.Equal(t, int64(0), g.Snapshot().Version)
	})

	t.Run("Commands move the player", func(t *testing.T) {
		g := newGame(t)
		go g.Start(0)
		defer g.Stop()

		v, err := g.ApplyCommand(ctx, "s")
		require.NoError(t, err)
		assert.Equal(t, game.Vector{X: 0, Y: 5}, v)

		v, err = g.ApplyCommand(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, game.Vector{X: -5, Y: 5}, v)

		_, err = g.ApplyCommand(ctx, "x")
		assert.ErrorIs(t, err, game.ErrUnknownKey)
		assert.Equal(t, int64(2), g.Snapshot().Version)
	})

	t.Run("Stop emits final snapshot", func(t *testing.T) {
		g := newGame(t)
		go g.Start(0)

		g.Stop()
		g.Stop()

		s, ok := <-g.EndChan()
		require.True(t, ok)
		assert.Equal(t, g.ID(), s.ID)
		_, ok = <-g.EndChan()
		assert.False(t, ok)

		<-g.Done()
		_, err := g.ReportCollisions(ctx, nil)
		assert.ErrorIs(t, err, game.ErrGameStopped)
		_, err = g.ApplyCommand(ctx, "w")
		assert.ErrorIs(t, err, game.ErrGameStopped)
	})

	t.Run("Duration expires", func(t *testing.T) {
		g := newGame(t)
		go g.Start(10 * time.Millisecond)

		select {
		case <-g.Done():
		case <-time.After(time.Second):
			t.Fatal("game did not expire")
		}
	})

	t.Run("Cancelled context", func(t *testing.T) {
		g := newGame(t) // Not started, nothing receives.
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := g.ReportCollisions(cctx, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
