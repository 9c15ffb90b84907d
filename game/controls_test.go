package game_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rssebastian/maze-game/game"
	"github.com/rssebastian/maze-game/game/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyDelta(t *testing.T) {
	tests := []struct {
		key      string
		expected game.Vector
	}{
		{"w", game.Vector{X: 0, Y: -5}},
		{"a", game.Vector{X: -5, Y: 0}},
		{"s", game.Vector{X: 0, Y: 5}},
		{"d", game.Vector{X: 5, Y: 0}},
		{"W", game.Vector{X: 0, Y: -5}},
		{"D", game.Vector{X: 5, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			delta, err := game.KeyDelta(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, delta)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := game.KeyDelta("q")
		assert.ErrorIs(t, err, game.ErrUnknownKey)
	})
}

func TestApplyKey(t *testing.T) {
	ball := game.Body{ID: uuid.New(), Label: game.LabelPlayer, Velocity: game.Vector{X: 1, Y: 1}}
	w := world.NewMemory()
	require.NoError(t, w.Add(ball))

	v, err := game.ApplyKey(w, ball.ID, "d")
	require.NoError(t, err)
	assert.Equal(t, game.Vector{X: 6, Y: 1}, v)

	v, err = game.ApplyKey(w, ball.ID, "w")
	require.NoError(t, err)
	assert.Equal(t, game.Vector{X: 6, Y: -4}, v)

	got, err := w.Body(ball.ID)
	require.NoError(t, err)
	assert.Equal(t, game.Vector{X: 6, Y: -4}, got.Velocity)

	_, err = game.ApplyKey(w, uuid.New(), "s")
	assert.ErrorIs(t, err, game.ErrUnknownBody)
}
