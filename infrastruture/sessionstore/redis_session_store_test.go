package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rssebastian/maze-game/game"
	"github.com/rssebastian/maze-game/service/i"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := NewRedisSessionStore(client, "test", 30)
	require.NoError(t, err)
	return store, mr, client
}

func snapshot(id uuid.UUID, version int64, state game.State) game.Snapshot {
	return game.Snapshot{
		ID:      id,
		Rows:    3,
		Cols:    4,
		Seed:    11,
		State:   state,
		Version: version,
		Gravity: game.Vector{Y: 1},
		Bodies: []game.Body{
			{ID: uuid.New(), Label: game.LabelWall, Shape: game.ShapeRectangle, Width: 60, Height: 5, Static: true},
		},
	}
}

// cancelAfterWrite cancels the caller's context once the snapshot key is written.
type cancelAfterWrite struct {
	key    string
	cancel context.CancelFunc
}

func (h cancelAfterWrite) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h cancelAfterWrite) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if args := cmd.Args(); cmd.Name() == "set" && len(args) > 1 && args[1] == h.key {
			h.cancel()
		}
		return err
	}
}

func (h cancelAfterWrite) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestNewRedisSessionStore(t *testing.T) {
	t.Run("Requires client", func(t *testing.T) {
		_, err := NewRedisSessionStore(nil, "", 10)
		assert.Error(t, err)
	})

	t.Run("Defaults and keys", func(t *testing.T) {
		client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
		defer client.Close()

		store, err := NewRedisSessionStore(client, "", 30)
		require.NoError(t, err)

		id := uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
		assert.Equal(t, "maze:session:7c9e6679-7425-40de-944b-e07fc1f90ae7", store.key(id))
		assert.Equal(t, float64(30), store.ttl.Seconds())
	})
}

func TestRedisSessionStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Save then ByID", func(t *testing.T) {
		store, _, _ := newStore(t)
		want := snapshot(uuid.New(), 1, game.StatePlaying)
		wonAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		want.WonAt = &wonAt

		require.NoError(t, store.Save(ctx, want))

		got, err := store.ByID(ctx, want.ID)
		require.NoError(t, err)
		assert.Equal(t, want, *got)
	})

	t.Run("Newer version overwrites", func(t *testing.T) {
		store, _, _ := newStore(t)
		id := uuid.New()

		require.NoError(t, store.Save(ctx, snapshot(id, 1, game.StatePlaying)))
		require.NoError(t, store.Save(ctx, snapshot(id, 3, game.StateWon)))

		got, err := store.ByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.Version)
		assert.Equal(t, game.StateWon, got.State)
	})

	t.Run("Older version is dropped", func(t *testing.T) {
		store, _, _ := newStore(t)
		id := uuid.New()

		require.NoError(t, store.Save(ctx, snapshot(id, 5, game.StateWon)))
		require.NoError(t, store.Save(ctx, snapshot(id, 2, game.StatePlaying)))

		got, err := store.ByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(5), got.Version)
		assert.Equal(t, game.StateWon, got.State)
	})

	t.Run("Equal version replaces", func(t *testing.T) {
		store, _, _ := newStore(t)
		id := uuid.New()

		require.NoError(t, store.Save(ctx, snapshot(id, 2, game.StatePlaying)))
		final := snapshot(id, 2, game.StatePlaying)
		final.Seed = 99
		require.NoError(t, store.Save(ctx, final))

		got, err := store.ByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(99), got.Seed)
	})

	t.Run("TTL is applied", func(t *testing.T) {
		store, mr, _ := newStore(t)
		s := snapshot(uuid.New(), 1, game.StatePlaying)
		require.NoError(t, store.Save(ctx, s))

		assert.Equal(t, 30*time.Second, mr.TTL(store.key(s.ID)))

		mr.FastForward(31 * time.Second)
		_, err := store.ByID(ctx, s.ID)
		assert.ErrorIs(t, err, i.ErrNotFound)
	})

	t.Run("Missing key", func(t *testing.T) {
		store, _, _ := newStore(t)
		_, err := store.ByID(ctx, uuid.New())
		assert.ErrorIs(t, err, i.ErrNotFound)
	})

	t.Run("Corrupt payload", func(t *testing.T) {
		store, mr, _ := newStore(t)
		id := uuid.New()
		require.NoError(t, mr.Set(store.key(id), "not json"))

		_, err := store.ByID(ctx, id)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, i.ErrNotFound)
	})

	t.Run("Lock is released", func(t *testing.T) {
		store, mr, _ := newStore(t)
		s := snapshot(uuid.New(), 1, game.StatePlaying)
		require.NoError(t, store.Save(ctx, s))

		assert.False(t, mr.Exists(store.key(s.ID)+lockSuffix))
	})

	t.Run("Lock is released after caller deadline", func(t *testing.T) {
		store, mr, client := newStore(t)
		s := snapshot(uuid.New(), 1, game.StatePlaying)

		saveCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		client.AddHook(cancelAfterWrite{key: store.key(s.ID), cancel: cancel})

		require.NoError(t, store.Save(saveCtx, s))
		assert.False(t, mr.Exists(store.key(s.ID)+lockSuffix))

		next := snapshot(s.ID, 2, game.StateWon)
		timeoutCtx, timeoutCancel := context.WithTimeout(ctx, time.Second)
		defer timeoutCancel()
		require.NoError(t, store.Save(timeoutCtx, next))

		got, err := store.ByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Version)
	})

	t.Run("Held lock times out", func(t *testing.T) {
		store, mr, _ := newStore(t)
		s := snapshot(uuid.New(), 1, game.StatePlaying)
		require.NoError(t, mr.Set(store.key(s.ID)+lockSuffix, "another-writer"))

		timeoutCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
		defer cancel()
		assert.Error(t, store.Save(timeoutCtx, s))

		_, err := store.ByID(ctx, s.ID)
		assert.ErrorIs(t, err, i.ErrNotFound)
	})
}
