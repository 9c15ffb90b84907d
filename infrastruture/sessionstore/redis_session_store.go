package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rssebastian/maze-game/game"
	"github.com/rssebastian/maze-game/service/i"
)

const (
	defaultPrefix = "maze"
	sessionKeyFmt = "%s:session:%s"
	lockSuffix    = ":lock"
	unlockTimeout = time.Second
)

var _ i.SessionStore = &RedisSessionStore{}

// RedisSessionStore keeps JSON session snapshots in Redis with a TTL.
// Writes to one session are serialised with a redsync mutex so a late
// snapshot cannot overwrite a newer one.
type RedisSessionStore struct {
	client *redis.Client
	locker *redsync.Redsync
	prefix string
	ttl    time.Duration
}

// NewRedisSessionStore initializes a RedisSessionStore with the provided Redis client and TTL.
func NewRedisSessionStore(client *redis.Client, prefix string, ttlSeconds int) (*RedisSessionStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if prefix == "" {
		prefix = defaultPrefix
	}

	store := &RedisSessionStore{
		client: client,
		prefix: prefix,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
	pool := goredis.NewPool(client)
	store.locker = redsync.New(pool)
	return store, nil
}

// Save stores the snapshot unless a snapshot with a higher version is already stored.
func (s *RedisSessionStore) Save(ctx context.Context, snapshot game.Snapshot) error {
	key := s.key(snapshot.ID)
	mutex := s.locker.NewMutex(key + lockSuffix)
	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("locking %s: %w", key, err)
	}
	defer func() {
		// The caller's deadline may have passed; release the lock regardless.
		unlockCtx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
		defer cancel()
		_, _ = mutex.UnlockContext(unlockCtx)
	}()

	current, err := s.load(ctx, key)
	if err != nil && !errors.Is(err, i.ErrNotFound) {
		return err
	}
	if current != nil && current.Version > snapshot.Version {
		return nil
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, payload, s.ttl).Err()
}

// ByID retrieves the stored snapshot of a session.
func (s *RedisSessionStore) ByID(ctx context.Context, sessionID uuid.UUID) (*game.Snapshot, error) {
	return s.load(ctx, s.key(sessionID))
}

func (s *RedisSessionStore) load(ctx context.Context, key string) (*game.Snapshot, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, i.ErrNotFound
		}
		return nil, err
	}

	var snapshot game.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	return &snapshot, nil
}

func (s *RedisSessionStore) key(id uuid.UUID) string {
	return fmt.Sprintf(sessionKeyFmt, s.prefix, id)
}
