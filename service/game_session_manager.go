package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	dmn "github.com/rssebastian/maze-game/domain"
	"github.com/rssebastian/maze-game/game"
	"github.com/rssebastian/maze-game/game/world"
	"github.com/rssebastian/maze-game/maze"
	"github.com/rssebastian/maze-game/service/i"
)

const (
	defaultMaxDimension = 50
	defaultGameDuration = 30 * time.Minute
	defaultUnitSize     = 60

	persistTimeout = 2 * time.Second

	wonEventType   = "won"
	endedEventType = "ended"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrMazeTooLarge       = errors.New("maze dimension too large")
	ErrMissingDependency  = errors.New("missing dependency")
	ErrInvalidSessionSize = maze.ErrInvalidDimension
)

var _ i.GameSessionManager = &GameSessionManager{}

// Event is pushed to session subscribers.
type Event struct {
	Type      string     `json:"type"`
	SessionID uuid.UUID  `json:"session_id"`
	State     game.State `json:"state"`
	WonAt     *time.Time `json:"won_at,omitempty"`
}

type session struct {
	game      *game.Game
	createdAt time.Time
}

// GameSessionManager creates maze sessions and routes host reports to them.
type GameSessionManager struct {
	sessions     map[uuid.UUID]*session
	store        i.SessionStore
	results      i.ResultRepo
	notifier     i.Notifier
	tokenizer    i.Tokenizer
	logger       i.Logger
	layout       game.LayoutOptions
	maxDimension int
	gameDuration time.Duration
	wg           sync.WaitGroup
	sync.RWMutex
}

// Config holds the dependencies and limits of a GameSessionManager.
type Config struct {
	Store        i.SessionStore
	Results      i.ResultRepo
	Notifier     i.Notifier
	Tokenizer    i.Tokenizer
	Logger       i.Logger
	Layout       game.LayoutOptions // Zero unit sizes default to 60.
	MaxDimension int                // Largest accepted rows or cols.
	GameDuration time.Duration      // Lifetime of a session's game loop.
}

// NewGameSessionManager validates the configuration and returns a manager
// with no sessions.
func NewGameSessionManager(c *Config) (*GameSessionManager, error) {
	if c == nil || c.Store == nil || c.Results == nil || c.Notifier == nil || c.Tokenizer == nil || c.Logger == nil {
		return nil, ErrMissingDependency
	}

	gsm := &GameSessionManager{
		sessions:     make(map[uuid.UUID]*session),
		store:        c.Store,
		results:      c.Results,
		notifier:     c.Notifier,
		tokenizer:    c.Tokenizer,
		logger:       c.Logger,
		layout:       c.Layout,
		maxDimension: c.MaxDimension,
		gameDuration: c.GameDuration,
	}

	if gsm.layout.UnitWidth == 0 {
		gsm.layout.UnitWidth = defaultUnitSize
	}
	if gsm.layout.UnitHeight == 0 {
		gsm.layout.UnitHeight = defaultUnitSize
	}
	if gsm.maxDimension <= 0 {
		gsm.maxDimension = defaultMaxDimension
	}
	if gsm.gameDuration <= 0 {
		gsm.gameDuration = defaultGameDuration
	}

	return gsm, nil
}

// NewSession generates a maze, registers its bodies, issues a session token
// and starts the game loop.
func (m *GameSessionManager) NewSession(ctx context.Context, req i.SessionRequest) (*i.NewSessionResponse, error) {
	if req.Rows <= 0 || req.Cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSessionSize, req.Rows, req.Cols)
	}
	if req.Rows > m.maxDimension || req.Cols > m.maxDimension {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrMazeTooLarge, req.Rows, req.Cols, m.maxDimension)
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	grid, start, err := maze.New(req.Rows, req.Cols, maze.NewSource(seed))
	if err != nil {
		m.logger.Error(fmt.Sprintf("generating maze: %s", err))
		return nil, err
	}

	g, err := game.New(game.Config{
		Grid:   grid,
		Start:  start,
		Seed:   seed,
		Layout: m.layout,
		World:  world.NewMemory(),
	})
	if err != nil {
		m.logger.Error(fmt.Sprintf("creating game: %s", err))
		return nil, err
	}

	snapshot := g.Snapshot()
	if err := m.store.Save(ctx, snapshot); err != nil {
		m.logger.Error(fmt.Sprintf("saving snapshot of session %s: %s", g.ID(), err))
		return nil, err
	}

	token, err := m.tokenizer.Generate(map[string]interface{}{i.SessionClaim: g.ID().String()}, m.gameDuration)
	if err != nil {
		m.logger.Error(fmt.Sprintf("issuing token for session %s: %s", g.ID(), err))
		return nil, err
	}

	s := &session{game: g, createdAt: time.Now().UTC()}
	m.Lock()
	m.sessions[g.ID()] = s
	m.Unlock()

	m.wg.Add(1)
	go g.Start(m.gameDuration)
	go m.listenGameChan(g.ID(), s)

	m.logger.Info(fmt.Sprintf("started session %s: %dx%d maze, seed %d, start %s", g.ID(), req.Rows, req.Cols, seed, start))
	return &i.NewSessionResponse{Snapshot: snapshot, Token: token}, nil
}

// Session returns the live snapshot, falling back to the stored one for
// sessions that already ended.
func (m *GameSessionManager) Session(ctx context.Context, id uuid.UUID) (*game.Snapshot, error) {
	if s, ok := m.live(id); ok {
		snapshot := s.game.Snapshot()
		return &snapshot, nil
	}

	snapshot, err := m.store.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, i.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		m.logger.Error(fmt.Sprintf("loading snapshot of session %s: %s", id, err))
		return nil, err
	}
	return snapshot, nil
}

// Maze returns the ASCII rendering of a live session's maze.
func (m *GameSessionManager) Maze(id uuid.UUID) (string, error) {
	s, ok := m.live(id)
	if !ok {
		return "", ErrSessionNotFound
	}
	return s.game.Grid().String(), nil
}

// ReportCollisions forwards one tick's collision-start pairs to the session.
func (m *GameSessionManager) ReportCollisions(ctx context.Context, id uuid.UUID, pairs []game.CollisionPair) (game.State, error) {
	s, ok := m.live(id)
	if !ok {
		return "", ErrSessionNotFound
	}
	return s.game.ReportCollisions(ctx, pairs)
}

// ApplyCommand forwards a key press to the session.
func (m *GameSessionManager) ApplyCommand(ctx context.Context, id uuid.UUID, key string) (game.Vector, error) {
	s, ok := m.live(id)
	if !ok {
		return game.Vector{}, ErrSessionNotFound
	}
	return s.game.ApplyCommand(ctx, key)
}

// StopAll stops every live session and waits until their results are recorded.
func (m *GameSessionManager) StopAll() {
	m.RLock()
	for _, s := range m.sessions {
		s.game.Stop()
	}
	m.RUnlock()

	m.wg.Wait()
}

func (m *GameSessionManager) live(id uuid.UUID) (*session, bool) {
	m.RLock()
	defer m.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// listenGameChan persists and announces the win, then records the result
// once the game ends.
func (m *GameSessionManager) listenGameChan(id uuid.UUID, s *session) {
	defer m.wg.Done()
	for {
		select {
		case snapshot := <-s.game.WonChan():
			m.handleWon(snapshot)
		case snapshot, ok := <-s.game.EndChan():
			// A win in the final tick must still be announced.
			select {
			case won := <-s.game.WonChan():
				m.handleWon(won)
			default:
			}
			if ok {
				m.handleEnd(snapshot, s.createdAt)
			}
			m.clean(id)
			return
		}
	}
}

func (m *GameSessionManager) handleWon(snapshot game.Snapshot) {
	m.persist(snapshot)
	m.notify(Event{Type: wonEventType, SessionID: snapshot.ID, State: snapshot.State, WonAt: snapshot.WonAt})
	m.logger.Info(fmt.Sprintf("session %s won", snapshot.ID))
}

func (m *GameSessionManager) handleEnd(snapshot game.Snapshot, createdAt time.Time) {
	m.persist(snapshot)

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	result := &dmn.Result{
		SessionID: snapshot.ID,
		Rows:      snapshot.Rows,
		Cols:      snapshot.Cols,
		Seed:      snapshot.Seed,
		Won:       snapshot.State == game.StateWon,
		CreatedAt: createdAt,
		WonAt:     snapshot.WonAt,
		EndedAt:   time.Now().UTC(),
	}
	if err := m.results.Save(ctx, result); err != nil {
		m.logger.Error(fmt.Sprintf("recording result of session %s: %s", snapshot.ID, err))
	}

	m.notify(Event{Type: endedEventType, SessionID: snapshot.ID, State: snapshot.State, WonAt: snapshot.WonAt})
	m.logger.Info(fmt.Sprintf("session %s ended in state %s", snapshot.ID, snapshot.State))
}

func (m *GameSessionManager) persist(snapshot game.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := m.store.Save(ctx, snapshot); err != nil {
		m.logger.Error(fmt.Sprintf("saving snapshot of session %s: %s", snapshot.ID, err))
	}
}

func (m *GameSessionManager) notify(e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		m.logger.Error(fmt.Sprintf("encoding %s event: %s", e.Type, err))
		return
	}
	m.notifier.Broadcast(e.SessionID, payload)
}

func (m *GameSessionManager) clean(id uuid.UUID) {
	m.Lock()
	defer m.Unlock()
	delete(m.sessions, id)
}
