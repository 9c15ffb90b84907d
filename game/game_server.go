package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rssebastian/maze-game/maze"
)

// Game-related errors.
var (
	ErrGameStopped     = errors.New("game stopped")
	ErrMissingGrid     = errors.New("game requires a generated grid")
	ErrMissingWorld    = errors.New("game requires a world")
	ErrUngeneratedMaze = errors.New("maze has not been generated")
)

// Snapshot is a point-in-time view of a game.
type Snapshot struct {
	ID      uuid.UUID         `json:"id"`
	Rows    int               `json:"rows"`
	Cols    int               `json:"cols"`
	Seed    int64             `json:"seed"`
	Start   maze.CellPosition `json:"start"`
	State   State             `json:"state"`
	Version int64             `json:"version"`
	Width   float64           `json:"width"`
	Height  float64           `json:"height"`
	Gravity Vector            `json:"gravity"`
	Player  uuid.UUID         `json:"player"`
	Goal    uuid.UUID         `json:"goal"`
	Bodies  []Body            `json:"bodies"`
	WonAt   *time.Time        `json:"won_at,omitempty"`
}

// Config holds what is needed to build a Game.
type Config struct {
	ID     uuid.UUID         // Session ID; generated when zero.
	Grid   *maze.Grid        // A generated maze.
	Start  maze.CellPosition // Cell the generator started from.
	Seed   int64             // Seed the maze was generated with.
	Layout LayoutOptions     // Projection into world coordinates.
	World  World             // Body registry the layout is added to.
}

type collisionBatch struct {
	pairs []CollisionPair
	reply chan error
}

type command struct {
	key   string
	reply chan commandResult
}

type commandResult struct {
	velocity Vector
	err      error
}

// Game owns one generated maze, its bodies and its win state machine.
// Collision batches and key commands are processed one at a time by the
// goroutine running Start, so the host's per-tick callbacks are handled in
// the order they arrive.
type Game struct {
	id           uuid.UUID           // Session ID.
	grid         *maze.Grid          // The maze structure.
	start        maze.CellPosition   // Generation start cell.
	seed         int64               // Generation seed.
	layout       *Layout             // Bodies emitted for the maze.
	world        World               // Body registry.
	win          *WinStateMachine    // Playing -> Won.
	version      int64               // Incremented on every accepted change.
	wonAt        time.Time           // Time of the transition to won.
	collisions   chan collisionBatch // Incoming collision batches.
	commands     chan command        // Incoming key commands.
	stop         chan struct{}       // Closed to signal stop.
	stopOnce     sync.Once           // Guards stop.
	done         chan struct{}       // Closed once the loop has exited.
	wonChan      chan Snapshot       // Receives one snapshot on winning.
	endChan      chan Snapshot       // Receives the final snapshot, then closes.
	sync.RWMutex                     // Guards version, wonAt and win state.
}

// New builds the layout for a generated grid, registers its bodies with the
// world and returns a game in the playing state.
func New(c Config) (*Game, error) {
	if c.Grid == nil {
		return nil, ErrMissingGrid
	}
	if c.World == nil {
		return nil, ErrMissingWorld
	}
	if c.Grid.Rows()*c.Grid.Cols()-1 != c.Grid.OpenEdges() {
		return nil, ErrUngeneratedMaze
	}

	layout, err := NewLayout(c.Grid, c.Layout)
	if err != nil {
		return nil, err
	}

	if err := c.World.Add(layout.Bodies()...); err != nil {
		return nil, err
	}
	c.World.SetGravity(Vector{})

	id := c.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	g := &Game{
		id:         id,
		grid:       c.Grid,
		start:      c.Start,
		seed:       c.Seed,
		layout:     layout,
		world:      c.World,
		collisions: make(chan collisionBatch),
		commands:   make(chan command),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		wonChan:    make(chan Snapshot, 1),
		endChan:    make(chan Snapshot, 1),
	}
	g.win = NewWinStateMachine(c.World, layout.Player.ID, layout.Goal.ID, func() {
		g.wonAt = time.Now().UTC()
	})

	return g, nil
}

// ID returns the session ID of the game.
func (g *Game) ID() uuid.UUID { return g.id }

// Grid returns the generated maze.
func (g *Game) Grid() *maze.Grid { return g.grid }

// Layout returns the bodies emitted for the maze.
func (g *Game) Layout() *Layout { return g.layout }

// WonChan receives a single snapshot when the player reaches the goal.
func (g *Game) WonChan() <-chan Snapshot { return g.wonChan }

// EndChan receives the final snapshot once the loop stops, then closes.
func (g *Game) EndChan() <-chan Snapshot { return g.endChan }

// Done is closed after the loop started by Start has exited.
func (g *Game) Done() <-chan struct{} { return g.done }

// Start runs the game loop until Stop is called or the duration elapses.
// A non-positive duration never expires.
func (g *Game) Start(duration time.Duration) {
	defer close(g.done)
	if duration > 0 {
		timer := time.AfterFunc(duration, g.Stop)
		defer timer.Stop()
	}

	for {
		select {
		case <-g.stop:
			g.endChan <- g.Snapshot()
			close(g.endChan)
			return
		case batch := <-g.collisions:
			batch.reply <- g.handleCollisions(batch.pairs)
		case cmd := <-g.commands:
			velocity, err := g.handleCommand(cmd.key)
			cmd.reply <- commandResult{velocity: velocity, err: err}
		}
	}
}

// Stop ends the game. It is safe to call more than once.
func (g *Game) Stop() {
	g.stopOnce.Do(func() { close(g.stop) })
}

// ReportCollisions hands one tick's collision-start pairs to the loop and
// waits until they are processed. It returns the state after the batch.
func (g *Game) ReportCollisions(ctx context.Context, pairs []CollisionPair) (State, error) {
	reply := make(chan error, 1)
	select {
	case g.collisions <- collisionBatch{pairs: pairs, reply: reply}:
	case <-g.stop:
		return "", ErrGameStopped
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if err := <-reply; err != nil {
		return "", err
	}
	return g.State(), nil
}

// ApplyCommand hands a key press to the loop and returns the player's new
// velocity.
func (g *Game) ApplyCommand(ctx context.Context, key string) (Vector, error) {
	reply := make(chan commandResult, 1)
	select {
	case g.commands <- command{key: key, reply: reply}:
	case <-g.stop:
		return Vector{}, ErrGameStopped
	case <-ctx.Done():
		return Vector{}, ctx.Err()
	}

	res := <-reply
	return res.velocity, res.err
}

// State returns the current win state.
func (g *Game) State() State {
	g.RLock()
	defer g.RUnlock()
	return g.win.State()
}

// Snapshot creates a snapshot of the current game state.
func (g *Game) Snapshot() Snapshot {
	g.RLock()
	defer g.RUnlock()

	s := Snapshot{
		ID:      g.id,
		Rows:    g.grid.Rows(),
		Cols:    g.grid.Cols(),
		Seed:    g.seed,
		Start:   g.start,
		State:   g.win.State(),
		Version: g.version,
		Width:   g.layout.Width,
		Height:  g.layout.Height,
		Gravity: g.world.Gravity(),
		Player:  g.layout.Player.ID,
		Goal:    g.layout.Goal.ID,
		Bodies:  g.world.All(),
	}
	if !g.wonAt.IsZero() {
		wonAt := g.wonAt
		s.WonAt = &wonAt
	}
	return s
}

// handleCollisions runs the batch through the win state machine and emits
// the won snapshot on transition.
func (g *Game) handleCollisions(pairs []CollisionPair) error {
	g.Lock()
	won, err := g.win.HandleCollisions(pairs)
	if won {
		g.version++
	}
	g.Unlock()

	if won {
		g.wonChan <- g.Snapshot()
	}
	return err
}

// handleCommand applies a key press to the player body.
func (g *Game) handleCommand(key string) (Vector, error) {
	g.Lock()
	defer g.Unlock()

	velocity, err := ApplyKey(g.world, g.layout.Player.ID, key)
	if err != nil {
		return Vector{}, err
	}
	g.version++
	return velocity, nil
}
