package maze

import (
	"math/rand"
	"time"
)

// Source is the uniform random number source used by the generator.
// *rand.Rand satisfies it.
type Source interface {
	// Intn returns a uniformly distributed int in [0, n).
	Intn(n int) int
}

// NewSource returns a math/rand source. A zero seed picks one from the clock.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Generator carves a perfect maze into a grid with a randomized
// recursive backtracker.
type Generator struct {
	grid *Grid
	rng  Source
}

// NewGenerator binds a generator to a fresh grid and a random source.
func NewGenerator(grid *Grid, rng Source) *Generator {
	return &Generator{grid: grid, rng: rng}
}

// frame is one level of the traversal: a cell and its shuffled neighbours.
type frame struct {
	moves [4]Move
	next  int
}

// Generate runs the traversal from start. The frame stack mirrors the
// recursive formulation exactly, including the order random numbers are
// drawn in, so results match the recursive version for the same source.
func (gen *Generator) Generate(start CellPosition) error {
	if !gen.grid.InBound(start) {
		return ErrOutOfBounds
	}
	if gen.grid.Visited(start) {
		return nil
	}

	stack := []*frame{gen.enter(start)}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next == len(top.moves) {
			stack = stack[:len(stack)-1]
			continue
		}

		move := top.moves[top.next]
		top.next++

		if !gen.grid.InBound(move.To) || gen.grid.Visited(move.To) {
			continue
		}

		gen.grid.openEdge(move)
		stack = append(stack, gen.enter(move.To))
	}

	return nil
}

// GenerateRandom picks a start cell uniformly and generates from it.
func (gen *Generator) GenerateRandom() (CellPosition, error) {
	start := CellPosition{
		Row: gen.rng.Intn(gen.grid.Rows()),
		Col: gen.rng.Intn(gen.grid.Cols()),
	}
	return start, gen.Generate(start)
}

// enter marks pos visited and prepares its randomly ordered neighbours.
func (gen *Generator) enter(pos CellPosition) *frame {
	gen.grid.markVisited(pos)
	f := &frame{moves: candidates(pos)}
	Shuffle(gen.rng, f.moves[:])
	return f
}

// Shuffle applies a Fisher-Yates permutation to s in place.
func Shuffle[T any](rng Source, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// New allocates a rows x cols grid and carves a maze from a random start.
// It returns the grid and the start cell.
func New(rows, cols int, rng Source) (*Grid, CellPosition, error) {
	grid, err := NewGrid(rows, cols)
	if err != nil {
		return nil, CellPosition{}, err
	}

	start, err := NewGenerator(grid, rng).GenerateRandom()
	if err != nil {
		return nil, CellPosition{}, err
	}
	return grid, start, nil
}
