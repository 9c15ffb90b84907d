/*
Package maze provides tools for creating perfect rectangular mazes.

A Grid tracks which cells were visited and which inter-cell edges are open.
The Generator carves a spanning tree over the grid with a randomized
recursive backtracker, so every pair of cells is joined by exactly one path.

Utility functions enable bounds checks, edge inspection and ASCII
visualization of the maze.
*/
package maze

import (
	"errors"
	"strings"
)

var (
	ErrInvalidDimension = errors.New("invalid maze dimensions")
	ErrOutOfBounds      = errors.New("position is out of the maze")
)

// Grid holds the visited marks of every cell and the two edge ledgers.
// verticals is rows x (cols-1), horizontals is (rows-1) x cols; true means
// the edge is open (a passage), false means a wall.
type Grid struct {
	rows        int
	cols        int
	visited     [][]bool
	verticals   [][]bool
	horizontals [][]bool
}

// NewGrid allocates an unvisited grid where every edge is closed.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimension
	}

	return &Grid{
		rows:        rows,
		cols:        cols,
		visited:     matrix(rows, cols),
		verticals:   matrix(rows, cols-1),
		horizontals: matrix(rows-1, cols),
	}, nil
}

func matrix(rows, cols int) [][]bool {
	m := make([][]bool, rows)
	for i := range m {
		m[i] = make([]bool, cols)
	}
	return m
}

// Rows returns the number of rows in the grid.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns in the grid.
func (g *Grid) Cols() int { return g.cols }

// InBound reports whether the position lies inside the grid.
func (g *Grid) InBound(pos CellPosition) bool {
	return pos.Row >= 0 && pos.Row < g.rows && pos.Col >= 0 && pos.Col < g.cols
}

// Visited reports whether the cell was entered by the generator.
// Out of bounds positions report false.
func (g *Grid) Visited(pos CellPosition) bool {
	return g.InBound(pos) && g.visited[pos.Row][pos.Col]
}

func (g *Grid) markVisited(pos CellPosition) {
	g.visited[pos.Row][pos.Col] = true
}

// OpenVertical reports whether the edge between (row, col) and (row, col+1)
// is a passage.
func (g *Grid) OpenVertical(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols-1 && g.verticals[row][col]
}

// OpenHorizontal reports whether the edge between (row, col) and (row+1, col)
// is a passage.
func (g *Grid) OpenHorizontal(row, col int) bool {
	return row >= 0 && row < g.rows-1 && col >= 0 && col < g.cols && g.horizontals[row][col]
}

// IsOpen reports whether the edge is a passage.
func (g *Grid) IsOpen(e Edge) bool {
	if e.Orientation == Vertical {
		return g.OpenVertical(e.Row, e.Col)
	}
	return g.OpenHorizontal(e.Row, e.Col)
}

// openEdge removes the wall crossed by the move.
func (g *Grid) openEdge(move Move) {
	e := move.Edge()
	if e.Orientation == Vertical {
		g.verticals[e.Row][e.Col] = true
		return
	}
	g.horizontals[e.Row][e.Col] = true
}

// Edges returns every inter-cell edge, horizontals first, row-major.
func (g *Grid) Edges() []Edge {
	edges := make([]Edge, 0, (g.rows-1)*g.cols+g.rows*(g.cols-1))
	for row := range g.horizontals {
		for col := range g.horizontals[row] {
			edges = append(edges, Edge{Orientation: Horizontal, Row: row, Col: col})
		}
	}
	for row := range g.verticals {
		for col := range g.verticals[row] {
			edges = append(edges, Edge{Orientation: Vertical, Row: row, Col: col})
		}
	}
	return edges
}

// ClosedEdges returns the edges that are still walls.
func (g *Grid) ClosedEdges() []Edge {
	var closed []Edge
	for _, e := range g.Edges() {
		if !g.IsOpen(e) {
			closed = append(closed, e)
		}
	}
	return closed
}

// OpenEdges counts the passages carved so far.
func (g *Grid) OpenEdges() int {
	count := 0
	for _, e := range g.Edges() {
		if g.IsOpen(e) {
			count++
		}
	}
	return count
}

// Neighbors returns the cells reachable from pos through open edges.
func (g *Grid) Neighbors(pos CellPosition) []CellPosition {
	var result []CellPosition
	for _, move := range candidates(pos) {
		if g.InBound(move.To) && g.IsOpen(move.Edge()) {
			result = append(result, move.To)
		}
	}
	return result
}

// String provides a textual representation of the maze.
func (g *Grid) String() string {
	var output strings.Builder

	// Top boundary
	output.WriteString("+" + strings.Repeat("---+", g.cols) + "\n")

	for row := 0; row < g.rows; row++ {
		// Cell rows
		output.WriteString("|")
		for col := 0; col < g.cols; col++ {
			if g.OpenVertical(row, col) {
				output.WriteString("    ")
			} else {
				output.WriteString("   |")
			}
		}
		output.WriteString("\n")

		// Wall rows
		output.WriteString("+")
		for col := 0; col < g.cols; col++ {
			if g.OpenHorizontal(row, col) {
				output.WriteString("   +")
			} else {
				output.WriteString("---+")
			}
		}
		output.WriteString("\n")
	}

	return output.String()
}
