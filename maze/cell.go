package maze

import "fmt"

// CellPosition represents the position of a cell in the maze grid.
type CellPosition struct {
	Row int `json:"row"` // Row index of the cell
	Col int `json:"col"` // Column index of the cell
}

// String implements fmt.Stringer.
func (cp CellPosition) String() string {
	return fmt.Sprintf("%d,%d", cp.Row, cp.Col)
}

// Orientation tells which ledger an edge lives in.
type Orientation int

const (
	// Vertical edges separate (row, col) from (row, col+1).
	Vertical Orientation = iota
	// Horizontal edges separate (row, col) from (row+1, col).
	Horizontal
)

// String implements fmt.Stringer.
func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Edge identifies the boundary between two adjacent cells.
type Edge struct {
	Orientation Orientation
	Row         int
	Col         int
}

// Cells returns the two cells separated by the edge.
func (e Edge) Cells() (CellPosition, CellPosition) {
	a := CellPosition{Row: e.Row, Col: e.Col}
	if e.Orientation == Vertical {
		return a, CellPosition{Row: e.Row, Col: e.Col + 1}
	}
	return a, CellPosition{Row: e.Row + 1, Col: e.Col}
}

// Direction of a step from one cell to an adjacent one.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

var directionNames = [...]string{"Up", "Right", "Down", "Left"}

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d < Up || d > Left {
		return "Unknown"
	}
	return directionNames[d]
}

// Move represents a step from one cell to an adjacent cell.
type Move struct {
	From      CellPosition // Starting cell
	To        CellPosition // Destination cell
	Direction Direction    // Direction of the move
}

// Edge returns the edge crossed by the move. Up/Down moves cross the
// horizontal edge anchored at the lower row index, Left/Right moves the
// vertical edge anchored at the lower column index.
func (m Move) Edge() Edge {
	switch m.Direction {
	case Up:
		return Edge{Orientation: Horizontal, Row: m.From.Row - 1, Col: m.From.Col}
	case Down:
		return Edge{Orientation: Horizontal, Row: m.From.Row, Col: m.From.Col}
	case Left:
		return Edge{Orientation: Vertical, Row: m.From.Row, Col: m.From.Col - 1}
	default:
		return Edge{Orientation: Vertical, Row: m.From.Row, Col: m.From.Col}
	}
}

// candidates lists the four neighbours of pos in up, right, down, left order.
// Positions may be out of bounds.
func candidates(pos CellPosition) [4]Move {
	return [4]Move{
		{From: pos, To: CellPosition{Row: pos.Row - 1, Col: pos.Col}, Direction: Up},
		{From: pos, To: CellPosition{Row: pos.Row, Col: pos.Col + 1}, Direction: Right},
		{From: pos, To: CellPosition{Row: pos.Row + 1, Col: pos.Col}, Direction: Down},
		{From: pos, To: CellPosition{Row: pos.Row, Col: pos.Col - 1}, Direction: Left},
	}
}
