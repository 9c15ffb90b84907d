package game

import (
	"math"

	"github.com/google/uuid"
	"github.com/rssebastian/maze-game/maze"
)

const (
	defaultWallThickness   = 5
	defaultBorderThickness = 2
	defaultGoalScale       = 0.7
	defaultPlayerScale     = 0.25

	wallFill   = "#b4b4b4"
	goalFill   = "#3cb371"
	playerFill = "#1e90ff"
)

// LayoutOptions describes how the maze is projected into world coordinates.
// Zero values for thickness and scale fields fall back to defaults.
type LayoutOptions struct {
	UnitWidth       float64 // Width of one cell.
	UnitHeight      float64 // Height of one cell.
	WallThickness   float64 // Thickness of interior walls.
	BorderThickness float64 // Thickness of the four boundary walls.
	GoalScale       float64 // Goal size as a fraction of the cell size.
	PlayerScale     float64 // Player radius as a fraction of the smaller unit.
}

func (o LayoutOptions) withDefaults() LayoutOptions {
	if o.WallThickness == 0 {
		o.WallThickness = defaultWallThickness
	}
	if o.BorderThickness == 0 {
		o.BorderThickness = defaultBorderThickness
	}
	if o.GoalScale == 0 {
		o.GoalScale = defaultGoalScale
	}
	if o.PlayerScale == 0 {
		o.PlayerScale = defaultPlayerScale
	}
	return o
}

func (o LayoutOptions) validate() error {
	if o.UnitWidth <= 0 || o.UnitHeight <= 0 || o.WallThickness <= 0 || o.BorderThickness <= 0 {
		return maze.ErrInvalidDimension
	}
	if o.GoalScale <= 0 || o.GoalScale > 1 || o.PlayerScale <= 0 || o.PlayerScale > 0.5 {
		return maze.ErrInvalidDimension
	}
	return nil
}

// Layout is the set of bodies emitted for a generated maze.
type Layout struct {
	Width      float64 // Width of the play area.
	Height     float64 // Height of the play area.
	Walls      []Body  // One per closed edge.
	Boundaries []Body  // Top, bottom, left, right.
	Goal       Body
	Player     Body
}

// Bodies returns every body of the layout.
func (l *Layout) Bodies() []Body {
	bodies := make([]Body, 0, len(l.Walls)+len(l.Boundaries)+2)
	bodies = append(bodies, l.Boundaries...)
	bodies = append(bodies, l.Walls...)
	return append(bodies, l.Goal, l.Player)
}

// GoalCell is the designated goal cell: the last cell of the grid.
func GoalCell(g *maze.Grid) maze.CellPosition {
	return maze.CellPosition{Row: g.Rows() - 1, Col: g.Cols() - 1}
}

// PlayerCell is the cell the player starts in, opposite the goal.
func PlayerCell() maze.CellPosition {
	return maze.CellPosition{Row: 0, Col: 0}
}

// NewLayout converts the closed edges of a generated grid into wall bodies
// and adds the boundaries, the goal and the player.
func NewLayout(g *maze.Grid, opts LayoutOptions) (*Layout, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	uw, uh := opts.UnitWidth, opts.UnitHeight
	width, height := float64(g.Cols())*uw, float64(g.Rows())*uh

	layout := &Layout{
		Width:  width,
		Height: height,
		Boundaries: []Body{
			rectangle(LabelBoundary, Vector{X: width / 2, Y: 0}, width, opts.BorderThickness, wallFill),
			rectangle(LabelBoundary, Vector{X: width / 2, Y: height}, width, opts.BorderThickness, wallFill),
			rectangle(LabelBoundary, Vector{X: 0, Y: height / 2}, opts.BorderThickness, height, wallFill),
			rectangle(LabelBoundary, Vector{X: width, Y: height / 2}, opts.BorderThickness, height, wallFill),
		},
	}

	for _, edge := range g.ClosedEdges() {
		var wall Body
		if edge.Orientation == maze.Horizontal {
			center := Vector{X: (float64(edge.Col) + 0.5) * uw, Y: float64(edge.Row+1) * uh}
			wall = rectangle(LabelWall, center, uw, opts.WallThickness, wallFill)
		} else {
			center := Vector{X: float64(edge.Col+1) * uw, Y: (float64(edge.Row) + 0.5) * uh}
			wall = rectangle(LabelWall, center, opts.WallThickness, uh, wallFill)
		}
		layout.Walls = append(layout.Walls, wall)
	}

	goal := GoalCell(g)
	layout.Goal = rectangle(LabelGoal, cellCenter(goal, uw, uh), opts.GoalScale*uw, opts.GoalScale*uh, goalFill)
	layout.Goal.Sensor = true

	layout.Player = Body{
		ID:       uuid.New(),
		Label:    LabelPlayer,
		Shape:    ShapeCircle,
		Position: cellCenter(PlayerCell(), uw, uh),
		Radius:   opts.PlayerScale * math.Min(uw, uh),
		Style:    Style{Fill: playerFill},
	}
	return layout, nil
}

func cellCenter(pos maze.CellPosition, uw, uh float64) Vector {
	return Vector{X: (float64(pos.Col) + 0.5) * uw, Y: (float64(pos.Row) + 0.5) * uh}
}
