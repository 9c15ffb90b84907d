package game

import "github.com/google/uuid"

// Vector is a 2D quantity in world units (position, size, velocity, force).
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Label tags what a body represents in the maze.
type Label string

const (
	LabelWall     Label = "wall"     // Interior wall derived from a closed edge.
	LabelBoundary Label = "boundary" // One of the four walls enclosing the play area.
	LabelGoal     Label = "goal"     // Goal marker in the last cell.
	LabelPlayer   Label = "player"   // The ball steered by the player.
)

// Shape of a body.
type Shape string

const (
	ShapeRectangle Shape = "rectangle"
	ShapeCircle    Shape = "circle"
)

// Style carries display hints for the rendering engine.
type Style struct {
	Fill string `json:"fill,omitempty"`
}

// Body describes a rectangle or circle registered with the physics world.
// Static bodies are solid and immovable; Sensor bodies report collisions but
// take no part in collision response.
type Body struct {
	ID       uuid.UUID `json:"id"`
	Label    Label     `json:"label"`
	Shape    Shape     `json:"shape"`
	Position Vector    `json:"position"` // Center of the body.
	Width    float64   `json:"width,omitempty"`
	Height   float64   `json:"height,omitempty"`
	Radius   float64   `json:"radius,omitempty"`
	Static   bool      `json:"static"`
	Sensor   bool      `json:"sensor"`
	Velocity Vector    `json:"velocity"`
	Style    Style     `json:"style"`
}

func rectangle(label Label, center Vector, width, height float64, fill string) Body {
	return Body{
		ID:       uuid.New(),
		Label:    label,
		Shape:    ShapeRectangle,
		Position: center,
		Width:    width,
		Height:   height,
		Static:   true,
		Style:    Style{Fill: fill},
	}
}
