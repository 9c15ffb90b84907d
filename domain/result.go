// Package dmn holds the records the service persists about finished sessions.
package dmn

import (
	"time"

	"github.com/google/uuid"
)

// Result summarises one maze session once it has ended.
type Result struct {
	SessionID uuid.UUID  `bson:"-" json:"session_id"`
	Rows      int        `bson:"rows" json:"rows"`
	Cols      int        `bson:"cols" json:"cols"`
	Seed      int64      `bson:"seed" json:"seed"`
	Won       bool       `bson:"won" json:"won"`
	CreatedAt time.Time  `bson:"createdAt" json:"created_at"`
	WonAt     *time.Time `bson:"wonAt,omitempty" json:"won_at,omitempty"`
	EndedAt   time.Time  `bson:"endedAt" json:"ended_at"`
}

// Duration is how long the player took to reach the goal, or zero if they
// never did.
func (r *Result) Duration() time.Duration {
	if r.WonAt == nil {
		return 0
	}
	return r.WonAt.Sub(r.CreatedAt)
}
