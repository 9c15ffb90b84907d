package i

import "github.com/google/uuid"

// Notifier pushes messages to the clients watching a session.
type Notifier interface {
	// Broadcast sends the message to every subscriber of the session.
	Broadcast(sessionID uuid.UUID, message []byte)
}
