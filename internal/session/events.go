package session

import "time"

// Event is the envelope broadcast to every subscriber on each state
// transition.
type Event struct {
	Type  string    `json:"type"` // "session.update" or "session.confirmation"
	At    time.Time `json:"at"`
	State State     `json:"state"`
}
