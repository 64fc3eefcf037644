package models

import "time"

// Auth strategies recorded on a session.
const (
	StrategyStatic   = "static"
	StrategyProvider = "provider"
)

// Session is the server-side state marking a user as authenticated. It lives
// in Redis keyed by ID; the browser only carries a signed token naming the ID.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Strategy  string    `json:"strategy"`
	Welcomed  bool      `json:"welcomed"`
	CreatedAt time.Time `json:"created_at"`
}
