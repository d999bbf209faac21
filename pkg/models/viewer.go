package models

import "time"

// Viewer represents a client watching a board
type Viewer struct {
	// From JWT claims; anonymous viewers only get an ID
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	Permissions int64  `json:"permissions"` // bitwise permission flags
	Activated   int64  `json:"activated"`   // activation timestamp, 0 inactive, -1 banned
	Anonymous   bool   `json:"anonymous"`

	// Connection state
	Connected   bool      `json:"connected"`
	ConnectedAt time.Time `json:"connected_at"`
	LastSeen    time.Time `json:"last_seen"`

	SessionID string `json:"session_id"`
}

// IsActive checks if the viewer account is activated and not banned
func (v *Viewer) IsActive() bool {
	return v.Anonymous || v.Activated > 0
}

// IsBanned checks if the viewer is banned
func (v *Viewer) IsBanned() bool {
	return v.Activated == -1
}

// IsConnected checks if the viewer is currently connected
func (v *Viewer) IsConnected() bool {
	return v.Connected
}

// Touch records activity from the viewer
func (v *Viewer) Touch(now time.Time) {
	v.LastSeen = now
}
