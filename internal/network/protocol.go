package network

import (
	"encoding/json"

	"github.com/gravitas-games/hexboard/pkg/hex"
)

// Message types - Client → Server
const (
	MsgTypeBoard  = "board"
	MsgTypeRing   = "ring"
	MsgTypeLocate = "locate"
	MsgTypePing   = "ping"
)

// Message types - Server → Client
const (
	MsgTypeWelcome      = "welcome"
	MsgTypeBoardResult  = "board"
	MsgTypeRingResult   = "ring"
	MsgTypeCell         = "cell"
	MsgTypeViewerJoined = "viewer_joined"
	MsgTypeViewerLeft   = "viewer_left"
	MsgTypeError        = "error"
	MsgTypePong         = "pong"
)

// Error codes carried in ErrorPayload
const (
	ErrCodeInvalidMessage   = "invalid_message"
	ErrCodeInvalidArgument  = "invalid_argument"
	ErrCodeNotFound         = "not_found"
	ErrCodeUnknownType      = "unknown_message_type"
	ErrCodeInternal         = "internal_error"
	ErrCodeNotAuthenticated = "not_authenticated"
	ErrCodeReplaced         = "replaced"
)

// ClientMessage represents any message from client to server
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerMessage represents any message from server to client
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Client Message Payloads ---

// BoardRequest asks for a board; unset fields use the server defaults.
// Radius is a pointer because 0 is a valid board.
type BoardRequest struct {
	Radius  *int    `json:"radius,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Columns int     `json:"columns,omitempty"`
	Gap     *float64 `json:"gap,omitempty"`
}

// RingRequest asks for the coordinates of a single ring
type RingRequest struct {
	Radius int `json:"radius"`
}

// LocateRequest asks which hex of the default board is under a pixel
type LocateRequest struct {
	Horizontal float64 `json:"horizontal"`
	Vertical   float64 `json:"vertical"`
}

// --- Server Message Payloads ---

// WelcomePayload is sent to client after successful connection
type WelcomePayload struct {
	ViewerID      string        `json:"viewer_id"`
	Username      string        `json:"username"`
	SessionID     string        `json:"session_id"`
	SessionStatus SessionStatus `json:"session_status"`
}

// RingPayload lists a ring's coordinates in walk order
type RingPayload struct {
	Radius int        `json:"radius"`
	Coords []hex.Cube `json:"coords"`
}

// ViewerPayload notifies clients when a viewer joins or leaves
type ViewerPayload struct {
	ViewerID string `json:"viewer_id"`
	Username string `json:"username"`
}

// SessionStatus represents the current session state
type SessionStatus struct {
	ViewerCount int   `json:"viewer_count"`
	MaxViewers  int   `json:"max_viewers"`
	Uptime      int64 `json:"uptime"` // seconds
	BoardRadius int   `json:"board_radius"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
