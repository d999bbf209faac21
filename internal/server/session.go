package server

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravitas-games/hexboard/internal/config"
	"github.com/gravitas-games/hexboard/internal/network"
	"github.com/gravitas-games/hexboard/pkg/models"
)

// ErrSessionFull is returned when max_viewers are already connected
var ErrSessionFull = errors.New("session is full")

// Session tracks the viewers connected to the board server
type Session struct {
	ID        string
	CreatedAt time.Time

	viewers     map[string]*models.Viewer // viewerID -> Viewer
	connections map[string]*Connection    // viewerID -> Connection
	mu          sync.RWMutex

	config *config.Config
}

// NewSession creates a new viewer session
func NewSession(id string, cfg *config.Config) *Session {
	log.Info("creating session", "id", id, "max_viewers", cfg.Session.MaxViewers)

	return &Session{
		ID:          id,
		CreatedAt:   time.Now(),
		viewers:     make(map[string]*models.Viewer),
		connections: make(map[string]*Connection),
		config:      cfg,
	}
}

// AddViewer adds a viewer to the session. When the viewer is already
// connected, conn takes over and the displaced connection is returned.
func (s *Session) AddViewer(viewer *models.Viewer, conn *Connection) (*Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, exists := s.connections[viewer.ID]
	if !exists && len(s.viewers) >= s.config.Session.MaxViewers {
		return nil, ErrSessionFull
	}

	s.viewers[viewer.ID] = viewer
	s.connections[viewer.ID] = conn

	if exists {
		log.Info("viewer reconnected", "viewer", viewer.Username, "id", viewer.ID, "session", s.ID)
		return prev, nil
	}
	log.Info("viewer joined", "viewer", viewer.Username, "id", viewer.ID, "session", s.ID)
	return nil, nil
}

// RemoveViewer removes a viewer from the session if conn is still the
// connection registered for it. Reports whether anything was removed.
func (s *Session) RemoveViewer(viewerID string, conn *Connection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.connections[viewerID]
	if !exists || current != conn {
		return false
	}
	log.Info("viewer left", "viewer", s.viewers[viewerID].Username, "id", viewerID, "session", s.ID)
	delete(s.viewers, viewerID)
	delete(s.connections, viewerID)
	return true
}

// GetViewer retrieves a viewer by ID
func (s *Session) GetViewer(viewerID string) (*models.Viewer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	viewer, exists := s.viewers[viewerID]
	return viewer, exists
}

// ViewerCount returns how many viewers are connected
func (s *Session) ViewerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.viewers)
}

// BroadcastExcept sends a message to all viewers except the specified connection
func (s *Session) BroadcastExcept(exclude *Connection, msg *network.ServerMessage) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, conn := range s.connections {
		if conn != exclude {
			conn.SendMessage(msg)
		}
	}
}

// Status returns the current session status
func (s *Session) Status() network.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return network.SessionStatus{
		ViewerCount: len(s.viewers),
		MaxViewers:  s.config.Session.MaxViewers,
		Uptime:      int64(time.Since(s.CreatedAt).Seconds()),
		BoardRadius: s.config.Board.Radius,
	}
}
