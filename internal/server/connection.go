package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/gravitas-games/hexboard/internal/board"
	"github.com/gravitas-games/hexboard/internal/network"
	"github.com/gravitas-games/hexboard/pkg/hex"
	"github.com/gravitas-games/hexboard/pkg/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Connection represents a WebSocket connection to a viewer
type Connection struct {
	ws     *websocket.Conn
	server *Server
	viewer *models.Viewer

	// Buffered channel for outbound messages
	send chan []byte

	done      chan struct{}
	closeOnce sync.Once
	joined    atomic.Bool
}

// NewConnection creates a new connection for an authenticated viewer
func NewConnection(ws *websocket.Conn, server *Server, viewer *models.Viewer) *Connection {
	return &Connection{
		ws:     ws,
		server: server,
		viewer: viewer,
		send:   make(chan []byte, 256),
		done:   make(chan struct{}),
	}
}

// Handle joins the session and runs the connection until it closes
func (c *Connection) Handle() {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.writePump()

	if err := c.join(); err != nil {
		log.Warn("viewer could not join", "viewer", c.viewer.ID, "err", err)
		c.SendError(network.ErrCodeInternal, err.Error())
		c.closeAfterFlush()
		return
	}
	c.readPump() // Blocking
}

func (c *Connection) join() error {
	session := c.server.session

	c.viewer.Connected = true
	c.viewer.ConnectedAt = time.Now()
	c.viewer.LastSeen = c.viewer.ConnectedAt
	c.viewer.SessionID = session.ID

	prev, err := session.AddViewer(c.viewer, c)
	if err != nil {
		return err
	}
	c.joined.Store(true)
	if prev != nil {
		prev.SendError(network.ErrCodeReplaced, "Connected from another client")
		prev.closeAfterFlush()
	}

	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeWelcome,
		Payload: network.WelcomePayload{
			ViewerID:      c.viewer.ID,
			Username:      c.viewer.Username,
			SessionID:     session.ID,
			SessionStatus: session.Status(),
		},
	})

	session.BroadcastExcept(c, &network.ServerMessage{
		Type: network.MsgTypeViewerJoined,
		Payload: network.ViewerPayload{
			ViewerID: c.viewer.ID,
			Username: c.viewer.Username,
		},
	})
	return nil
}

// readPump pumps messages from the WebSocket connection to the handlers
func (c *Connection) readPump() {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("websocket read error", "err", err)
			}
			return
		}
		c.viewer.Touch(time.Now())

		var clientMsg network.ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			log.Debug("failed to parse client message", "err", err)
			c.SendError(network.ErrCodeInvalidMessage, "Failed to parse message")
			continue
		}

		c.handleMessage(&clientMsg)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn("websocket write error", "err", err)
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.flush()
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case <-c.server.ctx.Done():
			return
		}
	}
}

// flush writes whatever is still queued
func (c *Connection) flush() {
	for {
		select {
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		default:
			return
		}
	}
}

// handleMessage routes messages to appropriate handlers
func (c *Connection) handleMessage(msg *network.ClientMessage) {
	log.Debug("received message", "type", msg.Type, "viewer", c.viewer.ID)

	switch msg.Type {
	case network.MsgTypeBoard:
		c.handleBoard(msg.Payload)

	case network.MsgTypeRing:
		c.handleRing(msg.Payload)

	case network.MsgTypeLocate:
		c.handleLocate(msg.Payload)

	case network.MsgTypePing:
		c.handlePing()

	default:
		c.SendError(network.ErrCodeUnknownType, fmt.Sprintf("Unknown message type %q", msg.Type))
	}
}

func (c *Connection) handleBoard(payload json.RawMessage) {
	var req network.BoardRequest
	if err := decodePayload(payload, &req); err != nil {
		c.SendError(network.ErrCodeInvalidMessage, "Invalid board request")
		return
	}

	b, err := c.server.boards.Get(c.server.ctx, c.server.boards.Resolve(boardRequest(req)))
	if err != nil {
		c.sendFailure(err)
		return
	}
	c.SendMessage(&network.ServerMessage{Type: network.MsgTypeBoardResult, Payload: b})
}

func (c *Connection) handleRing(payload json.RawMessage) {
	var req network.RingRequest
	if err := decodePayload(payload, &req); err != nil {
		c.SendError(network.ErrCodeInvalidMessage, "Invalid ring request")
		return
	}

	coords, err := c.server.ring(req.Radius)
	if err != nil {
		c.sendFailure(err)
		return
	}
	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypeRingResult,
		Payload: network.RingPayload{Radius: req.Radius, Coords: coords},
	})
}

func (c *Connection) handleLocate(payload json.RawMessage) {
	var req network.LocateRequest
	if err := decodePayload(payload, &req); err != nil {
		c.SendError(network.ErrCodeInvalidMessage, "Invalid locate request")
		return
	}

	b, err := c.server.boards.Get(c.server.ctx, c.server.boards.Defaults())
	if err != nil {
		c.sendFailure(err)
		return
	}
	cell, ok := b.Locate(hex.Point{Horizontal: req.Horizontal, Vertical: req.Vertical})
	if !ok {
		c.SendError(network.ErrCodeNotFound, "No hex at that position")
		return
	}
	c.SendMessage(&network.ServerMessage{Type: network.MsgTypeCell, Payload: cell})
}

// handlePing handles ping requests
func (c *Connection) handlePing() {
	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypePong,
		Payload: map[string]interface{}{"timestamp": time.Now().Unix()},
	})
}

func (c *Connection) sendFailure(err error) {
	if errors.Is(err, hex.ErrInvalidArgument) {
		c.SendError(network.ErrCodeInvalidArgument, err.Error())
		return
	}
	log.Error("request failed", "viewer", c.viewer.ID, "err", err)
	c.SendError(network.ErrCodeInternal, "Internal error")
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *network.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal message", "type", msg.Type, "err", err)
		return
	}

	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- data:
	default:
		log.Warn("send buffer full, dropping message", "viewer", c.viewer.ID, "type", msg.Type)
	}
}

// SendError sends an error message to the client
func (c *Connection) SendError(code, message string) {
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeError,
		Payload: network.ErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}

// closeAfterFlush stops the connection, letting the write pump send what is
// queued first
func (c *Connection) closeAfterFlush() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Close leaves the session and closes the connection
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		if c.joined.Load() && c.server.session.RemoveViewer(c.viewer.ID, c) {
			c.viewer.Connected = false
			c.server.session.BroadcastExcept(c, &network.ServerMessage{
				Type: network.MsgTypeViewerLeft,
				Payload: network.ViewerPayload{
					ViewerID: c.viewer.ID,
					Username: c.viewer.Username,
				},
			})
		}
		close(c.done)
		c.ws.Close()
	})
}

// decodePayload unmarshals an optional payload; an absent one leaves v zero
func decodePayload(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	return json.Unmarshal(payload, v)
}

func boardRequest(req network.BoardRequest) board.Request {
	return board.Request{
		Radius:  req.Radius,
		Width:   req.Width,
		Height:  req.Height,
		Columns: req.Columns,
		Gap:     req.Gap,
	}
}
