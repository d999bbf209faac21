package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gravitas-games/hexboard/internal/board"
	"github.com/gravitas-games/hexboard/internal/cache"
	"github.com/gravitas-games/hexboard/internal/config"
	"github.com/gravitas-games/hexboard/internal/network"
	"github.com/gravitas-games/hexboard/pkg/hex"
	"github.com/gravitas-games/hexboard/pkg/models"
)

// Server serves board geometry over HTTP and WebSocket
type Server struct {
	config       *config.Config
	session      *Session
	boards       *board.Service
	upgrader     websocket.Upgrader
	httpSrv      *http.Server
	jwtValidator *JWTValidator // nil when auth is disabled
	cache        cache.Cache
	redis        *redis.Client

	// Connection tracking
	connections map[*Connection]bool
	connMu      sync.RWMutex

	// Shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	log.Info("initializing server")

	ctx, cancel := context.WithCancel(context.Background())

	srv := &Server{
		config:      cfg,
		connections: make(map[*Connection]bool),
		ctx:         ctx,
		cancel:      cancel,
		cache:       cache.NewNullCache(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Subprotocols:    []string{"access_token"},
			CheckOrigin: func(r *http.Request) bool {
				// TODO: Add proper origin checking in production
				return true
			},
		},
	}

	if cfg.Redis.Address != "" {
		rc, err := cache.DialRedis(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			cancel()
			return nil, err
		}
		srv.cache = rc
		srv.redis = rc.Client()
		log.Info("connected to Redis", "addr", cfg.Redis.Address)
	}

	if cfg.JWT.Enabled {
		v, err := NewJWTValidator(ctx, cfg, srv.redis)
		if err != nil {
			srv.cache.Close()
			cancel()
			return nil, fmt.Errorf("failed to initialize JWT validator: %w", err)
		}
		srv.jwtValidator = v
	}

	srv.boards = board.NewService(board.Params{
		Radius:  cfg.Board.Radius,
		Width:   cfg.Board.Width,
		Height:  cfg.Board.Height,
		Columns: cfg.Board.Columns,
		Gap:     cfg.Board.Gap,
	}, cfg.Board.MaxRadius, srv.cache, time.Duration(cfg.Redis.BoardTTLSeconds)*time.Second)

	srv.session = NewSession(uuid.NewString(), cfg)

	log.Info("server initialized")
	return srv, nil
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	r.Get("/board", s.handleBoard)
	r.Get("/ring/{radius}", s.handleRing)
	r.Get("/ws", s.handleWebSocket)
	return r
}

// Start begins listening for connections
func (s *Server) Start(addr string) error {
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("listening", "ws", fmt.Sprintf("ws://%s/ws", addr), "http", fmt.Sprintf("http://%s/board", addr))

	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	log.Info("shutting down server")

	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			log.Error("HTTP server shutdown error", "err", err)
		}
	}

	s.connMu.RLock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.connMu.RUnlock()
	for _, conn := range conns {
		conn.Close()
	}

	if err := s.cache.Close(); err != nil {
		log.Error("cache close error", "err", err)
	}

	log.Info("server shutdown complete")
	return nil
}

// ring returns ring coordinates within the configured radius limit
func (s *Server) ring(radius int) ([]hex.Cube, error) {
	if radius > s.config.Board.MaxRadius {
		return nil, fmt.Errorf("%w: radius %d exceeds limit %d", hex.ErrInvalidArgument, radius, s.config.Board.MaxRadius)
	}
	return hex.Ring(radius)
}

// viewerFor authenticates the request, or admits an anonymous viewer when
// auth is disabled
func (s *Server) viewerFor(r *http.Request) (*models.Viewer, error) {
	if s.jwtValidator == nil {
		id := uuid.NewString()
		return &models.Viewer{ID: id, Username: "viewer-" + id[:8], Anonymous: true}, nil
	}

	tokenString := extractToken(r)
	if tokenString == "" {
		return nil, errors.New("missing authentication token")
	}
	return s.jwtValidator.ValidateToken(r.Context(), tokenString)
}

// handleWebSocket handles WebSocket connection requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	viewer, err := s.viewerFor(r)
	if err != nil {
		log.Warn("rejected websocket connection", "remote", r.RemoteAddr, "err", err)
		http.Error(w, fmt.Sprintf("Unauthorized: %v", err), http.StatusUnauthorized)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "err", err)
		return
	}

	conn := NewConnection(ws, s, viewer)

	s.connMu.Lock()
	s.connections[conn] = true
	s.connMu.Unlock()

	log.Info("websocket connection established", "viewer", viewer.Username, "remote", r.RemoteAddr)

	conn.Handle()

	s.connMu.Lock()
	delete(s.connections, conn)
	s.connMu.Unlock()

	log.Info("websocket connection closed", "viewer", viewer.Username, "remote", r.RemoteAddr)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Status())
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	req, err := parseBoardQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, network.ErrCodeInvalidArgument, err.Error())
		return
	}

	b, err := s.boards.Get(r.Context(), s.boards.Resolve(req))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleRing(w http.ResponseWriter, r *http.Request) {
	radius, err := strconv.Atoi(chi.URLParam(r, "radius"))
	if err != nil {
		writeError(w, http.StatusBadRequest, network.ErrCodeInvalidArgument, "radius must be an integer")
		return
	}

	coords, err := s.ring(radius)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, network.RingPayload{Radius: radius, Coords: coords})
}

// parseBoardQuery reads radius, width, height, columns and gap
func parseBoardQuery(r *http.Request) (board.Request, error) {
	var req board.Request
	q := r.URL.Query()

	if v := q.Get("radius"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("radius must be an integer")
		}
		req.Radius = &n
	}
	if v := q.Get("columns"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("columns must be an integer")
		}
		req.Columns = n
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"width", &req.Width},
		{"height", &req.Height},
	}
	for _, f := range floats {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, fmt.Errorf("%s must be a number", f.name)
		}
		*f.dst = n
	}
	if v := q.Get("gap"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, fmt.Errorf("gap must be a number")
		}
		req.Gap = &n
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error("failed to encode response", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		log.Warn("failed to write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, network.ErrorPayload{Code: code, Message: message})
}

func writeFailure(w http.ResponseWriter, err error) {
	if errors.Is(err, hex.ErrInvalidArgument) {
		writeError(w, http.StatusBadRequest, network.ErrCodeInvalidArgument, err.Error())
		return
	}
	log.Error("request failed", "err", err)
	writeError(w, http.StatusInternalServerError, network.ErrCodeInternal, "internal error")
}

// requestLogger logs each request at debug level
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "took", time.Since(start))
	})
}
