package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server wraps the HTTP server for the web frontend.
type Server struct {
	httpServer *http.Server
	watcher    *NamesWatcher
	wsHub      *WebSocketHub
	logger     *zap.Logger
}

// ServerConfig holds the optional parts of a Server.
type ServerConfig struct {
	Port      int
	WatchPath string // names file to reload the roster from; empty disables watching
	Logger    *zap.Logger
}

// NewServer creates a new server around handler. Every engine change is
// pushed to websocket clients; with a watch path, edits to that file
// rebuild the roster.
func NewServer(handler *Handler, cfg ServerConfig) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	wsHub := NewWebSocketHub(handler.BroadcastState, handler.CurrentState, logger.Named("ws"))
	handler.engine.Subscribe(wsHub.OnChange)
	mux.HandleFunc("GET /api/v1/ws", wsHub.ServeWS)

	var watcher *NamesWatcher
	if cfg.WatchPath != "" {
		var err error
		watcher, err = NewNamesWatcher(cfg.WatchPath, logger.Named("watcher"))
		if err != nil {
			return nil, fmt.Errorf("failed to create names watcher: %w", err)
		}
		// Roster first so clients are told about the reload after the new state.
		watcher.Subscribe(NewRosterLoader(handler.engine, logger.Named("watcher")))
		watcher.Subscribe(wsHub)
	}

	wrapped := Logging(logger.Named("http"), Cors(mux))

	return &Server{
		httpServer: &http.Server{
			Addr:        fmt.Sprintf(":%d", cfg.Port),
			Handler:     wrapped,
			ReadTimeout: 15 * time.Second,
			// No WriteTimeout: it would also cut off long-lived websocket connections.
		},
		watcher: watcher,
		wsHub:   wsHub,
		logger:  logger,
	}, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for HTTP requests. Blocks until shutdown.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener. Blocks until shutdown.
func (s *Server) Serve(listener net.Listener) error {
	if s.watcher != nil {
		if err := s.watcher.Load(); err != nil {
			s.logger.Warn("failed to load names file", zap.Error(err))
		}
		if err := s.watcher.Start(); err != nil {
			s.logger.Warn("failed to start names watcher", zap.Error(err))
		}
	}

	err := s.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			s.logger.Warn("failed to stop names watcher", zap.Error(err))
		}
	}

	// Hijacked websocket connections aren't tracked by http.Server.
	s.wsHub.Close()

	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
