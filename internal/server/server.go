// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     server
// Description: HTTP server hosting the live-parse websocket endpoint
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package server

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/msto63/fdl/internal/store"
	fdlerr "github.com/msto63/fdl/pkg/core/error"
	"github.com/msto63/fdl/pkg/core/health"
	"github.com/msto63/fdl/pkg/core/log"
	"github.com/msto63/fdl/pkg/core/version"
	"github.com/msto63/fdl/pkg/fdl"
	"github.com/msto63/fdl/pkg/fdl/parser"
)

// Server is the live-parse server
type Server struct {
	httpServer *http.Server
	ws         *WebSocketHandler
	health     *health.Registry
	logger     *log.Logger
	config     Config
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	PingInterval   time.Duration
	MaxSourceSize  int64
	AllowedOrigins []string

	// CacheSize is the number of parse results kept; 0 disables the cache
	CacheSize int
	CacheTTL  time.Duration
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:          "127.0.0.1",
		Port:          8420,
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  30 * time.Second,
		PingInterval:  30 * time.Second,
		MaxSourceSize: 1 << 20,
		CacheSize:     256,
		CacheTTL:      10 * time.Minute,
	}
}

// healthDocument is parsed by the parser health check
const healthDocument = `thing "health" { bool ok = true }`

// New creates a server. snapshots may be nil, which disables the save
// message type.
func New(cfg Config, logger *log.Logger, snapshots store.SnapshotStore) (*Server, error) {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fdlerr.Newf("invalid port %d", cfg.Port).WithCode(fdlerr.CodeInvalidInput)
	}
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.WithField("component", "server")

	p := parser.New(parser.Options{Logger: logger})
	ws := NewWebSocketHandler(cfg, p, snapshots, logger)

	registry := health.NewRegistry("fdl-serve", version.Server)
	registry.Register(health.FuncCheck("parser", func(ctx context.Context) error {
		_, err := fdl.ParseSource(p, healthDocument)
		return err
	}))
	if pinger, ok := snapshots.(health.Pinger); ok {
		registry.Register(health.PingCheck("store", pinger))
	}

	s := &Server{
		ws:     ws,
		health: registry,
		logger: logger,
		config: cfg,
	}

	s.httpServer = &http.Server{
		Addr:         s.Address(),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.ws)
	mux.Handle("/healthz", s.health.Handler(5*time.Second))
	return loggingMiddleware(s.logger, mux)
}

// Start serves until the server is stopped
func (s *Server) Start() error {
	s.logger.Info("Starting FDL live-parse server", log.Fields{
		"host": s.config.Host,
		"port": s.config.Port,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fdlerr.Wrap(err, "server failed").WithCode(fdlerr.CodeIO)
	}
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping FDL live-parse server")
	defer s.ws.Close()
	return s.httpServer.Shutdown(ctx)
}

// Address returns the server address
func (s *Server) Address() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Debug("HTTP request", log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   wrapper.statusCode,
			"duration": time.Since(start).String(),
		})
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}
