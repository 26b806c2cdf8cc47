package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dbehnke/iq-verify/pkg/config"
	"github.com/dbehnke/iq-verify/pkg/logger"
	"github.com/dbehnke/iq-verify/pkg/metrics"
)

// Server exposes a live view of a running battery: a JSON status endpoint
// and a WebSocket event feed. Presentation only; the run's outcome never
// depends on it.
type Server struct {
	config    config.WebConfig
	logger    *logger.Logger
	collector *metrics.Collector
	server    *http.Server
	hub       *WebSocketHub
	addr      string
	mu        sync.RWMutex
}

// NewServer creates a new web server instance
func NewServer(cfg config.WebConfig, collector *metrics.Collector, log *logger.Logger) *Server {
	return &Server{
		config:    cfg,
		logger:    log,
		collector: collector,
		hub:       NewWebSocketHub(log),
	}
}

// Hub returns the server's WebSocket hub so it can be registered as a
// harness observer.
func (s *Server) Hub() *WebSocketHub {
	return s.hub
}

// Addr returns the actual listen address once the server has started
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Start starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("Web server is disabled")
		return nil
	}

	// Start WebSocket hub
	go s.hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.Handle("/ws", s.hub.Handler())

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start listener to get actual address (especially for port 0)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.mu.Lock()
	s.addr = listener.Addr().String()
	s.mu.Unlock()

	s.logger.Info("Web server listening", logger.String("addr", s.Addr()))

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("web server shutdown error: %w", err)
		}
		return ctx.Err()
	case err := <-errChan:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := map[string]interface{}{
		"clients": s.hub.GetClientCount(),
	}
	if s.collector != nil {
		status["cases_run"] = s.collector.GetCasesRun()
		status["cases_passed"] = s.collector.GetCasesPassed()
		status["cases_failed"] = s.collector.GetCasesFailed()
		status["mismatched_words"] = s.collector.GetMismatchedWords()
	}

	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.logger.Error("Failed to encode status", logger.Error(err))
	}
}
