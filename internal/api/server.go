package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/trimdeck/trimdeck-agent/internal/library"
	"github.com/trimdeck/trimdeck-agent/internal/playback"
	"github.com/trimdeck/trimdeck-agent/internal/sequence"
	"github.com/trimdeck/trimdeck-agent/internal/stream"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

type ServerConfig struct {
	Port           int
	Sequence       *sequence.Manager
	Queue          *playback.Manager
	LibraryService library.LibraryService
	Repository     library.Repository
	Runner         *library.Runner
	Stream         stream.StreamService
	Logger         *slog.Logger
	StartTime      time.Time
	DeviceID       string
	FrameRate      float64

	// Mu serializes access to Sequence and Queue, which are not safe for
	// concurrent use. NewRouter fills it in when nil.
	Mu *sync.Mutex
}

func NewServer(cfg ServerConfig) *Server {
	router := NewRouter(cfg)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("127.0.0.1:%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
