package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/nDmitry/titckfeed/internal/app"
	"github.com/nDmitry/titckfeed/internal/cache"
	"github.com/nDmitry/titckfeed/internal/entity"
)

// Server represents the REST API server
type Server struct {
	mux    *http.ServeMux
	server *http.Server
	logger *slog.Logger
	port   string
}

// NewServer creates a new REST API server
func NewServer(c cache.Cache, s Scraper, g Generator, cfg *entity.Config, port string) *Server {
	mux := http.NewServeMux()

	// One request timeout per announcement plus the listing page.
	writeTimeout := time.Duration(cfg.MaxItems+1)*cfg.RequestTimeout + 10*time.Second

	server := &Server{
		mux:    mux,
		logger: app.Logger(),
		port:   port,
		server: &http.Server{
			Addr:              ":" + port,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       120 * time.Second,
		},
	}

	NewFeedHandler(mux, c, s, g, cfg)

	return server
}

// Handler returns the routes wrapped with request logging
func (s *Server) Handler() http.Handler {
	return Logger(s.mux)
}

// Run starts the server and blocks until the context is canceled
func (s *Server) Run(ctx context.Context) error {
	s.server.Handler = s.Handler()
	s.server.BaseContext = func(_ net.Listener) context.Context { return ctx }

	s.server.RegisterOnShutdown(func() {
		s.logger.Info("Server is shutting down...")
	})

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server", "port", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}
