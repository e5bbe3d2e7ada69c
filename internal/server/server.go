// Package server is the local preview server: the web preview, the PDF
// viewer page the capture tool screenshots, and the built-in diagrams.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	report2pdf "github.com/alnah/go-report2pdf"
	"github.com/alnah/go-report2pdf/internal/pipeline"
)

// Route paths.
const (
	PathHealth  = "/health"
	PathPreview = "/project-report"
	PathViewer  = "/project-report-pdf"
	PathPDF     = "/api/pdf/{ticket}"
	PathDiagram = "/diagrams/{file}"
)

const shutdownTimeout = 5 * time.Second

// Renderer renders the report. *report2pdf.Converter satisfies it; the CLI
// passes a pool-backed renderer.
type Renderer interface {
	Render(ctx context.Context, input report2pdf.Input) (*report2pdf.Result, error)
}

// Server serves the report over HTTP.
type Server struct {
	router   chi.Router
	renderer Renderer
	input    report2pdf.Input
	builder  *pipeline.Builder
	tickets  *Tickets
	logger   *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBuilder sets the page builder used for the viewer page.
func WithBuilder(b *pipeline.Builder) Option {
	return func(s *Server) {
		if b != nil {
			s.builder = b
		}
	}
}

// WithTicketTTL sets how long an unused PDF ticket stays valid.
func WithTicketTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.tickets = NewTickets(ttl)
	}
}

// New creates a Server that renders input with r on every request.
func New(r Renderer, input report2pdf.Input, opts ...Option) *Server {
	s := &Server{
		renderer: r,
		input:    input,
		builder:  pipeline.NewBuilder(nil, nil),
		tickets:  NewTickets(DefaultTicketTTL),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.logger))

	r.Get(PathHealth, s.handleHealth)
	r.Get(PathPreview, s.handlePreview)
	r.Get(PathViewer, s.handleViewer)
	r.Get(PathPDF, s.handlePDF)
	r.Get(PathDiagram, s.handleDiagram)

	s.router = r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
