// Package serve runs the local preview server: it serves the rendered
// output tree over HTTP and rebuilds the site when content changes.
package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/stanza-ssg/stanza/internal/config"
	"github.com/stanza-ssg/stanza/internal/logfields"
	"github.com/stanza-ssg/stanza/internal/site"
)

// Server owns the preview HTTP server and the rebuild machinery.
type Server struct {
	cfg     *config.Config
	builder *site.Builder

	// metricsHandler, when set, is mounted at /metrics.
	metricsHandler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithMetricsHandler mounts a metrics endpoint on the preview server.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metricsHandler = h }
}

// New creates a preview server around an existing builder.
func New(cfg *config.Config, builder *site.Builder, opts ...Option) *Server {
	s := &Server{cfg: cfg, builder: builder}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run builds once, then serves the output directory until the context is
// canceled. Content changes and the optional schedule trigger rebuilds; a
// failed rebuild keeps the previous output on disk and keeps serving.
func (s *Server) Run(ctx context.Context) error {
	s.rebuild(ctx)

	httpServer, err := s.startHTTP()
	if err != nil {
		return err
	}

	watcher, err := newWatcher(s.watchRoots())
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	rebuildReq, trigger, stopDebounce := newDebouncer(300 * time.Millisecond)
	s.startRebuildWorker(ctx, rebuildReq)

	scheduler, err := startRebuildSchedule(s.cfg.Serve.RebuildEvery, rebuildReq)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return s.shutdown(httpServer, scheduler, stopDebounce)
		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			watcher.Handle(ev, trigger)
		case werr, ok := <-watcher.Errors():
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(werr))
		}
	}
}

func (s *Server) watchRoots() []string {
	roots := []string{s.cfg.Content.Dir, s.cfg.Content.LayoutsDir}
	if s.cfg.Content.StaticDir != "" {
		roots = append(roots, s.cfg.Content.StaticDir)
	}
	return roots
}

func (s *Server) startHTTP() (*http.Server, error) {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.cfg.Output.Directory)))
	if s.metricsHandler != nil {
		mux.Handle("/metrics", s.metricsHandler)
	}

	addr := fmt.Sprintf(":%d", s.cfg.Serve.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	httpServer := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Preview server failed", logfields.Error(err))
		}
	}()

	slog.Info("Preview server listening",
		slog.Int("port", s.cfg.Serve.Port),
		slog.String("url", fmt.Sprintf("http://localhost:%d", s.cfg.Serve.Port)))
	return httpServer, nil
}

// startRebuildWorker drains rebuild requests one at a time. A request that
// arrives mid-build marks a pending pass instead of piling up.
func (s *Server) startRebuildWorker(ctx context.Context, rebuildReq chan struct{}) {
	go func() {
		pending := false
		for {
			if !pending {
				select {
				case <-ctx.Done():
					return
				case <-rebuildReq:
				}
			}
			pending = false

			s.rebuild(ctx)

			select {
			case <-rebuildReq:
				pending = true
			default:
			}
		}
	}()
}

func (s *Server) rebuild(ctx context.Context) {
	report, err := s.builder.Build(ctx)
	if err != nil {
		slog.Error("Build failed, keeping previous output", logfields.Error(err))
		return
	}
	if report.Failed() {
		slog.Warn("Build finished with document issues",
			logfields.BuildID(report.ID),
			slog.Int("issues", len(report.Issues)))
	}
}

func (s *Server) shutdown(httpServer *http.Server, scheduler *rebuildSchedule, stopDebounce func()) error {
	slog.Info("Shutting down preview server")

	// Disarm any pending debounce timer before tearing anything down; the
	// rebuild worker exits through its context.
	stopDebounce()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown error", logfields.Error(err))
	}
	if err := scheduler.Stop(); err != nil {
		slog.Warn("Scheduler shutdown error", logfields.Error(err))
	}
	return nil
}
