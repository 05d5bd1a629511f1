// Package server exposes the guestpix HTTP API: the optimize and upload
// endpoints consumed by the client core, a health probe, and static serving
// for the web UI. The handlers are thin: parse, validate, call the backend,
// translate the result.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/guestpix/guestpix/internal/drive"
	"github.com/guestpix/guestpix/internal/genai"
)

// MaxUploadBytes caps request bodies: the 50 MB client-side file limit plus
// headroom for multipart framing.
const MaxUploadBytes = 50<<20 + 1<<20

// Config holds runtime settings for the HTTP service.
type Config struct {
	Addr      string
	StaticDir string
}

// Server routes API traffic to the two external backends.
type Server struct {
	cfg      Config
	gen      genai.Generator
	uploader drive.Uploader
	logger   *slog.Logger
}

// New assembles the service. A nil logger uses slog.Default().
func New(cfg Config, gen genai.Generator, uploader drive.Uploader, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, gen: gen, uploader: uploader, logger: logger}
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLog(s.logger))
	r.Use(MaxBody(MaxUploadBytes))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/api/optimize-image", s.handleOptimize)
	r.Post("/api/upload", s.handleUpload)

	if s.cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}
	return r
}

// ListenAndServe runs the service until ctx is canceled, then drains.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Router(),
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
