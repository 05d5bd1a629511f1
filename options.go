package guestpix

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// defaultMemoSize bounds the in-memory variant memo per session.
const defaultMemoSize = 16

// OpenOptions configures a Session.
type OpenOptions struct {
	CacheDir   string
	HTTPClient *http.Client
	Logger     *slog.Logger
	Store      Store
	MemoSize   int
}

// OpenOption is a functional option for configuring Open.
type OpenOption func(*OpenOptions)

func defaultOptions() *OpenOptions {
	return &OpenOptions{
		CacheDir: defaultCacheDir(),
		Logger:   slog.Default(),
		MemoSize: defaultMemoSize,
	}
}

// WithCacheDir sets the local cache directory.
func WithCacheDir(dir string) OpenOption {
	return func(o *OpenOptions) { o.CacheDir = dir }
}

// WithHTTPClient sets the HTTP client used for service calls.
func WithHTTPClient(c *http.Client) OpenOption {
	return func(o *OpenOptions) { o.HTTPClient = c }
}

// WithLogger sets the logger for cache diagnostics.
func WithLogger(l *slog.Logger) OpenOption {
	return func(o *OpenOptions) { o.Logger = l }
}

// WithStore overrides the default tiered store entirely.
func WithStore(s Store) OpenOption {
	return func(o *OpenOptions) { o.Store = s }
}

// WithMemoSize bounds the in-memory variant memo.
func WithMemoSize(n int) OpenOption {
	return func(o *OpenOptions) {
		if n > 0 {
			o.MemoSize = n
		}
	}
}

func defaultCacheDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "guestpix")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "guestpix")
	}
	return ".guestpix"
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
