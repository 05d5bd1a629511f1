// Package store implements the durable cache storage layer.
//
// The Store interface is a small key-value abstraction over cache entries:
// - Read/Write by exact key only (no range queries, no secondary indexes)
// - Overwrites on the same key are last-write-wins
// - Two backends: SQLite (structured) and flat files (fallback)
//
// Tiered fronts the two backends with the selection policy described in
// tiered.go. Callers above this package are expected to absorb errors.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no entry exists for a key.
var ErrNotFound = errors.New("store: entry not found")

// Entry is one cached optimized image.
type Entry struct {
	Key       string `json:"key"`
	FileName  string `json:"fileName"`
	Style     int    `json:"style"`
	Data      string `json:"data"`      // data URL of the optimized variant
	Timestamp int64  `json:"timestamp"` // creation time, epoch milliseconds
}

// Store handles durable cache entry storage.
type Store interface {
	// Read retrieves the entry for key, or ErrNotFound.
	Read(ctx context.Context, key string) (*Entry, error)

	// Write stores an entry, overwriting any previous one for the same key.
	Write(ctx context.Context, e Entry) error

	// Close releases backend resources.
	Close() error
}
