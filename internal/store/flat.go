package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/guestpix/guestpix/internal/compression"
)

// flatPrefix namespaces entry files so unrelated files sharing the directory
// are never read or clobbered. It is part of the on-disk contract.
const flatPrefix = "gpx_cache_"

// FlatStore is the fallback backend: one file per entry under a directory,
// value is the JSON-encoded entry, zstd-compressed.
//
// Layout:
//
//	dir/
//	  gpx_cache_<escaped key>
//
// Writes that fail (quota, permissions) return errors; the coordinator above
// absorbs them, so a full disk costs only the cache, never the session.
type FlatStore struct {
	dir        string
	compressor *compression.Compressor
}

// NewFlatStore creates the fallback store rooted at dir.
func NewFlatStore(dir string) (*FlatStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	compressor, err := compression.NewCompressor(compression.LevelDefault)
	if err != nil {
		return nil, fmt.Errorf("create compressor: %w", err)
	}
	return &FlatStore{dir: dir, compressor: compressor}, nil
}

// Read retrieves the entry for key.
func (s *FlatStore) Read(ctx context.Context, key string) (*Entry, error) {
	raw, err := os.ReadFile(s.entryPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read entry: %w", err)
	}

	data, err := s.compressor.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("decompress entry: %w", err)
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode entry: %w", err)
	}
	return &e, nil
}

// Write stores an entry, overwriting any previous file for the same key.
func (s *FlatStore) Write(ctx context.Context, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	compressed, err := s.compressor.Compress(data)
	if err != nil {
		return fmt.Errorf("compress entry: %w", err)
	}

	if err := os.WriteFile(s.entryPath(e.Key), compressed, 0644); err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}

// Close releases the compressor.
func (s *FlatStore) Close() error {
	return s.compressor.Close()
}

// entryPath maps a key to its file. Keys carry user-supplied file names which
// may contain path separators; escape them so every entry stays one flat file.
func (s *FlatStore) entryPath(key string) string {
	return filepath.Join(s.dir, flatPrefix+url.PathEscape(key))
}
