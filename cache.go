package guestpix

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/guestpix/guestpix/internal/store"
)

// VariantCache persists optimized variants across sessions, addressed by a
// deterministic composite of file name and style.
//
// Backend failures never escape this type: a failed read degrades to a miss
// and a failed write is logged and dropped. The current session keeps working
// either way; only the next session's cache warmth is lost.
type VariantCache struct {
	store  store.Store
	logger *slog.Logger
}

// NewVariantCache wraps a store. A nil logger uses slog.Default().
func NewVariantCache(s store.Store, logger *slog.Logger) *VariantCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &VariantCache{store: s, logger: logger}
}

// CacheKey composes the durable addressing key for a (file name, style)
// pair. The format is the on-disk contract: entries written by one session
// are only found by the next if this stays stable.
func CacheKey(fileName string, style int) string {
	return fileName + "_style_" + strconv.Itoa(style)
}

// Get returns the cached data URL for the pair, or "" on a miss or any
// backend failure.
func (c *VariantCache) Get(ctx context.Context, fileName string, style int) string {
	key := CacheKey(fileName, style)
	e, err := c.store.Read(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.logger.Debug("cache read failed", "key", key, "err", err)
		}
		return ""
	}
	return e.Data
}

// Set persists a data URL for the pair. Best effort: quota and backend
// failures are logged, never surfaced.
func (c *VariantCache) Set(ctx context.Context, fileName string, style int, dataURL string) {
	key := CacheKey(fileName, style)
	err := c.store.Write(ctx, store.Entry{
		Key:       key,
		FileName:  fileName,
		Style:     style,
		Data:      dataURL,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		c.logger.Warn("cache write failed", "key", key, "err", err)
	}
}
