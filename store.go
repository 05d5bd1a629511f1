package guestpix

import "github.com/guestpix/guestpix/internal/store"

// Store is the public interface for cache entry storage.
// Re-exported from internal/store for convenience.
type Store = store.Store

// Entry is one persisted cache record.
type Entry = store.Entry
