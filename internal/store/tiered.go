package store

import (
	"context"
	"errors"
	"sync"
)

// Tiered fronts the preferred structured backend with a flat fallback.
//
// The preferred open is re-attempted on every Read/Write that finds it
// missing — there is no latched "unavailable" flag, so a transient failure
// (locked file, slow mount) never permanently disables the structured store.
// Entries are not migrated between backends.
type Tiered struct {
	openPreferred func() (Store, error)
	fallback      Store

	mu        sync.Mutex
	preferred Store
}

// NewTiered composes the two backends. openPreferred is invoked lazily and
// retried per call until it succeeds once.
func NewTiered(openPreferred func() (Store, error), fallback Store) *Tiered {
	return &Tiered{openPreferred: openPreferred, fallback: fallback}
}

// preferredStore returns the structured backend, attempting to open it if
// not currently held. A nil return means this one call falls through to the
// fallback.
func (t *Tiered) preferredStore() Store {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.preferred != nil {
		return t.preferred
	}
	s, err := t.openPreferred()
	if err != nil {
		return nil
	}
	t.preferred = s
	return s
}

// Read tries the preferred backend first; any error there, not just a miss,
// falls through to the fallback.
func (t *Tiered) Read(ctx context.Context, key string) (*Entry, error) {
	if p := t.preferredStore(); p != nil {
		if e, err := p.Read(ctx, key); err == nil {
			return e, nil
		}
	}
	return t.fallback.Read(ctx, key)
}

// Write tries the preferred backend; on any error the entry goes to the
// fallback instead. Only a fallback failure propagates.
func (t *Tiered) Write(ctx context.Context, e Entry) error {
	if p := t.preferredStore(); p != nil {
		if err := p.Write(ctx, e); err == nil {
			return nil
		}
	}
	return t.fallback.Write(ctx, e)
}

// Close closes whichever backends are open.
func (t *Tiered) Close() error {
	t.mu.Lock()
	p := t.preferred
	t.preferred = nil
	t.mu.Unlock()

	var errs []error
	if p != nil {
		errs = append(errs, p.Close())
	}
	errs = append(errs, t.fallback.Close())
	return errors.Join(errs...)
}
