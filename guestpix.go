package guestpix

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/guestpix/guestpix/internal/remote"
	"github.com/guestpix/guestpix/internal/store"
)

const defaultPrefetchWorkers = 4

// Session coordinates the selected file, its optimized variants, the
// persistent cache and the service API. One Session serves one user sitting;
// methods are safe for concurrent use.
type Session struct {
	sel   *Selection
	cache *VariantCache
	api   remote.API
	memo  *lru.Cache[string, Variant]
	store store.Store
}

// Open creates a session talking to the service at baseURL. The default
// store is SQLite under the cache directory with a flat-file fallback.
func Open(baseURL string, opts ...OpenOption) (*Session, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	st := options.Store
	if st == nil {
		cacheDir := expandPath(options.CacheDir)
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		fallback, err := store.NewFlatStore(cacheDir)
		if err != nil {
			return nil, err
		}
		dbPath := filepath.Join(cacheDir, "images.db")
		st = store.NewTiered(func() (store.Store, error) {
			return store.OpenSQLite(dbPath)
		}, fallback)
	}

	memo, err := lru.New[string, Variant](options.MemoSize)
	if err != nil {
		return nil, fmt.Errorf("create variant memo: %w", err)
	}

	return &Session{
		sel:   NewSelection(),
		cache: NewVariantCache(st, options.Logger),
		api:   remote.NewClient(baseURL, options.HTTPClient),
		memo:  memo,
		store: st,
	}, nil
}

// State reports the view state machine's position.
func (s *Session) State() State { return s.sel.State() }

// Style returns the active style index.
func (s *Session) Style() int { return s.sel.Style() }

// Active returns the variant currently on display.
func (s *Session) Active() (Variant, bool) { return s.sel.Active() }

// Cache exposes the variant cache, e.g. for warmth checks.
func (s *Session) Cache() *VariantCache { return s.cache }

// Select replaces the current file. The in-memory memo for the previous
// selection is dropped; persisted cache entries remain addressable by the
// (file name, style) key in any session.
func (s *Session) Select(name, mediaType string, data []byte) error {
	if err := s.sel.Select(name, mediaType, data); err != nil {
		return err
	}
	s.memo.Purge()
	return nil
}

// SetStyle changes the active style. If optimize was on, the new (file,
// style) pair is re-derived immediately: the retained variant belongs to the
// old style and is never reused.
func (s *Session) SetStyle(ctx context.Context, style int) (Variant, error) {
	wasOn := s.sel.Toggled()
	if err := s.sel.SetStyle(style); err != nil {
		return Variant{}, err
	}
	if !wasOn {
		v, _ := s.sel.Active()
		return v, nil
	}
	return s.EnableOptimized(ctx)
}

// EnableOptimized turns the optimize toggle on, deriving the optimized
// variant for the current (file, style) pair: from memory if retained, else
// from the persistent cache, else with one call to the optimize endpoint.
//
// The generation token captured at start is re-checked after every
// suspension point. A mismatch means the selection moved on mid-flight; the
// result is discarded and ErrSuperseded returned. On endpoint failure the
// toggle reverts and the original stays on display.
func (s *Session) EnableOptimized(ctx context.Context) (Variant, error) {
	if s.sel.toggleOnFromMemory() {
		v, _ := s.sel.Active()
		return v, nil
	}

	token, file, style, err := s.sel.beginOptimize()
	if err != nil {
		return Variant{}, err
	}
	key := CacheKey(file.Name, style)

	if v, ok := s.memo.Get(key); ok {
		if err := s.sel.completeOptimize(token, v); err != nil {
			return Variant{}, err
		}
		return v, nil
	}

	// CheckCache: a hit skips the network entirely.
	if dataURL := s.cache.Get(ctx, file.Name, style); dataURL != "" {
		v := Variant{Kind: VariantOptimized, DataURL: dataURL}
		if err := s.sel.completeOptimize(token, v); err != nil {
			return Variant{}, err
		}
		s.memo.Add(key, v)
		return v, nil
	}

	// Pending: one request to the optimize endpoint.
	res, err := s.api.Optimize(ctx, remote.OptimizeRequest{
		FileName:  file.Name,
		MediaType: file.MediaType,
		Data:      file.Data,
		Style:     style,
	})
	if err != nil {
		s.sel.failOptimize(token)
		return Variant{}, err
	}

	v := Variant{Kind: VariantOptimized, DataURL: EncodeDataURL(res.MediaType, res.Data)}
	if err := s.sel.completeOptimize(token, v); err != nil {
		// arrived after a newer selection: no display, no memo, no cache write
		return Variant{}, err
	}
	s.memo.Add(key, v)
	s.cache.Set(ctx, file.Name, style, v.DataURL)
	return v, nil
}

// DisableOptimized switches the display back to the original. The optimized
// variant is retained, so re-enabling the same pair needs no cache query.
func (s *Session) DisableOptimized() { s.sel.ToggleOff() }

// Submit uploads whichever variant is active. Success clears the selection
// back to Empty; failure leaves everything in place for a manual retry.
func (s *Session) Submit(ctx context.Context) (*remote.UploadResult, error) {
	file := s.sel.File()
	if file == nil {
		return nil, ErrNoSelection
	}
	v, _ := s.sel.Active()

	mediaType, data := file.MediaType, file.Data
	if v.Kind == VariantOptimized {
		mt, d, err := DecodeDataURL(v.DataURL)
		if err != nil {
			return nil, fmt.Errorf("decode optimized variant: %w", err)
		}
		mediaType, data = mt, d
	}

	res, err := s.api.Upload(ctx, remote.UploadRequest{
		FileName:  file.Name,
		MediaType: mediaType,
		Data:      data,
	})
	if err != nil {
		return nil, err
	}

	s.sel.Reset()
	s.memo.Purge()
	return res, nil
}

// PrefetchStyles warms the persistent cache for the given styles of the
// current selection, fetching misses concurrently. Display state is not
// touched, so there is nothing to supersede; concurrent writes to one key
// are last-write-wins.
func (s *Session) PrefetchStyles(ctx context.Context, styleIndexes []int, workers int) error {
	file := s.sel.File()
	if file == nil {
		return ErrNoSelection
	}
	if workers <= 0 {
		workers = defaultPrefetchWorkers
	}

	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(workers)
	for _, style := range styleIndexes {
		p.Go(func(ctx context.Context) error {
			if style < 0 {
				return ErrInvalidStyle
			}
			if s.cache.Get(ctx, file.Name, style) != "" {
				return nil
			}
			res, err := s.api.Optimize(ctx, remote.OptimizeRequest{
				FileName:  file.Name,
				MediaType: file.MediaType,
				Data:      file.Data,
				Style:     style,
			})
			if err != nil {
				return fmt.Errorf("style %d: %w", style, err)
			}
			s.cache.Set(ctx, file.Name, style, EncodeDataURL(res.MediaType, res.Data))
			return nil
		})
	}
	return p.Wait()
}

// Close releases the underlying store.
func (s *Session) Close() error {
	return s.store.Close()
}
