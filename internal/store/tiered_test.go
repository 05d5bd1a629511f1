package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// faultyStore fails every operation, standing in for a broken structured
// backend.
type faultyStore struct{}

func (faultyStore) Read(context.Context, string) (*Entry, error) {
	return nil, fmt.Errorf("backend exploded")
}
func (faultyStore) Write(context.Context, Entry) error { return fmt.Errorf("backend exploded") }
func (faultyStore) Close() error                       { return nil }

func newTestTiered(t *testing.T) (*Tiered, *FlatStore) {
	t.Helper()
	fallback, err := NewFlatStore(t.TempDir())
	require.NoError(t, err)
	dbPath := filepath.Join(t.TempDir(), "images.db")
	tiered := NewTiered(func() (Store, error) { return OpenSQLite(dbPath) }, fallback)
	t.Cleanup(func() { _ = tiered.Close() })
	return tiered, fallback
}

func TestTieredSetThenGetRegardlessOfBackend(t *testing.T) {
	ctx := context.Background()
	e := Entry{Key: "photo.png_style_0", FileName: "photo.png", Data: "data:image/png;base64,eA==", Timestamp: 1}

	t.Run("structured available", func(t *testing.T) {
		tiered, _ := newTestTiered(t)
		require.NoError(t, tiered.Write(ctx, e))
		got, err := tiered.Read(ctx, e.Key)
		require.NoError(t, err)
		assert.Equal(t, e.Data, got.Data)
	})

	t.Run("structured unavailable", func(t *testing.T) {
		fallback, err := NewFlatStore(t.TempDir())
		require.NoError(t, err)
		tiered := NewTiered(func() (Store, error) { return nil, fmt.Errorf("no sqlite here") }, fallback)
		defer tiered.Close()

		require.NoError(t, tiered.Write(ctx, e))
		got, err := tiered.Read(ctx, e.Key)
		require.NoError(t, err)
		assert.Equal(t, e.Data, got.Data)
	})
}

func TestTieredRepeatWriteIsIdempotent(t *testing.T) {
	tiered, _ := newTestTiered(t)
	ctx := context.Background()
	e := Entry{Key: "photo.png_style_3", FileName: "photo.png", Style: 3, Data: "data:image/png;base64,eQ=="}

	require.NoError(t, tiered.Write(ctx, e))
	require.NoError(t, tiered.Write(ctx, e))

	got, err := tiered.Read(ctx, e.Key)
	require.NoError(t, err)
	assert.Equal(t, e.Data, got.Data)
}

func TestTieredReopensPreferredOnEveryCall(t *testing.T) {
	fallback, err := NewFlatStore(t.TempDir())
	require.NoError(t, err)

	attempts := 0
	dbPath := filepath.Join(t.TempDir(), "images.db")
	tiered := NewTiered(func() (Store, error) {
		attempts++
		if attempts < 3 {
			return nil, fmt.Errorf("transient failure %d", attempts)
		}
		return OpenSQLite(dbPath)
	}, fallback)
	defer tiered.Close()

	ctx := context.Background()
	// first two calls land on the fallback, third opens the preferred store
	require.NoError(t, tiered.Write(ctx, Entry{Key: "k1", FileName: "a", Data: "d1"}))
	require.NoError(t, tiered.Write(ctx, Entry{Key: "k2", FileName: "b", Data: "d2"}))
	require.NoError(t, tiered.Write(ctx, Entry{Key: "k3", FileName: "c", Data: "d3"}))
	assert.Equal(t, 3, attempts, "open must be re-attempted per call, never latched off")

	// once open, the handle is reused
	require.NoError(t, tiered.Write(ctx, Entry{Key: "k4", FileName: "d", Data: "d4"}))
	assert.Equal(t, 3, attempts)

	// entries written while degraded stay readable through the tiered front
	got, err := tiered.Read(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "d1", got.Data)
}

func TestTieredReadFallsThroughOnPreferredError(t *testing.T) {
	fallback, err := NewFlatStore(t.TempDir())
	require.NoError(t, err)
	tiered := NewTiered(func() (Store, error) { return faultyStore{}, nil }, fallback)
	defer tiered.Close()

	ctx := context.Background()
	e := Entry{Key: "k", FileName: "f", Data: "d"}
	require.NoError(t, tiered.Write(ctx, e), "write must degrade to the fallback")

	got, err := tiered.Read(ctx, "k")
	require.NoError(t, err, "read must degrade to the fallback")
	assert.Equal(t, "d", got.Data)
}

func TestTieredMissIsNotFound(t *testing.T) {
	tiered, _ := newTestTiered(t)
	_, err := tiered.Read(context.Background(), "absent")
	assert.True(t, errors.Is(err, ErrNotFound))
}
