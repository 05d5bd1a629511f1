package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestSQLiteRoundTrip(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "images.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	e := Entry{Key: "photo.png_style_0", FileName: "photo.png", Style: 0, Data: "data:image/png;base64,aGk=", Timestamp: 1700000000000}
	if err := s.Write(ctx, e); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := s.Read(ctx, e.Key)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if *got != e {
		t.Fatalf("entry mismatch: got %+v want %+v", got, e)
	}
}

func TestSQLiteMissReturnsNotFound(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "images.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer s.Close()

	_, err = s.Read(context.Background(), "absent")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteOverwriteIsLastWriteWins(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "images.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	key := "photo.png_style_2"
	first := Entry{Key: key, FileName: "photo.png", Style: 2, Data: "data:image/png;base64,b2xk", Timestamp: 1}
	second := Entry{Key: key, FileName: "photo.png", Style: 2, Data: "data:image/png;base64,bmV3", Timestamp: 2}

	if err := s.Write(ctx, first); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := s.Write(ctx, second); err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, err := s.Read(ctx, key)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Data != second.Data || got.Timestamp != 2 {
		t.Fatalf("expected second write to win, got %+v", got)
	}
}

func TestSQLiteRequiresPath(t *testing.T) {
	if _, err := OpenSQLite("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
