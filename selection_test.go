package guestpix_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/guestpix/guestpix"
)

func TestSelectRejectsNonImage(t *testing.T) {
	sel := guestpix.NewSelection()
	err := sel.Select("notes.txt", "text/plain", []byte("hello"))
	if !errors.Is(err, guestpix.ErrNotAnImage) {
		t.Fatalf("expected ErrNotAnImage, got %v", err)
	}
	if sel.State() != guestpix.StateEmpty {
		t.Fatalf("rejected selection must not change state, got %v", sel.State())
	}
}

func TestSelectRejectsOversizedFileAndKeepsPriorState(t *testing.T) {
	sel := guestpix.NewSelection()
	if err := sel.Select("small.png", "image/png", []byte{1, 2, 3}); err != nil {
		t.Fatalf("select: %v", err)
	}

	huge := bytes.Repeat([]byte{0}, guestpix.MaxFileSize+1)
	err := sel.Select("huge.png", "image/png", huge)
	if !errors.Is(err, guestpix.ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}

	// prior selection untouched
	if sel.State() != guestpix.StateOriginalOnly {
		t.Fatalf("state changed on rejection: %v", sel.State())
	}
	if f := sel.File(); f == nil || f.Name != "small.png" {
		t.Fatalf("prior file lost: %+v", f)
	}
}

func TestSelectEntersOriginalOnlyAndDerivesOriginal(t *testing.T) {
	sel := guestpix.NewSelection()
	data := []byte{0x89, 0x50, 0x4e, 0x47}
	if err := sel.Select("photo.png", "image/png", data); err != nil {
		t.Fatalf("select: %v", err)
	}

	if sel.State() != guestpix.StateOriginalOnly {
		t.Fatalf("expected OriginalOnly, got %v", sel.State())
	}
	v, ok := sel.Active()
	if !ok || v.Kind != guestpix.VariantOriginal {
		t.Fatalf("expected original on display, got %+v ok=%v", v, ok)
	}
	wantURL := guestpix.EncodeDataURL("image/png", data)
	if v.DataURL != wantURL {
		t.Fatalf("original data URL mismatch")
	}
}

func TestSetStyleRejectsNegativeIndex(t *testing.T) {
	sel := guestpix.NewSelection()
	if err := sel.SetStyle(-1); !errors.Is(err, guestpix.ErrInvalidStyle) {
		t.Fatalf("expected ErrInvalidStyle, got %v", err)
	}
}

func TestEmptySelectionHasNoActiveVariant(t *testing.T) {
	sel := guestpix.NewSelection()
	if _, ok := sel.Active(); ok {
		t.Fatal("empty selection must not report an active variant")
	}
}

func TestDataURLRoundTrip(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	url := guestpix.EncodeDataURL("image/jpeg", data)

	mediaType, got, err := guestpix.DecodeDataURL(url)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if mediaType != "image/jpeg" || !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: %q %v", mediaType, got)
	}

	if _, _, err := guestpix.DecodeDataURL("http://example.com/x.png"); err == nil {
		t.Fatal("expected error for non data URL")
	}
}
