package guestpix

import (
	"strings"
	"sync"
)

// MaxFileSize is the largest accepted selection, in bytes.
const MaxFileSize = 50 << 20

// State is the position of the selection state machine.
type State int

const (
	// StateEmpty means no file is chosen.
	StateEmpty State = iota
	// StateOriginalOnly means a file is chosen and optimize is off.
	StateOriginalOnly
	// StateOptimizing means an optimization is in flight.
	StateOptimizing
	// StateDual means both variants are available; the toggle picks the
	// active one.
	StateDual
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateOriginalOnly:
		return "original-only"
	case StateOptimizing:
		return "optimizing"
	case StateDual:
		return "dual"
	default:
		return "unknown"
	}
}

// SelectedFile is the user's chosen image. It is replaced wholesale on the
// next selection and cleared on successful submission.
type SelectedFile struct {
	Name      string
	MediaType string
	Size      int64
	Data      []byte
}

// Selection tracks which variant of the selected file is active. All derived
// state lives here behind one mutex; there is no package-level mutable state.
//
// Every transition that invalidates in-flight work (new file, style change,
// re-toggle, reset) bumps a generation counter. An asynchronous completion
// must present the generation it was started under; a mismatch means the
// result belongs to a superseded selection and is discarded.
type Selection struct {
	mu        sync.Mutex
	state     State
	file      *SelectedFile
	original  Variant
	optimized *Variant
	style     int
	toggle    bool
	gen       uint64
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{state: StateEmpty}
}

// Select replaces the current file. Validation runs before any state change,
// so a rejected file leaves the prior selection untouched. Success always
// lands in OriginalOnly with all derived optimized state discarded.
func (s *Selection) Select(name, mediaType string, data []byte) error {
	if !strings.HasPrefix(mediaType, "image/") {
		return ErrNotAnImage
	}
	if int64(len(data)) > MaxFileSize {
		return ErrFileTooLarge
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.file = &SelectedFile{
		Name:      name,
		MediaType: mediaType,
		Size:      int64(len(data)),
		Data:      data,
	}
	s.original = Variant{Kind: VariantOriginal, DataURL: EncodeDataURL(mediaType, data)}
	s.optimized = nil
	s.toggle = false
	s.state = StateOriginalOnly
	return nil
}

// File returns the current selection, or nil when empty.
func (s *Selection) File() *SelectedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file
}

// State reports the machine's current position.
func (s *Selection) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Style returns the active style index.
func (s *Selection) Style() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.style
}

// Toggled reports whether the optimize toggle is on.
func (s *Selection) Toggled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toggle
}

// SetStyle changes the active style. The retained optimized variant belongs
// to the previous style and is dropped; a pending optimization is superseded.
func (s *Selection) SetStyle(style int) error {
	if style < 0 {
		return ErrInvalidStyle
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if style == s.style {
		return nil
	}
	s.style = style
	s.gen++
	s.optimized = nil
	if s.state == StateOptimizing || s.state == StateDual {
		s.state = StateOriginalOnly
		s.toggle = false
	}
	return nil
}

// Active returns the variant currently on display.
func (s *Selection) Active() (Variant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return Variant{}, false
	}
	if s.toggle && s.optimized != nil {
		return *s.optimized, true
	}
	return s.original, true
}

// ToggleOff switches the display back to the original. A completed optimized
// variant stays in memory so toggling back on is instantaneous; a pending one
// is superseded outright.
func (s *Selection) ToggleOff() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return
	}
	s.toggle = false
	if s.state == StateOptimizing {
		s.gen++
		s.state = StateOriginalOnly
	}
}

// Reset returns the machine to Empty, superseding anything in flight.
func (s *Selection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.file = nil
	s.original = Variant{}
	s.optimized = nil
	s.toggle = false
	s.style = 0
	s.state = StateEmpty
}

// beginOptimize moves to Optimizing and returns the generation token the
// eventual completion must present, together with a snapshot of the inputs.
// Starting a new attempt supersedes any prior pending one.
func (s *Selection) beginOptimize() (uint64, *SelectedFile, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return 0, nil, 0, ErrNoSelection
	}
	s.gen++
	s.toggle = true
	s.state = StateOptimizing
	return s.gen, s.file, s.style, nil
}

// completeOptimize installs the optimized variant if the token still matches
// the live generation. A stale token means the selection moved on while the
// request was in flight.
func (s *Selection) completeOptimize(token uint64, v Variant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.gen {
		return ErrSuperseded
	}
	s.optimized = &v
	s.toggle = true
	s.state = StateDual
	return nil
}

// failOptimize reverts the toggle after a failed attempt. A superseded
// attempt changes nothing: the selection already moved on.
func (s *Selection) failOptimize(token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.gen {
		return
	}
	s.toggle = false
	s.optimized = nil
	s.state = StateOriginalOnly
}

// toggleOnFromMemory re-activates a retained optimized variant without any
// cache query. Reports whether one was available for the current style.
func (s *Selection) toggleOnFromMemory() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.optimized == nil {
		return false
	}
	s.toggle = true
	s.state = StateDual
	return true
}
