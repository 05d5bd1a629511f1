// Package styles holds the fixed catalog of optimization styles. The client
// addresses styles by index only; the prompt text stays server-side.
package styles

import "fmt"

// Style is one entry in the catalog.
type Style struct {
	Index  int
	Name   string
	Prompt string
}

var catalog = []Style{
	{0, "Classic", "Enhance this wedding photo with soft, timeless tones, gentle contrast and natural skin colors. Keep every person and detail exactly as they are."},
	{1, "Golden Hour", "Re-light this wedding photo with warm golden-hour sunlight, soft glow and long shadows. Keep every person and detail exactly as they are."},
	{2, "Black & White", "Convert this wedding photo to an elegant fine-art black and white with rich mid-tones and deep blacks. Keep every person and detail exactly as they are."},
	{3, "Film", "Give this wedding photo the look of analog 35mm film: subtle grain, muted greens, lifted blacks. Keep every person and detail exactly as they are."},
	{4, "Watercolor", "Render this wedding photo as a delicate watercolor painting with soft edges and pastel washes, preserving the composition and the people in it."},
}

// All returns a copy of the catalog in index order.
func All() []Style {
	out := make([]Style, len(catalog))
	copy(out, catalog)
	return out
}

// Count returns the catalog size.
func Count() int { return len(catalog) }

// Get returns the style at index.
func Get(index int) (Style, error) {
	if index < 0 || index >= len(catalog) {
		return Style{}, fmt.Errorf("style index %d out of range [0,%d)", index, len(catalog))
	}
	return catalog[index], nil
}

// Validate reports whether index addresses a catalog entry.
func Validate(index int) error {
	_, err := Get(index)
	return err
}
