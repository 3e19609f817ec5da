// Package palette implements the color table shared by a puzzle's clues
// and cells: a small, dense set of named colors plus the reserved
// Background and Unsolved sentinels.
package palette

import (
	"errors"
	"fmt"
)

// Color is a palette index. 0 is always Background; 255 is reserved for
// Unsolved (used only when rendering a Solution, never inside a Cell).
type Color uint8

const (
	Background Color = 0
	Unsolved   Color = 255
)

// MaxColors bounds how many distinct foreground colors a Cell's bitmask
// can track (one bit per color, plus Background, in a uint32).
const MaxColors = 31

var (
	// ErrTooManyColors is returned when a palette would overflow the
	// bitmask a Cell uses to track per-color possibility.
	ErrTooManyColors = errors.New("palette: too many colors for a bitmask cell")
	// ErrDuplicateColor is returned when the same Color is registered
	// twice.
	ErrDuplicateColor = errors.New("palette: duplicate color identity")
	// ErrSimilarColors flags a palette whose colors are likely to be
	// visually indistinguishable; callers may downgrade to a warning.
	ErrSimilarColors = errors.New("palette: colors are very similar")
)

// Corner marks a half-square used by Triano clues: which side of the
// diagonal is solid.
type Corner struct {
	Upper bool
	Left  bool
}

// Info describes one color entry in a Palette.
type Info struct {
	Ch     rune
	Name   string
	RGB    [3]uint8
	Color  Color
	Corner *Corner // nil unless this entry is a corner variant
}

// DefaultBackground returns the conventional Background entry.
func DefaultBackground() Info {
	return Info{Ch: ' ', Name: "white", RGB: [3]uint8{255, 255, 255}, Color: Background}
}

// Palette is the full set of colors a puzzle's clues may reference,
// keyed by Color for O(1) lookup during solving.
type Palette struct {
	entries map[Color]Info
	order   []Color // insertion order, for stable iteration/rendering
}

// New builds a Palette from entries and validates it per the invariant
// that two colors may only share RGB when they are distinguished by being
// corner variants of each other.
func New(entries []Info) (*Palette, error) {
	if len(entries) > MaxColors+1 {
		return nil, fmt.Errorf("%w: got %d colors, max is %d", ErrTooManyColors, len(entries), MaxColors+1)
	}

	p := &Palette{entries: make(map[Color]Info, len(entries))}
	for _, e := range entries {
		if _, ok := p.entries[e.Color]; ok {
			return nil, fmt.Errorf("palette: color %d registered twice: %w", e.Color, ErrDuplicateColor)
		}
		p.entries[e.Color] = e
		p.order = append(p.order, e.Color)
	}

	if err := p.validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// validate checks every unordered pair of entries for near-duplicate RGB
// values, tolerating a collision only when the two colors are corner
// variants (same RGB, different Corner) of one another.
func (p *Palette) validate() error {
	for i := 0; i < len(p.order); i++ {
		a := p.entries[p.order[i]]
		for j := i + 1; j < len(p.order); j++ {
			b := p.entries[p.order[j]]

			sameRGB := a.RGB == b.RGB
			cornerPair := (a.Corner == nil) != (b.Corner == nil) || (a.Corner != nil && b.Corner != nil && *a.Corner != *b.Corner)
			if sameRGB && cornerPair {
				continue // corners may legitimately share a color
			}

			if dist := manhattan(a.RGB, b.RGB); dist < 30 {
				return fmt.Errorf("%w: %q and %q (distance %d)", ErrSimilarColors, a.Name, b.Name, dist)
			}
		}
	}
	return nil
}

func manhattan(a, b [3]uint8) int {
	d := 0
	for i := range a {
		if a[i] > b[i] {
			d += int(a[i] - b[i])
		} else {
			d += int(b[i] - a[i])
		}
	}
	return d
}

// Get returns the Info for a Color and whether it exists in the palette.
func (p *Palette) Get(c Color) (Info, bool) {
	info, ok := p.entries[c]
	return info, ok
}

// Colors returns every Color in the palette, in registration order.
func (p *Palette) Colors() []Color {
	out := make([]Color, len(p.order))
	copy(out, p.order)
	return out
}

// Len returns the number of colors in the palette, including Background.
func (p *Palette) Len() int {
	return len(p.order)
}
