// Package cell implements the per-square possibility bitmask that the
// line and grid solvers narrow as they deduce information about a
// puzzle. A Cell tracks, as a single uint32, which palette colors a
// square could still turn out to be.
package cell

import (
	"errors"
	"math/bits"

	"github.com/bdwalton/nonogrid/palette"
)

// ErrContradiction is returned whenever an operation would leave a Cell
// with no possible colors at all.
var ErrContradiction = errors.New("cell: learned a contradiction")

// Cell is a bitmask over palette.Color values: bit i set means the cell
// could still be color i. Grounded on ppu.loopy's mask/shift idiom
// (get/set pairs operating on a single packed integer), generalized from
// a fixed field layout to one bit per color.
type Cell struct {
	mask uint32
}

// New returns a Cell that could be any color in p.
func New(p *palette.Palette) Cell {
	var m uint32
	for _, c := range p.Colors() {
		m |= 1 << uint(c)
	}
	return Cell{mask: m}
}

// Anything returns a Cell unconstrained by any particular palette (every
// bit set), for use where no palette is in scope.
func Anything() Cell {
	return Cell{mask: ^uint32(0)}
}

// Impossible returns a Cell with no possible colors. Never valid inside a
// solved or solving grid; useful as an accumulator for FromColors.
func Impossible() Cell {
	return Cell{}
}

// FromColors returns a Cell that could be any of colors.
func FromColors(colors ...palette.Color) Cell {
	c := Impossible()
	for _, col := range colors {
		c.admit(col)
	}
	return c
}

// FromColor returns a Cell that is known to be exactly color.
func FromColor(color palette.Color) Cell {
	return Cell{mask: 1 << uint(color)}
}

// Raw returns the underlying bitmask, e.g. for cache-key hashing.
func (c Cell) Raw() uint32 {
	return c.mask
}

// FromRaw reconstructs a Cell from a previously-captured Raw mask.
func FromRaw(mask uint32) Cell {
	return Cell{mask: mask}
}

// IsKnown reports whether exactly one color remains possible.
func (c Cell) IsKnown() bool {
	return c.mask != 0 && c.mask&(c.mask-1) == 0
}

// IsKnownToBe reports whether color is the only remaining possibility.
func (c Cell) IsKnownToBe(color palette.Color) bool {
	return c.mask == 1<<uint(color)
}

// CanBe reports whether color is still among the possibilities.
func (c Cell) CanBe(color palette.Color) bool {
	return c.mask&(1<<uint(color)) != 0
}

// CanBeIter returns every color still possible, in ascending order.
func (c Cell) CanBeIter() []palette.Color {
	var out []palette.Color
	m := c.mask
	for m != 0 {
		i := bits.TrailingZeros32(m)
		out = append(out, palette.Color(i))
		m &^= 1 << uint(i)
	}
	return out
}

// KnownOr returns the single known color and true, or the zero value and
// false if the cell is not yet known.
func (c Cell) KnownOr() (palette.Color, bool) {
	if !c.IsKnown() {
		return 0, false
	}
	return palette.Color(bits.TrailingZeros32(c.mask)), true
}

// Contradictory reports whether no color remains possible.
func (c Cell) Contradictory() bool {
	return c.mask == 0
}

// Learn narrows c to exactly color, returning whether this discovered
// new information (the cell wasn't already known), or ErrContradiction if
// color was already ruled out.
func (c *Cell) Learn(color palette.Color) (bool, error) {
	if !c.CanBe(color) {
		return false, ErrContradiction
	}
	wasKnown := c.IsKnown()
	c.mask = 1 << uint(color)
	return !wasKnown, nil
}

// LearnIntersect narrows c to the intersection of its own possibilities
// with possible's, returning whether this changed c, or ErrContradiction
// if the intersection is empty.
func (c *Cell) LearnIntersect(possible Cell) (bool, error) {
	if c.mask&possible.mask == 0 {
		return false, ErrContradiction
	}
	orig := c.mask
	c.mask &= possible.mask
	return c.mask != orig, nil
}

// LearnThatNot rules color out, returning whether this discovered new
// information, or ErrContradiction if color was the only remaining
// possibility.
func (c *Cell) LearnThatNot(color palette.Color) (bool, error) {
	if c.IsKnownToBe(color) {
		return false, ErrContradiction
	}
	wasRuledOut := !c.CanBe(color)
	c.mask &^= 1 << uint(color)
	return !wasRuledOut, nil
}

// admit adds color to the possibility set without validating anything;
// only meaningful while building up a Cell via FromColors.
func (c *Cell) admit(color palette.Color) {
	c.mask |= 1 << uint(color)
}

// UnwrapColor panics if c is not known; callers must check IsKnown (or
// use KnownOr) first. Mirrors the teacher's reservation of panics for
// caller-contract violations, never user-reachable error paths.
func (c Cell) UnwrapColor() palette.Color {
	color, ok := c.KnownOr()
	if !ok {
		panic("cell: UnwrapColor called on a cell that is not known")
	}
	return color
}
