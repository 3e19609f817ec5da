// Package clue defines the Nono and Triano clue variants and the
// capability interface the line and grid solvers use to stay generic
// over which variant a particular puzzle is made of. Grounded on
// mappers.Mapper (a small interface implemented by distinct concrete
// types, dispatched through a shared contract rather than a type switch
// in the hot path).
package clue

import (
	"errors"
	"fmt"

	"github.com/bdwalton/nonogrid/palette"
)

// ErrIllFormedClue is returned by validation helpers when a clue
// violates its variant's invariants (e.g. a zero-count Nono).
var ErrIllFormedClue = errors.New("clue: ill-formed clue")

// Style identifies which concrete Clue variant a Puzzle is made of.
type Style int

const (
	StyleNono Style = iota
	StyleTriano
)

func (s Style) String() string {
	switch s {
	case StyleNono:
		return "nono"
	case StyleTriano:
		return "triano"
	default:
		return fmt.Sprintf("clue.Style(%d)", int(s))
	}
}

// Clue is the common contract the line and grid solvers use to stay
// generic over variant: footprint length, the color occupying a given
// cell of that footprint, and whether two adjacent clues in a lane
// require an explicit background separator between them. It is
// parameterized by the implementing type itself so that MustBeSeparatedFrom
// takes a same-variant neighbor directly, with no runtime type
// assertion — each Puzzle[C] is monomorphic in C and the line/grid
// solvers are instantiated once per variant, per Design Note 1.
type Clue[Self any] interface {
	comparable
	fmt.Stringer

	// Len returns the clue's cell footprint.
	Len() int

	// ColorAt returns the color occupying position idx (0-indexed) of
	// this clue's footprint.
	ColorAt(idx int) palette.Color

	// MustBeSeparatedFrom reports whether this clue and next, placed
	// adjacently in a lane, require at least one background cell
	// between them.
	MustBeSeparatedFrom(next Self) bool
}

// Nono is a single-color run: count cells of color in a row, with no
// internal structure.
type Nono struct {
	Color palette.Color
	Count uint16
}

// Validate reports ErrIllFormedClue if count is zero.
func (n Nono) Validate() error {
	if n.Count == 0 {
		return fmt.Errorf("%w: nono clue has zero count", ErrIllFormedClue)
	}
	return nil
}

func (n Nono) Len() int { return int(n.Count) }

func (n Nono) ColorAt(_ int) palette.Color { return n.Color }

// MustBeSeparatedFrom reports true iff next is also a Nono of the same
// color: two same-colored runs can never be adjacent without a
// background cell between them, or they'd merge into a single run.
func (n Nono) MustBeSeparatedFrom(next Nono) bool {
	return n.Color == next.Color
}

func (n Nono) String() string {
	return fmt.Sprintf("[%d]%d", n.Color, n.Count)
}

// OptColor is a comparable, possibly-absent color: Triano's caps are
// optional, but Clue's type parameter requires the concrete clue types to
// satisfy comparable, which a *Color field would satisfy only by pointer
// identity, not value. Present
// distinguishes "no cap" from a legitimate Background cap.
type OptColor struct {
	Present bool
	Color   palette.Color
}

// Cap builds a present OptColor.
func Cap(c palette.Color) OptColor { return OptColor{Present: true, Color: c} }

// NoCap is the absent-cap sentinel.
var NoCap = OptColor{}

// Triano is a run with an optional front and back cap, each occupying
// exactly one cell, wrapping a run of BodyLen cells of BodyColor.
type Triano struct {
	FrontCap  OptColor
	BodyLen   uint16
	BodyColor palette.Color
	BackCap   OptColor
}

// Validate reports ErrIllFormedClue unless at least one of {FrontCap,
// BodyLen>0, BackCap} is present.
func (tr Triano) Validate() error {
	if !tr.FrontCap.Present && tr.BodyLen == 0 && !tr.BackCap.Present {
		return fmt.Errorf("%w: triano clue has no caps and zero body length", ErrIllFormedClue)
	}
	return nil
}

func (tr Triano) Len() int {
	n := int(tr.BodyLen)
	if tr.FrontCap.Present {
		n++
	}
	if tr.BackCap.Present {
		n++
	}
	return n
}

func (tr Triano) ColorAt(idx int) palette.Color {
	if idx == 0 && tr.FrontCap.Present {
		return tr.FrontCap.Color
	}
	if tr.BackCap.Present && idx == tr.Len()-1 {
		return tr.BackCap.Color
	}
	return tr.BodyColor
}

// MustBeSeparatedFrom implements the Triano separation rule: required
// iff both clues share a body color and the boundary between them has no
// cap on either side (a back cap on this clue or a front cap on next
// would already visually separate the two body runs, so no extra
// background cell is forced).
func (tr Triano) MustBeSeparatedFrom(next Triano) bool {
	return tr.BodyColor == next.BodyColor && !tr.BackCap.Present && !next.FrontCap.Present
}

func (tr Triano) String() string {
	s := ""
	if tr.FrontCap.Present {
		s += fmt.Sprintf("[%d]", tr.FrontCap.Color)
	}
	s += fmt.Sprintf("[%d]%d", tr.BodyColor, tr.BodyLen)
	if tr.BackCap.Present {
		s += fmt.Sprintf("[%d]", tr.BackCap.Color)
	}
	return s
}
