// Package puzzle defines the Puzzle and Solution data model: a clue
// matrix paired with a palette, the partial-solution grid the solvers
// narrow, and conversions between a complete Solution and the Puzzle
// derived from it. Grounded on nesrom's structured, eagerly-validated
// constructor idiom (adapted away from file I/O, since file formats are
// out of scope here).
package puzzle

import (
	"errors"
	"fmt"

	"github.com/bdwalton/nonogrid/cell"
	"github.com/bdwalton/nonogrid/clue"
	"github.com/bdwalton/nonogrid/palette"
)

// ErrIllFormedPuzzle covers empty dimensions, an over-long clue, and a
// clue referencing a color absent from the palette.
var ErrIllFormedPuzzle = errors.New("puzzle: ill-formed puzzle")

// ErrDimensionMismatch is returned when a partial grid's shape doesn't
// match a puzzle's declared row/column count.
var ErrDimensionMismatch = errors.New("puzzle: dimension mismatch")

// Puzzle is a clue matrix over a single clue variant C, plus the palette
// those clues reference. Each Puzzle[C] is monomorphic in C so the line
// and grid solvers can be instantiated once per variant, per Design Note 1.
type Puzzle[C clue.Clue[C]] struct {
	Palette *palette.Palette
	Rows    [][]C // one entry per row, in row order (top to bottom)
	Cols    [][]C // one entry per column, in column order (left to right)
}

// Width returns the number of columns (the length of every row's lane).
func (p *Puzzle[C]) Width() int { return len(p.Cols) }

// Height returns the number of rows (the length of every column's lane).
func (p *Puzzle[C]) Height() int { return len(p.Rows) }

// Validate reports ErrIllFormedPuzzle if the puzzle has empty dimensions,
// a clue whose footprint exceeds its lane's length, or a clue referencing
// a color not present in the palette.
func (p *Puzzle[C]) Validate() error {
	if p.Width() == 0 || p.Height() == 0 {
		return fmt.Errorf("%w: empty dimensions (%d x %d)", ErrIllFormedPuzzle, p.Width(), p.Height())
	}
	if len(p.Rows) != p.Height() {
		return fmt.Errorf("%w: %d row clue vectors for height %d", ErrIllFormedPuzzle, len(p.Rows), p.Height())
	}

	checkLane := func(clues []C, laneLen int, kind string, idx int) error {
		total := 0
		for _, c := range clues {
			if c.Len() > laneLen {
				return fmt.Errorf("%w: %s %d clue %v (length %d) exceeds lane length %d", ErrIllFormedPuzzle, kind, idx, c, c.Len(), laneLen)
			}
			total += c.Len()
			for i := 0; i < c.Len(); i++ {
				if _, ok := p.Palette.Get(c.ColorAt(i)); !ok {
					return fmt.Errorf("%w: %s %d clue %v references unknown color %d", ErrIllFormedPuzzle, kind, idx, c, c.ColorAt(i))
				}
			}
		}
		return nil
	}

	for y, rc := range p.Rows {
		if err := checkLane(rc, p.Width(), "row", y); err != nil {
			return err
		}
	}
	for x, cc := range p.Cols {
		if err := checkLane(cc, p.Height(), "column", x); err != nil {
			return err
		}
	}

	return nil
}

// PartialGrid is the mutable possibility grid the line and grid solvers
// narrow, indexed [row][col].
type PartialGrid [][]cell.Cell

// NewPartialGrid returns a PartialGrid of the given dimensions where
// every cell could be any color in p's palette.
func NewPartialGrid[C clue.Clue[C]](p *Puzzle[C]) PartialGrid {
	g := make(PartialGrid, p.Height())
	for y := range g {
		g[y] = make([]cell.Cell, p.Width())
		for x := range g[y] {
			g[y][x] = cell.New(p.Palette)
		}
	}
	return g
}

// Solution is a fully-specified grid of colors: the ground truth a
// Puzzle's clues are derived from, or the target a solve is checked
// against.
type Solution struct {
	ClueStyle clue.Style
	Palette   *palette.Palette
	// Grid is indexed [row][col]; palette.Unsolved marks a cell the
	// caller intentionally left open (used when seeding a partial solve).
	Grid [][]palette.Color
}

// Width returns the number of columns.
func (s *Solution) Width() int {
	if len(s.Grid) == 0 {
		return 0
	}
	return len(s.Grid[0])
}

// Height returns the number of rows.
func (s *Solution) Height() int { return len(s.Grid) }

// ToPartial converts a Solution into a PartialGrid: a palette.Unsolved
// cell becomes fully unconstrained, every other cell becomes known to be
// exactly that color.
func (s *Solution) ToPartial() PartialGrid {
	g := make(PartialGrid, s.Height())
	for y := range g {
		g[y] = make([]cell.Cell, s.Width())
		for x := range g[y] {
			color := s.Grid[y][x]
			if color == palette.Unsolved {
				g[y][x] = cell.New(s.Palette)
			} else {
				g[y][x] = cell.FromColor(color)
			}
		}
	}
	return g
}

// SolutionToPuzzle derives the Nono clue vectors (maximal runs of a
// single non-Background color) for every row and column of a Solution.
// Ported from original_source/src/import.rs's solution_to_puzzle.
func SolutionToPuzzle(s *Solution) (*Puzzle[clue.Nono], error) {
	if s.Height() == 0 || s.Width() == 0 {
		return nil, fmt.Errorf("%w: empty solution", ErrIllFormedPuzzle)
	}

	rows := make([][]clue.Nono, s.Height())
	for y := 0; y < s.Height(); y++ {
		rows[y] = nonoRuns(func(x int) palette.Color { return s.Grid[y][x] }, s.Width())
	}

	cols := make([][]clue.Nono, s.Width())
	for x := 0; x < s.Width(); x++ {
		cols[x] = nonoRuns(func(y int) palette.Color { return s.Grid[y][x] }, s.Height())
	}

	p := &Puzzle[clue.Nono]{Palette: s.Palette, Rows: rows, Cols: cols}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// nonoRuns scans a lane of length n via at(i) and returns one Nono clue
// per maximal run of a single non-Background color.
func nonoRuns(at func(int) palette.Color, n int) []clue.Nono {
	var clues []clue.Nono
	run := 0
	var cur palette.Color
	haveRun := false

	flush := func() {
		if haveRun && cur != palette.Background {
			clues = append(clues, clue.Nono{Color: cur, Count: uint16(run)})
		}
		haveRun = false
		run = 0
	}

	for i := 0; i < n; i++ {
		color := at(i)
		if haveRun && color == cur {
			run++
			continue
		}
		flush()
		cur = color
		run = 1
		haveRun = true
	}
	flush()

	return clues
}

// SolutionToTrianoPuzzle derives the Triano clue vectors for every row
// and column of a Solution, treating a corner-variant cell as a front or
// back cap depending on which half of the diagonal it occupies. Ported
// from original_source/src/import.rs's solution_to_triano_puzzle.
func SolutionToTrianoPuzzle(s *Solution) (*Puzzle[clue.Triano], error) {
	if s.Height() == 0 || s.Width() == 0 {
		return nil, fmt.Errorf("%w: empty solution", ErrIllFormedPuzzle)
	}

	rows := make([][]clue.Triano, s.Height())
	for y := 0; y < s.Height(); y++ {
		rows[y] = trianoRuns(s, func(x int) palette.Color { return s.Grid[y][x] }, s.Width(), false)
	}

	cols := make([][]clue.Triano, s.Width())
	for x := 0; x < s.Width(); x++ {
		cols[x] = trianoRuns(s, func(y int) palette.Color { return s.Grid[y][x] }, s.Height(), true)
	}

	p := &Puzzle[clue.Triano]{Palette: s.Palette, Rows: rows, Cols: cols}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

var blankTriano = clue.Triano{}

// trianoRuns scans a lane via at(i). A corner cell whose leading half
// (Left for a row lane, Upper for a column lane) is not the solid one
// starts a new clue as its front cap; a corner cell whose leading half is
// solid becomes the back cap and closes the current clue immediately.
func trianoRuns(s *Solution, at func(int) palette.Color, n int, column bool) []clue.Triano {
	var clues []clue.Triano
	cur := blankTriano

	isFrontCap := func(info palette.Info) bool {
		if info.Corner == nil {
			return false
		}
		if column {
			return !info.Corner.Upper
		}
		return !info.Corner.Left
	}
	isBackCap := func(info palette.Info) bool {
		if info.Corner == nil {
			return false
		}
		if column {
			return info.Corner.Upper
		}
		return info.Corner.Left
	}

	for i := 0; i < n; i++ {
		color := at(i)
		info, _ := s.Palette.Get(color)

		switch {
		case isFrontCap(info):
			if cur != blankTriano {
				clues = append(clues, cur)
				cur = blankTriano
			}
			cur.FrontCap = clue.Cap(color)
		case isBackCap(info):
			cur.BackCap = clue.Cap(color)
			clues = append(clues, cur)
			cur = blankTriano
		case color == palette.Background:
			if cur != blankTriano {
				clues = append(clues, cur)
				cur = blankTriano
			}
		default:
			if cur.BodyColor != palette.Background && cur.BodyColor != color {
				clues = append(clues, cur)
				cur = blankTriano
			}
			cur.BodyColor = color
			cur.BodyLen++
		}
	}
	if cur != blankTriano {
		clues = append(clues, cur)
	}

	return clues
}
