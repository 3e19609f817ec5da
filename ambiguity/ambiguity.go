// Package ambiguity scores each cell of an already-solved-as-far-as-
// possible grid by how much re-solving would be narrowed if that cell
// turned out to be a different color than the one the constraint
// propagation settled on. It runs cooperatively: callers drive it with a
// context.Context for cancellation, following the Run/BIOS idiom of
// console.Bus, and optionally read progress off a channel.
package ambiguity

import (
	"context"
	"fmt"

	"github.com/bdwalton/nonogrid/clue"
	"github.com/bdwalton/nonogrid/grid"
	"github.com/bdwalton/nonogrid/palette"
	"github.com/bdwalton/nonogrid/puzzle"
)

// Candidate is the most promising alternate color for a single cell, and
// how much solving the grid with that substitution would narrow it
// relative to the original: 0 means "fully resolves the puzzle", 1 means
// "no better than leaving the cell as-is".
type Candidate struct {
	Color palette.Color
	Score float64
}

// DeriveFunc rebuilds a C-style Puzzle's clues from a Solution. Passed in
// rather than dispatched on Solution.ClueStyle so the hot re-solve loop
// below stays monomorphic in C, per Design Note 1.
type DeriveFunc[C clue.Clue[C]] func(*puzzle.Solution) (*puzzle.Puzzle[C], error)

// defaultProgressInterval matches the reference implementation's "send
// progress every 5th cell" cadence.
const defaultProgressInterval = 5

// Options tunes a Scores run.
type Options struct {
	// ProgressInterval is how many cells elapse between progress
	// sends. Zero means defaultProgressInterval.
	ProgressInterval int
}

func (o Options) interval() int {
	if o.ProgressInterval > 0 {
		return o.ProgressInterval
	}
	return defaultProgressInterval
}

// Scores computes one Candidate per cell of sol. It reports progress in
// [0, 1] on progress (if non-nil; sends are best-effort and dropped if
// the channel isn't being drained) and checks ctx for cancellation
// between cells, returning whatever has been computed so far — a
// cancelled scan is not an error, matching SPEC_FULL.md §7's "Cancelled"
// kind.
func Scores[C clue.Clue[C]](ctx context.Context, sol *puzzle.Solution, derive DeriveFunc[C], progress chan<- float64, opts Options) ([][]Candidate, error) {
	if sol.Height() == 0 || sol.Width() == 0 {
		return nil, fmt.Errorf("%w: empty solution", puzzle.ErrIllFormedPuzzle)
	}

	origPuzzle, err := derive(sol)
	if err != nil {
		return nil, err
	}
	origReport, err := grid.Solve[C](origPuzzle, nil, grid.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("scoring a starting solution produced a contradiction: %w", err)
	}

	res := make([][]Candidate, sol.Height())
	for y := range res {
		res[y] = make([]Candidate, sol.Width())
	}

	if origReport.CellsLeft == 0 {
		sendProgress(progress, 0)
		return res, nil
	}

	cache := grid.NewLineCache[C]()
	total := sol.Height() * sol.Width()
	done := 0
	interval := opts.interval()

	for y := 0; y < sol.Height(); y++ {
		for x := 0; x < sol.Width(); x++ {
			best := Candidate{Color: palette.Background, Score: 1}
			bestCellsLeft := -1

			for _, color := range sol.Palette.Colors() {
				if color == sol.Grid[y][x] {
					continue
				}

				trial := cloneSolution(sol)
				trial.Grid[y][x] = color

				trialPuzzle, err := derive(&trial)
				if err != nil {
					continue // this substitution isn't a well-formed puzzle; skip it
				}
				report, err := grid.Solve[C](trialPuzzle, cache, grid.DefaultOptions())
				if err != nil {
					continue // substitution makes the puzzle unsatisfiable; not a candidate
				}

				if bestCellsLeft < 0 || report.CellsLeft < bestCellsLeft {
					bestCellsLeft = report.CellsLeft
					best = Candidate{Color: color, Score: float64(report.CellsLeft) / float64(origReport.CellsLeft)}
				}
			}

			res[y][x] = best
			done++

			if done%interval == 0 {
				sendProgress(progress, float64(done)/float64(total))
			}

			select {
			case <-ctx.Done():
				return res, nil
			default:
			}
		}
	}

	sendProgress(progress, 1)
	return res, nil
}

func sendProgress(progress chan<- float64, v float64) {
	if progress == nil {
		return
	}
	select {
	case progress <- v:
	default:
	}
}

func cloneSolution(s *puzzle.Solution) puzzle.Solution {
	grid := make([][]palette.Color, len(s.Grid))
	for y, row := range s.Grid {
		grid[y] = append([]palette.Color(nil), row...)
	}
	return puzzle.Solution{ClueStyle: s.ClueStyle, Palette: s.Palette, Grid: grid}
}
