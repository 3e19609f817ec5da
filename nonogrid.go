// Package nonogrid is the external-interface facade over the grid
// solver, line solver, and ambiguity scorer: Solve, SolveFromPartial,
// AnalyzeLines, SettleSolution, and AmbiguityScores. Grounded on
// deepteams-webp's root-facade-plus-cmd/-entrypoint convention: the
// teacher itself is an application (its root package is main), so a
// library facade belongs at the module root with the application moved
// to cmd/.
package nonogrid

import (
	"context"

	"github.com/bdwalton/nonogrid/ambiguity"
	"github.com/bdwalton/nonogrid/clue"
	"github.com/bdwalton/nonogrid/grid"
	"github.com/bdwalton/nonogrid/puzzle"
)

// Mode re-exports grid.Mode so callers never need to import the grid
// package directly for common usage.
type Mode = grid.Mode

const (
	Skim  = grid.Skim
	Scrub = grid.Scrub
)

// Options re-exports grid.Options.
type Options = grid.Options

// DefaultOptions re-exports grid.DefaultOptions.
func DefaultOptions() Options { return grid.DefaultOptions() }

// Report re-exports grid.Report.
type Report = grid.Report

// LineCache re-exports grid.LineCache, parameterized over a clue
// variant, so repeated Solve calls against the same puzzle shape can
// share Scrub results across invocations.
type LineCache[C clue.Clue[C]] = grid.LineCache[C]

// NewLineCache re-exports grid.NewLineCache.
func NewLineCache[C clue.Clue[C]]() *LineCache[C] { return grid.NewLineCache[C]() }

// Solve runs a grid solve from a fully-unconstrained partial grid.
func Solve[C clue.Clue[C]](p *puzzle.Puzzle[C], cache *LineCache[C], options Options) (Report, error) {
	return grid.Solve[C](p, cache, options)
}

// SolveFromPartial runs a grid solve starting from a caller-seeded
// partial grid, mutating it in place.
func SolveFromPartial[C clue.Clue[C]](p *puzzle.Puzzle[C], cache *LineCache[C], options Options, g puzzle.PartialGrid) (Report, error) {
	return grid.SolveFromPartial[C](p, cache, options, g)
}

// SettleSolution runs the scheduler to a fixed point over g without
// producing a report, matching original_source/src/puzzle.rs's
// settle_solution.
func SettleSolution[C clue.Clue[C]](p *puzzle.Puzzle[C], g puzzle.PartialGrid) error {
	return grid.SettleSolution[C](p, g)
}

// LineStatus re-exports grid.LineStatus.
type LineStatus = grid.LineStatus

// AnalyzeLines reports, for every row then every column of g, what kind
// of deduction (if any) is still available without mutating g.
func AnalyzeLines[C clue.Clue[C]](p *puzzle.Puzzle[C], g puzzle.PartialGrid) (rows, cols []LineStatus) {
	return grid.AnalyzeLines[C](p, g)
}

// Candidate re-exports ambiguity.Candidate.
type Candidate = ambiguity.Candidate

// AmbiguityOptions re-exports ambiguity.Options.
type AmbiguityOptions = ambiguity.Options

// AmbiguityScores scores every cell of sol by how much re-solving would
// narrow if that cell turned out to be a different color, cooperatively
// honoring ctx for cancellation. derive rebuilds a Puzzle[C] from a
// Solution (puzzle.SolutionToPuzzle or puzzle.SolutionToTrianoPuzzle,
// depending on which clue style sol was authored in).
func AmbiguityScores[C clue.Clue[C]](ctx context.Context, sol *puzzle.Solution, derive ambiguity.DeriveFunc[C], progress chan<- float64, opts AmbiguityOptions) ([][]Candidate, error) {
	return ambiguity.Scores[C](ctx, sol, derive, progress, opts)
}
