// Package grid implements the round-robin lane scheduler that drives the
// line solver to a fixed point over an entire puzzle: SolveFromPartial picks
// the most promising (lane, mode) pair, invokes Skim or Scrub, propagates
// newly-known cells to intersecting lanes, and repeats until the grid is
// fully known or no lane can make further progress. Grounded on
// console.Bus.Run's cooperative tick loop (the mode ladder plays the role
// of the tick cadence) and console.machine.BIOS's breakpoint-driven
// stepping idiom.
package grid

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bdwalton/nonogrid/cell"
	"github.com/bdwalton/nonogrid/clue"
	"github.com/bdwalton/nonogrid/line"
	"github.com/bdwalton/nonogrid/palette"
	"github.com/bdwalton/nonogrid/puzzle"
)

// ErrContradiction is the fatal error a grid solve surfaces when the
// line solver finds the partial grid inconsistent with its clues.
// line.ErrUnsatisfiableLine wraps it, so both cell- and line-level
// contradictions match errors.Is(err, ErrContradiction).
var ErrContradiction = cell.ErrContradiction

// Mode is one of the two escalating deduction routines the scheduler
// chooses between.
type Mode int

const (
	Skim Mode = iota
	Scrub
	numModes
)

func (m Mode) String() string {
	switch m {
	case Skim:
		return "skim"
	case Scrub:
		return "scrub"
	default:
		return fmt.Sprintf("grid.Mode(%d)", int(m))
	}
}

// modes returns the two modes in easy-to-hard order.
func modes() []Mode { return []Mode{Skim, Scrub} }

// skimBudget is the number of consecutive zero-progress Skim
// invocations tolerated before escalating to Scrub. Tunable — see
// SPEC_FULL.md §10.4.
const skimBudget = 10

// Options configures a solve.
type Options struct {
	TraceSolve      bool
	DisplayProgress bool
	OnlySolveColor  *palette.Color
	MaxEffort       Mode

	// SkimBudget overrides the number of consecutive zero-progress
	// Skim invocations tolerated before escalating to Scrub. Zero
	// means "use the documented default" (skimBudget).
	SkimBudget int

	// Logger receives one Info-level line per lane invocation when
	// TraceSolve is set. A nil Logger disables tracing regardless of
	// TraceSolve.
	Logger *zap.Logger
}

func (o Options) skimBudget() int {
	if o.SkimBudget > 0 {
		return o.SkimBudget
	}
	return skimBudget
}

// DefaultOptions matches the reference implementation's default: no
// tracing, and escalate all the way to Scrub.
func DefaultOptions() Options {
	return Options{MaxEffort: Scrub}
}

// LaneKey identifies a single row or column lane.
type LaneKey struct {
	Row   bool
	Index int
}

func (k LaneKey) String() string {
	if k.Row {
		return fmt.Sprintf("row[%d]", k.Index)
	}
	return fmt.Sprintf("col[%d]", k.Index)
}

// Report summarizes one solve invocation.
type Report struct {
	SolveCounts map[Mode]int
	CellsLeft   int
	Solution    puzzle.Solution
	SolvedMask  [][]bool

	// LaneInvocations counts how many times each lane was actually
	// processed (cache hits and misses both count); see SPEC_FULL.md
	// §12. Enrichment beyond the aggregate SolveCounts, useful for
	// --trace-solve.
	LaneInvocations map[LaneKey]int
}

type perModeState struct {
	processed      bool
	score          int
	processedScore int
}

type laneState[C clue.Clue[C]] struct {
	key   LaneKey
	clues []C
	mode  [numModes]perModeState
}

// effectiveScore implements "has anything changed since this lane was
// last processed" without a separate dirty flag.
func (ls *laneState[C]) effectiveScore(m Mode) int {
	return ls.mode[m].score - ls.mode[m].processedScore
}

func (ls *laneState[C]) rescore(lane []cell.Cell, wasProcessed Mode, didProcess bool) {
	allKnown := true
	for _, c := range lane {
		if !c.IsKnown() {
			allKnown = false
			break
		}
	}
	if allKnown {
		for m := range ls.mode {
			ls.mode[m].score = minInt
		}
		return
	}
	for _, m := range modes() {
		if didProcess && m == wasProcessed {
			ls.mode[m].processedScore = ls.mode[m].score
		}
		switch m {
		case Skim:
			ls.mode[m].score = line.SkimHeuristic(ls.clues, lane)
		case Scrub:
			ls.mode[m].score = line.ScrubHeuristic(ls.clues, lane)
		}
	}
}

const minInt = -int(^uint(0)>>1) - 1

// lanes builds the initial LaneState set: every row, then every column.
func lanes[C clue.Clue[C]](p *puzzle.Puzzle[C]) []*laneState[C] {
	out := make([]*laneState[C], 0, p.Height()+p.Width())
	for y, rc := range p.Rows {
		out = append(out, &laneState[C]{key: LaneKey{Row: true, Index: y}, clues: rc})
	}
	for x, cc := range p.Cols {
		out = append(out, &laneState[C]{key: LaneKey{Row: false, Index: x}, clues: cc})
	}
	return out
}

func findByKey[C clue.Clue[C]](ls []*laneState[C], key LaneKey) *laneState[C] {
	for _, l := range ls {
		if l.key == key {
			return l
		}
	}
	return nil
}

// findBestLane scans for the lane with the highest effective score for
// mode among lanes not yet processed under that mode. Linear scan, not a
// heap: the lane count is small (rows+cols) and scores change on nearly
// every propagation, per Design Note "Scheduler as scored priority".
func findBestLane[C clue.Clue[C]](ls []*laneState[C], m Mode) *laneState[C] {
	var best *laneState[C]
	bestScore := minInt
	for _, l := range ls {
		if l.mode[m].processed {
			continue
		}
		if best == nil || l.effectiveScore(m) > bestScore {
			best = l
			bestScore = l.effectiveScore(m)
		}
	}
	return best
}

func getLane(g puzzle.PartialGrid, key LaneKey) []cell.Cell {
	if key.Row {
		return g[key.Index]
	}
	col := make([]cell.Cell, len(g))
	for y := range g {
		col[y] = g[y][key.Index]
	}
	return col
}

func putLane(g puzzle.PartialGrid, key LaneKey, lane []cell.Cell) {
	if key.Row {
		return // getLane returned the live backing slice; already mutated.
	}
	for y := range g {
		g[y][key.Index] = lane[y]
	}
}

// LineCache memoizes Scrub invocations (the expensive routine) keyed by
// the clue vector and the lane's cell-mask snapshot, per §4.4. Sourced
// from the y3owk1n-neru manifest's use of xxhash for a non-string cache
// key: Cell values aren't comparable as a Go map key once a lane is
// long-ish, and concatenating them into a string key would pressure the
// allocator on every scheduler tick.
type LineCache[C clue.Clue[C]] struct {
	entries map[uint64]cacheEntry
}

type cacheEntry struct {
	affected []int
	values   []cell.Cell // lane[idx] after the operation, for each affected idx
}

// NewLineCache returns an empty cache.
func NewLineCache[C clue.Clue[C]]() *LineCache[C] {
	return &LineCache[C]{entries: make(map[uint64]cacheEntry)}
}

func cacheKey[C clue.Clue[C]](clues []C, lane []cell.Cell) uint64 {
	h := xxhash.New()
	for _, c := range clues {
		fmt.Fprintf(h, "%s;", c)
	}
	h.Write([]byte{0})
	buf := make([]byte, 4)
	for _, c := range lane {
		binary.LittleEndian.PutUint32(buf, c.Raw())
		h.Write(buf)
	}
	return h.Sum64()
}

// scrubOrCache runs Scrub against lane, consulting/populating cache if
// non-nil. The returned bool reports whether this was a cache hit, for
// --trace-solve.
func scrubOrCache[C clue.Clue[C]](clues []C, lane []cell.Cell, cache *LineCache[C]) (line.Report, bool, error) {
	if cache == nil {
		report, err := line.Scrub(clues, lane)
		return report, false, err
	}

	key := cacheKey(clues, lane)
	if hit, ok := cache.entries[key]; ok {
		for i, idx := range hit.affected {
			lane[idx] = hit.values[i]
		}
		return line.Report{AffectedCells: append([]int(nil), hit.affected...)}, true, nil
	}

	report, err := line.Scrub(clues, lane)
	if err != nil {
		return report, false, err
	}
	values := make([]cell.Cell, len(report.AffectedCells))
	for i, idx := range report.AffectedCells {
		values[i] = lane[idx]
	}
	cache.entries[key] = cacheEntry{affected: append([]int(nil), report.AffectedCells...), values: values}
	return report, false, nil
}

// filterByColor keeps only affected indices that ended up known to be
// color, rolling back every other affected cell to its value in orig.
// Used by the ambiguity scorer to ask "what if only this color's
// deductions counted".
func filterByColor(report line.Report, orig, lane []cell.Cell, color palette.Color) line.Report {
	var kept []int
	for _, idx := range report.AffectedCells {
		if lane[idx].IsKnownToBe(color) {
			kept = append(kept, idx)
		} else {
			lane[idx] = orig[idx]
		}
	}
	return line.Report{AffectedCells: kept}
}

// solutionFromGrid builds a Report-ready Solution snapshot: known cells
// take their color, everything else is palette.Unsolved.
func solutionFromGrid[C clue.Clue[C]](p *puzzle.Puzzle[C], g puzzle.PartialGrid) (puzzle.Solution, [][]bool) {
	grid := make([][]palette.Color, len(g))
	mask := make([][]bool, len(g))
	for y := range g {
		grid[y] = make([]palette.Color, len(g[y]))
		mask[y] = make([]bool, len(g[y]))
		for x, c := range g[y] {
			if color, ok := c.KnownOr(); ok {
				grid[y][x] = color
				mask[y][x] = true
			} else {
				grid[y][x] = palette.Unsolved
			}
		}
	}
	return puzzle.Solution{Palette: p.Palette, Grid: grid}, mask
}

// Solve runs a grid solve from a fully-unconstrained partial grid.
func Solve[C clue.Clue[C]](p *puzzle.Puzzle[C], cache *LineCache[C], options Options) (Report, error) {
	g := puzzle.NewPartialGrid(p)
	return SolveFromPartial(p, cache, options, g)
}

// SolveFromPartial runs a grid solve starting from a caller-seeded
// partial grid, mutating it in place.
func SolveFromPartial[C clue.Clue[C]](p *puzzle.Puzzle[C], cache *LineCache[C], options Options, g puzzle.PartialGrid) (Report, error) {
	if len(g) != p.Height() || (p.Height() > 0 && len(g[0]) != p.Width()) {
		return Report{}, fmt.Errorf("%w: partial grid is %dx%d, puzzle is %dx%d", puzzle.ErrDimensionMismatch, len(g), rowWidth(g), p.Height(), p.Width())
	}

	ls := lanes(p)
	for _, l := range ls {
		initial := getLane(g, l.key)
		l.rescore(initial, Skim, false)
	}

	cellsLeft := 0
	for y := range g {
		for x := range g[y] {
			if !g[y][x].IsKnown() {
				cellsLeft++
			}
		}
	}

	solveCounts := map[Mode]int{Skim: 0, Scrub: 0}
	laneInvocations := map[LaneKey]int{}
	budget := options.skimBudget()
	allowedFailures := map[Mode]int{Skim: budget, Scrub: 0}

	var runID string
	trace := options.TraceSolve && options.Logger != nil
	if trace {
		runID = uuid.NewString()
	}

	for {
		currentMode := Skim
		for _, m := range modes() {
			if m > options.MaxEffort {
				break
			}
			currentMode = m
			if m == Scrub || allowedFailures[m] > 0 {
				break
			}
		}

		lane := findBestLane(ls, currentMode)
		if lane == nil {
			if currentMode >= options.MaxEffort {
				report, err := buildReport(p, g, solveCounts, cellsLeft, laneInvocations)
				return report, err
			}
			allowedFailures[currentMode] = 0
			continue
		}

		laneCells := getLane(g, lane.key)
		knownBefore := countKnown(laneCells)
		var before []cell.Cell
		if options.OnlySolveColor != nil {
			before = append([]cell.Cell(nil), laneCells...)
		}

		var report line.Report
		var err error
		cacheHit := false
		switch currentMode {
		case Skim:
			report, err = line.Skim(lane.clues, laneCells)
		case Scrub:
			report, cacheHit, err = scrubOrCache(lane.clues, laneCells, cache)
		}
		if err != nil {
			return Report{}, fmt.Errorf("solving %s: %w", lane.key, err)
		}

		if options.OnlySolveColor != nil {
			report = filterByColor(report, before, laneCells, *options.OnlySolveColor)
		}

		putLane(g, lane.key, laneCells)
		solveCounts[currentMode]++
		laneInvocations[lane.key]++

		if trace {
			options.Logger.Info("line solve",
				zap.String("run_id", runID),
				zap.String("lane", lane.key.String()),
				zap.Stringer("mode", currentMode),
				zap.Int("affected_cells", len(report.AffectedCells)),
				zap.Bool("cache_hit", cacheHit),
			)
		}

		lane.mode[currentMode].processed = true
		lane.rescore(laneCells, currentMode, true)

		knownAfter := countKnown(laneCells)
		cellsLeft -= knownAfter - knownBefore

		if cellsLeft == 0 {
			return buildReport(p, g, solveCounts, cellsLeft, laneInvocations)
		}

		if currentMode != Skim && len(report.AffectedCells) > 0 {
			allowedFailures = map[Mode]int{Skim: budget, Scrub: 0}
		}
		if currentMode != options.MaxEffort {
			if len(report.AffectedCells) == 0 {
				allowedFailures[currentMode]--
			} else if allowedFailures[currentMode] < budget {
				allowedFailures[currentMode]++
			}
		}

		for _, idx := range report.AffectedCells {
			opp := findByKey(ls, LaneKey{Row: !lane.key.Row, Index: idx})
			if opp == nil {
				continue
			}
			oppCells := getLane(g, opp.key)
			opp.rescore(oppCells, Skim, false)
			for m := range opp.mode {
				opp.mode[m].processed = false
			}
		}
	}
}

func rowWidth(g puzzle.PartialGrid) int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

func countKnown(lane []cell.Cell) int {
	n := 0
	for _, c := range lane {
		if c.IsKnown() {
			n++
		}
	}
	return n
}

func buildReport[C clue.Clue[C]](p *puzzle.Puzzle[C], g puzzle.PartialGrid, counts map[Mode]int, cellsLeft int, invocations map[LaneKey]int) (Report, error) {
	sol, mask := solutionFromGrid(p, g)
	return Report{
		SolveCounts:     counts,
		CellsLeft:       cellsLeft,
		Solution:        sol,
		SolvedMask:      mask,
		LaneInvocations: invocations,
	}, nil
}

// SettleSolution runs the same two-mode scheduler Solve uses to a fixed
// point, mutating g in place, but discards the invocation report — a
// thin wrapper matching original_source/src/puzzle.rs's
// settle_solution signature. See DESIGN.md's Open Question decision.
func SettleSolution[C clue.Clue[C]](p *puzzle.Puzzle[C], g puzzle.PartialGrid) error {
	_, err := SolveFromPartial(p, nil, DefaultOptions(), g)
	return err
}

// LineStatus reports what kind of progress, if any, a lane still offers
// without mutating the real grid.
type LineStatus struct {
	Mode    Mode
	HasMode bool // false means neither Skim nor Scrub changes anything
	Err     error
}

// analyzeLane runs Skim on a copy of lane; if nothing changed, runs
// Scrub on a fresh copy. It never mutates lane itself.
func analyzeLane[C clue.Clue[C]](clues []C, lane []cell.Cell) LineStatus {
	skimCopy := append([]cell.Cell(nil), lane...)
	report, err := line.Skim(clues, skimCopy)
	if err != nil {
		return LineStatus{Err: err}
	}
	if len(report.AffectedCells) > 0 {
		return LineStatus{Mode: Skim, HasMode: true}
	}

	scrubCopy := append([]cell.Cell(nil), lane...)
	for {
		report, err := line.Scrub(clues, scrubCopy)
		if err != nil {
			return LineStatus{Err: err}
		}
		if len(report.AffectedCells) == 0 {
			break
		}
	}
	changed := false
	for i := range lane {
		if scrubCopy[i] != lane[i] {
			changed = true
			break
		}
	}
	if changed {
		return LineStatus{Mode: Scrub, HasMode: true}
	}
	return LineStatus{}
}

// AnalyzeLines reports, for every row then every column, what kind of
// deduction (if any) is still available.
func AnalyzeLines[C clue.Clue[C]](p *puzzle.Puzzle[C], g puzzle.PartialGrid) (rows, cols []LineStatus) {
	rows = make([]LineStatus, p.Height())
	for y, rc := range p.Rows {
		rows[y] = analyzeLane(rc, getLane(g, LaneKey{Row: true, Index: y}))
	}
	cols = make([]LineStatus, p.Width())
	for x, cc := range p.Cols {
		cols[x] = analyzeLane(cc, getLane(g, LaneKey{Row: false, Index: x}))
	}
	return rows, cols
}
