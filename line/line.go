// Package line implements the two line-level deduction passes — Skim and
// Scrub — plus the heuristics the grid scheduler uses to pick which line
// to run next. Each function is generic over a clue.Clue[C] type
// parameter so a Puzzle is solved with a single concrete instantiation
// per clue variant: no interface dispatch inside the per-cell inner
// loops, per Design Note 1. Grounded algorithmically on
// original_source/src/line_solve.rs; the budgeted step-by-step narrowing
// shape is grounded on mos6502.cpu.step's cycle bookkeeping.
package line

import (
	"errors"
	"fmt"

	"github.com/bdwalton/nonogrid/cell"
	"github.com/bdwalton/nonogrid/clue"
	"github.com/bdwalton/nonogrid/palette"
)

// ErrUnsatisfiableLine is the special case of a contradiction discovered
// while packing clues against a lane's known cells: the clue vector
// cannot fit the lane at all, as opposed to a single cell narrowing to
// nothing. It wraps cell.ErrContradiction so callers that only care about
// "is this a contradiction" can still use errors.Is(err,
// cell.ErrContradiction).
var ErrUnsatisfiableLine = fmt.Errorf("line: unsatisfiable line: %w", cell.ErrContradiction)

// Report records which lane indices a Skim or Scrub pass changed.
type Report struct {
	AffectedCells []int
}

func learnCell(color palette.Color, lane []cell.Cell, idx int, affected *[]int) error {
	changed, err := lane[idx].Learn(color)
	if err != nil {
		return err
	}
	if changed {
		*affected = append(*affected, idx)
	}
	return nil
}

func learnCellIntersect(possible cell.Cell, lane []cell.Cell, idx int, affected *[]int) error {
	changed, err := lane[idx].LearnIntersect(possible)
	if err != nil {
		return err
	}
	if changed {
		*affected = append(*affected, idx)
	}
	return nil
}

func learnCellNot(color palette.Color, lane []cell.Cell, idx int, affected *[]int) error {
	changed, err := lane[idx].LearnThatNot(color)
	if err != nil {
		return err
	}
	if changed {
		*affected = append(*affected, idx)
	}
	return nil
}

// adjacency reports, for clue index i, whether a background separator is
// forced before and after it given its neighbors. Ported from
// ClueAdjIterator.
func adjacency[C clue.Clue[C]](clues []C, i int) (gapBefore, gapAfter bool) {
	gapBefore = i > 0 && clues[i-1].MustBeSeparatedFrom(clues[i])
	gapAfter = i < len(clues)-1 && clues[i].MustBeSeparatedFrom(clues[i+1])
	return
}

// packedExtents packs every clue as far as possible in one direction
// (left if !reversed, right if reversed), respecting already-known
// lane cells and required separators, then pulls extents outward to
// absorb any orphaned foreground cells beyond the naive packing. It
// returns, for each clue, the position of its last cell under that
// packing.
func packedExtents[C clue.Clue[C]](clues []C, lane []cell.Cell, reversed bool) ([]int, error) {
	laneAt := func(idx int) cell.Cell {
		if reversed {
			return lane[len(lane)-1-idx]
		}
		return lane[idx]
	}
	clueAt := func(idx int) C {
		if reversed {
			return clues[len(clues)-1-idx]
		}
		return clues[idx]
	}
	clueColorAt := func(c C, idx int) palette.Color {
		if reversed {
			return c.ColorAt(c.Len() - 1 - idx)
		}
		return c.ColorAt(idx)
	}

	var extents []int
	pos := 0
	var lastClue C
	haveLast := false
	for clueIdx := 0; clueIdx < len(clues); clueIdx++ {
		c := clueAt(clueIdx)
		if haveLast {
			if !reversed {
				if lastClue.MustBeSeparatedFrom(c) {
					pos++
				}
			} else {
				if c.MustBeSeparatedFrom(lastClue) {
					pos++
				}
			}
		}

		placeable := false
		for !placeable {
			placeable = true
			for ci := 0; ci < c.Len(); ci++ {
				possiblePos := pos + ci
				if possiblePos >= len(lane) {
					return nil, fmt.Errorf("clue %v at %d exceeds lane length %d: %w", c, possiblePos, len(lane), ErrUnsatisfiableLine)
				}
				if !laneAt(possiblePos).CanBe(clueColorAt(c, ci)) {
					pos++
					placeable = false
					break
				}
			}
		}
		extents = append(extents, pos+c.Len()-1)
		pos += c.Len()
		lastClue = c
		haveLast = true
	}

	// Pull extents outward to absorb orphaned foreground cells beyond
	// the naive packing (this .rev() has nothing to do with reversed).
	curExtentIdx := len(extents) - 1
	i := len(lane) - 1
	for {
		if !laneAt(i).CanBe(palette.Background) {
			if extents[curExtentIdx] < i {
				extents[curExtentIdx] = i
			}
			i = extents[curExtentIdx] + 1 - clueAt(curExtentIdx).Len()
			if curExtentIdx == 0 {
				break
			}
			curExtentIdx--
		}
		if i == 0 {
			break
		}
		i--
	}

	if reversed {
		for l, r := 0, len(extents)-1; l < r; l, r = l+1, r-1 {
			extents[l], extents[r] = extents[r], extents[l]
		}
		for idx := range extents {
			extents[idx] = len(lane) - extents[idx] - 1
		}
	}

	return extents, nil
}

// Skim packs clues against both ends of lane and intersects the
// resulting overlap into each cell in range, plus a handful of
// gap-inference passes (forced separators either side of a fully-pinned
// clue, gaps between two skimmed clues, and leading/trailing background
// beyond the leftmost/rightmost possible clue). It never hypothesizes
// about any single cell the way Scrub does, so it's cheap and is tried
// first by the grid scheduler.
func Skim[C clue.Clue[C]](clues []C, lane []cell.Cell) (Report, error) {
	var affected []int

	if len(clues) == 0 {
		for i := range lane {
			if err := learnCell(palette.Background, lane, i, &affected); err != nil {
				return Report{}, fmt.Errorf("empty clue line: %w", err)
			}
		}
		return Report{AffectedCells: affected}, nil
	}

	colors := []palette.Color{palette.Background}
	for _, c := range clues {
		for i := 0; i < c.Len(); i++ {
			colors = append(colors, c.ColorAt(i))
		}
	}
	possibleColors := cell.FromColors(colors...)
	for i := range lane {
		if err := learnCellIntersect(possibleColors, lane, i, &affected); err != nil {
			return Report{}, err
		}
	}

	leftPackedRightExtents, err := packedExtents(clues, lane, false)
	if err != nil {
		return Report{}, err
	}
	rightPackedLeftExtents, err := packedExtents(clues, lane, true)
	if err != nil {
		return Report{}, err
	}

	for i, c := range clues {
		gapBefore, gapAfter := adjacency(clues, i)
		leftExtent, rightExtent := rightPackedLeftExtents[i], leftPackedRightExtents[i]
		if leftExtent > rightExtent {
			continue // no overlap
		}
		if (rightExtent - leftExtent + 1) > c.Len() {
			return Report{}, fmt.Errorf("clue %v is insufficiently long: %w", c, ErrUnsatisfiableLine)
		}

		clueWiggleRoom := c.Len() - 1 - (rightExtent - leftExtent)
		for idx := leftExtent; idx <= rightExtent; idx++ {
			var wiggleColors []palette.Color
			for w := 0; w <= clueWiggleRoom; w++ {
				wiggleColors = append(wiggleColors, c.ColorAt(idx-leftExtent+w))
			}
			clueCell := cell.FromColors(wiggleColors...)
			if err := learnCellIntersect(clueCell, lane, idx, &affected); err != nil {
				return Report{}, fmt.Errorf("overlap: clue %v at %d: %w", c, idx, err)
			}
		}

		if rightExtent-leftExtent+1 == c.Len() {
			if gapBefore {
				if err := learnCell(palette.Background, lane, leftExtent-1, &affected); err != nil {
					return Report{}, fmt.Errorf("gap before %v: %w", c, err)
				}
			}
			if gapAfter {
				if err := learnCell(palette.Background, lane, rightExtent+1, &affected); err != nil {
					return Report{}, fmt.Errorf("gap after %v: %w", c, err)
				}
			}
		}
	}

	// Squares between two adjacent skimmed clues that neither can reach
	// must be background (ported from pbnsolve's technique).
	for i := 0; i < len(clues)-1; i++ {
		rightExtentPrev := rightPackedLeftExtents[i] + clues[i].Len() - 1
		leftExtentNext := leftPackedRightExtents[i+1] + 1 - clues[i+1].Len()
		if leftExtentNext == 0 {
			continue
		}
		for idx := rightExtentPrev + 1; idx <= leftExtentNext-1; idx++ {
			if err := learnCell(palette.Background, lane, idx, &affected); err != nil {
				return Report{}, fmt.Errorf("empty between skimmed clues at %d: %w", idx, err)
			}
		}
	}

	leftmost := leftPackedRightExtents[0] - clues[0].Len()
	rightmost := rightPackedLeftExtents[len(clues)-1] + clues[len(clues)-1].Len()
	for i := 0; i <= leftmost; i++ {
		if err := learnCell(palette.Background, lane, i, &affected); err != nil {
			return Report{}, fmt.Errorf("leading open span at %d: %w", i, err)
		}
	}
	for i := rightmost; i < len(lane); i++ {
		if err := learnCell(palette.Background, lane, i, &affected); err != nil {
			return Report{}, fmt.Errorf("trailing open span at %d: %w", i, err)
		}
	}

	return Report{AffectedCells: affected}, nil
}

// SkimHeuristic scores how promising a lane is for a Skim pass: high when
// the clues are tight relative to the lane's remaining foregroundable
// span, with a bonus for unresolved edges.
func SkimHeuristic[C clue.Clue[C]](clues []C, lane []cell.Cell) int {
	if len(clues) == 0 {
		return 1000 // solvable immediately
	}

	longestForegroundableSpan, curSpan := 0, 0
	for _, c := range lane {
		if !c.IsKnownToBe(palette.Background) {
			curSpan++
			if curSpan > longestForegroundableSpan {
				longestForegroundableSpan = curSpan
			}
		} else {
			curSpan = 0
		}
	}

	totalClueLength, longestClue := 0, 0
	for _, c := range clues {
		totalClueLength += c.Len()
		if c.Len() > longestClue {
			longestClue = c.Len()
		}
	}

	edgeBonus := 0
	if !lane[0].IsKnownToBe(palette.Background) {
		edgeBonus += 2
	}
	if !lane[len(lane)-1].IsKnownToBe(palette.Background) {
		edgeBonus += 2
	}

	return totalClueLength + longestClue - longestForegroundableSpan + edgeBonus
}

// Scrub hypothesizes each remaining color at each unknown cell, running
// Skim against that hypothesis, and rules out any color whose hypothesis
// contradicts. A contradiction in the hypothesis is information, not an
// error — only a genuine narrowing failure on lane itself propagates.
func Scrub[C clue.Clue[C]](clues []C, lane []cell.Cell) (Report, error) {
	var affected []int

	hypothetical := make([]cell.Cell, len(lane))
	for i := range lane {
		if lane[i].IsKnown() {
			continue
		}

		for _, color := range lane[i].CanBeIter() {
			copy(hypothetical, lane)
			hypothetical[i] = cell.FromColor(color)

			if _, err := Skim(clues, hypothetical); err != nil {
				if !errors.Is(err, cell.ErrContradiction) {
					return Report{}, err
				}
				if lerr := learnCellNot(color, lane, i, &affected); lerr != nil {
					return Report{}, fmt.Errorf("scrub contradiction [%v] at %d: %w", err, i, lerr)
				}
			}
		}
	}

	return Report{AffectedCells: affected}, nil
}

// ScrubHeuristic scores a lane for a Scrub pass: high when a dense clue
// set is combined with cells that Scrub's brute hypothesis-testing is
// likely to pin down.
func ScrubHeuristic[C clue.Clue[C]](clues []C, lane []cell.Cell) int {
	var foregroundCells, spaceTaken, longestClue int
	var lastClue C
	haveLast := false
	for _, c := range clues {
		foregroundCells += c.Len()
		spaceTaken += c.Len()
		if haveLast && lastClue.MustBeSeparatedFrom(c) {
			spaceTaken++
		}
		if c.Len() > longestClue {
			longestClue = c.Len()
		}
		lastClue = c
		haveLast = true
	}

	var knownBackgroundCells, unknownCells int
	for _, c := range lane {
		if c.IsKnownToBe(palette.Background) {
			knownBackgroundCells++
		}
		if !c.IsKnown() {
			unknownCells++
		}
	}
	knownForegroundCells := len(lane) - unknownCells - knownBackgroundCells

	density := spaceTaken - knownForegroundCells + longestClue - len(clues)

	var knownForegroundChunks int
	inChunk := false
	for _, c := range lane {
		if !c.CanBe(palette.Background) {
			if !inChunk {
				knownForegroundChunks++
			}
			inChunk = true
		} else {
			inChunk = false
		}
	}

	unknownBackgroundCells := (len(lane) - foregroundCells) - knownBackgroundCells

	excessChunks := -2
	if knownForegroundCells > 0 {
		excessChunks = knownForegroundChunks - len(clues)
	}

	bonus := unknownBackgroundCells * (excessChunks + 2) / 2
	if bonus < 0 {
		bonus = 0
	}

	return density + bonus
}
