package ambiguity

import (
	"context"
	"testing"

	"github.com/bdwalton/nonogrid/clue"
	"github.com/bdwalton/nonogrid/palette"
	"github.com/bdwalton/nonogrid/puzzle"
	"github.com/stretchr/testify/require"
)

func testPalette(t *testing.T) *palette.Palette {
	t.Helper()
	p, err := palette.New([]palette.Info{
		palette.DefaultBackground(),
		{Ch: 'x', Name: "ink", RGB: [3]uint8{20, 20, 20}, Color: 1},
	})
	require.NoError(t, err)
	return p
}

func TestScoresOnAlreadyFullyDeterminedSolutionReportsZero(t *testing.T) {
	pal := testPalette(t)
	ink := palette.Color(1)
	bg := palette.Background
	sol := &puzzle.Solution{
		Palette: pal,
		Grid: [][]palette.Color{
			{bg, ink},
			{ink, ink},
		},
	}

	progress := make(chan float64, 8)
	scores, err := Scores[clue.Nono](context.Background(), sol, puzzle.SolutionToPuzzle, progress, Options{})
	require.NoError(t, err)
	require.Len(t, scores, 2)
	require.Len(t, scores[0], 2)
	for y := range scores {
		for x := range scores[y] {
			require.Equal(t, 0.0, scores[y][x].Score, "cell (%d,%d)", x, y)
		}
	}
}

func TestScoresRespectsCancellation(t *testing.T) {
	pal := testPalette(t)
	ink := palette.Color(1)
	bg := palette.Background
	sol := &puzzle.Solution{
		Palette: pal,
		// Every row and column clue is a single 1, so the solution is
		// ambiguous and the scan does not return early.
		Grid: [][]palette.Color{
			{ink, bg, bg},
			{bg, ink, bg},
			{bg, bg, ink},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel before starting: every cell should be skipped after the first

	scores, err := Scores[clue.Nono](ctx, sol, puzzle.SolutionToPuzzle, nil, Options{})
	require.NoError(t, err, "a cancelled scan is not an error")
	require.Len(t, scores, 3)
	for y := range scores {
		for x := range scores[y] {
			if x == 0 && y == 0 {
				continue
			}
			require.Equal(t, Candidate{}, scores[y][x], "cell (%d,%d) should have been skipped", x, y)
		}
	}
}

func TestScoresRejectsEmptySolution(t *testing.T) {
	sol := &puzzle.Solution{Palette: testPalette(t)}
	_, err := Scores[clue.Nono](context.Background(), sol, puzzle.SolutionToPuzzle, nil, Options{})
	require.ErrorIs(t, err, puzzle.ErrIllFormedPuzzle)
}
