package nonogrid

import (
	"testing"

	"github.com/bdwalton/nonogrid/clue"
	"github.com/bdwalton/nonogrid/palette"
	"github.com/bdwalton/nonogrid/puzzle"
	"github.com/stretchr/testify/require"
)

func TestSolveFacadeMatchesGridPackage(t *testing.T) {
	pal, err := palette.New([]palette.Info{
		palette.DefaultBackground(),
		{Ch: 'x', Name: "ink", RGB: [3]uint8{20, 20, 20}, Color: 1},
	})
	require.NoError(t, err)
	ink := palette.Color(1)

	p := &puzzle.Puzzle[clue.Nono]{
		Palette: pal,
		Rows:    [][]clue.Nono{{{Color: ink, Count: 2}}},
		Cols:    [][]clue.Nono{{{Color: ink, Count: 1}}, {{Color: ink, Count: 1}}},
	}
	require.NoError(t, p.Validate())

	report, err := Solve[clue.Nono](p, nil, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 0, report.CellsLeft)
}
