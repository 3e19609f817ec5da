package line

import (
	"sort"
	"testing"

	"github.com/bdwalton/nonogrid/cell"
	"github.com/bdwalton/nonogrid/clue"
	"github.com/bdwalton/nonogrid/palette"
	"github.com/stretchr/testify/require"
)

const (
	bg  = palette.Background
	red = palette.Color(1)
	blk = palette.Color(2)
)

func unknownLane(n int) []cell.Cell {
	lane := make([]cell.Cell, n)
	for i := range lane {
		lane[i] = cell.FromColors(bg, red, blk)
	}
	return lane
}

func requireKnown(t *testing.T, lane []cell.Cell, want ...palette.Color) {
	t.Helper()
	if len(lane) != len(want) {
		t.Fatalf("lane length %d != want length %d", len(lane), len(want))
	}
	for i, w := range want {
		got, ok := lane[i].KnownOr()
		if !ok || got != w {
			t.Errorf("cell %d = %v (known=%v), want known %d", i, lane[i].CanBeIter(), ok, w)
		}
	}
}

// Scenario 1: empty clues force all background.
func TestScenarioEmptyCluesForceBackground(t *testing.T) {
	lane := unknownLane(4)
	report, err := Skim([]clue.Nono{}, lane)
	if err != nil {
		t.Fatalf("Skim: %v", err)
	}
	requireKnown(t, lane, bg, bg, bg, bg)
	if len(report.AffectedCells) != 4 {
		t.Errorf("AffectedCells = %v, want 4 entries", report.AffectedCells)
	}
}

// Scenario 2: single clue equal to lane length is fully determined.
func TestScenarioSingleClueFillsLane(t *testing.T) {
	lane := unknownLane(6)
	clues := []clue.Nono{{Color: blk, Count: 6}}
	if _, err := Skim(clues, lane); err != nil {
		t.Fatalf("Skim: %v", err)
	}
	requireKnown(t, lane, blk, blk, blk, blk, blk, blk)
}

// Scenario 3: maximal overlap deduces the middle cells only. The lane
// holds only background and black, so color pruning narrows nothing and
// the overlap cells are the only ones reported.
func TestScenarioMaximalOverlapDeducesMiddle(t *testing.T) {
	lane := make([]cell.Cell, 4)
	for i := range lane {
		lane[i] = cell.FromColors(bg, blk)
	}
	clues := []clue.Nono{{Color: blk, Count: 3}}
	report, err := Skim(clues, lane)
	if err != nil {
		t.Fatalf("Skim: %v", err)
	}
	if lane[0].IsKnown() {
		t.Errorf("cell 0 should remain unknown, got %v", lane[0].CanBeIter())
	}
	if lane[3].IsKnown() {
		t.Errorf("cell 3 should remain unknown, got %v", lane[3].CanBeIter())
	}
	requireMiddleKnown := []int{1, 2}
	for _, idx := range requireMiddleKnown {
		got, ok := lane[idx].KnownOr()
		if !ok || got != blk {
			t.Errorf("cell %d = %v, want known %d", idx, lane[idx].CanBeIter(), blk)
		}
	}
	gotAffected := append([]int(nil), report.AffectedCells...)
	sort.Ints(gotAffected)
	if len(gotAffected) != 2 || gotAffected[0] != 1 || gotAffected[1] != 2 {
		t.Errorf("AffectedCells = %v, want [1 2]", gotAffected)
	}
}

// Scenario 4: two same-color clues require a separator.
func TestScenarioSameColorCluesRequireSeparator(t *testing.T) {
	lane := unknownLane(5)
	clues := []clue.Nono{{Color: blk, Count: 2}, {Color: blk, Count: 2}}
	if _, err := Skim(clues, lane); err != nil {
		t.Fatalf("Skim: %v", err)
	}
	requireKnown(t, lane, blk, blk, bg, blk, blk)
}

// Scenario 5: adjacent different-color clues need no separator; Skim
// learns one cell of each clue (cell 1 red, cell 3 black) but leaves the
// middle cell ambiguous.
func TestScenarioDifferentColorCluesNoSeparator(t *testing.T) {
	lane := unknownLane(5)
	clues := []clue.Nono{{Color: red, Count: 2}, {Color: blk, Count: 2}}
	if _, err := Skim(clues, lane); err != nil {
		t.Fatalf("Skim: %v", err)
	}
	if got, ok := lane[3].KnownOr(); !ok || got != blk {
		t.Errorf("cell 3 = %v, want known black", lane[3].CanBeIter())
	}
	if lane[2].IsKnown() {
		t.Errorf("cell 2 should remain multi-valued, got known %v", lane[2].CanBeIter())
	}
}

// Scenario 6: Scrub strengthens what Skim alone can determine. Three
// arrangements fit (RBB_, R_BB, _RBB), so only cell 2 is fixed, but
// Scrub also rules out black at cell 0 and red at cell 3, which Skim
// leaves open.
func TestScenarioScrubStrengthensSkim(t *testing.T) {
	lane := unknownLane(4)
	clues := []clue.Nono{{Color: red, Count: 1}, {Color: blk, Count: 2}}

	skimLane := make([]cell.Cell, len(lane))
	copy(skimLane, lane)
	if _, err := Skim(clues, skimLane); err != nil {
		t.Fatalf("Skim: %v", err)
	}
	if skimLane[0].IsKnown() {
		t.Fatalf("test setup invalid: Skim alone already resolved cell 0, scenario expects ambiguity")
	}

	scrubLane := make([]cell.Cell, len(lane))
	copy(scrubLane, lane)
	if _, err := Skim(clues, scrubLane); err != nil {
		t.Fatalf("Skim: %v", err)
	}
	if _, err := Scrub(clues, scrubLane); err != nil {
		t.Fatalf("Scrub: %v", err)
	}
	wantMasks := []cell.Cell{
		cell.FromColors(bg, red),
		cell.FromColors(bg, red, blk),
		cell.FromColor(blk),
		cell.FromColors(bg, blk),
	}
	for i, want := range wantMasks {
		if scrubLane[i] != want {
			t.Errorf("cell %d = %v, want %v", i, scrubLane[i].CanBeIter(), want.CanBeIter())
		}
	}
}

func TestSkimMonotonicity(t *testing.T) {
	lane := unknownLane(6)
	before := append([]cell.Cell(nil), lane...)
	clues := []clue.Nono{{Color: blk, Count: 3}}
	_, err := Skim(clues, lane)
	require.NoError(t, err)

	for i := range lane {
		require.Equal(t, before[i].Raw()&lane[i].Raw(), lane[i].Raw(), "cell %d grew instead of narrowing", i)
	}
}

func TestSkimIdempotent(t *testing.T) {
	lane := unknownLane(6)
	clues := []clue.Nono{{Color: blk, Count: 3}}
	_, err := Skim(clues, lane)
	require.NoError(t, err)

	second := append([]cell.Cell(nil), lane...)
	_, err = Skim(clues, second)
	require.NoError(t, err)

	for i := range lane {
		require.Equal(t, lane[i].Raw(), second[i].Raw(), "second Skim changed cell %d", i)
	}
}

func TestUnsatisfiableClueReturnsErrUnsatisfiableLine(t *testing.T) {
	lane := []cell.Cell{cell.FromColor(bg), cell.FromColor(bg)}
	clues := []clue.Nono{{Color: blk, Count: 5}}
	_, err := Skim(clues, lane)
	require.ErrorIs(t, err, ErrUnsatisfiableLine)
}
