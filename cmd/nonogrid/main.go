// Command nonogrid is the CLI sketch over the nonogrid solver library:
// solve, analyze, settle, and disambiguate subcommands reading/writing a
// small JSON puzzle/solution format. Grounded on gintendo.go's
// flag-based main (parse flags/args, construct the domain object, run
// it, propagate errors via log), generalized to spf13/cobra subcommands.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bdwalton/nonogrid"
	"github.com/bdwalton/nonogrid/clue"
	"github.com/bdwalton/nonogrid/internal/config"
	"github.com/bdwalton/nonogrid/internal/logging"
	"github.com/bdwalton/nonogrid/palette"
	"github.com/bdwalton/nonogrid/puzzle"
)

var (
	flagVerbose     bool
	flagLogFile     string
	flagConfigPath  string
	flagTraceSolve  bool
	flagDisambigute bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nonogrid",
		Short: "Solve and inspect color nonogram puzzles",
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable development-mode (debug level) logging")
	root.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "tee logs through a rotating file instead of stderr")
	root.PersistentFlags().StringVar(&flagConfigPath, "config", "nonogrid.toml", "path to an optional config file")

	solveCmd := &cobra.Command{
		Use:   "solve [input] [output]",
		Short: "Solve a puzzle from its clues",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runSolve,
	}
	solveCmd.Flags().BoolVar(&flagTraceSolve, "trace-solve", false, "log one line per line-solver invocation")
	solveCmd.Flags().BoolVar(&flagDisambigute, "disambiguate", false, "after writing the solution, log how many cells were left unsolved (ambiguity scores are computed by the disambiguate subcommand, not here)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [input] [output]",
		Short: "Report what further deduction is available for each lane of a solution grid (clues are derived from the grid itself, which must have no unsolved cells)",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runAnalyze,
	}

	settleCmd := &cobra.Command{
		Use:   "settle [input] [output]",
		Short: "Run the solver to a fixed point over a solution grid (clues are derived from the grid itself, which must have no unsolved cells)",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runSettle,
	}

	disambiguateCmd := &cobra.Command{
		Use:   "disambiguate [input] [output]",
		Short: "Score each cell of a solution by how much re-solving narrows if it were a different color",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runDisambiguate,
	}

	root.AddCommand(solveCmd, analyzeCmd, settleCmd, disambiguateCmd)
	return root
}

// cliPuzzle and cliSolution are a small JSON sketch of the puzzle/
// solution file format this CLI reads and writes. Only the Nono clue
// variant is exposed at the CLI boundary; Triano puzzles are reachable
// programmatically through the nonogrid package but the CLI's file
// format was never part of the spec's scope (§6 calls the CLI surface
// "sketched for completeness").
type cliColorInfo struct {
	Ch     string        `json:"ch"`
	Name   string        `json:"name"`
	RGB    [3]uint8      `json:"rgb"`
	Color  palette.Color `json:"color"`
	Corner *struct {
		Upper bool `json:"upper"`
		Left  bool `json:"left"`
	} `json:"corner,omitempty"`
}

type cliNono struct {
	Color palette.Color `json:"color"`
	Count uint16        `json:"count"`
}

type cliPuzzle struct {
	Palette []cliColorInfo `json:"palette"`
	Rows    [][]cliNono    `json:"rows"`
	Cols    [][]cliNono    `json:"cols"`
}

type cliSolution struct {
	Palette []cliColorInfo    `json:"palette"`
	Grid    [][]palette.Color `json:"grid"`
}

func buildPalette(entries []cliColorInfo) (*palette.Palette, error) {
	infos := make([]palette.Info, len(entries))
	for i, e := range entries {
		info := palette.Info{Ch: rune(0), Name: e.Name, RGB: e.RGB, Color: e.Color}
		if len(e.Ch) > 0 {
			info.Ch = []rune(e.Ch)[0]
		}
		if e.Corner != nil {
			info.Corner = &palette.Corner{Upper: e.Corner.Upper, Left: e.Corner.Left}
		}
		infos[i] = info
	}
	return palette.New(infos)
}

func readJSON(path string, v interface{}) error {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	return json.NewDecoder(r).Decode(v)
}

func writeJSON(path string, v interface{}) error {
	var w io.Writer
	if path == "" || path == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func outputPath(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return "-"
}

func runSolve(cmd *cobra.Command, args []string) error {
	logger, err := setupLogging()
	if err != nil {
		return err
	}
	defer logger.Sync()

	var in cliPuzzle
	if err := readJSON(args[0], &in); err != nil {
		return fmt.Errorf("reading puzzle: %w", err)
	}
	pal, err := buildPalette(in.Palette)
	if err != nil {
		return err
	}
	p := &puzzle.Puzzle[clue.Nono]{
		Palette: pal,
		Rows:    toNonoRows(in.Rows),
		Cols:    toNonoRows(in.Cols),
	}
	if err := p.Validate(); err != nil {
		return err
	}

	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}
	opts := optionsFromConfig(cfg)
	opts.TraceSolve = flagTraceSolve
	opts.Logger = logger

	report, err := nonogrid.Solve[clue.Nono](p, nil, opts)
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}

	out := cliSolution{Palette: in.Palette, Grid: report.Solution.Grid}
	if err := writeJSON(outputPath(args), out); err != nil {
		return err
	}

	if flagDisambigute {
		logger.Info("solve complete", zap.Int("cells_left", report.CellsLeft))
	}
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	var in cliSolution
	if err := readJSON(args[0], &in); err != nil {
		return fmt.Errorf("reading solution: %w", err)
	}
	pal, err := buildPalette(in.Palette)
	if err != nil {
		return err
	}
	sol := &puzzle.Solution{Palette: pal, Grid: in.Grid}
	p, err := puzzle.SolutionToPuzzle(sol)
	if err != nil {
		return err
	}
	g := sol.ToPartial()

	rows, cols := nonogrid.AnalyzeLines[clue.Nono](p, g)
	type laneStatus struct {
		Mode    string `json:"mode,omitempty"`
		HasMode bool   `json:"has_mode"`
	}
	toStatus := func(s nonogrid.LineStatus) laneStatus {
		if !s.HasMode {
			return laneStatus{}
		}
		return laneStatus{Mode: s.Mode.String(), HasMode: true}
	}
	out := struct {
		Rows []laneStatus `json:"rows"`
		Cols []laneStatus `json:"cols"`
	}{}
	for _, r := range rows {
		out.Rows = append(out.Rows, toStatus(r))
	}
	for _, c := range cols {
		out.Cols = append(out.Cols, toStatus(c))
	}
	return writeJSON(outputPath(args), out)
}

func runSettle(cmd *cobra.Command, args []string) error {
	var in cliSolution
	if err := readJSON(args[0], &in); err != nil {
		return fmt.Errorf("reading solution: %w", err)
	}
	pal, err := buildPalette(in.Palette)
	if err != nil {
		return err
	}
	sol := &puzzle.Solution{Palette: pal, Grid: in.Grid}
	p, err := puzzle.SolutionToPuzzle(sol)
	if err != nil {
		return err
	}
	g := sol.ToPartial()

	if err := nonogrid.SettleSolution[clue.Nono](p, g); err != nil {
		return fmt.Errorf("settle: %w", err)
	}

	outGrid := make([][]palette.Color, len(g))
	for y, row := range g {
		outGrid[y] = make([]palette.Color, len(row))
		for x, c := range row {
			if color, ok := c.KnownOr(); ok {
				outGrid[y][x] = color
			} else {
				outGrid[y][x] = palette.Unsolved
			}
		}
	}
	return writeJSON(outputPath(args), cliSolution{Palette: in.Palette, Grid: outGrid})
}

func runDisambiguate(cmd *cobra.Command, args []string) error {
	var in cliSolution
	if err := readJSON(args[0], &in); err != nil {
		return fmt.Errorf("reading solution: %w", err)
	}
	pal, err := buildPalette(in.Palette)
	if err != nil {
		return err
	}
	sol := &puzzle.Solution{Palette: pal, Grid: in.Grid}

	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}
	ambigOpts := nonogrid.AmbiguityOptions{ProgressInterval: cfg.Disambiguate.ProgressInterval}

	scores, err := nonogrid.AmbiguityScores[clue.Nono](cmd.Context(), sol, puzzle.SolutionToPuzzle, nil, ambigOpts)
	if err != nil {
		return err
	}
	return writeJSON(outputPath(args), scores)
}

func toNonoRows(rows [][]cliNono) [][]clue.Nono {
	out := make([][]clue.Nono, len(rows))
	for i, r := range rows {
		lane := make([]clue.Nono, len(r))
		for j, c := range r {
			lane[j] = clue.Nono{Color: c.Color, Count: c.Count}
		}
		out[i] = lane
	}
	return out
}

func setupLogging() (*zap.Logger, error) {
	return logging.New(logging.Options{Verbose: flagVerbose, LogFile: flagLogFile})
}

func optionsFromConfig(cfg config.Config) nonogrid.Options {
	opts := nonogrid.DefaultOptions()
	if cfg.Solve.DefaultEffort == "skim" {
		opts.MaxEffort = nonogrid.Skim
	}
	opts.SkimBudget = cfg.Solve.SkimBudget
	return opts
}
