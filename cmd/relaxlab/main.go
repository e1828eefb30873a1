package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/relaxlab/internal/automation"
	"github.com/san-kum/relaxlab/internal/config"
	"github.com/san-kum/relaxlab/internal/experiment"
	"github.com/san-kum/relaxlab/internal/optim"
	"github.com/san-kum/relaxlab/internal/relax"
	"github.com/san-kum/relaxlab/internal/render"
	"github.com/san-kum/relaxlab/internal/scenario"
	"github.com/san-kum/relaxlab/internal/storage"
	"github.com/san-kum/relaxlab/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	verbose bool
	// Solver overrides
	size      int
	alpha     float64
	tolerance float64
	maxSweeps int
	traversal string
	workers   int
	unchecked bool
	// Geometry overrides
	radius  float64
	divisor int
	layout  string
	// Config file and preset
	configFile string
	preset     string
	noSave     bool
	showGrid   bool
	// Alpha studies
	alphas   []float64
	alphaMin float64
	alphaMax float64
	steps    int
	parallel int
	rounds   int
	// Render
	outDir string
	kind   string
	stride int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "relaxlab",
		Short: "successive over-relaxation lab for elliptic grids",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		RunE: runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".relaxlab", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every sweep to stderr")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "solve a scenario and save the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSolve,
	}
	addSolveFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&showGrid, "show", false, "print the relaxed grid")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print a stored grid as a heat map",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	historyCmd := &cobra.Command{
		Use:   "history [run_id]",
		Short: "plot sample point values per sweep",
		Args:  cobra.ExactArgs(1),
		RunE:  plotHistory,
	}

	residualsCmd := &cobra.Command{
		Use:   "residuals [run_id]",
		Short: "plot the largest residual per sweep",
		Args:  cobra.ExactArgs(1),
		RunE:  plotResiduals,
	}

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render a stored run to image files",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	renderCmd.Flags().StringVar(&kind, "kind", "all", "heat, quiver, history, residuals or all")
	renderCmd.Flags().IntVar(&stride, "stride", 0, "arrow spacing in grid points (0 = size/20)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the relaxed grid to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list scenarios",
		RunE:  listScenarios,
	}

	layoutsCmd := &cobra.Command{
		Use:   "layouts",
		Short: "list point charge layouts",
		RunE:  listLayouts,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "solve once per relaxation factor",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAlphaSweep,
	}
	addSolveFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&alphas, "alphas", nil, "relaxation factors (default 1.10,1.25,1.35,1.45,2.10)")
	sweepCmd.Flags().Float64Var(&alphaMin, "min", 0, "smallest factor of an evenly spaced range")
	sweepCmd.Flags().Float64Var(&alphaMax, "max", 0, "largest factor of an evenly spaced range")
	sweepCmd.Flags().IntVar(&steps, "steps", 0, "number of factors in the range")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 1, "concurrent solves")

	tuneCmd := &cobra.Command{
		Use:   "tune [scenario]",
		Short: "search for the factor needing the fewest sweeps",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneAlpha,
	}
	addSolveFlags(tuneCmd)
	tuneCmd.Flags().Float64Var(&alphaMin, "min", 1.0, "lower end of the search")
	tuneCmd.Flags().Float64Var(&alphaMax, "max", 1.95, "upper end of the search")
	tuneCmd.Flags().IntVar(&steps, "points", 10, "factors per round")
	tuneCmd.Flags().IntVar(&rounds, "rounds", 2, "refinement rounds")

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run every entry of a YAML batch file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "time each traversal order",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchTraversals,
	}
	addSolveFlags(benchCmd)

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "watch a scenario relax in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSolveFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, showCmd, historyCmd, residualsCmd, renderCmd, exportCmd,
		exportCSVCmd, exportJSONCmd, scenariosCmd, layoutsCmd, presetsCmd, sweepCmd, tuneCmd,
		batchCmd, benchCmd, liveCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func addSolveFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&size, "size", "n", 0, "grid side length")
	cmd.Flags().Float64VarP(&alpha, "alpha", "a", 0, "relaxation factor")
	cmd.Flags().Float64Var(&tolerance, "tol", 0, "largest residual accepted as converged")
	cmd.Flags().IntVar(&maxSweeps, "sweeps", 0, "sweep cap")
	cmd.Flags().StringVar(&traversal, "traversal", "", "descending, ascending or redblack")
	cmd.Flags().IntVar(&workers, "workers", 0, "goroutines for redblack sweeps")
	cmd.Flags().BoolVar(&unchecked, "unchecked", false, "allow factors outside (0, 2)")
	cmd.Flags().Float64Var(&radius, "radius", 0, "cylinder radius in grid points")
	cmd.Flags().IntVar(&divisor, "divisor", 0, "outflow outlet width divisor")
	cmd.Flags().StringVar(&layout, "layout", "", "poisson charge layout")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers the preset, the config file and the changed flags,
// in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	var file *config.Config
	if configFile != "" {
		var err error
		file, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg.Scenario = file.Scenario
	}
	if len(args) > 0 {
		cfg.Scenario = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scenario))
		}
		cfg.Merge(p)
	}
	if file != nil {
		name := cfg.Scenario
		cfg.Merge(file)
		cfg.Scenario = name
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.Size = size
	}
	if flags.Changed("alpha") {
		cfg.Alpha = alpha
	}
	if flags.Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("sweeps") {
		cfg.MaxSweeps = maxSweeps
	}
	if flags.Changed("traversal") {
		cfg.Traversal = traversal
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("unchecked") {
		cfg.Unchecked = unchecked
	}
	if flags.Changed("radius") {
		cfg.Geometry.Radius = radius
	}
	if flags.Changed("divisor") {
		cfg.Geometry.Divisor = divisor
	}
	if flags.Changed("layout") {
		cfg.Geometry.Layout = layout
	}
	return cfg, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(*cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	fmt.Printf("solving %s...\n", cfg.Scenario)
	out, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	printOutcome(out)

	if showGrid {
		fmt.Println()
		fmt.Print(viz.HeatMap(out.Result.Grid, out.Problem.Fixed, 80))
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(out)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func printOutcome(out *experiment.Outcome) {
	res, rc := out.Result, out.Problem.Config
	fmt.Printf("%s: %s\n", out.Problem.Name, out.Problem.Description)
	fmt.Printf("status: %s after %d of %d sweeps (%v)\n", res.Status(), res.Sweeps, rc.MaxSweeps, out.Elapsed)
	fmt.Printf("alpha: %.4f  traversal: %s\n", rc.Alpha, rc.Traversal)
	fmt.Printf("final residual: %.6e (tolerance %.0e)\n", res.FinalResidual(), rc.Tolerance)
	if res.History != nil {
		for k, p := range res.History.Points {
			if v, ok := res.History.Last(k); ok {
				fmt.Printf("  psi(%d, %d) = %.9f\n", p.Row, p.Col, v)
			}
		}
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSIZE\tALPHA\tSWEEPS\tSTATUS\tRESIDUAL")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%d\t%s\t%.3e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Size,
			run.Alpha,
			run.Sweeps,
			run.Status,
			run.FinalResidual,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	grid, err := st.LoadGrid(args[0])
	if err != nil {
		return err
	}
	fixed, err := st.LoadFixed(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s (%s)\n", meta.Scenario, meta.Description)
	fmt.Printf("status: %s after %d sweeps\n\n", meta.Status, meta.Sweeps)
	fmt.Print(viz.HeatMap(grid, fixed, 80))
	fmt.Println(viz.Legend(float64(meta.Min), float64(meta.Max), 24))
	return nil
}

func plotHistory(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	h, err := st.LoadHistory(args[0])
	if err != nil {
		return err
	}
	if h.Len() < 2 {
		return fmt.Errorf("not enough sweeps to plot")
	}

	for k, p := range h.Points {
		caption := fmt.Sprintf("psi(%d, %d) per sweep", p.Row, p.Col)
		if k < len(meta.Samples) {
			caption = meta.Samples[k].Name + ": " + caption
		}
		graph := asciigraph.Plot(h.Values[k],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func plotResiduals(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	res, err := st.LoadResiduals(args[0])
	if err != nil {
		return err
	}
	if len(res) < 2 {
		return fmt.Errorf("not enough sweeps to plot")
	}

	graph := asciigraph.Plot(viz.LogResiduals(res),
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("log10 max residual per sweep"),
	)
	fmt.Println(graph)
	return nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	path := func(name string) string { return filepath.Join(outDir, runID+"_"+name+".png") }
	want := func(k string) bool { return kind == "all" || kind == k }
	done := 0

	if want("heat") || want("quiver") {
		grid, err := st.LoadGrid(runID)
		if err != nil {
			return err
		}
		if want("heat") {
			if err := render.HeatMap(grid, meta.Description, path("heat")); err != nil {
				return err
			}
			done++
		}
		if want("quiver") {
			s := stride
			if s < 1 {
				s = max(meta.Size/20, 1)
			}
			if err := render.Quiver(grid, s, meta.Description, path("quiver")); err != nil {
				return err
			}
			done++
		}
	}
	if want("history") {
		h, err := st.LoadHistory(runID)
		if err != nil {
			return err
		}
		names := make([]string, len(meta.Samples))
		for i, s := range meta.Samples {
			names[i] = s.Name
		}
		if err := render.History(h, names, meta.Description, path("history")); err != nil {
			return err
		}
		done++
	}
	if want("residuals") {
		res, err := st.LoadResiduals(runID)
		if err != nil {
			return err
		}
		if err := render.Residuals(res, meta.Description, path("residuals")); err != nil {
			return err
		}
		done++
	}

	if done == 0 {
		return fmt.Errorf("unknown kind: %s", kind)
	}
	fmt.Printf("wrote %d image(s) to %s\n", done, outDir)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	grid, err := st.LoadGrid(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	r, c := grid.Dims()
	row := make([]string, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			row[j] = strconv.FormatFloat(grid.At(i, j), 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func listScenarios(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tDESCRIPTION")
	for _, e := range scenario.Catalog() {
		fmt.Fprintf(w, "%s\t%d\t%s\n", e.Name, e.Size, e.Description)
	}
	return w.Flush()
}

func listLayouts(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCHARGES\tDESCRIPTION")
	for _, l := range scenario.Layouts() {
		fmt.Fprintf(w, "%s\t%d\t%s\n", l.Name, len(l.Charges), l.Description)
	}
	return w.Flush()
}

func runAlphaSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	sweep := &automation.AlphaSweep{
		Base:     *cfg,
		Alphas:   alphas,
		AlphaMin: alphaMin,
		AlphaMax: alphaMax,
		Steps:    steps,
		Parallel: parallel,
	}
	if len(alphas) == 0 && steps == 0 {
		sweep.Alphas = automation.DefaultAlphas
	}

	results, err := automation.RunSweep(cmd.Context(), sweep, experiment.NewRegistry())
	if err != nil {
		return err
	}

	fmt.Printf("alpha sweep on %s\n\n", cfg.Scenario)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALPHA\tSWEEPS\tSTATUS\tFINAL RESIDUAL")
	counts := make([]float64, len(results))
	for i, r := range results {
		status := "exhausted"
		if r.Converged {
			status = "converged"
		}
		fmt.Fprintf(w, "%.4f\t%d\t%s\t%.3e\n", r.Alpha, r.Sweeps, status, r.Final)
		counts[i] = float64(r.Sweeps)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(counts) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(counts, asciigraph.Height(8), asciigraph.Caption("sweeps per factor")))
	}
	return nil
}

func tuneAlpha(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	build := func(a float64) (*experiment.Experiment, error) {
		c := *cfg
		c.Alpha = a
		exp := experiment.New(c)
		if err := exp.Setup(registry); err != nil {
			return nil, err
		}
		return exp, nil
	}

	best, err := optim.Refine(cmd.Context(), alphaMin, alphaMax, steps, rounds, build)
	if err != nil {
		return err
	}

	status := "exhausted"
	if best.Converged {
		status = "converged"
	}
	fmt.Printf("best alpha for %s: %.4f (%d sweeps, %s, residual %.3e)\n",
		cfg.Scenario, best.Alpha, best.Sweeps, status, best.Residual)
	if prob, err := registry.GetScenario(cfg.Scenario, cfg.Params()); err == nil {
		fmt.Printf("theoretical optimum 2/(1+sin(pi/(N-1))): %.4f\n", relax.OptimalAlpha(prob.Size()))
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("batch %s: %d runs\n", batch.Name, len(batch.Runs))
	outcomes, err := automation.RunBatch(cmd.Context(), batch, experiment.NewRegistry())

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if initErr := st.Init(); initErr != nil {
			return initErr
		}
	}
	for i, out := range outcomes {
		fmt.Printf("\n[%d] ", i+1)
		printOutcome(out)
		if st != nil {
			runID, saveErr := st.Save(out)
			if saveErr != nil {
				return saveErr
			}
			fmt.Printf("run id: %s\n", runID)
		}
	}
	return err
}

func benchTraversals(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	fmt.Printf("benchmarking %s\n\n", cfg.Scenario)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRAVERSAL\tSIZE\tSWEEPS\tSTATUS\tTIME\tSWEEPS/SEC")

	for _, t := range []relax.Traversal{relax.Descending, relax.Ascending, relax.RedBlack} {
		c := *cfg
		c.Traversal = t.String()
		exp := experiment.New(c)
		if err := exp.Setup(registry); err != nil {
			return err
		}

		start := time.Now()
		out, err := exp.Run(cmd.Context())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%v\t%.0f\n",
			t, out.Problem.Size(), out.Result.Sweeps, out.Result.Status(),
			elapsed.Round(time.Microsecond), float64(out.Result.Sweeps)/elapsed.Seconds())
	}
	return w.Flush()
}

// runLive opens the scenario menu first when neither a scenario nor a
// config file names one.
func runLive(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && configFile == "" {
		name, err := viz.RunPicker(scenario.Catalog())
		if err != nil {
			return err
		}
		if name == "" {
			return nil
		}
		args = []string{name}
	}
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	build := func() (*scenario.Problem, error) {
		prob, err := registry.GetScenario(cfg.Scenario, cfg.Params())
		if err != nil {
			return nil, err
		}
		if prob.Config, err = cfg.Apply(prob.Config); err != nil {
			return nil, err
		}
		return prob, nil
	}

	m, err := viz.NewLive(build)
	if err != nil {
		return err
	}
	return viz.RunLive(m)
}
