package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/collisionlab/internal/config"
	"github.com/san-kum/collisionlab/internal/dynamo"
	"github.com/san-kum/collisionlab/internal/experiment"
	"github.com/san-kum/collisionlab/internal/export"
	"github.com/san-kum/collisionlab/internal/optim"
	"github.com/san-kum/collisionlab/internal/sim"
	"github.com/san-kum/collisionlab/internal/tui"
)

var (
	mass1       float64
	velocity1   float64
	mass2       float64
	velocity2   float64
	restitution float64
	force       float64
	duration    float64
	maxTime     float64
	frameRate   int
	configFile  string
	preset      string
	subStep     bool
	verbose     bool

	// run output
	jsonOut bool
	csvOut  bool
	svgPath string
	watch   bool

	// sweep
	sweepParams []string
	metricName  string
	maximize    bool
	topN        int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "collisionlab",
		Short: "1-d collision physics lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunInteractive()
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log events and frames to stderr")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario headless",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "write the trace as json to stdout")
	runCmd.Flags().BoolVar(&csvOut, "csv", false, "write the trace as csv to stdout")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write a position plot to this svg file")
	runCmd.Flags().BoolVar(&watch, "watch", false, "print the track while running")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario in real time on the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunInteractive()
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot [scenario]",
		Short: "plot positions and velocities of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotScenario,
	}
	addScenarioFlags(plotCmd)

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

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range experiment.NewRegistry().ListScenarios() {
				fmt.Println(name)
			}
		},
	}

	sweepCmd := &cobra.Command{
		Use:     "sweep [scenario]",
		Short:   "grid search over scenario parameters",
		Example: "  collisionlab sweep inelastic --param restitution=0:1:0.25 --param mass2=1,4,8 --metric energy_loss",
		Args:    cobra.ExactArgs(1),
		RunE:    runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=values, values as a,b,c or start:stop:step")
	sweepCmd.Flags().StringVar(&metricName, "metric", "energy_loss", "metric to rank by")
	sweepCmd.Flags().BoolVar(&maximize, "max", false, "rank highest first")
	sweepCmd.Flags().IntVar(&topN, "top", 10, "number of rows to print")

	rootCmd.AddCommand(runCmd, liveCmd, tuiCmd, plotCmd, presetsCmd, scenariosCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&mass1, "mass1", 0, "mass of body 1 (kg)")
	cmd.Flags().Float64Var(&velocity1, "velocity1", 0, "initial velocity of body 1 (m/s)")
	cmd.Flags().Float64Var(&mass2, "mass2", 0, "mass of body 2 (kg)")
	cmd.Flags().Float64Var(&velocity2, "velocity2", 0, "initial velocity of body 2 (m/s)")
	cmd.Flags().Float64Var(&restitution, "restitution", 0, "coefficient of restitution (inelastic)")
	cmd.Flags().Float64Var(&force, "force", 0, "applied force (impulse, N)")
	cmd.Flags().Float64Var(&duration, "duration", 0, "force window (impulse, s)")
	cmd.Flags().Float64Var(&maxTime, "time", config.DefaultMaxTime, "maximum simulated time (s)")
	cmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().BoolVar(&subStep, "substep", false, "split long frames instead of clamping them")
}

// resolveConfig layers scenario defaults, then a preset, then a config
// file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command, scenario string) (*config.Config, error) {
	cfg := config.ForScenario(scenario)

	if preset != "" {
		p := config.GetPreset(scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scenario))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if loaded.Scenario != scenario {
			return nil, fmt.Errorf("config file is for scenario %s, not %s", loaded.Scenario, scenario)
		}
		cfg = loaded
	}

	overrides := []struct {
		flag  string
		value float64
	}{
		{"mass1", mass1},
		{"velocity1", velocity1},
		{"mass2", mass2},
		{"velocity2", velocity2},
		{"restitution", restitution},
		{"force", force},
		{"duration", duration},
	}
	for _, o := range overrides {
		if !cmd.Flags().Changed(o.flag) {
			continue
		}
		if err := cfg.Set(o.flag, o.value); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("time") {
		cfg.MaxTime = maxTime
	}
	if cmd.Flags().Changed("substep") {
		cfg.SubStep = subStep
	}
	if cmd.Flags().Changed("fps") {
		if frameRate <= 0 {
			return nil, fmt.Errorf("fps must be positive, got %d", frameRate)
		}
		cfg.FrameDt = 1 / float64(frameRate)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setup(cmd *cobra.Command, scenario string) (*config.Config, *experiment.Experiment, error) {
	cfg, err := resolveConfig(cmd, scenario)
	if err != nil {
		return nil, nil, err
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry(), nil); err != nil {
		return nil, nil, err
	}
	exp.GetSimulator().AddObserver(sim.NewLogObserver(slog.Default()))
	return cfg, exp, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, exp, err := setup(cmd, args[0])
	if err != nil {
		return err
	}

	if watch {
		every := int(math.Round(1 / cfg.FrameDt / 10))
		live := tui.NewLiveRenderer(os.Stdout, cfg.Params(), cfg.Layout.TrackWidth, every)
		exp.GetSimulator().AddObserver(live)
	}

	start := time.Now()
	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if svgPath != "" {
		f, err := os.Create(svgPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteSVG(f, result, 800, 400); err != nil {
			return err
		}
	}

	switch {
	case jsonOut:
		simCfg := sim.Config{FrameDt: cfg.FrameDt, MaxTime: cfg.MaxTime}
		var params map[string]float64
		if c, ok := exp.Scenario().(dynamo.Configurable); ok {
			params = c.GetParams()
		}
		return export.WriteJSON(os.Stdout, export.NewMeta(result, simCfg, params), result)
	case csvOut:
		return export.WriteCSV(os.Stdout, result)
	}

	printSummary(result, elapsed)
	return nil
}

func printSummary(result *sim.Result, elapsed time.Duration) {
	final := result.Final()

	fmt.Printf("%s: %s after %.2fs simulated (%d frames, %v)\n",
		result.Scenario, final.Phase, final.Elapsed, result.Frames, elapsed.Round(time.Microsecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nEVENT\tTIME\tV BEFORE\tV AFTER")
	for _, e := range result.Events {
		fmt.Fprintf(w, "%s\t%.3fs\t%.3f, %.3f\t%.3f, %.3f\n",
			e.Kind, e.Time, e.Before[0], e.Before[1], e.After[0], e.After[1])
	}
	w.Flush()

	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\n\tBEFORE\tAFTER\tDELTA")
	fmt.Fprintf(w, "momentum\t%.4f\t%.4f\t%.4f\n",
		final.MomentumBefore, final.MomentumAfter, final.MomentumAfter-final.MomentumBefore)
	fmt.Fprintf(w, "kinetic\t%.4f\t%.4f\t%.4f\n",
		final.KineticBefore, final.KineticAfter, final.KineticAfter-final.KineticBefore)
	w.Flush()

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	for _, e := range result.Errors {
		fmt.Printf("  error: %v\n", e)
	}
}

// runLive drives a clock in real time from a ticker until the run stops
// or the user interrupts.
func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	clock, err := experiment.Build(experiment.NewRegistry(), cfg)
	if err != nil {
		return err
	}

	live := tui.NewLiveRenderer(os.Stdout, cfg.Params(), cfg.Layout.TrackWidth, 1)
	live.Redraw = true
	clock.AddObserver(live)
	clock.AddObserver(sim.NewLogObserver(slog.Default()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	frame := time.Duration(cfg.FrameDt * float64(time.Second))
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	live.Start()
	defer live.Stop()

	loop := sim.NewLoop(clock)
	errc := make(chan error, 1)
	go func() { errc <- loop.Run(ctx, ticker.C) }()
	<-loop.Ready()

	if err := loop.Start(); err != nil {
		return err
	}

	deadline := time.After(time.Duration(cfg.MaxTime * float64(time.Second)))
	for {
		select {
		case s := <-loop.Snapshots():
			if s.Phase == dynamo.Stopped {
				loop.Stop()
				return <-errc
			}
		case <-deadline:
			loop.Stop()
			return <-errc
		case err := <-errc:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

func plotScenario(cmd *cobra.Command, args []string) error {
	_, exp, err := setup(cmd, args[0])
	if err != nil {
		return err
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	if len(result.Snapshots) == 0 {
		return fmt.Errorf("no data to plot")
	}

	final := result.Final()
	fmt.Printf("scenario: %s\n", result.Scenario)
	fmt.Printf("samples: %d\n\n", len(result.Snapshots))

	series := func(pick func(dynamo.BodyState) float64) [][]float64 {
		out := make([][]float64, final.Count)
		for b := range out {
			out[b] = make([]float64, len(result.Snapshots))
			for i, s := range result.Snapshots {
				out[b][i] = pick(s.Bodies[b])
			}
		}
		return out
	}
	colors := asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red)

	fmt.Println(asciigraph.PlotMany(series(func(b dynamo.BodyState) float64 { return b.Position }),
		asciigraph.Height(10),
		asciigraph.Width(80),
		colors,
		asciigraph.Caption("position (track units)"),
	))
	fmt.Println()
	fmt.Println(asciigraph.PlotMany(series(func(b dynamo.BodyState) float64 { return b.Velocity }),
		asciigraph.Height(10),
		asciigraph.Width(80),
		colors,
		asciigraph.Caption("velocity (m/s)"),
	))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, p := range sweepParams {
		name, spec, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("invalid --param %q, want name=values", p)
		}
		values, err := optim.ParseValues(spec)
		if err != nil {
			return fmt.Errorf("--param %s: %w", name, err)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	gs := optim.NewGridSearch(names, ranges)
	gs.Maximize = maximize
	slog.Info("sweep", "scenario", cfg.Scenario, "runs", gs.Size(), "metric", metricName)

	start := time.Now()
	points, err := gs.Search(context.Background(), cfg, experiment.NewRegistry(), metricName)
	if err != nil {
		return err
	}
	fmt.Printf("%d runs in %v\n\n", len(points), time.Since(start).Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metricName)+"\tEVENTS\tSTOPPED")
	for i, p := range points {
		if i >= topN {
			break
		}
		for _, name := range names {
			fmt.Fprintf(w, "%.3f\t", p.Params[name])
		}
		fmt.Fprintf(w, "%.6f\t%d\t%v\n", p.Value, p.Events, p.Stopped)
	}
	return w.Flush()
}
