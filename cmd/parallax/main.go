package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/parallax/internal/analysis"
	"github.com/san-kum/parallax/internal/audio"
	"github.com/san-kum/parallax/internal/automation"
	"github.com/san-kum/parallax/internal/config"
	"github.com/san-kum/parallax/internal/experiment"
	"github.com/san-kum/parallax/internal/export"
	"github.com/san-kum/parallax/internal/gui"
	"github.com/san-kum/parallax/internal/logging"
	"github.com/san-kum/parallax/internal/sim"
	"github.com/san-kum/parallax/internal/storage"
	"github.com/san-kum/parallax/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFile    string
	seed       int64
	frameRate  int
	speed      float64
	distX      float64
	distY      float64
	theme      string
	playing    bool
	// run / snapshot
	frames  int
	runName string
	outDir  string
	// live / gui
	gifPath string
	sound   bool
	// plot
	svgPath string
	// table
	sweepStar  string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

// main registers the commands and runs the root command. With no subcommand
// it opens the preset menu and then the live view.
func main() {
	rootCmd := &cobra.Command{
		Use:   "parallax",
		Short: "stellar parallax visualizer",
		Long: "Watch Earth orbit the Sun while a near star X and a far star Y shift\n" +
			"against the fixed background. Closer stars shift more.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if preset == "" && configFile == "" {
				items := make([]viz.PickerItem, 0, len(config.Presets))
				for _, name := range config.ListPresets() {
					items = append(items, viz.PickerItem{Name: name, Description: config.PresetDescriptions[name]})
				}
				picked, err := viz.Pick(items)
				if err != nil {
					return err
				}
				if picked == "" {
					return nil
				}
				preset = picked
			}
			return runLive(cmd, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".parallax", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.Int64Var(&seed, "seed", config.DefaultSeed, "background star seed")
	pf.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	pf.Float64Var(&speed, "speed", sim.DefaultSpeed, "orbit speed multiplier")
	pf.Float64Var(&distX, "distance-x", sim.DefaultDistanceX, "distance to star X (pc)")
	pf.Float64Var(&distY, "distance-y", sim.DefaultDistanceY, "distance to star Y (pc)")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	pf.BoolVar(&playing, "playing", false, "start with the orbit playing")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive parallax view",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&gifPath, "gif", "parallax.gif", "where the g key saves recordings")
	liveCmd.Flags().BoolVar(&sound, "sound", false, "chime when Earth reaches A or B")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "parallax view in a graphical window",
		RunE:  runGUI,
	}
	guiCmd.Flags().BoolVar(&sound, "sound", false, "chime when Earth reaches A or B")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and save the frames",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&frames, "frames", 0, "frames to simulate (0 = one orbit)")
	runCmd.Flags().StringVar(&runName, "name", "parallax", "run name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the apparent shift of X and Y",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the trace as svg")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the apparent shift",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "write svg snapshots of both views",
		RunE:  snapshot,
	}
	snapshotCmd.Flags().IntVar(&frames, "frames", 0, "frames to advance before the snapshot")
	snapshotCmd.Flags().StringVar(&outDir, "out", ".", "output directory")

	tableCmd := &cobra.Command{
		Use:   "table",
		Short: "parallax and apparent shift across distances",
		RunE:  distanceTable,
	}
	tableCmd.Flags().StringVar(&sweepStar, "star", "x", "star to move (x or y)")
	tableCmd.Flags().Float64Var(&sweepMin, "min", 1, "nearest distance (pc)")
	tableCmd.Flags().Float64Var(&sweepMax, "max", 10, "farthest distance (pc)")
	tableCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of distances")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDIST X\tDIST Y\tSPEED\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.1f pc\t%.1f pc\t%.1fx\t%s\n",
					name, p.Stars.X.Distance, p.Stars.Y.Distance, p.Speed, config.PresetDescriptions[name])
			}
			return w.Flush()
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	rootCmd.AddCommand(liveCmd, guiCmd, runCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd,
		snapshotCmd, tableCmd, presetsCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers the preset, the config file and any flags the user
// set, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("distance-x") {
		cfg.Stars.X.Distance = distX
	}
	if flags.Changed("distance-y") {
		cfg.Stars.Y.Distance = distY
	}
	if flags.Changed("playing") {
		cfg.Playing = playing
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("theme") {
		if !viz.HasTheme(theme) {
			return nil, fmt.Errorf("unknown theme: %s (available: %v)", theme, viz.ThemeNames())
		}
		cfg.Theme = theme
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// headlessLogger logs to stderr, or to --log-file when given.
func headlessLogger() (*log.Logger, io.Closer, error) {
	if logFile != "" {
		return logging.Open(logFile, logLevel)
	}
	return logging.New(os.Stderr, logLevel), io.NopCloser(nil), nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the view, so logs only go to a file.
	logger := logging.Discard()
	if logFile != "" {
		l, closer, err := logging.Open(logFile, logLevel)
		if err != nil {
			return err
		}
		defer closer.Close()
		logger = l
	}

	s, err := sim.New(cfg.SimConfig())
	if err != nil {
		return err
	}
	defer attachChime(s, logger)()
	logger.Info("starting live view", "preset", preset, "distance_x", cfg.Stars.X.Distance,
		"distance_y", cfg.Stars.Y.Distance, "speed", cfg.Speed, "fps", cfg.FPS)

	m := viz.NewModel(s, cfg.NewBackdrop(), viz.Options{
		FPS:     cfg.FPS,
		Theme:   cfg.Theme,
		GIFPath: gifPath,
		Logger:  logger,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// attachChime starts the apsis chime when --sound is set and returns the
// function that stops it. A missing audio device is logged, not fatal.
func attachChime(s *sim.Simulator, logger *log.Logger) func() {
	if !sound {
		return func() {}
	}
	chime := audio.NewChime()
	if err := chime.Start(); err != nil {
		logger.Warn("sound disabled", "err", err)
		return func() {}
	}
	s.AddObserver(chime)
	return chime.Stop
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, closer, err := headlessLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	s, err := sim.New(cfg.SimConfig())
	if err != nil {
		return err
	}
	defer attachChime(s, logger)()

	gui.Run(s, cfg.NewBackdrop(), gui.Options{FPS: cfg.FPS, Theme: cfg.Theme, Logger: logger})
	return nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, closer, err := headlessLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	simCfg := cfg.SimConfig()
	simCfg.Playing = true
	n := frames
	if n <= 0 {
		n = automation.OrbitFrames(simCfg.Speed)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(experiment.Config{Name: runName, Sim: simCfg, Frames: n, Seed: cfg.Seed})
	if err != nil {
		return err
	}

	logger.Info("running headless", "frames", n, "distance_x", simCfg.DistanceX, "distance_y", simCfg.DistanceY)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(runName, cfg.Seed, result, exp.Metrics())
	if err != nil {
		return err
	}
	logger.Debug("saved run", "dir", filepath.Join(dataDir, runID))

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(result.Frames))
	fmt.Println("\nmetrics:")
	values := exp.Metrics()
	for _, name := range metricNames(values) {
		fmt.Printf("  %s: %.6f\n", name, values[name])
	}

	return nil
}

func metricNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tFRAMES\tSPEED\tDIST X\tDIST Y")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1fx\t%.1f pc\t%.1f pc\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Speed,
			run.DistanceX,
			run.DistanceY,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []storage.FrameRecord, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	recs, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(recs) == 0 {
		return nil, nil, fmt.Errorf("no data in run %s", runID)
	}
	return meta, recs, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, recs, err := loadRun(args[0])
	if err != nil {
		return err
	}

	offX, err := storage.Column(recs, "offset_x")
	if err != nil {
		return err
	}
	offY, err := storage.Column(recs, "offset_y")
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("stars: X %.1f pc, Y %.1f pc\n", meta.DistanceX, meta.DistanceY)
	fmt.Printf("samples: %d\n\n", len(recs))

	graph := asciigraph.PlotMany([][]float64{offX, offY},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("apparent shift of X and Y (strip px)"),
	)
	fmt.Println(graph)
	fmt.Println()

	if svgPath != "" {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		th := viz.GetTheme(cfg.Theme)
		svg := export.TraceToSVG([][]float64{offX, offY},
			[]string{string(th.StarX), string(th.StarY)}, 800, 300)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, recs, err := loadRun(args[0])
	if err != nil {
		return err
	}

	data, err := storage.Column(recs, "offset_x")
	if err != nil {
		return err
	}

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:len(ps)/4]
	if len(plotData) > 1 {
		graph := asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (offset_x)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	period, err := analysis.DominantPeriod(data)
	if err != nil {
		return err
	}
	expected := analysis.OrbitPeriod(meta.Speed)
	fmt.Printf("dominant period: %.1f frames\n", period)
	fmt.Printf("orbit period:    %.1f frames at %.1fx\n", expected, meta.Speed)
	fmt.Printf("ratio:           %.3f\n", period/expected)

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, recs, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, recs)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, recs, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, recs)
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	s, err := sim.New(cfg.SimConfig())
	if err != nil {
		return err
	}
	s.SetPlaying(true)
	for i := 0; i < frames; i++ {
		s.Step()
	}
	f := s.Frame()
	th := viz.GetTheme(cfg.Theme)
	bg := cfg.NewBackdrop()

	overhead := viz.NewCanvas(80, 30)
	cw, ch := overhead.PixelSize()
	viz.DrawOverhead(overhead, viz.FitOverhead(cw, ch), f, bg, th)

	celestial := viz.NewCanvas(80, 6)
	viz.DrawCelestial(celestial, viz.TargetAngles(f), bg, th)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	files := map[string]string{
		"overhead.svg":         export.FrameToSVG(f, th, 500, 510),
		"overhead-braille.svg": export.CanvasToSVG(overhead, 4),
		"celestial.svg":        export.CanvasToSVG(celestial, 4),
	}
	for _, name := range []string{"overhead.svg", "overhead-braille.svg", "celestial.svg"} {
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, []byte(files[name]), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	fmt.Printf("frame %d, earth %s\n", f.Index, f.Location)

	return nil
}

func distanceTable(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	id, err := sim.ParseStarID(sweepStar)
	if err != nil {
		return err
	}
	logger, closer, err := headlessLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	results, err := automation.RunSweep(context.Background(), &automation.DistanceSweep{
		Star:     id,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
	}, cfg.SimConfig(), automation.Options{Seed: cfg.Seed, Logger: logger})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "STAR %v\tPARALLAX\tSHIFT\tSTRIP RANGE\n", id)
	for _, r := range results {
		fmt.Fprintf(w, "%.2f pc\t%.3f\"\t%.2f°\t%.1f px\n", r.Distance, r.Parallax, r.ShiftAngle, r.OffsetRange)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	logger, closer, err := headlessLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	logger.Info("running scenario", "name", sc.Name, "steps", len(sc.Steps))
	results, err := automation.RunScenario(context.Background(), sc, cfg.SimConfig(),
		automation.Options{Store: st, Seed: cfg.Seed, Logger: logger})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN\tFRAMES\tDIST X\tDIST Y\tRANGE X\tRANGE Y")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.1f pc\t%.1f pc\t%.1f px\t%.1f px\n",
			r.Step, r.RunID, r.Frames, r.Config.DistanceX, r.Config.DistanceY,
			r.Metrics["offset_range_x"], r.Metrics["offset_range_y"])
	}
	return w.Flush()
}
