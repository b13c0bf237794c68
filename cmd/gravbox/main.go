package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/gravbox/internal/analysis"
	"github.com/san-kum/gravbox/internal/config"
	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/export"
	"github.com/san-kum/gravbox/internal/logging"
	"github.com/san-kum/gravbox/internal/metrics"
	"github.com/san-kum/gravbox/internal/optim"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/scene"
	"github.com/san-kum/gravbox/internal/sim"
	"github.com/san-kum/gravbox/internal/storage"
	"github.com/san-kum/gravbox/internal/viz"
)

var (
	configFile string
	dataDir    string
	logLevel   string
	logFormat  string
	ticks      int
	sampleRate int
	fps        int
	gravity    float64
	debug      bool
	plot       bool
	copies     int
	spawnX     float64
	spawnY     float64
	trailLimit int
	epsilon    float64
	gValues    []float64
	pullValues []float64
	metricName string
)

// env is what every command needs once flags and config are merged.
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *scene.Registry
	store    *storage.Store
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "gravbox",
		Short:        "2d gravity sandbox",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.logger.Sync()
			return viz.RunMenu(e.liveOptions(e.cfg.Scene, true))
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "save slot directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console or json)")
	rootCmd.PersistentFlags().Float64Var(&gravity, "g", config.DefaultG, "gravitational constant")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "advance a scene headless and save the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to simulate")
	runCmd.Flags().IntVar(&sampleRate, "sample", 10, "record metrics every n ticks")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot metrics when done")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().BoolVar(&debug, "debug", false, "draw collider outlines")
	liveCmd.Flags().Float64Var(&spawnX, "spawn-x", config.DefaultSpawnX, "black hole spawn x")
	liveCmd.Flags().Float64Var(&spawnY, "spawn-y", config.DefaultSpawnY, "black hole spawn y")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenes",
		RunE:  listPresets,
	}

	saveCmd := &cobra.Command{
		Use:   "save [scene] [file]",
		Short: "write a scene's world record to a file",
		Args:  cobra.ExactArgs(2),
		RunE:  saveRecord,
	}
	saveCmd.Flags().IntVar(&ticks, "ticks", 0, "ticks to simulate before saving")

	loadCmd := &cobra.Command{
		Use:   "load [file]",
		Short: "load a world record and describe its bodies",
		Args:  cobra.ExactArgs(1),
		RunE:  loadRecord,
	}
	loadCmd.Flags().IntVar(&ticks, "ticks", 0, "ticks to simulate after loading")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list save slots",
		RunE:  listSlots,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [slot]",
		Short: "plot a slot's metric history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotSlot,
	}

	exportCmd := &cobra.Command{
		Use:   "export [slot]",
		Short: "export a slot as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSlot,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "advance copies of a scene concurrently and report throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	benchCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks per copy")
	benchCmd.Flags().IntVar(&copies, "copies", 4, "number of independent worlds")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scene] [file]",
		Short: "render a scene with its orbit trails to svg",
		Args:  cobra.ExactArgs(2),
		RunE:  snapshotScene,
	}
	snapshotCmd.Flags().IntVar(&ticks, "ticks", 500, "ticks to trace")
	snapshotCmd.Flags().IntVar(&trailLimit, "trail", 0, "max points per trail (0 keeps all)")

	chaosCmd := &cobra.Command{
		Use:   "chaos [scene]",
		Short: "measure how fast a nudged copy of a scene diverges",
		Args:  cobra.MaximumNArgs(1),
		RunE:  chaosScene,
	}
	chaosCmd.Flags().IntVar(&ticks, "ticks", 500, "ticks to follow")
	chaosCmd.Flags().Float64Var(&epsilon, "epsilon", 1e-6, "initial nudge to the first body")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "grid search gravity parameters against a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepScene,
	}
	sweepCmd.Flags().IntVar(&ticks, "ticks", 500, "ticks per trial")
	sweepCmd.Flags().Float64SliceVar(&gValues, "g-values", []float64{0.5, 1, 2}, "gravitational constants to try")
	sweepCmd.Flags().Float64SliceVar(&pullValues, "pull-values", []float64{config.DefaultBlackHolePull}, "black hole pulls to try")
	sweepCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimise")

	configCmd := &cobra.Command{
		Use:   "config [file]",
		Short: "write the effective configuration to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], e.cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, presetsCmd, saveCmd, loadCmd, listCmd, plotCmd, exportCmd, benchCmd, snapshotCmd, chaosCmd, sweepCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the config file, lets explicitly set flags override it and
// builds the shared collaborators.
func setup(cmd *cobra.Command) (*env, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data") || configFile == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if flags.Changed("g") {
		cfg.Physics.G = gravity
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("fps") {
		cfg.Render.FPS = fps
	}
	if flags.Changed("debug") {
		cfg.Render.Debug = debug
	}
	if flags.Changed("spawn-x") {
		cfg.Spawn.X = spawnX
	}
	if flags.Changed("spawn-y") {
		cfg.Spawn.Y = spawnY
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	registry := scene.NewRegistry()
	if err := registry.RegisterConfig(cfg.Scenes); err != nil {
		return nil, err
	}

	return &env{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		store:    storage.New(cfg.DataDir),
	}, nil
}

func (e *env) sceneArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return e.cfg.Scene
}

func (e *env) newWorld(background bool) *sim.World {
	opts := []sim.Option{
		sim.WithGravity(e.cfg.Gravity()),
		sim.WithValidation(e.cfg.Physics.ValidateState),
		sim.WithDebug(e.cfg.Render.Debug),
		sim.WithLogger(e.logger),
	}
	if background {
		sky := viz.Starfield(int(e.cfg.Render.Width), int(e.cfg.Render.Height), e.cfg.Render.Stars, uint64(time.Now().UnixNano()))
		opts = append(opts, sim.WithBackground(sky))
	}
	return sim.New(opts...)
}

func (e *env) liveOptions(name string, background bool) viz.Options {
	return viz.Options{
		Registry:    e.registry,
		World:       e.newWorld(background),
		Store:       e.store,
		Scene:       name,
		Spawn:       dynamo.V(e.cfg.Spawn.X, e.cfg.Spawn.Y),
		FPS:         e.cfg.Render.FPS,
		MaxStep:     e.cfg.Render.MaxStep,
		WorldWidth:  e.cfg.Render.Width,
		WorldHeight: e.cfg.Render.Height,
		Theme:       e.cfg.Render.Theme,
		Logger:      e.logger,
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	if err := e.store.Init(); err != nil {
		return err
	}
	return viz.Run(e.liveOptions(e.sceneArg(args), true))
}

func runScene(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	name := e.sceneArg(args)
	w := e.newWorld(false)
	if err := e.registry.Apply(w, name); err != nil {
		return err
	}

	rec := metrics.NewRecorder(sampleRate, metrics.Standard()...)
	w.AddObserver(rec)

	if err := e.store.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s for %d ticks...\n", name, e.cfg.Ticks)
	start := time.Now()

	loop := sim.NewLoop(w, sim.NewClock(e.cfg.Render.MaxStep, nil), nil, 0, e.logger)
	runErr := loop.Run(ctx, e.cfg.Ticks, nil)
	if runErr != nil && ctx.Err() == nil {
		e.logger.Warn("run stopped early", zap.Int("tick", w.Tick()), zap.Error(runErr))
	}
	elapsed := time.Since(start)

	series := recorderSeries(rec)
	slotID, err := e.store.Save(storage.SlotMetadata{
		Name:    name,
		Scene:   name,
		Tick:    w.Tick(),
		Bodies:  len(w.Bodies()),
		Metrics: rec.Final(),
	}, w.Save(), series)
	if err != nil {
		return err
	}

	stats := w.Stats()
	fmt.Printf("completed %d ticks in %v\n", w.Tick(), elapsed)
	fmt.Printf("slot id: %s\n", slotID)
	fmt.Printf("bodies: %d (merges %d, collapses %d)\n", len(w.Bodies()), stats.Merges, stats.Collapses)
	fmt.Println("\nmetrics:")
	for _, metric := range rec.Names() {
		fmt.Printf("  %s: %.6f\n", metric, rec.Final()[metric])
	}

	if plot {
		fmt.Println()
		printPlots(series)
	}
	return runErr
}

func recorderSeries(rec *metrics.Recorder) *storage.Series {
	series := &storage.Series{
		Names:   rec.Names(),
		Ticks:   rec.Ticks(),
		Columns: make(map[string][]float64),
	}
	for _, name := range series.Names {
		series.Columns[name] = rec.Series(name)
	}
	return series
}

func printPlots(series *storage.Series) {
	for _, name := range series.Names {
		data := series.Columns[name]
		if len(data) < 2 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(strings.ReplaceAll(name, "_", " ")+" vs tick"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
}

func listPresets(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tBODIES\tDESCRIPTION")
	for _, name := range e.registry.Names() {
		s, err := e.registry.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.Name, len(s.Bodies), s.Description)
	}
	return w.Flush()
}

func saveRecord(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	w := e.newWorld(false)
	if err := e.registry.Apply(w, args[0]); err != nil {
		return err
	}
	if err := advance(cmd, w); err != nil {
		return err
	}

	if err := os.WriteFile(args[1], []byte(w.Save()), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %d bodies at tick %d to %s\n", len(w.Bodies()), w.Tick(), args[1])
	return nil
}

func loadRecord(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	w := e.newWorld(false)
	if err := w.Load(strings.TrimSpace(string(data))); err != nil {
		return err
	}
	if err := advance(cmd, w); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tPOSITION\tVELOCITY\tMASS\tRADIUS")
	for _, b := range w.Bodies() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%g\t%g\n", b.ID, b.Kind.Name, b.Position, b.Velocity, b.Mass, b.Radius)
	}
	return tw.Flush()
}

// advance steps w by --ticks when the flag was given explicitly.
func advance(cmd *cobra.Command, w *sim.World) error {
	if !cmd.Flags().Changed("ticks") {
		return nil
	}
	for i := 0; i < ticks; i++ {
		if err := w.Update(); err != nil {
			return err
		}
	}
	return nil
}

func listSlots(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	slots, err := e.store.List()
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Println("no save slots found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tTICK\tBODIES\tCHECKSUM")
	for _, slot := range slots {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			slot.ID,
			slot.Scene,
			slot.Timestamp.Format("2006-01-02 15:04:05"),
			slot.Tick,
			slot.Bodies,
			slot.Checksum,
		)
	}
	return w.Flush()
}

func plotSlot(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	meta, err := e.store.Load(args[0])
	if err != nil {
		return err
	}
	series, err := e.store.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("slot %s has no metric history", args[0])
	}

	fmt.Printf("slot: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", series.Len())
	printPlots(series)
	return nil
}

func exportSlot(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	return e.store.ExportJSON(os.Stdout, args[0])
}

func benchScene(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	name := e.sceneArg(args)
	jobs := make([]sim.Job, copies)
	for i := range jobs {
		w := sim.New(sim.WithGravity(e.cfg.Gravity()), sim.WithValidation(e.cfg.Physics.ValidateState))
		if err := e.registry.Apply(w, name); err != nil {
			return err
		}
		jobs[i] = sim.Job{Name: fmt.Sprintf("%s#%d", name, i), World: w, Ticks: e.cfg.Ticks}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("benchmarking %s: %d worlds x %d ticks\n\n", name, copies, e.cfg.Ticks)
	start := time.Now()
	outcomes, err := sim.RunEnsemble(ctx, jobs)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORLD\tTICKS\tBODIES\tMERGES\tCOLLAPSES")
	total := 0
	for _, o := range outcomes {
		total += o.Ticks
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", o.Name, o.Ticks, o.Bodies, o.Stats.Merges, o.Stats.Collapses)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d ticks in %v (%.0f ticks/sec)\n", total, elapsed, float64(total)/elapsed.Seconds())
	return nil
}

func snapshotScene(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	w := e.newWorld(true)
	if err := e.registry.Apply(w, args[0]); err != nil {
		return err
	}
	tracer := export.NewTracer(trailLimit)
	w.AddObserver(tracer)

	for i := 0; i < ticks; i++ {
		if err := w.Update(); err != nil {
			return err
		}
	}

	svg := export.Snapshot(w, tracer, e.cfg.Render.Width, e.cfg.Render.Height)
	if err := os.WriteFile(args[1], []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s at tick %d (%d bodies)\n", args[1], w.Tick(), len(w.Bodies()))
	return nil
}

func chaosScene(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	name := e.sceneArg(args)
	w := e.newWorld(false)
	if err := e.registry.Apply(w, name); err != nil {
		return err
	}

	res, err := analysis.Divergence(w, epsilon, ticks)
	if err != nil {
		return err
	}

	fmt.Printf("scene: %s\n", name)
	fmt.Printf("exponent: %.6f per tick\n", res.Exponent)
	if res.Split > 0 {
		fmt.Printf("body counts diverged at tick %d\n", res.Split)
	}
	if len(res.Separation) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(res.Separation,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("separation vs tick"),
		))
	}
	return nil
}

func sweepScene(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	name := e.sceneArg(args)
	if _, err := e.registry.Get(name); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	search := optim.NewGridSearch([]string{"g", "pull"}, [][]float64{gValues, pullValues})
	best, value, err := search.Search(ctx, func(ctx context.Context, p map[string]float64) (float64, error) {
		w := sim.New(
			sim.WithGravity(physics.Gravity{G: p["g"], BlackHolePull: p["pull"]}),
			sim.WithValidation(e.cfg.Physics.ValidateState),
		)
		if err := e.registry.Apply(w, name); err != nil {
			return 0, err
		}
		rec := metrics.NewRecorder(ticks, metrics.Standard()...)
		w.AddObserver(rec)

		loop := sim.NewLoop(w, sim.NewClock(e.cfg.Render.MaxStep, nil), nil, 0, e.logger)
		if err := loop.Run(ctx, ticks, nil); err != nil {
			return 0, err
		}
		v, ok := rec.Final()[metricName]
		if !ok {
			return 0, fmt.Errorf("unknown metric %q (available: %v)", metricName, rec.Names())
		}
		return v, nil
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "G\tPULL\t%s\n", strings.ToUpper(metricName))
	for _, trial := range search.Trials() {
		result := fmt.Sprintf("%.6f", trial.Value)
		if trial.Err != nil {
			result = "error: " + trial.Err.Error()
		}
		fmt.Fprintf(w, "%g\t%g\t%s\n", trial.Params["g"], trial.Params["pull"], result)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: g=%g pull=%g (%s %.6f)\n", best["g"], best["pull"], metricName, value)
	return nil
}
