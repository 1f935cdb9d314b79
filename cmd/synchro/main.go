package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/cmplx"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/mjibson/go-dsp/fft"
	"github.com/spf13/cobra"

	"github.com/san-kum/synchro/internal/beam"
	"github.com/san-kum/synchro/internal/config"
	"github.com/san-kum/synchro/internal/export"
	"github.com/san-kum/synchro/internal/numeric"
	"github.com/san-kum/synchro/internal/phasespace"
	"github.com/san-kum/synchro/internal/scenario"
	"github.com/san-kum/synchro/internal/store"
	"github.com/san-kum/synchro/internal/tracking"
	"github.com/san-kum/synchro/internal/viz"
)

var (
	dataDir    string
	configFile string
	verbose    bool

	turn      int
	nPoints   int
	margin    float64
	smoothWin int
	voltage   float64
	harmonic  float64

	nProbes    int
	trackTurns int
	nSampling  int
	thetaMin   float64
	thetaMax   float64

	scanFrom  float64
	scanTo    float64
	scanSteps int
	scanRatio bool

	liveProbes int

	svgPath string
	jsonOut bool
	save    bool
	outPath string
)

var presetNotes = map[string]string{
	"default":          "flat-momentum single-harmonic reference bucket",
	"single_rf":        "same machine as default under its explicit name",
	"double_rf_bs":     "half-voltage second harmonic in counter phase, bunch shortening",
	"double_rf_bl":     "half-voltage second harmonic in phase, bunch lengthening",
	"accelerating":     "linear momentum ramp over the cycle",
	"below_transition": "small low-energy ring with negative slip factor",
}

// main registers the command tree and executes the root command; it exits
// the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "synchro",
		Short: "longitudinal beam dynamics lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
					&slog.HandlerOptions{Level: slog.LevelDebug})))
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".synchro", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")

	wellCmd := &cobra.Command{
		Use:   "well [setup]",
		Short: "potential well and bucket geometry",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWell,
	}
	wellCmd.Flags().IntVar(&turn, "turn", 0, "turn to evaluate")
	wellCmd.Flags().IntVar(&nPoints, "points", config.DefaultNPoints, "well resolution")
	wellCmd.Flags().Float64Var(&margin, "margin", config.DefaultMargin, "window margin per side, fraction of the rf period")
	wellCmd.Flags().Float64Var(&voltage, "voltage", config.DefaultVoltage, "fundamental rf voltage")
	wellCmd.Flags().Float64Var(&harmonic, "harmonic", config.DefaultHarmonic, "fundamental harmonic number")
	wellCmd.Flags().StringVar(&svgPath, "svg", "", "write the cut well as svg")

	sepCmd := &cobra.Command{
		Use:   "separatrix [setup]",
		Short: "bucket boundary and acceptance",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSeparatrix,
	}
	sepCmd.Flags().IntVar(&turn, "turn", 0, "turn to evaluate")
	sepCmd.Flags().IntVar(&nPoints, "points", config.DefaultNPoints, "grid resolution")
	sepCmd.Flags().Float64Var(&margin, "margin", config.DefaultMargin, "window margin per side, fraction of the rf period")
	sepCmd.Flags().Float64Var(&voltage, "voltage", config.DefaultVoltage, "fundamental rf voltage")
	sepCmd.Flags().Float64Var(&harmonic, "harmonic", config.DefaultHarmonic, "fundamental harmonic number")
	sepCmd.Flags().StringVar(&svgPath, "svg", "", "write both branches as svg")

	fsdistCmd := &cobra.Command{
		Use:   "fsdist [setup]",
		Short: "synchrotron frequency distribution",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFsdist,
	}
	fsdistCmd.Flags().IntVar(&turn, "turn", 0, "turn to evaluate")
	fsdistCmd.Flags().IntVar(&nPoints, "points", config.DefaultNPoints, "well resolution")
	fsdistCmd.Flags().Float64Var(&margin, "margin", config.DefaultMargin, "window margin per side, fraction of the rf period")
	fsdistCmd.Flags().IntVar(&smoothWin, "smooth", 0, "boxcar width for branch smoothing")
	fsdistCmd.Flags().Float64Var(&voltage, "voltage", config.DefaultVoltage, "fundamental rf voltage")
	fsdistCmd.Flags().Float64Var(&harmonic, "harmonic", config.DefaultHarmonic, "fundamental harmonic number")
	fsdistCmd.Flags().BoolVar(&save, "save", false, "save the distribution as a run")
	fsdistCmd.Flags().BoolVar(&jsonOut, "json", false, "write json to stdout instead of tables")

	trackCmd := &cobra.Command{
		Use:   "track [setup]",
		Short: "probe tracking with fft frequency readout",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTrack,
	}
	trackCmd.Flags().IntVar(&nProbes, "probes", config.DefaultNParticles, "probe count")
	trackCmd.Flags().IntVar(&trackTurns, "turns", config.DefaultNTurns, "turns to track")
	trackCmd.Flags().IntVar(&nSampling, "sampling", config.DefaultNSampling, "fft zero-padding length")
	trackCmd.Flags().Float64Var(&thetaMin, "theta-min", 0, "lower probe azimuth, rad")
	trackCmd.Flags().Float64Var(&thetaMax, "theta-max", 0, "upper probe azimuth, rad")
	trackCmd.Flags().Float64Var(&voltage, "voltage", config.DefaultVoltage, "fundamental rf voltage")
	trackCmd.Flags().Float64Var(&harmonic, "harmonic", config.DefaultHarmonic, "fundamental harmonic number")
	trackCmd.Flags().BoolVar(&save, "save", false, "save trajectories and distribution as a run")
	trackCmd.Flags().BoolVar(&jsonOut, "json", false, "write json to stdout instead of tables")

	scanCmd := &cobra.Command{
		Use:   "scan [setup]",
		Short: "sweep rf settings and tabulate bucket figures",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScan,
	}
	scanCmd.Flags().IntVar(&turn, "turn", 0, "turn to evaluate")
	scanCmd.Flags().IntVar(&nPoints, "points", config.DefaultNPoints, "grid resolution")
	scanCmd.Flags().Float64Var(&margin, "margin", config.DefaultMargin, "window margin per side, fraction of the rf period")
	scanCmd.Flags().Float64Var(&scanFrom, "from", 0.3e6, "first swept value")
	scanCmd.Flags().Float64Var(&scanTo, "to", 1.8e6, "last swept value")
	scanCmd.Flags().IntVar(&scanSteps, "steps", 8, "sweep points")
	scanCmd.Flags().BoolVar(&scanRatio, "ratio", false, "sweep the second-system voltage ratio instead of v1")

	liveCmd := &cobra.Command{
		Use:   "live [setup]",
		Short: "live phase-space view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&liveProbes, "probes", 64, "probe count")
	liveCmd.Flags().IntVar(&nPoints, "points", config.DefaultNPoints, "separatrix resolution")
	liveCmd.Flags().Float64Var(&margin, "margin", config.DefaultMargin, "window margin per side, fraction of the rf period")
	liveCmd.Flags().Float64Var(&voltage, "voltage", config.DefaultVoltage, "fundamental rf voltage")
	liveCmd.Flags().Float64Var(&harmonic, "harmonic", config.DefaultHarmonic, "fundamental harmonic number")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list machine presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := scenario.NewRegistry(nil)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDESCRIPTION")
			for _, name := range reg.List() {
				fmt.Fprintf(w, "%s\t%s\n", name, presetNotes[name])
			}
			return w.Flush()
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRunJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export stored trajectories as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRunSVG,
	}
	exportSVGCmd.Flags().StringVar(&outPath, "out", "", "output path, defaults to <run_id>.svg")

	rootCmd.AddCommand(wellCmd, sepCmd, fsdistCmd, trackCmd, scanCmd, liveCmd,
		presetsCmd, listCmd, exportJSONCmd, exportSVGCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupName(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "default"
}

// displayName labels output and stored runs: the config file stem when one
// was given, the setup name otherwise.
func displayName(args []string) string {
	if configFile != "" {
		base := filepath.Base(configFile)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return setupName(args)
}

// resolveConfig picks the run description: a config file when given, the
// named preset otherwise, with changed CLI flags overriding either.
func resolveConfig(cmd *cobra.Command, name string) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	} else {
		reg := scenario.NewRegistry(nil)
		c, err := reg.Config(name)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(reg.List(), ", "))
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("voltage") {
		cfg.RF[0].Voltage = voltage
	}
	if flags.Changed("harmonic") {
		cfg.RF[0].Harmonic = harmonic
	}
	if flags.Changed("points") {
		cfg.Analysis.NPoints = nPoints
	}
	if flags.Changed("margin") {
		cfg.Analysis.Margin = margin
	}
	if flags.Changed("smooth") {
		cfg.Analysis.SmoothWindow = smoothWin
	}
	if flags.Changed("probes") {
		cfg.Track.NParticles = nProbes
	}
	if flags.Changed("turns") {
		cfg.Track.NTurns = trackTurns
	}
	if flags.Changed("sampling") {
		cfg.Track.NSampling = nSampling
	}
	if flags.Changed("theta-min") {
		cfg.Track.ThetaMin = thetaMin
	}
	if flags.Changed("theta-max") {
		cfg.Track.ThetaMax = thetaMax
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runWell(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, setupName(args))
	if err != nil {
		return err
	}
	fr, err := scenario.Build(cfg)
	if err != nil {
		return err
	}

	timeCoord, well, err := fr.PotentialWell(turn, cfg.Analysis.NPoints, nil,
		cfg.Analysis.Margin, cfg.Analysis.HarmonicSelect())
	if err != nil {
		return err
	}

	diag := &phasespace.Diag{}
	cut, err := phasespace.PotentialWellCut(timeCoord, well, diag)
	if err != nil {
		return err
	}

	fmt.Printf("setup: %s\n", displayName(args))
	fmt.Printf("turn: %d\n", turn)
	fmt.Printf("window: %.3f to %.3f ns, %d points\n",
		timeCoord[0]*1e9, timeCoord[len(timeCoord)-1]*1e9, len(timeCoord))
	fmt.Printf("bucket: %.3f to %.3f ns, %d points (%s)\n\n",
		cut.Time[0]*1e9, cut.Time[len(cut.Time)-1]*1e9, len(cut.Time), cutCaseName(cut.Case))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EXTREMUM\tTIME [ns]\tWELL [eV]")
	for i, p := range cut.Extrema.MinPositions {
		fmt.Fprintf(w, "min\t%.4f\t%.4g\n", p*1e9, cut.Extrema.MinValues[i])
	}
	for i, p := range cut.Extrema.MaxPositions {
		fmt.Fprintf(w, "max\t%.4f\t%.4g\n", p*1e9, cut.Extrema.MaxValues[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.WellPlot(cut.Well, cfg.Viz.Width, 10))
	printDiagnostics(diag)

	if svgPath != "" {
		doc := export.CurvesToSVG([]export.Curve{{X: cut.Time, Y: cut.Well}}, 800, 500)
		if err := os.WriteFile(svgPath, []byte(doc), 0644); err != nil {
			return err
		}
		fmt.Printf("svg written: %s\n", svgPath)
	}
	return nil
}

func runSeparatrix(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, setupName(args))
	if err != nil {
		return err
	}
	fr, err := scenario.Build(cfg)
	if err != nil {
		return err
	}

	grid, sep, err := separatrixGrid(fr, cfg, turn)
	if err != nil {
		return err
	}
	height, area := bucketFigures(grid, sep)

	fmt.Printf("setup: %s\n", displayName(args))
	fmt.Printf("turn: %d\n", turn)
	fmt.Printf("synchronous phase: %.2f deg\n", fr.RF.PhiSAt(turn)*180/math.Pi)
	fmt.Printf("f_s0: %.2f Hz\n", fr.RF.OmegaS0(turn)/(2*math.Pi))
	fmt.Printf("bucket height: %.3f MeV\n", height/1e6)
	fmt.Printf("bucket area: %.4f eVs\n\n", area)

	fmt.Println(viz.SeparatrixPlot(sep, cfg.Viz.Width, 10))

	if svgPath != "" {
		lower := make([]float64, len(sep))
		for i, v := range sep {
			lower[i] = -v
		}
		doc := export.CurvesToSVG([]export.Curve{
			{X: grid, Y: sep},
			{X: grid, Y: lower},
		}, 800, 500)
		if err := os.WriteFile(svgPath, []byte(doc), 0644); err != nil {
			return err
		}
		fmt.Printf("svg written: %s\n", svgPath)
	}
	return nil
}

func runFsdist(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, setupName(args))
	if err != nil {
		return err
	}
	fr, err := scenario.Build(cfg)
	if err != nil {
		return err
	}

	diag := &phasespace.Diag{}
	opts := phasespace.DefaultFsOptions()
	opts.Turn = turn
	opts.NPoints = cfg.Analysis.NPoints
	opts.MarginPercent = cfg.Analysis.Margin
	opts.SmoothWindow = cfg.Analysis.SmoothWindow
	opts.Main = cfg.Analysis.HarmonicSelect()

	dist, err := phasespace.FrequencyDistribution(fr.RF, nil, fr, opts, diag)
	if err != nil {
		return err
	}

	fsCenter := 0.0
	if len(dist.FreqLeft) > 0 {
		fsCenter = dist.FreqLeft[0]
	}
	fs0An := fr.RF.OmegaS0(turn) / (2 * math.Pi)
	acceptance := 0.0
	if n := len(dist.EmittanceLeft); n > 0 {
		acceptance = dist.EmittanceLeft[n-1]
	}
	if n := len(dist.EmittanceRight); n > 0 && dist.EmittanceRight[n-1] > acceptance {
		acceptance = dist.EmittanceRight[n-1]
	}
	metrics := map[string]float64{
		"f_s0_hz":          fsCenter,
		"f_s0_analytic_hz": fs0An,
		"acceptance_evs":   acceptance,
	}

	if jsonOut {
		return store.ExportJSONStdout(displayName(args), nil, nil, dist, metrics)
	}

	fmt.Printf("setup: %s\n", displayName(args))
	fmt.Printf("turn: %d\n", turn)
	fmt.Printf("synchronous time: %.4f ns\n", dist.SynchronousTime*1e9)
	fmt.Printf("f_s(0): %.2f Hz (analytic %.2f Hz)\n", fsCenter, fs0An)
	fmt.Printf("branch points: %d left, %d right\n", len(dist.FreqLeft), len(dist.FreqRight))
	fmt.Printf("acceptance: %.4f eVs\n\n", acceptance)

	fmt.Println(asciigraph.PlotMany([][]float64{dist.FreqLeft, dist.FreqRight},
		asciigraph.Height(10),
		asciigraph.Width(cfg.Viz.Width),
		asciigraph.Caption("f_s outward from center, left and right flanks [Hz]"),
	))
	fmt.Println()
	fmt.Println(viz.DistributionPlot(dist.Freq, cfg.Viz.Width, 10))
	printDiagnostics(diag)

	if save {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.SaveRun(displayName(args), nil, dist, metrics)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", id)
	}
	return nil
}

func runTrack(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, setupName(args))
	if err != nil {
		return err
	}
	if cfg.Track.NTurns > cfg.Machine.NTurns {
		cfg.Machine.NTurns = cfg.Track.NTurns
	}
	fr, err := scenario.Build(cfg)
	if err != nil {
		return err
	}

	b, err := beam.New(fr.Ring, cfg.Track.NParticles, 0)
	if err != nil {
		return err
	}
	fr.Beam = b

	thetaRange := []float64{cfg.Track.ThetaMin, cfg.Track.ThetaMax}
	if cfg.Track.ThetaMin == 0 && cfg.Track.ThetaMax == 0 {
		lo, hi := probeFan(fr)
		scale := 2 * math.Pi / fr.Ring.TRevAt(0)
		thetaRange = []float64{lo * scale, hi * scale}
	}

	ft, err := phasespace.NewFrequencyTracker(fr, b, cfg.Track.NTurns, thetaRange, nil)
	if err != nil {
		return err
	}

	if !jsonOut {
		fmt.Printf("tracking %d probes for %d turns...\n", b.N(), cfg.Track.NTurns)
	}
	start := time.Now()
	for i := 0; i < cfg.Track.NTurns; i++ {
		if err := ft.Track(); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	freqs, err := ft.FrequencyCalculation(cfg.Track.NSampling, 0, 0)
	if err != nil {
		return err
	}

	diag := &phasespace.Diag{}
	opts := phasespace.DefaultFsOptions()
	opts.NPoints = cfg.Analysis.NPoints
	opts.MarginPercent = cfg.Analysis.Margin
	opts.SmoothWindow = cfg.Analysis.SmoothWindow
	opts.Main = cfg.Analysis.HarmonicSelect()
	dist, err := phasespace.FrequencyDistribution(fr.RF, ft.Beam, fr, opts, diag)
	if err != nil {
		return err
	}

	bin := freqs.FrequencyAxis[1] - freqs.FrequencyAxis[0]
	var diffSum float64
	var alive int
	for p, f := range freqs.FrequencyTheta {
		if f > 0 {
			diffSum += math.Abs(f - dist.ParticleFrequency[p])
			alive++
		}
	}
	meanDiff := 0.0
	if alive > 0 {
		meanDiff = diffSum / float64(alive)
	}
	metrics := map[string]float64{
		"f_s0_analytic_hz": fr.RF.OmegaS0(0) / (2 * math.Pi),
		"fft_bin_hz":       bin,
		"mean_abs_diff_hz": meanDiff,
	}

	if jsonOut {
		return store.ExportJSONStdout(displayName(args), ft, freqs, dist, metrics)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("fft bin width: %.3f Hz\n", bin)
	fmt.Printf("mean |fft - action| over %d live probes: %.3f Hz\n\n", alive, meanDiff)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROBE\tTHETA0 [mrad]\tFFT [Hz]\tACTION [Hz]\tDIFF [Hz]")
	for p := 0; p < b.N(); p++ {
		theta0 := ft.ThetaSave[0][p] * 1e3
		an := dist.ParticleFrequency[p]
		if freqs.FrequencyTheta[p] == 0 {
			fmt.Fprintf(w, "%d\t%.4f\tlost\t%.2f\t-\n", p, theta0, an)
			continue
		}
		fmt.Fprintf(w, "%d\t%.4f\t%.2f\t%.2f\t%+.2f\n",
			p, theta0, freqs.FrequencyTheta[p], an, freqs.FrequencyTheta[p]-an)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.PlotMany([][]float64{freqs.FrequencyTheta, dist.ParticleFrequency},
		asciigraph.Height(10),
		asciigraph.Width(cfg.Viz.Width),
		asciigraph.Caption("probe frequency: fft readout vs action integral [Hz]"),
	))

	mid := b.N() / 2
	series := make([]float64, ft.Turn()+1)
	for t := range series {
		series[t] = ft.ThetaSave[t][mid]
	}
	amp := amplitudeSpectrum(series, cfg.Track.NSampling)
	upper := int(4 * metrics["f_s0_analytic_hz"] * float64(cfg.Track.NSampling) * ft.TimeStep)
	if upper > len(amp) {
		upper = len(amp)
	}
	if upper > 16 {
		fmt.Println()
		fmt.Printf("probe %d spectrum:\n", mid)
		fmt.Println(viz.SpectrumPlot(amp[:upper], cfg.Viz.Width, 10))
	}
	printDiagnostics(diag)

	if save {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.SaveRun(displayName(args), ft, dist, metrics)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", id)
	}
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd, setupName(args))
	if err != nil {
		return err
	}
	if scanSteps < 2 {
		return fmt.Errorf("scan needs at least 2 steps")
	}
	if scanRatio && len(base.RF) < 2 {
		return fmt.Errorf("ratio scan needs a setup with a second rf system")
	}

	type figures struct {
		value  float64
		fs0    float64
		height float64
		area   float64
	}
	rows := make([]figures, scanSteps)

	err = tracking.Sweep(context.Background(), scanSteps, func(i int) error {
		val := scanFrom + (scanTo-scanFrom)*float64(i)/float64(scanSteps-1)
		cfg := base.Clone()
		if scanRatio {
			cfg.RF[1].Voltage = val * cfg.RF[0].Voltage
		} else {
			cfg.RF[0].Voltage = val
		}
		fr, err := scenario.Build(cfg)
		if err != nil {
			return err
		}
		grid, sep, err := separatrixGrid(fr, cfg, turn)
		if err != nil {
			return err
		}
		height, area := bucketFigures(grid, sep)
		rows[i] = figures{
			value:  val,
			fs0:    fr.RF.OmegaS0(turn) / (2 * math.Pi),
			height: height,
			area:   area,
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("setup: %s\n\n", displayName(args))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if scanRatio {
		fmt.Fprintln(w, "V2/V1\tF_S0 [Hz]\tHEIGHT [MeV]\tAREA [eVs]")
		for _, r := range rows {
			fmt.Fprintf(w, "%.3f\t%.2f\t%.3f\t%.4f\n", r.value, r.fs0, r.height/1e6, r.area)
		}
	} else {
		fmt.Fprintln(w, "V1 [MV]\tF_S0 [Hz]\tHEIGHT [MeV]\tAREA [eVs]")
		for _, r := range rows {
			fmt.Fprintf(w, "%.3f\t%.2f\t%.3f\t%.4f\n", r.value/1e6, r.fs0, r.height/1e6, r.area)
		}
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, setupName(args))
	if err != nil {
		return err
	}
	fr, err := scenario.Build(cfg)
	if err != nil {
		return err
	}

	lo, hi := probeFan(fr)
	b, err := beam.Linspaced(fr.Ring, liveProbes, lo, hi)
	if err != nil {
		return err
	}
	fr.Beam = b

	grid, sep, err := separatrixGrid(fr, cfg, 0)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(displayName(args), fr, grid, sep)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSETUP\tTIME\tTURNS\tPROBES\tT_REV")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4gs\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Turns,
			run.Probes,
			run.TimeStep,
		)
	}
	return w.Flush()
}

func exportRunJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	out := store.ExportData{
		Scenario: meta.Scenario,
		Turns:    meta.Turns,
		Probes:   meta.Probes,
		TimeStep: meta.TimeStep,
		Metrics:  meta.Metrics,
	}

	theta, de, err := st.LoadTrajectories(runID)
	if err != nil && !errors.Is(err, store.ErrRunNotFound) {
		return err
	}
	out.Theta = theta
	out.DE = de

	points, err := st.LoadDistribution(runID)
	if err != nil && !errors.Is(err, store.ErrRunNotFound) {
		return err
	}
	for _, p := range points {
		out.Hamiltonian = append(out.Hamiltonian, p.H)
		out.Frequency = append(out.Frequency, p.Frequency)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func exportRunSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	theta, de, err := st.LoadTrajectories(runID)
	if err != nil {
		return err
	}
	if len(theta) == 0 {
		return fmt.Errorf("no trajectories in run %s", runID)
	}

	n := len(theta[0])
	curves := make([]export.Curve, n)
	for p := 0; p < n; p++ {
		x := make([]float64, len(theta))
		y := make([]float64, len(theta))
		for t := range theta {
			x[t] = theta[t][p]
			y[t] = de[t][p]
		}
		curves[p] = export.Curve{X: x, Y: y}
	}

	doc := export.CurvesToSVG(curves, 800, 500)
	out := outPath
	if out == "" {
		out = runID + ".svg"
	}
	if err := os.WriteFile(out, []byte(doc), 0644); err != nil {
		return err
	}
	fmt.Printf("svg written: %s\n", out)
	return nil
}

// separatrixGrid samples the bucket boundary over one main-system period
// widened by the analysis margin, at the programs of the given turn.
func separatrixGrid(fr *tracking.FullRing, cfg *config.Config, turn int) ([]float64, []float64, error) {
	fr.RF.Counter = turn
	mainOmega, err := fr.RF.MainOmega(cfg.Analysis.HarmonicSelect(), turn)
	if err != nil {
		return nil, nil, err
	}
	period := 2 * math.Pi / mainOmega
	m := cfg.Analysis.Margin * period
	grid := numeric.Linspace(-m/2, period+m/2, cfg.Analysis.NPoints)
	sep, err := phasespace.Separatrix(fr.RF, grid)
	if err != nil {
		return nil, nil, err
	}
	return grid, sep, nil
}

// bucketFigures reduces a separatrix to its height and the area enclosed
// between both branches. NaN samples lie outside the bucket and are skipped.
func bucketFigures(dt, sep []float64) (height, area float64) {
	for i := 1; i < len(dt); i++ {
		a, b := sep[i-1], sep[i]
		if math.IsNaN(a) || math.IsNaN(b) {
			continue
		}
		area += (a + b) * (dt[i] - dt[i-1])
	}
	for _, v := range sep {
		if !math.IsNaN(v) && v > height {
			height = v
		}
	}
	return height, area
}

// amplitudeSpectrum zero-pads the mean-subtracted series to nPad samples
// and returns the magnitudes of the positive-frequency bins.
func amplitudeSpectrum(series []float64, nPad int) []float64 {
	if nPad < len(series) {
		nPad = len(series)
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	padded := make([]float64, nPad)
	for i, v := range series {
		padded[i] = v - mean
	}
	spec := fft.FFTReal(padded)
	amp := make([]float64, nPad/2+1)
	for i := range amp {
		amp[i] = cmplx.Abs(spec[i])
	}
	return amp
}

// probeFan returns the default probe range in dt: 90 percent of the bucket
// half width on both sides of the synchronous point, so the outermost
// probes define the loss window.
func probeFan(fr *tracking.FullRing) (lo, hi float64) {
	omega := fr.RF.OmegaAt(0, 0)
	center := (fr.RF.PhiSAt(0) - fr.RF.PhiAt(0, 0)) / omega
	half := 0.9 * math.Pi / omega
	return center - half, center + half
}

func cutCaseName(c phasespace.WellCase) string {
	switch c {
	case phasespace.CutFullRange:
		return "full range"
	case phasespace.CutSingleMaximum:
		return "single wall"
	case phasespace.CutTwoMaxima:
		return "two walls"
	case phasespace.CutOuterMaxima:
		return "outer walls"
	}
	return "unknown"
}

func printDiagnostics(diag *phasespace.Diag) {
	for _, e := range diag.Entries() {
		fmt.Println(e)
	}
}
