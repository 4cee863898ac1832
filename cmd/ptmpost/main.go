package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ptmpost/internal/analysis"
	"github.com/san-kum/ptmpost/internal/boundary"
	"github.com/san-kum/ptmpost/internal/config"
	"github.com/san-kum/ptmpost/internal/cutoff"
	"github.com/san-kum/ptmpost/internal/fluxmap"
	"github.com/san-kum/ptmpost/internal/mapper"
	"github.com/san-kum/ptmpost/internal/plasma"
	"github.com/san-kum/ptmpost/internal/store"
	"github.com/san-kum/ptmpost/internal/tui"
	"github.com/san-kum/ptmpost/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	distKind string
	density  float64
	energy   float64
	kappaIdx float64
	mass     float64
	// Masks and weighting
	fieldOfView bool
	initialE    bool
	energyFlux  bool
	asymmetric  bool
	// Config file and preset
	configFile string
	preset     string
	saveRun    bool
	// Boundary file options
	dateStr string
	outDir  string
	// TM03 solar wind drivers
	swX        float64
	swY        float64
	swBPerp    float64
	swClock    float64
	swVx       float64
	swDensity  float64
	swPressure float64
	tm03Plot   bool
	// Trajectory options
	particleID int
	// Quicklook options
	interactive bool
	// Export options
	exportPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ptmpost",
		Short: "flux post-processing for backward particle tracing",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ptmpost", "data directory")

	processCmd := &cobra.Command{
		Use:   "process [map files...]",
		Short: "compute differential and omnidirectional flux from map files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  processMaps,
	}
	addDistFlags(processCmd)
	processCmd.Flags().BoolVar(&saveRun, "save", false, "save spectrum to the data directory")

	cutoffsCmd := &cobra.Command{
		Use:   "cutoffs [map files...]",
		Short: "geomagnetic cutoff analysis",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCutoffs,
	}

	quicklookCmd := &cobra.Command{
		Use:   "quicklook [map files...]",
		Short: "terminal spectrum summary",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runQuicklook,
	}
	addDistFlags(quicklookCmd)
	quicklookCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "interactive viewer")

	boundaryCmd := &cobra.Command{
		Use:   "boundary [run directory]",
		Short: "assemble a RAM boundary flux file from a rungrid",
		Args:  cobra.ExactArgs(1),
		RunE:  runBoundary,
	}
	addDistFlags(boundaryCmd)
	boundaryCmd.Flags().StringVar(&dateStr, "date", "2000-01-01", "calendar day stamped on the records (YYYY-MM-DD)")
	boundaryCmd.Flags().StringVar(&outDir, "out", ".", "output directory")

	tm03Cmd := &cobra.Command{
		Use:   "tm03",
		Short: "plasma sheet moments from the TM03 empirical model",
		RunE:  runTM03,
	}
	tm03Cmd.Flags().Float64Var(&swX, "x", -10.0, "GSM x position, Re")
	tm03Cmd.Flags().Float64Var(&swY, "y", 0.0, "GSM y position, Re")
	tm03Cmd.Flags().Float64Var(&swBPerp, "bperp", 5.0, "IMF B perpendicular, nT")
	tm03Cmd.Flags().Float64Var(&swClock, "clock", 90.0, "IMF clock angle, degrees")
	tm03Cmd.Flags().Float64Var(&swVx, "vx", 500.0, "solar wind speed, km/s")
	tm03Cmd.Flags().Float64Var(&swDensity, "n", 10.0, "solar wind density, cm^-3")
	tm03Cmd.Flags().Float64Var(&swPressure, "p", 3.0, "solar wind dynamic pressure, nPa")
	tm03Cmd.Flags().BoolVar(&tm03Plot, "profile", false, "plot moments along the tail axis")

	trajectoryCmd := &cobra.Command{
		Use:   "trajectory [file]",
		Short: "summarize traced particle trajectories",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrajectory,
	}
	trajectoryCmd.Flags().IntVar(&particleID, "particle", 0, "plot energy history for one particle id")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportPath, "out", "", "write to file instead of stdout")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available source presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(processCmd, cutoffsCmd, quicklookCmd, boundaryCmd, tm03Cmd, trajectoryCmd, listCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addDistFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&distKind, "dist", "kappa", "source distribution (kappa, maxwell, mixture)")
	cmd.Flags().Float64Var(&density, "density", config.DefaultDensity, "source density, cm^-3")
	cmd.Flags().Float64Var(&energy, "energy", config.DefaultEnergy, "characteristic energy, keV")
	cmd.Flags().Float64Var(&kappaIdx, "kappa", config.DefaultKappa, "kappa index")
	cmd.Flags().Float64Var(&mass, "mass", config.DefaultMass, "particle mass, electron masses")
	cmd.Flags().BoolVar(&fieldOfView, "fov", false, "apply the instrument field of view mask")
	cmd.Flags().BoolVar(&initialE, "initial-energy", false, "evaluate flux at the initial energy instead of the traced energy")
	cmd.Flags().BoolVar(&energyFlux, "energy-flux", false, "weight by energy to produce energy flux")
	cmd.Flags().BoolVar(&asymmetric, "asymmetric", false, "pitch grid covers the full 0-180 range")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers preset, config file, and changed CLI flags, in that
// order of increasing precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		clone := *p
		cfg = &clone
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dist") {
		cfg.Distribution = distKind
	}
	if cmd.Flags().Changed("density") {
		cfg.Source.Density = density
	}
	if cmd.Flags().Changed("energy") {
		cfg.Source.Energy = energy
	}
	if cmd.Flags().Changed("kappa") {
		cfg.Source.Kappa = kappaIdx
	}
	if cmd.Flags().Changed("mass") {
		cfg.Source.Mass = mass
	}
	if cmd.Flags().Changed("fov") {
		cfg.FieldOfView = fieldOfView
	}
	if cmd.Flags().Changed("initial-energy") {
		cfg.InitialE = initialE
	}
	if cmd.Flags().Changed("energy-flux") {
		cfg.EnergyFlux = energyFlux
	}
	if cmd.Flags().Changed("asymmetric") {
		cfg.Symmetric = !asymmetric
	}

	return cfg, nil
}

func processMaps(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	d, err := cfg.BuildDistribution()
	if err != nil {
		return err
	}

	fm, err := fluxmap.ParseMapFiles(args...)
	if err != nil {
		return err
	}

	fmt.Printf("parsed %d map file(s): %d energies x %d pitch angles\n",
		len(args), fm.NumEnergies(), fm.NumAngles())
	fmt.Printf("source position: [%.2f %.2f %.2f] Re\n\n",
		fm.SourcePosition[0], fm.SourcePosition[1], fm.SourcePosition[2])

	opts := mapper.Options{
		InitialEnergy: cfg.InitialE,
		AccessMask:    true,
		FieldOfView:   cfg.FieldOfView,
		EnergyFlux:    cfg.EnergyFlux,
	}
	grid := mapper.MapFlux(fm, d, opts)
	omni, err := mapper.Integrate(fm.Angles, grid, cfg.Symmetric)
	if err != nil {
		return err
	}

	fmt.Println(viz.SpectrumPlot(fm.Energies, omni, "omnidirectional flux"))
	fmt.Println()
	fmt.Println(viz.AccessBarcode(cutoff.AccessFractions(fm)))

	if !saveRun {
		return nil
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	meta := store.RunMetadata{
		MapFiles:     args,
		Distribution: cfg.Distribution,
		Density:      cfg.Source.Density,
		Energy:       cfg.Source.Energy,
		Kappa:        cfg.Source.Kappa,
		Mass:         cfg.Source.Mass,
		FieldOfView:  cfg.FieldOfView,
		InitialE:     cfg.InitialE,
		EnergyFlux:   cfg.EnergyFlux,
		Symmetric:    cfg.Symmetric,
	}
	if res, err := cutoff.Compute(fm); err == nil {
		meta.Cutoffs = res
	}
	runID, err := st.Save(meta, fm.Energies, omni)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func runCutoffs(cmd *cobra.Command, args []string) error {
	fm, err := fluxmap.ParseMapFiles(args...)
	if err != nil {
		return err
	}

	res, err := cutoff.Compute(fm)
	if err != nil {
		return err
	}

	fmt.Println(viz.CutoffPanel(res))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ENERGY (MeV)\tRIGIDITY (GV)\tACCESS")
	for i, e := range fm.Energies {
		eMeV := e / 1e3
		fmt.Fprintf(w, "%.2f\t%.4f\t%.2f\n",
			eMeV, cutoff.RigidityFromEnergy(eMeV), res.AccessFraction[i])
	}
	return w.Flush()
}

func runQuicklook(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	d, err := cfg.BuildDistribution()
	if err != nil {
		return err
	}
	fm, err := fluxmap.ParseMapFiles(args...)
	if err != nil {
		return err
	}

	spectrum := func(opts mapper.Options) ([]float64, error) {
		return mapper.Integrate(fm.Angles, mapper.MapFlux(fm, d, opts), cfg.Symmetric)
	}

	masked, err := spectrum(mapper.Options{
		InitialEnergy: cfg.InitialE, AccessMask: true,
		FieldOfView: cfg.FieldOfView, EnergyFlux: cfg.EnergyFlux,
	})
	if err != nil {
		return err
	}
	fractions := cutoff.AccessFractions(fm)
	cutoffs, cutErr := cutoff.Compute(fm)

	if !interactive {
		fmt.Println(viz.SpectrumPlot(fm.Energies, masked, "omnidirectional flux"))
		fmt.Println()
		fmt.Println(viz.AccessBarcode(fractions))
		if cutErr == nil {
			fmt.Println()
			fmt.Println(viz.CutoffPanel(cutoffs))
		}
		fmt.Println()
		fmt.Println(viz.KeyHint.Render("rerun with --interactive to page through spectra"))
		return nil
	}

	unmasked, err := spectrum(mapper.Options{InitialEnergy: cfg.InitialE, EnergyFlux: cfg.EnergyFlux})
	if err != nil {
		return err
	}
	fov, err := spectrum(mapper.Options{
		InitialEnergy: cfg.InitialE, AccessMask: true,
		FieldOfView: true, EnergyFlux: cfg.EnergyFlux,
	})
	if err != nil {
		return err
	}

	spectra := []tui.Spectrum{
		{Name: "omnidirectional", Energies: fm.Energies, Flux: masked},
		{Name: "field of view", Energies: fm.Energies, Flux: fov},
		{Name: "unmasked", Energies: fm.Energies, Flux: unmasked},
	}
	if cutErr != nil {
		cutoffs = nil
	}
	p := tea.NewProgram(tui.NewViewer(spectra, fractions, cutoffs))
	_, err = p.Run()
	return err
}

func runBoundary(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	d, err := cfg.BuildDistribution()
	if err != nil {
		return err
	}

	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	date := boundary.Date{Year: day.Year(), Month: int(day.Month()), Day: day.Day()}

	prod, err := boundary.Process(args[0], d, cfg.Symmetric)
	if err != nil {
		return err
	}

	path := filepath.Join(outDir, prod.FileName(date))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := prod.Write(f, date); err != nil {
		return err
	}

	fmt.Printf("wrote %s: %d records, %d energies\n", path, len(prod.Omni), len(prod.Energies))
	return nil
}

func runTM03(cmd *cobra.Command, args []string) error {
	sw := plasma.SolarWind{
		BPerp:      swBPerp,
		ClockAngle: swClock,
		Vx:         swVx,
		Density:    swDensity,
		Pressure:   swPressure,
	}

	m := plasma.TM03(swX, swY, sw)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QUANTITY\tVALUE\tUNIT")
	fmt.Fprintf(w, "pressure\t%.4f\tnPa\n", m.Pressure)
	fmt.Fprintf(w, "temperature\t%.4f\tkeV\n", m.Temperature)
	fmt.Fprintf(w, "density\t%.4f\tcm^-3\n", m.Density)
	if err := w.Flush(); err != nil {
		return err
	}

	if !tm03Plot {
		return nil
	}

	// Tail-axis profile from the inner boundary of the model's validity
	// range out to x = -30 Re.
	const n = 60
	dens := make([]float64, n)
	for i := 0; i < n; i++ {
		x := -5.0 - 25.0*float64(i)/float64(n-1)
		dens[i] = plasma.TM03(x, swY, sw).Density
	}
	fmt.Println()
	graph := asciigraph.Plot(dens,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("density vs x (-5 to -30 Re, y=%.1f)", swY)),
	)
	fmt.Println(graph)
	return nil
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	trajectories, err := fluxmap.ParseTrajectoryFile(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLE\tPOINTS\tT_FINAL\tE_FINAL (keV)\tDRIFT PERIOD")
	for _, id := range fluxmap.ParticleIDs(trajectories) {
		traj := trajectories[id]
		last := traj[len(traj)-1]

		period := "-"
		if p, err := analysis.DriftPeriod(traj); err == nil {
			period = fmt.Sprintf("%.1fs", p)
		}
		fmt.Fprintf(w, "%d\t%d\t%.1fs\t%.2f\t%s\n",
			id, len(traj), last.Time, last.Energy, period)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !cmd.Flags().Changed("particle") {
		return nil
	}
	traj, ok := trajectories[particleID]
	if !ok {
		return fmt.Errorf("no particle %d in %s", particleID, args[0])
	}

	data := make([]float64, len(traj))
	for i, pt := range traj {
		data[i] = pt.Energy
	}
	fmt.Println()
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("energy (keV) vs step, particle %d", particleID)),
	)
	fmt.Println(graph)

	if ps := analysis.DriftSpectrum(traj); len(ps) > 4 {
		fmt.Println()
		graph := asciigraph.Plot(ps[:len(ps)/4],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("drift power spectrum (x position)"),
		)
		fmt.Println(graph)
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
	fmt.Fprintln(w, "ID\tDIST\tTIME\tDENSITY\tENERGY\tKAPPA\tE_CUT (MeV)")

	for _, run := range runs {
		ecut := "-"
		if run.Cutoffs != nil {
			ecut = fmt.Sprintf("%.1f", run.Cutoffs.EcEffective)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3g\t%.3g\t%.2f\t%s\n",
			run.ID,
			run.Distribution,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Density,
			run.Energy,
			run.Kappa,
			ecut,
		)
	}

	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	energies, omni, err := st.LoadOmni(runID)
	if err != nil {
		return err
	}

	data := &store.ExportData{
		Distribution: meta.Distribution,
		Energies:     energies,
		OmniFlux:     omni,
		Cutoffs:      meta.Cutoffs,
	}
	if meta.Cutoffs != nil {
		data.AccessFractions = meta.Cutoffs.AccessFraction
	}

	if exportPath != "" {
		return store.ExportJSON(exportPath, data)
	}
	return store.ExportJSONStdout(data)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDIST\tDENSITY\tENERGY (keV)\tKAPPA\tMASS\tFOV")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		if len(p.Components) > 0 {
			fmt.Fprintf(w, "%s\t%s\t%d components\t\t\t\t%v\n",
				name, p.Distribution, len(p.Components), p.FieldOfView)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%.3g\t%.3g\t%.2f\t%.0f\t%v\n",
			name, p.Distribution, p.Source.Density, p.Source.Energy,
			p.Source.Kappa, p.Source.Mass, p.FieldOfView)
	}
	return w.Flush()
}
