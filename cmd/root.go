package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/epinet-sim/epinet/sim"
	"github.com/epinet-sim/epinet/sim/population"
	"github.com/epinet-sim/epinet/sim/results"
	"github.com/epinet-sim/epinet/sim/trace"
)

var (
	// CLI flags for the population
	populationPath string // YAML population file; synthetic when empty
	numAgents      int    // Synthetic population size
	numLocations   int    // Synthetic non-residential locations
	savePopulation string // Write the population used by the run to this YAML file

	// CLI flags for the run
	seed       int64  // Master seed for every random stream
	maxDays    int    // Day budget
	configPath string // YAML config layered over the built-in defaults
	logLevel   string // Log verbosity level

	// CLI flags overriding config values
	initialInfected  int     // Agents infectious at day 0
	transmissionProb float64 // Per-interaction transmission probability
	interactionProb  float64 // Co-presence to interaction probability
	testingRate      float64 // Daily test submission probability
	socialDistancing bool    // Global distancing multiplier on transmission

	// CLI flags for outputs
	traceLevel string // Transition trace level
	traceCSV   string // Export trace records as CSV
	resultsDB  string // SQLite results database
	runLabel   string // Label stored with the run
	historyCSV string // Export daily counts as CSV
	reportJSON string // Export the report as JSON
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "epinet",
	Short: "Agent-based contact-network epidemic simulator",
}

// setLogLevel parses the --log flag and applies it.
func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the epidemic simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Unknown trace level %q; valid: none, transitions", traceLevel)
		}
		cfg, err := LoadConfig(configPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		applyFlagOverrides(cmd, &cfg)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if _, err := runSimulation(ctx, cfg, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			logrus.Fatalf("Simulation failed: %v", err)
		}
	},
}

// applyFlagOverrides copies explicitly set flags into cfg. Flags left at
// their defaults never overwrite values loaded from the config file.
func applyFlagOverrides(cmd *cobra.Command, cfg *sim.Config) {
	if cmd.Flags().Changed("max-days") {
		cfg.MaxDays = maxDays
	}
	if cmd.Flags().Changed("initial-infected") {
		cfg.InitialInfected = initialInfected
	}
	if cmd.Flags().Changed("transmission-prob") {
		cfg.Transmission.Probability = transmissionProb
	}
	if cmd.Flags().Changed("interaction-prob") {
		cfg.InteractionProbability = interactionProb
	}
	if cmd.Flags().Changed("testing-rate") {
		cfg.Testing.Rate = testingRate
	}
	if cmd.Flags().Changed("social-distancing") {
		cfg.Transmission.SocialDistancing = socialDistancing
	}
}

// loadPopulation returns the population from --population, or synthesizes one.
func loadPopulation(key sim.SimulationKey) (*sim.Population, error) {
	if populationPath != "" {
		return population.LoadFile(populationPath)
	}
	rng := sim.NewPartitionedRNG(key).ForSubsystem(sim.SubsystemPopulation)
	return population.Synthesize(population.DefaultSynthConfig(numAgents, numLocations), rng)
}

// runSimulation builds and runs one simulation from the package flags and
// writes the report and any requested exports.
func runSimulation(ctx context.Context, cfg sim.Config, out io.Writer) (*sim.Report, error) {
	key := sim.NewSimulationKey(seed)
	pop, err := loadPopulation(key)
	if err != nil {
		return nil, err
	}
	if savePopulation != "" {
		if err := population.WriteFile(savePopulation, pop); err != nil {
			return nil, err
		}
		logrus.Infof("Population written to %s", savePopulation)
	}

	var st *trace.SimulationTrace
	var opts []sim.Option
	if trace.TraceLevel(traceLevel) == trace.TraceLevelTransitions {
		st = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelTransitions})
		opts = append(opts, sim.WithTrace(st))
	}

	s, err := sim.NewSimulator(pop, cfg, key, opts...)
	if err != nil {
		return nil, err
	}
	report, runErr := s.RunContext(ctx, cfg.MaxDays)
	if runErr != nil {
		logrus.Warnf("Simulation interrupted after %d days: %v", report.Days, runErr)
	}

	// The store step outlives an interrupted run so the partial report is kept.
	var storeErr error
	if resultsDB != "" {
		storeErr = storeRun(context.WithoutCancel(ctx), report, cfg)
		if storeErr != nil {
			logrus.Errorf("Run not stored: %v", storeErr)
		}
	}

	report.Print(out)
	if st != nil {
		printTraceSummary(out, trace.Summarize(st))
	}

	if historyCSV != "" {
		if err := results.ExportFile(historyCSV, func(w io.Writer) error { return results.WriteHistoryCSV(w, report) }); err != nil {
			return report, err
		}
	}
	if reportJSON != "" {
		if err := results.ExportFile(reportJSON, func(w io.Writer) error { return results.WriteReportJSON(w, report) }); err != nil {
			return report, err
		}
	}
	if traceCSV != "" {
		if err := results.ExportFile(traceCSV, func(w io.Writer) error { return results.WriteTraceCSV(w, st) }); err != nil {
			return report, err
		}
	}
	return report, errors.Join(runErr, storeErr)
}

// storeRun persists report into the --results-db store and assigns its run id.
func storeRun(ctx context.Context, report *sim.Report, cfg sim.Config) error {
	store, err := results.Open(resultsDB)
	if err != nil {
		return err
	}
	defer store.Close()
	id, err := store.SaveRun(ctx, report, results.RunMeta{Label: runLabel, Config: &cfg})
	if err != nil {
		return err
	}
	logrus.Infof("Run stored as %s in %s", id, resultsDB)
	return nil
}

func printTraceSummary(w io.Writer, ts *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Transition Trace ===")
	fmt.Fprintf(w, "Transitions          : %d\n", ts.TotalTransitions)
	fmt.Fprintf(w, "Infectors            : %d\n", ts.Infectors)
	fmt.Fprintf(w, "Secondary cases      : mean %.2f, max %d\n", ts.MeanSecondaryCases, ts.MaxSecondaryCases)
	for _, t := range sim.ActivityTypes {
		if n := ts.ExposuresByContext[string(t)]; n > 0 {
			fmt.Fprintf(w, "Exposures at %s       : %d\n", t, n)
		}
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerPopulationFlags adds the population source flags to c.
func registerPopulationFlags(c *cobra.Command) {
	c.Flags().StringVar(&populationPath, "population", "", "YAML population file (synthetic population when empty)")
	c.Flags().IntVar(&numAgents, "agents", 1000, "Synthetic population size")
	c.Flags().IntVar(&numLocations, "locations", 100, "Synthetic non-residential location count")
	c.Flags().Int64Var(&seed, "seed", 42, "Master seed for every random stream")
	c.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

// init sets up CLI flags and subcommands
func init() {
	registerPopulationFlags(runCmd)
	runCmd.Flags().StringVar(&savePopulation, "save-population", "", "Write the population used by the run to this YAML file")
	runCmd.Flags().IntVar(&maxDays, "max-days", 365, "Maximum number of simulated days")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML config file layered over the built-in defaults")

	// config overrides
	runCmd.Flags().IntVar(&initialInfected, "initial-infected", 1, "Agents infectious at day 0")
	runCmd.Flags().Float64Var(&transmissionProb, "transmission-prob", 0.05, "Per-interaction transmission probability")
	runCmd.Flags().Float64Var(&interactionProb, "interaction-prob", 0.6, "Probability co-present agents interact on a given day")
	runCmd.Flags().Float64Var(&testingRate, "testing-rate", 0.3, "Daily probability an untested infectious agent gets tested")
	runCmd.Flags().BoolVar(&socialDistancing, "social-distancing", false, "Apply the distancing reduction to transmission")

	// outputs
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Transition trace level (none, transitions)")
	runCmd.Flags().StringVar(&traceCSV, "trace-csv", "", "Export trace records as CSV")
	runCmd.Flags().StringVar(&resultsDB, "results-db", "", "Store the run in this SQLite database")
	runCmd.Flags().StringVar(&runLabel, "label", "", "Label stored with the run")
	runCmd.Flags().StringVar(&historyCSV, "history-csv", "", "Export daily counts as CSV")
	runCmd.Flags().StringVar(&reportJSON, "report-json", "", "Export the report as JSON")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
