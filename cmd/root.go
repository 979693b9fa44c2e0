package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	sim "github.com/dispatch-sim/dispatch-sim/sim"
	"github.com/dispatch-sim/dispatch-sim/sim/runner"
)

var (
	// CLI flags shared by run, compare and generate
	scenarioPath string        // YAML scenario file (optional)
	logLevel     string        // Log verbosity level
	networkPath  string        // Road network CSV
	callsPath    string        // Call log CSV
	unitsPath    string        // Ambulance fleet CSV
	prioPath     string        // Call-type priority CSV
	policyName   string        // Dispatch policy name
	pathfinder   string        // Travel-time resolver name
	seed         int64         // Seed for service jitter / generation
	horizonTicks int64         // Simulation horizon (0 = run to completion)
	abandonAfter int64         // Pending wait before abandonment (0 = never)
	serviceTicks int64         // Base on-scene service time
	wallBudget   time.Duration // Wall-clock budget for the whole run (0 = none)

	dispatchLogPath string // Dispatch log CSV output
	eventLogPath    string // Full event log CSV output
	summaryPath     string // YAML summary output

	// compare flags
	comparePolicies []string

	// generate flags
	genCount int     // Number of synthetic calls
	genRate  float64 // Arrival rate in calls per 1000 ticks
	genOut   string  // Output CSV path
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "dispatch-sim",
	Short: "Discrete-event simulator for ambulance dispatch policies",
}

// setupLogging applies the --log flag.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// loadScenario merges the scenario file, environment and CLI flags into one
// Scenario. Flags win when explicitly set.
func loadScenario(cmd *cobra.Command) *Scenario {
	scenario, err := LoadScenario(scenarioPath)
	if err != nil {
		logrus.Fatalf("Unable to load scenario: %v", err)
	}
	if cmd.Flags().Changed("network") || scenario.Network == "" {
		scenario.Network = networkPath
	}
	if cmd.Flags().Changed("calls") || scenario.Calls == "" {
		scenario.Calls = callsPath
	}
	if cmd.Flags().Changed("ambulances") || scenario.Ambulances == "" {
		scenario.Ambulances = unitsPath
	}
	if cmd.Flags().Changed("priorities") || scenario.Priorities == "" {
		scenario.Priorities = prioPath
	}
	if cmd.Flags().Changed("policy") {
		scenario.Policy = policyName
	}
	if cmd.Flags().Changed("pathfinder") {
		scenario.Pathfinder = pathfinder
	}
	if cmd.Flags().Changed("seed") {
		scenario.Seed = seed
	}
	if cmd.Flags().Changed("horizon") {
		scenario.HorizonTicks = horizonTicks
	}
	if cmd.Flags().Changed("abandon-after") {
		scenario.AbandonAfterTicks = abandonAfter
	}
	if cmd.Flags().Changed("service-ticks") {
		scenario.ServiceTicks = serviceTicks
	}
	return scenario
}

// loadInputs loads all four tables and bundles them for the engine.
func loadInputs(scenario *Scenario) sim.Inputs {
	if scenario.Network == "" || scenario.Calls == "" || scenario.Ambulances == "" || scenario.Priorities == "" {
		logrus.Fatalf("network, calls, ambulances and priorities tables are all required")
	}
	edges, err := LoadNetworkEdges(scenario.Network)
	if err != nil {
		logrus.Fatalf("Unable to read network table: %v", err)
	}
	priorities, err := LoadPriorityMap(scenario.Priorities)
	if err != nil {
		logrus.Fatalf("Unable to read priority table: %v", err)
	}
	units, err := LoadAmbulances(scenario.Ambulances)
	if err != nil {
		logrus.Fatalf("Unable to read ambulance table: %v", err)
	}
	calls, err := LoadCalls(scenario.Calls, scenario.CostTickScale)
	if err != nil {
		logrus.Fatalf("Unable to read call table: %v", err)
	}
	return sim.Inputs{
		Edges:      edges,
		Ambulances: units,
		Calls:      calls,
		Priorities: priorities,
	}
}

// runContext applies the optional wall-clock budget around the whole loop.
func runContext() (context.Context, context.CancelFunc) {
	if wallBudget > 0 {
		return context.WithTimeout(context.Background(), wallBudget)
	}
	return context.WithCancel(context.Background())
}

// runCmd executes one simulation using parameters from the scenario and flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one dispatch simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		scenario := loadScenario(cmd)
		cfg, err := scenario.EngineConfig()
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		inputs := loadInputs(scenario)

		logrus.Infof("Starting simulation: %d calls, %d ambulances, policy=%s, pathfinder=%s",
			len(inputs.Calls), len(inputs.Ambulances), cfg.Policy, cfg.Pathfinder)

		s, err := sim.NewSimulator(cfg, inputs)
		if err != nil {
			logrus.Fatalf("Unable to build simulator: %v", err)
		}

		ctx, cancel := runContext()
		defer cancel()

		startTime := time.Now()
		if err := s.Run(ctx); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if err := s.CheckComplete(); err != nil {
			logrus.Warnf("%v", err)
		}

		s.Metrics.Print()
		fmt.Printf("Wall Time            : %v\n", time.Since(startTime).Round(time.Millisecond))

		writeOutputs(s)
		logrus.Info("Simulation complete.")
	},
}

// writeOutputs emits the optional dispatch log, event log and YAML summary.
func writeOutputs(s *sim.Simulator) {
	if dispatchLogPath != "" {
		f, err := os.Create(dispatchLogPath)
		if err != nil {
			logrus.Fatalf("Unable to create dispatch log: %v", err)
		}
		defer f.Close()
		if err := s.Log.WriteDispatchCSV(f); err != nil {
			logrus.Fatalf("Unable to write dispatch log: %v", err)
		}
		logrus.Infof("Dispatch log saved to %s", dispatchLogPath)
	}
	if eventLogPath != "" {
		f, err := os.Create(eventLogPath)
		if err != nil {
			logrus.Fatalf("Unable to create event log: %v", err)
		}
		defer f.Close()
		if err := s.Log.WriteCSV(f); err != nil {
			logrus.Fatalf("Unable to write event log: %v", err)
		}
		logrus.Infof("Event log saved to %s", eventLogPath)
	}
	if summaryPath != "" {
		out, err := yaml.Marshal(s.Metrics.Summarize())
		if err != nil {
			logrus.Fatalf("Unable to marshal summary: %v", err)
		}
		if err := os.WriteFile(summaryPath, out, 0o644); err != nil {
			logrus.Fatalf("Unable to write summary: %v", err)
		}
		logrus.Infof("Summary saved to %s", summaryPath)
	}
}

// compareCmd runs the same inputs under several policies in parallel
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare dispatch policies over identical inputs",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if len(comparePolicies) < 2 {
			logrus.Fatalf("compare needs at least two --policies")
		}
		scenario := loadScenario(cmd)
		baseCfg, err := scenario.EngineConfig()
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		inputs := loadInputs(scenario)

		specs := make([]runner.Spec, 0, len(comparePolicies))
		for _, p := range comparePolicies {
			cfg := baseCfg
			cfg.Policy = p
			specs = append(specs, runner.Spec{Name: p, Config: cfg, Inputs: inputs})
		}

		ctx, cancel := runContext()
		defer cancel()

		results, err := runner.EvaluateAll(ctx, specs)
		if err != nil {
			logrus.Fatalf("Comparison failed: %v", err)
		}

		fmt.Println("=== Policy Comparison ===")
		for _, r := range results {
			status := "complete"
			if r.Incomplete != nil {
				status = "INCOMPLETE"
			}
			fmt.Printf("%-14s run=%s %s\n", r.Name, r.RunID, status)
			fmt.Printf("  completed=%d abandoned=%d rejections=%d\n",
				r.Summary.CompletedCalls, r.Summary.AbandonedCalls, r.Summary.Rejections)
			fmt.Printf("  response mean=%.2f p50=%.2f p90=%.2f p99=%.2f ticks\n",
				r.Summary.MeanResponse, r.Summary.P50Response, r.Summary.P90Response, r.Summary.P99Response)
			fmt.Printf("  utilization=%.2f%% wall=%v\n",
				100*r.Summary.MeanUtilization, r.WallTime.Round(time.Millisecond))
		}
	},
}

// generateCmd writes a synthetic call log for Monte-Carlo experiments
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic call log CSV",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		scenario := loadScenario(cmd)
		if scenario.Network == "" || scenario.Priorities == "" {
			logrus.Fatalf("network and priorities tables are required to generate calls")
		}
		edges, err := LoadNetworkEdges(scenario.Network)
		if err != nil {
			logrus.Fatalf("Unable to read network table: %v", err)
		}
		priorities, err := LoadPriorityMap(scenario.Priorities)
		if err != nil {
			logrus.Fatalf("Unable to read priority table: %v", err)
		}

		// Deterministic origin and call-type pools.
		seen := make(map[sim.LocationID]bool)
		origins := make([]sim.LocationID, 0)
		for _, e := range edges {
			for _, loc := range []sim.LocationID{e.From, e.To} {
				if !seen[loc] {
					seen[loc] = true
					origins = append(origins, loc)
				}
			}
		}
		sort.Slice(origins, func(i, j int) bool { return origins[i] < origins[j] })
		callTypes := make([]string, 0, len(priorities))
		for ct := range priorities {
			callTypes = append(callTypes, ct)
		}
		sort.Strings(callTypes)

		sampler, err := sim.NewPoissonSampler(genRate / 1000.0)
		if err != nil {
			logrus.Fatalf("Invalid arrival rate: %v", err)
		}
		gen := &sim.CallGenerator{Sampler: sampler, Origins: origins, CallTypes: callTypes}
		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(scenario.Seed)).ForSubsystem(sim.SubsystemWorkload)
		records, err := gen.Generate(rng, genCount, scenario.HorizonTicks)
		if err != nil {
			logrus.Fatalf("Generation failed: %v", err)
		}

		f, err := os.Create(genOut)
		if err != nil {
			logrus.Fatalf("Unable to create %s: %v", genOut, err)
		}
		defer f.Close()
		w := csv.NewWriter(f)
		if err := w.Write([]string{"Call ID", "Location", "Call Type", "Arrival Time"}); err != nil {
			logrus.Fatalf("Unable to write call log: %v", err)
		}
		for _, rec := range records {
			arrival := float64(rec.ArrivalTicks) / float64(scenario.CostTickScale)
			row := []string{
				string(rec.ID),
				string(rec.Origin),
				rec.CallType,
				strconv.FormatFloat(arrival, 'f', 3, 64),
			}
			if err := w.Write(row); err != nil {
				logrus.Fatalf("Unable to write call log: %v", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			logrus.Fatalf("Unable to write call log: %v", err)
		}
		logrus.Infof("Wrote %d calls to %s", len(records), genOut)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addCommonFlags registers the flags shared by run, compare and generate.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scenarioPath, "config", "", "YAML scenario file (flags override it)")
	cmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().StringVar(&networkPath, "network", "", "Road network CSV (Start, End, Travel Time, Traffic Delay)")
	cmd.Flags().StringVar(&callsPath, "calls", "", "Call log CSV (Call ID, Location, Call Type[, Arrival Time])")
	cmd.Flags().StringVar(&unitsPath, "ambulances", "", "Fleet CSV (Ambulance Number, Staging Location)")
	cmd.Flags().StringVar(&prioPath, "priorities", "", "Priority CSV (Call Type, Priority)")
	cmd.Flags().StringVar(&pathfinder, "pathfinder", sim.ResolverDijkstra, "Travel-time resolver (dijkstra, floyd-warshall)")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for synthetic generation and service jitter")
	cmd.Flags().Int64Var(&horizonTicks, "horizon", 0, "Simulation horizon in ticks (0 = run to completion)")
	cmd.Flags().Int64Var(&abandonAfter, "abandon-after", 0, "Ticks a call may wait before abandonment (0 = never)")
	cmd.Flags().Int64Var(&serviceTicks, "service-ticks", 10000, "Base on-scene service time in ticks")
	cmd.Flags().DurationVar(&wallBudget, "wall-budget", 0, "Wall-clock budget for the whole run (0 = none)")
}

// init sets up CLI flags and subcommands
func init() {
	addCommonFlags(runCmd)
	runCmd.Flags().StringVar(&policyName, "policy", sim.PolicyNearest, "Dispatch policy (nearest, reservation)")
	runCmd.Flags().StringVar(&dispatchLogPath, "dispatch-log", "", "Write the dispatch log CSV here")
	runCmd.Flags().StringVar(&eventLogPath, "event-log", "", "Write the full event log CSV here")
	runCmd.Flags().StringVar(&summaryPath, "summary", "", "Write the YAML run summary here")

	addCommonFlags(compareCmd)
	compareCmd.Flags().StringSliceVar(&comparePolicies, "policies",
		[]string{sim.PolicyNearest, sim.PolicyReservation}, "Comma-separated policies to compare")

	addCommonFlags(generateCmd)
	generateCmd.Flags().IntVar(&genCount, "count", 100, "Number of calls to generate")
	generateCmd.Flags().Float64Var(&genRate, "rate", 1.0, "Arrival rate in calls per 1000 ticks")
	generateCmd.Flags().StringVar(&genOut, "out", "calls_generated.csv", "Output CSV path")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(generateCmd)
}
