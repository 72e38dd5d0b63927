package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hdfs-sim/hdfs-sim/sim"
	"github.com/hdfs-sim/hdfs-sim/sim/hdfs"
	"github.com/hdfs-sim/hdfs-sim/sim/workload"
)

var (
	// CLI flags
	configPath string // Path to the YAML simulation config
	seed       int64  // Seed for replica placement randomness
	horizon    int64  // Total simulation time (in ticks)
	logLevel   string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "hdfs-sim",
	Short: "Discrete-event simulator for replicated staged storage clusters",
}

// runCmd executes the simulation described by the config file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the cluster simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := LoadSimConfig(configPath)
		if err != nil {
			logrus.Fatalf("unable to load simulation config: %v", err)
		}
		// Flags override file values; file values override flag defaults.
		if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
			cfg.Seed = seed
		}
		if cmd.Flags().Changed("horizon") || cfg.Horizon == 0 {
			cfg.Horizon = horizon
		}

		logrus.Infof("Starting simulation: %d nodes, replica=%d, %d clients, horizon=%d ticks, seed=%d",
			cfg.Cluster.Nodes, cfg.Cluster.Replica, len(cfg.Clients), cfg.Horizon, cfg.Seed)

		startTime := time.Now()

		env := sim.NewEnvironment()
		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed))
		fs, err := hdfs.BuildCluster(cfg.Cluster, rng.ForSubsystem(sim.SubsystemPlacement))
		if err != nil {
			logrus.Fatalf("unable to build cluster: %v", err)
		}
		clients := make([]*workload.Client, 0, len(cfg.Clients))
		for _, spec := range cfg.Clients {
			clients = append(clients, workload.NewClient(env, fs, spec))
		}

		env.Run(cfg.Horizon)

		workload.Summarize(clients).Print(cfg.Horizon)
		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Path to the YAML simulation config file")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for replica placement randomness")
	runCmd.Flags().Int64Var(&horizon, "horizon", 1000000, "Total simulation horizon (in ticks)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	_ = runCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(runCmd)
}
