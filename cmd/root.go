package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/table-sim/sim"
	"github.com/inference-sim/table-sim/sim/timeline"
	"github.com/inference-sim/table-sim/sim/workload"
)

var (
	// Shared flags
	logLevel         string // Log verbosity level
	defaultsFilePath string // Optional YAML file with run defaults and generator presets

	// CLI flags for the run command
	tickUnit    time.Duration // Wall time of one workload tick
	outDir      string        // Directory for table files and the log
	logFileName string        // Timeline log file name inside outDir
	echo        bool          // Also print timeline lines to stdout
	summaryPath string        // Optional JSON summary output path
	plotPath    string        // Optional timeline image output path
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "table-sim",
	Short: "Reader/writer lock simulator for shared file-backed tables",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runOptions is everything the run command needs, resolved from flags,
// positional args and the defaults file.
type runOptions struct {
	config       sim.Config
	activityFile string
	summaryPath  string
	plotPath     string
}

// parseRunArgs validates the positional <threads> <tables> <activity_file>.
func parseRunArgs(args []string) (runOptions, error) {
	threads, err := strconv.Atoi(args[0])
	if err != nil || threads <= 0 {
		return runOptions{}, fmt.Errorf("%w: number of threads must be a positive integer, got %q", sim.ErrConfig, args[0])
	}
	tables, err := strconv.Atoi(args[1])
	if err != nil || tables <= 0 {
		return runOptions{}, fmt.Errorf("%w: number of tables must be a positive integer, got %q", sim.ErrConfig, args[1])
	}
	return runOptions{
		config:       sim.Config{NumThreads: threads, NumTables: tables},
		activityFile: args[2],
	}, nil
}

// buildRunOptions combines the positional args with the resolved run flags.
func buildRunOptions(args []string) (runOptions, error) {
	opts, err := parseRunArgs(args)
	if err != nil {
		return runOptions{}, err
	}
	if err := validateTickUnit(tickUnit); err != nil {
		return runOptions{}, fmt.Errorf("%w: --time-unit: %v", sim.ErrConfig, err)
	}
	opts.config.OutputDir = outDir
	opts.config.LogFileName = logFileName
	opts.config.TickUnit = tickUnit
	opts.config.Echo = echo
	opts.summaryPath = summaryPath
	opts.plotPath = plotPath
	return opts, nil
}

// runSimulation parses the workload, runs it, and writes the summary and plot.
// The workload is parsed and validated before any table file is created.
func runSimulation(ctx context.Context, opts runOptions, stdout io.Writer) error {
	activities, err := workload.LoadActivities(opts.activityFile)
	if err != nil {
		return err
	}
	logrus.Infof("Loaded %d activities from %s", len(activities), opts.activityFile)

	s, err := sim.NewSimulation(opts.config, activities)
	if err != nil {
		return err
	}
	runErr := s.Run(ctx)
	if err := s.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}

	if err := s.Results().SaveResults(stdout, opts.summaryPath); err != nil {
		return err
	}
	if opts.plotPath != "" {
		names := make([]string, 0, len(s.Tables))
		for _, t := range s.Tables {
			names = append(names, t.Name)
		}
		if err := timeline.Render(s.Trace.Records(), names, opts.plotPath); err != nil {
			return err
		}
		logrus.Infof("Timeline written to %s", opts.plotPath)
	}
	return nil
}

// runCmd executes the simulation using positional args and CLI flags
var runCmd = &cobra.Command{
	Use:   "run <num_threads> <num_tables> <activity_file>",
	Short: "Run the table simulation",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		if defaultsFilePath != "" {
			cfg, err := loadDefaultsConfig(defaultsFilePath)
			if err != nil {
				logrus.Fatalf("Failed to load defaults: %v", err)
			}
			if err := applyRunDefaults(cmd, cfg.Run); err != nil {
				logrus.Fatalf("Invalid defaults: %v", err)
			}
		}

		opts, err := buildRunOptions(args)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		if err := runSimulation(cmd.Context(), opts, os.Stdout); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&defaultsFilePath, "defaults", "", "Path to YAML file with run defaults and workload presets")

	registerRunFlags(runCmd)

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}

// registerRunFlags binds the run flags to cmd.
func registerRunFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&tickUnit, "time-unit", time.Second, "Wall time of one workload tick")
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "Directory for table files and the log file")
	cmd.Flags().StringVar(&logFileName, "log-file", sim.DefaultLogFileName, "Timeline log file name inside --out-dir")
	cmd.Flags().BoolVar(&echo, "echo", false, "Also print every timeline line to stdout")
	cmd.Flags().StringVar(&summaryPath, "summary", "", "Write the JSON run summary to this path")
	cmd.Flags().StringVar(&plotPath, "plot", "", "Render the lock-hold timeline to this image path (.png, .svg, .pdf)")
}
