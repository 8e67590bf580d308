package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/table-sim/sim/workload"
)

var (
	// CLI flags for the generate command
	genPreset        string
	genSpecPath      string
	genSeed          int64
	genThreads       int
	genTables        int
	genActivities    int
	genReadFraction  float64
	genMaxOffset     int64
	genMaxDuration   int64
	genPayloadPrefix string
	genOutPath       string
)

// resolveGeneratorSpec builds the generator spec in precedence order:
// defaults, then --preset or --spec, then flags the user set explicitly.
func resolveGeneratorSpec(cmd *cobra.Command) (*workload.GeneratorSpec, error) {
	if genPreset != "" && genSpecPath != "" {
		return nil, fmt.Errorf("--preset and --spec are mutually exclusive")
	}

	var spec *workload.GeneratorSpec
	switch {
	case genPreset != "":
		if defaultsFilePath == "" {
			return nil, fmt.Errorf("--preset requires --defaults")
		}
		cfg, err := loadDefaultsConfig(defaultsFilePath)
		if err != nil {
			return nil, err
		}
		if spec, err = GetWorkloadPreset(cfg, genPreset); err != nil {
			return nil, err
		}
	case genSpecPath != "":
		s, err := workload.LoadGeneratorSpec(genSpecPath)
		if err != nil {
			return nil, err
		}
		spec = s
	default:
		d := workload.DefaultGeneratorSpec()
		spec = &d
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		spec.Seed = genSeed
	}
	if flags.Changed("threads") {
		spec.NumThreads = genThreads
	}
	if flags.Changed("tables") {
		spec.NumTables = genTables
	}
	if flags.Changed("activities") {
		spec.NumActivities = genActivities
	}
	if flags.Changed("read-fraction") {
		spec.ReadFraction = genReadFraction
	}
	if flags.Changed("max-offset") {
		spec.MaxOffset = genMaxOffset
	}
	if flags.Changed("max-duration") {
		spec.MaxDuration = genMaxDuration
	}
	if flags.Changed("payload-prefix") {
		spec.PayloadPrefix = genPayloadPrefix
	}
	return spec, nil
}

// generateActivities writes the generated activity file to w.
func generateActivities(spec *workload.GeneratorSpec, w io.Writer) error {
	activities, err := workload.Generate(spec)
	if err != nil {
		return err
	}
	if err := workload.WriteActivities(w, activities); err != nil {
		return err
	}
	logrus.Infof("Generated %d activities for %d threads over %d tables (seed %d)",
		len(activities), spec.NumThreads, spec.NumTables, spec.Seed)
	return nil
}

// generateCmd writes a synthetic activity file usable by `run`
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic activity file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := resolveGeneratorSpec(cmd)
		if err != nil {
			logrus.Fatalf("Failed to resolve generator spec: %v", err)
		}

		var out io.Writer = os.Stdout
		if genOutPath != "" {
			f, err := os.Create(genOutPath)
			if err != nil {
				logrus.Fatalf("Failed to create %s: %v", genOutPath, err)
			}
			defer func() {
				if err := f.Close(); err != nil {
					logrus.Errorf("Failed to close %s: %v", genOutPath, err)
				}
			}()
			out = f
		}
		if err := generateActivities(spec, out); err != nil {
			logrus.Fatalf("Generation failed: %v", err)
		}
	},
}

// registerGenerateFlags binds the generate flags to cmd.
func registerGenerateFlags(cmd *cobra.Command) {
	d := workload.DefaultGeneratorSpec()
	cmd.Flags().StringVar(&genPreset, "preset", "", "Named workload preset from the --defaults file")
	cmd.Flags().StringVar(&genSpecPath, "spec", "", "Path to a YAML generator spec")
	cmd.Flags().Int64Var(&genSeed, "seed", d.Seed, "Seed for the workload RNG")
	cmd.Flags().IntVar(&genThreads, "threads", d.NumThreads, "Number of worker threads")
	cmd.Flags().IntVar(&genTables, "tables", d.NumTables, "Number of tables")
	cmd.Flags().IntVar(&genActivities, "activities", d.NumActivities, "Number of activities to generate")
	cmd.Flags().Float64Var(&genReadFraction, "read-fraction", d.ReadFraction, "Probability an activity is a read")
	cmd.Flags().Int64Var(&genMaxOffset, "max-offset", d.MaxOffset, "Upper bound for offsets in ticks")
	cmd.Flags().Int64Var(&genMaxDuration, "max-duration", d.MaxDuration, "Upper bound for durations in ticks")
	cmd.Flags().StringVar(&genPayloadPrefix, "payload-prefix", d.PayloadPrefix, "Prefix for write payloads")
	cmd.Flags().StringVar(&genOutPath, "out", "", "Output path (default stdout)")
}

func init() {
	registerGenerateFlags(generateCmd)
	rootCmd.AddCommand(generateCmd)
}
