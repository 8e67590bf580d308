package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/table-sim/sim/trace"
)

// verifyLog replays a timeline log and checks reader/writer exclusion per table.
func verifyLog(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening log %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	records, err := trace.ReadLog(f)
	if err != nil {
		return err
	}
	if err := trace.CheckExclusion(records); err != nil {
		return err
	}
	summary := trace.Summarize(records)
	if _, err := fmt.Fprintf(w, "%s: %d events across %d tables, exclusion ok\n",
		path, summary.TotalEvents, len(summary.Tables)); err != nil {
		return err
	}
	return nil
}

// verifyCmd checks a previously written timeline log
var verifyCmd = &cobra.Command{
	Use:   "verify <logfile>",
	Short: "Check a timeline log for reader/writer exclusion violations",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := verifyLog(args[0], os.Stdout); err != nil {
			logrus.Fatalf("Verification failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
