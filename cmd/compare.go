/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/jacobarthurs/awrlens/internal/awr"
	"github.com/jacobarthurs/awrlens/internal/comparator"
	"github.com/jacobarthurs/awrlens/internal/output"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [old] [new]",
	Short: "Compare two AWR reports",
	Long: `Compare two Oracle AWR reports, typically a baseline and a problem period.

Load profile rates and wait event times are diffed metric by metric. Lower is
better for every metric. Changes smaller than --threshold percent are treated
as noise. Either file (but not both) can be "-" to read from stdin.`,
	Example: `  # Compare a baseline with an incident window
  awrlens compare baseline.html incident.html

  # Only report changes above 10%
  awrlens compare baseline.html incident.html --threshold 10

  # Read one report from stdin
  cat incident.html | awrlens compare baseline.html -`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		threshold, _ := cmd.Flags().GetFloat64("threshold")

		if format != "text" && format != "json" {
			return fmt.Errorf("invalid output format %q: must be \"text\" or \"json\"", format)
		}
		if args[0] == "-" && args[1] == "-" {
			return fmt.Errorf("only one report can be read from stdin")
		}
		if threshold < 0 {
			return fmt.Errorf("invalid threshold %.2f: must not be negative", threshold)
		}

		oldReport, err := awr.Resolve(args[0])
		if err != nil {
			return fmt.Errorf("old report: %w", err)
		}
		newReport, err := awr.Resolve(args[1])
		if err != nil {
			return fmt.Errorf("new report: %w", err)
		}

		c := &comparator.Comparator{Threshold: threshold}
		result := c.Compare(oldReport, newReport)

		switch format {
		case "json":
			return output.RenderJSON(os.Stdout, result)
		case "text":
			return output.RenderComparisonText(os.Stdout, result)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	compareCmd.Flags().Float64P("threshold", "t", comparator.SignificanceThresholdPct, "Minimum change in percent to report")
}
