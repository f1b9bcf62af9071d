/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/jacobarthurs/awrlens/internal/awr"
	"github.com/jacobarthurs/awrlens/internal/output"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Extract structured data from an AWR report",
	Long: `Parse an Oracle AWR HTML report and print the extracted data.

The JSON output carries instance_info, snapshot_info, load_profile,
wait_events, top_sql, memory_stats, io_stats and instance_efficiency.
Use "-" to read from stdin. If no file is provided, enters interactive mode.`,
	Example: `  # Print the parsed report as JSON
  awrlens parse awrrpt.html

  # Print a short text summary
  awrlens parse awrrpt.html --format text`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		if format != "text" && format != "json" {
			return fmt.Errorf("invalid output format %q: must be \"text\" or \"json\"", format)
		}

		var file string
		if len(args) > 0 {
			file = args[0]
		}

		report, err := awr.Resolve(file)
		if err != nil {
			return err
		}

		switch format {
		case "json":
			return output.RenderJSON(os.Stdout, report)
		case "text":
			return output.RenderReportText(os.Stdout, report)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringP("format", "f", "json", "Output format: json, text")
}
