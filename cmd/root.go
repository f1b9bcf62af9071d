/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/jacobarthurs/awrlens/internal/logging"

	"github.com/spf13/cobra"
)

var Version = "dev"

func init() {
	if Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
	}
	rootCmd.Version = Version
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default from LOG_LEVEL, else warn)")
}

var rootCmd = &cobra.Command{
	Use:          "awrlens",
	SilenceUsage: true,
	Short:        "Parse and diagnose Oracle AWR reports",
	Long: `awrlens is a CLI tool for parsing Oracle AWR HTML reports and diagnosing
performance problems with YAML rules.

It extracts instance, snapshot, load profile, wait event and top SQL data,
evaluates diagnostic rules against it, and can diff two reports.`,
	Example: `  # Analyze a report
  awrlens analyze awrrpt_1_100_101.html

  # Analyze many reports and save the results
  awrlens analyze reports/*.html --profile prod

  # Compare a baseline with a bad period
  awrlens compare baseline.html incident.html

  # Setup config and connection profiles
  awrlens init`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		logging.SetDefault(level)
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}
