/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/jacobarthurs/awrlens/internal/output"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect diagnostic rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded rules grouped by category",
	Example: `  # Built-in rules
  awrlens rules list

  # Rules from a directory
  awrlens rules list --rules ./rules`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		rulesFlag, _ := cmd.Flags().GetString("rules")

		if format != "text" && format != "json" {
			return fmt.Errorf("invalid output format %q: must be \"text\" or \"json\"", format)
		}

		engine, err := loadEngine(rulesFlag)
		if err != nil {
			return err
		}

		switch format {
		case "json":
			return output.RenderJSON(os.Stdout, engine.Rules())
		case "text":
			return output.RenderRulesText(os.Stdout, engine.Rules())
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd)
	rulesListCmd.Flags().StringP("rules", "r", "", "Directory of YAML rule files")
	rulesListCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
}
