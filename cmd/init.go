/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"fmt"

	"github.com/jacobarthurs/awrlens/internal/profile"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config file with example template",
	Long: `Create the awrlens config file (profiles.yaml in the user config directory)
with a commented example template.

The config file stores named PostgreSQL connection profiles that analyses are
saved to, the default profile, and an optional custom rules directory. If a
config file already exists, it will not be overwritten.`,
	Example: `  # Create default config
  awrlens init

  # Overwrite existing config
  awrlens init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		path, err := profile.Init(force)
		if err != nil {
			return err
		}

		fmt.Printf("Created config at %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("force", "f", false, "Overwrite existing config file")
}
