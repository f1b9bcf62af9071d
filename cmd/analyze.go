/*
Copyright © 2026 JACOB ARTHURS
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jacobarthurs/awrlens/internal/analyzer"
	"github.com/jacobarthurs/awrlens/internal/output"
	"github.com/jacobarthurs/awrlens/internal/pipeline"
	"github.com/jacobarthurs/awrlens/internal/profile"
	"github.com/jacobarthurs/awrlens/internal/store"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Diagnose one or more AWR reports",
	Long: `Parse Oracle AWR HTML reports and evaluate diagnostic rules against them.

Reports are processed in parallel and every report is analyzed independently:
a report that fails to parse does not stop the others.
Use "-" to read from stdin. If no file is provided, enters interactive mode.

Rules come from --rules, then rules_dir in the config file, then the rules
built into the binary. When a connection is resolved from --db, --profile or
the default profile, reports and findings are saved to PostgreSQL.`,
	Example: `  # Analyze from file
  awrlens analyze awrrpt.html

  # Analyze a directory of reports with custom rules
  awrlens analyze reports/*.html --rules ./rules --workers 4

  # Save results using a profile
  awrlens analyze awrrpt.html --profile prod

  # Read from stdin
  cat awrrpt.html | awrlens analyze -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _ := cmd.Flags().GetString("db")
		profileName, _ := cmd.Flags().GetString("profile")
		format, _ := cmd.Flags().GetString("format")
		rulesFlag, _ := cmd.Flags().GetString("rules")
		workers, _ := cmd.Flags().GetInt("workers")

		if format != "text" && format != "json" {
			return fmt.Errorf("invalid output format %q: must be \"text\" or \"json\"", format)
		}

		connStr, err := profile.ResolveConnStr(db, profileName)
		if err != nil {
			return err
		}

		engine, err := loadEngine(rulesFlag)
		if err != nil {
			return err
		}

		files := args
		if len(files) == 0 {
			files = []string{""}
		}
		inputs := make([]pipeline.Input, len(files))
		for i, f := range files {
			inputs[i] = pipeline.Input{Name: f}
		}

		ctx := cmd.Context()
		results := pipeline.Run(ctx, inputs, engine, workers)

		ids := make([]string, len(results))
		if connStr != "" {
			if ids, err = persist(ctx, connStr, results); err != nil {
				return err
			}
		}

		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
			}
		}

		switch format {
		case "json":
			entries := make([]output.FileAnalysis, len(results))
			for i, r := range results {
				entries[i] = output.NewFileAnalysis(r, ids[i])
			}
			if err := output.RenderJSON(os.Stdout, entries); err != nil {
				return err
			}
		case "text":
			if err := renderAnalyses(results, ids); err != nil {
				return err
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d reports failed", failed, len(results))
		}
		return nil
	},
}

func renderAnalyses(results []pipeline.Result, ids []string) error {
	for i, r := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("==> %s <==\n\n", displayName(r.Name))
		}
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", displayName(r.Name), r.Err)
			continue
		}
		if err := output.RenderAnalysisText(os.Stdout, r.Analysis); err != nil {
			return err
		}
		if ids[i] != "" {
			fmt.Printf("\nSaved as %s\n", ids[i])
		}
	}
	return nil
}

// persist saves every result and returns the report ids in input order.
func persist(ctx context.Context, connStr string, results []pipeline.Result) ([]string, error) {
	st, err := store.Connect(ctx, connStr)
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close(ctx) }()

	if err := st.Migrate(ctx); err != nil {
		return nil, err
	}

	ids := make([]string, len(results))
	for i, r := range results {
		up := store.Upload{Filename: displayName(r.Name), Size: r.Size}
		if r.Err != nil {
			if _, err := st.SaveFailure(ctx, up, r.Err); err != nil {
				return nil, err
			}
			continue
		}
		id, err := st.SaveAnalysis(ctx, up, r.Report, r.Analysis.Findings)
		if err != nil {
			return nil, err
		}
		ids[i] = id.String()
	}
	return ids, nil
}

func loadEngine(rulesFlag string) (*analyzer.Engine, error) {
	dir, err := profile.ResolveRulesDir(rulesFlag)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return analyzer.DefaultEngine(), nil
	}
	return analyzer.NewEngineFromDir(dir), nil
}

func displayName(name string) string {
	switch name {
	case "", "-":
		return "stdin"
	default:
		return filepath.Base(name)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringP("db", "d", "", "PostgreSQL connection string for saving results")
	analyzeCmd.Flags().StringP("profile", "p", "", "Use named profile from config")
	analyzeCmd.Flags().StringP("format", "f", "text", "Output format: text, json")
	analyzeCmd.Flags().StringP("rules", "r", "", "Directory of YAML rule files")
	analyzeCmd.Flags().IntP("workers", "w", 0, "Reports processed in parallel (default: number of CPUs)")
	analyzeCmd.MarkFlagsMutuallyExclusive("db", "profile")
}
