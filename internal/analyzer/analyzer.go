package analyzer

import (
	"log/slog"

	"github.com/jacobarthurs/awrlens/internal/awr"
)

// Analyze evaluates engine against report. A nil engine uses the built-in
// rules.
func Analyze(report *awr.Report, engine *Engine) AnalysisResult {
	if engine == nil {
		engine = DefaultEngine()
	}

	findings := engine.Evaluate(BuildMetrics(report))
	slog.Debug("analysis complete", "db_name", report.Instance.DBName, "findings", len(findings))

	return AnalysisResult{
		Instance: report.Instance,
		Snapshot: report.Snapshot,
		Findings: findings,
		Summary:  summarize(findings),
	}
}
