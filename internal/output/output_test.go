package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jacobarthurs/awrlens/internal/analyzer"
	"github.com/jacobarthurs/awrlens/internal/awr"
	"github.com/jacobarthurs/awrlens/internal/comparator"
	"github.com/jacobarthurs/awrlens/internal/pipeline"
)

func sampleAnalysis() analyzer.AnalysisResult {
	begin := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	end := begin.Add(time.Hour)
	return analyzer.AnalysisResult{
		Instance: awr.InstanceInfo{Version: "19.0.0", DBName: "ORCL", HostName: "db01"},
		Snapshot: awr.SnapshotInfo{BeginSnapID: 100, EndSnapID: 101, BeginTime: &begin, EndTime: &end, ElapsedTime: 3600, DBTime: 9000},
		Findings: []analyzer.Finding{
			{RuleID: "ROW_LOCK_CONTENTION", Severity: analyzer.Critical, Category: "wait_events", Title: "Row lock contention", Recommendation: "Find the blocking sessions"},
			{RuleID: "HIGH_LOG_FILE_SYNC", Severity: analyzer.High, Category: "wait_events", Title: "High log file sync", Description: "Commits wait on LGWR"},
		},
		Summary: analyzer.Summary{
			Total:      2,
			BySeverity: map[analyzer.Severity]int{analyzer.Critical: 1, analyzer.High: 1},
		},
	}
}

func TestRenderAnalysisText(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderAnalysisText(&buf, sampleAnalysis()); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Report Summary",
		"ORCL",
		"db01",
		"100 → 101",
		"2024-01-01 10:00:00",
		"Active Sess.:  2.50",
		"Findings (2)",
		"CRITICAL",
		"Row lock contention",
		"[wait_events]",
		"→ Find the blocking sessions",
		"Commits wait on LGWR",
		"Total: 2 (1 critical, 1 high, 0 medium, 0 low)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if strings.Index(out, "Row lock contention") > strings.Index(out, "High log file sync") {
		t.Error("findings should keep their order")
	}
}

func TestRenderAnalysisText_NoFindings(t *testing.T) {
	result := sampleAnalysis()
	result.Findings = nil

	var buf bytes.Buffer
	if err := RenderAnalysisText(&buf, result); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No issues found.") {
		t.Errorf("expected no issues message, got:\n%s", buf.String())
	}
}

func TestRenderAnalysisText_UnknownSeverity(t *testing.T) {
	result := sampleAnalysis()
	result.Findings = []analyzer.Finding{{RuleID: "X", Severity: "urgent", Title: "Custom"}}
	result.Summary = analyzer.Summary{Total: 1, BySeverity: map[analyzer.Severity]int{analyzer.Unknown: 1}}

	var buf bytes.Buffer
	if err := RenderAnalysisText(&buf, result); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "URGENT") || !strings.Contains(out, "1 unknown") {
		t.Errorf("unknown severity not rendered:\n%s", out)
	}
}

func TestRenderReportText(t *testing.T) {
	report := &awr.Report{
		Instance: awr.InstanceInfo{DBName: "ORCL", Version: "19.0.0"},
		LoadProfile: map[string]awr.LoadProfileMetric{
			"Redo size (bytes):": {PerSecond: 1024, PerTxn: 10},
			"DB CPU(s):":         {PerSecond: 1.5, PerTxn: 0.1},
		},
	}
	for i := range 7 {
		report.WaitEvents.Events = append(report.WaitEvents.Events, awr.WaitEvent{Name: "event-" + string(rune('a'+i))})
	}
	report.TopSQL.ByCPU = []awr.SQLStat{{"SQL Id": "abc"}}

	var buf bytes.Buffer
	if err := RenderReportText(&buf, report); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()

	if strings.Index(out, "DB CPU(s):") > strings.Index(out, "Redo size (bytes):") {
		t.Error("load profile should be sorted by name")
	}
	if !strings.Contains(out, "event-e") || strings.Contains(out, "event-f") {
		t.Errorf("expected the first five wait events only:\n%s", out)
	}
	if !strings.Contains(out, "Top SQL: by_cpu 1") {
		t.Errorf("missing top SQL counts:\n%s", out)
	}
}

func TestRenderComparisonText(t *testing.T) {
	result := comparator.ComparisonResult{
		OldDBName: "ORCL",
		NewDBName: "ORCL",
		LoadProfile: []comparator.MetricDelta{
			{Name: "Hard parses (SQL):", ChangeType: comparator.Modified, Old: 2, New: 15.2, Pct: 660, Dir: comparator.Regressed},
			{Name: "Logons:", ChangeType: comparator.NoChange, Old: 1, New: 1},
		},
		WaitEvents: []comparator.MetricDelta{
			{Name: "latch free", ChangeType: comparator.Added, New: 12},
		},
		Summary: comparator.Summary{
			OldDBTime:       3600,
			NewDBTime:       9000,
			DBTimePct:       150,
			DBTimeDir:       comparator.Regressed,
			OldElapsed:      3600,
			NewElapsed:      3600,
			OldAAS:          1,
			NewAAS:          2.5,
			AASPct:          150,
			AASDir:          comparator.Regressed,
			WaitDir:         comparator.Regressed,
			MetricsAdded:    1,
			MetricsModified: 1,
			Regressed:       1,
			Verdict:         "heavier load and more waiting",
		},
	}

	var buf bytes.Buffer
	if err := RenderComparisonText(&buf, result); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"1.00 → " + colorRed + "2.50 ↑ (+150.0%)",
		"1 modified, 1 added, 0 removed",
		"~ Hard parses (SQL):",
		"+ latch free",
		colorRed + "Verdict: heavier load and more waiting",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Logons:") {
		t.Error("unchanged metrics should not be listed")
	}
}

func TestRenderComparisonText_NoChanges(t *testing.T) {
	var buf bytes.Buffer
	err := RenderComparisonText(&buf, comparator.ComparisonResult{
		Summary: comparator.Summary{Verdict: "no significant change"},
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "No significant metric changes.") || !strings.Contains(out, "Verdict: no significant change") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRenderRulesText(t *testing.T) {
	rules := []analyzer.Rule{
		{ID: "LOW_BUFFER_HIT_RATIO", Severity: analyzer.High, Category: "memory", Name: "Low buffer hit ratio"},
		{ID: "HIGH_CPU_USAGE", Severity: analyzer.High, Category: "cpu", Name: "High CPU usage"},
		{ID: "LOW_LIBRARY_HIT_RATIO", Severity: analyzer.Medium, Category: "memory", Name: "Low library hit ratio"},
	}

	var buf bytes.Buffer
	if err := RenderRulesText(&buf, rules); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "memory (2)") || !strings.Contains(out, "cpu (1)") {
		t.Errorf("missing category headings:\n%s", out)
	}
	if strings.Index(out, "cpu (1)") > strings.Index(out, "memory (2)") {
		t.Error("categories should be sorted")
	}
}

func TestRenderRulesText_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRulesText(&buf, nil); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if buf.String() != "No rules loaded.\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestRender_PropagatesWriteError(t *testing.T) {
	if err := RenderAnalysisText(failingWriter{}, sampleAnalysis()); err == nil {
		t.Error("expected write error")
	}
}

func TestNewFileAnalysis(t *testing.T) {
	ok := NewFileAnalysis(pipeline.Result{Name: "a.html", Analysis: sampleAnalysis()}, "0190-abc")
	failed := NewFileAnalysis(pipeline.Result{Name: "b.html", Err: errors.New("unsupported Oracle version: 9.0.1")}, "")

	var buf bytes.Buffer
	if err := RenderJSON(&buf, []FileAnalysis{ok, failed}); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded[0]["report_id"] != "0190-abc" || decoded[0]["analysis"] == nil {
		t.Errorf("unexpected success entry: %v", decoded[0])
	}
	if decoded[1]["error"] != "unsupported Oracle version: 9.0.1" || decoded[1]["analysis"] != nil {
		t.Errorf("unexpected failure entry: %v", decoded[1])
	}
	if _, ok := decoded[1]["report_id"]; ok {
		t.Error("report_id should be omitted when empty")
	}
}
