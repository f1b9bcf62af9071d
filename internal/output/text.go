package output

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/jacobarthurs/awrlens/internal/analyzer"
	"github.com/jacobarthurs/awrlens/internal/awr"
	"github.com/jacobarthurs/awrlens/internal/comparator"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// Wait events listed in the report summary.
const summaryWaitEvents = 5

type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

func (tw *textWriter) heading(title string) {
	tw.printf("%s%s%s%s\n\n", colorBold, colorCyan, title, colorReset)
}

func RenderAnalysisText(w io.Writer, result analyzer.AnalysisResult) error {
	tw := &textWriter{w: w}

	tw.renderInstance(result.Instance, result.Snapshot)
	tw.printf("\n")

	if len(result.Findings) == 0 {
		tw.printf("%s%sNo issues found.%s\n", colorBold, colorGreen, colorReset)
		return tw.err
	}

	tw.heading(fmt.Sprintf("Findings (%d)", len(result.Findings)))

	for i, f := range result.Findings {
		label, color := severityFormat(f.Severity)
		tw.printf("  %s%-8s%s %s %s[%s]%s\n", color, label, colorReset, f.Title, colorDim, f.Category, colorReset)
		if f.Description != "" {
			tw.printf("           %s\n", f.Description)
		}
		if f.Recommendation != "" {
			tw.printf("  %s→ %s%s\n", colorDim, f.Recommendation, colorReset)
		}
		if i < len(result.Findings)-1 {
			tw.printf("\n")
		}
	}

	tw.printf("\n")
	tw.renderSeverityCounts(result.Summary)

	return tw.err
}

func (tw *textWriter) renderSeverityCounts(s analyzer.Summary) {
	parts := make([]string, 0, len(analyzer.Severities)+1)
	for _, sev := range analyzer.Severities {
		parts = append(parts, fmt.Sprintf("%d %s", s.Count(sev), sev))
	}
	if n := s.Count(analyzer.Unknown); n > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", n, analyzer.Unknown))
	}
	tw.printf("  Total: %d (%s)\n", s.Total, strings.Join(parts, ", "))
}

func severityFormat(s analyzer.Severity) (string, string) {
	switch s {
	case analyzer.Critical:
		return "CRITICAL", colorBold + colorRed
	case analyzer.High:
		return "HIGH", colorRed
	case analyzer.Medium:
		return "MEDIUM", colorYellow
	case analyzer.Low:
		return "LOW", colorCyan
	default:
		return strings.ToUpper(string(s)), colorDim
	}
}

func (tw *textWriter) renderInstance(inst awr.InstanceInfo, snap awr.SnapshotInfo) {
	tw.heading("Report Summary")

	tw.printf("  Database:      %s\n", orDash(inst.DBName))
	if inst.InstanceName != "" {
		tw.printf("  Instance:      %s\n", inst.InstanceName)
	}
	if inst.HostName != "" {
		tw.printf("  Host:          %s\n", inst.HostName)
	}
	tw.printf("  Version:       %s\n", orDash(inst.Version))

	if snap.BeginSnapID > 0 || snap.EndSnapID > 0 {
		tw.printf("  Snapshots:     %d → %d\n", snap.BeginSnapID, snap.EndSnapID)
	}
	if snap.BeginTime != nil && snap.EndTime != nil {
		tw.printf("  Period:        %s → %s\n", snap.BeginTime.Format(time.DateTime), snap.EndTime.Format(time.DateTime))
	}
	if snap.ElapsedTime > 0 {
		tw.printf("  Elapsed:       %.2f min\n", snap.ElapsedTime/60)
	}
	if snap.DBTime > 0 {
		tw.printf("  DB Time:       %.2f min\n", snap.DBTime/60)
		if snap.ElapsedTime > 0 {
			tw.printf("  Active Sess.:  %.2f\n", snap.DBTime/snap.ElapsedTime)
		}
	}
}

// RenderReportText prints the parsed sections of one report.
func RenderReportText(w io.Writer, report *awr.Report) error {
	tw := &textWriter{w: w}

	tw.renderInstance(report.Instance, report.Snapshot)
	tw.printf("\n")

	if len(report.LoadProfile) > 0 {
		tw.heading("Load Profile")
		tw.printf("  %-32s %16s %16s\n", "", "Per Second", "Per Txn")
		names := make([]string, 0, len(report.LoadProfile))
		for name := range report.LoadProfile {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			m := report.LoadProfile[name]
			tw.printf("  %-32s %16.2f %16.2f\n", name, m.PerSecond, m.PerTxn)
		}
		tw.printf("\n")
	}

	if events := report.WaitEvents.Events; len(events) > 0 {
		tw.heading("Top Wait Events")
		for _, e := range events[:min(len(events), summaryWaitEvents)] {
			tw.printf("  %-32s %12.0f waits %10.2f s %8.2f ms %6.1f%%\n",
				e.Name, e.Waits, e.TimeWaited, e.AvgWait, e.PctDBTime)
		}
		tw.printf("\n")
	}

	var rankings []string
	for _, r := range report.TopSQL.Rankings() {
		if len(r.Rows) > 0 {
			rankings = append(rankings, fmt.Sprintf("%s %d", r.Key, len(r.Rows)))
		}
	}
	if len(rankings) > 0 {
		tw.printf("  Top SQL: %s\n", strings.Join(rankings, ", "))
	}

	return tw.err
}

func RenderComparisonText(w io.Writer, result comparator.ComparisonResult) error {
	tw := &textWriter{w: w}
	s := result.Summary

	tw.heading("Summary")
	if result.OldDBName != "" || result.NewDBName != "" {
		tw.printf("  Database:        %s → %s\n", orDash(result.OldDBName), orDash(result.NewDBName))
	}
	tw.printf("  DB Time:         %s\n", formatDelta(s.OldDBTime, s.NewDBTime, s.DBTimePct, s.DBTimeDir, "%.1f s"))
	if s.OldElapsed > 0 || s.NewElapsed > 0 {
		tw.printf("  Active Sessions: %s\n", formatDelta(s.OldAAS, s.NewAAS, s.AASPct, s.AASDir, "%.2f"))
	}
	tw.printf("  Wait Time:       %s\n", formatDelta(s.OldWaitTime, s.NewWaitTime, s.WaitPct, s.WaitDir, "%.1f s"))
	tw.printf("\n")

	changes := s.MetricsAdded + s.MetricsRemoved + s.MetricsModified
	if changes == 0 {
		tw.printf("%s%sNo significant metric changes.%s\n", colorBold, colorGreen, colorReset)
		tw.renderVerdict(s)
		return tw.err
	}

	tw.printf("  Changes: %d modified, %d added, %d removed (%d improved, %d regressed)\n\n",
		s.MetricsModified, s.MetricsAdded, s.MetricsRemoved, s.Improved, s.Regressed)

	tw.renderDeltas("Load Profile (per second)", result.LoadProfile, "%.2f")
	tw.renderDeltas("Wait Events (time waited)", result.WaitEvents, "%.2f s")

	tw.renderVerdict(s)

	return tw.err
}

func (tw *textWriter) renderDeltas(title string, deltas []comparator.MetricDelta, fmtStr string) {
	changed := slices.DeleteFunc(slices.Clone(deltas), func(d comparator.MetricDelta) bool {
		return d.ChangeType == comparator.NoChange
	})
	if len(changed) == 0 {
		return
	}

	tw.heading(title)
	for _, d := range changed {
		switch d.ChangeType {
		case comparator.Added:
			tw.printf("  %s+ %s%s (%s)\n", colorYellow, d.Name, colorReset, fmt.Sprintf(fmtStr, d.New))
		case comparator.Removed:
			tw.printf("  %s- %s%s (%s)\n", colorDim, d.Name, colorReset, fmt.Sprintf(fmtStr, d.Old))
		case comparator.Modified:
			tw.printf("  ~ %s: %s\n", d.Name, formatDelta(d.Old, d.New, d.Pct, d.Dir, fmtStr))
		}
	}
	tw.printf("\n")
}

// RenderRulesText lists rules grouped by category, categories in name order.
func RenderRulesText(w io.Writer, rules []analyzer.Rule) error {
	tw := &textWriter{w: w}

	if len(rules) == 0 {
		tw.printf("No rules loaded.\n")
		return tw.err
	}

	byCategory := make(map[string][]analyzer.Rule)
	for _, r := range rules {
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	slices.Sort(categories)

	for i, c := range categories {
		tw.heading(fmt.Sprintf("%s (%d)", c, len(byCategory[c])))
		for _, r := range byCategory[c] {
			label, color := severityFormat(r.Severity)
			tw.printf("  %s%-8s%s %-36s %s%s%s\n", color, label, colorReset, r.ID, colorDim, r.Name, colorReset)
		}
		if i < len(categories)-1 {
			tw.printf("\n")
		}
	}

	return tw.err
}

func formatDelta(oldVal, newVal, pct float64, dir comparator.Direction, fmtStr string) string {
	color := dirColor(dir)
	arrow := dirArrow(dir)
	oldStr := fmt.Sprintf(fmtStr, oldVal)
	newStr := fmt.Sprintf(fmtStr, newVal)
	return fmt.Sprintf("%s → %s%s %s (%+.1f%%)%s", oldStr, color, newStr, arrow, pct, colorReset)
}

func dirColor(d comparator.Direction) string {
	switch d {
	case comparator.Improved:
		return colorGreen
	case comparator.Regressed:
		return colorRed
	default:
		return ""
	}
}

func dirArrow(d comparator.Direction) string {
	switch d {
	case comparator.Improved:
		return "↓"
	case comparator.Regressed:
		return "↑"
	default:
		return ""
	}
}

func (tw *textWriter) renderVerdict(s comparator.Summary) {
	var color string
	switch {
	case s.AASDir == comparator.Improved && s.WaitDir == comparator.Improved:
		color = colorGreen
	case s.AASDir == comparator.Regressed && s.WaitDir == comparator.Regressed:
		color = colorRed
	case s.AASDir == comparator.Regressed || s.WaitDir == comparator.Regressed:
		color = colorYellow
	}
	if color != "" {
		tw.printf("\n%sVerdict: %s%s\n", color, s.Verdict, colorReset)
	} else {
		tw.printf("\nVerdict: %s\n", s.Verdict)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
