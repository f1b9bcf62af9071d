package analyzer

import "github.com/jacobarthurs/awrlens/internal/awr"

type Severity string

const (
	Critical Severity = "critical"
	High     Severity = "high"
	Medium   Severity = "medium"
	Low      Severity = "low"
	Unknown  Severity = "unknown"
)

// Severities is the ranking table, most severe first. Sorting and summary
// counts both read it.
var Severities = []Severity{Critical, High, Medium, Low}

// Rank orders severities: critical 0 through low 3. Anything not in
// Severities ranks last.
func (s Severity) Rank() int {
	for i, known := range Severities {
		if s == known {
			return i
		}
	}
	return len(Severities)
}

// Known reports whether s appears in the ranking table.
func (s Severity) Known() bool {
	return s.Rank() < len(Severities)
}

type Finding struct {
	RuleID         string         `json:"rule_id"`
	Severity       Severity       `json:"severity"`
	Category       string         `json:"category"`
	Title          string         `json:"issue_title"`
	Description    string         `json:"issue_description"`
	Recommendation string         `json:"recommendation"`
	MetricValues   map[string]any `json:"metric_values"`
}

type Summary struct {
	Total      int              `json:"total"`
	BySeverity map[Severity]int `json:"by_severity"`
}

// Count returns the number of findings at s.
func (s Summary) Count(sev Severity) int {
	return s.BySeverity[sev]
}

type AnalysisResult struct {
	Instance awr.InstanceInfo `json:"instance_info"`
	Snapshot awr.SnapshotInfo `json:"snapshot_info"`
	Findings []Finding        `json:"findings"`
	Summary  Summary          `json:"summary"`
}

func summarize(findings []Finding) Summary {
	s := Summary{
		Total:      len(findings),
		BySeverity: make(map[Severity]int, len(Severities)+1),
	}
	for _, sev := range Severities {
		s.BySeverity[sev] = 0
	}
	for _, f := range findings {
		if f.Severity.Known() {
			s.BySeverity[f.Severity]++
		} else {
			s.BySeverity[Unknown]++
		}
	}
	return s
}
