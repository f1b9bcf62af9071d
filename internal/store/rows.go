package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jacobarthurs/awrlens/internal/analyzer"
	"github.com/jacobarthurs/awrlens/internal/awr"
)

// Upload describes the document a report came from.
type Upload struct {
	Filename string
	Size     int64
}

type reportRow struct {
	ID               uuid.UUID
	Filename         string
	FileSize         int64
	OracleVersion    *string
	DBName           *string
	InstanceName     *string
	HostName         *string
	SnapshotBegin    *time.Time
	SnapshotEnd      *time.Time
	SnapshotInterval *int
	Status           string
	ErrorMessage     *string
}

func (r reportRow) args() []any {
	return []any{
		r.ID, r.Filename, r.FileSize, r.OracleVersion, r.DBName, r.InstanceName, r.HostName,
		r.SnapshotBegin, r.SnapshotEnd, r.SnapshotInterval, r.Status, r.ErrorMessage,
	}
}

type metricRow struct {
	Category string
	Data     []byte
}

type resultRow struct {
	RuleID         string
	Severity       string
	Category       string
	Title          string
	Description    string
	Recommendation string
	MetricValues   []byte
}

func (r resultRow) args(reportID uuid.UUID) []any {
	return []any{
		reportID, r.RuleID, r.Severity, r.Category, r.Title, r.Description,
		r.Recommendation, r.MetricValues,
	}
}

func newReportRow(id uuid.UUID, up Upload, report *awr.Report) reportRow {
	row := reportRow{
		ID:            id,
		Filename:      up.Filename,
		FileSize:      up.Size,
		OracleVersion: nullable(report.Instance.Version),
		DBName:        nullable(report.Instance.DBName),
		InstanceName:  nullable(report.Instance.InstanceName),
		HostName:      nullable(report.Instance.HostName),
		SnapshotBegin: report.Snapshot.BeginTime,
		SnapshotEnd:   report.Snapshot.EndTime,
		Status:        StatusParsed,
	}

	snap := report.Snapshot
	if snap.BeginTime != nil && snap.EndTime != nil && snap.ElapsedTime > 0 {
		minutes := int(snap.ElapsedTime / 60)
		row.SnapshotInterval = &minutes
	}

	return row
}

func newFailureRow(id uuid.UUID, up Upload, cause error) reportRow {
	msg := cause.Error()
	return reportRow{
		ID:           id,
		Filename:     up.Filename,
		FileSize:     up.Size,
		Status:       StatusFailed,
		ErrorMessage: &msg,
	}
}

// metricRows returns one row per non-empty report section.
func metricRows(report *awr.Report) ([]metricRow, error) {
	sections := []struct {
		category string
		empty    bool
		data     any
	}{
		{"load_profile", len(report.LoadProfile) == 0, report.LoadProfile},
		{"wait_events", len(report.WaitEvents.Events) == 0, report.WaitEvents},
		{"top_sql", topSQLEmpty(report.TopSQL), report.TopSQL},
		{"memory_stats", len(report.MemoryStats) == 0, report.MemoryStats},
		{"io_stats", len(report.IOStats) == 0, report.IOStats},
		{"instance_efficiency", len(report.InstanceEfficiency) == 0, report.InstanceEfficiency},
	}

	var rows []metricRow
	for _, s := range sections {
		if s.empty {
			continue
		}
		data, err := json.Marshal(s.data)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", s.category, err)
		}
		rows = append(rows, metricRow{Category: s.category, Data: data})
	}
	return rows, nil
}

func resultRows(findings []analyzer.Finding) ([]resultRow, error) {
	rows := make([]resultRow, 0, len(findings))
	for _, f := range findings {
		var values []byte
		if len(f.MetricValues) > 0 {
			var err error
			if values, err = json.Marshal(f.MetricValues); err != nil {
				return nil, fmt.Errorf("encoding metric values for %s: %w", f.RuleID, err)
			}
		}
		rows = append(rows, resultRow{
			RuleID:         f.RuleID,
			Severity:       string(f.Severity),
			Category:       f.Category,
			Title:          f.Title,
			Description:    f.Description,
			Recommendation: f.Recommendation,
			MetricValues:   values,
		})
	}
	return rows, nil
}

func topSQLEmpty(t awr.TopSQL) bool {
	for _, r := range t.Rankings() {
		if len(r.Rows) > 0 {
			return false
		}
	}
	return true
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
