package awr

import (
	"io"
	"log/slog"
	"strings"
)

// Parse detects the producing version, selects a parser and extracts the
// report. Only an untokenizable document (*ParseError) or an unsupported
// version (*UnsupportedVersionError) fail; missing sections come back empty.
func Parse(content string) (*Report, error) {
	return ParseReader(strings.NewReader(content))
}

func ParseReader(r io.Reader) (*Report, error) {
	doc, err := NewDocument(r)
	if err != nil {
		return nil, err
	}

	det := DetectVersion(doc)
	p, err := SelectParser(det.Version)
	if err != nil {
		return nil, err
	}

	report := Extract(p, doc, det.Version)
	slog.Info("parsed AWR report",
		"db_name", report.Instance.DBName,
		"version", report.Instance.Version,
		"load_profile", len(report.LoadProfile),
		"wait_events", len(report.WaitEvents.Events))

	return report, nil
}
