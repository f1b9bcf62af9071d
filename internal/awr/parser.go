package awr

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parser extracts the sections every supported release shares.
type Parser interface {
	Name() string
	InstanceInfo(d *Document) InstanceInfo
	SnapshotInfo(d *Document) SnapshotInfo
	LoadProfile(d *Document) map[string]LoadProfileMetric
	WaitEvents(d *Document) WaitEvents
	TopSQL(d *Document) TopSQL
}

// Optional capabilities. Extract leaves the section empty when a parser
// does not implement them.
type (
	MemoryStatsParser interface {
		MemoryStats(d *Document) map[string]any
	}
	IOStatsParser interface {
		IOStats(d *Document) map[string]any
	}
	EfficiencyParser interface {
		InstanceEfficiency(d *Document) map[string]any
	}
)

// Extract runs p over the document. version fills the instance version when
// the document does not state one.
func Extract(p Parser, d *Document, version string) *Report {
	slog.Debug("extracting AWR report", "parser", p.Name())

	r := &Report{
		Instance:           p.InstanceInfo(d),
		Snapshot:           p.SnapshotInfo(d),
		LoadProfile:        p.LoadProfile(d),
		WaitEvents:         p.WaitEvents(d),
		TopSQL:             p.TopSQL(d),
		MemoryStats:        map[string]any{},
		IOStats:            map[string]any{},
		InstanceEfficiency: map[string]any{},
	}
	if r.Instance.Version == "" {
		r.Instance.Version = version
	}

	if mp, ok := p.(MemoryStatsParser); ok {
		r.MemoryStats = mp.MemoryStats(d)
	}
	if ip, ok := p.(IOStatsParser); ok {
		r.IOStats = ip.IOStats(d)
	}
	if ep, ok := p.(EfficiencyParser); ok {
		r.InstanceEfficiency = ep.InstanceEfficiency(d)
	}

	return r
}

// baseParser implements the shared extraction steps.
type baseParser struct{}

func (baseParser) Name() string { return "base" }

func (baseParser) InstanceInfo(d *Document) InstanceInfo {
	var info InstanceInfo

	for _, table := range d.Tables() {
		rows := Rows(table)
		if columnarInstanceInfo(rows, &info) {
			break
		}
		for _, row := range rows {
			pairInstanceInfo(Cells(row), &info)
		}
		if info.DBName != "" {
			break
		}
	}

	slog.Debug("instance info", "db_name", info.DBName, "instance", info.InstanceName, "host", info.HostName)
	return info
}

// columnarInstanceInfo handles the header row + data row layout
// (DB Name | DB Id | Instance | ... over one row of values). The header
// row must be all th cells, otherwise the table is a label/value grid.
func columnarInstanceInfo(rows []*html.Node, info *InstanceInfo) bool {
	for i := 0; i+1 < len(rows); i++ {
		headers := CellTexts(rows[i])
		if !hasCell(headers, "DB Name") || !headerRow(rows[i]) {
			continue
		}
		values := CellTexts(rows[i+1])
		if len(values) < len(headers) {
			continue
		}
		for j, h := range headers {
			applyInstanceLabel(info, h, values[j])
		}
		return info.DBName != ""
	}
	return false
}

func headerRow(row *html.Node) bool {
	cells := Cells(row)
	for _, c := range cells {
		if c.DataAtom != atom.Th {
			return false
		}
	}
	return len(cells) > 0
}

func pairInstanceInfo(cells []*html.Node, info *InstanceInfo) {
	for i := 0; i+1 < len(cells); i++ {
		if cells[i+1].DataAtom == atom.Th {
			continue
		}
		applyInstanceLabel(info, NodeText(cells[i]), NodeText(cells[i+1]))
	}
}

func applyInstanceLabel(info *InstanceInfo, key, value string) {
	if value == "" {
		return
	}
	switch {
	case strings.Contains(key, "DB Name"):
		info.DBName = value
	// exact: "Instance Number", "Instance Efficiency" etc. are not the name
	case key == "Instance":
		info.InstanceName = value
	case strings.Contains(key, "Host"):
		info.HostName = value
	case strings.Contains(key, "Release"), strings.Contains(key, "Version"):
		info.Version = value
	}
}

func hasCell(cells []string, label string) bool {
	for _, c := range cells {
		if strings.Contains(c, label) {
			return true
		}
	}
	return false
}

var snapTimeLayouts = []string{
	"02-Jan-06 15:04:05",
	"02-Jan-2006 15:04:05",
	"2006-01-02 15:04:05",
}

var minutesRe = regexp.MustCompile(`(?i)^([\d,]+(?:\.\d+)?)\s*\(mins?\)$`)

func (baseParser) SnapshotInfo(d *Document) SnapshotInfo {
	var info SnapshotInfo
	var ids []int64
	var times []time.Time

	for _, table := range d.Tables() {
		for _, row := range Rows(table) {
			cells := CellTexts(row)
			rowText := strings.Join(cells, " ")

			if containsAny(rowText, "Begin Snap", "End Snap", "Snap Id") {
				if id, ok := firstSnapID(cells); ok {
					ids = append(ids, id)
				}
				if t, ok := firstSnapTime(cells); ok {
					times = append(times, t)
				}
			}

			if info.ElapsedTime == 0 && strings.Contains(rowText, "Elapsed") {
				if secs := rowSeconds(cells); secs > 0 {
					info.ElapsedTime = secs
				}
			}

			if info.DBTime == 0 && strings.Contains(rowText, "DB Time") && !strings.Contains(rowText, "DB CPU") {
				if secs := rowSeconds(cells); secs > 0 {
					info.DBTime = secs
				}
			}
		}
	}

	if len(ids) > 0 {
		info.BeginSnapID = ids[0]
	}
	if len(ids) > 1 {
		info.EndSnapID = ids[1]
	}
	if len(times) > 0 {
		info.BeginTime = &times[0]
	}
	if len(times) > 1 {
		info.EndTime = &times[1]
	}

	return info
}

func firstSnapID(cells []string) (int64, bool) {
	for _, c := range cells {
		if c == "" || strings.IndexFunc(c, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
			continue
		}
		id, err := strconv.ParseInt(c, 10, 64)
		if err == nil {
			return id, true
		}
	}
	return 0, false
}

func firstSnapTime(cells []string) (time.Time, bool) {
	for _, c := range cells {
		if !strings.Contains(c, "-") || !strings.Contains(c, ":") {
			continue
		}
		if t, ok := ParseSnapTime(c); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseSnapTime tries the timestamp layouts AWR reports use.
func ParseSnapTime(s string) (time.Time, bool) {
	for _, layout := range snapTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	slog.Debug("unparseable snapshot time", "text", s)
	return time.Time{}, false
}

// rowSeconds returns the first positive duration in a row, either
// H:M:S / M:S or "N (mins)".
func rowSeconds(cells []string) float64 {
	for _, c := range cells {
		if m := minutesRe.FindStringSubmatch(c); m != nil {
			if mins := ParseNumber(m[1]); mins > 0 {
				return mins * 60
			}
			continue
		}
		if !strings.Contains(c, ":") {
			continue
		}
		if secs := ParseNumber(c); secs > 0 {
			return secs
		}
	}
	return 0
}

func (baseParser) LoadProfile(d *Document) map[string]LoadProfileMetric {
	profile := make(map[string]LoadProfileMetric)

	table := d.FindTableByHeader("Load Profile")
	if table == nil {
		slog.Warn("load profile section not found")
		return profile
	}

	rows := Rows(table)
	if len(rows) > 0 {
		rows = rows[1:]
	}
	for _, row := range rows {
		cells := CellTexts(row)
		if len(cells) < 3 || cells[0] == "" {
			continue
		}
		profile[cells[0]] = LoadProfileMetric{
			PerSecond: ParseNumber(cells[1]),
			PerTxn:    ParseNumber(cells[2]),
		}
	}

	slog.Debug("parsed load profile", "metrics", len(profile))
	return profile
}

var waitEventHeaders = []string{
	"Top 10 Foreground Events",
	"Top 5 Timed",
	"Top Timed Events",
	"Wait Events",
}

func (baseParser) WaitEvents(d *Document) WaitEvents {
	events := WaitEvents{Events: []WaitEvent{}}

	var table *html.Node
	for _, h := range waitEventHeaders {
		if table = d.FindTableByHeader(h); table != nil {
			break
		}
	}
	if table == nil {
		slog.Warn("wait events section not found")
		return events
	}

	rows := Rows(table)
	if len(rows) == 0 {
		return events
	}

	pctCol := -1
	for i, h := range CellTexts(rows[0]) {
		if i > 0 && strings.Contains(strings.ToLower(h), "db time") {
			pctCol = i
			break
		}
	}

	// Columns 1-3 are positional; reordered layouts will misassign.
	for _, row := range rows[1:] {
		cells := CellTexts(row)
		if len(cells) < 3 || cells[0] == "" {
			continue
		}
		ev := WaitEvent{
			Name:       cells[0],
			Waits:      ParseNumber(cells[1]),
			TimeWaited: ParseNumber(cells[2]),
		}
		if len(cells) > 3 {
			ev.AvgWait = waitMillis(cells[3])
		}
		if pctCol >= 0 && pctCol < len(cells) {
			ev.PctDBTime = ParseNumber(cells[pctCol])
		}
		events.Events = append(events.Events, ev)
	}

	slog.Debug("parsed wait events", "events", len(events.Events))
	return events
}

// waitMillis reads avg wait cells, which newer releases print with a
// unit ("1.31ms", "428.57us"). Unitless values pass through as-is.
func waitMillis(text string) float64 {
	s := strings.ToLower(CleanText(text))
	switch {
	case strings.HasSuffix(s, "ms"):
		return ParseNumber(strings.TrimSuffix(s, "ms"))
	case strings.HasSuffix(s, "us"):
		return ParseNumber(strings.TrimSuffix(s, "us")) / 1e3
	case strings.HasSuffix(s, "ns"):
		return ParseNumber(strings.TrimSuffix(s, "ns")) / 1e6
	case strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "(s)"):
		return ParseNumber(strings.TrimSuffix(s, "s")) * 1e3
	}
	return ParseNumber(s)
}

var topSQLSections = []struct {
	header string
	key    string
}{
	{"SQL ordered by CPU", "by_cpu"},
	{"SQL ordered by Elapsed", "by_elapsed"},
	{"SQL ordered by Gets", "by_gets"},
	{"SQL ordered by Reads", "by_reads"},
	{"SQL ordered by Executions", "by_executions"},
}

func (baseParser) TopSQL(d *Document) TopSQL {
	top := newTopSQL()

	for _, s := range topSQLSections {
		table := d.FindTableByHeader(s.header)
		if table == nil {
			continue
		}
		stats := sqlStats(table)
		top.set(s.key, stats)
		slog.Debug("parsed top SQL", "section", s.header, "statements", len(stats))
	}

	return top
}

func sqlStats(table *html.Node) []SQLStat {
	stats := []SQLStat{}
	for _, rec := range Records(table) {
		stat := make(SQLStat, len(rec))
		for header, text := range rec {
			if isTextColumn(header) {
				stat[header] = text
			} else {
				stat[header] = ParseValue(text)
			}
		}
		stats = append(stats, stat)
		if len(stats) == MaxTopSQL {
			break
		}
	}
	return stats
}

func isTextColumn(header string) bool {
	return containsAny(header, "SQL Id", "SQL Text", "SQL Module")
}

func (t *TopSQL) set(key string, stats []SQLStat) {
	switch key {
	case "by_cpu":
		t.ByCPU = stats
	case "by_elapsed":
		t.ByElapsed = stats
	case "by_gets":
		t.ByGets = stats
	case "by_reads":
		t.ByReads = stats
	case "by_executions":
		t.ByExecutions = stats
	}
}
