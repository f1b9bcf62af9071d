package awr

import (
	"log/slog"
	"slices"
	"strings"
)

// Oracle19c parses 19c/21c/23ai reports. It also serves as the
// approximation for 11g and 12c, whose layouts are close enough.
type Oracle19c struct {
	baseParser
}

func (Oracle19c) Name() string { return "oracle19c" }

// InstanceInfo extends the base lookup: 19c splits the header into separate
// database, instance and host tables, so the tables that follow the
// "DB Name" table are read column-wise for the fields still missing.
func (p Oracle19c) InstanceInfo(d *Document) InstanceInfo {
	info := p.baseParser.InstanceInfo(d)
	if info.DBName == "" {
		return info
	}

	tables := d.Tables()
	start := -1
	for i, t := range tables {
		if rows := Rows(t); len(rows) > 0 && hasCell(CellTexts(rows[0]), "DB Name") {
			start = i
			break
		}
	}
	if start < 0 {
		return info
	}

	for _, t := range tables[start+1:] {
		if info.InstanceName != "" && info.HostName != "" {
			break
		}
		rows := Rows(t)
		if len(rows) < 2 {
			break
		}
		headers := CellTexts(rows[0])
		if !slices.Contains(headers, "Instance") && !hasCell(headers, "Host Name") {
			break
		}
		var extra InstanceInfo
		values := CellTexts(rows[1])
		for j, h := range headers {
			if j < len(values) {
				applyInstanceLabel(&extra, h, values[j])
			}
		}
		if info.InstanceName == "" {
			info.InstanceName = extra.InstanceName
		}
		if info.HostName == "" {
			info.HostName = extra.HostName
		}
	}

	return info
}

// InstanceEfficiency reads "Instance Efficiency Percentages", which lays
// out two label/value pairs per row.
func (Oracle19c) InstanceEfficiency(d *Document) map[string]any {
	stats := make(map[string]any)

	table := d.FindTableByHeader("Instance Efficiency")
	if table == nil {
		slog.Warn("instance efficiency section not found")
		return stats
	}

	for _, row := range Rows(table) {
		cells := CellTexts(row)
		for i := 0; i+1 < len(cells); i += 2 {
			key := trimLabel(cells[i])
			if key == "" || cells[i+1] == "" {
				continue
			}
			stats[key] = ParseValue(cells[i+1])
		}
	}

	return stats
}

// MemoryStats reads "Memory Statistics" as name -> {begin, end}.
func (Oracle19c) MemoryStats(d *Document) map[string]any {
	stats := make(map[string]any)

	table := d.FindTableByHeader("Memory Statistics")
	if table == nil {
		slog.Warn("memory statistics section not found")
		return stats
	}

	rows := Rows(table)
	if len(rows) > 0 {
		rows = rows[1:]
	}
	for _, row := range rows {
		cells := CellTexts(row)
		if len(cells) < 3 {
			continue
		}
		key := trimLabel(cells[0])
		if key == "" {
			continue
		}
		stats[key] = map[string]any{
			"begin": ParseValue(cells[1]),
			"end":   ParseValue(cells[2]),
		}
	}

	return stats
}

// IOStats reads "IOStat by Function summary" as function -> column -> value.
func (Oracle19c) IOStats(d *Document) map[string]any {
	stats := make(map[string]any)

	table := d.FindTableByHeader("IOStat by Function summary")
	if table == nil {
		slog.Warn("IO statistics section not found")
		return stats
	}

	rows := Rows(table)
	if len(rows) == 0 {
		return stats
	}
	headers := CellTexts(rows[0])
	if len(headers) < 2 {
		return stats
	}

	for _, rec := range Records(table) {
		name := rec[headers[0]]
		if name == "" {
			continue
		}
		fn := make(map[string]any, len(headers)-1)
		for _, h := range headers[1:] {
			fn[h] = ParseValue(rec[h])
		}
		stats[name] = fn
	}

	return stats
}

func trimLabel(s string) string {
	return strings.TrimSpace(strings.TrimSuffix(s, ":"))
}
