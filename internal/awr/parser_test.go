package awr

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *Report {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "awr19c.html"))
	require.NoError(t, err)

	report, err := Parse(string(data))
	require.NoError(t, err)
	return report
}

func TestParse_Fixture_Instance(t *testing.T) {
	r := loadFixture(t)

	assert.Equal(t, InstanceInfo{
		Version:      "19.0.0.0.0",
		DBName:       "ORCL",
		InstanceName: "orcl1",
		HostName:     "dbhost01",
	}, r.Instance)
}

func TestParse_Fixture_Snapshot(t *testing.T) {
	r := loadFixture(t)

	assert.Equal(t, int64(1234), r.Snapshot.BeginSnapID)
	assert.Equal(t, int64(1235), r.Snapshot.EndSnapID)
	require.NotNil(t, r.Snapshot.BeginTime)
	require.NotNil(t, r.Snapshot.EndTime)
	assert.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), *r.Snapshot.BeginTime)
	assert.Equal(t, time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC), *r.Snapshot.EndTime)
	assert.InDelta(t, 3600, r.Snapshot.ElapsedTime, 1e-9)
	assert.InDelta(t, 9000, r.Snapshot.DBTime, 1e-9)
}

func TestParse_Fixture_LoadProfile(t *testing.T) {
	r := loadFixture(t)

	want := map[string]LoadProfileMetric{
		"DB Time(s):":             {PerSecond: 2.5, PerTxn: 150.3},
		"DB CPU(s):":              {PerSecond: 1.5, PerTxn: 90.1},
		"Redo size (bytes):":      {PerSecond: 1234567.8, PerTxn: 74201.3},
		"Physical read (blocks):": {PerSecond: 12000, PerTxn: 721.2},
		"Hard parses (SQL):":      {PerSecond: 15.2, PerTxn: 0.9},
	}
	require.Len(t, r.LoadProfile, len(want))
	for name, m := range want {
		got, ok := r.LoadProfile[name]
		require.True(t, ok, "missing %q", name)
		assert.InDelta(t, m.PerSecond, got.PerSecond, 1e-9, name)
		assert.InDelta(t, m.PerTxn, got.PerTxn, 1e-9, name)
	}
}

func TestParse_Fixture_WaitEvents(t *testing.T) {
	r := loadFixture(t)

	want := []WaitEvent{
		{Name: "DB CPU", Waits: 0, TimeWaited: 5400, AvgWait: 0, PctDBTime: 60},
		{Name: "log file sync", Waits: 1234567, TimeWaited: 1620, AvgWait: 1.31, PctDBTime: 18},
		{Name: "db file sequential read", Waits: 2.1e6, TimeWaited: 900, AvgWait: 0.42857, PctDBTime: 10},
	}
	require.Len(t, r.WaitEvents.Events, len(want))
	for i, w := range want {
		got := r.WaitEvents.Events[i]
		assert.Equal(t, w.Name, got.Name)
		assert.InDelta(t, w.Waits, got.Waits, 1e-6, w.Name)
		assert.InDelta(t, w.TimeWaited, got.TimeWaited, 1e-9, w.Name)
		assert.InDelta(t, w.AvgWait, got.AvgWait, 1e-9, w.Name)
		assert.InDelta(t, w.PctDBTime, got.PctDBTime, 1e-9, w.Name)
	}
}

func TestParse_Fixture_InstanceEfficiency(t *testing.T) {
	r := loadFixture(t)

	assert.Equal(t, map[string]any{
		"Buffer Nowait %":  99.99,
		"Redo NoWait %":    100.0,
		"Buffer Hit %":     85.2,
		"In-memory Sort %": 100.0,
		"Library Hit %":    97.51,
		"Soft Parse %":     92.1,
	}, r.InstanceEfficiency)
}

func TestParse_Fixture_MemoryStats(t *testing.T) {
	r := loadFixture(t)

	assert.Equal(t, map[string]any{
		"Host Mem (MB)": map[string]any{"begin": 32011.2, "end": 32011.2},
		"SGA use (MB)":  map[string]any{"begin": 12288.0, "end": 12288.0},
	}, r.MemoryStats)
}

func TestParse_Fixture_IOStats(t *testing.T) {
	r := loadFixture(t)

	require.Contains(t, r.IOStats, "Buffer Cache Reads")
	require.Contains(t, r.IOStats, "LGWR")

	bc := r.IOStats["Buffer Cache Reads"].(map[string]any)
	assert.InDelta(t, 9.37e10, bc["Reads: Data"], 1)
	assert.InDelta(t, 3410.21, bc["Reqs per sec"], 1e-9)
	assert.InDelta(t, 0, bc["Writes: Data"], 1e-9)

	lgwr := r.IOStats["LGWR"].(map[string]any)
	assert.InDelta(t, 2e6, lgwr["Reads: Data"], 1e-6)
	assert.InDelta(t, 1.01, lgwr["Reqs per sec"], 1e-9)
	assert.InDelta(t, 4.2e9, lgwr["Writes: Data"], 1)
}

func TestParse_Fixture_TopSQL(t *testing.T) {
	r := loadFixture(t)

	require.Len(t, r.TopSQL.ByCPU, 2)
	first := r.TopSQL.ByCPU[0]
	assert.InDelta(t, 1203.51, first["CPU Time (s)"], 1e-9)
	assert.Equal(t, int64(1200), first["Executions"])
	assert.InDelta(t, 22.28, first["%Total"], 1e-9)
	assert.Equal(t, "7h35uxf5uhmm1", first["SQL Id"])
	assert.Equal(t, "SQL*Plus", first["SQL Module"])
	assert.Equal(t, "select * from orders where id = :1", first["SQL Text"])

	assert.Len(t, r.TopSQL.ByGets, MaxTopSQL, "rankings are capped")
	assert.Equal(t, "sql00000000010", r.TopSQL.ByGets[MaxTopSQL-1]["SQL Id"])

	assert.NotNil(t, r.TopSQL.ByElapsed)
	assert.Empty(t, r.TopSQL.ByElapsed)
	assert.Empty(t, r.TopSQL.ByReads)
	assert.Empty(t, r.TopSQL.ByExecutions)
}

func TestBaseParser_PairInstanceLayout(t *testing.T) {
	d := mustDocument(t, `<html><body>
<table>
<tr><th>DB Name</th><td>PROD</td><th>Instance</th><td>prod1</td></tr>
<tr><th>Host</th><td>db-02</td><th>Version</th><td>12.2.0.1.0</td></tr>
</table>
</body></html>`)

	info := baseParser{}.InstanceInfo(d)
	assert.Equal(t, InstanceInfo{
		Version:      "12.2.0.1.0",
		DBName:       "PROD",
		InstanceName: "prod1",
		HostName:     "db-02",
	}, info)
}

func TestBaseParser_InstanceNumberIsNotName(t *testing.T) {
	d := mustDocument(t, `<html><body>
<table>
<tr><th>DB Name</th><th>Instance Number</th><th>Instance</th></tr>
<tr><td>PROD</td><td>1</td><td>prod1</td></tr>
</table>
</body></html>`)

	info := baseParser{}.InstanceInfo(d)
	assert.Equal(t, "prod1", info.InstanceName)
}

func TestBaseParser_SnapshotMinutes(t *testing.T) {
	d := mustDocument(t, `<html><body><table>
<tr><td>Begin Snap:</td><td>10</td><td>02-Mar-2024 08:00:00</td><td>30</td></tr>
<tr><td>End Snap:</td><td>11</td><td>02-Mar-2024 09:00:00</td><td>31</td></tr>
<tr><td>Elapsed:</td><td></td><td>60.02 (mins)</td></tr>
<tr><td>DB Time:</td><td></td><td>1,250.50 (mins)</td></tr>
</table></body></html>`)

	info := baseParser{}.SnapshotInfo(d)
	assert.Equal(t, int64(10), info.BeginSnapID)
	assert.Equal(t, int64(11), info.EndSnapID)
	require.NotNil(t, info.BeginTime)
	assert.Equal(t, time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC), *info.BeginTime)
	assert.InDelta(t, 3601.2, info.ElapsedTime, 1e-6)
	assert.InDelta(t, 75030, info.DBTime, 1e-6)
}

func TestBaseParser_MissingSections(t *testing.T) {
	d := mustDocument(t, `<html><body><p>nothing here</p></body></html>`)
	p := baseParser{}

	assert.Empty(t, p.LoadProfile(d))
	assert.NotNil(t, p.LoadProfile(d))
	assert.NotNil(t, p.WaitEvents(d).Events)
	assert.Empty(t, p.WaitEvents(d).Events)
	assert.Equal(t, SnapshotInfo{}, p.SnapshotInfo(d))
	for _, rk := range p.TopSQL(d).Rankings() {
		assert.NotNil(t, rk.Rows, rk.Key)
		assert.Empty(t, rk.Rows, rk.Key)
	}
}

func TestParseSnapTime(t *testing.T) {
	for _, s := range []string{"01-Jan-25 10:00:00", "01-Jan-2025 10:00:00", "2025-01-01 10:00:00"} {
		got, ok := ParseSnapTime(s)
		require.True(t, ok, s)
		assert.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), got, s)
	}

	_, ok := ParseSnapTime("yesterday")
	assert.False(t, ok)
}
