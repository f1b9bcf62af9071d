package awr

import "time"

// Report is the normalized content of one AWR document.
type Report struct {
	Instance    InstanceInfo                 `json:"instance_info"`
	Snapshot    SnapshotInfo                 `json:"snapshot_info"`
	LoadProfile map[string]LoadProfileMetric `json:"load_profile"`
	WaitEvents  WaitEvents                   `json:"wait_events"`
	TopSQL      TopSQL                       `json:"top_sql"`

	// Optional sections, empty unless the parser supports them
	MemoryStats        map[string]any `json:"memory_stats"`
	IOStats            map[string]any `json:"io_stats"`
	InstanceEfficiency map[string]any `json:"instance_efficiency"`
}

type InstanceInfo struct {
	Version      string `json:"oracle_version"`
	DBName       string `json:"db_name,omitempty"`
	InstanceName string `json:"instance_name,omitempty"`
	HostName     string `json:"host_name,omitempty"`
}

type SnapshotInfo struct {
	BeginSnapID int64      `json:"begin_snap_id,omitempty"`
	EndSnapID   int64      `json:"end_snap_id,omitempty"`
	BeginTime   *time.Time `json:"begin_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	// Seconds
	ElapsedTime float64 `json:"elapsed_time"`
	DBTime      float64 `json:"db_time"`
}

type LoadProfileMetric struct {
	PerSecond float64 `json:"per_second"`
	PerTxn    float64 `json:"per_txn"`
}

type WaitEvents struct {
	Events []WaitEvent `json:"events"`
}

type WaitEvent struct {
	Name       string  `json:"name"`
	Waits      float64 `json:"waits"`
	TimeWaited float64 `json:"time_waited"`
	AvgWait    float64 `json:"avg_wait"`
	PctDBTime  float64 `json:"pct_db_time"`
}

// SQLStat is one row of a "SQL ordered by" table, keyed by column header.
// Values are int64, float64 or string.
type SQLStat map[string]any

// MaxTopSQL caps every ranking.
const MaxTopSQL = 10

type TopSQL struct {
	ByCPU        []SQLStat `json:"by_cpu"`
	ByElapsed    []SQLStat `json:"by_elapsed"`
	ByGets       []SQLStat `json:"by_gets"`
	ByReads      []SQLStat `json:"by_reads"`
	ByExecutions []SQLStat `json:"by_executions"`
}

type Ranking struct {
	Key  string
	Rows []SQLStat
}

// Rankings lists the five rankings in a fixed order.
func (t TopSQL) Rankings() []Ranking {
	return []Ranking{
		{"by_cpu", t.ByCPU},
		{"by_elapsed", t.ByElapsed},
		{"by_gets", t.ByGets},
		{"by_reads", t.ByReads},
		{"by_executions", t.ByExecutions},
	}
}

func newTopSQL() TopSQL {
	return TopSQL{
		ByCPU:        []SQLStat{},
		ByElapsed:    []SQLStat{},
		ByGets:       []SQLStat{},
		ByReads:      []SQLStat{},
		ByExecutions: []SQLStat{},
	}
}
