package comparator

type Direction int

const (
	Unchanged Direction = 0
	Improved  Direction = 1
	Regressed Direction = 2

	SignificanceThresholdPct = 5.0
)

func (d Direction) String() string {
	switch d {
	case Improved:
		return "improved"
	case Regressed:
		return "regressed"
	default:
		return "unchanged"
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type ChangeType int

const (
	NoChange ChangeType = 0
	Modified ChangeType = 1
	Added    ChangeType = 2
	Removed  ChangeType = 3
)

func (c ChangeType) String() string {
	switch c {
	case Modified:
		return "modified"
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "no_change"
	}
}

func (c ChangeType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// MetricDelta is one load profile row (per second) or one wait event
// (time waited) compared across two reports.
type MetricDelta struct {
	Name       string     `json:"name"`
	ChangeType ChangeType `json:"change_type"`

	Old   float64   `json:"old"`
	New   float64   `json:"new"`
	Delta float64   `json:"delta"`
	Pct   float64   `json:"pct"`
	Dir   Direction `json:"direction"`
}

type ComparisonResult struct {
	OldDBName string `json:"old_db_name,omitempty"`
	NewDBName string `json:"new_db_name,omitempty"`

	LoadProfile []MetricDelta `json:"load_profile"`
	WaitEvents  []MetricDelta `json:"wait_events"`
	Summary     Summary       `json:"summary"`
}

type Summary struct {
	OldDBTime   float64   `json:"old_db_time"`
	NewDBTime   float64   `json:"new_db_time"`
	DBTimeDelta float64   `json:"db_time_delta"`
	DBTimePct   float64   `json:"db_time_pct"`
	DBTimeDir   Direction `json:"db_time_direction"`

	OldElapsed float64 `json:"old_elapsed_time"`
	NewElapsed float64 `json:"new_elapsed_time"`

	// Average active sessions: DB time over elapsed time
	OldAAS float64   `json:"old_average_active_sessions"`
	NewAAS float64   `json:"new_average_active_sessions"`
	AASPct float64   `json:"average_active_sessions_pct"`
	AASDir Direction `json:"average_active_sessions_direction"`

	// Total non-CPU wait time
	OldWaitTime float64   `json:"old_wait_time"`
	NewWaitTime float64   `json:"new_wait_time"`
	WaitPct     float64   `json:"wait_time_pct"`
	WaitDir     Direction `json:"wait_time_direction"`

	MetricsAdded    int `json:"metrics_added"`
	MetricsRemoved  int `json:"metrics_removed"`
	MetricsModified int `json:"metrics_modified"`
	Improved        int `json:"improved"`
	Regressed       int `json:"regressed"`

	Verdict string `json:"verdict"`
}
