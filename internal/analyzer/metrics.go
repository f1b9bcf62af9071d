package analyzer

import (
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/jacobarthurs/awrlens/internal/awr"
)

// Load profile and instance efficiency slugs the derived metrics read.
const (
	slugDBTime     = "db_time_s"
	slugDBCPU      = "db_cpu_s"
	slugBufferHit  = "buffer_hit"
	slugLibraryHit = "library_hit"
	slugSoftParse  = "soft_parse"
)

// BuildMetrics flattens a report into the nested map rule paths address,
// e.g. "wait_events.log_file_sync.pct_db_time" or "derived.buffer_hit_ratio".
func BuildMetrics(r *awr.Report) map[string]any {
	metrics := map[string]any{
		"instance": map[string]any{
			"oracle_version": r.Instance.Version,
			"db_name":        r.Instance.DBName,
			"instance_name":  r.Instance.InstanceName,
			"host_name":      r.Instance.HostName,
		},
		"snapshot": map[string]any{
			"elapsed_time": r.Snapshot.ElapsedTime,
			"db_time":      r.Snapshot.DBTime,
		},
	}

	loadProfile := make(map[string]any, len(r.LoadProfile))
	for _, name := range slices.Sorted(maps.Keys(r.LoadProfile)) {
		key := Slug(name)
		if _, seen := loadProfile[key]; seen {
			continue
		}
		m := r.LoadProfile[name]
		loadProfile[key] = map[string]any{
			"per_second": m.PerSecond,
			"per_txn":    m.PerTxn,
		}
	}
	metrics["load_profile"] = loadProfile

	waits := make(map[string]any, len(r.WaitEvents.Events))
	for _, ev := range r.WaitEvents.Events {
		key := Slug(ev.Name)
		if _, seen := waits[key]; seen {
			continue
		}
		waits[key] = map[string]any{
			"waits":       ev.Waits,
			"time_waited": ev.TimeWaited,
			"avg_wait":    ev.AvgWait,
			"pct_db_time": ev.PctDBTime,
		}
	}
	metrics["wait_events"] = waits

	metrics["instance_efficiency"] = slugKeys(r.InstanceEfficiency)
	metrics["memory_stats"] = slugKeys(r.MemoryStats)
	metrics["io_stats"] = slugKeys(r.IOStats)

	topSQL := make(map[string]any, 5)
	for _, rk := range r.TopSQL.Rankings() {
		topSQL[rk.Key] = map[string]any{"count": len(rk.Rows)}
	}
	metrics["top_sql"] = topSQL

	metrics["derived"] = derive(r, loadProfile, metrics["instance_efficiency"].(map[string]any))

	return metrics
}

func derive(r *awr.Report, loadProfile, efficiency map[string]any) map[string]any {
	derived := make(map[string]any)

	for key, slug := range map[string]string{
		"buffer_hit_ratio":  slugBufferHit,
		"library_hit_ratio": slugLibraryHit,
		"soft_parse_ratio":  slugSoftParse,
	} {
		if v, ok := efficiency[slug]; ok {
			if f, ok := toFloat(v); ok {
				derived[key] = f
			}
		}
	}

	dbTime, hasDBTime := perSecond(loadProfile, slugDBTime)
	switch {
	case hasDBTime:
		derived["average_active_sessions"] = dbTime
	case r.Snapshot.ElapsedTime > 0:
		derived["average_active_sessions"] = r.Snapshot.DBTime / r.Snapshot.ElapsedTime
	}

	if dbCPU, ok := perSecond(loadProfile, slugDBCPU); ok && hasDBTime && dbTime > 0 {
		derived["db_cpu_pct"] = dbCPU / dbTime * 100
	}

	if len(r.WaitEvents.Events) > 0 {
		top := 0.0
		for _, ev := range r.WaitEvents.Events {
			top = max(top, ev.PctDBTime)
		}
		derived["top_wait_pct_db_time"] = top
	}

	return derived
}

func perSecond(loadProfile map[string]any, slug string) (float64, bool) {
	m, ok := loadProfile[slug].(map[string]any)
	if !ok {
		return 0, false
	}
	v, ok := m["per_second"].(float64)
	return v, ok
}

// slugKeys re-keys a section by Slug, recursing into nested maps. Keys
// are visited in sorted order so collisions resolve the same way each run.
func slugKeys(section map[string]any) map[string]any {
	out := make(map[string]any, len(section))
	for _, k := range slices.Sorted(maps.Keys(section)) {
		v := section[k]
		key := Slug(k)
		if _, seen := out[key]; seen {
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			v = slugKeys(nested)
		}
		out[key] = v
	}
	return out
}

// Slug lowercases s and collapses every run of non-alphanumerics into "_".
//
//	"DB CPU(s):"    -> "db_cpu_s"
//	"Buffer Hit %"  -> "buffer_hit"
//	"log file sync" -> "log_file_sync"
func Slug(s string) string {
	var sb strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && sb.Len() > 0 {
				sb.WriteByte('_')
			}
			pending = false
			sb.WriteRune(r)
			continue
		}
		pending = true
	}
	return sb.String()
}
