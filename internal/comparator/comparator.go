package comparator

import (
	"github.com/jacobarthurs/awrlens/internal/awr"
)

// cpuEvent is listed among the top timed events but is not a wait.
const cpuEvent = "DB CPU"

type Comparator struct {
	Threshold float64
}

// Compare diffs new against old. Lower is better for every compared value.
func (c *Comparator) Compare(old, new *awr.Report) ComparisonResult {
	oldAAS := averageActiveSessions(old)
	newAAS := averageActiveSessions(new)
	oldWait := totalWaitTime(old)
	newWait := totalWaitTime(new)

	summary := Summary{
		OldDBTime:   old.Snapshot.DBTime,
		NewDBTime:   new.Snapshot.DBTime,
		DBTimeDelta: new.Snapshot.DBTime - old.Snapshot.DBTime,
		DBTimePct:   pctChange(old.Snapshot.DBTime, new.Snapshot.DBTime),
		DBTimeDir:   c.direction(old.Snapshot.DBTime, new.Snapshot.DBTime),

		OldElapsed: old.Snapshot.ElapsedTime,
		NewElapsed: new.Snapshot.ElapsedTime,

		OldAAS: oldAAS,
		NewAAS: newAAS,
		AASPct: pctChange(oldAAS, newAAS),
		AASDir: c.direction(oldAAS, newAAS),

		OldWaitTime: oldWait,
		NewWaitTime: newWait,
		WaitPct:     pctChange(oldWait, newWait),
		WaitDir:     c.direction(oldWait, newWait),
	}

	result := ComparisonResult{
		OldDBName:   old.Instance.DBName,
		NewDBName:   new.Instance.DBName,
		LoadProfile: c.diffLoadProfile(old.LoadProfile, new.LoadProfile),
		WaitEvents:  c.diffWaitEvents(old.WaitEvents.Events, new.WaitEvents.Events),
	}

	countChanges(result.LoadProfile, &summary)
	countChanges(result.WaitEvents, &summary)
	summary.Verdict = verdict(summary)
	result.Summary = summary

	return result
}

func countChanges(deltas []MetricDelta, summary *Summary) {
	for _, d := range deltas {
		switch d.ChangeType {
		case Added:
			summary.MetricsAdded++
		case Removed:
			summary.MetricsRemoved++
		case Modified:
			summary.MetricsModified++
		}
		switch d.Dir {
		case Improved:
			summary.Improved++
		case Regressed:
			summary.Regressed++
		}
	}
}

func verdict(s Summary) string {
	switch {
	case s.AASDir == Improved && s.WaitDir == Improved:
		return "lighter load and less waiting"
	case s.AASDir == Regressed && s.WaitDir == Regressed:
		return "heavier load and more waiting"
	case s.AASDir == Improved:
		return "lighter load"
	case s.AASDir == Regressed:
		return "heavier load"
	case s.WaitDir == Improved:
		return "less waiting"
	case s.WaitDir == Regressed:
		return "more waiting"
	default:
		return "no significant change"
	}
}

func averageActiveSessions(r *awr.Report) float64 {
	if r.Snapshot.ElapsedTime <= 0 {
		return 0
	}
	return r.Snapshot.DBTime / r.Snapshot.ElapsedTime
}

func totalWaitTime(r *awr.Report) float64 {
	var total float64
	for _, ev := range r.WaitEvents.Events {
		if ev.Name != cpuEvent {
			total += ev.TimeWaited
		}
	}
	return total
}
