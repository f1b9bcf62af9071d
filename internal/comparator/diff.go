package comparator

import (
	"maps"
	"math"
	"slices"

	"github.com/jacobarthurs/awrlens/internal/awr"
)

// diffLoadProfile compares per-second rates, ordered by metric name.
func (c *Comparator) diffLoadProfile(old, new map[string]awr.LoadProfileMetric) []MetricDelta {
	names := slices.Collect(maps.Keys(old))
	for name := range new {
		if _, ok := old[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	deltas := make([]MetricDelta, 0, len(names))
	for _, name := range names {
		o, inOld := old[name]
		n, inNew := new[name]
		switch {
		case !inOld:
			deltas = append(deltas, addedMetric(name, n.PerSecond))
		case !inNew:
			deltas = append(deltas, removedMetric(name, o.PerSecond))
		default:
			deltas = append(deltas, c.diffValues(name, o.PerSecond, n.PerSecond))
		}
	}
	return deltas
}

// diffWaitEvents compares time waited. New report order comes first, then
// events only the old report had. Repeated names keep their first row.
func (c *Comparator) diffWaitEvents(old, new []awr.WaitEvent) []MetricDelta {
	oldByName := firstByName(old)

	var deltas []MetricDelta
	seen := make(map[string]bool)

	for _, ev := range new {
		if seen[ev.Name] {
			continue
		}
		seen[ev.Name] = true
		o, ok := oldByName[ev.Name]
		if !ok {
			deltas = append(deltas, addedMetric(ev.Name, ev.TimeWaited))
			continue
		}
		deltas = append(deltas, c.diffValues(ev.Name, o.TimeWaited, ev.TimeWaited))
	}

	for _, ev := range old {
		if seen[ev.Name] {
			continue
		}
		seen[ev.Name] = true
		deltas = append(deltas, removedMetric(ev.Name, ev.TimeWaited))
	}

	return deltas
}

func firstByName(events []awr.WaitEvent) map[string]awr.WaitEvent {
	byName := make(map[string]awr.WaitEvent, len(events))
	for _, ev := range events {
		if _, ok := byName[ev.Name]; !ok {
			byName[ev.Name] = ev
		}
	}
	return byName
}

func (c *Comparator) diffValues(name string, old, new float64) MetricDelta {
	delta := MetricDelta{
		Name:       name,
		ChangeType: Modified,
		Old:        old,
		New:        new,
		Delta:      new - old,
		Pct:        pctChange(old, new),
		Dir:        c.direction(old, new),
	}

	if !c.isSignificant(delta) {
		delta.ChangeType = NoChange
	}

	return delta
}

func addedMetric(name string, value float64) MetricDelta {
	return MetricDelta{
		Name:       name,
		ChangeType: Added,
		New:        value,
		Delta:      value,
	}
}

func removedMetric(name string, value float64) MetricDelta {
	return MetricDelta{
		Name:       name,
		ChangeType: Removed,
		Old:        value,
		Delta:      -value,
	}
}

func (c *Comparator) isSignificant(d MetricDelta) bool {
	return math.Abs(d.Pct) > c.Threshold
}

func (c *Comparator) direction(old, new float64) Direction {
	if math.Abs(pctChange(old, new)) < c.Threshold {
		return Unchanged
	}
	if new < old {
		return Improved
	}
	if new > old {
		return Regressed
	}
	return Unchanged
}

func pctChange(old, new float64) float64 {
	if old == 0 {
		if new == 0 {
			return 0
		}
		return 100
	}
	return ((new - old) / old) * 100
}
