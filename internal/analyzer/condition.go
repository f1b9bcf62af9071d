package analyzer

import (
	"errors"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
)

var errEmptyMetric = errors.New("condition has an empty metric path")

// Lookup resolves a dotted path through nested maps. A missing key, a nil
// value or a non-map intermediate is reported as absent.
func Lookup(metrics map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	var cur any = metrics
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// matches reports whether the condition holds against metrics.
func (c Condition) matches(metrics map[string]any) (bool, error) {
	if c.Metric == "" {
		return false, errEmptyMetric
	}
	value, ok := Lookup(metrics, c.Metric)
	if !ok {
		return false, nil
	}
	return compare(value, c.Operator, c.Threshold), nil
}

func compare(value any, op string, threshold any) bool {
	switch op {
	case ">", "<", ">=", "<=":
		v, ok := toFloat(value)
		if !ok {
			return false
		}
		t, ok := toFloat(threshold)
		if !ok {
			return false
		}
		switch op {
		case ">":
			return v > t
		case "<":
			return v < t
		case ">=":
			return v >= t
		default:
			return v <= t
		}

	case "==":
		if isNumeric(value) && isNumeric(threshold) {
			v, _ := toFloat(value)
			t, _ := toFloat(threshold)
			return v == t
		}
		return reflect.DeepEqual(value, threshold)

	case "in_range":
		bounds, ok := threshold.([]any)
		if !ok || len(bounds) != 2 || !isNumeric(bounds[0]) || !isNumeric(bounds[1]) {
			slog.Debug("in_range needs a [low, high] threshold", "threshold", threshold)
			return false
		}
		v, ok := toFloat(value)
		if !ok {
			return false
		}
		lo, _ := toFloat(bounds[0])
		hi, _ := toFloat(bounds[1])
		return lo <= v && v <= hi

	default:
		slog.Warn("unknown operator", "operator", op)
		return false
	}
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// toFloat coerces numeric kinds and numeric strings.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
