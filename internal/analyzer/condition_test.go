package analyzer

import "testing"

func TestLookup_Nested(t *testing.T) {
	metrics := map[string]any{
		"wait_events": map[string]any{
			"log_file_sync": map[string]any{"pct_db_time": 18.0},
		},
	}

	v, ok := Lookup(metrics, "wait_events.log_file_sync.pct_db_time")
	if !ok {
		t.Fatal("expected value to resolve")
	}
	if v != 18.0 {
		t.Errorf("value = %v, want 18.0", v)
	}
}

func TestLookup_Absent(t *testing.T) {
	metrics := map[string]any{
		"derived":      map[string]any{"buffer_hit_ratio": 85.0, "empty": nil},
		"load_profile": map[string]any{},
	}

	for _, path := range []string{
		"",
		"wait_events.log_file_sync.pct_db_time",
		"derived.missing",
		"derived.empty",
		"derived.buffer_hit_ratio.deeper",
		"load_profile.x.per_second",
	} {
		if v, ok := Lookup(metrics, path); ok {
			t.Errorf("Lookup(%q) = %v, want absent", path, v)
		}
	}
}

func TestLookup_IntermediateMap(t *testing.T) {
	metrics := map[string]any{"top_sql": map[string]any{"by_cpu": map[string]any{"count": 3}}}

	v, ok := Lookup(metrics, "top_sql.by_cpu")
	if !ok {
		t.Fatal("expected intermediate map to resolve")
	}
	if _, isMap := v.(map[string]any); !isMap {
		t.Errorf("got %T, want map", v)
	}
}

func TestCompare_Ordering(t *testing.T) {
	tests := []struct {
		value     any
		op        string
		threshold any
		want      bool
	}{
		{85.0, ">", 80, true},
		{80, ">", 80, false},
		{80, ">=", 80.0, true},
		{int64(5), "<", 10, true},
		{10.0, "<=", 10, true},
		{"95.5", ">", 90, true},
		{" 12 ", "<", "13", true},
		{"n/a", ">", 0, false},
		{85.0, ">", "high", false},
		{true, ">", 0, false},
		{nil, ">", 0, false},
	}

	for _, tt := range tests {
		got := compare(tt.value, tt.op, tt.threshold)
		if got != tt.want {
			t.Errorf("compare(%v %s %v) = %v, want %v", tt.value, tt.op, tt.threshold, got, tt.want)
		}
	}
}

func TestCompare_Equality(t *testing.T) {
	tests := []struct {
		value     any
		threshold any
		want      bool
	}{
		{18.0, 18, true},
		{int64(3), 3, true},
		{uint8(1), 1.0, true},
		{"19.0.0", "19.0.0", true},
		{"18", 18, false},
		{18, "18", false},
		{"ORCL", "orcl", false},
		{true, true, true},
	}

	for _, tt := range tests {
		got := compare(tt.value, "==", tt.threshold)
		if got != tt.want {
			t.Errorf("compare(%#v == %#v) = %v, want %v", tt.value, tt.threshold, got, tt.want)
		}
	}
}

func TestCompare_InRange(t *testing.T) {
	bounds := []any{70, 90}

	if !compare(85.0, "in_range", bounds) {
		t.Error("85 should be in [70, 90]")
	}
	if compare(95.0, "in_range", bounds) {
		t.Error("95 should not be in [70, 90]")
	}
	if compare(65.0, "in_range", bounds) {
		t.Error("65 should not be in [70, 90]")
	}
	if !compare(70, "in_range", bounds) || !compare(90.0, "in_range", bounds) {
		t.Error("bounds should be inclusive")
	}
}

func TestCompare_InRangeMalformed(t *testing.T) {
	for _, threshold := range []any{
		80,
		[]any{70},
		[]any{70, 80, 90},
		[]any{"70", "90"},
		[]int{70, 90},
	} {
		if compare(75.0, "in_range", threshold) {
			t.Errorf("in_range with threshold %#v should not match", threshold)
		}
	}
}

func TestCompare_UnknownOperator(t *testing.T) {
	if compare(10, "!=", 5) {
		t.Error("unknown operator should never match")
	}
}

func TestConditionMatches_EmptyMetric(t *testing.T) {
	c := Condition{Operator: ">", Threshold: 1}
	_, err := c.matches(map[string]any{"x": 2})
	if err == nil {
		t.Fatal("expected error for empty metric path")
	}
}
