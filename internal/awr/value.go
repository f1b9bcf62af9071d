package awr

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
)

var unitMultipliers = []struct {
	suffix string
	mult   float64
}{
	{"K", 1e3},
	{"M", 1e6},
	{"G", 1e9},
	{"T", 1e12},
}

// CleanText collapses whitespace runs into a single space and trims the edges.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParseValue converts AWR display text into a number.
//
//	"1,234.56"    -> 1234.56
//	"12.34M"      -> 12340000.0
//	"99.99%"      -> 99.99
//	"00:12:34.56" -> 754.56 (seconds)
//
// Integers come back as int64, everything else as float64. Text with no
// numeric reading yields int64(0).
func ParseValue(text string) any {
	s := strings.ReplaceAll(CleanText(text), ",", "")
	if s == "" {
		return int64(0)
	}

	if strings.HasSuffix(s, "%") {
		return parseFloat(text, strings.TrimSpace(strings.TrimSuffix(s, "%")))
	}

	upper := strings.ToUpper(s)
	for _, u := range unitMultipliers {
		if strings.HasSuffix(upper, u.suffix) {
			f, ok := toFloat(strings.TrimSpace(s[:len(s)-1]))
			if !ok {
				return rejected(text)
			}
			return sanitize(f * u.mult)
		}
	}

	if strings.Contains(s, ":") {
		secs, ok := parseDuration(s)
		if !ok {
			return rejected(text)
		}
		return sanitize(secs)
	}

	if !strings.Contains(s, ".") {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			if n < 0 {
				return int64(0)
			}
			return n
		}
	}
	return parseFloat(text, s)
}

// ParseNumber is ParseValue as a float64.
func ParseNumber(text string) float64 {
	switch v := ParseValue(text).(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	default:
		return 0
	}
}

// parseDuration handles H:M:S[.f] and M:S[.f].
func parseDuration(s string) (float64, bool) {
	parts := strings.Split(s, ":")
	var hours, minutes int64
	var secs string
	var err error

	switch len(parts) {
	case 3:
		if hours, err = strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64); err != nil {
			return 0, false
		}
		if minutes, err = strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64); err != nil {
			return 0, false
		}
		secs = parts[2]
	case 2:
		if minutes, err = strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64); err != nil {
			return 0, false
		}
		secs = parts[1]
	default:
		return 0, false
	}

	seconds, ok := toFloat(strings.TrimSpace(secs))
	if !ok {
		return 0, false
	}
	return float64(hours*3600+minutes*60) + seconds, true
}

func parseFloat(raw, s string) any {
	f, ok := toFloat(s)
	if !ok {
		return rejected(raw)
	}
	return sanitize(f)
}

// toFloat rejects the NaN/Inf spellings strconv would otherwise accept.
func toFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func sanitize(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func rejected(raw string) any {
	slog.Debug("value not numeric, using zero", "text", raw)
	return int64(0)
}
