package awr

import (
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/net/html/atom"
)

// DefaultVersion is assumed when a document carries no version evidence.
const DefaultVersion = "19.0.0"

type Detection struct {
	Version string
	// Source is "marker", "fingerprint" or "default".
	Source    string
	Confident bool
}

var versionMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Release\s+(\d+\.\d+\.\d+)`),
	regexp.MustCompile(`(?i)Version\s+(\d+\.\d+\.\d+)`),
}

type fingerprint struct {
	name    string
	match   func(text string) bool
	version string
}

// Checked newest first: newer reports often still carry older feature text.
var fingerprints = []fingerprint{
	{
		name: "19c",
		match: func(t string) bool {
			return containsAny(t, "Pluggable Database", "PDB") &&
				containsAny(t, "Automatic Indexing", "Real-Time Statistics")
		},
		version: "19.0.0",
	},
	{
		name: "12c",
		match: func(t string) bool {
			return containsAny(t, "Multitenant", "Container Database")
		},
		version: "12.2.0",
	},
	{
		name: "11g",
		match: func(t string) bool {
			return strings.Contains(t, "Automatic Workload Repository")
		},
		version: "11.2.0",
	},
}

// DetectVersion finds the producing release. Explicit "Release x.y.z" or
// "Version x.y.z" markers win over feature fingerprints.
func DetectVersion(d *Document) Detection {
	for _, el := range d.Elements(atom.Td, atom.Th, atom.P, atom.Div) {
		if v := MatchVersionMarker(NodeText(el)); v != "" {
			slog.Info("detected Oracle version", "version", v, "source", "marker")
			return Detection{Version: v, Source: "marker", Confident: true}
		}
	}

	if v, name := MatchFingerprint(d.Text()); v != "" {
		slog.Info("detected Oracle version", "version", v, "source", "fingerprint", "family", name)
		return Detection{Version: v, Source: "fingerprint", Confident: true}
	}

	slog.Warn("could not determine Oracle version, assuming default", "version", DefaultVersion)
	return Detection{Version: DefaultVersion, Source: "default"}
}

// MatchVersionMarker returns the first explicit version in a text fragment.
func MatchVersionMarker(text string) string {
	for _, re := range versionMarkers {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// MatchFingerprint returns the version and family of the first matching fingerprint.
func MatchFingerprint(text string) (string, string) {
	for _, fp := range fingerprints {
		if fp.match(text) {
			return fp.version, fp.name
		}
	}
	return "", ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
