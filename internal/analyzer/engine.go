package analyzer

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"sort"
)

//go:embed rules/*.yaml
var builtinRules embed.FS

// Engine evaluates a fixed rule set. It is read-only after construction and
// safe for concurrent use.
type Engine struct {
	rules []Rule
}

func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: slices.Clone(rules)}
}

// DefaultEngine loads the rules shipped with the binary.
func DefaultEngine() *Engine {
	sub, err := fs.Sub(builtinRules, "rules")
	if err != nil {
		panic(fmt.Sprintf("builtin rules: %v", err))
	}
	return LoadEngine(sub)
}

// NewEngineFromDir loads every rule file in dir. A missing dir yields an
// empty engine.
func NewEngineFromDir(dir string) *Engine {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		slog.Warn("rules directory not found", "dir", dir)
		return NewEngine()
	}
	return LoadEngine(os.DirFS(dir))
}

// LoadEngine reads the *.yaml and *.yml files at the root of fsys in lexical
// order. Unreadable sources and incomplete rule entries are logged and
// skipped.
func LoadEngine(fsys fs.FS) *Engine {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			slog.Error("listing rule files", "pattern", pattern, "error", err)
			continue
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	var rules []Rule
	for _, name := range files {
		loaded, err := loadRuleFile(fsys, name)
		if err != nil {
			slog.Error("failed to load rules", "file", name, "error", err)
			continue
		}
		rules = append(rules, loaded...)
		slog.Debug("loaded rules", "file", name, "count", len(loaded))
	}

	slog.Info("rules loaded", "total", len(rules))
	return &Engine{rules: rules}
}

func loadRuleFile(fsys fs.FS, name string) ([]Rule, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoded, err := decodeRules(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}

	rules := make([]Rule, 0, len(decoded))
	for _, r := range decoded {
		if err := r.validate(); err != nil {
			slog.Warn("skipping invalid rule", "file", name, "error", err)
			continue
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Rules returns a copy of the loaded rules in load order.
func (e *Engine) Rules() []Rule {
	return slices.Clone(e.rules)
}

func (e *Engine) Len() int {
	return len(e.rules)
}

// Evaluate runs every rule against metrics. A rule fires when all its
// conditions hold; findings are stable-sorted by severity rank.
func (e *Engine) Evaluate(metrics map[string]any) []Finding {
	findings := []Finding{}

	for _, rule := range e.rules {
		matched, err := rule.matches(metrics)
		if err != nil {
			slog.Error("error evaluating rule", "rule", rule.ID, "error", err)
			continue
		}
		if !matched {
			continue
		}
		findings = append(findings, Finding{
			RuleID:         rule.ID,
			Severity:       rule.Severity,
			Category:       rule.Category,
			Title:          rule.Name,
			Description:    rule.Description,
			Recommendation: rule.Recommendation,
			MetricValues:   rule.evidence(metrics),
		})
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Severity.Rank() < findings[j].Severity.Rank()
	})

	return findings
}

func (r Rule) matches(metrics map[string]any) (bool, error) {
	if len(r.Conditions) == 0 {
		return false, errors.New("rule has no conditions")
	}
	for _, c := range r.Conditions {
		ok, err := c.matches(metrics)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// evidence collects every condition path that resolves to a value.
func (r Rule) evidence(metrics map[string]any) map[string]any {
	values := make(map[string]any, len(r.Conditions))
	for _, c := range r.Conditions {
		if v, ok := Lookup(metrics, c.Metric); ok {
			values[c.Metric] = v
		}
	}
	return values
}
