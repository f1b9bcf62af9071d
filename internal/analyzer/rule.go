package analyzer

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type Rule struct {
	ID             string      `yaml:"id" json:"id"`
	Severity       Severity    `yaml:"severity" json:"severity"`
	Category       string      `yaml:"category" json:"category"`
	Name           string      `yaml:"name" json:"name"`
	Description    string      `yaml:"description,omitempty" json:"description,omitempty"`
	Recommendation string      `yaml:"recommendation,omitempty" json:"recommendation,omitempty"`
	Conditions     []Condition `yaml:"conditions" json:"conditions"`
}

// Condition compares the value at a dotted metric path against a threshold.
// Threshold is a scalar, or a [low, high] pair for in_range.
type Condition struct {
	Metric    string `yaml:"metric" json:"metric"`
	Operator  string `yaml:"operator" json:"operator"`
	Threshold any    `yaml:"threshold" json:"threshold"`
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// decodeRules reads one rule source. A document without a rules key yields
// no rules.
func decodeRules(r io.Reader) ([]Rule, error) {
	var f ruleFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return f.Rules, nil
}

// validate reports the first missing required field.
func (r Rule) validate() error {
	switch {
	case r.ID == "":
		return errors.New("missing id")
	case r.Severity == "":
		return fmt.Errorf("rule %s: missing severity", r.ID)
	case r.Category == "":
		return fmt.Errorf("rule %s: missing category", r.ID)
	case r.Name == "":
		return fmt.Errorf("rule %s: missing name", r.ID)
	case len(r.Conditions) == 0:
		return fmt.Errorf("rule %s: no conditions", r.ID)
	}

	for i, c := range r.Conditions {
		switch {
		case c.Metric == "":
			return fmt.Errorf("rule %s: condition %d: missing metric", r.ID, i)
		case c.Operator == "":
			return fmt.Errorf("rule %s: condition %d: missing operator", r.ID, i)
		case c.Threshold == nil:
			return fmt.Errorf("rule %s: condition %d: missing threshold", r.ID, i)
		}
	}
	return nil
}
