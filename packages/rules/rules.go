// Package rules is the table of template rules shipped with ngthis
package rules

import (
	"fmt"
	"sort"

	"ngthis/packages/linter"
	"ngthis/packages/rules/consistentthis"
)

// Rules maps rule ids to their definitions
var Rules = map[string]*linter.Rule{
	consistentthis.RuleName: consistentthis.Rule(),
}

// Names returns the rule ids in sorted order
func Names() []string {
	names := make([]string, 0, len(Rules))
	for name := range Rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register defines every rule on l
func Register(l *linter.Linter) error {
	for _, name := range Names() {
		if err := l.DefineRule(name, Rules[name]); err != nil {
			return fmt.Errorf("registering %s: %w", name, err)
		}
	}
	return nil
}

// DefaultConfig enables every rule at error severity with its default options
func DefaultConfig() linter.Config {
	cfg := linter.Config{Rules: map[string]linter.RuleConfig{}}
	for name := range Rules {
		cfg.Rules[name] = linter.RuleConfig{Severity: linter.SeverityError}
	}
	return cfg
}
