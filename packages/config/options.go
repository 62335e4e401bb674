package config

import (
	"encoding/json"
	"fmt"

	"ngthis/packages/linter"
)

// Option overrides a loaded configuration, usually from a command-line flag
type Option func(*Config) error

// Apply runs opts in order and stops at the first error
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// WithRuleOption sets one key of the options object of rule
func WithRuleOption(rule, key string, value interface{}) Option {
	return func(c *Config) error {
		rc, ok := c.Rules[rule]
		if !ok {
			return fmt.Errorf("%w: %s", linter.ErrUnknownRule, rule)
		}
		opts := map[string]interface{}{}
		if len(rc.Options) > 0 {
			if err := json.Unmarshal(rc.Options, &opts); err != nil {
				return fmt.Errorf("%w: rule %s: %v", linter.ErrInvalidOptions, rule, err)
			}
		}
		opts[key] = value
		raw, err := json.Marshal(opts)
		if err != nil {
			return fmt.Errorf("%w: rule %s: %v", linter.ErrInvalidOptions, rule, err)
		}
		rc.Options = raw
		c.Rules[rule] = rc
		return nil
	}
}

// WithSeverity changes the severity of rule
func WithSeverity(rule string, severity linter.Severity) Option {
	return func(c *Config) error {
		rc, ok := c.Rules[rule]
		if !ok {
			return fmt.Errorf("%w: %s", linter.ErrUnknownRule, rule)
		}
		rc.Severity = severity
		c.Rules[rule] = rc
		return nil
	}
}

// WithIgnorePatterns appends gitignore-style patterns
func WithIgnorePatterns(patterns ...string) Option {
	return func(c *Config) error {
		c.IgnorePatterns = append(c.IgnorePatterns, patterns...)
		return nil
	}
}

// WithAngularVersion pins the Angular version instead of reading package.json
func WithAngularVersion(version string) Option {
	return func(c *Config) error {
		c.AngularVersion = version
		return nil
	}
}
