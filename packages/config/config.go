// Package config loads the project configuration of ngthis from .ngthisrc.json
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ngthis/packages/linter"
	"ngthis/packages/rules"
)

// FileName is the configuration file searched for from the lint root upward
const FileName = ".ngthisrc.json"

// ErrNotFound is returned by Find when no configuration file exists above the start directory
var ErrNotFound = errors.New("no " + FileName + " found")

// Config is the project configuration
type Config struct {
	Rules          map[string]linter.RuleConfig `json:"rules"`
	IgnorePatterns []string                     `json:"ignorePatterns,omitempty"`
	AngularVersion string                       `json:"angularVersion,omitempty"`

	// Path is the file the configuration was read from, empty for the defaults
	Path string `json:"-"`
}

// Default enables every shipped rule with its default options
func Default() *Config {
	return &Config{Rules: rules.DefaultConfig().Rules}
}

// Find returns the nearest configuration file in dir or one of its parents
func Find(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if info, err := os.Stat(absDir); err == nil && !info.IsDir() {
		absDir = filepath.Dir(absDir)
	}
	for {
		candidate := filepath.Join(absDir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(absDir)
		if parent == absDir {
			return "", fmt.Errorf("%w above %s", ErrNotFound, dir)
		}
		absDir = parent
	}
}

// Parse reads one configuration file. Rules the file does not mention keep
// their defaults.
func Parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var file Config
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg := Default()
	for id, rc := range file.Rules {
		cfg.Rules[id] = rc
	}
	cfg.IgnorePatterns = file.IgnorePatterns
	cfg.AngularVersion = file.AngularVersion
	cfg.Path = path
	return cfg, nil
}

// Load parses the configuration that applies to dir, or returns the defaults
// when there is none.
func Load(dir string) (*Config, error) {
	path, err := Find(dir)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(path)
}

// Root is the directory ignore patterns are relative to
func (c *Config) Root() string {
	if c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}

// Linter returns a copy of the rule settings for linter.Verify
func (c *Config) Linter() linter.Config {
	out := linter.Config{Rules: make(map[string]linter.RuleConfig, len(c.Rules))}
	for id, rc := range c.Rules {
		out.Rules[id] = rc
	}
	return out
}
