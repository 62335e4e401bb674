package config_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngthis/packages/config"
	"ngthis/packages/linter"
	"ngthis/packages/rules/consistentthis"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFind(t *testing.T) {
	t.Run("should search parent directories", func(t *testing.T) {
		root := t.TempDir()
		want := filepath.Join(root, config.FileName)
		writeFile(t, want, `{}`)
		nested := filepath.Join(root, "src", "app")
		if err := os.MkdirAll(nested, 0o755); err != nil {
			t.Fatal(err)
		}

		got, err := config.Find(nested)
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if got != want {
			t.Errorf("Find = %q, want %q", got, want)
		}
	})

	t.Run("should start from the directory of a file", func(t *testing.T) {
		root := t.TempDir()
		want := filepath.Join(root, config.FileName)
		writeFile(t, want, `{}`)
		file := filepath.Join(root, "app.component.html")
		writeFile(t, file, `{{a}}`)

		got, err := config.Find(file)
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if got != want {
			t.Errorf("Find = %q, want %q", got, want)
		}
	})

	t.Run("should report a missing file", func(t *testing.T) {
		_, err := config.Find(t.TempDir())
		if !errors.Is(err, config.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestParse(t *testing.T) {
	t.Run("should overlay the file on the defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), config.FileName)
		writeFile(t, path, `{
  "rules": {"eslint-plugin-angular-template-consistent-this": ["warn", {"properties": "implicit"}]},
  "ignorePatterns": ["dist/", "*.spec.ts"],
  "angularVersion": "17.1.0"
}`)

		got, err := config.Parse(path)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		want := &config.Config{
			Rules: map[string]linter.RuleConfig{
				consistentthis.RuleName: {Severity: linter.SeverityWarn, Options: json.RawMessage(`{"properties": "implicit"}`)},
			},
			IgnorePatterns: []string{"dist/", "*.spec.ts"},
			AngularVersion: "17.1.0",
			Path:           path,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Parse mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should reject unknown keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), config.FileName)
		writeFile(t, path, `{"rulez": {}}`)
		if _, err := config.Parse(path); err == nil {
			t.Error("Expected an error for an unknown key")
		}
	})

	t.Run("should reject unknown severities", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), config.FileName)
		writeFile(t, path, `{"rules": {"eslint-plugin-angular-template-consistent-this": "fatal"}}`)
		_, err := config.Parse(path)
		if !errors.Is(err, linter.ErrInvalidOptions) {
			t.Errorf("Expected ErrInvalidOptions, got %v", err)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("should fall back to the defaults", func(t *testing.T) {
		got, err := config.Load(t.TempDir())
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if diff := cmp.Diff(config.Default(), got); diff != "" {
			t.Errorf("Load mismatch (-want +got):\n%s", diff)
		}
		if got.Root() != "" {
			t.Errorf("Root = %q, want empty", got.Root())
		}
	})

	t.Run("should use the nearest file", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, config.FileName), `{"ignorePatterns": ["legacy/"]}`)
		got, err := config.Load(root)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if diff := cmp.Diff([]string{"legacy/"}, got.IgnorePatterns); diff != "" {
			t.Errorf("IgnorePatterns mismatch (-want +got):\n%s", diff)
		}
		if got.Root() != root {
			t.Errorf("Root = %q, want %q", got.Root(), root)
		}
	})
}

func TestOptions(t *testing.T) {
	t.Run("should merge rule options", func(t *testing.T) {
		cfg := config.Default()
		err := cfg.Apply(
			config.WithRuleOption(consistentthis.RuleName, "properties", "implicit"),
			config.WithRuleOption(consistentthis.RuleName, "variables", "explicit"),
			config.WithSeverity(consistentthis.RuleName, linter.SeverityWarn),
		)
		if err != nil {
			t.Fatalf("Apply: %v", err)
		}
		got := cfg.Rules[consistentthis.RuleName]
		if got.Severity != linter.SeverityWarn {
			t.Errorf("Severity = %v, want warn", got.Severity)
		}
		if diff := cmp.Diff(`{"properties":"implicit","variables":"explicit"}`, string(got.Options)); diff != "" {
			t.Errorf("Options mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should reject unknown rules", func(t *testing.T) {
		err := config.Default().Apply(config.WithRuleOption("no-such-rule", "a", "b"))
		if !errors.Is(err, linter.ErrUnknownRule) {
			t.Errorf("Expected ErrUnknownRule, got %v", err)
		}
	})

	t.Run("should hand out an independent linter config", func(t *testing.T) {
		cfg := config.Default()
		lc := cfg.Linter()
		lc.Rules[consistentthis.RuleName] = linter.RuleConfig{Severity: linter.SeverityOff}
		if cfg.Rules[consistentthis.RuleName].Severity != linter.SeverityError {
			t.Error("Expected the project config to be unchanged")
		}
	})

	t.Run("should append ignore patterns and pin the version", func(t *testing.T) {
		cfg := &config.Config{IgnorePatterns: []string{"dist/"}}
		if err := cfg.Apply(config.WithIgnorePatterns("tmp/"), config.WithAngularVersion("16.2.0")); err != nil {
			t.Fatalf("Apply: %v", err)
		}
		want := &config.Config{IgnorePatterns: []string{"dist/", "tmp/"}, AngularVersion: "16.2.0"}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("Config mismatch (-want +got):\n%s", diff)
		}
	})
}
