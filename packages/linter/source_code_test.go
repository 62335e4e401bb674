package linter_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngthis/packages/linter"
)

func TestSourceCode(t *testing.T) {
	sc := linter.NewSourceCode("ab\ncd\r\nef")

	t.Run("should convert indexes to positions", func(t *testing.T) {
		var got []linter.Position
		for _, index := range []int{0, 2, 3, 5, 7, 9} {
			pos, err := sc.GetLocFromIndex(index)
			if err != nil {
				t.Fatalf("GetLocFromIndex(%d): %v", index, err)
			}
			got = append(got, pos)
		}
		want := []linter.Position{{1, 0}, {1, 2}, {2, 0}, {2, 2}, {3, 0}, {3, 2}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("positions mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should convert positions back to indexes", func(t *testing.T) {
		for _, index := range []int{0, 2, 3, 7, 9} {
			pos, err := sc.GetLocFromIndex(index)
			if err != nil {
				t.Fatalf("GetLocFromIndex(%d): %v", index, err)
			}
			got, err := sc.GetIndexFromLoc(pos)
			if err != nil || got != index {
				t.Errorf("GetIndexFromLoc(%v) = %d, %v; want %d", pos, got, err, index)
			}
		}
	})

	t.Run("should reject positions outside the text", func(t *testing.T) {
		if _, err := sc.GetLocFromIndex(10); !errors.Is(err, linter.ErrIndexOutOfRange) {
			t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
		}
		for _, pos := range []linter.Position{{0, 0}, {4, 0}, {1, 3}, {3, 3}, {1, -1}} {
			if _, err := sc.GetIndexFromLoc(pos); !errors.Is(err, linter.ErrIndexOutOfRange) {
				t.Errorf("GetIndexFromLoc(%v): expected ErrIndexOutOfRange, got %v", pos, err)
			}
		}
	})

	t.Run("should count lines", func(t *testing.T) {
		if got := sc.Lines(); got != 3 {
			t.Errorf("Lines() = %d, want 3", got)
		}
	})
}

func TestRuleConfig(t *testing.T) {
	t.Run("should accept every configuration form", func(t *testing.T) {
		var cfg linter.Config
		err := json.Unmarshal([]byte(`{"rules": {
			"a": "warn",
			"b": 2,
			"c": ["error", {"properties": "implicit"}],
			"d": ["off"]
		}}`), &cfg)
		if err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		want := linter.Config{Rules: map[string]linter.RuleConfig{
			"a": {Severity: linter.SeverityWarn},
			"b": {Severity: linter.SeverityError},
			"c": {Severity: linter.SeverityError, Options: json.RawMessage(`{"properties": "implicit"}`)},
			"d": {Severity: linter.SeverityOff},
		}}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should reject unknown severities", func(t *testing.T) {
		for _, src := range []string{`"fatal"`, `3`, `[]`, `{}`} {
			var rc linter.RuleConfig
			if err := json.Unmarshal([]byte(src), &rc); !errors.Is(err, linter.ErrInvalidOptions) {
				t.Errorf("%s: expected ErrInvalidOptions, got %v", src, err)
			}
		}
	})
}
