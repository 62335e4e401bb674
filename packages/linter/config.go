package linter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Severity is how a rule's problems are reported
type Severity int

const (
	SeverityOff Severity = iota
	SeverityWarn
	SeverityError
)

// String returns the ESLint name of the severity
func (s Severity) String() string {
	switch s {
	case SeverityOff:
		return "off"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// ParseSeverity accepts "off", "warn", "error" or "0", "1", "2"
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "0":
		return SeverityOff, nil
	case "warn", "warning", "1":
		return SeverityWarn, nil
	case "error", "2":
		return SeverityError, nil
	}
	return SeverityOff, fmt.Errorf("%w: unknown severity %q", ErrInvalidOptions, s)
}

// UnmarshalJSON accepts both the string and the numeric form
func (s *Severity) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n < int(SeverityOff) || n > int(SeverityError) {
			return fmt.Errorf("%w: unknown severity %d", ErrInvalidOptions, n)
		}
		*s = Severity(n)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("%w: severity must be a string or a number", ErrInvalidOptions)
	}
	parsed, err := ParseSeverity(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalJSON writes the string form
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// RuleConfig is the configured severity of a rule plus its options object.
// Options is nil when the rule runs with its defaults.
type RuleConfig struct {
	Severity Severity
	Options  json.RawMessage
}

// UnmarshalJSON accepts `"error"`, `2` and `["error", {...}]`
func (rc *RuleConfig) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var parts []json.RawMessage
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
		if len(parts) == 0 {
			return fmt.Errorf("%w: empty rule configuration", ErrInvalidOptions)
		}
		if err := rc.Severity.UnmarshalJSON(parts[0]); err != nil {
			return err
		}
		rc.Options = nil
		if len(parts) > 1 {
			rc.Options = parts[1]
		}
		return nil
	}
	rc.Options = nil
	return rc.Severity.UnmarshalJSON(data)
}

// MarshalJSON writes the array form
func (rc RuleConfig) MarshalJSON() ([]byte, error) {
	if rc.Options == nil {
		return json.Marshal([]interface{}{rc.Severity})
	}
	return json.Marshal([]interface{}{rc.Severity, rc.Options})
}

// Config selects the rules of one Verify call
type Config struct {
	Rules map[string]RuleConfig `json:"rules"`
}
