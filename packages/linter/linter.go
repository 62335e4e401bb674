// Package linter runs template rules over Angular templates and applies their fixes.
// It follows the ESLint rule model: rules register listeners keyed by node type,
// report problems through a RuleContext, and may attach text fixes to them.
package linter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

var (
	// ErrTemplateParserRequired is returned when a rule runs without template parser services
	ErrTemplateParserRequired = errors.New("template parser required")
	// ErrIndexOutOfRange is returned for positions outside the source text
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrUnknownRule is returned when the configuration names a rule that is not defined
	ErrUnknownRule = errors.New("unknown rule")
	// ErrInvalidOptions is returned when rule options do not match the rule schema
	ErrInvalidOptions = errors.New("invalid rule options")
	// ErrUnknownMessageID is returned when a rule reports a message id it does not declare
	ErrUnknownMessageID = errors.New("unknown message id")
	// ErrFixNotAllowed is returned when a rule that is not fixable reports a fix
	ErrFixNotAllowed = errors.New("fix reported by a rule that is not fixable")
)

// Message is one problem found in a template. Line and Column are 1-based.
type Message struct {
	RuleID    string   `json:"ruleId"`
	MessageID string   `json:"messageId,omitempty"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
	Line      int      `json:"line"`
	Column    int      `json:"column"`
	EndLine   int      `json:"endLine,omitempty"`
	EndColumn int      `json:"endColumn,omitempty"`
	Fix       *Fix     `json:"fix,omitempty"`
	Fatal     bool     `json:"fatal,omitempty"`
}

type definedRule struct {
	rule   *Rule
	schema *jsonschema.Resolved
}

// Linter holds the defined rules
type Linter struct {
	rules  map[string]*definedRule
	logger *slog.Logger
}

// Option configures a Linter
type Option func(*Linter)

// WithLogger sets the logger rules and the linter log to
func WithLogger(logger *slog.Logger) Option {
	return func(l *Linter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Linter without any rules
func New(opts ...Option) *Linter {
	l := &Linter{
		rules:  map[string]*definedRule{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DefineRule registers rule under id, replacing any rule with the same id
func (l *Linter) DefineRule(id string, rule *Rule) error {
	defined := &definedRule{rule: rule}
	if len(rule.Meta.Schema) > 0 {
		var schema jsonschema.Schema
		if err := json.Unmarshal(rule.Meta.Schema, &schema); err != nil {
			return fmt.Errorf("rule %q: decoding schema: %w", id, err)
		}
		resolved, err := schema.Resolve(nil)
		if err != nil {
			return fmt.Errorf("rule %q: resolving schema: %w", id, err)
		}
		defined.schema = resolved
	}
	l.rules[id] = defined
	return nil
}

// Rules returns the ids of the defined rules in sorted order
func (l *Linter) Rules() []string {
	ids := make([]string, 0, len(l.rules))
	for id := range l.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Rule returns the rule defined under id
func (l *Linter) Rule(id string) (*Rule, bool) {
	defined, ok := l.rules[id]
	if !ok {
		return nil, false
	}
	return defined.rule, true
}

// Verify lints text with the rules enabled in config and returns the problems
// sorted by position. A template that does not parse yields a single fatal message.
func (l *Linter) Verify(ctx context.Context, text, filename string, config Config) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ruleIDs := make([]string, 0, len(config.Rules))
	for id, rc := range config.Rules {
		if rc.Severity == SeverityOff {
			continue
		}
		if _, ok := l.rules[id]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRule, id)
		}
		ruleIDs = append(ruleIDs, id)
	}
	sort.Strings(ruleIDs)

	parsed := ParseTemplate(text, filename)
	if len(parsed.Errors) > 0 {
		l.logger.Debug("template did not parse",
			slog.String("file", filename),
			slog.Int("errors", len(parsed.Errors)))
		return []Message{fatalMessage(parsed)}, nil
	}

	sourceCode := NewSourceCode(text)
	listeners := map[string][]NodeHandler{}
	var contexts []*RuleContext
	for _, id := range ruleIDs {
		defined := l.rules[id]
		rc := config.Rules[id]
		options, err := mergeOptions(defined, rc.Options)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", id, err)
		}
		rctx := &RuleContext{
			ID:             id,
			Options:        options,
			Filename:       filename,
			SourceCode:     sourceCode,
			ParserServices: parsed.Services,
			Logger:         l.logger.With(slog.String("rule", id)),
			meta:           &defined.rule.Meta,
			severity:       rc.Severity,
		}
		listener, err := defined.rule.Create(rctx)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", id, err)
		}
		for selector, handler := range listener {
			for _, nodeType := range strings.Split(selector, ",") {
				nodeType = strings.TrimSpace(nodeType)
				listeners[nodeType] = append(listeners[nodeType], handler)
			}
		}
		contexts = append(contexts, rctx)
	}

	Traverse(parsed.Nodes, func(node interface{}, ancestors []interface{}) {
		for _, handler := range listeners[NodeType(node)] {
			handler(node, ancestors)
		}
	})

	var messages []Message
	for _, rctx := range contexts {
		if rctx.err != nil {
			return nil, rctx.err
		}
		messages = append(messages, rctx.problems...)
	}
	SortMessages(messages)
	return messages, nil
}

// VerifyAndFix lints text and applies fixes until the output is stable or the
// pass limit is reached. Messages are those of the final output.
func (l *Linter) VerifyAndFix(ctx context.Context, text, filename string, config Config) (*FixReport, error) {
	return l.FixWith(ctx, text, filename, func(ctx context.Context, text string) ([]Message, error) {
		return l.Verify(ctx, text, filename, config)
	})
}

// VerifyFunc lints one revision of a file
type VerifyFunc func(ctx context.Context, text string) ([]Message, error)

// FixWith runs the fix passes of VerifyAndFix with verify in place of Verify,
// for hosts that embed templates in other files.
func (l *Linter) FixWith(ctx context.Context, text, filename string, verify VerifyFunc) (*FixReport, error) {
	current := text
	fixed := false
	var result FixReport
	for pass := 1; ; pass++ {
		messages, err := verify(ctx, current)
		if err != nil {
			return nil, err
		}
		result = ApplyFixes(current, messages)
		if len(messages) == 1 && messages[0].Fatal {
			break
		}
		fixed = fixed || result.Fixed
		current = result.Output
		l.logger.Debug("fix pass",
			slog.String("file", filename),
			slog.Int("pass", pass),
			slog.Bool("fixed", result.Fixed))
		if !result.Fixed || pass >= maxFixPasses {
			break
		}
	}
	if result.Fixed {
		messages, err := verify(ctx, current)
		if err != nil {
			return nil, err
		}
		result.Messages = messages
	}
	result.Fixed = fixed
	result.Output = current
	return &result, nil
}

func fatalMessage(parsed *ParseResult) Message {
	first := parsed.Errors[0]
	msg := Message{
		Message:  "Parsing error: " + first.Msg,
		Severity: SeverityError,
		Fatal:    true,
		Line:     1,
		Column:   1,
	}
	if first.Span != nil && first.Span.Start != nil {
		msg.Line = first.Span.Start.Line + 1
		msg.Column = first.Span.Start.Col + 1
	}
	return msg
}

// mergeOptions validates the configured options against the rule schema and
// lays them over the rule defaults.
func mergeOptions(defined *definedRule, configured json.RawMessage) (json.RawMessage, error) {
	merged := map[string]interface{}{}
	if len(defined.rule.DefaultOptions) > 0 {
		if err := json.Unmarshal(defined.rule.DefaultOptions, &merged); err != nil {
			return nil, fmt.Errorf("decoding default options: %w", err)
		}
	}
	if len(configured) > 0 {
		var user interface{}
		if err := json.Unmarshal(configured, &user); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
		if defined.schema != nil {
			if err := defined.schema.Validate(user); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
			}
		}
		userMap, ok := user.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: options must be an object", ErrInvalidOptions)
		}
		for k, v := range userMap {
			merged[k] = v
		}
	}
	if defined.schema != nil {
		if err := defined.schema.ApplyDefaults(&merged); err != nil {
			return nil, fmt.Errorf("applying schema defaults: %w", err)
		}
	}
	if len(merged) == 0 {
		return nil, nil
	}
	out, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	return out, nil
}
