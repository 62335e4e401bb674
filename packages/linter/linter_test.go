package linter_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngthis/packages/compiler/src/expression_parser"
	"ngthis/packages/linter"
	"ngthis/packages/rules/consistentthis"
)

// implicitReads reports every read through the implicit receiver and fixes it with `this.`
func implicitReads() *linter.Rule {
	return &linter.Rule{
		Meta: linter.RuleMeta{
			Type:    linter.RuleTypeSuggestion,
			Fixable: "code",
			Schema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"prefix": {"type": "string", "enum": ["this"], "default": "this"}
				},
				"additionalProperties": false
			}`),
			Messages: map[string]string{
				"implicitRead": "Implicit read of `{{ prop }}`.",
			},
		},
		Create: func(ctx *linter.RuleContext) (linter.RuleListener, error) {
			if err := linter.EnsureTemplateParser(ctx); err != nil {
				return nil, err
			}
			var opts struct {
				Prefix string `json:"prefix"`
			}
			if err := ctx.DecodeOptions(&opts); err != nil {
				return nil, err
			}
			return linter.RuleListener{
				"PropertyRead": func(node interface{}, ancestors []interface{}) {
					read := node.(*expression_parser.PropertyRead)
					if read.ReceiverKind() != expression_parser.ReceiverImplicit {
						return
					}
					start, err := ctx.SourceCode.GetLocFromIndex(read.SourceSpan().Start)
					if err != nil {
						return
					}
					end, err := ctx.SourceCode.GetLocFromIndex(read.SourceSpan().End)
					if err != nil {
						return
					}
					ctx.Report(linter.Descriptor{
						MessageID: "implicitRead",
						Data:      map[string]string{"prop": read.Name},
						Loc:       linter.SourceLocation{Start: start, End: end},
						Fix: func(fixer linter.Fixer) *linter.Fix {
							at := read.SourceSpan().Start
							return fixer.InsertTextBeforeRange(linter.Range{at, at}, opts.Prefix+".")
						},
					})
				},
			}, nil
		},
	}
}

func newLinter(t *testing.T) *linter.Linter {
	t.Helper()
	l := linter.New()
	if err := l.DefineRule("implicit-reads", implicitReads()); err != nil {
		t.Fatalf("DefineRule: %v", err)
	}
	return l
}

func config(options string) linter.Config {
	rc := linter.RuleConfig{Severity: linter.SeverityError}
	if options != "" {
		rc.Options = json.RawMessage(options)
	}
	return linter.Config{Rules: map[string]linter.RuleConfig{"implicit-reads": rc}}
}

func TestLinter_Verify(t *testing.T) {
	t.Run("should report problems sorted by position", func(t *testing.T) {
		got, err := newLinter(t).Verify(context.Background(), `<a [b]="c">{{ d }}</a>`, "a.html", config(""))
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		want := []linter.Message{
			{
				RuleID: "implicit-reads", MessageID: "implicitRead", Message: "Implicit read of `c`.",
				Severity: linter.SeverityError, Line: 1, Column: 9, EndLine: 1, EndColumn: 10,
				Fix: &linter.Fix{Range: linter.Range{8, 8}, Text: "this."},
			},
			{
				RuleID: "implicit-reads", MessageID: "implicitRead", Message: "Implicit read of `d`.",
				Severity: linter.SeverityError, Line: 1, Column: 15, EndLine: 1, EndColumn: 16,
				Fix: &linter.Fix{Range: linter.Range{14, 14}, Text: "this."},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("messages mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should not run rules that are off", func(t *testing.T) {
		cfg := linter.Config{Rules: map[string]linter.RuleConfig{"implicit-reads": {Severity: linter.SeverityOff}}}
		got, err := newLinter(t).Verify(context.Background(), `{{ a }}`, "a.html", cfg)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Expected no messages, got %v", got)
		}
	})

	t.Run("should fail on unknown rules", func(t *testing.T) {
		cfg := linter.Config{Rules: map[string]linter.RuleConfig{"missing": {Severity: linter.SeverityWarn}}}
		_, err := newLinter(t).Verify(context.Background(), `{{ a }}`, "a.html", cfg)
		if !errors.Is(err, linter.ErrUnknownRule) {
			t.Errorf("Expected ErrUnknownRule, got %v", err)
		}
	})

	t.Run("should reject options outside the schema", func(t *testing.T) {
		for _, options := range []string{`{"prefix": "that"}`, `{"other": true}`} {
			_, err := newLinter(t).Verify(context.Background(), `{{ a }}`, "a.html", config(options))
			if !errors.Is(err, linter.ErrInvalidOptions) {
				t.Errorf("options %s: expected ErrInvalidOptions, got %v", options, err)
			}
		}
	})

	t.Run("should return one fatal message for templates that do not parse", func(t *testing.T) {
		got, err := newLinter(t).Verify(context.Background(), `<div (click)=""></div>`, "a.html", config(""))
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if len(got) != 1 || !got[0].Fatal || got[0].Severity != linter.SeverityError {
			t.Fatalf("Expected one fatal message, got %v", got)
		}
		if want := "Parsing error: "; len(got[0].Message) <= len(want) || got[0].Message[:len(want)] != want {
			t.Errorf("Expected a parsing error message, got %q", got[0].Message)
		}
	})

	t.Run("should stop on a cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := newLinter(t).Verify(ctx, `{{ a }}`, "a.html", config("")); !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})

	t.Run("should fail when a rule reports an undeclared message", func(t *testing.T) {
		l := linter.New()
		err := l.DefineRule("bad", &linter.Rule{
			Create: func(ctx *linter.RuleContext) (linter.RuleListener, error) {
				return linter.RuleListener{
					"Element,Template": func(node interface{}, ancestors []interface{}) {
						ctx.Report(linter.Descriptor{MessageID: "nope"})
					},
				}, nil
			},
		})
		if err != nil {
			t.Fatalf("DefineRule: %v", err)
		}
		cfg := linter.Config{Rules: map[string]linter.RuleConfig{"bad": {Severity: linter.SeverityError}}}
		if _, err := l.Verify(context.Background(), `<a></a>`, "a.html", cfg); !errors.Is(err, linter.ErrUnknownMessageID) {
			t.Errorf("Expected ErrUnknownMessageID, got %v", err)
		}
	})
}

func TestLinter_VerifyAndFix(t *testing.T) {
	t.Run("should apply fixes and re-verify the output", func(t *testing.T) {
		got, err := newLinter(t).VerifyAndFix(context.Background(), `<a [b]="c">{{ d }}</a>`, "a.html", config(""))
		if err != nil {
			t.Fatalf("VerifyAndFix: %v", err)
		}
		want := &linter.FixReport{Fixed: true, Output: `<a [b]="this.c">{{ this.d }}</a>`}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("fix result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should leave templates that do not parse untouched", func(t *testing.T) {
		src := `<div (click)=""></div>`
		got, err := newLinter(t).VerifyAndFix(context.Background(), src, "a.html", config(""))
		if err != nil {
			t.Fatalf("VerifyAndFix: %v", err)
		}
		if got.Fixed || got.Output != src || len(got.Messages) != 1 || !got.Messages[0].Fatal {
			t.Errorf("Expected the fatal message and no fix, got %+v", got)
		}
	})
}

func TestLinter_ConsistentThis(t *testing.T) {
	l := linter.New()
	if err := l.DefineRule(consistentthis.RuleName, consistentthis.Rule()); err != nil {
		t.Fatalf("DefineRule: %v", err)
	}
	cfg := linter.Config{Rules: map[string]linter.RuleConfig{
		consistentthis.RuleName: {Severity: linter.SeverityError},
	}}
	src := `<test [bar]="foo">{{this.bar}}</test>`

	t.Run("should report the implicit property of a plain template", func(t *testing.T) {
		messages, err := l.Verify(context.Background(), src, "a.html", cfg)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		var got [][]interface{}
		for _, m := range messages {
			got = append(got, []interface{}{m.MessageID, m.Line, m.Column, m.Fix != nil})
		}
		want := [][]interface{}{{"explicitThisProperties", 1, 14, true}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("messages mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should fix a plain template", func(t *testing.T) {
		got, err := l.VerifyAndFix(context.Background(), src, "a.html", cfg)
		if err != nil {
			t.Fatalf("VerifyAndFix: %v", err)
		}
		if diff := cmp.Diff(`<test [bar]="this.foo">{{this.bar}}</test>`, got.Output); diff != "" {
			t.Errorf("output mismatch (-want +got):\n%s", diff)
		}
		if !got.Fixed || len(got.Messages) != 0 {
			t.Errorf("Expected a clean fix, got %+v", got)
		}
	})
}

func TestApplyFixes(t *testing.T) {
	t.Run("should skip fixes that overlap an applied fix", func(t *testing.T) {
		insert := linter.Message{Line: 1, Column: 1, Fix: &linter.Fix{Range: linter.Range{0, 0}, Text: "x"}}
		sameSpot := linter.Message{Line: 1, Column: 2, Fix: &linter.Fix{Range: linter.Range{0, 0}, Text: "y"}}
		remove := linter.Message{Line: 1, Column: 3, Fix: &linter.Fix{Range: linter.Range{2, 4}}}
		plain := linter.Message{Line: 1, Column: 4}
		got := linter.ApplyFixes("abcdef", []linter.Message{remove, sameSpot, plain, insert})
		want := linter.FixReport{Fixed: true, Output: "yabef", Messages: []linter.Message{insert, plain}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("fix result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should return the text when nothing is fixable", func(t *testing.T) {
		plain := []linter.Message{{Line: 1, Column: 1}}
		got := linter.ApplyFixes("abc", plain)
		if diff := cmp.Diff(linter.FixReport{Output: "abc", Messages: plain}, got); diff != "" {
			t.Errorf("fix result mismatch (-want +got):\n%s", diff)
		}
	})
}
