package expression_parser_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngthis/packages/compiler/src/expression_parser"
	"ngthis/packages/compiler/src/util"
)

func newParser() *expression_parser.Parser {
	return expression_parser.NewParser(expression_parser.NewLexer())
}

func parseBinding(expression string) *expression_parser.ASTWithSource {
	return newParser().ParseBinding(expression, nil, 0)
}

func parseAction(expression string) *expression_parser.ASTWithSource {
	return newParser().ParseAction(expression, nil, 0)
}

func checkBinding(exp string, expected ...string) func(*testing.T) {
	return func(t *testing.T) {
		ast := parseBinding(exp)
		want := exp
		if len(expected) > 0 {
			want = expected[0]
		}
		if len(ast.Errors) > 0 {
			t.Fatalf("unexpected errors: %v", ast.Errors)
		}
		if got := expression_parser.Serialize(ast); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}

func checkAction(exp string, expected ...string) func(*testing.T) {
	return func(t *testing.T) {
		ast := parseAction(exp)
		want := exp
		if len(expected) > 0 {
			want = expected[0]
		}
		if len(ast.Errors) > 0 {
			t.Fatalf("unexpected errors: %v", ast.Errors)
		}
		if got := expression_parser.Serialize(ast); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}

func expectError(ast *expression_parser.ASTWithSource, message string) func(*testing.T) {
	return func(t *testing.T) {
		for _, err := range ast.Errors {
			if strings.Contains(err.Msg, message) {
				return
			}
		}
		t.Errorf("Expected an error containing %q, got %v", message, ast.Errors)
	}
}

func TestParseBinding(t *testing.T) {
	t.Run("should parse property reads", checkBinding("a.b.c"))
	t.Run("should parse explicit this", checkBinding("this.foo"))
	t.Run("should parse safe reads and calls", checkBinding("a?.b?.(c)"))
	t.Run("should parse keyed reads", checkBinding("a[b]?.[0]"))
	t.Run("should parse calls", checkBinding("fn(a, 'x')"))
	t.Run("should parse pipes with arguments", checkBinding("a | date:'short':tz"))
	t.Run("should parse conditionals", checkBinding("a ? b : c"))
	t.Run("should parse binary operators", checkBinding("a && b || c ?? d"))
	t.Run("should parse unary operators", checkBinding("!a === -b"))
	t.Run("should parse literals", checkBinding("[1, 'a', true, null, undefined, {x: y, 'z': 2}]"))
	t.Run("should parse non-null assertions", checkBinding("a!.b"))
	t.Run("should parse parentheses", checkBinding("(a + b) * c"))
	t.Run("should expand shorthand map keys", checkBinding("{a, b: c}", "{a: a, b: c}"))
	t.Run("should accept a trailing comma in maps", checkBinding("{a: 1,}", "{a: 1}"))
	t.Run("should accept a trailing comma in calls", checkBinding("fn(a,)", "fn(a)"))
	t.Run("should parse typeof", checkBinding("typeof a === 'string'"))
	t.Run("should parse safe keyed reads after calls", checkBinding("a()?.[0]?.b"))
	t.Run("should strip trailing comments", checkBinding("a // comment", "a"))
	t.Run("should keep slashes inside strings", checkBinding("'http://x'"))

	t.Run("should report assignments", func(t *testing.T) {
		expectError(parseBinding("a = b"), "Bindings cannot contain assignments")(t)
	})

	t.Run("should report chains", func(t *testing.T) {
		expectError(parseBinding("a; b"), "Binding expression cannot contain chained expression")(t)
	})

	t.Run("should report interpolation", func(t *testing.T) {
		expectError(parseBinding("{{a}}"), "Got interpolation ({{}}) where expression was expected")(t)
	})

	t.Run("should report unexpected tokens", func(t *testing.T) {
		expectError(parseBinding("a b"), "Unexpected token 'b'")(t)
	})

	t.Run("should report incomplete conditionals", func(t *testing.T) {
		expectError(parseBinding("a ? b"), "Conditional expression a ? b requires all 3 expressions")(t)
	})

	t.Run("should report a missing closing parenthesis", func(t *testing.T) {
		expectError(parseBinding("fn(a b)"), "Missing expected ) at column 6")(t)
	})

	t.Run("should report lexer errors", func(t *testing.T) {
		expectError(parseBinding("'abc"), "Unterminated quote")(t)
	})
}

func TestParseAction(t *testing.T) {
	t.Run("should parse property writes", checkAction("a.b = $event"))
	t.Run("should parse keyed writes", checkAction("a[0] = 1"))
	t.Run("should parse chains", checkAction("a(); b = c"))

	t.Run("should produce PropertyWrite nodes for assignments", func(t *testing.T) {
		ast := parseAction("foo =$event")
		write, ok := ast.AST.(*expression_parser.PropertyWrite)
		if !ok {
			t.Fatalf("Expected PropertyWrite, got %T", ast.AST)
		}
		if write.Name != "foo" {
			t.Errorf("Expected name foo, got %q", write.Name)
		}
		if _, ok := write.Value.(*expression_parser.PropertyRead); !ok {
			t.Errorf("Expected value to be PropertyRead, got %T", write.Value)
		}
	})

	t.Run("should report safe writes", func(t *testing.T) {
		expectError(parseAction("a?.b = 1"), "The '?.' operator cannot be used in the assignment")(t)
		expectError(parseAction("a?.[0] = 1"), "The '?.' operator cannot be used in the assignment")(t)
	})

	t.Run("should report pipes", func(t *testing.T) {
		expectError(parseAction("a | b"), "Cannot have a pipe in an action expression")(t)
	})
}

func TestReceiverKind(t *testing.T) {
	tests := []struct {
		expression string
		want       expression_parser.ReceiverKind
	}{
		{"foo", expression_parser.ReceiverImplicit},
		{"this.foo", expression_parser.ReceiverThis},
		{"a.foo", expression_parser.ReceiverOther},
		{"a().foo", expression_parser.ReceiverOther},
	}
	for _, tt := range tests {
		t.Run("should classify "+tt.expression, func(t *testing.T) {
			read, ok := parseBinding(tt.expression).AST.(*expression_parser.PropertyRead)
			if !ok {
				t.Fatalf("Expected PropertyRead")
			}
			if got := read.ReceiverKind(); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSpans(t *testing.T) {
	t.Run("should make spans relative to the raw input", func(t *testing.T) {
		ast := newParser().ParseBinding("  foo", nil, 10)
		read := ast.AST.(*expression_parser.PropertyRead)
		if diff := cmp.Diff(&expression_parser.ParseSpan{Start: 2, End: 5}, read.Span()); diff != "" {
			t.Errorf("span mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(&expression_parser.AbsoluteSourceSpan{Start: 12, End: 15}, read.SourceSpan()); diff != "" {
			t.Errorf("source span mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should start a this read at the this keyword", func(t *testing.T) {
		read := parseBinding("this.foo").AST.(*expression_parser.PropertyRead)
		if diff := cmp.Diff(&expression_parser.ParseSpan{Start: 0, End: 8}, read.Span()); diff != "" {
			t.Errorf("span mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should start a binary expression at its left operand", func(t *testing.T) {
		binary := parseBinding("\n  a && b").AST.(*expression_parser.Binary)
		if diff := cmp.Diff(&expression_parser.ParseSpan{Start: 3, End: 9}, binary.Span()); diff != "" {
			t.Errorf("span mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestParseInterpolation(t *testing.T) {
	t.Run("should split text and expressions", func(t *testing.T) {
		ast := newParser().ParseInterpolation("a {{ b }} c", nil, 0)
		if ast == nil {
			t.Fatal("Expected an interpolation")
		}
		interpolation := ast.AST.(*expression_parser.Interpolation)
		if diff := cmp.Diff([]string{"a ", " c"}, interpolation.Strings); diff != "" {
			t.Errorf("strings mismatch (-want +got):\n%s", diff)
		}
		read := interpolation.Expressions[0].(*expression_parser.PropertyRead)
		if diff := cmp.Diff(&expression_parser.AbsoluteSourceSpan{Start: 5, End: 6}, read.SourceSpan()); diff != "" {
			t.Errorf("source span mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should return nil without interpolation", func(t *testing.T) {
		if ast := newParser().ParseInterpolation("plain text", nil, 0); ast != nil {
			t.Errorf("Expected nil, got %v", ast)
		}
	})

	t.Run("should ignore braces inside quotes", func(t *testing.T) {
		ast := newParser().ParseInterpolation("{{ '}}' + a }}", nil, 0)
		if got := expression_parser.Serialize(ast); got != "{{ '}}' + a }}" {
			t.Errorf("unexpected serialization %q", got)
		}
	})

	t.Run("should keep an unterminated interpolation as text", func(t *testing.T) {
		var errs []*util.ParseError
		split := newParser().SplitInterpolation("a {{ b }} c {{ d", nil, &errs)
		var strs, exprs []string
		for _, piece := range split.Strings {
			strs = append(strs, piece.Text)
		}
		for _, piece := range split.Expressions {
			exprs = append(exprs, piece.Text)
		}
		if diff := cmp.Diff([][]string{{"a ", " c {{ d"}, {" b "}}, [][]string{strs, exprs}); diff != "" {
			t.Errorf("split mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]int{4}, split.Offsets); diff != "" {
			t.Errorf("offsets mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should report blank expressions", func(t *testing.T) {
		expectError(newParser().ParseInterpolation("{{ }}", nil, 0), "Blank expressions are not allowed")(t)
	})
}

func TestParseTemplateBindings(t *testing.T) {
	describe := func(bindings []expression_parser.TemplateBinding) []string {
		var out []string
		for _, b := range bindings {
			switch b := b.(type) {
			case *expression_parser.VariableBinding:
				value := "null"
				if b.Value != nil {
					value = b.Value.Source
				}
				out = append(out, "let "+b.Key.Source+"="+value)
			case *expression_parser.ExpressionBinding:
				value := "null"
				if b.Value != nil {
					value = b.Value.Source
				}
				out = append(out, b.Key.Source+":"+value)
			}
		}
		return out
	}

	t.Run("should parse ngFor microsyntax", func(t *testing.T) {
		result := newParser().ParseTemplateBindings("ngFor", "let item of items; index as i; trackBy: trackByFn", nil, 0, 0)
		want := []string{"ngFor:null", "let item=null", "ngForOf:items", "let i=index", "ngForTrackBy:trackByFn"}
		if diff := cmp.Diff(want, describe(result.TemplateBindings)); diff != "" {
			t.Errorf("bindings mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should parse ngIf with as, then and else", func(t *testing.T) {
		result := newParser().ParseTemplateBindings("ngIf", "foo as bar; then thenBlock else elseBlock", nil, 0, 0)
		want := []string{"ngIf:foo", "let bar=ngIf", "ngIfThen:thenBlock", "ngIfElse:elseBlock"}
		if diff := cmp.Diff(want, describe(result.TemplateBindings)); diff != "" {
			t.Errorf("bindings mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should offset bound targets by their position in the value", func(t *testing.T) {
		result := newParser().ParseTemplateBindings("ngFor", "let item of items", nil, 1, 8)
		binding := result.TemplateBindings[2].(*expression_parser.ExpressionBinding)
		if binding.Value.AbsoluteOffset != 20 {
			t.Errorf("Expected absolute offset 20, got %d", binding.Value.AbsoluteOffset)
		}
		read := binding.Value.AST.(*expression_parser.PropertyRead)
		if diff := cmp.Diff(&expression_parser.AbsoluteSourceSpan{Start: 20, End: 25}, read.SourceSpan()); diff != "" {
			t.Errorf("source span mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestChildNodes(t *testing.T) {
	t.Run("should list sub-expressions in source order", func(t *testing.T) {
		call := parseBinding("fn(a, b)").AST
		var got []string
		for _, child := range expression_parser.ChildNodes(call) {
			got = append(got, expression_parser.Serialize(child))
		}
		if diff := cmp.Diff([]string{"fn", "a", "b"}, got); diff != "" {
			t.Errorf("children mismatch (-want +got):\n%s", diff)
		}
	})
}
