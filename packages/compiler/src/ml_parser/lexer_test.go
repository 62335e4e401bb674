package ml_parser_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngthis/packages/compiler/src/core"
	"ngthis/packages/compiler/src/ml_parser"
)

func tokenizeWithoutErrors(t *testing.T, input string, options *ml_parser.TokenizeOptions) []*ml_parser.Token {
	t.Helper()
	result := ml_parser.Tokenize(input, "someUrl", nil, options)
	if len(result.Errors) > 0 {
		t.Fatalf("Unexpected parse errors:\n%v", result.Errors)
	}
	return result.Tokens
}

func tokenizeAndHumanizeParts(t *testing.T, input string) []interface{} {
	tokens := tokenizeWithoutErrors(t, input, nil)
	result := make([]interface{}, 0, len(tokens))
	for _, token := range tokens {
		entry := []interface{}{token.Type}
		for _, part := range token.Parts {
			entry = append(entry, part)
		}
		result = append(result, entry)
	}
	return result
}

func tokenizeAndHumanizeFullStart(t *testing.T, input string, options *ml_parser.TokenizeOptions) []interface{} {
	tokens := tokenizeWithoutErrors(t, input, options)
	result := make([]interface{}, 0, len(tokens))
	for _, token := range tokens {
		span := token.SourceSpan
		result = append(result, []interface{}{
			token.Type,
			fmt.Sprintf("%d:%d", span.Start.Line, span.Start.Col),
			fmt.Sprintf("%d:%d", span.FullStart.Line, span.FullStart.Col),
		})
	}
	return result
}

func TestHtmlLexer_LineColumnNumbers(t *testing.T) {
	t.Run("should work without newlines", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "0:0", "0:0"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END, "0:2", "0:2"},
			[]interface{}{ml_parser.TokenTypeTEXT, "0:3", "0:3"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE, "0:4", "0:4"},
			[]interface{}{ml_parser.TokenTypeEOF, "0:8", "0:8"},
		}
		if diff := cmp.Diff(expected, tokenizeAndHumanizeFullStart(t, "<t>a</t>", nil)); diff != "" {
			t.Errorf("tokenizeAndHumanizeFullStart() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should skip over leading trivia for source-span start", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "0:0", "0:0"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END, "0:2", "0:2"},
			[]interface{}{ml_parser.TokenTypeTEXT, "1:3", "0:3"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE, "1:4", "1:4"},
			[]interface{}{ml_parser.TokenTypeEOF, "1:8", "1:8"},
		}
		options := &ml_parser.TokenizeOptions{LeadingTriviaChars: core.LeadingTrivia}
		if diff := cmp.Diff(expected, tokenizeAndHumanizeFullStart(t, "<t>\n \t a</t>", options)); diff != "" {
			t.Errorf("tokenizeAndHumanizeFullStart() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestHtmlLexer_Tags(t *testing.T) {
	t.Run("should parse binding attributes", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "", "div"},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "", "[foo]"},
			[]interface{}{ml_parser.TokenTypeATTR_QUOTE, `"`},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE, "bar"},
			[]interface{}{ml_parser.TokenTypeATTR_QUOTE, `"`},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "", "(click)"},
			[]interface{}{ml_parser.TokenTypeATTR_QUOTE, "'"},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE, "go()"},
			[]interface{}{ml_parser.TokenTypeATTR_QUOTE, "'"},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "", "disabled"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		got := tokenizeAndHumanizeParts(t, `<div [foo]="bar" (click)='go()' disabled>`)
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should parse open and close tags without a prefix", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "", "test"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE, "", "test"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		if diff := cmp.Diff(expected, tokenizeAndHumanizeParts(t, "<test></test>")); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should require a name after a namespace prefix", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, "<"},
			[]interface{}{ml_parser.TokenTypeTEXT, "svg:>"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		if diff := cmp.Diff(expected, tokenizeAndHumanizeParts(t, "<svg:>")); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should parse namespace prefixes", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "svg", "use"},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "xlink", "href"},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE, "x"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END_VOID},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		got := tokenizeAndHumanizeParts(t, `<svg:use xlink:href=x/>`)
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should downgrade unterminated tags", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeINCOMPLETE_TAG_OPEN, "", "div"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		if diff := cmp.Diff(expected, tokenizeAndHumanizeParts(t, "<div")); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should treat an invalid tag start as text", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, "<"},
			[]interface{}{ml_parser.TokenTypeTEXT, " b"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		if diff := cmp.Diff(expected, tokenizeAndHumanizeParts(t, "< b")); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestHtmlLexer_Text(t *testing.T) {
	t.Run("should keep comparison operators in text", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, "{{ a < b }}"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		if diff := cmp.Diff(expected, tokenizeAndHumanizeParts(t, "{{ a < b }}")); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should parse raw text elements", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "", "script"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END},
			[]interface{}{ml_parser.TokenTypeRAW_TEXT, "a<b"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE, "", "script"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		if diff := cmp.Diff(expected, tokenizeAndHumanizeParts(t, "<script>a<b</script>")); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should parse comments", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeCOMMENT_START},
			[]interface{}{ml_parser.TokenTypeRAW_TEXT, " hi "},
			[]interface{}{ml_parser.TokenTypeCOMMENT_END},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		if diff := cmp.Diff(expected, tokenizeAndHumanizeParts(t, "<!-- hi -->")); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should report unterminated comments", func(t *testing.T) {
		result := ml_parser.Tokenize("<!-- x", "someUrl", nil, nil)
		if len(result.Errors) != 1 {
			t.Fatalf("Expected 1 error, got %d", len(result.Errors))
		}
		if diff := cmp.Diff(`Unexpected character "EOF"`, result.Errors[0].Msg); diff != "" {
			t.Errorf("error mismatch (-want +got):\n%s", diff)
		}
	})
}
