package ml_parser_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngthis/packages/compiler/src/ml_parser"
	"ngthis/packages/compiler/src/util"
)

type humanizer struct {
	result []interface{}
	depth  int
}

func (h *humanizer) VisitElement(element *ml_parser.Element, context interface{}) interface{} {
	h.result = append(h.result, []interface{}{"Element", element.Name, h.depth})
	h.depth++
	ml_parser.VisitAll(h, attrNodes(element.Attrs), context)
	ml_parser.VisitAll(h, element.Children, context)
	h.depth--
	return nil
}

func (h *humanizer) VisitAttribute(attribute *ml_parser.Attribute, context interface{}) interface{} {
	h.result = append(h.result, []interface{}{"Attribute", attribute.Name, attribute.Value})
	return nil
}

func (h *humanizer) VisitText(text *ml_parser.Text, context interface{}) interface{} {
	h.result = append(h.result, []interface{}{"Text", text.Value, h.depth})
	return nil
}

func (h *humanizer) VisitComment(comment *ml_parser.Comment, context interface{}) interface{} {
	h.result = append(h.result, []interface{}{"Comment", comment.Value, h.depth})
	return nil
}

func attrNodes(attrs []*ml_parser.Attribute) []ml_parser.Node {
	nodes := make([]ml_parser.Node, len(attrs))
	for i, attr := range attrs {
		nodes[i] = attr
	}
	return nodes
}

func parse(input string) *ml_parser.ParseTreeResult {
	return ml_parser.NewHtmlParser().Parse(input, "TestComp", &ml_parser.TokenizeOptions{
		LeadingTriviaChars: ml_parser.LeadingTriviaChars,
	})
}

func humanizeDom(t *testing.T, result *ml_parser.ParseTreeResult) []interface{} {
	t.Helper()
	if len(result.Errors) > 0 {
		t.Fatalf("Unexpected parse errors:\n%s", util.JoinErrors(result.Errors))
	}
	h := &humanizer{}
	ml_parser.VisitAll(h, result.RootNodes, nil)
	return h.result
}

func expectError(t *testing.T, result *ml_parser.ParseTreeResult, message string) {
	t.Helper()
	for _, err := range result.Errors {
		if strings.Contains(err.Msg, message) {
			return
		}
	}
	t.Errorf("Expected an error containing %q, got %v", message, result.Errors)
}

func TestHtmlParser_Nodes(t *testing.T) {
	t.Run("should parse elements, attributes and text", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{"Element", "div", 0},
			[]interface{}{"Attribute", "[title]", "name"},
			[]interface{}{"Attribute", "hidden", ""},
			[]interface{}{"Text", "{{ a }}", 1},
			[]interface{}{"Comment", "note", 1},
		}
		got := humanizeDom(t, parse(`<div [title]="name" hidden>{{ a }}<!-- note --></div>`))
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("humanizeDom() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should close elements implicitly", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{"Element", "div", 0},
			[]interface{}{"Element", "p", 1},
			[]interface{}{"Text", "a", 2},
			[]interface{}{"Element", "p", 1},
			[]interface{}{"Text", "b", 2},
		}
		if diff := cmp.Diff(expected, humanizeDom(t, parse("<div><p>a<p>b</div>"))); diff != "" {
			t.Errorf("humanizeDom() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should not nest inside void elements", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{"Element", "input", 0},
			[]interface{}{"Element", "span", 0},
		}
		if diff := cmp.Diff(expected, humanizeDom(t, parse("<input><span></span>"))); diff != "" {
			t.Errorf("humanizeDom() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should propagate the svg namespace", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{"Element", ":svg:svg", 0},
			[]interface{}{"Element", ":svg:path", 1},
		}
		if diff := cmp.Diff(expected, humanizeDom(t, parse("<svg><path></path></svg>"))); diff != "" {
			t.Errorf("humanizeDom() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should merge adjacent text", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{"Text", "< b", 0},
		}
		if diff := cmp.Diff(expected, humanizeDom(t, parse("< b"))); diff != "" {
			t.Errorf("humanizeDom() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should allow self closing custom elements", func(t *testing.T) {
		result := parse("<my-cmp/><ng-container/>")
		humanizeDom(t, result)
		if el := result.RootNodes[0].(*ml_parser.Element); !el.IsSelfClosing {
			t.Errorf("Expected my-cmp to be self closing")
		}
	})
}

func TestHtmlParser_Errors(t *testing.T) {
	t.Run("should report unexpected closing tags", func(t *testing.T) {
		expectError(t, parse("<div></span></div>"), `Unexpected closing tag "span"`)
	})

	t.Run("should report unterminated opening tags", func(t *testing.T) {
		expectError(t, parse("<div"), `Opening tag "div" not terminated.`)
	})

	t.Run("should report self closed native elements", func(t *testing.T) {
		expectError(t, parse("<div/>"), `Only void, custom and foreign elements can be self closed "div"`)
	})

	t.Run("should report end tags of void elements", func(t *testing.T) {
		expectError(t, parse("<input></input>"), `Void elements do not have end tags "input"`)
	})
}

func TestHtmlParser_SourceSpans(t *testing.T) {
	t.Run("should trim leading trivia from attribute values", func(t *testing.T) {
		result := parse("<a [x]=\"\n  foo\"></a>")
		attr := result.RootNodes[0].(*ml_parser.Element).Attrs[0]
		got := []int{
			attr.SourceSpan().Start.Offset, attr.SourceSpan().End.Offset,
			attr.KeySpan.Start.Offset, attr.KeySpan.End.Offset,
			attr.ValueSpan.FullStart.Offset, attr.ValueSpan.Start.Offset, attr.ValueSpan.End.Offset,
		}
		if diff := cmp.Diff([]int{3, 15, 3, 6, 8, 11, 14}, got); diff != "" {
			t.Errorf("span mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should trim leading trivia from text", func(t *testing.T) {
		result := parse("<b>\n  {{ x }}</b>")
		text := result.RootNodes[0].(*ml_parser.Element).Children[0].(*ml_parser.Text)
		got := []int{text.SourceSpan().FullStart.Offset, text.SourceSpan().Start.Offset}
		if diff := cmp.Diff([]int{3, 6}, got); diff != "" {
			t.Errorf("span mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should extend element spans to the end tag", func(t *testing.T) {
		el := parse("<b>x</b>").RootNodes[0].(*ml_parser.Element)
		got := []int{
			el.SourceSpan().Start.Offset, el.SourceSpan().End.Offset,
			el.StartSourceSpan.End.Offset,
			el.EndSourceSpan.Start.Offset, el.EndSourceSpan.End.Offset,
		}
		if diff := cmp.Diff([]int{0, 8, 3, 4, 8}, got); diff != "" {
			t.Errorf("span mismatch (-want +got):\n%s", diff)
		}
	})
}
