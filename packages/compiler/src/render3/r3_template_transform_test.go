package render3_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngthis/packages/compiler/src/expression_parser"
	"ngthis/packages/compiler/src/render3"
	"ngthis/packages/compiler/src/template_parser"
	"ngthis/packages/compiler/src/util"
)

type r3AstHumanizer struct {
	render3.RecursiveVisitor
	result [][]string
}

func newR3AstHumanizer() *r3AstHumanizer {
	h := &r3AstHumanizer{}
	h.Self = h
	return h
}

func (h *r3AstHumanizer) VisitElement(element *render3.Element) interface{} {
	h.result = append(h.result, []string{"Element", element.Name})
	return h.RecursiveVisitor.VisitElement(element)
}

func (h *r3AstHumanizer) VisitTemplate(template *render3.Template) interface{} {
	h.result = append(h.result, []string{"Template", template.TagName})
	return h.RecursiveVisitor.VisitTemplate(template)
}

func (h *r3AstHumanizer) VisitVariable(variable *render3.Variable) interface{} {
	h.result = append(h.result, []string{"Variable", variable.Name, variable.Value})
	return nil
}

func (h *r3AstHumanizer) VisitReference(reference *render3.Reference) interface{} {
	h.result = append(h.result, []string{"Reference", reference.Name, reference.Value})
	return nil
}

func (h *r3AstHumanizer) VisitTextAttribute(attribute *render3.TextAttribute) interface{} {
	h.result = append(h.result, []string{"TextAttribute", attribute.Name, attribute.Value})
	return nil
}

func (h *r3AstHumanizer) VisitBoundAttribute(attribute *render3.BoundAttribute) interface{} {
	h.result = append(h.result, []string{"BoundAttribute", attribute.Name, expression_parser.Serialize(attribute.Value)})
	return nil
}

func (h *r3AstHumanizer) VisitBoundEvent(event *render3.BoundEvent) interface{} {
	h.result = append(h.result, []string{"BoundEvent", event.Name, event.Target, expression_parser.Serialize(event.Handler)})
	return nil
}

func (h *r3AstHumanizer) VisitText(text *render3.Text) interface{} {
	h.result = append(h.result, []string{"Text", text.Value})
	return nil
}

func (h *r3AstHumanizer) VisitBoundText(text *render3.BoundText) interface{} {
	h.result = append(h.result, []string{"BoundText", expression_parser.Serialize(text.Value)})
	return nil
}

func parse(t *testing.T, html string) *render3.ParsedTemplate {
	t.Helper()
	res := render3.ParseTemplate(html, "path:://to/template", nil)
	if len(res.Errors) > 0 {
		t.Fatalf("Unexpected parse errors:\n%s", util.JoinErrors(res.Errors))
	}
	return res
}

func expectFromHtml(t *testing.T, html string, expected [][]string) {
	t.Helper()
	h := newR3AstHumanizer()
	render3.VisitAll(h, parse(t, html).Nodes)
	if diff := cmp.Diff(expected, h.result); diff != "" {
		t.Errorf("humanized R3 AST mismatch (-want +got):\n%s", diff)
	}
}

func expectErrorFromHtml(t *testing.T, html, message string) {
	t.Helper()
	res := render3.ParseTemplate(html, "path:://to/template", nil)
	for _, err := range res.Errors {
		if strings.Contains(err.Msg, message) {
			return
		}
	}
	t.Errorf("Expected an error containing %q, got %v", message, res.Errors)
}

func TestR3TemplateTransform_Nodes(t *testing.T) {
	t.Run("should parse attributes, bindings, events and references", func(t *testing.T) {
		expectFromHtml(t, `<div a="b" [c]="d" (e)="f()" #g [(h)]="i">{{ j }} k</div>`, [][]string{
			{"Element", "div"},
			{"TextAttribute", "a", "b"},
			{"BoundAttribute", "c", "d"},
			{"BoundAttribute", "h", "i"},
			{"BoundEvent", "e", "", "f()"},
			{"BoundEvent", "hChange", "", "i = $event"},
			{"BoundText", "{{ j }} k"},
			{"Reference", "g", ""},
		})
	})

	t.Run("should parse canonical binding prefixes", func(t *testing.T) {
		expectFromHtml(t, `<div bind-a="b" on-c="d()" bindon-e="f" ref-g data-[h]="i"></div>`, [][]string{
			{"Element", "div"},
			{"BoundAttribute", "a", "b"},
			{"BoundAttribute", "e", "f"},
			{"BoundAttribute", "h", "i"},
			{"BoundEvent", "c", "", "d()"},
			{"BoundEvent", "eChange", "", "f = $event"},
			{"Reference", "g", ""},
		})
	})

	t.Run("should parse interpolated attributes", func(t *testing.T) {
		expectFromHtml(t, `<div title="a {{ b }}"></div>`, [][]string{
			{"Element", "div"},
			{"BoundAttribute", "title", "a {{ b }}"},
		})
	})

	t.Run("should wrap inline templates around their element", func(t *testing.T) {
		expectFromHtml(t, `<test *ngIf="foo as bar; then thenBlock" [x]="y">{{bar}}</test>`, [][]string{
			{"Template", "test"},
			{"BoundAttribute", "ngIf", "foo"},
			{"BoundAttribute", "ngIfThen", "thenBlock"},
			{"Element", "test"},
			{"BoundAttribute", "x", "y"},
			{"BoundText", "{{ bar }}"},
			{"Variable", "bar", "ngIf"},
		})
	})

	t.Run("should parse ngFor microsyntax", func(t *testing.T) {
		expectFromHtml(t, `<li *ngFor="let item of items; index as i"></li>`, [][]string{
			{"Template", "li"},
			{"TextAttribute", "ngFor", ""},
			{"BoundAttribute", "ngForOf", "items"},
			{"Element", "li"},
			{"Variable", "item", "$implicit"},
			{"Variable", "i", "index"},
		})
	})

	t.Run("should parse ng-template variables and references", func(t *testing.T) {
		expectFromHtml(t, `<ng-template let-item [ngForOf]="items" let-i="index" #tpl><b></b></ng-template>`, [][]string{
			{"Template", "ng-template"},
			{"BoundAttribute", "ngForOf", "items"},
			{"Element", "b"},
			{"Reference", "tpl", ""},
			{"Variable", "item", "$implicit"},
			{"Variable", "i", "index"},
		})
	})

	t.Run("should skip script and style elements", func(t *testing.T) {
		expectFromHtml(t, `<script>a</script><style>b</style><link rel="stylesheet" href="c"><b></b>`, [][]string{
			{"Element", "b"},
		})
	})

	t.Run("should not bind inside ngNonBindable", func(t *testing.T) {
		expectFromHtml(t, `<div ngNonBindable><span [a]="b">{{ c }}</span></div>`, [][]string{
			{"Element", "div"},
			{"TextAttribute", "ngNonBindable", ""},
			{"Element", "span"},
			{"TextAttribute", "[a]", "b"},
			{"Text", "{{ c }}"},
		})
	})

	t.Run("should resolve attr, class and style prefixes", func(t *testing.T) {
		el := parse(t, `<div [attr.aria-label]="a" [class.on]="b" [style.width.px]="c"></div>`).Nodes[0].(*render3.Element)
		type binding struct {
			Name string
			Type template_parser.BindingType
			Unit string
		}
		var got []binding
		for _, input := range el.Inputs {
			got = append(got, binding{input.Name, input.Type, input.Unit})
		}
		want := []binding{
			{"aria-label", template_parser.BindingTypeAttribute, ""},
			{"on", template_parser.BindingTypeClass, ""},
			{"width", template_parser.BindingTypeStyle, "px"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("inputs mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestR3TemplateTransform_Spans(t *testing.T) {
	t.Run("should offset property bindings from the trimmed value start", func(t *testing.T) {
		el := parse(t, `<a [bar]="  foo"></a>`).Nodes[0].(*render3.Element)
		value := el.Inputs[0].Value.(*expression_parser.ASTWithSource)
		read := value.AST.(*expression_parser.PropertyRead)
		got := []int{value.AbsoluteOffset, read.SourceSpan().Start, read.SourceSpan().End, read.Span().Start}
		if diff := cmp.Diff([]int{12, 14, 17, 2}, got); diff != "" {
			t.Errorf("span mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should offset text interpolation from the untrimmed text start", func(t *testing.T) {
		el := parse(t, "<b>\n  {{ x }}</b>").Nodes[0].(*render3.Element)
		value := el.Children[0].(*render3.BoundText).Value.(*expression_parser.ASTWithSource)
		read := value.AST.(*expression_parser.Interpolation).Expressions[0].(*expression_parser.PropertyRead)
		got := []int{value.AbsoluteOffset, read.SourceSpan().Start, read.SourceSpan().End}
		if diff := cmp.Diff([]int{3, 9, 10}, got); diff != "" {
			t.Errorf("span mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should locate microsyntax keys and values", func(t *testing.T) {
		tpl := parse(t, `<a *ngIf="foo"></a>`).Nodes[0].(*render3.Template)
		attr := tpl.TemplateAttrs[0].(*render3.BoundAttribute)
		read := attr.Value.(*expression_parser.ASTWithSource).AST.(*expression_parser.PropertyRead)
		got := []int{attr.KeySpan.Start.Offset, attr.KeySpan.End.Offset, read.SourceSpan().Start, read.SourceSpan().End}
		if diff := cmp.Diff([]int{4, 8, 10, 13}, got); diff != "" {
			t.Errorf("span mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestR3TemplateTransform_Errors(t *testing.T) {
	t.Run("should report multiple inline templates", func(t *testing.T) {
		expectErrorFromHtml(t, `<div *a="x" *b="y"></div>`, "Can't have multiple template bindings on one element")
	})

	t.Run("should report empty event handlers", func(t *testing.T) {
		expectErrorFromHtml(t, `<div (click)=""></div>`, "Empty expressions are not allowed")
	})

	t.Run("should report let- outside ng-template", func(t *testing.T) {
		expectErrorFromHtml(t, `<div let-a="b"></div>`, `"let-" is only supported on ng-template elements.`)
	})

	t.Run("should report duplicate references", func(t *testing.T) {
		expectErrorFromHtml(t, `<div #a #a></div>`, `Reference "#a" is defined more than once`)
	})

	t.Run("should stop at HTML errors", func(t *testing.T) {
		res := render3.ParseTemplate(`<div></span></div>`, "path:://to/template", nil)
		if len(res.Errors) == 0 || res.Nodes != nil {
			t.Errorf("Expected errors and no nodes, got %d errors and %d nodes", len(res.Errors), len(res.Nodes))
		}
	})
}
