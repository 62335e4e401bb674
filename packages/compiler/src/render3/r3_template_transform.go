package render3

import (
	"fmt"
	"regexp"
	"strings"

	"ngthis/packages/compiler/src/ml_parser"
	"ngthis/packages/compiler/src/template_parser"
	"ngthis/packages/compiler/src/util"
)

var bindNameRegexp = regexp.MustCompile(`^(?:(bind-)|(let-)|(ref-|#)|(on-)|(bindon-)|(@))(.*)$`)

const (
	kwBindIdx   = 1
	kwLetIdx    = 2
	kwRefIdx    = 3
	kwOnIdx     = 4
	kwBindonIdx = 5
	kwAtIdx     = 6
	identKwIdx  = 7
)

type bindingDelims struct {
	start string
	end   string
}

var (
	bananaBoxDelims = bindingDelims{start: "[(", end: ")]"}
	propertyDelims  = bindingDelims{start: "[", end: "]"}
	eventDelims     = bindingDelims{start: "(", end: ")"}
)

// Render3ParseResult is the outcome of transforming an HTML tree
type Render3ParseResult struct {
	Nodes  []Node
	Errors []*util.ParseError
}

// HtmlAstToRender3Ast converts HTML AST nodes to R3 AST nodes
func HtmlAstToRender3Ast(htmlNodes []ml_parser.Node, bindingParser *template_parser.BindingParser) *Render3ParseResult {
	transformer := newHtmlAstToIvyAst(bindingParser)
	nodes := transformer.visitNodes(htmlNodes)

	errors := append([]*util.ParseError{}, bindingParser.Errors...)
	errors = append(errors, transformer.errors...)
	return &Render3ParseResult{Nodes: nodes, Errors: errors}
}

type htmlAstToIvyAst struct {
	bindingParser *template_parser.BindingParser
	errors        []*util.ParseError
}

func newHtmlAstToIvyAst(bindingParser *template_parser.BindingParser) *htmlAstToIvyAst {
	return &htmlAstToIvyAst{bindingParser: bindingParser}
}

func (t *htmlAstToIvyAst) visitNodes(nodes []ml_parser.Node) []Node {
	var result []Node
	for _, node := range nodes {
		if r, ok := node.Visit(t, nil).(Node); ok && r != nil {
			result = append(result, r)
		}
	}
	return result
}

// VisitElement implements ml_parser.Visitor
func (t *htmlAstToIvyAst) VisitElement(element *ml_parser.Element, context interface{}) interface{} {
	preparsed := template_parser.PreparseElement(element)
	switch preparsed.Type {
	case template_parser.PreparsedElementTypeScript,
		template_parser.PreparsedElementTypeStyle,
		template_parser.PreparsedElementTypeStylesheet:
		return nil
	}

	isTemplateElement := ml_parser.IsNgTemplate(element.Name)

	var parsedProperties []*template_parser.ParsedProperty
	var boundEvents []*BoundEvent
	var variables []*Variable
	var references []*Reference
	var attributes []*TextAttribute

	var templateParsedProperties []*template_parser.ParsedProperty
	var templateVariables []*Variable

	elementHasInlineTemplate := false

	for _, attribute := range element.Attrs {
		hasBinding := false
		normalizedName := normalizeAttributeName(attribute.Name)

		if strings.HasPrefix(normalizedName, template_parser.TEMPLATE_ATTR_PREFIX) {
			if elementHasInlineTemplate {
				t.reportError("Can't have multiple template bindings on one element. Use only one attribute prefixed with *", attribute.SourceSpan())
			}
			elementHasInlineTemplate = true
			hasBinding = true

			templateKey := normalizedName[len(template_parser.TEMPLATE_ATTR_PREFIX):]
			absoluteValueOffset := attribute.SourceSpan().Start.Offset + len(attribute.Name)
			if attribute.ValueSpan != nil {
				absoluteValueOffset = attribute.ValueSpan.Start.Offset
			}

			var parsedVariables []*template_parser.ParsedVariable
			t.bindingParser.ParseInlineTemplateBinding(
				templateKey, attribute.Value, attribute.SourceSpan(), absoluteValueOffset,
				&templateParsedProperties, &parsedVariables,
			)
			for _, v := range parsedVariables {
				templateVariables = append(templateVariables, NewVariable(v.Name, v.Value, v.SourceSpan, v.KeySpan, v.ValueSpan))
			}
		} else {
			hasBinding = t.parseAttribute(isTemplateElement, attribute, &parsedProperties, &boundEvents, &variables, &references)
		}

		if !hasBinding {
			attributes = append(attributes, NewTextAttribute(
				attribute.Name, attribute.Value, attribute.SourceSpan(), attribute.KeySpan, attribute.ValueSpan,
			))
		}
	}

	var children []Node
	if preparsed.NonBindable {
		children = visitNonBindable(element.Children)
	} else {
		children = t.visitNodes(element.Children)
	}

	var parsedElement Node
	if isTemplateElement {
		literal, bound := t.extractAttributes(parsedProperties)
		parsedElement = NewTemplate(
			element.Name,
			append(attributes, literal...),
			bound,
			boundEvents,
			nil,
			children,
			references,
			variables,
			element.SourceSpan(),
			element.StartSourceSpan,
			element.EndSourceSpan,
		)
	} else {
		literal, bound := t.extractAttributes(parsedProperties)
		parsedElement = NewElement(
			element.Name,
			append(attributes, literal...),
			bound,
			boundEvents,
			children,
			references,
			element.SourceSpan(),
			element.StartSourceSpan,
			element.EndSourceSpan,
		)
	}

	if !elementHasInlineTemplate {
		return parsedElement
	}

	// The host element stays the only child of the implicit template; its own bindings
	// are not copied onto the template.
	literal, bound := t.extractAttributes(templateParsedProperties)
	templateAttrs := make([]Node, 0, len(literal)+len(bound))
	for _, attr := range literal {
		templateAttrs = append(templateAttrs, attr)
	}
	for _, attr := range bound {
		templateAttrs = append(templateAttrs, attr)
	}

	tagName := element.Name
	if isTemplateElement {
		tagName = ""
	}
	return NewTemplate(
		tagName,
		nil,
		nil,
		nil,
		templateAttrs,
		[]Node{parsedElement},
		nil,
		templateVariables,
		element.SourceSpan(),
		element.StartSourceSpan,
		element.EndSourceSpan,
	)
}

// VisitAttribute implements ml_parser.Visitor
func (t *htmlAstToIvyAst) VisitAttribute(attribute *ml_parser.Attribute, context interface{}) interface{} {
	return NewTextAttribute(attribute.Name, attribute.Value, attribute.SourceSpan(), attribute.KeySpan, attribute.ValueSpan)
}

// VisitText implements ml_parser.Visitor
func (t *htmlAstToIvyAst) VisitText(text *ml_parser.Text, context interface{}) interface{} {
	if expr := t.bindingParser.ParseInterpolation(text.Value, text.SourceSpan()); expr != nil {
		return NewBoundText(expr, text.SourceSpan())
	}
	return NewText(text.Value, text.SourceSpan())
}

// VisitComment implements ml_parser.Visitor
func (t *htmlAstToIvyAst) VisitComment(comment *ml_parser.Comment, context interface{}) interface{} {
	return nil
}

func (t *htmlAstToIvyAst) extractAttributes(properties []*template_parser.ParsedProperty) ([]*TextAttribute, []*BoundAttribute) {
	var literal []*TextAttribute
	var bound []*BoundAttribute
	for _, prop := range properties {
		if prop.IsLiteral() {
			literal = append(literal, NewTextAttribute(prop.Name, prop.LiteralValue, prop.SourceSpan, prop.KeySpan, prop.ValueSpan))
			continue
		}
		bound = append(bound, FromBoundElementProperty(t.bindingParser.CreateBoundElementProperty(prop)))
	}
	return literal, bound
}

// parseAttribute turns one attribute into bindings, events, variables or references.
// It reports false for a plain attribute.
func (t *htmlAstToIvyAst) parseAttribute(
	isTemplateElement bool,
	attribute *ml_parser.Attribute,
	parsedProperties *[]*template_parser.ParsedProperty,
	boundEvents *[]*BoundEvent,
	variables *[]*Variable,
	references *[]*Reference,
) bool {
	name := normalizeAttributeName(attribute.Name)
	value := attribute.Value
	srcSpan := attribute.SourceSpan()
	absoluteOffset := srcSpan.Start.Offset
	if attribute.ValueSpan != nil {
		absoluteOffset = attribute.ValueSpan.Start.Offset
	}
	handlerSpan := srcSpan
	if attribute.ValueSpan != nil {
		handlerSpan = attribute.ValueSpan
	}

	createKeySpan := func(prefix, identifier string) *util.ParseSourceSpan {
		normalizationAdjustment := len(attribute.Name) - len(name)
		keySpanStart := srcSpan.Start.MoveBy(len(prefix) + normalizationAdjustment)
		keySpanEnd := keySpanStart.MoveBy(len(identifier))
		return util.NewParseSourceSpan(keySpanStart, keySpanEnd, keySpanStart, &identifier)
	}

	if bindParts := bindNameRegexp.FindStringSubmatch(name); bindParts != nil {
		identifier := bindParts[identKwIdx]
		switch {
		case bindParts[kwBindIdx] != "":
			keySpan := createKeySpan(bindParts[kwBindIdx], identifier)
			t.bindingParser.ParsePropertyBinding(identifier, value, srcSpan, absoluteOffset, attribute.ValueSpan, parsedProperties, keySpan)
		case bindParts[kwLetIdx] != "":
			if isTemplateElement {
				keySpan := createKeySpan(bindParts[kwLetIdx], identifier)
				t.parseVariable(identifier, value, srcSpan, keySpan, attribute.ValueSpan, variables)
			} else {
				t.reportError(`"let-" is only supported on ng-template elements.`, srcSpan)
			}
		case bindParts[kwRefIdx] != "":
			keySpan := createKeySpan(bindParts[kwRefIdx], identifier)
			t.parseReference(identifier, value, srcSpan, keySpan, attribute.ValueSpan, references)
		case bindParts[kwOnIdx] != "":
			keySpan := createKeySpan(bindParts[kwOnIdx], identifier)
			t.parseEvent(identifier, value, template_parser.ParsedEventTypeRegular, srcSpan, handlerSpan, boundEvents, keySpan)
		case bindParts[kwBindonIdx] != "":
			keySpan := createKeySpan(bindParts[kwBindonIdx], identifier)
			t.bindingParser.ParsePropertyBinding(identifier, value, srcSpan, absoluteOffset, attribute.ValueSpan, parsedProperties, keySpan)
			t.parseAssignmentEvent(identifier, value, srcSpan, handlerSpan, boundEvents, keySpan)
		case bindParts[kwAtIdx] != "":
			keySpan := createKeySpan("", name)
			t.bindingParser.ParseLiteralAttr(name, value, srcSpan, attribute.ValueSpan, parsedProperties, keySpan)
		}
		return true
	}

	var delims *bindingDelims
	switch {
	case strings.HasPrefix(name, bananaBoxDelims.start):
		delims = &bananaBoxDelims
	case strings.HasPrefix(name, propertyDelims.start):
		delims = &propertyDelims
	case strings.HasPrefix(name, eventDelims.start):
		delims = &eventDelims
	}

	if delims != nil && strings.HasSuffix(name, delims.end) && len(name) > len(delims.start)+len(delims.end) {
		identifier := name[len(delims.start) : len(name)-len(delims.end)]
		keySpan := createKeySpan(delims.start, identifier)
		switch *delims {
		case bananaBoxDelims:
			t.bindingParser.ParsePropertyBinding(identifier, value, srcSpan, absoluteOffset, attribute.ValueSpan, parsedProperties, keySpan)
			t.parseAssignmentEvent(identifier, value, srcSpan, handlerSpan, boundEvents, keySpan)
		case propertyDelims:
			t.bindingParser.ParsePropertyBinding(identifier, value, srcSpan, absoluteOffset, attribute.ValueSpan, parsedProperties, keySpan)
		default:
			t.parseEvent(identifier, value, template_parser.ParsedEventTypeRegular, srcSpan, handlerSpan, boundEvents, keySpan)
		}
		return true
	}

	keySpan := createKeySpan("", name)
	return t.bindingParser.ParsePropertyInterpolation(name, value, srcSpan, attribute.ValueSpan, parsedProperties, keySpan)
}

func (t *htmlAstToIvyAst) parseEvent(
	name, expression string,
	eventType template_parser.ParsedEventType,
	sourceSpan, handlerSpan *util.ParseSourceSpan,
	boundEvents *[]*BoundEvent,
	keySpan *util.ParseSourceSpan,
) {
	var events []*template_parser.ParsedEvent
	t.bindingParser.ParseEvent(name, expression, eventType, sourceSpan, handlerSpan, &events, keySpan)
	for _, e := range events {
		*boundEvents = append(*boundEvents, FromParsedEvent(e))
	}
}

// parseAssignmentEvent adds the `nameChange` listener of a two-way binding
func (t *htmlAstToIvyAst) parseAssignmentEvent(
	name, expression string,
	sourceSpan, handlerSpan *util.ParseSourceSpan,
	boundEvents *[]*BoundEvent,
	keySpan *util.ParseSourceSpan,
) {
	t.parseEvent(name+"Change", expression+" =$event", template_parser.ParsedEventTypeTwoWay, sourceSpan, handlerSpan, boundEvents, keySpan)
}

func (t *htmlAstToIvyAst) parseVariable(
	identifier, value string,
	sourceSpan, keySpan, valueSpan *util.ParseSourceSpan,
	variables *[]*Variable,
) {
	if strings.Contains(identifier, "-") {
		t.reportError(`"-" is not allowed in variable names`, sourceSpan)
	} else if identifier == "" {
		t.reportError("Variable does not have a name", sourceSpan)
	}
	if value == "" {
		value = "$implicit"
	}
	*variables = append(*variables, NewVariable(identifier, value, sourceSpan, keySpan, valueSpan))
}

func (t *htmlAstToIvyAst) parseReference(
	identifier, value string,
	sourceSpan, keySpan, valueSpan *util.ParseSourceSpan,
	references *[]*Reference,
) {
	if strings.Contains(identifier, "-") {
		t.reportError(`"-" is not allowed in reference names`, sourceSpan)
	} else if identifier == "" {
		t.reportError("Reference does not have a name", sourceSpan)
	} else {
		for _, ref := range *references {
			if ref.Name == identifier {
				t.reportError(fmt.Sprintf("Reference \"#%s\" is defined more than once", identifier), sourceSpan)
				break
			}
		}
	}
	*references = append(*references, NewReference(identifier, value, sourceSpan, keySpan, valueSpan))
}

func (t *htmlAstToIvyAst) reportError(message string, sourceSpan *util.ParseSourceSpan) {
	t.errors = append(t.errors, util.NewParseError(sourceSpan, message))
}

// nonBindableVisitor converts the content of an ngNonBindable element; nothing in it binds
type nonBindableVisitor struct{}

func visitNonBindable(nodes []ml_parser.Node) []Node {
	v := nonBindableVisitor{}
	var result []Node
	for _, node := range nodes {
		if r, ok := node.Visit(v, nil).(Node); ok && r != nil {
			result = append(result, r)
		}
	}
	return result
}

func (v nonBindableVisitor) VisitElement(element *ml_parser.Element, context interface{}) interface{} {
	preparsed := template_parser.PreparseElement(element)
	switch preparsed.Type {
	case template_parser.PreparsedElementTypeScript,
		template_parser.PreparsedElementTypeStyle,
		template_parser.PreparsedElementTypeStylesheet:
		return nil
	}

	attributes := make([]*TextAttribute, 0, len(element.Attrs))
	for _, attr := range element.Attrs {
		attributes = append(attributes, NewTextAttribute(attr.Name, attr.Value, attr.SourceSpan(), attr.KeySpan, attr.ValueSpan))
	}
	return NewElement(
		element.Name, attributes, nil, nil, visitNonBindable(element.Children), nil,
		element.SourceSpan(), element.StartSourceSpan, element.EndSourceSpan,
	)
}

func (v nonBindableVisitor) VisitAttribute(attribute *ml_parser.Attribute, context interface{}) interface{} {
	return NewTextAttribute(attribute.Name, attribute.Value, attribute.SourceSpan(), attribute.KeySpan, attribute.ValueSpan)
}

func (v nonBindableVisitor) VisitText(text *ml_parser.Text, context interface{}) interface{} {
	return NewText(text.Value, text.SourceSpan())
}

func (v nonBindableVisitor) VisitComment(comment *ml_parser.Comment, context interface{}) interface{} {
	return nil
}

func normalizeAttributeName(attrName string) string {
	if len(attrName) >= 5 && strings.EqualFold(attrName[:5], "data-") {
		return attrName[5:]
	}
	return attrName
}
