package render3

import (
	"ngthis/packages/compiler/src/expression_parser"
	"ngthis/packages/compiler/src/template_parser"
	"ngthis/packages/compiler/src/util"
)

// Node represents a node in the R3 AST
type Node interface {
	SourceSpan() *util.ParseSourceSpan
	Visit(visitor Visitor) interface{}
}

// Text represents a text node without bindings
type Text struct {
	Value      string
	sourceSpan *util.ParseSourceSpan
}

// NewText creates a new Text node
func NewText(value string, sourceSpan *util.ParseSourceSpan) *Text {
	return &Text{Value: value, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (t *Text) SourceSpan() *util.ParseSourceSpan { return t.sourceSpan }

// Visit visits the node with a visitor
func (t *Text) Visit(visitor Visitor) interface{} { return visitor.VisitText(t) }

// BoundText represents text containing `{{ }}`. Value is an ASTWithSource wrapping an Interpolation.
type BoundText struct {
	Value      expression_parser.AST
	sourceSpan *util.ParseSourceSpan
}

// NewBoundText creates a new BoundText node
func NewBoundText(value expression_parser.AST, sourceSpan *util.ParseSourceSpan) *BoundText {
	return &BoundText{Value: value, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (bt *BoundText) SourceSpan() *util.ParseSourceSpan { return bt.sourceSpan }

// Visit visits the node with a visitor
func (bt *BoundText) Visit(visitor Visitor) interface{} { return visitor.VisitBoundText(bt) }

// TextAttribute represents a static attribute
type TextAttribute struct {
	Name       string
	Value      string
	sourceSpan *util.ParseSourceSpan
	KeySpan    *util.ParseSourceSpan
	ValueSpan  *util.ParseSourceSpan
}

// NewTextAttribute creates a new TextAttribute
func NewTextAttribute(name, value string, sourceSpan, keySpan, valueSpan *util.ParseSourceSpan) *TextAttribute {
	return &TextAttribute{Name: name, Value: value, sourceSpan: sourceSpan, KeySpan: keySpan, ValueSpan: valueSpan}
}

// SourceSpan returns the source span
func (ta *TextAttribute) SourceSpan() *util.ParseSourceSpan { return ta.sourceSpan }

// Visit visits the node with a visitor
func (ta *TextAttribute) Visit(visitor Visitor) interface{} { return visitor.VisitTextAttribute(ta) }

// BoundAttribute represents a property, attribute, class, style or animation binding
type BoundAttribute struct {
	Name       string
	Type       template_parser.BindingType
	Value      expression_parser.AST
	Unit       string
	sourceSpan *util.ParseSourceSpan
	KeySpan    *util.ParseSourceSpan
	ValueSpan  *util.ParseSourceSpan
}

// NewBoundAttribute creates a new BoundAttribute
func NewBoundAttribute(
	name string,
	bindingType template_parser.BindingType,
	value expression_parser.AST,
	unit string,
	sourceSpan *util.ParseSourceSpan,
	keySpan *util.ParseSourceSpan,
	valueSpan *util.ParseSourceSpan,
) *BoundAttribute {
	return &BoundAttribute{
		Name:       name,
		Type:       bindingType,
		Value:      value,
		Unit:       unit,
		sourceSpan: sourceSpan,
		KeySpan:    keySpan,
		ValueSpan:  valueSpan,
	}
}

// FromBoundElementProperty creates a BoundAttribute from a resolved property binding
func FromBoundElementProperty(prop *template_parser.BoundElementProperty) *BoundAttribute {
	return NewBoundAttribute(prop.Name, prop.Type, prop.Value, prop.Unit, prop.SourceSpan, prop.KeySpan, prop.ValueSpan)
}

// SourceSpan returns the source span
func (ba *BoundAttribute) SourceSpan() *util.ParseSourceSpan { return ba.sourceSpan }

// Visit visits the node with a visitor
func (ba *BoundAttribute) Visit(visitor Visitor) interface{} { return visitor.VisitBoundAttribute(ba) }

// BoundEvent represents an event listener
type BoundEvent struct {
	Name        string
	Type        template_parser.ParsedEventType
	Handler     expression_parser.AST
	Target      string
	Phase       string
	sourceSpan  *util.ParseSourceSpan
	HandlerSpan *util.ParseSourceSpan
	KeySpan     *util.ParseSourceSpan
}

// FromParsedEvent creates a BoundEvent from a parsed event
func FromParsedEvent(event *template_parser.ParsedEvent) *BoundEvent {
	be := &BoundEvent{
		Name:        event.Name,
		Type:        event.Type,
		Handler:     event.Handler,
		sourceSpan:  event.SourceSpan,
		HandlerSpan: event.HandlerSpan,
		KeySpan:     event.KeySpan,
	}
	if event.Type == template_parser.ParsedEventTypeAnimation {
		be.Phase = event.TargetOrPhase
	} else {
		be.Target = event.TargetOrPhase
	}
	return be
}

// SourceSpan returns the source span
func (be *BoundEvent) SourceSpan() *util.ParseSourceSpan { return be.sourceSpan }

// Visit visits the node with a visitor
func (be *BoundEvent) Visit(visitor Visitor) interface{} { return visitor.VisitBoundEvent(be) }

// Element represents an element
type Element struct {
	Name            string
	Attributes      []*TextAttribute
	Inputs          []*BoundAttribute
	Outputs         []*BoundEvent
	Children        []Node
	References      []*Reference
	sourceSpan      *util.ParseSourceSpan
	StartSourceSpan *util.ParseSourceSpan
	EndSourceSpan   *util.ParseSourceSpan
}

// NewElement creates a new Element node
func NewElement(
	name string,
	attributes []*TextAttribute,
	inputs []*BoundAttribute,
	outputs []*BoundEvent,
	children []Node,
	references []*Reference,
	sourceSpan *util.ParseSourceSpan,
	startSourceSpan *util.ParseSourceSpan,
	endSourceSpan *util.ParseSourceSpan,
) *Element {
	return &Element{
		Name:            name,
		Attributes:      attributes,
		Inputs:          inputs,
		Outputs:         outputs,
		Children:        children,
		References:      references,
		sourceSpan:      sourceSpan,
		StartSourceSpan: startSourceSpan,
		EndSourceSpan:   endSourceSpan,
	}
}

// SourceSpan returns the source span
func (e *Element) SourceSpan() *util.ParseSourceSpan { return e.sourceSpan }

// Visit visits the node with a visitor
func (e *Element) Visit(visitor Visitor) interface{} { return visitor.VisitElement(e) }

// Template represents an `<ng-template>` or the implicit template created by a `*` attribute.
// TemplateAttrs holds the microsyntax bindings, as TextAttribute or BoundAttribute nodes.
type Template struct {
	TagName         string
	Attributes      []*TextAttribute
	Inputs          []*BoundAttribute
	Outputs         []*BoundEvent
	TemplateAttrs   []Node
	Children        []Node
	References      []*Reference
	Variables       []*Variable
	sourceSpan      *util.ParseSourceSpan
	StartSourceSpan *util.ParseSourceSpan
	EndSourceSpan   *util.ParseSourceSpan
}

// NewTemplate creates a new Template node
func NewTemplate(
	tagName string,
	attributes []*TextAttribute,
	inputs []*BoundAttribute,
	outputs []*BoundEvent,
	templateAttrs []Node,
	children []Node,
	references []*Reference,
	variables []*Variable,
	sourceSpan *util.ParseSourceSpan,
	startSourceSpan *util.ParseSourceSpan,
	endSourceSpan *util.ParseSourceSpan,
) *Template {
	return &Template{
		TagName:         tagName,
		Attributes:      attributes,
		Inputs:          inputs,
		Outputs:         outputs,
		TemplateAttrs:   templateAttrs,
		Children:        children,
		References:      references,
		Variables:       variables,
		sourceSpan:      sourceSpan,
		StartSourceSpan: startSourceSpan,
		EndSourceSpan:   endSourceSpan,
	}
}

// SourceSpan returns the source span
func (t *Template) SourceSpan() *util.ParseSourceSpan { return t.sourceSpan }

// Visit visits the node with a visitor
func (t *Template) Visit(visitor Visitor) interface{} { return visitor.VisitTemplate(t) }

// Variable represents a template variable
type Variable struct {
	Name       string
	Value      string
	sourceSpan *util.ParseSourceSpan
	KeySpan    *util.ParseSourceSpan
	ValueSpan  *util.ParseSourceSpan
}

// NewVariable creates a new Variable node
func NewVariable(name, value string, sourceSpan, keySpan, valueSpan *util.ParseSourceSpan) *Variable {
	return &Variable{Name: name, Value: value, sourceSpan: sourceSpan, KeySpan: keySpan, ValueSpan: valueSpan}
}

// SourceSpan returns the source span
func (v *Variable) SourceSpan() *util.ParseSourceSpan { return v.sourceSpan }

// Visit visits the node with a visitor
func (v *Variable) Visit(visitor Visitor) interface{} { return visitor.VisitVariable(v) }

// Reference represents a `#ref` declaration
type Reference struct {
	Name       string
	Value      string
	sourceSpan *util.ParseSourceSpan
	KeySpan    *util.ParseSourceSpan
	ValueSpan  *util.ParseSourceSpan
}

// NewReference creates a new Reference node
func NewReference(name, value string, sourceSpan, keySpan, valueSpan *util.ParseSourceSpan) *Reference {
	return &Reference{Name: name, Value: value, sourceSpan: sourceSpan, KeySpan: keySpan, ValueSpan: valueSpan}
}

// SourceSpan returns the source span
func (r *Reference) SourceSpan() *util.ParseSourceSpan { return r.sourceSpan }

// Visit visits the node with a visitor
func (r *Reference) Visit(visitor Visitor) interface{} { return visitor.VisitReference(r) }

// Visitor is the interface for visiting R3 AST nodes
type Visitor interface {
	VisitElement(element *Element) interface{}
	VisitTemplate(template *Template) interface{}
	VisitVariable(variable *Variable) interface{}
	VisitReference(reference *Reference) interface{}
	VisitTextAttribute(attribute *TextAttribute) interface{}
	VisitBoundAttribute(attribute *BoundAttribute) interface{}
	VisitBoundEvent(event *BoundEvent) interface{}
	VisitText(text *Text) interface{}
	VisitBoundText(text *BoundText) interface{}
}

// RecursiveVisitor visits every node of a tree and does nothing with it. Embed it to
// override single methods.
type RecursiveVisitor struct {
	// Self receives the recursive calls; it defaults to the RecursiveVisitor itself.
	Self Visitor
}

func (rv *RecursiveVisitor) self() Visitor {
	if rv.Self != nil {
		return rv.Self
	}
	return rv
}

// VisitElement visits an element
func (rv *RecursiveVisitor) VisitElement(element *Element) interface{} {
	VisitAll(rv.self(), ElementChildren(element))
	return nil
}

// VisitTemplate visits a template
func (rv *RecursiveVisitor) VisitTemplate(template *Template) interface{} {
	VisitAll(rv.self(), TemplateChildren(template))
	return nil
}

// VisitVariable visits a variable
func (rv *RecursiveVisitor) VisitVariable(variable *Variable) interface{} { return nil }

// VisitReference visits a reference
func (rv *RecursiveVisitor) VisitReference(reference *Reference) interface{} { return nil }

// VisitTextAttribute visits a text attribute
func (rv *RecursiveVisitor) VisitTextAttribute(attribute *TextAttribute) interface{} { return nil }

// VisitBoundAttribute visits a bound attribute
func (rv *RecursiveVisitor) VisitBoundAttribute(attribute *BoundAttribute) interface{} { return nil }

// VisitBoundEvent visits a bound event
func (rv *RecursiveVisitor) VisitBoundEvent(event *BoundEvent) interface{} { return nil }

// VisitText visits a text node
func (rv *RecursiveVisitor) VisitText(text *Text) interface{} { return nil }

// VisitBoundText visits a bound text node
func (rv *RecursiveVisitor) VisitBoundText(text *BoundText) interface{} { return nil }

// ElementChildren returns the nodes owned by element in traversal order:
// attributes, inputs, outputs, children, references.
func ElementChildren(element *Element) []Node {
	nodes := make([]Node, 0, len(element.Attributes)+len(element.Inputs)+len(element.Outputs)+len(element.Children)+len(element.References))
	for _, attr := range element.Attributes {
		nodes = append(nodes, attr)
	}
	for _, input := range element.Inputs {
		nodes = append(nodes, input)
	}
	for _, output := range element.Outputs {
		nodes = append(nodes, output)
	}
	nodes = append(nodes, element.Children...)
	for _, ref := range element.References {
		nodes = append(nodes, ref)
	}
	return nodes
}

// TemplateChildren returns the nodes owned by template in traversal order:
// attributes, inputs, outputs, templateAttrs, children, references, variables.
func TemplateChildren(template *Template) []Node {
	var nodes []Node
	for _, attr := range template.Attributes {
		nodes = append(nodes, attr)
	}
	for _, input := range template.Inputs {
		nodes = append(nodes, input)
	}
	for _, output := range template.Outputs {
		nodes = append(nodes, output)
	}
	nodes = append(nodes, template.TemplateAttrs...)
	nodes = append(nodes, template.Children...)
	for _, ref := range template.References {
		nodes = append(nodes, ref)
	}
	for _, variable := range template.Variables {
		nodes = append(nodes, variable)
	}
	return nodes
}

// VisitAll visits all nodes and collects the non-nil results
func VisitAll(visitor Visitor, nodes []Node) []interface{} {
	result := []interface{}{}
	for _, node := range nodes {
		if r := node.Visit(visitor); r != nil {
			result = append(result, r)
		}
	}
	return result
}
