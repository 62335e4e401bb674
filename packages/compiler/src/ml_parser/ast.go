package ml_parser

import "ngthis/packages/compiler/src/util"

// Node represents a node in the HTML AST
type Node interface {
	SourceSpan() *util.ParseSourceSpan
	Visit(visitor Visitor, context interface{}) interface{}
}

type baseNode struct {
	sourceSpan *util.ParseSourceSpan
}

// SourceSpan returns the source span
func (n *baseNode) SourceSpan() *util.ParseSourceSpan {
	return n.sourceSpan
}

// Text represents a text node. The span start skips leading whitespace, FullStart does not.
type Text struct {
	baseNode
	Value string
}

// NewText creates a new Text node
func NewText(value string, sourceSpan *util.ParseSourceSpan) *Text {
	return &Text{baseNode: baseNode{sourceSpan: sourceSpan}, Value: value}
}

// Visit implements the Node interface
func (t *Text) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitText(t, context)
}

// Attribute represents an attribute node. ValueSpan is nil for valueless attributes.
type Attribute struct {
	baseNode
	Name      string
	Value     string
	KeySpan   *util.ParseSourceSpan
	ValueSpan *util.ParseSourceSpan
}

// NewAttribute creates a new Attribute node
func NewAttribute(name, value string, sourceSpan, keySpan, valueSpan *util.ParseSourceSpan) *Attribute {
	return &Attribute{
		baseNode:  baseNode{sourceSpan: sourceSpan},
		Name:      name,
		Value:     value,
		KeySpan:   keySpan,
		ValueSpan: valueSpan,
	}
}

// Visit implements the Node interface
func (a *Attribute) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitAttribute(a, context)
}

// Element represents an element node
type Element struct {
	baseNode
	Name            string
	Attrs           []*Attribute
	Children        []Node
	IsSelfClosing   bool
	StartSourceSpan *util.ParseSourceSpan
	EndSourceSpan   *util.ParseSourceSpan
}

// NewElement creates a new Element node
func NewElement(name string, attrs []*Attribute, children []Node, sourceSpan, startSourceSpan, endSourceSpan *util.ParseSourceSpan) *Element {
	return &Element{
		baseNode:        baseNode{sourceSpan: sourceSpan},
		Name:            name,
		Attrs:           attrs,
		Children:        children,
		StartSourceSpan: startSourceSpan,
		EndSourceSpan:   endSourceSpan,
	}
}

// Visit implements the Node interface
func (e *Element) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitElement(e, context)
}

// Comment represents a comment node
type Comment struct {
	baseNode
	Value string
}

// NewComment creates a new Comment node
func NewComment(value string, sourceSpan *util.ParseSourceSpan) *Comment {
	return &Comment{baseNode: baseNode{sourceSpan: sourceSpan}, Value: value}
}

// Visit implements the Node interface
func (c *Comment) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitComment(c, context)
}

// Visitor is the interface for visiting HTML AST nodes
type Visitor interface {
	VisitElement(element *Element, context interface{}) interface{}
	VisitAttribute(attribute *Attribute, context interface{}) interface{}
	VisitText(text *Text, context interface{}) interface{}
	VisitComment(comment *Comment, context interface{}) interface{}
}

// VisitAll visits all nodes and collects the non-nil results
func VisitAll(visitor Visitor, nodes []Node, context interface{}) []interface{} {
	result := make([]interface{}, 0, len(nodes))
	for _, node := range nodes {
		if r := node.Visit(visitor, context); r != nil {
			result = append(result, r)
		}
	}
	return result
}
