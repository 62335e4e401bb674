package ml_parser

import (
	"fmt"
	"strings"

	"ngthis/packages/compiler/src/core"
	"ngthis/packages/compiler/src/util"
)

// LeadingTriviaChars are trimmed from the start of text and attribute value spans
var LeadingTriviaChars = core.LeadingTrivia

// ParseTreeResult represents the result of parsing a tree
type ParseTreeResult struct {
	RootNodes []Node
	Errors    []*util.ParseError
}

// Parser parses HTML source into an AST
type Parser struct {
	GetTagDefinition func(tagName string) *TagDefinition
}

// NewParser creates a new Parser
func NewParser(getTagDefinition func(tagName string) *TagDefinition) *Parser {
	return &Parser{GetTagDefinition: getTagDefinition}
}

// NewHtmlParser creates a Parser for HTML tags
func NewHtmlParser() *Parser {
	return NewParser(GetHtmlTagDefinition)
}

// Parse parses source and returns the root nodes with tokenizer and tree errors
func (p *Parser) Parse(source, url string, options *TokenizeOptions) *ParseTreeResult {
	tokenizeResult := Tokenize(source, url, p.GetTagDefinition, options)
	treeBuilder := NewTreeBuilder(tokenizeResult.Tokens, p.GetTagDefinition)
	treeBuilder.Build()

	errors := append(tokenizeResult.Errors, treeBuilder.errors...)
	return &ParseTreeResult{RootNodes: treeBuilder.rootNodes, Errors: errors}
}

// TreeBuilder builds a tree from tokens
type TreeBuilder struct {
	index            int
	peek             *Token
	elementStack     []*Element
	rootNodes        []Node
	errors           []*util.ParseError
	tokens           []*Token
	getTagDefinition func(tagName string) *TagDefinition
}

// NewTreeBuilder creates a new TreeBuilder
func NewTreeBuilder(tokens []*Token, getTagDefinition func(tagName string) *TagDefinition) *TreeBuilder {
	tb := &TreeBuilder{index: -1, tokens: tokens, getTagDefinition: getTagDefinition}
	tb.advance()
	return tb
}

// Build consumes every token
func (tb *TreeBuilder) Build() {
	for tb.peek != nil && tb.peek.Type != TokenTypeEOF {
		switch tb.peek.Type {
		case TokenTypeTAG_OPEN_START, TokenTypeINCOMPLETE_TAG_OPEN:
			tb._consumeStartTag(tb.advance())
		case TokenTypeTAG_CLOSE:
			tb._closeVoidElement()
			tb._consumeEndTag(tb.advance())
		case TokenTypeCDATA_START:
			tb._closeVoidElement()
			tb._consumeCdata(tb.advance())
		case TokenTypeCOMMENT_START:
			tb._closeVoidElement()
			tb._consumeComment(tb.advance())
		case TokenTypeTEXT, TokenTypeRAW_TEXT, TokenTypeESCAPABLE_RAW_TEXT:
			tb._closeVoidElement()
			tb._consumeText(tb.advance())
		default:
			// Doctypes and stray tokens carry no template content.
			tb.advance()
		}
	}
}

func (tb *TreeBuilder) advance() *Token {
	prev := tb.peek
	if tb.index < len(tb.tokens)-1 {
		tb.index++
	}
	if tb.index < len(tb.tokens) {
		tb.peek = tb.tokens[tb.index]
	}
	return prev
}

func (tb *TreeBuilder) _advanceIf(tokenType TokenType) *Token {
	if tb.peek != nil && tb.peek.Type == tokenType {
		return tb.advance()
	}
	return nil
}

func (tb *TreeBuilder) _consumeCdata(startToken *Token) {
	if text := tb._advanceIf(TokenTypeRAW_TEXT); text != nil {
		tb._consumeText(text)
	}
	tb._advanceIf(TokenTypeCDATA_END)
}

func (tb *TreeBuilder) _consumeComment(startToken *Token) {
	text := tb._advanceIf(TokenTypeRAW_TEXT)
	endToken := tb._advanceIf(TokenTypeCOMMENT_END)
	value := ""
	if text != nil {
		value = strings.TrimSpace(text.Parts[0])
	}
	end := startToken.SourceSpan.End
	if endToken != nil {
		end = endToken.SourceSpan.End
	} else if text != nil {
		end = text.SourceSpan.End
	}
	span := util.NewParseSourceSpan(startToken.SourceSpan.Start, end, startToken.SourceSpan.FullStart, nil)
	tb._addToParent(NewComment(value, span))
}

func (tb *TreeBuilder) _consumeText(token *Token) {
	text := token.Parts[0]
	if text == "" {
		return
	}
	if siblings := tb._siblings(); len(siblings) > 0 {
		if prev, ok := siblings[len(siblings)-1].(*Text); ok {
			prev.Value += text
			prev.sourceSpan = util.NewParseSourceSpan(prev.sourceSpan.Start, token.SourceSpan.End, prev.sourceSpan.FullStart, nil)
			return
		}
	}
	tb._addToParent(NewText(text, token.SourceSpan))
}

func (tb *TreeBuilder) _closeVoidElement() {
	if el := tb._getParentElement(); el != nil && tb.getTagDefinition(el.Name).IsVoid {
		tb.elementStack = tb.elementStack[:len(tb.elementStack)-1]
	}
}

func (tb *TreeBuilder) _consumeStartTag(startTag *Token) {
	prefix, name := startTag.Parts[0], startTag.Parts[1]
	var attrs []*Attribute
	for tb.peek.Type == TokenTypeATTR_NAME {
		attrs = append(attrs, tb._consumeAttr(tb.advance()))
	}
	fullName := tb._getElementFullName(prefix, name, tb._getParentElement())
	tagDef := tb.getTagDefinition(fullName)

	selfClosing := false
	endSpan := startTag.SourceSpan
	switch tb.peek.Type {
	case TokenTypeTAG_OPEN_END_VOID:
		endSpan = tb.advance().SourceSpan
		selfClosing = true
		if !(canSelfClose(fullName) || tagDef.IsVoid) {
			tb.errors = append(tb.errors, util.NewParseError(startTag.SourceSpan,
				fmt.Sprintf("Only void, custom and foreign elements can be self closed %q", name)))
		}
	case TokenTypeTAG_OPEN_END:
		endSpan = tb.advance().SourceSpan
	default:
		if len(attrs) > 0 {
			endSpan = attrs[len(attrs)-1].SourceSpan()
		}
	}

	span := util.NewParseSourceSpan(startTag.SourceSpan.Start, endSpan.End, startTag.SourceSpan.FullStart, nil)
	el := NewElement(fullName, attrs, nil, span, span, nil)
	el.IsSelfClosing = selfClosing
	tb._pushElement(el)

	if selfClosing {
		tb._popElement(fullName, span)
	} else if startTag.Type == TokenTypeINCOMPLETE_TAG_OPEN {
		tb._popElement(fullName, nil)
		tb.errors = append(tb.errors, util.NewParseError(span, fmt.Sprintf("Opening tag %q not terminated.", fullName)))
	}
}

func canSelfClose(fullName string) bool {
	prefix, name := SplitNsName(fullName)
	return prefix != "" || strings.Contains(name, "-") || strings.HasPrefix(name, "ng-")
}

func (tb *TreeBuilder) _consumeAttr(attrName *Token) *Attribute {
	fullName := MergeNsAndName(attrName.Parts[0], attrName.Parts[1])
	attrEnd := attrName.SourceSpan.End

	if tb.peek.Type == TokenTypeATTR_QUOTE {
		tb.advance()
	}

	value := ""
	var valueSpan *util.ParseSourceSpan
	if valueToken := tb._advanceIf(TokenTypeATTR_VALUE); valueToken != nil {
		value = valueToken.Parts[0]
		valueSpan = valueToken.SourceSpan
		attrEnd = valueToken.SourceSpan.End
	}

	if tb.peek.Type == TokenTypeATTR_QUOTE {
		attrEnd = tb.advance().SourceSpan.End
	}

	span := util.NewParseSourceSpan(attrName.SourceSpan.Start, attrEnd, attrName.SourceSpan.FullStart, nil)
	return NewAttribute(fullName, value, span, attrName.SourceSpan, valueSpan)
}

func (tb *TreeBuilder) _consumeEndTag(endTag *Token) {
	fullName := tb._getElementFullName(endTag.Parts[0], endTag.Parts[1], tb._getParentElement())

	if tb.getTagDefinition(fullName).IsVoid {
		tb.errors = append(tb.errors, util.NewParseError(endTag.SourceSpan,
			fmt.Sprintf("Void elements do not have end tags %q", endTag.Parts[1])))
		return
	}
	if !tb._popElement(fullName, endTag.SourceSpan) {
		tb.errors = append(tb.errors, util.NewParseError(endTag.SourceSpan,
			fmt.Sprintf("Unexpected closing tag %q. It may happen when the tag has already been closed by another tag. For more info see https://www.w3.org/TR/html5/syntax.html#closing-elements-that-have-implied-end-tags", fullName)))
	}
}

func (tb *TreeBuilder) _pushElement(el *Element) {
	if parent := tb._getParentElement(); parent != nil && tb.getTagDefinition(parent.Name).IsClosedByChild(el.Name) {
		tb.elementStack = tb.elementStack[:len(tb.elementStack)-1]
	}
	tb._addToParent(el)
	tb.elementStack = append(tb.elementStack, el)
}

// _popElement closes the innermost open element named fullName. Elements above it
// on the stack are closed implicitly; it reports false if one of them requires an
// explicit end tag.
func (tb *TreeBuilder) _popElement(fullName string, endSourceSpan *util.ParseSourceSpan) bool {
	unexpectedCloseTagDetected := false
	for stackIndex := len(tb.elementStack) - 1; stackIndex >= 0; stackIndex-- {
		el := tb.elementStack[stackIndex]
		if el.Name == fullName {
			el.EndSourceSpan = endSourceSpan
			if endSourceSpan != nil {
				el.sourceSpan = util.NewParseSourceSpan(el.sourceSpan.Start, endSourceSpan.End, el.sourceSpan.FullStart, nil)
			}
			tb.elementStack = tb.elementStack[:stackIndex]
			return !unexpectedCloseTagDetected
		}
		if !tb.getTagDefinition(el.Name).ClosedByParent {
			unexpectedCloseTagDetected = true
		}
	}
	return false
}

func (tb *TreeBuilder) _getParentElement() *Element {
	if len(tb.elementStack) == 0 {
		return nil
	}
	return tb.elementStack[len(tb.elementStack)-1]
}

func (tb *TreeBuilder) _siblings() []Node {
	if parent := tb._getParentElement(); parent != nil {
		return parent.Children
	}
	return tb.rootNodes
}

func (tb *TreeBuilder) _addToParent(node Node) {
	if parent := tb._getParentElement(); parent != nil {
		parent.Children = append(parent.Children, node)
		return
	}
	tb.rootNodes = append(tb.rootNodes, node)
}

func (tb *TreeBuilder) _getElementFullName(prefix, localName string, parent *Element) string {
	if prefix == "" {
		prefix = tb.getTagDefinition(localName).ImplicitNamespacePrefix
		if prefix == "" && parent != nil {
			prefix, _ = SplitNsName(parent.Name)
		}
	}
	return MergeNsAndName(prefix, localName)
}
