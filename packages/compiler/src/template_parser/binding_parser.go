package template_parser

import (
	"strings"

	"ngthis/packages/compiler/src/expression_parser"
	"ngthis/packages/compiler/src/util"
)

const PROPERTY_PARTS_SEPARATOR = "."
const ATTRIBUTE_PREFIX = "attr"
const CLASS_PREFIX = "class"
const STYLE_PREFIX = "style"
const TEMPLATE_ATTR_PREFIX = "*"
const ANIMATE_PROP_PREFIX = "animate-"

// ParsedPropertyType distinguishes literal attributes from bound properties
type ParsedPropertyType int

const (
	ParsedPropertyTypeDefault ParsedPropertyType = iota
	ParsedPropertyTypeLiteralAttr
	ParsedPropertyTypeAnimation
)

// ParsedProperty is a property binding before it is attached to an element
type ParsedProperty struct {
	Name         string
	Expression   *expression_parser.ASTWithSource
	LiteralValue string
	Type         ParsedPropertyType
	SourceSpan   *util.ParseSourceSpan
	KeySpan      *util.ParseSourceSpan
	ValueSpan    *util.ParseSourceSpan
}

// IsLiteral reports whether the property is a plain attribute
func (p *ParsedProperty) IsLiteral() bool {
	return p.Type == ParsedPropertyTypeLiteralAttr
}

// ParsedEventType represents the kind of an event binding
type ParsedEventType int

const (
	ParsedEventTypeRegular ParsedEventType = iota
	ParsedEventTypeAnimation
	ParsedEventTypeTwoWay
)

// ParsedEvent is an event binding before it is attached to an element
type ParsedEvent struct {
	Name          string
	TargetOrPhase string
	Type          ParsedEventType
	Handler       *expression_parser.ASTWithSource
	SourceSpan    *util.ParseSourceSpan
	HandlerSpan   *util.ParseSourceSpan
	KeySpan       *util.ParseSourceSpan
}

// ParsedVariable is a `let` or `as` binding of a structural directive
type ParsedVariable struct {
	Name       string
	Value      string
	SourceSpan *util.ParseSourceSpan
	KeySpan    *util.ParseSourceSpan
	ValueSpan  *util.ParseSourceSpan
}

// BindingType is the kind of a bound element property
type BindingType int

const (
	BindingTypeProperty BindingType = iota
	BindingTypeAttribute
	BindingTypeClass
	BindingTypeStyle
	BindingTypeAnimation
)

// BoundElementProperty is a ParsedProperty resolved against the element
type BoundElementProperty struct {
	Name       string
	Type       BindingType
	Value      *expression_parser.ASTWithSource
	Unit       string
	SourceSpan *util.ParseSourceSpan
	KeySpan    *util.ParseSourceSpan
	ValueSpan  *util.ParseSourceSpan
}

// BindingParser parses bindings in templates
type BindingParser struct {
	exprParser *expression_parser.Parser
	Errors     []*util.ParseError
}

// NewBindingParser creates a new BindingParser
func NewBindingParser(exprParser *expression_parser.Parser) *BindingParser {
	return &BindingParser{exprParser: exprParser}
}

// ParseInlineTemplateBinding parses a `*dir="..."` attribute. Expression bindings land in
// targetProps, `let` and `as` bindings in targetVars.
func (bp *BindingParser) ParseInlineTemplateBinding(
	tplKey string,
	tplValue string,
	sourceSpan *util.ParseSourceSpan,
	absoluteValueOffset int,
	targetProps *[]*ParsedProperty,
	targetVars *[]*ParsedVariable,
) {
	absoluteKeyOffset := sourceSpan.Start.Offset + len(TEMPLATE_ATTR_PREFIX)
	result := bp.exprParser.ParseTemplateBindings(tplKey, tplValue, sourceSpan, absoluteKeyOffset, absoluteValueOffset)
	bp.Errors = append(bp.Errors, result.Errors...)

	for _, binding := range result.TemplateBindings {
		// sourceSpan covers the whole attribute; bindingSpan only this binding.
		bindingSpan := moveParseSourceSpan(sourceSpan, binding.GetSourceSpan())
		key := binding.GetKey().Source
		keySpan := moveParseSourceSpan(sourceSpan, binding.GetKey().Span)

		switch b := binding.(type) {
		case *expression_parser.VariableBinding:
			value := "$implicit"
			var valueSpan *util.ParseSourceSpan
			if b.Value != nil {
				value = b.Value.Source
				valueSpan = moveParseSourceSpan(sourceSpan, b.Value.Span)
			}
			*targetVars = append(*targetVars, &ParsedVariable{
				Name: key, Value: value, SourceSpan: bindingSpan, KeySpan: keySpan, ValueSpan: valueSpan,
			})
		case *expression_parser.ExpressionBinding:
			if b.Value != nil {
				valueSpan := moveParseSourceSpan(sourceSpan, b.Value.SourceSpan())
				bp.parsePropertyAst(key, b.Value, bindingSpan, keySpan, valueSpan, targetProps)
			} else {
				bp.ParseLiteralAttr(key, "", keySpan, nil, targetProps, keySpan)
			}
		}
	}
}

// ParseLiteralAttr records a plain attribute
func (bp *BindingParser) ParseLiteralAttr(
	name string,
	value string,
	sourceSpan *util.ParseSourceSpan,
	valueSpan *util.ParseSourceSpan,
	targetProps *[]*ParsedProperty,
	keySpan *util.ParseSourceSpan,
) {
	*targetProps = append(*targetProps, &ParsedProperty{
		Name:         name,
		LiteralValue: value,
		Type:         ParsedPropertyTypeLiteralAttr,
		SourceSpan:   sourceSpan,
		KeySpan:      keySpan,
		ValueSpan:    valueSpan,
	})
}

// ParsePropertyBinding parses `[name]="expression"`. absoluteOffset is where expression
// starts in the template.
func (bp *BindingParser) ParsePropertyBinding(
	name string,
	expression string,
	sourceSpan *util.ParseSourceSpan,
	absoluteOffset int,
	valueSpan *util.ParseSourceSpan,
	targetProps *[]*ParsedProperty,
	keySpan *util.ParseSourceSpan,
) {
	if name == "" {
		bp.reportError("Property name is missing in binding", sourceSpan)
	}

	isAnimationProp := false
	if strings.HasPrefix(name, ANIMATE_PROP_PREFIX) {
		isAnimationProp = true
		name = name[len(ANIMATE_PROP_PREFIX):]
	} else if strings.HasPrefix(name, "@") {
		isAnimationProp = true
		name = name[1:]
	}

	span := sourceSpan
	if valueSpan != nil {
		span = valueSpan
	}
	ast := bp.parseBinding(expression, span, absoluteOffset)
	if isAnimationProp {
		*targetProps = append(*targetProps, &ParsedProperty{
			Name: name, Expression: ast, Type: ParsedPropertyTypeAnimation,
			SourceSpan: sourceSpan, KeySpan: keySpan, ValueSpan: valueSpan,
		})
		return
	}
	bp.parsePropertyAst(name, ast, sourceSpan, keySpan, valueSpan, targetProps)
}

// ParsePropertyInterpolation binds an attribute whose value contains `{{ }}`. It reports
// whether the value had anything to interpolate.
func (bp *BindingParser) ParsePropertyInterpolation(
	name string,
	value string,
	sourceSpan *util.ParseSourceSpan,
	valueSpan *util.ParseSourceSpan,
	targetProps *[]*ParsedProperty,
	keySpan *util.ParseSourceSpan,
) bool {
	span := sourceSpan
	if valueSpan != nil {
		span = valueSpan
	}
	expr := bp.ParseInterpolation(value, span)
	if expr == nil {
		return false
	}
	bp.parsePropertyAst(name, expr, sourceSpan, keySpan, valueSpan, targetProps)
	return true
}

// ParseInterpolation parses text with `{{ }}`. The absolute offset is the untrimmed start
// of sourceSpan, so expression spans line up with the template text.
func (bp *BindingParser) ParseInterpolation(value string, sourceSpan *util.ParseSourceSpan) *expression_parser.ASTWithSource {
	ast := bp.exprParser.ParseInterpolation(value, sourceSpan, sourceSpan.FullStart.Offset)
	if ast != nil {
		bp.Errors = append(bp.Errors, ast.Errors...)
	}
	return ast
}

func (bp *BindingParser) parsePropertyAst(
	name string,
	ast *expression_parser.ASTWithSource,
	sourceSpan *util.ParseSourceSpan,
	keySpan *util.ParseSourceSpan,
	valueSpan *util.ParseSourceSpan,
	targetProps *[]*ParsedProperty,
) {
	*targetProps = append(*targetProps, &ParsedProperty{
		Name: name, Expression: ast, Type: ParsedPropertyTypeDefault,
		SourceSpan: sourceSpan, KeySpan: keySpan, ValueSpan: valueSpan,
	})
}

func (bp *BindingParser) parseBinding(value string, sourceSpan *util.ParseSourceSpan, absoluteOffset int) *expression_parser.ASTWithSource {
	ast := bp.exprParser.ParseBinding(value, sourceSpan, absoluteOffset)
	bp.Errors = append(bp.Errors, ast.Errors...)
	return ast
}

// CreateBoundElementProperty resolves `attr.`, `class.` and `style.` prefixes of a bound property
func (bp *BindingParser) CreateBoundElementProperty(prop *ParsedProperty) *BoundElementProperty {
	bound := &BoundElementProperty{
		Name:       prop.Name,
		Type:       BindingTypeProperty,
		Value:      prop.Expression,
		SourceSpan: prop.SourceSpan,
		KeySpan:    prop.KeySpan,
		ValueSpan:  prop.ValueSpan,
	}
	if prop.Type == ParsedPropertyTypeAnimation {
		bound.Type = BindingTypeAnimation
		return bound
	}

	parts := strings.Split(prop.Name, PROPERTY_PARTS_SEPARATOR)
	if len(parts) < 2 {
		return bound
	}
	switch parts[0] {
	case ATTRIBUTE_PREFIX:
		bound.Name = strings.Join(parts[1:], PROPERTY_PARTS_SEPARATOR)
		bound.Type = BindingTypeAttribute
	case CLASS_PREFIX:
		bound.Name = parts[1]
		bound.Type = BindingTypeClass
	case STYLE_PREFIX:
		bound.Name = parts[1]
		bound.Type = BindingTypeStyle
		if len(parts) > 2 {
			bound.Unit = parts[2]
		}
	}
	return bound
}

// ParseEvent parses `(name)="expression"`
func (bp *BindingParser) ParseEvent(
	name string,
	expression string,
	eventType ParsedEventType,
	sourceSpan *util.ParseSourceSpan,
	handlerSpan *util.ParseSourceSpan,
	targetEvents *[]*ParsedEvent,
	keySpan *util.ParseSourceSpan,
) {
	if name == "" {
		bp.reportError("Event name is missing in binding", sourceSpan)
	}

	targetOrPhase := ""
	if strings.HasPrefix(name, "@") {
		eventType = ParsedEventTypeAnimation
		name = name[1:]
		if dot := strings.Index(name, "."); dot >= 0 {
			name, targetOrPhase = name[:dot], strings.ToLower(name[dot+1:])
		}
	} else if colon := strings.Index(name, ":"); colon >= 0 {
		targetOrPhase, name = strings.TrimSpace(name[:colon]), strings.TrimSpace(name[colon+1:])
	}

	*targetEvents = append(*targetEvents, &ParsedEvent{
		Name:          name,
		TargetOrPhase: targetOrPhase,
		Type:          eventType,
		Handler:       bp.parseAction(expression, handlerSpan),
		SourceSpan:    sourceSpan,
		HandlerSpan:   handlerSpan,
		KeySpan:       keySpan,
	})
}

// parseAction parses an event handler. Its absolute offset is the trimmed start of the
// handler span.
func (bp *BindingParser) parseAction(value string, sourceSpan *util.ParseSourceSpan) *expression_parser.ASTWithSource {
	absoluteOffset := 0
	if sourceSpan != nil && sourceSpan.Start != nil {
		absoluteOffset = sourceSpan.Start.Offset
	}

	ast := bp.exprParser.ParseAction(value, sourceSpan, absoluteOffset)
	bp.Errors = append(bp.Errors, ast.Errors...)
	if _, empty := ast.AST.(*expression_parser.EmptyExpr); empty {
		bp.reportError("Empty expressions are not allowed", sourceSpan)
	}
	return ast
}

func (bp *BindingParser) reportError(message string, sourceSpan *util.ParseSourceSpan) {
	bp.Errors = append(bp.Errors, util.NewParseError(sourceSpan, message))
}

// moveParseSourceSpan narrows sourceSpan to the absolute range of a sub-expression
func moveParseSourceSpan(sourceSpan *util.ParseSourceSpan, absoluteSpan *expression_parser.AbsoluteSourceSpan) *util.ParseSourceSpan {
	startDiff := absoluteSpan.Start - sourceSpan.Start.Offset
	endDiff := absoluteSpan.End - sourceSpan.End.Offset
	return util.NewParseSourceSpan(
		sourceSpan.Start.MoveBy(startDiff),
		sourceSpan.End.MoveBy(endDiff),
		sourceSpan.Start.MoveBy(startDiff),
		sourceSpan.Details,
	)
}
