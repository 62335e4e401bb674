package expression_parser

import (
	"ngthis/packages/compiler/src/util"
)

// ParseSpan represents a span within an expression, relative to the start of the parsed input
type ParseSpan struct {
	Start int
	End   int
}

// NewParseSpan creates a new ParseSpan
func NewParseSpan(start, end int) *ParseSpan {
	return &ParseSpan{Start: start, End: end}
}

// ToAbsolute converts a ParseSpan to an AbsoluteSourceSpan
func (ps *ParseSpan) ToAbsolute(absoluteOffset int) *AbsoluteSourceSpan {
	return NewAbsoluteSourceSpan(absoluteOffset+ps.Start, absoluteOffset+ps.End)
}

// AbsoluteSourceSpan records the absolute position of a text span in a source file
type AbsoluteSourceSpan struct {
	Start int
	End   int
}

// NewAbsoluteSourceSpan creates a new AbsoluteSourceSpan
func NewAbsoluteSourceSpan(start, end int) *AbsoluteSourceSpan {
	return &AbsoluteSourceSpan{Start: start, End: end}
}

// AST is the base interface for all AST nodes
type AST interface {
	Span() *ParseSpan
	SourceSpan() *AbsoluteSourceSpan
	Visit(visitor AstVisitor, context interface{}) interface{}
}

// AstVisitor is implemented by expression tree walkers
type AstVisitor interface {
	VisitUnary(ast *Unary, context interface{}) interface{}
	VisitBinary(ast *Binary, context interface{}) interface{}
	VisitChain(ast *Chain, context interface{}) interface{}
	VisitConditional(ast *Conditional, context interface{}) interface{}
	VisitThisReceiver(ast *ThisReceiver, context interface{}) interface{}
	VisitImplicitReceiver(ast *ImplicitReceiver, context interface{}) interface{}
	VisitInterpolation(ast *Interpolation, context interface{}) interface{}
	VisitKeyedRead(ast *KeyedRead, context interface{}) interface{}
	VisitKeyedWrite(ast *KeyedWrite, context interface{}) interface{}
	VisitLiteralArray(ast *LiteralArray, context interface{}) interface{}
	VisitLiteralMap(ast *LiteralMap, context interface{}) interface{}
	VisitLiteralPrimitive(ast *LiteralPrimitive, context interface{}) interface{}
	VisitPipe(ast *BindingPipe, context interface{}) interface{}
	VisitPrefixNot(ast *PrefixNot, context interface{}) interface{}
	VisitTypeofExpression(ast *TypeofExpression, context interface{}) interface{}
	VisitNonNullAssert(ast *NonNullAssert, context interface{}) interface{}
	VisitPropertyRead(ast *PropertyRead, context interface{}) interface{}
	VisitPropertyWrite(ast *PropertyWrite, context interface{}) interface{}
	VisitSafePropertyRead(ast *SafePropertyRead, context interface{}) interface{}
	VisitSafeKeyedRead(ast *SafeKeyedRead, context interface{}) interface{}
	VisitCall(ast *Call, context interface{}) interface{}
	VisitSafeCall(ast *SafeCall, context interface{}) interface{}
	VisitParenthesizedExpression(ast *ParenthesizedExpression, context interface{}) interface{}
	VisitEmptyExpr(ast *EmptyExpr, context interface{}) interface{}
	VisitASTWithSource(ast *ASTWithSource, context interface{}) interface{}
}

// astNode carries the two spans every node has
type astNode struct {
	span       *ParseSpan
	sourceSpan *AbsoluteSourceSpan
}

// Span returns the parse span
func (a *astNode) Span() *ParseSpan {
	return a.span
}

// SourceSpan returns the absolute source span
func (a *astNode) SourceSpan() *AbsoluteSourceSpan {
	return a.sourceSpan
}

// EmptyExpr represents an empty expression
type EmptyExpr struct {
	astNode
}

// NewEmptyExpr creates a new EmptyExpr
func NewEmptyExpr(span *ParseSpan, sourceSpan *AbsoluteSourceSpan) *EmptyExpr {
	return &EmptyExpr{astNode{span, sourceSpan}}
}

// Visit implements the AST interface
func (e *EmptyExpr) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitEmptyExpr(e, context)
}

// ImplicitReceiver is the receiver of a bare identifier such as `foo`
type ImplicitReceiver struct {
	astNode
}

// NewImplicitReceiver creates a new ImplicitReceiver
func NewImplicitReceiver(span *ParseSpan, sourceSpan *AbsoluteSourceSpan) *ImplicitReceiver {
	return &ImplicitReceiver{astNode{span, sourceSpan}}
}

// Visit implements the AST interface
func (i *ImplicitReceiver) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitImplicitReceiver(i, context)
}

// ThisReceiver is the receiver when something is accessed through `this`.
// It is a type of its own, not a flavour of ImplicitReceiver.
type ThisReceiver struct {
	astNode
}

// NewThisReceiver creates a new ThisReceiver
func NewThisReceiver(span *ParseSpan, sourceSpan *AbsoluteSourceSpan) *ThisReceiver {
	return &ThisReceiver{astNode{span, sourceSpan}}
}

// Visit implements the AST interface
func (t *ThisReceiver) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitThisReceiver(t, context)
}

// ReceiverKind tells how a property access is anchored
type ReceiverKind int

const (
	// ReceiverOther is any receiver other than the component, e.g. `a` in `a.b`
	ReceiverOther ReceiverKind = iota
	// ReceiverImplicit is a bare identifier
	ReceiverImplicit
	// ReceiverThis is an explicit `this.` prefix
	ReceiverThis
)

// String returns the name of the kind
func (k ReceiverKind) String() string {
	switch k {
	case ReceiverImplicit:
		return "implicit"
	case ReceiverThis:
		return "this"
	default:
		return "other"
	}
}

// KindOfReceiver classifies receiver
func KindOfReceiver(receiver AST) ReceiverKind {
	switch receiver.(type) {
	case *ImplicitReceiver:
		return ReceiverImplicit
	case *ThisReceiver:
		return ReceiverThis
	default:
		return ReceiverOther
	}
}

// Chain represents multiple expressions separated by a semicolon
type Chain struct {
	astNode
	Expressions []AST
}

// NewChain creates a new Chain
func NewChain(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expressions []AST) *Chain {
	return &Chain{astNode: astNode{span, sourceSpan}, Expressions: expressions}
}

// Visit implements the AST interface
func (c *Chain) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitChain(c, context)
}

// Conditional represents a conditional expression (ternary operator)
type Conditional struct {
	astNode
	Condition AST
	TrueExp   AST
	FalseExp  AST
}

// NewConditional creates a new Conditional
func NewConditional(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, condition, trueExp, falseExp AST) *Conditional {
	return &Conditional{
		astNode:   astNode{span, sourceSpan},
		Condition: condition,
		TrueExp:   trueExp,
		FalseExp:  falseExp,
	}
}

// Visit implements the AST interface
func (c *Conditional) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitConditional(c, context)
}

// PropertyRead represents a property read operation
type PropertyRead struct {
	astNode
	NameSpan *AbsoluteSourceSpan
	Receiver AST
	Name     string
}

// NewPropertyRead creates a new PropertyRead
func NewPropertyRead(span *ParseSpan, sourceSpan, nameSpan *AbsoluteSourceSpan, receiver AST, name string) *PropertyRead {
	return &PropertyRead{
		astNode:  astNode{span, sourceSpan},
		NameSpan: nameSpan,
		Receiver: receiver,
		Name:     name,
	}
}

// Visit implements the AST interface
func (p *PropertyRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPropertyRead(p, context)
}

// ReceiverKind classifies the receiver of the read
func (p *PropertyRead) ReceiverKind() ReceiverKind {
	return KindOfReceiver(p.Receiver)
}

// PropertyWrite represents `receiver.name = value` in an action
type PropertyWrite struct {
	astNode
	NameSpan *AbsoluteSourceSpan
	Receiver AST
	Name     string
	Value    AST
}

// NewPropertyWrite creates a new PropertyWrite
func NewPropertyWrite(span *ParseSpan, sourceSpan, nameSpan *AbsoluteSourceSpan, receiver AST, name string, value AST) *PropertyWrite {
	return &PropertyWrite{
		astNode:  astNode{span, sourceSpan},
		NameSpan: nameSpan,
		Receiver: receiver,
		Name:     name,
		Value:    value,
	}
}

// Visit implements the AST interface
func (p *PropertyWrite) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPropertyWrite(p, context)
}

// SafePropertyRead represents `receiver?.name`
type SafePropertyRead struct {
	astNode
	NameSpan *AbsoluteSourceSpan
	Receiver AST
	Name     string
}

// NewSafePropertyRead creates a new SafePropertyRead
func NewSafePropertyRead(span *ParseSpan, sourceSpan, nameSpan *AbsoluteSourceSpan, receiver AST, name string) *SafePropertyRead {
	return &SafePropertyRead{
		astNode:  astNode{span, sourceSpan},
		NameSpan: nameSpan,
		Receiver: receiver,
		Name:     name,
	}
}

// Visit implements the AST interface
func (s *SafePropertyRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitSafePropertyRead(s, context)
}

// KeyedRead represents `receiver[key]`
type KeyedRead struct {
	astNode
	Receiver AST
	Key      AST
}

// NewKeyedRead creates a new KeyedRead
func NewKeyedRead(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver, key AST) *KeyedRead {
	return &KeyedRead{astNode: astNode{span, sourceSpan}, Receiver: receiver, Key: key}
}

// Visit implements the AST interface
func (k *KeyedRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitKeyedRead(k, context)
}

// SafeKeyedRead represents `receiver?.[key]`
type SafeKeyedRead struct {
	astNode
	Receiver AST
	Key      AST
}

// NewSafeKeyedRead creates a new SafeKeyedRead
func NewSafeKeyedRead(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver, key AST) *SafeKeyedRead {
	return &SafeKeyedRead{astNode: astNode{span, sourceSpan}, Receiver: receiver, Key: key}
}

// Visit implements the AST interface
func (s *SafeKeyedRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitSafeKeyedRead(s, context)
}

// KeyedWrite represents `receiver[key] = value`
type KeyedWrite struct {
	astNode
	Receiver AST
	Key      AST
	Value    AST
}

// NewKeyedWrite creates a new KeyedWrite
func NewKeyedWrite(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver, key, value AST) *KeyedWrite {
	return &KeyedWrite{astNode: astNode{span, sourceSpan}, Receiver: receiver, Key: key, Value: value}
}

// Visit implements the AST interface
func (k *KeyedWrite) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitKeyedWrite(k, context)
}

// BindingPipe represents `exp | name:arg1:arg2`
type BindingPipe struct {
	astNode
	Exp      AST
	Name     string
	Args     []AST
	NameSpan *AbsoluteSourceSpan
}

// NewBindingPipe creates a new BindingPipe
func NewBindingPipe(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, exp AST, name string, args []AST, nameSpan *AbsoluteSourceSpan) *BindingPipe {
	return &BindingPipe{
		astNode:  astNode{span, sourceSpan},
		Exp:      exp,
		Name:     name,
		Args:     args,
		NameSpan: nameSpan,
	}
}

// Visit implements the AST interface
func (b *BindingPipe) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPipe(b, context)
}

type undefinedValue struct{}

// Undefined is the value of the `undefined` literal. `null` is nil.
var Undefined = undefinedValue{}

// LiteralPrimitive is a number, string, boolean, null or undefined literal
type LiteralPrimitive struct {
	astNode
	Value interface{}
}

// NewLiteralPrimitive creates a new LiteralPrimitive
func NewLiteralPrimitive(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, value interface{}) *LiteralPrimitive {
	return &LiteralPrimitive{astNode: astNode{span, sourceSpan}, Value: value}
}

// Visit implements the AST interface
func (l *LiteralPrimitive) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralPrimitive(l, context)
}

// LiteralArray represents `[a, b]`
type LiteralArray struct {
	astNode
	Expressions []AST
}

// NewLiteralArray creates a new LiteralArray
func NewLiteralArray(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expressions []AST) *LiteralArray {
	return &LiteralArray{astNode: astNode{span, sourceSpan}, Expressions: expressions}
}

// Visit implements the AST interface
func (l *LiteralArray) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralArray(l, context)
}

// LiteralMapKey is one key of an object literal
type LiteralMapKey struct {
	Key                    string
	Quoted                 bool
	IsShorthandInitialized bool
}

// LiteralMap represents `{a: b}`
type LiteralMap struct {
	astNode
	Keys   []LiteralMapKey
	Values []AST
}

// NewLiteralMap creates a new LiteralMap
func NewLiteralMap(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, keys []LiteralMapKey, values []AST) *LiteralMap {
	return &LiteralMap{astNode: astNode{span, sourceSpan}, Keys: keys, Values: values}
}

// Visit implements the AST interface
func (l *LiteralMap) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralMap(l, context)
}

// Interpolation holds the text pieces and the expressions of `a {{b}} c`.
// len(Strings) is always len(Expressions)+1.
type Interpolation struct {
	astNode
	Strings     []string
	Expressions []AST
}

// NewInterpolation creates a new Interpolation
func NewInterpolation(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, strings []string, expressions []AST) *Interpolation {
	return &Interpolation{astNode: astNode{span, sourceSpan}, Strings: strings, Expressions: expressions}
}

// Visit implements the AST interface
func (i *Interpolation) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitInterpolation(i, context)
}

// Binary represents a binary operation
type Binary struct {
	astNode
	Operation string
	Left      AST
	Right     AST
}

// NewBinary creates a new Binary
func NewBinary(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, operation string, left, right AST) *Binary {
	return &Binary{astNode: astNode{span, sourceSpan}, Operation: operation, Left: left, Right: right}
}

// Visit implements the AST interface
func (b *Binary) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitBinary(b, context)
}

// Unary represents `-x` or `+x`
type Unary struct {
	astNode
	Operator string
	Expr     AST
}

// NewUnary creates a new Unary
func NewUnary(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, operator string, expr AST) *Unary {
	return &Unary{astNode: astNode{span, sourceSpan}, Operator: operator, Expr: expr}
}

// Visit implements the AST interface
func (u *Unary) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitUnary(u, context)
}

// PrefixNot represents `!x`
type PrefixNot struct {
	astNode
	Expression AST
}

// NewPrefixNot creates a new PrefixNot
func NewPrefixNot(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expression AST) *PrefixNot {
	return &PrefixNot{astNode: astNode{span, sourceSpan}, Expression: expression}
}

// Visit implements the AST interface
func (p *PrefixNot) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPrefixNot(p, context)
}

// TypeofExpression represents `typeof x`
type TypeofExpression struct {
	astNode
	Expression AST
}

// NewTypeofExpression creates a new TypeofExpression
func NewTypeofExpression(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expression AST) *TypeofExpression {
	return &TypeofExpression{astNode: astNode{span, sourceSpan}, Expression: expression}
}

// Visit implements the AST interface
func (t *TypeofExpression) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitTypeofExpression(t, context)
}

// NonNullAssert represents `x!`
type NonNullAssert struct {
	astNode
	Expression AST
}

// NewNonNullAssert creates a new NonNullAssert
func NewNonNullAssert(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expression AST) *NonNullAssert {
	return &NonNullAssert{astNode: astNode{span, sourceSpan}, Expression: expression}
}

// Visit implements the AST interface
func (n *NonNullAssert) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitNonNullAssert(n, context)
}

// Call represents `receiver(args)`
type Call struct {
	astNode
	Receiver     AST
	Args         []AST
	ArgumentSpan *AbsoluteSourceSpan
}

// NewCall creates a new Call
func NewCall(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver AST, args []AST, argumentSpan *AbsoluteSourceSpan) *Call {
	return &Call{astNode: astNode{span, sourceSpan}, Receiver: receiver, Args: args, ArgumentSpan: argumentSpan}
}

// Visit implements the AST interface
func (c *Call) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitCall(c, context)
}

// SafeCall represents `receiver?.(args)`
type SafeCall struct {
	astNode
	Receiver     AST
	Args         []AST
	ArgumentSpan *AbsoluteSourceSpan
}

// NewSafeCall creates a new SafeCall
func NewSafeCall(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver AST, args []AST, argumentSpan *AbsoluteSourceSpan) *SafeCall {
	return &SafeCall{astNode: astNode{span, sourceSpan}, Receiver: receiver, Args: args, ArgumentSpan: argumentSpan}
}

// Visit implements the AST interface
func (s *SafeCall) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitSafeCall(s, context)
}

// ParenthesizedExpression represents `(x)`
type ParenthesizedExpression struct {
	astNode
	Expression AST
}

// NewParenthesizedExpression creates a new ParenthesizedExpression
func NewParenthesizedExpression(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expression AST) *ParenthesizedExpression {
	return &ParenthesizedExpression{astNode: astNode{span, sourceSpan}, Expression: expression}
}

// Visit implements the AST interface
func (p *ParenthesizedExpression) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitParenthesizedExpression(p, context)
}

// ASTWithSource wraps a parsed expression together with the text it was parsed from.
// Spans inside AST are relative to the parser input; AbsoluteOffset is where that input
// was taken to begin in the template.
type ASTWithSource struct {
	astNode
	AST            AST
	Source         string
	Location       string
	AbsoluteOffset int
	Errors         []*util.ParseError
}

// NewASTWithSource creates a new ASTWithSource
func NewASTWithSource(ast AST, source string, location string, absoluteOffset int, errors []*util.ParseError) *ASTWithSource {
	return &ASTWithSource{
		astNode: astNode{
			span:       NewParseSpan(0, len(source)),
			sourceSpan: NewAbsoluteSourceSpan(absoluteOffset, absoluteOffset+len(source)),
		},
		AST:            ast,
		Source:         source,
		Location:       location,
		AbsoluteOffset: absoluteOffset,
		Errors:         errors,
	}
}

// Visit implements the AST interface
func (a *ASTWithSource) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitASTWithSource(a, context)
}

// String returns the source text
func (a *ASTWithSource) String() string {
	return a.Source + " in " + a.Location
}

// ChildNodes returns the direct sub-expressions of ast in source order
func ChildNodes(ast AST) []AST {
	switch n := ast.(type) {
	case *ASTWithSource:
		return []AST{n.AST}
	case *PropertyRead:
		return []AST{n.Receiver}
	case *SafePropertyRead:
		return []AST{n.Receiver}
	case *PropertyWrite:
		return []AST{n.Receiver, n.Value}
	case *KeyedRead:
		return []AST{n.Receiver, n.Key}
	case *SafeKeyedRead:
		return []AST{n.Receiver, n.Key}
	case *KeyedWrite:
		return []AST{n.Receiver, n.Key, n.Value}
	case *Call:
		return append([]AST{n.Receiver}, n.Args...)
	case *SafeCall:
		return append([]AST{n.Receiver}, n.Args...)
	case *BindingPipe:
		return append([]AST{n.Exp}, n.Args...)
	case *Binary:
		return []AST{n.Left, n.Right}
	case *Unary:
		return []AST{n.Expr}
	case *PrefixNot:
		return []AST{n.Expression}
	case *TypeofExpression:
		return []AST{n.Expression}
	case *NonNullAssert:
		return []AST{n.Expression}
	case *ParenthesizedExpression:
		return []AST{n.Expression}
	case *Conditional:
		return []AST{n.Condition, n.TrueExp, n.FalseExp}
	case *Chain:
		return n.Expressions
	case *Interpolation:
		return n.Expressions
	case *LiteralArray:
		return n.Expressions
	case *LiteralMap:
		return n.Values
	}
	return nil
}

// TemplateBinding is one binding of a structural directive's microsyntax
type TemplateBinding interface {
	GetSourceSpan() *AbsoluteSourceSpan
	GetKey() *TemplateBindingIdentifier
}

// TemplateBindingIdentifier is a key or a variable name in microsyntax
type TemplateBindingIdentifier struct {
	Source string
	Span   *AbsoluteSourceSpan
}

// VariableBinding is `let x = y` or `y as x`; Key is x, Value is y (nil for `let x`)
type VariableBinding struct {
	SourceSpan *AbsoluteSourceSpan
	Key        *TemplateBindingIdentifier
	Value      *TemplateBindingIdentifier
}

// NewVariableBinding creates a new VariableBinding
func NewVariableBinding(sourceSpan *AbsoluteSourceSpan, key, value *TemplateBindingIdentifier) *VariableBinding {
	return &VariableBinding{SourceSpan: sourceSpan, Key: key, Value: value}
}

// GetSourceSpan returns the source span
func (v *VariableBinding) GetSourceSpan() *AbsoluteSourceSpan { return v.SourceSpan }

// GetKey returns the key
func (v *VariableBinding) GetKey() *TemplateBindingIdentifier { return v.Key }

// ExpressionBinding is `key: expr` or the leading `ngIf="expr"`; Value is nil for a bare key
type ExpressionBinding struct {
	SourceSpan *AbsoluteSourceSpan
	Key        *TemplateBindingIdentifier
	Value      *ASTWithSource
}

// NewExpressionBinding creates a new ExpressionBinding
func NewExpressionBinding(sourceSpan *AbsoluteSourceSpan, key *TemplateBindingIdentifier, value *ASTWithSource) *ExpressionBinding {
	return &ExpressionBinding{SourceSpan: sourceSpan, Key: key, Value: value}
}

// GetSourceSpan returns the source span
func (e *ExpressionBinding) GetSourceSpan() *AbsoluteSourceSpan { return e.SourceSpan }

// GetKey returns the key
func (e *ExpressionBinding) GetKey() *TemplateBindingIdentifier { return e.Key }
