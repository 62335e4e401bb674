package expression_parser

import (
	"fmt"
	"strings"

	"ngthis/packages/compiler/src/core"
	"ngthis/packages/compiler/src/util"
)

const (
	interpolationStart = "{{"
	interpolationEnd   = "}}"
)

// InterpolationPiece represents a piece of interpolation
type InterpolationPiece struct {
	Text  string
	Start int
	End   int
}

// SplitInterpolation represents a split interpolation result
type SplitInterpolation struct {
	Strings     []InterpolationPiece
	Expressions []InterpolationPiece
	// Offsets holds, per expression, the index of its first character in the input
	Offsets []int
}

// TemplateBindingParseResult represents the result of parsing template bindings
type TemplateBindingParseResult struct {
	TemplateBindings []TemplateBinding
	Errors           []*util.ParseError
}

// ParseFlags represents the possible parse modes to be used as a bitmask
type ParseFlags int

const (
	ParseFlagsNone ParseFlags = 0
	// ParseFlagsAction indicates whether an output binding is being parsed
	ParseFlagsAction ParseFlags = 1 << 0
)

// getLocation returns the location string from a ParseSourceSpan
func getLocation(span *util.ParseSourceSpan) string {
	if span != nil && span.Start != nil {
		return span.Start.String()
	}
	return "(unknown)"
}

// Parser parses template expressions
type Parser struct {
	lexer *Lexer
}

// NewParser creates a new Parser
func NewParser(lexer *Lexer) *Parser {
	return &Parser{lexer: lexer}
}

// ParseAction parses an event handler. Assignments and `;` chains are allowed.
func (p *Parser) ParseAction(input string, parseSourceSpan *util.ParseSourceSpan, absoluteOffset int) *ASTWithSource {
	errors := []*util.ParseError{}
	p.checkNoInterpolation(&errors, input, parseSourceSpan)
	stripped := p.stripComments(input)
	tokens := p.lexer.Tokenize(stripped)
	ast := newParseAST(input, parseSourceSpan, absoluteOffset, tokens, ParseFlagsAction, &errors, 0).parseChain()
	return NewASTWithSource(ast, input, getLocation(parseSourceSpan), absoluteOffset, errors)
}

// ParseBinding parses a property binding
func (p *Parser) ParseBinding(input string, parseSourceSpan *util.ParseSourceSpan, absoluteOffset int) *ASTWithSource {
	errors := []*util.ParseError{}
	p.checkNoInterpolation(&errors, input, parseSourceSpan)
	stripped := p.stripComments(input)
	tokens := p.lexer.Tokenize(stripped)
	ast := newParseAST(input, parseSourceSpan, absoluteOffset, tokens, ParseFlagsNone, &errors, 0).parseChain()
	return NewASTWithSource(ast, input, getLocation(parseSourceSpan), absoluteOffset, errors)
}

// ParseTemplateBindings parses the microsyntax of a structural directive, e.g. the value of
// `*ngFor="let item of items; index as i"`. The first binding is always the directive key itself.
func (p *Parser) ParseTemplateBindings(
	templateKey string,
	templateValue string,
	parseSourceSpan *util.ParseSourceSpan,
	absoluteKeyOffset int,
	absoluteValueOffset int,
) *TemplateBindingParseResult {
	tokens := p.lexer.Tokenize(templateValue)
	errors := []*util.ParseError{}
	parser := newParseAST(templateValue, parseSourceSpan, absoluteValueOffset, tokens, ParseFlagsNone, &errors, 0)
	return parser.parseTemplateBindings(&TemplateBindingIdentifier{
		Source: templateKey,
		Span:   NewAbsoluteSourceSpan(absoluteKeyOffset, absoluteKeyOffset+len(templateKey)),
	})
}

// ParseInterpolation parses text containing `{{ }}` expressions. It returns nil when
// there is nothing to interpolate.
func (p *Parser) ParseInterpolation(input string, parseSourceSpan *util.ParseSourceSpan, absoluteOffset int) *ASTWithSource {
	errors := []*util.ParseError{}
	split := p.SplitInterpolation(input, parseSourceSpan, &errors)
	if len(split.Expressions) == 0 {
		return nil
	}

	expressionNodes := make([]AST, 0, len(split.Expressions))
	for i, expr := range split.Expressions {
		stripped := p.stripComments(expr.Text)
		tokens := p.lexer.Tokenize(stripped)
		ast := newParseAST(expr.Text, parseSourceSpan, absoluteOffset, tokens, ParseFlagsNone, &errors, split.Offsets[i]).parseChain()
		expressionNodes = append(expressionNodes, ast)
	}

	stringStrs := make([]string, len(split.Strings))
	for i, s := range split.Strings {
		stringStrs[i] = s.Text
	}
	span := NewParseSpan(0, len(input))
	interpolation := NewInterpolation(span, span.ToAbsolute(absoluteOffset), stringStrs, expressionNodes)
	return NewASTWithSource(interpolation, input, getLocation(parseSourceSpan), absoluteOffset, errors)
}

// SplitInterpolation splits input into raw text pieces and `{{ }}` expression pieces.
// There is always one more string than there are expressions. An unterminated `{{`
// is kept as text.
func (p *Parser) SplitInterpolation(input string, parseSourceSpan *util.ParseSourceSpan, errors *[]*util.ParseError) *SplitInterpolation {
	result := &SplitInterpolation{}
	textStart := 0
	for {
		open := strings.Index(input[textStart:], interpolationStart)
		if open == -1 {
			break
		}
		open += textStart
		exprStart := open + len(interpolationStart)
		exprEnd := p.getInterpolationEndIndex(input, exprStart)
		if exprEnd == -1 {
			break
		}
		closeEnd := exprEnd + len(interpolationEnd)

		text := input[exprStart:exprEnd]
		if strings.TrimSpace(text) == "" {
			*errors = append(*errors, getParseError(
				"Blank expressions are not allowed in interpolated strings",
				input,
				fmt.Sprintf("at column %d in", open),
				parseSourceSpan,
			))
		}
		result.Strings = append(result.Strings, InterpolationPiece{Text: input[textStart:open], Start: textStart, End: open})
		result.Expressions = append(result.Expressions, InterpolationPiece{Text: text, Start: open, End: closeEnd})
		result.Offsets = append(result.Offsets, exprStart)
		textStart = closeEnd
	}
	result.Strings = append(result.Strings, InterpolationPiece{Text: input[textStart:], Start: textStart, End: len(input)})
	return result
}

func (p *Parser) checkNoInterpolation(errors *[]*util.ParseError, input string, parseSourceSpan *util.ParseSourceSpan) {
	start := strings.Index(input, interpolationStart)
	if start == -1 {
		return
	}
	if strings.Index(input[start+len(interpolationStart):], interpolationEnd) == -1 {
		return
	}
	*errors = append(*errors, getParseError(
		"Got interpolation ({{}}) where expression was expected",
		input,
		fmt.Sprintf("at column %d in", start),
		parseSourceSpan,
	))
}

// stripComments removes a trailing `//` comment that is not inside a string literal
func (p *Parser) stripComments(input string) string {
	if start := p.commentStart(input); start != -1 {
		return input[:start]
	}
	return input
}

func (p *Parser) commentStart(input string) int {
	var outerQuote byte
	for i := 0; i < len(input)-1; i++ {
		char := input[i]
		next := input[i+1]
		if char == core.CharSLASH && next == core.CharSLASH && outerQuote == 0 {
			return i
		}
		if outerQuote == char {
			outerQuote = 0
		} else if outerQuote == 0 && core.IsQuote(char) {
			outerQuote = char
		}
	}
	return -1
}

// getInterpolationEndIndex finds the closing `}}` starting at start, skipping quoted text
func (p *Parser) getInterpolationEndIndex(input string, start int) int {
	var currentQuote byte
	escapeCount := 0
	for i := start; i < len(input); i++ {
		char := input[i]
		if core.IsQuote(char) && (currentQuote == 0 || currentQuote == char) && escapeCount%2 == 0 {
			if currentQuote == 0 {
				currentQuote = char
			} else {
				currentQuote = 0
			}
		} else if currentQuote == 0 && strings.HasPrefix(input[i:], interpolationEnd) {
			return i
		}
		if char == core.CharBACKSLASH {
			escapeCount++
		} else {
			escapeCount = 0
		}
	}
	return -1
}

// parseAST is a recursive descent parser over the tokens of one expression
type parseAST struct {
	input           string
	parseSourceSpan *util.ParseSourceSpan
	absoluteOffset  int
	tokens          []*Token
	parseFlags      ParseFlags
	errors          *[]*util.ParseError
	// offset is the position of input inside the string the spans are relative to
	offset            int
	index             int
	rparensExpected   int
	rbracketsExpected int
	rbracesExpected   int
}

func newParseAST(
	input string,
	parseSourceSpan *util.ParseSourceSpan,
	absoluteOffset int,
	tokens []*Token,
	parseFlags ParseFlags,
	errors *[]*util.ParseError,
	offset int,
) *parseAST {
	return &parseAST{
		input:           input,
		parseSourceSpan: parseSourceSpan,
		absoluteOffset:  absoluteOffset,
		tokens:          tokens,
		parseFlags:      parseFlags,
		errors:          errors,
		offset:          offset,
	}
}

func (p *parseAST) peek(offset int) *Token {
	i := p.index + offset
	if i >= 0 && i < len(p.tokens) {
		return p.tokens[i]
	}
	return EOF
}

func (p *parseAST) next() *Token {
	return p.peek(0)
}

func (p *parseAST) atEOF() bool {
	return p.index >= len(p.tokens)
}

// inputIndex returns the index of the next token to be processed
func (p *parseAST) inputIndex() int {
	if p.atEOF() {
		return p.currentEndIndex()
	}
	return p.next().Index + p.offset
}

// currentEndIndex returns the end index of the last processed token
func (p *parseAST) currentEndIndex() int {
	if p.index > 0 {
		return p.peek(-1).End + p.offset
	}
	if len(p.tokens) == 0 {
		return len(p.input) + p.offset
	}
	return p.next().Index + p.offset
}

func (p *parseAST) currentAbsoluteOffset() int {
	return p.absoluteOffset + p.inputIndex()
}

// span returns a ParseSpan from start to the current position
func (p *parseAST) span(start int, artificialEndIndex ...int) *ParseSpan {
	endIndex := p.currentEndIndex()
	if len(artificialEndIndex) > 0 && artificialEndIndex[0] > endIndex {
		endIndex = artificialEndIndex[0]
	}
	if start > endIndex {
		start, endIndex = endIndex, start
	}
	return NewParseSpan(start, endIndex)
}

func (p *parseAST) sourceSpan(start int, artificialEndIndex ...int) *AbsoluteSourceSpan {
	return p.span(start, artificialEndIndex...).ToAbsolute(p.absoluteOffset)
}

func (p *parseAST) advance() {
	p.index++
}

func (p *parseAST) consumeOptionalCharacter(code byte) bool {
	if p.next().IsCharacter(code) {
		p.advance()
		return true
	}
	return false
}

func (p *parseAST) expectCharacter(code byte) {
	if !p.consumeOptionalCharacter(code) {
		p.error(fmt.Sprintf("Missing expected %c", code))
	}
}

func (p *parseAST) consumeOptionalOperator(op string) bool {
	if p.next().IsOperator(op) {
		p.advance()
		return true
	}
	return false
}

func (p *parseAST) prettyPrintToken(tok *Token) string {
	if tok == EOF {
		return "end of input"
	}
	return fmt.Sprintf("token %s", tok)
}

func (p *parseAST) expectIdentifierOrKeyword() (string, bool) {
	n := p.next()
	if !n.IsIdentifier() && !n.IsKeyword() {
		p.error(fmt.Sprintf("Unexpected %s, expected identifier or keyword", p.prettyPrintToken(n)))
		return "", false
	}
	p.advance()
	return n.String(), true
}

func (p *parseAST) expectIdentifierOrKeywordOrString() string {
	n := p.next()
	if !n.IsIdentifier() && !n.IsKeyword() && !n.IsString() {
		p.error(fmt.Sprintf("Unexpected %s, expected identifier, keyword, or string", p.prettyPrintToken(n)))
		return ""
	}
	p.advance()
	return n.String()
}

func (p *parseAST) parseChain() AST {
	start := p.inputIndex()
	var exprs []AST
	for !p.atEOF() {
		exprs = append(exprs, p.parsePipe())
		if p.consumeOptionalCharacter(core.CharSEMICOLON) {
			if p.parseFlags&ParseFlagsAction == 0 {
				p.error("Binding expression cannot contain chained expression")
			}
			for p.consumeOptionalCharacter(core.CharSEMICOLON) {
			}
			continue
		}
		if p.atEOF() {
			break
		}
		stuck := p.index
		p.error(fmt.Sprintf("Unexpected token '%s'", p.next()))
		if p.index == stuck {
			break
		}
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	if len(exprs) == 0 {
		// An empty input still spans the whole (blank) source.
		end := p.offset + len(p.input)
		return NewEmptyExpr(p.span(p.offset, end), p.sourceSpan(p.offset, end))
	}
	return NewChain(p.span(start), p.sourceSpan(start), exprs)
}

func (p *parseAST) parsePipe() AST {
	start := p.inputIndex()
	result := p.parseExpression()
	for p.consumeOptionalOperator("|") {
		if p.parseFlags&ParseFlagsAction != 0 {
			p.error("Cannot have a pipe in an action expression")
		}
		nameStart := p.inputIndex()
		name, _ := p.expectIdentifierOrKeyword()
		nameSpan := p.sourceSpan(nameStart)
		var args []AST
		for p.consumeOptionalCharacter(core.CharCOLON) {
			args = append(args, p.parseExpression())
		}
		result = NewBindingPipe(p.span(start), p.sourceSpan(start), result, name, args, nameSpan)
	}
	return result
}

func (p *parseAST) parseExpression() AST {
	return p.parseConditional()
}

func (p *parseAST) parseConditional() AST {
	start := p.inputIndex()
	cond := p.parseLogicalOr()
	if !p.consumeOptionalOperator("?") {
		return cond
	}
	whenTrue := p.parsePipe()
	var whenFalse AST
	if p.consumeOptionalCharacter(core.CharCOLON) {
		whenFalse = p.parsePipe()
	} else {
		text := p.input[start-p.offset : p.inputIndex()-p.offset]
		p.error(fmt.Sprintf("Conditional expression %s requires all 3 expressions", text))
		whenFalse = NewEmptyExpr(p.span(start), p.sourceSpan(start))
	}
	return NewConditional(p.span(start), p.sourceSpan(start), cond, whenTrue, whenFalse)
}

// parseBinaryLevel parses a left-associative chain of the given operators
func (p *parseAST) parseBinaryLevel(operators []string, operand func() AST) AST {
	start := p.inputIndex()
	result := operand()
	for p.next().Type == TokenTypeOperator {
		operator := p.next().StrValue
		matched := false
		for _, op := range operators {
			if op == operator {
				matched = true
				break
			}
		}
		if !matched {
			break
		}
		p.advance()
		right := operand()
		result = NewBinary(p.span(start), p.sourceSpan(start), operator, result, right)
	}
	return result
}

func (p *parseAST) parseLogicalOr() AST {
	return p.parseBinaryLevel([]string{"||"}, p.parseLogicalAnd)
}

func (p *parseAST) parseLogicalAnd() AST {
	return p.parseBinaryLevel([]string{"&&"}, p.parseNullishCoalescing)
}

func (p *parseAST) parseNullishCoalescing() AST {
	return p.parseBinaryLevel([]string{"??"}, p.parseEquality)
}

func (p *parseAST) parseEquality() AST {
	return p.parseBinaryLevel([]string{"==", "===", "!=", "!=="}, p.parseRelational)
}

func (p *parseAST) parseRelational() AST {
	return p.parseBinaryLevel([]string{"<", ">", "<=", ">="}, p.parseAdditive)
}

func (p *parseAST) parseAdditive() AST {
	return p.parseBinaryLevel([]string{"+", "-"}, p.parseMultiplicative)
}

func (p *parseAST) parseMultiplicative() AST {
	return p.parseBinaryLevel([]string{"*", "%", "/"}, p.parseExponentiation)
}

func (p *parseAST) parseExponentiation() AST {
	start := p.inputIndex()
	result := p.parsePrefix()
	for p.next().IsOperator("**") {
		switch result.(type) {
		case *Unary, *PrefixNot, *TypeofExpression:
			p.error("Unary operator used immediately before exponentiation expression. Parenthesis must be used to disambiguate operator precedence")
		}
		p.advance()
		right := p.parseExponentiation()
		result = NewBinary(p.span(start), p.sourceSpan(start), "**", result, right)
	}
	return result
}

// parsePrefix parses the unary operators `+`, `-`, `!` and `typeof`, which bind
// tighter than any binary operator.
func (p *parseAST) parsePrefix() AST {
	start := p.inputIndex()
	next := p.next()
	var wrap func(operand AST) AST
	switch {
	case next.IsOperator("+"), next.IsOperator("-"):
		wrap = func(operand AST) AST {
			return NewUnary(p.span(start), p.sourceSpan(start), next.StrValue, operand)
		}
	case next.IsOperator("!"):
		wrap = func(operand AST) AST {
			return NewPrefixNot(p.span(start), p.sourceSpan(start), operand)
		}
	case next.IsKeywordNamed("typeof"):
		wrap = func(operand AST) AST {
			return NewTypeofExpression(p.span(start), p.sourceSpan(start), operand)
		}
	default:
		return p.parseCallChain()
	}
	p.advance()
	return wrap(p.parsePrefix())
}

func (p *parseAST) parseCallChain() AST {
	start := p.inputIndex()
	result := p.parsePrimary()
	for {
		// `?.` may be followed by a name, a call or a key.
		safe := p.consumeOptionalOperator("?.")
		switch {
		case p.consumeOptionalCharacter(core.CharLPAREN):
			result = p.parseCall(result, start, safe)
		case p.consumeOptionalCharacter(core.CharLBRACKET):
			result = p.parseKeyedReadOrWrite(result, start, safe)
		case safe, p.consumeOptionalCharacter(core.CharPERIOD):
			result = p.parseAccessMember(result, start, safe)
		case p.consumeOptionalOperator("!"):
			result = NewNonNullAssert(p.span(start), p.sourceSpan(start), result)
		default:
			return result
		}
	}
}

// Keywords that stand for a literal value
var keywordLiterals = map[string]interface{}{
	"null":      nil,
	"undefined": Undefined,
	"true":      true,
	"false":     false,
}

func (p *parseAST) parsePrimary() AST {
	start := p.inputIndex()
	next := p.next()
	if next.IsKeyword() {
		if value, ok := keywordLiterals[next.StrValue]; ok {
			p.advance()
			return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), value)
		}
		if next.StrValue == "this" {
			p.advance()
			return NewThisReceiver(p.span(start), p.sourceSpan(start))
		}
	}

	switch {
	case next.IsIdentifier():
		return p.parseAccessMember(NewImplicitReceiver(p.span(start), p.sourceSpan(start)), start, false)
	case next.IsNumber():
		p.advance()
		return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), next.NumValue)
	case next.IsString():
		p.advance()
		return NewLiteralPrimitive(p.span(start), p.sourceSpan(start), next.StrValue)
	case next.IsCharacter(core.CharLBRACE):
		return p.parseLiteralMap()
	case p.consumeOptionalCharacter(core.CharLPAREN):
		p.rparensExpected++
		inner := p.parsePipe()
		p.rparensExpected--
		p.expectCharacter(core.CharRPAREN)
		return NewParenthesizedExpression(p.span(start), p.sourceSpan(start), inner)
	case p.consumeOptionalCharacter(core.CharLBRACKET):
		p.rbracketsExpected++
		elements := p.parseExpressionList(core.CharRBRACKET)
		p.rbracketsExpected--
		p.expectCharacter(core.CharRBRACKET)
		return NewLiteralArray(p.span(start), p.sourceSpan(start), elements)
	}

	if p.atEOF() {
		p.error(fmt.Sprintf("Unexpected end of expression: %s", p.input))
	} else {
		p.error(fmt.Sprintf("Unexpected token %s", next))
	}
	return NewEmptyExpr(p.span(start), p.sourceSpan(start))
}

func (p *parseAST) parseExpressionList(terminator byte) []AST {
	result := []AST{}
	for !p.next().IsCharacter(terminator) {
		result = append(result, p.parsePipe())
		if !p.consumeOptionalCharacter(core.CharCOMMA) {
			break
		}
	}
	return result
}

// parseLiteralMap parses `{a: b, 'c': d, e}`. A shorthand key reads the property
// of the same name.
func (p *parseAST) parseLiteralMap() *LiteralMap {
	var keys []LiteralMapKey
	var values []AST
	start := p.inputIndex()
	p.expectCharacter(core.CharLBRACE)
	p.rbracesExpected++
	for !p.next().IsCharacter(core.CharRBRACE) && !p.atEOF() {
		keyStart := p.inputIndex()
		key := LiteralMapKey{Quoted: p.next().IsString()}
		key.Key = p.expectIdentifierOrKeywordOrString()

		var value AST
		if key.Quoted || p.next().IsCharacter(core.CharCOLON) {
			p.expectCharacter(core.CharCOLON)
			value = p.parsePipe()
		} else {
			key.IsShorthandInitialized = true
			span, sourceSpan := p.span(keyStart), p.sourceSpan(keyStart)
			value = NewPropertyRead(span, sourceSpan, sourceSpan, NewImplicitReceiver(span, sourceSpan), key.Key)
		}
		keys = append(keys, key)
		values = append(values, value)
		if !p.consumeOptionalCharacter(core.CharCOMMA) {
			break
		}
	}
	p.rbracesExpected--
	p.expectCharacter(core.CharRBRACE)
	return NewLiteralMap(p.span(start), p.sourceSpan(start), keys, values)
}

// parseWrite parses the value after `=` and hands it to write. Writes are only
// valid in actions and never through `?.`.
func (p *parseAST) parseWrite(start int, isSafe bool, write func(value AST) AST) AST {
	msg := ""
	switch {
	case isSafe:
		msg = "The '?.' operator cannot be used in the assignment"
	case p.parseFlags&ParseFlagsAction == 0:
		msg = "Bindings cannot contain assignments"
	}
	if msg != "" {
		p.error(msg)
		return NewEmptyExpr(p.span(start), p.sourceSpan(start))
	}
	return write(p.parseConditional())
}

func (p *parseAST) parseAccessMember(receiver AST, start int, isSafe bool) AST {
	nameStart := p.inputIndex()
	name, ok := p.expectIdentifierOrKeyword()
	if !ok {
		p.error("Expected identifier for property access", receiver.Span().End)
	}
	nameSpan := p.sourceSpan(nameStart)
	switch {
	case p.consumeOptionalOperator("="):
		return p.parseWrite(start, isSafe, func(value AST) AST {
			return NewPropertyWrite(p.span(start), p.sourceSpan(start), nameSpan, receiver, name, value)
		})
	case isSafe:
		return NewSafePropertyRead(p.span(start), p.sourceSpan(start), nameSpan, receiver, name)
	default:
		return NewPropertyRead(p.span(start), p.sourceSpan(start), nameSpan, receiver, name)
	}
}

func (p *parseAST) parseCall(receiver AST, start int, isSafe bool) AST {
	argsStart := p.inputIndex()
	p.rparensExpected++
	args := p.parseExpressionList(core.CharRPAREN)
	argsSpan := p.span(argsStart, p.inputIndex()).ToAbsolute(p.absoluteOffset)
	p.expectCharacter(core.CharRPAREN)
	p.rparensExpected--
	if !isSafe {
		return NewCall(p.span(start), p.sourceSpan(start), receiver, args, argsSpan)
	}
	return NewSafeCall(p.span(start), p.sourceSpan(start), receiver, args, argsSpan)
}

func (p *parseAST) parseKeyedReadOrWrite(receiver AST, start int, isSafe bool) AST {
	p.rbracketsExpected++
	key := p.parsePipe()
	p.rbracketsExpected--
	if _, ok := key.(*EmptyExpr); ok {
		p.error("Key access cannot be empty")
	}
	p.expectCharacter(core.CharRBRACKET)
	switch {
	case p.consumeOptionalOperator("="):
		return p.parseWrite(start, isSafe, func(value AST) AST {
			return NewKeyedWrite(p.span(start), p.sourceSpan(start), receiver, key, value)
		})
	case isSafe:
		return NewSafeKeyedRead(p.span(start), p.sourceSpan(start), receiver, key)
	default:
		return NewKeyedRead(p.span(start), p.sourceSpan(start), receiver, key)
	}
}

// expectTemplateBindingKey reads a possibly dashed key such as `ngFor` or `let-item`
func (p *parseAST) expectTemplateBindingKey() *TemplateBindingIdentifier {
	var result strings.Builder
	start := p.currentAbsoluteOffset()
	for {
		result.WriteString(p.expectIdentifierOrKeywordOrString())
		if !p.consumeOptionalOperator("-") {
			break
		}
		result.WriteString("-")
	}
	key := result.String()
	return &TemplateBindingIdentifier{
		Source: key,
		Span:   NewAbsoluteSourceSpan(start, start+len(key)),
	}
}

// parseTemplateBindings parses microsyntax such as `let item of items; trackBy: id`.
// The template key itself binds the leading expression.
func (p *parseAST) parseTemplateBindings(templateKey *TemplateBindingIdentifier) *TemplateBindingParseResult {
	bindings := p.parseDirectiveKeywordBindings(templateKey)
	for !p.atEOF() {
		if p.next().IsKeywordNamed("let") {
			bindings = append(bindings, p.parseLetBinding())
		} else {
			bindings = append(bindings, p.parseKeyedBindings(templateKey)...)
		}
		p.consumeStatementTerminator()
	}
	return &TemplateBindingParseResult{TemplateBindings: bindings, Errors: *p.errors}
}

// parseKeyedBindings parses either `value as alias` or a directive keyword with
// its expression. Keywords take the template key as prefix: `of` becomes `ngForOf`.
func (p *parseAST) parseKeyedBindings(templateKey *TemplateBindingIdentifier) []TemplateBinding {
	key := p.expectTemplateBindingKey()
	if alias := p.parseAsBinding(key); alias != nil {
		return []TemplateBinding{alias}
	}
	if key.Source != "" {
		key.Source = templateKey.Source + strings.ToUpper(key.Source[:1]) + key.Source[1:]
	}
	return p.parseDirectiveKeywordBindings(key)
}

// parseDirectiveKeywordBindings binds key to the expression that follows it. In
// `*ngIf="cond as x"` the trailing alias x also gets a variable binding to ngIf.
func (p *parseAST) parseDirectiveKeywordBindings(key *TemplateBindingIdentifier) []TemplateBinding {
	p.consumeOptionalCharacter(core.CharCOLON)
	value := p.getDirectiveBoundTarget()
	end := p.currentAbsoluteOffset()
	alias := p.parseAsBinding(key)
	if alias == nil {
		p.consumeStatementTerminator()
		end = p.currentAbsoluteOffset()
	}
	bindings := []TemplateBinding{NewExpressionBinding(NewAbsoluteSourceSpan(key.Span.Start, end), key, value)}
	if alias != nil {
		bindings = append(bindings, alias)
	}
	return bindings
}

// getDirectiveBoundTarget parses the expression of a directive keyword. The returned source is
// the expression text alone, while the spans inside stay relative to the whole microsyntax.
func (p *parseAST) getDirectiveBoundTarget() *ASTWithSource {
	if p.next() == EOF || p.next().IsKeywordNamed("as") || p.next().IsKeywordNamed("let") {
		return nil
	}
	ast := p.parsePipe() // example: "condition | async"
	span := ast.Span()
	value := p.input[span.Start-p.offset : span.End-p.offset]
	return NewASTWithSource(ast, value, getLocation(p.parseSourceSpan), p.absoluteOffset+span.Start, *p.errors)
}

func (p *parseAST) parseAsBinding(value *TemplateBindingIdentifier) TemplateBinding {
	if !p.next().IsKeywordNamed("as") {
		return nil
	}
	p.advance() // consume the 'as' keyword
	key := p.expectTemplateBindingKey()
	p.consumeStatementTerminator()
	sourceSpan := NewAbsoluteSourceSpan(value.Span.Start, p.currentAbsoluteOffset())
	return NewVariableBinding(sourceSpan, key, value)
}

// parseLetBinding parses `let item` or `let i = index`.
func (p *parseAST) parseLetBinding() TemplateBinding {
	start := p.currentAbsoluteOffset()
	p.advance()
	name := p.expectTemplateBindingKey()
	var value *TemplateBindingIdentifier
	if p.consumeOptionalOperator("=") {
		value = p.expectTemplateBindingKey()
	}
	p.consumeStatementTerminator()
	return NewVariableBinding(NewAbsoluteSourceSpan(start, p.currentAbsoluteOffset()), name, value)
}

func (p *parseAST) consumeStatementTerminator() {
	if !p.consumeOptionalCharacter(core.CharSEMICOLON) {
		p.consumeOptionalCharacter(core.CharCOMMA)
	}
}

// error records an error and skips tokens until a recoverable point
func (p *parseAST) error(message string, index ...int) {
	idx := p.index
	if len(index) > 0 {
		idx = index[0]
	}
	*p.errors = append(*p.errors, getParseError(message, p.input, p.getErrorLocationText(idx), p.parseSourceSpan))
	p.skip()
}

func (p *parseAST) getErrorLocationText(index int) string {
	if index < len(p.tokens) {
		return fmt.Sprintf("at column %d in", p.tokens[index].Index+1)
	}
	return "at the end of the expression"
}

// skip drops tokens up to the next point the parser can recover from.
func (p *parseAST) skip() {
	for !p.atEOF() && !p.atRecoveryPoint() {
		if tok := p.next(); tok.IsError() {
			*p.errors = append(*p.errors, getParseError(tok.String(), p.input, p.getErrorLocationText(p.index), p.parseSourceSpan))
		}
		p.advance()
	}
}

// atRecoveryPoint reports whether the next token is a `;`, a `|` or a closing
// bracket some enclosing rule is waiting for.
func (p *parseAST) atRecoveryPoint() bool {
	next := p.next()
	switch {
	case next.IsCharacter(core.CharSEMICOLON), next.IsOperator("|"):
		return true
	case next.IsCharacter(core.CharRPAREN):
		return p.rparensExpected > 0
	case next.IsCharacter(core.CharRBRACE):
		return p.rbracesExpected > 0
	case next.IsCharacter(core.CharRBRACKET):
		return p.rbracketsExpected > 0
	}
	return false
}

func getParseError(message, input, locationText string, parseSourceSpan *util.ParseSourceSpan) *util.ParseError {
	if locationText != "" {
		locationText = " " + locationText + " "
	}
	errorMsg := fmt.Sprintf("Parser Error: %s%s[%s] in %s", message, locationText, input, getLocation(parseSourceSpan))
	return util.NewParseError(parseSourceSpan, errorMsg)
}
