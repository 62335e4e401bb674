package ml_parser

import (
	"fmt"
	"strings"

	"ngthis/packages/compiler/src/core"
	"ngthis/packages/compiler/src/util"
)

// TokenizeOptions configures the tokenizer
type TokenizeOptions struct {
	// LeadingTriviaChars are skipped at the start of a token's span. The skipped
	// text remains covered by the span's FullStart.
	LeadingTriviaChars []byte
}

// CursorError is raised inside the tokenizer and converted to a ParseError
type CursorError struct {
	Msg    string
	Offset int
}

func (c *CursorError) Error() string {
	return c.Msg
}

// Tokenize splits an HTML template into tokens. It never panics: malformed input
// yields error entries alongside the tokens that could be recovered.
func Tokenize(source, url string, getTagDefinition func(string) *TagDefinition, options *TokenizeOptions) *TokenizeResult {
	if getTagDefinition == nil {
		getTagDefinition = GetHtmlTagDefinition
	}
	if options == nil {
		options = &TokenizeOptions{}
	}
	tokenizer := NewTokenizer(util.NewParseSourceFile(source, url), getTagDefinition, options)
	tokenizer.Tokenize()
	return &TokenizeResult{Tokens: tokenizer.tokens, Errors: tokenizer.errors}
}

// Tokenizer is a byte cursor over the template source
type Tokenizer struct {
	file             *util.ParseSourceFile
	input            string
	getTagDefinition func(string) *TagDefinition
	leadingTrivia    []byte

	pos               int
	currentTokenStart int
	currentTokenType  TokenType
	tokens            []*Token
	errors            []*util.ParseError
}

// NewTokenizer creates a new Tokenizer
func NewTokenizer(file *util.ParseSourceFile, getTagDefinition func(string) *TagDefinition, options *TokenizeOptions) *Tokenizer {
	return &Tokenizer{
		file:              file,
		input:             file.Content,
		getTagDefinition:  getTagDefinition,
		leadingTrivia:     options.LeadingTriviaChars,
		currentTokenStart: -1,
	}
}

// Tokenize runs the tokenizer to completion and appends a final EOF token
func (t *Tokenizer) Tokenize() {
	for t.peek() != core.CharEOF {
		start := t.pos
		t.consumeNext(start)
		if t.pos == start {
			t.pos++
		}
	}
	t._beginToken(TokenTypeEOF, t.pos)
	t._endToken(nil)
}

func (t *Tokenizer) consumeNext(start int) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(*CursorError)
			if !ok {
				panic(r)
			}
			t.handleError(err)
		}
	}()

	switch {
	case t._attemptStr("<!--"):
		t._consumeComment(start)
	case t._attemptStr("<![CDATA["):
		t._consumeCdata(start)
	case t._attemptStr("<!"):
		t._consumeDocType(start)
	case t._attemptStr("</"):
		t._consumeTagClose(start)
	case t._attemptCharCode(core.CharLT):
		t._consumeRawTextAfterTagOpen(t._consumeTagOpen(start))
	default:
		t._consumeText()
	}
}

func (t *Tokenizer) handleError(err *CursorError) {
	t.currentTokenStart = -1
	span := t.file.Span(err.Offset, err.Offset, err.Offset)
	t.errors = append(t.errors, util.NewParseError(span, err.Msg))
}

func (t *Tokenizer) peek() byte {
	if t.pos >= len(t.input) {
		return core.CharEOF
	}
	return t.input[t.pos]
}

func (t *Tokenizer) peekAt(offset int) byte {
	if t.pos+offset >= len(t.input) {
		return core.CharEOF
	}
	return t.input[t.pos+offset]
}

func (t *Tokenizer) advance() {
	if t.pos >= len(t.input) {
		panic(t._createError(unexpectedCharacterErrorMsg(core.CharEOF), t.pos))
	}
	t.pos++
}

func (t *Tokenizer) _createError(msg string, offset int) *CursorError {
	return &CursorError{Msg: msg, Offset: offset}
}

func unexpectedCharacterErrorMsg(c byte) string {
	if c == core.CharEOF {
		return `Unexpected character "EOF"`
	}
	return fmt.Sprintf("Unexpected character %q", string(c))
}

func (t *Tokenizer) _beginToken(tokenType TokenType, start int) {
	t.currentTokenStart = start
	t.currentTokenType = tokenType
}

func (t *Tokenizer) _endToken(parts []string) *Token {
	if t.currentTokenStart < 0 {
		panic(t._createError("Programming error - attempted to end a token when there was no start to the token", t.pos))
	}
	token := NewToken(t.currentTokenType, parts, t.getSpan(t.currentTokenStart, t.pos))
	t.tokens = append(t.tokens, token)
	t.currentTokenStart = -1
	return token
}

// getSpan skips configured leading trivia at the start of the span, keeping the
// untrimmed position as FullStart.
func (t *Tokenizer) getSpan(fullStart, end int) *util.ParseSourceSpan {
	start := fullStart
	for start < end && t.isLeadingTrivia(t.input[start]) {
		start++
	}
	return t.file.Span(start, end, fullStart)
}

func (t *Tokenizer) isLeadingTrivia(c byte) bool {
	for _, trivia := range t.leadingTrivia {
		if c == trivia {
			return true
		}
	}
	return false
}

func (t *Tokenizer) _attemptCharCode(c byte) bool {
	if t.peek() == c {
		t.pos++
		return true
	}
	return false
}

func (t *Tokenizer) _requireCharCode(c byte) {
	if !t._attemptCharCode(c) {
		panic(t._createError(unexpectedCharacterErrorMsg(t.peek()), t.pos))
	}
}

func (t *Tokenizer) _attemptStr(s string) bool {
	if strings.HasPrefix(t.input[t.pos:], s) {
		t.pos += len(s)
		return true
	}
	return false
}

func (t *Tokenizer) _attemptStrCaseInsensitive(s string) bool {
	if len(t.input)-t.pos >= len(s) && strings.EqualFold(t.input[t.pos:t.pos+len(s)], s) {
		t.pos += len(s)
		return true
	}
	return false
}

func (t *Tokenizer) _attemptCharCodeUntilFn(predicate func(byte) bool) {
	for !predicate(t.peek()) {
		t.advance()
	}
}

func (t *Tokenizer) _requireCharCodeUntilFn(predicate func(byte) bool, length int) {
	start := t.pos
	t._attemptCharCodeUntilFn(predicate)
	if t.pos-start < length {
		panic(t._createError(unexpectedCharacterErrorMsg(t.peek()), t.pos))
	}
}

func (t *Tokenizer) _attemptUntilChar(c byte) {
	for t.peek() != c {
		t.advance()
	}
}

func (t *Tokenizer) _consumeComment(start int) {
	t._beginToken(TokenTypeCOMMENT_START, start)
	t._endToken(nil)
	t._consumeRawText(false, func() bool { return t._attemptStr("-->") })
	t._beginToken(TokenTypeCOMMENT_END, t.pos)
	t._requireStr("-->")
	t._endToken(nil)
}

func (t *Tokenizer) _consumeCdata(start int) {
	t._beginToken(TokenTypeCDATA_START, start)
	t._endToken(nil)
	t._consumeRawText(false, func() bool { return t._attemptStr("]]>") })
	t._beginToken(TokenTypeCDATA_END, t.pos)
	t._requireStr("]]>")
	t._endToken(nil)
}

func (t *Tokenizer) _consumeDocType(start int) {
	t._beginToken(TokenTypeDOC_TYPE, start)
	contentStart := t.pos
	t._attemptUntilChar(core.CharGT)
	content := t.input[contentStart:t.pos]
	t.advance()
	t._endToken([]string{content})
}

// _consumeRawText emits the text before the first position where endMarker matches.
// The marker itself is left unconsumed.
func (t *Tokenizer) _consumeRawText(escapable bool, endMarker func() bool) {
	tokenType := TokenTypeRAW_TEXT
	if escapable {
		tokenType = TokenTypeESCAPABLE_RAW_TEXT
	}
	start := t.pos
	t._beginToken(tokenType, start)
	for {
		markerStart := t.pos
		matched := endMarker()
		t.pos = markerStart
		if matched {
			break
		}
		t.advance()
	}
	t._endToken([]string{t.input[start:t.pos]})
}

func (t *Tokenizer) _requireStr(s string) {
	if !t._attemptStr(s) {
		panic(t._createError(unexpectedCharacterErrorMsg(t.peek()), t.pos))
	}
}

func (t *Tokenizer) _consumePrefixAndName() []string {
	nameOrPrefixStart := t.pos
	prefix := ""
	for t.peek() != core.CharCOLON && !isPrefixEnd(t.peek()) {
		t.advance()
	}
	nameStart := nameOrPrefixStart
	if t.peek() == core.CharCOLON {
		prefix = t.input[nameOrPrefixStart:t.pos]
		t.advance()
		nameStart = t.pos
	}
	// Without a prefix the whole name was consumed by the loop above.
	minLength := 0
	if prefix != "" {
		minLength = 1
	}
	t._requireCharCodeUntilFn(isNameEnd, minLength)
	return []string{prefix, t.input[nameStart:t.pos]}
}

// _consumeTagOpen returns the TAG_OPEN_START token, or nil when the tag was not
// terminated and has been downgraded.
func (t *Tokenizer) _consumeTagOpen(start int) (openTag *Token) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*CursorError); !ok {
				panic(r)
			}
			if openTag != nil {
				openTag.Type = TokenTypeINCOMPLETE_TAG_OPEN
				openTag = nil
				return
			}
			// An invalid start tag is treated as a literal "<".
			t.pos = start + 1
			t._beginToken(TokenTypeTEXT, start)
			t._endToken([]string{"<"})
		}
	}()

	if !core.IsAsciiLetter(t.peek()) {
		panic(t._createError(unexpectedCharacterErrorMsg(t.peek()), t.pos))
	}
	t._beginToken(TokenTypeTAG_OPEN_START, start)
	openTag = t._endToken(t._consumePrefixAndName())
	t._attemptCharCodeUntilFn(isNotWhitespace)
	for t.peek() != core.CharSLASH && t.peek() != core.CharGT && t.peek() != core.CharLT && t.peek() != core.CharEOF {
		t._consumeAttributeName()
		t._attemptCharCodeUntilFn(isNotWhitespace)
		if t._attemptCharCode(core.CharEQ) {
			t._attemptCharCodeUntilFn(isNotWhitespace)
			t._consumeAttributeValue()
		}
		t._attemptCharCodeUntilFn(isNotWhitespace)
	}
	t._consumeTagOpenEnd()
	return openTag
}

func (t *Tokenizer) _consumeRawTextAfterTagOpen(openTag *Token) {
	if openTag == nil {
		return
	}
	prefix, name := openTag.Parts[0], openTag.Parts[1]
	switch t.getTagDefinition(MergeNsAndName(prefix, name)).ContentType {
	case TagContentTypeRAW_TEXT:
		t._consumeRawTextWithTagClose(prefix, name, false)
	case TagContentTypeESCAPABLE_RAW_TEXT:
		t._consumeRawTextWithTagClose(prefix, name, true)
	}
}

func (t *Tokenizer) _consumeRawTextWithTagClose(prefix, tagName string, escapable bool) {
	t._consumeRawText(escapable, func() bool {
		if !t._attemptStr("</") {
			return false
		}
		t._attemptCharCodeUntilFn(isNotWhitespace)
		if !t._attemptStrCaseInsensitive(tagName) {
			return false
		}
		t._attemptCharCodeUntilFn(isNotWhitespace)
		return t._attemptCharCode(core.CharGT)
	})
	t._beginToken(TokenTypeTAG_CLOSE, t.pos)
	t._requireStr("</")
	t._attemptCharCodeUntilFn(isNotWhitespace)
	if !t._attemptStrCaseInsensitive(tagName) {
		panic(t._createError(unexpectedCharacterErrorMsg(t.peek()), t.pos))
	}
	t._attemptCharCodeUntilFn(isNotWhitespace)
	t._requireCharCode(core.CharGT)
	t._endToken([]string{prefix, tagName})
}

func (t *Tokenizer) _consumeAttributeName() {
	if core.IsQuote(t.peek()) {
		panic(t._createError(unexpectedCharacterErrorMsg(t.peek()), t.pos))
	}
	t._beginToken(TokenTypeATTR_NAME, t.pos)
	t._endToken(t._consumePrefixAndName())
}

func (t *Tokenizer) _consumeAttributeValue() {
	if t.peek() == core.CharSQ || t.peek() == core.CharDQ {
		quoteChar := t.peek()
		t._consumeQuote(quoteChar)
		t._beginToken(TokenTypeATTR_VALUE, t.pos)
		valueStart := t.pos
		t._attemptUntilChar(quoteChar)
		t._endToken([]string{t.input[valueStart:t.pos]})
		t._consumeQuote(quoteChar)
		return
	}
	t._beginToken(TokenTypeATTR_VALUE, t.pos)
	valueStart := t.pos
	t._requireCharCodeUntilFn(isNameEnd, 1)
	t._endToken([]string{t.input[valueStart:t.pos]})
}

func (t *Tokenizer) _consumeQuote(quoteChar byte) {
	t._beginToken(TokenTypeATTR_QUOTE, t.pos)
	t._requireCharCode(quoteChar)
	t._endToken([]string{string(quoteChar)})
}

func (t *Tokenizer) _consumeTagOpenEnd() {
	start := t.pos
	tokenType := TokenTypeTAG_OPEN_END
	if t._attemptCharCode(core.CharSLASH) {
		tokenType = TokenTypeTAG_OPEN_END_VOID
	}
	t._beginToken(tokenType, start)
	t._requireCharCode(core.CharGT)
	t._endToken(nil)
}

func (t *Tokenizer) _consumeTagClose(start int) {
	t._beginToken(TokenTypeTAG_CLOSE, start)
	t._attemptCharCodeUntilFn(isNotWhitespace)
	prefixAndName := t._consumePrefixAndName()
	t._attemptCharCodeUntilFn(isNotWhitespace)
	t._requireCharCode(core.CharGT)
	t._endToken(prefixAndName)
}

// _consumeText reads character data up to the next tag start. Interpolation markers
// stay part of the text; binding parsing splits them later.
func (t *Tokenizer) _consumeText() {
	start := t.pos
	t._beginToken(TokenTypeTEXT, start)
	t.advance()
	for !t._isTextEnd() {
		t.advance()
	}
	t._endToken([]string{t.input[start:t.pos]})
}

func (t *Tokenizer) _isTextEnd() bool {
	return t.peek() == core.CharEOF || t._isTagStart()
}

func (t *Tokenizer) _isTagStart() bool {
	if t.peek() != core.CharLT {
		return false
	}
	next := t.peekAt(1)
	return core.IsAsciiLetter(next) || next == core.CharSLASH || next == core.CharBANG
}

func isNotWhitespace(c byte) bool {
	return !core.IsWhitespace(c) || c == core.CharEOF
}

func isNameEnd(c byte) bool {
	return core.IsWhitespace(c) || c == core.CharGT || c == core.CharLT ||
		c == core.CharSLASH || c == core.CharSQ || c == core.CharDQ || c == core.CharEQ ||
		c == core.CharEOF
}

func isPrefixEnd(c byte) bool {
	return !core.IsAsciiLetter(c) && !core.IsDigit(c)
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
