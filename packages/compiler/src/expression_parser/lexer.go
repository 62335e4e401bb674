package expression_parser

import (
	"strconv"
	"strings"

	"ngthis/packages/compiler/src/core"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenTypeCharacter TokenType = iota
	TokenTypeIdentifier
	TokenTypeKeyword
	TokenTypeString
	TokenTypeOperator
	TokenTypeNumber
	TokenTypeError
)

var keywords = map[string]bool{
	"var":       true,
	"let":       true,
	"as":        true,
	"null":      true,
	"undefined": true,
	"true":      true,
	"false":     true,
	"if":        true,
	"else":      true,
	"this":      true,
	"typeof":    true,
}

// Token represents a token in the expression
type Token struct {
	Index    int
	End      int
	Type     TokenType
	NumValue float64
	StrValue string
}

// NewToken creates a new Token
func NewToken(index, end int, typ TokenType, numValue float64, strValue string) *Token {
	return &Token{
		Index:    index,
		End:      end,
		Type:     typ,
		NumValue: numValue,
		StrValue: strValue,
	}
}

// IsCharacter checks if the token is the given character
func (t *Token) IsCharacter(code byte) bool {
	return t.Type == TokenTypeCharacter && t.StrValue == string(code)
}

// IsNumber checks if the token is a number
func (t *Token) IsNumber() bool {
	return t.Type == TokenTypeNumber
}

// IsString checks if the token is a string
func (t *Token) IsString() bool {
	return t.Type == TokenTypeString
}

// IsOperator checks if the token is an operator with the given value
func (t *Token) IsOperator(operator string) bool {
	return t.Type == TokenTypeOperator && t.StrValue == operator
}

// IsIdentifier checks if the token is an identifier
func (t *Token) IsIdentifier() bool {
	return t.Type == TokenTypeIdentifier
}

// IsKeyword checks if the token is a keyword
func (t *Token) IsKeyword() bool {
	return t.Type == TokenTypeKeyword
}

// IsKeywordNamed checks if the token is the given keyword
func (t *Token) IsKeywordNamed(name string) bool {
	return t.Type == TokenTypeKeyword && t.StrValue == name
}

// IsError checks if the token is an error
func (t *Token) IsError() bool {
	return t.Type == TokenTypeError
}

// String returns the string representation of the token
func (t *Token) String() string {
	if t.Type == TokenTypeNumber {
		return strconv.FormatFloat(t.NumValue, 'f', -1, 64)
	}
	return t.StrValue
}

// Lexer tokenizes expressions
type Lexer struct{}

// NewLexer creates a new Lexer
func NewLexer() *Lexer {
	return &Lexer{}
}

// Tokenize tokenizes the given text
func (l *Lexer) Tokenize(text string) []*Token {
	s := newScanner(text)
	var tokens []*Token
	for tok := s.scanToken(); tok != nil; tok = s.scanToken() {
		tokens = append(tokens, tok)
	}
	return tokens
}

// EOF represents the end of file token
var EOF = NewToken(-1, -1, TokenTypeCharacter, 0, "")

type scanner struct {
	input  string
	length int
	peek   byte
	index  int
}

func newScanner(input string) *scanner {
	s := &scanner{input: input, length: len(input), index: -1}
	s.advance()
	return s
}

func (s *scanner) advance() {
	s.index++
	if s.index >= s.length {
		s.peek = core.CharEOF
	} else {
		s.peek = s.input[s.index]
	}
}

func (s *scanner) scanToken() *Token {
	for s.index < s.length && s.peek <= core.CharSPACE {
		s.advance()
	}
	if s.index >= s.length {
		return nil
	}

	peek := s.peek
	start := s.index
	if core.IsIdentifierStart(peek) {
		return s.scanIdentifier()
	}
	if core.IsDigit(peek) {
		return s.scanNumber(start)
	}

	switch peek {
	case core.CharPERIOD:
		s.advance()
		if core.IsDigit(s.peek) {
			return s.scanNumber(start)
		}
		return newCharacterToken(start, s.index, core.CharPERIOD)
	case core.CharLPAREN, core.CharRPAREN, core.CharLBRACE, core.CharRBRACE,
		core.CharLBRACKET, core.CharRBRACKET, core.CharCOMMA, core.CharCOLON, core.CharSEMICOLON:
		s.advance()
		return newCharacterToken(start, s.index, peek)
	case core.CharSQ, core.CharDQ:
		return s.scanString()
	case core.CharPLUS, core.CharMINUS, core.CharSLASH, core.CharPERCENT, core.CharCARET:
		s.advance()
		return newOperatorToken(start, s.index, string(peek))
	case core.CharSTAR:
		s.advance()
		if s.peek == core.CharSTAR {
			s.advance()
		}
		return newOperatorToken(start, s.index, s.input[start:s.index])
	case core.CharQUESTION:
		return s.scanQuestion(start)
	case core.CharLT, core.CharGT:
		return s.scanComplexOperator(start, string(peek), core.CharEQ, "=")
	case core.CharBANG, core.CharEQ:
		return s.scanComplexOperator(start, string(peek), core.CharEQ, "=", core.CharEQ)
	case core.CharAMPERSAND:
		return s.scanComplexOperator(start, "&", core.CharAMPERSAND, "&")
	case core.CharBAR:
		return s.scanComplexOperator(start, "|", core.CharBAR, "|")
	}

	s.advance()
	return s.error("Unexpected character ["+string(peek)+"]", 0)
}

// scanComplexOperator scans `one`, optionally followed by `two`, optionally followed by threeCode
func (s *scanner) scanComplexOperator(start int, one string, twoCode byte, two string, threeCode ...byte) *Token {
	s.advance()
	str := one
	if s.peek == twoCode {
		s.advance()
		str += two
		if len(threeCode) > 0 && s.peek == threeCode[0] {
			s.advance()
			str += string(threeCode[0])
		}
	}
	return newOperatorToken(start, s.index, str)
}

func (s *scanner) scanQuestion(start int) *Token {
	s.advance()
	operator := "?"
	switch s.peek {
	case core.CharQUESTION:
		// `a ?? b`
		operator += "?"
		s.advance()
	case core.CharPERIOD:
		// `a?.b`
		operator += "."
		s.advance()
	}
	return newOperatorToken(start, s.index, operator)
}

func (s *scanner) scanIdentifier() *Token {
	start := s.index
	s.advance()
	for core.IsIdentifierPart(s.peek) {
		s.advance()
	}
	str := s.input[start:s.index]
	if keywords[str] {
		return newKeywordToken(start, s.index, str)
	}
	return newIdentifierToken(start, s.index, str)
}

func (s *scanner) scanNumber(start int) *Token {
	simple := s.index == start
	s.advance() // Skip initial digit
	for {
		if core.IsDigit(s.peek) {
			// Do nothing
		} else if s.peek == core.CharUnderscore {
			prev, next := s.input[s.index-1], byte(0)
			if s.index+1 < s.length {
				next = s.input[s.index+1]
			}
			if !core.IsDigit(prev) || !core.IsDigit(next) {
				return s.error("Invalid numeric separator", 0)
			}
		} else if s.peek == core.CharPERIOD {
			simple = false
		} else if s.peek == 'e' || s.peek == 'E' {
			s.advance()
			if s.peek == core.CharMINUS || s.peek == core.CharPLUS {
				s.advance()
			}
			if !core.IsDigit(s.peek) {
				return s.error("Invalid exponent", -1)
			}
			simple = false
		} else {
			break
		}
		s.advance()
	}

	str := strings.ReplaceAll(s.input[start:s.index], "_", "")
	var value float64
	if simple {
		n, _ := strconv.ParseInt(str, 10, 64)
		value = float64(n)
	} else {
		value, _ = strconv.ParseFloat(str, 64)
	}
	return NewToken(start, s.index, TokenTypeNumber, value, "")
}

func (s *scanner) scanString() *Token {
	start := s.index
	quote := s.peek
	s.advance() // Skip initial quote

	var buffer strings.Builder
	marker := s.index
	for s.peek != quote {
		switch s.peek {
		case core.CharBACKSLASH:
			buffer.WriteString(s.input[marker:s.index])
			s.advance()
			if s.peek == 'u' {
				if s.index+5 > s.length {
					return s.error("Invalid unicode escape", 0)
				}
				hex := s.input[s.index+1 : s.index+5]
				code, err := strconv.ParseUint(hex, 16, 32)
				if err != nil {
					return s.error("Invalid unicode escape [\\u"+hex+"]", 0)
				}
				buffer.WriteRune(rune(code))
				for i := 0; i < 5; i++ {
					s.advance()
				}
			} else {
				buffer.WriteByte(unescape(s.peek))
				s.advance()
			}
			marker = s.index
		case core.CharEOF:
			if s.index >= s.length {
				return s.error("Unterminated quote", 0)
			}
			s.advance()
		default:
			s.advance()
		}
	}

	buffer.WriteString(s.input[marker:s.index])
	s.advance() // Skip terminating quote
	return NewToken(start, s.index, TokenTypeString, 0, buffer.String())
}

func (s *scanner) error(message string, offset int) *Token {
	position := s.index + offset
	return NewToken(position, s.index, TokenTypeError, 0,
		"Lexer Error: "+message+" at column "+strconv.Itoa(position)+" in expression ["+s.input+"]")
}

func unescape(code byte) byte {
	switch code {
	case 'n':
		return core.CharLF
	case 'f':
		return core.CharFF
	case 'r':
		return core.CharCR
	case 't':
		return core.CharTAB
	case 'v':
		return core.CharVTAB
	default:
		return code
	}
}

func newCharacterToken(index, end int, code byte) *Token {
	return NewToken(index, end, TokenTypeCharacter, float64(code), string(code))
}

func newIdentifierToken(index, end int, text string) *Token {
	return NewToken(index, end, TokenTypeIdentifier, 0, text)
}

func newKeywordToken(index, end int, text string) *Token {
	return NewToken(index, end, TokenTypeKeyword, 0, text)
}

func newOperatorToken(index, end int, text string) *Token {
	return NewToken(index, end, TokenTypeOperator, 0, text)
}
