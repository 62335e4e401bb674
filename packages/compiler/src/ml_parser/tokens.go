package ml_parser

import "ngthis/packages/compiler/src/util"

// TokenType represents the type of a token
type TokenType int

const (
	TokenTypeTAG_OPEN_START TokenType = iota
	TokenTypeTAG_OPEN_END
	TokenTypeTAG_OPEN_END_VOID
	TokenTypeTAG_CLOSE
	TokenTypeINCOMPLETE_TAG_OPEN
	TokenTypeTEXT
	TokenTypeESCAPABLE_RAW_TEXT
	TokenTypeRAW_TEXT
	TokenTypeCOMMENT_START
	TokenTypeCOMMENT_END
	TokenTypeCDATA_START
	TokenTypeCDATA_END
	TokenTypeATTR_NAME
	TokenTypeATTR_QUOTE
	TokenTypeATTR_VALUE
	TokenTypeDOC_TYPE
	TokenTypeEOF
)

var tokenTypeNames = [...]string{
	TokenTypeTAG_OPEN_START:      "TAG_OPEN_START",
	TokenTypeTAG_OPEN_END:        "TAG_OPEN_END",
	TokenTypeTAG_OPEN_END_VOID:   "TAG_OPEN_END_VOID",
	TokenTypeTAG_CLOSE:           "TAG_CLOSE",
	TokenTypeINCOMPLETE_TAG_OPEN: "INCOMPLETE_TAG_OPEN",
	TokenTypeTEXT:                "TEXT",
	TokenTypeESCAPABLE_RAW_TEXT:  "ESCAPABLE_RAW_TEXT",
	TokenTypeRAW_TEXT:            "RAW_TEXT",
	TokenTypeCOMMENT_START:       "COMMENT_START",
	TokenTypeCOMMENT_END:         "COMMENT_END",
	TokenTypeCDATA_START:         "CDATA_START",
	TokenTypeCDATA_END:           "CDATA_END",
	TokenTypeATTR_NAME:           "ATTR_NAME",
	TokenTypeATTR_QUOTE:          "ATTR_QUOTE",
	TokenTypeATTR_VALUE:          "ATTR_VALUE",
	TokenTypeDOC_TYPE:            "DOC_TYPE",
	TokenTypeEOF:                 "EOF",
}

// String returns the name of the token type
func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "UNKNOWN"
}

// Token represents a token in the HTML source. Parts depend on the type: a tag open start
// carries [prefix, name], an attribute name [prefix, name], text and values a single part.
type Token struct {
	Type       TokenType
	Parts      []string
	SourceSpan *util.ParseSourceSpan
}

// NewToken creates a new Token
func NewToken(tokenType TokenType, parts []string, sourceSpan *util.ParseSourceSpan) *Token {
	return &Token{Type: tokenType, Parts: parts, SourceSpan: sourceSpan}
}

// TokenizeResult holds the tokens and errors of a tokenization
type TokenizeResult struct {
	Tokens []*Token
	Errors []*util.ParseError
}
