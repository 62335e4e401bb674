package core

// Character constants shared by the HTML and expression lexers. Templates are
// scanned byte by byte; every structural character is ASCII.
const (
	CharEOF        byte = 0
	CharTAB        byte = '\t'
	CharLF         byte = '\n'
	CharVTAB       byte = '\v'
	CharFF         byte = '\f'
	CharCR         byte = '\r'
	CharSPACE      byte = ' '
	CharBANG       byte = '!'
	CharDQ         byte = '"'
	CharHASH       byte = '#'
	CharDollar     byte = '$'
	CharPERCENT    byte = '%'
	CharAMPERSAND  byte = '&'
	CharSQ         byte = '\''
	CharLPAREN     byte = '('
	CharRPAREN     byte = ')'
	CharSTAR       byte = '*'
	CharPLUS       byte = '+'
	CharCOMMA      byte = ','
	CharMINUS      byte = '-'
	CharPERIOD     byte = '.'
	CharSLASH      byte = '/'
	CharCOLON      byte = ':'
	CharSEMICOLON  byte = ';'
	CharLT         byte = '<'
	CharEQ         byte = '='
	CharGT         byte = '>'
	CharQUESTION   byte = '?'
	CharAT         byte = '@'
	CharLBRACKET   byte = '['
	CharBACKSLASH  byte = '\\'
	CharRBRACKET   byte = ']'
	CharCARET      byte = '^'
	CharUnderscore byte = '_'
	CharBT         byte = '`'
	CharLBRACE     byte = '{'
	CharBAR        byte = '|'
	CharRBRACE     byte = '}'
	CharTILDA      byte = '~'
)

// IsWhitespace reports whether c is an ASCII whitespace or control character.
func IsWhitespace(c byte) bool {
	return c >= CharTAB && c <= CharSPACE
}

// IsDigit reports whether c is 0-9.
func IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// IsAsciiLetter reports whether c is a-z or A-Z.
func IsAsciiLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// IsAsciiHexDigit reports whether c is a hexadecimal digit.
func IsAsciiHexDigit(c byte) bool {
	return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') || IsDigit(c)
}

// IsNewLine reports whether c terminates a line.
func IsNewLine(c byte) bool {
	return c == CharLF || c == CharCR
}

// IsQuote reports whether c opens a string literal.
func IsQuote(c byte) bool {
	return c == CharSQ || c == CharDQ || c == CharBT
}

// IsIdentifierStart reports whether c can begin an expression identifier.
func IsIdentifierStart(c byte) bool {
	return IsAsciiLetter(c) || c == CharUnderscore || c == CharDollar
}

// IsIdentifierPart reports whether c can continue an expression identifier.
func IsIdentifierPart(c byte) bool {
	return IsIdentifierStart(c) || IsDigit(c)
}

// LeadingTrivia lists the characters skipped at the start of attribute value spans.
var LeadingTrivia = []byte{CharSPACE, CharLF, CharCR, CharTAB}

// IsLeadingTrivia reports whether c is one of LeadingTrivia.
func IsLeadingTrivia(c byte) bool {
	for _, t := range LeadingTrivia {
		if c == t {
			return true
		}
	}
	return false
}
