package util

import (
	"fmt"
	"sort"
	"strings"
)

// ParseLocation represents a location in the source file
type ParseLocation struct {
	File   *ParseSourceFile
	Offset int
	Line   int
	Col    int
}

// NewParseLocation creates a new ParseLocation
func NewParseLocation(file *ParseSourceFile, offset, line, col int) *ParseLocation {
	return &ParseLocation{
		File:   file,
		Offset: offset,
		Line:   line,
		Col:    col,
	}
}

// String returns "url@line:col" with zero-based line and column.
func (p *ParseLocation) String() string {
	if p.Offset >= 0 {
		return fmt.Sprintf("%s@%d:%d", p.File.URL, p.Line, p.Col)
	}
	return p.File.URL
}

// MoveBy returns a new location delta bytes away, clamped to the file bounds.
func (p *ParseLocation) MoveBy(delta int) *ParseLocation {
	offset := p.Offset + delta
	if offset < 0 {
		offset = 0
	}
	if offset > len(p.File.Content) {
		offset = len(p.File.Content)
	}
	line, col := p.File.LineCol(offset)
	return NewParseLocation(p.File, offset, line, col)
}

// Context is the source text around a location, used in error messages.
type Context struct {
	Before string
	After  string
}

// GetContext returns up to maxChars characters and maxLines lines on each side of the location.
func (p *ParseLocation) GetContext(maxChars, maxLines int) *Context {
	content := p.File.Content
	if p.Offset < 0 || len(content) == 0 {
		return nil
	}
	offset := p.Offset
	if offset > len(content) {
		offset = len(content)
	}

	start, chars, lines := offset, 0, 0
	for chars < maxChars && start > 0 {
		start--
		chars++
		if content[start] == '\n' {
			lines++
			if lines == maxLines {
				break
			}
		}
	}

	end := offset
	chars, lines = 0, 0
	for chars < maxChars && end < len(content) {
		if content[end] == '\n' {
			lines++
			if lines == maxLines {
				break
			}
		}
		end++
		chars++
	}

	return &Context{
		Before: content[start:offset],
		After:  content[offset:end],
	}
}

// ParseSourceFile represents a source file
type ParseSourceFile struct {
	Content string
	URL     string

	lineStarts []int
}

// NewParseSourceFile creates a new ParseSourceFile
func NewParseSourceFile(content, url string) *ParseSourceFile {
	return &ParseSourceFile{
		Content:    content,
		URL:        url,
		lineStarts: LineStarts(content),
	}
}

// LineCol converts a byte offset into zero-based line and column numbers.
func (f *ParseSourceFile) LineCol(offset int) (line, col int) {
	if f.lineStarts == nil {
		f.lineStarts = LineStarts(f.Content)
	}
	return OffsetToLineCol(f.lineStarts, offset)
}

// Location returns the ParseLocation of offset.
func (f *ParseSourceFile) Location(offset int) *ParseLocation {
	line, col := f.LineCol(offset)
	return NewParseLocation(f, offset, line, col)
}

// Span returns a ParseSourceSpan from start to end. fullStart may equal start.
func (f *ParseSourceFile) Span(start, end, fullStart int) *ParseSourceSpan {
	s := f.Location(start)
	full := s
	if fullStart != start {
		full = f.Location(fullStart)
	}
	return NewParseSourceSpan(s, f.Location(end), full, nil)
}

// LineStarts returns the offset of the first byte of every line. "\r\n", "\r"
// and "\n" all end a line.
func LineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		case '\n':
			starts = append(starts, i+1)
		}
	}
	return starts
}

// OffsetToLineCol maps offset onto lineStarts. Offsets past the end land on the last line.
func OffsetToLineCol(lineStarts []int, offset int) (line, col int) {
	line = sort.Search(len(lineStarts), func(i int) bool { return lineStarts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return line, offset - lineStarts[line]
}

// ParseSourceSpan represents a span of source code
type ParseSourceSpan struct {
	Start     *ParseLocation
	End       *ParseLocation
	FullStart *ParseLocation
	Details   *string
}

// NewParseSourceSpan creates a new ParseSourceSpan
func NewParseSourceSpan(start, end *ParseLocation, fullStart *ParseLocation, details *string) *ParseSourceSpan {
	if fullStart == nil {
		fullStart = start
	}
	return &ParseSourceSpan{
		Start:     start,
		End:       end,
		FullStart: fullStart,
		Details:   details,
	}
}

// String returns the source code in this span
func (p *ParseSourceSpan) String() string {
	return p.Start.File.Content[p.Start.Offset:p.End.Offset]
}

// ParseErrorLevel represents the level of a parse error
type ParseErrorLevel int

const (
	ParseErrorLevelWarning ParseErrorLevel = iota
	ParseErrorLevelError
)

// ParseError represents a parse error
type ParseError struct {
	Span  *ParseSourceSpan
	Msg   string
	Level ParseErrorLevel
}

// NewParseError creates a new ParseError
func NewParseError(span *ParseSourceSpan, msg string) *ParseError {
	return &ParseError{
		Span:  span,
		Msg:   msg,
		Level: ParseErrorLevelError,
	}
}

// Error implements the error interface
func (p *ParseError) Error() string {
	return p.String()
}

// ContextualMessage returns the message followed by the surrounding source, marking the error position.
func (p *ParseError) ContextualMessage() string {
	if p.Span == nil || p.Span.Start == nil {
		return p.Msg
	}
	ctx := p.Span.Start.GetContext(100, 3)
	if ctx == nil {
		return p.Msg
	}
	level := "ERROR"
	if p.Level == ParseErrorLevelWarning {
		level = "WARNING"
	}
	return fmt.Sprintf(`%s ("%s[%s ->]%s")`, p.Msg, ctx.Before, level, ctx.After)
}

// String returns a string representation of the error
func (p *ParseError) String() string {
	if p.Span == nil || p.Span.Start == nil {
		return p.Msg
	}
	details := ""
	if p.Span.Details != nil {
		details = ", " + *p.Span.Details
	}
	return fmt.Sprintf("%s: %s%s", p.ContextualMessage(), p.Span.Start, details)
}

// JoinErrors renders a list of parse errors one per line.
func JoinErrors(errs []*ParseError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.String()
	}
	return strings.Join(msgs, "\n")
}
