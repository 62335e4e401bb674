package linter

import (
	"fmt"

	"ngthis/packages/compiler/src/util"
)

// Position is a point in the source. Line is 1-based, Column is a 0-based byte column.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// SourceLocation is the range a problem is reported at
type SourceLocation struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// SourceCode is the text being linted
type SourceCode struct {
	Text string

	lineStarts []int
}

// NewSourceCode creates a new SourceCode
func NewSourceCode(text string) *SourceCode {
	return &SourceCode{Text: text, lineStarts: util.LineStarts(text)}
}

// Lines returns the number of lines in the text
func (sc *SourceCode) Lines() int {
	return len(sc.lineStarts)
}

// GetLocFromIndex converts a byte index into a position. index may equal len(Text).
func (sc *SourceCode) GetLocFromIndex(index int) (Position, error) {
	if index < 0 || index > len(sc.Text) {
		return Position{}, fmt.Errorf("%w: index %d not in [0, %d]", ErrIndexOutOfRange, index, len(sc.Text))
	}
	line, col := util.OffsetToLineCol(sc.lineStarts, index)
	return Position{Line: line + 1, Column: col}, nil
}

// GetIndexFromLoc converts a position back into a byte index
func (sc *SourceCode) GetIndexFromLoc(loc Position) (int, error) {
	if loc.Line < 1 || loc.Line > len(sc.lineStarts) {
		return 0, fmt.Errorf("%w: line %d not in [1, %d]", ErrIndexOutOfRange, loc.Line, len(sc.lineStarts))
	}
	lineStart := sc.lineStarts[loc.Line-1]
	// Only the last line may be addressed one past its end.
	lineEnd := len(sc.Text)
	if loc.Line < len(sc.lineStarts) {
		lineEnd = sc.lineStarts[loc.Line] - 1
	}
	if loc.Column < 0 || lineStart+loc.Column > lineEnd {
		return 0, fmt.Errorf("%w: column %d not in line %d", ErrIndexOutOfRange, loc.Column, loc.Line)
	}
	return lineStart + loc.Column, nil
}
