package linter

import (
	"fmt"

	"ngthis/packages/compiler/src/render3"
	"ngthis/packages/compiler/src/util"
)

const templateParserRequiredMessage = "You have used a rule which requires '@angular-eslint/template-parser' to be used as the 'parser' in your ESLint config."

// ParserServices are the span conversions the template parser hands to rules
type ParserServices struct {
	ConvertNodeSourceSpanToLoc    func(span *util.ParseSourceSpan) SourceLocation
	ConvertElementSourceSpanToLoc func(span *util.ParseSourceSpan) SourceLocation
}

// EnsureTemplateParser fails when ctx was not produced by the template parser
func EnsureTemplateParser(ctx *RuleContext) error {
	services := ctx.ParserServices
	if services == nil || services.ConvertNodeSourceSpanToLoc == nil || services.ConvertElementSourceSpanToLoc == nil {
		return fmt.Errorf("%s: %w", templateParserRequiredMessage, ErrTemplateParserRequired)
	}
	return nil
}

// ParseResult is a parsed template ready for traversal
type ParseResult struct {
	Nodes    []render3.Node
	Services *ParserServices
	Errors   []*util.ParseError
}

// ParseTemplate parses text the way the template parser does for ESLint
func ParseTemplate(text, filename string) *ParseResult {
	parsed := render3.ParseTemplate(text, filename, nil)
	return &ParseResult{
		Nodes:    parsed.Nodes,
		Services: newParserServices(),
		Errors:   parsed.Errors,
	}
}

func newParserServices() *ParserServices {
	convert := func(span *util.ParseSourceSpan) SourceLocation {
		return SourceLocation{
			Start: Position{Line: span.Start.Line + 1, Column: span.Start.Col},
			End:   Position{Line: span.End.Line + 1, Column: span.End.Col},
		}
	}
	return &ParserServices{
		ConvertNodeSourceSpanToLoc:    convert,
		ConvertElementSourceSpanToLoc: convert,
	}
}
