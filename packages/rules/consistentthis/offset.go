package consistentthis

import (
	"regexp"

	"ngthis/packages/compiler/src/expression_parser"
	"ngthis/packages/compiler/src/render3"
)

// Leading whitespace at the start of any line of the binding source.
var leadingWhitespace = regexp.MustCompile(`(?m)^\s+`)

// locOffsetFix returns how far the source span of read is shifted to the right.
// Property bindings are parsed from their full value but anchored at the first
// non-blank character, so spans under a bound attribute are off by the leading
// whitespace of the value. Interpolated text is not affected.
func locOffsetFix(read *expression_parser.PropertyRead, ancestors []interface{}) int {
	if !hasBoundAttribute(ancestors) {
		return 0
	}

	source := nearestSource(ancestors)
	if source == nil || source.Source == "" {
		return 0
	}

	switch ast := source.AST.(type) {
	case *expression_parser.Binary:
		return ast.Span().Start
	case *expression_parser.Unary:
		return ast.Span().Start
	}

	if onlyPropertyReadsUntilSource(ancestors) {
		return read.Span().Start
	}

	if match := leadingWhitespace.FindString(source.Source); match != "" {
		return len(match)
	}
	return 0
}

func hasBoundAttribute(ancestors []interface{}) bool {
	for i := len(ancestors) - 1; i >= 0; i-- {
		if _, ok := ancestors[i].(*render3.BoundAttribute); ok {
			return true
		}
	}
	return false
}

func nearestSource(ancestors []interface{}) *expression_parser.ASTWithSource {
	for i := len(ancestors) - 1; i >= 0; i-- {
		if source, ok := ancestors[i].(*expression_parser.ASTWithSource); ok {
			return source
		}
	}
	return nil
}

// onlyPropertyReadsUntilSource reports whether read is the root of a chain
// like `foo.bar.baz` that makes up the whole expression.
func onlyPropertyReadsUntilSource(ancestors []interface{}) bool {
	seen := false
	for i := len(ancestors) - 1; i >= 0; i-- {
		switch ancestors[i].(type) {
		case *expression_parser.ASTWithSource:
			return seen
		case *expression_parser.PropertyRead:
			seen = true
		default:
			return false
		}
	}
	return seen
}
