package render3

import (
	"ngthis/packages/compiler/src/expression_parser"
	"ngthis/packages/compiler/src/ml_parser"
	"ngthis/packages/compiler/src/template_parser"
	"ngthis/packages/compiler/src/util"
)

// ParseTemplateOptions are options that can be used to modify how a template is parsed by `ParseTemplate()`.
type ParseTemplateOptions struct {
	// LeadingTriviaChars are skipped at the start of text and attribute value spans.
	// Defaults to ml_parser.LeadingTriviaChars.
	LeadingTriviaChars []byte

	// AlwaysAttemptHtmlToR3AstConversion converts the HTML tree even when it has parse errors.
	// The HTML errors are still returned.
	AlwaysAttemptHtmlToR3AstConversion bool
}

// ParsedTemplate is the template AST plus any errors met while building it.
// Errors is nil when parsing succeeded.
type ParsedTemplate struct {
	Errors []*util.ParseError
	Nodes  []Node
}

// ParseTemplate parses template into render3 `Node`s. Offsets in the result are byte offsets
// into template; the text is neither entity-decoded nor line-ending normalized.
func ParseTemplate(template string, templateUrl string, options *ParseTemplateOptions) *ParsedTemplate {
	if options == nil {
		options = &ParseTemplateOptions{}
	}
	leadingTrivia := options.LeadingTriviaChars
	if leadingTrivia == nil {
		leadingTrivia = ml_parser.LeadingTriviaChars
	}

	parseResult := ml_parser.NewHtmlParser().Parse(template, templateUrl, &ml_parser.TokenizeOptions{
		LeadingTriviaChars: leadingTrivia,
	})
	if len(parseResult.Errors) > 0 && !options.AlwaysAttemptHtmlToR3AstConversion {
		return &ParsedTemplate{Errors: parseResult.Errors}
	}

	bindingParser := MakeBindingParser()
	r3Result := HtmlAstToRender3Ast(parseResult.RootNodes, bindingParser)

	errors := append(append([]*util.ParseError{}, parseResult.Errors...), r3Result.Errors...)
	if len(errors) == 0 {
		errors = nil
	}
	return &ParsedTemplate{Errors: errors, Nodes: r3Result.Nodes}
}

// MakeBindingParser constructs a binding parser with a fresh expression parser
func MakeBindingParser() *template_parser.BindingParser {
	return template_parser.NewBindingParser(expression_parser.NewParser(expression_parser.NewLexer()))
}
