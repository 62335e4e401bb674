// Package consistentthis enforces a consistent `this.` prefix on property reads in
// Angular templates. Component properties, template variables and template
// references each have their own policy.
package consistentthis

import (
	"encoding/json"

	"ngthis/packages/compiler/src/expression_parser"
	"ngthis/packages/compiler/src/render3"
	"ngthis/packages/linter"
)

// RuleName is the id the rule is registered under
const RuleName = "eslint-plugin-angular-template-consistent-this"

// DefaultOptions are used for option groups that are not configured
var DefaultOptions = Options{
	Properties:         PolicyExplicit,
	Variables:          PolicyImplicit,
	TemplateReferences: PolicyImplicit,
}

var defaultOptions = json.RawMessage(`{"properties": "explicit", "variables": "implicit", "templateReferences": "implicit"}`)

const schema = `{
	"type": "object",
	"properties": {
		"properties": {"type": "string", "enum": ["explicit", "implicit"], "default": "explicit"},
		"variables": {"type": "string", "enum": ["explicit", "implicit"], "default": "implicit"},
		"templateReferences": {"type": "string", "enum": ["explicit", "implicit"], "default": "implicit"}
	},
	"additionalProperties": false
}`

// Rule returns the rule definition
func Rule() *linter.Rule {
	return &linter.Rule{
		Meta: linter.RuleMeta{
			Type: linter.RuleTypeSuggestion,
			Docs: linter.RuleDocs{
				Description: "enforce consistent this for properties, variables & template references",
			},
			Fixable: "code",
			Schema:  json.RawMessage(schema),
			Messages: map[string]string{
				"explicitThisProperties":         "Use explicit this for property `{{prop}}`.",
				"implicitThisProperties":         "Don't use explicit this for property `{{prop}}`.",
				"explicitThisVariables":          "Use explicit this for variable `{{prop}}`.",
				"implicitThisVariables":          "Don't use explicit this for variable `{{prop}}`.",
				"explicitThisTemplateReferences": "Use explicit this for template references `{{prop}}`.",
				"implicitThisTemplateReferences": "Don't use explicit this for template references `{{prop}}`.",
			},
		},
		DefaultOptions: defaultOptions,
		Create:         create,
	}
}

func create(ctx *linter.RuleContext) (linter.RuleListener, error) {
	if err := linter.EnsureTemplateParser(ctx); err != nil {
		return nil, err
	}
	opts := DefaultOptions
	if err := ctx.DecodeOptions(&opts); err != nil {
		return nil, err
	}

	s := newScope()
	return linter.RuleListener{
		"Template": func(node interface{}, _ []interface{}) {
			s.enterTemplate(node.(*render3.Template))
		},
		"Element": func(node interface{}, _ []interface{}) {
			s.enterElement(node.(*render3.Element))
		},
		"PropertyRead": func(node interface{}, ancestors []interface{}) {
			read := node.(*expression_parser.PropertyRead)
			recv := classifyReceiver(read)
			c, ok := resolve(read, recv, ancestors, s)
			if !ok {
				return
			}
			if messageID := opts.violation(c, recv); messageID != "" {
				report(ctx, messageID, recv == receiverImplicit, read, ancestors)
			}
		},
	}, nil
}
