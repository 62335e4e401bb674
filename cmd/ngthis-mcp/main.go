// MCP server for ngthis - lints and fixes Angular templates for LLM clients
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"ngthis/packages/component"
	"ngthis/packages/config"
	"ngthis/packages/linter"
	"ngthis/packages/rules"
	"ngthis/packages/rules/consistentthis"
)

const version = "0.1.0"

// TemplateInput is the input of lint_template and fix_template
type TemplateInput struct {
	Template           string `json:"template" jsonschema:"Angular template source, or a TypeScript component file when filename ends in .ts"`
	Filename           string `json:"filename,omitempty" jsonschema:"File name used in messages (default: template.html)"`
	Properties         string `json:"properties,omitempty" jsonschema:"Policy for component properties: explicit or implicit"`
	Variables          string `json:"variables,omitempty" jsonschema:"Policy for template variables: explicit or implicit"`
	TemplateReferences string `json:"templateReferences,omitempty" jsonschema:"Policy for template references: explicit or implicit"`
}

type ListInput struct{}

type fixOutput struct {
	Fixed    bool             `json:"fixed"`
	Output   string           `json:"output"`
	Messages []linter.Message `json:"messages"`
}

type ruleInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Options     json.RawMessage `json:"defaultOptions,omitempty"`
	Messages    []string        `json:"messageIds"`
}

type server struct {
	linter *linter.Linter
	logger *slog.Logger
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	srv, err := newServer(logger)
	if err != nil {
		logger.Error("cannot start", slog.Any("err", err))
		os.Exit(1)
	}

	// Run server on stdio
	if err := srv.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Error("server error", slog.Any("err", err))
	}
}

func newServer(logger *slog.Logger) (*mcp.Server, error) {
	l := linter.New(linter.WithLogger(logger))
	if err := rules.Register(l); err != nil {
		return nil, err
	}
	s := &server{linter: l, logger: logger}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "ngthis",
		Version: version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "lint_template",
		Description: "Lint an Angular template for inconsistent use of `this.` on component properties, template variables and template references. Returns ESLint-style messages with 1-based positions and fixes.",
	}, s.handleLint)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "fix_template",
		Description: "Add or remove `this.` in an Angular template so it follows the configured policies. Returns the fixed source and any remaining messages.",
	}, s.handleFix)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_rules",
		Description: "List the rules ngthis provides with their default options and message ids.",
	}, s.handleListRules)

	return srv, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}

func jsonResult(v interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Encoding error: " + err.Error())
	}
	return textResult(string(data))
}

// configFor applies the policies of input over the default configuration
func configFor(input TemplateInput) (linter.Config, error) {
	cfg := config.Default()
	var overrides []config.Option
	for key, value := range map[string]string{
		"properties":         input.Properties,
		"variables":          input.Variables,
		"templateReferences": input.TemplateReferences,
	} {
		if value != "" {
			overrides = append(overrides, config.WithRuleOption(consistentthis.RuleName, key, value))
		}
	}
	if err := cfg.Apply(overrides...); err != nil {
		return linter.Config{}, err
	}
	return cfg.Linter(), nil
}

func filename(input TemplateInput) string {
	if input.Filename == "" {
		return "template.html"
	}
	return input.Filename
}

func (s *server) handleLint(ctx context.Context, req *mcp.CallToolRequest, input TemplateInput) (*mcp.CallToolResult, any, error) {
	cfg, err := configFor(input)
	if err != nil {
		return errorResult("Invalid options: " + err.Error()), nil, nil
	}
	name := filename(input)
	var messages []linter.Message
	if strings.HasSuffix(name, ".ts") {
		messages, err = component.Verify(ctx, s.linter, input.Template, name, cfg)
	} else {
		messages, err = s.linter.Verify(ctx, input.Template, name, cfg)
	}
	if err != nil {
		return errorResult("Lint error: " + err.Error()), nil, nil
	}
	if messages == nil {
		messages = []linter.Message{}
	}
	s.logger.Debug("lint_template", slog.String("file", name), slog.Int("count", len(messages)))
	return jsonResult(messages), nil, nil
}

func (s *server) handleFix(ctx context.Context, req *mcp.CallToolRequest, input TemplateInput) (*mcp.CallToolResult, any, error) {
	cfg, err := configFor(input)
	if err != nil {
		return errorResult("Invalid options: " + err.Error()), nil, nil
	}
	name := filename(input)
	var report *linter.FixReport
	if strings.HasSuffix(name, ".ts") {
		report, err = component.VerifyAndFix(ctx, s.linter, input.Template, name, cfg)
	} else {
		report, err = s.linter.VerifyAndFix(ctx, input.Template, name, cfg)
	}
	if err != nil {
		return errorResult("Fix error: " + err.Error()), nil, nil
	}
	out := fixOutput{Fixed: report.Fixed, Output: report.Output, Messages: report.Messages}
	if out.Messages == nil {
		out.Messages = []linter.Message{}
	}
	s.logger.Debug("fix_template", slog.String("file", name), slog.Bool("fixed", out.Fixed))
	return jsonResult(out), nil, nil
}

func (s *server) handleListRules(ctx context.Context, req *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, any, error) {
	var out []ruleInfo
	for _, name := range s.linter.Rules() {
		rule, ok := s.linter.Rule(name)
		if !ok {
			continue
		}
		info := ruleInfo{
			Name:        name,
			Description: rule.Meta.Docs.Description,
			Options:     rule.DefaultOptions,
		}
		for id := range rule.Meta.Messages {
			info.Messages = append(info.Messages, id)
		}
		sort.Strings(info.Messages)
		out = append(out, info)
	}
	return jsonResult(out), nil, nil
}
