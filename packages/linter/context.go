package linter

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// RuleContext is what a rule sees of the template being linted
type RuleContext struct {
	ID             string
	Options        json.RawMessage
	Filename       string
	SourceCode     *SourceCode
	ParserServices *ParserServices
	Logger         *slog.Logger

	meta     *RuleMeta
	severity Severity
	problems []Message
	err      error
}

// Report records a problem. Reporting an unknown message id fails the Verify call.
func (ctx *RuleContext) Report(d Descriptor) {
	if ctx.err != nil {
		return
	}
	text, ok := ctx.meta.Messages[d.MessageID]
	if !ok {
		ctx.err = fmt.Errorf("rule %q: %w: %q", ctx.ID, ErrUnknownMessageID, d.MessageID)
		return
	}
	msg := Message{
		RuleID:    ctx.ID,
		MessageID: d.MessageID,
		Message:   interpolate(text, d.Data),
		Severity:  ctx.severity,
		Line:      d.Loc.Start.Line,
		Column:    d.Loc.Start.Column + 1,
		EndLine:   d.Loc.End.Line,
		EndColumn: d.Loc.End.Column + 1,
	}
	if d.Fix != nil {
		if ctx.meta.Fixable == "" {
			ctx.err = fmt.Errorf("rule %q: %w", ctx.ID, ErrFixNotAllowed)
			return
		}
		msg.Fix = d.Fix(Fixer{})
	}
	ctx.Logger.Debug("problem reported",
		slog.String("rule", ctx.ID),
		slog.String("messageId", d.MessageID),
		slog.Int("line", msg.Line),
		slog.Int("column", msg.Column))
	ctx.problems = append(ctx.problems, msg)
}

// DecodeOptions decodes the merged options of the rule into v
func (ctx *RuleContext) DecodeOptions(v interface{}) error {
	if len(ctx.Options) == 0 {
		return nil
	}
	if err := json.Unmarshal(ctx.Options, v); err != nil {
		return fmt.Errorf("rule %q: %w: %v", ctx.ID, ErrInvalidOptions, err)
	}
	return nil
}
