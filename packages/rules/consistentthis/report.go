package consistentthis

import (
	"log/slog"
	"strings"

	"ngthis/packages/compiler/src/core"
	"ngthis/packages/compiler/src/expression_parser"
	"ngthis/packages/linter"
)

const thisPrefix = "this."

// Policy is whether reads of a group must be written with `this.`
type Policy string

const (
	PolicyExplicit Policy = "explicit"
	PolicyImplicit Policy = "implicit"
)

// Options configures the rule per option group
type Options struct {
	Properties         Policy `json:"properties"`
	Variables          Policy `json:"variables"`
	TemplateReferences Policy `json:"templateReferences"`
}

func (o Options) policy(c category) Policy {
	switch c {
	case categoryVariable:
		return o.Variables
	case categoryTemplateReference:
		return o.TemplateReferences
	}
	return o.Properties
}

// violation returns the message id for a read of c through recv, or "" when
// the read follows the policy.
func (o Options) violation(c category, recv receiver) string {
	switch {
	case o.policy(c) == PolicyExplicit && recv == receiverImplicit:
		return "explicitThis" + c.group()
	case o.policy(c) == PolicyImplicit && recv == receiverExplicit:
		return "implicitThis" + c.group()
	}
	return ""
}

// report emits messageID for read. The fix is attached only when the text at
// the corrected start is what the fix expects to find there.
func report(ctx *linter.RuleContext, messageID string, explicit bool, read *expression_parser.PropertyRead, ancestors []interface{}) {
	sc := ctx.SourceCode
	offset := locOffsetFix(read, ancestors)
	startIndex := clamp(read.SourceSpan().Start-offset, 0, len(sc.Text))
	endIndex := clamp(read.SourceSpan().End-offset, startIndex, len(sc.Text))

	start, err := sc.GetLocFromIndex(startIndex)
	if err != nil {
		ctx.Logger.Warn("cannot locate property read", slog.String("prop", read.Name), slog.Any("err", err))
		return
	}
	end, err := sc.GetLocFromIndex(endIndex)
	if err != nil {
		ctx.Logger.Warn("cannot locate property read", slog.String("prop", read.Name), slog.Any("err", err))
		return
	}

	d := linter.Descriptor{
		MessageID: messageID,
		Data:      map[string]string{"prop": read.Name},
		Loc:       linter.SourceLocation{Start: start, End: end},
	}

	switch {
	case explicit && identifierAt(sc.Text, startIndex, read.Name):
		d.Fix = func(fixer linter.Fixer) *linter.Fix {
			return fixer.InsertTextBeforeRange(linter.Range{startIndex, startIndex}, thisPrefix)
		}
	case !explicit && strings.HasPrefix(sc.Text[startIndex:], thisPrefix) &&
		identifierAt(sc.Text, startIndex+len(thisPrefix), read.Name):
		d.Fix = func(fixer linter.Fixer) *linter.Fix {
			return fixer.ReplaceTextRange(linter.Range{startIndex, startIndex + len(thisPrefix)}, "")
		}
	default:
		ctx.Logger.Debug("fix withheld",
			slog.String("prop", read.Name),
			slog.Int("line", start.Line),
			slog.Int("column", start.Column))
	}
	ctx.Report(d)
}

// identifierAt reports whether text holds exactly the identifier name at index,
// not a longer identifier that merely starts or ends with it.
func identifierAt(text string, index int, name string) bool {
	if index > len(text) || !strings.HasPrefix(text[index:], name) {
		return false
	}
	if index > 0 && core.IsIdentifierPart(text[index-1]) {
		return false
	}
	end := index + len(name)
	return end == len(text) || !core.IsIdentifierPart(text[end])
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
