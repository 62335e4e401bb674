package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"ngthis/packages/linter"
)

type formatter struct {
	w     io.Writer
	kind  string
	color bool

	path, position, errorSev, warningSev, ruleID lipgloss.Style
}

func newFormatter(opts *options, w io.Writer) *formatter {
	f := &formatter{w: w, kind: opts.format}
	if file, ok := w.(*os.File); ok && !opts.noColor && term.IsTerminal(int(file.Fd())) {
		f.color = true
	}
	r := lipgloss.NewRenderer(w)
	f.path = r.NewStyle().Underline(true)
	f.position = r.NewStyle().Faint(true)
	f.errorSev = r.NewStyle().Foreground(lipgloss.Color("1"))
	f.warningSev = r.NewStyle().Foreground(lipgloss.Color("3"))
	f.ruleID = r.NewStyle().Faint(true)
	return f
}

func (f *formatter) style(s lipgloss.Style, text string) string {
	if !f.color {
		return text
	}
	return s.Render(text)
}

func (f *formatter) format(results []*fileResult) error {
	if f.kind == "json" {
		enc := json.NewEncoder(f.w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	_, err := io.WriteString(f.w, f.stylish(results))
	return err
}

func pad(text string, width int) string {
	if n := utf8.RuneCountInString(text); n < width {
		return text + strings.Repeat(" ", width-n)
	}
	return text
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// stylish renders results the way the ESLint stylish formatter does
func (f *formatter) stylish(results []*fileResult) string {
	var b strings.Builder
	var errors, warnings, fixableErrors, fixableWarnings int
	for _, res := range results {
		if len(res.Messages) == 0 {
			continue
		}
		errors += res.ErrorCount
		warnings += res.WarningCount
		fixableErrors += res.FixableErrorCount
		fixableWarnings += res.FixableWarningCount

		type row struct{ pos, sev, msg, rule string }
		rows := make([]row, 0, len(res.Messages))
		var posW, sevW, msgW int
		for _, m := range res.Messages {
			r := row{pos: fmt.Sprintf("%d:%d", m.Line, m.Column), sev: "warning", msg: m.Message, rule: m.RuleID}
			if m.Fatal || m.Severity == linter.SeverityError {
				r.sev = "error"
			}
			posW = max(posW, len(r.pos))
			sevW = max(sevW, len(r.sev))
			msgW = max(msgW, utf8.RuneCountInString(r.msg))
			rows = append(rows, r)
		}

		fmt.Fprintf(&b, "\n%s\n", f.style(f.path, res.FilePath))
		for _, r := range rows {
			sevStyle := f.warningSev
			if r.sev == "error" {
				sevStyle = f.errorSev
			}
			pos := strings.Repeat(" ", posW-len(r.pos)) + r.pos
			line := fmt.Sprintf("  %s  %s  %s  %s",
				f.style(f.position, pos),
				f.style(sevStyle, pad(r.sev, sevW)),
				pad(r.msg, msgW),
				f.style(f.ruleID, r.rule))
			b.WriteString(strings.TrimRight(line, " ") + "\n")
		}
	}

	total := errors + warnings
	if total == 0 {
		return b.String()
	}
	summaryStyle := f.warningSev.Bold(true)
	if errors > 0 {
		summaryStyle = f.errorSev.Bold(true)
	}
	summary := fmt.Sprintf("✖ %d %s (%d %s, %d %s)", total, plural(total, "problem"),
		errors, plural(errors, "error"), warnings, plural(warnings, "warning"))
	fmt.Fprintf(&b, "\n%s\n", f.style(summaryStyle, summary))
	if fixableErrors+fixableWarnings > 0 {
		fixable := fmt.Sprintf("  %d %s and %d %s potentially fixable with the `--fix` option.",
			fixableErrors, plural(fixableErrors, "error"), fixableWarnings, plural(fixableWarnings, "warning"))
		fmt.Fprintf(&b, "%s\n", f.style(summaryStyle, fixable))
	}
	return b.String()
}
