package component

import (
	"context"
	"fmt"

	"ngthis/packages/linter"
)

// Verify lints the inline templates of a TypeScript file. Messages are
// positioned in the TypeScript file and their fixes edit it.
func Verify(ctx context.Context, l *linter.Linter, text, filename string, config linter.Config) ([]linter.Message, error) {
	components, err := FindComponents(ctx, []byte(text), filename)
	if err != nil {
		return nil, err
	}
	file := linter.NewSourceCode(text)
	var out []linter.Message
	for _, comp := range components {
		if !comp.HasInlineTemplate() {
			continue
		}
		messages, err := l.Verify(ctx, comp.Template, filename, config)
		if err != nil {
			return nil, fmt.Errorf("template of %s: %w", comp.ClassName, err)
		}
		tmpl := linter.NewSourceCode(comp.Template)
		for _, m := range messages {
			out = append(out, relocate(m, tmpl, file, comp.TemplateOffset))
		}
	}
	linter.SortMessages(out)
	return out, nil
}

// VerifyAndFix fixes the inline templates of a TypeScript file in place
func VerifyAndFix(ctx context.Context, l *linter.Linter, text, filename string, config linter.Config) (*linter.FixReport, error) {
	return l.FixWith(ctx, text, filename, func(ctx context.Context, text string) ([]linter.Message, error) {
		return Verify(ctx, l, text, filename, config)
	})
}

// relocate moves a message from template coordinates into the file that
// embeds the template at offset.
func relocate(m linter.Message, tmpl, file *linter.SourceCode, offset int) linter.Message {
	m.Line, m.Column = shift(m.Line, m.Column, tmpl, file, offset)
	if m.EndLine > 0 {
		m.EndLine, m.EndColumn = shift(m.EndLine, m.EndColumn, tmpl, file, offset)
	}
	if m.Fix != nil {
		fix := *m.Fix
		fix.Range = linter.Range{fix.Range[0] + offset, fix.Range[1] + offset}
		m.Fix = &fix
	}
	return m
}

func shift(line, column int, tmpl, file *linter.SourceCode, offset int) (int, int) {
	index, err := tmpl.GetIndexFromLoc(linter.Position{Line: line, Column: column - 1})
	if err != nil {
		return line, column
	}
	pos, err := file.GetLocFromIndex(offset + index)
	if err != nil {
		return line, column
	}
	return pos.Line, pos.Column + 1
}
