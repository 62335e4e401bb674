package linter

import (
	"encoding/json"
	"strings"
)

// RuleType classifies a rule the way ESLint does
type RuleType string

const (
	RuleTypeProblem    RuleType = "problem"
	RuleTypeSuggestion RuleType = "suggestion"
	RuleTypeLayout     RuleType = "layout"
)

// RuleDocs is the documentation block of a rule
type RuleDocs struct {
	Description string `json:"description"`
	Recommended bool   `json:"recommended"`
}

// RuleMeta describes a rule. Schema is the JSON Schema of the options object.
type RuleMeta struct {
	Type     RuleType          `json:"type"`
	Docs     RuleDocs          `json:"docs"`
	Fixable  string            `json:"fixable,omitempty"`
	Schema   json.RawMessage   `json:"schema,omitempty"`
	Messages map[string]string `json:"messages"`
}

// NodeHandler is called on entry to a node. ancestors run from the outermost
// template node down to the node's parent.
type NodeHandler func(node interface{}, ancestors []interface{})

// RuleListener maps node type names to handlers. A key may list several
// names separated by commas, e.g. "Element,Template".
type RuleListener map[string]NodeHandler

// Rule is a lint rule. Create is called once per linted template, so any state it
// closes over starts fresh for every file.
type Rule struct {
	Meta           RuleMeta
	DefaultOptions json.RawMessage
	Create         func(ctx *RuleContext) (RuleListener, error)
}

// Range is a half-open byte range [start, end)
type Range [2]int

// Fix replaces Range with Text
type Fix struct {
	Range Range  `json:"range"`
	Text  string `json:"text"`
}

// Fixer builds fixes
type Fixer struct{}

// InsertTextBeforeRange inserts text before r
func (Fixer) InsertTextBeforeRange(r Range, text string) *Fix {
	return &Fix{Range: Range{r[0], r[0]}, Text: text}
}

// InsertTextAfterRange inserts text after r
func (Fixer) InsertTextAfterRange(r Range, text string) *Fix {
	return &Fix{Range: Range{r[1], r[1]}, Text: text}
}

// ReplaceTextRange replaces r with text
func (Fixer) ReplaceTextRange(r Range, text string) *Fix {
	return &Fix{Range: r, Text: text}
}

// RemoveRange deletes r
func (Fixer) RemoveRange(r Range) *Fix {
	return &Fix{Range: r}
}

// Descriptor is one problem reported by a rule
type Descriptor struct {
	MessageID string
	Data      map[string]string
	Loc       SourceLocation
	// Fix is optional; returning nil means the problem has no fix.
	Fix func(fixer Fixer) *Fix
}

// interpolate fills `{{ name }}` placeholders from data. Unknown names stay as they are.
func interpolate(text string, data map[string]string) string {
	if len(data) == 0 {
		return text
	}
	var b strings.Builder
	for {
		open := strings.Index(text, "{{")
		if open < 0 {
			break
		}
		closing := strings.Index(text[open+2:], "}}")
		if closing < 0 {
			break
		}
		key := text[open+2 : open+2+closing]
		if strings.ContainsAny(key, "{}") {
			b.WriteString(text[:open+1])
			text = text[open+1:]
			continue
		}
		b.WriteString(text[:open])
		if value, ok := data[strings.TrimSpace(key)]; ok {
			b.WriteString(value)
		} else {
			b.WriteString(text[open : open+4+closing])
		}
		text = text[open+4+closing:]
	}
	b.WriteString(text)
	return b.String()
}
