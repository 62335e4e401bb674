package linter

import (
	"sort"
	"strings"
)

const maxFixPasses = 10

// FixReport is the outcome of applying the fixes of one pass
type FixReport struct {
	Fixed    bool
	Output   string
	Messages []Message
}

// ApplyFixes applies the non-overlapping fixes of messages to text in range order.
// A fix that starts at or before the end of the previously applied fix is left
// out and its message is returned with the remaining messages.
func ApplyFixes(text string, messages []Message) FixReport {
	var fixes, remaining []Message
	for _, msg := range messages {
		if msg.Fix != nil {
			fixes = append(fixes, msg)
		} else {
			remaining = append(remaining, msg)
		}
	}
	if len(fixes) == 0 {
		return FixReport{Output: text, Messages: messages}
	}

	sort.SliceStable(fixes, func(i, j int) bool {
		a, b := fixes[i].Fix.Range, fixes[j].Fix.Range
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		return a[1] < b[1]
	})

	var out strings.Builder
	lastPos := -1
	fixed := false
	for _, msg := range fixes {
		start, end := msg.Fix.Range[0], msg.Fix.Range[1]
		if lastPos >= start || start > end || start < 0 || end > len(text) {
			remaining = append(remaining, msg)
			continue
		}
		out.WriteString(text[max(0, lastPos):start])
		out.WriteString(msg.Fix.Text)
		lastPos = end
		fixed = true
	}
	out.WriteString(text[max(0, lastPos):])

	SortMessages(remaining)
	return FixReport{Fixed: fixed, Output: out.String(), Messages: remaining}
}

// SortMessages orders messages by line, then column
func SortMessages(messages []Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].Line != messages[j].Line {
			return messages[i].Line < messages[j].Line
		}
		return messages[i].Column < messages[j].Column
	})
}
