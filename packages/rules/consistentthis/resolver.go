package consistentthis

import (
	"ngthis/packages/compiler/src/expression_parser"
	"ngthis/packages/compiler/src/render3"
)

// Structural directive inputs that hold template references
var safeStructuralDirectives = map[string]bool{
	"ngIfThen":         true,
	"ngIfElse":         true,
	"ngTemplateOutlet": true,
}

// Names that are never component members
var safeGlobals = map[string]bool{
	"$event": true,
}

// category is the option group a read is checked against
type category int

const (
	categoryProperty category = iota
	categoryVariable
	categoryTemplateReference
)

// group returns the option name and message id suffix of c
func (c category) group() string {
	switch c {
	case categoryVariable:
		return "Variables"
	case categoryTemplateReference:
		return "TemplateReferences"
	}
	return "Properties"
}

// resolve classifies read. It returns false for reads the rule does not check.
// ancestors run from the template root down to the parent of read.
func resolve(read *expression_parser.PropertyRead, recv receiver, ancestors []interface{}, s *scope) (category, bool) {
	if recv == receiverOther {
		return 0, false
	}
	if safeGlobals[read.Name] {
		return 0, false
	}
	if s.isVariable(read.Name) {
		return categoryVariable, true
	}
	// References may be read before they are declared; those are caught below
	// when they feed a structural directive.
	if s.isReference(read.Name) {
		return categoryTemplateReference, true
	}
	if len(ancestors) >= 2 && safeStructuralDirectives[nodeName(ancestors[len(ancestors)-2])] {
		return categoryTemplateReference, true
	}
	return categoryProperty, true
}

// nodeName returns the name carried by a template or expression node
func nodeName(node interface{}) string {
	switch n := node.(type) {
	case *render3.BoundAttribute:
		return n.Name
	case *render3.BoundEvent:
		return n.Name
	case *expression_parser.PropertyRead:
		return n.Name
	case *expression_parser.SafePropertyRead:
		return n.Name
	case *expression_parser.PropertyWrite:
		return n.Name
	case *expression_parser.BindingPipe:
		return n.Name
	}
	return ""
}
