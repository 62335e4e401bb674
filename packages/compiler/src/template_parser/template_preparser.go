package template_parser

import (
	"strings"

	"ngthis/packages/compiler/src/ml_parser"
)

const NG_CONTENT_SELECT_ATTR = "select"
const LINK_ELEMENT = "link"
const LINK_STYLE_REL_ATTR = "rel"
const LINK_STYLE_REL_VALUE = "stylesheet"
const STYLE_ELEMENT = "style"
const SCRIPT_ELEMENT = "script"
const NG_NON_BINDABLE_ATTR = "ngNonBindable"

// PreparsedElementType represents the type of a preparsed element
type PreparsedElementType int

const (
	PreparsedElementTypeNgContent PreparsedElementType = iota
	PreparsedElementTypeStyle
	PreparsedElementTypeStylesheet
	PreparsedElementTypeScript
	PreparsedElementTypeOther
)

// PreparsedElement is what the template transform needs to know about an element
// before looking at its bindings
type PreparsedElement struct {
	Type        PreparsedElementType
	SelectAttr  string
	NonBindable bool
}

// PreparseElement classifies ast and picks out ngNonBindable and the ng-content selector
func PreparseElement(ast *ml_parser.Element) *PreparsedElement {
	selectAttr := ""
	relAttr := ""
	nonBindable := false

	for _, attr := range ast.Attrs {
		switch lcAttrName := strings.ToLower(attr.Name); {
		case lcAttrName == NG_CONTENT_SELECT_ATTR:
			selectAttr = attr.Value
		case lcAttrName == LINK_STYLE_REL_ATTR:
			relAttr = attr.Value
		case attr.Name == NG_NON_BINDABLE_ATTR:
			nonBindable = true
		}
	}
	if selectAttr == "" {
		selectAttr = "*"
	}

	elementType := PreparsedElementTypeOther
	nodeName := strings.ToLower(ast.Name)
	switch {
	case ml_parser.IsNgContent(nodeName):
		elementType = PreparsedElementTypeNgContent
	case nodeName == STYLE_ELEMENT:
		elementType = PreparsedElementTypeStyle
	case nodeName == SCRIPT_ELEMENT:
		elementType = PreparsedElementTypeScript
	case nodeName == LINK_ELEMENT && relAttr == LINK_STYLE_REL_VALUE:
		elementType = PreparsedElementTypeStylesheet
	}

	return &PreparsedElement{Type: elementType, SelectAttr: selectAttr, NonBindable: nonBindable}
}
