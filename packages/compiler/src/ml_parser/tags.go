package ml_parser

import (
	"strings"
)

// TagContentType represents the content type of a tag
type TagContentType int

const (
	TagContentTypeRAW_TEXT TagContentType = iota
	TagContentTypeESCAPABLE_RAW_TEXT
	TagContentTypePARSABLE_DATA
)

// TagDefinition defines how the tree builder treats an HTML tag
type TagDefinition struct {
	closedByChildren        map[string]bool
	ClosedByParent          bool
	IsVoid                  bool
	ImplicitNamespacePrefix string
	ContentType             TagContentType
}

// IsClosedByChild reports whether an open tag of this kind is implicitly closed by name
func (d *TagDefinition) IsClosedByChild(name string) bool {
	return d.IsVoid || d.closedByChildren[strings.ToLower(name)]
}

func newTagDefinition(contentType TagContentType, isVoid, closedByParent bool, closedByChildren ...string) *TagDefinition {
	def := &TagDefinition{
		closedByChildren: make(map[string]bool, len(closedByChildren)),
		ClosedByParent:   closedByParent || isVoid,
		IsVoid:           isVoid,
		ContentType:      contentType,
	}
	for _, child := range closedByChildren {
		def.closedByChildren[child] = true
	}
	return def
}

var defaultTagDefinition = newTagDefinition(TagContentTypePARSABLE_DATA, false, false)

var tagDefinitions = map[string]*TagDefinition{}

func init() {
	for _, name := range []string{"base", "meta", "area", "embed", "link", "img", "input", "param", "hr", "br", "source", "track", "wbr", "col"} {
		tagDefinitions[name] = newTagDefinition(TagContentTypePARSABLE_DATA, true, false)
	}
	tagDefinitions["p"] = newTagDefinition(TagContentTypePARSABLE_DATA, false, true,
		"address", "article", "aside", "blockquote", "div", "dl", "fieldset", "footer", "form",
		"h1", "h2", "h3", "h4", "h5", "h6", "header", "hgroup", "hr", "main", "nav", "ol", "p",
		"pre", "section", "table", "ul")
	tagDefinitions["thead"] = newTagDefinition(TagContentTypePARSABLE_DATA, false, false, "tbody", "tfoot")
	tagDefinitions["tbody"] = newTagDefinition(TagContentTypePARSABLE_DATA, false, true, "tbody", "tfoot")
	tagDefinitions["tfoot"] = newTagDefinition(TagContentTypePARSABLE_DATA, false, true, "tbody")
	tagDefinitions["tr"] = newTagDefinition(TagContentTypePARSABLE_DATA, false, true, "tr")
	tagDefinitions["td"] = newTagDefinition(TagContentTypePARSABLE_DATA, false, true, "td", "th")
	tagDefinitions["th"] = newTagDefinition(TagContentTypePARSABLE_DATA, false, true, "td", "th")
	tagDefinitions["li"] = newTagDefinition(TagContentTypePARSABLE_DATA, false, true, "li")
	tagDefinitions["dt"] = newTagDefinition(TagContentTypePARSABLE_DATA, false, false, "dt", "dd")
	tagDefinitions["dd"] = newTagDefinition(TagContentTypePARSABLE_DATA, false, true, "dt", "dd")
	tagDefinitions["option"] = newTagDefinition(TagContentTypePARSABLE_DATA, false, true, "option", "optgroup")
	tagDefinitions["optgroup"] = newTagDefinition(TagContentTypePARSABLE_DATA, false, true, "optgroup")
	tagDefinitions["svg"] = &TagDefinition{ImplicitNamespacePrefix: "svg", ContentType: TagContentTypePARSABLE_DATA}
	tagDefinitions["math"] = &TagDefinition{ImplicitNamespacePrefix: "math", ContentType: TagContentTypePARSABLE_DATA}
	tagDefinitions["style"] = newTagDefinition(TagContentTypeRAW_TEXT, false, false)
	tagDefinitions["script"] = newTagDefinition(TagContentTypeRAW_TEXT, false, false)
	tagDefinitions["title"] = newTagDefinition(TagContentTypeESCAPABLE_RAW_TEXT, false, false)
	tagDefinitions["textarea"] = newTagDefinition(TagContentTypeESCAPABLE_RAW_TEXT, false, false)
}

// GetHtmlTagDefinition returns the definition of tagName, or a permissive default
func GetHtmlTagDefinition(tagName string) *TagDefinition {
	if def, ok := tagDefinitions[strings.ToLower(tagName)]; ok {
		return def
	}
	return defaultTagDefinition
}

// SplitNsName splits a ":namespace:name" string into namespace and name
func SplitNsName(elementName string) (string, string) {
	if len(elementName) == 0 || elementName[0] != ':' {
		return "", elementName
	}
	colonIndex := strings.Index(elementName[1:], ":")
	if colonIndex == -1 {
		return "", elementName
	}
	colonIndex++
	return elementName[1:colonIndex], elementName[colonIndex+1:]
}

// IsNgTemplate checks if a tag name is ng-template
func IsNgTemplate(tagName string) bool {
	_, name := SplitNsName(tagName)
	return name == "ng-template"
}

// IsNgContent checks if a tag name is ng-content
func IsNgContent(tagName string) bool {
	_, name := SplitNsName(tagName)
	return name == "ng-content"
}

// MergeNsAndName merges namespace prefix and local name
func MergeNsAndName(prefix, localName string) string {
	if prefix != "" {
		return ":" + prefix + ":" + localName
	}
	return localName
}
