// Package component extracts the templates of Angular components from
// TypeScript sources.
package component

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ComponentInfo contains information about an Angular component
type ComponentInfo struct {
	FilePath  string
	ClassName string
	Selector  string

	// Template is the inline template as written between its quotes and
	// TemplateOffset is its byte offset in the file. Inline is set when the
	// component has a template property.
	Inline         bool
	Template       string
	TemplateOffset int
	// Dynamic is set for template literals with ${} substitutions, which are
	// not linted.
	Dynamic bool

	TemplateUrl string
}

// HasInlineTemplate reports whether the component carries a lintable inline template
func (c ComponentInfo) HasInlineTemplate() bool {
	return c.Inline && !c.Dynamic
}

// TemplatePath resolves TemplateUrl relative to the component file
func (c ComponentInfo) TemplatePath() string {
	if c.TemplateUrl == "" {
		return ""
	}
	return filepath.Clean(filepath.Join(filepath.Dir(c.FilePath), c.TemplateUrl))
}

// FindComponents returns the @Component classes of a TypeScript file in source order
func FindComponents(ctx context.Context, content []byte, filePath string) ([]ComponentInfo, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	var components []ComponentInfo
	walk(tree.RootNode(), func(n *sitter.Node) {
		switch n.Type() {
		case "class_declaration", "abstract_class_declaration":
		default:
			return
		}
		args := componentArguments(n, content)
		if args == nil {
			return
		}
		comp := ComponentInfo{FilePath: filePath}
		if name := n.ChildByFieldName("name"); name != nil {
			comp.ClassName = name.Content(content)
		}
		readMetadata(args, content, &comp)
		components = append(components, comp)
	})
	return components, nil
}

func walk(n *sitter.Node, visit func(*sitter.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walk(n.NamedChild(i), visit)
	}
}

// componentArguments returns the object literal passed to @Component on class,
// looking at the export statement for decorators written before `export`.
func componentArguments(class *sitter.Node, content []byte) *sitter.Node {
	holders := []*sitter.Node{class}
	if parent := class.Parent(); parent != nil && parent.Type() == "export_statement" {
		holders = append(holders, parent)
	}
	for _, holder := range holders {
		for i := 0; i < int(holder.NamedChildCount()); i++ {
			child := holder.NamedChild(i)
			if child.Type() != "decorator" {
				continue
			}
			if obj := decoratorObject(child, content, "Component"); obj != nil {
				return obj
			}
		}
	}
	return nil
}

func decoratorObject(decorator *sitter.Node, content []byte, name string) *sitter.Node {
	for i := 0; i < int(decorator.NamedChildCount()); i++ {
		call := decorator.NamedChild(i)
		if call.Type() != "call_expression" {
			continue
		}
		fn := call.ChildByFieldName("function")
		if fn == nil || fn.Content(content) != name {
			continue
		}
		args := call.ChildByFieldName("arguments")
		if args == nil {
			continue
		}
		for j := 0; j < int(args.NamedChildCount()); j++ {
			if arg := args.NamedChild(j); arg.Type() == "object" {
				return arg
			}
		}
	}
	return nil
}

func readMetadata(obj *sitter.Node, content []byte, comp *ComponentInfo) {
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		pair := obj.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		key, value := pair.ChildByFieldName("key"), pair.ChildByFieldName("value")
		if key == nil || value == nil {
			continue
		}
		text, offset, dynamic, ok := stringLiteral(value, content)
		if !ok {
			continue
		}
		switch strings.Trim(key.Content(content), `"'`) {
		case "selector":
			comp.Selector = text
		case "template":
			comp.Inline = true
			comp.Template = text
			comp.TemplateOffset = offset
			comp.Dynamic = dynamic
		case "templateUrl":
			comp.TemplateUrl = text
		}
	}
}

// stringLiteral returns the raw text between the quotes of a string or
// template literal and the byte offset of that text.
func stringLiteral(n *sitter.Node, content []byte) (string, int, bool, bool) {
	switch n.Type() {
	case "string", "template_string":
	default:
		return "", 0, false, false
	}
	start, end := int(n.StartByte())+1, int(n.EndByte())-1
	if end < start {
		return "", 0, false, false
	}
	dynamic := false
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == "template_substitution" {
			dynamic = true
		}
	}
	return string(content[start:end]), start, dynamic, true
}
