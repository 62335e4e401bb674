package linter

import (
	"ngthis/packages/compiler/src/expression_parser"
	"ngthis/packages/compiler/src/render3"
)

// NodeType returns the listener key of a template or expression node
func NodeType(node interface{}) string {
	switch node.(type) {
	case *render3.Element:
		return "Element"
	case *render3.Template:
		return "Template"
	case *render3.Text:
		return "Text"
	case *render3.BoundText:
		return "BoundText"
	case *render3.TextAttribute:
		return "TextAttribute"
	case *render3.BoundAttribute:
		return "BoundAttribute"
	case *render3.BoundEvent:
		return "BoundEvent"
	case *render3.Variable:
		return "Variable"
	case *render3.Reference:
		return "Reference"
	case *expression_parser.ASTWithSource:
		return "ASTWithSource"
	case *expression_parser.EmptyExpr:
		return "EmptyExpr"
	case *expression_parser.ImplicitReceiver:
		return "ImplicitReceiver"
	case *expression_parser.ThisReceiver:
		return "ThisReceiver"
	case *expression_parser.Chain:
		return "Chain"
	case *expression_parser.Conditional:
		return "Conditional"
	case *expression_parser.PropertyRead:
		return "PropertyRead"
	case *expression_parser.PropertyWrite:
		return "PropertyWrite"
	case *expression_parser.SafePropertyRead:
		return "SafePropertyRead"
	case *expression_parser.KeyedRead:
		return "KeyedRead"
	case *expression_parser.SafeKeyedRead:
		return "SafeKeyedRead"
	case *expression_parser.KeyedWrite:
		return "KeyedWrite"
	case *expression_parser.BindingPipe:
		return "BindingPipe"
	case *expression_parser.LiteralPrimitive:
		return "LiteralPrimitive"
	case *expression_parser.LiteralArray:
		return "LiteralArray"
	case *expression_parser.LiteralMap:
		return "LiteralMap"
	case *expression_parser.Interpolation:
		return "Interpolation"
	case *expression_parser.Binary:
		return "Binary"
	case *expression_parser.Unary:
		return "Unary"
	case *expression_parser.PrefixNot:
		return "PrefixNot"
	case *expression_parser.TypeofExpression:
		return "TypeofExpression"
	case *expression_parser.NonNullAssert:
		return "NonNullAssert"
	case *expression_parser.Call:
		return "Call"
	case *expression_parser.SafeCall:
		return "SafeCall"
	case *expression_parser.ParenthesizedExpression:
		return "ParenthesizedExpression"
	}
	return ""
}

// children returns the nodes below node in visiting order
func children(node interface{}) []interface{} {
	var out []interface{}
	switch n := node.(type) {
	case *render3.Element:
		for _, child := range render3.ElementChildren(n) {
			out = append(out, child)
		}
	case *render3.Template:
		for _, child := range render3.TemplateChildren(n) {
			out = append(out, child)
		}
	case *render3.BoundText:
		out = appendAST(out, n.Value)
	case *render3.BoundAttribute:
		out = appendAST(out, n.Value)
	case *render3.BoundEvent:
		out = appendAST(out, n.Handler)
	case expression_parser.AST:
		for _, child := range expression_parser.ChildNodes(n) {
			out = appendAST(out, child)
		}
	}
	return out
}

func appendAST(out []interface{}, ast expression_parser.AST) []interface{} {
	if ast == nil {
		return out
	}
	return append(out, ast)
}

// Traverse walks nodes depth first and calls visit on entry to every node.
// ancestors is shared between calls; visit must copy it to keep it.
func Traverse(nodes []render3.Node, visit func(node interface{}, ancestors []interface{})) {
	var ancestors []interface{}
	var walk func(node interface{})
	walk = func(node interface{}) {
		visit(node, ancestors)
		ancestors = append(ancestors, node)
		for _, child := range children(node) {
			walk(child)
		}
		ancestors = ancestors[:len(ancestors)-1]
	}
	for _, node := range nodes {
		walk(node)
	}
}
