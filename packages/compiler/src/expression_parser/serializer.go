package expression_parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Serialize serializes the given AST into a normalized string format
func Serialize(expression AST) string {
	return expression.Visit(&SerializeExpressionVisitor{}, nil).(string)
}

// SerializeExpressionVisitor is a visitor that serializes AST to string
type SerializeExpressionVisitor struct{}

var _ AstVisitor = (*SerializeExpressionVisitor)(nil)

func (s *SerializeExpressionVisitor) str(ast AST, context interface{}) string {
	return ast.Visit(s, context).(string)
}

func (s *SerializeExpressionVisitor) list(asts []AST, context interface{}, sep string) string {
	parts := make([]string, len(asts))
	for i, ast := range asts {
		parts[i] = s.str(ast, context)
	}
	return strings.Join(parts, sep)
}

// VisitUnary visits a unary expression
func (s *SerializeExpressionVisitor) VisitUnary(ast *Unary, context interface{}) interface{} {
	return ast.Operator + s.str(ast.Expr, context)
}

// VisitBinary visits a binary expression
func (s *SerializeExpressionVisitor) VisitBinary(ast *Binary, context interface{}) interface{} {
	return fmt.Sprintf("%s %s %s", s.str(ast.Left, context), ast.Operation, s.str(ast.Right, context))
}

// VisitChain visits a chain expression
func (s *SerializeExpressionVisitor) VisitChain(ast *Chain, context interface{}) interface{} {
	return s.list(ast.Expressions, context, "; ")
}

// VisitConditional visits a conditional expression
func (s *SerializeExpressionVisitor) VisitConditional(ast *Conditional, context interface{}) interface{} {
	return fmt.Sprintf("%s ? %s : %s",
		s.str(ast.Condition, context),
		s.str(ast.TrueExp, context),
		s.str(ast.FalseExp, context))
}

// VisitThisReceiver visits a this receiver
func (s *SerializeExpressionVisitor) VisitThisReceiver(ast *ThisReceiver, context interface{}) interface{} {
	return "this"
}

// VisitImplicitReceiver visits an implicit receiver
func (s *SerializeExpressionVisitor) VisitImplicitReceiver(ast *ImplicitReceiver, context interface{}) interface{} {
	return ""
}

// VisitInterpolation visits an interpolation
func (s *SerializeExpressionVisitor) VisitInterpolation(ast *Interpolation, context interface{}) interface{} {
	var b strings.Builder
	for i, str := range ast.Strings {
		b.WriteString(str)
		if i < len(ast.Expressions) {
			b.WriteString("{{ ")
			b.WriteString(s.str(ast.Expressions[i], context))
			b.WriteString(" }}")
		}
	}
	return b.String()
}

// VisitKeyedRead visits a keyed read
func (s *SerializeExpressionVisitor) VisitKeyedRead(ast *KeyedRead, context interface{}) interface{} {
	return fmt.Sprintf("%s[%s]", s.str(ast.Receiver, context), s.str(ast.Key, context))
}

// VisitKeyedWrite visits a keyed write
func (s *SerializeExpressionVisitor) VisitKeyedWrite(ast *KeyedWrite, context interface{}) interface{} {
	return fmt.Sprintf("%s[%s] = %s", s.str(ast.Receiver, context), s.str(ast.Key, context), s.str(ast.Value, context))
}

// VisitLiteralArray visits a literal array
func (s *SerializeExpressionVisitor) VisitLiteralArray(ast *LiteralArray, context interface{}) interface{} {
	return "[" + s.list(ast.Expressions, context, ", ") + "]"
}

// VisitLiteralMap visits a literal map
func (s *SerializeExpressionVisitor) VisitLiteralMap(ast *LiteralMap, context interface{}) interface{} {
	pairs := make([]string, len(ast.Keys))
	for i, key := range ast.Keys {
		k := key.Key
		if key.Quoted {
			k = "'" + k + "'"
		}
		pairs[i] = k + ": " + s.str(ast.Values[i], context)
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

// VisitLiteralPrimitive visits a literal primitive
func (s *SerializeExpressionVisitor) VisitLiteralPrimitive(ast *LiteralPrimitive, context interface{}) interface{} {
	switch v := ast.Value.(type) {
	case nil:
		return "null"
	case undefinedValue:
		return "undefined"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return "'" + strings.ReplaceAll(v, "'", "\\'") + "'"
	default:
		panic(fmt.Sprintf("Unsupported primitive type: %T", ast.Value))
	}
}

// VisitPipe visits a pipe expression
func (s *SerializeExpressionVisitor) VisitPipe(ast *BindingPipe, context interface{}) interface{} {
	out := s.str(ast.Exp, context) + " | " + ast.Name
	for _, arg := range ast.Args {
		out += ":" + s.str(arg, context)
	}
	return out
}

// VisitPrefixNot visits a prefix not
func (s *SerializeExpressionVisitor) VisitPrefixNot(ast *PrefixNot, context interface{}) interface{} {
	return "!" + s.str(ast.Expression, context)
}

// VisitTypeofExpression visits a typeof expression
func (s *SerializeExpressionVisitor) VisitTypeofExpression(ast *TypeofExpression, context interface{}) interface{} {
	return "typeof " + s.str(ast.Expression, context)
}

// VisitNonNullAssert visits a non-null assertion
func (s *SerializeExpressionVisitor) VisitNonNullAssert(ast *NonNullAssert, context interface{}) interface{} {
	return s.str(ast.Expression, context) + "!"
}

// VisitPropertyRead visits a property read
func (s *SerializeExpressionVisitor) VisitPropertyRead(ast *PropertyRead, context interface{}) interface{} {
	if ast.ReceiverKind() == ReceiverImplicit {
		return ast.Name
	}
	return s.str(ast.Receiver, context) + "." + ast.Name
}

// VisitPropertyWrite visits a property write
func (s *SerializeExpressionVisitor) VisitPropertyWrite(ast *PropertyWrite, context interface{}) interface{} {
	target := ast.Name
	if KindOfReceiver(ast.Receiver) != ReceiverImplicit {
		target = s.str(ast.Receiver, context) + "." + ast.Name
	}
	return target + " = " + s.str(ast.Value, context)
}

// VisitSafePropertyRead visits a safe property read
func (s *SerializeExpressionVisitor) VisitSafePropertyRead(ast *SafePropertyRead, context interface{}) interface{} {
	return s.str(ast.Receiver, context) + "?." + ast.Name
}

// VisitSafeKeyedRead visits a safe keyed read
func (s *SerializeExpressionVisitor) VisitSafeKeyedRead(ast *SafeKeyedRead, context interface{}) interface{} {
	return fmt.Sprintf("%s?.[%s]", s.str(ast.Receiver, context), s.str(ast.Key, context))
}

// VisitCall visits a call
func (s *SerializeExpressionVisitor) VisitCall(ast *Call, context interface{}) interface{} {
	return fmt.Sprintf("%s(%s)", s.str(ast.Receiver, context), s.list(ast.Args, context, ", "))
}

// VisitSafeCall visits a safe call
func (s *SerializeExpressionVisitor) VisitSafeCall(ast *SafeCall, context interface{}) interface{} {
	return fmt.Sprintf("%s?.(%s)", s.str(ast.Receiver, context), s.list(ast.Args, context, ", "))
}

// VisitParenthesizedExpression visits a parenthesized expression
func (s *SerializeExpressionVisitor) VisitParenthesizedExpression(ast *ParenthesizedExpression, context interface{}) interface{} {
	return "(" + s.str(ast.Expression, context) + ")"
}

// VisitEmptyExpr visits an empty expression
func (s *SerializeExpressionVisitor) VisitEmptyExpr(ast *EmptyExpr, context interface{}) interface{} {
	return ""
}

// VisitASTWithSource visits an AST with source
func (s *SerializeExpressionVisitor) VisitASTWithSource(ast *ASTWithSource, context interface{}) interface{} {
	return s.str(ast.AST, context)
}
