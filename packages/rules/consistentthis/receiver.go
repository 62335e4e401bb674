package consistentthis

import (
	"ngthis/packages/compiler/src/expression_parser"
)

// receiver is how a property read is anchored to the component
type receiver int

const (
	// receiverOther reads off another value, e.g. `bar` in `foo.bar`
	receiverOther receiver = iota
	// receiverImplicit is a bare `foo`
	receiverImplicit
	// receiverExplicit is `this.foo`
	receiverExplicit
)

func classifyReceiver(read *expression_parser.PropertyRead) receiver {
	switch read.ReceiverKind() {
	case expression_parser.ReceiverImplicit:
		return receiverImplicit
	case expression_parser.ReceiverThis:
		return receiverExplicit
	}
	return receiverOther
}
