package ast

import (
	"fmt"

	"github.com/vyPal/exprtree/lib/parser"
)

// Lower converts a parse tree into an AST. The shape is preserved node for
// node; Number becomes Literal and values are copied verbatim.
func Lower(n parser.Node) Node {
	switch n := n.(type) {
	case nil:
		return nil
	case *parser.Number:
		return &Literal{Value: n.Value}
	case *parser.BinaryExpression:
		return &BinaryExpression{
			Operator: n.Operator,
			Left:     Lower(n.Left),
			Right:    Lower(n.Right),
		}
	case *parser.FunctionCall:
		args := make([]Node, len(n.Arguments))
		for i, arg := range n.Arguments {
			args[i] = Lower(arg)
		}
		return &FunctionCall{Name: n.Name, Arguments: args}
	default:
		// parser.Node is sealed, so this is a new variant missing above.
		panic(fmt.Sprintf("ast: cannot lower %T", n))
	}
}
