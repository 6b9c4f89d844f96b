package parser

import (
	"encoding/json"
	"strings"
)

// Node is a parse tree node. The set of implementations is closed.
type Node interface {
	parseNode()
}

func (*Number) parseNode()           {}
func (*BinaryExpression) parseNode() {}
func (*FunctionCall) parseNode()     {}

// Number holds a digit string exactly as it appeared in the input.
type Number struct {
	Value string
}

type BinaryExpression struct {
	Operator string
	Left     Node
	Right    Node
}

// FunctionCall is a call in source order. Arguments is never nil.
type FunctionCall struct {
	Name      string
	Arguments []Node
}

type numberView struct {
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

type binaryView struct {
	Type     string `json:"type" yaml:"type"`
	Operator string `json:"operator" yaml:"operator"`
	Left     Node   `json:"left" yaml:"left"`
	Right    Node   `json:"right" yaml:"right"`
}

type callView struct {
	Type      string `json:"type" yaml:"type"`
	Name      string `json:"name" yaml:"name"`
	Arguments []Node `json:"arguments" yaml:"arguments"`
}

func (n *Number) view() numberView {
	return numberView{"Number", n.Value}
}

func (n *BinaryExpression) view() binaryView {
	return binaryView{"BinaryExpression", n.Operator, n.Left, n.Right}
}

func (n *FunctionCall) view() callView {
	args := n.Arguments
	if args == nil {
		args = []Node{}
	}
	return callView{"FunctionCall", n.Name, args}
}

func (n *Number) MarshalJSON() ([]byte, error)           { return json.Marshal(n.view()) }
func (n *BinaryExpression) MarshalJSON() ([]byte, error) { return json.Marshal(n.view()) }
func (n *FunctionCall) MarshalJSON() ([]byte, error)     { return json.Marshal(n.view()) }

func (n *Number) MarshalYAML() (interface{}, error)           { return n.view(), nil }
func (n *BinaryExpression) MarshalYAML() (interface{}, error) { return n.view(), nil }
func (n *FunctionCall) MarshalYAML() (interface{}, error)     { return n.view(), nil }

// Format renders n on one line with every binary expression parenthesized,
// e.g. ((1 - 2) - 3).
func Format(n Node) string {
	var sb strings.Builder
	format(&sb, n)
	return sb.String()
}

func format(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Number:
		sb.WriteString(n.Value)
	case *BinaryExpression:
		sb.WriteByte('(')
		format(sb, n.Left)
		sb.WriteString(" " + n.Operator + " ")
		format(sb, n.Right)
		sb.WriteByte(')')
	case *FunctionCall:
		sb.WriteString(n.Name)
		sb.WriteByte('(')
		for i, arg := range n.Arguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			format(sb, arg)
		}
		sb.WriteByte(')')
	}
}
