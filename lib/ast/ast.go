// Package ast holds the simplified tree derived from a parse tree.
package ast

import "encoding/json"

// Node is an AST node. The set of implementations is closed.
type Node interface {
	astNode()
}

func (*Literal) astNode()          {}
func (*BinaryExpression) astNode() {}
func (*FunctionCall) astNode()     {}

// Literal carries the digit string of a number, not yet converted.
type Literal struct {
	Value string
}

type BinaryExpression struct {
	Operator string
	Left     Node
	Right    Node
}

type FunctionCall struct {
	Name      string
	Arguments []Node
}

type literalView struct {
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

func (n *Literal) view() literalView {
	return literalView{"Literal", n.Value}
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

func (n *Literal) MarshalJSON() ([]byte, error)          { return json.Marshal(n.view()) }
func (n *BinaryExpression) MarshalJSON() ([]byte, error) { return json.Marshal(n.view()) }
func (n *FunctionCall) MarshalJSON() ([]byte, error)     { return json.Marshal(n.view()) }

func (n *Literal) MarshalYAML() (interface{}, error)          { return n.view(), nil }
func (n *BinaryExpression) MarshalYAML() (interface{}, error) { return n.view(), nil }
func (n *FunctionCall) MarshalYAML() (interface{}, error)     { return n.view(), nil }

// Walk calls fn for n and each of its descendants in depth-first,
// left-to-right order. Returning false from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *BinaryExpression:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *FunctionCall:
		for _, arg := range n.Arguments {
			Walk(arg, fn)
		}
	}
}
