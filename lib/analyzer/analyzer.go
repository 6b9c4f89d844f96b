package analyzer

import (
	"github.com/vyPal/exprtree/lib/ast"
)

// Summary describes the shape of an AST.
type Summary struct {
	Literals  []string       `json:"literals" yaml:"literals"`
	Operators map[string]int `json:"operators" yaml:"operators"`
	Functions []string       `json:"functions" yaml:"functions"`
	Nodes     int            `json:"nodes" yaml:"nodes"`
	Depth     int            `json:"depth" yaml:"depth"`
}

// Analyze walks root once. Literals keep source order; Functions lists each
// name once, in order of first call.
func Analyze(root ast.Node) *Summary {
	s := &Summary{
		Literals:  []string{},
		Operators: map[string]int{},
		Functions: []string{},
	}
	seen := map[string]bool{}
	ast.Walk(root, func(n ast.Node) bool {
		s.Nodes++
		switch n := n.(type) {
		case *ast.Literal:
			s.Literals = append(s.Literals, n.Value)
		case *ast.BinaryExpression:
			s.Operators[n.Operator]++
		case *ast.FunctionCall:
			if !seen[n.Name] {
				seen[n.Name] = true
				s.Functions = append(s.Functions, n.Name)
			}
		}
		return true
	})
	s.Depth = depth(root)
	return s
}

func depth(n ast.Node) int {
	switch n := n.(type) {
	case *ast.Literal:
		return 1
	case *ast.BinaryExpression:
		return 1 + max(depth(n.Left), depth(n.Right))
	case *ast.FunctionCall:
		d := 0
		for _, arg := range n.Arguments {
			d = max(d, depth(arg))
		}
		return 1 + d
	}
	return 0
}
