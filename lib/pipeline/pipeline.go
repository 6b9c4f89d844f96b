// Package pipeline chains the lexer, parser and lowering pass.
package pipeline

import (
	"github.com/vyPal/exprtree/lib/ast"
	"github.com/vyPal/exprtree/lib/grammar"
	"github.com/vyPal/exprtree/lib/lexer"
	"github.com/vyPal/exprtree/lib/parser"
)

// Engines that can build the parse tree.
const (
	EngineDescent = "descent"
	EngineGrammar = "grammar"
)

// Result is the pair of trees built for one expression. It is not
// modified after Run returns and may be shared.
type Result struct {
	Tokens    []lexer.Token `json:"-" yaml:"-"`
	ParseTree parser.Node   `json:"parseTree" yaml:"parseTree"`
	AST       ast.Node      `json:"ast" yaml:"ast"`
}

// Run tokenizes, parses and lowers input. The first failure aborts the run
// and is returned as is, either a *lexer.Error or a *parser.Error.
func Run(input string, opts ...parser.Option) (*Result, error) {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return nil, err
	}
	tree, err := parser.Parse(tokens, opts...)
	if err != nil {
		return nil, err
	}
	return &Result{Tokens: tokens, ParseTree: tree, AST: ast.Lower(tree)}, nil
}

// RunGrammar is Run with the participle grammar building the parse tree.
// The grammar is strict about commas; opts apply as they do to Run.
func RunGrammar(input string, opts ...parser.Option) (*Result, error) {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return nil, err
	}
	tree, err := grammar.Parse(input, opts...)
	if err != nil {
		return nil, err
	}
	return &Result{Tokens: tokens, ParseTree: tree, AST: ast.Lower(tree)}, nil
}

// RunWith dispatches on engine name. An empty name selects EngineDescent.
func RunWith(engine, input string, opts ...parser.Option) (*Result, error) {
	switch engine {
	case "", EngineDescent:
		return Run(input, opts...)
	case EngineGrammar:
		return RunGrammar(input, opts...)
	default:
		return nil, &UnknownEngineError{Engine: engine}
	}
}

// UnknownEngineError is returned by RunWith for an engine name it does not know.
type UnknownEngineError struct {
	Engine string
}

func (e *UnknownEngineError) Error() string {
	return "unknown parser engine " + e.Engine
}

// Trees returns both trees, for renderers that draw them side by side.
func (r *Result) Trees() (parser.Node, ast.Node) {
	return r.ParseTree, r.AST
}
