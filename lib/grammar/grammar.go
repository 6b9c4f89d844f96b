// Package grammar is a declarative participle grammar for expressions. It
// reads the same tokens as the hand-written parser and produces the same
// parse tree for well-formed input.
package grammar

import (
	"github.com/alecthomas/participle/v2"

	"github.com/vyPal/exprtree/lib/lexer"
	"github.com/vyPal/exprtree/lib/parser"
)

type Expression struct {
	Left  *Term     `parser:"@@"`
	Right []*OpTerm `parser:"@@*"`
}

type OpTerm struct {
	Op   string `parser:"@( '+' | '-' )"`
	Term *Term  `parser:"@@"`
}

type Term struct {
	Left  *Factor     `parser:"@@"`
	Right []*OpFactor `parser:"@@*"`
}

type OpFactor struct {
	Op     string  `parser:"@( '*' | '/' )"`
	Factor *Factor `parser:"@@"`
}

type Factor struct {
	Number        *string     `parser:"  @Number"`
	Call          *Call       `parser:"| @@"`
	SubExpression *Expression `parser:"| '(' @@ ')'"`
}

type Call struct {
	Name string        `parser:"@Function '('"`
	Args []*Expression `parser:"( @@ ( ',' @@ )* )? ')'"`
}

var exprParser = participle.MustBuild[Expression](
	participle.Lexer(lexer.Definition),
)

// EBNF returns the grammar in EBNF notation.
func EBNF() string {
	return exprParser.String()
}

// ParseString parses src into the participle grammar structs.
func ParseString(src string) (*Expression, error) {
	return exprParser.ParseString("", src)
}

// Parse parses src and converts the result to a parse tree. It takes the
// hand-written parser's options: Permissive allows trailing tokens and
// MaxDepth bounds nesting.
func Parse(src string, opts ...parser.Option) (parser.Node, error) {
	settings := parser.Configure(opts...)
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	if err := checkDepth(tokens, settings); err != nil {
		return nil, err
	}

	expr, err := exprParser.ParseString("", src, participle.AllowTrailing(settings.Permissive))
	if err != nil {
		return nil, err
	}
	return expr.Tree(), nil
}

// checkDepth rejects nesting past the limit before participle recurses
// into it. A permissive scan stops where the first top-level expression
// ends, as nothing after it is parsed.
func checkDepth(tokens []lexer.Token, settings parser.Settings) error {
	depth := 0
	operand := false
	for i, tok := range tokens {
		if settings.Permissive && depth == 0 && operand && tok.Kind != lexer.Operator {
			return nil
		}
		switch tok.Kind {
		case lexer.LParen:
			if depth >= settings.MaxDepth {
				at := tok
				if i > 0 && tokens[i-1].Kind == lexer.Function {
					at = tokens[i-1]
				}
				return parser.DepthError(at, settings.MaxDepth)
			}
			depth++
			operand = false
		case lexer.RParen:
			if depth > 0 {
				depth--
			}
			operand = true
		case lexer.Number:
			operand = true
		default:
			operand = false
		}
	}
	return nil
}

// Tree folds the flat operator lists left-associatively.
func (e *Expression) Tree() parser.Node {
	node := e.Left.Tree()
	for _, r := range e.Right {
		node = &parser.BinaryExpression{Operator: r.Op, Left: node, Right: r.Term.Tree()}
	}
	return node
}

func (t *Term) Tree() parser.Node {
	node := t.Left.Tree()
	for _, r := range t.Right {
		node = &parser.BinaryExpression{Operator: r.Op, Left: node, Right: r.Factor.Tree()}
	}
	return node
}

func (f *Factor) Tree() parser.Node {
	switch {
	case f.Number != nil:
		return &parser.Number{Value: *f.Number}
	case f.Call != nil:
		args := make([]parser.Node, len(f.Call.Args))
		for i, arg := range f.Call.Args {
			args[i] = arg.Tree()
		}
		return &parser.FunctionCall{Name: f.Call.Name, Arguments: args}
	default:
		return f.SubExpression.Tree()
	}
}
