package parser

import (
	"fmt"

	"github.com/vyPal/exprtree/lib/lexer"
)

// DefaultMaxDepth bounds how deeply parentheses and calls may nest.
const DefaultMaxDepth = 256

// Error reports a token the grammar does not allow at the current
// position. A nil Token means the input ended early.
type Error struct {
	Token    *lexer.Token
	Expected string
	Reason   string
}

func (e *Error) Error() string {
	var msg string
	if e.Token == nil {
		msg = "unexpected end of input"
	} else {
		msg = fmt.Sprintf("unexpected token %s at position %d", e.Token, e.Token.Pos)
	}
	if e.Expected != "" {
		msg += ", expected " + e.Expected
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Option configures a Parser.
type Option func(*Parser)

// Permissive makes Parse stop after the first complete expression and
// ignore any tokens that follow it.
func Permissive() Option {
	return func(p *Parser) {
		p.permissive = true
	}
}

// MaxDepth sets the nesting limit. Values below one select the default.
func MaxDepth(n int) Option {
	return func(p *Parser) {
		if n < 1 {
			n = DefaultMaxDepth
		}
		p.maxDepth = n
	}
}

// Parser builds a parse tree from a token slice. It owns the cursor shared
// by all grammar rules and is good for a single Parse call.
type Parser struct {
	tokens     []lexer.Token
	pos        int
	depth      int
	maxDepth   int
	permissive bool
}

func New(tokens []lexer.Token, opts ...Option) *Parser {
	p := &Parser{tokens: tokens, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Settings is what a list of Options configures, for engines that accept
// the same options without being a Parser.
type Settings struct {
	Permissive bool
	MaxDepth   int
}

func Configure(opts ...Option) Settings {
	p := New(nil, opts...)
	return Settings{Permissive: p.permissive, MaxDepth: p.maxDepth}
}

// DepthError reports a group or call opened at tok while limit levels are
// already open.
func DepthError(tok lexer.Token, limit int) *Error {
	return &Error{Token: &tok, Reason: fmt.Sprintf("nesting deeper than %d", limit)}
}

// Parse builds the parse tree for tokens.
func Parse(tokens []lexer.Token, opts ...Option) (Node, error) {
	return New(tokens, opts...).Parse()
}

func (p *Parser) Parse() (Node, error) {
	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok && !p.permissive {
		return nil, &Error{Token: &tok, Reason: "trailing input after complete expression"}
	}
	return node, nil
}

// Precedence returns the binding strength of a binary operator. Anything
// that is not an operator gets 0 and so never binds.
func Precedence(op string) int {
	switch op {
	case "+", "-":
		return 1
	case "*", "/":
		return 2
	default:
		return 0
	}
}

func (p *Parser) peek() (lexer.Token, bool) {
	if p.pos >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *Parser) expect(kind lexer.Kind) (lexer.Token, error) {
	tok, ok := p.peek()
	if !ok {
		return tok, &Error{Expected: kind.String()}
	}
	if tok.Kind != kind {
		return tok, &Error{Token: &tok, Expected: kind.String()}
	}
	p.pos++
	return tok, nil
}

// parseExpression folds operators binding tighter than minPrec onto the
// primary at the cursor. Recursing with the operator's own precedence,
// rather than one less, keeps equal operators left-associative.
func (p *Parser) parseExpression(minPrec int) (Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := p.peek()
		if !ok || tok.Kind != lexer.Operator {
			return left, nil
		}
		prec := Precedence(tok.Value)
		if prec <= minPrec {
			return left, nil
		}
		p.pos++

		right, err := p.parseExpression(prec)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpression{Operator: tok.Value, Left: left, Right: right}
	}
}

func (p *Parser) parsePrimary() (Node, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, &Error{Expected: "expression"}
	}

	switch tok.Kind {
	case lexer.Number:
		p.pos++
		return &Number{Value: tok.Value}, nil
	case lexer.LParen:
		return p.nested(p.parseGroup)
	case lexer.Function:
		return p.nested(p.parseCall)
	default:
		return nil, &Error{Token: &tok}
	}
}

func (p *Parser) nested(rule func() (Node, error)) (Node, error) {
	if p.depth >= p.maxDepth {
		return nil, DepthError(p.tokens[p.pos], p.maxDepth)
	}
	p.depth++
	defer func() { p.depth-- }()
	return rule()
}

func (p *Parser) parseGroup() (Node, error) {
	p.pos++ // (
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseCall accepts commas anywhere between the parentheses; they only
// separate arguments.
func (p *Parser) parseCall() (Node, error) {
	name := p.tokens[p.pos]
	p.pos++
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}

	call := &FunctionCall{Name: name.Value, Arguments: []Node{}}
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, &Error{Expected: lexer.RParen.String()}
		}
		if tok.Kind == lexer.Comma {
			p.pos++
			continue
		}
		if tok.Kind == lexer.RParen {
			p.pos++
			return call, nil
		}
		arg, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		call.Arguments = append(call.Arguments, arg)
	}
}
