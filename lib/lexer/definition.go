package lexer

import (
	"io"
	"strings"

	plexer "github.com/alecthomas/participle/v2/lexer"
)

// Definition exposes the expression lexer to participle grammars.
var Definition plexer.Definition = &definition{}

type definition struct{}

func (d *definition) Symbols() map[string]plexer.TokenType {
	symbols := map[string]plexer.TokenType{
		"EOF": plexer.EOF,
	}
	for kind, name := range kindNames {
		symbols[symbolName(name)] = plexer.TokenType(kind)
	}
	return symbols
}

// symbolName turns NUMBER into Number, the spelling used in grammar tags.
func symbolName(name string) string {
	switch name {
	case "LPAREN":
		return "LParen"
	case "RPAREN":
		return "RParen"
	}
	return name[:1] + strings.ToLower(name[1:])
}

func (d *definition) Lex(filename string, r io.Reader) (plexer.Lexer, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	tokens, err := Tokenize(string(src))
	if err != nil {
		return nil, err
	}
	return &tokenLexer{filename: filename, src: string(src), tokens: tokens}, nil
}

// tokenLexer replays an already tokenized input.
type tokenLexer struct {
	filename string
	src      string
	tokens   []Token
	next     int
}

func (t *tokenLexer) Next() (plexer.Token, error) {
	if t.next >= len(t.tokens) {
		return plexer.Token{Type: plexer.EOF, Pos: t.position(len(t.src))}, nil
	}
	tok := t.tokens[t.next]
	t.next++
	return plexer.Token{
		Type:  plexer.TokenType(tok.Kind),
		Value: tok.Value,
		Pos:   t.position(tok.Pos),
	}, nil
}

func (t *tokenLexer) position(offset int) plexer.Position {
	pos := plexer.Position{Filename: t.filename, Offset: offset, Line: 1, Column: 1}
	for _, c := range t.src[:offset] {
		if c == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}
