package lexer

import (
	"encoding/json"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Kind identifies the lexical class of a Token.
type Kind int

const (
	Number Kind = iota + 1
	Operator
	LParen
	RParen
	Function
	Comma
)

var kindNames = map[Kind]string{
	Number:   "NUMBER",
	Operator: "OPERATOR",
	LParen:   "LPAREN",
	RParen:   "RPAREN",
	Function: "FUNCTION",
	Comma:    "COMMA",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single lexical unit. Pos is the byte offset of its first
// character in the input.
type Token struct {
	Kind  Kind
	Value string
	Pos   int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%s)", t.Kind, t.Value)
}

func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value string `json:"value"`
		Pos   int    `json:"pos"`
	}{t.Kind.String(), t.Value, t.Pos})
}

// Error reports a character that starts no token.
type Error struct {
	Char rune
	Pos  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("unexpected character %q at position %d", e.Char, e.Pos)
}

// Lexer scans an expression string from left to right.
type Lexer struct {
	input string
	pos   int
}

func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize splits input into tokens, stopping at the first character that
// belongs to no token class.
func Tokenize(input string) ([]Token, error) {
	return New(input).Lex()
}

// Lex consumes the rest of the input. The result has no end marker; the
// parser treats running off the slice as end of input.
func (l *Lexer) Lex() ([]Token, error) {
	tokens := []Token{}
	for l.pos < len(l.input) {
		start := l.pos
		ch, size := utf8.DecodeRuneInString(l.input[l.pos:])

		switch {
		case unicode.IsSpace(ch):
			l.pos += size
		case isDigit(ch):
			tokens = append(tokens, Token{Number, l.run(isDigit), start})
		case isLetter(ch):
			tokens = append(tokens, Token{Function, l.run(isLetter), start})
		case ch == '+' || ch == '-' || ch == '*' || ch == '/':
			tokens = append(tokens, l.single(Operator))
		case ch == '(':
			tokens = append(tokens, l.single(LParen))
		case ch == ')':
			tokens = append(tokens, l.single(RParen))
		case ch == ',':
			tokens = append(tokens, l.single(Comma))
		default:
			return nil, &Error{Char: ch, Pos: start}
		}
	}
	return tokens, nil
}

// run consumes the longest run of ASCII characters matching class.
func (l *Lexer) run(class func(rune) bool) string {
	start := l.pos
	for l.pos < len(l.input) && class(rune(l.input[l.pos])) {
		l.pos++
	}
	return l.input[start:l.pos]
}

func (l *Lexer) single(kind Kind) Token {
	tok := Token{kind, l.input[l.pos : l.pos+1], l.pos}
	l.pos++
	return tok
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
