package expr

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	input []rune
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: []rune(input)}
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r := l.input[l.pos]
	l.pos++
	return r
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.input[l.pos]) {
		l.pos++
	}
}

func (l *lexer) next() (token, error) {
	l.skipWhitespace()
	start := l.pos
	r := l.peek()

	switch {
	case r == 0:
		return token{kind: tokEOF, pos: start}, nil
	case r == '(':
		l.advance()
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case r == ')':
		l.advance()
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case r == ',':
		l.advance()
		return token{kind: tokComma, text: ",", pos: start}, nil
	case r == '*':
		l.advance()
		if l.peek() == '*' {
			l.advance()
			return token{kind: tokOp, text: "^", pos: start}, nil
		}
		return token{kind: tokOp, text: "*", pos: start}, nil
	case strings.ContainsRune("+-/^", r):
		l.advance()
		return token{kind: tokOp, text: string(r), pos: start}, nil
	case unicode.IsDigit(r) || r == '.':
		return l.number()
	case r == '_' || unicode.IsLetter(r):
		for {
			c := l.peek()
			if c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c) {
				l.advance()
				continue
			}
			break
		}
		return token{kind: tokIdent, text: string(l.input[start:l.pos]), pos: start}, nil
	}

	return token{}, &SyntaxError{Pos: start, Msg: "unexpected character " + string(r)}
}

func (l *lexer) number() (token, error) {
	start := l.pos
	digits := 0
	for unicode.IsDigit(l.peek()) {
		l.advance()
		digits++
	}
	if l.peek() == '.' {
		l.advance()
		for unicode.IsDigit(l.peek()) {
			l.advance()
			digits++
		}
	}
	if digits == 0 {
		return token{}, &SyntaxError{Pos: start, Msg: "malformed number"}
	}
	if c := l.peek(); c == 'e' || c == 'E' {
		l.advance()
		if c := l.peek(); c == '+' || c == '-' {
			l.advance()
		}
		if !unicode.IsDigit(l.peek()) {
			return token{}, &SyntaxError{Pos: start, Msg: "malformed exponent"}
		}
		for unicode.IsDigit(l.peek()) {
			l.advance()
		}
	}
	return token{kind: tokNumber, text: string(l.input[start:l.pos]), pos: start}, nil
}
