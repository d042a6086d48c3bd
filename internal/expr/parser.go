package expr

import (
	"fmt"
	"strconv"
)

type parser struct {
	lex *lexer
	cur token
}

// Parse reads a rate expression such as "beta*S*I/(S+I+R)" into a tree.
func Parse(src string) (Node, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.kind == tokEOF {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}

	n, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, &SyntaxError{Pos: p.cur.pos, Msg: fmt.Sprintf("unexpected %q", p.cur.text)}
	}
	return n, nil
}

// MustParse is Parse for expressions known to be valid.
func MustParse(src string) Node {
	n, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return n
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) isOp(ops ...string) bool {
	if p.cur.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if p.cur.text == op {
			return true
		}
	}
	return false
}

func (p *parser) parseSum() (Node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.isOp("+", "-") {
		op := p.cur.text[0]
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseProduct() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*", "/") {
		op := p.cur.text[0]
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Node, error) {
	if p.isOp("-", "+") {
		op := p.cur.text[0]
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == '+' {
			return x, nil
		}
		return &Neg{X: x}, nil
	}
	return p.parsePower()
}

// ^ binds tighter than unary minus on its left and is right associative.
func (p *parser) parsePower() (Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: '^', L: base, R: exp}, nil
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.cur
	switch tok.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, &SyntaxError{Pos: tok.pos, Msg: "malformed number " + tok.text}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Num{Value: v}, nil

	case tokIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind != tokLParen {
			return &Ident{Name: tok.text}, nil
		}
		return p.parseCall(tok)

	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, &SyntaxError{Pos: p.cur.pos, Msg: "expected )"}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return n, nil

	case tokEOF:
		return nil, &SyntaxError{Pos: tok.pos, Msg: "unexpected end of expression"}
	}
	return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.text)}
}

func (p *parser) parseCall(name token) (Node, error) {
	fn, ok := builtins[name.text]
	if !ok {
		return nil, &SyntaxError{Pos: name.pos, Msg: "unknown function " + name.text}
	}
	// consume (
	if err := p.advance(); err != nil {
		return nil, err
	}

	var args []Node
	if p.cur.kind != tokRParen {
		for {
			arg, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur.kind != tokComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if p.cur.kind != tokRParen {
		return nil, &SyntaxError{Pos: p.cur.pos, Msg: "expected ) after arguments"}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if len(args) != fn.arity {
		return nil, &SyntaxError{
			Pos: name.pos,
			Msg: fmt.Sprintf("%s takes %d argument(s), got %d", name.text, fn.arity, len(args)),
		}
	}
	return &Call{Func: name.text, Args: args}, nil
}
