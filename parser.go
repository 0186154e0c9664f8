package machan

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/edwingeng/deque"
)

type ParseError struct {
	Want string
	Got  Token
}

func (e *ParseError) Error() string {
	found := "End of File"
	if e.Got.Type != EOF {
		found = fmt.Sprintf("%q", e.Got.Literal)
	}
	return fmt.Sprintf("%s: expected %s, found %s", e.Got.Position, e.Want, found)
}

func ParseString(str string) (Program, error) {
	return Parse(strings.NewReader(str))
}

func Parse(r io.Reader) (Program, error) {
	var (
		scan = Scan(r)
		list []Token
	)
	for {
		tok := scan.Scan()
		list = append(list, tok)
		if tok.Type == EOF {
			break
		}
	}
	return ParseTokens(list)
}

func ParseTokens(list []Token) (Program, error) {
	return NewParser(list).Parse()
}

type Parser struct {
	queue deque.Deque
	curr  Token
	peek  Token

	keywords map[rune]func() (Node, error)
}

func NewParser(list []Token) *Parser {
	p := Parser{
		queue:    deque.NewDeque(),
		keywords: make(map[rune]func() (Node, error)),
	}
	for i := range list {
		p.queue.PushBack(list[i])
	}
	p.registerKeyword(Ithu, p.parseVar)
	p.registerKeyword(Const, p.parseVar)
	p.registerKeyword(Ipo, p.parseIf)
	p.registerKeyword(Machane, p.parseMachane)
	p.registerKeyword(KwFor, p.parseFor)
	p.registerKeyword(KwSwitch, p.parseSwitch)
	p.registerKeyword(KwBreak, p.parseBreak)
	p.registerKeyword(KwContinue, p.parseContinue)
	p.registerKeyword(KwReturn, p.parseReturn)
	for _, kw := range natives {
		p.registerKeyword(kw, p.parseBuiltin)
	}

	p.next()
	p.next()
	return &p
}

func (p *Parser) Parse() (Program, error) {
	prog := Program{
		Position: p.curr.Position,
	}
	for !p.done() {
		n, err := p.parseStatement()
		if err != nil {
			return prog, err
		}
		if n != nil {
			prog.Body = append(prog.Body, n)
		}
	}
	return prog, nil
}

func (p *Parser) parseStatement() (Node, error) {
	if p.is(Semicolon) {
		p.next()
		return nil, nil
	}
	if fn, ok := p.keywords[p.curr.Type]; ok {
		return fn()
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.is(Semicolon) {
		p.next()
	}
	return expr, nil
}

func (p *Parser) parseBlock() (Block, error) {
	b := Block{
		Position: p.curr.Position,
	}
	if err := p.expect(Lbrace, "'{' to start block"); err != nil {
		return b, err
	}
	for !p.done() && !p.is(Rbrace) {
		n, err := p.parseStatement()
		if err != nil {
			return b, err
		}
		if n != nil {
			b.Nodes = append(b.Nodes, n)
		}
	}
	return b, p.expect(Rbrace, "'}' to end block")
}

func (p *Parser) parseVar() (Node, error) {
	v := VarDecl{
		Position: p.curr.Position,
	}
	if err := p.expect(Ithu, TypeName(Ithu)); err != nil {
		return nil, err
	}
	if p.is(Const) {
		v.Const = true
		p.next()
	}
	if !p.is(Ident) {
		return nil, p.unexpected("variable name after 'ithu'")
	}
	v.Ident = p.curr.Literal
	p.next()
	if err := p.expect(Assign, "'=' in variable declaration"); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	v.Expr = expr
	return v, p.expect(Aanu, "'aanu' after variable declaration")
}

func (p *Parser) parseBuiltin() (Node, error) {
	b := Builtin{
		Name:     strings.ToLower(p.curr.Literal),
		Position: p.curr.Position,
	}
	p.next()
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	b.Args = args
	return b, p.expect(Semicolon, "';' after native function call")
}

func (p *Parser) parseIf() (Node, error) {
	var (
		stmt = If{Position: p.curr.Position}
		err  error
	)
	p.next()
	if err = p.expect(Lparen, "'(' after 'ipo'"); err != nil {
		return nil, err
	}
	if stmt.Cdt, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if err = p.expect(Rparen, "')' after condition"); err != nil {
		return nil, err
	}
	if err = p.expect(Anengi, "'anengi' after condition"); err != nil {
		return nil, err
	}
	if stmt.Csq, err = p.parseBlock(); err != nil {
		return nil, err
	}
	if !p.is(Alengi) {
		return stmt, nil
	}
	p.next()
	if p.is(Ipo) {
		stmt.Alt, err = p.parseIf()
		return stmt, err
	}
	alt, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt.Alt = alt
	return stmt, nil
}

func (p *Parser) parseMachane() (Node, error) {
	switch p.peek.Type {
	case Pani:
		return p.parseFunction()
	case KwTry:
		return p.parseTry()
	default:
		return p.parseWhile()
	}
}

func (p *Parser) parseFunction() (Node, error) {
	fn := FuncDecl{
		Position: p.curr.Position,
	}
	p.next()
	if err := p.expect(Pani, TypeName(Pani)); err != nil {
		return nil, err
	}
	if !p.is(Ident) {
		return nil, p.unexpected("function name")
	}
	fn.Ident = p.curr.Literal
	p.next()
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	for _, a := range args {
		id, ok := a.(Identifier)
		if !ok {
			return nil, &ParseError{
				Want: "identifier as function parameter",
				Got:  Token{Type: Ident, Literal: Format(a), Position: a.Pos()},
			}
		}
		fn.Params = append(fn.Params, id.Name)
	}
	if fn.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	return fn, nil
}

func (p *Parser) parseTry() (Node, error) {
	var (
		stmt = Try{Position: p.curr.Position}
		err  error
	)
	p.next()
	if err = p.expect(KwTry, TypeName(KwTry)); err != nil {
		return nil, err
	}
	if err = p.expect(Cheyu, TypeName(Cheyu)); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	if err = p.expect(Pidiku, "'pidiku' after try block"); err != nil {
		return nil, err
	}
	if err = p.expect(Lparen, "'(' after 'pidiku'"); err != nil {
		return nil, err
	}
	if !p.is(Ident) {
		return nil, p.unexpected("catch parameter name")
	}
	stmt.Ident = p.curr.Literal
	p.next()
	if err = p.expect(Rparen, "')' after catch parameter"); err != nil {
		return nil, err
	}
	if stmt.Catch, err = p.parseBlock(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (Node, error) {
	var (
		stmt = While{Position: p.curr.Position}
		err  error
	)
	p.next()
	if err = p.expect(Lparen, "'(' after 'machane'"); err != nil {
		return nil, err
	}
	if stmt.Cdt, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if err = p.expect(Rparen, "')' after loop condition"); err != nil {
		return nil, err
	}
	if err = p.expect(Avane, TypeName(Avane)); err != nil {
		return nil, err
	}
	if err = p.expect(Vare, TypeName(Vare)); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseFor() (Node, error) {
	var (
		stmt = For{Position: p.curr.Position}
		err  error
	)
	p.next()
	if err = p.expect(Machane, TypeName(Machane)); err != nil {
		return nil, err
	}
	if err = p.expect(Lparen, "'(' after 'for machane'"); err != nil {
		return nil, err
	}
	if !p.is(Ithu) {
		return nil, p.unexpected(TypeName(Ithu))
	}
	init, err := p.parseVar()
	if err != nil {
		return nil, err
	}
	stmt.Init = init.(VarDecl)
	if err = p.expect(Colon, "':' after loop initialization"); err != nil {
		return nil, err
	}
	if stmt.Cdt, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if err = p.expect(Colon, "':' after loop condition"); err != nil {
		return nil, err
	}
	if stmt.Incr, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if err = p.expect(Rparen, "')' after loop increment"); err != nil {
		return nil, err
	}
	if err = p.expect(Enit, TypeName(Enit)); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseSwitch() (Node, error) {
	var (
		stmt = Switch{Position: p.curr.Position}
		err  error
	)
	p.next()
	if err = p.expect(Machane, TypeName(Machane)); err != nil {
		return nil, err
	}
	if stmt.Cdt, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if err = p.expect(Lbrace, "'{' after switch expression"); err != nil {
		return nil, err
	}
	for !p.done() && !p.is(Rbrace) {
		switch p.curr.Type {
		case Ipo:
			c := Case{
				Position: p.curr.Position,
			}
			p.next()
			if c.Value, err = p.parseExpression(); err != nil {
				return nil, err
			}
			if err = p.expect(Anengi, "'anengi' after case value"); err != nil {
				return nil, err
			}
			if c.Body, err = p.parseBlock(); err != nil {
				return nil, err
			}
			stmt.Cases = append(stmt.Cases, c)
		case OnnumAlengi:
			p.next()
			def, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.Default = &def
		default:
			return nil, p.unexpected("'ipo' or 'onnum_alengi' inside switch")
		}
	}
	return stmt, p.expect(Rbrace, "'}' to end switch")
}

func (p *Parser) parseBreak() (Node, error) {
	defer p.next()
	return Break{Position: p.curr.Position}, nil
}

func (p *Parser) parseContinue() (Node, error) {
	defer p.next()
	return Continue{Position: p.curr.Position}, nil
}

func (p *Parser) parseReturn() (Node, error) {
	ret := Return{
		Position: p.curr.Position,
	}
	p.next()
	if !p.is(Semicolon) && !p.is(Rbrace) {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		ret.Expr = expr
	}
	if p.is(Semicolon) {
		p.next()
	}
	return ret, nil
}

func (p *Parser) parseExpression() (Node, error) {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() (Node, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	var (
		pos = p.curr.Position
		op  rune
	)
	switch p.curr.Type {
	case Assign:
		p.next()
		right, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return Assignment{Ident: left, Expr: right, Position: pos}, nil
	case AddAssign:
		op = Add
	case SubAssign:
		op = Sub
	case MulAssign:
		op = Mul
	case DivAssign:
		op = Div
	case ModAssign:
		op = Mod
	case Incr, Decr:
		op = Add
		if p.is(Decr) {
			op = Sub
		}
		p.next()
		one := Literal[float64]{Value: 1, Position: pos}
		return Assignment{
			Ident:    left,
			Expr:     Binary{Op: op, Left: left, Right: one, Position: pos},
			Position: pos,
		}, nil
	default:
		return left, nil
	}
	p.next()
	right, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return Assignment{
		Ident:    left,
		Expr:     Binary{Op: op, Left: left, Right: right, Position: pos},
		Position: pos,
	}, nil
}

func (p *Parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.is(Or) {
		expr := Logical{
			Op:       p.curr.Type,
			Left:     left,
			Position: p.curr.Position,
		}
		p.next()
		if expr.Right, err = p.parseAnd(); err != nil {
			return nil, err
		}
		left = expr
	}
	return left, nil
}

func (p *Parser) parseAnd() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.is(And) {
		expr := Logical{
			Op:       p.curr.Type,
			Left:     left,
			Position: p.curr.Position,
		}
		p.next()
		if expr.Right, err = p.parseUnary(); err != nil {
			return nil, err
		}
		left = expr
	}
	return left, nil
}

func (p *Parser) parseUnary() (Node, error) {
	if !p.is(Not) && !p.is(Sub) {
		return p.parseObject()
	}
	expr := Unary{
		Op:       p.curr.Type,
		Position: p.curr.Position,
	}
	p.next()
	inner, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	expr.Expr = inner
	return expr, nil
}

func (p *Parser) parseObject() (Node, error) {
	if !p.is(Lbrace) {
		return p.parseAdditive()
	}
	obj := Object{
		Position: p.curr.Position,
	}
	p.next()
	for !p.done() && !p.is(Rbrace) {
		if !p.is(Ident) {
			return nil, p.unexpected("identifier as object key")
		}
		prop := Property{
			Key: p.curr.Literal,
		}
		p.next()
		if err := p.expect(Colon, "':' after object key"); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		prop.Expr = expr
		obj.Props = append(obj.Props, prop)
		switch {
		case p.is(Comma):
			p.next()
			if p.is(Rbrace) {
				return nil, p.unexpected("object key after ','")
			}
		case p.is(Rbrace):
		default:
			return nil, p.unexpected("',' or '}' in object literal")
		}
	}
	return obj, p.expect(Rbrace, "'}' to end object literal")
}

func (p *Parser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var (
			op  = p.curr.Type
			pos = p.curr.Position
		)
		switch op {
		case Add, Sub:
			p.next()
			right, err := p.parseMultiplicative()
			if err != nil {
				return nil, err
			}
			left = Binary{Op: op, Left: left, Right: right, Position: pos}
		case Gt, Lt, Ge, Le, Eq, Ne:
			p.next()
			right, err := p.parseMultiplicative()
			if err != nil {
				return nil, err
			}
			left = Compare{Op: op, Left: left, Right: right, Position: pos}
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseMultiplicative() (Node, error) {
	left, err := p.parseCallMember()
	if err != nil {
		return nil, err
	}
	for p.is(Mul) || p.is(Div) || p.is(Mod) {
		expr := Binary{
			Op:       p.curr.Type,
			Left:     left,
			Position: p.curr.Position,
		}
		p.next()
		if expr.Right, err = p.parseCallMember(); err != nil {
			return nil, err
		}
		left = expr
	}
	return left, nil
}

func (p *Parser) parseCallMember() (Node, error) {
	member, err := p.parseMember()
	if err != nil {
		return nil, err
	}
	if !p.is(Lparen) {
		return member, nil
	}
	call := Call{
		Ident:    member,
		Position: p.curr.Position,
	}
	if call.Args, err = p.parseArgs(); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *Parser) parseMember() (Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.is(Dot) || p.is(Lsquare) {
		m := Member{
			Expr:     expr,
			Position: p.curr.Position,
		}
		if p.is(Dot) {
			p.next()
			prop, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			if _, ok := prop.(Identifier); !ok {
				return nil, &ParseError{
					Want: "identifier after '.'",
					Got:  Token{Literal: Format(prop), Position: prop.Pos()},
				}
			}
			m.Prop = prop
		} else {
			p.next()
			m.Computed = true
			if m.Prop, err = p.parseExpression(); err != nil {
				return nil, err
			}
			if err = p.expect(Rsquare, "']' after computed member"); err != nil {
				return nil, err
			}
		}
		expr = m
	}
	return expr, nil
}

func (p *Parser) parseArgs() ([]Node, error) {
	if err := p.expect(Lparen, "'(' to start arguments"); err != nil {
		return nil, err
	}
	var args []Node
	if p.is(Rparen) {
		p.next()
		return args, nil
	}
	for {
		a, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if !p.is(Comma) {
			break
		}
		p.next()
	}
	return args, p.expect(Rparen, "')' to end arguments")
}

func (p *Parser) parsePrimary() (Node, error) {
	switch tok := p.curr; {
	case tok.Type == Ident:
		defer p.next()
		return Identifier{Name: tok.Literal, Position: tok.Position}, nil
	case isNative(tok.Type):
		defer p.next()
		return Identifier{Name: strings.ToLower(tok.Literal), Position: tok.Position}, nil
	case tok.Type == Number:
		defer p.next()
		n, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.unexpected("number")
		}
		return Literal[float64]{Value: n, Position: tok.Position}, nil
	case tok.Type == String:
		defer p.next()
		return Literal[string]{Value: tok.Literal, Position: tok.Position}, nil
	case tok.Type == Lsquare:
		return p.parseArray()
	case tok.Type == Lparen:
		p.next()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return expr, p.expect(Rparen, "')' to close parenthesized expression")
	default:
		return nil, p.unexpected("expression")
	}
}

func (p *Parser) parseArray() (Node, error) {
	arr := Array{
		Position: p.curr.Position,
	}
	p.next()
	for !p.done() && !p.is(Rsquare) {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		arr.Nodes = append(arr.Nodes, expr)
		switch {
		case p.is(Comma):
			p.next()
			if p.is(Rsquare) {
				return nil, p.unexpected("element after ','")
			}
		case p.is(Rsquare):
		default:
			return nil, p.unexpected("',' or ']' in array literal")
		}
	}
	return arr, p.expect(Rsquare, "']' to end array literal")
}

func (p *Parser) registerKeyword(kw rune, fn func() (Node, error)) {
	p.keywords[kw] = fn
}

func (p *Parser) expect(kind rune, want string) error {
	if !p.is(kind) {
		return p.unexpected(want)
	}
	p.next()
	return nil
}

func (p *Parser) unexpected(want string) error {
	return &ParseError{
		Want: want,
		Got:  p.curr,
	}
}

func (p *Parser) is(kind rune) bool {
	return p.curr.Type == kind
}

func (p *Parser) done() bool {
	return p.is(EOF)
}

func (p *Parser) next() {
	p.curr = p.peek
	if p.queue.Empty() {
		p.peek = Token{Type: EOF, Position: p.curr.Position}
		return
	}
	p.peek = p.queue.PopFront().(Token)
}
