package lang

import (
	"errors"
	"log/slog"
	"slices"
)

// Parse builds a [Program] from a token sequence produced by [Scan].
//
// Errors inside a declaration are reported and the parser skips ahead to the
// next statement boundary, so one call reports every independent syntax
// error. The returned Program holds the declarations that parsed cleanly; a
// non-nil error is always [Diagnostics] of [*ParseError].
func Parse(tokens []Token, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)
	p := newParser(tokens, o)

	program := &Program{}

	for !p.atEnd() {
		if st := p.declaration(); st != nil {
			program.Statements = append(program.Statements, st)
		}
	}

	o.logger.Trace("parse",
		slog.Int("tokens", len(p.tokens)),
		slog.Int("statements", len(program.Statements)),
		slog.Int("diagnostics", len(p.diags)),
	)

	return program, p.diags.orNil()
}

// ParseExpression parses a token sequence holding exactly one expression
// followed by EOF.
func ParseExpression(tokens []Token, opts ...Option) (Expr, error) {
	p := newParser(tokens, makeOptions(opts...))

	expr, err := p.expression()

	switch {
	case err != nil:
		p.report(err)
	case !p.atEnd():
		p.report(&ParseError{
			Token: p.peek(),
			Err:   ErrExpectToken.Wrapf("end of expression"),
		})
	}

	if len(p.diags) > 0 {
		return nil, p.diags
	}

	return expr, nil
}

// parser is a recursive-descent parser over a token slice. depth counts the
// productions currently nested through enter.
type parser struct {
	tokens   []Token
	diags    Diagnostics
	current  int
	depth    int
	maxDepth int
}

func newParser(tokens []Token, o options) *parser {
	// Guarantee the EOF sentinel without modifying the caller's slice.
	if n := len(tokens); n == 0 || tokens[n-1].Kind != KindEOF {
		line := 1
		if n > 0 {
			line = tokens[n-1].Line
		}

		tokens = append(slices.Clip(tokens), Token{Kind: KindEOF, Line: line})
	}

	return &parser{tokens: tokens, maxDepth: o.maxDepth}
}

// declaration parses one top-level declaration, synchronizing after an
// error. It returns nil when the declaration was discarded.
//
// Exceeding the depth limit abandons the whole declaration: the parser
// skips past the braces it had opened, so the limit is reported once no
// matter how deep the input goes.
func (p *parser) declaration() Stmt {
	start := p.current

	st, err := p.declare()
	if err == nil {
		return st
	}

	p.report(err)

	if !errors.Is(err, ErrMaxDepthExceeded) || !p.closeBlocks(start) {
		p.synchronize()
	}

	return nil
}

func (p *parser) declare() (Stmt, error) {
	if p.match(KindVar) {
		return p.varDeclaration()
	}

	return p.statement()
}

func (p *parser) varDeclaration() (Stmt, error) {
	name, err := p.consume(KindIdentifier, "variable name")
	if err != nil {
		return nil, err
	}

	var init Expr

	if p.match(KindEqual) {
		if init, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(KindSemicolon, "';' after variable declaration"); err != nil {
		return nil, err
	}

	return &VarStmt{Name: name, Initializer: init}, nil
}

func (p *parser) statement() (Stmt, error) {
	switch {
	case p.match(KindPrint):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		if _, err := p.consume(KindSemicolon, "';' after value"); err != nil {
			return nil, err
		}

		return &PrintStmt{Expression: expr}, nil

	case p.match(KindLeftBrace):
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}

		return &BlockStmt{Statements: stmts}, nil

	default:
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		if _, err := p.consume(KindSemicolon, "';' after expression"); err != nil {
			return nil, err
		}

		return &ExpressionStmt{Expression: expr}, nil
	}
}

// block parses declarations up to the closing brace. The opening brace has
// already been consumed.
func (p *parser) block() ([]Stmt, error) {
	leave, err := p.enter()
	defer leave()

	if err != nil {
		return nil, err
	}

	stmts := []Stmt{}

	for !p.check(KindRightBrace) && !p.atEnd() {
		st, err := p.declare()

		switch {
		case errors.Is(err, ErrMaxDepthExceeded):
			return nil, err
		case err != nil:
			p.report(err)
			p.synchronize()
		default:
			stmts = append(stmts, st)
		}
	}

	if _, err := p.consume(KindRightBrace, "'}' after block"); err != nil {
		return nil, err
	}

	return stmts, nil
}

func (p *parser) expression() (Expr, error) {
	return p.assignment()
}

func (p *parser) assignment() (Expr, error) {
	leave, err := p.enter()
	defer leave()

	if err != nil {
		return nil, err
	}

	expr, err := p.equality()
	if err != nil {
		return nil, err
	}

	if p.match(KindEqual) {
		equals := p.previous()

		value, err := p.assignment()
		if err != nil {
			return nil, err
		}

		if v, ok := expr.(*Variable); ok {
			return &Assign{Name: v.Name, Value: value}, nil
		}

		// Reported without unwinding: the statement is still well formed.
		p.report(&ParseError{Token: equals, Err: ErrInvalidAssignTarget})
	}

	return expr, nil
}

func (p *parser) equality() (Expr, error) {
	return p.binary(p.comparison, KindBangEqual, KindEqualEqual)
}

func (p *parser) comparison() (Expr, error) {
	return p.binary(p.term,
		KindGreater, KindGreaterEqual, KindLess, KindLessEqual)
}

func (p *parser) term() (Expr, error) {
	return p.binary(p.factor, KindMinus, KindPlus)
}

func (p *parser) factor() (Expr, error) {
	return p.binary(p.unary, KindSlash, KindStar)
}

// binary parses a left-associative chain of operand separated by any of the
// operator kinds.
func (p *parser) binary(
	operand func() (Expr, error),
	kinds ...TokenKind,
) (Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}

	for p.match(kinds...) {
		op := p.previous()

		right, err := operand()
		if err != nil {
			return nil, err
		}

		expr = &Binary{Left: expr, Operator: op, Right: right}
	}

	return expr, nil
}

func (p *parser) unary() (Expr, error) {
	if !p.match(KindBang, KindMinus) {
		return p.primary()
	}

	op := p.previous()

	leave, err := p.enter()
	defer leave()

	if err != nil {
		return nil, err
	}

	right, err := p.unary()
	if err != nil {
		return nil, err
	}

	return &Unary{Operator: op, Right: right}, nil
}

func (p *parser) primary() (Expr, error) {
	switch {
	case p.match(KindFalse):
		return &Literal{Value: Bool(false)}, nil
	case p.match(KindTrue):
		return &Literal{Value: Bool(true)}, nil
	case p.match(KindNil):
		return &Literal{Value: Nil{}}, nil
	case p.match(KindNumber, KindString):
		return &Literal{Value: p.previous().Literal}, nil
	case p.match(KindIdentifier):
		return &Variable{Name: p.previous()}, nil
	case p.match(KindLeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		if _, err := p.consume(KindRightParen, "')' after expression"); err != nil {
			return nil, err
		}

		return &Grouping{Expression: expr}, nil
	}

	return nil, &ParseError{Token: p.peek(), Err: ErrExpectExpression}
}

// enter records one more level of nesting. The returned function must be
// called to leave the level whether or not an error is returned.
func (p *parser) enter() (func(), error) {
	p.depth++

	leave := func() { p.depth-- }

	if p.depth > p.maxDepth {
		return leave, &ParseError{
			Token: p.peek(),
			Err:   ErrMaxDepthExceeded.With(slog.Int("max_depth", p.maxDepth)),
		}
	}

	return leave, nil
}

// synchronize discards tokens until a statement boundary: just past a
// semicolon, or before a keyword that begins a statement.
func (p *parser) synchronize() {
	p.advance()

	for !p.atEnd() {
		if p.previous().Kind == KindSemicolon {
			return
		}

		switch p.peek().Kind {
		case KindClass, KindFun, KindVar, KindFor, KindIf, KindWhile,
			KindPrint, KindReturn:
			return
		}

		p.advance()
	}
}

// closeBlocks advances past the closing braces of every block opened since
// token index start. It reports whether any block was open.
func (p *parser) closeBlocks(start int) bool {
	open := 0

	for _, tok := range p.tokens[start:p.current] {
		switch tok.Kind {
		case KindLeftBrace:
			open++
		case KindRightBrace:
			open--
		}
	}

	if open <= 0 {
		return false
	}

	for open > 0 && !p.atEnd() {
		switch p.advance().Kind {
		case KindLeftBrace:
			open++
		case KindRightBrace:
			open--
		}
	}

	return true
}

func (p *parser) report(err error) {
	p.diags = append(p.diags, err)
}

func (p *parser) consume(kind TokenKind, what string) (Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}

	return Token{}, &ParseError{
		Token: p.peek(),
		Err:   ErrExpectToken.Wrapf("%s", what),
	}
}

func (p *parser) match(kinds ...TokenKind) bool {
	if slices.ContainsFunc(kinds, p.check) {
		p.advance()

		return true
	}

	return false
}

func (p *parser) check(kind TokenKind) bool {
	return !p.atEnd() && p.peek().Kind == kind
}

func (p *parser) advance() Token {
	if !p.atEnd() {
		p.current++
	}

	return p.previous()
}

func (p *parser) atEnd() bool { return p.peek().Kind == KindEOF }

func (p *parser) peek() Token { return p.tokens[p.current] }

func (p *parser) previous() Token {
	if p.current == 0 {
		return p.tokens[0]
	}

	return p.tokens[p.current-1]
}
