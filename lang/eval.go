package lang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/lox/log"
)

// Interpreter evaluates statements against an [Environment]. Every
// interpreter owns its environment; none is shared or global.
//
// An Interpreter is not safe for concurrent use.
type Interpreter struct {
	out      io.Writer
	env      *Environment
	logger   log.Logger
	depth    int
	maxDepth int
}

// NewInterpreter returns an interpreter that writes print output to out
// (discarded when nil). Globals given with [WithGlobals] are defined in the
// root scope.
func NewInterpreter(out io.Writer, opts ...Option) *Interpreter {
	o := makeOptions(opts...)

	if out == nil {
		out = io.Discard
	}

	env := NewEnvironment()

	for _, name := range slices.Sorted(maps.Keys(o.globals)) {
		v := o.globals[name]
		if v == nil {
			v = Nil{}
		}

		env.Define(name, v)
	}

	return &Interpreter{
		out:      out,
		env:      env,
		logger:   o.logger,
		maxDepth: o.maxEvalDepth,
	}
}

// Environment returns the scope arena of the interpreter.
func (in *Interpreter) Environment() *Environment { return in.env }

// Execute runs statements in order in the active scope. It stops at the
// first [*RuntimeError], keeping the effects of statements already
// executed. ctx is checked before each statement; once it is done, Execute
// returns ctx.Err().
func (in *Interpreter) Execute(ctx context.Context, stmts []Stmt) error {
	for i, st := range stmts {
		if err := ctx.Err(); err != nil {
			return err
		}

		if in.logger.Enabled(ctx, log.LevelTrace) {
			in.logger.TraceContext(ctx, "execute",
				slog.Int("index", i),
				slog.String("statement", fmt.Sprint(st)),
			)
		}

		if err := in.execute(st); err != nil {
			return err
		}
	}

	return nil
}

// Evaluate computes the value of expr in the active scope.
func (in *Interpreter) Evaluate(ctx context.Context, expr Expr) (Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return in.evaluate(expr)
}

func (in *Interpreter) execute(st Stmt) error {
	switch s := st.(type) {
	case *ExpressionStmt:
		_, err := in.evaluate(s.Expression)

		return err

	case *PrintStmt:
		v, err := in.evaluate(s.Expression)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(in.out, v.String())

		return err

	case *VarStmt:
		var v Value = Nil{}

		if s.Initializer != nil {
			var err error
			if v, err = in.evaluate(s.Initializer); err != nil {
				return err
			}
		}

		in.env.Define(s.Name.Lexeme, v)

		return nil

	case *BlockStmt:
		return in.block(s.Statements)

	default:
		return ErrInvalidValueType.Wrapf("statement %T", st)
	}
}

// block runs stmts in a new child scope. The enclosing scope is restored on
// every return path.
func (in *Interpreter) block(stmts []Stmt) error {
	leave, ok := in.enter()
	defer leave()

	if !ok {
		return in.depthError(Token{Kind: KindLeftBrace, Lexeme: "{"})
	}

	prev := in.env.Enter()
	defer in.env.Leave(prev)

	for _, st := range stmts {
		if err := in.execute(st); err != nil {
			return err
		}
	}

	return nil
}

func (in *Interpreter) evaluate(expr Expr) (Value, error) {
	leave, ok := in.enter()
	defer leave()

	if !ok {
		return nil, in.depthError(tokenOf(expr))
	}

	switch e := expr.(type) {
	case *Literal:
		if e.Value == nil {
			return Nil{}, nil
		}

		return e.Value, nil

	case *Grouping:
		return in.evaluate(e.Expression)

	case *Unary:
		right, err := in.evaluate(e.Right)
		if err != nil {
			return nil, err
		}

		return unary(e.Operator, right)

	case *Binary:
		left, err := in.evaluate(e.Left)
		if err != nil {
			return nil, err
		}

		right, err := in.evaluate(e.Right)
		if err != nil {
			return nil, err
		}

		return binary(e.Operator, left, right)

	case *Variable:
		if v, ok := in.env.Get(e.Name.Lexeme); ok {
			return v, nil
		}

		return nil, &RuntimeError{Token: e.Name, Err: ErrUndefinedVariable}

	case *Assign:
		v, err := in.evaluate(e.Value)
		if err != nil {
			return nil, err
		}

		if !in.env.Assign(e.Name.Lexeme, v) {
			return nil, &RuntimeError{Token: e.Name, Err: ErrUndefinedVariable}
		}

		return v, nil

	default:
		return nil, ErrInvalidValueType.Wrapf("expression %T", expr)
	}
}

// enter records one more level of evaluator recursion and reports whether
// the limit still holds. The returned function must always be called.
func (in *Interpreter) enter() (func(), bool) {
	in.depth++

	return func() { in.depth-- }, in.depth <= in.maxDepth
}

func (in *Interpreter) depthError(at Token) error {
	return &RuntimeError{
		Token: at,
		Err:   ErrMaxDepthExceeded.With(slog.Int("max_depth", in.maxDepth)),
	}
}

func unary(op Token, right Value) (Value, error) {
	switch op.Kind {
	case KindBang:
		return Bool(IsFalsy(right)), nil

	case KindMinus:
		if n, ok := right.(Number); ok {
			return -n, nil
		}

		return nil, &RuntimeError{
			Token: op,
			Err:   ErrOperandType.Wrapf("operand must be a number, got %s", typeOf(right)),
		}

	default:
		return nil, &RuntimeError{
			Token: op,
			Err:   ErrOperandType.Wrapf("unknown unary operator"),
		}
	}
}

func binary(op Token, left, right Value) (Value, error) {
	switch op.Kind {
	case KindEqualEqual:
		return Bool(Equal(left, right)), nil

	case KindBangEqual:
		return Bool(!Equal(left, right)), nil

	case KindPlus:
		switch l := left.(type) {
		case Number:
			if r, ok := right.(Number); ok {
				return l + r, nil
			}

		case Text:
			if r, ok := right.(Text); ok {
				return l + r, nil
			}
		}

		return nil, &RuntimeError{
			Token: op,
			Err: ErrOperandType.Wrapf(
				"operands must be two numbers or two strings, got %s and %s",
				typeOf(left), typeOf(right),
			),
		}
	}

	l, lok := left.(Number)
	r, rok := right.(Number)

	if !lok || !rok {
		return nil, &RuntimeError{
			Token: op,
			Err: ErrOperandType.Wrapf(
				"operands must be numbers, got %s and %s",
				typeOf(left), typeOf(right),
			),
		}
	}

	switch op.Kind {
	case KindMinus:
		return l - r, nil
	case KindStar:
		return l * r, nil
	case KindSlash:
		return l / r, nil
	case KindGreater:
		return Bool(l > r), nil
	case KindGreaterEqual:
		return Bool(l >= r), nil
	case KindLess:
		return Bool(l < r), nil
	case KindLessEqual:
		return Bool(l <= r), nil
	default:
		return nil, &RuntimeError{
			Token: op,
			Err:   ErrOperandType.Wrapf("unknown binary operator"),
		}
	}
}

func typeOf(v Value) Type {
	if v == nil {
		return TypeNil
	}

	return v.Type()
}

// tokenOf returns the token a failure inside expr is attributed to.
func tokenOf(expr Expr) Token {
	switch e := expr.(type) {
	case *Unary:
		return e.Operator
	case *Binary:
		return e.Operator
	case *Variable:
		return e.Name
	case *Assign:
		return e.Name
	case *Grouping:
		return Token{Kind: KindLeftParen, Lexeme: "("}
	case nil:
		return Token{Kind: KindEOF}
	default:
		return Token{Lexeme: expr.String()}
	}
}
