package lang

import "strings"

// Expr is an expression node. The set of implementations is closed:
// [*Literal], [*Grouping], [*Unary], [*Binary], [*Variable] and [*Assign].
type Expr interface {
	// String returns the fully parenthesized S-expression form.
	String() string

	expr()
}

// Stmt is a statement node. The set of implementations is closed:
// [*ExpressionStmt], [*PrintStmt], [*VarStmt] and [*BlockStmt].
type Stmt interface {
	// String returns the fully parenthesized S-expression form.
	String() string

	stmt()
}

type (
	// Literal is a constant value written in the source.
	Literal struct {
		Value Value
	}

	// Grouping is a parenthesized expression.
	Grouping struct {
		Expression Expr
	}

	// Unary is a prefix operator applied to one operand.
	Unary struct {
		Right    Expr
		Operator Token
	}

	// Binary is an infix operator applied to two operands.
	Binary struct {
		Left     Expr
		Right    Expr
		Operator Token
	}

	// Variable is a reference to a named binding.
	Variable struct {
		Name Token
	}

	// Assign stores the value of an expression in an existing binding.
	Assign struct {
		Value Expr
		Name  Token
	}
)

func (*Literal) expr()  {}
func (*Grouping) expr() {}
func (*Unary) expr()    {}
func (*Binary) expr()   {}
func (*Variable) expr() {}
func (*Assign) expr()   {}

func (e *Literal) String() string {
	if t, ok := e.Value.(Text); ok {
		return `"` + string(t) + `"`
	}

	if e.Value == nil {
		return Nil{}.String()
	}

	return e.Value.String()
}

func (e *Grouping) String() string { return sexpr("group", e.Expression) }

func (e *Unary) String() string { return sexpr(e.Operator.Lexeme, e.Right) }

func (e *Binary) String() string {
	return sexpr(e.Operator.Lexeme, e.Left, e.Right)
}

func (e *Variable) String() string { return e.Name.Lexeme }

func (e *Assign) String() string {
	return sexpr("= "+e.Name.Lexeme, e.Value)
}

type (
	// ExpressionStmt evaluates an expression for its side effects.
	ExpressionStmt struct {
		Expression Expr
	}

	// PrintStmt writes the canonical text of a value and a newline.
	PrintStmt struct {
		Expression Expr
	}

	// VarStmt declares a binding in the active scope. Initializer is nil
	// when the declaration has none, which binds [Nil].
	VarStmt struct {
		Initializer Expr
		Name        Token
	}

	// BlockStmt executes statements in a new child scope.
	BlockStmt struct {
		Statements []Stmt
	}
)

func (*ExpressionStmt) stmt() {}
func (*PrintStmt) stmt()      {}
func (*VarStmt) stmt()        {}
func (*BlockStmt) stmt()      {}

func (s *ExpressionStmt) String() string { return sexpr(";", s.Expression) }

func (s *PrintStmt) String() string { return sexpr("print", s.Expression) }

func (s *VarStmt) String() string {
	if s.Initializer == nil {
		return "(var " + s.Name.Lexeme + ")"
	}

	return sexpr("var "+s.Name.Lexeme, s.Initializer)
}

func (s *BlockStmt) String() string {
	parts := make([]string, len(s.Statements))
	for i, st := range s.Statements {
		parts[i] = st.String()
	}

	return sexprs("block", parts...)
}

// Program is the result of parsing a whole source text.
type Program struct {
	Statements []Stmt
}

// String returns the S-expression form of each statement, one per line.
func (p *Program) String() string {
	var sb strings.Builder

	for _, st := range p.Statements {
		sb.WriteString(st.String())
		sb.WriteByte('\n')
	}

	return sb.String()
}

func sexpr(head string, exprs ...Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}

	return sexprs(head, parts...)
}

func sexprs(head string, parts ...string) string {
	var sb strings.Builder

	sb.WriteByte('(')
	sb.WriteString(head)

	for _, p := range parts {
		sb.WriteByte(' ')
		sb.WriteString(p)
	}

	sb.WriteByte(')')

	return sb.String()
}
