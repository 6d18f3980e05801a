package lang

import "encoding/json"

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToNative())
}

// ToNative converts the program to plain maps and slices, one map per
// statement, for serialization.
func (p *Program) ToNative() []any {
	out := make([]any, len(p.Statements))
	for i, st := range p.Statements {
		out[i] = StmtToNative(st)
	}

	return out
}

// StmtToNative converts a statement to a map keyed by field name, with the
// node kind under "node".
func StmtToNative(st Stmt) map[string]any {
	switch s := st.(type) {
	case *ExpressionStmt:
		return map[string]any{
			"node":       "expression",
			"expression": ExprToNative(s.Expression),
		}

	case *PrintStmt:
		return map[string]any{
			"node":       "print",
			"expression": ExprToNative(s.Expression),
		}

	case *VarStmt:
		m := map[string]any{
			"node": "var",
			"name": s.Name.Lexeme,
			"line": s.Name.Line,
		}

		if s.Initializer != nil {
			m["initializer"] = ExprToNative(s.Initializer)
		}

		return m

	case *BlockStmt:
		body := make([]any, len(s.Statements))
		for i, inner := range s.Statements {
			body[i] = StmtToNative(inner)
		}

		return map[string]any{
			"node":       "block",
			"statements": body,
		}

	default:
		return nil
	}
}

// ExprToNative converts an expression to a map keyed by field name, with
// the node kind under "node".
func ExprToNative(expr Expr) map[string]any {
	switch e := expr.(type) {
	case *Literal:
		v := e.Value
		if v == nil {
			v = Nil{}
		}

		return map[string]any{
			"node":  "literal",
			"type":  v.Type().String(),
			"value": Native(v),
		}

	case *Grouping:
		return map[string]any{
			"node":       "grouping",
			"expression": ExprToNative(e.Expression),
		}

	case *Unary:
		return map[string]any{
			"node":     "unary",
			"operator": e.Operator.Lexeme,
			"line":     e.Operator.Line,
			"right":    ExprToNative(e.Right),
		}

	case *Binary:
		return map[string]any{
			"node":     "binary",
			"operator": e.Operator.Lexeme,
			"line":     e.Operator.Line,
			"left":     ExprToNative(e.Left),
			"right":    ExprToNative(e.Right),
		}

	case *Variable:
		return map[string]any{
			"node": "variable",
			"name": e.Name.Lexeme,
			"line": e.Name.Line,
		}

	case *Assign:
		return map[string]any{
			"node":  "assign",
			"name":  e.Name.Lexeme,
			"line":  e.Name.Line,
			"value": ExprToNative(e.Value),
		}

	default:
		return nil
	}
}

// TokensToNative converts tokens to plain maps for serialization.
func TokensToNative(tokens []Token) []any {
	out := make([]any, len(tokens))

	for i, tok := range tokens {
		m := map[string]any{
			"kind":   tok.Kind.String(),
			"lexeme": tok.Lexeme,
			"line":   tok.Line,
		}

		if tok.Literal != nil {
			m["literal"] = Native(tok.Literal)
		}

		out[i] = m
	}

	return out
}
