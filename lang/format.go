package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goccy/go-yaml"
)

// FormatExpr returns expr as lox source text that parses back to an
// equivalent expression. Binary operations and assignments are enclosed in
// parentheses, so precedence never depends on the reader; a grouping
// contributes no parentheses of its own. As a result
// FormatExpr(ParseExpression(FormatExpr(e))) == FormatExpr(e).
func FormatExpr(expr Expr) string {
	var sb strings.Builder

	formatExpr(&sb, expr)

	return sb.String()
}

func formatExpr(sb *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case *Literal:
		formatLiteral(sb, e)

	case *Grouping:
		formatGrouped(sb, e.Expression)

	case *Unary:
		sb.WriteString(e.Operator.Lexeme)
		formatExpr(sb, e.Right)

	case *Binary:
		sb.WriteByte('(')
		formatExpr(sb, e.Left)
		sb.WriteString(" " + e.Operator.Lexeme + " ")
		formatExpr(sb, e.Right)
		sb.WriteByte(')')

	case *Variable:
		sb.WriteString(e.Name.Lexeme)

	case *Assign:
		sb.WriteString("(" + e.Name.Lexeme + " = ")
		formatTop(sb, e.Value)
		sb.WriteByte(')')

	case nil:
		sb.WriteString("nil")
	}
}

// overflowDigits lexes to +Inf: it is one digit longer than the largest
// finite float64.
var overflowDigits = "1" + strings.Repeat("0", 309) //nolint:gochecknoglobals

// formatLiteral writes a literal as source text. Infinite numbers have no
// literal spelling, so they are written as a number too large to represent.
func formatLiteral(sb *strings.Builder, e *Literal) {
	n, ok := e.Value.(Number)
	if !ok || !math.IsInf(float64(n), 0) {
		sb.WriteString(e.String())

		return
	}

	if math.IsInf(float64(n), -1) {
		sb.WriteByte('-')
	}

	sb.WriteString(overflowDigits)
}

// formatGrouped writes a grouping's operand. Operands that do not
// parenthesize themselves get the parentheses here, so that a grouping of
// a literal or variable still reads as one.
func formatGrouped(sb *strings.Builder, expr Expr) {
	switch expr.(type) {
	case *Binary, *Assign, *Grouping:
		formatExpr(sb, expr)
	default:
		sb.WriteByte('(')
		formatExpr(sb, expr)
		sb.WriteByte(')')
	}
}

// formatTop writes expr without the outermost parentheses a binary or
// assignment would add, for positions where nothing binds tighter.
func formatTop(sb *strings.Builder, expr Expr) {
	for {
		g, ok := expr.(*Grouping)
		if !ok {
			break
		}

		expr = g.Expression
	}

	switch e := expr.(type) {
	case *Binary:
		formatExpr(sb, e.Left)
		sb.WriteString(" " + e.Operator.Lexeme + " ")
		formatExpr(sb, e.Right)

	case *Assign:
		sb.WriteString(e.Name.Lexeme + " = ")
		formatTop(sb, e.Value)

	default:
		formatExpr(sb, expr)
	}
}

// Format writes the program as lox source text, one statement per line and
// blocks indented by indent spaces per level. The output parses back to a
// program with the same behavior, and formatting that program again yields
// the same text.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	var sb strings.Builder

	for _, st := range p.Statements {
		formatStmt(&sb, st, indent, 0)
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

func formatStmt(sb *strings.Builder, st Stmt, indent, level int) {
	pad := strings.Repeat(" ", indent*level)

	sb.WriteString(pad)

	switch s := st.(type) {
	case *ExpressionStmt:
		formatTop(sb, s.Expression)
		sb.WriteString(";\n")

	case *PrintStmt:
		sb.WriteString("print ")
		formatTop(sb, s.Expression)
		sb.WriteString(";\n")

	case *VarStmt:
		sb.WriteString("var " + s.Name.Lexeme)

		if s.Initializer != nil {
			sb.WriteString(" = ")
			formatTop(sb, s.Initializer)
		}

		sb.WriteString(";\n")

	case *BlockStmt:
		sb.WriteString("{\n")

		for _, inner := range s.Statements {
			formatStmt(sb, inner, indent, level+1)
		}

		sb.WriteString(pad + "}\n")
	}
}

// FormatSExpr writes the S-expression form of each statement, one per line.
func (p *Program) FormatSExpr(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, p.String())

	return err
}

// FormatJSON writes the program as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	return writeJSON(w, p, indent)
}

// FormatYAML writes the program as YAML to the writer.
func (p *Program) FormatYAML(_ context.Context, w io.Writer, indent int) error {
	return writeYAML(w, p.ToNative(), indent)
}

// FormatTokensJSON writes tokens as a JSON array.
func FormatTokensJSON(w io.Writer, tokens []Token, indent int) error {
	return writeJSON(w, TokensToNative(tokens), indent)
}

// FormatTokensYAML writes tokens as a YAML sequence.
func FormatTokensYAML(w io.Writer, tokens []Token, indent int) error {
	return writeYAML(w, TokensToNative(tokens), indent)
}

// FormatTokensText writes one token per line as "line KIND lexeme literal".
func FormatTokensText(w io.Writer, tokens []Token) error {
	for _, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%4d %s\n", tok.Line, tok); err != nil {
			return err
		}
	}

	return nil
}

func writeJSON(w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func writeYAML(w io.Writer, v any, indent int) error {
	if indent < 1 {
		indent = 2
	}

	data, err := yaml.MarshalWithOptions(v, yaml.Indent(indent))
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
