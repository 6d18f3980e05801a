// Package lang implements the lox language: a lexer, a recursive-descent
// parser and a tree-walking evaluator over a chain of lexical scopes.
//
// # Pipeline
//
// Source text flows through three stages:
//
//	tokens, err := lang.Scan(source)        // []Token, always ending in EOF
//	program, err := lang.Parse(tokens)      // *Program
//	err = lang.NewInterpreter(os.Stdout).Execute(ctx, program.Statements)
//
// [Run] performs all three for one program in a fresh interpreter, and
// [Session] keeps a single interpreter alive across many runs, as an
// interactive prompt does. Diagnostics from the lexer and the parser are
// collected together and prevent evaluation; the evaluator stops at the
// first runtime error.
//
// # Language
//
// A program is a sequence of declarations:
//
//	program     := declaration* EOF
//	declaration := "var" IDENTIFIER ( "=" expression )? ";" | statement
//	statement   := "print" expression ";" | "{" declaration* "}" | expression ";"
//	expression  := assignment
//	assignment  := IDENTIFIER "=" assignment | equality
//	equality    := comparison ( ( "!=" | "==" ) comparison )*
//	comparison  := term ( ( ">" | ">=" | "<" | "<=" ) term )*
//	term        := factor ( ( "-" | "+" ) factor )*
//	factor      := unary ( ( "/" | "*" ) unary )*
//	unary       := ( "!" | "-" ) unary | primary
//	primary     := NUMBER | STRING | "true" | "false" | "nil"
//	             | IDENTIFIER | "(" expression ")"
//
// Values are numbers (64-bit floating point), strings, booleans and nil.
// nil, false, 0 and "" are falsy; everything else is truthy.
//
// # Errors
//
// Every error produced by the package is a [Diagnostics] value holding
// [*LexError], [*ParseError] or [*RuntimeError] entries. Each entry wraps one
// of the sentinel [*Error] values, so callers may test for a condition with
// [errors.Is]:
//
//	if errors.Is(err, lang.ErrUndefinedVariable) { ... }
//
// # Host globals
//
// Globals may be predefined from expressions evaluated by the host with
// [github.com/expr-lang/expr]; see [ParseDefine] and [EvalDefines].
package lang
