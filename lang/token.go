package lang

//go:generate go tool stringer --linecomment --type TokenKind --output token_string.go

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// TokenKind is the closed set of lexical token kinds.
type TokenKind int

const (
	// Single-character punctuation.
	KindLeftParen  TokenKind = iota // LEFT_PAREN
	KindRightParen                  // RIGHT_PAREN
	KindLeftBrace                   // LEFT_BRACE
	KindRightBrace                  // RIGHT_BRACE
	KindComma                       // COMMA
	KindDot                         // DOT
	KindMinus                       // MINUS
	KindPlus                        // PLUS
	KindSemicolon                   // SEMICOLON
	KindSlash                       // SLASH
	KindStar                        // STAR

	// One- or two-character operators.
	KindBang         // BANG
	KindBangEqual    // BANG_EQUAL
	KindEqual        // EQUAL
	KindEqualEqual   // EQUAL_EQUAL
	KindGreater      // GREATER
	KindGreaterEqual // GREATER_EQUAL
	KindLess         // LESS
	KindLessEqual    // LESS_EQUAL

	// Literals.
	KindIdentifier // IDENTIFIER
	KindString     // STRING
	KindNumber     // NUMBER

	// Keywords.
	KindAnd    // AND
	KindClass  // CLASS
	KindElse   // ELSE
	KindFalse  // FALSE
	KindFor    // FOR
	KindFun    // FUN
	KindIf     // IF
	KindNil    // NIL
	KindOr     // OR
	KindPrint  // PRINT
	KindReturn // RETURN
	KindSuper  // SUPER
	KindThis   // THIS
	KindTrue   // TRUE
	KindVar    // VAR
	KindWhile  // WHILE

	KindEOF // EOF
)

var keywords = map[string]TokenKind{
	"and":    KindAnd,
	"class":  KindClass,
	"else":   KindElse,
	"false":  KindFalse,
	"for":    KindFor,
	"fun":    KindFun,
	"if":     KindIf,
	"nil":    KindNil,
	"or":     KindOr,
	"print":  KindPrint,
	"return": KindReturn,
	"super":  KindSuper,
	"this":   KindThis,
	"true":   KindTrue,
	"var":    KindVar,
	"while":  KindWhile,
}

// Keywords returns the reserved words in lexical order.
func Keywords() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(keywords)))
}

// IsKeyword reports whether the kind is a reserved word.
func (k TokenKind) IsKeyword() bool {
	return k >= KindAnd && k <= KindWhile
}

// MarshalText implements encoding.TextMarshaler.
func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Token is a lexical unit. Tokens are immutable once produced.
type Token struct {
	// Literal is non-nil only for NUMBER (a [Number]), STRING (a [Text]
	// without the quotes) and IDENTIFIER (a [Text] holding the name).
	Literal Value
	Lexeme  string
	Kind    TokenKind
	Line    int
}

// String returns the kind, lexeme and literal separated by spaces.
func (t Token) String() string {
	if t.Literal == nil {
		return fmt.Sprintf("%s %s", t.Kind, t.Lexeme)
	}

	return fmt.Sprintf("%s %s %s", t.Kind, t.Lexeme, t.Literal)
}
