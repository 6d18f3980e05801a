package lang

import (
	"strconv"
	"unicode/utf8"
)

// Scan converts source text into tokens. The returned slice always ends with
// exactly one EOF token, even when errors are reported. Scanning never stops
// at the first problem: every [*LexError] found is returned together as
// [Diagnostics].
func Scan(source string) ([]Token, error) {
	s := scanner{source: source, line: 1}

	return s.scan()
}

// scanner holds the cursor state of one pass over the source. start is the
// offset of the first byte of the token being scanned and current the offset
// of the next unread byte.
type scanner struct {
	source  string
	tokens  []Token
	diags   Diagnostics
	start   int
	current int
	line    int
}

func (s *scanner) scan() ([]Token, error) {
	for !s.atEnd() {
		s.start = s.current
		s.scanToken()
	}

	s.tokens = append(s.tokens, Token{Kind: KindEOF, Line: s.line})

	return s.tokens, s.diags.orNil()
}

func (s *scanner) scanToken() {
	c := s.advance()

	switch c {
	case '(':
		s.add(KindLeftParen, nil)
	case ')':
		s.add(KindRightParen, nil)
	case '{':
		s.add(KindLeftBrace, nil)
	case '}':
		s.add(KindRightBrace, nil)
	case ',':
		s.add(KindComma, nil)
	case '.':
		s.add(KindDot, nil)
	case '-':
		s.add(KindMinus, nil)
	case '+':
		s.add(KindPlus, nil)
	case ';':
		s.add(KindSemicolon, nil)
	case '*':
		s.add(KindStar, nil)

	case '!':
		s.add(s.either('=', KindBangEqual, KindBang), nil)
	case '=':
		s.add(s.either('=', KindEqualEqual, KindEqual), nil)
	case '<':
		s.add(s.either('=', KindLessEqual, KindLess), nil)
	case '>':
		s.add(s.either('=', KindGreaterEqual, KindGreater), nil)

	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.atEnd() {
				s.current++
			}
		} else {
			s.add(KindSlash, nil)
		}

	case ' ', '\r', '\t':
	case '\n':
		s.line++

	case '"':
		s.text()

	default:
		switch {
		case isDigit(c):
			s.number()
		case isAlpha(c):
			s.identifier()
		default:
			s.unexpected()
		}
	}
}

// unexpected reports the character beginning at start. Multi-byte UTF-8
// sequences are consumed whole so one diagnostic is reported per rune.
func (s *scanner) unexpected() {
	r, size := utf8.DecodeRuneInString(s.source[s.start:])
	s.current = s.start + size

	s.diags = append(s.diags, &LexError{
		Line: s.line,
		Char: r,
		Err:  ErrUnexpectedCharacter.Wrapf("%q", r),
	})
}

func (s *scanner) text() {
	line := s.line

	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}

		s.current++
	}

	if s.atEnd() {
		s.diags = append(s.diags, &LexError{
			Line: line,
			Err:  ErrUnterminatedString,
		})

		return
	}

	s.current++ // closing quote

	s.add(KindString, Text(s.source[s.start+1:s.current-1]))
}

func (s *scanner) number() {
	for isDigit(s.peek()) {
		s.current++
	}

	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.current++

		for isDigit(s.peek()) {
			s.current++
		}
	}

	// Digits and at most one interior dot always parse; the only possible
	// failure is range, which yields ±Inf as the literal value.
	f, _ := strconv.ParseFloat(s.source[s.start:s.current], 64)

	s.add(KindNumber, Number(f))
}

func (s *scanner) identifier() {
	for isAlphaNumeric(s.peek()) {
		s.current++
	}

	text := s.source[s.start:s.current]

	if kind, ok := keywords[text]; ok {
		s.add(kind, nil)

		return
	}

	s.add(KindIdentifier, Text(text))
}

func (s *scanner) add(kind TokenKind, literal Value) {
	s.tokens = append(s.tokens, Token{
		Kind:    kind,
		Lexeme:  s.source[s.start:s.current],
		Literal: literal,
		Line:    s.line,
	})
}

// either consumes next and returns two when the next byte is next, or
// returns one otherwise.
func (s *scanner) either(next byte, two, one TokenKind) TokenKind {
	if s.match(next) {
		return two
	}

	return one
}

func (s *scanner) atEnd() bool { return s.current >= len(s.source) }

func (s *scanner) advance() byte {
	c := s.source[s.current]
	s.current++

	return c
}

func (s *scanner) match(expected byte) bool {
	if s.atEnd() || s.source[s.current] != expected {
		return false
	}

	s.current++

	return true
}

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}

	return s.source[s.current]
}

func (s *scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}

	return s.source[s.current+1]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
