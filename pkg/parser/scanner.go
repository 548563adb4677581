package parser

import (
	"fmt"
	"strconv"
)

// Scanner turns Sox source text into a token stream.
type Scanner struct {
	source  string
	tokens  []Token
	start   int
	current int
	line    int
	errs    []error
}

func NewScanner(source string) *Scanner {
	return &Scanner{source: source, line: 1}
}

// ScanTokens consumes the whole source and returns the tokens, EOF included.
// All lexical errors are collected before reporting.
func (s *Scanner) ScanTokens() ([]Token, error) {
	for !s.atEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, Token{Type: EOF, Line: s.line})
	if len(s.errs) > 0 {
		return s.tokens, joinErrors(s.errs)
	}
	return s.tokens, nil
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.add(LeftParen)
	case ')':
		s.add(RightParen)
	case '{':
		s.add(LeftBrace)
	case '}':
		s.add(RightBrace)
	case ',':
		s.add(Comma)
	case '.':
		s.add(Dot)
	case ';':
		s.add(Semi)
	case '+':
		s.add(Plus)
	case '-':
		s.add(Minus)
	case '*':
		s.add(Star)
	case '%':
		s.add(Rem)
	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.atEnd() {
				s.advance()
			}
		} else {
			s.add(Slash)
		}
	case '!':
		if s.match('=') {
			s.add(BangEqual)
		} else {
			s.add(Bang)
		}
	case '=':
		if s.match('=') {
			s.add(EqualEqual)
		} else {
			s.add(Equal)
		}
	case '<':
		if s.match('=') {
			s.add(LessEqual)
		} else {
			s.add(Less)
		}
	case '>':
		if s.match('=') {
			s.add(GreaterEqual)
		} else {
			s.add(Greater)
		}
	case ' ', '\r', '\t':
		// insignificant whitespace
	case '\n':
		s.line++
	case '"':
		s.scanString()
	default:
		switch {
		case isDigit(c):
			s.scanNumber()
		case isAlpha(c):
			s.scanIdentifier()
		default:
			s.errorf("Unexpected character '%c'.", c)
		}
	}
}

func (s *Scanner) scanString() {
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.atEnd() {
		s.errorf("Unterminated string.")
		return
	}
	s.advance() // closing quote
	value := s.source[s.start+1 : s.current-1]
	s.addLiteral(String, value)
}

func (s *Scanner) scanNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	value, err := strconv.ParseFloat(s.source[s.start:s.current], 64)
	if err != nil {
		s.errorf("Invalid number literal %q.", s.source[s.start:s.current])
		return
	}
	s.addLiteral(Number, value)
}

func (s *Scanner) scanIdentifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	lexeme := s.source[s.start:s.current]
	if kw, ok := keywords[lexeme]; ok {
		s.add(kw)
		return
	}
	s.add(Identifier)
}

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	return c
}

func (s *Scanner) match(expected byte) bool {
	if s.atEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

func (s *Scanner) atEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) add(t TokenType) {
	s.addLiteral(t, nil)
}

func (s *Scanner) addLiteral(t TokenType, literal any) {
	s.tokens = append(s.tokens, Token{
		Type:    t,
		Lexeme:  s.source[s.start:s.current],
		Literal: literal,
		Line:    s.line,
	})
}

func (s *Scanner) errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.errs = append(s.errs, fmt.Errorf("[line %d] Error: %s", s.line, msg))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
