package glsl

import (
	"fmt"
	"strings"
)

// tokenKind classifies a scanned token.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokUint
	tokFloat
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	line int
}

// scanner tokenizes a block of pure GLSL code (no preprocessor lines — those
// are split out by splitSegments before a block ever reaches the
// scanner). Comments must already have been replaced with spaces.
type scanner struct {
	src  string
	pos  int
	line int
}

func newScanner(src string, startLine int) *scanner {
	return &scanner{src: src, pos: 0, line: startLine}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// multi-character punctuation, longest first.
var punct3 = []string{"<<=", ">>="}
var punct2 = []string{
	"<<", ">>", "<=", ">=", "==", "!=", "&&", "||", "^^",
	"++", "--", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
}

func (s *scanner) peekByte() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == '\n' {
			s.line++
			s.pos++
		} else if c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f' {
			s.pos++
		} else {
			break
		}
	}
}

func (s *scanner) next() token {
	s.skipSpace()
	if s.pos >= len(s.src) {
		return token{kind: tokEOF, line: s.line}
	}

	start := s.pos
	line := s.line
	c := s.src[s.pos]

	if isIdentStart(c) {
		for s.pos < len(s.src) && isIdentCont(s.src[s.pos]) {
			s.pos++
		}
		return token{kind: tokIdent, text: s.src[start:s.pos], line: line}
	}

	if isDigit(c) || (c == '.' && s.pos+1 < len(s.src) && isDigit(s.src[s.pos+1])) {
		return s.scanNumber(line)
	}

	// Multi-char punctuation.
	if s.pos+3 <= len(s.src) {
		cand := s.src[s.pos : s.pos+3]
		for _, p := range punct3 {
			if cand == p {
				s.pos += 3
				return token{kind: tokPunct, text: p, line: line}
			}
		}
	}
	if s.pos+2 <= len(s.src) {
		cand := s.src[s.pos : s.pos+2]
		for _, p := range punct2 {
			if cand == p {
				s.pos += 2
				return token{kind: tokPunct, text: p, line: line}
			}
		}
	}

	s.pos++
	return token{kind: tokPunct, text: string(c), line: line}
}

func (s *scanner) scanNumber(line int) token {
	start := s.pos
	isFloat := false

	if s.src[s.pos] == '0' && s.pos+1 < len(s.src) && (s.src[s.pos+1] == 'x' || s.src[s.pos+1] == 'X') {
		s.pos += 2
		for s.pos < len(s.src) && isHexDigit(s.src[s.pos]) {
			s.pos++
		}
	} else {
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
		}
		if s.pos < len(s.src) && s.src[s.pos] == '.' {
			isFloat = true
			s.pos++
			for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
				s.pos++
			}
		}
		if s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
			isFloat = true
			s.pos++
			if s.pos < len(s.src) && (s.src[s.pos] == '+' || s.src[s.pos] == '-') {
				s.pos++
			}
			for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
				s.pos++
			}
		}
	}

	// Suffixes: f/F/lf/LF for float, u/U for unsigned.
	kind := tokInt
	if isFloat {
		kind = tokFloat
	}
	if s.pos < len(s.src) {
		switch s.src[s.pos] {
		case 'f', 'F':
			s.pos++
			kind = tokFloat
		case 'u', 'U':
			s.pos++
			kind = tokUint
		case 'l', 'L':
			if s.pos+1 < len(s.src) && (s.src[s.pos+1] == 'f' || s.src[s.pos+1] == 'F') {
				s.pos += 2
				kind = tokFloat
			}
		}
	}

	return token{kind: kind, text: s.src[start:s.pos], line: line}
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// stripComments replaces // line comments and /* */ block comments with
// spaces, preserving newlines so line numbers (used for diagnostics) and
// the line-based preprocessor splitter both stay accurate.
func stripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	i := 0
	n := len(src)
	for i < n {
		if src[i] == '/' && i+1 < n && src[i+1] == '/' {
			for i < n && src[i] != '\n' {
				i++
			}
			continue
		}
		if src[i] == '/' && i+1 < n && src[i+1] == '*' {
			i += 2
			for i+1 < n && !(src[i] == '*' && src[i+1] == '/') {
				if src[i] == '\n' {
					b.WriteByte('\n')
				} else {
					b.WriteByte(' ')
				}
				i++
			}
			i += 2
			continue
		}
		b.WriteByte(src[i])
		i++
	}
	return b.String()
}

func tokenError(line int, format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s", line, fmt.Sprintf(format, args...))
}
