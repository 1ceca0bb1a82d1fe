package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var numberPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// scanner is a cursor over normalized source text.
type scanner struct {
	src string
	pos int
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		r, n := utf8.DecodeRuneInString(s.src[s.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		s.pos += n
	}
}

func (s *scanner) atEOF() bool {
	s.skipSpace()
	return s.pos >= len(s.src)
}

// token returns the whitespace-delimited token at the cursor without
// consuming it. It is what errors quote as evidence.
func (s *scanner) token() string {
	s.skipSpace()

	rest := s.src[s.pos:]
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		return rest[:i]
	}

	return rest
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// word consumes an identifier: letters, digits and underscores.
func (s *scanner) word() (string, bool) {
	s.skipSpace()

	start := s.pos
	for s.pos < len(s.src) {
		r, n := utf8.DecodeRuneInString(s.src[s.pos:])
		if !isIdentRune(r) {
			break
		}
		s.pos += n
	}

	return s.src[start:s.pos], s.pos > start
}

// number consumes a decimal or floating point number lexeme.
func (s *scanner) number() (string, bool) {
	s.skipSpace()

	lexeme := numberPattern.FindString(s.src[s.pos:])
	s.pos += len(lexeme)

	return lexeme, lexeme != ""
}

// next consumes one rune.
func (s *scanner) next() (rune, bool) {
	if s.pos >= len(s.src) {
		return 0, false
	}

	r, n := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += n

	return r, true
}

// consume consumes r if it is the next non-space rune.
func (s *scanner) consume(r rune) bool {
	s.skipSpace()

	if strings.HasPrefix(s.src[s.pos:], string(r)) {
		s.pos += utf8.RuneLen(r)
		return true
	}

	return false
}
