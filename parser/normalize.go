package parser

import (
	"strings"
	"unicode"

	"github.com/sarchlab/lasm/program"
)

// Normalize strips C-style comments from src and collapses every run of
// whitespace outside character literals into a single space.
func Normalize(src string) (string, error) {
	var b strings.Builder
	b.Grow(len(src))

	rs := []rune(src)
	pendingSpace := false

	emit := func(r rune) {
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}

	for i := 0; i < len(rs); i++ {
		r := rs[i]

		switch {
		case r == '/' && i+1 < len(rs) && rs[i+1] == '/':
			for i < len(rs) && rs[i] != '\n' {
				i++
			}
			pendingSpace = true
		case r == '/' && i+1 < len(rs) && rs[i+1] == '*':
			end := indexRunes(rs, i+2, "*/")
			if end < 0 {
				return "", program.NewError(program.Unknown,
					"unterminated block comment")
			}
			i = end + 1
			pendingSpace = true
		case unicode.IsSpace(r):
			pendingSpace = true
		case r == '\'':
			i = copyCharLiteral(rs, i, emit)
		default:
			emit(r)
		}
	}

	return b.String(), nil
}

// copyCharLiteral copies a quoted character starting at rs[i] verbatim and
// returns the index of its last rune.
func copyCharLiteral(rs []rune, i int, emit func(rune)) int {
	n := 2
	if i+1 < len(rs) && rs[i+1] == '\\' {
		n = 3
	}

	last := i + n
	if last >= len(rs) {
		last = len(rs) - 1
	}

	for j := i; j <= last; j++ {
		emit(rs[j])
	}

	return last
}

func indexRunes(rs []rune, from int, pat string) int {
	p := []rune(pat)
	for i := from; i+len(p) <= len(rs); i++ {
		if string(rs[i:i+len(p)]) == pat {
			return i
		}
	}

	return -1
}
