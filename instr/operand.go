package instr

import (
	"strconv"
	"unicode"
)

// Addresses of the predefined registers. Every backend relies on this order.
const (
	AccumulatorAddr  = 0
	StackPointerAddr = 1

	// PredefinedRegisters is the number of cells taken by the predefined
	// registers. User registers are allocated right after them.
	PredefinedRegisters = 2
)

// RegisterKind tags the variants of Register.
type RegisterKind int

// Register kinds.
const (
	KindNamed RegisterKind = iota
	KindAccumulator
	KindStackPointer
)

// Register is a statically addressed span of cells.
type Register struct {
	Kind RegisterKind

	// Name, size and address are only set for named registers.
	Name string
	size int
	addr int
}

// Accumulator is the implicit destination of pop.
var Accumulator = Register{Kind: KindAccumulator}

// StackPointer holds the address of the next free stack cell.
var StackPointer = Register{Kind: KindStackPointer}

// Named creates a user register occupying size cells from addr.
func Named(name string, size, addr int) Register {
	return Register{Kind: KindNamed, Name: name, size: size, addr: addr}
}

// Addr returns the first cell of the register.
func (r Register) Addr() int {
	switch r.Kind {
	case KindAccumulator:
		return AccumulatorAddr
	case KindStackPointer:
		return StackPointerAddr
	default:
		return r.addr
	}
}

// Size returns the number of cells the register occupies. Both predefined
// registers are one cell wide.
func (r Register) Size() int {
	if r.Kind == KindNamed {
		return r.size
	}

	return 1
}

// String returns the name the register is referred to by in source.
func (r Register) String() string {
	switch r.Kind {
	case KindAccumulator:
		return "ACC"
	case KindStackPointer:
		return "SPR"
	default:
		return r.Name
	}
}

// LiteralKind tags the variants of Literal.
type LiteralKind int

// Literal kinds.
const (
	KindNumber LiteralKind = iota
	KindCharacter
)

// Literal is a constant pushed by the push instruction.
type Literal struct {
	Kind LiteralKind
	Char rune
	Num  float64
}

// Character creates a character literal.
func Character(ch rune) Literal {
	return Literal{Kind: KindCharacter, Char: ch}
}

// Number creates a number literal.
func Number(n float64) Literal {
	return Literal{Kind: KindNumber, Num: n}
}

// Value returns the cell value of the literal. A character is its ordinal.
func (l Literal) Value() float64 {
	if l.Kind == KindCharacter {
		return float64(l.Char)
	}

	return l.Num
}

var charEscapes = map[rune]string{
	'\n': `\n`,
	'\r': `\r`,
	'\t': `\t`,
	0:    `\0`,
	'\'': `\'`,
	'\\': `\\`,
}

// String renders the literal so that it parses back to the same value.
// Characters that cannot be written between quotes are rendered as numbers.
func (l Literal) String() string {
	if l.Kind == KindNumber {
		return strconv.FormatFloat(l.Num, 'g', -1, 64)
	}

	if esc, ok := charEscapes[l.Char]; ok {
		return "'" + esc + "'"
	}

	if l.Char == ' ' || (unicode.IsPrint(l.Char) && !unicode.IsSpace(l.Char)) {
		return "'" + string(l.Char) + "'"
	}

	return strconv.FormatFloat(l.Value(), 'g', -1, 64)
}
