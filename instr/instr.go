// Package instr defines the instructions of the lasm stack machine.
package instr

import "fmt"

// Opcode identifies a machine operation.
type Opcode int

// The closed set of machine operations.
const (
	Refer Opcode = iota
	DerefLoad
	DerefStore
	Load
	Store
	Push
	Pop
	Alloc
	Free
	Duplicate
	Add
	Subtract
	Multiply
	Divide
	OutputChar
	OutputNumber
	InputChar
	InputNumber
	Compare
	WhileNotZero
	EndWhile

	numOpcodes
)

// OperandClass tells which operand an opcode carries.
type OperandClass int

// Operand classes.
const (
	OperandNone OperandClass = iota
	OperandRegister
	OperandLiteral
)

var opcodeInfo = [numOpcodes]struct {
	mnemonic string
	operand  OperandClass
}{
	Refer:        {"refer", OperandRegister},
	DerefLoad:    {"deref_ld", OperandNone},
	DerefStore:   {"deref_st", OperandNone},
	Load:         {"ld", OperandRegister},
	Store:        {"st", OperandRegister},
	Push:         {"push", OperandLiteral},
	Pop:          {"pop", OperandNone},
	Alloc:        {"alloc", OperandRegister},
	Free:         {"free", OperandRegister},
	Duplicate:    {"dup", OperandNone},
	Add:          {"add", OperandNone},
	Subtract:     {"sub", OperandNone},
	Multiply:     {"mul", OperandNone},
	Divide:       {"div", OperandNone},
	OutputChar:   {"outc", OperandNone},
	OutputNumber: {"outn", OperandNone},
	InputChar:    {"inc", OperandNone},
	InputNumber:  {"inn", OperandNone},
	Compare:      {"cmp", OperandNone},
	WhileNotZero: {"loop", OperandNone},
	EndWhile:     {"endloop", OperandNone},
}

// Opcodes returns every opcode in declaration order.
func Opcodes() []Opcode {
	ops := make([]Opcode, 0, numOpcodes)
	for op := Opcode(0); op < numOpcodes; op++ {
		ops = append(ops, op)
	}

	return ops
}

// Valid reports whether op is one of the declared opcodes.
func (op Opcode) Valid() bool {
	return op >= 0 && op < numOpcodes
}

// Mnemonic returns the source spelling of the opcode.
func (op Opcode) Mnemonic() string {
	if !op.Valid() {
		return fmt.Sprintf("opcode(%d)", int(op))
	}

	return opcodeInfo[op].mnemonic
}

// Operand returns the class of operand the opcode takes.
func (op Opcode) Operand() OperandClass {
	if !op.Valid() {
		return OperandNone
	}

	return opcodeInfo[op].operand
}

func (op Opcode) String() string {
	return op.Mnemonic()
}

// Instruction is one machine operation together with its operand. Only the
// operand that matches Op.Operand() is meaningful.
type Instruction struct {
	Op  Opcode
	Reg Register
	Lit Literal
}

// New creates an instruction that takes no operand.
func New(op Opcode) Instruction {
	if op.Operand() != OperandNone {
		panic(fmt.Sprintf("instruction %s requires an operand", op))
	}

	return Instruction{Op: op}
}

// WithRegister creates an instruction that operates on a register.
func WithRegister(op Opcode, r Register) Instruction {
	if op.Operand() != OperandRegister {
		panic(fmt.Sprintf("instruction %s does not take a register", op))
	}

	return Instruction{Op: op, Reg: r}
}

// WithLiteral creates an instruction that carries a literal.
func WithLiteral(op Opcode, l Literal) Instruction {
	if op.Operand() != OperandLiteral {
		panic(fmt.Sprintf("instruction %s does not take a literal", op))
	}

	return Instruction{Op: op, Lit: l}
}

// String renders the instruction the way it is written in source.
func (i Instruction) String() string {
	switch i.Op.Operand() {
	case OperandRegister:
		return i.Op.Mnemonic() + " " + i.Reg.String()
	case OperandLiteral:
		return i.Op.Mnemonic() + " " + i.Lit.String()
	default:
		return i.Op.Mnemonic()
	}
}

// StackEffect returns how many cells the instruction pops and pushes when it
// executes. Loop markers report the test value popped by WhileNotZero.
func (i Instruction) StackEffect() (pops, pushes int) {
	switch i.Op {
	case Refer, Push, InputChar, InputNumber:
		return 0, 1
	case DerefLoad:
		return 1, 1
	case DerefStore:
		return 2, 0
	case Load:
		return 0, i.Reg.Size()
	case Store:
		return i.Reg.Size(), 0
	case Pop, Alloc, Free, OutputChar, OutputNumber, WhileNotZero:
		return 1, 0
	case Duplicate:
		return 1, 2
	case Add, Subtract, Multiply, Divide, Compare:
		return 2, 1
	default:
		return 0, 0
	}
}
