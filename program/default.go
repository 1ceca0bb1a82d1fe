package program

import "github.com/sarchlab/lasm/instr"

// DefaultStackSize is the number of stack cells used when the source has no
// stack_size directive.
const DefaultStackSize = 256

// EntryPoint is the name of the procedure a program starts in.
const EntryPoint = "start"

var defaultISA = NewISA("lasm")

func init() {
	for _, op := range instr.Opcodes() {
		defaultISA.registerNewInst(Mnemonic{
			Name: op.Mnemonic(),
			Op:   op,
			Form: FormInstruction,
		})
	}

	defaultISA.registerNewInst(Mnemonic{Name: "call", Form: FormCall})
	defaultISA.registerNewInst(Mnemonic{Name: "define", Form: FormDefine})
}

// DefaultISA returns the lasm mnemonic table.
func DefaultISA() *ISA {
	return defaultISA
}

// Layout describes the memory of a lowered program: the register region
// followed by the stack.
type Layout struct {
	RegionSize int
	StackSize  int
}

// MemorySize is the total number of cells.
func (l Layout) MemorySize() int {
	return l.RegionSize + l.StackSize
}
