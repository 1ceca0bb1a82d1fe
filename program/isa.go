package program

import (
	"sort"

	"github.com/sarchlab/lasm/instr"
)

// Form tells the parser how to read what follows a mnemonic.
type Form int

// Mnemonic forms.
const (
	// FormInstruction reads the operand required by the opcode.
	FormInstruction Form = iota
	// FormCall reads the name of a procedure to inline.
	FormCall
	// FormDefine reads "name, size" and allocates a register.
	FormDefine
)

// Mnemonic is one keyword that may appear in instruction position.
type Mnemonic struct {
	Name string
	Op   instr.Opcode
	Form Form
}

// ISA is the table of mnemonics accepted in procedure bodies.
type ISA struct {
	isaName        string
	nameToMnemonic map[string]Mnemonic
}

// NewISA creates an empty table.
func NewISA(name string) *ISA {
	return &ISA{
		isaName:        name,
		nameToMnemonic: make(map[string]Mnemonic),
	}
}

func (isa *ISA) registerNewInst(m Mnemonic) {
	isa.nameToMnemonic[m.Name] = m
}

// Name returns the name of the ISA.
func (isa *ISA) Name() string {
	return isa.isaName
}

// Lookup finds the mnemonic spelled name.
func (isa *ISA) Lookup(name string) (Mnemonic, bool) {
	m, ok := isa.nameToMnemonic[name]
	return m, ok
}

// Mnemonics lists every accepted spelling in alphabetical order.
func (isa *ISA) Mnemonics() []string {
	names := make([]string, 0, len(isa.nameToMnemonic))
	for n := range isa.nameToMnemonic {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}
