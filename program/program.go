// Package program holds the parsed form of a lasm source unit and lowers it
// into a flat instruction stream.
//
// A source unit is a list of procedures. Procedures are never called at run
// time: lowering starts from the entry procedure and replaces every call with
// the expanded body of the callee, so the result is a single straight list of
// instructions with loop markers as the only control flow.
package program

import "github.com/sarchlab/lasm/instr"

// ExecKind tags the variants of Exec.
type ExecKind int

// Exec kinds.
const (
	ExecNop ExecKind = iota
	ExecCall
	ExecAsm
)

// Exec is one item of a procedure body.
type Exec struct {
	Kind   ExecKind
	Callee string
	Inst   instr.Instruction
}

// Nop is left behind by directives such as define.
func Nop() Exec {
	return Exec{Kind: ExecNop}
}

// Call inlines the procedure called name.
func Call(name string) Exec {
	return Exec{Kind: ExecCall, Callee: name}
}

// Asm wraps a machine instruction.
func Asm(i instr.Instruction) Exec {
	return Exec{Kind: ExecAsm, Inst: i}
}

func (e Exec) String() string {
	switch e.Kind {
	case ExecCall:
		return "call " + e.Callee
	case ExecAsm:
		return e.Inst.String()
	default:
		return "nop"
	}
}

// Procedure is a named list of execs.
type Procedure struct {
	Name string
	Code []Exec
}

// AST is a parsed source unit.
type AST struct {
	Procs []Procedure
}

// NewAST creates an AST from procedures in source order.
func NewAST(procs []Procedure) *AST {
	return &AST{Procs: procs}
}

// Procedure finds the procedure called name.
func (a *AST) Procedure(name string) (*Procedure, bool) {
	for i := range a.Procs {
		if a.Procs[i].Name == name {
			return &a.Procs[i], true
		}
	}

	return nil, false
}

// HasEntry reports whether the entry procedure is declared.
func (a *AST) HasEntry() bool {
	_, ok := a.Procedure(EntryPoint)
	return ok
}
