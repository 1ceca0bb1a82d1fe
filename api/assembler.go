// Package api is the entry point for compiling and running lasm programs.
package api

import (
	"log/slog"
	"sync"

	"github.com/sarchlab/lasm/core"
	"github.com/sarchlab/lasm/instr"
	"github.com/sarchlab/lasm/parser"
	"github.com/sarchlab/lasm/program"
	"github.com/sarchlab/lasm/target"
)

// Compiled is a lowered program and the memory layout it runs in. AST is the
// parsed source it was lowered from.
type Compiled struct {
	AST       *program.AST
	Layout    program.Layout
	Code      []instr.Instruction
	Registers []instr.Register
}

// Program prepares c to run on a core.
func (c *Compiled) Program() (core.Program, error) {
	return core.NewProgram(c.Layout, c.Code)
}

// Assembler compiles lasm sources one at a time. Its register allocator is
// empty between calls, whether the previous compile succeeded or not.
type Assembler struct {
	mu   sync.Mutex
	regs *program.Allocator
}

// NewAssembler creates an assembler.
func NewAssembler() *Assembler {
	return &Assembler{regs: program.NewAllocator()}
}

// Registers exposes the allocator used while parsing.
func (a *Assembler) Registers() *program.Allocator {
	return a.regs
}

// Compile parses and lowers src.
func (a *Assembler) Compile(src string) (*Compiled, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.regs.Reset()

	norm, err := parser.Normalize(src)
	if err != nil {
		return nil, err
	}

	ast, stackSize, err := parser.Parse(norm, a.regs)
	if err != nil {
		return nil, err
	}

	code, err := program.Lower(ast)
	if err != nil {
		return nil, err
	}

	return &Compiled{
		Layout: program.Layout{
			RegionSize: a.regs.Next(),
			StackSize:  stackSize,
		},
		Code:      code,
		Registers: a.regs.Registers(),
		AST:       ast,
	}, nil
}

// Assemble compiles src and generates code for it with b.
func (a *Assembler) Assemble(b target.Backend, src string) (string, error) {
	c, err := a.Compile(src)
	if err != nil {
		return "", err
	}

	out, err := b.Assemble(c.Layout, c.Code)
	if err != nil {
		return "", err
	}

	slog.Debug("Assemble",
		"Instructions", len(c.Code),
		"RegionSize", c.Layout.RegionSize,
		"StackSize", c.Layout.StackSize,
		"Bytes", len(out),
	)

	return out, nil
}

// Assemble compiles src with a fresh Assembler and generates code for it
// with b.
func Assemble(b target.Backend, src string) (string, error) {
	return NewAssembler().Assemble(b, src)
}
