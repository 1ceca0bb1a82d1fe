// Package core is the reference lasm machine. A Core executes one
// instruction per tick of an akita engine.
package core

import (
	"errors"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/lasm/instr"
)

// HookPosInstExec marks the execution of an instruction. The hook item is
// the instruction.
var HookPosInstExec = &sim.HookPos{Name: "Inst Exec"}

// Core runs a single lasm program.
type Core struct {
	*sim.TickingComponent

	port     *Port
	state    coreState
	emu      instEmulator
	maxSteps uint64

	mapped bool
	halted bool
	err    error
}

// MapProgram loads prog into a fresh memory and schedules the first tick.
func (c *Core) MapProgram(prog Program) {
	c.state = newCoreState(prog)
	c.mapped = true
	c.halted = false
	c.err = nil

	slog.Debug("MapProgram",
		"Core", c.Name(),
		"Instructions", prog.Len(),
		"RegionSize", prog.Layout.RegionSize,
		"StackSize", prog.Layout.StackSize,
	)

	c.TickNow()
}

// Tick runs the program for one cycle.
func (c *Core) Tick() (madeProgress bool) {
	if !c.mapped || c.halted {
		return false
	}

	if c.state.PC >= c.state.Code.Len() {
		c.halt(nil)
		return false
	}

	if c.maxSteps > 0 && c.state.Steps >= c.maxSteps {
		c.halt(c.fault(ErrStepLimit))
		return false
	}

	inst := c.state.Code.Code[c.state.PC]

	if c.NumHooks() > 0 {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosInstExec,
			Item:   inst,
		})
	}

	Trace("Inst",
		"Time", float64(c.Engine.CurrentTime()*1e9),
		"Core", c.Name(),
		"PC", c.state.PC,
		"Inst", inst.String(),
		"SP", c.state.sp(),
	)

	if err := c.emu.RunInst(&c.state); err != nil {
		c.halt(c.fault(err))
		return false
	}

	return true
}

func (c *Core) fault(err error) error {
	pc := c.state.PC
	f := &Fault{PC: pc, Err: err}

	if pc < c.state.Code.Len() {
		f.Op = c.state.Code.Code[pc]
	}

	return f
}

func (c *Core) halt(err error) {
	c.halted = true
	c.err = err

	if ferr := c.port.Flush(); ferr != nil && c.err == nil {
		c.err = ferr
	}

	var f *Fault
	if errors.As(c.err, &f) {
		slog.Warn("Fault",
			"Core", c.Name(),
			"PC", f.PC,
			"Inst", f.Op.String(),
			"Err", f.Err.Error(),
		)
	}

	LogState(c)
}

// Halted reports whether the program has stopped, normally or not.
func (c *Core) Halted() bool {
	return c.halted
}

// Err returns the fault that stopped the program, or nil.
func (c *Core) Err() error {
	return c.err
}

// Steps returns the number of instructions executed.
func (c *Core) Steps() uint64 {
	return c.state.Steps
}

// PC returns the index of the next instruction.
func (c *Core) PC() int {
	return c.state.PC
}

// Program returns the mapped program.
func (c *Core) Program() Program {
	return c.state.Code
}

// Port returns the I/O port of the core.
func (c *Core) Port() *Port {
	return c.port
}

// Memory returns a copy of the memory cells.
func (c *Core) Memory() []float64 {
	return append([]float64(nil), c.state.Memory...)
}

// InUse returns a copy of the in-use flags.
func (c *Core) InUse() []bool {
	return append([]bool(nil), c.state.InUse...)
}

// Read returns the cells of r.
func (c *Core) Read(r instr.Register) []float64 {
	base := r.Addr()
	return append([]float64(nil), c.state.Memory[base:base+r.Size()]...)
}
