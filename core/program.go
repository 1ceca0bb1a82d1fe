package core

import (
	"fmt"
	"sort"

	"github.com/sarchlab/lasm/instr"
	"github.com/sarchlab/lasm/program"
)

// Program is a flat instruction list ready to run on a Core.
type Program struct {
	Layout program.Layout
	Code   []instr.Instruction

	// jumps maps each loop marker to the index of its partner.
	jumps []int
}

// NewProgram checks that the loop markers of code nest and that every
// register it names lies inside the register region of layout.
func NewProgram(layout program.Layout, code []instr.Instruction) (Program, error) {
	if layout.RegionSize < instr.PredefinedRegisters {
		return Program{}, fmt.Errorf("register region of %d cells is too small: %w",
			layout.RegionSize, ErrAddressOutOfRange)
	}

	if layout.StackSize < 0 {
		return Program{}, fmt.Errorf("negative stack size %d: %w",
			layout.StackSize, ErrAddressOutOfRange)
	}

	p := Program{
		Layout: layout,
		Code:   code,
		jumps:  make([]int, len(code)),
	}

	var open []int
	for pc, inst := range code {
		switch inst.Op {
		case instr.WhileNotZero:
			open = append(open, pc)
		case instr.EndWhile:
			if len(open) == 0 {
				return Program{}, &Fault{PC: pc, Op: inst, Err: ErrUnbalancedLoop}
			}

			start := open[len(open)-1]
			open = open[:len(open)-1]
			p.jumps[start] = pc
			p.jumps[pc] = start
		}

		if inst.Op.Operand() == instr.OperandRegister {
			r := inst.Reg
			if r.Addr() < 0 || r.Addr()+r.Size() > layout.RegionSize {
				return Program{}, &Fault{PC: pc, Op: inst, Err: ErrAddressOutOfRange}
			}
		}
	}

	if len(open) > 0 {
		pc := open[len(open)-1]
		return Program{}, &Fault{PC: pc, Op: code[pc], Err: ErrUnbalancedLoop}
	}

	return p, nil
}

// Len returns the number of instructions.
func (p Program) Len() int {
	return len(p.Code)
}

// Partner returns the index of the loop marker matching the one at pc.
func (p Program) Partner(pc int) int {
	return p.jumps[pc]
}

// Registers returns the named registers the code refers to, in address
// order.
func (p Program) Registers() []instr.Register {
	seen := make(map[string]instr.Register)

	for _, inst := range p.Code {
		if inst.Op.Operand() == instr.OperandRegister && inst.Reg.Kind == instr.KindNamed {
			seen[inst.Reg.Name] = inst.Reg
		}
	}

	regs := make([]instr.Register, 0, len(seen))
	for _, r := range seen {
		regs = append(regs, r)
	}

	sort.Slice(regs, func(i, j int) bool {
		return regs[i].Addr() < regs[j].Addr()
	})

	return regs
}
