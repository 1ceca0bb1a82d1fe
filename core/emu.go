package core

import (
	"fmt"

	"github.com/sarchlab/lasm/instr"
)

// coreState is everything a running program can observe.
type coreState struct {
	PC    int
	Code  Program
	Steps uint64

	Memory []float64
	InUse  []bool
}

func newCoreState(prog Program) coreState {
	size := prog.Layout.MemorySize()
	s := coreState{
		Code:   prog,
		Memory: make([]float64, size),
		InUse:  make([]bool, size),
	}

	for i := 0; i < prog.Layout.RegionSize; i++ {
		s.InUse[i] = true
	}

	s.Memory[instr.StackPointerAddr] = float64(prog.Layout.RegionSize)

	return s
}

func (s *coreState) regionSize() int {
	return s.Code.Layout.RegionSize
}

// sp returns the stack pointer as stored in its register.
func (s *coreState) sp() float64 {
	return s.Memory[instr.StackPointerAddr]
}

func (s *coreState) push(v float64) error {
	sp := s.sp()
	if sp >= float64(len(s.Memory)) {
		return ErrStackOverflow
	}

	if !(sp >= float64(s.regionSize())) {
		return ErrAddressOutOfRange
	}

	i := int(sp)
	if s.InUse[i] {
		return ErrStackOverflow
	}

	s.Memory[i] = v
	s.Memory[instr.StackPointerAddr] = sp + 1

	return nil
}

func (s *coreState) pop() (float64, error) {
	sp := s.sp() - 1
	if !(sp >= float64(s.regionSize())) {
		return 0, ErrStackUnderflow
	}

	if sp >= float64(len(s.Memory)) {
		return 0, ErrAddressOutOfRange
	}

	i := int(sp)
	v := s.Memory[i]
	s.Memory[i] = 0
	s.Memory[instr.StackPointerAddr] = sp

	return v, nil
}

func (s *coreState) pop2() (a, b float64, err error) {
	if a, err = s.pop(); err != nil {
		return 0, 0, err
	}

	if b, err = s.pop(); err != nil {
		return 0, 0, err
	}

	return a, b, nil
}

// cell converts a cell value into a memory index.
func (s *coreState) cell(addr float64) (int, error) {
	if !(addr >= 0 && addr < float64(len(s.Memory))) {
		return 0, ErrAddressOutOfRange
	}

	return int(addr), nil
}

// alloc finds the highest run of n free cells above the live stack.
func (s *coreState) alloc(size float64) (int, error) {
	if !(size >= 1) || size > float64(len(s.Memory)) {
		return 0, ErrOutOfMemory
	}

	n := int(size)

	floor := s.regionSize()
	if sp := s.sp(); sp > float64(floor) && sp <= float64(len(s.Memory)) {
		floor = int(sp)
	}

	run := 0
	for i := len(s.Memory) - 1; i >= floor; i-- {
		if s.InUse[i] {
			run = 0
			continue
		}

		run++
		if run == n {
			for k := i; k < i+n; k++ {
				s.InUse[k] = true
			}

			return i, nil
		}
	}

	return 0, ErrOutOfMemory
}

func (s *coreState) free(addr, size float64) error {
	if !(size >= 1) {
		return nil
	}

	if !(addr >= float64(s.regionSize())) || addr+size > float64(len(s.Memory)) {
		return ErrAddressOutOfRange
	}

	start := int(addr)
	for k := start; k < start+int(size); k++ {
		s.Memory[k] = 0
		s.InUse[k] = false
	}

	return nil
}

type instFunc func(inst instr.Instruction, state *coreState) error

type instEmulator struct {
	port  *Port
	funcs map[instr.Opcode]instFunc
}

func newInstEmulator(port *Port) instEmulator {
	i := instEmulator{port: port}

	i.funcs = map[instr.Opcode]instFunc{
		instr.Refer:        i.runRefer,
		instr.DerefLoad:    i.runDerefLoad,
		instr.DerefStore:   i.runDerefStore,
		instr.Load:         i.runLoad,
		instr.Store:        i.runStore,
		instr.Push:         i.runPush,
		instr.Pop:          i.runPop,
		instr.Alloc:        i.runAlloc,
		instr.Free:         i.runFree,
		instr.Duplicate:    i.runDup,
		instr.Add:          i.arith(func(a, b float64) float64 { return a + b }),
		instr.Subtract:     i.arith(func(a, b float64) float64 { return b - a }),
		instr.Multiply:     i.arith(func(a, b float64) float64 { return a * b }),
		instr.Divide:       i.arith(func(a, b float64) float64 { return b / a }),
		instr.OutputChar:   i.runOutc,
		instr.OutputNumber: i.runOutn,
		instr.InputChar:    i.runInc,
		instr.InputNumber:  i.runInn,
		instr.Compare:      i.arith(compare),
		instr.WhileNotZero: i.runLoop,
		instr.EndWhile:     i.runEndLoop,
	}

	return i
}

// RunInst executes the instruction at the program counter. On error the
// program counter is left on the faulting instruction.
func (i instEmulator) RunInst(state *coreState) error {
	pc := state.PC
	inst := state.Code.Code[pc]

	f, ok := i.funcs[inst.Op]
	if !ok {
		return fmt.Errorf("unknown instruction %q at PC %d", inst, pc)
	}

	state.PC = pc + 1
	if err := f(inst, state); err != nil {
		state.PC = pc
		return err
	}

	state.Steps++

	return nil
}

func (i instEmulator) runRefer(inst instr.Instruction, state *coreState) error {
	return state.push(float64(inst.Reg.Addr()))
}

func (i instEmulator) runDerefLoad(_ instr.Instruction, state *coreState) error {
	v, err := state.pop()
	if err != nil {
		return err
	}

	addr, err := state.cell(v)
	if err != nil {
		return err
	}

	return state.push(state.Memory[addr])
}

func (i instEmulator) runDerefStore(_ instr.Instruction, state *coreState) error {
	a, err := state.pop()
	if err != nil {
		return err
	}

	addr, err := state.cell(a)
	if err != nil {
		return err
	}

	v, err := state.pop()
	if err != nil {
		return err
	}

	state.Memory[addr] = v

	return nil
}

func (i instEmulator) runLoad(inst instr.Instruction, state *coreState) error {
	base := inst.Reg.Addr()
	for k := 0; k < inst.Reg.Size(); k++ {
		if err := state.push(state.Memory[base+k]); err != nil {
			return err
		}
	}

	return nil
}

func (i instEmulator) runStore(inst instr.Instruction, state *coreState) error {
	base := inst.Reg.Addr()
	for k := inst.Reg.Size() - 1; k >= 0; k-- {
		v, err := state.pop()
		if err != nil {
			return err
		}

		state.Memory[base+k] = v
	}

	return nil
}

func (i instEmulator) runPush(inst instr.Instruction, state *coreState) error {
	return state.push(inst.Lit.Value())
}

func (i instEmulator) runPop(_ instr.Instruction, state *coreState) error {
	v, err := state.pop()
	if err != nil {
		return err
	}

	state.Memory[instr.AccumulatorAddr] = v

	return nil
}

func (i instEmulator) runAlloc(inst instr.Instruction, state *coreState) error {
	size, err := state.pop()
	if err != nil {
		return err
	}

	addr, err := state.alloc(size)
	if err != nil {
		return err
	}

	state.Memory[inst.Reg.Addr()] = float64(addr)

	return nil
}

func (i instEmulator) runFree(inst instr.Instruction, state *coreState) error {
	size, err := state.pop()
	if err != nil {
		return err
	}

	return state.free(state.Memory[inst.Reg.Addr()], size)
}

func (i instEmulator) runDup(_ instr.Instruction, state *coreState) error {
	v, err := state.pop()
	if err != nil {
		return err
	}

	if err := state.push(v); err != nil {
		return err
	}

	return state.push(v)
}

// arith pops a, then b, and pushes op(a, b).
func (i instEmulator) arith(op func(a, b float64) float64) instFunc {
	return func(_ instr.Instruction, state *coreState) error {
		a, b, err := state.pop2()
		if err != nil {
			return err
		}

		return state.push(op(a, b))
	}
}

func compare(a, b float64) float64 {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (i instEmulator) runOutc(_ instr.Instruction, state *coreState) error {
	v, err := state.pop()
	if err != nil {
		return err
	}

	return i.port.WriteChar(v)
}

func (i instEmulator) runOutn(_ instr.Instruction, state *coreState) error {
	v, err := state.pop()
	if err != nil {
		return err
	}

	return i.port.WriteNumber(v)
}

func (i instEmulator) runInc(_ instr.Instruction, state *coreState) error {
	return state.push(i.port.ReadChar())
}

func (i instEmulator) runInn(_ instr.Instruction, state *coreState) error {
	return state.push(i.port.ReadNumber())
}

// truthy reports whether v truncates to a nonzero integer. NaN is false.
func truthy(v float64) bool {
	return v >= 1 || v <= -1
}

func (i instEmulator) runLoop(_ instr.Instruction, state *coreState) error {
	pc := state.PC - 1

	v, err := state.pop()
	if err != nil {
		return err
	}

	if !truthy(v) {
		state.PC = state.Code.Partner(pc) + 1
	}

	return nil
}

func (i instEmulator) runEndLoop(_ instr.Instruction, state *coreState) error {
	state.PC = state.Code.Partner(state.PC - 1)
	return nil
}
