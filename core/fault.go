package core

import (
	"errors"
	"fmt"

	"github.com/sarchlab/lasm/instr"
)

// Machine faults. A faulting program halts; memory is never written out of
// bounds.
var (
	ErrStackOverflow     = errors.New("stack overflow")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrAddressOutOfRange = errors.New("address out of range")
	ErrOutOfMemory       = errors.New("out of memory")
	ErrUnbalancedLoop    = errors.New("unbalanced loop")
	ErrStepLimit         = errors.New("step limit exceeded")
)

// Fault records where a program stopped abnormally.
type Fault struct {
	PC  int
	Op  instr.Instruction
	Err error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault at %d (%s): %v", f.PC, f.Op, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
