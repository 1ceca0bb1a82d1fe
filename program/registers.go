package program

import (
	"sort"
	"sync"

	"github.com/sarchlab/lasm/instr"
)

// Allocator assigns static addresses to registers while a source unit is
// parsed. One Allocator belongs to one compilation at a time; Reset returns
// it to its initial empty state so it can serve the next one.
type Allocator struct {
	mu    sync.Mutex
	next  int
	named map[string]instr.Register
}

// NewAllocator creates an empty allocator.
func NewAllocator() *Allocator {
	return &Allocator{
		next:  instr.PredefinedRegisters,
		named: make(map[string]instr.Register),
	}
}

// Define allocates size contiguous cells for a new register called name.
func (a *Allocator) Define(name string, size int) (instr.Register, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if size < 1 {
		return instr.Register{}, NewError(InvalidSize, name)
	}

	if isReserved(name) {
		return instr.Register{}, NewError(RegisterRedefined, name)
	}

	if _, exists := a.named[name]; exists {
		return instr.Register{}, NewError(RegisterRedefined, name)
	}

	r := instr.Named(name, size, a.next)
	a.next += size
	a.named[name] = r

	return r, nil
}

// Lookup finds a register by the name it is referred to in source.
func (a *Allocator) Lookup(name string) (instr.Register, bool) {
	switch name {
	case "ACC":
		return instr.Accumulator, true
	case "SPR":
		return instr.StackPointer, true
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	r, ok := a.named[name]

	return r, ok
}

// Next returns the next free address, which is also the size of the register
// region allocated so far.
func (a *Allocator) Next() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.next
}

// Len returns the number of user registers defined.
func (a *Allocator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.named)
}

// Registers returns the user registers in address order.
func (a *Allocator) Registers() []instr.Register {
	a.mu.Lock()
	defer a.mu.Unlock()

	regs := make([]instr.Register, 0, len(a.named))
	for _, r := range a.named {
		regs = append(regs, r)
	}

	sort.Slice(regs, func(i, j int) bool {
		return regs[i].Addr() < regs[j].Addr()
	})

	return regs
}

// Reset forgets every register and rewinds the allocation pointer.
func (a *Allocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.next = instr.PredefinedRegisters
	a.named = make(map[string]instr.Register)
}

func isReserved(name string) bool {
	return name == "ACC" || name == "SPR"
}
