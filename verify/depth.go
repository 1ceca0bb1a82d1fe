package verify

import (
	"fmt"

	"github.com/sarchlab/lasm/instr"
)

type depthWalker struct {
	code     []instr.Instruction
	partners map[int]int
	issues   []Issue

	max   int
	maxPC int
}

// walk follows code[from:to] starting at depth and returns the depth at the
// end. known is false once the depth can no longer be tracked.
func (w *depthWalker) walk(from, to, depth int, known bool) (int, bool) {
	for pc := from; pc < to; pc++ {
		inst := w.code[pc]

		if !w.take(pc, inst, &depth, &known) {
			continue
		}

		if inst.Op != instr.WhileNotZero {
			continue
		}

		end := w.partners[pc]
		enter := depth

		after, ok := w.walk(pc+1, end, enter, known)
		if known && ok && after-enter != 1 {
			w.issues = append(w.issues, Issue{
				Type: IssueStack,
				PC:   pc,
				Message: fmt.Sprintf(
					"loop changes the stack by %+d cells per iteration",
					after-enter-1),
				Details: map[string]interface{}{
					"endloop": end,
					"body":    after - enter,
				},
			})
			known = false
		}

		known = known && ok
		pc = end
	}

	return depth, known
}

// take applies the stack effect of inst. It returns false when the
// instruction would underflow.
func (w *depthWalker) take(
	pc int,
	inst instr.Instruction,
	depth *int,
	known *bool,
) bool {
	pops, pushes := inst.StackEffect()

	if *known && *depth < pops {
		w.issues = append(w.issues, Issue{
			Type: IssueStack,
			PC:   pc,
			Message: fmt.Sprintf("%s pops %d cells from a stack holding %d",
				inst, pops, *depth),
			Details: map[string]interface{}{
				"pops":  pops,
				"depth": *depth,
			},
		})
		*known = false
		*depth = 0

		return false
	}

	*depth += pushes - pops
	if *depth < 0 {
		*depth = 0
	}

	if *known && *depth > w.max {
		w.max = *depth
		w.maxPC = pc
	}

	return true
}
