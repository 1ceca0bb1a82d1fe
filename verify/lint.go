package verify

import (
	"fmt"

	"github.com/sarchlab/lasm/instr"
	"github.com/sarchlab/lasm/program"
)

// RunLint performs static checks on lowered code.
// It validates structure (STRUCT) first; when the structure is sound it also
// follows the stack depth (STACK) and compares it with the layout (MEMORY).
// Returns a list of issues found, or empty list if no issues.
func RunLint(code []instr.Instruction, layout program.Layout) []Issue {
	var issues []Issue

	if len(code) == 0 {
		issues = append(issues, Issue{
			Type:    IssueStruct,
			PC:      -1,
			Message: "program has no instructions",
		})
	}

	partners, loopIssues := matchLoops(code)
	issues = append(issues, loopIssues...)
	issues = append(issues, checkRegisters(code, layout)...)

	if len(loopIssues) > 0 {
		return issues
	}

	w := depthWalker{code: code, partners: partners}
	w.walk(0, len(code), 0, true)
	issues = append(issues, w.issues...)

	if w.max > layout.StackSize {
		issues = append(issues, Issue{
			Type: IssueMemory,
			PC:   w.maxPC,
			Message: fmt.Sprintf(
				"stack grows to %d cells, stack_size is %d",
				w.max, layout.StackSize),
			Details: map[string]interface{}{
				"depth":      w.max,
				"stack_size": layout.StackSize,
			},
		})
	}

	return issues
}

// matchLoops pairs loop markers by nesting.
func matchLoops(code []instr.Instruction) (map[int]int, []Issue) {
	var (
		issues []Issue
		open   []int
	)

	partners := make(map[int]int)

	for pc, i := range code {
		switch i.Op {
		case instr.WhileNotZero:
			open = append(open, pc)
		case instr.EndWhile:
			if len(open) == 0 {
				issues = append(issues, Issue{
					Type:    IssueStruct,
					PC:      pc,
					Message: "endloop without an open loop",
				})

				continue
			}

			start := open[len(open)-1]
			open = open[:len(open)-1]
			partners[start] = pc
		}
	}

	for _, pc := range open {
		issues = append(issues, Issue{
			Type:    IssueStruct,
			PC:      pc,
			Message: "loop is never closed",
		})
	}

	return partners, issues
}

func checkRegisters(code []instr.Instruction, layout program.Layout) []Issue {
	var issues []Issue

	for pc, i := range code {
		if i.Op.Operand() != instr.OperandRegister {
			continue
		}

		end := i.Reg.Addr() + i.Reg.Size()
		if i.Reg.Addr() < 0 || end > layout.RegionSize {
			issues = append(issues, Issue{
				Type: IssueStruct,
				PC:   pc,
				Message: fmt.Sprintf(
					"register %s ends at %d, outside the register region of %d cells",
					i.Reg, end, layout.RegionSize),
				Details: map[string]interface{}{"register": i.Reg.String()},
			})
		}
	}

	return issues
}
