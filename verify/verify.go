// Package verify checks lasm programs before they are run or handed to a
// backend.
//
// Verification has two stages:
//
//  1. Static lint (lint.go): checks on the lowered code that need no input.
//     STRUCT issues are problems with the shape of the program, STACK issues
//     come from following the stack depth through the code, and MEMORY
//     issues compare what the program needs with the layout it was given.
//
//  2. A run on the reference machine (report.go) with a fixed input and a
//     step limit, so that programs that never halt still produce a report.
//
// # Stack depth
//
// The depth walk follows the path that enters every loop once and then
// leaves it through its test. A loop is balanced when its body pushes
// exactly one more cell than it pops, the value the next test consumes.
// After an unbalanced loop the depth is unknown and the walk only reports
// structural problems.
//
// # Usage Example
//
//	c, err := api.NewAssembler().Compile(src)
//	if err != nil {
//	    return err
//	}
//
//	for _, issue := range verify.Lint(c) {
//	    log.Printf("[%s] pc=%d: %s", issue.Type, issue.PC, issue.Message)
//	}
//
//	report := verify.GenerateReport(c, input, 1000000)
//	report.WriteReport(os.Stdout)
package verify

import (
	"fmt"

	"github.com/sarchlab/lasm/api"
	"github.com/sarchlab/lasm/program"
)

// IssueType categorizes lint issues
type IssueType string

const (
	IssueStruct IssueType = "STRUCT" // Program shape (loops, entry, registers)
	IssueStack  IssueType = "STACK"  // Stack depth (underflow, unbalanced loops)
	IssueMemory IssueType = "MEMORY" // Layout too small for the program
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType              // STRUCT, STACK or MEMORY
	PC      int                    // Instruction index, -1 if not applicable
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}

func (i Issue) String() string {
	if i.PC < 0 {
		return fmt.Sprintf("[%s] %s", i.Type, i.Message)
	}

	return fmt.Sprintf("[%s] pc=%d: %s", i.Type, i.PC, i.Message)
}

// Lint runs every check on a compiled program.
func Lint(c *api.Compiled) []Issue {
	var issues []Issue

	if c.AST != nil {
		issues = append(issues, CheckEntry(c.AST)...)
	}

	return append(issues, RunLint(c.Code, c.Layout)...)
}

// CheckEntry reports a missing entry procedure and procedures that the entry
// procedure never reaches.
func CheckEntry(ast *program.AST) []Issue {
	if !ast.HasEntry() {
		return []Issue{{
			Type: IssueStruct,
			PC:   -1,
			Message: fmt.Sprintf(
				"no entry procedure '%s'; the program does nothing",
				program.EntryPoint),
		}}
	}

	reached := map[string]bool{program.EntryPoint: true}
	queue := []string{program.EntryPoint}

	for len(queue) > 0 {
		proc, ok := ast.Procedure(queue[0])
		queue = queue[1:]

		if !ok {
			continue
		}

		for _, e := range proc.Code {
			if e.Kind == program.ExecCall && !reached[e.Callee] {
				reached[e.Callee] = true
				queue = append(queue, e.Callee)
			}
		}
	}

	var issues []Issue
	for _, p := range ast.Procs {
		if !reached[p.Name] {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				PC:      -1,
				Message: fmt.Sprintf("procedure '%s' is never called", p.Name),
				Details: map[string]interface{}{"procedure": p.Name},
			})
		}
	}

	return issues
}
