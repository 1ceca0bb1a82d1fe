package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/lasm/api"
	"github.com/sarchlab/lasm/core"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	Compiled     *api.Compiled
	LintIssues   []Issue
	StructIssues []Issue
	StackIssues  []Issue
	MemoryIssues []Issue
	Result       api.Result
	RunErr       error
	RunOK        bool
}

// GenerateReport runs lint and then the program on the reference machine
// with input, stopping after maxSteps instructions.
func GenerateReport(
	c *api.Compiled,
	input []byte,
	maxSteps uint64,
) *VerificationReport {
	report := &VerificationReport{Compiled: c}

	report.LintIssues = Lint(c)

	for _, issue := range report.LintIssues {
		switch issue.Type {
		case IssueStruct:
			report.StructIssues = append(report.StructIssues, issue)
		case IssueStack:
			report.StackIssues = append(report.StackIssues, issue)
		default:
			report.MemoryIssues = append(report.MemoryIssues, issue)
		}
	}

	prog, err := c.Program()
	if err != nil {
		report.RunErr = err
		return report
	}

	driver := api.MakeDriverBuilder().
		WithEngine(sim.NewSerialEngine()).
		WithMaxSteps(maxSteps).
		Build("Verify")
	driver.MapProgram(prog)
	driver.FeedIn(input)

	report.Result, report.RunErr = driver.Run()
	report.RunOK = report.RunErr == nil

	return report
}

// Passed reports whether lint found nothing and the run halted normally.
func (r *VerificationReport) Passed() bool {
	return len(r.LintIssues) == 0 && r.RunOK
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	ok := color.New(color.FgGreen).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()
	bad := color.New(color.FgRed, color.Bold).SprintFunc()

	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "LASM PROGRAM VERIFICATION REPORT")
	fmt.Fprintln(w, separator)

	layout := r.Compiled.Layout
	fmt.Fprintf(w, "\n%s %d instructions, %d register cells, %d stack cells\n",
		ok("✓"), len(r.Compiled.Code), layout.RegionSize, layout.StackSize)

	// STAGE 1: LINT
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintf(w, "%s No lint issues found!\n", ok("✓"))
	} else {
		fmt.Fprintf(w, "%s Found %d lint issues:\n\n", warn("⚠"), len(r.LintIssues))

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Type", "PC", "Message"})

		for _, issue := range r.LintIssues {
			pc := "-"
			if issue.PC >= 0 {
				pc = fmt.Sprint(issue.PC)
			}

			t.AppendRow(table.Row{issue.Type, pc, issue.Message})
		}

		t.Render()
	}

	// STAGE 2: RUN
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: REFERENCE MACHINE")
	fmt.Fprintln(w, separator)

	if r.RunOK {
		fmt.Fprintf(w, "%s Program halted after %d steps\n", ok("✓"), r.Result.Steps)
	} else {
		fmt.Fprintf(w, "%s Run error: %v\n", bad("✗"), r.RunErr)
	}

	if r.Result.Output != "" {
		fmt.Fprintf(w, "Output (%d bytes): %q\n", len(r.Result.Output), r.Result.Output)
	}

	// STAGE 3: SUMMARY
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "VERIFICATION SUMMARY")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "Lint Result: %d issues detected (%d STRUCT, %d STACK, %d MEMORY)\n",
		len(r.LintIssues), len(r.StructIssues), len(r.StackIssues), len(r.MemoryIssues))

	runStatus := "SUCCESS"
	if !r.RunOK {
		runStatus = "FAILED: " + r.RunErr.Error()
	}
	fmt.Fprintf(w, "Run Result: %s\n", runStatus)

	if r.Passed() {
		fmt.Fprintf(w, "%s PROGRAM PASSED ALL CHECKS\n", ok("✓"))
	} else if r.RunOK {
		fmt.Fprintf(w, "%s PROGRAM RAN BUT LINT FOUND ISSUES\n", warn("⚠"))
	} else {
		fmt.Fprintf(w, "%s PROGRAM FAILED\n", bad("✗"))
		if r.Result.Memory != nil {
			fmt.Fprintf(w, "Stack pointer at exit: %s\n",
				core.FormatNumber(r.Result.Memory[1]))
		}
	}

	fmt.Fprintln(w)
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
