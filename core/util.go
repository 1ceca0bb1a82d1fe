package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/lasm/instr"
)

// LevelTrace is the level of per-instruction machine logs. It sits below
// Debug so that tracing a run has to be asked for.
const LevelTrace slog.Level = slog.LevelDebug - 4

// Trace logs at LevelTrace.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// RenderState draws the registers, the live stack and the allocated heap
// runs of c as tables.
func RenderState(c *Core) string {
	s := &c.state
	var sb strings.Builder

	regTable := table.NewWriter()
	regTable.SetTitle(fmt.Sprintf("Registers @ PC %d", s.PC))
	regTable.AppendHeader(table.Row{"Name", "Addr", "Size", "Value"})

	regs := append([]instr.Register{instr.Accumulator, instr.StackPointer},
		s.Code.Registers()...)
	for _, r := range regs {
		regTable.AppendRow(table.Row{
			r.String(), r.Addr(), r.Size(), formatCells(c.Read(r)),
		})
	}

	sb.WriteString(regTable.Render())
	sb.WriteString("\n")

	stackTable := table.NewWriter()
	stackTable.SetTitle("Stack")
	stackTable.AppendHeader(table.Row{"Addr", "Value"})

	top := int(s.sp())
	if top > len(s.Memory) {
		top = len(s.Memory)
	}

	for a := top - 1; a >= s.regionSize(); a-- {
		stackTable.AppendRow(table.Row{a, FormatNumber(s.Memory[a])})
	}

	sb.WriteString(stackTable.Render())
	sb.WriteString("\n")

	heapTable := table.NewWriter()
	heapTable.SetTitle("Heap")
	heapTable.AppendHeader(table.Row{"Start", "Size", "Values"})

	for _, run := range heapRuns(s) {
		heapTable.AppendRow(table.Row{
			run[0], run[1], formatCells(s.Memory[run[0] : run[0]+run[1]]),
		})
	}

	sb.WriteString(heapTable.Render())

	return sb.String()
}

// PrintState writes RenderState(c) to w.
func PrintState(w io.Writer, c *Core) {
	fmt.Fprintln(w, RenderState(c))
}

// LogState writes a debug checkpoint of the machine.
func LogState(c *Core) {
	s := &c.state
	if len(s.Memory) == 0 {
		return
	}

	slog.Debug("StateCheckpoint",
		"Core", c.Name(),
		"PC", s.PC,
		"Steps", s.Steps,
		"ACC", s.Memory[instr.AccumulatorAddr],
		"SPR", s.sp(),
		"HeapRuns", heapRuns(s),
	)
}

// heapRuns returns {start, size} for each contiguous run of in-use cells
// outside the register region.
func heapRuns(s *coreState) [][2]int {
	var runs [][2]int

	start := -1
	for a := s.regionSize(); a <= len(s.InUse); a++ {
		used := a < len(s.InUse) && s.InUse[a]

		switch {
		case used && start < 0:
			start = a
		case !used && start >= 0:
			runs = append(runs, [2]int{start, a - start})
			start = -1
		}
	}

	return runs
}

func formatCells(cells []float64) string {
	parts := make([]string, len(cells))
	for i, v := range cells {
		parts[i] = FormatNumber(v)
	}

	return strings.Join(parts, " ")
}
