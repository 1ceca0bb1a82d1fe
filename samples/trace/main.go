package main

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/lasm/api"
	"github.com/sarchlab/lasm/core"
	"github.com/sarchlab/lasm/instr"
	"github.com/tebeka/atexit"
)

//go:embed echo.lasm
var echoKernel string

// opCounter counts executed instructions per opcode.
type opCounter struct {
	counts map[instr.Opcode]int
}

func (h *opCounter) Func(ctx sim.HookCtx) {
	if ctx.Pos != core.HookPosInstExec {
		return
	}

	h.counts[ctx.Item.(instr.Instruction).Op]++
}

func main() {
	c, err := api.NewAssembler().Compile(echoKernel)
	if err != nil {
		panic(err)
	}

	prog, err := c.Program()
	if err != nil {
		panic(err)
	}

	engine := sim.NewSerialEngine()

	var out strings.Builder
	machine := core.NewBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithInput(strings.NewReader("hello, lasm\n")).
		WithOutput(&out).
		WithMaxSteps(100000).
		Build("Machine")

	counter := &opCounter{counts: make(map[instr.Opcode]int)}
	machine.AcceptHook(counter)

	machine.MapProgram(prog)
	engine.Run()

	if err := machine.Err(); err != nil {
		panic(err)
	}

	fmt.Print(out.String())
	core.PrintState(os.Stdout, machine)

	for _, op := range instr.Opcodes() {
		if n := counter.counts[op]; n > 0 {
			fmt.Printf("%-10s %d\n", op.Mnemonic(), n)
		}
	}

	atexit.Exit(0)
}
