package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/lasm/core"
)

// ErrNoProgram is returned by Run when no program has been mapped.
var ErrNoProgram = errors.New("no program mapped")

// Driver provides the interface to run programs on a simulated machine.
type Driver interface {
	// MapProgram sets the program the next Run executes.
	MapProgram(prog core.Program)

	// FeedIn appends data to the input the program reads with inc and inn.
	FeedIn(data []byte)

	// Collect copies the program output to w as well as to the result.
	Collect(w io.Writer)

	// Run executes the mapped program until it halts. The returned error is
	// the machine fault, if any; the result is valid either way.
	Run() (Result, error)
}

// Result describes a finished run.
type Result struct {
	Output      string
	Steps       uint64
	VirtualTime sim.VTimeInSec
	Memory      []float64
	InUse       []bool
}

type driverImpl struct {
	name     string
	engine   sim.Engine
	freq     sim.Freq
	maxSteps uint64

	prog       core.Program
	mapped     bool
	input      bytes.Buffer
	collectors []io.Writer
	runs       int
}

func (d *driverImpl) MapProgram(prog core.Program) {
	d.prog = prog
	d.mapped = true
}

func (d *driverImpl) FeedIn(data []byte) {
	d.input.Write(data)
}

func (d *driverImpl) Collect(w io.Writer) {
	d.collectors = append(d.collectors, w)
}

// Run consumes the input fed so far.
func (d *driverImpl) Run() (Result, error) {
	if !d.mapped {
		return Result{}, ErrNoProgram
	}

	var out bytes.Buffer
	writers := append([]io.Writer{&out}, d.collectors...)

	d.runs++
	c := core.NewBuilder().
		WithEngine(d.engine).
		WithFreq(d.freq).
		WithInput(bytes.NewReader(d.input.Bytes())).
		WithOutput(io.MultiWriter(writers...)).
		WithMaxSteps(d.maxSteps).
		Build(d.coreName())
	d.input.Reset()

	start := d.engine.CurrentTime()
	c.MapProgram(d.prog)
	d.engine.Run()

	res := Result{
		Output:      out.String(),
		Steps:       c.Steps(),
		VirtualTime: d.engine.CurrentTime() - start,
		Memory:      c.Memory(),
		InUse:       c.InUse(),
	}

	slog.Debug("Run",
		"Driver", d.name,
		"Steps", res.Steps,
		"VirtualTime", float64(res.VirtualTime),
		"Halted", c.Halted(),
	)

	return res, c.Err()
}

func (d *driverImpl) coreName() string {
	return fmt.Sprintf("%s.Core[%d]", d.name, d.runs)
}
