package core

import (
	"io"

	"github.com/sarchlab/akita/v4/sim"
)

// Builder can create new cores.
type Builder struct {
	engine   sim.Engine
	freq     sim.Freq
	in       io.Reader
	out      io.Writer
	maxSteps uint64
}

// NewBuilder returns a builder for cores running at 1 GHz with no step
// limit.
func NewBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithInput sets where inc and inn read from.
func (b Builder) WithInput(in io.Reader) Builder {
	b.in = in
	return b
}

// WithOutput sets where outc and outn write to.
func (b Builder) WithOutput(out io.Writer) Builder {
	b.out = out
	return b
}

// WithMaxSteps bounds the number of instructions a program may execute.
// Zero means no bound.
func (b Builder) WithMaxSteps(n uint64) Builder {
	b.maxSteps = n
	return b
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	if b.engine == nil {
		panic("core needs an engine")
	}

	if b.freq <= 0 {
		panic("core needs a positive frequency")
	}

	c := &Core{
		port:     NewPort(b.in, b.out),
		maxSteps: b.maxSteps,
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)
	c.emu = newInstEmulator(c.port)

	return c
}
