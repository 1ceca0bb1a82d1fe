package api

import "github.com/sarchlab/akita/v4/sim"

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine   sim.Engine
	freq     sim.Freq
	maxSteps uint64
}

// MakeDriverBuilder returns a builder for drivers whose cores run at 1 GHz
// with no step limit.
func MakeDriverBuilder() DriverBuilder {
	return DriverBuilder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the engine. Without one the driver makes a serial engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the cores the driver runs.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithMaxSteps bounds the number of instructions a run may execute. Zero
// means no bound.
func (b DriverBuilder) WithMaxSteps(n uint64) DriverBuilder {
	b.maxSteps = n
	return b
}

// Build create a driver.
func (b DriverBuilder) Build(name string) Driver {
	d := &driverImpl{
		name:     name,
		engine:   b.engine,
		freq:     b.freq,
		maxSteps: b.maxSteps,
	}

	if d.engine == nil {
		d.engine = sim.NewSerialEngine()
	}

	if d.freq <= 0 {
		d.freq = 1 * sim.GHz
	}

	return d
}
