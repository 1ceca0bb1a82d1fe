// Package config reads the settings of the lasm tools from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/lasm/api"
	"github.com/sarchlab/lasm/target"
	"github.com/xyproto/env/v2"
)

// Environment variables read by Load.
const (
	EnvTarget    = "LASM_TARGET"
	EnvLogLevel  = "LASM_LOG_LEVEL"
	EnvLogFormat = "LASM_LOG_FORMAT"
	EnvMaxSteps  = "LASM_MAX_STEPS"
	EnvFreqGHz   = "LASM_FREQ_GHZ"
	EnvNoColor   = "LASM_NO_COLOR"
)

// Defaults used when a variable is not set.
const (
	DefaultTarget   = "c"
	DefaultLogLevel = "warn"
	DefaultMaxSteps = 10000000
	DefaultFreqGHz  = 1.0
)

// Config holds the settings shared by the command line tool and the samples.
type Config struct {
	Target    string
	LogLevel  string
	LogFormat string
	MaxSteps  uint64
	FreqGHz   float64
	Color     bool
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	steps := env.Int(EnvMaxSteps, DefaultMaxSteps)
	if steps < 0 {
		return Config{}, fmt.Errorf("%s: negative step limit %d", EnvMaxSteps, steps)
	}

	c := Config{
		Target:    env.Str(EnvTarget, DefaultTarget),
		LogLevel:  strings.ToLower(env.Str(EnvLogLevel, DefaultLogLevel)),
		LogFormat: strings.ToLower(env.Str(EnvLogFormat, "text")),
		MaxSteps:  uint64(steps),
		FreqGHz:   env.Float64(EnvFreqGHz, DefaultFreqGHz),
		Color:     !env.Bool(EnvNoColor),
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	if _, err := target.Lookup(c.Target); err != nil {
		return fmt.Errorf("%s: %w", EnvTarget, err)
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s: %w", EnvLogLevel, err)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%s: unknown format %q", EnvLogFormat, c.LogFormat)
	}

	if !(c.FreqGHz > 0) {
		return fmt.Errorf("%s: frequency must be positive, got %v",
			EnvFreqGHz, c.FreqGHz)
	}

	return nil
}

// Backend returns the backend named by Target.
func (c Config) Backend() (target.Backend, error) {
	return target.Lookup(c.Target)
}

// Freq returns the frequency machines run at.
func (c Config) Freq() sim.Freq {
	return sim.Freq(c.FreqGHz) * sim.GHz
}

// DriverBuilder returns a driver builder set up with the frequency and step
// limit of c.
func (c Config) DriverBuilder(engine sim.Engine) api.DriverBuilder {
	return api.MakeDriverBuilder().
		WithEngine(engine).
		WithFreq(c.Freq()).
		WithMaxSteps(c.MaxSteps)
}
