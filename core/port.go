package core

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/akita/v4/sim"
)

// HookPosPortInput marks when the program reads a value from its input.
var HookPosPortInput = &sim.HookPos{Name: "Port Input"}

// HookPosPortOutput marks when the program writes to its output. The hook
// item is the text written.
var HookPosPortOutput = &sim.HookPos{Name: "Port Output"}

// Port connects a machine to its input and output streams. Output is
// buffered until Flush.
type Port struct {
	sim.HookableBase

	in  *bufio.Reader
	out *bufio.Writer
}

// NewPort creates a port reading from in and writing to out. A nil reader
// behaves as an empty input and a nil writer discards output.
func NewPort(in io.Reader, out io.Writer) *Port {
	if in == nil {
		in = strings.NewReader("")
	}

	if out == nil {
		out = io.Discard
	}

	return &Port{
		in:  bufio.NewReader(in),
		out: bufio.NewWriter(out),
	}
}

// ReadChar reads one byte. It returns 0 at the end of input or on error.
func (p *Port) ReadChar() float64 {
	b, err := p.in.ReadByte()
	if err != nil {
		return 0
	}

	v := float64(b)
	p.invoke(HookPosPortInput, v)

	return v
}

// ReadNumber reads one number, skipping leading white space. It returns 0
// at the end of input or when the input is not a number.
func (p *Port) ReadNumber() float64 {
	var v float64
	if _, err := fmt.Fscan(p.in, &v); err != nil {
		return 0
	}

	p.invoke(HookPosPortInput, v)

	return v
}

// WriteChar writes int(v) mod 256 as a single byte.
func (p *Port) WriteChar(v float64) error {
	b := byte(int64(v) % 256)
	p.invoke(HookPosPortOutput, string([]byte{b}))

	return p.out.WriteByte(b)
}

// WriteNumber writes v the way C's %G conversion does: at most six
// significant digits and an upper case exponent.
func (p *Port) WriteNumber(v float64) error {
	s := FormatNumber(v)
	p.invoke(HookPosPortOutput, s)

	_, err := p.out.WriteString(s)

	return err
}

// Flush writes buffered output to the underlying writer.
func (p *Port) Flush() error {
	return p.out.Flush()
}

func (p *Port) invoke(pos *sim.HookPos, item interface{}) {
	if p.NumHooks() == 0 {
		return
	}

	p.InvokeHook(sim.HookCtx{
		Domain: p,
		Pos:    pos,
		Item:   item,
	})
}

// FormatNumber renders a cell value as outn prints it.
func FormatNumber(v float64) string {
	return fmt.Sprintf("%.6G", v)
}
