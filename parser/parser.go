// Package parser turns lasm source text into a program.AST.
//
// The grammar, on whitespace-normalized text, is
//
//	program      := stack_size? procedure+
//	stack_size   := "stack_size" NUMBER
//	procedure    := "proc" IDENT instruction* "endproc"
//	instruction  := mnemonic operand?
//
// Register operands are resolved while parsing, so a register must be
// defined before the first instruction that names it. Once a mnemonic is
// recognized its operand is mandatory and a bad operand fails the whole
// parse with an error naming the instruction.
package parser

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/sarchlab/lasm/instr"
	"github.com/sarchlab/lasm/program"
)

var operandContext = map[instr.Opcode]program.Kind{
	instr.Load:  program.InvalidLoadArg,
	instr.Store: program.InvalidStoreArg,
	instr.Refer: program.InvalidReferArg,
	instr.Alloc: program.InvalidAllocArg,
	instr.Free:  program.InvalidFreeArg,
	instr.Push:  program.InvalidPushArg,
}

var charEscapes = map[rune]rune{
	'n': '\n',
	'r': '\r',
	't': '\t',
	'0': 0,
}

// Parse parses src, allocating every defined register in regs. It returns
// the procedures and the requested stack size.
func Parse(src string, regs *program.Allocator) (*program.AST, int, error) {
	p := &parser{
		s:    scanner{src: src},
		regs: regs,
		isa:  program.DefaultISA(),
	}

	stackSize, err := p.stackSize()
	if err != nil {
		return nil, 0, err
	}

	var procs []program.Procedure
	for !p.s.atEOF() {
		proc, err := p.procedure()
		if err != nil {
			return nil, 0, err
		}

		for _, prev := range procs {
			if prev.Name == proc.Name {
				return nil, 0, program.NewError(
					program.ProcedureRedefined, proc.Name)
			}
		}

		procs = append(procs, proc)
	}

	if len(procs) == 0 {
		return nil, 0, program.NewError(program.NoProcedureFound, "")
	}

	slog.Debug("Parse",
		"Procedures", len(procs),
		"StackSize", stackSize,
		"Registers", regs.Len(),
	)

	return program.NewAST(procs), stackSize, nil
}

type parser struct {
	s    scanner
	regs *program.Allocator
	isa  *program.ISA
}

func (p *parser) stackSize() (int, error) {
	start := p.s.pos

	w, ok := p.s.word()
	if !ok || w != "stack_size" {
		p.s.pos = start
		return program.DefaultStackSize, nil
	}

	return p.size()
}

// size reads a positive integer.
func (p *parser) size() (int, error) {
	tok := p.s.token()

	lexeme, ok := p.s.number()
	if !ok {
		return 0, program.NewError(program.InvalidSize, tok)
	}

	v, err := strconv.ParseFloat(lexeme, 64)
	if err != nil || v < 1 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, program.NewError(program.InvalidSize, tok)
	}

	return int(v), nil
}

func (p *parser) procedure() (program.Procedure, error) {
	tok := p.s.token()
	if w, ok := p.s.word(); !ok || w != "proc" {
		return program.Procedure{}, program.NewError(program.InvalidProcedure, tok)
	}

	tok = p.s.token()
	name, ok := p.s.word()
	if !ok {
		return program.Procedure{}, program.NewError(program.NoProcedureName, tok)
	}

	proc := program.Procedure{Name: name}

	for {
		tok = p.s.token()

		w, ok := p.s.word()
		if ok && w == "endproc" {
			return proc, nil
		}

		m, known := p.isa.Lookup(w)
		if !ok || !known {
			return program.Procedure{}, program.NewError(program.InvalidProcedure, tok)
		}

		e, err := p.instruction(m)
		if err != nil {
			return program.Procedure{}, err
		}

		proc.Code = append(proc.Code, e)
	}
}

func (p *parser) instruction(m program.Mnemonic) (program.Exec, error) {
	switch m.Form {
	case program.FormCall:
		tok := p.s.token()
		name, ok := p.s.word()
		if !ok {
			return program.Exec{}, program.NewError(program.InvalidIdentifier, tok)
		}

		return program.Call(name), nil
	case program.FormDefine:
		return p.define()
	}

	switch m.Op.Operand() {
	case instr.OperandRegister:
		r, err := p.register(operandContext[m.Op])
		if err != nil {
			return program.Exec{}, err
		}

		return program.Asm(instr.WithRegister(m.Op, r)), nil
	case instr.OperandLiteral:
		l, err := p.literal()
		if err != nil {
			return program.Exec{}, err
		}

		return program.Asm(instr.WithLiteral(m.Op, l)), nil
	default:
		return program.Asm(instr.New(m.Op)), nil
	}
}

func (p *parser) define() (program.Exec, error) {
	tok := p.s.token()
	name, ok := p.s.word()
	if !ok {
		return program.Exec{}, program.NewError(program.InvalidIdentifier, tok)
	}

	tok = p.s.token()
	if !p.s.consume(',') {
		return program.Exec{}, program.NewError(program.Unknown,
			"expected ',' after register name, found '"+tok+"'")
	}

	size, err := p.size()
	if err != nil {
		return program.Exec{}, err
	}

	if _, err := p.regs.Define(name, size); err != nil {
		return program.Exec{}, err
	}

	return program.Nop(), nil
}

// register reads a register name and resolves it. Failures are reported in
// the context of the instruction being parsed.
func (p *parser) register(ctx program.Kind) (instr.Register, error) {
	tok := p.s.token()

	name, ok := p.s.word()
	if !ok {
		return instr.Register{}, program.NewError(ctx, tok)
	}

	r, ok := p.regs.Lookup(name)
	if !ok {
		return instr.Register{}, program.Wrap(ctx, name,
			program.NewError(program.RegisterNotDefined, name))
	}

	return r, nil
}

func (p *parser) literal() (instr.Literal, error) {
	tok := p.s.token()
	bad := program.NewError(program.InvalidPushArg, tok)

	if lexeme, ok := p.s.number(); ok {
		// Literals are finite. ParseFloat reports overflow as ErrRange.
		v, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return instr.Literal{}, bad
		}

		return instr.Number(v), nil
	}

	if !p.s.consume('\'') {
		return instr.Literal{}, bad
	}

	ch, ok := p.s.next()
	if !ok {
		return instr.Literal{}, bad
	}

	if ch == '\\' {
		if ch, ok = p.s.next(); !ok {
			return instr.Literal{}, bad
		}

		if esc, known := charEscapes[ch]; known {
			ch = esc
		}
	}

	if r, ok := p.s.next(); !ok || r != '\'' {
		return instr.Literal{}, bad
	}

	return instr.Character(ch), nil
}
