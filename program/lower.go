package program

import (
	"log/slog"

	"github.com/sarchlab/lasm/instr"
)

// Lower inlines every call reachable from the entry procedure and returns the
// resulting instruction stream. A program without an entry procedure lowers
// to no instructions.
func Lower(ast *AST) ([]instr.Instruction, error) {
	entry, ok := ast.Procedure(EntryPoint)
	if !ok {
		slog.Debug("Lower", "EntryPoint", EntryPoint, "Declared", false)
		entry = &Procedure{Name: EntryPoint}
	}

	l := lowerer{
		ast:    ast,
		active: make(map[string]bool),
	}

	code, err := l.expand(entry, nil)
	if err != nil {
		return nil, err
	}

	if err := CheckLoops(code); err != nil {
		return nil, err
	}

	slog.Debug("Lower",
		"Procedures", len(ast.Procs),
		"Instructions", len(code),
	)

	return code, nil
}

type lowerer struct {
	ast *AST

	// active holds the procedures being expanded on the current path.
	active map[string]bool
}

func (l *lowerer) expand(
	p *Procedure,
	out []instr.Instruction,
) ([]instr.Instruction, error) {
	l.active[p.Name] = true
	defer delete(l.active, p.Name)

	for _, e := range p.Code {
		switch e.Kind {
		case ExecNop:
		case ExecAsm:
			out = append(out, e.Inst)
		case ExecCall:
			callee, ok := l.ast.Procedure(e.Callee)
			if !ok {
				return nil, NewError(ProcedureNotDefined, e.Callee)
			}

			if l.active[callee.Name] {
				return nil, NewError(RecursiveProcedure, e.Callee)
			}

			var err error
			out, err = l.expand(callee, out)
			if err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// CheckLoops verifies that loop and endloop markers appear equally often.
func CheckLoops(code []instr.Instruction) error {
	depth := 0
	for _, i := range code {
		switch i.Op {
		case instr.WhileNotZero:
			depth++
		case instr.EndWhile:
			depth--
		}
	}

	if depth != 0 {
		return NewError(UnmatchedLoop, "")
	}

	return nil
}
