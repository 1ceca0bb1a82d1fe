// Command lasm compiles lasm programs to C, Go or a flattened listing, and
// can run them on the reference machine.
//
// Usage:
//
//	lasm [-o out] [-target c|go|listing] [-run] [-lint] [-report] [-layout] file.lasm
//
// Defaults come from the LASM_* environment variables. With -run or -report
// the program reads its input from stdin.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/lasm/api"
	"github.com/sarchlab/lasm/config"
	"github.com/sarchlab/lasm/program"
	"github.com/sarchlab/lasm/target"
	"github.com/sarchlab/lasm/verify"
	"github.com/tebeka/atexit"
)

var errorColor = color.New(color.FgRed, color.Bold)

func fail(err error) {
	errorColor.Fprint(os.Stderr, "error: ")
	fmt.Fprintln(os.Stderr, err)
	atexit.Exit(1)
}

type options struct {
	output string
	target string
	run    bool
	lint   bool
	report bool
	layout bool
	file   string
}

func parseFlags(cfg config.Config, args []string) (options, error) {
	fs := flag.NewFlagSet("lasm", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: lasm [flags] file.lasm\n\n%s\nFlags:\n",
			mnemonicHelp(program.DefaultISA()))
		fs.PrintDefaults()
	}

	var o options
	fs.StringVar(&o.output, "o", "", "output file (default out.<ext> of the target)")
	fs.StringVar(&o.target, "target", cfg.Target,
		"backend: "+strings.Join(target.Names(), ", "))
	fs.BoolVar(&o.run, "run", false, "run the program on the reference machine")
	fs.BoolVar(&o.lint, "lint", false, "report static issues")
	fs.BoolVar(&o.report, "report", false, "lint and run, then print a verification report")
	fs.BoolVar(&o.layout, "layout", false, "print the memory layout")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if fs.NArg() != 1 {
		return options{}, errors.New("expected exactly one source file")
	}

	o.file = fs.Arg(0)

	return o, nil
}

// mnemonicHelp lists the instructions isa accepts.
func mnemonicHelp(isa *program.ISA) string {
	return fmt.Sprintf("%s mnemonics:\n  %s\n",
		isa.Name(), strings.Join(isa.Mnemonics(), " "))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}

	color.NoColor = color.NoColor || !cfg.Color

	if _, err := config.SetupLogging(cfg, os.Stderr); err != nil {
		fail(err)
	}

	o, err := parseFlags(cfg, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		atexit.Exit(0)
	} else if err != nil {
		fail(err)
	}

	src, err := os.ReadFile(o.file)
	if err != nil {
		fail(err)
	}

	c, err := api.NewAssembler().Compile(string(src))
	if err != nil {
		fail(fmt.Errorf("%s: %w", o.file, err))
	}

	stdout := bufio.NewWriter(os.Stdout)
	atexit.Register(func() { stdout.Flush() })

	generate := true

	if o.layout {
		printLayout(stdout, c)
		generate = false
	}

	if o.lint {
		lint(stdout, c)
		generate = false
	}

	if o.report {
		report(stdout, cfg, c)
		generate = false
	}

	if o.run {
		run(stdout, cfg, c)
		generate = false
	}

	if generate {
		emit(o, c)
	}

	atexit.Exit(0)
}

func emit(o options, c *api.Compiled) {
	b, err := target.Lookup(o.target)
	if err != nil {
		fail(err)
	}

	out, err := b.Assemble(c.Layout, c.Code)
	if err != nil {
		fail(err)
	}

	path := o.output
	if path == "" {
		path = "out." + target.Extension(b)
	}

	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		fail(err)
	}
}

func printLayout(w io.Writer, c *api.Compiled) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Layout")
	t.AppendHeader(table.Row{"Name", "Addr", "Size"})
	t.AppendRow(table.Row{"ACC", 0, 1})
	t.AppendRow(table.Row{"SPR", 1, 1})

	for _, r := range c.Registers {
		t.AppendRow(table.Row{r.Name, r.Addr(), r.Size()})
	}

	t.AppendSeparator()
	t.AppendRow(table.Row{"stack", c.Layout.RegionSize, c.Layout.StackSize})
	t.AppendFooter(table.Row{"memory", "", c.Layout.MemorySize()})
	t.Render()
}

func lint(w io.Writer, c *api.Compiled) {
	issues := verify.Lint(c)
	for _, issue := range issues {
		color.New(color.FgYellow).Fprintln(w, issue)
	}

	if len(issues) > 0 {
		atexit.Exit(1)
	}
}

func readInput() []byte {
	in, err := io.ReadAll(os.Stdin)
	if err != nil {
		fail(err)
	}

	return in
}

func report(w io.Writer, cfg config.Config, c *api.Compiled) {
	r := verify.GenerateReport(c, readInput(), cfg.MaxSteps)
	r.WriteReport(w)

	if !r.Passed() {
		atexit.Exit(1)
	}
}

func run(w *bufio.Writer, cfg config.Config, c *api.Compiled) {
	prog, err := c.Program()
	if err != nil {
		fail(err)
	}

	driver := cfg.DriverBuilder(sim.NewSerialEngine()).Build("Driver")
	driver.MapProgram(prog)
	driver.FeedIn(readInput())
	driver.Collect(w)

	res, err := driver.Run()
	w.Flush()

	if err != nil {
		fail(fmt.Errorf("%w after %d steps", err, res.Steps))
	}
}
