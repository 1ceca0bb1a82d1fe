package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/lasm/api"
	"github.com/sarchlab/lasm/config"
	"github.com/tebeka/atexit"
)

//go:embed fib.lasm
var fibKernel string

func fib(driver api.Driver, n int) {
	c, err := api.NewAssembler().Compile(fibKernel)
	if err != nil {
		panic(err)
	}

	prog, err := c.Program()
	if err != nil {
		panic(err)
	}

	driver.MapProgram(prog)
	driver.FeedIn([]byte(fmt.Sprint(n)))

	res, err := driver.Run()
	if err != nil {
		panic(err)
	}

	fmt.Print(res.Output)
	fmt.Printf("%d steps, %.3g s simulated\n", res.Steps, float64(res.VirtualTime))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if _, err := config.SetupLogging(cfg, os.Stderr); err != nil {
		panic(err)
	}

	engine := sim.NewSerialEngine()

	driver := cfg.DriverBuilder(engine).Build("Driver")

	fib(driver, 20)

	atexit.Exit(0)
}
