package api_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/lasm/api"
	"github.com/sarchlab/lasm/core"
)

func mustProgram(src string) core.Program {
	c, err := api.NewAssembler().Compile(src)
	Expect(err).NotTo(HaveOccurred())

	prog, err := c.Program()
	Expect(err).NotTo(HaveOccurred())

	return prog
}

var _ = Describe("Driver", func() {
	var (
		engine sim.Engine
		driver api.Driver
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		driver = api.MakeDriverBuilder().
			WithEngine(engine).
			WithMaxSteps(1000).
			Build("Driver")
	})

	It("should refuse to run without a program", func() {
		_, err := driver.Run()

		Expect(err).To(MatchError(api.ErrNoProgram))
	})

	It("should run a program and report the result", func() {
		driver.MapProgram(mustProgram(
			"proc start define x, 1 push 6 push 7 mul dup st x outn endproc"))

		res, err := driver.Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Output).To(Equal("42"))
		Expect(res.Steps).To(Equal(uint64(6)))
		Expect(res.VirtualTime).To(BeNumerically(">", 0))
		Expect(res.Memory[2]).To(Equal(42.0))
		Expect(res.Memory[1]).To(Equal(3.0))
	})

	It("should feed input and copy output to collectors", func() {
		var collected bytes.Buffer
		driver.Collect(&collected)
		driver.FeedIn([]byte("o"))
		driver.FeedIn([]byte("k"))
		driver.MapProgram(mustProgram("proc start inc inc outc outc endproc"))

		res, err := driver.Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Output).To(Equal("ko"))
		Expect(collected.String()).To(Equal("ko"))
	})

	It("should consume input on each run", func() {
		driver.MapProgram(mustProgram("proc start inn outn endproc"))

		driver.FeedIn([]byte("12"))
		first, err := driver.Run()
		Expect(err).NotTo(HaveOccurred())

		second, err := driver.Run()
		Expect(err).NotTo(HaveOccurred())

		Expect(first.Output).To(Equal("12"))
		Expect(second.Output).To(Equal("0"))
	})

	It("should start every run from a fresh machine", func() {
		driver.MapProgram(mustProgram(`
			proc start
				define p, 1
				push 4 alloc p ld p outn
			endproc`))

		first, err := driver.Run()
		Expect(err).NotTo(HaveOccurred())
		second, err := driver.Run()
		Expect(err).NotTo(HaveOccurred())

		Expect(second.Output).To(Equal(first.Output))
	})

	It("should stop runaway programs", func() {
		driver.MapProgram(mustProgram("proc start push 1 loop push 1 endloop endproc"))

		res, err := driver.Run()

		Expect(errors.Is(err, core.ErrStepLimit)).To(BeTrue())
		Expect(res.Steps).To(Equal(uint64(1000)))
	})

	It("should return the fault together with the partial result", func() {
		driver.MapProgram(mustProgram(
			"proc start push 'a' outc pop endproc"))

		res, err := driver.Run()

		var fault *core.Fault
		Expect(errors.As(err, &fault)).To(BeTrue())
		Expect(fault.PC).To(Equal(2))
		Expect(errors.Is(err, core.ErrStackUnderflow)).To(BeTrue())
		Expect(res.Output).To(Equal("a"))
		Expect(res.Steps).To(Equal(uint64(2)))
	})
})
