package api_test

import (
	"errors"
	"sync"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/lasm/api"
	"github.com/sarchlab/lasm/instr"
	"github.com/sarchlab/lasm/program"
	"github.com/sarchlab/lasm/target"
)

var _ = Describe("Assembler", func() {
	var (
		mockCtrl    *gomock.Controller
		mockBackend *MockBackend
		assembler   *api.Assembler
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		mockBackend = NewMockBackend(mockCtrl)
		assembler = api.NewAssembler()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should hand the layout and lowered code to the backend", func() {
		x := instr.Named("x", 2, 2)

		mockBackend.EXPECT().
			Assemble(
				program.Layout{RegionSize: 4, StackSize: 64},
				[]instr.Instruction{
					instr.WithRegister(instr.Load, x),
					instr.New(instr.OutputNumber),
				}).
			Return("generated", nil)

		out, err := assembler.Assemble(mockBackend, `
			stack_size 64
			proc start define x, 2 call show endproc
			proc show ld x outn endproc`)

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("generated"))
		Expect(assembler.Registers().Len()).To(BeZero())
	})

	It("should not call the backend when compiling fails", func() {
		_, err := assembler.Assemble(mockBackend,
			"proc start define x, 1 ld y endproc")

		Expect(errors.Is(err, program.ErrInvalidLoadArg)).To(BeTrue())
		Expect(program.KindOf(err)).To(Equal(program.RegisterNotDefined))
		Expect(err).To(MatchError("invalid argument supplied to ld: 'y': register not defined: 'y'"))
		Expect(assembler.Registers().Len()).To(BeZero())
		Expect(assembler.Registers().Next()).To(Equal(instr.PredefinedRegisters))
	})

	It("should report backend failures", func() {
		mockBackend.EXPECT().
			Assemble(gomock.Any(), gomock.Any()).
			Return("", errors.New("backend broke"))

		_, err := assembler.Assemble(mockBackend, "proc start define x, 1 endproc")

		Expect(err).To(MatchError("backend broke"))
		Expect(assembler.Registers().Len()).To(BeZero())
	})

	DescribeTable("should classify compile errors",
		func(src string, kind program.Kind, msg string) {
			_, err := assembler.Compile(src)

			Expect(program.KindOf(err)).To(Equal(kind))
			Expect(err).To(MatchError(msg))
			Expect(assembler.Registers().Len()).To(BeZero())
		},
		Entry("undefined procedure",
			"proc start call foo endproc",
			program.ProcedureNotDefined, "procedure not defined: 'foo'"),
		Entry("unmatched loop",
			"proc start push 1 loop loop loop endloop endloop endproc",
			program.UnmatchedLoop, "unmatched loop"),
		Entry("recursion",
			"proc a call b endproc proc b call a endproc proc start call a endproc",
			program.RecursiveProcedure, "recursive procedure call: 'a'"),
		Entry("duplicate define",
			"proc start define x, 1 define x, 2 endproc",
			program.RegisterRedefined, "register already defined: 'x'"),
		Entry("no procedures",
			"stack_size 10",
			program.NoProcedureFound, "no procedure found"),
		Entry("unterminated comment",
			"proc start /* endproc",
			program.Unknown, "unknown error: unterminated block comment"),
	)

	It("should compile to a runnable program", func() {
		c, err := assembler.Compile("proc start define a, 2 define b, 1 ld b endproc")

		Expect(err).NotTo(HaveOccurred())
		Expect(c.Layout).To(Equal(program.Layout{RegionSize: 5, StackSize: 256}))
		Expect(c.Registers).To(Equal([]instr.Register{
			instr.Named("a", 2, 2),
			instr.Named("b", 1, 4),
		}))

		prog, err := c.Program()
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Len()).To(Equal(1))
	})

	It("should produce identical output for identical input", func() {
		src := "proc start define x, 3 ld x outn outn outn endproc"

		first, err := assembler.Assemble(target.C{}, src)
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 3; i++ {
			again, err := assembler.Assemble(target.C{}, src)
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(first))
		}
	})

	It("should compile independent sources concurrently", func() {
		src := "proc start define x, 3 define y, 1 ld y ld x outn outn outn outn endproc"
		want, err := api.Assemble(target.Listing{}, src)
		Expect(err).NotTo(HaveOccurred())

		var wg sync.WaitGroup
		results := make([]string, 16)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				defer GinkgoRecover()

				out, err := api.Assemble(target.Listing{}, src)
				Expect(err).NotTo(HaveOccurred())
				results[i] = out
			}(i)
		}
		wg.Wait()

		for _, r := range results {
			Expect(r).To(Equal(want))
		}
	})

	It("should serialise compiles sharing an assembler", func() {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()

				c, err := assembler.Compile("proc start define x, 2 ld x endproc")
				Expect(err).NotTo(HaveOccurred())
				Expect(c.Layout.RegionSize).To(Equal(4))
			}()
		}
		wg.Wait()

		Expect(assembler.Registers().Len()).To(BeZero())
	})
})
