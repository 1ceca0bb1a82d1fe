package program_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/lasm/instr"
	"github.com/sarchlab/lasm/program"
)

var _ = Describe("Allocator", func() {
	var a *program.Allocator

	BeforeEach(func() {
		a = program.NewAllocator()
	})

	It("should start right after the predefined registers", func() {
		Expect(a.Next()).To(Equal(instr.PredefinedRegisters))
		Expect(a.Len()).To(Equal(0))
	})

	It("should allocate registers back to back", func() {
		x, err := a.Define("x", 2)
		Expect(err).NotTo(HaveOccurred())
		y, err := a.Define("y", 3)
		Expect(err).NotTo(HaveOccurred())

		Expect(x.Addr()).To(Equal(2))
		Expect(x.Size()).To(Equal(2))
		Expect(y.Addr()).To(Equal(4))
		Expect(a.Next()).To(Equal(7))
		Expect(a.Registers()).To(Equal([]instr.Register{x, y}))
	})

	It("should look up defined and predefined registers only", func() {
		x, _ := a.Define("x", 1)

		r, ok := a.Lookup("x")
		Expect(ok).To(BeTrue())
		Expect(r).To(Equal(x))

		r, ok = a.Lookup("ACC")
		Expect(ok).To(BeTrue())
		Expect(r).To(Equal(instr.Accumulator))

		r, ok = a.Lookup("SPR")
		Expect(ok).To(BeTrue())
		Expect(r).To(Equal(instr.StackPointer))

		_, ok = a.Lookup("y")
		Expect(ok).To(BeFalse())
	})

	It("should refuse to redefine a register", func() {
		_, err := a.Define("x", 1)
		Expect(err).NotTo(HaveOccurred())

		_, err = a.Define("x", 4)
		Expect(err).To(MatchError(program.ErrRegisterRedefined))
		Expect(a.Next()).To(Equal(3))
	})

	It("should refuse to redefine the predefined registers", func() {
		_, err := a.Define("ACC", 1)
		Expect(err).To(MatchError(program.ErrRegisterRedefined))
		_, err = a.Define("SPR", 1)
		Expect(err).To(MatchError(program.ErrRegisterRedefined))
	})

	It("should refuse empty registers", func() {
		_, err := a.Define("x", 0)
		Expect(err).To(MatchError(program.ErrInvalidSize))
	})

	It("should forget everything on reset", func() {
		_, _ = a.Define("x", 5)
		a.Reset()

		Expect(a.Len()).To(Equal(0))
		Expect(a.Next()).To(Equal(instr.PredefinedRegisters))
		_, ok := a.Lookup("x")
		Expect(ok).To(BeFalse())
	})

	It("should never hand out overlapping ranges under concurrent use", func() {
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				defer GinkgoRecover()
				_, err := a.Define(string(rune('a'+i%26))+string(rune('A'+i/26)), 1+i%3)
				Expect(err).NotTo(HaveOccurred())
			}(i)
		}
		wg.Wait()

		end := instr.PredefinedRegisters
		for _, r := range a.Registers() {
			Expect(r.Addr()).To(Equal(end))
			end += r.Size()
		}
		Expect(end).To(Equal(a.Next()))
	})
})
