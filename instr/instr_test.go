package instr_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/lasm/instr"
)

var _ = Describe("Register", func() {
	It("should place the predefined registers at fixed addresses", func() {
		Expect(instr.Accumulator.Addr()).To(Equal(0))
		Expect(instr.StackPointer.Addr()).To(Equal(1))
		Expect(instr.Accumulator.Size()).To(Equal(1))
		Expect(instr.StackPointer.Size()).To(Equal(1))
		Expect(instr.Accumulator.String()).To(Equal("ACC"))
		Expect(instr.StackPointer.String()).To(Equal("SPR"))
	})

	It("should report size and address of named registers", func() {
		r := instr.Named("buf", 4, 7)
		Expect(r.Addr()).To(Equal(7))
		Expect(r.Size()).To(Equal(4))
		Expect(r.String()).To(Equal("buf"))
	})
})

var _ = Describe("Literal", func() {
	It("should use the ordinal of a character as its value", func() {
		Expect(instr.Character('A').Value()).To(Equal(65.0))
		Expect(instr.Number(2.5).Value()).To(Equal(2.5))
	})

	DescribeTable("rendering",
		func(l instr.Literal, want string) {
			Expect(l.String()).To(Equal(want))
		},
		Entry("plain character", instr.Character('x'), "'x'"),
		Entry("space", instr.Character(' '), "' '"),
		Entry("newline", instr.Character('\n'), `'\n'`),
		Entry("nul", instr.Character(0), `'\0'`),
		Entry("quote", instr.Character('\''), `'\''`),
		Entry("unprintable", instr.Character('\v'), "11"),
		Entry("integer", instr.Number(42), "42"),
		Entry("fraction", instr.Number(-0.25), "-0.25"),
	)
})

var _ = Describe("Instruction", func() {
	It("should render instructions as source", func() {
		x := instr.Named("x", 2, 2)
		Expect(instr.WithRegister(instr.Load, x).String()).To(Equal("ld x"))
		Expect(instr.WithLiteral(instr.Push, instr.Number(3)).String()).
			To(Equal("push 3"))
		Expect(instr.New(instr.WhileNotZero).String()).To(Equal("loop"))
	})

	It("should reject operands that do not match the opcode", func() {
		Expect(func() { instr.New(instr.Load) }).To(Panic())
		Expect(func() {
			instr.WithRegister(instr.Push, instr.Accumulator)
		}).To(Panic())
		Expect(func() {
			instr.WithLiteral(instr.Add, instr.Number(1))
		}).To(Panic())
	})

	It("should give every opcode a distinct mnemonic", func() {
		seen := map[string]bool{}
		for _, op := range instr.Opcodes() {
			Expect(seen).NotTo(HaveKey(op.Mnemonic()))
			seen[op.Mnemonic()] = true
		}
		Expect(seen).To(HaveLen(21))
	})

	It("should describe the stack effect of register operations", func() {
		x := instr.Named("x", 3, 2)
		pops, pushes := instr.WithRegister(instr.Load, x).StackEffect()
		Expect([]int{pops, pushes}).To(Equal([]int{0, 3}))
		pops, pushes = instr.WithRegister(instr.Store, x).StackEffect()
		Expect([]int{pops, pushes}).To(Equal([]int{3, 0}))
		pops, pushes = instr.New(instr.Subtract).StackEffect()
		Expect([]int{pops, pushes}).To(Equal([]int{2, 1}))
	})
})
