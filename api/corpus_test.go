package api_test

import (
	"embed"
	"fmt"
	"path"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/lasm/api"
	"github.com/sarchlab/lasm/mdtest"
	"github.com/sarchlab/lasm/target"
)

//go:embed testdata/*.md
var corpus embed.FS

func corpusCases() map[string][]mdtest.TestCase {
	files, err := corpus.ReadDir("testdata")
	if err != nil {
		panic(err)
	}

	docs := make(map[string][]mdtest.TestCase)
	for _, f := range files {
		raw, err := corpus.ReadFile(path.Join("testdata", f.Name()))
		if err != nil {
			panic(err)
		}

		cases, err := mdtest.ExtractTestCases(string(raw))
		if err != nil {
			panic(fmt.Errorf("%s: %w", f.Name(), err))
		}

		docs[f.Name()] = cases
	}

	return docs
}

func runCase(tc mdtest.TestCase) {
	c, err := api.NewAssembler().Compile(tc.Source)

	if want, ok := tc.Assertion(mdtest.AssertCompileError); ok {
		Expect(err).To(MatchError(ContainSubstring(want.Content)),
			"compile-error at line %d", want.Line)
		return
	}

	Expect(err).NotTo(HaveOccurred())

	if want, ok := tc.Assertion(mdtest.AssertListing); ok {
		out, err := target.Listing{}.Assemble(c.Layout, c.Code)
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.TrimSuffix(out, "\n")).To(Equal(want.Content),
			"listing at line %d", want.Line)
	}

	prog, err := c.Program()
	Expect(err).NotTo(HaveOccurred())

	driver := api.MakeDriverBuilder().
		WithMaxSteps(1000000).
		Build("Driver")
	driver.MapProgram(prog)
	driver.FeedIn([]byte(tc.Input))

	res, err := driver.Run()

	if want, ok := tc.Assertion(mdtest.AssertFault); ok {
		Expect(err).To(MatchError(ContainSubstring(want.Content)),
			"fault at line %d", want.Line)
	} else {
		Expect(err).NotTo(HaveOccurred())
	}

	if want, ok := tc.Assertion(mdtest.AssertOutput); ok {
		Expect(res.Output).To(Equal(want.Content),
			"output at line %d", want.Line)
	}
}

var _ = Describe("Corpus", func() {
	for name, cases := range corpusCases() {
		Describe(name, func() {
			for _, tc := range cases {
				It(tc.Name, func() {
					runCase(tc)
				})
			}
		})
	}
})
