package api_test

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/lasm/api"
	"github.com/sarchlab/lasm/mdtest"
	"github.com/sarchlab/lasm/target"
)

// native describes how to build and run the output of a backend.
type native struct {
	backend target.Backend
	tool    string
	build   func(dir, src string) *exec.Cmd
}

var natives = map[string]native{
	"c": {
		backend: target.C{},
		tool:    "cc",
		build: func(dir, src string) *exec.Cmd {
			return exec.Command("cc", "-O1", "-o", filepath.Join(dir, "prog"), src, "-lm")
		},
	},
	"go": {
		backend: target.Go{},
		tool:    "go",
		build: func(dir, src string) *exec.Cmd {
			return exec.Command("go", "build", "-o", filepath.Join(dir, "prog"), src)
		},
	},
}

type nativeRun struct {
	stdout  string
	stderr  string
	faulted bool
}

func runNative(n native, tc mdtest.TestCase) nativeRun {
	if _, err := exec.LookPath(n.tool); err != nil {
		Skip(n.tool + " is not installed")
	}

	out, err := api.Assemble(n.backend, tc.Source)
	Expect(err).NotTo(HaveOccurred())

	dir, err := os.MkdirTemp("", "lasm-native-")
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(os.RemoveAll, dir)

	src := filepath.Join(dir, "prog."+target.Extension(n.backend))
	Expect(os.WriteFile(src, []byte(out), 0o644)).To(Succeed())

	build := n.build(dir, src)
	build.Dir = dir
	msg, err := build.CombinedOutput()
	Expect(err).NotTo(HaveOccurred(), string(msg))

	var stdout, stderr bytes.Buffer
	prog := exec.Command(filepath.Join(dir, "prog"))
	prog.Stdin = strings.NewReader(tc.Input)
	prog.Stdout = &stdout
	prog.Stderr = &stderr

	err = prog.Run()

	var exit *exec.ExitError
	if err != nil && !errors.As(err, &exit) {
		Fail("running generated program: " + err.Error())
	}

	return nativeRun{
		stdout:  stdout.String(),
		stderr:  stderr.String(),
		faulted: err != nil,
	}
}

func referenceRun(tc mdtest.TestCase) (api.Result, error) {
	c, err := api.NewAssembler().Compile(tc.Source)
	Expect(err).NotTo(HaveOccurred())

	prog, err := c.Program()
	Expect(err).NotTo(HaveOccurred())

	driver := api.MakeDriverBuilder().
		WithMaxSteps(1000000).
		Build("Driver")
	driver.MapProgram(prog)
	driver.FeedIn([]byte(tc.Input))

	return driver.Run()
}

var _ = Describe("Generated programs", Label("native"), func() {
	for _, name := range []string{"c", "go"} {
		n := natives[name]

		Describe(name, func() {
			for doc, cases := range corpusCases() {
				for _, tc := range cases {
					if _, ok := tc.Assertion(mdtest.AssertCompileError); ok {
						continue
					}

					It("should run "+doc+" "+tc.Name+" like the machine", func() {
						want, wantErr := referenceRun(tc)

						got := runNative(n, tc)

						Expect(got.stdout).To(Equal(want.Output))
						Expect(got.faulted).To(Equal(wantErr != nil), got.stderr)

						if fault, ok := tc.Assertion(mdtest.AssertFault); ok {
							Expect(got.stderr).To(ContainSubstring(fault.Content))
						}
					})
				}
			}
		})
	}
})
