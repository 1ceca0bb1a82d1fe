// Package mdtest reads literate lasm test cases out of Markdown documents.
//
// A test case starts at a heading whose text begins with "Test: ". The
// fenced code blocks that follow, up to the next test heading, make up the
// case:
//
//	```lasm           the program, exactly one per case
//	```input          bytes fed to inc and inn
//	```output         expected program output
//	```compile-error  expected compile error text
//	```fault          expected machine fault text
//	```listing        expected output of the listing backend
//
// Fences without a language are prose and are ignored.
package mdtest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// AssertionType is the language of an assertion fence.
type AssertionType string

// Assertion fences.
const (
	AssertOutput       AssertionType = "output"
	AssertCompileError AssertionType = "compile-error"
	AssertFault        AssertionType = "fault"
	AssertListing      AssertionType = "listing"
)

const (
	sourceFence = "lasm"
	inputFence  = "input"
	testPrefix  = "Test: "
)

// Assertion is one expectation about a test case.
type Assertion struct {
	Type    AssertionType
	Content string
	Line    int
}

// TestCase is a program with the input it reads and what it must produce.
type TestCase struct {
	Name       string
	Source     string
	Input      string
	Line       int
	Assertions []Assertion
}

// Assertion returns the first assertion of type t.
func (tc TestCase) Assertion(t AssertionType) (Assertion, bool) {
	for _, a := range tc.Assertions {
		if a.Type == t {
			return a, true
		}
	}

	return Assertion{}, false
}

// ExtractTestCases parses a Markdown document and returns its test cases
// in document order.
func ExtractTestCases(markdown string) ([]TestCase, error) {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var (
		cases   []TestCase
		current *TestCase
	)

	flush := func() error {
		if current == nil {
			return nil
		}

		if err := validate(current); err != nil {
			return err
		}

		cases = append(cases, *current)
		current = nil

		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, source)
			if !strings.HasPrefix(heading, testPrefix) {
				return ast.WalkContinue, nil
			}

			if err := flush(); err != nil {
				return ast.WalkStop, err
			}

			current = &TestCase{
				Name: strings.TrimPrefix(heading, testPrefix),
				Line: lineOf(n, source),
			}

			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			return ast.WalkContinue, addFence(current, n, source)
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading test cases: %w", err)
	}

	if err := flush(); err != nil {
		return nil, fmt.Errorf("reading test cases: %w", err)
	}

	return cases, nil
}

func addFence(tc *TestCase, n *ast.FencedCodeBlock, source []byte) error {
	lang := string(n.Language(source))
	line := lineOf(n, source)

	if lang == "" {
		return nil
	}

	if tc == nil {
		return fmt.Errorf("line %d: %s fence outside of a test case", line, lang)
	}

	content := blockText(n, source)

	switch AssertionType(lang) {
	case sourceFence:
		if tc.Source != "" {
			return fmt.Errorf("line %d: second lasm fence in test %q", line, tc.Name)
		}

		tc.Source = content
	case inputFence:
		tc.Input += content
	case AssertOutput, AssertListing:
		tc.Assertions = append(tc.Assertions, Assertion{
			Type: AssertionType(lang), Content: content, Line: line,
		})
	case AssertCompileError, AssertFault:
		tc.Assertions = append(tc.Assertions, Assertion{
			Type:    AssertionType(lang),
			Content: strings.TrimSpace(content),
			Line:    line,
		})
	default:
		return fmt.Errorf("line %d: unknown fence %q in test %q", line, lang, tc.Name)
	}

	return nil
}

func validate(tc *TestCase) error {
	if tc.Source == "" {
		return fmt.Errorf("test %q has no lasm fence", tc.Name)
	}

	if len(tc.Assertions) == 0 {
		return fmt.Errorf("test %q has no assertions", tc.Name)
	}

	return nil
}

func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}

		return ast.WalkContinue, nil
	})

	return buf.String()
}

// blockText returns the lines of a code block without the final newline. A
// fence that ends in an empty line keeps one trailing newline.
func blockText(n *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer

	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

func lineOf(n ast.Node, source []byte) int {
	if n.Lines().Len() == 0 {
		return 0
	}

	start := n.Lines().At(0).Start

	return bytes.Count(source[:start], []byte("\n")) + 1
}
