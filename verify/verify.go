// Package verify is the refactoring verification harness: it feeds
// sample inputs to a checker, applies the edits the checker offers,
// and compares each unit's output against its registered expectation
// under a text or structural equivalence mode.
//
// A harness is an order-sensitive builder. Inputs and expectations
// pair positionally, in call order:
//
//	v := verify.New(rule).
//		AddInputLines("in/a.go", "package p", ...).
//		AddOutputLines("out/a.go", "package p", ...).
//		AddInputLines("in/b.go", "package p", ...).
//		ExpectUnchanged().
//		DoTest(verify.ModeAST)
//
// One harness serves one run; independent harnesses share nothing and
// may run concurrently.
package verify

import (
	"bytes"
	"fmt"
	"go/format"
	"go/parser"
	"go/scanner"
	"go/token"
	"testing"

	"github.com/refixlabs/refix/checker"
	"github.com/refixlabs/refix/edit"
	"github.com/refixlabs/refix/source"
)

type pairing struct {
	input    source.Unit
	expected *source.Unit
}

// Harness accumulates a test case and executes it. The zero value is
// unusable; construct with New.
type Harness struct {
	checker   checker.Checker
	pairs     []pairing
	buildErrs []string
}

// New returns a harness exercising c.
func New(c checker.Checker) *Harness {
	return &Harness{checker: c}
}

// AddInputLines registers the next input unit.
func (h *Harness) AddInputLines(name string, lines ...string) *Harness {
	h.pairs = append(h.pairs, pairing{input: source.NewUnit(name, lines...)})
	return h
}

// AddOutputLines registers the expected output for the earliest input
// that has no expectation yet. Pairing is positional; names are
// labels for reporting only.
func (h *Harness) AddOutputLines(name string, lines ...string) *Harness {
	u := source.NewUnit(name, lines...)
	return h.pairWith(u)
}

// ExpectUnchanged registers the earliest unpaired input as its own
// expectation.
func (h *Harness) ExpectUnchanged() *Harness {
	for i := range h.pairs {
		if h.pairs[i].expected == nil {
			u := h.pairs[i].input
			h.pairs[i].expected = &u
			return h
		}
	}
	h.buildErrs = append(h.buildErrs, "ExpectUnchanged without a pending input")
	return h
}

func (h *Harness) pairWith(u source.Unit) *Harness {
	for i := range h.pairs {
		if h.pairs[i].expected == nil {
			h.pairs[i].expected = &u
			return h
		}
	}
	h.buildErrs = append(h.buildErrs, fmt.Sprintf("expected output %q has no pending input", u.Name))
	return h
}

// DoTest executes the run: validate pairings, parse every input in
// one pass, walk the checker over each unit, apply its edits, and
// compare outputs per mode. The first deviation decides the verdict.
func (h *Harness) DoTest(mode Mode) Verdict {
	if reason, ok := h.validate(); !ok {
		return usageError(reason)
	}

	inputs := make([]source.Unit, len(h.pairs))
	for i, p := range h.pairs {
		inputs[i] = p.input
	}

	prog, err := source.Parse(inputs)
	if err != nil {
		if perr, ok := err.(*source.ParseError); ok {
			return compileError(perr.Unit, perr.Pos, perr.Msg)
		}
		return compileError("", token.Position{}, err.Error())
	}

	ctx := prog.Context()
	for i, p := range h.pairs {
		findings := checker.Walk(prog.Files[i], ctx, h.checker)

		var edits []edit.Edit
		for _, f := range findings {
			if f.Edit != nil {
				edits = append(edits, *f.Edit)
			}
		}

		actual, err := edit.Apply(p.input.Text, edits)
		if err != nil {
			return usageError(fmt.Sprintf("applying edits to %s: %v", p.input.Name, err))
		}

		if v := compare(mode, p.input.Name, actual, *p.expected); !v.Ok() {
			return v
		}
	}
	return pass()
}

// RunT adapts the verdict to the testing package: silent on Pass,
// fatal with the rendered verdict otherwise.
func (h *Harness) RunT(tb testing.TB, mode Mode) {
	tb.Helper()
	if v := h.DoTest(mode); !v.Ok() {
		tb.Fatal(v.String())
	}
}

func (h *Harness) validate() (string, bool) {
	if h.checker == nil {
		return "no checker under test", false
	}
	if len(h.buildErrs) > 0 {
		return h.buildErrs[0], false
	}
	if len(h.pairs) == 0 {
		return "no input units registered", false
	}
	for _, p := range h.pairs {
		if p.expected == nil {
			return fmt.Sprintf("input %q has no expected output", p.input.Name), false
		}
	}
	return "", true
}

func compare(mode Mode, unit, actual string, expected source.Unit) Verdict {
	switch mode {
	case ModeText:
		if actual != expected.Text {
			return mismatch(unit, actual, expected.Text)
		}
		return pass()

	case ModeAST:
		wantCanon, err := canonicalize(expected.Name, expected.Text)
		if err != nil {
			// The fixture itself is broken, not the transform.
			return compileError(expected.Name, errPosition(err), fmt.Sprintf("expected output does not parse: %v", err))
		}
		gotCanon, err := canonicalize(unit, actual)
		if err != nil {
			// The transform produced unparsable output.
			v := mismatch(unit, actual, expected.Text)
			v.Reason = fmt.Sprintf("actual output does not parse: %v", err)
			return v
		}
		if gotCanon != wantCanon {
			return mismatch(unit, actual, expected.Text)
		}
		return pass()
	}
	return usageError(fmt.Sprintf("unknown comparison mode %v", mode))
}

// canonicalize reduces text to its printed syntax tree. Comments are
// dropped before printing so the structural comparison ignores them
// along with whitespace.
func canonicalize(name, text string) (string, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, name, text, 0)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func errPosition(err error) token.Position {
	if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
		return list[0].Pos
	}
	return token.Position{}
}
