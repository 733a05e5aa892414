package verify

import (
	"fmt"
	"go/token"
)

// Mode selects how actual output is compared against the
// expectation.
type Mode int

const (
	// ModeAST re-parses both texts and compares structure, ignoring
	// incidental whitespace and formatting. The default.
	ModeAST Mode = iota
	// ModeText compares byte for byte, a strict regression contract
	// on output formatting.
	ModeText
)

func (m Mode) String() string {
	switch m {
	case ModeAST:
		return "ast-match"
	case ModeText:
		return "text-match"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// VerdictKind is the outcome class of one harness run.
type VerdictKind int

const (
	// Pass: every unit's output met its expectation.
	Pass VerdictKind = iota
	// Mismatch: a unit's actual output differs from its expectation
	// under the chosen mode. Carries both texts.
	Mismatch
	// CompileError: an input unit (or, under ModeAST, an expected
	// fixture) failed to parse or resolve. Never conflated with
	// Mismatch: a broken fixture is not a wrong transform.
	CompileError
	// UsageError: the test itself is malformed (unpaired input,
	// expectation without input, overlapping edits). Detected before
	// or instead of comparison, never reported as a Mismatch.
	UsageError
)

func (k VerdictKind) String() string {
	switch k {
	case Pass:
		return "pass"
	case Mismatch:
		return "mismatch"
	case CompileError:
		return "compile-error"
	case UsageError:
		return "usage-error"
	}
	return fmt.Sprintf("verdict(%d)", int(k))
}

// Verdict is the result of one DoTest run. Exactly the fields
// relevant to Kind are set: Unit/Actual/Expected for Mismatch,
// Unit/Location/Reason for CompileError, Reason for UsageError.
type Verdict struct {
	Kind     VerdictKind
	Unit     string
	Actual   string
	Expected string
	Location token.Position
	Reason   string
}

// Ok reports whether the run passed.
func (v Verdict) Ok() bool { return v.Kind == Pass }

func (v Verdict) String() string {
	switch v.Kind {
	case Pass:
		return "pass"
	case Mismatch:
		return fmt.Sprintf("mismatch in %s (-expected +actual):\n%s", v.Unit, renderDiff(v.Expected, v.Actual))
	case CompileError:
		if v.Location.IsValid() {
			return fmt.Sprintf("compile error at %s: %s", v.Location, v.Reason)
		}
		return fmt.Sprintf("compile error in %s: %s", v.Unit, v.Reason)
	case UsageError:
		return fmt.Sprintf("usage error: %s", v.Reason)
	}
	return v.Kind.String()
}

func pass() Verdict {
	return Verdict{Kind: Pass}
}

func mismatch(unit, actual, expected string) Verdict {
	return Verdict{Kind: Mismatch, Unit: unit, Actual: actual, Expected: expected}
}

func compileError(unit string, loc token.Position, reason string) Verdict {
	return Verdict{Kind: CompileError, Unit: unit, Location: loc, Reason: reason}
}

func usageError(reason string) Verdict {
	return Verdict{Kind: UsageError, Reason: reason}
}
