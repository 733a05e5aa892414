// Package rules holds the checkers shipped with the engine. They are
// consumers of the matcher algebra, not part of it; the engine
// registers them by name and tests exercise them through the
// verification harness.
package rules

import (
	"go/ast"
	"regexp"

	"github.com/refixlabs/refix/checker"
	"github.com/refixlabs/refix/edit"
	"github.com/refixlabs/refix/match"
)

// Target identifies one validation call whose message argument the
// eager-sprintf rule inspects.
type Target struct {
	Owner        string
	Member       string
	MessageIndex int
}

// DefaultTargets covers the assertion helpers whose variadic message
// parameter is routinely fed a fmt.Sprintf result.
var DefaultTargets = []Target{
	{Owner: "github.com/stretchr/testify/require", Member: "True", MessageIndex: 2},
	{Owner: "github.com/stretchr/testify/require", Member: "NoError", MessageIndex: 2},
	{Owner: "github.com/stretchr/testify/assert", Member: "True", MessageIndex: 2},
	{Owner: "github.com/stretchr/testify/assert", Member: "NoError", MessageIndex: 2},
}

// defaultPlaceholder recognizes a %s placeholder. A format literal
// the pattern never hits could have been passed as a plain string.
var defaultPlaceholder = regexp.MustCompile(`%s`)

// EagerSprintf flags validation calls whose message argument wraps a
// placeholder-free string literal in fmt.Sprintf. The matched literal
// could have been passed directly; the offered fix does exactly that.
type EagerSprintf struct {
	targets      []Target
	matcher      match.Matcher
	alternatives []match.Matcher // aligned with targets
}

// NewEagerSprintf builds the rule over DefaultTargets.
func NewEagerSprintf() *EagerSprintf {
	return NewEagerSprintfFor(DefaultTargets, defaultPlaceholder)
}

// NewEagerSprintfFor builds the rule for a custom target table and
// placeholder pattern. Both are captured here and never change
// afterwards.
func NewEagerSprintfFor(targets []Target, placeholder *regexp.Regexp) *EagerSprintf {
	wrapped := match.AllOf(
		match.KindIs(match.KindCall),
		match.CalleeOf(match.KindIs(match.KindSelector)),
		match.ReferencesStaticMember("fmt", "Sprintf"),
		match.ArgumentAt(0, match.AllOf(
			match.KindIs(match.KindStringLit),
			match.LiteralTextExcludes(placeholder),
		)),
	)

	r := &EagerSprintf{targets: targets}
	alternatives := make([]match.Matcher, 0, len(targets))
	for _, t := range targets {
		alternatives = append(alternatives, match.AllOf(
			match.ReferencesStaticMember(t.Owner, t.Member),
			match.ArgumentAt(t.MessageIndex, wrapped),
		))
	}
	r.alternatives = alternatives
	r.matcher = match.AllOf(
		match.KindIs(match.KindCall),
		match.AnyOf(alternatives...),
	)
	return r
}

func (r *EagerSprintf) Name() string { return "eager-sprintf-message" }

func (r *EagerSprintf) Doc() string {
	return "reports validation calls whose message argument is fmt.Sprintf over a literal without placeholders"
}

func (r *EagerSprintf) Kinds() []match.Kind { return []match.Kind{match.KindCall} }

func (r *EagerSprintf) Matcher() match.Matcher { return r.matcher }

func (r *EagerSprintf) Describe(n ast.Node, ctx *match.Context) checker.Finding {
	f := checker.Finding{
		Message: "message argument wraps a placeholder-free literal in fmt.Sprintf; pass the string directly",
	}
	call, ok := n.(*ast.CallExpr)
	if !ok {
		return f
	}
	for i, alt := range r.alternatives {
		if !alt(call, ctx) {
			continue
		}
		inner, ok := call.Args[r.targets[i].MessageIndex].(*ast.CallExpr)
		if !ok {
			break
		}
		if len(inner.Args) != 1 {
			// Dropping extra arguments would change behavior: Go
			// appends %!(EXTRA ...) for them at run time.
			f.Message = "format literal has no placeholders but the call passes extra arguments"
			return f
		}
		lit, ok := inner.Args[0].(*ast.BasicLit)
		if !ok {
			break
		}
		e := edit.Replace(ctx.Fset, inner, lit.Value)
		f.Edit = &e
		f.DropImports = []string{"fmt"}
		return f
	}
	return f
}
