package rules

import (
	"fmt"
	"go/ast"

	"github.com/fzipp/gocyclo"

	"github.com/refixlabs/refix/checker"
	"github.com/refixlabs/refix/match"
)

// DefaultComplexityThreshold is the complexity above which functions
// are reported.
const DefaultComplexityThreshold = 10

// Complexity reports functions whose cyclomatic complexity exceeds a
// threshold. It matches without ever offering an edit: splitting a
// function is not a mechanical rewrite.
type Complexity struct {
	threshold int
	matcher   match.Matcher
}

func NewComplexity(threshold int) *Complexity {
	if threshold < 1 {
		threshold = DefaultComplexityThreshold
	}
	return &Complexity{
		threshold: threshold,
		matcher: match.AllOf(
			match.KindIs(match.KindFuncDecl),
			complexityAbove(threshold),
		),
	}
}

func (r *Complexity) Name() string { return "high-cyclomatic-complexity" }

// WithThreshold derives a copy of the rule with a different cutoff.
func (r *Complexity) WithThreshold(n int) checker.Checker { return NewComplexity(n) }

func (r *Complexity) Doc() string {
	return "reports functions whose cyclomatic complexity exceeds the configured threshold"
}

func (r *Complexity) Kinds() []match.Kind { return []match.Kind{match.KindFuncDecl} }

func (r *Complexity) Matcher() match.Matcher { return r.matcher }

func (r *Complexity) Describe(n ast.Node, ctx *match.Context) checker.Finding {
	f := checker.Finding{Severity: checker.SeverityInfo}
	fn, ok := n.(*ast.FuncDecl)
	if !ok {
		return f
	}
	f.Message = fmt.Sprintf("function %s has a cyclomatic complexity of %d (threshold %d)",
		fn.Name.Name, complexityOf(fn, ctx), r.threshold)
	return f
}

// complexityAbove is a plain matcher closure; it composes with the
// combinators like any built-in predicate.
func complexityAbove(threshold int) match.Matcher {
	return func(n ast.Node, ctx *match.Context) bool {
		fn, ok := n.(*ast.FuncDecl)
		if !ok || fn == nil {
			return false
		}
		return complexityOf(fn, ctx) > threshold
	}
}

func complexityOf(fn *ast.FuncDecl, ctx *match.Context) int {
	if ctx == nil || ctx.Fset == nil {
		return 0
	}
	// gocyclo analyzes whole files; a single-declaration wrapper
	// scopes it to this function.
	wrapper := &ast.File{Name: ast.NewIdent("p"), Decls: []ast.Decl{fn}}
	stats := gocyclo.AnalyzeASTFile(wrapper, ctx.Fset, nil)
	if len(stats) == 0 {
		return 0
	}
	return stats[0].Complexity
}
