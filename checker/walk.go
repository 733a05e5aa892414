package checker

import (
	"go/ast"

	"github.com/refixlabs/refix/match"
)

type bound struct {
	checker Checker
	matcher match.Matcher
}

// Walk evaluates the checkers over every node of file and collects
// their findings in traversal order. Each checker sees a node at most
// once; checkers hinting their kinds are only consulted on nodes of
// those kinds.
func Walk(file *ast.File, ctx *match.Context, checkers ...Checker) []Finding {
	byKind := make(map[match.Kind][]bound)
	var universal []bound
	for _, c := range checkers {
		b := bound{checker: c, matcher: c.Matcher()}
		if h, ok := c.(KindHinter); ok {
			for _, k := range h.Kinds() {
				byKind[k] = append(byKind[k], b)
			}
			continue
		}
		universal = append(universal, b)
	}

	var findings []Finding
	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil {
			return true
		}
		for _, b := range byKind[match.KindOf(n)] {
			findings = appendFinding(findings, b, n, ctx)
		}
		for _, b := range universal {
			findings = appendFinding(findings, b, n, ctx)
		}
		return true
	})
	return findings
}

func appendFinding(findings []Finding, b bound, n ast.Node, ctx *match.Context) []Finding {
	if !b.matcher(n, ctx) {
		return findings
	}
	f := b.checker.Describe(n, ctx)
	complete(&f, b.checker, n, ctx)
	return append(findings, f)
}

// complete fills the bookkeeping fields Describe may leave zero.
func complete(f *Finding, c Checker, n ast.Node, ctx *match.Context) {
	if f.Rule == "" {
		f.Rule = c.Name()
	}
	if !f.Start.IsValid() {
		f.Start = ctx.Position(n.Pos())
		f.End = ctx.Position(n.End())
	}
	if f.Unit == "" {
		f.Unit = f.Start.Filename
	}
	if f.Severity == "" {
		f.Severity = SeverityWarning
	}
}
