package checker

import (
	"fmt"
	"go/ast"
	"strings"

	"golang.org/x/tools/go/analysis"

	"github.com/refixlabs/refix/match"
	"github.com/refixlabs/refix/source"
)

// AsAnalyzer exposes c as a go/analysis analyzer so it can run under
// vet-style drivers. Findings become diagnostics; an edit becomes a
// suggested fix. Import adjustments do not cross the bridge, drivers
// apply plain text edits only.
func AsAnalyzer(c Checker) *analysis.Analyzer {
	doc := fmt.Sprintf("reports findings of the %s rule", c.Name())
	if d, ok := c.(Documented); ok {
		doc = d.Doc()
	}
	return &analysis.Analyzer{
		Name: strings.ReplaceAll(c.Name(), "-", "_"),
		Doc:  doc,
		Run: func(pass *analysis.Pass) (any, error) {
			ctx := match.NewContext(pass.Fset, source.ResolverForFiles(pass.Fset, pass.Files))
			m := c.Matcher()
			for _, file := range pass.Files {
				ast.Inspect(file, func(n ast.Node) bool {
					if n == nil || !m(n, ctx) {
						return true
					}
					pass.Report(toDiagnostic(pass, c.Describe(n, ctx), n))
					return true
				})
			}
			return nil, nil
		},
	}
}

func toDiagnostic(pass *analysis.Pass, f Finding, n ast.Node) analysis.Diagnostic {
	d := analysis.Diagnostic{
		Pos:     n.Pos(),
		End:     n.End(),
		Message: f.Message,
	}
	tf := pass.Fset.File(n.Pos())
	if f.Edit != nil && tf != nil {
		d.SuggestedFixes = []analysis.SuggestedFix{{
			Message: "apply suggested rewrite",
			TextEdits: []analysis.TextEdit{{
				Pos:     tf.Pos(f.Edit.Start),
				End:     tf.Pos(f.Edit.End),
				NewText: []byte(f.Edit.Text),
			}},
		}}
	}
	return d
}
