package engine

import (
	"go/ast"
	"go/token"
	"strings"

	"github.com/refixlabs/refix/checker"
)

const suppressPrefix = "//nolint"

// directive is a single //nolint comment resolved to the line range it
// silences. An empty rule set silences every rule.
type directive struct {
	rules map[string]struct{}
	from  int
	to    int
}

// suppressions indexes the //nolint directives of one parsed unit by
// unit name, so findings can be filtered by position.
type suppressions struct {
	byUnit map[string][]directive
}

// collectSuppressions walks the comments of a file and resolves each
// //nolint directive to a scope:
//
//   - before the package clause: the whole file
//   - inline after a statement: that statement
//   - alone above a statement or function: that statement or function,
//     including the comment line itself
//   - anything else: the comment line only
func collectSuppressions(f *ast.File, fset *token.FileSet) *suppressions {
	s := &suppressions{byUnit: make(map[string][]directive, len(f.Comments))}
	stmtAtLine := firstStatementByLine(f, fset)
	packageLine := fset.Position(f.Package).Line

	for _, group := range f.Comments {
		for _, c := range group.List {
			d, ok := resolveDirective(c, f, fset, stmtAtLine, packageLine)
			if !ok {
				continue
			}
			unit := fset.Position(c.Slash).Filename
			s.byUnit[unit] = append(s.byUnit[unit], d)
		}
	}
	return s
}

func resolveDirective(
	c *ast.Comment,
	f *ast.File,
	fset *token.FileSet,
	stmtAtLine map[int]ast.Stmt,
	packageLine int,
) (directive, bool) {
	var d directive
	if !strings.HasPrefix(c.Text, suppressPrefix) {
		return d, false
	}

	rest := c.Text[len(suppressPrefix):]
	// Either a bare //nolint, which silences everything, or
	// //nolint:rule-a,rule-b with a non-empty list after the colon.
	if rest != "" {
		if rest[0] != ':' {
			return d, false
		}
		rest = strings.TrimSpace(rest[1:])
		if rest == "" {
			return d, false
		}
	}
	d.rules = splitRuleList(rest)

	pos := fset.Position(c.Slash)
	if pos.Line < packageLine {
		d.from = fset.Position(f.Pos()).Line
		d.to = fset.Position(f.End()).Line
		return d, true
	}

	if stmt, ok := stmtAtLine[pos.Line]; ok {
		if pos.Offset > fset.Position(stmt.Pos()).Offset {
			d.from = fset.Position(stmt.Pos()).Line
			d.to = fset.Position(stmt.End()).Line
			return d, true
		}
	}

	if stmt, ok := stmtAtLine[pos.Line+1]; ok {
		d.from = pos.Line
		d.to = fset.Position(stmt.End()).Line
		return d, true
	}

	if fn := functionStartingAtLine(f, fset, pos.Line+1); fn != nil {
		d.from = pos.Line
		d.to = fset.Position(fn.End()).Line
		return d, true
	}

	d.from = pos.Line
	d.to = pos.Line
	return d, true
}

func splitRuleList(text string) map[string]struct{} {
	rules := make(map[string]struct{})
	if text == "" {
		return rules
	}
	for _, name := range strings.Split(text, ",") {
		if name = strings.TrimSpace(name); name != "" {
			rules[name] = struct{}{}
		}
	}
	return rules
}

// firstStatementByLine maps each line to the first statement that
// starts on it.
func firstStatementByLine(f *ast.File, fset *token.FileSet) map[int]ast.Stmt {
	stmts := make(map[int]ast.Stmt)
	ast.Inspect(f, func(n ast.Node) bool {
		if n == nil {
			return false
		}
		if stmt, ok := n.(ast.Stmt); ok {
			line := fset.Position(stmt.Pos()).Line
			if _, seen := stmts[line]; !seen {
				stmts[line] = stmt
			}
		}
		return true
	})
	return stmts
}

func functionStartingAtLine(f *ast.File, fset *token.FileSet, line int) *ast.FuncDecl {
	for _, decl := range f.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			if fset.Position(fn.Pos()).Line == line {
				return fn
			}
		}
	}
	return nil
}

// silences reports whether a finding of the named rule at the given
// position falls inside any directive's scope.
func (s *suppressions) silences(f checker.Finding) bool {
	if s == nil {
		return false
	}
	for _, d := range s.byUnit[f.Unit] {
		if f.Start.Line < d.from || f.Start.Line > d.to {
			continue
		}
		if len(d.rules) == 0 {
			return true
		}
		if _, ok := d.rules[f.Rule]; ok {
			return true
		}
	}
	return false
}

// filter drops the findings silenced by the collected directives.
func (s *suppressions) filter(findings []checker.Finding) []checker.Finding {
	if s == nil || len(s.byUnit) == 0 {
		return findings
	}
	kept := make([]checker.Finding, 0, len(findings))
	for _, f := range findings {
		if !s.silences(f) {
			kept = append(kept, f)
		}
	}
	return kept
}
