package source

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"

	"github.com/refixlabs/refix/match"
)

// ParseError attributes a parse or resolution failure to one unit.
type ParseError struct {
	Unit string
	Pos  token.Position
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Unit, e.Msg)
}

// Program is the parsed view of one run: every unit's syntax tree
// over a shared file set, plus the resolver built from all of them.
// A Program is immutable once returned and is discarded with the run.
type Program struct {
	Fset  *token.FileSet
	Units []Unit
	Files []*ast.File

	resolver *packageResolver
}

// Parse parses all units of a run together. Units form one logical
// package: cross-unit references resolve, a package-name disagreement
// or duplicate top-level declaration fails the whole run. The error
// is always a *ParseError naming the offending unit.
func Parse(units []Unit) (*Program, error) {
	if len(units) == 0 {
		return nil, &ParseError{Msg: "no units to parse"}
	}

	fset := token.NewFileSet()
	files := make([]*ast.File, 0, len(units))
	for _, u := range units {
		f, err := parser.ParseFile(fset, u.Name, u.Text, parser.ParseComments)
		if err != nil {
			return nil, parseErrorFrom(u.Name, err)
		}
		files = append(files, f)
	}

	r, err := newPackageResolver(fset, units, files)
	if err != nil {
		return nil, err
	}

	return &Program{Fset: fset, Units: units, Files: files, resolver: r}, nil
}

// File returns the syntax tree of the named unit, or nil.
func (p *Program) File(name string) *ast.File {
	for i, u := range p.Units {
		if u.Name == name {
			return p.Files[i]
		}
	}
	return nil
}

// Context returns the resolution context matchers evaluate under.
func (p *Program) Context() *match.Context {
	return match.NewContext(p.Fset, p.resolver)
}

func parseErrorFrom(unit string, err error) *ParseError {
	if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
		return &ParseError{Unit: unit, Pos: list[0].Pos, Msg: list[0].Msg}
	}
	return &ParseError{Unit: unit, Msg: err.Error()}
}
