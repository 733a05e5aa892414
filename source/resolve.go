package source

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/refixlabs/refix/match"
)

// ResolverForFiles derives the syntactic resolver for files already
// parsed on fset, for callers that did not build their program
// through Parse (analysis drivers hand over parsed files directly).
// Returns nil when the files do not form one well-formed package;
// matchers treat a missing resolver as "nothing resolves".
func ResolverForFiles(fset *token.FileSet, files []*ast.File) match.Resolver {
	if fset == nil || len(files) == 0 {
		return nil
	}
	units := make([]Unit, len(files))
	for i, f := range files {
		if tf := fset.File(f.Pos()); tf != nil {
			units[i] = Unit{Name: tf.Name()}
		}
	}
	r, err := newPackageResolver(fset, units, files)
	if err != nil {
		return nil
	}
	return r
}

// packageResolver attributes calls syntactically: qualified calls
// through the importing file's alias table, unqualified calls through
// the package-scope declaration table built from every unit of the
// run. It never guesses; anything it cannot attribute stays
// unresolved, which matchers treat as "no match".
type packageResolver struct {
	fset    *token.FileSet
	pkgName string
	imports map[string]map[string]string // unit name -> local name -> import path
	scope   map[string]bool              // package-scope declarations
}

func newPackageResolver(fset *token.FileSet, units []Unit, files []*ast.File) (*packageResolver, error) {
	r := &packageResolver{
		fset:    fset,
		pkgName: files[0].Name.Name,
		imports: make(map[string]map[string]string, len(files)),
		scope:   make(map[string]bool),
	}

	declaredAt := make(map[string]token.Pos)
	for i, f := range files {
		unit := units[i].Name
		if f.Name.Name != r.pkgName {
			return nil, &ParseError{
				Unit: unit,
				Pos:  fset.Position(f.Name.Pos()),
				Msg:  fmt.Sprintf("found packages %s and %s", r.pkgName, f.Name.Name),
			}
		}
		r.imports[unit] = importTable(f)
		if err := r.collectScope(unit, f, declaredAt); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// importTable maps local names to import paths for one file. Blank
// and dot imports contribute no usable name.
func importTable(f *ast.File) map[string]string {
	table := make(map[string]string, len(f.Imports))
	for _, imp := range f.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		name := defaultImportName(path)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		table[name] = path
	}
	return table
}

func defaultImportName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

func (r *packageResolver) collectScope(unit string, f *ast.File, declaredAt map[string]token.Pos) error {
	record := func(name string, pos token.Pos) error {
		if name == "_" || name == "init" {
			return nil
		}
		if _, dup := declaredAt[name]; dup {
			return &ParseError{
				Unit: unit,
				Pos:  r.fset.Position(pos),
				Msg:  fmt.Sprintf("%s redeclared in this package", name),
			}
		}
		declaredAt[name] = pos
		r.scope[name] = true
		return nil
	}

	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv != nil {
				continue
			}
			if err := record(d.Name.Name, d.Name.Pos()); err != nil {
				return err
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.ValueSpec:
					for _, n := range s.Names {
						if err := record(n.Name, n.Pos()); err != nil {
							return err
						}
					}
				case *ast.TypeSpec:
					if err := record(s.Name.Name, s.Name.Pos()); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// ResolveCall implements match.Resolver.
func (r *packageResolver) ResolveCall(call *ast.CallExpr) (string, string, bool) {
	if call == nil {
		return "", "", false
	}
	switch fun := astutil.Unparen(call.Fun).(type) {
	case *ast.SelectorExpr:
		ident, ok := astutil.Unparen(fun.X).(*ast.Ident)
		if !ok {
			return "", "", false
		}
		path, ok := r.importPathFor(call.Pos(), ident.Name)
		if !ok {
			return "", "", false
		}
		return path, fun.Sel.Name, true
	case *ast.Ident:
		if r.scope[fun.Name] {
			return r.pkgName, fun.Name, true
		}
	}
	return "", "", false
}

// importPathFor looks up a local package name in the alias table of
// the unit containing pos.
func (r *packageResolver) importPathFor(pos token.Pos, name string) (string, bool) {
	if !pos.IsValid() {
		return "", false
	}
	tf := r.fset.File(pos)
	if tf == nil {
		return "", false
	}
	table, ok := r.imports[tf.Name()]
	if !ok {
		return "", false
	}
	path, ok := table[name]
	return path, ok
}
