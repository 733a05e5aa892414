package fixer

import (
	"bytes"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"path"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/refixlabs/refix/checker"
)

// EnsureImports adds any of the given import paths the source is
// missing and returns the modified source.
func EnsureImports(src []byte, paths []string) ([]byte, error) {
	if len(paths) == 0 {
		return src, nil
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.ParseComments)
	if err != nil {
		return src, err
	}

	modified := false
	for _, importPath := range paths {
		if !hasImport(file, importPath) {
			astutil.AddImport(fset, file, importPath)
			modified = true
		}
	}
	if !modified {
		return src, nil
	}
	return printFile(fset, file)
}

// PruneImports removes each of the given import paths from the source,
// but only when nothing references the package anymore. Fixes that
// delete the last use of a package hand its path here; a remaining use
// elsewhere in the file keeps the import.
func PruneImports(src []byte, paths []string) ([]byte, error) {
	if len(paths) == 0 {
		return src, nil
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.ParseComments)
	if err != nil {
		return src, err
	}

	modified := false
	for _, importPath := range paths {
		spec := findImport(file, importPath)
		if spec == nil {
			continue
		}

		local, prunable := localImportName(spec, importPath)
		if !prunable || usesPackage(file, local) {
			continue
		}

		if spec.Name != nil {
			astutil.DeleteNamedImport(fset, file, spec.Name.Name, importPath)
		} else {
			astutil.DeleteImport(fset, file, importPath)
		}
		modified = true
	}
	if !modified {
		return src, nil
	}
	return printFile(fset, file)
}

func printFile(fset *token.FileSet, file *ast.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func hasImport(file *ast.File, importPath string) bool {
	return findImport(file, importPath) != nil
}

func findImport(file *ast.File, importPath string) *ast.ImportSpec {
	for _, imp := range file.Imports {
		if unquoted, err := strconv.Unquote(imp.Path.Value); err == nil && unquoted == importPath {
			return imp
		}
	}
	return nil
}

// localImportName returns the identifier the file uses for an import.
// Blank and dot imports are never prunable: their effects are not
// visible as selector expressions.
func localImportName(spec *ast.ImportSpec, importPath string) (name string, prunable bool) {
	if spec.Name == nil {
		return path.Base(importPath), true
	}
	if spec.Name.Name == "_" || spec.Name.Name == "." {
		return "", false
	}
	return spec.Name.Name, true
}

// usesPackage reports whether any selector in the file still refers to
// the package identifier.
func usesPackage(file *ast.File, name string) bool {
	used := false
	ast.Inspect(file, func(n ast.Node) bool {
		if used {
			return false
		}
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if ident, ok := sel.X.(*ast.Ident); ok && ident.Name == name {
			used = true
			return false
		}
		return true
	})
	return used
}

func requiredImports(findings []checker.Finding) []string {
	return uniqueImports(findings, func(f checker.Finding) []string { return f.AddImports })
}

func droppableImports(findings []checker.Finding) []string {
	return uniqueImports(findings, func(f checker.Finding) []string { return f.DropImports })
}

func uniqueImports(findings []checker.Finding, pick func(checker.Finding) []string) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, f := range findings {
		if !f.HasFix() {
			continue
		}
		for _, p := range pick(f) {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	return paths
}
