package match

import (
	"go/ast"
	"go/token"
)

// Resolver is the symbol-resolution capability a Context supplies to
// matchers. Implementations attribute a call to its owner (an import
// path, or the declaring package name for symbols local to the run)
// and member name, or report it unresolved.
type Resolver interface {
	ResolveCall(call *ast.CallExpr) (owner, member string, ok bool)
}

// Context carries the per-run inputs a matcher may consult. It is
// built once per parsed run and never mutated afterwards; matchers
// receive it explicitly on every evaluation.
type Context struct {
	Fset     *token.FileSet
	Resolver Resolver
}

// NewContext returns a context over fset with the given resolver.
// Both may be nil; matchers needing an absent capability evaluate to
// false rather than failing.
func NewContext(fset *token.FileSet, r Resolver) *Context {
	return &Context{Fset: fset, Resolver: r}
}

// Position maps pos through the context's file set. A nil file set
// yields the zero position.
func (c *Context) Position(pos token.Pos) token.Position {
	if c == nil || c.Fset == nil {
		return token.Position{}
	}
	return c.Fset.Position(pos)
}
