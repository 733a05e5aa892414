// Package match implements a small predicate algebra over go/ast
// nodes. Matchers are plain function values: pure, total over every
// node shape, and closed under composition. Absent structure (a
// missing argument, a non-call node, an unresolved symbol) always
// evaluates to false, never to an error, so arbitrarily nested
// matcher expressions need no error plumbing.
package match

import (
	"go/ast"
	"regexp"
	"strconv"
)

// Matcher is a pure predicate over one node and the resolution
// context of its run. All configuration is captured at construction
// time; evaluating a matcher never mutates anything, so the same
// (node, ctx) pair always yields the same result.
type Matcher func(node ast.Node, ctx *Context) bool

// KindIs matches nodes whose Kind equals k.
func KindIs(k Kind) Matcher {
	return func(node ast.Node, _ *Context) bool {
		return KindOf(node) == k
	}
}

// LiteralTextExcludes matches literal nodes whose textual value does
// NOT contain a match for re. String literals are compared by their
// unquoted value, other literals by their source text. Non-literal
// nodes never match.
func LiteralTextExcludes(re *regexp.Regexp) Matcher {
	return func(node ast.Node, _ *Context) bool {
		text, ok := literalText(node)
		if !ok {
			return false
		}
		return !re.MatchString(text)
	}
}

// CalleeOf matches call nodes whose callee expression satisfies
// inner. The callee is passed exactly as written; a parenthesized
// callee is a paren node.
func CalleeOf(inner Matcher) Matcher {
	return func(node ast.Node, ctx *Context) bool {
		call, ok := callNode(node)
		if !ok {
			return false
		}
		return inner(call.Fun, ctx)
	}
}

// ArgumentAt matches call nodes having at least i+1 arguments whose
// argument i satisfies inner. An absent argument is false, not an
// error.
func ArgumentAt(i int, inner Matcher) Matcher {
	return func(node ast.Node, ctx *Context) bool {
		call, ok := callNode(node)
		if !ok || i < 0 || i >= len(call.Args) {
			return false
		}
		return inner(call.Args[i], ctx)
	}
}

// ReferencesStaticMember matches call nodes that the context's
// resolver attributes to exactly the given owner and member. The
// owner is the import path for imported symbols, or the declaring
// package name for symbols declared by the parsed run itself.
// Unresolved calls never match.
func ReferencesStaticMember(owner, member string) Matcher {
	return func(node ast.Node, ctx *Context) bool {
		call, ok := callNode(node)
		if !ok || ctx == nil || ctx.Resolver == nil {
			return false
		}
		o, m, ok := ctx.Resolver.ResolveCall(call)
		return ok && o == owner && m == member
	}
}

// AllOf is short-circuit conjunction, evaluated left to right.
// AllOf() is true.
func AllOf(ms ...Matcher) Matcher {
	return func(node ast.Node, ctx *Context) bool {
		for _, m := range ms {
			if !m(node, ctx) {
				return false
			}
		}
		return true
	}
}

// AnyOf is short-circuit disjunction, evaluated left to right.
// AnyOf() is false.
func AnyOf(ms ...Matcher) Matcher {
	return func(node ast.Node, ctx *Context) bool {
		for _, m := range ms {
			if m(node, ctx) {
				return true
			}
		}
		return false
	}
}

// Not negates inner.
func Not(inner Matcher) Matcher {
	return func(node ast.Node, ctx *Context) bool {
		return !inner(node, ctx)
	}
}

func callNode(node ast.Node) (*ast.CallExpr, bool) {
	call, ok := node.(*ast.CallExpr)
	if !ok || call == nil {
		return nil, false
	}
	return call, true
}

func literalText(node ast.Node) (string, bool) {
	lit, ok := node.(*ast.BasicLit)
	if !ok || lit == nil {
		return "", false
	}
	if KindOf(lit) == KindStringLit {
		s, err := strconv.Unquote(lit.Value)
		if err != nil {
			return "", false
		}
		return s, true
	}
	if !KindOf(lit).IsLiteral() {
		return "", false
	}
	return lit.Value, true
}
