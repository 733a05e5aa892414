package match

import (
	"go/ast"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMemoSize = 512

type memoKey struct {
	node ast.Node
	ctx  *Context
}

// Memoized wraps inner with an LRU cache keyed on (node, context)
// identity. Matchers are referentially transparent, so caching is
// safe; it pays off when one expensive matcher is shared between
// several composed expressions evaluated over the same walk. A size
// below 1 falls back to defaultMemoSize.
func Memoized(inner Matcher, size int) Matcher {
	if size < 1 {
		size = defaultMemoSize
	}
	cache, err := lru.New[memoKey, bool](size)
	if err != nil {
		return inner
	}
	return func(node ast.Node, ctx *Context) bool {
		key := memoKey{node: node, ctx: ctx}
		if hit, ok := cache.Get(key); ok {
			return hit
		}
		res := inner(node, ctx)
		cache.Add(key, res)
		return res
	}
}
