package huffpack

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// TreeCache memoizes parsed trees keyed by their serialized form.
// Workloads that decompress many containers sharing one code tree parse
// the tree once and reuse it.  Parsed trees are never mutated, so a
// cached tree may be shared across goroutines; the cache itself is safe
// for concurrent use.
type TreeCache struct {
	cache *lru.Cache[string, *Node]
}

// NewTreeCache returns a cache holding up to size parsed trees.
func NewTreeCache(size int) (*TreeCache, error) {
	c, err := lru.New[string, *Node](size)
	if err != nil {
		return nil, err
	}
	return &TreeCache{cache: c}, nil
}

// Parse returns the tree encoded by raw, reusing a previously parsed
// tree when one is cached.  Malformed input is never cached.
func (tc *TreeCache) Parse(raw []byte) (*Node, error) {
	if tree, ok := tc.cache.Get(string(raw)); ok {
		return tree, nil
	}
	tree, err := ParseTree(raw)
	if err != nil {
		return nil, err
	}
	tc.cache.Add(string(raw), tree)
	return tree, nil
}

// Decompress behaves like the package-level Decompress with the tree
// lookup served from the cache.
func (tc *TreeCache) Decompress(c *Container) ([]byte, error) {
	tree, err := tc.Parse(c.Tree)
	if err != nil {
		return nil, err
	}
	return Decode(c.Payload, c.Padding, c.SymbolCount, tree)
}

// Len returns the number of parsed trees currently cached.
func (tc *TreeCache) Len() int {
	return tc.cache.Len()
}
