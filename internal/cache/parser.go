package cache

import (
	"crypto/sha256"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
	"github.com/mbcrawfo/vibefun-sub013/internal/loader"
)

// cachingParser decorates a loader.Parser with a cache lookup/store around
// every Parse call, keyed by the file's own content hash (§11.1).
type cachingParser struct {
	inner loader.Parser
	cache *Cache
}

// WrapParser returns a loader.Parser that consults c before delegating to
// inner, storing inner's result back into c on a miss. Cache errors never
// surface through this wrapper — only inner's own parse errors do.
func WrapParser(inner loader.Parser, c *Cache) loader.Parser {
	return &cachingParser{inner: inner, cache: c}
}

func (p *cachingParser) Parse(path string, src []byte) (*ast.Module, []error) {
	hash := sha256.Sum256(src)
	if mod, ok := p.cache.Get(path, hash); ok {
		return mod, nil
	}
	mod, errs := p.inner.Parse(path, src)
	if len(errs) == 0 {
		p.cache.Put(path, hash, mod)
	}
	return mod, errs
}
