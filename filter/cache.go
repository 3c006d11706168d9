package filter

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of compiled expressions a Compiler keeps
const DefaultCacheSize = 64

// Compiler compiles filter expressions and caches the resulting programs
type Compiler struct {
	cache *lru.Cache[string, *ExprFilter]
}

// NewCompiler creates a compiler that keeps up to size compiled expressions
func NewCompiler(size int) (*Compiler, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	cache, err := lru.New[string, *ExprFilter](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create filter cache: %w", err)
	}

	return &Compiler{cache: cache}, nil
}

// Compile returns the compiled filter for expression, reusing cached programs
func (c *Compiler) Compile(expression string) (*ExprFilter, error) {
	if f, ok := c.cache.Get(expression); ok {
		return f, nil
	}

	f, err := CompileExprFilter(expression)
	if err != nil {
		return nil, err
	}

	c.cache.Add(expression, f)
	return f, nil
}

// Size returns the number of cached filters
func (c *Compiler) Size() int {
	return c.cache.Len()
}

// Clear removes all cached filters
func (c *Compiler) Clear() {
	c.cache.Purge()
}
