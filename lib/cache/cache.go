package cache

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/vyPal/exprtree/lib/pipeline"
)

// ParseFunc builds the trees for one expression.
type ParseFunc func(expr string) (*pipeline.Result, error)

type entry struct {
	res *pipeline.Result
	err error
}

// ResultCache memoizes a ParseFunc by raw expression text. Failed parses
// are remembered too, since they are just as deterministic.
type ResultCache struct {
	parse   ParseFunc
	entries *lru.Cache
}

// New returns a cache holding at most size expressions. A size of zero or
// less disables caching and every call goes to parse.
func New(size int, parse ParseFunc) (*ResultCache, error) {
	c := &ResultCache{parse: parse}
	if size <= 0 {
		return c, nil
	}
	entries, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "creating parse cache")
	}
	c.entries = entries
	return c, nil
}

// Parse returns the result for expr and whether it came from the cache.
func (c *ResultCache) Parse(expr string) (*pipeline.Result, bool, error) {
	if c.entries == nil {
		res, err := c.parse(expr)
		return res, false, err
	}
	if v, ok := c.entries.Get(expr); ok {
		e := v.(entry)
		return e.res, true, e.err
	}
	res, err := c.parse(expr)
	c.entries.Add(expr, entry{res: res, err: err})
	return res, false, err
}

// Len reports how many expressions are cached.
func (c *ResultCache) Len() int {
	if c.entries == nil {
		return 0
	}
	return c.entries.Len()
}
