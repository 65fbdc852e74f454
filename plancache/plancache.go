package plancache

import (
	"log"

	"github.com/dgraph-io/ristretto"
	"github.com/pkg/errors"

	"github.com/cube2222/octograph/logical"
	"github.com/cube2222/octograph/pattern"
)

const DefaultMaxCost = 1 << 16

// Cache keeps compiled plans by strategy and pattern fingerprint.
// The cost of a plan is its node count.
// Plans are cloned on the way in and on the way out, so callers may modify them freely.
type Cache struct {
	cache *ristretto.Cache
}

func New(maxCost int64) (*Cache, error) {
	if maxCost <= 0 {
		maxCost = DefaultMaxCost
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "couldn't initialize plan cache")
	}
	return &Cache{cache: cache}, nil
}

func Key(strategy string, p *pattern.Pattern) string {
	return strategy + "\x00" + p.Fingerprint()
}

func (c *Cache) Get(strategy string, p *pattern.Pattern) (*logical.Plan, bool) {
	value, ok := c.cache.Get(Key(strategy, p))
	if !ok {
		return nil, false
	}
	return value.(*logical.Plan).Clone(), true
}

// Set stores the plan. Admission is asynchronous and may be refused, so a later Get may still miss.
func (c *Cache) Set(strategy string, p *pattern.Pattern, plan *logical.Plan) {
	c.cache.Set(Key(strategy, p), plan.Clone(), int64(plan.Len()))
}

// GetOrBuild returns the cached plan, building and storing it on a miss.
func (c *Cache) GetOrBuild(strategy string, p *pattern.Pattern, build func() (*logical.Plan, error)) (*logical.Plan, error) {
	if plan, ok := c.Get(strategy, p); ok {
		log.Printf("plan cache hit for %s strategy", strategy)
		return plan, nil
	}
	plan, err := build()
	if err != nil {
		return nil, err
	}
	c.Set(strategy, p, plan)
	return plan, nil
}

func (c *Cache) Close() {
	c.cache.Close()
}
