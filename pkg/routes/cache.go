package routes

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/vango-dev/routetree/internal/errors"
)

// LoadCache holds the child configurations loaded during one resolution
// pass, keyed by route identity. The loader runs at most once per deferred
// route per pass. The shared configuration is never modified.
type LoadCache struct {
	loader  Loader
	observe func(key string, err error)

	group  singleflight.Group
	mu     sync.RWMutex
	loaded map[uint64]Routes
}

// NewLoadCache creates a cache for one pass. observe, if not nil, is called
// after every loader invocation.
func NewLoadCache(loader Loader, observe func(key string, err error)) *LoadCache {
	return &LoadCache{
		loader:  loader,
		observe: observe,
		loaded:  make(map[uint64]Routes),
	}
}

// ChildConfig returns the child configuration of r: its inline children,
// its deferred children (loading them if needed), or nothing.
func (c *LoadCache) ChildConfig(ctx context.Context, r *Route) (Routes, error) {
	switch {
	case r.Children != nil:
		return r.Children, nil
	case r.LoadChildren != "":
		return c.Load(ctx, r)
	}
	return nil, nil
}

// Loaded returns the configuration already loaded for r in this pass.
func (c *LoadCache) Loaded(r *Route) (Routes, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	config, ok := c.loaded[r.Key()]
	return config, ok
}

// Load returns the deferred configuration of r, loading, validating and
// keying it on first use. A nil cache has no loader.
func (c *LoadCache) Load(ctx context.Context, r *Route) (Routes, error) {
	if config, ok := c.Loaded(r); ok {
		return config, nil
	}
	if c == nil || c.loader == nil {
		return nil, errors.New("R106").WithSubject(r.LoadChildren).WithDetail("no loader configured")
	}

	v, err, _ := c.group.Do(strconv.FormatUint(r.Key(), 10), func() (any, error) {
		if config, ok := c.Loaded(r); ok {
			return config, nil
		}
		config, err := c.loader.Load(ctx, r.LoadChildren)
		if err == nil {
			err = Prepare(config)
		}
		if c.observe != nil {
			c.observe(r.LoadChildren, err)
		}
		if err != nil {
			return nil, err
		}
		if config == nil {
			config = Routes{}
		}
		c.mu.Lock()
		c.loaded[r.Key()] = config
		c.mu.Unlock()
		return config, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Routes), nil
}
