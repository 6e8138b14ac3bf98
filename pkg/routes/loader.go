package routes

import (
	"context"
	stderrors "errors"
	"io/fs"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/vango-dev/routetree/internal/errors"
)

// Loader fetches the child configuration of a deferred route by its key.
type Loader interface {
	Load(ctx context.Context, key string) (Routes, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, key string) (Routes, error)

// Load calls f(ctx, key).
func (f LoaderFunc) Load(ctx context.Context, key string) (Routes, error) {
	return f(ctx, key)
}

// MapLoader serves configurations from memory.
type MapLoader map[string]Routes

// Load returns the configuration registered under key.
func (m MapLoader) Load(_ context.Context, key string) (Routes, error) {
	config, ok := m[key]
	if !ok {
		return nil, errors.New("R106").WithSubject(key).WithDetail("no configuration registered")
	}
	return config, nil
}

// FileLoader reads configurations from a file system. The key "admin" is
// looked up as admin.json, then admin.yaml, then admin.yml.
type FileLoader struct {
	FS fs.FS
}

var fileExtensions = []string{".json", ".yaml", ".yml"}

// Load reads and decodes the configuration file for key.
func (l FileLoader) Load(_ context.Context, key string) (Routes, error) {
	for _, ext := range fileExtensions {
		name := key + ext
		data, err := fs.ReadFile(l.FS, name)
		if stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.New("R106").WithSubject(name).Wrap(err)
		}
		return Decode(data, FormatOf(name))
	}
	return nil, errors.New("R106").WithSubject(key).WithDetail("no .json, .yaml or .yml file found")
}

// DefaultCacheSize is the number of configurations a CachingLoader keeps.
const DefaultCacheSize = 128

// CachingLoader memoizes another loader across navigations. Routes returned
// for a key are the same instances every time, so live routes built from
// deferred configuration keep their identity between navigations.
type CachingLoader struct {
	next  Loader
	cache *lru.Cache[string, Routes]
	group singleflight.Group
}

// NewCachingLoader wraps next with an LRU cache of size entries.
func NewCachingLoader(next Loader, size int) (*CachingLoader, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, Routes](size)
	if err != nil {
		return nil, err
	}
	return &CachingLoader{next: next, cache: cache}, nil
}

// Load returns the cached configuration for key, loading it at most once
// when several callers miss concurrently.
func (l *CachingLoader) Load(ctx context.Context, key string) (Routes, error) {
	if config, ok := l.cache.Get(key); ok {
		return config, nil
	}
	v, err, _ := l.group.Do(key, func() (any, error) {
		if config, ok := l.cache.Get(key); ok {
			return config, nil
		}
		config, err := l.next.Load(ctx, key)
		if err != nil {
			return nil, err
		}
		l.cache.Add(key, config)
		return config, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Routes), nil
}

// Purge drops every cached configuration.
func (l *CachingLoader) Purge() {
	l.cache.Purge()
}

// Len returns the number of cached configurations.
func (l *CachingLoader) Len() int {
	return l.cache.Len()
}
