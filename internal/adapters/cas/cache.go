package cas

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/precache/internal/core/domain"
	"go.trai.ch/precache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Cache = (*Cache)(nil)

// Cache is a handle to one named cache inside a Storage.
// The handle outlives a Delete of its cache; writes through it then fail with ErrCacheNotFound.
type Cache struct {
	storage *Storage
	name    string
	dir     string
}

func newCache(s *Storage, name, dir string) *Cache {
	return &Cache{storage: s, name: name, dir: dir}
}

// Name returns the cache name.
func (c *Cache) Name() string {
	return c.name
}

// Put stores resp under req, replacing any previous entry for the same request.
func (c *Cache) Put(ctx context.Context, req *domain.Request, resp *domain.Response) error {
	if !req.Cacheable() {
		return zerr.With(domain.ErrMethodNotCacheable, "method", req.Method)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.storage.mu.Lock()
	defer c.storage.mu.Unlock()

	if err := c.checkExistsLocked(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := encodeEntry(&buf, req, resp); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCachePutFailed.Error()), "url", req.URL)
	}

	path := filepath.Join(c.dir, entryFileName(req.Key()))
	if err := atomicWriteFile(path, buf.Bytes()); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCachePutFailed.Error()), "url", req.URL)
	}
	return nil
}

// Match returns the response stored under req, or nil on a miss.
func (c *Cache) Match(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.storage.mu.RLock()
	defer c.storage.mu.RUnlock()

	return c.matchLocked(req)
}

func (c *Cache) matchLocked(req *domain.Request) (*domain.Response, error) {
	if !req.Cacheable() {
		return nil, nil
	}

	e, err := readEntry(filepath.Join(c.dir, entryFileName(req.Key())))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheMatchFailed.Error()), "cache", c.name)
	}

	// A different key hashed to the same file name.
	if !e.matches(req) {
		return nil, nil
	}
	return e.resp, nil
}

// Keys returns the stored requests ordered by URL.
func (c *Cache) Keys(ctx context.Context) ([]*domain.Request, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.storage.mu.RLock()
	defer c.storage.mu.RUnlock()

	files, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrCacheNotFound, "cache", c.name)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrEntryReadFailed.Error()), "cache", c.name)
	}

	reqs := make([]*domain.Request, 0, len(files))
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), entryExt) {
			continue
		}
		e, err := readEntry(filepath.Join(c.dir, f.Name()))
		if err != nil {
			return nil, zerr.With(err, "cache", c.name)
		}
		reqs = append(reqs, e.request())
	}

	slices.SortFunc(reqs, func(a, b *domain.Request) int {
		return cmp.Or(cmp.Compare(a.URL, b.URL), cmp.Compare(a.Method, b.Method))
	})
	return reqs, nil
}

// Delete removes the entry stored under req. It reports false if there was none.
func (c *Cache) Delete(ctx context.Context, req *domain.Request) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.storage.mu.Lock()
	defer c.storage.mu.Unlock()

	resp, err := c.matchLocked(req)
	if err != nil || resp == nil {
		return false, err
	}

	if err := os.Remove(filepath.Join(c.dir, entryFileName(req.Key()))); err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrEntryWriteFailed.Error()), "url", req.URL)
	}
	return true, nil
}

func (c *Cache) checkExistsLocked() error {
	meta, err := readMeta(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zerr.With(domain.ErrCacheNotFound, "cache", c.name)
		}
		return zerr.With(zerr.Wrap(err, domain.ErrCacheMetaReadFailed.Error()), "cache", c.name)
	}
	if meta.Name != c.name {
		return zerr.With(domain.ErrCacheNotFound, "cache", c.name)
	}
	return nil
}
