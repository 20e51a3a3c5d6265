// Package cas implements the on-disk cache storage.
//
// Every named cache lives in its own directory under the storage root. The
// directory name is the xxhash of the cache name; the real name and the
// creation sequence are kept in cache.json next to the entry files.
package cas

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/precache/internal/core/domain"
	"go.trai.ch/precache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CacheStorage = (*Storage)(nil)

const metaFileName = "cache.json"

type cacheMeta struct {
	Name      string    `json:"name"`
	Sequence  uint64    `json:"sequence"`
	CreatedAt time.Time `json:"createdAt"`
	dir       string
}

// Storage implements ports.CacheStorage on the local file system.
// A single RWMutex serializes conflicting mutations across all caches.
type Storage struct {
	root string
	mu   sync.RWMutex
}

// NewStorage creates a Storage rooted at the default caches path.
func NewStorage() (*Storage, error) {
	return NewStorageWithPath(domain.DefaultCachesPath())
}

// NewStorageWithPath creates a Storage rooted at path.
// The directory is created when the first cache is opened.
func NewStorageWithPath(path string) (*Storage, error) {
	return &Storage{root: filepath.Clean(path)}, nil
}

// Root returns the storage root directory.
func (s *Storage) Root() string {
	return s.root
}

// Open returns the named cache, creating it if absent.
func (s *Storage) Open(ctx context.Context, name string) (ports.Cache, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.cacheDir(name)
	meta, err := readMeta(dir)
	switch {
	case err == nil:
		if meta.Name != name {
			collision := zerr.With(domain.ErrCacheOpenFailed, "cache", name)
			return nil, zerr.With(collision, "collides_with", meta.Name)
		}
		return newCache(s, name, dir), nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheOpenFailed.Error()), "cache", name)
	}

	metas, err := s.listMetas()
	if err != nil {
		return nil, err
	}
	var seq uint64 = 1
	for _, m := range metas {
		if m.Sequence >= seq {
			seq = m.Sequence + 1
		}
	}

	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheCreateFailed.Error()), "cache", name)
	}
	if err := writeMeta(dir, cacheMeta{Name: name, Sequence: seq, CreatedAt: time.Now().UTC()}); err != nil {
		return nil, zerr.With(err, "cache", name)
	}

	return newCache(s, name, dir), nil
}

// Has reports whether the named cache exists.
func (s *Storage) Has(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.existsLocked(name)
}

// Keys returns the cache names in creation order.
func (s *Storage) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	metas, err := s.listMetas()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(metas))
	for _, m := range metas {
		names = append(names, m.Name)
	}
	return names, nil
}

// Delete removes the named cache. It reports false if the cache did not exist.
func (s *Storage) Delete(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.existsLocked(name)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrCacheDeleteFailed.Error()), "cache", name)
	}
	if !ok {
		return false, nil
	}

	if err := os.RemoveAll(s.cacheDir(name)); err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrCacheDeleteFailed.Error()), "cache", name)
	}
	return true, nil
}

// Match looks req up in every cache in creation order and returns the first hit.
func (s *Storage) Match(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	if !req.Cacheable() {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	metas, err := s.listMetas()
	if err != nil {
		return nil, err
	}

	for _, m := range metas {
		resp, err := newCache(s, m.Name, m.dir).matchLocked(req)
		if err != nil {
			return nil, err
		}
		if resp != nil {
			return resp, nil
		}
	}
	return nil, nil
}

func (s *Storage) cacheDir(name string) string {
	return filepath.Join(s.root, fmt.Sprintf("%016x", xxhash.Sum64String(name)))
}

func (s *Storage) existsLocked(name string) (bool, error) {
	meta, err := readMeta(s.cacheDir(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, domain.ErrCacheMetaReadFailed.Error()), "cache", name)
	}
	return meta.Name == name, nil
}

// listMetas returns the metadata of every cache ordered by creation sequence.
// Directories without metadata are ignored.
func (s *Storage) listMetas() ([]cacheMeta, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrCacheKeysFailed.Error())
	}

	metas := make([]cacheMeta, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(s.root, e.Name())
		meta, err := readMeta(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheMetaReadFailed.Error()), "dir", dir)
		}
		metas = append(metas, meta)
	}

	slices.SortFunc(metas, func(a, b cacheMeta) int {
		return cmp.Or(cmp.Compare(a.Sequence, b.Sequence), cmp.Compare(a.Name, b.Name))
	})
	return metas, nil
}

func readMeta(dir string) (cacheMeta, error) {
	//nolint:gosec // Path is constructed from the storage root and a hashed directory name
	data, err := os.ReadFile(filepath.Join(dir, metaFileName))
	if err != nil {
		return cacheMeta{}, err
	}

	var meta cacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	meta.dir = dir
	return meta, nil
}

func writeMeta(dir string, meta cacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheMetaWriteFailed.Error())
	}
	if err := atomicWriteFile(filepath.Join(dir, metaFileName), data); err != nil {
		return zerr.Wrap(err, domain.ErrCacheMetaWriteFailed.Error())
	}
	return nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file and renaming it.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
