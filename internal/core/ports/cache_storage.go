// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/precache/internal/core/domain"
)

// CacheStorage is the set of named cache stores.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache_storage.go -destination=mocks/mock_cache_storage.go -package=mocks
type CacheStorage interface {
	// Open returns the cache store with the given name, creating it if absent.
	Open(ctx context.Context, name string) (Cache, error)

	// Has reports whether a cache store with the given name exists.
	Has(ctx context.Context, name string) (bool, error)

	// Keys returns the names of all cache stores in creation order.
	Keys(ctx context.Context) ([]string, error)

	// Delete removes the named cache store and everything in it.
	// It reports false if no such store existed.
	Delete(ctx context.Context, name string) (bool, error)

	// Match looks the request up in every cache store, in creation order.
	// Returns nil, nil on a miss.
	Match(ctx context.Context, req *domain.Request) (*domain.Response, error)
}

// Cache is a single named cache store mapping requests to responses.
type Cache interface {
	// Name returns the name the store was opened with.
	Name() string

	// Put stores resp under req, replacing any previous entry.
	Put(ctx context.Context, req *domain.Request, resp *domain.Response) error

	// Match returns the response stored under req.
	// Returns nil, nil on a miss.
	Match(ctx context.Context, req *domain.Request) (*domain.Response, error)

	// Keys returns the requests stored in the cache.
	Keys(ctx context.Context) ([]*domain.Request, error)

	// Delete removes the entry stored under req. It reports false if there was none.
	Delete(ctx context.Context, req *domain.Request) (bool, error)
}
