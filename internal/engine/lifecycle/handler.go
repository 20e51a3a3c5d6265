// Package lifecycle implements the install, activate and fetch phases of the
// offline cache and the worker that drives them.
package lifecycle

import (
	"context"
	"errors"

	"go.trai.ch/precache/internal/core/domain"
	"go.trai.ch/precache/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// installConcurrency bounds the number of asset fetches in flight during install.
const installConcurrency = 4

// Source reports where a fetched response came from.
type Source uint8

const (
	// SourceNetwork means the response came from a live request.
	SourceNetwork Source = iota
	// SourceCache means the response was served from a cache store.
	SourceCache
)

// String returns "hit" for cached responses and "miss" otherwise.
func (s Source) String() string {
	if s == SourceCache {
		return "hit"
	}
	return "miss"
}

// OnInstall opens the cache store named by manifest.Version and fills it with
// every asset. Assets are fetched concurrently and stored in manifest order.
// Any failed fetch or non-2xx response fails the install. A storage failure
// leaves the store partially populated.
func OnInstall(ctx context.Context, manifest domain.Manifest, storage ports.CacheStorage, network ports.Network) error {
	reqs, err := manifest.Requests()
	if err != nil {
		return errors.Join(domain.ErrInstallFailed, err)
	}

	cache, err := storage.Open(ctx, manifest.Version)
	if err != nil {
		return errors.Join(domain.ErrInstallFailed, err)
	}

	responses := make([]*domain.Response, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(installConcurrency)
	for i, req := range reqs {
		g.Go(func() error {
			resp, err := network.Fetch(gctx, req)
			if err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrAssetFetchFailed.Error()), "url", req.URL)
			}
			if !resp.OK() {
				notOK := zerr.With(domain.ErrAssetResponseNotOK, "url", req.URL)
				return zerr.With(notOK, "status", resp.Status)
			}
			responses[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Join(domain.ErrInstallFailed, err)
	}

	for i, req := range reqs {
		if err := cache.Put(ctx, req, responses[i]); err != nil {
			return errors.Join(domain.ErrInstallFailed, err)
		}
	}

	return nil
}

// OnActivate deletes every cache store whose name is not version and returns
// the deleted names. Every deletion is attempted; failures are joined.
func OnActivate(ctx context.Context, version string, storage ports.CacheStorage) ([]string, error) {
	names, err := storage.Keys(ctx)
	if err != nil {
		return nil, errors.Join(domain.ErrActivateFailed, err)
	}

	var deleted []string
	errs := []error{domain.ErrActivateFailed}
	for _, name := range names {
		if name == version {
			continue
		}
		ok, err := storage.Delete(ctx, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			deleted = append(deleted, name)
		}
	}

	if len(errs) > 1 {
		return deleted, errors.Join(errs...)
	}
	return deleted, nil
}

// OnFetch answers req from any cache store, falling back to the network on a
// miss. Network responses are returned as they are and never stored.
func OnFetch(
	ctx context.Context,
	req *domain.Request,
	storage ports.CacheStorage,
	network ports.Network,
) (*domain.Response, Source, error) {
	resp, err := storage.Match(ctx, req)
	if err != nil {
		return nil, SourceCache, err
	}
	if resp != nil {
		return resp, SourceCache, nil
	}

	resp, err = network.Fetch(ctx, req)
	if err != nil {
		return nil, SourceNetwork, err
	}
	return resp, SourceNetwork, nil
}
