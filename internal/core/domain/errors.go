package domain

import "go.trai.ch/zerr"

var (
	// ErrMissingVersion is returned when a manifest has no cache version name.
	ErrMissingVersion = zerr.New("manifest version is required")

	// ErrInvalidOrigin is returned when the manifest origin is not an absolute http(s) URL.
	ErrInvalidOrigin = zerr.New("origin must be an absolute http or https URL")

	// ErrInvalidAsset is returned when an asset URL cannot be resolved against the origin.
	ErrInvalidAsset = zerr.New("invalid asset URL")

	// ErrDuplicateAsset is returned when two assets resolve to the same request.
	ErrDuplicateAsset = zerr.New("duplicate asset")

	// ErrInvalidRequestURL is returned when a request URL is not absolute.
	ErrInvalidRequestURL = zerr.New("request URL must be absolute")

	// ErrMethodNotCacheable is returned when storing a request whose method is not GET.
	ErrMethodNotCacheable = zerr.New("only GET requests can be cached")

	// ErrCacheNotFound is returned when operating on a cache store that has been deleted.
	ErrCacheNotFound = zerr.New("cache not found")

	// ErrCacheCreateFailed is returned when a cache store directory cannot be created.
	ErrCacheCreateFailed = zerr.New("failed to create cache")

	// ErrCacheOpenFailed is returned when a cache store cannot be opened.
	ErrCacheOpenFailed = zerr.New("failed to open cache")

	// ErrCacheKeysFailed is returned when the cache store names cannot be enumerated.
	ErrCacheKeysFailed = zerr.New("failed to list caches")

	// ErrCacheDeleteFailed is returned when a cache store cannot be deleted.
	ErrCacheDeleteFailed = zerr.New("failed to delete cache")

	// ErrCachePutFailed is returned when a response cannot be stored.
	ErrCachePutFailed = zerr.New("failed to store response")

	// ErrCacheMatchFailed is returned when looking up a request in the cache fails.
	ErrCacheMatchFailed = zerr.New("failed to match request in cache")

	// ErrCacheMetaReadFailed is returned when a cache store's metadata cannot be read.
	ErrCacheMetaReadFailed = zerr.New("failed to read cache metadata")

	// ErrCacheMetaWriteFailed is returned when a cache store's metadata cannot be written.
	ErrCacheMetaWriteFailed = zerr.New("failed to write cache metadata")

	// ErrEntryReadFailed is returned when a cache entry file cannot be read.
	ErrEntryReadFailed = zerr.New("failed to read cache entry")

	// ErrEntryWriteFailed is returned when a cache entry file cannot be written.
	ErrEntryWriteFailed = zerr.New("failed to write cache entry")

	// ErrEntryCorrupt is returned when a cache entry file is malformed.
	ErrEntryCorrupt = zerr.New("corrupt cache entry")

	// ErrFetchFailed is returned when a live network request fails.
	ErrFetchFailed = zerr.New("network fetch failed")

	// ErrResponseTooLarge is returned when a live response body exceeds the size limit.
	ErrResponseTooLarge = zerr.New("response body too large")

	// ErrAssetFetchFailed is returned when an asset cannot be fetched during install.
	ErrAssetFetchFailed = zerr.New("failed to fetch asset")

	// ErrAssetResponseNotOK is returned when an asset responds with a non-2xx status during install.
	ErrAssetResponseNotOK = zerr.New("asset response status is not ok")

	// ErrInstallFailed is returned when the install phase fails.
	ErrInstallFailed = zerr.New("install failed")

	// ErrActivateFailed is returned when the activate phase fails.
	ErrActivateFailed = zerr.New("activate failed")

	// ErrWorkerNotRegistered is returned when a request arrives before any manifest was registered.
	ErrWorkerNotRegistered = zerr.New("worker is not registered")

	// ErrConfigNotFound is returned when an explicitly named config file does not exist.
	ErrConfigNotFound = zerr.New("config file not found")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrServerFailed is returned when the HTTP front stops unexpectedly.
	ErrServerFailed = zerr.New("http server failed")

	// ErrWatchFailed is returned when the manifest watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to watch config file")

	// ErrRequestReadFailed is returned when an inbound request body cannot be read.
	ErrRequestReadFailed = zerr.New("failed to read request body")

	// ErrRequestTooLarge is returned when an inbound request body exceeds the size limit.
	ErrRequestTooLarge = zerr.New("request body too large")

	// ErrInvalidLogFormat is returned for an unknown --log-format value.
	ErrInvalidLogFormat = zerr.New("invalid log format")
)
