package domain

import "path/filepath"

const (
	// PrecacheDirName is the name of the internal state directory.
	PrecacheDirName = ".precache"

	// CachesDirName is the name of the directory holding the named cache stores.
	CachesDirName = "caches"

	// ConfigFileName is the name of the manifest configuration file.
	ConfigFileName = "precache.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultCachesPath returns the default path for the cache storage.
// It joins .precache and caches.
func DefaultCachesPath() string {
	return filepath.Join(PrecacheDirName, CachesDirName)
}
