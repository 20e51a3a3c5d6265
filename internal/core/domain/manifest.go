package domain

import (
	"net/url"
	"slices"

	"go.trai.ch/zerr"
)

const (
	// DefaultVersion is the cache version name used when no config file overrides it.
	DefaultVersion = "hello-pwa-cache-v1"

	// DefaultOrigin is the origin assets are fetched from when no config file overrides it.
	DefaultOrigin = "http://localhost:8000"

	// DefaultListenAddr is the address the HTTP front listens on by default.
	DefaultListenAddr = "127.0.0.1:8080"
)

// DefaultAssets returns the asset list used when no config file overrides it.
func DefaultAssets() []string {
	return []string{
		"/",
		"/index.html",
		"/style.css",
		"/app.js",
		"/manifest.json",
	}
}

// Manifest names a cache version and the assets pre-cached into it.
type Manifest struct {
	// Version is the name of the cache store. Every other store is evicted on activation.
	Version string
	// Origin is the base URL assets and intercepted requests are resolved against.
	Origin string
	// Assets is the ordered list of URLs to pre-cache, relative to Origin or absolute.
	Assets []string
}

// DefaultManifest returns the built-in manifest.
func DefaultManifest() Manifest {
	return Manifest{
		Version: DefaultVersion,
		Origin:  DefaultOrigin,
		Assets:  DefaultAssets(),
	}
}

// Validate checks the manifest is complete and its assets resolve to distinct requests.
func (m Manifest) Validate() error {
	if m.Version == "" {
		return ErrMissingVersion
	}
	if _, err := m.originURL(); err != nil {
		return err
	}
	_, err := m.Requests()
	return err
}

// Resolve resolves ref against the manifest origin and returns the absolute URL.
func (m Manifest) Resolve(ref string) (string, error) {
	base, err := m.originURL()
	if err != nil {
		return "", err
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, ErrInvalidAsset.Error()), "asset", ref)
	}
	return base.ResolveReference(u).String(), nil
}

// Requests returns one GET request per asset, in asset-list order.
func (m Manifest) Requests() ([]*Request, error) {
	reqs := make([]*Request, 0, len(m.Assets))
	seen := make(map[string]string, len(m.Assets))

	for _, asset := range m.Assets {
		abs, err := m.Resolve(asset)
		if err != nil {
			return nil, err
		}
		req, err := NewRequest("", abs)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, ErrInvalidAsset.Error()), "asset", asset)
		}
		if prev, ok := seen[req.Key()]; ok {
			dupErr := zerr.With(ErrDuplicateAsset, "asset", asset)
			return nil, zerr.With(dupErr, "duplicates", prev)
		}
		seen[req.Key()] = asset
		reqs = append(reqs, req)
	}

	return reqs, nil
}

// Equal reports whether two manifests describe the same cache contents.
func (m Manifest) Equal(other Manifest) bool {
	return m.Version == other.Version &&
		m.Origin == other.Origin &&
		slices.Equal(m.Assets, other.Assets)
}

func (m Manifest) originURL() (*url.URL, error) {
	u, err := url.Parse(m.Origin)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrInvalidOrigin.Error()), "origin", m.Origin)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, zerr.With(ErrInvalidOrigin, "origin", m.Origin)
	}
	return u, nil
}

// Config is the loaded runtime configuration.
type Config struct {
	Manifest Manifest
	// Listen is the address of the HTTP front.
	Listen string
	// Path is the config file the values came from, empty for built-in defaults.
	Path string
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Manifest: DefaultManifest(),
		Listen:   DefaultListenAddr,
	}
}
