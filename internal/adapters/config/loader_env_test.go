package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/precache/internal/core/domain"
)

func TestLoader_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := createFile(t, dir, domain.ConfigFileName, `
version: file-v1
origin: https://file.example.com
assets: [/a.js]
`)

	t.Setenv("PRECACHE_VERSION", "env-v2")
	t.Setenv("PRECACHE_LISTEN", "127.0.0.1:9999")
	t.Setenv("PRECACHE_ASSETS", "/,/b.js")

	cfg, err := newLoader(t).LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "env-v2", cfg.Manifest.Version)
	assert.Equal(t, "https://file.example.com", cfg.Manifest.Origin)
	assert.Equal(t, "127.0.0.1:9999", cfg.Listen)
	assert.Equal(t, []string{"/", "/b.js"}, cfg.Manifest.Assets)
}

func TestLoader_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("PRECACHE_ORIGIN", "https://env.example.com")

	cfg, err := newLoader(t).Load(t.TempDir())
	require.NoError(t, err)

	if cfg.Path == "" {
		assert.Equal(t, domain.DefaultVersion, cfg.Manifest.Version)
	}
	assert.Equal(t, "https://env.example.com", cfg.Manifest.Origin)
}

func TestLoader_EnvironmentIsValidated(t *testing.T) {
	t.Setenv("PRECACHE_ORIGIN", "not a url")

	_, err := newLoader(t).Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidOrigin.Error())
}
