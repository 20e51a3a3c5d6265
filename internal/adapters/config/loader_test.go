package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/precache/internal/adapters/config"
	"go.trai.ch/precache/internal/core/domain"
	"go.trai.ch/precache/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func createFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.PrivateFilePerm))
	return path
}

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	return config.NewLoader(mockLogger)
}

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := createFile(t, dir, domain.ConfigFileName, `
version: shop-v7
origin: https://shop.example.com/app/
listen: 0.0.0.0:9000
assets:
  - ./
  - style.css
  - https://cdn.example.com/lib.js
`)

	cfg, err := newLoader(t).LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "0.0.0.0:9000", cfg.Listen)
	assert.Equal(t, domain.Manifest{
		Version: "shop-v7",
		Origin:  "https://shop.example.com/app/",
		Assets:  []string{"./", "style.css", "https://cdn.example.com/lib.js"},
	}, cfg.Manifest)
}

func TestLoader_LoadFile_Defaults(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, cfg *domain.Config)
	}{
		{
			name:    "empty file",
			content: "",
			check: func(t *testing.T, cfg *domain.Config) {
				t.Helper()
				assert.True(t, cfg.Manifest.Equal(domain.DefaultManifest()))
				assert.Equal(t, domain.DefaultListenAddr, cfg.Listen)
			},
		},
		{
			name:    "only version",
			content: "version: hello-pwa-cache-v2\n",
			check: func(t *testing.T, cfg *domain.Config) {
				t.Helper()
				assert.Equal(t, "hello-pwa-cache-v2", cfg.Manifest.Version)
				assert.Equal(t, domain.DefaultAssets(), cfg.Manifest.Assets)
				assert.Equal(t, domain.DefaultOrigin, cfg.Manifest.Origin)
			},
		},
		{
			name:    "explicit empty asset list",
			content: "assets: []\n",
			check: func(t *testing.T, cfg *domain.Config) {
				t.Helper()
				assert.Empty(t, cfg.Manifest.Assets)
				assert.NotNil(t, cfg.Manifest.Assets)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createFile(t, t.TempDir(), domain.ConfigFileName, tt.content)
			cfg, err := newLoader(t).LoadFile(path)
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoader_LoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown key",
			content: "version: v1\ncache: v1\n",
			wantErr: domain.ErrConfigParseFailed.Error(),
		},
		{
			name:    "malformed yaml",
			content: "version: [v1\n",
			wantErr: domain.ErrConfigParseFailed.Error(),
		},
		{
			name:    "assets not a list",
			content: "assets: /index.html\n",
			wantErr: domain.ErrConfigParseFailed.Error(),
		},
		{
			name:    "relative origin",
			content: "origin: /static\n",
			wantErr: domain.ErrInvalidOrigin.Error(),
		},
		{
			name:    "duplicate assets",
			content: "assets: [/index.html, /index.html]\n",
			wantErr: domain.ErrDuplicateAsset.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createFile(t, t.TempDir(), domain.ConfigFileName, tt.content)
			_, err := newLoader(t).LoadFile(path)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoader_LoadFile_Missing(t *testing.T) {
	_, err := newLoader(t).LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_LoadFile_WarnsOnEmptyAssets(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any(), "path", gomock.Any()).Times(1)

	path := createFile(t, t.TempDir(), domain.ConfigFileName, "assets: []\n")
	_, err := config.NewLoader(mockLogger).LoadFile(path)
	require.NoError(t, err)
}
