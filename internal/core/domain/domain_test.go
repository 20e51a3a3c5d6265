package domain_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/precache/internal/core/domain"
)

func TestDefaultManifest(t *testing.T) {
	m := domain.DefaultManifest()

	assert.Equal(t, "hello-pwa-cache-v1", m.Version)
	assert.Equal(t, []string{"/", "/index.html", "/style.css", "/app.js", "/manifest.json"}, m.Assets)
	require.NoError(t, m.Validate())
}

func TestManifest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		manifest domain.Manifest
		wantErr  string
	}{
		{
			name:     "valid",
			manifest: domain.Manifest{Version: "v1", Origin: "https://example.com", Assets: []string{"/a.css"}},
		},
		{
			name:     "no assets is valid",
			manifest: domain.Manifest{Version: "v1", Origin: "https://example.com"},
		},
		{
			name:     "missing version",
			manifest: domain.Manifest{Origin: "https://example.com"},
			wantErr:  domain.ErrMissingVersion.Error(),
		},
		{
			name:     "relative origin",
			manifest: domain.Manifest{Version: "v1", Origin: "/static"},
			wantErr:  domain.ErrInvalidOrigin.Error(),
		},
		{
			name:     "non http origin",
			manifest: domain.Manifest{Version: "v1", Origin: "ftp://example.com"},
			wantErr:  domain.ErrInvalidOrigin.Error(),
		},
		{
			name: "duplicate assets",
			manifest: domain.Manifest{
				Version: "v1",
				Origin:  "https://example.com",
				Assets:  []string{"/app.js", "https://example.com/app.js"},
			},
			wantErr: domain.ErrDuplicateAsset.Error(),
		},
		{
			name: "fragment does not make an asset distinct",
			manifest: domain.Manifest{
				Version: "v1",
				Origin:  "https://example.com",
				Assets:  []string{"/index.html", "/index.html#top"},
			},
			wantErr: domain.ErrDuplicateAsset.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.manifest.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestManifest_Requests(t *testing.T) {
	m := domain.Manifest{
		Version: "v1",
		Origin:  "http://origin.test/app/",
		Assets:  []string{"/", "style.css", "https://cdn.test/lib.js?v=2"},
	}

	reqs, err := m.Requests()
	require.NoError(t, err)
	require.Len(t, reqs, 3)

	assert.Equal(t, "http://origin.test/", reqs[0].URL)
	assert.Equal(t, "http://origin.test/app/style.css", reqs[1].URL)
	assert.Equal(t, "https://cdn.test/lib.js?v=2", reqs[2].URL)
	for _, req := range reqs {
		assert.Equal(t, http.MethodGet, req.Method)
	}
}

func TestManifest_Equal(t *testing.T) {
	a := domain.DefaultManifest()
	b := domain.DefaultManifest()
	assert.True(t, a.Equal(b))

	b.Assets = append(b.Assets, "/extra.png")
	assert.False(t, a.Equal(b))

	c := domain.DefaultManifest()
	c.Version = "hello-pwa-cache-v2"
	assert.False(t, a.Equal(c))
}

func TestNewRequest(t *testing.T) {
	req, err := domain.NewRequest("", "http://origin.test/index.html#section")
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "http://origin.test/index.html", req.URL)
	assert.Equal(t, "GET http://origin.test/index.html", req.Key())
	assert.True(t, req.Cacheable())

	post, err := domain.NewRequest(http.MethodPost, "http://origin.test/api")
	require.NoError(t, err)
	assert.False(t, post.Cacheable())
	assert.NotEqual(t, req.Key(), post.Key())

	_, err = domain.NewRequest("", "/relative")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidRequestURL.Error())
}

func TestResponse(t *testing.T) {
	resp := &domain.Response{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": []string{"text/css"}},
		Body:   []byte("body{}"),
		URL:    "http://origin.test/style.css",
	}
	assert.True(t, resp.OK())

	assert.False(t, (&domain.Response{Status: http.StatusNotFound}).OK())
	assert.False(t, (&domain.Response{Status: http.StatusMovedPermanently}).OK())
}

func TestWorkerState_String(t *testing.T) {
	assert.Equal(t, "unregistered", domain.StateUnregistered.String())
	assert.Equal(t, "installing", domain.StateInstalling.String())
	assert.Equal(t, "installed", domain.StateInstalled.String())
	assert.Equal(t, "activating", domain.StateActivating.String())
	assert.Equal(t, "activated", domain.StateActivated.String())
	assert.Equal(t, "redundant", domain.StateRedundant.String())
	assert.Equal(t, "unknown", domain.WorkerState(42).String())
}
