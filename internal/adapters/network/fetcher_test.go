package network_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/precache/internal/adapters/network"
	"go.trai.ch/precache/internal/core/domain"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/style.css":
			assert.Equal(t, "yes", r.Header.Get("X-Test"))
			w.Header().Set("Content-Type", "text/css")
			_, _ = io.WriteString(w, "body{}")
		case "/old":
			http.Redirect(w, r, "/style.css", http.StatusMovedPermanently)
		case "/echo":
			body, _ := io.ReadAll(r.Body)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write(body)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	f := network.NewFetcherWithClient(srv.Client())
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		req, err := domain.NewRequest("", srv.URL+"/style.css")
		require.NoError(t, err)
		req.Header.Set("X-Test", "yes")
		req.Header.Set("Connection", "close")

		resp, err := f.Fetch(ctx, req)
		require.NoError(t, err)
		assert.True(t, resp.OK())
		assert.Equal(t, "body{}", string(resp.Body))
		assert.Equal(t, "text/css", resp.Header.Get("Content-Type"))
		assert.Equal(t, srv.URL+"/style.css", resp.URL)
	})

	t.Run("not found is a response", func(t *testing.T) {
		t.Parallel()
		req, err := domain.NewRequest("", srv.URL+"/missing")
		require.NoError(t, err)

		resp, err := f.Fetch(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.Status)
		assert.False(t, resp.OK())
	})

	t.Run("redirect is followed", func(t *testing.T) {
		t.Parallel()
		req, err := domain.NewRequest("", srv.URL+"/old")
		require.NoError(t, err)
		req.Header.Set("X-Test", "yes")

		resp, err := f.Fetch(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, srv.URL+"/style.css", resp.URL)
	})

	t.Run("body is forwarded", func(t *testing.T) {
		t.Parallel()
		req, err := domain.NewRequest(http.MethodPost, srv.URL+"/echo")
		require.NoError(t, err)
		req.Body = []byte("payload")

		resp, err := f.Fetch(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.Status)
		assert.Equal(t, "payload", string(resp.Body))
	})
}

func TestFetcher_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	req, err := domain.NewRequest("", url+"/index.html")
	require.NoError(t, err)

	_, err = network.NewFetcher().Fetch(context.Background(), req)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrFetchFailed.Error())
}

func TestFetcher_CanceledContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, err := domain.NewRequest("", srv.URL+"/")
	require.NoError(t, err)

	_, err = network.NewFetcherWithClient(srv.Client()).Fetch(ctx, req)
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFetcher_BodySizeLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/exact.js":
			_, _ = io.WriteString(w, "0123456789abcdef")
		case "/over.js":
			_, _ = io.WriteString(w, "0123456789abcdefX")
		}
	}))
	t.Cleanup(srv.Close)

	fetcher := network.NewFetcherWithClient(srv.Client())
	fetcher.SetMaxBodySize(16)

	t.Run("at limit", func(t *testing.T) {
		req, err := domain.NewRequest("", srv.URL+"/exact.js")
		require.NoError(t, err)

		resp, err := fetcher.Fetch(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "0123456789abcdef", string(resp.Body))
	})

	t.Run("over limit", func(t *testing.T) {
		req, err := domain.NewRequest("", srv.URL+"/over.js")
		require.NoError(t, err)

		resp, err := fetcher.Fetch(context.Background(), req)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.ErrorContains(t, err, domain.ErrResponseTooLarge.Error())
	})
}
