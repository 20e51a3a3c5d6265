// Package network implements the Network port over net/http.
package network

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"go.trai.ch/precache/internal/core/domain"
	"go.trai.ch/precache/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	httpClientTimeout = 30 * time.Second
	maxBodySize       = 64 << 20
)

var _ ports.Network = (*Fetcher)(nil)

// Fetcher performs live requests against the origin.
type Fetcher struct {
	httpClient  *http.Client
	maxBodySize int64
}

// NewFetcher creates a Fetcher with the default client timeout.
func NewFetcher() *Fetcher {
	return NewFetcherWithClient(&http.Client{
		Timeout: httpClientTimeout,
	})
}

// NewFetcherWithClient creates a Fetcher using client.
func NewFetcherWithClient(client *http.Client) *Fetcher {
	return &Fetcher{httpClient: client, maxBodySize: maxBodySize}
}

// Fetch performs req. Non-2xx responses are returned, not treated as errors.
// A body larger than the size limit fails the fetch.
func (f *Fetcher) Fetch(ctx context.Context, req *domain.Request) (*domain.Response, error) {
	var body io.Reader = http.NoBody
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFetchFailed.Error()), "url", req.URL)
	}
	for name, values := range req.Header {
		if domain.IsHopByHopHeader(name) {
			continue
		}
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFetchFailed.Error()), "url", req.URL)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFetchFailed.Error()), "url", req.URL)
	}
	if int64(len(data)) > f.maxBodySize {
		tooLarge := zerr.With(domain.ErrResponseTooLarge, "url", req.URL)
		return nil, zerr.With(tooLarge, "limit", f.maxBodySize)
	}

	return &domain.Response{
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   data,
		URL:    resp.Request.URL.String(),
	}, nil
}
