package domain

import (
	"net/http"
	"net/url"

	"go.trai.ch/zerr"
)

// Request identifies a resource by method and absolute URL.
// Header and Body are forwarded to the network but take no part in cache matching.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// NewRequest builds a Request for the given method and absolute URL.
// An empty method means GET. The URL fragment is dropped.
func NewRequest(method, rawURL string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrInvalidRequestURL.Error()), "url", rawURL)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, zerr.With(ErrInvalidRequestURL, "url", rawURL)
	}
	u.Fragment = ""
	u.RawFragment = ""

	if method == "" {
		method = http.MethodGet
	}

	return &Request{
		Method: method,
		URL:    u.String(),
		Header: make(http.Header),
	}, nil
}

// Key returns the cache identity of the request.
func (r *Request) Key() string {
	return r.Method + " " + r.URL
}

// Cacheable reports whether the request can be stored in or matched against a cache.
func (r *Request) Cacheable() bool {
	return r.Method == http.MethodGet
}
