package domain

import "net/http"

// hopByHopHeaders apply to a single connection and are never stored or forwarded.
var hopByHopHeaders = map[string]struct{}{
	"Connection":          {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Proxy-Connection":    {},
	"Te":                  {},
	"Trailer":             {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
}

// IsHopByHopHeader reports whether the canonical header name is connection-scoped.
func IsHopByHopHeader(name string) bool {
	_, ok := hopByHopHeaders[http.CanonicalHeaderKey(name)]
	return ok
}

// Response is a stored or freshly fetched HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
	// URL is the final URL the response was served from, after redirects.
	URL string
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status <= 299
}
