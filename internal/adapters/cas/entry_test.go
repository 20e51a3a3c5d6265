package cas

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/precache/internal/core/domain"
)

func mustRequest(t *testing.T, rawURL string) *domain.Request {
	t.Helper()
	req, err := domain.NewRequest("", rawURL)
	require.NoError(t, err)
	return req
}

func TestEncodeEntry_Golden(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		resp       *domain.Response
		goldenName string
	}{
		{
			name: "headers and body",
			url:  "http://origin.test/index.html",
			resp: &domain.Response{
				Status: http.StatusOK,
				Header: http.Header{
					"Etag":           []string{`"abc"`},
					"Content-Type":   []string{"text/html; charset=utf-8"},
					"Connection":     []string{"keep-alive"},
					"Content-Length": []string{"11"},
				},
				Body: []byte("<h1>hi</h1>"),
				URL:  "http://origin.test/home/index.html",
			},
			goldenName: "entry_basic",
		},
		{
			name:       "no headers",
			url:        "http://origin.test/empty",
			resp:       &domain.Response{Status: http.StatusNoContent},
			goldenName: "entry_no_headers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, encodeEntry(&buf, mustRequest(t, tt.url), tt.resp))

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestEntry_RoundTrip(t *testing.T) {
	req := mustRequest(t, "http://origin.test/app.js")
	resp := &domain.Response{
		Status: http.StatusOK,
		Header: http.Header{
			"Content-Type": []string{"text/javascript"},
			"Set-Cookie":   []string{"a=1", "b=2"},
			"X-Broken":     []string{"line1\r\nline2"},
		},
		Body: []byte("console.log('\\r\\n');\r\n\r\nmore"),
		URL:  "http://cdn.origin.test/app.js",
	}

	var buf bytes.Buffer
	require.NoError(t, encodeEntry(&buf, req, resp))

	e, err := decodeEntry(&buf)
	require.NoError(t, err)

	assert.True(t, e.matches(req))
	assert.Equal(t, http.StatusOK, e.resp.Status)
	assert.Equal(t, resp.Body, e.resp.Body)
	assert.Equal(t, "text/javascript", e.resp.Header.Get("Content-Type"))
	assert.Equal(t, []string{"a=1", "b=2"}, e.resp.Header.Values("Set-Cookie"))
	assert.Equal(t, "line1  line2", e.resp.Header.Get("X-Broken"))
	assert.Equal(t, "http://cdn.origin.test/app.js", e.resp.URL)
	assert.Equal(t, req.Key(), e.request().Key())
}

func TestDecodeEntry_WithoutResponseURL(t *testing.T) {
	e, err := decodeEntry(strings.NewReader("ENTRY 200 1 GET http://origin.test/a\r\n\r\nbody"))
	require.NoError(t, err)

	assert.Equal(t, "http://origin.test/a", e.url)
	assert.Equal(t, "http://origin.test/a", e.resp.URL)
	assert.Equal(t, "body", string(e.resp.Body))
}

func TestEntry_Matches(t *testing.T) {
	req := mustRequest(t, "http://origin.test/a")
	other := mustRequest(t, "http://origin.test/b")

	e := &entry{method: req.Method, url: req.URL, crc: keyChecksum(req.Key())}
	assert.True(t, e.matches(req))
	assert.False(t, e.matches(other))

	// Same URL and method but a checksum from another key is a collision.
	e.crc = keyChecksum(other.Key())
	assert.False(t, e.matches(req))
}

func TestDecodeEntry_Corrupt(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "wrong tag", input: "CACHE 200 1 GET http://origin.test/\r\n\r\n"},
		{name: "missing fields", input: "ENTRY 200 1\r\n\r\n"},
		{name: "bad status", input: "ENTRY ok 1 GET http://origin.test/\r\n\r\n"},
		{name: "zero status", input: "ENTRY 0 1 GET http://origin.test/\r\n\r\n"},
		{name: "bad checksum", input: "ENTRY 200 x GET http://origin.test/\r\n\r\n"},
		{name: "extra fields", input: "ENTRY 200 1 GET http://origin.test/ http://origin.test/ x\r\n\r\n"},
		{name: "truncated header", input: "ENTRY 200 1 GET http://origin.test/\r\nContent-Type: text/html\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeEntry(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorContains(t, err, domain.ErrEntryCorrupt.Error())
		})
	}
}

func TestEntryFileName(t *testing.T) {
	a := entryFileName("GET http://origin.test/a")
	b := entryFileName("GET http://origin.test/b")

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 16+len(entryExt))
	assert.True(t, strings.HasSuffix(a, entryExt))
	assert.Equal(t, a, entryFileName("GET http://origin.test/a"))
}
