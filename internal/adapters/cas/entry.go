package cas

import (
	"bufio"
	"fmt"
	"hash/crc32"
	"io"
	"maps"
	"net/http"
	"net/textproto"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/precache/internal/core/domain"
	"go.trai.ch/zerr"
)

// Entry files look a bit like an HTTP response:
/*
ENTRY <status> <crc32 of key> <method> <url> <response url>\r\n
Header: Value\r\n
\r\n
<body>
*/
const (
	entryTag = "ENTRY"
	entryExt = ".entry"
)

var headerValueSanitizer = strings.NewReplacer("\r", " ", "\n", " ")

type entry struct {
	method string
	url    string
	crc    uint32
	resp   *domain.Response
}

// request rebuilds the request the entry was stored under.
func (e *entry) request() *domain.Request {
	return &domain.Request{
		Method: e.method,
		URL:    e.url,
		Header: make(http.Header),
	}
}

// matches reports whether the entry was stored under req and not under a colliding key.
func (e *entry) matches(req *domain.Request) bool {
	return e.crc == keyChecksum(req.Key()) && e.method == req.Method && e.url == req.URL
}

func entryFileName(key string) string {
	return fmt.Sprintf("%016x%s", xxhash.Sum64String(key), entryExt)
}

func keyChecksum(key string) uint32 {
	return crc32.ChecksumIEEE([]byte(key))
}

// storedHeader reports whether a response header is written to the entry file.
// Content-Length is recomputed from the body when served.
func storedHeader(name string) bool {
	return !domain.IsHopByHopHeader(name) && http.CanonicalHeaderKey(name) != "Content-Length"
}

func encodeEntry(w io.Writer, req *domain.Request, resp *domain.Response) error {
	bw := bufio.NewWriter(w)
	tpw := textproto.NewWriter(bw)

	respURL := resp.URL
	if respURL == "" {
		respURL = req.URL
	}

	err := tpw.PrintfLine("%s %d %d %s %s %s",
		entryTag, resp.Status, keyChecksum(req.Key()), req.Method, req.URL, respURL)
	if err != nil {
		return err
	}

	for _, name := range slices.Sorted(maps.Keys(resp.Header)) {
		if !storedHeader(name) {
			continue
		}
		for _, v := range resp.Header[name] {
			if err := tpw.PrintfLine("%s: %s", name, headerValueSanitizer.Replace(v)); err != nil {
				return err
			}
		}
	}

	if _, err := bw.WriteString("\r\n"); err != nil {
		return err
	}
	if _, err := bw.Write(resp.Body); err != nil {
		return err
	}
	return bw.Flush()
}

func decodeEntry(r io.Reader) (*entry, error) {
	br := bufio.NewReader(r)
	tpr := textproto.NewReader(br)

	lead, err := tpr.ReadLine()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrEntryCorrupt.Error())
	}

	// Entries written before the response URL was recorded have five fields.
	fields := strings.Fields(lead)
	if (len(fields) != 5 && len(fields) != 6) || fields[0] != entryTag {
		return nil, zerr.With(domain.ErrEntryCorrupt, "lead", lead)
	}
	status, err := strconv.Atoi(fields[1])
	if err != nil || status == 0 {
		return nil, zerr.With(domain.ErrEntryCorrupt, "lead", lead)
	}
	crc, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return nil, zerr.With(domain.ErrEntryCorrupt, "lead", lead)
	}
	method, rawURL := fields[3], fields[4]
	respURL := rawURL
	if len(fields) == 6 {
		respURL = fields[5]
	}

	hdr, err := tpr.ReadMIMEHeader()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrEntryCorrupt.Error())
	}

	body, err := io.ReadAll(br)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrEntryReadFailed.Error())
	}

	return &entry{
		method: method,
		url:    rawURL,
		crc:    uint32(crc),
		resp: &domain.Response{
			Status: status,
			Header: http.Header(hdr),
			Body:   body,
			URL:    respURL,
		},
	}, nil
}

// readEntry opens and decodes the entry file at path.
// A missing file is reported with an error satisfying errors.Is(err, fs.ErrNotExist).
func readEntry(path string) (*entry, error) {
	//nolint:gosec // Path is constructed from the storage root and a hashed filename
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	e, err := decodeEntry(f)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return e, nil
}
