package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// maxBodySize caps a single configuration document.
const maxBodySize = 32 << 20

// Request names a document relative to the configuration source.
type Request struct {
	Path string
	// Query is appended verbatim, e.g. the cache busting version suffix.
	Query string
	// NoStore asks every cache on the way to revalidate.
	NoStore bool
}

// Response is what a transport returns for any status code. LastModified
// is the raw header value and is only ever compared byte for byte.
type Response struct {
	StatusCode   int
	Body         []byte
	LastModified string
	URL          string
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport retrieves configuration documents.
type Transport interface {
	Fetch(ctx context.Context, req Request) (*Response, error)
}

// TransportError is a network failure or a non-success status.
type TransportError struct {
	Resource string
	Status   int
	Err      error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v", e.Resource, e.Err)
	}
	return fmt.Sprintf("fetching %s: unexpected status %d", e.Resource, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPTransport fetches documents below a base URL.
type HTTPTransport struct {
	base   *url.URL
	client *http.Client
}

func NewHTTPTransport(base string, timeout time.Duration) (*HTTPTransport, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing source url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported source url scheme %q", u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &HTTPTransport{base: u, client: &http.Client{Timeout: timeout}}, nil
}

func (t *HTTPTransport) Fetch(ctx context.Context, r Request) (*Response, error) {
	u := t.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(r.Path, "/"), RawQuery: r.Query})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "adminhub/1.0")
	req.Header.Set("Accept-Encoding", "zstd, gzip")
	if r.NoStore {
		req.Header.Set("Cache-Control", "no-store")
		req.Header.Set("Pragma", "no-cache")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", u, err)
	}

	return &Response{
		StatusCode:   resp.StatusCode,
		Body:         body,
		LastModified: resp.Header.Get("Last-Modified"),
		URL:          resp.Request.URL.String(),
	}, nil
}

// decodeBody undoes the content encodings we advertise. Setting
// Accept-Encoding ourselves turns off net/http's transparent gzip.
func decodeBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "zstd":
		dec, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(io.LimitReader(r, maxBodySize))
}

// DirTransport serves documents from a local directory. The file's
// modification time stands in for the Last-Modified header.
type DirTransport struct {
	root string
}

func NewDirTransport(root string) (*DirTransport, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("opening source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", abs)
	}
	return &DirTransport{root: abs}, nil
}

func (t *DirTransport) Root() string {
	return t.root
}

func (t *DirTransport) Fetch(ctx context.Context, r Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := filepath.Join(t.root, filepath.FromSlash(path.Clean("/"+r.Path)))
	resp := &Response{URL: (&url.URL{Scheme: "file", Path: filepath.ToSlash(name)}).String()}

	info, err := os.Stat(name)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		resp.StatusCode = http.StatusNotFound
		return resp, nil
	}
	if err != nil {
		return nil, err
	}

	body, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	resp.StatusCode = http.StatusOK
	resp.Body = body
	resp.LastModified = info.ModTime().UTC().Format(http.TimeFormat)
	return resp, nil
}
