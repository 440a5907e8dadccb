package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// HTTPFile serves a single export at a fixed URL. List reports that file
// using a HEAD request for its ETag and Last-Modified headers.
type HTTPFile struct {
	client   *http.Client
	target   *url.URL
	username string
	password string
	timeout  time.Duration
}

// NewHTTPFile returns a source for the file at rawURL.
func NewHTTPFile(rawURL, username, password string, timeout time.Duration) (*HTTPFile, error) {
	target, err := parseCollectionURL(rawURL)
	if err != nil {
		return nil, err
	}
	return &HTTPFile{
		client:   &http.Client{Timeout: timeout},
		target:   target,
		username: username,
		password: password,
		timeout:  timeout,
	}, nil
}

// List returns one descriptor for the configured file. Servers that reject
// HEAD still yield a descriptor without change tag so the content hash
// decides.
func (h *HTTPFile) List(ctx context.Context) ([]File, error) {
	ctx, cancel := withTimeout(ctx, h.timeout)
	defer cancel()

	file := File{
		Href: h.target.Path,
		URL:  h.target.String(),
		Name: path.Base(h.target.Path),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, file.URL, nil)
	if err != nil {
		return nil, transient("list", "build head request", err)
	}
	h.authorize(req)
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, transient("list", "head", err)
	}
	resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented:
		return []File{file}, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, transient("list", fmt.Sprintf("head returned %s", resp.Status), nil)
	}

	file.ChangeTag = unquoteTag(resp.Header.Get("ETag"))
	if modified, err := http.ParseTime(resp.Header.Get("Last-Modified")); err == nil {
		file.ModifiedAt = modified.UTC()
	}
	if resp.ContentLength > 0 {
		file.Size = resp.ContentLength
	}
	return []File{file}, nil
}

// Fetch downloads the file.
func (h *HTTPFile) Fetch(ctx context.Context, file File) ([]byte, error) {
	return fetchURL(ctx, h.client, h.timeout, file.URL, h.authorize)
}

func (h *HTTPFile) authorize(req *http.Request) {
	if h.username != "" || h.password != "" {
		req.SetBasicAuth(h.username, h.password)
	}
}

func fetchURL(ctx context.Context, client *http.Client, timeout time.Duration, rawURL string, authorize func(*http.Request)) ([]byte, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, transient("fetch", "build request", err)
	}
	if authorize != nil {
		authorize(req)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, transient("fetch", "get", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, transient("fetch", fmt.Sprintf("get returned %s", resp.Status), nil)
	}
	data, err := readBounded(resp.Body)
	if err != nil {
		return nil, transient("fetch", "read body", err)
	}
	return data, nil
}

func parseCollectionURL(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse remote url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("remote url must use http or https: %q", rawURL)
	}
	return parsed, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
