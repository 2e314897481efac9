package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hyperifyio/textcheck/internal/cache"
)

// DefaultUserAgent is a desktop browser string; some sites serve bots a
// different page than people see.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36"

// DefaultHeaders returns the browser-like request headers sent when a
// Client has no Headers of its own. Accept-Encoding is left to net/http so
// gzip bodies are decoded transparently.
func DefaultHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7")
	h.Set("Connection", "keep-alive")
	return h
}

// ErrInvalidURL is returned for links that cannot be requested at all.
var ErrInvalidURL = errors.New("invalid URL")

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	if e.Code >= 500 {
		return fmt.Sprintf("server error: %d", e.Code)
	}
	return fmt.Sprintf("unexpected status: %d", e.Code)
}

// Client wraps http.Client and provides timeouts and limited retry on transient errors.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// Headers replaces DefaultHeaders when non-nil. UserAgent still wins for User-Agent.
	Headers http.Header
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each request.
	PerRequestTimeout time.Duration
	// Cache enables conditional requests and 304 reuse when set.
	Cache *cache.PageCache
	// BypassCache fetches fresh without conditional headers but still saves
	// the latest response.
	BypassCache bool

	// RedirectMaxHops caps redirect following. Zero means 5.
	RedirectMaxHops int
	// MaxConcurrent limits in-flight requests per client. Zero means unlimited.
	MaxConcurrent int

	limiter     chan struct{}
	limiterOnce sync.Once
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// clone so the caller's client keeps its own redirect policy
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{Timeout: c.PerRequestTimeout, CheckRedirect: c.checkRedirectFunc()}
}

// ValidateURL parses raw and accepts absolute http(s) URLs with a host and
// file URLs with a path.
func ValidateURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidURL, raw)
		}
	case "file":
		if u.Path == "" {
			return nil, fmt.Errorf("%w: missing path in %q", ErrInvalidURL, raw)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	return u, nil
}

// Get retrieves rawURL and returns the body and its content type. http(s)
// requests get bounded retry on transient errors; file URLs are read from disk.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, string, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		return nil, "", err
	}
	if strings.EqualFold(u.Scheme, "file") {
		return readFile(u)
	}
	rawURL = u.String()

	var meta cache.Entry
	var haveMeta bool
	if c.Cache != nil && !c.BypassCache {
		if m, err := c.Cache.Meta(ctx, rawURL); err == nil {
			meta, haveMeta = m, true
		}
	}
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		res, err := c.tryOnce(ctx, rawURL, meta)
		if err == nil {
			if res.status == http.StatusNotModified {
				if haveMeta {
					if body, err := c.Cache.Body(ctx, rawURL); err == nil {
						return body, meta.ContentType, nil
					}
				}
				return nil, "", &StatusError{Code: res.status}
			}
			if c.Cache != nil {
				_ = c.Cache.Save(ctx, cache.Entry{URL: rawURL, ContentType: res.contentType, ETag: res.etag, LastModified: res.lastModified}, res.body)
			}
			return res.body, res.contentType, nil
		}
		if !isTransient(err) || i == attempts-1 {
			return nil, "", err
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return nil, "", err
		case <-time.After(time.Duration(i+1) * 200 * time.Millisecond):
		}
	}
	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return nil, "", lastErr
}

type response struct {
	body         []byte
	contentType  string
	etag         string
	lastModified string
	status       int
}

func (c *Client) tryOnce(ctx context.Context, rawURL string, meta cache.Entry) (response, error) {
	c.acquire()
	defer c.release()

	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.PerRequestTimeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return response{}, fmt.Errorf("new request: %w", err)
	}
	headers := c.Headers
	if headers == nil {
		headers = DefaultHeaders()
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	ua := c.UserAgent
	if ua == "" && req.Header.Get("User-Agent") == "" {
		ua = DefaultUserAgent
	}
	if ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return response{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return response{status: resp.StatusCode}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return response{status: resp.StatusCode}, &StatusError{Code: resp.StatusCode}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("read body: %w", err)
	}
	ct := resp.Header.Get("Content-Type")
	if strings.TrimSpace(ct) == "" {
		ct = http.DetectContentType(b)
	}
	if !isAllowedContentType(ct) {
		return response{}, fmt.Errorf("unsupported content type: %s", ct)
	}
	return response{
		body:         b,
		contentType:  ct,
		etag:         resp.Header.Get("ETag"),
		lastModified: resp.Header.Get("Last-Modified"),
		status:       resp.StatusCode,
	}, nil
}

func readFile(u *url.URL) ([]byte, string, error) {
	path := filepath.FromSlash(u.Path)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if ct == "" {
		ct = http.DetectContentType(b)
	}
	if !isAllowedContentType(ct) {
		return nil, "", fmt.Errorf("unsupported content type: %s", ct)
	}
	return b, ct, nil
}

func isTransient(err error) bool {
	if IsTimeout(err) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Code >= 500 && se.Code <= 599
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		if req.URL == nil || !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func isAllowedContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.HasPrefix(ct, "text/html") ||
		strings.HasPrefix(ct, "application/xhtml+xml") ||
		strings.HasPrefix(ct, "text/plain")
}

func (c *Client) acquire() {
	if c.MaxConcurrent <= 0 {
		return
	}
	c.limiterOnce.Do(func() {
		c.limiter = make(chan struct{}, c.MaxConcurrent)
	})
	c.limiter <- struct{}{}
}

func (c *Client) release() {
	if c.MaxConcurrent <= 0 || c.limiter == nil {
		return
	}
	select {
	case <-c.limiter:
	default:
	}
}
