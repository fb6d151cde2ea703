package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	"github.com/saintfish/chardet"

	"github.com/matzehuels/pydocs/pkg/cache"
	"github.com/matzehuels/pydocs/pkg/errors"
	"github.com/matzehuels/pydocs/pkg/observability"
)

const (
	// DefaultTimeout bounds a single request when Options.Timeout is unset.
	DefaultTimeout = 30 * time.Second

	pageNamespace = "page"

	charsetUTF8 = "utf-8"
)

// Page is a fetched HTML document.
type Page struct {
	URL        string // Requested URL
	StatusCode int    // HTTP status of the original response
	Body       string // Body decoded as UTF-8
	Charset    string // "utf-8", or the charset detected for an invalid body
	Cached     bool   // Served from the response cache
}

// storedPage is the cache representation of a Page.
type storedPage struct {
	URL        string `json:"url"`
	StatusCode int    `json:"status"`
	Body       string `json:"body"`
	Charset    string `json:"charset,omitempty"`
}

// Options configures a Fetcher. Zero values select defaults.
type Options struct {
	Timeout   time.Duration // page request timeout; bounds only connect and headers for downloads
	UserAgent string        // User-Agent header
	TTL       time.Duration // cache entry lifetime; 0 never expires
	Logger    *log.Logger
}

// Fetcher performs cached GET requests. It is meant for sequential use.
type Fetcher struct {
	http      *resty.Client
	downloads *resty.Client // no overall deadline
	cache     cache.Cache
	ttl       time.Duration
	logger    *log.Logger
}

// NewFetcher creates a Fetcher backed by c. A nil cache disables caching.
func NewFetcher(c cache.Cache, opts Options) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(0)
	downloads := newDownloadClient(opts.Timeout)
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
		downloads.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Fetcher{
		http:      client,
		downloads: downloads,
		cache:     c,
		ttl:       opts.TTL,
		logger:    opts.Logger,
	}
}

// newDownloadClient returns a client whose timeout covers dialing, the TLS
// handshake and the wait for response headers, but not the body.
func newDownloadClient(timeout time.Duration) *resty.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}).DialContext
	transport.TLSHandshakeTimeout = timeout
	transport.ResponseHeaderTimeout = timeout
	return resty.New().
		SetTransport(transport).
		SetRetryCount(0)
}

// Get returns the page at rawURL, from the cache when possible.
//
// Transport failures and responses with status >= 400 are logged and
// returned as errors with code errors.ErrCodeFetch. Only successful
// responses are cached.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Page, error) {
	key := cache.Key(pageNamespace, rawURL)
	if page, ok := f.cached(ctx, key); ok {
		f.logger.Debug("cache hit", "url", rawURL)
		return page, nil
	}

	resp, err := f.do(ctx, f.http.R(), rawURL)
	if err != nil {
		return nil, f.fail(rawURL, err)
	}

	body, charset := f.decode(rawURL, resp.Body())
	page := &Page{
		URL:        rawURL,
		StatusCode: resp.StatusCode(),
		Body:       body,
		Charset:    charset,
	}
	f.store(ctx, key, page)
	return page, nil
}

// Download streams the resource at rawURL into path and returns the number
// of bytes written. The response is not cached. Options.Timeout applies
// until the headers arrive; the body may take longer. A failure while
// copying leaves a partial file behind.
func (f *Fetcher) Download(ctx context.Context, rawURL, path string) (int64, error) {
	resp, err := f.do(ctx, f.downloads.R().SetDoNotParseResponse(true), rawURL)
	if err != nil {
		return 0, f.fail(rawURL, err)
	}
	body := resp.RawBody()
	defer body.Close()

	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()

	n, err := io.Copy(out, body)
	if err != nil {
		return n, f.fail(rawURL, err)
	}
	return n, nil
}

// do sends a GET and reports it to the HTTP hooks. Status codes >= 400
// are turned into errors.
func (f *Fetcher) do(ctx context.Context, req *resty.Request, rawURL string) (*resty.Response, error) {
	host, path := splitURL(rawURL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodGet, host, path)

	start := time.Now()
	resp, err := req.SetContext(ctx).Get(rawURL)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, host, path, err)
		return nil, err
	}
	hooks.OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode(), time.Since(start))

	if resp.StatusCode() >= http.StatusBadRequest {
		if raw := resp.RawBody(); raw != nil {
			raw.Close()
		}
		return nil, fmt.Errorf("unexpected status %s", resp.Status())
	}
	return resp, nil
}

func (f *Fetcher) fail(rawURL string, err error) error {
	f.logger.Error("failed to fetch page", "url", rawURL, "err", err)
	return errors.Wrap(errors.ErrCodeFetch, err, "GET %s", rawURL)
}

func (f *Fetcher) cached(ctx context.Context, key string) (*Page, bool) {
	data, hit, err := f.cache.Get(ctx, key)
	if err != nil {
		f.logger.Warn("cache read failed", "key", key, "err", err)
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, pageNamespace)
		return nil, false
	}

	var sp storedPage
	if err := json.Unmarshal(data, &sp); err != nil {
		f.logger.Warn("dropping corrupt cache entry", "key", key, "err", err)
		if err := f.cache.Delete(ctx, key); err != nil {
			f.logger.Warn("cache delete failed", "key", key, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, pageNamespace)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, pageNamespace)
	return &Page{URL: sp.URL, StatusCode: sp.StatusCode, Body: sp.Body, Charset: sp.Charset, Cached: true}, true
}

func (f *Fetcher) store(ctx context.Context, key string, page *Page) {
	data, err := json.Marshal(storedPage{URL: page.URL, StatusCode: page.StatusCode, Body: page.Body, Charset: page.Charset})
	if err != nil {
		return
	}
	if err := f.cache.Set(ctx, key, data, f.ttl); err != nil {
		f.logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, pageNamespace, len(data))
}

// decode forces UTF-8 and returns the body with the charset it arrived in.
// Invalid sequences are replaced with U+FFFD and the detected charset is
// logged as a warning.
func (f *Fetcher) decode(rawURL string, body []byte) (string, string) {
	if utf8.Valid(body) {
		return string(body), charsetUTF8
	}
	var charset string
	confidence := 0
	if res, err := chardet.NewTextDetector().DetectBest(body); err == nil && res != nil {
		charset, confidence = strings.ToLower(res.Charset), res.Confidence
	}
	f.logger.Warn("page is not valid UTF-8, replacing invalid bytes",
		"url", rawURL, "detected", charset, "confidence", confidence)
	return strings.ToValidUTF8(string(body), "\uFFFD"), charset
}

func splitURL(rawURL string) (host, path string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", rawURL
	}
	return u.Host, u.Path
}
