// Package fetcher retrieves documents over HTTP, optionally through a
// headless browser for pages that need JavaScript.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

// Result is a fetched document.
type Result struct {
	Status      int
	ContentType string
	Body        []byte
	FinalURL    string // URL after following redirects
	UsedBrowser bool
	FetchTime   time.Duration
}

// Kind returns the content classification of the result.
func (r *Result) Kind() Kind {
	return Classify(r.ContentType)
}

// Fetcher fetches a URL. Redirects are followed transparently.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Result, error)
}

// Options configures fetch behavior.
type Options struct {
	UserAgent      string
	TimeoutSeconds int
	ChromePath     string // Path to Chrome binary (empty = auto-detect)
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		TimeoutSeconds: 30,
	}
}

// Timeout returns the configured timeout duration.
func (o Options) Timeout() time.Duration {
	if o.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(o.TimeoutSeconds) * time.Second
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.UserAgent == "" {
		o.UserAgent = d.UserAgent
	}
	if o.TimeoutSeconds <= 0 {
		o.TimeoutSeconds = d.TimeoutSeconds
	}
	return o
}

// Client fetches with plain HTTP.
type Client struct {
	opts Options
	http *http.Client
}

// New creates an HTTP client with the given options.
func New(opts Options) *Client {
	opts = opts.withDefaults()
	return &Client{
		opts: opts,
		http: &http.Client{Timeout: opts.Timeout()},
	}
}

// Fetch performs a GET request and reads the whole body. Any HTTP status is
// a successful fetch; only transport failures and timeouts are errors.
func (c *Client) Fetch(ctx context.Context, url string) (*Result, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return &Result{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		FinalURL:    resp.Request.URL.String(),
		FetchTime:   time.Since(start),
	}, nil
}

// Kind is the content classification used to pick a renderer.
type Kind int

const (
	KindOther Kind = iota
	KindHTML
	KindJSON
)

func (k Kind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindJSON:
		return "json"
	default:
		return "other"
	}
}

// Classify maps a Content-Type header value to a Kind.
func Classify(contentType string) Kind {
	ct := strings.ToLower(contentType)
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mt
	}
	switch {
	case strings.Contains(ct, "text/html"), strings.Contains(ct, "application/xhtml+xml"):
		return KindHTML
	case strings.Contains(ct, "application/json"), strings.HasSuffix(ct, "+json"):
		return KindJSON
	default:
		return KindOther
	}
}
