// Package navigator owns the browsing session: it fetches pages, picks a
// renderer by content type and updates the viewport, history and bookmarks.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"termweb/bookmarks"
	"termweb/fetcher"
	"termweb/history"
	"termweb/html"
	"termweb/jsonfmt"
	"termweb/viewport"
)

// ErrNoCurrentURL is returned by operations that need a loaded page.
var ErrNoCurrentURL = errors.New("no page loaded")

// ErrEmptyURL is returned when Navigate is given nothing to open.
var ErrEmptyURL = errors.New("empty url")

// FetchError reports a transport failure. Navigation state is unchanged.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError reports a body that could not be rendered as its declared
// content type. Navigation state is unchanged.
type DecodeError struct {
	URL  string
	Kind fetcher.Kind
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("rendering %s as %s: %v", e.URL, e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Options configures a Navigator.
type Options struct {
	Width      int // wrap width for HTML, html.DefaultWidth if 0
	ScrollStep int // viewport.DefaultStep if 0
}

// Navigator holds the current page and everything derived from it.
type Navigator struct {
	fetcher   fetcher.Fetcher
	width     int
	view      *viewport.Viewport
	history   *history.Ledger
	bookmarks *bookmarks.Store
	current   string
	redraw    func()
	copy      func(string) error
}

// New creates a navigator with an empty document.
func New(f fetcher.Fetcher, store *bookmarks.Store, opts Options) *Navigator {
	if store == nil {
		store = bookmarks.New("")
	}
	return &Navigator{
		fetcher:   f,
		width:     opts.Width,
		view:      viewport.New(opts.ScrollStep),
		history:   history.New(),
		bookmarks: store,
		redraw:    func() {},
		copy:      clipboard.WriteAll,
	}
}

// SetRedraw registers fn to run after every successful navigation.
func (n *Navigator) SetRedraw(fn func()) {
	if fn == nil {
		fn = func() {}
	}
	n.redraw = fn
}

// SetClipboard replaces the clipboard writer used by CopyURL.
func (n *Navigator) SetClipboard(fn func(string) error) {
	n.copy = fn
}

// Viewport returns the document viewport.
func (n *Navigator) Viewport() *viewport.Viewport { return n.view }

// History returns the visited-URL ledger.
func (n *Navigator) History() *history.Ledger { return n.history }

// Bookmarks returns the bookmark store.
func (n *Navigator) Bookmarks() *bookmarks.Store { return n.bookmarks }

// CurrentURL returns the URL of the loaded page, or "" before the first
// successful navigation.
func (n *Navigator) CurrentURL() string { return n.current }

// Normalize trims input and prefixes "https://" unless it already starts
// with "http".
func Normalize(input string) (string, error) {
	u := strings.TrimSpace(input)
	if u == "" {
		return "", ErrEmptyURL
	}
	if !strings.HasPrefix(u, "http") {
		u = "https://" + u
	}
	return u, nil
}

// Navigate loads input and makes it the current page. On any error the
// document, scroll position, current URL and history are left as they were.
func (n *Navigator) Navigate(ctx context.Context, input string) error {
	url, err := Normalize(input)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	log.Printf("navigate[%s]: %s", id, url)

	res, err := n.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Printf("navigate[%s]: fetch failed: %v", id, err)
		return &FetchError{URL: url, Err: err}
	}

	lines, err := n.render(res)
	if err != nil {
		log.Printf("navigate[%s]: render failed: %v", id, err)
		return &DecodeError{URL: url, Kind: res.Kind(), Err: err}
	}

	log.Printf("navigate[%s]: %d %s, %s in %v (browser=%t), %d lines",
		id, res.Status, res.Kind(), humanize.Bytes(uint64(len(res.Body))),
		res.FetchTime, res.UsedBrowser, len(lines))

	n.view.SetDocument(lines)
	n.current = url
	n.history.Record(url)
	n.redraw()
	return nil
}

// render turns a fetch result into display lines by content type.
func (n *Navigator) render(res *fetcher.Result) ([]string, error) {
	switch res.Kind() {
	case fetcher.KindHTML:
		return html.Render(res.Body, html.Options{
			Width:       n.width,
			BaseURL:     res.FinalURL,
			ContentType: res.ContentType,
		})
	case fetcher.KindJSON:
		return jsonfmt.Lines(res.Body)
	default:
		return []string{fmt.Sprintf("Content-Type '%s' not supported for display", res.ContentType)}, nil
	}
}

// Reload navigates to the current URL again. Without a page it does nothing.
func (n *Navigator) Reload(ctx context.Context) error {
	if n.current == "" {
		return nil
	}
	return n.Navigate(ctx, n.current)
}

// AddBookmark saves the current page under title. Without a page it does
// nothing. A *bookmarks.PersistenceError means the bookmark was added but
// not written to disk.
func (n *Navigator) AddBookmark(title string) error {
	if n.current == "" {
		return nil
	}
	return n.bookmarks.Add(strings.TrimSpace(title), n.current)
}

// Source fetches the current page again without rendering it.
func (n *Navigator) Source(ctx context.Context) (*fetcher.Result, error) {
	if n.current == "" {
		return nil, ErrNoCurrentURL
	}
	res, err := n.fetcher.Fetch(ctx, n.current)
	if err != nil {
		return nil, &FetchError{URL: n.current, Err: err}
	}
	return res, nil
}

// Download fetches the current page and writes its raw body to filename.
// It returns the number of bytes written.
func (n *Navigator) Download(ctx context.Context, filename string) (int, error) {
	res, err := n.Source(ctx)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(filename, res.Body, 0644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", filename, err)
	}
	log.Printf("download: %s -> %s (%s)", n.current, filename, humanize.Bytes(uint64(len(res.Body))))
	return len(res.Body), nil
}

// CopyURL puts the current URL on the system clipboard.
func (n *Navigator) CopyURL() error {
	if n.current == "" {
		return ErrNoCurrentURL
	}
	if err := n.copy(n.current); err != nil {
		return fmt.Errorf("copying url: %w", err)
	}
	return nil
}
