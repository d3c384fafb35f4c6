package navigator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termweb/bookmarks"
	"termweb/fetcher"
)

// stubFetcher serves canned results keyed by URL.
type stubFetcher struct {
	pages map[string]*fetcher.Result
	err   error
	calls int
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (*fetcher.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	res, ok := s.pages[url]
	if !ok {
		return nil, fmt.Errorf("no route to %s", url)
	}
	return res, nil
}

func page(contentType, body string) *fetcher.Result {
	return &fetcher.Result{Status: 200, ContentType: contentType, Body: []byte(body)}
}

func newTestNavigator(t *testing.T, f fetcher.Fetcher) *Navigator {
	t.Helper()
	store := bookmarks.New(filepath.Join(t.TempDir(), "bookmarks.json"))
	return New(f, store, Options{})
}

func TestNavigateJSONEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"a":1}`)
	}))
	defer srv.Close()

	nav := newTestNavigator(t, fetcher.New(fetcher.DefaultOptions()))
	redraws := 0
	nav.SetRedraw(func() { redraws++ })

	url := srv.URL + "/api"
	require.NoError(t, nav.Navigate(context.Background(), url))

	assert.Equal(t, []string{"{", `  "a": 1`, "}"}, nav.Viewport().Lines())
	assert.Equal(t, url, nav.CurrentURL())
	assert.Equal(t, url, nav.History().Front())
	assert.Equal(t, 0, nav.Viewport().Offset(10))
	assert.Equal(t, 1, redraws)
}

func TestNavigateHTML(t *testing.T) {
	f := &stubFetcher{pages: map[string]*fetcher.Result{
		"https://example.com": page("text/html; charset=utf-8",
			`<html><head><title>x</title></head><body><h1>Title</h1><p>Hello there</p></body></html>`),
	}}
	nav := newTestNavigator(t, f)

	require.NoError(t, nav.Navigate(context.Background(), "example.com"))

	lines := nav.Viewport().Lines()
	assert.Contains(t, lines, "# Title")
	assert.Contains(t, lines, "Hello there")
	assert.Equal(t, "https://example.com", nav.CurrentURL())
}

func TestNavigateUnsupportedContentType(t *testing.T) {
	f := &stubFetcher{pages: map[string]*fetcher.Result{
		"https://x.test/logo.png": page("image/png", "\x89PNG"),
	}}
	nav := newTestNavigator(t, f)

	require.NoError(t, nav.Navigate(context.Background(), "https://x.test/logo.png"))
	assert.Equal(t, []string{"Content-Type 'image/png' not supported for display"}, nav.Viewport().Lines())
	assert.Equal(t, 1, nav.History().Len())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"example.com", "https://example.com"},
		{"  example.com/path ", "https://example.com/path"},
		{"http://example.com", "http://example.com"},
		{"https://example.com", "https://example.com"},
		// Anything starting with "http" is taken as a full URL.
		{"httpbin.org", "httpbin.org"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Normalize("   ")
	assert.ErrorIs(t, err, ErrEmptyURL)
}

func TestNavigateEmptyInput(t *testing.T) {
	f := &stubFetcher{}
	nav := newTestNavigator(t, f)

	assert.ErrorIs(t, nav.Navigate(context.Background(), " "), ErrEmptyURL)
	assert.Zero(t, f.calls)
}

func TestFetchErrorLeavesStateUnchanged(t *testing.T) {
	f := &stubFetcher{pages: map[string]*fetcher.Result{
		"https://a.test": page("application/json", `[1,2]`),
	}}
	nav := newTestNavigator(t, f)
	require.NoError(t, nav.Navigate(context.Background(), "https://a.test"))
	before := nav.Viewport().Lines()

	redraws := 0
	nav.SetRedraw(func() { redraws++ })
	f.err = errors.New("connection refused")

	err := nav.Navigate(context.Background(), "https://b.test")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "https://b.test", fe.URL)

	assert.Equal(t, before, nav.Viewport().Lines())
	assert.Equal(t, "https://a.test", nav.CurrentURL())
	assert.Equal(t, []string{"https://a.test"}, nav.History().List())
	assert.Zero(t, redraws)
}

func TestDecodeErrorLeavesStateUnchanged(t *testing.T) {
	f := &stubFetcher{pages: map[string]*fetcher.Result{
		"https://a.test":   page("application/json", `{"ok":true}`),
		"https://bad.test": page("application/json", `{"a":`),
	}}
	nav := newTestNavigator(t, f)
	require.NoError(t, nav.Navigate(context.Background(), "https://a.test"))
	before := nav.Viewport().Lines()

	err := nav.Navigate(context.Background(), "https://bad.test")
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, fetcher.KindJSON, de.Kind)

	assert.Equal(t, before, nav.Viewport().Lines())
	assert.Equal(t, "https://a.test", nav.CurrentURL())
	assert.Equal(t, 1, nav.History().Len())
}

func TestNavigateResetsScroll(t *testing.T) {
	long := "[" + strings.Repeat("1,", 99) + "1]"
	f := &stubFetcher{pages: map[string]*fetcher.Result{
		"https://long.test":  page("application/json", long),
		"https://other.test": page("application/json", long),
	}}
	nav := newTestNavigator(t, f)
	require.NoError(t, nav.Navigate(context.Background(), "https://long.test"))

	nav.Viewport().ScrollDown(10)
	nav.Viewport().ScrollDown(10)
	require.Equal(t, 10, nav.Viewport().Offset(10))

	require.NoError(t, nav.Navigate(context.Background(), "https://other.test"))
	assert.Equal(t, 0, nav.Viewport().Offset(10))
}

func TestHistoryMovesRevisitToFront(t *testing.T) {
	f := &stubFetcher{pages: map[string]*fetcher.Result{
		"https://a.test": page("application/json", `1`),
		"https://b.test": page("application/json", `2`),
	}}
	nav := newTestNavigator(t, f)
	ctx := context.Background()

	require.NoError(t, nav.Navigate(ctx, "https://a.test"))
	require.NoError(t, nav.Navigate(ctx, "https://b.test"))
	require.NoError(t, nav.Navigate(ctx, "https://a.test"))

	assert.Equal(t, []string{"https://a.test", "https://b.test"}, nav.History().List())
}

func TestReload(t *testing.T) {
	f := &stubFetcher{pages: map[string]*fetcher.Result{
		"https://a.test": page("application/json", `1`),
	}}
	nav := newTestNavigator(t, f)
	ctx := context.Background()

	require.NoError(t, nav.Reload(ctx))
	assert.Zero(t, f.calls, "reload without a page must not fetch")

	require.NoError(t, nav.Navigate(ctx, "https://a.test"))
	f.pages["https://a.test"] = page("application/json", `2`)
	require.NoError(t, nav.Reload(ctx))

	assert.Equal(t, 2, f.calls)
	assert.Equal(t, []string{"2"}, nav.Viewport().Lines())
	assert.Equal(t, 1, nav.History().Len())
}

func TestAddBookmark(t *testing.T) {
	f := &stubFetcher{pages: map[string]*fetcher.Result{
		"https://a.test": page("application/json", `1`),
	}}
	nav := newTestNavigator(t, f)

	require.NoError(t, nav.AddBookmark("nothing yet"))
	assert.Zero(t, nav.Bookmarks().Len())

	require.NoError(t, nav.Navigate(context.Background(), "https://a.test"))
	require.NoError(t, nav.AddBookmark(" A page "))

	assert.Equal(t, []bookmarks.Bookmark{{Title: "A page", URL: "https://a.test"}}, nav.Bookmarks().List())

	reloaded := bookmarks.Load(nav.Bookmarks().Path())
	assert.Equal(t, nav.Bookmarks().List(), reloaded.List())
}

func TestSourceAndDownload(t *testing.T) {
	body := `<html><body><p>raw</p></body></html>`
	f := &stubFetcher{pages: map[string]*fetcher.Result{
		"https://a.test": page("text/html", body),
	}}
	nav := newTestNavigator(t, f)
	ctx := context.Background()
	out := filepath.Join(t.TempDir(), "page.html")

	_, err := nav.Source(ctx)
	assert.ErrorIs(t, err, ErrNoCurrentURL)
	_, err = nav.Download(ctx, out)
	assert.ErrorIs(t, err, ErrNoCurrentURL)
	assert.NoFileExists(t, out)

	require.NoError(t, nav.Navigate(ctx, "https://a.test"))

	res, err := nav.Source(ctx)
	require.NoError(t, err)
	assert.Equal(t, body, string(res.Body))

	n, err := nav.Download(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, len(body), n)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, body, string(data))
}

func TestDownloadFetchError(t *testing.T) {
	f := &stubFetcher{pages: map[string]*fetcher.Result{
		"https://a.test": page("text/html", "<p>x</p>"),
	}}
	nav := newTestNavigator(t, f)
	require.NoError(t, nav.Navigate(context.Background(), "https://a.test"))

	f.err = errors.New("offline")
	_, err := nav.Download(context.Background(), filepath.Join(t.TempDir(), "x.html"))
	var fe *FetchError
	assert.ErrorAs(t, err, &fe)
}

func TestCopyURL(t *testing.T) {
	f := &stubFetcher{pages: map[string]*fetcher.Result{
		"https://a.test": page("application/json", `1`),
	}}
	nav := newTestNavigator(t, f)

	var copied string
	nav.SetClipboard(func(s string) error {
		copied = s
		return nil
	})

	assert.ErrorIs(t, nav.CopyURL(), ErrNoCurrentURL)

	require.NoError(t, nav.Navigate(context.Background(), "https://a.test"))
	require.NoError(t, nav.CopyURL())
	assert.Equal(t, "https://a.test", copied)

	nav.SetClipboard(func(string) error { return errors.New("no clipboard") })
	assert.Error(t, nav.CopyURL())
}
