package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		contentType string
		want        Kind
	}{
		{"text/html", KindHTML},
		{"text/html; charset=UTF-8", KindHTML},
		{"TEXT/HTML", KindHTML},
		{"application/xhtml+xml", KindHTML},
		{"application/json", KindJSON},
		{"application/json; charset=utf-8", KindJSON},
		{"application/problem+json", KindJSON},
		{"text/plain", KindOther},
		{"image/png", KindOther},
		{"", KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.contentType))
		})
	}
}

func TestFetchFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(Options{UserAgent: "test-agent"})
	res, err := c.Fetch(context.Background(), srv.URL+"/old")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, KindJSON, res.Kind())
	assert.Equal(t, `{"ok":true}`, string(res.Body))
	assert.Equal(t, srv.URL+"/new", res.FinalURL)
	assert.False(t, res.UsedBrowser)
}

func TestFetchNotFoundIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	res, err := New(Options{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.Status)
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(Options{}).Fetch(ctx, srv.URL)
	require.Error(t, err)
}

func TestFetchBadURL(t *testing.T) {
	_, err := New(Options{}).Fetch(context.Background(), "https://\x7f")
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	c := New(Options{})
	assert.Equal(t, 30, c.opts.TimeoutSeconds)
	assert.Equal(t, 30*time.Second, c.opts.Timeout())
	assert.NotEmpty(t, c.opts.UserAgent)
}
