package fetcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// Browser fetches pages with headless Chrome so that JavaScript-rendered
// content is captured. The result is always classified as HTML.
type Browser struct {
	opts Options
}

// NewBrowser creates a browser fetcher.
func NewBrowser(opts Options) *Browser {
	return &Browser{opts: opts.withDefaults()}
}

// userDataDir returns a persistent directory for Chrome user data so cookies
// survive between fetches.
func userDataDir() string {
	dir, _ := os.UserCacheDir()
	return filepath.Join(dir, "termweb-chrome-profile")
}

// Fetch loads url in headless Chrome and returns the serialized DOM.
func (b *Browser) Fetch(ctx context.Context, targetURL string) (*Result, error) {
	start := time.Now()

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("headless", "new"),
		chromedp.UserAgent(b.opts.UserAgent),
		chromedp.WindowSize(1280, 1024),
		chromedp.UserDataDir(userDataDir()),
	}
	if b.opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(b.opts.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	// Browser fetches get extra time on top of the HTTP timeout.
	ctx, cancel := context.WithTimeout(allocCtx, b.opts.Timeout()+15*time.Second)
	defer cancel()

	ctx, cancel = chromedp.NewContext(ctx)
	defer cancel()

	// The first document response carries the real status code.
	var status atomic.Int64
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		if e, ok := ev.(*network.EventResponseReceived); ok && e.Type == network.ResourceTypeDocument {
			status.CompareAndSwap(0, e.Response.Status)
		}
	})

	var html, finalURL string
	err := chromedp.Run(ctx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers(map[string]interface{}{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		})),
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&finalURL),
	)
	if err != nil {
		return nil, fmt.Errorf("browser fetch %s: %w", targetURL, err)
	}
	log.Printf("fetcher: browser fetch %s took %s", targetURL, time.Since(start))

	code := int(status.Load())
	if code == 0 {
		code = 200
	}
	return &Result{
		Status:      code,
		ContentType: "text/html; charset=utf-8",
		Body:        []byte(html),
		FinalURL:    finalURL,
		UsedBrowser: true,
		FetchTime:   time.Since(start),
	}, nil
}
