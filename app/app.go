// Package app runs the interactive command loop.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/dustin/go-humanize"

	"termweb/bookmarks"
	"termweb/command"
	"termweb/navigator"
	"termweb/render"
	"termweb/search"
	"termweb/source"
)

// RawMode switches the terminal to unbuffered, unechoed input.
// *render.Terminal implements it.
type RawMode interface {
	WithRawMode(fn func() error) error
	RestoreMode() error
}

// Options configures an App.
type Options struct {
	ReservedRows int     // screen rows not used for the document
	Raw          RawMode // nil reads a whole line wherever a key press is awaited
	Source       *source.Viewer
}

// App ties the navigator to a screen and an input stream.
type App struct {
	nav      *navigator.Navigator
	screen   *render.Screen
	in       *bufio.Reader
	reserved int
	raw      RawMode
	source   *source.Viewer
}

// New creates an app reading commands from in and painting to screen.
// The navigator's redraw hook is pointed at the app.
func New(nav *navigator.Navigator, in io.Reader, screen *render.Screen, opts Options) *App {
	if opts.ReservedRows <= 0 {
		opts.ReservedRows = 7
	}
	if opts.Source == nil {
		opts.Source = &source.Viewer{Out: screen.Writer()}
	}
	a := &App{
		nav:      nav,
		screen:   screen,
		in:       bufio.NewReader(in),
		reserved: opts.ReservedRows,
		raw:      opts.Raw,
		source:   opts.Source,
	}
	nav.SetRedraw(a.drawPage)
	return a
}

// Serve runs the command loop in the background and returns when it ends
// or ctx is cancelled. A cancelled loop may still be blocked on input inside
// raw mode, so the terminal mode is restored before returning.
func (a *App) Serve(ctx context.Context, start string) error {
	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx, start)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		log.Printf("app: interrupted")
		if a.raw != nil {
			if err := a.raw.RestoreMode(); err != nil {
				return fmt.Errorf("restoring terminal: %w", err)
			}
		}
		a.screen.Printf("\n")
		return nil
	}
}

// Run greets the user, optionally opens start, then reads commands until
// quit, end of input or cancellation of ctx.
func (a *App) Run(ctx context.Context, start string) error {
	a.screen.Printf("Welcome to termweb!\nType 'h' for help.\n")

	if start != "" {
		a.navigate(ctx, start)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		a.screen.Prompt()

		line, err := a.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				a.screen.Printf("\n")
				return nil
			}
			return fmt.Errorf("reading command: %w", err)
		}

		if quit := a.Execute(ctx, command.Parse(line)); quit {
			return nil
		}
	}
}

// Execute performs one command. It reports whether the loop should stop.
func (a *App) Execute(ctx context.Context, cmd command.Command) (quit bool) {
	switch cmd.Kind {
	case command.Quit:
		return true
	case command.Empty:
	case command.Help:
		a.screen.DrawHelp()
	case command.Go:
		a.navigate(ctx, cmd.Arg)
	case command.Reload:
		if err := a.nav.Reload(ctx); err != nil {
			a.screen.Errorf("Error: %v", err)
		}
	case command.ScrollUp:
		a.nav.Viewport().ScrollUp(a.pageHeight())
		a.drawPage()
	case command.ScrollDown:
		a.nav.Viewport().ScrollDown(a.pageHeight())
		a.drawPage()
	case command.Bookmarks:
		a.bookmarkMenu(ctx)
	case command.History:
		a.historyMenu(ctx)
	case command.AddBookmark:
		a.addBookmark(cmd.Arg)
	case command.Search:
		a.search(cmd.Arg)
	case command.Source:
		a.viewSource(ctx)
	case command.Download:
		a.download(ctx, cmd.Arg)
	case command.Raw:
		a.rawView()
	case command.CopyURL:
		a.copyURL()
	default:
		a.screen.Printf("Unknown command. Press 'h' for help.\n")
	}
	return false
}

func (a *App) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return line, nil
}

// waitKey blocks for a single key press, or a line when no raw mode is
// available.
func (a *App) waitKey() {
	if a.raw == nil {
		a.readLine()
		return
	}
	err := a.raw.WithRawMode(func() error {
		_, err := a.in.ReadByte()
		return err
	})
	if err != nil {
		log.Printf("app: waiting for key: %v", err)
	}
}

func (a *App) pageHeight() int {
	return a.screen.PageHeight(a.reserved)
}

func (a *App) drawPage() {
	h := a.pageHeight()
	view := a.nav.Viewport()
	a.screen.DrawPage(render.Page{
		URL:    a.nav.CurrentURL(),
		Lines:  view.VisibleSlice(h),
		Total:  view.Len(),
		Offset: view.Offset(h),
	})
}

func (a *App) navigate(ctx context.Context, url string) {
	if err := a.nav.Navigate(ctx, url); err != nil {
		a.screen.Errorf("Error: %v", err)
	}
}

func (a *App) addBookmark(title string) {
	if a.nav.CurrentURL() == "" {
		return
	}
	if err := a.nav.AddBookmark(title); err != nil {
		a.screen.Errorf("Error adding bookmark: %v", err)
		return
	}
	a.screen.Printf("Bookmark added!\n")
}

func (a *App) bookmarkMenu(ctx context.Context) {
	store := a.nav.Bookmarks()
	for {
		a.screen.DrawBookmarks(store.List())

		line, err := a.readLine()
		if err != nil {
			return
		}
		choice := command.ParseMenu(line)

		switch {
		case choice.Quit:
			return
		case choice.Delete:
			err := store.Delete(choice.Index)
			var perr *bookmarks.PersistenceError
			switch {
			case err == nil:
				a.screen.Printf("Bookmark deleted!\n")
			case errors.As(err, &perr):
				a.screen.Printf("Bookmark deleted!\n")
				a.screen.Errorf("Warning: %v", perr)
			}
		default:
			b, err := store.Get(choice.Index)
			if err != nil {
				continue
			}
			a.navigate(ctx, b.URL)
			return
		}
	}
}

func (a *App) historyMenu(ctx context.Context) {
	ledger := a.nav.History()
	for {
		a.screen.DrawHistory(ledger.List())

		line, err := a.readLine()
		if err != nil {
			return
		}
		choice := command.ParseMenu(line)

		if choice.Quit {
			return
		}
		if choice.Delete {
			continue
		}
		url, err := ledger.Get(choice.Index)
		if err != nil {
			continue
		}
		a.navigate(ctx, url)
		return
	}
}

func (a *App) search(query string) {
	matches, err := search.Search(a.nav.Viewport().Lines(), query)
	if err != nil {
		a.screen.Errorf("Error: %v", err)
		return
	}
	a.screen.DrawSearch(query, matches)
	a.readLine()
	a.drawPage()
}

func (a *App) viewSource(ctx context.Context) {
	res, err := a.nav.Source(ctx)
	if err != nil {
		if !errors.Is(err, navigator.ErrNoCurrentURL) {
			log.Printf("app: source: %v", err)
		}
		a.screen.Printf("Unable to fetch page source\n")
		return
	}
	if err := a.source.Show(a.nav.CurrentURL(), res.ContentType, res.Body); err != nil {
		a.screen.Errorf("Error: %v", err)
		return
	}
	if a.source.Pager {
		a.drawPage()
	}
}

func (a *App) download(ctx context.Context, filename string) {
	n, err := a.nav.Download(ctx, filename)
	switch {
	case errors.Is(err, navigator.ErrNoCurrentURL):
	case err != nil:
		a.screen.Errorf("Error downloading page: %v", err)
	default:
		a.screen.Printf("Page downloaded to: %s (%s)\n", filename, humanize.Bytes(uint64(n)))
	}
}

func (a *App) rawView() {
	a.screen.DrawRaw(a.nav.Viewport().Lines())
	a.waitKey()
	a.drawPage()
}

func (a *App) copyURL() {
	switch err := a.nav.CopyURL(); {
	case errors.Is(err, navigator.ErrNoCurrentURL):
		a.screen.Printf("No page loaded.\n")
	case err != nil:
		a.screen.Errorf("Error: %v", err)
	default:
		a.screen.Printf("Copied %s\n", a.nav.CurrentURL())
	}
}
