// termweb is a line-oriented terminal web browser.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"termweb/app"
	"termweb/bookmarks"
	"termweb/config"
	"termweb/fetcher"
	"termweb/navigator"
	"termweb/render"
	"termweb/source"
)

func main() {
	url := ""
	configPath := ""
	initConfig := false

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-c", "--config":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "error: -c needs a file")
				os.Exit(1)
			}
			i++
			configPath = args[i]
		case "--init-config":
			initConfig = true
		case "-h", "--help":
			printUsage()
			return
		default:
			if url == "" {
				url = arg
			}
		}
	}

	// Generate default config and exit
	if initConfig {
		fmt.Print(config.DefaultTOML())
		return
	}

	if err := run(configPath, url); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`termweb - Terminal Web Browser

Usage: termweb [options] [url]

Options:
  -c, --config FILE  Use FILE instead of ~/.config/termweb/config.toml
  --init-config      Output default config
  -h, --help         Show this help

Examples:
  termweb                         Start at the prompt
  termweb example.com             Open URL
  termweb --init-config > ~/.config/termweb/config.toml

Type 'h' at the prompt for the list of commands.`)
}

func run(configPath, url string) error {
	// Load configuration (defaults + user overrides)
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	closeLog, err := setupLogging(cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := fetcher.Options{
		UserAgent:      cfg.Fetcher.UserAgent,
		TimeoutSeconds: cfg.Fetcher.TimeoutSeconds,
		ChromePath:     cfg.Fetcher.ChromePath,
	}
	var f fetcher.Fetcher = fetcher.New(opts)
	if cfg.Fetcher.JavaScript {
		f = fetcher.NewBrowser(opts)
	}

	store := bookmarks.Load(cfg.Bookmarks.Path)
	nav := navigator.New(f, store, navigator.Options{
		Width:      cfg.Rendering.Width,
		ScrollStep: cfg.Display.ScrollStep,
	})

	tty := render.IsTerminal(os.Stdin) && render.IsTerminal(os.Stdout)
	appOpts := app.Options{
		ReservedRows: cfg.Display.ReservedRows,
		Source:       &source.Viewer{Out: os.Stdout, Pager: tty, Color: tty},
	}
	if tty {
		term, err := render.NewTerminal(os.Stdin)
		if err != nil {
			return fmt.Errorf("initializing terminal: %w", err)
		}
		appOpts.Raw = term
	}

	screen := render.NewScreen(os.Stdout)
	screen.SetClear(tty)
	a := app.New(nav, os.Stdin, screen, appOpts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.Serve(ctx, url)
}

// setupLogging sends the standard logger to path, or discards it when
// path is empty so log lines never land on the painted screen.
func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return func() { f.Close() }, nil
}
