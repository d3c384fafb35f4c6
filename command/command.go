// Package command parses the lines typed at the browser prompt.
package command

import (
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// Kind identifies a prompt command.
type Kind int

const (
	Empty Kind = iota
	Unknown
	Go
	Reload
	ScrollUp
	ScrollDown
	Bookmarks
	History
	AddBookmark
	Search
	Source
	Download
	Raw
	CopyURL
	Help
	Quit
)

var kindNames = map[Kind]string{
	Empty:       "empty",
	Unknown:     "unknown",
	Go:          "go",
	Reload:      "reload",
	ScrollUp:    "scroll-up",
	ScrollDown:  "scroll-down",
	Bookmarks:   "bookmarks",
	History:     "history",
	AddBookmark: "add-bookmark",
	Search:      "search",
	Source:      "source",
	Download:    "download",
	Raw:         "raw",
	CopyURL:     "copy-url",
	Help:        "help",
	Quit:        "quit",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Command is a parsed prompt line.
type Command struct {
	Kind Kind
	Arg  string
}

// bare commands take no argument and must match the whole line.
var bare = map[string]Kind{
	"r":       Reload,
	"w":       ScrollUp,
	"s":       ScrollDown,
	"b":       Bookmarks,
	"history": History,
	"source":  Source,
	"raw":     Raw,
	"y":       CopyURL,
	"h":       Help,
	"help":    Help,
	"q":       Quit,
	"quit":    Quit,
}

// withArg commands need a non-empty argument after the name.
var withArg = map[string]Kind{
	"g":        Go,
	"a":        AddBookmark,
	"search":   Search,
	"download": Download,
}

// Parse turns a prompt line into a Command. Argument text is kept as typed
// apart from surrounding whitespace, except for download file names which
// may be quoted.
func Parse(line string) Command {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Kind: Empty}
	}
	if k, ok := bare[line]; ok {
		return Command{Kind: k}
	}

	name, rest, found := strings.Cut(line, " ")
	if !found {
		return Command{Kind: Unknown, Arg: line}
	}
	k, ok := withArg[name]
	if !ok {
		return Command{Kind: Unknown, Arg: line}
	}

	arg := strings.TrimSpace(rest)
	if k == Download {
		arg = fileName(arg)
	}
	if arg == "" {
		return Command{Kind: Unknown, Arg: line}
	}
	return Command{Kind: k, Arg: arg}
}

// fileName unquotes a shell-style file name. Unbalanced quotes fall back
// to the raw text.
func fileName(s string) string {
	words, err := shlex.Split(s)
	if err != nil || len(words) == 0 {
		return s
	}
	return strings.Join(words, " ")
}

// MenuChoice is a parsed line from the bookmark or history menu.
type MenuChoice struct {
	Quit   bool
	Delete bool
	Index  int // 1-based; 0 when the line held no usable number
}

// ParseMenu reads a menu line: "q", "<n>" or "d <n>".
func ParseMenu(line string) MenuChoice {
	line = strings.TrimSpace(line)
	if line == "q" {
		return MenuChoice{Quit: true}
	}
	if strings.HasPrefix(line, "d") {
		fields := strings.Fields(line)
		c := MenuChoice{Delete: true}
		if len(fields) > 1 {
			c.Index = atoi(fields[1])
		}
		return c
	}
	return MenuChoice{Index: atoi(line)}
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
