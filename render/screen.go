package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"termweb/bookmarks"
	"termweb/search"
	"termweb/viewport"
)

// Fallback dimensions when the output is not a terminal.
const (
	FallbackWidth  = 80
	FallbackHeight = 24
)

// Styles holds the lipgloss styles for each kind of output.
type Styles struct {
	Header    lipgloss.Style
	URL       lipgloss.Style
	Gutter    lipgloss.Style
	Heading   lipgloss.Style
	Link      lipgloss.Style
	Plain     lipgloss.Style
	Status    lipgloss.Style
	Hint      lipgloss.Style
	Match     lipgloss.Style
	Number    lipgloss.Style
	Title     lipgloss.Style
	Error     lipgloss.Style
	Bookmarks lipgloss.Style
	History   lipgloss.Style
	Search    lipgloss.Style
}

// DefaultStyles builds the standard palette on r.
func DefaultStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header:    r.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15")),
		URL:       r.NewStyle().Foreground(lipgloss.Color("2")),
		Gutter:    r.NewStyle().Foreground(lipgloss.Color("8")),
		Heading:   r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		Link:      r.NewStyle().Foreground(lipgloss.Color("12")),
		Plain:     r.NewStyle().Foreground(lipgloss.Color("15")),
		Status:    r.NewStyle().Background(lipgloss.Color("8")).Foreground(lipgloss.Color("15")),
		Hint:      r.NewStyle().Foreground(lipgloss.Color("8")),
		Match:     r.NewStyle().Background(lipgloss.Color("3")).Foreground(lipgloss.Color("0")),
		Number:    r.NewStyle().Foreground(lipgloss.Color("3")),
		Title:     r.NewStyle().Foreground(lipgloss.Color("15")),
		Error:     r.NewStyle().Foreground(lipgloss.Color("1")),
		Bookmarks: r.NewStyle().Background(lipgloss.Color("5")).Foreground(lipgloss.Color("15")),
		History:   r.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15")),
		Search:    r.NewStyle().Background(lipgloss.Color("3")).Foreground(lipgloss.Color("0")),
	}
}

// Screen paints onto a writer. It never reads input.
type Screen struct {
	out    io.Writer
	styles Styles
	size   func() (int, int, error)
	clear  bool
}

// NewScreen creates a screen writing to out. Colors are enabled only when
// out is a color-capable terminal.
func NewScreen(out io.Writer) *Screen {
	return &Screen{
		out:    out,
		styles: DefaultStyles(lipgloss.NewRenderer(out)),
		size:   TerminalSize,
		clear:  true,
	}
}

// SetSizeFunc overrides terminal size detection.
func (s *Screen) SetSizeFunc(fn func() (int, int, error)) {
	s.size = fn
}

// SetClear controls whether full redraws clear the screen first.
func (s *Screen) SetClear(clear bool) {
	s.clear = clear
}

// Writer returns the underlying writer.
func (s *Screen) Writer() io.Writer {
	return s.out
}

// Size returns the terminal size, or the fallback size when unknown.
func (s *Screen) Size() (width, height int) {
	if s.size != nil {
		if w, h, err := s.size(); err == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	return FallbackWidth, FallbackHeight
}

// PageHeight is the number of document rows that fit below the header
// and above the status area.
func (s *Screen) PageHeight(reserved int) int {
	_, h := s.Size()
	return max(h-reserved, 1)
}

func (s *Screen) clearScreen() {
	if s.clear {
		io.WriteString(s.out, ClearScreen+CursorHome)
	}
}

// Printf writes formatted text.
func (s *Screen) Printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// Errorf writes an error message line.
func (s *Screen) Errorf(format string, args ...any) {
	fmt.Fprintln(s.out, s.styles.Error.Render(fmt.Sprintf(format, args...)))
}

// Page is everything needed to draw the main view.
type Page struct {
	URL    string
	Lines  []viewport.Line
	Total  int
	Offset int
}

// DrawPage clears the screen and draws the header, the visible lines and
// the status bar.
func (s *Screen) DrawPage(p Page) {
	width, _ := s.Size()
	s.clearScreen()

	fmt.Fprintln(s.out, s.bar(s.styles.Header, " termweb ", width))

	url := p.URL
	if url == "" {
		url = "No URL"
	}
	fmt.Fprintln(s.out, s.styles.URL.Render("└─ URL: "+TruncateToWidth(url, width-8)))
	fmt.Fprintln(s.out)

	for _, l := range p.Lines {
		s.drawLine(l, width)
	}

	status := fmt.Sprintf(" Lines: %d | Position: %d ", p.Total, p.Offset+1)
	fmt.Fprintln(s.out, s.bar(s.styles.Status, status, width))
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, s.styles.Hint.Render(TruncateToWidth(pageHint, width)))
}

const pageHint = "[Press 'h' for help] [w/s to scroll] [q to quit]"

func (s *Screen) drawLine(l viewport.Line, width int) {
	gutter := fmt.Sprintf("%4d │ ", l.Number)
	text := TruncateToWidth(l.Text, width-StringWidth(gutter))

	var style lipgloss.Style
	switch l.Class {
	case viewport.ClassHeading:
		style = s.styles.Heading
	case viewport.ClassLink:
		style = s.styles.Link
	default:
		style = s.styles.Plain
	}
	fmt.Fprintln(s.out, style.Render(gutter+text))
}

// bar renders text padded to the full terminal width.
func (s *Screen) bar(style lipgloss.Style, text string, width int) string {
	return style.Render(PadRight(TruncateToWidth(text, width), width))
}

// DrawRaw prints the whole document without line numbers or windowing.
func (s *Screen) DrawRaw(lines []string) {
	s.clearScreen()
	fmt.Fprintln(s.out, strings.Join(lines, "\n"))
	fmt.Fprintln(s.out)
	fmt.Fprint(s.out, "Press any key to return to normal mode...")
}

// DrawSearch shows every matching line with the matches highlighted.
func (s *Screen) DrawSearch(query string, matches []search.Match) {
	s.clearScreen()
	fmt.Fprintln(s.out, s.styles.Search.Render(fmt.Sprintf(" Search Results: %q ", query)))
	fmt.Fprintln(s.out)

	if len(matches) == 0 {
		fmt.Fprintln(s.out, s.styles.Error.Render("No matches found."))
	}
	for _, m := range matches {
		var sb strings.Builder
		sb.WriteString(s.styles.Gutter.Render(fmt.Sprintf("%4d │ ", m.Line)))
		for _, seg := range search.Segments(m.Text, m.Spans) {
			if seg.Match {
				sb.WriteString(s.styles.Match.Render(seg.Text))
			} else {
				sb.WriteString(seg.Text)
			}
		}
		fmt.Fprintln(s.out, sb.String())
	}

	fmt.Fprintln(s.out)
	fmt.Fprintf(s.out, "%d matching line(s). Press Enter to return...", len(matches))
}

// DrawBookmarks lists bookmarks with the menu commands.
func (s *Screen) DrawBookmarks(list []bookmarks.Bookmark) {
	s.clearScreen()
	fmt.Fprintln(s.out, s.styles.Bookmarks.Render(" Bookmarks "))
	fmt.Fprintln(s.out)

	if len(list) == 0 {
		fmt.Fprintln(s.out, s.styles.Hint.Render(" No bookmarks yet. Use 'a <title>' to add one."))
	}
	for i, b := range list {
		fmt.Fprintf(s.out, "%s%s %s\n",
			s.styles.Number.Render(fmt.Sprintf(" %d. ", i+1)),
			s.styles.Title.Render(b.Title),
			s.styles.Link.Render("("+b.URL+")"))
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Commands:")
	fmt.Fprintln(s.out, "number - Go to bookmark")
	fmt.Fprintln(s.out, "d number - Delete bookmark")
	fmt.Fprintln(s.out, "q - Return to browser")
	fmt.Fprint(s.out, "\nEnter command: ")
}

// DrawHistory lists visited URLs, most recent first.
func (s *Screen) DrawHistory(urls []string) {
	s.clearScreen()
	fmt.Fprintln(s.out, s.styles.History.Render(" Browsing History "))
	fmt.Fprintln(s.out)

	if len(urls) == 0 {
		fmt.Fprintln(s.out, s.styles.Hint.Render(" Nothing visited yet."))
	}
	width, _ := s.Size()
	for i, u := range urls {
		num := fmt.Sprintf(" %d. ", i+1)
		fmt.Fprintf(s.out, "%s%s\n",
			s.styles.Gutter.Render(num),
			s.styles.Link.Render(Truncate(u, width-StringWidth(num))))
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Commands:")
	fmt.Fprintln(s.out, "number - Go to URL from history")
	fmt.Fprintln(s.out, "q - Return to browser")
	fmt.Fprint(s.out, "\nEnter command: ")
}

// HelpText lists the commands.
const HelpText = `Commands:
g URL      - Go to URL
b          - Show bookmarks
a TITLE    - Add current page to bookmarks
h          - Show this help
history    - Show history
r          - Reload current page
source     - View page source
raw        - Toggle raw mode view
download FILENAME - Download current page
search QUERY - Search in current page
y          - Copy current URL
w          - Scroll up
s          - Scroll down
q          - Quit`

// DrawHelp prints the command list.
func (s *Screen) DrawHelp() {
	fmt.Fprintln(s.out, HelpText)
}

// Prompt prints the command prompt.
func (s *Screen) Prompt() {
	fmt.Fprint(s.out, "\nCommand: ")
}
