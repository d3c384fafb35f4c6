package html

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html/charset"

	"termweb/render"
)

// DefaultWidth is the wrap width for rendered pages.
const DefaultWidth = 100

// minWidth keeps list and quote prefixes from eating the whole line.
const minWidth = 20

// Options controls text rendering.
type Options struct {
	Width       int    // wrap width, DefaultWidth if 0
	BaseURL     string // resolves relative link targets
	ContentType string // Content-Type header, used to detect the charset
}

// Render converts an HTML body into display lines. Headings are prefixed
// with '#' markers, links become "[text][n]" references listed at the end
// as "[n]: url", and paragraphs are wrapped to the configured width.
func Render(body []byte, opts Options) ([]string, error) {
	var r io.Reader = bytes.NewReader(body)
	if cr, err := charset.NewReader(r, opts.ContentType); err == nil {
		r = cr
	}

	root, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return root.Lines(opts), nil
}

// Lines lays out a parsed document as text lines.
func (n *Node) Lines(opts Options) []string {
	width := opts.Width
	if width == 0 {
		width = DefaultWidth
	}
	width = max(width, minWidth)

	w := &writer{base: parseBase(opts.BaseURL)}
	lines := w.blocks(n.Children, width)

	if len(w.refs) > 0 {
		lines = append(lines, "")
		for i, ref := range w.refs {
			lines = append(lines, fmt.Sprintf("[%d]: %s", i+1, ref))
		}
	}
	return lines
}

type writer struct {
	base *url.URL
	refs []string
}

func parseBase(s string) *url.URL {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil
	}
	return u
}

// blocks lays out sibling blocks separated by single blank lines.
func (w *writer) blocks(nodes []*Node, width int) []string {
	var out []string
	for _, node := range nodes {
		lines := w.block(node, width)
		if len(lines) == 0 {
			continue
		}
		if len(out) > 0 {
			out = append(out, "")
		}
		out = append(out, lines...)
	}
	return out
}

func (w *writer) block(n *Node, width int) []string {
	switch n.Type {
	case NodeHeading:
		marker := strings.Repeat("#", max(n.Level, 1)) + " "
		return prefixed(render.WrapText(n.Text, width-render.StringWidth(marker)), marker, marker)

	case NodeParagraph:
		return w.paragraph(n, width)

	case NodeBlockquote:
		inner := w.blocks(n.Children, max(width-2, minWidth))
		return prefixed(inner, "> ", "> ")

	case NodeList:
		var out []string
		for i, item := range n.Children {
			bullet := "* "
			if n.Ordered {
				bullet = fmt.Sprintf("%d. ", i+1)
			}
			indent := strings.Repeat(" ", render.StringWidth(bullet))
			inner := w.blocks(item.Children, max(width-len(indent), minWidth))
			if len(inner) == 0 {
				inner = []string{""}
			}
			out = append(out, prefixed(inner, bullet, indent)...)
		}
		return out

	case NodeCodeBlock:
		text := strings.Trim(strings.ReplaceAll(n.Text, "\t", "    "), "\n")
		if strings.TrimSpace(text) == "" {
			return nil
		}
		lines := strings.Split(text, "\n")
		for i, l := range lines {
			lines[i] = strings.TrimRight(l, " \r")
		}
		return lines

	case NodeRule:
		return []string{strings.Repeat("-", width)}
	}
	return nil
}

// paragraph renders inline content and wraps each hard line.
func (w *writer) paragraph(n *Node, width int) []string {
	var sb strings.Builder
	w.inline(n, &sb)

	var out []string
	for _, hard := range strings.Split(sb.String(), "\n") {
		hard = strings.Join(strings.Fields(hard), " ")
		if hard == "" {
			continue
		}
		out = append(out, render.WrapText(hard, width)...)
	}
	return out
}

func (w *writer) inline(n *Node, sb *strings.Builder) {
	for _, c := range n.Children {
		switch c.Type {
		case NodeText:
			sb.WriteString(collapseSpace(c.Text))
		case NodeStrong:
			w.wrapInline(c, sb, "**")
		case NodeEmphasis:
			w.wrapInline(c, sb, "*")
		case NodeCode:
			if c.Text != "" {
				sb.WriteString("`" + c.Text + "`")
			}
		case NodeBreak:
			sb.WriteByte('\n')
		case NodeImage:
			sb.WriteString("[" + c.Text + "]")
		case NodeLink:
			w.link(c, sb)
		default:
			w.inline(c, sb)
		}
	}
}

func (w *writer) wrapInline(n *Node, sb *strings.Builder, mark string) {
	var inner strings.Builder
	w.inline(n, &inner)
	text := strings.TrimSpace(inner.String())
	if text == "" {
		return
	}
	sb.WriteString(mark + text + mark)
}

func (w *writer) link(n *Node, sb *strings.Builder) {
	var inner strings.Builder
	w.inline(n, &inner)
	text := strings.Join(strings.Fields(inner.String()), " ")

	target := w.resolve(n.Href)
	if target == "" {
		sb.WriteString(text)
		return
	}
	if text == "" {
		text = target
	}
	w.refs = append(w.refs, target)
	fmt.Fprintf(sb, "[%s][%d]", text, len(w.refs))
}

// resolve returns an absolute link target, or "" for links that lead
// nowhere useful in a text view.
func (w *writer) resolve(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if w.base != nil {
		u = w.base.ResolveReference(u)
	}
	return u.String()
}

// collapseSpace turns every whitespace run, newlines included, into a single
// space. Hard line breaks only come from <br>.
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s == "" {
			return ""
		}
		return " "
	}
	out := strings.Join(fields, " ")
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

// prefixed prepends first to the first line and rest to the others.
func prefixed(lines []string, first, rest string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		p := rest
		if i == 0 {
			p = first
		}
		if l == "" {
			out[i] = strings.TrimRight(p, " ")
			continue
		}
		out[i] = p + l
	}
	return out
}
