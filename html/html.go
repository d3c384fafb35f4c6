// Package html converts HTML pages into display lines.
package html

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Node represents a content node in the document.
type Node struct {
	Type     NodeType
	Text     string
	Children []*Node
	Href     string // for links
	Level    int    // heading level 1-6
	Ordered  bool   // for lists
}

// NodeType identifies the kind of content node.
type NodeType int

const (
	NodeDocument NodeType = iota
	NodeHeading
	NodeParagraph
	NodeBlockquote
	NodeList
	NodeListItem
	NodeCode
	NodeCodeBlock
	NodeLink
	NodeText
	NodeStrong
	NodeEmphasis
	NodeBreak
	NodeImage
	NodeRule
)

// skipped elements never contribute text.
const skipped = "script, style, noscript, template, svg, iframe, head, object"

// Parse extracts readable content from an HTML page.
func Parse(r io.Reader) (*Node, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	doc.Find(skipped).Remove()

	root := &Node{Type: NodeDocument}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		body = doc.Selection
	}
	for _, n := range body.Nodes {
		extractContent(n, root)
	}
	return root, nil
}

// extractContent appends the block-level content of n to parent. Runs of
// inline content between blocks become implicit paragraphs.
func extractContent(n *html.Node, parent *Node) {
	var para *Node
	flush := func() {
		if para != nil && !isBlankInline(para) {
			parent.Children = append(parent.Children, para)
		}
		para = nil
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode || (c.Type == html.ElementNode && isInline(c)) {
			if para == nil {
				para = &Node{Type: NodeParagraph}
			}
			extractInlineNode(c, para)
			continue
		}
		if c.Type != html.ElementNode {
			continue
		}
		flush()

		switch c.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			node := &Node{Type: NodeHeading, Level: int(c.Data[1] - '0'), Text: textContent(c)}
			if node.Text != "" {
				parent.Children = append(parent.Children, node)
			}

		case "p":
			node := &Node{Type: NodeParagraph}
			extractInline(c, node)
			if !isBlankInline(node) {
				parent.Children = append(parent.Children, node)
			}

		case "blockquote":
			node := &Node{Type: NodeBlockquote}
			extractContent(c, node)
			parent.Children = append(parent.Children, node)

		case "ul", "ol", "menu":
			node := &Node{Type: NodeList, Ordered: c.Data == "ol"}
			extractList(c, node)
			if len(node.Children) > 0 {
				parent.Children = append(parent.Children, node)
			}

		case "pre":
			parent.Children = append(parent.Children, &Node{Type: NodeCodeBlock, Text: rawText(c)})

		case "hr":
			parent.Children = append(parent.Children, &Node{Type: NodeRule})

		case "tr":
			node := &Node{Type: NodeParagraph}
			extractRow(c, node)
			if !isBlankInline(node) {
				parent.Children = append(parent.Children, node)
			}

		case "li":
			// Stray list item outside a list.
			item := &Node{Type: NodeListItem}
			extractContent(c, item)
			parent.Children = append(parent.Children, &Node{Type: NodeList, Children: []*Node{item}})

		default:
			// div, section, table, nav and other containers.
			extractContent(c, parent)
		}
	}
	flush()
}

func extractList(n *html.Node, parent *Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			item := &Node{Type: NodeListItem}
			extractContent(c, item)
			parent.Children = append(parent.Children, item)
		}
	}
}

func extractRow(n *html.Node, parent *Node) {
	first := true
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		if !first {
			parent.Children = append(parent.Children, &Node{Type: NodeText, Text: " | "})
		}
		first = false
		extractInline(c, parent)
	}
}

func extractInline(n *html.Node, parent *Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractInlineNode(c, parent)
	}
}

func extractInlineNode(c *html.Node, parent *Node) {
	switch c.Type {
	case html.TextNode:
		if c.Data != "" {
			parent.Children = append(parent.Children, &Node{Type: NodeText, Text: c.Data})
		}

	case html.ElementNode:
		switch c.Data {
		case "a":
			link := &Node{Type: NodeLink, Href: getAttr(c, "href")}
			extractInline(c, link)
			parent.Children = append(parent.Children, link)

		case "strong", "b":
			node := &Node{Type: NodeStrong}
			extractInline(c, node)
			parent.Children = append(parent.Children, node)

		case "em", "i":
			node := &Node{Type: NodeEmphasis}
			extractInline(c, node)
			parent.Children = append(parent.Children, node)

		case "code", "kbd", "samp", "tt":
			parent.Children = append(parent.Children, &Node{Type: NodeCode, Text: textContent(c)})

		case "br":
			parent.Children = append(parent.Children, &Node{Type: NodeBreak})

		case "img":
			if alt := strings.TrimSpace(getAttr(c, "alt")); alt != "" {
				parent.Children = append(parent.Children, &Node{Type: NodeImage, Text: alt})
			}

		default:
			extractInline(c, parent)
		}
	}
}

var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true, "br": true,
	"cite": true, "code": true, "data": true, "dfn": true, "em": true,
	"i": true, "img": true, "kbd": true, "label": true, "mark": true,
	"q": true, "s": true, "samp": true, "small": true, "span": true,
	"strong": true, "sub": true, "sup": true, "time": true, "tt": true,
	"u": true, "var": true, "del": true, "ins": true, "font": true,
	"button": true, "input": true, "select": true, "textarea": true,
}

func isInline(n *html.Node) bool {
	return inlineTags[n.Data]
}

func isBlankInline(n *Node) bool {
	for _, c := range n.Children {
		switch c.Type {
		case NodeImage, NodeCode:
			if c.Text != "" {
				return false
			}
		case NodeBreak:
		default:
			if strings.TrimSpace(c.Text) != "" || !isBlankInline(c) {
				return false
			}
		}
	}
	return strings.TrimSpace(n.Text) == ""
}

// textContent returns the whitespace-collapsed text of n.
func textContent(n *html.Node) string {
	return strings.Join(strings.Fields(rawText(n)), " ")
}

// rawText returns the text of n exactly as written.
func rawText(n *html.Node) string {
	var sb strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			sb.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return sb.String()
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// plainText returns the plain text content of a node and its children.
func (n *Node) plainText() string {
	var sb strings.Builder
	n.appendPlainText(&sb)
	return sb.String()
}

func (n *Node) appendPlainText(sb *strings.Builder) {
	if n.Text != "" {
		sb.WriteString(n.Text)
	}
	for _, child := range n.Children {
		child.appendPlainText(sb)
	}
}
