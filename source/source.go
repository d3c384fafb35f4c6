// Package source shows the raw body of a page, syntax highlighted.
package source

import (
	"bytes"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-enry/go-enry/v2"
	"github.com/noborus/ov/oviewer"
)

const defaultStyleName = "monokai"

// Language guesses the language of body. The content type wins when it is
// specific; otherwise the URL's file name and the content are classified.
func Language(rawURL, contentType string, body []byte) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "html"):
		return "HTML"
	case strings.Contains(ct, "json"):
		return "JSON"
	case strings.Contains(ct, "xml"):
		return "XML"
	case strings.Contains(ct, "css"):
		return "CSS"
	case strings.Contains(ct, "javascript"):
		return "JavaScript"
	}

	name := "index"
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "/" && base != "." {
			name = base
		}
	}
	return enry.GetLanguage(name, body)
}

// lexer returns a Chroma lexer for lang, falling back to content analysis.
func lexer(lang string, text string) chroma.Lexer {
	if lang != "" {
		if l := lexers.Get(lang); l != nil {
			return l
		}
	}
	if l := lexers.Analyse(text); l != nil {
		return l
	}
	return lexers.Fallback
}

// Highlight writes body to w with 256-color terminal highlighting.
func Highlight(w io.Writer, lang string, body []byte) error {
	text := string(body)
	iterator, err := chroma.Coalesce(lexer(lang, text)).Tokenise(nil, text)
	if err != nil {
		return err
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	return formatter.Format(w, styles.Get(defaultStyleName), iterator)
}

// Viewer displays source either through a full-screen pager or by
// printing it.
type Viewer struct {
	Out   io.Writer
	Pager bool // page through ov instead of printing
	Color bool
}

// Show renders body and displays it.
func (v *Viewer) Show(rawURL, contentType string, body []byte) error {
	var buf bytes.Buffer
	if v.Color {
		lang := Language(rawURL, contentType, body)
		if err := Highlight(&buf, lang, body); err != nil {
			buf.Reset()
			buf.Write(body)
		}
	} else {
		buf.Write(body)
	}

	if !v.Pager {
		io.WriteString(v.Out, "Page Source:\n")
		_, err := v.Out.Write(buf.Bytes())
		return err
	}
	return page(&buf)
}

// page runs the ov pager on r until the user quits it.
func page(r io.Reader) error {
	root, err := oviewer.NewRoot(r)
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
