// Package export renders pages for download and reads them back.
package export

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/aretw0/mindpages/pkg/core"
)

// blockElements end a line when they close.
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Pre: true, atom.Blockquote: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Ul: true, atom.Ol: true, atom.Table: true, atom.Tr: true,
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// StripMarkup returns the text content of a markup fragment. Block-level
// elements and <br> become line breaks and entities are decoded.
func StripMarkup(markup string) string {
	var buf bytes.Buffer
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way keep what was read.
			return tidy(buf.String())
		case html.TextToken:
			buf.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Br {
				buf.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if blockElements[atom.Lookup(name)] {
				buf.WriteByte('\n')
			}
		}
	}
}

func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	s = strings.Join(lines, "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// PlainText renders the page as a title line followed by its text.
func PlainText(p core.Page) string {
	title := p.Title
	if strings.TrimSpace(title) == "" {
		title = core.DefaultTitle
	}
	body := StripMarkup(p.Body)
	if body == "" {
		return "# " + title + "\n"
	}
	return "# " + title + "\n\n" + body + "\n"
}

var unsafeFilename = strings.NewReplacer("/", "-", "\\", "-", ":", "-", "\x00", "")

// Filename returns the download name for the page: its title plus ".md".
func Filename(p core.Page) string {
	title := strings.TrimSpace(unsafeFilename.Replace(p.Title))
	if title == "" {
		title = core.DefaultTitle
	}
	return title + ".md"
}
