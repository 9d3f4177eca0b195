package goquery

import (
	"strings"

	"golang.org/x/net/html"
)

// strippedTags are skipped entirely during the text pass: headings,
// lists, separators, tables and non-visible elements carry navigation
// or chrome, not prose.
var strippedTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "dl": true, "hr": true,
	"table": true, "nav": true, "form": true, "figure": true,
	"script": true, "style": true, "noscript": true, "iframe": true,
}

// blockTags introduce a line break before and after their text.
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"blockquote": true, "td": true, "tr": true, "li": true,
}

// renderText walks a node tree and writes its visible text, emitting
// line breaks at block boundaries and <br> elements. This replaces the
// clone-and-strip approach: the source tree is never mutated.
func renderText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if strippedTags[n.Data] {
			return
		}
		if n.Data == "br" {
			b.WriteByte('\n')
			return
		}
		if blockTags[n.Data] {
			b.WriteByte('\n')
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(c, b)
	}

	if n.Type == html.ElementNode && blockTags[n.Data] {
		b.WriteByte('\n')
	}
}
