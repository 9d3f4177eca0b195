// Package trafilatura implements scriptorium.Extractor using the
// go-trafilatura content extraction library. The harvester's own
// classifier is heuristic and tuned for book sites; this extractor
// backs the content inspection command, where a general-purpose
// boilerplate remover is more useful than the tuned heuristics.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/scriptorium"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements scriptorium.Extractor at compile time.
var _ scriptorium.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*scriptorium.ExtractResult, error) {
	if rawHTML == "" {
		return nil, scriptorium.Errorf(scriptorium.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &scriptorium.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
