package mock

import (
	"github.com/fwojciec/scriptorium"
)

var _ scriptorium.Classifier = (*Classifier)(nil)

// Classifier is a mock implementation of scriptorium.Classifier.
type Classifier struct {
	ClassifyFn func(html, pageURL string, exclude scriptorium.URLSet) (*scriptorium.Classification, error)
	LinksFn    func(html, pageURL string) ([]scriptorium.Link, error)
}

func (c *Classifier) Classify(html, pageURL string, exclude scriptorium.URLSet) (*scriptorium.Classification, error) {
	return c.ClassifyFn(html, pageURL, exclude)
}

func (c *Classifier) Links(html, pageURL string) ([]scriptorium.Link, error) {
	return c.LinksFn(html, pageURL)
}
