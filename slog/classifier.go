package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/scriptorium"
)

// Ensure LoggingClassifier implements scriptorium.Classifier.
var _ scriptorium.Classifier = (*LoggingClassifier)(nil)

// LoggingClassifier wraps a Classifier with debug logging of each
// classification verdict.
type LoggingClassifier struct {
	next   scriptorium.Classifier
	logger *slog.Logger
}

// NewLoggingClassifier creates a new LoggingClassifier.
func NewLoggingClassifier(next scriptorium.Classifier, logger *slog.Logger) *LoggingClassifier {
	return &LoggingClassifier{next: next, logger: logger}
}

// Classify delegates to the wrapped classifier and logs the verdict.
func (c *LoggingClassifier) Classify(html, pageURL string, exclude scriptorium.URLSet) (cls *scriptorium.Classification, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", pageURL,
			"duration", time.Since(begin),
			"err", err,
		}
		if cls != nil {
			attrs = append(attrs,
				"kind", cls.Kind.String(),
				"segments", len(cls.Segments),
				"links", len(cls.Links),
			)
		}
		c.logger.Debug("classify", attrs...)
	}(time.Now())
	return c.next.Classify(html, pageURL, exclude)
}

// Links delegates to the wrapped classifier.
func (c *LoggingClassifier) Links(html, pageURL string) ([]scriptorium.Link, error) {
	return c.next.Links(html, pageURL)
}
