// Package enrich derives optional front-matter metadata from post bodies:
// a readability-based description and a detected language code. Both are
// best effort; failures produce empty values, never errors.
package enrich

import (
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"
)

// readability resolves relative links against a page URL. Export bodies are
// fragments without one, so a placeholder host is used and the resolved
// content is discarded anyway.
var placeholderURL = &url.URL{Scheme: "https", Host: "export.invalid", Path: "/"}

// Enricher computes Extras for posts. The zero value does nothing; build
// one with New.
type Enricher struct {
	describe bool
	detector lingua.LanguageDetector
}

// New returns an Enricher with the requested features. Language detection
// loads lingua's models, so it is only built when asked for.
func New(describe, detectLanguage bool) *Enricher {
	e := &Enricher{describe: describe}
	if detectLanguage {
		e.detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build()
	}
	return e
}

// Enabled reports whether any enrichment will run.
func (e *Enricher) Enabled() bool {
	return e != nil && (e.describe || e.detector != nil)
}

// Enrich inspects bodyHTML and returns a description and an ISO 639-1
// language code, each empty when disabled or undetectable.
func (e *Enricher) Enrich(bodyHTML string) (description, language string) {
	if !e.Enabled() || strings.TrimSpace(bodyHTML) == "" {
		return "", ""
	}

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(bodyHTML), placeholderURL)
	if err != nil {
		return "", ""
	}

	if e.describe {
		description = strings.TrimSpace(article.Excerpt)
	}
	if e.detector != nil {
		text := strings.TrimSpace(article.TextContent)
		if text != "" {
			if detected, ok := e.detector.DetectLanguageOf(text); ok {
				language = strings.ToLower(detected.IsoCode639_1().String())
			}
		}
	}
	return description, language
}
