package enrich

import "testing"

func TestEnabled(t *testing.T) {
	if New(false, false).Enabled() {
		t.Error("Enabled() = true with nothing requested")
	}
	if !New(true, false).Enabled() {
		t.Error("Enabled() = false with describe requested")
	}

	var nilEnricher *Enricher
	if nilEnricher.Enabled() {
		t.Error("nil Enricher reports Enabled() = true")
	}
}

func TestEnrich_DisabledReturnsNothing(t *testing.T) {
	e := New(false, false)

	desc, lang := e.Enrich("<p>some body text</p>")
	if desc != "" || lang != "" {
		t.Errorf("Enrich() = (%q, %q), want empty when disabled", desc, lang)
	}
}

func TestEnrich_EmptyBodyIsSafe(t *testing.T) {
	e := New(true, false)

	desc, lang := e.Enrich("   ")
	if desc != "" || lang != "" {
		t.Errorf("Enrich() = (%q, %q), want empty for a blank body", desc, lang)
	}
}

func TestEnrich_DescribeNeverPanics(t *testing.T) {
	e := New(true, false)

	// Content the readability pass may or may not summarize; either way the
	// call must come back clean.
	bodies := []string{
		"<p>Short.</p>",
		"<div><p>A longer paragraph with enough words that an extractor has something to chew on. It keeps going for a while to resemble a real blog post opening.</p></div>",
		"<table><tr><td>only a table</td></tr></table>",
	}
	for _, b := range bodies {
		e.Enrich(b)
	}
}
