// Package slug derives Hugo bundle slugs and redirect aliases from Blogger
// permalinks, and keeps them unique within a run.
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/dtnitsch/blogger2hugo/models"
)

var (
	unsafeChars = regexp.MustCompile(`[^a-z0-9.-]+`)
	dashRuns    = regexp.MustCompile(`-{2,}`)
	legacyShape = regexp.MustCompile(`^/\d{4}/\d{2}/[^/]+\.html$`)
)

// Clean normalizes a slug or filename candidate: lowercase, %20 and
// whitespace and underscores become dashes, anything else outside
// [a-z0-9.-] becomes a dash, dash runs collapse, edge dashes drop.
func Clean(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "%20", "-")
	s = unsafeChars.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Derive computes the bundle mapping for one post. Slug precedence: the
// legacy URL's trailing segment, then the title, then the tail of the atom
// id. The returned slug is a candidate; Finalize settles collisions.
func Derive(rec models.PostRecord) models.SlugMapping {
	var m models.SlugMapping
	if rec.LegacyURL != "" {
		base := rec.LegacyURL[strings.LastIndex(rec.LegacyURL, "/")+1:]
		m.Slug = Clean(strings.TrimSuffix(base, ".html"))
		m.Aliases = []string{rec.LegacyURL}
		m.LegacyMatched = legacyShape.MatchString(rec.LegacyURL)
	}
	if m.Slug == "" {
		m.Slug = Clean(rec.Title)
	}
	if m.Slug == "" {
		// untitled drafts fall back to the numeric tail of the atom id
		parts := strings.Split(rec.ID, "-")
		m.Slug = Clean(parts[len(parts)-1])
	}
	if m.Slug == "" {
		m.Slug = "post"
	}
	m.NewPath = "/posts/" + m.Slug + "/"
	return m
}

// Registry tracks every slug claimed during a run. The first claimant keeps
// the bare slug; later claimants of the same slug get -2, -3, and so on, in
// claim order. Safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	bases map[string]int  // next suffix to try per base slug
	used  map[string]bool // every final slug handed out
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		bases: make(map[string]int),
		used:  make(map[string]bool),
	}
}

// Claim reserves slug, returning the final form and whether a
// disambiguating suffix was needed.
func (r *Registry) Claim(slug string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.used[slug] {
		r.used[slug] = true
		return slug, false
	}
	n := r.bases[slug]
	if n < 2 {
		n = 2
	}
	for ; ; n++ {
		candidate := fmt.Sprintf("%s-%d", slug, n)
		if !r.used[candidate] {
			r.bases[slug] = n + 1
			r.used[candidate] = true
			return candidate, true
		}
	}
}

// Finalize claims m's slug in reg, rewriting Slug and NewPath when a suffix
// was required. It reports whether the slug collided.
func Finalize(m *models.SlugMapping, reg *Registry) bool {
	final, collided := reg.Claim(m.Slug)
	m.Slug = final
	m.NewPath = "/posts/" + final + "/"
	return collided
}
