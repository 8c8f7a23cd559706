package models

import "time"

// PostStatus distinguishes published posts from drafts.
type PostStatus string

const (
	StatusPublished PostStatus = "published"
	StatusDraft     PostStatus = "draft"
)

// PostRecord is one normalized post entry read from a Blogger export feed.
// Comments, pages, and settings entries never become PostRecords.
type PostRecord struct {
	ID         string
	Title      string
	Published  time.Time
	Updated    time.Time
	Status     PostStatus
	LegacyURL  string // original Blogger permalink path, e.g. /2015/03/hello-world.html
	BodyHTML   string
	Categories []string
}

// Draft reports whether the post was never published.
func (p PostRecord) Draft() bool { return p.Status == StatusDraft }

// SlugMapping ties a post to its Hugo bundle location and the redirect
// aliases that keep old Blogger URLs alive.
type SlugMapping struct {
	Slug          string
	NewPath       string   // site-relative bundle path, /posts/<slug>/
	Aliases       []string // legacy paths emitted into front matter
	LegacyMatched bool     // legacy URL had the usual /yyyy/mm/name.html shape
}

// ImageRef is one successfully fetched image belonging to a post bundle.
type ImageRef struct {
	SourceURL string
	LocalName string // filename under the bundle's images/ directory
	AltText   string
	Bytes     []byte
}
