// Package atom streams post entries out of a Blogger export feed.
//
// The export is a single Atom file whose entries mix posts, pages,
// comments, and blog settings, told apart by the blogger:type element.
// Only POST entries become records; everything else is skipped.
package atom

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dtnitsch/blogger2hugo/models"
)

// Namespaces used by Blogger takeout exports.
const (
	NSAtom    = "http://www.w3.org/2005/Atom"
	NSBlogger = "http://schemas.google.com/blogger/2018"
)

// entry mirrors one <entry> element of the export feed.
type entry struct {
	ID         string `xml:"id"`
	Title      string `xml:"title"`
	Published  string `xml:"published"`
	Updated    string `xml:"updated"`
	Content    string `xml:"content"`
	Type       string `xml:"http://schemas.google.com/blogger/2018 type"`
	Status     string `xml:"http://schemas.google.com/blogger/2018 status"`
	Filename   string `xml:"http://schemas.google.com/blogger/2018 filename"`
	Categories []struct {
		Term string `xml:"term,attr"`
	} `xml:"category"`
}

// Reader yields PostRecords one at a time. The sequence is single-pass:
// entries are decoded lazily off the underlying stream and cannot be
// replayed without reopening the source.
type Reader struct {
	dec     *xml.Decoder
	entries int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: xml.NewDecoder(r)}
}

// Entries reports how many feed entries have been decoded so far, including
// skipped and rejected ones.
func (r *Reader) Entries() int { return r.entries }

// Next returns the next POST entry as a record. A *models.PostError marks a
// recoverable bad entry, so callers can log it and call Next again. A
// *models.ArchiveError means the feed itself is broken and decoding cannot
// continue. io.EOF ends the sequence.
func (r *Reader) Next() (models.PostRecord, error) {
	for {
		tok, err := r.dec.Token()
		if err == io.EOF {
			return models.PostRecord{}, io.EOF
		}
		if err != nil {
			return models.PostRecord{}, &models.ArchiveError{Err: err}
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "entry" {
			continue
		}

		r.entries++
		var e entry
		if err := r.dec.DecodeElement(&e, &se); err != nil {
			return models.PostRecord{}, &models.ArchiveError{
				Err: fmt.Errorf("entry %d: %w", r.entries, err),
			}
		}

		if !strings.EqualFold(e.Type, "POST") {
			continue
		}

		rec, err := e.record()
		if err != nil {
			return models.PostRecord{}, &models.PostError{Entry: r.entries, PostID: strings.TrimSpace(e.ID), Err: err}
		}
		return rec, nil
	}
}

// record validates and normalizes a decoded entry.
func (e entry) record() (models.PostRecord, error) {
	rec := models.PostRecord{
		ID:       strings.TrimSpace(e.ID),
		Title:    strings.TrimSpace(e.Title),
		Status:   models.StatusPublished,
		BodyHTML: e.Content,
	}
	if rec.ID == "" {
		return models.PostRecord{}, fmt.Errorf("missing id")
	}
	if rec.Title == "" {
		return models.PostRecord{}, fmt.Errorf("missing title")
	}
	if strings.TrimSpace(e.Content) == "" {
		return models.PostRecord{}, fmt.Errorf("missing content")
	}

	if strings.EqualFold(e.Status, "DRAFT") {
		rec.Status = models.StatusDraft
	}
	rec.Published = parseTime(e.Published)
	rec.Updated = parseTime(e.Updated)
	rec.LegacyURL = normalizePermalink(e.Filename)

	for _, c := range e.Categories {
		if term := strings.TrimSpace(c.Term); term != "" {
			rec.Categories = append(rec.Categories, term)
		}
	}
	return rec, nil
}

// parseTime reads the RFC 3339 timestamps Blogger emits. Unparsable values
// become the zero time, which downstream code treats as absent.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// normalizePermalink keeps the site-relative shape /yyyy/mm/name.html that
// blogger:filename uses, tolerating a missing leading slash.
func normalizePermalink(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return "/" + strings.TrimLeft(s, "/")
}
