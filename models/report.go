package models

import (
	"sort"
	"time"
)

// Post outcome states recorded in a RunReport.
const (
	PostWritten = "written"
	PostFailed  = "failed"
)

// Image outcome states recorded in a RunReport.
const (
	ImageFetched = "fetched"
	ImageFailed  = "failed"
)

// RunReport summarizes one conversion run: what was read, what was written,
// and everything that went wrong along the way.
type RunReport struct {
	ArchivePath    string         `json:"archive_path" yaml:"archive_path"`
	OutputDir      string         `json:"output_dir" yaml:"output_dir"`
	StartedAt      time.Time      `json:"started_at" yaml:"started_at"`
	FinishedAt     time.Time      `json:"finished_at" yaml:"finished_at"`
	Summary        RunSummary     `json:"summary" yaml:"summary"`
	Posts          []PostResult   `json:"posts" yaml:"posts"`
	Images         []ImageOutcome `json:"images,omitempty" yaml:"images,omitempty"`
	CategoryCounts map[string]int `json:"category_counts,omitempty" yaml:"category_counts,omitempty"`
}

// RunSummary holds the counters printed at the end of a run.
type RunSummary struct {
	Posts          int `json:"posts" yaml:"posts"`
	Published      int `json:"published" yaml:"published"`
	Drafts         int `json:"drafts" yaml:"drafts"`
	Failed         int `json:"failed" yaml:"failed"`
	ImagesFetched  int `json:"images_fetched" yaml:"images_fetched"`
	ImagesReused   int `json:"images_reused" yaml:"images_reused"`
	ImagesFailed   int `json:"images_failed" yaml:"images_failed"`
	SlugCollisions int `json:"slug_collisions" yaml:"slug_collisions"`
	AliasWarnings  int `json:"alias_warnings" yaml:"alias_warnings"`
}

// PostResult is the outcome of converting one entry.
type PostResult struct {
	Ordinal      int        `json:"ordinal" yaml:"ordinal"` // entry position in the feed
	ID           string     `json:"id,omitempty" yaml:"id,omitempty"`
	Slug         string     `json:"slug,omitempty" yaml:"slug,omitempty"`
	Title        string     `json:"title,omitempty" yaml:"title,omitempty"`
	Draft        bool       `json:"draft" yaml:"draft"`
	Status       string     `json:"status" yaml:"status"` // written | failed
	Path         string     `json:"path,omitempty" yaml:"path,omitempty"`
	Error        string     `json:"error,omitempty" yaml:"error,omitempty"`
	Collided     bool       `json:"collided,omitempty" yaml:"collided,omitempty"`
	AliasWarning string     `json:"alias_warning,omitempty" yaml:"alias_warning,omitempty"`
	Images       ImageStats `json:"images" yaml:"images"`
}

// ImageStats tallies the image work done for one post.
type ImageStats struct {
	Fetched int `json:"fetched" yaml:"fetched"`
	Reused  int `json:"reused" yaml:"reused"`
	Failed  int `json:"failed" yaml:"failed"`
}

// ImageOutcome is one image resolution, success or failure.
type ImageOutcome struct {
	PostSlug  string `json:"post_slug" yaml:"post_slug"`
	SourceURL string `json:"source_url" yaml:"source_url"`
	LocalName string `json:"local_name,omitempty" yaml:"local_name,omitempty"`
	Status    string `json:"status" yaml:"status"` // fetched | failed
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Finalize orders the result slices deterministically and recomputes the
// summary counters from them.
func (r *RunReport) Finalize() {
	sort.Slice(r.Posts, func(i, j int) bool { return r.Posts[i].Ordinal < r.Posts[j].Ordinal })
	sort.Slice(r.Images, func(i, j int) bool {
		if r.Images[i].PostSlug != r.Images[j].PostSlug {
			return r.Images[i].PostSlug < r.Images[j].PostSlug
		}
		return r.Images[i].SourceURL < r.Images[j].SourceURL
	})

	var s RunSummary
	for _, p := range r.Posts {
		s.Posts++
		switch {
		case p.Status == PostFailed:
			s.Failed++
		case p.Draft:
			s.Drafts++
		default:
			s.Published++
		}
		if p.Collided {
			s.SlugCollisions++
		}
		if p.AliasWarning != "" {
			s.AliasWarnings++
		}
		s.ImagesFetched += p.Images.Fetched
		s.ImagesReused += p.Images.Reused
		s.ImagesFailed += p.Images.Failed
	}
	r.Summary = s
}

// EmitResult reports what the emitter wrote for one post.
type EmitResult struct {
	IndexPath string
	Written   []string
}
