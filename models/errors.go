package models

import "fmt"

// ArchiveError is fatal: the export file itself is unreadable or
// structurally invalid. Nothing after it is processed.
type ArchiveError struct {
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("malformed archive %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("malformed archive: %v", e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// PostError marks a single entry that could not become a post. The run
// records it and moves on to the next entry.
type PostError struct {
	Entry  int // 1-based entry position in the feed
	PostID string
	Err    error
}

func (e *PostError) Error() string {
	if e.PostID != "" {
		return fmt.Sprintf("entry %d (%s): %v", e.Entry, e.PostID, e.Err)
	}
	return fmt.Sprintf("entry %d: %v", e.Entry, e.Err)
}

func (e *PostError) Unwrap() error { return e.Err }

// ImageFailure records one image that could not be fetched. The post still
// emits with the remote URL left in place.
type ImageFailure struct {
	SourceURL string `json:"source_url" yaml:"source_url"`
	Reason    string `json:"reason" yaml:"reason"`
}
