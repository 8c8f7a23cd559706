// Package models defines data structures shared across the conversion pipeline.
package models

import "time"

// DefaultWorkers is the conversion pool size when --workers is not given.
const DefaultWorkers = 4

// ConvertConfig holds runtime configuration for one conversion run.
// All values come from CLI flags, not external config files.
type ConvertConfig struct {
	ArchivePath    string
	OutputDir      string
	Workers        int
	FetchTimeout   time.Duration
	Describe       bool
	DetectLanguage bool
}
