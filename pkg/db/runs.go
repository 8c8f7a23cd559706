package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dtnitsch/blogger2hugo/models"
)

// Run is one recorded conversion run.
type Run struct {
	RunID          int64
	ArchivePath    string
	OutputDir      string
	StartedAt      time.Time
	FinishedAt     time.Time
	Posts          int
	Published      int
	Drafts         int
	Failed         int
	ImagesFetched  int
	ImagesReused   int
	ImagesFailed   int
	SlugCollisions int
	AliasWarnings  int
}

// RunPost is one post outcome within a recorded run.
type RunPost struct {
	Ordinal      int
	PostID       string
	Slug         string
	Title        string
	Draft        bool
	Status       string
	Path         string
	Error        string
	Collided     bool
	AliasWarning string
}

// RunImage is one image resolution within a recorded run.
type RunImage struct {
	PostSlug  string
	SourceURL string
	LocalName string
	Status    string
	Error     string
}

// RecordRun persists a finished run report and returns the new run id.
// The run row and all of its post and image rows commit together.
func (db *DB) RecordRun(report models.RunReport) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	s := report.Summary
	result, err := tx.Exec(`
		INSERT INTO runs (archive_path, output_dir, started_at, finished_at,
		                  posts, published, drafts, failed,
		                  images_fetched, images_reused, images_failed,
		                  slug_collisions, alias_warnings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, report.ArchivePath, report.OutputDir, report.StartedAt, report.FinishedAt,
		s.Posts, s.Published, s.Drafts, s.Failed,
		s.ImagesFetched, s.ImagesReused, s.ImagesFailed,
		s.SlugCollisions, s.AliasWarnings)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for _, p := range report.Posts {
		_, err := tx.Exec(`
			INSERT INTO run_posts (run_id, ordinal, post_id, slug, title, draft,
			                       status, path, error, collided, alias_warning)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, p.Ordinal, p.ID, p.Slug, p.Title, p.Draft,
			p.Status, p.Path, p.Error, p.Collided, p.AliasWarning)
		if err != nil {
			return 0, fmt.Errorf("failed to insert run post: %w", err)
		}
	}

	for _, img := range report.Images {
		_, err := tx.Exec(`
			INSERT INTO run_images (run_id, post_slug, source_url, local_name, status, error)
			VALUES (?, ?, ?, ?, ?, ?)
		`, runID, img.PostSlug, img.SourceURL, img.LocalName, img.Status, img.Error)
		if err != nil {
			return 0, fmt.Errorf("failed to insert run image: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// GetRunByID retrieves a run by its ID
func (db *DB) GetRunByID(runID int64) (*Run, error) {
	var r Run
	err := db.QueryRow(`
		SELECT run_id, archive_path, output_dir, started_at, finished_at,
		       posts, published, drafts, failed,
		       images_fetched, images_reused, images_failed,
		       slug_collisions, alias_warnings
		FROM runs
		WHERE run_id = ?
	`, runID).Scan(
		&r.RunID,
		&r.ArchivePath,
		&r.OutputDir,
		&r.StartedAt,
		&r.FinishedAt,
		&r.Posts,
		&r.Published,
		&r.Drafts,
		&r.Failed,
		&r.ImagesFetched,
		&r.ImagesReused,
		&r.ImagesFailed,
		&r.SlugCollisions,
		&r.AliasWarnings,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// ListRuns retrieves runs ordered by most recent first
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT run_id, archive_path, output_dir, started_at, finished_at,
		       posts, published, drafts, failed,
		       images_fetched, images_reused, images_failed,
		       slug_collisions, alias_warnings
		FROM runs
		ORDER BY started_at DESC, run_id DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.ArchivePath, &r.OutputDir, &r.StartedAt, &r.FinishedAt,
			&r.Posts, &r.Published, &r.Drafts, &r.Failed,
			&r.ImagesFetched, &r.ImagesReused, &r.ImagesFailed,
			&r.SlugCollisions, &r.AliasWarnings); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}

	return runs, nil
}

// GetRunPosts retrieves the post outcomes for a run in feed order
func (db *DB) GetRunPosts(runID int64) ([]RunPost, error) {
	rows, err := db.Query(`
		SELECT ordinal, post_id, slug, title, draft, status, path, error, collided, alias_warning
		FROM run_posts
		WHERE run_id = ?
		ORDER BY ordinal
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run posts: %w", err)
	}
	defer rows.Close()

	var posts []RunPost
	for rows.Next() {
		var p RunPost
		if err := rows.Scan(&p.Ordinal, &p.PostID, &p.Slug, &p.Title, &p.Draft,
			&p.Status, &p.Path, &p.Error, &p.Collided, &p.AliasWarning); err != nil {
			return nil, fmt.Errorf("failed to scan run post: %w", err)
		}
		posts = append(posts, p)
	}

	return posts, nil
}

// GetRunImages retrieves the image resolutions for a run
func (db *DB) GetRunImages(runID int64) ([]RunImage, error) {
	rows, err := db.Query(`
		SELECT post_slug, source_url, local_name, status, error
		FROM run_images
		WHERE run_id = ?
		ORDER BY run_image_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run images: %w", err)
	}
	defer rows.Close()

	var images []RunImage
	for rows.Next() {
		var img RunImage
		if err := rows.Scan(&img.PostSlug, &img.SourceURL, &img.LocalName, &img.Status, &img.Error); err != nil {
			return nil, fmt.Errorf("failed to scan run image: %w", err)
		}
		images = append(images, img)
	}

	return images, nil
}
