// Package pipeline drives a conversion run: it streams post records out of
// the archive, assigns slugs in encounter order, and fans the posts out to a
// worker pool that converts and writes each bundle independently.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dtnitsch/blogger2hugo/models"
	"github.com/dtnitsch/blogger2hugo/pkg/atom"
	"github.com/dtnitsch/blogger2hugo/pkg/enrich"
	"github.com/dtnitsch/blogger2hugo/pkg/fetcher"
	"github.com/dtnitsch/blogger2hugo/pkg/hugo"
	"github.com/dtnitsch/blogger2hugo/pkg/images"
	"github.com/dtnitsch/blogger2hugo/pkg/markdown"
	"github.com/dtnitsch/blogger2hugo/pkg/slug"
	"github.com/dtnitsch/blogger2hugo/pkg/stats"
)

// Options configures a single conversion run.
type Options struct {
	Config   models.ConvertConfig
	Logger   *slog.Logger
	Enricher *enrich.Enricher
}

// Job defines one post for a worker to convert. The slug is already final:
// collision handling happens on the reading side, in feed order.
type Job struct {
	Ordinal  int
	Record   models.PostRecord
	Mapping  models.SlugMapping
	Collided bool
}

// Result holds the outcome of a converted post.
type Result struct {
	Post       models.PostResult
	Images     []models.ImageOutcome
	Categories map[string]int
}

// Run converts every post in the archive named by opts.Config and returns
// the run report. The returned error is non-nil only for archive-level
// failures; the report still covers everything converted before the failure.
func Run(ctx context.Context, opts Options) (models.RunReport, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = models.DefaultWorkers
	}

	report := models.RunReport{
		ArchivePath: cfg.ArchivePath,
		OutputDir:   cfg.OutputDir,
		StartedAt:   time.Now().UTC(),
	}

	file, err := os.Open(cfg.ArchivePath)
	if err != nil {
		report.FinishedAt = time.Now().UTC()
		return report, &models.ArchiveError{Path: cfg.ArchivePath, Err: err}
	}
	defer file.Close()

	conv := &converter{
		logger:   logger,
		enricher: opts.Enricher,
		fetcher:  fetcher.New(cfg.FetchTimeout),
		emitter:  hugo.NewEmitter(cfg.OutputDir),
	}

	logger.Info("Starting conversion", "archive", cfg.ArchivePath, "output_dir", cfg.OutputDir, "workers", workers)
	var wg sync.WaitGroup
	jobs := make(chan Job, workers)
	results := make(chan Result, workers)

	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go worker(ctx, w, conv, &wg, jobs, results)
	}

	// Collect as workers produce so the results channel never backs up.
	collected := []Result{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for result := range results {
			collected = append(collected, result)
		}
	}()

	// Read entries sequentially. Slugs must be claimed in feed order so that
	// collision suffixes are deterministic across runs.
	reader := atom.NewReader(file)
	registry := slug.NewRegistry()
	var archiveErr error
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		var postErr *models.PostError
		if errors.As(err, &postErr) {
			logger.Warn("Skipping unconvertible entry", "entry", postErr.Entry, "post_id", postErr.PostID, "error", postErr.Err)
			results <- Result{Post: models.PostResult{
				Ordinal: postErr.Entry,
				ID:      postErr.PostID,
				Status:  models.PostFailed,
				Error:   postErr.Err.Error(),
			}}
			continue
		}
		if err != nil {
			var ae *models.ArchiveError
			if errors.As(err, &ae) && ae.Path == "" {
				ae.Path = cfg.ArchivePath
			}
			archiveErr = err
			break
		}

		mapping := slug.Derive(rec)
		collided := slug.Finalize(&mapping, registry)
		if collided {
			logger.Warn("Slug already taken, suffixed", "post_id", rec.ID, "slug", mapping.Slug)
		}
		jobs <- Job{Ordinal: reader.Entries(), Record: rec, Mapping: mapping, Collided: collided}
	}
	close(jobs)

	wg.Wait()
	close(results)
	<-done
	logger.Info("All conversion workers finished", "entries_read", reader.Entries())

	intermediate := make([]map[string]int, 0, len(collected))
	for _, result := range collected {
		report.Posts = append(report.Posts, result.Post)
		report.Images = append(report.Images, result.Images...)
		if result.Categories != nil {
			intermediate = append(intermediate, result.Categories)
		}
	}
	report.CategoryCounts = stats.Reduce(intermediate)
	report.FinishedAt = time.Now().UTC()
	report.Finalize()

	if archiveErr != nil {
		logger.Error("Archive parse failed", "entries_read", reader.Entries(), "error", archiveErr)
		return report, archiveErr
	}
	logger.Info("Conversion finished",
		"posts", report.Summary.Posts,
		"published", report.Summary.Published,
		"drafts", report.Summary.Drafts,
		"failed", report.Summary.Failed,
		"images_fetched", report.Summary.ImagesFetched,
		"images_failed", report.Summary.ImagesFailed)
	return report, nil
}

// worker is a goroutine that converts jobs from the jobs channel and sends
// outcomes to the results channel.
func worker(ctx context.Context, id int, conv *converter, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		conv.logger.Info("Worker started post", "worker_id", id, "entry", job.Ordinal, "slug", job.Mapping.Slug)
		results <- conv.convertOne(ctx, job)
	}
}

// converter bundles the per-run collaborators shared by all workers. Each
// of them is safe for concurrent use.
type converter struct {
	logger   *slog.Logger
	enricher *enrich.Enricher
	fetcher  *fetcher.Fetcher
	emitter  *hugo.Emitter
}

func (c *converter) convertOne(ctx context.Context, job Job) Result {
	rec := job.Record
	post := models.PostResult{
		Ordinal:  job.Ordinal,
		ID:       rec.ID,
		Slug:     job.Mapping.Slug,
		Title:    rec.Title,
		Draft:    rec.Draft(),
		Status:   models.PostWritten,
		Collided: job.Collided,
	}
	if rec.LegacyURL != "" && !job.Mapping.LegacyMatched {
		post.AliasWarning = fmt.Sprintf("legacy url %s has no year/month segments, kept as alias only", rec.LegacyURL)
		c.logger.Warn("Legacy url shape not recognized", "post_id", rec.ID, "legacy_url", rec.LegacyURL)
	}

	resolver := images.New(ctx, c.fetcher)
	body, err := markdown.Convert(rec.BodyHTML, resolver)
	if err != nil {
		return c.failed(post, err)
	}

	var extra hugo.Extras
	if c.enricher.Enabled() {
		extra.Description, extra.Language = c.enricher.Enrich(rec.BodyHTML)
	}

	emitted, err := c.emitter.Emit(rec, job.Mapping, body, resolver.Refs(), extra)
	if err != nil {
		return c.failed(post, err)
	}

	post.Path = emitted.IndexPath
	post.Images = models.ImageStats{
		Fetched: len(resolver.Refs()),
		Reused:  resolver.Reused(),
		Failed:  len(resolver.Failures()),
	}

	outcomes := make([]models.ImageOutcome, 0, post.Images.Fetched+post.Images.Failed)
	for _, ref := range resolver.Refs() {
		outcomes = append(outcomes, models.ImageOutcome{
			PostSlug:  post.Slug,
			SourceURL: ref.SourceURL,
			LocalName: ref.LocalName,
			Status:    models.ImageFetched,
		})
	}
	for _, failure := range resolver.Failures() {
		outcomes = append(outcomes, models.ImageOutcome{
			PostSlug:  post.Slug,
			SourceURL: failure.SourceURL,
			Status:    models.ImageFailed,
			Error:     failure.Reason,
		})
		c.logger.Warn("Image kept as remote url", "slug", post.Slug, "source_url", failure.SourceURL, "reason", failure.Reason)
	}

	c.logger.Info("Post written", "slug", post.Slug, "path", post.Path, "draft", post.Draft, "images", post.Images.Fetched)
	return Result{Post: post, Images: outcomes, Categories: stats.Count(rec.Categories)}
}

// failed marks the post as skipped. Nothing written for it counts toward
// the report.
func (c *converter) failed(post models.PostResult, err error) Result {
	c.logger.Warn("Post conversion failed", "entry", post.Ordinal, "post_id", post.ID, "error", err)
	post.Status = models.PostFailed
	post.Error = err.Error()
	post.Path = ""
	post.Images = models.ImageStats{}
	return Result{Post: post}
}
