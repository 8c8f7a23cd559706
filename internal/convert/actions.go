package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dtnitsch/blogger2hugo/models"
	dbpkg "github.com/dtnitsch/blogger2hugo/pkg/db"
	"github.com/dtnitsch/blogger2hugo/pkg/enrich"
	"github.com/dtnitsch/blogger2hugo/pkg/pipeline"
	"github.com/dtnitsch/blogger2hugo/pkg/stats"
	"github.com/urfave/cli/v2"
)

func ConvertAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	if c.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: No archive provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  blogger2hugo convert blog-export.atom                # Bundles land under ./content")
		fmt.Fprintln(os.Stderr, "  blogger2hugo convert blog-export.atom site/content   # Or under a site's content dir")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Need help? Run: blogger2hugo convert --help")
		os.Exit(1)
	}

	timeout, err := time.ParseDuration(c.String("timeout"))
	if err != nil {
		logger.Error("invalid timeout duration", "error", err)
		os.Exit(2)
	}

	outputDir := c.Args().Get(1)
	if outputDir == "" {
		outputDir = "content"
	}

	config := models.ConvertConfig{
		ArchivePath:    c.Args().Get(0),
		OutputDir:      outputDir,
		Workers:        c.Int("workers"),
		FetchTimeout:   timeout,
		Describe:       c.Bool("describe"),
		DetectLanguage: c.Bool("detect-language"),
	}

	report, runErr := pipeline.Run(context.Background(), pipeline.Options{
		Config:   config,
		Logger:   logger,
		Enricher: enrich.New(config.Describe, config.DetectLanguage),
	})

	// The report covers everything converted before a failure, so print it
	// either way.
	printSummary(os.Stderr, report)

	if runErr != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", runErr), 1)
	}

	if !c.Bool("no-history") {
		recordHistory(c, logger, report)
	}
	return nil
}

// printSummary writes the human-readable wrap-up. Everything goes to stderr
// so stdout stays clean for scripting.
func printSummary(w io.Writer, report models.RunReport) {
	s := report.Summary
	elapsed := report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond)

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Converted %d posts (%d published, %d drafts, %d failed) in %s\n",
		s.Posts, s.Published, s.Drafts, s.Failed, elapsed)
	fmt.Fprintf(w, "Images: %d fetched, %d reused, %d kept remote\n",
		s.ImagesFetched, s.ImagesReused, s.ImagesFailed)
	if s.SlugCollisions > 0 {
		fmt.Fprintf(w, "Slug collisions resolved by suffixing: %d\n", s.SlugCollisions)
	}
	if s.AliasWarnings > 0 {
		fmt.Fprintf(w, "Legacy urls kept as aliases despite unusual shape: %d\n", s.AliasWarnings)
	}

	if s.Failed > 0 {
		fmt.Fprintf(w, "\nFailed posts (%d):\n", s.Failed)
		for _, p := range report.Posts {
			if p.Status != models.PostFailed {
				continue
			}
			name := p.Title
			if name == "" {
				name = p.ID
			}
			if name == "" {
				name = "(unnamed entry)"
			}
			fmt.Fprintf(w, "  %2d. %s: %s\n", p.Ordinal, name, p.Error)
		}
	}

	var remote []models.ImageOutcome
	for _, img := range report.Images {
		if img.Status == models.ImageFailed {
			remote = append(remote, img)
		}
	}
	if len(remote) > 0 {
		fmt.Fprintf(w, "\nImages left pointing at their remote urls (%d):\n", len(remote))
		for _, img := range remote {
			fmt.Fprintf(w, "  - [%s] %s: %s\n", img.PostSlug, img.SourceURL, img.Error)
		}
	}

	if top := stats.TopN(report.CategoryCounts, 5); len(top) > 0 {
		fmt.Fprintf(w, "\nTop categories: %s\n", strings.Join(top, ", "))
	}
	fmt.Fprintf(w, "\nContent written to %s\n", report.OutputDir)
}

// recordHistory stores the finished run in the local history database.
// History is best effort: failures here warn but never fail the conversion.
func recordHistory(c *cli.Context, logger *slog.Logger, report models.RunReport) {
	var (
		database *dbpkg.DB
		err      error
	)
	if path := c.String("db"); path != "" {
		database, err = dbpkg.OpenPath(path)
	} else {
		database, err = dbpkg.Open()
	}
	if err != nil {
		logger.Warn("Failed to open history database", "error", err)
		return
	}
	defer database.Close()

	runID, err := database.RecordRun(report)
	if err != nil {
		logger.Warn("Failed to record run", "error", err)
		return
	}
	logger.Info("Run recorded", "run_id", runID, "db", database.Path())
	fmt.Fprintf(os.Stderr, "Run recorded as #%d. See it with: blogger2hugo db run %d\n", runID, runID)
}
