package db

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

func RunsAction(c *cli.Context) error {
	database, err := openHistory(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	limit := c.Int("limit")
	runs, err := database.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	// Print table header
	fmt.Printf("%-6s %-20s %-7s %-7s %-7s %-7s %-14s %-30s\n",
		"ID", "Started", "Posts", "Pub", "Drafts", "Failed", "Images (f/r/x)", "Archive")
	fmt.Println(strings.Repeat("-", 110))

	// Print each run
	for _, r := range runs {
		images := fmt.Sprintf("%d/%d/%d", r.ImagesFetched, r.ImagesReused, r.ImagesFailed)
		fmt.Printf("%-6d %-20s %-7d %-7d %-7d %-7d %-14s %-30s\n",
			r.RunID,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Posts,
			r.Published,
			r.Drafts,
			r.Failed,
			images,
			r.ArchivePath,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'blogger2hugo db run <id>' to see details\n")

	return nil
}

// RunAction shows details for a specific run
func RunAction(c *cli.Context) error {
	database, err := openHistory(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	// Get run info
	run, err := database.GetRunByID(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	// Get posts for this run
	posts, err := database.GetRunPosts(runID)
	if err != nil {
		return fmt.Errorf("failed to get run posts: %w", err)
	}

	// Get images for this run
	images, err := database.GetRunImages(runID)
	if err != nil {
		return fmt.Errorf("failed to get run images: %w", err)
	}

	// Print run details
	fmt.Printf("Run %d\n", run.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Archive:     %s\n", run.ArchivePath)
	fmt.Printf("Output:      %s\n", run.OutputDir)
	fmt.Printf("Started:     %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Finished:    %s\n", run.FinishedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Posts:       %d total (%d published, %d drafts, %d failed)\n",
		run.Posts, run.Published, run.Drafts, run.Failed)
	fmt.Printf("Images:      %d fetched, %d reused, %d kept remote\n",
		run.ImagesFetched, run.ImagesReused, run.ImagesFailed)
	fmt.Printf("Slugs:       %d collisions, %d alias warnings\n",
		run.SlugCollisions, run.AliasWarnings)

	// Print posts
	if len(posts) > 0 {
		fmt.Printf("\nPosts (%d):\n", len(posts))
		fmt.Println(strings.Repeat("-", 60))
		for _, p := range posts {
			name := p.Title
			if name == "" {
				name = p.PostID
			}
			fmt.Printf("%3d. [%s] %s\n", p.Ordinal, p.Status, name)
			if p.Status == "failed" {
				fmt.Printf("     Error: %s\n", p.Error)
				continue
			}
			fmt.Printf("     Slug: %s | Draft: %t | Path: %s\n", p.Slug, p.Draft, p.Path)
			if p.Collided {
				fmt.Printf("     Note: slug suffixed to avoid a collision\n")
			}
			if p.AliasWarning != "" {
				fmt.Printf("     Note: %s\n", p.AliasWarning)
			}
		}
	}

	// Print image failures only; successes are visible in the output tree
	var failed []string
	for _, img := range images {
		if img.Status == "failed" {
			failed = append(failed, fmt.Sprintf("[%s] %s: %s", img.PostSlug, img.SourceURL, img.Error))
		}
	}
	if len(failed) > 0 {
		fmt.Printf("\nImages kept remote (%d):\n", len(failed))
		fmt.Println(strings.Repeat("-", 60))
		for _, line := range failed {
			fmt.Printf("  %s\n", line)
		}
	}

	fmt.Printf("\nTip: Use 'blogger2hugo preview <bundle-dir>' to render a post\n")

	return nil
}
