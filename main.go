package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	convertcmd "github.com/dtnitsch/blogger2hugo/internal/convert"
	dbcmd "github.com/dtnitsch/blogger2hugo/internal/db"
	previewcmd "github.com/dtnitsch/blogger2hugo/internal/preview"
	"github.com/dtnitsch/blogger2hugo/models"
	"github.com/dtnitsch/blogger2hugo/pkg/fetcher"
	"github.com/dtnitsch/blogger2hugo/pkg/help"
)

func main() {
	app := &cli.App{
		Name:  "blogger2hugo",
		Usage: "Convert a Blogger export archive into Hugo content bundles",
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Convert an Atom export file into Hugo page bundles",
				ArgsUsage: "<archive.atom> [output-dir]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Value: models.DefaultWorkers,
						Usage: "Number of posts converted concurrently",
					},
					&cli.StringFlag{
						Name:  "timeout",
						Value: fetcher.DefaultTimeout.String(),
						Usage: "Per-image download timeout (e.g. 10s, 1m)",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Only log errors",
					},
					&cli.BoolFlag{
						Name:  "describe",
						Usage: "Derive a description front-matter key from each post body",
					},
					&cli.BoolFlag{
						Name:  "detect-language",
						Usage: "Detect each post's language and emit a language key",
					},
					&cli.BoolFlag{
						Name:  "no-history",
						Usage: "Skip recording the run in the history database",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to the history database (default: next to the binary)",
					},
				},
				Action: convertcmd.ConvertAction,
			},
			{
				Name:      "preview",
				Usage:     "Render a converted bundle back to HTML to check fidelity",
				ArgsUsage: "<bundle-dir | index.md>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "Write the HTML to a file instead of stdout",
					},
				},
				Action: previewcmd.PreviewAction,
			},
			{
				Name:  "db",
				Usage: "Inspect the run-history database",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to the history database (default: next to the binary)",
					},
				},
				Subcommands: []*cli.Command{
					{
						Name:  "runs",
						Usage: "List recorded conversion runs",
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Value: 20,
								Usage: "Maximum number of runs to list (0 = all)",
							},
						},
						Action: dbcmd.RunsAction,
					},
					{
						Name:      "run",
						Usage:     "Show per-post and per-image detail for a run",
						ArgsUsage: "[run-id]",
						Action:    dbcmd.RunAction,
					},
				},
			},
			{
				Name:  "quickstart",
				Usage: "Print a YAML cheat sheet of common workflows",
				Action: func(c *cli.Context) error {
					fmt.Println(help.QuickstartYAML)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
