package preview

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/adrg/frontmatter"
	"github.com/urfave/cli/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/dtnitsch/blogger2hugo/pkg/hugo"
	"github.com/dtnitsch/blogger2hugo/pkg/storage"
)

// bundleMeta is the slice of front matter the preview needs. Dates stay
// strings here; frontmatter's YAML decoder has no time.Time support.
type bundleMeta struct {
	Title string `yaml:"title"`
	Date  string `yaml:"date"`
	Draft bool   `yaml:"draft"`
}

// PreviewAction renders a converted bundle's Markdown back to HTML so the
// conversion can be eyeballed without running Hugo. Raw HTML fragments pass
// through unchanged, mirroring how Hugo treats them.
func PreviewAction(c *cli.Context) error {
	if c.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: No bundle provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  blogger2hugo preview content/posts/hello-world")
		fmt.Fprintln(os.Stderr, "  blogger2hugo preview content/posts/hello-world/index.md --out preview.html")
		os.Exit(1)
	}

	indexPath := c.Args().First()
	if info, err := os.Stat(indexPath); err == nil && info.IsDir() {
		indexPath = filepath.Join(indexPath, hugo.IndexFile)
	}

	store := &storage.Storage{}
	source, err := store.ReadFile(indexPath)
	if err != nil {
		return fmt.Errorf("failed to read bundle: %w", err)
	}

	var fm bundleMeta
	body, err := frontmatter.Parse(bytes.NewReader(source), &fm)
	if err != nil {
		return fmt.Errorf("failed to parse front matter of %s: %w", indexPath, err)
	}

	rendered, err := Render(body)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", indexPath, err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	page.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(fm.Title)))
	page.WriteString("<meta charset=\"utf-8\">\n</head>\n<body>\n")
	page.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(fm.Title)))
	if fm.Date != "" {
		page.WriteString(fmt.Sprintf("<p><time>%s</time></p>\n", html.EscapeString(fm.Date)))
	}
	if fm.Draft {
		page.WriteString("<p><em>draft</em></p>\n")
	}
	page.Write(rendered)
	page.WriteString("</body>\n</html>\n")

	if out := c.String("out"); out != "" {
		if err := store.SaveFile(out, page.Bytes()); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Preview written to %s\n", out)
		return nil
	}
	fmt.Print(page.String())
	return nil
}

// engine is shared across renders; goldmark instances are stateless.
// Table support and raw-HTML passthrough match what the converter emits.
var engine = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(ghtml.WithUnsafe()),
)

// Render converts bundle Markdown to an HTML fragment.
func Render(markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.Bytes(), nil
}
