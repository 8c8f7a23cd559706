package pipeline

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/blogger2hugo/models"
)

const feedHeader = `<?xml version='1.0' encoding='UTF-8'?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:blogger="http://schemas.google.com/blogger/2018">
<id>tag:blogger.com,1999:blog-777</id>
<title>Pipeline Blog</title>
`

// postEntry renders one POST entry. An empty filename omits the
// blogger:filename element, the way draft exports do.
func postEntry(num int, title, filename, status, bodyHTML string, categories ...string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<entry>\n<id>tag:blogger.com,1999:blog-777.post-%d</id>\n", num)
	fmt.Fprintf(&sb, "<title>%s</title>\n", title)
	sb.WriteString("<published>2015-03-05T10:00:00.000-08:00</published>\n")
	sb.WriteString("<updated>2015-03-06T08:00:00.000-08:00</updated>\n")
	for _, c := range categories {
		fmt.Fprintf(&sb, "<category term=%q/>\n", c)
	}
	var esc bytes.Buffer
	xml.EscapeText(&esc, []byte(bodyHTML))
	fmt.Fprintf(&sb, "<content type=\"html\">%s</content>\n", esc.String())
	sb.WriteString("<blogger:type>POST</blogger:type>\n")
	fmt.Fprintf(&sb, "<blogger:status>%s</blogger:status>\n", status)
	if filename != "" {
		fmt.Fprintf(&sb, "<blogger:filename>%s</blogger:filename>\n", filename)
	}
	sb.WriteString("</entry>\n")
	return sb.String()
}

func writeArchive(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.atom")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing archive: %v", err)
	}
	return path
}

// newImageServer serves deterministic bytes for every path except /missing
// prefixed ones, which 404.
func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/missing") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, "png-bytes:%s", r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runArchive(t *testing.T, archive string) (models.RunReport, string, error) {
	t.Helper()
	outDir := filepath.Join(t.TempDir(), "content")
	report, err := Run(context.Background(), Options{
		Config: models.ConvertConfig{
			ArchivePath:  archive,
			OutputDir:    outDir,
			Workers:      2,
			FetchTimeout: 5 * time.Second,
		},
	})
	return report, outDir, err
}

func readBundleIndex(t *testing.T, outDir, slug string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(outDir, "posts", slug, "index.md"))
	if err != nil {
		t.Fatalf("reading bundle index: %v", err)
	}
	return string(data)
}

func TestRun_WritesBundle(t *testing.T) {
	srv := newImageServer(t)
	body := `<p>Hi</p><img src="` + srv.URL + `/y%20z.png"/>`
	archive := writeArchive(t, feedHeader+
		postEntry(100, "Hello, World!", "/2015/03/hello-world.html", "LIVE", body, "go", "life")+
		"</feed>")

	report, outDir, err := runArchive(t, archive)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	content := readBundleIndex(t, outDir, "hello-world")
	if !strings.Contains(content, "title: Hello, World!") {
		t.Errorf("index.md missing title, got:\n%s", content)
	}
	if !strings.Contains(content, "- /2015/03/hello-world.html") {
		t.Errorf("index.md missing alias, got:\n%s", content)
	}
	if !strings.Contains(content, "- go") || !strings.Contains(content, "- life") {
		t.Errorf("index.md missing categories, got:\n%s", content)
	}
	if !strings.HasSuffix(content, "Hi\n\n![](images/y-z.png)\n") {
		t.Errorf("index.md body = %q, want it to end with converted markdown", content)
	}

	img, err := os.ReadFile(filepath.Join(outDir, "posts", "hello-world", "images", "y-z.png"))
	if err != nil {
		t.Fatalf("reading image: %v", err)
	}
	if string(img) != "png-bytes:/y z.png" {
		t.Errorf("image bytes = %q", img)
	}

	s := report.Summary
	if s.Posts != 1 || s.Published != 1 || s.Failed != 0 {
		t.Errorf("summary = %+v, want 1 published post", s)
	}
	if s.ImagesFetched != 1 || s.ImagesFailed != 0 {
		t.Errorf("image counts = %+v, want 1 fetched", s)
	}
	if got := report.Posts[0].Path; got != filepath.Join(outDir, "posts", "hello-world", "index.md") {
		t.Errorf("Path = %q", got)
	}
	if report.CategoryCounts["go"] != 1 {
		t.Errorf("CategoryCounts = %v, want go counted once", report.CategoryCounts)
	}
}

func TestRun_SlugCollisionGetsSuffix(t *testing.T) {
	archive := writeArchive(t, feedHeader+
		postEntry(1, "Launch", "/2020/01/launch.html", "LIVE", "<p>first</p>")+
		postEntry(2, "Launch again", "/2021/07/launch.html", "LIVE", "<p>second</p>")+
		"</feed>")

	report, outDir, err := runArchive(t, archive)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := report.Posts[0].Slug; got != "launch" {
		t.Errorf("first slug = %q, want %q", got, "launch")
	}
	if got := report.Posts[1].Slug; got != "launch-2" {
		t.Errorf("second slug = %q, want %q", got, "launch-2")
	}
	if !report.Posts[1].Collided || report.Posts[0].Collided {
		t.Errorf("collision flags = %v/%v, want only the second collided",
			report.Posts[0].Collided, report.Posts[1].Collided)
	}
	if report.Summary.SlugCollisions != 1 {
		t.Errorf("SlugCollisions = %d, want 1", report.Summary.SlugCollisions)
	}

	// Each bundle keeps its own legacy alias.
	second := readBundleIndex(t, outDir, "launch-2")
	if !strings.Contains(second, "- /2021/07/launch.html") {
		t.Errorf("suffixed bundle missing its alias, got:\n%s", second)
	}
}

func TestRun_ImageFailureKeepsPost(t *testing.T) {
	srv := newImageServer(t)
	remote := srv.URL + "/missing/z.png"
	body := `<p>look</p><img src="` + remote + `" alt="pic"/>`
	archive := writeArchive(t, feedHeader+
		postEntry(5, "Gallery", "/2019/02/gallery.html", "LIVE", body)+
		"</feed>")

	report, outDir, err := runArchive(t, archive)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	content := readBundleIndex(t, outDir, "gallery")
	if !strings.Contains(content, "![pic]("+remote+")") {
		t.Errorf("failed image should keep remote url, got:\n%s", content)
	}

	s := report.Summary
	if s.Posts != 1 || s.Failed != 0 {
		t.Errorf("summary = %+v, want post still written", s)
	}
	if s.ImagesFetched != 0 || s.ImagesFailed != 1 {
		t.Errorf("image counts = %+v, want 1 failed", s)
	}
	if len(report.Images) != 1 {
		t.Fatalf("len(Images) = %d, want 1", len(report.Images))
	}
	outcome := report.Images[0]
	if outcome.Status != models.ImageFailed || outcome.SourceURL != remote || outcome.Error == "" {
		t.Errorf("outcome = %+v", outcome)
	}
}

func TestRun_BadEntryDoesNotStopRun(t *testing.T) {
	archive := writeArchive(t, feedHeader+
		postEntry(10, "", "", "LIVE", "<p>orphan</p>")+
		postEntry(11, "Survivor", "/2018/09/survivor.html", "LIVE", "<p>still here</p>")+
		"</feed>")

	report, outDir, err := runArchive(t, archive)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Summary.Posts != 2 || report.Summary.Failed != 1 || report.Summary.Published != 1 {
		t.Fatalf("summary = %+v, want one failed and one published", report.Summary)
	}

	failed := report.Posts[0]
	if failed.Ordinal != 1 || failed.Status != models.PostFailed {
		t.Errorf("failed post = %+v", failed)
	}
	if failed.Error != "missing title" {
		t.Errorf("Error = %q, want %q", failed.Error, "missing title")
	}

	written := report.Posts[1]
	if written.Slug != "survivor" || written.Status != models.PostWritten {
		t.Errorf("written post = %+v", written)
	}
	if _, err := os.Stat(filepath.Join(outDir, "posts", "survivor", "index.md")); err != nil {
		t.Errorf("surviving bundle not written: %v", err)
	}
}

func TestRun_TruncatedArchiveIsFatal(t *testing.T) {
	// No closing </feed>: the first post decodes, then the stream dies.
	archive := writeArchive(t, feedHeader+
		postEntry(20, "Before the cut", "/2017/05/before-the-cut.html", "LIVE", "<p>made it</p>"))

	report, outDir, err := runArchive(t, archive)
	if err == nil {
		t.Fatal("Run() error = nil, want archive error")
	}
	var archiveErr *models.ArchiveError
	if !errors.As(err, &archiveErr) {
		t.Fatalf("error type = %T, want *models.ArchiveError", err)
	}
	if archiveErr.Path != archive {
		t.Errorf("Path = %q, want %q", archiveErr.Path, archive)
	}

	// Work done before the failure is still reported and on disk.
	if report.Summary.Posts != 1 || report.Summary.Published != 1 {
		t.Errorf("summary = %+v, want the post before the cut", report.Summary)
	}
	if _, err := os.Stat(filepath.Join(outDir, "posts", "before-the-cut", "index.md")); err != nil {
		t.Errorf("bundle not written: %v", err)
	}
}

func TestRun_MissingArchiveIsFatal(t *testing.T) {
	report, _, err := runArchive(t, filepath.Join(t.TempDir(), "nope.atom"))
	if err == nil {
		t.Fatal("Run() error = nil, want archive error")
	}
	var archiveErr *models.ArchiveError
	if !errors.As(err, &archiveErr) {
		t.Fatalf("error type = %T, want *models.ArchiveError", err)
	}
	if report.Summary.Posts != 0 {
		t.Errorf("Posts = %d, want 0", report.Summary.Posts)
	}
}

func TestRun_DraftPost(t *testing.T) {
	archive := writeArchive(t, feedHeader+
		postEntry(30, "Work In Progress", "", "DRAFT", "<p>someday</p>")+
		"</feed>")

	outDir := filepath.Join(t.TempDir(), "content")
	report, err := Run(context.Background(), Options{
		Config: models.ConvertConfig{ArchivePath: archive, OutputDir: outDir},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	content := readBundleIndex(t, outDir, "work-in-progress")
	if !strings.Contains(content, "draft: true") {
		t.Errorf("draft flag missing, got:\n%s", content)
	}
	if strings.Contains(content, "aliases:") {
		t.Errorf("draft without permalink should have no aliases, got:\n%s", content)
	}
	if report.Summary.Drafts != 1 || report.Summary.Published != 0 {
		t.Errorf("summary = %+v, want 1 draft", report.Summary)
	}
}

func TestRun_RerunIsIdempotent(t *testing.T) {
	srv := newImageServer(t)
	body := `<p>Hi</p><img src="` + srv.URL + `/shot.png"/>`
	archive := writeArchive(t, feedHeader+
		postEntry(40, "Stable", "/2016/11/stable.html", "LIVE", body)+
		"</feed>")

	outDir := filepath.Join(t.TempDir(), "content")
	opts := Options{Config: models.ConvertConfig{ArchivePath: archive, OutputDir: outDir}}

	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	first, err := os.ReadFile(filepath.Join(outDir, "posts", "stable", "index.md"))
	if err != nil {
		t.Fatalf("reading first index: %v", err)
	}

	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	second, err := os.ReadFile(filepath.Join(outDir, "posts", "stable", "index.md"))
	if err != nil {
		t.Fatalf("reading second index: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("re-run changed output:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}
