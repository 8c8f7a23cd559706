// Package hugo writes converted posts to disk as Hugo page bundles:
// posts/<slug>/index.md plus the post's images under posts/<slug>/images/.
package hugo

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/blogger2hugo/models"
	"github.com/dtnitsch/blogger2hugo/pkg/storage"
)

// Bundle layout names.
const (
	PostsDir  = "posts"
	ImagesDir = "images"
	IndexFile = "index.md"
)

// FrontMatter is the YAML block at the top of every index file. Field order
// here is emission order, so output is stable across runs.
type FrontMatter struct {
	Title       string    `yaml:"title"`
	Date        time.Time `yaml:"date,omitempty"`
	Lastmod     time.Time `yaml:"lastmod,omitempty"`
	Draft       bool      `yaml:"draft"`
	Description string    `yaml:"description,omitempty"`
	Language    string    `yaml:"language,omitempty"`
	Aliases     []string  `yaml:"aliases,omitempty"`
	Categories  []string  `yaml:"categories,omitempty"`
}

// Extras carries optional front-matter enrichments computed upstream.
type Extras struct {
	Description string
	Language    string
}

// Emitter assembles and writes one bundle per post under a fixed output
// root (typically a Hugo site's content directory).
type Emitter struct {
	root  string
	store *storage.Storage
}

func NewEmitter(root string) *Emitter {
	return &Emitter{root: root, store: &storage.Storage{}}
}

// PostDir returns the bundle directory for slug.
func (e *Emitter) PostDir(slug string) string {
	return filepath.Join(e.root, PostsDir, slug)
}

// Emit writes the bundle for one converted post. Existing files for the
// same slug are overwritten, so re-running a conversion is idempotent.
func (e *Emitter) Emit(rec models.PostRecord, m models.SlugMapping, body string, imgs []models.ImageRef, extra Extras) (models.EmitResult, error) {
	postDir := e.PostDir(m.Slug)
	imageDir := filepath.Join(postDir, ImagesDir)

	if err := e.store.EnsureDir(postDir); err != nil {
		return models.EmitResult{}, err
	}
	if err := e.store.EnsureDir(imageDir); err != nil {
		return models.EmitResult{}, err
	}

	content, err := render(rec, m, body, extra)
	if err != nil {
		return models.EmitResult{}, err
	}

	indexPath := filepath.Join(postDir, IndexFile)
	if err := e.store.SaveFile(indexPath, content); err != nil {
		return models.EmitResult{}, err
	}

	result := models.EmitResult{
		IndexPath: indexPath,
		Written:   []string{indexPath},
	}
	for _, img := range imgs {
		imgPath := filepath.Join(imageDir, img.LocalName)
		if err := e.store.SaveFile(imgPath, img.Bytes); err != nil {
			return result, fmt.Errorf("failed to write image %s: %w", img.LocalName, err)
		}
		result.Written = append(result.Written, imgPath)
	}
	return result, nil
}

func render(rec models.PostRecord, m models.SlugMapping, body string, extra Extras) ([]byte, error) {
	fm := FrontMatter{
		Title:       rec.Title,
		Date:        rec.Published,
		Lastmod:     rec.Updated,
		Draft:       rec.Draft(),
		Description: extra.Description,
		Language:    extra.Language,
		Aliases:     m.Aliases,
		Categories:  rec.Categories,
	}
	meta, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(meta)
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}
