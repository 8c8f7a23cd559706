// Package images resolves remote image references into post-local files.
package images

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/dtnitsch/blogger2hugo/models"
	"github.com/dtnitsch/blogger2hugo/pkg/fetcher"
	"github.com/dtnitsch/blogger2hugo/pkg/slug"
)

const defaultExt = ".jpg"

// Resolver downloads the images of a single post, memoizing by source URL so
// a URL referenced twice costs one fetch and one local file. Fetch failures
// are recorded, never raised: the post keeps its remote URL.
type Resolver struct {
	ctx     context.Context
	fetcher *fetcher.Fetcher

	memo     map[string]string // source URL -> markdown target, local or fallback
	names    map[string]bool   // local names already handed out in this post
	reused   int
	refs     []models.ImageRef
	failures []models.ImageFailure
}

// New returns a Resolver scoped to one post. ctx bounds every fetch issued
// through Resolve.
func New(ctx context.Context, f *fetcher.Fetcher) *Resolver {
	return &Resolver{
		ctx:     ctx,
		fetcher: f,
		memo:    make(map[string]string),
		names:   make(map[string]bool),
	}
}

// Resolve returns the markdown target for src: images/<localName> after a
// successful fetch, or src itself when the fetch fails.
func (r *Resolver) Resolve(src, alt string) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return src
	}
	if target, ok := r.memo[src]; ok {
		r.reused++
		return target
	}

	body, err := r.fetcher.GetBytes(r.ctx, src)
	if err != nil {
		r.failures = append(r.failures, models.ImageFailure{SourceURL: src, Reason: err.Error()})
		r.memo[src] = src
		return src
	}

	name := r.claimName(src)
	r.refs = append(r.refs, models.ImageRef{
		SourceURL: src,
		LocalName: name,
		AltText:   alt,
		Bytes:     body,
	})
	target := "images/" + name
	r.memo[src] = target
	return target
}

// Refs lists the successfully fetched images in resolution order.
func (r *Resolver) Refs() []models.ImageRef { return r.refs }

// Failures lists fetch failures in encounter order.
func (r *Resolver) Failures() []models.ImageFailure { return r.failures }

// Reused reports how many references were served from the per-post memo.
func (r *Resolver) Reused() int { return r.reused }

// claimName derives a collision-safe local filename from the URL's final
// path segment, cleaned with the slug rules. Distinct URLs that clean to
// the same name get a numeric suffix before the extension.
func (r *Resolver) claimName(src string) string {
	stem, ext := splitName(src)
	name := stem + ext
	for n := 2; r.names[name]; n++ {
		name = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}
	r.names[name] = true
	return name
}

func splitName(src string) (stem, ext string) {
	trimmed := src
	if u, err := url.Parse(src); err == nil {
		trimmed = u.Path
	} else if i := strings.IndexAny(src, "?#"); i >= 0 {
		trimmed = src[:i]
	}

	base := path.Base(trimmed)
	if base == "." || base == "/" {
		base = ""
	}

	rawExt := path.Ext(base)
	ext = strings.ToLower(rawExt)
	if len(ext) > 5 {
		ext = ext[:5]
	}
	if ext == "" || slug.Clean(ext) != ext {
		ext = defaultExt
	}

	stem = slug.Clean(strings.TrimSuffix(base, rawExt))
	if stem == "" {
		stem = "image"
	}
	return stem, ext
}
