// Package markdown converts Blogger post HTML into Markdown. Recognized
// elements become Markdown constructs; everything else is embedded as raw
// HTML in document order, which Hugo renders verbatim.
package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Resolver supplies the markdown target for an image reference. The images
// package implements it against live fetches; tests stub it.
type Resolver interface {
	Resolve(src, alt string) string
}

// Convert renders bodyHTML as Markdown. Paragraphs, line breaks, emphasis,
// strong, links, images, and simple tables become Markdown; any other
// element is embedded verbatim where it stood. Image targets come from res,
// invoked at the reference's position in the document. A nil res leaves
// image URLs untouched.
func Convert(bodyHTML string, res Resolver) (string, error) {
	nodes, err := parseFragment(bodyHTML)
	if err != nil {
		return "", fmt.Errorf("failed to parse post body: %w", err)
	}

	w := &writer{res: res}
	for _, n := range nodes {
		w.walk(n)
	}
	return w.markdown(), nil
}

func parseFragment(s string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(s), body)
}

// writer accumulates markdown output. Inline content flows into the current
// paragraph; block content closes it and stands alone. Blocks are joined
// with blank lines at the end.
type writer struct {
	res    Resolver
	blocks []string
	para   strings.Builder
}

func (w *writer) markdown() string {
	w.flushPara()
	return strings.Join(w.blocks, "\n\n")
}

func (w *writer) inline(s string) {
	w.para.WriteString(s)
}

func (w *writer) flushPara() {
	if text := strings.TrimSpace(w.para.String()); text != "" {
		w.blocks = append(w.blocks, text)
	}
	w.para.Reset()
}

func (w *writer) block(s string) {
	w.flushPara()
	if s = strings.TrimSpace(s); s != "" {
		w.blocks = append(w.blocks, s)
	}
}

func (w *writer) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.inline(collapseSpace(n.Data))
	case html.ElementNode:
		w.element(n)
	}
}

func (w *writer) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *writer) element(n *html.Node) {
	switch n.DataAtom {
	case atom.P:
		w.flushPara()
		w.children(n)
		w.flushPara()
	case atom.Br:
		w.inline("\n")
	case atom.Em, atom.I:
		w.wrap(n, "*")
	case atom.Strong, atom.B:
		w.wrap(n, "**")
	case atom.A:
		w.link(n)
	case atom.Img:
		w.image(n)
	case atom.Iframe:
		w.iframe(n)
	case atom.Table:
		if md, ok := w.tableMarkdown(n); ok {
			w.block(md)
		} else {
			w.raw(n)
		}
	default:
		w.raw(n)
	}
}

// capture renders n's children through a scratch writer and returns the
// result flattened to a single line, for use inside inline markup.
func (w *writer) capture(n *html.Node) string {
	sub := &writer{res: w.res}
	sub.children(n)
	sub.flushPara()
	return strings.TrimSpace(strings.Join(sub.blocks, " "))
}

func (w *writer) wrap(n *html.Node, mark string) {
	inner := w.capture(n)
	if inner == "" {
		return
	}
	w.inline(mark + inner + mark)
}

func (w *writer) link(n *html.Node) {
	href := strings.TrimSpace(attr(n, "href"))
	inner := w.capture(n)
	if href == "" {
		w.inline(inner)
		return
	}
	w.inline("[" + inner + "](" + href + ")")
}

func (w *writer) image(n *html.Node) {
	src := strings.TrimSpace(attr(n, "src"))
	if src == "" {
		return
	}
	alt := attr(n, "alt")
	target := src
	if w.res != nil {
		target = w.res.Resolve(src, alt)
	}
	w.inline("![" + alt + "](" + target + ")")
}

var (
	youtubeID     = regexp.MustCompile(`(?:youtube\.com/embed/|youtu\.be/)([\w-]+)`)
	googleDriveID = regexp.MustCompile(`drive\.google\.com/file/d/([^/?#]+)`)
)

// iframe handles the two embed kinds Blogger posts actually carry. YouTube
// players become Hugo's youtube shortcode, Google Drive viewers become a
// download link, anything else stays raw. A src-less iframe is dropped.
func (w *writer) iframe(n *html.Node) {
	src := strings.TrimSpace(attr(n, "src"))
	if src == "" {
		return
	}
	if m := youtubeID.FindStringSubmatch(src); m != nil {
		w.block("{{< youtube " + m[1] + " >}}")
		return
	}
	if m := googleDriveID.FindStringSubmatch(src); m != nil {
		w.block("[Download PDF](https://drive.google.com/uc?export=download&id=" + m[1] + ")")
		return
	}
	w.raw(n)
}

// raw embeds n verbatim. Block-level elements stand alone; inline ones join
// the running paragraph.
func (w *writer) raw(n *html.Node) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return
	}
	if blockLevel[n.DataAtom] {
		w.block(buf.String())
	} else {
		w.inline(buf.String())
	}
}

var blockLevel = map[atom.Atom]bool{
	atom.Address:    true,
	atom.Article:    true,
	atom.Aside:      true,
	atom.Blockquote: true,
	atom.Center:     true,
	atom.Div:        true,
	atom.Dl:         true,
	atom.Fieldset:   true,
	atom.Figure:     true,
	atom.Footer:     true,
	atom.Form:       true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Header:     true,
	atom.Hr:         true,
	atom.Iframe:     true,
	atom.Main:       true,
	atom.Nav:        true,
	atom.Noscript:   true,
	atom.Ol:         true,
	atom.Pre:        true,
	atom.Script:     true,
	atom.Section:    true,
	atom.Style:      true,
	atom.Table:      true,
	atom.Ul:         true,
	atom.Video:      true,
}

var spaceRuns = regexp.MustCompile(`\s+`)

func collapseSpace(s string) string {
	return spaceRuns.ReplaceAllString(s, " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
