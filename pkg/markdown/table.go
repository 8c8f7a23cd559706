package markdown

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// tableMarkdown converts a table node to a pipe table. ok is false when the
// table cannot survive the trip: merged cells (colspan/rowspan), nested
// tables, or no usable rows. Those tables fall back to raw HTML.
//
// The first row becomes the header. Rows whose cells are all empty are
// dropped, remaining rows are padded to the widest row, and literal pipes
// inside cells are escaped.
func (w *writer) tableMarkdown(n *html.Node) (string, bool) {
	doc := goquery.NewDocumentFromNode(n)

	if doc.Find("table").Length() > 0 {
		return "", false
	}

	merged := false
	doc.Find("td,th").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		if _, ok := cell.Attr("colspan"); ok {
			merged = true
			return false
		}
		if _, ok := cell.Attr("rowspan"); ok {
			merged = true
			return false
		}
		return true
	})
	if merged {
		return "", false
	}

	var rows [][]string
	width := 0
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		empty := true
		tr.ChildrenFiltered("td,th").Each(func(_ int, cell *goquery.Selection) {
			text := w.capture(cell.Nodes[0])
			text = strings.ReplaceAll(text, "\n", " ")
			text = strings.ReplaceAll(text, "|", `\|`)
			if text != "" {
				empty = false
			}
			cells = append(cells, text)
		})
		if empty {
			return
		}
		if len(cells) > width {
			width = len(cells)
		}
		rows = append(rows, cells)
	})
	if len(rows) == 0 {
		return "", false
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i := 0; i < width; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}

	writeRow(rows[0])
	b.WriteString("|")
	for i := 0; i < width; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return strings.TrimRight(b.String(), "\n"), true
}
