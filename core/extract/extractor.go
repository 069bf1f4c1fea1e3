// Package extract pulls typed records out of catalog pages.
//
// Every page type has its own extractor built on a schema from schema.go.
// Listings are returned as lazy iter.Seq2 sequences: rows are read as the
// consumer pulls them, a per-row failure is yielded as an error and the
// walk moves on to the next row if the consumer keeps ranging. Materials
// subpages recurse through a core.Fetcher, see Resolver.
package extract

import (
	"iter"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/coursepipe/core"
	"github.com/gaurav-prasanna/coursepipe/core/chunk"
	"github.com/gaurav-prasanna/coursepipe/core/page"
)

// tableRows selects the schema's cells, drops the leading padding and cuts
// the remainder into rows. Only whole rows are accepted.
func tableRows(c *page.Content, s TableSchema) (iter.Seq[[]*goquery.Selection], error) {
	var cells []*goquery.Selection
	for _, cell := range c.Select(s.Cells).EachIter() {
		cells = append(cells, cell)
	}
	if len(cells) <= s.Skip {
		return chunk.Rows[*goquery.Selection](nil, s.Width), nil
	}
	cells = cells[s.Skip:]
	if err := chunk.Aligned(len(cells), s.Width); err != nil {
		return nil, pageError(s.Version, "table is not made of whole rows", err)
	}
	return chunk.Rows(cells, s.Width), nil
}

// linkCell reads the first element child of a cell as a link.
func linkCell(cell *goquery.Selection) (core.Link, error) {
	child, err := page.FirstElementChild(cell)
	if err != nil {
		return core.Link{}, err
	}
	return page.LinkOf(child)
}

// links yields every anchor matched by sel as a Link.
func links(schema string, sel *goquery.Selection) iter.Seq2[core.Link, error] {
	return func(yield func(core.Link, error) bool) {
		for i, a := range sel.EachIter() {
			link, err := page.LinkOf(a)
			if err != nil {
				if !yield(core.Link{}, rowError(schema, i, "malformed link", err)) {
					return
				}
				continue
			}
			if !yield(link, nil) {
				return
			}
		}
	}
}
