package extract

import (
	"iter"

	"github.com/gaurav-prasanna/coursepipe/core"
	"github.com/gaurav-prasanna/coursepipe/core/page"
)

// Materials lists the top-level materials folders of a course. Entries with
// a zero size have nothing to download and are left out.
func Materials(c *page.Content) iter.Seq2[core.Link, error] {
	s := MaterialsListingV1
	return func(yield func(core.Link, error) bool) {
		rows, err := tableRows(c, s)
		if err != nil {
			yield(core.Link{}, err)
			return
		}

		i := -1
		for row := range rows {
			i++
			size, err := ParseByteSize(row[s.SizeCol].Text())
			if err != nil {
				if !yield(core.Link{}, rowError(s.Version, i, "unreadable size", err)) {
					return
				}
				continue
			}
			if size <= 0 {
				continue
			}

			link, err := linkCell(row[s.LinkCol])
			if err != nil {
				if !yield(core.Link{}, rowError(s.Version, i, "malformed link cell", err)) {
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
