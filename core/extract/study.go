package extract

import (
	"iter"

	"github.com/gaurav-prasanna/coursepipe/core"
	"github.com/gaurav-prasanna/coursepipe/core/page"
)

// Courses lists the courses of a study plan page as (abbreviation, link) pairs.
// The abbreviation is the row header; the link is the row's "bar" anchor.
func Courses(c *page.Content) iter.Seq2[core.Link, error] {
	s := StudyListingV1
	return func(yield func(core.Link, error) bool) {
		for i, row := range c.Select(s.Rows).EachIter() {
			header := row.FindMatcher(s.Header).First()
			if header.Length() == 0 {
				if !yield(core.Link{}, rowError(s.Version, i, "row has no header cell", nil)) {
					return
				}
				continue
			}
			anchor := row.FindMatcher(s.Link).First()
			if anchor.Length() == 0 {
				if !yield(core.Link{}, rowError(s.Version, i, "row has no course link", nil)) {
					return
				}
				continue
			}

			// Only the anchor's target matters; it often wraps an icon.
			href, err := page.Href(anchor)
			if err != nil {
				if !yield(core.Link{}, rowError(s.Version, i, "malformed course link", err)) {
					return
				}
				continue
			}
			link := core.Link{Text: page.Text(header), Href: href}
			if link.Text == "" {
				if !yield(core.Link{}, rowError(s.Version, i, "empty course header", nil)) {
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
