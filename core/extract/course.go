package extract

import (
	"iter"

	"github.com/gaurav-prasanna/coursepipe/core"
	"github.com/gaurav-prasanna/coursepipe/core/page"
)

// Tasks lists the graded tasks linked from a course page.
func Tasks(c *page.Content) iter.Seq2[core.Link, error] {
	return links(CourseListingV1.Version, c.Select(CourseListingV1.Tasks))
}

// MaterialsLink finds the "files for this course" entry in the course
// navigation. Courses without materials report false.
func MaterialsLink(c *page.Content) (string, bool) {
	s := CourseListingV1
	for _, a := range c.Select(s.Navigation).EachIter() {
		if page.Text(a) != s.MaterialsLabel {
			continue
		}
		link, err := page.LinkOf(a)
		if err != nil {
			return "", false
		}
		return link.Href, true
	}
	return "", false
}
