package extract

import (
	"iter"
	"strings"

	"github.com/gaurav-prasanna/coursepipe/core"
	"github.com/gaurav-prasanna/coursepipe/core/page"
)

// TaskFilesLink returns the link to the task's file listing. Tasks without
// uploaded files have no such link and report false.
func TaskFilesLink(c *page.Content) (string, bool) {
	s := TaskPageV1
	for _, a := range c.Select(s.Anchors).EachIter() {
		href, ok := a.Attr("href")
		if ok && strings.Contains(href, s.FilesMarker) {
			return href, true
		}
	}
	return "", false
}

// TaskFiles lists the files of a task. The academic year is the last
// '/'-separated segment of the page heading and is shared by every file.
func TaskFiles(c *page.Content) iter.Seq2[core.TaskFile, error] {
	s := TaskPageV1
	return func(yield func(core.TaskFile, error) bool) {
		heading, ok := c.SelectFirst(s.Heading)
		if !ok {
			yield(core.TaskFile{}, pageError(s.Version, "page has no heading", nil))
			return
		}
		year := Year(heading.Text())
		if year == "" {
			yield(core.TaskFile{}, pageError(s.Version, "heading carries no year", nil))
			return
		}

		for link, err := range links(s.Version, c.Select(s.FileAnchors)) {
			if err != nil {
				if !yield(core.TaskFile{}, err) {
					return
				}
				continue
			}
			if !yield(core.TaskFile{Name: link.Text, Year: year, Href: link.Href}, nil) {
				return
			}
		}
	}
}

// Year returns the trailing segment of a heading such as "Programming 1/2023".
func Year(heading string) string {
	s := heading
	if i := strings.LastIndex(s, TaskPageV1.YearSplitter); i >= 0 {
		s = s[i+len(TaskPageV1.YearSplitter):]
	}
	return strings.TrimSpace(s)
}
