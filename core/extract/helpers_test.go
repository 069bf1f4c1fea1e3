package extract_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/coursepipe/core"
)

// materialsPage renders a materials table with skip padding cells followed
// by the given rows. Cells are raw HTML.
func materialsPage(skip int, rows ...[]string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="content"><form><div class="table-holder"><table class="stbl"><tbody><tr>`)
	for i := 0; i < skip; i++ {
		fmt.Fprintf(&b, "<td>h%d</td>", i)
	}
	b.WriteString("</tr>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "<td>%s</td>", cell)
		}
		b.WriteString("</tr>")
	}
	b.WriteString(`</tbody></table></div></form></div></body></html>`)
	return b.String()
}

func anchor(text, href string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, href, text)
}

// materialsRow is a 6-wide top-level materials row.
func materialsRow(text, href, size string) []string {
	return []string{"1", "x", "y", anchor(text, href), size, "z"}
}

// subpageRow is a 7-wide subpage row; kind doubles as the size column.
func subpageRow(text, href, kind string) []string {
	return []string{"1", "x", "y", anchor(text, href), "z", kind, "w"}
}

func subpage(rows ...[]string) string {
	return materialsPage(11, rows...)
}

type fakeFetcher struct {
	pages map[string]string
	fail  map[string]error
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*core.FetchResult, error) {
	f.calls = append(f.calls, url)
	if err, ok := f.fail[url]; ok {
		return nil, err
	}
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("no page at %s", url)
	}
	return &core.FetchResult{URL: url, StatusCode: 200, HTML: html}, nil
}
