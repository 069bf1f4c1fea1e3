package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/gaurav-prasanna/coursepipe/core"
	"github.com/gaurav-prasanna/coursepipe/core/output"
	"github.com/gaurav-prasanna/coursepipe/crawl"
)

func table(skip int, rows ...[]string) string {
	var b strings.Builder
	b.WriteString(`<div class="content"><form><div class="table-holder"><table class="stbl"><tbody><tr>`)
	for i := 0; i < skip; i++ {
		b.WriteString("<td>h</td>")
	}
	b.WriteString("</tr>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, c := range row {
			fmt.Fprintf(&b, "<td>%s</td>", c)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></div></form></div>")
	return b.String()
}

func a(text, href string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, href, text)
}

var site = map[string]string{
	"study-a.php?id=1": `<div class="content"><div class="table-holder"><table>
<tr align="center" valign="top"><th>IZP</th><td><a class="bar" href="course.php?id=1">Programming</a></td></tr>
<tr align="center" valign="top"><th>IMA</th><td><a class="bar" href="course.php?id=2">Math</a></td></tr>
</table></div></div>`,
	"study-a.php?id=2": `<div class="content"><div class="table-holder"><table>
<tr align="center" valign="top"><th>IZP</th><td><a class="bar" href="course.php?id=1">Programming</a></td></tr>
</table></div></div>`,
	"study-a.php?id=3": `<div class="content"></div>`,

	"course.php?id=1": `<div class="content">
<ul class="nomargin"><li><a href="files.php?c=1">Soubory k předmětu</a></li></ul>
<form><div class="table-holder"><table>
<tr><td><a class="bar" href="task.php?id=10">Project 1</a></td></tr>
<tr><td><a class="bar" href="task.php?id=11">Quiz</a></td></tr>
</table></div></form></div>`,
	"course.php?id=2": `<div class="content"><ul class="nomargin"><li><a href="news.php">News</a></li></ul></div>`,

	"task.php?id=10":     `<div class="content"><p><a href="course-sf.php?t=10">files</a></p></div>`,
	"task.php?id=11":     `<div class="content"><p>no files</p></div>`,
	"course-sf.php?t=10": `<h1>Programming/2023</h1><div class="content"><form><table><tr valign="middle"><td><a href="dl.php?f=1">proj1.c</a></td></tr></table></form></div>`,

	"files.php?c=1": table(9,
		[]string{"", "", "", a("Lectures", "sub.php?d=1"), "2k", ""},
		[]string{"", "", "", a("Empty", "sub.php?d=2"), "0k", ""},
	),
	"sub.php?d=1": table(11,
		[]string{"", "", "", a("intro.pdf", "get.php?f=1"), "", "5k", ""},
		[]string{"", "", "", a("Extra", "sub.php?d=3"), "", "1 pol.", ""},
	),
	"sub.php?d=3": table(11,
		[]string{"", "", "", a("extra.pdf", "get.php?f=3"), "", "7k", ""},
	),
}

type siteFetcher struct {
	pages map[string]string
	fail  map[string]error
	calls []string
}

func (f *siteFetcher) Fetch(_ context.Context, url string) (*core.FetchResult, error) {
	f.calls = append(f.calls, url)
	if err := f.fail[url]; err != nil {
		return nil, err
	}
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("no page at %s", url)
	}
	return &core.FetchResult{URL: url, StatusCode: 200, HTML: "<html><body>" + html + "</body></html>"}, nil
}

type recordingDownloader struct {
	got  map[string]string
	fail map[string]error
}

func (d *recordingDownloader) Download(_ context.Context, url string, dst string) (int64, error) {
	if err := d.fail[url]; err != nil {
		return 0, err
	}
	d.got[dst] = url
	return 10, nil
}

func TestExplorer_Run(t *testing.T) {
	t.Parallel()

	f := &siteFetcher{pages: site}
	d := &recordingDownloader{got: map[string]string{}}
	w := &output.Writer{OutputDir: "/out"}
	var records []core.Record

	e := crawl.NewExplorer(f,
		crawl.WithDownloader(d, w),
		crawl.WithSink(func(r core.Record) { records = append(records, r) }),
	)
	stats, err := e.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, stats.Err)

	assert.Equal(t, 2, stats.Studies)
	assert.Equal(t, 2, stats.Courses, "IZP is listed twice but explored once")
	assert.Equal(t, 3, stats.Files)
	assert.Equal(t, int64(30), stats.Bytes)

	assert.Equal(t, []core.Record{
		{Course: "IZP", Kind: core.KindTask, Source: "Project 1", Year: "2023", Path: "proj1.c", Href: "dl.php?f=1",
			Dest: filepath.Join("/out", "IZP", "Project 1", "2023", "proj1.c")},
		{Course: "IZP", Kind: core.KindMaterials, Source: "Lectures", Path: "intro.pdf", Href: "get.php?f=1",
			Dest: filepath.Join("/out", "IZP", "Lectures", "intro.pdf")},
		{Course: "IZP", Kind: core.KindMaterials, Source: "Lectures", Path: "Extra/extra.pdf", Href: "get.php?f=3",
			Dest: filepath.Join("/out", "IZP", "Lectures", "Extra", "extra.pdf")},
	}, records)
	assert.Len(t, d.got, 3)
	assert.NotContains(t, f.calls, "sub.php?d=2", "zero-size materials are never opened")
	assert.Contains(t, f.calls, "study-a.php?id=3")
	assert.NotContains(t, f.calls, "study-a.php?id=4")
}

func TestExplorer_ListOnly(t *testing.T) {
	t.Parallel()

	var records []core.Record
	e := crawl.NewExplorer(&siteFetcher{pages: site},
		crawl.WithMaxStudy(1),
		crawl.WithSink(func(r core.Record) { records = append(records, r) }),
	)
	stats, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Studies)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.Empty(t, r.Dest)
	}
}

func TestExplorer_SkipsRecoverableFailures(t *testing.T) {
	t.Parallel()

	f := &siteFetcher{pages: site, fail: map[string]error{
		"sub.php?d=3": errors.New("connection reset"),
	}}
	d := &recordingDownloader{got: map[string]string{}, fail: map[string]error{
		"dl.php?f=1": errors.New("disk full"),
	}}
	e := crawl.NewExplorer(f, crawl.WithMaxStudy(1), crawl.WithDownloader(d, &output.Writer{OutputDir: "/out"}))

	stats, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Files)
	errs := multierr.Errors(stats.Err)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "disk full")
	assert.Contains(t, errs[1].Error(), "connection reset")
}

func TestExplorer_UnauthorizedIsFatal(t *testing.T) {
	t.Parallel()

	f := &siteFetcher{pages: site, fail: map[string]error{
		"course.php?id=1": fmt.Errorf("course.php: %w", core.ErrUnauthorized),
	}}
	stats, err := crawl.NewExplorer(f).Run(context.Background())

	assert.ErrorIs(t, err, core.ErrUnauthorized)
	assert.Equal(t, 0, stats.Files)
	assert.NotContains(t, f.calls, "course.php?id=2")
}

func TestExplorer_CustomStudyURL(t *testing.T) {
	t.Parallel()

	f := &siteFetcher{pages: map[string]string{"plan/1": `<div class="content"></div>`}}
	stats, err := crawl.NewExplorer(f, crawl.WithStudyURL("plan/%d")).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, stats.Studies)
	assert.Equal(t, []string{"plan/1"}, f.calls)
}
