package render_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/coursepipe/core"
	"github.com/gaurav-prasanna/coursepipe/core/render"
)

var (
	_ core.Renderer = (*render.JSONRenderer)(nil)
	_ core.Renderer = (*render.MarkdownRenderer)(nil)
)

var records = []core.Record{
	{Course: "IZP", Kind: core.KindTask, Source: "Project 1", Year: "2023", Path: "proj1.c", Href: "download.php?f=1"},
	{Course: "IMA", Kind: core.KindMaterials, Source: "Lectures", Path: "Docs/notes.pdf", Href: "get.php?f=2"},
	{Course: "IZP", Kind: core.KindMaterials, Source: "Labs", Path: "a|b.txt", Href: "get.php?f=3"},
}

func TestJSONRenderer(t *testing.T) {
	t.Parallel()

	data, err := render.NewJSONRenderer().Render(records)
	require.NoError(t, err)

	var m render.Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, 3, m.Files)
	require.Len(t, m.Courses, 2)
	assert.Equal(t, "IZP", m.Courses[0].Course)
	assert.Equal(t, []core.Record{records[0], records[2]}, m.Courses[0].Files)
	assert.Equal(t, "IMA", m.Courses[1].Course)
	assert.Equal(t, ".json", render.NewJSONRenderer().Extension())
}

func TestJSONRenderer_Empty(t *testing.T) {
	t.Parallel()

	data, err := render.NewJSONRenderer().Render(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"files":0,"courses":[]}`, string(data))
}

func TestMarkdownRenderer(t *testing.T) {
	t.Parallel()

	data, err := render.NewMarkdownRenderer().Render(records)
	require.NoError(t, err)

	want := "## IZP\n\n" +
		"| Kind | Source | Year | Path | Link |\n" +
		"|---|---|---|---|---|\n" +
		"| task | Project 1 | 2023 | proj1.c | download.php?f=1 |\n" +
		"| materials | Labs |  | a\\|b.txt | get.php?f=3 |\n" +
		"\n## IMA\n\n" +
		"| Kind | Source | Year | Path | Link |\n" +
		"|---|---|---|---|---|\n" +
		"| materials | Lectures |  | Docs/notes.pdf | get.php?f=2 |\n"
	assert.Equal(t, want, string(data))

	data, err = render.NewMarkdownRenderer().Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "_No files found._\n", string(data))
}
