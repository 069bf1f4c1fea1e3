// Package render provides output renderers for listing runs.
// This file implements the Markdown renderer: one table per course.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/coursepipe/core"
)

// MarkdownRenderer writes the listing as Markdown tables.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render writes a heading and a table per course.
func (r *MarkdownRenderer) Render(records []core.Record) ([]byte, error) {
	var b bytes.Buffer
	if len(records) == 0 {
		b.WriteString("_No files found._\n")
		return b.Bytes(), nil
	}
	for i, course := range groupByCourse(records) {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %s\n\n", cell(course.Course))
		b.WriteString("| Kind | Source | Year | Path | Link |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, rec := range course.Files {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				rec.Kind, cell(rec.Source), cell(rec.Year), cell(rec.Path), cell(rec.Href))
		}
	}
	return b.Bytes(), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

func cell(s string) string {
	return cellEscaper.Replace(s)
}
