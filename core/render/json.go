// Package render: JSON renderer.
// Builds a manifest of every discovered file, grouped by course in the
// order the courses were explored.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/coursepipe/core"
)

// Manifest is the complete JSON output of a listing run.
type Manifest struct {
	Files   int              `json:"files"`
	Courses []CourseManifest `json:"courses"`
}

// CourseManifest holds the files of one course.
type CourseManifest struct {
	Course string        `json:"course"`
	Files  []core.Record `json:"files"`
}

// JSONRenderer produces the structured JSON manifest.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render converts records into the manifest structure.
func (r *JSONRenderer) Render(records []core.Record) ([]byte, error) {
	m := Manifest{
		Files:   len(records),
		Courses: groupByCourse(records),
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// groupByCourse keeps first-seen course order and record order within a course.
func groupByCourse(records []core.Record) []CourseManifest {
	courses := make([]CourseManifest, 0)
	index := make(map[string]int)
	for _, rec := range records {
		i, ok := index[rec.Course]
		if !ok {
			i = len(courses)
			index[rec.Course] = i
			courses = append(courses, CourseManifest{Course: rec.Course})
		}
		courses[i].Files = append(courses[i].Files, rec)
	}
	return courses
}
