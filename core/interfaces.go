// Package core defines the shared records and pipeline interfaces for coursepipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned by fetchers when the site rejects the credentials.
var ErrUnauthorized = errors.New("authentication failed")

// FetchResult holds the decoded HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// Link is a hyperlink found on a catalog page.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// MaterialEntry is a downloadable file reached through materials subpages.
// Path is the '/'-joined chain of folder labels ending with the file label.
type MaterialEntry struct {
	Path string `json:"path"`
	Href string `json:"href"`
}

// TaskFile is a file submitted to a course task. Year comes from the page heading.
type TaskFile struct {
	Name string `json:"name"`
	Year string `json:"year"`
	Href string `json:"href"`
}

// Course is a course listed in a study plan.
type Course struct {
	Abbr string `json:"abbr"`
	Link string `json:"link"`
}

// CourseTask is either a graded task of a course or one of its materials folders.
type CourseTask struct {
	Name   string `json:"name"`
	Link   string `json:"link"`
	Course Course `json:"course"`
}

// Record is one downloadable file found while exploring a course.
// Source is the task or materials folder it was found under.
type Record struct {
	Course string `json:"course"`
	Kind   string `json:"kind"`
	Source string `json:"source"`
	Year   string `json:"year,omitempty"`
	Path   string `json:"path"`
	Href   string `json:"href"`
	Dest   string `json:"dest,omitempty"`
}

// Record kinds.
const (
	KindTask      = "task"
	KindMaterials = "materials"
)

// Fetcher retrieves page content for a link.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Downloader stores the resource behind a link at dst and reports the bytes written.
type Downloader interface {
	Download(ctx context.Context, url string, dst string) (int64, error)
}

// Renderer converts a listing of records into a final output format.
type Renderer interface {
	Render(records []Record) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".json").
	Extension() string
}
