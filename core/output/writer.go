// Package output lays out downloaded files on disk.
// Task files go to <out>/<course>/<task>/<year>/<file>; materials go to
// <out>/<course>/<folder>/<path inside the folder>.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrExists is returned by New when the output directory is already there.
var ErrExists = errors.New("output directory already exists")

// Writer maps records to destination paths under OutputDir.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory. An
// existing directory is refused unless allowExisting is set so that a second
// run never mixes into an earlier one.
func New(outputDir string, allowExisting bool) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		return &Writer{OutputDir: wd}, nil
	}

	if _, err := os.Stat(outputDir); err == nil && !allowExisting {
		return nil, fmt.Errorf("%s: %w", outputDir, ErrExists)
	}

	// Ensure the output directory exists.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// TaskFilePath is the destination of a file submitted to a course task.
func (w *Writer) TaskFilePath(course, task, year, file string) string {
	return filepath.Join(w.OutputDir, dirName(course), dirName(task), fileName(year), fileName(file))
}

// MaterialPath is the destination of a materials entry. entryPath is the
// '/'-joined path produced by the materials resolver.
func (w *Writer) MaterialPath(course, folder, entryPath string) string {
	parts := []string{w.OutputDir, dirName(course), dirName(folder)}
	for _, seg := range strings.Split(entryPath, "/") {
		parts = append(parts, fileName(seg))
	}
	return filepath.Join(parts...)
}

// Transliterate drops diacritics, so "předmět" becomes "predmet".
func Transliterate(s string) string {
	// A chain keeps state between calls, so each call builds its own.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// dirName is a directory segment: forbidden characters removed, ASCII-folded.
func dirName(s string) string {
	return fileName(Transliterate(s))
}

// fileName makes s safe as a single path segment.
func fileName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '?', '*', '"', '|':
			return -1
		case '/', '\\':
			return '_'
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}
