package extract

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind tells a folder row from a downloadable file row.
type Kind int

const (
	KindLeaf Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "leaf"
}

// folderMarker terminates the type cell of rows that link to another listing.
const folderMarker = "."

// ParseKind classifies a type cell. Folder cells end with a period.
func ParseKind(text string) Kind {
	if strings.HasSuffix(strings.TrimSpace(text), folderMarker) {
		return KindFolder
	}
	return KindLeaf
}

// ByteSize is a file size as printed in a materials table.
type ByteSize int64

// ParseByteSize reads a size cell such as "512B": a whole number followed by
// a single unit character.
func ParseByteSize(text string) (ByteSize, error) {
	t := strings.TrimSpace(text)
	_, w := utf8.DecodeLastRuneInString(t)
	if w == 0 {
		return 0, fmt.Errorf("empty size %q", text)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(t[:len(t)-w]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("size %q: %w", text, err)
	}
	return ByteSize(n), nil
}
