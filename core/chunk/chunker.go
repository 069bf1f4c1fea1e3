// Package chunk splits a flat run of table cells into fixed-width rows.
// Catalog tables are selected as one long list of <td> nodes, so column
// positions only exist after the list is cut back into rows.
package chunk

import (
	"fmt"
	"iter"
)

// MalformedRowError reports a cell count that is not a whole number of rows.
// It usually means the page gained or lost a column.
type MalformedRowError struct {
	Cells int
	Width int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("%d cells do not split into rows of %d (%d left over)", e.Cells, e.Width, e.Cells%e.Width)
}

// Aligned reports whether n cells split into whole rows of width.
func Aligned(n, width int) error {
	if width <= 0 {
		return fmt.Errorf("row width must be positive, got %d", width)
	}
	if n%width != 0 {
		return &MalformedRowError{Cells: n, Width: width}
	}
	return nil
}

// Rows yields consecutive groups of width cells in their original order.
// The last group is yielded even when it is short; callers that need whole
// rows check Aligned first. A non-positive width yields nothing.
func Rows[T any](cells []T, width int) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		if width <= 0 {
			return
		}
		for i := 0; i < len(cells); i += width {
			end := min(i+width, len(cells))
			if !yield(cells[i:end:end]) {
				return
			}
		}
	}
}
