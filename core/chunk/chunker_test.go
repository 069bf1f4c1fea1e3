package chunk_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/coursepipe/core/chunk"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestRows_WholeRows(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		rows, width int
	}{
		{0, 3}, {1, 1}, {4, 6}, {3, 7}, {10, 2},
	} {
		cells := seq(tc.rows * tc.width)
		got := slices.Collect(chunk.Rows(cells, tc.width))

		require.Len(t, got, tc.rows)
		var flat []int
		for _, row := range got {
			assert.Len(t, row, tc.width)
			flat = append(flat, row...)
		}
		if tc.rows > 0 {
			assert.Equal(t, cells, flat, "rows must keep original order")
		}
		assert.NoError(t, chunk.Aligned(len(cells), tc.width))
	}
}

func TestRows_PartialTail(t *testing.T) {
	t.Parallel()

	got := slices.Collect(chunk.Rows(seq(8), 3))
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4, 5}, {6, 7}}, got)

	err := chunk.Aligned(8, 3)
	var mre *chunk.MalformedRowError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, 8, mre.Cells)
	assert.Equal(t, 3, mre.Width)
	assert.Contains(t, err.Error(), "2 left over")
}

func TestRows_NonPositiveWidth(t *testing.T) {
	t.Parallel()

	assert.Empty(t, slices.Collect(chunk.Rows(seq(4), 0)))
	assert.Error(t, chunk.Aligned(4, 0))
}

func TestRows_StopsEarly(t *testing.T) {
	t.Parallel()

	n := 0
	for range chunk.Rows(seq(30), 3) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestRows_AppendDoesNotClobberNextRow(t *testing.T) {
	t.Parallel()

	cells := seq(4)
	var first []int
	for row := range chunk.Rows(cells, 2) {
		first = append(row, 99)
		break
	}
	assert.Equal(t, []int{0, 1, 99}, first)
	assert.Equal(t, []int{0, 1, 2, 3}, cells)
}
