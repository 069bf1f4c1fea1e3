// Package crawl: course queue with deduplication.
// A course can be listed in several study plans; the queue hands each one
// out once, in the order it was first seen.
package crawl

import "github.com/gaurav-prasanna/coursepipe/core"

// Queue is a FIFO queue of courses keyed by normalized link.
type Queue struct {
	items   []core.Course
	visited map[string]bool
	idx     int // current read position
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{
		visited: make(map[string]bool),
	}
}

// Add enqueues a course if its link hasn't been seen before and reports
// whether it was added.
func (q *Queue) Add(c core.Course) bool {
	key := NormalizeURL(c.Link)
	if q.visited[key] {
		return false
	}
	q.visited[key] = true
	q.items = append(q.items, c)
	return true
}

// HasNext returns true if there are unprocessed courses.
func (q *Queue) HasNext() bool {
	return q.idx < len(q.items)
}

// Next returns the next unprocessed course and advances the pointer.
func (q *Queue) Next() core.Course {
	c := q.items[q.idx]
	q.idx++
	return c
}

// Visited returns the total number of unique courses seen.
func (q *Queue) Visited() int {
	return len(q.visited)
}
