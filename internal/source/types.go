package source

import (
	"context"
	"sort"
)

// CourseSet is a set of course URLs, unique by full decoded string.
type CourseSet map[string]struct{}

// NewCourseSet creates a set from the given URLs.
func NewCourseSet(urls ...string) CourseSet {
	set := make(CourseSet, len(urls))
	for _, url := range urls {
		set.Add(url)
	}
	return set
}

// Add inserts a URL into the set.
func (s CourseSet) Add(url string) {
	s[url] = struct{}{}
}

// Contains reports whether the set holds the URL.
func (s CourseSet) Contains(url string) bool {
	_, ok := s[url]
	return ok
}

// Len returns the number of URLs in the set.
func (s CourseSet) Len() int {
	return len(s)
}

// Sorted returns the URLs in lexicographic order.
func (s CourseSet) Sorted() []string {
	urls := make([]string, 0, len(s))
	for url := range s {
		urls = append(urls, url)
	}
	sort.Strings(urls)
	return urls
}

// Union returns a new set containing every URL from all given sets.
func Union(sets ...CourseSet) CourseSet {
	out := make(CourseSet)
	for _, set := range sets {
		for url := range set {
			out[url] = struct{}{}
		}
	}
	return out
}

// Source defines the contract for all course source implementations.
// Constructors perform no I/O; the fetch happens on the explicit
// FetchCourses call.
type Source interface {
	// FetchCourses retrieves candidate course URLs from the source
	FetchCourses(ctx context.Context) (CourseSet, error)

	// GetName returns the source's name for logging and identification
	GetName() string

	// Count returns the number of courses found by the last fetch
	Count() int

	// Summary returns a human-readable result line for the last fetch
	Summary() string
}
