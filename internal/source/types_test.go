package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourseSet(t *testing.T) {
	set := NewCourseSet("https://example.com/course/a/", "https://example.com/course/b/")
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("https://example.com/course/a/"))
	assert.False(t, set.Contains("https://example.com/course/c/"))

	// Adding an existing URL keeps the set unchanged
	set.Add("https://example.com/course/a/")
	assert.Equal(t, 2, set.Len())

	assert.Equal(t, []string{
		"https://example.com/course/a/",
		"https://example.com/course/b/",
	}, set.Sorted())
}

func TestUnion(t *testing.T) {
	a := NewCourseSet("https://example.com/course/a/", "https://example.com/course/b/")
	b := NewCourseSet("https://example.com/course/b/", "https://example.com/course/c/")

	union := Union(a, b)
	assert.Equal(t, 3, union.Len())

	// Union is commutative
	assert.Equal(t, union, Union(b, a))

	// Union with itself is a no-op; union with nothing is empty
	assert.Equal(t, a, Union(a, a))
	assert.Equal(t, 0, Union().Len())

	// Associative across any number of sets
	c := NewCourseSet("https://example.com/course/d/")
	assert.Equal(t, Union(Union(a, b), c), Union(a, Union(b, c)))

	// Inputs are not mutated
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 2, b.Len())
}

func TestBaseSourceSummary(t *testing.T) {
	base := &BaseSource{SourceName: "Freesamples"}
	assert.Equal(t, "Found 0 courses on Freesamples.", base.Summary())

	base.setCourses(NewCourseSet("https://example.com/course/a/"))
	assert.Equal(t, 1, base.Count())
	assert.Equal(t, "Found 1 courses on Freesamples.", base.Summary())

	anonymous := &BaseSource{}
	assert.Equal(t, "Found 0 courses.", anonymous.Summary())
}
