package source

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/temminks/fantastic-umbrella/helpers"
	"github.com/temminks/fantastic-umbrella/services/cache"
)

// BaseSource provides common functionality for all course sources
type BaseSource struct {
	SourceName string
	URL        string
	CacheKey   string
	CacheSvc   cache.CacheService
	BlockTime  time.Duration

	courses CourseSet
}

// setCourses records the result of the last fetch
func (s *BaseSource) setCourses(courses CourseSet) {
	s.courses = courses
}

// GetName returns the source name
func (s *BaseSource) GetName() string {
	return s.SourceName
}

// Count returns the number of courses found by the last fetch
func (s *BaseSource) Count() int {
	return len(s.courses)
}

// Summary returns a human-readable result line for the last fetch
func (s *BaseSource) Summary() string {
	if s.SourceName == "" {
		return fmt.Sprintf("Found %d courses.", s.Count())
	}
	return fmt.Sprintf("Found %d courses on %s.", s.Count(), s.SourceName)
}

// fetchWithCache fetches a URL with rate-limit blocking via the cache service
func (s *BaseSource) fetchWithCache(ctx context.Context, url string) (io.Reader, error) {
	// Check if the source is currently blocked
	if s.CacheSvc != nil && s.CacheKey != "" {
		_, err := s.CacheSvc.Get(s.CacheKey)
		if err == nil {
			return nil, fmt.Errorf("%s: blocked for %d more seconds at most", s.CacheKey, s.BlockTime/time.Second)
		}
	}

	body, err := helpers.FetchWithBrowserHeaders(ctx, url)
	if err != nil {
		if s.CacheSvc != nil && s.CacheKey != "" && strings.HasPrefix(err.Error(), "rate limited") {
			// Set rate limiting block
			if setErr := s.CacheSvc.Set(s.CacheKey, []byte(fmt.Sprintf("%d", s.BlockTime/time.Second)), s.BlockTime); setErr != nil {
				return nil, setErr
			}
		}
		return nil, err
	}

	return body, nil
}

// createDocument creates a goquery document from a reader
func (s *BaseSource) createDocument(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("HTML parse error: %v", err)
	}
	return doc, nil
}
