package source

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/temminks/fantastic-umbrella/pkg/errors"
	"github.com/temminks/fantastic-umbrella/services/cache"
)

// Freesamples scrapes the yofreesamples listing page. Every anchor marked as
// a course title links straight to the discounted course.
type Freesamples struct {
	BaseSource
}

// NewFreesamples creates a new Freesamples source
func NewFreesamples(url string, cacheSvc cache.CacheService) *Freesamples {
	return &Freesamples{
		BaseSource: BaseSource{
			SourceName: "Freesamples",
			URL:        url,
			CacheKey:   "freesamples_rate_limited",
			CacheSvc:   cacheSvc,
			BlockTime:  300 * time.Second,
		},
	}
}

// FetchCourses fetches the listing page and extracts course links
func (s *Freesamples) FetchCourses(ctx context.Context) (CourseSet, error) {
	body, err := s.fetchWithCache(ctx, s.URL)
	if err != nil {
		return nil, errors.NewNetwork(s.SourceName, "failed to fetch listing page", err)
	}

	doc, err := s.createDocument(body)
	if err != nil {
		return nil, errors.NewParsing(s.SourceName, "failed to parse listing page", err)
	}

	courses := NewCourseSet()
	doc.Find("a.course_title[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			href = strings.TrimSpace(href)
			if href != "" {
				courses.Add(href)
			}
		}
	})

	s.setCourses(courses)
	return courses, nil
}
