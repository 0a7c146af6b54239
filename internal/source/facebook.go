package source

import (
	"context"
	"io"
	mathrand "math/rand"
	"net/url"
	"regexp"
	"time"

	"github.com/temminks/fantastic-umbrella/logger"
	"github.com/temminks/fantastic-umbrella/pkg/errors"
	"github.com/temminks/fantastic-umbrella/services/cache"
)

// facebookCourseRegex matches coupon-coded course URLs in raw group HTML.
// Facebook percent-encodes the '=' in shared links, hence the %3D alternate.
var facebookCourseRegex = regexp.MustCompile(`https://www\.udemy\.com/course/[\w/?&-]+couponCode[=|%3D][\w-]{3,}[^=/&"]`)

// Facebook scans a hand-maintained list of group pages. Courses are posted
// in groups, so the raw HTML is regex-scanned rather than parsed.
type Facebook struct {
	BaseSource
	Groups []string

	// delay runs between group requests to stay under request-rate
	// suspicion thresholds; tests replace it
	delay func()
}

// NewFacebook creates a new Facebook source over the given group pages
func NewFacebook(groups []string, cacheSvc cache.CacheService) *Facebook {
	return &Facebook{
		BaseSource: BaseSource{
			SourceName: "Facebook",
			CacheKey:   "facebook_rate_limited",
			CacheSvc:   cacheSvc,
			BlockTime:  900 * time.Second,
		},
		Groups: groups,
		delay: func() {
			time.Sleep(time.Duration(1+mathrand.Intn(2)) * time.Second)
		},
	}
}

// FetchCourses scans every group page for coupon-coded course links,
// percent-decoding each match. A failing group is skipped.
func (s *Facebook) FetchCourses(ctx context.Context) (CourseSet, error) {
	log := logger.ForSource(s.SourceName)

	if len(s.Groups) == 0 {
		return nil, errors.NewValidation(s.SourceName, "no group pages configured")
	}

	courses := NewCourseSet()
	for i, group := range s.Groups {
		body, err := s.fetchWithCache(ctx, group)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Msg("Skipping group")
		} else {
			s.scanGroup(body, courses)
		}

		if i < len(s.Groups)-1 {
			s.delay()
		}
	}

	s.setCourses(courses)
	return courses, nil
}

// scanGroup regex-scans one group page and adds decoded matches to the set
func (s *Facebook) scanGroup(body io.Reader, courses CourseSet) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return
	}

	for _, match := range facebookCourseRegex.FindAllString(string(raw), -1) {
		decoded, err := url.PathUnescape(match)
		if err != nil {
			decoded = match
		}
		courses.Add(decoded)
	}
}
