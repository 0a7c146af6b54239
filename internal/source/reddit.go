package source

import (
	"context"
	"encoding/json"
	"regexp"
	"time"

	"github.com/temminks/fantastic-umbrella/pkg/errors"
	"github.com/temminks/fantastic-umbrella/services/cache"
)

const (
	// redditPostLimit is the number of recent posts requested from the feed
	redditPostLimit = "100"

	// redditPostWindow drops posts older than ten days; coupons rarely
	// outlive that
	redditPostWindow = 10 * 24 * time.Hour
)

// redditCourseRegex matches a course URL carrying a coupon code inside a
// post body.
var redditCourseRegex = regexp.MustCompile(`https?://www\.udemy\.com/course/[\w\-]{5,}/[\w?\d/]*couponCode=\w{3,}`)

// Reddit reads the subreddit's JSON feed. Reddit offers a JSON representation
// for its listings, so no HTML scraping is needed here.
type Reddit struct {
	BaseSource
}

// redditFeed mirrors the slice of the feed response we care about
type redditFeed struct {
	Data struct {
		Children []struct {
			Data struct {
				CreatedUTC float64 `json:"created_utc"`
				Selftext   string  `json:"selftext"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// NewReddit creates a new Reddit source. The URL is the subreddit base
// without the .json suffix.
func NewReddit(url string, cacheSvc cache.CacheService) *Reddit {
	return &Reddit{
		BaseSource: BaseSource{
			SourceName: "Reddit",
			URL:        url,
			CacheKey:   "reddit_rate_limited",
			CacheSvc:   cacheSvc,
			BlockTime:  600 * time.Second,
		},
	}
}

// FetchCourses fetches the feed and scans recent post bodies for coupon links
func (s *Reddit) FetchCourses(ctx context.Context) (CourseSet, error) {
	body, err := s.fetchWithCache(ctx, s.URL+"/.json?limit="+redditPostLimit)
	if err != nil {
		return nil, errors.NewNetwork(s.SourceName, "failed to fetch feed", err)
	}

	var feed redditFeed
	if err := json.NewDecoder(body).Decode(&feed); err != nil {
		return nil, errors.NewParsing(s.SourceName, "failed to decode feed", err)
	}

	cutoff := time.Now().Add(-redditPostWindow)
	courses := NewCourseSet()
	for _, post := range feed.Data.Children {
		created := time.Unix(int64(post.Data.CreatedUTC), 0)
		if created.Before(cutoff) {
			continue
		}
		for _, match := range redditCourseRegex.FindAllString(post.Data.Selftext, -1) {
			courses.Add(match)
		}
	}

	s.setCourses(courses)
	return courses, nil
}
