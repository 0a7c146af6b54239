package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/temminks/fantastic-umbrella/logger"
	"github.com/temminks/fantastic-umbrella/pkg/errors"
	"github.com/temminks/fantastic-umbrella/services/cache"
)

// Dsmenders crawls the tech.dsmenders.com blog network in two stages: first
// the paginated category index, then each article for its outbound course
// button. A failing page or article is skipped, the rest continue.
type Dsmenders struct {
	BaseSource
	Pages   int
	limiter *rate.Limiter
}

// NewDsmenders creates a new Dsmenders source. The URL is the category base
// without the /page/N/ suffix.
func NewDsmenders(url string, pages int, cacheSvc cache.CacheService) *Dsmenders {
	return &Dsmenders{
		BaseSource: BaseSource{
			SourceName: "Dsmenders",
			URL:        url,
			CacheKey:   "dsmenders_rate_limited",
			CacheSvc:   cacheSvc,
			BlockTime:  300 * time.Second,
		},
		Pages:   pages,
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

// FetchCourses crawls the category index pages, then each article
func (s *Dsmenders) FetchCourses(ctx context.Context) (CourseSet, error) {
	log := logger.ForSource(s.SourceName)

	articles := s.collectArticles(ctx, log)
	if articles.Len() == 0 {
		return nil, errors.NewNetwork(s.SourceName, "no article links found on any index page", nil)
	}

	courses := NewCourseSet()
	for _, article := range articles.Sorted() {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, errors.NewNetwork(s.SourceName, "canceled while pacing article fetches", err)
		}

		link, err := s.extractCourseLink(ctx, article)
		if err != nil {
			log.Warn().Err(err).Str("article", article).Msg("Skipping article")
			continue
		}
		if link != "" {
			courses.Add(link)
		}
	}

	s.setCourses(courses)
	return courses, nil
}

// collectArticles gathers article links across the paginated category index
func (s *Dsmenders) collectArticles(ctx context.Context, log *logger.Logger) CourseSet {
	articles := NewCourseSet()
	for page := 1; page <= s.Pages; page++ {
		pageURL := fmt.Sprintf("%s/page/%d/", s.URL, page)

		body, err := s.fetchWithCache(ctx, pageURL)
		if err != nil {
			log.Warn().Err(err).Str("page", pageURL).Msg("Skipping index page")
			continue
		}

		doc, err := s.createDocument(body)
		if err != nil {
			log.Warn().Err(err).Str("page", pageURL).Msg("Skipping unparseable index page")
			continue
		}

		doc.Find("h2.entry-title a[href]").Each(func(_ int, sel *goquery.Selection) {
			if href, ok := sel.Attr("href"); ok && strings.TrimSpace(href) != "" {
				articles.Add(strings.TrimSpace(href))
			}
		})
	}
	return articles
}

// extractCourseLink visits one article and returns the first outbound button
// link that targets a coupon-coded course, or "" when the article has none.
// The button is a bare anchor: inline style, no class, opens in a new tab.
func (s *Dsmenders) extractCourseLink(ctx context.Context, articleURL string) (string, error) {
	body, err := s.fetchWithCache(ctx, articleURL)
	if err != nil {
		return "", err
	}

	doc, err := s.createDocument(body)
	if err != nil {
		return "", err
	}

	var link string
	doc.Find(`a[href][target="_blank"][style]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if _, hasClass := sel.Attr("class"); hasClass {
			return true
		}
		href, _ := sel.Attr("href")
		if strings.Contains(href, "couponCode") {
			link = href
		}
		// Only the first candidate counts, match or not.
		return false
	})

	return link, nil
}
