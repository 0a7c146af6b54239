package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/temminks/fantastic-umbrella/internal/fetch"
	"github.com/temminks/fantastic-umbrella/internal/source"
	"github.com/temminks/fantastic-umbrella/pkg/errors"
)

// metaFields is the exact field selection requested from the catalog API.
const metaFields = "is_paid,avg_rating,num_reviews,primary_category,content_info,discount,title,primary_subcategory,locale,visible_instructors"

// endTimeLayouts covers the timestamp shapes the catalog has been seen to
// produce for campaign end times.
var endTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Enricher turns candidate course URLs into validated records via the
// catalog API. It is the sole producer of Records.
type Enricher struct {
	BaseURL string
	Timeout time.Duration

	// Progress, when set, receives the running record count after every
	// fifth successfully parsed record. Suitable for a live status line.
	Progress func(parsed int)

	// now is replaceable for tests
	now func() time.Time
}

// NewEnricher creates an enricher against the given catalog API base URL
func NewEnricher(baseURL string, timeout time.Duration) *Enricher {
	return &Enricher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: timeout,
		now:     time.Now,
	}
}

// RequestURL builds the catalog metadata request for a course slug
func (e *Enricher) RequestURL(slug string) string {
	return fmt.Sprintf("%s/courses/%s/?fields[course]=%s", e.BaseURL, slug, metaFields)
}

// Enrich resolves a merged candidate set into the validated record list.
// Candidates are deduplicated by slug first; the whole catalog batch runs
// through the concurrent fetcher and fails as one unit.
func (e *Enricher) Enrich(ctx context.Context, candidates source.CourseSet) ([]Record, error) {
	links, requests := e.dedupe(candidates)

	metas, err := fetch.JSON[CourseMeta](ctx, requests, e.Timeout)
	if err != nil {
		return nil, errors.NewCatalog("enricher", "catalog batch failed", err)
	}

	now := e.now()
	records := make([]Record, 0, len(metas))
	for i, meta := range metas {
		record := buildRecord(links[i], meta, now)
		if record == nil {
			continue
		}
		records = append(records, *record)
		if e.Progress != nil && len(records)%5 == 0 {
			e.Progress(len(records))
		}
	}

	return records, nil
}

// dedupe collapses candidates to one URL per slug. URLs without a course
// segment are dropped. When several coupon variants share a slug the
// lexicographically smallest full URL wins, which keeps runs deterministic.
// Returns the kept URLs and their catalog requests, positionally aligned.
func (e *Enricher) dedupe(candidates source.CourseSet) (links []string, requests []string) {
	seen := make(map[string]struct{})
	for _, link := range candidates.Sorted() {
		slug, err := Slug(link)
		if err != nil {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		links = append(links, link)
		requests = append(requests, e.RequestURL(slug))
	}
	return links, requests
}

// buildRecord maps catalog metadata onto a Record, or returns nil when the
// course is not a genuinely free offer. Ineligible and malformed courses are
// expected noise from expired links, not errors.
func buildRecord(link string, meta CourseMeta, now time.Time) *Record {
	if !meta.IsPaid || meta.Discount == nil || meta.Discount.Price.Amount != 0 {
		return nil
	}

	end, ok := parseEndTime(meta.Discount.Campaign.EndTime)
	if !ok {
		return nil
	}

	instructors := make([]string, 0, len(meta.VisibleInstructors))
	for _, instructor := range meta.VisibleInstructors {
		if instructor.Title != "" {
			instructors = append(instructors, instructor.Title)
		}
	}
	sort.Strings(instructors)

	return &Record{
		Title:       meta.Title,
		Link:        link,
		Rating:      meta.AvgRating,
		NumRatings:  meta.NumReviews,
		Language:    NormalizeLanguage(meta.Locale.Title),
		Duration:    meta.ContentInfo,
		Topic0:      meta.PrimaryCategory.Title,
		Topic1:      meta.PrimarySubcategory.Title,
		Expiring:    int(end.Sub(now).Hours()),
		Instructors: instructors,
	}
}

// NormalizeLanguage reduces a locale title to its language name. The one
// locale whose region matters is kept verbatim; all other region qualifiers
// are dropped with everything after the first word.
func NormalizeLanguage(locale string) string {
	if locale == "English (India)" {
		return locale
	}
	fields := strings.Fields(locale)
	if len(fields) == 0 {
		return locale
	}
	return fields[0]
}

// parseEndTime parses a campaign end time, trying the known layouts
func parseEndTime(value string) (time.Time, bool) {
	for _, layout := range endTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
