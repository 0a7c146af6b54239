package catalog

import (
	"net/url"
	"strings"

	"github.com/temminks/fantastic-umbrella/helpers"
	"github.com/temminks/fantastic-umbrella/pkg/errors"
)

// Slug extracts the canonical course identity from a URL: the path segment
// after "course/", cut at the next separator, percent-decoded and lowercased.
// Two URLs with the same slug are the same course no matter which coupon
// code they carry.
func Slug(courseURL string) (string, error) {
	rest, err := helpers.GetSplitPart(courseURL, "course/", 1)
	if err != nil {
		return "", errors.NewValidation("catalog", "URL has no course segment: "+courseURL)
	}

	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		rest = rest[:i]
	}

	decoded, err := url.PathUnescape(rest)
	if err != nil {
		decoded = rest
	}

	slug := strings.ToLower(strings.TrimSpace(decoded))
	if slug == "" {
		return "", errors.NewValidation("catalog", "URL has an empty course slug: "+courseURL)
	}
	return slug, nil
}
