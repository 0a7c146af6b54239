package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newDsmendersTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()

	// Index pages: page 1 lists two articles, page 2 fails, page 3 lists one
	mux.HandleFunc("/category/page/1/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body>
			<h2 class="entry-title"><a href="http://%s/article-1">Free Go course</a></h2>
			<h2 class="entry-title"><a href="http://%s/article-2">Free Python course</a></h2>
		</body></html>`, r.Host, r.Host)
	})
	mux.HandleFunc("/category/page/2/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/category/page/3/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body>
			<h2 class="entry-title"><a href="http://%s/article-3">No coupon inside</a></h2>
		</body></html>`, r.Host)
	})

	// Article 1 carries a proper course button
	mux.HandleFunc("/article-1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="https://example.com/ad" class="ad-banner" target="_blank" style="color:red">Ad</a>
			<a href="https://www.udemy.com/course/go-basics/?couponCode=FREE123" target="_blank" style="background:#1e90ff">Get the course</a>
		</body></html>`)
	})
	// Article 2's first bare button is not a coupon link
	mux.HandleFunc("/article-2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="https://example.com/newsletter" target="_blank" style="background:green">Subscribe</a>
			<a href="https://www.udemy.com/course/python-basics/?couponCode=LATER" target="_blank" style="background:blue">Too late</a>
		</body></html>`)
	})
	// Article 3 has no button at all
	mux.HandleFunc("/article-3", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>Nothing to see</p></body></html>`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestDsmendersFetchCourses(t *testing.T) {
	server := newDsmendersTestServer(t)

	src := NewDsmenders(server.URL+"/category", 3, NewMockCacheService())
	src.limiter = rate.NewLimiter(rate.Inf, 1)

	courses, err := src.FetchCourses(context.Background())
	require.NoError(t, err)

	// Only article 1's button survives: page 2 failed and was skipped,
	// article 2's first button has no coupon, article 3 has none.
	assert.Equal(t, 1, courses.Len())
	assert.True(t, courses.Contains("https://www.udemy.com/course/go-basics/?couponCode=FREE123"))
	assert.Equal(t, "Found 1 courses on Dsmenders.", src.Summary())
}

func TestDsmendersAllPagesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	src := NewDsmenders(server.URL+"/category", 2, NewMockCacheService())
	src.limiter = rate.NewLimiter(rate.Inf, 1)

	_, err := src.FetchCourses(context.Background())
	assert.Error(t, err)
}
