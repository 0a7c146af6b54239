package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/temminks/fantastic-umbrella/helpers"
)

// ParseFunc converts one HTTP response body into a value of type T.
type ParseFunc[T any] func(r io.Reader) (T, error)

// Batch fetches all URLs concurrently and returns the parsed responses in
// the same order as the input slice. Downstream code zips inputs with
// outputs positionally, so the order contract is the whole point.
//
// All requests share one client session scoped to this call. Every URL is
// dispatched at once; there is no in-flight cap. A transport error, timeout
// or parse error on any position fails the entire batch. Responses are
// handed to parse regardless of HTTP status; eligibility filtering happens
// downstream.
func Batch[T any](ctx context.Context, urls []string, timeout time.Duration, parse ParseFunc[T]) ([]T, error) {
	if len(urls) == 0 {
		return []T{}, nil
	}

	// One session per batch, released when the batch is done.
	transport := &http.Transport{}
	client := &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
	defer transport.CloseIdleConnections()

	results := make([]T, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			req, err := http.NewRequestWithContext(gctx, "GET", url, nil)
			if err != nil {
				return fmt.Errorf("batch position %d (%s): %w", i, url, err)
			}
			helpers.SetBrowserHeaders(req)

			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("batch position %d (%s): %w", i, url, err)
			}
			defer resp.Body.Close()

			parsed, err := parse(resp.Body)
			if err != nil {
				return fmt.Errorf("batch position %d (%s): parse: %w", i, url, err)
			}

			results[i] = parsed
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Documents fetches URLs and parses each response as an HTML document.
func Documents(ctx context.Context, urls []string, timeout time.Duration) ([]*goquery.Document, error) {
	return Batch(ctx, urls, timeout, goquery.NewDocumentFromReader)
}

// JSON fetches URLs and decodes each response body into a value of type T.
func JSON[T any](ctx context.Context, urls []string, timeout time.Duration) ([]T, error) {
	return Batch(ctx, urls, timeout, func(r io.Reader) (T, error) {
		var value T
		err := json.NewDecoder(r).Decode(&value)
		return value, err
	})
}
