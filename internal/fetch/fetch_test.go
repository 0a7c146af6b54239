package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchPreservesOrder(t *testing.T) {
	// Later positions answer faster than earlier ones, so completion order
	// is the reverse of dispatch order.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/item/"))
		require.NoError(t, err)
		time.Sleep(time.Duration(10-n) * 10 * time.Millisecond)
		fmt.Fprintf(w, "payload-%d", n)
	}))
	defer server.Close()

	urls := make([]string, 10)
	for i := range urls {
		urls[i] = fmt.Sprintf("%s/item/%d", server.URL, i)
	}

	results, err := Batch(context.Background(), urls, 5*time.Second, func(r io.Reader) (string, error) {
		body, err := io.ReadAll(r)
		return string(body), err
	})
	require.NoError(t, err)
	require.Len(t, results, len(urls))

	for i, result := range results {
		assert.Equal(t, fmt.Sprintf("payload-%d", i), result)
	}
}

func TestBatchFailsWhole(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	// One dead position aborts the whole batch.
	urls := []string{
		server.URL + "/a",
		"http://127.0.0.1:1/unreachable",
		server.URL + "/b",
	}

	_, err := Batch(context.Background(), urls, 2*time.Second, func(r io.Reader) (string, error) {
		body, err := io.ReadAll(r)
		return string(body), err
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "batch position 1")
}

func TestBatchParseErrorFailsWhole(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.Write([]byte("not json"))
			return
		}
		w.Write([]byte(`{"title": "ok"}`))
	}))
	defer server.Close()

	type payload struct {
		Title string `json:"title"`
	}

	_, err := JSON[payload](context.Background(), []string{server.URL + "/good", server.URL + "/bad"}, 2*time.Second)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestBatchEmptyInput(t *testing.T) {
	results, err := Batch(context.Background(), nil, time.Second, func(r io.Reader) (string, error) {
		return "", nil
	})
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestBatchSetsBrowserHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Mozilla/5.0 (X11; Linux x86_64)", r.Header.Get("User-Agent"))
		assert.Equal(t, "1", r.Header.Get("Upgrade-Insecure-Requests"))
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	_, err := Batch(context.Background(), []string{server.URL}, time.Second, func(r io.Reader) (string, error) {
		body, err := io.ReadAll(r)
		return string(body), err
	})
	assert.NoError(t, err)
}

func TestDocuments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1 id="headline">Hello</h1></body></html>`))
	}))
	defer server.Close()

	docs, err := Documents(context.Background(), []string{server.URL}, time.Second)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Hello", docs[0].Find("#headline").Text())
}
