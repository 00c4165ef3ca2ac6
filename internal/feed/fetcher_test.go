package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <item>
      <title>Quake hits region</title>
      <description>A major earthquake struck today</description>
      <pubDate>Mon, 01 Jan 2024 10:00:00 GMT</pubDate>
      <link>http://example.com/a1</link>
    </item>
    <item>
      <title>Markets rally</title>
      <description>Stocks climbed on Tuesday</description>
      <pubDate>Tue, 02 Jan 2024 09:00:00 GMT</pubDate>
      <link>http://example.com/a2</link>
    </item>
  </channel>
</rss>`

func serveBody(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchReturnsEntriesInOrder(t *testing.T) {
	server := serveBody(t, http.StatusOK, sampleRSS)

	fetcher := NewFetcher(5 * time.Second)
	entries, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Title != "Quake hits region" {
		t.Errorf("entries[0].Title = %q, want %q", entries[0].Title, "Quake hits region")
	}
	if entries[0].Link != "http://example.com/a1" {
		t.Errorf("entries[0].Link = %q, want %q", entries[0].Link, "http://example.com/a1")
	}
	if entries[0].Published != "Mon, 01 Jan 2024 10:00:00 GMT" {
		t.Errorf("entries[0].Published = %q", entries[0].Published)
	}
	if entries[1].Title != "Markets rally" {
		t.Errorf("entries[1].Title = %q, want %q", entries[1].Title, "Markets rally")
	}
}

func TestFetchMalformedContent(t *testing.T) {
	server := serveBody(t, http.StatusOK, "this is not a syndication feed")

	fetcher := NewFetcher(5 * time.Second)
	_, err := fetcher.Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrFeedMalformed) {
		t.Errorf("Fetch error = %v, want ErrFeedMalformed", err)
	}
}

func TestFetchBadStatus(t *testing.T) {
	server := serveBody(t, http.StatusInternalServerError, "boom")

	fetcher := NewFetcher(5 * time.Second)
	_, err := fetcher.Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrFeedUnreachable) {
		t.Errorf("Fetch error = %v, want ErrFeedUnreachable", err)
	}
}

func TestFetchUnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	fetcher := NewFetcher(time.Second)
	_, err := fetcher.Fetch(context.Background(), url)
	if !errors.Is(err, ErrFeedUnreachable) {
		t.Errorf("Fetch error = %v, want ErrFeedUnreachable", err)
	}
}
