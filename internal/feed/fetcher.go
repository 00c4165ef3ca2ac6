package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"

	"github.com/krupal-savalia/news-processor/internal/models"
)

var (
	// ErrFeedMalformed reports feed content that could not be parsed.
	// The whole feed is skipped; none of its entries are processed.
	ErrFeedMalformed = errors.New("feed content is malformed")

	// ErrFeedUnreachable reports a transport or HTTP-level failure.
	ErrFeedUnreachable = errors.New("feed is unreachable")
)

// Fetcher resolves a feed URL into a sequence of raw entries. It does
// not retry: a failed feed is reported to the caller and skipped.
type Fetcher struct {
	client *resty.Client
	parser *gofeed.Parser
}

// NewFetcher builds a fetcher whose requests are bounded by timeout so
// a single unreachable feed cannot stall a dispatch run.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: resty.New().SetTimeout(timeout),
		parser: gofeed.NewParser(),
	}
}

// Fetch retrieves and parses the feed at url, returning its entries in
// source order. Failures are classified as ErrFeedUnreachable
// (transport, non-200 status) or ErrFeedMalformed (unparseable markup).
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]models.RawEntry, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrFeedUnreachable, url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d from %s", ErrFeedUnreachable, resp.StatusCode(), url)
	}

	parsed, err := f.parser.ParseString(string(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrFeedMalformed, url, err)
	}

	entries := make([]models.RawEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entries = append(entries, models.RawEntry{
			Title:     item.Title,
			Summary:   item.Description,
			Published: item.Published,
			Link:      item.Link,
		})
	}
	return entries, nil
}
