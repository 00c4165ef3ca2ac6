package dispatch

import (
	"context"

	"github.com/krupal-savalia/news-processor/internal/feed"
	"github.com/krupal-savalia/news-processor/internal/logger"
	"github.com/krupal-savalia/news-processor/internal/models"
)

// Enqueuer submits normalized articles to the task queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, input models.ArticleInput) error
}

// FeedFetcher resolves a feed URL into raw entries.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]models.RawEntry, error)
}

// Stats summarizes a dispatch run.
type Stats struct {
	FeedsFetched int
	FeedsFailed  int
	Submitted    int
	Rejected     int
	SubmitFailed int
}

// Dispatcher walks the configured feeds in order and submits one
// processing task per entry, fire-and-forget. It never awaits task
// completion and makes no ordering guarantee across entries or feeds.
type Dispatcher struct {
	fetcher FeedFetcher
	queue   Enqueuer
}

// NewDispatcher wires the fetcher and the task queue client.
func NewDispatcher(fetcher FeedFetcher, queue Enqueuer) *Dispatcher {
	return &Dispatcher{fetcher: fetcher, queue: queue}
}

// Run processes every feed in order. A failing or empty feed is logged
// and skipped; no single feed or entry failure aborts the run.
func (d *Dispatcher) Run(ctx context.Context, feedURLs []string) Stats {
	log := logger.Get()
	var stats Stats

	for _, url := range feedURLs {
		log.Info().Str("feed", url).Msg("fetching feed")

		entries, err := d.fetcher.Fetch(ctx, url)
		if err != nil {
			stats.FeedsFailed++
			log.Error().Err(err).Str("feed", url).Msg("skipping feed")
			continue
		}
		stats.FeedsFetched++

		if len(entries) == 0 {
			log.Info().Str("feed", url).Msg("feed contains no entries")
			continue
		}

		for _, entry := range entries {
			input := feed.Normalize(entry)

			if input.SourceURL == feed.NoLink {
				// A sentinel link would collide with every other
				// link-less entry on the dedup key.
				stats.Rejected++
				log.Warn().Str("feed", url).Str("title", input.Title).Msg("entry has no link, not submitting")
				continue
			}

			if err := d.queue.Enqueue(ctx, input); err != nil {
				stats.SubmitFailed++
				log.Error().Err(err).Str("feed", url).Str("title", input.Title).Msg("failed to submit article")
				continue
			}
			stats.Submitted++
		}

		log.Info().Str("feed", url).Int("entries", len(entries)).Msg("feed dispatched")
	}

	return stats
}
