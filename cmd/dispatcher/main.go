package main

import (
	"context"

	"github.com/krupal-savalia/news-processor/internal/config"
	"github.com/krupal-savalia/news-processor/internal/dispatch"
	"github.com/krupal-savalia/news-processor/internal/feed"
	"github.com/krupal-savalia/news-processor/internal/logger"
	"github.com/krupal-savalia/news-processor/internal/queue"
)

// The dispatcher is a run-to-completion process: it walks the
// configured feeds, submits one task per entry, and exits 0. Per-feed
// and per-entry failures are logged, never raised to the exit code.
func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: cfg.LogFile,
		Pretty: cfg.LogPretty,
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Int("feeds", len(cfg.Feeds)).Msg("starting dispatch run")

	client, err := queue.NewClient(queue.Options{
		RedisURL:    cfg.RedisURL,
		QueueName:   cfg.QueueName,
		MaxAttempts: cfg.MaxAttempts,
		RetryDelay:  cfg.RetryDelay,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to task queue")
	}
	defer client.Close()

	dispatcher := dispatch.NewDispatcher(feed.NewFetcher(cfg.FetchTimeout), client)
	stats := dispatcher.Run(context.Background(), cfg.Feeds)

	log.Info().
		Int("feeds_fetched", stats.FeedsFetched).
		Int("feeds_failed", stats.FeedsFailed).
		Int("submitted", stats.Submitted).
		Int("rejected", stats.Rejected).
		Int("submit_failed", stats.SubmitFailed).
		Msg("dispatch run finished")
}
