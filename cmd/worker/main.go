package main

import (
	"context"

	"github.com/krupal-savalia/news-processor/internal/classify"
	"github.com/krupal-savalia/news-processor/internal/config"
	"github.com/krupal-savalia/news-processor/internal/logger"
	"github.com/krupal-savalia/news-processor/internal/pipeline"
	"github.com/krupal-savalia/news-processor/internal/queue"
	"github.com/krupal-savalia/news-processor/internal/store"
)

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
	log.Info().Msg("starting worker")

	articles, err := store.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open article store")
	}
	defer articles.Close()

	if err := articles.EnsureSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize schema")
	}

	processor := pipeline.NewProcessor(articles, classify.NewRuleClassifier(cfg.Rules))

	worker, err := queue.NewWorker(queue.Options{
		RedisURL:    cfg.RedisURL,
		QueueName:   cfg.QueueName,
		MaxAttempts: cfg.MaxAttempts,
		RetryDelay:  cfg.RetryDelay,
		Concurrency: cfg.Concurrency,
	}, processor)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to task queue")
	}

	log.Info().Int("concurrency", cfg.Concurrency).Str("queue", cfg.QueueName).Msg("worker started")

	// Run blocks until SIGINT/SIGTERM and drains in-flight tasks.
	if err := worker.Run(); err != nil {
		log.Fatal().Err(err).Msg("worker stopped")
	}
}
