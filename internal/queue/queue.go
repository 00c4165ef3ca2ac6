// Package queue integrates with the Redis-backed task broker: the
// dispatcher side submits serialized ArticleInputs, the worker side
// consumes them and maps processing outcomes onto the broker's retry
// semantics.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/krupal-savalia/news-processor/internal/models"
)

// TaskTypeProcessArticle names the article-processing task the worker
// handler is registered against.
const TaskTypeProcessArticle = "article:process"

// Options configures both sides of the queue integration.
type Options struct {
	RedisURL    string
	QueueName   string
	MaxAttempts int           // total executions per task, first attempt included
	RetryDelay  time.Duration // fixed delay between attempts, no backoff
	Concurrency int           // worker pool size
}

// connect parses the broker URL and verifies connectivity before any
// client or server is built on top of it.
func connect(redisURL string) (asynq.RedisConnOpt, error) {
	conn, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return conn, nil
}

// Client submits article-processing tasks to the broker.
type Client struct {
	inner *asynq.Client
	opts  Options
}

// NewClient connects to the broker and returns a task submitter.
func NewClient(opts Options) (*Client, error) {
	conn, err := connect(opts.RedisURL)
	if err != nil {
		return nil, err
	}
	return &Client{inner: asynq.NewClient(conn), opts: opts}, nil
}

func (c *Client) Close() error {
	return c.inner.Close()
}

// Enqueue submits one article for asynchronous processing and returns
// without waiting for the result. The broker delivers the task
// at-least-once and retries it up to MaxAttempts-1 times on failure.
func (c *Client) Enqueue(ctx context.Context, input models.ArticleInput) error {
	payload, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("encode article payload: %w", err)
	}

	task := asynq.NewTask(TaskTypeProcessArticle, payload)
	_, err = c.inner.EnqueueContext(ctx, task,
		asynq.Queue(c.opts.QueueName),
		asynq.MaxRetry(c.opts.MaxAttempts-1),
	)
	if err != nil {
		return fmt.Errorf("enqueue article: %w", err)
	}
	return nil
}
