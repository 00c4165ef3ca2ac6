package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/krupal-savalia/news-processor/internal/logger"
	"github.com/krupal-savalia/news-processor/internal/models"
	"github.com/krupal-savalia/news-processor/internal/pipeline"
)

// Worker consumes article-processing tasks from the broker and drives
// them through the processor.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewWorker connects to the broker and registers the article handler.
func NewWorker(opts Options, processor *pipeline.Processor) (*Worker, error) {
	conn, err := connect(opts.RedisURL)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(conn, asynq.Config{
		Concurrency: opts.Concurrency,
		Queues:      map[string]int{opts.QueueName: 1},
		RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
			// Fixed delay between attempts; no backoff, no jitter.
			return opts.RetryDelay
		},
		ErrorHandler: asynq.ErrorHandlerFunc(logTaskError),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeProcessArticle, handler(processor))

	return &Worker{server: server, mux: mux}, nil
}

// Run processes tasks until the process receives a termination signal.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

func handler(processor *pipeline.Processor) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var input models.ArticleInput
		if err := json.Unmarshal(task.Payload(), &input); err != nil {
			return fmt.Errorf("decode article payload: %v: %w", err, asynq.SkipRetry)
		}

		outcome, err := processor.Process(ctx, input)
		return retryDecision(outcome, err)
	}
}

// retryDecision maps a processing outcome onto the task server's error
// contract: nil completes the task, a plain error re-enqueues it after
// the configured delay, and a SkipRetry error archives it immediately.
func retryDecision(outcome pipeline.Outcome, cause error) error {
	switch outcome {
	case pipeline.OutcomeStored, pipeline.OutcomeSkipped:
		return nil
	case pipeline.OutcomeInvalid:
		return fmt.Errorf("invalid article: %v: %w", cause, asynq.SkipRetry)
	default:
		if cause == nil {
			cause = errors.New("transient processing failure")
		}
		return cause
	}
}

// deadLettered reports whether a failed execution exhausted the task's
// budget: either the input was unretryable or no retries remain.
func deadLettered(retried, maxRetry int, err error) bool {
	return errors.Is(err, asynq.SkipRetry) || retried >= maxRetry
}

// logTaskError surfaces failed executions; tasks that are out of
// retries are flagged for operator visibility.
func logTaskError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	log := logger.Get()

	if deadLettered(retried, maxRetry, err) {
		log.Error().
			Err(err).
			Str("task", task.Type()).
			Int("attempts", retried+1).
			Msg("task moved to dead letter")
		return
	}

	log.Warn().
		Err(err).
		Str("task", task.Type()).
		Int("attempt", retried+1).
		Int("max_attempts", maxRetry+1).
		Msg("task failed, will retry")
}
