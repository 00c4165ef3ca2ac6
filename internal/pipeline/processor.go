package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/krupal-savalia/news-processor/internal/classify"
	"github.com/krupal-savalia/news-processor/internal/logger"
	"github.com/krupal-savalia/news-processor/internal/models"
	"github.com/krupal-savalia/news-processor/internal/store"
)

// Outcome is the terminal result of one processing attempt. The retry
// decision is made by the queue integration layer based on this value,
// never by raising out of the processor.
type Outcome int

const (
	// OutcomeStored means the article was classified and persisted.
	OutcomeStored Outcome = iota
	// OutcomeSkipped means an article with the same source URL already
	// exists; the input is dropped without error.
	OutcomeSkipped
	// OutcomeInvalid means the input itself is malformed (unparseable
	// publication date). Retrying cannot help.
	OutcomeInvalid
	// OutcomeRetry means a transient failure occurred and the attempt
	// should be repeated.
	OutcomeRetry
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStored:
		return "stored"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeRetry:
		return "retry"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// PubDateLayout is the timestamp format feed sources are expected to
// use, e.g. "Mon, 01 Jan 2024 10:00:00 GMT". The numeric-zone variant
// is accepted as a fallback.
const PubDateLayout = time.RFC1123

// Inserter is the slice of the article store the processor needs.
type Inserter interface {
	Insert(ctx context.Context, article models.Article) error
}

// Processor executes the per-article task: parse the publication date,
// classify the summary, and persist the article.
type Processor struct {
	store      Inserter
	classifier classify.Classifier
}

// NewProcessor wires the store handle and classification capability.
func NewProcessor(store Inserter, classifier classify.Classifier) *Processor {
	return &Processor{store: store, classifier: classifier}
}

// Process runs one attempt for input and reports the outcome, together
// with the error behind any non-success outcome.
func (p *Processor) Process(ctx context.Context, input models.ArticleInput) (Outcome, error) {
	log := logger.Get()
	log.Info().Str("title", input.Title).Msg("processing article")

	pubDate, err := parsePubDate(input.PubDate)
	if err != nil {
		log.Error().Err(err).Str("title", input.Title).Msg("unparseable publication date, giving up")
		return OutcomeInvalid, err
	}

	article := models.Article{
		Title:     input.Title,
		Summary:   input.Summary,
		PubDate:   pubDate,
		SourceURL: input.SourceURL,
		Category:  p.classifier.Classify(input.Summary),
	}

	if err := p.store.Insert(ctx, article); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			log.Warn().Str("title", input.Title).Msg("duplicate article detected, skipping")
			return OutcomeSkipped, nil
		}
		log.Error().Err(err).Str("title", input.Title).Msg("failed to store article")
		return OutcomeRetry, err
	}

	log.Info().Str("title", input.Title).Str("category", article.Category).Msg("article stored")
	return OutcomeStored, nil
}

func parsePubDate(raw string) (time.Time, error) {
	ts, err := time.Parse(PubDateLayout, raw)
	if err == nil {
		return ts, nil
	}
	if ts, zoneErr := time.Parse(time.RFC1123Z, raw); zoneErr == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("parse pub date %q: %w", raw, err)
}
