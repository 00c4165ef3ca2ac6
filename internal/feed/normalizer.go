package feed

import (
	"strings"

	"github.com/krupal-savalia/news-processor/internal/models"
)

// Sentinel values substituted for fields the source omits.
const (
	NoTitle   = "No title available"
	NoSummary = "No summary available"
	NoPubDate = "No publication date available"
	NoLink    = "No link available"
)

// Normalize maps a raw feed entry into an ArticleInput. It is pure and
// total: missing fields are replaced by the documented sentinels, never
// rejected. Note that NoLink collides across link-less entries on the
// dedup key; the dispatcher refuses to submit such entries.
func Normalize(entry models.RawEntry) models.ArticleInput {
	return models.ArticleInput{
		Title:     orSentinel(entry.Title, NoTitle),
		Summary:   orSentinel(entry.Summary, NoSummary),
		PubDate:   orSentinel(entry.Published, NoPubDate),
		SourceURL: orSentinel(entry.Link, NoLink),
	}
}

func orSentinel(value, sentinel string) string {
	if strings.TrimSpace(value) == "" {
		return sentinel
	}
	return value
}
