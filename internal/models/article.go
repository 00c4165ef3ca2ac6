package models

import "time"

// RawEntry is one item of a parsed feed, prior to normalization. Fields
// mirror what syndication sources actually provide and may be empty.
type RawEntry struct {
	Title     string
	Summary   string
	Published string
	Link      string
}

// ArticleInput is the normalized, pre-persistence representation of one
// entry. It is the serializable payload handed to the task queue.
type ArticleInput struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	PubDate   string `json:"pub_date"`
	SourceURL string `json:"source_url"`
}

// Article is the persisted, deduplicated, classified record. SourceURL
// is the sole deduplication identity: no two persisted articles share it.
type Article struct {
	ID        int64
	Title     string
	Summary   string
	PubDate   time.Time
	SourceURL string
	Category  string
}
