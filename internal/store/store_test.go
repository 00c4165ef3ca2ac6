package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/krupal-savalia/news-processor/internal/models"
)

func newTestStore(t *testing.T) (*ArticleStore, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "articles.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := New(db, "sqlite")
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return s, db
}

func testArticle(url string) models.Article {
	return models.Article{
		Title:     "Quake hits region",
		Summary:   "A major earthquake struck today",
		PubDate:   time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		SourceURL: url,
		Category:  "NaturalDisasters",
	}
}

func countArticles(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM news_articles").Scan(&n); err != nil {
		t.Fatalf("count articles: %v", err)
	}
	return n
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	// Second and third calls must be no-ops, not failures.
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("third EnsureSchema: %v", err)
	}

	if err := s.Insert(ctx, testArticle("http://example.com/a1")); err != nil {
		t.Fatalf("Insert after repeated EnsureSchema: %v", err)
	}
	if got := countArticles(t, db); got != 1 {
		t.Errorf("article count = %d, want 1", got)
	}
}

func TestInsertDuplicateSourceURL(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, testArticle("http://example.com/a1")); err != nil {
		t.Fatalf("first Insert: %v", err)
	}

	err := s.Insert(ctx, testArticle("http://example.com/a1"))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second Insert error = %v, want ErrDuplicate", err)
	}

	if got := countArticles(t, db); got != 1 {
		t.Errorf("article count = %d, want 1", got)
	}
}

func TestInsertDistinctSourceURLs(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	for _, url := range []string{"http://example.com/a1", "http://example.com/a2", "http://example.com/a3"} {
		if err := s.Insert(ctx, testArticle(url)); err != nil {
			t.Fatalf("Insert(%s): %v", url, err)
		}
	}

	if got := countArticles(t, db); got != 3 {
		t.Errorf("article count = %d, want 3", got)
	}
}

func TestInsertPersistsAllColumns(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	article := testArticle("http://example.com/a1")
	if err := s.Insert(ctx, article); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	var title, summary, category string
	err := db.QueryRow(
		"SELECT title, summary, category FROM news_articles WHERE source_url = ?",
		article.SourceURL,
	).Scan(&title, &summary, &category)
	if err != nil {
		t.Fatalf("select article: %v", err)
	}

	if title != article.Title {
		t.Errorf("title = %q, want %q", title, article.Title)
	}
	if summary != article.Summary {
		t.Errorf("summary = %q, want %q", summary, article.Summary)
	}
	if category != article.Category {
		t.Errorf("category = %q, want %q", category, article.Category)
	}
}
