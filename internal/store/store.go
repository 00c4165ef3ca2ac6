package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/krupal-savalia/news-processor/internal/models"
)

// ErrDuplicate reports that an article with the same source URL is
// already persisted. It signals "already ingested", not a failure.
var ErrDuplicate = errors.New("article already exists")

const tableArticles = "news_articles"

const uniqueViolation = "23505"

// ArticleStore persists articles in a relational database, enforcing
// uniqueness on the source URL at the storage layer. Concurrent inserts
// racing on the same URL are arbitrated by the unique constraint:
// exactly one wins, the rest observe ErrDuplicate.
type ArticleStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	dialect string
}

// Open connects to the database identified by driver and dsn and
// verifies the connection.
func Open(driver, dsn string) (*ArticleStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return New(db, driver), nil
}

// New wraps an existing connection. The driver name selects the
// placeholder style and schema dialect ("postgres", or "sqlite" as
// used by the tests).
func New(db *sql.DB, driver string) *ArticleStore {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if driver == "postgres" {
		builder = builder.PlaceholderFormat(sq.Dollar)
	}
	return &ArticleStore{db: db, builder: builder, dialect: driver}
}

func (s *ArticleStore) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the articles table if it does not exist. It is
// idempotent and safe to call on every startup.
func (s *ArticleStore) EnsureSchema(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS news_articles (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		summary TEXT NOT NULL,
		pub_date TIMESTAMP NOT NULL,
		source_url TEXT UNIQUE NOT NULL,
		category TEXT NOT NULL
	)`
	if s.dialect != "postgres" {
		ddl = strings.Replace(ddl, "SERIAL PRIMARY KEY", "INTEGER PRIMARY KEY AUTOINCREMENT", 1)
	}

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Insert writes one article inside a transaction. A unique-constraint
// violation on source_url surfaces as ErrDuplicate; any other failure
// rolls back and is returned for the caller's retry policy. No partial
// row is ever visible.
func (s *ArticleStore) Insert(ctx context.Context, article models.Article) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	query, args, err := s.builder.
		Insert(tableArticles).
		Columns("title", "summary", "pub_date", "source_url", "category").
		Values(article.Title, article.Summary, article.PubDate, article.SourceURL, article.Category).
		ToSql()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicate, article.SourceURL)
		}
		return fmt.Errorf("insert article: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit article: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	// The sqlite driver used in tests reports no typed error here.
	return strings.Contains(err.Error(), "UNIQUE constraint")
}
