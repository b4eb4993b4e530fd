package db

import (
	"context"
	"encoding/json"
	"fmt"

	"blog_section/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Database wraps the PostgreSQL pool backing the blog API.
type Database struct {
	Pool *pgxpool.Pool
}

// NewDB creates a pool for connString.
func NewDB(ctx context.Context, connString string) (*Database, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return &Database{Pool: pool}, nil
}

// Close releases every pooled connection.
func (db *Database) Close() {
	db.Pool.Close()
}

// Ping checks that the database answers.
func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Migrate creates the articles table when it does not exist.
func (db *Database) Migrate(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS blog_articles (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            featured_image TEXT NOT NULL DEFAULT '',
            content JSONB,
            created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
        )
    `)
	return err
}

// ListArticles returns every article, newest first.
func (db *Database) ListArticles(ctx context.Context) ([]models.Article, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT id, title, featured_image, content, created_at
        FROM blog_articles
        ORDER BY created_at DESC, id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []models.Article{}
	for rows.Next() {
		var (
			a   models.Article
			raw []byte
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.FeaturedImage, &raw, &a.CreatedAt); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &a.Content); err != nil {
				return nil, fmt.Errorf("article %s content: %w", a.ID, err)
			}
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// SaveArticle inserts the article or replaces the row with the same id.
func (db *Database) SaveArticle(ctx context.Context, a models.Article) error {
	raw, err := json.Marshal(a.Content)
	if err != nil {
		return err
	}
	_, err = db.Pool.Exec(ctx, `
        INSERT INTO blog_articles (id, title, featured_image, content, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE SET
            title = EXCLUDED.title,
            featured_image = EXCLUDED.featured_image,
            content = EXCLUDED.content,
            created_at = EXCLUDED.created_at
    `, a.ID, a.Title, a.FeaturedImage, string(raw), a.CreatedAt)
	return err
}
