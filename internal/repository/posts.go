package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Post is a row in the posts table. Body holds markdown source.
type Post struct {
	PublishedAt time.Time
	ID          string
	Slug        string
	Title       string
	Excerpt     string
	Body        string
}

// Posts provides access to post records.
type Posts struct {
	pool *pgxpool.Pool
}

// NewPosts creates a new Posts repository.
func NewPosts(pool *pgxpool.Pool) *Posts {
	return &Posts{pool: pool}
}

// Recent returns published posts, newest first.
func (r *Posts) Recent(ctx context.Context, limit int) ([]Post, error) {
	query := `
		SELECT id, slug, title, excerpt, body, published_at
		FROM posts
		WHERE published_at <= now()
		ORDER BY published_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Body, &p.PublishedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

// GetBySlug returns the post with the given slug.
// Returns (nil, nil) when no post is found.
func (r *Posts) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	query := `
		SELECT id, slug, title, excerpt, body, published_at
		FROM posts
		WHERE slug = $1`

	var p Post
	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Body, &p.PublishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &p, nil
}
