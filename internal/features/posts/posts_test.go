package posts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mosaic-web/mosaic/internal/features/posts"
	"github.com/mosaic-web/mosaic/internal/gateway"
	"github.com/mosaic-web/mosaic/internal/repository"
)

type stubStore struct {
	recent []repository.Post
	bySlug map[string]*repository.Post
	err    error
}

func (s *stubStore) Recent(_ context.Context, limit int) ([]repository.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.recent) > limit {
		return s.recent[:limit], nil
	}
	return s.recent, nil
}

func (s *stubStore) GetBySlug(_ context.Context, slug string) (*repository.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.bySlug[slug], nil
}

func execute(t *testing.T, store posts.Store, query string, vars map[string]any) (map[string]any, error) {
	t.Helper()
	registry, err := gateway.NewRegistry(posts.New(store))
	require.NoError(t, err)
	return gateway.NewLocal(registry).Exec(context.Background(), query, vars)
}

func TestPostsQuery(t *testing.T) {
	t.Parallel()

	published := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store := &stubStore{recent: []repository.Post{
		{ID: "p1", Slug: "first", Title: "First", Excerpt: "one", PublishedAt: published},
		{ID: "p2", Slug: "second", Title: "Second", Excerpt: "two", PublishedAt: published},
	}}

	data, err := execute(t, store, `{ posts { id slug title excerpt publishedAt } }`, nil)
	require.NoError(t, err)

	list, ok := data["posts"].([]any)
	require.True(t, ok)
	require.Len(t, list, 2)

	first, ok := list[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "p1", first["id"])
	require.Equal(t, "first", first["slug"])
	require.Equal(t, "2024-03-01T09:00:00Z", first["publishedAt"])
}

func TestPostQueryBySlug(t *testing.T) {
	t.Parallel()

	store := &stubStore{bySlug: map[string]*repository.Post{
		"hello": {ID: "p1", Slug: "hello", Title: "Hello", Body: "body text"},
	}}

	data, err := execute(t, store,
		`query ($slug: String!) { post(slug: $slug) { id title body } }`,
		map[string]any{"slug": "hello"})
	require.NoError(t, err)

	post, ok := data["post"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Hello", post["title"])
	require.Equal(t, "body text", post["body"])
}

func TestPostQueryUnknownSlugIsNull(t *testing.T) {
	t.Parallel()

	store := &stubStore{bySlug: map[string]*repository.Post{}}

	data, err := execute(t, store,
		`query ($slug: String!) { post(slug: $slug) { id } }`,
		map[string]any{"slug": "missing"})
	require.NoError(t, err)
	require.Nil(t, data["post"])
}

func TestPostsQueryStoreFailure(t *testing.T) {
	t.Parallel()

	store := &stubStore{err: errors.New("connection reset")}

	_, err := execute(t, store, `{ posts { id } }`, nil)
	require.Error(t, err)
	require.Equal(t, gateway.KindInternal, gateway.KindOf(err))
}
