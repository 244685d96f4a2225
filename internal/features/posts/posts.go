package posts

import (
	"context"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/mosaic-web/mosaic/internal/repository"
)

// Store is the post lookup surface the feature needs.
type Store interface {
	Recent(ctx context.Context, limit int) ([]repository.Post, error)
	GetBySlug(ctx context.Context, slug string) (*repository.Post, error)
}

const recentLimit = 20

// Feature contributes the posts slice of the query schema.
type Feature struct {
	store Store
}

// New creates the posts feature.
func New(store Store) *Feature {
	return &Feature{store: store}
}

func (f *Feature) Name() string {
	return "posts"
}

var postType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Post",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"slug":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"excerpt":     &graphql.Field{Type: graphql.String},
		"body":        &graphql.Field{Type: graphql.String},
		"publishedAt": &graphql.Field{Type: graphql.String},
	},
})

// Fields declares the posts and post(slug) root fields.
func (f *Feature) Fields() graphql.Fields {
	return graphql.Fields{
		"posts": &graphql.Field{
			Type: graphql.NewList(graphql.NewNonNull(postType)),
			Resolve: func(p graphql.ResolveParams) (any, error) {
				recent, err := f.store.Recent(p.Context, recentLimit)
				if err != nil {
					return nil, err
				}
				out := make([]map[string]any, 0, len(recent))
				for i := range recent {
					out = append(out, postPayload(&recent[i]))
				}
				return out, nil
			},
		},
		"post": &graphql.Field{
			Type: postType,
			Args: graphql.FieldConfigArgument{
				"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (any, error) {
				slug, _ := p.Args["slug"].(string)
				post, err := f.store.GetBySlug(p.Context, slug)
				if err != nil {
					return nil, err
				}
				if post == nil {
					return nil, nil
				}
				return postPayload(post), nil
			},
		},
	}
}

func postPayload(p *repository.Post) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"slug":        p.Slug,
		"title":       p.Title,
		"excerpt":     p.Excerpt,
		"body":        p.Body,
		"publishedAt": p.PublishedAt.Format(time.RFC3339),
	}
}
