package user

import (
	"context"
	"errors"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/mosaic-web/mosaic/internal/gateway"
	"github.com/mosaic-web/mosaic/internal/repository"
)

// Store is the user lookup surface the feature needs.
type Store interface {
	GetByID(ctx context.Context, id string) (*repository.User, error)
}

// Feature contributes the viewer slice of the query schema.
type Feature struct {
	store Store
}

// New creates the user feature.
func New(store Store) *Feature {
	return &Feature{store: store}
}

func (f *Feature) Name() string {
	return "user"
}

var viewerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Viewer",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"username":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"createdAt": &graphql.Field{Type: graphql.String},
	},
})

// Fields declares the viewer root field. Anonymous callers get the
// unauthorized sentinel, which the gateway maps to a typed error.
func (f *Feature) Fields() graphql.Fields {
	return graphql.Fields{
		"viewer": &graphql.Field{
			Type: viewerType,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				userID := gateway.UserIDFrom(p.Context)
				if userID == "" {
					return nil, errors.New("unauthorized")
				}

				u, err := f.store.GetByID(p.Context, userID)
				if err != nil {
					return nil, err
				}
				if u == nil {
					// Session references a deleted user.
					return nil, errors.New("unauthorized")
				}

				return map[string]any{
					"id":        u.ID,
					"username":  u.Username,
					"createdAt": u.CreatedAt.Format(time.RFC3339),
				}, nil
			},
		},
	}
}
