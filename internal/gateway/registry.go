package gateway

import (
	"fmt"

	"github.com/graphql-go/graphql"
)

// Feature contributes a slice of the query schema.
type Feature interface {
	// Name identifies the feature in startup errors.
	Name() string

	// Fields returns the root query fields the feature owns.
	Fields() graphql.Fields
}

// Registry holds the schema assembled from feature fragments.
// It is built once at startup and immutable afterwards; consumers
// receive it by injection.
type Registry struct {
	schema graphql.Schema
}

// NewRegistry merges the features' fields into a single query schema.
// A field name claimed by two features is a startup error, not a silent
// override.
func NewRegistry(features ...Feature) (*Registry, error) {
	merged := graphql.Fields{}
	owner := map[string]string{}

	for _, f := range features {
		for name, field := range f.Fields() {
			if prev, taken := owner[name]; taken {
				return nil, fmt.Errorf("gateway: field %q declared by both %q and %q", name, prev, f.Name())
			}
			owner[name] = f.Name()
			merged[name] = field
		}
	}

	if len(merged) == 0 {
		return nil, fmt.Errorf("gateway: no query fields registered")
	}

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: merged,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("gateway: build schema: %w", err)
	}

	return &Registry{schema: schema}, nil
}

// Schema returns the assembled schema.
func (r *Registry) Schema() graphql.Schema {
	return r.schema
}
