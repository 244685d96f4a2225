package gateway

import (
	"context"
	"errors"

	"github.com/graphql-go/graphql"
)

// Executor runs a GraphQL query and returns the data payload.
type Executor interface {
	Exec(ctx context.Context, query string, vars map[string]any) (map[string]any, error)
}

// Local executes queries in-process against the registry's schema.
type Local struct {
	registry *Registry
}

// NewLocal creates an in-process executor.
func NewLocal(registry *Registry) *Local {
	return &Local{registry: registry}
}

// Exec runs the query with graphql.Do. Resolver errors carrying the
// unauthorized sentinel become KindUnauthorized; everything else is
// KindInternal.
func (l *Local) Exec(ctx context.Context, query string, vars map[string]any) (map[string]any, error) {
	result := graphql.Do(graphql.Params{
		Schema:         l.registry.Schema(),
		RequestString:  query,
		VariableValues: vars,
		Context:        ctx,
	})

	if len(result.Errors) > 0 {
		msgs := make([]error, 0, len(result.Errors))
		for _, gqlErr := range result.Errors {
			if gqlErr.Message == sentinelUnauthorized {
				return nil, Unauthorized()
			}
			msgs = append(msgs, errors.New(gqlErr.Message))
		}
		return nil, Internal(errors.Join(msgs...))
	}

	data, _ := result.Data.(map[string]any)
	return data, nil
}
