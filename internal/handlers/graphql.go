package handlers

import (
	"net/http"

	gqlhandler "github.com/graphql-go/handler"

	"github.com/mosaic-web/mosaic/internal/gateway"
	"github.com/mosaic-web/mosaic/internal/webapp"
)

// GraphQL serves the /graphql endpoint over the assembled schema.
type GraphQL struct {
	inner http.Handler
}

// NewGraphQL creates the endpoint handler. GraphiQL is enabled outside
// production.
func NewGraphQL(registry *gateway.Registry, production bool) *GraphQL {
	schema := registry.Schema()
	return &GraphQL{
		inner: gqlhandler.New(&gqlhandler.Config{
			Schema:   &schema,
			Pretty:   !production,
			GraphiQL: !production,
		}),
	}
}

func (h *GraphQL) Routes(r webapp.Router) {
	r.GET("/graphql", h.serve)
	r.POST("/graphql", h.serve)
}

// serve injects the viewer identity into the request context before
// delegating to the GraphQL handler, so resolvers see the same viewer
// as server-side fetches.
func (h *GraphQL) serve(c webapp.Context) error {
	ctx := gateway.WithUserID(c.Context(), c.UserID())
	h.inner.ServeHTTP(c.Response(), c.Request().WithContext(ctx))
	return nil
}
