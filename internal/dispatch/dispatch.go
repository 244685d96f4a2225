// Package dispatch drives server-side rendering: it matches the request
// path against the route table, fetches the route's GraphQL data, and
// renders the document.
package dispatch

import (
	"net/http"
	"strings"
	"time"

	"github.com/mosaic-web/mosaic/internal/gateway"
	"github.com/mosaic-web/mosaic/internal/render"
	"github.com/mosaic-web/mosaic/internal/routes"
	"github.com/mosaic-web/mosaic/internal/views"
	"github.com/mosaic-web/mosaic/internal/webapp"
)

const loginPath = "/login"

// Dispatcher handles catch-all page requests.
type Dispatcher struct {
	table       *routes.Table
	exec        gateway.Executor
	renderer    *render.Renderer
	now         func() time.Time
	cookieName  string
	assetPrefix string
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithClock replaces the greeting clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// WithSessionCookieName sets the cookie forwarded to the remote
// executor. Defaults to "__sid".
func WithSessionCookieName(name string) Option {
	return func(d *Dispatcher) {
		if name != "" {
			d.cookieName = name
		}
	}
}

// WithAssetPrefix sets the static path prefix that bypasses matching.
func WithAssetPrefix(prefix string) Option {
	return func(d *Dispatcher) {
		if prefix != "" {
			d.assetPrefix = prefix
		}
	}
}

// New creates a Dispatcher.
func New(table *routes.Table, exec gateway.Executor, renderer *render.Renderer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		table:       table,
		exec:        exec,
		renderer:    renderer,
		now:         time.Now,
		cookieName:  "__sid",
		assetPrefix: "/assets/",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle runs the dispatch state machine for one request.
func (d *Dispatcher) Handle(c webapp.Context) error {
	path := c.Request().URL.Path

	// Static assets never reach the route table; a miss here means the
	// file does not exist.
	if strings.HasPrefix(path, d.assetPrefix) {
		return d.renderNotFound(c)
	}

	m, ok := d.table.Match(path)
	if !ok {
		return d.renderNotFound(c)
	}

	if m.Entry.RequiresAuth && !c.IsAuthenticated() {
		return c.Redirect(http.StatusSeeOther, loginPath)
	}

	data := map[string]any{}
	if m.Entry.Query != "" {
		fetched, err := d.fetch(c, m)
		switch {
		case err == nil:
			data = fetched
			if m.Entry.MapData != nil {
				data = m.Entry.MapData(data)
			}
		case gateway.IsUnauthorized(err):
			// Terminal: no body, just the redirect.
			return c.Redirect(http.StatusSeeOther, loginPath)
		default:
			// Degrade to a best-effort render with the empty pre-fetch
			// data; the mapper never sees a payload that was not fetched.
			c.LogError("page data fetch failed", "path", path, "error", err)
		}
	}

	state := render.State{
		Path:     path,
		Greeting: render.Greeting(d.now()),
		Viewer:   d.viewer(c),
		Data:     data,
	}

	return d.renderPage(c, http.StatusOK, render.Page{
		Title: m.Entry.Title,
		Meta:  m.Entry.Meta,
		Links: m.Entry.Links,
		Body:  m.Entry.View(state),
		State: state,
	})
}

// NotFoundHandler renders the 404 page; wired as the app's not-found
// handler so unmatched non-page requests get the same document.
func (d *Dispatcher) NotFoundHandler(c webapp.Context) error {
	return d.renderNotFound(c)
}

// fetch executes the route's query with viewer identity and session
// cookie attached.
func (d *Dispatcher) fetch(c webapp.Context, m routes.Match) (map[string]any, error) {
	vars := make(map[string]any, len(m.Params))
	for k, v := range m.Params {
		vars[k] = v
	}
	if m.Entry.MapVars != nil {
		vars = m.Entry.MapVars(m.Params)
	}

	ctx := gateway.WithUserID(c.Context(), c.UserID())
	if cook, err := c.Request().Cookie(d.cookieName); err == nil {
		ctx = gateway.WithSessionCookie(ctx, cook)
	}

	return d.exec.Exec(ctx, m.Entry.Query, vars)
}

// viewer builds the state's viewer summary from the session.
func (d *Dispatcher) viewer(c webapp.Context) *render.Viewer {
	uid := c.UserID()
	if uid == "" {
		return nil
	}
	v := &render.Viewer{ID: uid}
	if name, err := c.SessionValue("username"); err == nil {
		v.Username, _ = name.(string)
	}
	return v
}

func (d *Dispatcher) renderNotFound(c webapp.Context) error {
	state := render.State{
		Path:     c.Request().URL.Path,
		Greeting: render.Greeting(d.now()),
		Viewer:   d.viewer(c),
		Data:     map[string]any{},
	}
	return d.renderPage(c, http.StatusNotFound, render.Page{
		Title: "Not Found",
		Body:  views.NotFound(),
		State: state,
	})
}

func (d *Dispatcher) renderPage(c webapp.Context, status int, page render.Page) error {
	c.SetHeader("Content-Type", "text/html; charset=utf-8")
	c.Response().WriteHeader(status)
	return d.renderer.RenderPage(c.Context(), c.Response(), page)
}
