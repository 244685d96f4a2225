package dispatch_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"

	"github.com/mosaic-web/mosaic/internal/dispatch"
	"github.com/mosaic-web/mosaic/internal/gateway"
	"github.com/mosaic-web/mosaic/internal/render"
	"github.com/mosaic-web/mosaic/internal/routes"
	"github.com/mosaic-web/mosaic/internal/views"
	"github.com/mosaic-web/mosaic/internal/webapp"
	"github.com/mosaic-web/mosaic/pkg/session"
)

// fakeExec returns canned data or a canned error.
type fakeExec struct {
	data    map[string]any
	err     error
	gotVars map[string]any
	gotUID  string
	calls   int
}

func (f *fakeExec) Exec(ctx context.Context, query string, vars map[string]any) (map[string]any, error) {
	f.calls++
	f.gotVars = vars
	f.gotUID = gateway.UserIDFrom(ctx)
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

// testContext implements the subset of webapp.Context the dispatcher touches.
type testContext struct {
	response      http.ResponseWriter
	request       *http.Request
	userID        string
	sessionValues map[string]any
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{response: w, request: r, sessionValues: map[string]any{}}
}

func (c *testContext) Request() *http.Request        { return c.request }
func (c *testContext) Response() http.ResponseWriter { return c.response }
func (c *testContext) Context() context.Context      { return c.request.Context() }
func (c *testContext) Param(string) string           { return "" }
func (c *testContext) Query(name string) string      { return c.request.URL.Query().Get(name) }
func (c *testContext) QueryDefault(name, def string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return def
}
func (c *testContext) Form(name string) string   { return c.request.FormValue(name) }
func (c *testContext) Header(name string) string { return c.request.Header.Get(name) }
func (c *testContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}
func (c *testContext) JSON(code int, v any) error { c.response.WriteHeader(code); return nil }
func (c *testContext) String(code int, s string) error {
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}
func (c *testContext) NoContent(code int) error { c.response.WriteHeader(code); return nil }
func (c *testContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}
func (c *testContext) Written() bool        { return false }
func (c *testContext) Logger() *slog.Logger { return slog.Default() }
func (c *testContext) LogDebug(string, ...any) {}
func (c *testContext) LogInfo(string, ...any)  {}
func (c *testContext) LogWarn(string, ...any)  {}
func (c *testContext) LogError(string, ...any) {}
func (c *testContext) Error(code int, message string, opts ...webapp.HTTPErrorOption) *webapp.HTTPError {
	err := webapp.NewHTTPError(code, message)
	for _, opt := range opts {
		opt(err)
	}
	return err
}
func (c *testContext) Render(code int, component webapp.Component) error {
	c.response.WriteHeader(code)
	return component.Render(c.request.Context(), c.response)
}
func (c *testContext) Set(key, value any) {}
func (c *testContext) Get(key any) any    { return nil }
func (c *testContext) Cookie(name string) (string, error) {
	cook, err := c.request.Cookie(name)
	if err != nil {
		return "", err
	}
	return cook.Value, nil
}
func (c *testContext) SetCookie(string, string, int)                 {}
func (c *testContext) DeleteCookie(string)                           {}
func (c *testContext) CookieSigned(string) (string, error)           { return "", nil }
func (c *testContext) SetCookieSigned(string, string, int) error     { return nil }
func (c *testContext) Session() (*session.Session, error)            { return nil, nil }
func (c *testContext) InitSession() error                            { return nil }
func (c *testContext) AuthenticateSession(userID string) error       { c.userID = userID; return nil }
func (c *testContext) SessionValue(key string) (any, error)          { return c.sessionValues[key], nil }
func (c *testContext) SetSessionValue(key string, val any) error     { c.sessionValues[key] = val; return nil }
func (c *testContext) DeleteSessionValue(key string) error           { delete(c.sessionValues, key); return nil }
func (c *testContext) DestroySession() error                         { c.userID = ""; return nil }
func (c *testContext) ResponseWriter() *webapp.ResponseWriter        { return nil }
func (c *testContext) Deadline() (time.Time, bool)                   { return c.request.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}                         { return c.request.Context().Done() }
func (c *testContext) Err() error                                    { return c.request.Context().Err() }
func (c *testContext) Value(key any) any                             { return c.request.Context().Value(key) }
func (c *testContext) UserID() string                                { return c.userID }
func (c *testContext) IsAuthenticated() bool                         { return c.userID != "" }
func (c *testContext) IsCurrentUser(id string) bool                  { return c.userID != "" && c.userID == id }

func testTable(t *testing.T) *routes.Table {
	t.Helper()
	table, err := routes.NewTable([]routes.Entry{
		{Pattern: "/", Title: "Home", Query: "{posts{slug title excerpt}}", View: views.Home},
		{Pattern: "/posts/:slug", Title: "Post",
			Query: "query($slug:String!){post(slug:$slug){title body publishedAt}}",
			MapData: func(raw map[string]any) map[string]any {
				return map[string]any{"post": raw["post"]}
			},
			View: views.Post},
		{Pattern: "/plain", Title: "Plain", View: func(render.State) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				_, err := io.WriteString(w, "<p>plain</p>")
				return err
			})
		}},
		{Pattern: "/dashboard", Title: "Dashboard", RequiresAuth: true,
			Query: "{viewer{id username}}", View: views.Dashboard},
	})
	require.NoError(t, err)
	return table
}

var stateRe = regexp.MustCompile(`window\.__INITIAL_STATE__ = (.*);</script>`)

func extractState(t *testing.T, body string) render.State {
	t.Helper()
	m := stateRe.FindStringSubmatch(body)
	require.Len(t, m, 2, "no initial state script in body")
	var s render.State
	require.NoError(t, json.Unmarshal([]byte(m[1]), &s))
	return s
}

func newDispatcher(t *testing.T, exec gateway.Executor) *dispatch.Dispatcher {
	t.Helper()
	noon := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return dispatch.New(testTable(t), exec, render.New(), dispatch.WithClock(noon))
}

func TestDispatcher_MatchedWithQuery(t *testing.T) {
	t.Parallel()

	exec := &fakeExec{data: map[string]any{
		"posts": []any{map[string]any{"slug": "hello", "title": "Hello", "excerpt": "first"}},
	}}
	d := newDispatcher(t, exec)

	rec := httptest.NewRecorder()
	c := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NoError(t, d.Handle(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, "<title>Home</title>")
	require.Contains(t, body, `<a href="/posts/hello">Hello</a>`)

	state := extractState(t, body)
	require.Equal(t, "/", state.Path)
	require.Equal(t, "Good afternoon", state.Greeting)
	require.Nil(t, state.Viewer)
	require.NotNil(t, state.Data["posts"])
}

func TestDispatcher_ParamsBecomeVariables(t *testing.T) {
	t.Parallel()

	exec := &fakeExec{data: map[string]any{
		"post": map[string]any{"title": "Hello", "body": "text", "publishedAt": "2025-03-01T10:00:00Z"},
	}}
	d := newDispatcher(t, exec)

	rec := httptest.NewRecorder()
	c := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/posts/hello", nil))

	require.NoError(t, d.Handle(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, map[string]any{"slug": "hello"}, exec.gotVars)
	require.Contains(t, rec.Body.String(), "<h1>Hello</h1>")
}

func TestDispatcher_NoQueryRendersEmptyData(t *testing.T) {
	t.Parallel()

	exec := &fakeExec{}
	d := newDispatcher(t, exec)

	rec := httptest.NewRecorder()
	c := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/plain", nil))

	require.NoError(t, d.Handle(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, exec.calls, "no query must mean no gateway call")
	require.Contains(t, rec.Body.String(), "<p>plain</p>")

	state := extractState(t, rec.Body.String())
	require.Empty(t, state.Data)
}

func TestDispatcher_UnauthorizedFetchRedirects(t *testing.T) {
	t.Parallel()

	exec := &fakeExec{err: gateway.Unauthorized()}
	d := newDispatcher(t, exec)

	rec := httptest.NewRecorder()
	c := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NoError(t, d.Handle(c))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
	require.NotContains(t, rec.Body.String(), "__INITIAL_STATE__")
}

func TestDispatcher_FetchFailureDegradesToEmptyRender(t *testing.T) {
	t.Parallel()

	exec := &fakeExec{err: errors.New("connection refused")}
	d := newDispatcher(t, exec)

	rec := httptest.NewRecorder()
	c := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NoError(t, d.Handle(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "No posts yet")

	state := extractState(t, rec.Body.String())
	require.Empty(t, state.Data)
}

func TestDispatcher_FetchFailureSkipsMapper(t *testing.T) {
	t.Parallel()

	// The mapper asserts on the payload shape; it must never run against
	// the empty pre-fetch data when the fetch fails.
	table, err := routes.NewTable([]routes.Entry{
		{Pattern: "/posts/:slug", Title: "Post",
			Query: "query($slug:String!){post(slug:$slug){title}}",
			MapData: func(raw map[string]any) map[string]any {
				post := raw["post"].(map[string]any)
				return map[string]any{"post": post}
			},
			View: views.Post},
	})
	require.NoError(t, err)

	exec := &fakeExec{err: errors.New("connection refused")}
	d := dispatch.New(table, exec, render.New())

	rec := httptest.NewRecorder()
	c := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/posts/hello", nil))

	require.NoError(t, d.Handle(c))
	require.Equal(t, http.StatusOK, rec.Code)

	state := extractState(t, rec.Body.String())
	require.Empty(t, state.Data)
}

func TestDispatcher_MapperShapesState(t *testing.T) {
	t.Parallel()

	// Only the mapped shape may reach the page state, never the raw
	// payload the executor returned.
	table, err := routes.NewTable([]routes.Entry{
		{Pattern: "/posts/:slug", Title: "Post",
			Query: "query($slug:String!){post(slug:$slug){title body}}",
			MapData: func(raw map[string]any) map[string]any {
				return map[string]any{"post": raw["post"]}
			},
			View: views.Post},
	})
	require.NoError(t, err)

	exec := &fakeExec{data: map[string]any{
		"post":      map[string]any{"title": "Hello", "body": "text"},
		"debugInfo": map[string]any{"tookMs": 12},
		"requestId": "r-123",
	}}
	d := dispatch.New(table, exec, render.New())

	rec := httptest.NewRecorder()
	c := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/posts/hello", nil))

	require.NoError(t, d.Handle(c))
	require.Equal(t, http.StatusOK, rec.Code)

	state := extractState(t, rec.Body.String())
	require.Equal(t, map[string]any{
		"post": map[string]any{"title": "Hello", "body": "text"},
	}, state.Data)
	require.NotContains(t, rec.Body.String(), "debugInfo")
	require.NotContains(t, rec.Body.String(), "r-123")
}

func TestDispatcher_AuthGate(t *testing.T) {
	t.Parallel()

	t.Run("anonymous is redirected before any fetch", func(t *testing.T) {
		t.Parallel()

		exec := &fakeExec{}
		d := newDispatcher(t, exec)

		rec := httptest.NewRecorder()
		c := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		require.NoError(t, d.Handle(c))
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
		require.Zero(t, exec.calls)
	})

	t.Run("authenticated renders with viewer identity", func(t *testing.T) {
		t.Parallel()

		exec := &fakeExec{data: map[string]any{
			"viewer": map[string]any{"id": "u1", "username": "ada"},
		}}
		d := newDispatcher(t, exec)

		rec := httptest.NewRecorder()
		c := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		c.userID = "u1"
		c.sessionValues["username"] = "ada"

		require.NoError(t, d.Handle(c))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "u1", exec.gotUID)
		require.Contains(t, rec.Body.String(), "ada")

		state := extractState(t, rec.Body.String())
		require.NotNil(t, state.Viewer)
		require.Equal(t, "u1", state.Viewer.ID)
		require.Equal(t, "ada", state.Viewer.Username)
	})
}

func TestDispatcher_Unmatched(t *testing.T) {
	t.Parallel()

	d := newDispatcher(t, &fakeExec{})

	rec := httptest.NewRecorder()
	c := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.NoError(t, d.Handle(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Page not found")
}

func TestDispatcher_AssetPrefixBypassesTable(t *testing.T) {
	t.Parallel()

	exec := &fakeExec{}
	d := newDispatcher(t, exec)

	rec := httptest.NewRecorder()
	c := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/assets/missing.css", nil))

	require.NoError(t, d.Handle(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Zero(t, exec.calls)
}
