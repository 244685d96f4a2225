package handlers_test

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mosaic-web/mosaic/internal/webapp"
	"github.com/mosaic-web/mosaic/pkg/session"
)

// testContext implements webapp.Context for handler tests with an
// in-memory session stand-in.
type testContext struct {
	response      http.ResponseWriter
	request       *http.Request
	userID        string
	sessionValues map[string]any
	destroyed     bool
	rotations     int
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
func (c *testContext) SetCookie(string, string, int)             {}
func (c *testContext) DeleteCookie(string)                       {}
func (c *testContext) CookieSigned(string) (string, error)       { return "", nil }
func (c *testContext) SetCookieSigned(string, string, int) error { return nil }
func (c *testContext) Session() (*session.Session, error)        { return nil, nil }
func (c *testContext) InitSession() error                        { return nil }
func (c *testContext) AuthenticateSession(userID string) error {
	c.userID = userID
	c.rotations++
	return nil
}
func (c *testContext) SessionValue(key string) (any, error)      { return c.sessionValues[key], nil }
func (c *testContext) SetSessionValue(key string, val any) error { c.sessionValues[key] = val; return nil }
func (c *testContext) DeleteSessionValue(key string) error       { delete(c.sessionValues, key); return nil }
func (c *testContext) DestroySession() error {
	c.userID = ""
	c.destroyed = true
	return nil
}
func (c *testContext) ResponseWriter() *webapp.ResponseWriter { return nil }
func (c *testContext) Deadline() (time.Time, bool)            { return c.request.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}                  { return c.request.Context().Done() }
func (c *testContext) Err() error                             { return c.request.Context().Err() }
func (c *testContext) Value(key any) any                      { return c.request.Context().Value(key) }
func (c *testContext) UserID() string                         { return c.userID }
func (c *testContext) IsAuthenticated() bool                  { return c.userID != "" }
func (c *testContext) IsCurrentUser(id string) bool           { return c.userID != "" && c.userID == id }
