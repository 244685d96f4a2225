// Package views holds the server-rendered page bodies as templ
// components. Route views read from the assembled page state; form
// views take their fields explicitly so handlers can re-render with
// submitted values.
package views

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/mosaic-web/mosaic/internal/render"
)

func esc(s string) string { return html.EscapeString(s) }

// str pulls a string field out of a loosely typed data map.
func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	v, _ := m[key].(string)
	return v
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

// Home renders the post index.
func Home(s render.State) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<h1>%s</h1>\n", esc(s.Greeting)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "<section class=\"posts\">\n"); err != nil {
			return err
		}

		posts := asList(s.Data["posts"])
		if len(posts) == 0 {
			if _, err := io.WriteString(w, "<p>No posts yet.</p>\n"); err != nil {
				return err
			}
		}
		for _, raw := range posts {
			p := asMap(raw)
			if p == nil {
				continue
			}
			_, err := fmt.Fprintf(w,
				"<article>\n<h2><a href=\"/posts/%s\">%s</a></h2>\n<p>%s</p>\n</article>\n",
				esc(str(p, "slug")), esc(str(p, "title")), esc(str(p, "excerpt")))
			if err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</section>\n")
		return err
	})
}

// Post renders a single post page.
func Post(s render.State) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := asMap(s.Data["post"])
		if p == nil {
			_, err := io.WriteString(w, "<h1>Post not found</h1>\n<p><a href=\"/\">Back to all posts</a></p>\n")
			return err
		}

		if _, err := fmt.Fprintf(w, "<article>\n<h1>%s</h1>\n", esc(str(p, "title"))); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<p class=\"published\">%s</p>\n", esc(str(p, "publishedAt"))); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<div class=\"body\">%s</div>\n</article>\n", esc(str(p, "body"))); err != nil {
			return err
		}
		_, err := io.WriteString(w, "<p><a href=\"/\">Back to all posts</a></p>\n")
		return err
	})
}

// About renders the pre-sanitized About page HTML.
// The body comes from the embedded markdown pipeline, already sanitized,
// so it is written as-is.
func About(body string) func(render.State) templ.Component {
	return func(render.State) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			_, err := io.WriteString(w, body)
			return err
		})
	}
}

// Dashboard renders the authenticated landing page.
func Dashboard(s render.State) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		viewer := asMap(s.Data["viewer"])
		name := str(viewer, "username")
		if name == "" && s.Viewer != nil {
			name = s.Viewer.Username
		}

		if _, err := fmt.Fprintf(w, "<h1>%s, %s</h1>\n", esc(s.Greeting), esc(name)); err != nil {
			return err
		}
		_, err := io.WriteString(w, "<p>You are signed in.</p>\n<p><a href=\"/logout\">Log out</a></p>\n")
		return err
	})
}

// AuthForm is the shared login/signup form model.
type AuthForm struct {
	// Action is the form's POST target, /login or /signup.
	Action string

	// Heading is the page heading.
	Heading string

	// Submit is the submit button label.
	Submit string

	// Username pre-fills the username field on re-render.
	Username string

	// Password pre-fills the password field on re-render.
	Password string

	// Error is the inline validation message, empty when absent.
	Error string
}

// Auth renders a login or signup form.
func Auth(f AuthForm) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<h1>%s</h1>\n", esc(f.Heading)); err != nil {
			return err
		}
		if f.Error != "" {
			if _, err := fmt.Fprintf(w, "<p class=\"error\">%s</p>\n", esc(f.Error)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w,
			"<form method=\"post\" action=\"%s\">\n"+
				"<label>Username <input type=\"text\" name=\"username\" value=\"%s\"></label>\n"+
				"<label>Password <input type=\"password\" name=\"password\" value=\"%s\"></label>\n"+
				"<button type=\"submit\">%s</button>\n"+
				"</form>\n",
			esc(f.Action), esc(f.Username), esc(f.Password), esc(f.Submit))
		return err
	})
}

// Login renders the login page with empty fields.
func Login(render.State) templ.Component {
	return Auth(AuthForm{Action: "/login", Heading: "Log in", Submit: "Log in"})
}

// Signup renders the signup page with empty fields.
func Signup(render.State) templ.Component {
	return Auth(AuthForm{Action: "/signup", Heading: "Sign up", Submit: "Sign up"})
}

// NotFound renders the 404 page body.
func NotFound() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<h1>Page not found</h1>\n<p><a href=\"/\">Back to the home page</a></p>\n")
		return err
	})
}

// ErrorPage renders the error boundary body.
func ErrorPage(status int, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, "<h1>Error %d</h1>\n<p>%s</p>\n", status, esc(message))
		return err
	})
}
