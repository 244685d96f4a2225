package render

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"

	"github.com/mosaic-web/mosaic/internal/webapp"
)

// Page contains everything needed to emit a complete HTML document.
type Page struct {
	// Body is the server-rendered page content.
	Body webapp.Component

	// Title is the document title.
	Title string

	// Lang is the html element language attribute. Defaults to "en".
	Lang string

	// Meta contains additional meta tags for the page.
	Meta []MetaTag

	// Links contains additional link tags (favicon, canonical, etc.).
	Links []LinkTag

	// State is serialized into the initial-state script for hydration.
	State State
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name     string
	Content  string
	Property string
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel  string
	Href string
	Type string
}

// Renderer writes full HTML documents around rendered page bodies.
type Renderer struct {
	stylesheets []string
	scripts     []string
}

// Option configures the Renderer.
type Option func(*Renderer)

// WithStylesheets sets the external stylesheets linked in every document.
func WithStylesheets(hrefs ...string) Option {
	return func(r *Renderer) {
		r.stylesheets = hrefs
	}
}

// WithScripts sets the client scripts loaded (deferred) in every document.
func WithScripts(srcs ...string) Option {
	return func(r *Renderer) {
		r.scripts = srcs
	}
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		stylesheets: []string{"/assets/app.css"},
		scripts:     []string{"/assets/app.js"},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderPage writes the complete document to w: head from the page's
// metadata, the rendered body, the initial-state script, then client
// scripts. The state script must precede the client bundle so hydration
// sees the snapshot.
func (r *Renderer) RenderPage(ctx context.Context, w io.Writer, page Page) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n", html.EscapeString(lang)); err != nil {
		return err
	}

	if err := r.renderHead(w, page); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "<body>\n<div id=\"root\">"); err != nil {
		return err
	}

	if page.Body != nil {
		if err := page.Body.Render(ctx, w); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "</div>\n"); err != nil {
		return err
	}

	if err := writeInitialState(w, page.State); err != nil {
		return err
	}

	for _, src := range r.scripts {
		if _, err := fmt.Fprintf(w, "<script src=\"%s\" defer></script>\n", html.EscapeString(src)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

func (r *Renderer) renderHead(w io.Writer, page Page) error {
	if _, err := io.WriteString(w, "<head>\n  <meta charset=\"utf-8\">\n  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n"); err != nil {
		return err
	}

	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", html.EscapeString(page.Title)); err != nil {
			return err
		}
	}

	for _, meta := range page.Meta {
		if _, err := io.WriteString(w, "  <meta"); err != nil {
			return err
		}
		if meta.Name != "" {
			if _, err := fmt.Fprintf(w, " name=\"%s\"", html.EscapeString(meta.Name)); err != nil {
				return err
			}
		}
		if meta.Property != "" {
			if _, err := fmt.Fprintf(w, " property=\"%s\"", html.EscapeString(meta.Property)); err != nil {
				return err
			}
		}
		if meta.Content != "" {
			if _, err := fmt.Fprintf(w, " content=\"%s\"", html.EscapeString(meta.Content)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, ">\n"); err != nil {
			return err
		}
	}

	for _, link := range page.Links {
		if _, err := io.WriteString(w, "  <link"); err != nil {
			return err
		}
		if link.Rel != "" {
			if _, err := fmt.Fprintf(w, " rel=\"%s\"", html.EscapeString(link.Rel)); err != nil {
				return err
			}
		}
		if link.Href != "" {
			if _, err := fmt.Fprintf(w, " href=\"%s\"", html.EscapeString(link.Href)); err != nil {
				return err
			}
		}
		if link.Type != "" {
			if _, err := fmt.Fprintf(w, " type=\"%s\"", html.EscapeString(link.Type)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, ">\n"); err != nil {
			return err
		}
	}

	for _, href := range r.stylesheets {
		if _, err := fmt.Fprintf(w, "  <link rel=\"stylesheet\" href=\"%s\">\n", html.EscapeString(href)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</head>\n")
	return err
}

// writeInitialState emits the hydration snapshot as an inline script.
// json.Marshal escapes '<', '>' and '&', so the blob cannot terminate
// the script element early.
func writeInitialState(w io.Writer, s State) error {
	blob, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal initial state: %w", err)
	}
	_, err = fmt.Fprintf(w, "<script>window.__INITIAL_STATE__ = %s;</script>\n", blob)
	return err
}
