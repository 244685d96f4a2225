package routes

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/mosaic-web/mosaic/internal/render"
)

// Entry declares one page route. Entries are plain data: the dispatcher
// interprets them, the matcher never executes anything.
type Entry struct {
	// Pattern is the path pattern. Segments starting with ':' bind a
	// named parameter; a trailing '*' segment matches any suffix.
	Pattern string

	// Title is the document title for the rendered page.
	Title string

	// Meta and Links populate the document head for this route.
	Meta  []render.MetaTag
	Links []render.LinkTag

	// Query is the GraphQL query fetched server-side before rendering.
	// Empty means the page renders with empty data.
	Query string

	// MapVars converts bound path parameters into GraphQL variables.
	// When nil, parameters are passed through as variables unchanged.
	MapVars func(params map[string]string) map[string]any

	// MapData reshapes the raw GraphQL payload into page data.
	// When nil, the payload is used as-is.
	MapData func(raw map[string]any) map[string]any

	// View builds the page body component from the assembled state.
	View func(s render.State) templ.Component

	// RequiresAuth gates the route behind an authenticated session.
	// Anonymous requests still match; the dispatcher redirects them.
	RequiresAuth bool
}

// Match is the result of a successful route lookup.
type Match struct {
	Entry  *Entry
	Params map[string]string
}

// Table is an ordered, immutable route table. First match wins.
type Table struct {
	entries []Entry
}

// NewTable validates the entries and builds a table.
// Patterns must begin with '/', may contain ':name' segments, and may
// end with a single '*' segment. Duplicate patterns are rejected.
func NewTable(entries []Entry) (*Table, error) {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if !strings.HasPrefix(e.Pattern, "/") {
			return nil, fmt.Errorf("routes: pattern %q must start with '/'", e.Pattern)
		}
		if e.View == nil {
			return nil, fmt.Errorf("routes: pattern %q has no view", e.Pattern)
		}
		if _, dup := seen[e.Pattern]; dup {
			return nil, fmt.Errorf("routes: duplicate pattern %q", e.Pattern)
		}
		seen[e.Pattern] = struct{}{}

		segs := splitPath(e.Pattern)
		for i, seg := range segs {
			if seg == "*" && i != len(segs)-1 {
				return nil, fmt.Errorf("routes: pattern %q has a non-trailing wildcard", e.Pattern)
			}
			if strings.HasPrefix(seg, ":") && len(seg) == 1 {
				return nil, fmt.Errorf("routes: pattern %q has an unnamed parameter", e.Pattern)
			}
		}
	}

	return &Table{entries: entries}, nil
}

// MustTable is NewTable that panics on invalid entries.
// Intended for the static route table declared at startup.
func MustTable(entries []Entry) *Table {
	t, err := NewTable(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Match finds the first entry whose pattern matches path, in declaration
// order. Authenticated-only entries match for anonymous callers too; the
// auth gate lives in the dispatcher.
func (t *Table) Match(path string) (Match, bool) {
	segs := splitPath(path)

	for i := range t.entries {
		e := &t.entries[i]
		if params, ok := matchPattern(splitPath(e.Pattern), segs); ok {
			return Match{Entry: e, Params: params}, true
		}
	}

	return Match{}, false
}

// Entries returns the declared entries, for startup logging.
func (t *Table) Entries() []Entry {
	return t.entries
}

func matchPattern(pattern, path []string) (map[string]string, bool) {
	var params map[string]string

	for i, seg := range pattern {
		if seg == "*" {
			return params, true
		}
		if i >= len(path) {
			return nil, false
		}
		if strings.HasPrefix(seg, ":") {
			if path[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg[1:]] = path[i]
			continue
		}
		if seg != path[i] {
			return nil, false
		}
	}

	if len(path) != len(pattern) {
		return nil, false
	}
	return params, true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
