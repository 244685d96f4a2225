// Package content renders the embedded markdown pages.
package content

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/yuin/goldmark"

	"github.com/mosaic-web/mosaic/pkg/sanitizer"
)

//go:embed about.md
var aboutMarkdown []byte

// About returns the About page body as sanitized HTML.
// The markdown source is embedded at build time; conversion happens per
// call, which is cheap at this page's size.
func About() (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(aboutMarkdown, &buf); err != nil {
		return "", fmt.Errorf("convert about page: %w", err)
	}
	return sanitizer.SanitizeHTML(buf.String()), nil
}
