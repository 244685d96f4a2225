package content_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mosaic-web/mosaic/internal/content"
)

func TestAbout(t *testing.T) {
	t.Parallel()

	html, err := content.About()
	require.NoError(t, err)
	require.Contains(t, html, "<h1>About</h1>")
	require.Contains(t, html, "<li>")
	require.Contains(t, html, `href="/docs/layout"`)
	require.NotContains(t, html, "<script")
}
