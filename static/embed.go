// Package static embeds the client assets served under /assets/.
package static

import "embed"

//go:embed assets
var FS embed.FS
