package handlers

import (
	"github.com/mosaic-web/mosaic/internal/dispatch"
	"github.com/mosaic-web/mosaic/internal/webapp"
)

// Pages mounts the SSR dispatcher as the GET catch-all.
type Pages struct {
	dispatcher *dispatch.Dispatcher
}

// NewPages creates the pages handler.
func NewPages(d *dispatch.Dispatcher) *Pages {
	return &Pages{dispatcher: d}
}

// Routes declares the catch-all. Registered handlers and static mounts
// take precedence; everything else becomes a page request.
func (h *Pages) Routes(r webapp.Router) {
	r.GET("/*", h.dispatcher.Handle)
}
