package handlers

import (
	"net/http"

	"github.com/mosaic-web/mosaic/internal/webapp"
)

// Diagnostics exercises the error boundary. Not production functionality;
// mount only outside production.
type Diagnostics struct{}

// NewDiagnostics creates the diagnostics handler.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

func (h *Diagnostics) Routes(r webapp.Router) {
	r.GET("/500", h.fail)
	r.GET("/panic", h.panic)
}

// fail returns an error so the top-level boundary renders it.
func (h *Diagnostics) fail(c webapp.Context) error {
	return c.Error(http.StatusInternalServerError, "deliberate failure")
}

// panic panics so the recover middleware converts it.
func (h *Diagnostics) panic(c webapp.Context) error {
	panic("deliberate panic")
}
