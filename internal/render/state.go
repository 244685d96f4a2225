package render

import "time"

// Viewer is the authenticated user summary embedded in the page state.
type Viewer struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// State is the snapshot serialized into the page for client hydration.
// It combines route-fetched page data with ambient request data.
type State struct {
	Viewer   *Viewer        `json:"viewer"`
	Data     map[string]any `json:"data"`
	Path     string         `json:"path"`
	Greeting string         `json:"greeting"`
}

// Greeting derives a salutation from the request clock.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h < 5:
		return "Good night"
	case h < 12:
		return "Good morning"
	case h < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}
