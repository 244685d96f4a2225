// Package render builds full HTML documents for server-rendered pages:
// head metadata per route, the rendered body component, and an inline
// window.__INITIAL_STATE__ snapshot for client hydration.
package render
