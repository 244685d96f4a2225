// Package handlers wires the HTTP surface: auth endpoints, the GraphQL
// endpoint, diagnostics, and the SSR catch-all.
package handlers
