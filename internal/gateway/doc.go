// Package gateway assembles the GraphQL schema from per-feature
// fragments and executes queries either in-process or against a remote
// endpoint. Failures are classified by kind so callers never inspect
// message text.
package gateway
