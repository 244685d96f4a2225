package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultRemoteTimeout = 10 * time.Second

// Remote forwards queries to an external GraphQL endpoint over HTTP,
// carrying the caller's session cookie so the upstream sees the same
// viewer.
type Remote struct {
	client   *http.Client
	endpoint string
}

// RemoteOption configures the remote executor.
type RemoteOption func(*Remote)

// WithHTTPClient replaces the HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *Remote) {
		if c != nil {
			r.client = c
		}
	}
}

// NewRemote creates an executor that POSTs queries to endpoint.
func NewRemote(endpoint string, opts ...RemoteOption) *Remote {
	r := &Remote{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultRemoteTimeout},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type remoteRequest struct {
	Variables map[string]any `json:"variables,omitempty"`
	Query     string         `json:"query"`
}

type remoteResponse struct {
	Data   map[string]any `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Exec POSTs {query,variables} to the endpoint. Upstream errors carrying
// the unauthorized sentinel become KindUnauthorized; transport failures
// and other upstream errors are KindInternal.
func (r *Remote) Exec(ctx context.Context, query string, vars map[string]any) (map[string]any, error) {
	body, err := json.Marshal(remoteRequest{Query: query, Variables: vars})
	if err != nil {
		return nil, Internal(fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, Internal(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c := SessionCookieFrom(ctx); c != nil {
		req.AddCookie(c)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, Internal(fmt.Errorf("post %s: %w", r.endpoint, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, Unauthorized()
	}
	if resp.StatusCode != http.StatusOK {
		return nil, Internal(fmt.Errorf("post %s: unexpected status %d", r.endpoint, resp.StatusCode))
	}

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, Internal(fmt.Errorf("decode response: %w", err))
	}

	if len(out.Errors) > 0 {
		for _, e := range out.Errors {
			if e.Message == sentinelUnauthorized {
				return nil, Unauthorized()
			}
		}
		return nil, Internal(fmt.Errorf("upstream: %s", out.Errors[0].Message))
	}

	return out.Data, nil
}
