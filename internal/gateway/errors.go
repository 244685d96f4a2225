package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies gateway failures so callers branch on kind, never on
// message text.
type Kind string

const (
	// KindUnauthorized means the query requires an authenticated viewer.
	KindUnauthorized Kind = "unauthorized"

	// KindInternal covers every other execution or transport failure.
	KindInternal Kind = "internal"
)

// sentinelUnauthorized is the resolver-level signal for authorization
// failure. The gateway maps it to KindUnauthorized at its boundary.
const sentinelUnauthorized = "unauthorized"

// Error is a classified gateway failure.
type Error struct {
	Err  error
	Msg  string
	Kind Kind
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Unauthorized creates a KindUnauthorized error.
func Unauthorized() *Error {
	return &Error{Kind: KindUnauthorized, Msg: "gateway: unauthorized"}
}

// Internal wraps err as a KindInternal error.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Err: err, Msg: fmt.Sprintf("gateway: %v", err)}
}

// KindOf returns the error's kind. Unclassified errors are KindInternal;
// nil has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindInternal
}

// IsUnauthorized reports whether err is a KindUnauthorized gateway error.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}
