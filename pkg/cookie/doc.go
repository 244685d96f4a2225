// Package cookie provides plain and HMAC-signed cookie management with
// shared attribute configuration (domain, path, Secure, HttpOnly, SameSite).
//
// Signed cookies append a SHA-256 HMAC over the base64-encoded value so
// tampering is detectable without server-side state. Signing requires a
// secret of at least 32 bytes; operations return ErrNoSecret or ErrBadSecret
// when misconfigured rather than silently downgrading to plain cookies.
package cookie
