package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// Errors.
var (
	ErrNotFound  = errors.New("cookie: not found")
	ErrNoSecret  = errors.New("cookie: secret required")
	ErrBadSecret = errors.New("cookie: secret must be 32+ bytes")
	ErrBadSig    = errors.New("cookie: invalid signature")
)

// Manager handles cookie operations.
// A Manager without a secret can only read and write plain cookies;
// signed operations return ErrNoSecret.
type Manager struct {
	secret   []byte // nil = signing disabled
	domain   string
	path     string
	secure   bool
	httpOnly bool
	sameSite http.SameSite
}

// Option configures the Manager.
type Option func(*Manager)

// New creates a cookie Manager with the given options.
func New(opts ...Option) *Manager {
	m := &Manager{
		path:     "/",
		httpOnly: true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithSecret sets the secret used for signing.
// Secrets shorter than 32 bytes are rejected lazily by signed operations.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		m.secret = []byte(secret)
	}
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(m *Manager) {
		m.domain = domain
	}
}

// WithPath sets the cookie path. Defaults to "/".
func WithPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

// WithSecure sets the Secure flag.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithHTTPOnly sets the HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) {
		m.httpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute. Defaults to Lax.
func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) {
		m.sameSite = ss
	}
}

// Get returns a plain cookie value.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", ErrNotFound
	}
	return c.Value, nil
}

// Set writes a plain cookie with the manager's attributes.
// maxAge follows http.Cookie semantics: 0 means session cookie,
// negative deletes the cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, m.build(name, value, maxAge))
}

// Delete removes a cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.build(name, "", -1))
}

// SetSigned writes a cookie with an HMAC-SHA256 signature appended.
// Returns ErrNoSecret or ErrBadSecret if the secret is missing or too short.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, maxAge int) error {
	if err := m.checkSecret(); err != nil {
		return err
	}
	http.SetCookie(w, m.build(name, m.sign(value), maxAge))
	return nil
}

// GetSigned returns a signed cookie value after verifying its signature.
// Returns ErrBadSig if the value was tampered with.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	if err := m.checkSecret(); err != nil {
		return "", err
	}
	c, err := r.Cookie(name)
	if err != nil {
		return "", ErrNotFound
	}
	return m.verify(c.Value)
}

func (m *Manager) build(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}

func (m *Manager) checkSecret() error {
	if len(m.secret) == 0 {
		return ErrNoSecret
	}
	if len(m.secret) < 32 {
		return ErrBadSecret
	}
	return nil
}

// sign encodes value as base64 and appends a base64 HMAC digest,
// separated by a dot so the value survives cookie encoding rules.
func (m *Manager) sign(value string) string {
	payload := base64.URLEncoding.EncodeToString([]byte(value))
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(payload))
	sig := base64.URLEncoding.EncodeToString(mac.Sum(nil))
	return payload + "." + sig
}

func (m *Manager) verify(raw string) (string, error) {
	payload, sig, ok := strings.Cut(raw, ".")
	if !ok {
		return "", ErrBadSig
	}
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(payload))
	expected := base64.URLEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrBadSig
	}
	decoded, err := base64.URLEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrBadSig
	}
	return string(decoded), nil
}
