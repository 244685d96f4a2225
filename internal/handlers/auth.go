package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mosaic-web/mosaic/internal/render"
	"github.com/mosaic-web/mosaic/internal/repository"
	"github.com/mosaic-web/mosaic/internal/views"
	"github.com/mosaic-web/mosaic/internal/webapp"
	"github.com/mosaic-web/mosaic/pkg/sanitizer"
	"github.com/mosaic-web/mosaic/pkg/slug"
)

const landingPath = "/dashboard"

// UserStore is the account persistence surface the auth handler needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*repository.User, error)
	Create(ctx context.Context, username, passwordHash string) (*repository.User, error)
}

// Auth serves signup, login, and logout.
type Auth struct {
	users    UserStore
	renderer *render.Renderer
	now      func() time.Time
}

// NewAuth creates the auth handler.
func NewAuth(users UserStore, renderer *render.Renderer) *Auth {
	return &Auth{users: users, renderer: renderer, now: time.Now}
}

// Routes declares the auth endpoints.
func (h *Auth) Routes(r webapp.Router) {
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
}

// credentials carries a submitted username/password pair. The username
// is stripped of markup before being reduced to a URL-safe handle, so
// "Alice Smith" always resolves to the same account as "alice-smith".
type credentials struct {
	Username string `sanitize:"strip"`
	Password string
}

func readCredentials(c webapp.Context) credentials {
	creds := credentials{
		Username: c.Form("username"),
		Password: c.Form("password"),
	}
	_ = sanitizer.SanitizeStruct(&creds)
	creds.Username = slug.Make(strings.TrimSpace(creds.Username), slug.MaxLength(64))
	return creds
}

// Signup creates an account. Validation failures re-render the form with
// the submitted fields pre-filled; persistence is never touched for them.
func (h *Auth) Signup(c webapp.Context) error {
	creds := readCredentials(c)
	username, password := creds.Username, creds.Password

	if username == "" || password == "" {
		return h.renderForm(c, views.AuthForm{
			Action: "/signup", Heading: "Sign up", Submit: "Sign up",
			Username: username, Password: password,
			Error: "Username and password are required.",
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return c.Error(http.StatusInternalServerError, "could not create account", webapp.WithError(err))
	}

	user, err := h.users.Create(c.Context(), username, string(hash))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return h.renderForm(c, views.AuthForm{
				Action: "/signup", Heading: "Sign up", Submit: "Sign up",
				Username: username, Password: password,
				Error: "That username is already taken.",
			})
		}
		return c.Error(http.StatusInternalServerError, "could not create account", webapp.WithError(err))
	}

	if err := h.authenticate(c, user); err != nil {
		return err
	}

	return c.Redirect(http.StatusSeeOther, landingPath)
}

// Login checks credentials. A mismatch re-renders the form without
// touching the session.
func (h *Auth) Login(c webapp.Context) error {
	creds := readCredentials(c)
	username, password := creds.Username, creds.Password

	form := views.AuthForm{
		Action: "/login", Heading: "Log in", Submit: "Log in",
		Username: username, Password: password,
	}

	if username == "" || password == "" {
		form.Error = "Username and password are required."
		return h.renderForm(c, form)
	}

	user, err := h.users.GetByUsername(c.Context(), username)
	if err != nil {
		return c.Error(http.StatusInternalServerError, "could not log in", webapp.WithError(err))
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		form.Error = "Invalid username or password."
		return h.renderForm(c, form)
	}

	if err := h.authenticate(c, user); err != nil {
		return err
	}

	return c.Redirect(http.StatusSeeOther, landingPath)
}

func (h *Auth) Logout(c webapp.Context) error {
	if err := c.DestroySession(); err != nil {
		c.LogError("destroy session", "error", err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// authenticate binds the user to the session (rotating the token) and
// caches the username for page state.
func (h *Auth) authenticate(c webapp.Context, user *repository.User) error {
	if err := c.AuthenticateSession(user.ID); err != nil {
		return c.Error(http.StatusInternalServerError, "could not start session", webapp.WithError(err))
	}
	if err := c.SetSessionValue("username", user.Username); err != nil {
		c.LogWarn("store username in session", "error", err)
	}
	return nil
}

// renderForm re-renders an auth form as a full page with HTTP 200.
func (h *Auth) renderForm(c webapp.Context, form views.AuthForm) error {
	state := render.State{
		Path:     c.Request().URL.Path,
		Greeting: render.Greeting(h.now()),
		Data:     map[string]any{},
	}

	c.SetHeader("Content-Type", "text/html; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return h.renderer.RenderPage(c.Context(), c.Response(), render.Page{
		Title: form.Heading,
		Body:  views.Auth(form),
		State: state,
	})
}
