package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mosaic-web/mosaic/pkg/session"
)

// Sessions is a Postgres-backed session.Store.
// Session values are stored as a JSONB column.
type Sessions struct {
	pool *pgxpool.Pool
}

// NewSessions creates a new Sessions store.
func NewSessions(pool *pgxpool.Pool) *Sessions {
	return &Sessions{pool: pool}
}

// Create persists a new session.
func (r *Sessions) Create(ctx context.Context, sess *session.Session) error {
	values, err := json.Marshal(sess.Values)
	if err != nil {
		return fmt.Errorf("marshal session values: %w", err)
	}

	query := `
		INSERT INTO sessions (id, token, user_id, ip, user_agent, data, created_at, last_active_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.pool.Exec(ctx, query,
		sess.ID, sess.Token, sess.UserID, sess.IP, sess.UserAgent, values,
		sess.CreatedAt, sess.LastActiveAt, sess.ExpiresAt,
	)
	return err
}

// Get returns the session with the given token.
// Returns session.ErrNotFound when the token is unknown and
// session.ErrExpired when the session has expired.
func (r *Sessions) Get(ctx context.Context, token string) (*session.Session, error) {
	query := `
		SELECT id, token, user_id, ip, user_agent, data, created_at, last_active_at, expires_at
		FROM sessions
		WHERE token = $1`

	var (
		sess   session.Session
		values []byte
	)
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&sess.ID, &sess.Token, &sess.UserID, &sess.IP, &sess.UserAgent, &values,
		&sess.CreatedAt, &sess.LastActiveAt, &sess.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}

	if len(values) > 0 {
		if err := json.Unmarshal(values, &sess.Values); err != nil {
			return nil, fmt.Errorf("unmarshal session values: %w", err)
		}
	}
	if sess.Values == nil {
		sess.Values = make(map[string]any)
	}

	if sess.IsExpired() {
		return nil, session.ErrExpired
	}

	return &sess, nil
}

// Update persists session changes, keyed by ID since the token can rotate.
// Returns session.ErrNotFound when the session no longer exists.
func (r *Sessions) Update(ctx context.Context, sess *session.Session) error {
	values, err := json.Marshal(sess.Values)
	if err != nil {
		return fmt.Errorf("marshal session values: %w", err)
	}

	query := `
		UPDATE sessions
		SET token = $2, user_id = $3, data = $4, last_active_at = $5, expires_at = $6
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		sess.ID, sess.Token, sess.UserID, values, time.Now(), sess.ExpiresAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

// Delete removes the session with the given ID.
func (r *Sessions) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteByUserID removes all sessions belonging to the given user.
func (r *Sessions) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}

// DeleteExpired removes sessions that expired before now.
// Returns the number of sessions removed.
func (r *Sessions) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
