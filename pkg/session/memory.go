package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation.
// Sessions do not survive process restarts; use it for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	byToken  map[string]*Session
	tokenByI map[string]string // session ID -> current token
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byToken:  make(map[string]*Session),
		tokenByI: make(map[string]string),
	}
}

func (s *MemoryStore) Create(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byToken[sess.Token] = sess
	s.tokenByI[sess.ID] = sess.Token
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.byToken[token]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if sess.IsExpired() {
		return nil, ErrExpired
	}
	return sess, nil
}

func (s *MemoryStore) Update(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The token may have rotated; re-key by the stored token for this ID.
	if old, ok := s.tokenByI[sess.ID]; ok && old != sess.Token {
		delete(s.byToken, old)
	}
	s.byToken[sess.Token] = sess
	s.tokenByI[sess.ID] = sess.Token
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token, ok := s.tokenByI[id]; ok {
		delete(s.byToken, token)
		delete(s.tokenByI, id)
	}
	return nil
}

func (s *MemoryStore) DeleteByUserID(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.byToken {
		if sess.UserID != nil && *sess.UserID == userID {
			delete(s.byToken, token)
			delete(s.tokenByI, sess.ID)
		}
	}
	return nil
}

func (s *MemoryStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for token, sess := range s.byToken {
		if now.After(sess.ExpiresAt) {
			delete(s.byToken, token)
			delete(s.tokenByI, sess.ID)
			n++
		}
	}
	return n, nil
}
