package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Session represents a server-side user session. The browser only holds the
// signed token; the session record is the source of truth for revocation.
type Session struct {
	ID           string    `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SessionStore manages active sessions in Redis, keyed by a digest of the
// session token so raw tokens never land in the store.
type SessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionStore creates a session store backed by Redis.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

func (ss *SessionStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return ss.prefix + hex.EncodeToString(sum[:])
}

// Create stores a new session for the token.
func (ss *SessionStore) Create(ctx context.Context, userID uuid.UUID, token string) (*Session, error) {
	now := time.Now().UTC()
	session := &Session{
		ID:           uuid.New().String(),
		UserID:       userID,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(ss.ttl),
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := ss.client.Set(ctx, ss.key(token), payload, ss.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return session, nil
}

// Get retrieves the session for a token. A missing or expired session
// returns (nil, false, nil), not an error.
func (ss *SessionStore) Get(ctx context.Context, token string) (*Session, bool, error) {
	payload, err := ss.client.Get(ctx, ss.key(token)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if time.Now().UTC().After(session.ExpiresAt) {
		return nil, false, nil
	}

	return &session, true, nil
}

// Touch updates the session's last-activity timestamp, best effort.
func (ss *SessionStore) Touch(ctx context.Context, token string) {
	session, ok, err := ss.Get(ctx, token)
	if err != nil || !ok {
		return
	}

	session.LastActivity = time.Now().UTC()
	payload, err := json.Marshal(session)
	if err != nil {
		return
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return
	}
	ss.client.Set(ctx, ss.key(token), payload, ttl)
}

// Rotate moves a session from an old token to a refreshed one.
func (ss *SessionStore) Rotate(ctx context.Context, oldToken, newToken string) error {
	session, ok, err := ss.Get(ctx, oldToken)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no session to rotate")
	}

	if _, err := ss.Create(ctx, session.UserID, newToken); err != nil {
		return err
	}
	return ss.Invalidate(ctx, oldToken)
}

// Invalidate removes the session for a token.
func (ss *SessionStore) Invalidate(ctx context.Context, token string) error {
	return ss.client.Del(ctx, ss.key(token)).Err()
}
