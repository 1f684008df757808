package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dockside/truck-management/internal/core/domain"
)

const sessionKeyPrefix = "import:session:"

// SessionStore keeps staged import sessions in Redis with a TTL, so
// abandoned previews expire on their own. It implements
// ports.ImportSessionStore.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Put(ctx context.Context, session *domain.ImportSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal import session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.Token), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store import session: %w", err)
	}
	return nil
}

// Take consumes the session identified by token, but only for its owner.
// A wrong owner gets domain.ErrNotSessionOwner and the session stays
// resolvable for whoever staged it. GETDEL makes consumption atomic:
// of two concurrent confirms, exactly one receives the session.
func (s *SessionStore) Take(ctx context.Context, token, owner string) (*domain.ImportSession, error) {
	key := sessionKey(token)

	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load import session: %w", err)
	}

	var session domain.ImportSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("unmarshal import session: %w", err)
	}
	if session.Owner != owner {
		return nil, domain.ErrNotSessionOwner
	}

	payload, err = s.client.GetDel(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		// Lost the race to a concurrent confirm.
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("consume import session: %w", err)
	}
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("unmarshal import session: %w", err)
	}
	return &session, nil
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}
