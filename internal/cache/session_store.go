package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/studyloop/assessment-service/internal/models"
	"github.com/studyloop/assessment-service/internal/session"
)

// ErrSessionNotFound is returned when no live session exists for the key.
var ErrSessionNotFound = errors.New("live session not found")

// SessionStore parks in-progress session state between requests. Sessions
// expire after the configured TTL; an expired session is treated as abandoned.
type SessionStore interface {
	Save(ctx context.Context, attemptID uint, snap *session.Snapshot) error
	Load(ctx context.Context, attemptID uint) (*session.Snapshot, error)
	Delete(ctx context.Context, attemptID uint) error

	// SetActive records which attempt holds the live session for a
	// learner on a given quiz or practice set, so a second start can
	// resume instead of forking.
	SetActive(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string, attemptID uint) error
	GetActive(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string) (uint, error)
	ClearActive(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string) error
}

type sessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &sessionStore{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(attemptID uint) string {
	return fmt.Sprintf("session:attempt:%d", attemptID)
}

func activeKey(kind models.AttemptKind, parentID uint, learnerID string) string {
	return fmt.Sprintf("session:active:%s:%d:%s", kind, parentID, learnerID)
}

func (s *sessionStore) Save(ctx context.Context, attemptID uint, snap *session.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal session snapshot: %w", err)
	}
	return s.client.Set(ctx, sessionKey(attemptID), data, s.ttl).Err()
}

func (s *sessionStore) Load(ctx context.Context, attemptID uint) (*session.Snapshot, error) {
	data, err := s.client.Get(ctx, sessionKey(attemptID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var snap session.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session snapshot: %w", err)
	}
	return &snap, nil
}

func (s *sessionStore) Delete(ctx context.Context, attemptID uint) error {
	return s.client.Del(ctx, sessionKey(attemptID)).Err()
}

func (s *sessionStore) SetActive(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string, attemptID uint) error {
	return s.client.Set(ctx, activeKey(kind, parentID, learnerID), attemptID, s.ttl).Err()
}

func (s *sessionStore) GetActive(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string) (uint, error) {
	id, err := s.client.Get(ctx, activeKey(kind, parentID, learnerID)).Uint64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}
	return uint(id), nil
}

func (s *sessionStore) ClearActive(ctx context.Context, kind models.AttemptKind, parentID uint, learnerID string) error {
	return s.client.Del(ctx, activeKey(kind, parentID, learnerID)).Err()
}
