package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"codeassess/internal/models"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisSessionRepository keeps sessions in Redis so several frontend
// instances can share them. Each key expires with its session.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository creates a session repository backed by client
func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// CreateSession stores the session as JSON with a TTL matching its expiry
func (r *RedisSessionRepository) CreateSession(ctx context.Context, session *models.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("failed to create session: already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID. It returns nil when none exists.
func (r *RedisSessionRepository) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session := &models.Session{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return session, nil
}

// DeleteSession removes a session from Redis
func (r *RedisSessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions is a no-op; Redis evicts keys when their TTL runs out
func (r *RedisSessionRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	return 0, nil
}
