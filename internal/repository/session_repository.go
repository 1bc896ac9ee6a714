package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionRepository keeps the hash of each user's current refresh token.
// One entry per user: issuing a new token replaces the previous one.
type SessionRepository interface {
	SetRefreshTokenHash(ctx context.Context, userID uuid.UUID, hash string, ttl time.Duration) error
	GetRefreshTokenHash(ctx context.Context, userID uuid.UUID) (string, error)
	DeleteRefreshTokenHash(ctx context.Context, userID uuid.UUID) error
}

type sessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) SetRefreshTokenHash(ctx context.Context, userID uuid.UUID, hash string, ttl time.Duration) error {
	if hash == "" {
		return fmt.Errorf("refresh token hash cannot be empty")
	}
	if err := r.client.Set(ctx, r.getRefreshKey(userID), hash, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// GetRefreshTokenHash returns ErrNotFound when the user has no live session.
func (r *sessionRepository) GetRefreshTokenHash(ctx context.Context, userID uuid.UUID) (string, error) {
	hash, err := r.client.Get(ctx, r.getRefreshKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get refresh token: %w", err)
	}
	return hash, nil
}

func (r *sessionRepository) DeleteRefreshTokenHash(ctx context.Context, userID uuid.UUID) error {
	if err := r.client.Del(ctx, r.getRefreshKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

func (r *sessionRepository) getRefreshKey(userID uuid.UUID) string {
	return "session:refresh:" + userID.String()
}
