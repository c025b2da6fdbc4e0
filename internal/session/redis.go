package session

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/vetscout/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisStore persists each pair as a hash with the fields "token" and "userId".
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a store writing sessions under "<prefix>session:<token>".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(token string) string {
	return s.prefix + "session:" + token
}

func (s *RedisStore) Load(ctx context.Context, token string) (*models.Session, error) {
	fields, err := s.client.HGetAll(ctx, s.key(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	stored, ok := fields[TokenKey]
	if !ok || stored != token {
		return nil, nil //nolint:nilnil
	}

	return &models.Session{Token: stored, UserID: fields[UserIDKey]}, nil
}

// Save writes both fields with a single HSET.
func (s *RedisStore) Save(ctx context.Context, session models.Session) error {
	err := s.client.HSet(ctx, s.key(session.Token), TokenKey, session.Token, UserIDKey, session.UserID).Err()
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Delete removes the hash with a single DEL.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// Ping checks the connection to the server.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
