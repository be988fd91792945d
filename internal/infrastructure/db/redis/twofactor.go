package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adpulse/marketing-api/internal/core/domain"
)

// TwoFactorStore holds pending one-time verification codes in Redis.
// Key format: twofactor:<subject_id>
type TwoFactorStore struct {
	client *redis.Client
}

func NewTwoFactorStore(client *redis.Client) *TwoFactorStore {
	return &TwoFactorStore{client: client}
}

// Put stores the pending code, replacing any previous one. The code expires
// after ttl.
func (s *TwoFactorStore) Put(ctx context.Context, subjectID, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(subjectID), code, ttl).Err(); err != nil {
		return fmt.Errorf("store two-factor code: %w", err)
	}
	return nil
}

// Consume returns the pending code and deletes it atomically. A missing or
// expired code reports domain.ErrCodeNotFound.
func (s *TwoFactorStore) Consume(ctx context.Context, subjectID string) (string, error) {
	code, err := s.client.GetDel(ctx, s.key(subjectID)).Result()
	if err == redis.Nil {
		return "", domain.ErrCodeNotFound
	}
	if err != nil {
		return "", fmt.Errorf("consume two-factor code: %w", err)
	}
	return code, nil
}

func (s *TwoFactorStore) key(subjectID string) string {
	return "twofactor:" + subjectID
}
