package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultResetCooldown = 2 * time.Minute

// ResetThrottle limits how often a password-reset email may be requested
// per address. Key format: pwreset:<email>
type ResetThrottle struct {
	client   *redis.Client
	cooldown time.Duration
}

// NewResetThrottle creates a ResetThrottle wrapping the given Redis client.
func NewResetThrottle(client *redis.Client, cooldown time.Duration) *ResetThrottle {
	if cooldown <= 0 {
		cooldown = defaultResetCooldown
	}
	return &ResetThrottle{client: client, cooldown: cooldown}
}

// Allow reports whether a new reset email may be issued for this address.
func (t *ResetThrottle) Allow(ctx context.Context, email string) (bool, error) {
	n, err := t.client.Exists(ctx, t.key(email)).Result()
	if err != nil {
		return false, fmt.Errorf("reset throttle check: %w", err)
	}
	return n == 0, nil
}

// Mark records an issuance; further requests are refused until the cooldown
// key expires.
func (t *ResetThrottle) Mark(ctx context.Context, email string) error {
	return t.client.Set(ctx, t.key(email), "1", t.cooldown).Err()
}

func (t *ResetThrottle) key(email string) string {
	return "pwreset:" + strings.ToLower(email)
}
