package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	deviceTokensKey = "devices:fcm"
	tokenHashPrefix = "device:tokenhash:"
	sessionTokenTTL = 30 * 24 * time.Hour
)

// DeviceRegistry tracks the app installs that receive pushes and maps
// session-token hashes back to device ids for request authentication.
type DeviceRegistry interface {
	Register(ctx context.Context, deviceID, fcmToken, tokenHash string) error
	Tokens(ctx context.Context) ([]string, error)
	FindByTokenHash(ctx context.Context, hash string) (string, error)
}

// RedisDeviceRegistry implements DeviceRegistry on Redis.
type RedisDeviceRegistry struct {
	client *redis.Client
}

// NewRedisDeviceRegistry creates a registry backed by the given client.
func NewRedisDeviceRegistry(client *redis.Client) *RedisDeviceRegistry {
	return &RedisDeviceRegistry{client: client}
}

// Register stores the device's FCM token and its session-token hash.
// Re-registering a device replaces both.
func (r *RedisDeviceRegistry) Register(ctx context.Context, deviceID, fcmToken, tokenHash string) error {
	if err := r.client.HSet(ctx, deviceTokensKey, deviceID, fcmToken).Err(); err != nil {
		return fmt.Errorf("failed to store device token: %w", err)
	}
	if err := r.client.Set(ctx, tokenHashPrefix+tokenHash, deviceID, sessionTokenTTL).Err(); err != nil {
		return fmt.Errorf("failed to store session token hash: %w", err)
	}
	return nil
}

// Tokens returns every registered FCM token.
func (r *RedisDeviceRegistry) Tokens(ctx context.Context) ([]string, error) {
	fields, err := r.client.HGetAll(ctx, deviceTokensKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load device tokens: %w", err)
	}
	tokens := make([]string, 0, len(fields))
	for _, token := range fields {
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens, nil
}

// FindByTokenHash resolves a session-token hash to its device id.
func (r *RedisDeviceRegistry) FindByTokenHash(ctx context.Context, hash string) (string, error) {
	deviceID, err := r.client.Get(ctx, tokenHashPrefix+hash).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("unknown session token")
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up session token: %w", err)
	}
	return deviceID, nil
}
