package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"policyangel/models"

	"github.com/go-redis/redis/v8"
)

// Persisted state layout: two JSON blobs in the key-value store.
const (
	notificationsKey = "policyangel_notifications"
	preferencesKey   = "policyangel_notification_prefs"
)

// Store persists the notification list and the preferences blob.
type Store interface {
	LoadNotifications(ctx context.Context) ([]models.Notification, error)
	SaveNotifications(ctx context.Context, list []models.Notification) error
	// LoadPreferences returns the stored preferences shallow-merged onto
	// defaults, so fields added after the blob was written get defaulted.
	// A nil result means nothing has been stored yet.
	LoadPreferences(ctx context.Context) (*models.NotificationPreferences, error)
	SavePreferences(ctx context.Context, prefs models.NotificationPreferences) error
}

// RedisStore implements Store on a Redis key-value backend.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Store backed by the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) LoadNotifications(ctx context.Context) ([]models.Notification, error) {
	val, err := s.client.Get(ctx, notificationsKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}

	var list []models.Notification
	if err := json.Unmarshal([]byte(val), &list); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return list, nil
}

func (s *RedisStore) SaveNotifications(ctx context.Context, list []models.Notification) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode notifications: %w", err)
	}
	if err := s.client.Set(ctx, notificationsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save notifications: %w", err)
	}
	return nil
}

func (s *RedisStore) LoadPreferences(ctx context.Context) (*models.NotificationPreferences, error) {
	val, err := s.client.Get(ctx, preferencesKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	// Decode as a patch so missing fields fall back to defaults.
	var patch models.PreferencesPatch
	if err := json.Unmarshal([]byte(val), &patch); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	prefs := models.DefaultPreferences()
	patch.Apply(&prefs)
	return &prefs, nil
}

func (s *RedisStore) SavePreferences(ctx context.Context, prefs models.NotificationPreferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := s.client.Set(ctx, preferencesKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// clonePreferences deep-copies the preferences, including the Types map.
func clonePreferences(p models.NotificationPreferences) models.NotificationPreferences {
	cp := p
	cp.Types = make(map[models.NotificationType]bool, len(p.Types))
	for t, enabled := range p.Types {
		cp.Types[t] = enabled
	}
	return cp
}

// MemoryStore is an in-process Store used by tests and the demo seeder.
type MemoryStore struct {
	mu    sync.Mutex
	list  []models.Notification
	prefs *models.NotificationPreferences
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadNotifications(ctx context.Context) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, len(s.list))
	copy(out, s.list)
	return out, nil
}

func (s *MemoryStore) SaveNotifications(ctx context.Context, list []models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = make([]models.Notification, len(list))
	copy(s.list, list)
	return nil
}

func (s *MemoryStore) LoadPreferences(ctx context.Context) (*models.NotificationPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prefs == nil {
		return nil, nil
	}
	cp := clonePreferences(*s.prefs)
	return &cp, nil
}

func (s *MemoryStore) SavePreferences(ctx context.Context, prefs models.NotificationPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := clonePreferences(prefs)
	s.prefs = &cp
	return nil
}
