// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"policyangel/config"

	"github.com/go-redis/redis/v8"
)

var (
	// StoreClient persists the notification list and preferences blobs.
	StoreClient *redis.Client
	// DeviceClient is the dedicated client for the device registry.
	DeviceClient *redis.Client
)

// InitStoreClient initializes the Redis client backing the notification store.
func InitStoreClient() {
	StoreClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisStoreDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := StoreClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Store): %v", err)
	}
}

// GetStoreClient returns the notification store client.
func GetStoreClient() *redis.Client {
	if StoreClient == nil {
		InitStoreClient()
	}
	return StoreClient
}

// InitDeviceClient initializes the Redis client for the device registry.
func InitDeviceClient() {
	DeviceClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDeviceDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := DeviceClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Devices): %v", err)
	}
}

// GetDeviceClient returns the Redis client for the device registry.
func GetDeviceClient() *redis.Client {
	if DeviceClient == nil {
		InitDeviceClient()
	}
	return DeviceClient
}
