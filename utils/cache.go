package utils

import (
	"context"
	"log"
	"time"

	"medconnect/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionCacheClient stores booking sessions.
	SessionCacheClient *redis.Client
	// LocationCacheClient stores user locations and their history.
	LocationCacheClient *redis.Client
)

func newRedisClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
}

func mustPing(client *redis.Client, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
}

// InitRedis initializes every Redis client the service uses.
func InitRedis() {
	SessionCacheClient = newRedisClient(config.AppConfig.RedisSessionDB)
	mustPing(SessionCacheClient, "Sessions")
	LocationCacheClient = newRedisClient(config.AppConfig.RedisLocationDB)
	mustPing(LocationCacheClient, "Locations")
}

// GetSessionCacheClient returns the Redis client for booking sessions.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		SessionCacheClient = newRedisClient(config.AppConfig.RedisSessionDB)
		mustPing(SessionCacheClient, "Sessions")
	}
	return SessionCacheClient
}

// GetLocationCacheClient returns the Redis client for user locations.
func GetLocationCacheClient() *redis.Client {
	if LocationCacheClient == nil {
		LocationCacheClient = newRedisClient(config.AppConfig.RedisLocationDB)
		mustPing(LocationCacheClient, "Locations")
	}
	return LocationCacheClient
}
