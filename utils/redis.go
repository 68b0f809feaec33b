package utils

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"drukhotel/config"
)

// SessionStoreClient is the dedicated client for the persisted session token store.
var SessionStoreClient *redis.Client

// InitSessionStore initializes the Redis client backing the session token store
// (using the DB from AppConfig reserved for session state).
func InitSessionStore() {
	SessionStoreClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := SessionStoreClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Session Store): %v", err)
	}
}

// GetSessionStoreClient returns the Redis client for the session token store.
func GetSessionStoreClient() *redis.Client {
	if SessionStoreClient == nil {
		InitSessionStore()
	}
	return SessionStoreClient
}
