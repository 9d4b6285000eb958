package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

const (
	availableTasksKey = "volunteers:available-tasks"
	availableTasksTTL = 30 * time.Second

	placesKeyPrefix = "lookup:places:"
	placesTTL       = time.Hour
)

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// CacheAvailableTasks stores the serialized available-tasks listing.
func CacheAvailableTasks(ctx context.Context, payload []byte) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Set(ctx, availableTasksKey, payload, availableTasksTTL).Err()
}

// GetCachedAvailableTasks returns the cached listing, or redis.Nil.
func GetCachedAvailableTasks(ctx context.Context) ([]byte, error) {
	if RedisClient == nil {
		return nil, redis.Nil
	}
	data, err := RedisClient.Get(ctx, availableTasksKey).Result()
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

// InvalidateAvailableTasks drops the cached listing. Called on every
// lifecycle transition that changes what volunteers can see.
func InvalidateAvailableTasks(ctx context.Context) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Del(ctx, availableTasksKey).Err()
}

// CachePlaces stores a nearby-places lookup result for a category.
func CachePlaces(ctx context.Context, category string, payload []byte) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Set(ctx, placesKeyPrefix+category, payload, placesTTL).Err()
}

// GetCachedPlaces returns the cached lookup result, or redis.Nil.
func GetCachedPlaces(ctx context.Context, category string) ([]byte, error) {
	if RedisClient == nil {
		return nil, redis.Nil
	}
	data, err := RedisClient.Get(ctx, placesKeyPrefix+category).Result()
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

// PublishDonationUpdate publishes a donation status change to Redis pub/sub
func PublishDonationUpdate(ctx context.Context, donationID uint, status string, data map[string]interface{}) error {
	if RedisClient == nil {
		return nil
	}

	updateData := map[string]interface{}{
		"donationId": donationID,
		"status":     status,
		"data":       data,
		"timestamp":  time.Now().Unix(),
	}

	jsonData, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "donation:updates", jsonData).Err()
}
