// Package cache keeps short-lived per-user state in Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// locationTTL is how long a shared location stays usable. Stale
// positions would point people at bait cars that have since moved.
const locationTTL = time.Hour

// LocationCache remembers the last position a phone number shared.
type LocationCache interface {
	SetLocation(ctx context.Context, phone string, lat, lon float64) error
	GetLocation(ctx context.Context, phone string) (lat, lon float64, ok bool, err error)
}

type storedLocation struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// RedisLocationCache implements LocationCache on a Redis client.
type RedisLocationCache struct {
	client *redis.Client
}

// NewRedisLocationCache connects to the Redis instance named by a
// redis:// URL.
func NewRedisLocationCache(url string) (*RedisLocationCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisLocationCache{client: redis.NewClient(opt)}, nil
}

// LocationKey builds the Redis key for a phone number. The number is
// reduced to its digits and hashed so raw phone numbers never land in
// the keyspace.
func LocationKey(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	sum := sha256.Sum256([]byte(digits.String()))
	return "user:location:" + hex.EncodeToString(sum[:])
}

func (c *RedisLocationCache) SetLocation(ctx context.Context, phone string, lat, lon float64) error {
	payload, err := json.Marshal(storedLocation{Latitude: lat, Longitude: lon})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, LocationKey(phone), payload, locationTTL).Err()
}

func (c *RedisLocationCache) GetLocation(ctx context.Context, phone string) (float64, float64, bool, error) {
	payload, err := c.client.Get(ctx, LocationKey(phone)).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}
	var loc storedLocation
	if err := json.Unmarshal(payload, &loc); err != nil {
		return 0, 0, false, err
	}
	return loc.Latitude, loc.Longitude, true, nil
}
