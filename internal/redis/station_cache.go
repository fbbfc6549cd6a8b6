package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aklilumengesha/Battery-Swap/internal/models"
)

const nearbyKeyPrefix = "stations:nearby:"

// StationCache keeps recent nearby-station results keyed by user and
// coordinates. A successful booking or collection invalidates every entry
// because battery availability changed.
type StationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStationCache returns a redis-backed cache.
func NewStationCache(client *redis.Client, ttl time.Duration) *StationCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &StationCache{client: client, ttl: ttl}
}

func (c *StationCache) key(userID int64, lat, lon float64) string {
	return fmt.Sprintf("%s%d:%s:%s",
		nearbyKeyPrefix, userID,
		strconv.FormatFloat(lat, 'f', 4, 64),
		strconv.FormatFloat(lon, 'f', 4, 64),
	)
}

// Get returns a cached result; ok is false on miss.
func (c *StationCache) Get(ctx context.Context, userID int64, lat, lon float64) ([]models.Station, bool, error) {
	result, err := c.client.Get(ctx, c.key(userID, lat, lon)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	var stations []models.Station
	if err := json.Unmarshal([]byte(result), &stations); err != nil {
		return nil, false, err
	}
	return stations, true, nil
}

// Save caches a result for the freshness interval.
func (c *StationCache) Save(ctx context.Context, userID int64, lat, lon float64, stations []models.Station) error {
	data, err := json.Marshal(stations)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(userID, lat, lon), data, c.ttl).Err()
}

// InvalidateAll drops every cached nearby result.
func (c *StationCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, nearbyKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
