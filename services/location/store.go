package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"medconnect/models"

	"github.com/go-redis/redis/v8"
)

// HistorySize is how many distinct recent locations are remembered per client.
const HistorySize = 5

// Store keeps each client's current location and recent location history.
type Store interface {
	Update(ctx context.Context, clientID string, loc models.UserLocation) error
	Current(ctx context.Context, clientID string) (*models.UserLocation, error)
	History(ctx context.Context, clientID string) ([]models.UserLocation, error)
	Clear(ctx context.Context, clientID string) error
}

// RedisStore implements Store on Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a location store. ttl of zero keeps locations until cleared.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func currentKey(clientID string) string { return "location:" + clientID }
func historyKey(clientID string) string { return "location:" + clientID + ":history" }

func (s *RedisStore) Update(ctx context.Context, clientID string, loc models.UserLocation) error {
	if err := ValidateCoordinate(loc.Coordinate); err != nil {
		return err
	}
	if loc.Source != models.LocationSourceGPS && loc.Source != models.LocationSourceManual {
		return fmt.Errorf("unknown location source %q", loc.Source)
	}
	if loc.UpdatedAt.IsZero() {
		loc.UpdatedAt = time.Now()
	}

	history, err := s.History(ctx, clientID)
	if err != nil {
		return err
	}
	next := []models.UserLocation{loc}
	for _, h := range history {
		if h.Latitude == loc.Latitude && h.Longitude == loc.Longitude {
			continue
		}
		next = append(next, h)
	}
	if len(next) > HistorySize {
		next = next[:HistorySize]
	}

	current, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("failed to marshal location: %w", err)
	}
	entries := make([]interface{}, 0, len(next))
	for _, h := range next {
		b, err := json.Marshal(h)
		if err != nil {
			return fmt.Errorf("failed to marshal location history: %w", err)
		}
		entries = append(entries, b)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, currentKey(clientID), current, s.ttl)
		pipe.Del(ctx, historyKey(clientID))
		pipe.RPush(ctx, historyKey(clientID), entries...)
		if s.ttl > 0 {
			pipe.Expire(ctx, historyKey(clientID), s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store location: %w", err)
	}
	return nil
}

// Current returns nil when the client has no location.
func (s *RedisStore) Current(ctx context.Context, clientID string) (*models.UserLocation, error) {
	raw, err := s.client.Get(ctx, currentKey(clientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read location: %w", err)
	}
	var loc models.UserLocation
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil, fmt.Errorf("failed to parse location: %w", err)
	}
	return &loc, nil
}

// History lists the most recent distinct locations, newest first.
func (s *RedisStore) History(ctx context.Context, clientID string) ([]models.UserLocation, error) {
	raw, err := s.client.LRange(ctx, historyKey(clientID), 0, HistorySize-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read location history: %w", err)
	}
	history := make([]models.UserLocation, 0, len(raw))
	for _, r := range raw {
		var loc models.UserLocation
		if err := json.Unmarshal([]byte(r), &loc); err != nil {
			return nil, fmt.Errorf("failed to parse location history: %w", err)
		}
		history = append(history, loc)
	}
	return history, nil
}

// Clear forgets the current location. History is kept so it can be offered again.
func (s *RedisStore) Clear(ctx context.Context, clientID string) error {
	if err := s.client.Del(ctx, currentKey(clientID)).Err(); err != nil {
		return fmt.Errorf("failed to clear location: %w", err)
	}
	return nil
}
