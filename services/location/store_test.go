package location

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"medconnect/models"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func gpsAt(lat, lng float64) models.UserLocation {
	return models.UserLocation{
		Coordinate: models.Coordinate{Latitude: lat, Longitude: lng},
		Source:     models.LocationSourceGPS,
	}
}

func TestStoreUpdateAndCurrent(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	cur, err := store.Current(ctx, "client-1")
	require.NoError(t, err)
	assert.Nil(t, cur)

	require.NoError(t, store.Update(ctx, "client-1", gpsAt(40.7128, -74.0060)))

	cur, err = store.Current(ctx, "client-1")
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, 40.7128, cur.Latitude)
	assert.False(t, cur.UpdatedAt.IsZero())
	assert.Greater(t, mr.TTL("location:client-1"), time.Duration(0))
}

func TestStoreHistoryDedupesAndCaps(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		require.NoError(t, store.Update(ctx, "c", gpsAt(float64(i), float64(i))))
	}
	// Revisit an older location: it moves to the front instead of duplicating.
	require.NoError(t, store.Update(ctx, "c", gpsAt(4, 4)))

	history, err := store.History(ctx, "c")
	require.NoError(t, err)
	require.Len(t, history, HistorySize)

	var got []string
	for _, h := range history {
		got = append(got, fmt.Sprintf("%.0f", h.Latitude))
	}
	assert.Equal(t, []string{"4", "6", "5", "3", "2"}, got)
}

func TestStoreRejectsInvalid(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.Update(ctx, "c", gpsAt(95, 0))
	assert.True(t, errors.Is(err, ErrInvalidCoordinate))

	bad := gpsAt(1, 1)
	bad.Source = "satellite"
	assert.Error(t, store.Update(ctx, "c", bad))
}

func TestStoreClearKeepsHistory(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "c", gpsAt(1, 1)))
	require.NoError(t, store.Clear(ctx, "c"))

	cur, err := store.Current(ctx, "c")
	require.NoError(t, err)
	assert.Nil(t, cur)

	history, err := store.History(ctx, "c")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
