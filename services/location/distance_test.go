package location

import (
	"errors"
	"math"
	"testing"

	"medconnect/models"

	"github.com/stretchr/testify/assert"
)

var (
	newYork    = models.Coordinate{Latitude: 40.7128, Longitude: -74.0060}
	losAngeles = models.Coordinate{Latitude: 34.0522, Longitude: -118.2437}
	chicago    = models.Coordinate{Latitude: 41.8781, Longitude: -87.6298}
)

func TestDistanceKnownValue(t *testing.T) {
	d := Distance(newYork, losAngeles)
	assert.InDelta(t, 2445, d, 5)
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]models.Coordinate{
		{newYork, losAngeles},
		{chicago, newYork},
		{{Latitude: -33.8688, Longitude: 151.2093}, {Latitude: 51.5074, Longitude: -0.1278}},
		{{Latitude: 89.9, Longitude: 179.9}, {Latitude: -89.9, Longitude: -179.9}},
	}
	for _, p := range pairs {
		assert.Equal(t, Distance(p[0], p[1]), Distance(p[1], p[0]))
	}
}

func TestDistanceZeroIdentity(t *testing.T) {
	for _, c := range []models.Coordinate{newYork, losAngeles, {}, {Latitude: -90, Longitude: 180}} {
		assert.Equal(t, 0.0, Distance(c, c))
	}
}

func TestDistanceRoundedToOneDecimal(t *testing.T) {
	d := Distance(newYork, models.Coordinate{Latitude: 40.7589, Longitude: -73.9851})
	assert.Equal(t, d, math.Round(d*10)/10)
	assert.Greater(t, d, 0.0)
}

func TestValidateCoordinate(t *testing.T) {
	assert.NoError(t, ValidateCoordinate(newYork))
	assert.NoError(t, ValidateCoordinate(models.Coordinate{Latitude: 90, Longitude: -180}))

	for _, c := range []models.Coordinate{
		{Latitude: 90.1},
		{Latitude: -91},
		{Longitude: 180.5},
		{Longitude: -181},
		{Latitude: math.NaN()},
	} {
		err := ValidateCoordinate(c)
		assert.True(t, errors.Is(err, ErrInvalidCoordinate), "coordinate %+v", c)
	}
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "2640 ft", FormatDistance(0.5))
	assert.Equal(t, "0 ft", FormatDistance(0))
	assert.Equal(t, "1 mi", FormatDistance(1))
	assert.Equal(t, "2.5 mi", FormatDistance(2.5))
	assert.Equal(t, "2445.6 mi", FormatDistance(2445.6))
}
