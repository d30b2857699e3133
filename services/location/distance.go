package location

import (
	"errors"
	"fmt"
	"math"

	"medconnect/models"
)

// EarthRadiusMiles is the sphere radius used for great-circle distances.
const EarthRadiusMiles = 3959

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// ValidateCoordinate rejects latitudes outside [-90,90] and longitudes outside [-180,180].
// Distance does not validate; every place that creates a Coordinate from outside input
// calls this first.
func ValidateCoordinate(c models.Coordinate) error {
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, c.Latitude)
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

// Distance returns the haversine great-circle distance between a and b in miles,
// rounded to one decimal place.
func Distance(a, b models.Coordinate) float64 {
	return math.Round(haversine(a.Latitude, a.Longitude, b.Latitude, b.Longitude)*10) / 10
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMiles * c
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// FormatDistance renders a distance for display: feet under a mile, miles otherwise.
func FormatDistance(miles float64) string {
	if miles < 1 {
		return fmt.Sprintf("%.0f ft", miles*5280)
	}
	return fmt.Sprintf("%s mi", formatMiles(miles))
}

// formatMiles prints at most one decimal and drops a trailing ".0", e.g. 3 -> "3", 2.5 -> "2.5".
func formatMiles(miles float64) string {
	rounded := math.Round(miles*10) / 10
	if rounded == math.Trunc(rounded) {
		return fmt.Sprintf("%.0f", rounded)
	}
	return fmt.Sprintf("%.1f", rounded)
}
