package calculator

import (
	"errors"
	"math"

	"shop-finder/internal/models"
)

const (
	earthRadiusKm = 6371.0088 // mean earth radius

	// SentinelDistanceKm is returned when a distance cannot be computed. It is
	// larger than any radius a search accepts.
	SentinelDistanceKm = 999.0
)

var ErrInvalidCoordinate = errors.New("invalid coordinate")

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// IsValid reports whether lat/lon are inside [-90,90] and [-180,180].
func IsValid(lat, lon float64) bool {
	return models.Coordinate{Lat: lat, Lon: lon}.Valid()
}

// Haversine computes the great-circle distance between two points in kilometers.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lon1Rad := toRadians(lon1)
	lat2Rad := toRadians(lat2)
	lon2Rad := toRadians(lon2)

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// float error can push a slightly past 1 for antipodal points
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Distance returns the distance in km between a and b, or ErrInvalidCoordinate
// when either point is out of range or the result is not finite.
func Distance(a, b models.Coordinate) (float64, error) {
	if !a.Valid() || !b.Valid() {
		return 0, ErrInvalidCoordinate
	}
	d := Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0, ErrInvalidCoordinate
	}
	return d, nil
}

// DistanceKm is the fail-soft form of Distance: a failure yields SentinelDistanceKm
// so the point falls outside any realistic radius.
func DistanceKm(a, b models.Coordinate) float64 {
	d, err := Distance(a, b)
	if err != nil {
		return SentinelDistanceKm
	}
	return d
}
