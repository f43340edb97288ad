package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrMalformedCoordinate = errors.New("malformed coordinate")

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate is inside the WGS84 range. NaN is never valid.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// IsZero reports the (0,0) placeholder used by producers for missing data.
func (c Coordinate) IsZero() bool {
	return c.Lat == 0 && c.Lon == 0
}

func parseCoord(val string) (float64, error) {
	// Some sheets use a comma as decimal separator
	val = strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
	if val == "" {
		return 0, fmt.Errorf("%w: empty", ErrMalformedCoordinate)
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedCoordinate, val)
	}
	return f, nil
}

// ParseCoordinate parses textual lat/lon values as found in spreadsheets and APIs.
func ParseCoordinate(latRaw, lonRaw string) (Coordinate, error) {
	lat, err := parseCoord(latRaw)
	if err != nil {
		return Coordinate{}, err
	}
	lon, err := parseCoord(lonRaw)
	if err != nil {
		return Coordinate{}, err
	}
	return Coordinate{Lat: lat, Lon: lon}, nil
}

// Shop is a candidate point of interest as delivered by a source. Every
// field is optional; the zero value of each field is its default.
type Shop struct {
	Name       string      `json:"name"`
	Address    string      `json:"address"`
	Location   *Coordinate `json:"location,omitempty"`
	Category   string      `json:"category"`
	PriceRange string      `json:"price_range"`
	Notes      string      `json:"notes"`
	Phone      string      `json:"phone,omitempty"`
	Website    string      `json:"website,omitempty"`
	Source     string      `json:"source,omitempty"`
	SourceID   string      `json:"source_id,omitempty"`
}

// At returns a pointer to a coordinate literal, handy for building shops.
func At(lat, lon float64) *Coordinate {
	return &Coordinate{Lat: lat, Lon: lon}
}

// DedupKey identifies the real-world shop: case-insensitive trimmed name plus
// the location rounded to 4 decimals (~11 m).
func (s Shop) DedupKey() string {
	name := strings.ToLower(strings.TrimSpace(s.Name))
	if s.Location == nil {
		return name + "|-"
	}
	return fmt.Sprintf("%s|%.4f|%.4f", name, round4(s.Location.Lat), round4(s.Location.Lon))
}

func round4(v float64) float64 {
	// +0 turns -0 into 0 so both print the same
	return math.Round(v*1e4)/1e4 + 0
}

// RankedShop is a shop decorated for one search. It is never written back to the source.
type RankedShop struct {
	Shop
	DistanceKm    float64 `json:"distance_km"`
	PriorityScore float64 `json:"priority_score"`
}
