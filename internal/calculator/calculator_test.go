package calculator_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"shop-finder/internal/calculator"
	"shop-finder/internal/models"
)

func fullShop(name string, lat, lon float64) models.Shop {
	return models.Shop{
		Name:       name,
		Address:    "12 Hang Bai",
		Location:   models.At(lat, lon),
		Category:   "Thời trang nữ",
		PriceRange: "Trung cấp",
		Notes:      "Giảm 20%",
	}
}

func randomShops(r *rand.Rand, center models.Coordinate, n int) []models.Shop {
	shops := make([]models.Shop, 0, n)
	for i := 0; i < n; i++ {
		s := models.Shop{
			Name:     "shop",
			Location: models.At(center.Lat+r.Float64()*0.6-0.3, center.Lon+r.Float64()*0.6-0.3),
		}
		if r.IntN(2) == 0 {
			s.Address = "somewhere"
		}
		if r.IntN(2) == 0 {
			s.Category = "Quần áo"
		}
		if r.IntN(3) == 0 {
			s.Notes = "sale"
		}
		if r.IntN(10) == 0 {
			s.Location = nil
		}
		shops = append(shops, s)
	}
	return shops
}

func TestHaversineKnownDistance(t *testing.T) {
	// Hanoi to Ho Chi Minh City, roughly 1140 km
	d := calculator.Haversine(21.0245, 105.8530, 10.7769, 106.7009)
	assert.InDelta(t, 1140, d, 15)

	assert.Zero(t, calculator.Haversine(21.0245, 105.8530, 21.0245, 105.8530))
}

func TestDistanceSymmetry(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		a := models.Coordinate{Lat: r.Float64()*180 - 90, Lon: r.Float64()*360 - 180}
		b := models.Coordinate{Lat: r.Float64()*180 - 90, Lon: r.Float64()*360 - 180}
		ab, err := calculator.Distance(a, b)
		require.NoError(t, err)
		ba, err := calculator.Distance(b, a)
		require.NoError(t, err)
		assert.InDelta(t, ab, ba, 1e-9)
		assert.GreaterOrEqual(t, ab, 0.0)
	}
}

func TestDistanceInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		a, b models.Coordinate
	}{
		{"lat out of range", models.Coordinate{Lat: 91, Lon: 0}, models.Coordinate{Lat: 1, Lon: 1}},
		{"lon out of range", models.Coordinate{Lat: 1, Lon: 1}, models.Coordinate{Lat: 1, Lon: -181}},
		{"nan", models.Coordinate{Lat: math.NaN(), Lon: 1}, models.Coordinate{Lat: 1, Lon: 1}},
		{"inf", models.Coordinate{Lat: 1, Lon: 1}, models.Coordinate{Lat: 1, Lon: math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calculator.Distance(tt.a, tt.b)
			require.ErrorIs(t, err, calculator.ErrInvalidCoordinate)
			assert.Equal(t, calculator.SentinelDistanceKm, calculator.DistanceKm(tt.a, tt.b))
		})
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, calculator.IsValid(90, 180))
	assert.True(t, calculator.IsValid(-90, -180))
	assert.True(t, calculator.IsValid(0, 0))
	assert.False(t, calculator.IsValid(90.0001, 0))
	assert.False(t, calculator.IsValid(0, 180.5))
	assert.False(t, calculator.IsValid(math.NaN(), 0))
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		shop     models.Shop
		distance float64
		want     float64
	}{
		{"full metadata at center", fullShop("A", 0, 0), 0, 135},
		{"bare shop at 2.5 km", models.Shop{}, 2.5, 75},
		{"name without address", models.Shop{Name: "A"}, 0, 100},
		{"whitespace-only fields still count", models.Shop{Name: " ", Address: "x", Notes: "  "}, 0, 125},
		{"whitespace promotion counts", models.Shop{Name: "A", Address: "x", Notes: " "}, 0, 125},
		{"distance term floors at zero", fullShop("A", 0, 0), 42, 35},
		{"exactly 10 km", models.Shop{Category: "c"}, 10, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, calculator.Score(tt.shop, tt.distance), 1e-9)
		})
	}
	assert.Equal(t, 135.0, calculator.MaxScore)
}

func TestFilterByRadius_FullShopAtCenter(t *testing.T) {
	center := models.Coordinate{Lat: 21.0245, Lon: 105.8530}
	shop := fullShop("Canifa", 21.0245, 105.8530)

	got := calculator.FilterByRadius(center, []models.Shop{shop}, 5, 3)

	require.Len(t, got, 1)
	assert.Equal(t, 135.0, got[0].PriorityScore)
	assert.Equal(t, 0.0, got[0].DistanceKm)
	assert.Equal(t, "Canifa", got[0].Name)
}

func TestFilterByRadius_OutsideRadius(t *testing.T) {
	center := models.Coordinate{Lat: 21.0, Lon: 105.0}
	far := fullShop("Far", 21.045, 105.0) // ~5 km north

	require.InDelta(t, 5.0, calculator.DistanceKm(center, *far.Location), 0.1)
	assert.Empty(t, calculator.FilterByRadius(center, []models.Shop{far}, 1, 10))
}

func TestFilterByRadius_SkipsUnusableLocations(t *testing.T) {
	center := models.Coordinate{Lat: 0.01, Lon: 0.01}
	shops := []models.Shop{
		fullShop("zero", 0, 0),
		{Name: "no location"},
		fullShop("bad lat", 123, 0.01),
		fullShop("ok", 0.011, 0.011),
	}

	got := calculator.FilterByRadius(center, shops, 1000, 10)

	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].Name)
}

func TestFilterByRadius_ZeroShopExcludedAtAnyRadius(t *testing.T) {
	center := models.Coordinate{Lat: 0.0001, Lon: 0.0001}
	for _, radius := range []float64{0.1, 1, 100, 1000} {
		assert.Empty(t, calculator.FilterByRadius(center, []models.Shop{fullShop("z", 0, 0)}, radius, 5))
	}
}

func TestFilterByRadius_InvalidCenterLogsWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ranker := calculator.NewRanker(zap.New(core))

	got := ranker.FilterByRadius(models.Coordinate{Lat: 100, Lon: 0}, []models.Shop{fullShop("a", 1, 1)}, 10, 5)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 1, logs.FilterMessage("invalid search center").Len())
}

func TestFilterByRadius_NonPositiveLimit(t *testing.T) {
	center := models.Coordinate{Lat: 21, Lon: 105}
	shops := []models.Shop{fullShop("a", 21, 105)}

	for _, limit := range []int{0, -1} {
		got := calculator.FilterByRadius(center, shops, 10, limit)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestFilterByRadius_DoesNotMutateInput(t *testing.T) {
	center := models.Coordinate{Lat: 21, Lon: 105}
	shops := []models.Shop{fullShop("a", 21.001, 105.001)}
	before := *shops[0].Location

	got := calculator.FilterByRadius(center, shops, 10, 5)
	require.Len(t, got, 1)
	got[0].Location.Lat = 0
	got[0].Name = "changed"

	assert.Equal(t, before, *shops[0].Location)
	assert.Equal(t, "a", shops[0].Name)
}

func TestFilterByRadius_SortOrderAndTies(t *testing.T) {
	center := models.Coordinate{Lat: 21, Lon: 105}
	shops := []models.Shop{
		{Name: "far bare", Location: models.At(21.5, 105)},  // > 10 km: score 0
		{Name: "far bare 2", Location: models.At(21.2, 105)}, // > 10 km: score 0, closer
		fullShop("near full", 21.01, 105),
		{Name: "near bare", Location: models.At(21.001, 105)},
	}

	got := calculator.FilterByRadius(center, shops, 100, 10)

	require.Len(t, got, 4)
	assert.Equal(t, "near full", got[0].Name)
	assert.Equal(t, "near bare", got[1].Name)
	assert.Equal(t, "far bare 2", got[2].Name)
	assert.Equal(t, "far bare", got[3].Name)
}

func TestFilterByRadius_StableOnFullTies(t *testing.T) {
	center := models.Coordinate{Lat: 21, Lon: 105}
	shops := []models.Shop{
		{Name: "first", Location: models.At(21.3, 105)},
		{Name: "second", Location: models.At(21.3, 105)},
		{Name: "third", Location: models.At(21.3, 105)},
	}

	got := calculator.FilterByRadius(center, shops, 100, 10)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestFilterByRadius_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	center := models.Coordinate{Lat: 21.0245, Lon: 105.8530}

	for i := 0; i < 50; i++ {
		shops := randomShops(r, center, 200)
		radius := 1 + r.Float64()*30
		limit := 1 + r.IntN(40)

		got := calculator.FilterByRadius(center, shops, radius, limit)

		require.LessOrEqual(t, len(got), limit)
		for j, rs := range got {
			require.LessOrEqual(t, rs.DistanceKm, radius)
			if j == 0 {
				continue
			}
			prev := got[j-1]
			require.GreaterOrEqual(t, prev.PriorityScore, rs.PriorityScore)
			if prev.PriorityScore == rs.PriorityScore {
				require.LessOrEqual(t, prev.DistanceKm, rs.DistanceKm)
			}
		}
	}
}

func TestFilterByRadius_LimitOne(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	center := models.Coordinate{Lat: 10.7769, Lon: 106.7009}

	got := calculator.FilterByRadius(center, randomShops(r, center, 300), 50, 1)

	assert.Len(t, got, 1)
}

func TestFilterByRadius_RoundedDistanceNeverExceedsRadius(t *testing.T) {
	center := models.Coordinate{Lat: 0.5, Lon: 0.5}
	shop := models.Shop{Name: "edge", Location: models.At(0.5, 0.5449)}
	d := calculator.DistanceKm(center, *shop.Location)

	// radius between the raw distance and its 2-decimal rounding
	radius := d + (math.Round(d*100)/100-d)/2
	if radius < d {
		radius = d
	}

	got := calculator.FilterByRadius(center, []models.Shop{shop}, radius, 1)

	require.Len(t, got, 1)
	assert.LessOrEqual(t, got[0].DistanceKm, radius)
}
