package calculator

import (
	"cmp"
	"math"
	"slices"

	"go.uber.org/zap"

	"shop-finder/internal/logger"
	"shop-finder/internal/models"
)

const (
	distanceWeight   = 10.0
	distanceCeiling  = 100.0
	bonusIdentity    = 10.0
	bonusCategory    = 5.0
	bonusPriceRange  = 5.0
	bonusPromotional = 15.0

	// MaxScore is reached by a fully documented shop at distance 0.
	MaxScore = distanceCeiling + bonusIdentity + bonusCategory + bonusPriceRange + bonusPromotional
)

func present(s string) bool {
	return s != ""
}

// Score is an additive heuristic favouring close and well documented shops.
// The distance term decays linearly and reaches zero at 10 km.
func Score(shop models.Shop, distanceKm float64) float64 {
	score := math.Max(0, distanceCeiling-distanceKm*distanceWeight)

	if present(shop.Name) && present(shop.Address) {
		score += bonusIdentity
	}
	if present(shop.Category) {
		score += bonusCategory
	}
	if present(shop.PriceRange) {
		score += bonusPriceRange
	}
	if present(shop.Notes) { // promotion
		score += bonusPromotional
	}

	return score
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Ranker filters and ranks shops around a center. The zero value is not
// usable; build one with NewRanker.
type Ranker struct {
	log *zap.Logger
}

func NewRanker(log *zap.Logger) *Ranker {
	return &Ranker{log: logger.OrNop(log)}
}

var defaultRanker = NewRanker(nil)

// FilterByRadius ranks shops with a silent logger. See (*Ranker).FilterByRadius.
func FilterByRadius(center models.Coordinate, shops []models.Shop, radiusKm float64, limit int) []models.RankedShop {
	return defaultRanker.FilterByRadius(center, shops, radiusKm, limit)
}

// FilterByRadius returns the shops within radiusKm of center, sorted by
// descending priority score then ascending distance, truncated to limit.
//
// An invalid center, a non-positive radius or a limit < 1 yields an empty
// slice. Shops without a usable location are skipped. Input shops are not modified.
func (r *Ranker) FilterByRadius(center models.Coordinate, shops []models.Shop, radiusKm float64, limit int) []models.RankedShop {
	ranked := []models.RankedShop{}

	if !center.Valid() {
		r.log.Warn("invalid search center",
			zap.Float64("lat", center.Lat),
			zap.Float64("lon", center.Lon),
		)
		return ranked
	}
	if limit < 1 || !(radiusKm > 0) {
		return ranked
	}

	skipped := 0
	for _, shop := range shops {
		loc, ok := usableLocation(shop)
		if !ok {
			skipped++
			continue
		}

		d, err := Distance(center, loc)
		if err != nil {
			d = SentinelDistanceKm
		}
		if d > radiusKm {
			continue
		}

		distanceKm := round2(d)
		if distanceKm > radiusKm {
			distanceKm = math.Floor(d*100) / 100
		}

		shop.Location = &loc
		ranked = append(ranked, models.RankedShop{
			Shop:          shop,
			DistanceKm:    distanceKm,
			PriorityScore: Score(shop, d),
		})
	}

	if skipped > 0 {
		r.log.Debug("skipped shops without usable location", zap.Int("count", skipped))
	}

	slices.SortStableFunc(ranked, func(a, b models.RankedShop) int {
		if c := cmp.Compare(b.PriorityScore, a.PriorityScore); c != 0 {
			return c
		}
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func usableLocation(shop models.Shop) (models.Coordinate, bool) {
	if shop.Location == nil {
		return models.Coordinate{}, false
	}
	loc := *shop.Location
	if !loc.Valid() || loc.IsZero() {
		return models.Coordinate{}, false
	}
	return loc, true
}
