package search

import (
	"shop-finder/internal/deduper"
	"shop-finder/internal/models"
)

// Merge concatenates batches keeping the first occurrence of every dedup
// identity. Order is preserved: members of earlier batches come first, later
// batches only contribute shops not seen before.
func Merge(batches ...[]models.Shop) []models.Shop {
	size := 0
	for _, b := range batches {
		size += len(b)
	}

	seen := deduper.New()
	merged := make([]models.Shop, 0, size)
	for _, batch := range batches {
		for _, shop := range batch {
			if seen.AddIfNotExists(shop.DedupKey()) {
				merged = append(merged, shop)
			}
		}
	}
	return merged
}
