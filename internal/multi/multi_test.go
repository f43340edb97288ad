package multi_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-finder/internal/models"
	"shop-finder/internal/multi"
	"shop-finder/internal/search"
)

func static(shops ...models.Shop) search.ShopSource {
	return search.SourceFunc(func(context.Context, models.Coordinate, float64) ([]models.Shop, error) {
		return shops, nil
	})
}

func failing(err error) search.ShopSource {
	return search.SourceFunc(func(context.Context, models.Coordinate, float64) ([]models.Shop, error) {
		return nil, err
	})
}

var center = models.Coordinate{Lat: 21, Lon: 105}

func TestSearchConcatenatesInOrder(t *testing.T) {
	src := multi.New(nil,
		multi.Named{Name: "sheet", Source: static(models.Shop{Name: "A"}, models.Shop{Name: "B"})},
		multi.Named{Name: "osm", Source: static(models.Shop{Name: "C"})},
	)

	shops, err := src.Search(context.Background(), center, 20)
	require.NoError(t, err)

	names := make([]string, 0, len(shops))
	for _, s := range shops {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
}

func TestSearchSkipsFailedSources(t *testing.T) {
	tests := []struct {
		name string
		bad  search.ShopSource
	}{
		{name: "error", bad: failing(errors.New("boom"))},
		{name: "panic", bad: search.SourceFunc(func(context.Context, models.Coordinate, float64) ([]models.Shop, error) {
			panic("nil map")
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := multi.New(nil,
				multi.Named{Name: "bad", Source: tt.bad},
				multi.Named{Name: "good", Source: static(models.Shop{Name: "A"})},
			)

			shops, err := src.Search(context.Background(), center, 20)
			require.NoError(t, err)
			require.Len(t, shops, 1)
			assert.Equal(t, "A", shops[0].Name)
		})
	}
}

func TestSearchAllFailed(t *testing.T) {
	src := multi.New(nil,
		multi.Named{Name: "a", Source: failing(errors.New("down"))},
		multi.Named{Name: "b", Source: failing(errors.New("timeout"))},
	)

	_, err := src.Search(context.Background(), center, 20)
	require.ErrorIs(t, err, multi.ErrAllFailed)
	assert.Contains(t, err.Error(), "a: down")
	assert.Contains(t, err.Error(), "b: timeout")
}

func TestSearchEmpty(t *testing.T) {
	shops, err := multi.New(nil).Search(context.Background(), center, 20)
	require.NoError(t, err)
	assert.NotNil(t, shops)
	assert.Empty(t, shops)

	shops, err = multi.New(nil, multi.Named{Name: "empty", Source: static()}).Search(context.Background(), center, 20)
	require.NoError(t, err)
	assert.NotNil(t, shops)
}
