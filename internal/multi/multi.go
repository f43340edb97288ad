// Package multi fans a lookup out to several shop sources and concatenates
// their batches.
package multi

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shop-finder/internal/logger"
	"shop-finder/internal/models"
	"shop-finder/internal/search"
)

var ErrAllFailed = errors.New("all shop sources failed")

type Named struct {
	Name   string
	Source search.ShopSource
}

type Source struct {
	sources []Named
	log     *zap.Logger
}

func New(log *zap.Logger, sources ...Named) *Source {
	return &Source{sources: sources, log: logger.OrNop(log)}
}

func (m *Source) Len() int {
	return len(m.sources)
}

// Search queries every source concurrently. Batches are concatenated in
// registration order; a failed source contributes nothing. An error is
// returned only if every source failed.
func (m *Source) Search(ctx context.Context, center models.Coordinate, radiusKm float64) ([]models.Shop, error) {
	if len(m.sources) == 0 {
		return []models.Shop{}, nil
	}

	batches := make([][]models.Shop, len(m.sources))
	errs := make([]error, len(m.sources))

	var g errgroup.Group
	for i, src := range m.sources {
		g.Go(func() error {
			batches[i], errs[i] = m.query(ctx, src, center, radiusKm)
			return nil
		})
	}
	_ = g.Wait()

	var (
		out    []models.Shop
		failed []error
	)
	for i, src := range m.sources {
		if errs[i] != nil {
			m.log.Warn("shop source failed", zap.String("source", src.Name), zap.Error(errs[i]))
			failed = append(failed, fmt.Errorf("%s: %w", src.Name, errs[i]))
			continue
		}
		out = append(out, batches[i]...)
	}

	if len(failed) == len(m.sources) {
		return nil, fmt.Errorf("%w: %w", ErrAllFailed, errors.Join(failed...))
	}
	if out == nil {
		out = []models.Shop{}
	}
	return out, nil
}

func (m *Source) query(ctx context.Context, src Named, center models.Coordinate, radiusKm float64) (shops []models.Shop, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", search.ErrSourcePanic, r)
		}
	}()
	return src.Source.Search(ctx, center, radiusKm)
}
