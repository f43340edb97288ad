package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shop-finder/internal/calculator"
	"shop-finder/internal/logger"
	"shop-finder/internal/models"
)

const (
	DefaultPriorityRadiusKm = 20.0
	DefaultMaxRadiusKm      = 500.0
	DefaultMaxResults       = 30
)

var ErrSourcePanic = errors.New("shop source panicked")

type Options struct {
	PriorityRadiusKm float64
	MaxRadiusKm      float64
	MaxResults       int
	// Speculative issues the priority and max calls concurrently. Ranking
	// is the same as in sequential mode.
	Speculative bool
	// SourceTimeout bounds each source call when > 0.
	SourceTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		PriorityRadiusKm: DefaultPriorityRadiusKm,
		MaxRadiusKm:      DefaultMaxRadiusKm,
		MaxResults:       DefaultMaxResults,
	}
}

// Params override Options for a single search. Zero fields use the defaults.
type Params struct {
	PriorityRadiusKm float64
	MaxRadiusKm      float64
	DesiredCount     int
}

type Result struct {
	Shops []models.RankedShop
	// RadiusKm is the radius the final ranking was computed with.
	RadiusKm float64
	// Expanded is true when the max radius pass contributed to the result.
	Expanded bool
	// SourceErrors counts consulted source calls that failed and were
	// treated as empty.
	SourceErrors int
}

// Coordinator runs the expanding radius search over a ShopSource.
type Coordinator struct {
	source ShopSource
	opts   Options
	ranker *calculator.Ranker
	log    *zap.Logger
}

func New(source ShopSource, opts Options, log *zap.Logger) *Coordinator {
	log = logger.OrNop(log)
	def := DefaultOptions()
	if opts.PriorityRadiusKm <= 0 {
		opts.PriorityRadiusKm = def.PriorityRadiusKm
	}
	if opts.MaxRadiusKm <= 0 {
		opts.MaxRadiusKm = def.MaxRadiusKm
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = def.MaxResults
	}
	return &Coordinator{
		source: source,
		opts:   opts,
		ranker: calculator.NewRanker(log),
		log:    log,
	}
}

func (c *Coordinator) Options() Options {
	return c.opts
}

func (c *Coordinator) resolve(p Params) (priority, maxRadius float64, desired int) {
	priority, maxRadius, desired = c.opts.PriorityRadiusKm, c.opts.MaxRadiusKm, c.opts.MaxResults
	if p.PriorityRadiusKm > 0 {
		priority = p.PriorityRadiusKm
	}
	if p.MaxRadiusKm > 0 {
		maxRadius = p.MaxRadiusKm
	}
	if p.DesiredCount > 0 {
		desired = p.DesiredCount
	}
	if priority > maxRadius {
		priority = maxRadius
	}
	return priority, maxRadius, desired
}

// Search returns up to the desired number of ranked shops around center. It
// never fails: a source error, panic or timeout counts as an empty batch.
func (c *Coordinator) Search(ctx context.Context, center models.Coordinate, p Params) Result {
	priority, maxRadius, desired := c.resolve(p)
	if !center.Valid() {
		c.log.Warn("invalid search center",
			zap.Float64("lat", center.Lat),
			zap.Float64("lon", center.Lon),
		)
		return Result{Shops: []models.RankedShop{}, RadiusKm: priority}
	}
	needMax := priority < maxRadius

	var first, second []models.Shop
	var firstErr, secondErr error

	if c.opts.Speculative && needMax {
		var g errgroup.Group
		g.Go(func() error {
			first, firstErr = c.fetch(ctx, center, priority)
			return nil
		})
		g.Go(func() error {
			second, secondErr = c.fetch(ctx, center, maxRadius)
			return nil
		})
		_ = g.Wait()
	} else {
		first, firstErr = c.fetch(ctx, center, priority)
	}

	res := Result{RadiusKm: priority}
	if firstErr != nil {
		res.SourceErrors++
		c.logFailure(firstErr, priority)
	}

	first = Merge(first)
	res.Shops = c.ranker.FilterByRadius(center, first, priority, desired)
	if len(res.Shops) >= desired || !needMax {
		return res
	}

	c.log.Debug("expanding search radius",
		zap.Int("found", len(res.Shops)),
		zap.Int("desired", desired),
		zap.Float64("max_radius_km", maxRadius),
	)

	if !c.opts.Speculative {
		second, secondErr = c.fetch(ctx, center, maxRadius)
	}
	if secondErr != nil {
		res.SourceErrors++
		c.logFailure(secondErr, maxRadius)
	}

	res.Shops = c.ranker.FilterByRadius(center, Merge(first, second), maxRadius, desired)
	res.RadiusKm = maxRadius
	res.Expanded = true
	return res
}

func (c *Coordinator) logFailure(err error, radiusKm float64) {
	c.log.Warn("shop source failed, continuing with empty batch",
		zap.Float64("radius_km", radiusKm),
		zap.Error(err),
	)
}

type outcome struct {
	shops []models.Shop
	err   error
}

// fetch calls the source, converting panics into errors and giving up when
// ctx (bounded by SourceTimeout) is done.
func (c *Coordinator) fetch(ctx context.Context, center models.Coordinate, radiusKm float64) ([]models.Shop, error) {
	if c.opts.SourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.SourceTimeout)
		defer cancel()
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%w: %v", ErrSourcePanic, r)}
			}
		}()
		shops, err := c.source.Search(ctx, center, radiusKm)
		done <- outcome{shops: shops, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			return nil, o.err
		}
		return o.shops, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
