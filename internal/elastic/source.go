// Package elastic serves shops indexed in Elasticsearch with a geo_point
// "location" field.
package elastic

import (
	"context"
	"encoding/json"
	"fmt"

	es "github.com/olivere/elastic/v7"
	"go.uber.org/zap"

	"shop-finder/internal/logger"
	"shop-finder/internal/models"
)

const (
	SourceTag      = "elasticsearch"
	DefaultIndex   = "shops"
	DefaultMaxHits = 200

	locationField = "location"
)

type Config struct {
	URL     string
	Index   string
	MaxHits int
}

type document struct {
	Name       string       `json:"name"`
	Address    string       `json:"address"`
	Location   *es.GeoPoint `json:"location"`
	Category   string       `json:"category"`
	PriceRange string       `json:"price_range"`
	Notes      string       `json:"notes"`
	Phone      string       `json:"phone"`
	Website    string       `json:"website"`
}

type Source struct {
	client  *es.Client
	index   string
	maxHits int
	log     *zap.Logger
}

// New connects to the cluster at cfg.URL. Sniffing and health checks are
// off so a single node behind a proxy works.
func New(cfg Config, log *zap.Logger) (*Source, error) {
	client, err := es.NewClient(
		es.SetURL(cfg.URL),
		es.SetSniff(false),
		es.SetHealthcheck(false),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	if cfg.Index == "" {
		cfg.Index = DefaultIndex
	}
	if cfg.MaxHits <= 0 {
		cfg.MaxHits = DefaultMaxHits
	}
	return &Source{
		client:  client,
		index:   cfg.Index,
		maxHits: cfg.MaxHits,
		log:     logger.OrNop(log),
	}, nil
}

// Search returns indexed shops within radiusKm of center, nearest first.
func (s *Source) Search(ctx context.Context, center models.Coordinate, radiusKm float64) ([]models.Shop, error) {
	query := es.NewBoolQuery().
		Must(es.NewMatchAllQuery()).
		Filter(es.NewGeoDistanceQuery(locationField).
			Point(center.Lat, center.Lon).
			Distance(fmt.Sprintf("%gkm", radiusKm)))

	result, err := s.client.Search().
		Index(s.index).
		Query(query).
		SortBy(es.NewGeoDistanceSort(locationField).
			Point(center.Lat, center.Lon).
			Asc().
			Unit("km").
			DistanceType("arc").
			IgnoreUnmapped(true)).
		Size(s.maxHits).
		Do(ctx)
	if err != nil {
		s.log.Error("elasticsearch search failed", zap.String("index", s.index), zap.Error(err))
		return nil, err
	}

	shops := make([]models.Shop, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		var doc document
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			s.log.Warn("skipping undecodable hit", zap.String("id", hit.Id), zap.Error(err))
			continue
		}
		shops = append(shops, doc.toShop(hit.Id))
	}

	s.log.Debug("elasticsearch hits",
		zap.Int("hits", len(result.Hits.Hits)),
		zap.Float64("radius_km", radiusKm),
	)
	return shops, nil
}

func (d document) toShop(id string) models.Shop {
	shop := models.Shop{
		Name:       d.Name,
		Address:    d.Address,
		Category:   d.Category,
		PriceRange: d.PriceRange,
		Notes:      d.Notes,
		Phone:      d.Phone,
		Website:    d.Website,
		Source:     SourceTag,
		SourceID:   id,
	}
	if d.Location != nil {
		shop.Location = models.At(d.Location.Lat, d.Location.Lon)
	}
	return shop
}
