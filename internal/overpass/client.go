// Package overpass looks up clothing shops on OpenStreetMap through the
// Overpass API.
package overpass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"shop-finder/internal/logger"
	"shop-finder/internal/models"
)

const (
	DefaultURL = "https://overpass-api.de/api/interpreter"
	SourceTag  = "openstreetmap"

	minRadiusMeters = 100
	maxRadiusMeters = 50000
	defaultTimeout  = 30 * time.Second
)

var ErrUpstream = errors.New("overpass upstream error")

var (
	shopTags     = []string{"clothes", "fashion", "boutique", "department_store", "mall"}
	elementTypes = []string{"node", "way"}

	categoryByTag = map[string]string{
		"clothes":          "Quần áo",
		"fashion":          "Thời trang",
		"boutique":         "Boutique",
		"department_store": "Trung tâm thương mại",
		"mall":             "Trung tâm thương mại",
	}
)

const (
	defaultCategory = "Quần áo"
	noAddress       = "Không có địa chỉ"
)

type Config struct {
	URL     string
	Enabled bool
	Timeout time.Duration
}

type Client struct {
	cfg    Config
	client *http.Client
	log    *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    logger.OrNop(log),
	}
}

// Search returns the clothing shops OpenStreetMap knows around center. The
// radius is clamped to [100 m, 50 km]. A disabled client returns no shops.
func (c *Client) Search(ctx context.Context, center models.Coordinate, radiusKm float64) ([]models.Shop, error) {
	if !c.cfg.Enabled {
		c.log.Info("overpass lookup disabled")
		return []models.Shop{}, nil
	}

	radius := clampRadius(radiusKm)
	c.log.Info("searching overpass", zap.Int("radius_m", radius))

	form := url.Values{}
	form.Set("data", BuildQuery(center, radius))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "shop-finder/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error("overpass request failed", zap.Error(err))
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("overpass upstream error", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Error("failed to decode overpass payload", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	shops := make([]models.Shop, 0, len(payload.Elements))
	for _, el := range payload.Elements {
		loc, ok := elementLocation(el)
		if !ok {
			continue
		}
		shops = append(shops, normalize(el, loc))
	}

	c.log.Info("overpass returned shops",
		zap.Int("elements", len(payload.Elements)),
		zap.Int("shops", len(shops)),
	)
	return shops, nil
}

func clampRadius(radiusKm float64) int {
	switch {
	case math.IsNaN(radiusKm) || math.IsInf(radiusKm, -1):
		return minRadiusMeters
	case math.IsInf(radiusKm, 1) || radiusKm*1000 > maxRadiusMeters:
		return maxRadiusMeters
	}
	m := int(math.Round(radiusKm * 1000))
	if m < minRadiusMeters {
		return minRadiusMeters
	}
	return m
}

// BuildQuery renders the Overpass QL query for all shop tags around center.
func BuildQuery(center models.Coordinate, radiusMeters int) string {
	lat := strconv.FormatFloat(center.Lat, 'f', -1, 64)
	lon := strconv.FormatFloat(center.Lon, 'f', -1, 64)

	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, typ := range elementTypes {
		for _, tag := range shopTags {
			fmt.Fprintf(&b, "  %s[\"shop\"=\"%s\"](around:%d,%s,%s);\n", typ, tag, radiusMeters, lat, lon)
		}
	}
	b.WriteString(");\nout center;\n")
	return b.String()
}

func elementLocation(el element) (models.Coordinate, bool) {
	var lat, lon float64
	switch {
	case el.Type == "node" && el.Lat != nil && el.Lon != nil:
		lat, lon = *el.Lat, *el.Lon
	case el.Center != nil:
		lat, lon = el.Center.Lat, el.Center.Lon
	default:
		return models.Coordinate{}, false
	}
	loc := models.Coordinate{Lat: lat, Lon: lon}
	if loc.IsZero() {
		return models.Coordinate{}, false
	}
	return loc, true
}

func normalize(el element, loc models.Coordinate) models.Shop {
	tags := el.Tags

	category, ok := categoryByTag[tags["shop"]]
	if !ok {
		category = defaultCategory
	}

	name := firstNonEmpty(tags["name"], tags["brand"])
	if name == "" {
		name = "Cửa hàng " + category
	}

	return models.Shop{
		Name:     name,
		Address:  address(tags),
		Location: &loc,
		Category: category,
		Notes:    tags["opening_hours"],
		Phone:    firstNonEmpty(tags["phone"], tags["contact:phone"]),
		Website:  firstNonEmpty(tags["website"], tags["contact:website"]),
		Source:   SourceTag,
		SourceID: strconv.FormatInt(el.ID, 10),
	}
}

func address(tags map[string]string) string {
	var parts []string
	for _, key := range []string{"addr:housenumber", "addr:street", "addr:district", "addr:city"} {
		if v := strings.TrimSpace(tags[key]); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	if full := strings.TrimSpace(tags["addr:full"]); full != "" {
		return full
	}
	return noAddress
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
