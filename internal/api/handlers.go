package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shop-finder/internal/advice"
	"shop-finder/internal/jobs"
	"shop-finder/internal/models"
	"shop-finder/internal/search"
)

type searchRequest struct {
	Lat              *float64 `json:"lat" binding:"required"`
	Lon              *float64 `json:"lon" binding:"required"`
	PriorityRadiusKm float64  `json:"priority_radius_km" binding:"omitempty,gt=0,lte=1000"`
	MaxRadiusKm      float64  `json:"max_radius_km" binding:"omitempty,gt=0,lte=1000"`
	MaxResults       int      `json:"max_results" binding:"omitempty,min=1,max=100"`
}

func (r searchRequest) center() models.Coordinate {
	return models.Coordinate{Lat: *r.Lat, Lon: *r.Lon}
}

func (r searchRequest) params() search.Params {
	return search.Params{
		PriorityRadiusKm: r.PriorityRadiusKm,
		MaxRadiusKm:      r.MaxRadiusKm,
		DesiredCount:     r.MaxResults,
	}
}

type chatRequest struct {
	searchRequest
	Message string `json:"message" binding:"required"`
}

type exportRequest struct {
	searchRequest
	Message string `json:"message"`
}

type shopResponse struct {
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	DistanceKm     float64 `json:"distance_km"`
	PriorityScore  float64 `json:"priority_score"`
	Category       string  `json:"category"`
	PriceRange     string  `json:"price_range"`
	Notes          string  `json:"notes"`
	Phone          string  `json:"phone,omitempty"`
	Website        string  `json:"website,omitempty"`
	Source         string  `json:"source,omitempty"`
	ItemSuggestion string  `json:"item_suggestion"`
	PromoText      string  `json:"promo_text"`
}

// catalogShop is a stored shop with its location flattened like shopResponse.
// Shops without a location omit lat/lon.
type catalogShop struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Lat        *float64 `json:"lat,omitempty"`
	Lon        *float64 `json:"lon,omitempty"`
	Category   string   `json:"category"`
	PriceRange string   `json:"price_range"`
	Notes      string   `json:"notes"`
	Phone      string   `json:"phone,omitempty"`
	Website    string   `json:"website,omitempty"`
	Source     string   `json:"source,omitempty"`
}

type chatResponse struct {
	Shops     []shopResponse `json:"shops"`
	AIMessage string         `json:"ai_message"`
	Expanded  bool           `json:"expanded"`
	RadiusKm  float64        `json:"radius_km"`
}

func toShopResponse(s models.RankedShop) shopResponse {
	out := shopResponse{
		Name:           s.Name,
		Address:        s.Address,
		DistanceKm:     s.DistanceKm,
		PriorityScore:  s.PriorityScore,
		Category:       s.Category,
		PriceRange:     s.PriceRange,
		Notes:          s.Notes,
		Phone:          s.Phone,
		Website:        s.Website,
		Source:         s.Source,
		ItemSuggestion: advice.ItemSuggestion(s.Category),
		PromoText:      s.Notes,
	}
	if s.Location != nil {
		out.Lat, out.Lon = s.Location.Lat, s.Location.Lon
	}
	return out
}

func toCatalogShop(s models.Shop) catalogShop {
	out := catalogShop{
		Name:       s.Name,
		Address:    s.Address,
		Category:   s.Category,
		PriceRange: s.PriceRange,
		Notes:      s.Notes,
		Phone:      s.Phone,
		Website:    s.Website,
		Source:     s.Source,
	}
	if s.Location != nil {
		lat, lon := s.Location.Lat, s.Location.Lon
		out.Lat, out.Lon = &lat, &lon
	}
	return out
}

func bindError(c *gin.Context, err error) {
	Error(c, http.StatusBadRequest, "invalid request", err.Error())
}

func (s *Server) index(c *gin.Context) {
	OK(c, gin.H{
		"name":    "Shop Finder API",
		"version": "1.0.0",
		"endpoints": []string{
			"GET /health",
			"POST /chat",
			"GET /shops",
			"POST /export",
			"GET /jobs/:id",
			"GET /download/:filename",
		},
	})
}

func (s *Server) health(c *gin.Context) {
	connected := false
	if g, ok := s.deps.Advisor.(interface{ Connected() bool }); ok {
		connected = g.Connected()
	}
	OK(c, gin.H{
		"status":                 "healthy",
		"gemini_connected":       connected,
		"spreadsheet_configured": s.deps.Catalog != nil && s.deps.Catalog.Configured(),
		"places_api_enabled":     s.deps.PlacesEnabled,
	})
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	center := req.center()
	res := s.deps.Searcher.Search(ctx, center, req.params())
	message := s.deps.Advisor.Advise(ctx, res.Shops, center, req.Message)

	shops := make([]shopResponse, 0, len(res.Shops))
	for _, shop := range res.Shops {
		shops = append(shops, toShopResponse(shop))
	}

	s.log.Info("chat answered",
		zap.Int("shops", len(shops)),
		zap.Float64("radius_km", res.RadiusKm),
		zap.Bool("expanded", res.Expanded),
		zap.Int("source_errors", res.SourceErrors),
	)
	OK(c, chatResponse{
		Shops:     shops,
		AIMessage: message,
		Expanded:  res.Expanded,
		RadiusKm:  res.RadiusKm,
	})
}

func (s *Server) listShops(c *gin.Context) {
	if s.deps.Catalog == nil {
		OK(c, gin.H{"total": 0, "shops": []catalogShop{}})
		return
	}

	shops, err := s.deps.Catalog.All()
	if err != nil {
		s.log.Error("failed to read shop catalog", zap.Error(err))
		Error(c, http.StatusInternalServerError, "failed to read shops", nil)
		return
	}

	out := make([]catalogShop, 0, len(shops))
	for _, shop := range shops {
		out = append(out, toCatalogShop(shop))
	}
	OK(c, gin.H{"total": len(out), "shops": out})
}

func (s *Server) export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	center, params := req.center(), req.params()
	job := s.deps.Jobs.Run(context.WithoutCancel(c.Request.Context()), func(ctx context.Context, job *jobs.Job) (*jobs.Result, error) {
		if req.Message != "" {
			job.Log("query: " + req.Message)
		}
		job.Log(fmt.Sprintf("searching shops around %.5f, %.5f", center.Lat, center.Lon))
		res := s.deps.Searcher.Search(ctx, center, params)
		job.SetProgress(1, 2, fmt.Sprintf("%d shops ranked within %.0f km", len(res.Shops), res.RadiusKm))

		filename := fmt.Sprintf("shops_%s.xlsx", job.ID)
		path := filepath.Join(s.deps.ExportDir, filename)
		if err := s.deps.Sink.Write(path, res.Shops); err != nil {
			return nil, fmt.Errorf("write %s: %w", filename, err)
		}
		return &jobs.Result{
			Rows:     len(res.Shops),
			Sheet:    s.deps.ExportSheet,
			Output:   path,
			Filename: filename,
		}, nil
	})

	c.JSON(http.StatusAccepted, gin.H{"job_id": job.ID})
}

func (s *Server) jobStatus(c *gin.Context) {
	job, err := s.deps.Jobs.Get(c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, jobs.ErrNotFound) {
			status = http.StatusNotFound
		}
		Error(c, status, "job not found", nil)
		return
	}
	OK(c, job.Snapshot())
}

func (s *Server) download(c *gin.Context) {
	name := c.Param("filename")
	if name != filepath.Base(name) || name == "." || name == ".." {
		Error(c, http.StatusBadRequest, "invalid filename", nil)
		return
	}

	path := filepath.Join(s.deps.ExportDir, name)
	if _, err := os.Stat(path); err != nil {
		Error(c, http.StatusNotFound, "file not found", nil)
		return
	}
	c.FileAttachment(path, name)
}
