// Package api exposes shop search, advice and exports over HTTP.
package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"shop-finder/internal/advice"
	"shop-finder/internal/excel"
	"shop-finder/internal/jobs"
	"shop-finder/internal/logger"
	"shop-finder/internal/models"
	"shop-finder/internal/search"
)

type Searcher interface {
	Search(ctx context.Context, center models.Coordinate, p search.Params) search.Result
}

// Catalog lists every shop of a local store, regardless of location.
type Catalog interface {
	Configured() bool
	All() ([]models.Shop, error)
}

type Sink interface {
	Write(path string, shops []models.RankedShop) error
}

type Deps struct {
	Searcher      Searcher
	Advisor       advice.Generator
	Catalog       Catalog
	Jobs          *jobs.Store
	Sink          Sink
	ExportDir     string
	ExportSheet   string
	PlacesEnabled bool

	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int

	Log *zap.Logger
}

type Server struct {
	deps Deps
	log  *zap.Logger
}

func NewServer(deps Deps) *Server {
	if deps.Advisor == nil {
		deps.Advisor = advice.Fallback{}
	}
	if deps.Jobs == nil {
		deps.Jobs = jobs.NewStore(deps.Log)
	}
	if deps.ExportDir == "" {
		deps.ExportDir = "output"
	}
	if deps.ExportSheet == "" {
		deps.ExportSheet = excel.DefaultResultSheet
	}
	if deps.Sink == nil {
		deps.Sink = excel.Sink{Sheet: deps.ExportSheet}
	}
	return &Server{deps: deps, log: logger.OrNop(deps.Log)}
}

// Router builds the gin engine with all middleware and routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(AccessLog(s.log))
	if len(s.deps.CORSOrigins) > 0 {
		r.Use(CORS(s.deps.CORSOrigins))
	}
	if s.deps.RateLimitRPS > 0 {
		burst := s.deps.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		r.Use(NewIPRateLimiter(rate.Limit(s.deps.RateLimitRPS), burst, s.log).RateLimit())
	}

	r.GET("/", s.index)
	r.GET("/health", s.health)
	r.POST("/chat", s.chat)
	r.GET("/shops", s.listShops)
	r.POST("/export", s.export)
	r.GET("/jobs/:id", s.jobStatus)
	r.GET("/download/:filename", s.download)
	return r
}
