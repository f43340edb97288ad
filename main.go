package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"shop-finder/internal/advice"
	"shop-finder/internal/api"
	"shop-finder/internal/cache"
	"shop-finder/internal/config"
	"shop-finder/internal/elastic"
	"shop-finder/internal/excel"
	"shop-finder/internal/jobs"
	"shop-finder/internal/logger"
	"shop-finder/internal/multi"
	"shop-finder/internal/overpass"
	"shop-finder/internal/search"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	sheet := excel.NewSource(cfg.ShopsXLSXPath, cfg.ShopsXLSXSheet, log)

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("redis unreachable, lookups will not be cached", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			rdb = nil
		}
	}
	cached := func(name string, src search.ShopSource) search.ShopSource {
		if rdb == nil {
			return src
		}
		return cache.New(src, rdb, name, cfg.CacheTTL, log)
	}

	if !sheet.Configured() {
		log.Info("SHOPS_XLSX_PATH not set, serving the built-in sample catalog")
	}
	sources := []multi.Named{{Name: excel.SourceTag, Source: sheet}}
	if cfg.ElasticURL != "" {
		es, err := elastic.New(elastic.Config{URL: cfg.ElasticURL, Index: cfg.ElasticIndex}, log)
		if err != nil {
			return err
		}
		sources = append(sources, multi.Named{Name: elastic.SourceTag, Source: cached(elastic.SourceTag, es)})
	}
	places := overpass.New(overpass.Config{
		URL:     cfg.OverpassURL,
		Enabled: cfg.PlacesAPIEnabled,
		Timeout: cfg.SourceTimeout,
	}, log)
	sources = append(sources, multi.Named{Name: overpass.SourceTag, Source: cached(overpass.SourceTag, places)})

	coordinator := search.New(multi.New(log, sources...), search.Options{
		PriorityRadiusKm: cfg.PriorityRadiusKm,
		MaxRadiusKm:      cfg.MaxRadiusKm,
		MaxResults:       cfg.MaxShops,
		Speculative:      cfg.Speculative,
		SourceTimeout:    cfg.SourceTimeout,
	}, log)

	advisor, err := advice.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.ExportDir, 0o755); err != nil {
		return err
	}

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := api.NewServer(api.Deps{
		Searcher:       coordinator,
		Advisor:        advisor,
		Catalog:        sheet,
		Jobs:           jobs.NewStore(log),
		Sink:           excel.Sink{},
		ExportDir:      cfg.ExportDir,
		PlacesEnabled:  cfg.PlacesAPIEnabled,
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("shop finder listening",
			zap.String("addr", srv.Addr),
			zap.Int("sources", len(sources)),
			zap.Bool("gemini", advisor.Connected()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
