// README: Entry point; loads config, builds the pricing engine and serves the HTTP API.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"kiloshare/internal/config"
	httptransport "kiloshare/internal/http"
	"kiloshare/internal/infra"
	"kiloshare/internal/logger"
	"kiloshare/internal/metrics"
	"kiloshare/internal/modules/pricing"
	"kiloshare/internal/modules/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ref, err := loadReference(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("load pricing reference", "error", err)
	}

	modes, err := transport.NewTable(ref.Modes)
	if err != nil {
		zl.Fatal("build transport table", "error", err)
	}

	cache, closeCache, err := buildCache(ctx, cfg, ref.Version(), zl)
	if err != nil {
		zl.Fatal("build distance cache", "error", err)
	}
	defer closeCache()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	pricingSvc, err := pricing.NewService(modes, ref, pricing.Options{
		Cache:   cache,
		Strict:  cfg.Pricing.Strict,
		Logger:  zl.With("component", "pricing"),
		Metrics: metrics.NewMetrics(cfg.Metrics.Namespace, reg),
	})
	if err != nil {
		zl.Fatal("build pricing service", "error", err)
	}

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Pricing:  pricingSvc,
		Logger:   zl.With("component", "http"),
		Gatherer: reg,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zl.Error("http shutdown", "error", err)
		}
	}()

	zl.Info("listening", "addr", cfg.HTTP.Addr, "modes", len(modes.Modes()), "strict", cfg.Pricing.Strict)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zl.Fatal("http server", "error", err)
	}
	zl.Info("stopped")
}

// loadReference layers the built-in tables, the optional YAML file and the
// optional Postgres overlay, in that order.
func loadReference(ctx context.Context, cfg config.Config, log logger.Logger) (pricing.Reference, error) {
	ref := pricing.DefaultReference()

	if cfg.Pricing.ReferenceFile != "" {
		var err error
		ref, err = pricing.LoadReferenceFile(cfg.Pricing.ReferenceFile, ref)
		if err != nil {
			return pricing.Reference{}, err
		}
		log.Info("reference file loaded", "path", cfg.Pricing.ReferenceFile)
	}

	if cfg.DB.DSN == "" {
		return ref, nil
	}
	pool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return pricing.Reference{}, err
	}
	defer pool.Close()

	ref, err = pricing.NewStore(pool).LoadReference(ctx, ref)
	if err != nil {
		return pricing.Reference{}, err
	}
	log.Info("reference overlay loaded from postgres", "distances", len(ref.Distances))
	return ref, nil
}

func buildCache(ctx context.Context, cfg config.Config, refVersion string, log logger.Logger) (pricing.DistanceCache, func(), error) {
	mem, err := pricing.NewMemoryCache(cfg.Pricing.CacheSize)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Redis.Addr == "" {
		return mem, func() {}, nil
	}

	rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
	if err != nil {
		return nil, nil, err
	}
	shared := pricing.NewRedisCache(rdb, cfg.Redis.DistanceTTL, refVersion, log.With("component", "redis-cache"))
	log.Info("shared distance cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.DistanceTTL, "reference_version", refVersion)
	return pricing.NewTieredCache(mem, shared), func() { _ = rdb.Close() }, nil
}
