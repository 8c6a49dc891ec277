package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"consorcio-simulator/config"
	httpLayer "consorcio-simulator/http"
	"consorcio-simulator/repository"
	"consorcio-simulator/service"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	ctx := context.Background()

	var catalogRepo repository.CatalogRepository = repository.NewCatalogRepositoryMemory(repository.DefaultCatalog())
	if cfg.CatalogDSN != "" {
		pg, err := repository.OpenCatalogPostgres(ctx, cfg.CatalogDSN, repository.DefaultCatalog())
		if err != nil {
			log.Fatalf("catalog db: %v", err)
		}
		defer pg.Close()
		catalogRepo = pg
		log.Println("Catalog DB connected")
	}

	var cache repository.CacheRepository = repository.NewMemoryCache()
	if cfg.RedisAddr != "" {
		rc := repository.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
		if err := rc.Ping(ctx); err != nil {
			log.Printf("Warning: redis unavailable at %s, using memory cache: %v", cfg.RedisAddr, err)
			rc.Close()
		} else {
			defer rc.Close()
			cache = rc
		}
	}

	catalogService := service.NewCatalogService(catalogRepo)
	simulationService := service.NewSimulationService(repository.NewSimulationRepositoryMemory(), cache)

	// SIMULATION_URL=local keeps simulations in this server, the same store
	// behind /api/simulations, without going through its rate limiter
	var endpoint service.SimulationEndpoint = service.NewSimulationSubmitter(cfg.SimulationURL)
	if cfg.SimulationURL == "local" {
		endpoint = service.NewLocalEndpoint(simulationService)
	}

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.Handlers{
		Pages:       httpLayer.NewPageHandler(catalogService, endpoint),
		Catalog:     httpLayer.NewCatalogHandler(catalogService),
		Simulations: httpLayer.NewSimulationHandler(simulationService),
		Limiter:     rateLimiter,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Consórcios (%s) running on http://localhost:%s, simulations go to %s", cfg.Locale, cfg.Port, cfg.SimulationURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Printf("Error starting server: %v", err)
		return
	case <-quit:
		log.Println("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server exited")
}
