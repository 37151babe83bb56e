package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"departure-window-service/internal/adapters/cache"
	"departure-window-service/internal/adapters/routes"
	"departure-window-service/internal/api"
	"departure-window-service/internal/config"
	"departure-window-service/internal/platform/db"
	"departure-window-service/internal/ports"
	"departure-window-service/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (Routes API, cache backends) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	provider, err := routes.NewGoogleRoutesProvider(
		cfg.RoutesAPIKey,
		nil, // default traffic classification policy
		routes.WithBaseURLs(cfg.RoutesBaseURL, cfg.GeocodeBaseURL),
	)
	if err != nil {
		log.Fatal(err)
	}

	estimator, geocoder, closeCaches, err := wireCaches(cfg, provider)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCaches()

	optimizer := &services.Optimizer{
		Provider:       estimator,
		MinWindow:      cfg.MinWindow(),
		SampleInterval: cfg.SampleInterval(),
		MaxSamples:     cfg.MaxSamples,
	}

	router := api.NewRouter(optimizer, geocoder)

	// The write timeout covers a full cold-cache search: up to twelve
	// sequential upstream calls with retries.
	log.Printf("Server listening addr=:%s cache=%s", cfg.Port, cfg.CacheBackend)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// wireCaches decorates the provider with the configured estimate/geocode
// cache backend. The returned close function releases backend handles.
func wireCaches(
	cfg *config.Config,
	provider *routes.GoogleRoutesProvider,
) (ports.TravelTimeProvider, ports.Geocoder, func(), error) {
	noop := func() {}

	switch cfg.CacheBackend {
	case "none":
		return provider, provider, noop, nil

	case "sqlite":
		sqlDB, err := openSqlite(cfg.DBPath)
		if err != nil {
			return nil, nil, noop, err
		}
		// Local runs initialize the schema on startup.
		if err := cache.InitSchema(sqlDB); err != nil {
			sqlDB.Close()
			return nil, nil, noop, err
		}

		estimator := routes.NewCachingProvider(provider, cache.NewSqliteEstimateCache(sqlDB, cfg.CacheTTL))
		geocoder := routes.NewCachingGeocoder(provider, cache.NewSqliteGeocodeCache(sqlDB))
		return estimator, geocoder, func() { sqlDB.Close() }, nil

	case "postgres":
		// Schema is managed by cmd/dbtool for shared deployments.
		sqlDB, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, noop, err
		}

		estimator := routes.NewCachingProvider(provider, cache.NewSQLEstimateCache(sqlDB, cfg.CacheTTL))
		geocoder := routes.NewCachingGeocoder(provider, cache.NewSQLGeocodeCache(sqlDB))
		return estimator, geocoder, func() { sqlDB.Close() }, nil

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

		estimator := routes.NewCachingProvider(provider, cache.NewRedisEstimateCache(client, cfg.CacheTTL))
		geocoder := routes.NewCachingGeocoder(provider, cache.NewRedisGeocodeCache(client))
		return estimator, geocoder, func() { _ = client.Close() }, nil

	default:
		return nil, nil, noop, fmt.Errorf("unsupported cache backend %q", cfg.CacheBackend)
	}
}

func openSqlite(dbPath string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openSqlite: open sqlite database %q: %w", dbPath, err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("openSqlite: verify sqlite connection to %q: %w", dbPath, err)
	}

	return sqlDB, nil
}
