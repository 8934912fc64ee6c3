package main

import (
	"context"
	"log"
	"time"

	"labstock/adapters/knowledge"
	"labstock/adapters/llm"
	"labstock/adapters/postgres"
	"labstock/adapters/postgres/migrations"
	"labstock/app"
	"labstock/internal/config"
	"labstock/internal/errors"
	"labstock/internal/ratelimit"
	"labstock/ports"
	"labstock/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase connects to PostgreSQL and applies the schema
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	if err := migrations.Apply(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "schema migration failed")
	}

	return db, nil
}

// startCacheSweeper periodically deletes expired cache rows. Expired
// entries already read as absent; the sweep just reclaims space.
func startCacheSweeper(cache *postgres.SpecCacheRepository, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			swept, err := cache.DeleteExpired(context.Background())
			if err != nil {
				log.Printf("[CacheSweeper] sweep failed: %v", err)
				continue
			}
			if swept > 0 {
				log.Printf("[CacheSweeper] removed %d expired entries", swept)
			}
		}
	}()
}

func main() {
	// Load .env if present; real deployments set env directly
	_ = godotenv.Load()

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	cacheRepo := postgres.NewSpecCacheRepository(db, appConfig.Lookup.CacheTTL)
	communityRepo := postgres.NewCommunityRepository(db)
	userRepo := postgres.NewUserRepository(db)

	if _, err := userRepo.GetOrCreateDefaultUser(context.Background()); err != nil {
		log.Fatalf("default user: %v", err)
	}

	engine := llm.NewLocalEngine(llm.Config{
		BaseURL: appConfig.Inference.BaseURL,
		Model:   appConfig.Inference.Model,
		Timeout: appConfig.Inference.Timeout,
	})
	session := llm.NewSession(engine)

	knowledgeClient := knowledge.NewInstantClient(appConfig.Lookup.KnowledgeTimeout)

	lookupService := app.NewLookupService(
		cacheRepo,
		communityRepo,
		knowledgeClient,
		session,
		ports.GenerateParams{
			MaxTokens:   appConfig.Inference.MaxTokens,
			Temperature: appConfig.Inference.Temperature,
		},
		appConfig.Lookup,
	)
	communityService := app.NewCommunityService(communityRepo, appConfig.Lookup)

	limiter := ratelimit.NewIntervalLimiter(appConfig.Lookup.SearchMinInterval)

	startCacheSweeper(cacheRepo, appConfig.Lookup.SweepInterval)

	server := ui.NewServer(appConfig.Server, lookupService, communityService, cacheRepo, limiter)
	if err := server.Start(); err != nil {
		log.Fatalf("server: %v", err)
	}
}
