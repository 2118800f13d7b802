package main

import (
	"log"

	"campus.clubhub.id/clubhub/internal/bootstrap"
	"campus.clubhub.id/clubhub/internal/config"
	"campus.clubhub.id/clubhub/internal/server"
	"campus.clubhub.id/clubhub/pkg/database"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedUniversityAdmin(db); err != nil {
			log.Fatalf("failed to seed university admin: %v", err)
		}
	}

	redisClient := connectRedis(cfg.RedisURL)

	srv := server.NewServer(db, redisClient, cfg)

	log.Printf("🚀 ClubHub listening on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// connectRedis returns nil when Redis is unreachable; view counters and live
// notifications degrade gracefully without it.
func connectRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("⚠️ Invalid REDIS_URL, running without Redis: %v", err)
		return nil
	}

	return redis.NewClient(opts)
}
