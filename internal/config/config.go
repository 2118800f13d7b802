package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	RedisURL string

	MeiliSearchHost string
	MeiliMasterKey  string

	JWTSecret string

	// Directory where registration QR artifacts are written.
	QRCodeDir string

	GeminiAPIKey string
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		RedisURL: os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		JWTSecret: getEnv("JWT_SECRET", "12345"),

		QRCodeDir: getEnv("QR_CODE_DIR", "static/qrcodes"),

		// Cloudinary and Resend clients read CLOUDINARY_URL and
		// RESEND_API_KEY from the environment themselves.
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
