package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds everything the portal reads from the environment.
type Config struct {
	Port    int
	GinMode string

	Postgres struct {
		Host     string
		Port     string
		Username string
		Password string
		Database string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Session struct {
		Secret     string
		CookieName string
	}

	Auth struct {
		Strategy     string // "static" or "provider"
		DemoUsername string
		DemoPassword string
	}

	CORS struct {
		AllowOrigins []string
	}

	Provisioner struct {
		MockDomain string
	}
}

func Load() *Config {
	var cfg Config

	cfg.Port, _ = strconv.Atoi(getenv("PORT", "8080"))
	cfg.GinMode = getenv("GIN_MODE", "debug")

	cfg.Postgres.Host = getenv("DB_HOST", "localhost")
	cfg.Postgres.Port = getenv("DB_PORT", "5432")
	cfg.Postgres.Username = getenv("DB_USERNAME", "postgres")
	cfg.Postgres.Password = getenv("DB_PASSWORD", "postgres")
	cfg.Postgres.Database = getenv("DB_DATABASE", "rds_portal")

	cfg.Redis.Addr = getenv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Redis.DB, _ = strconv.Atoi(getenv("REDIS_DB", "0"))

	cfg.Session.Secret = getenv("SESSION_SECRET", "dev-only-session-secret")
	cfg.Session.CookieName = getenv("SESSION_COOKIE_NAME", "portal_session")

	cfg.Auth.Strategy = getenv("AUTH_STRATEGY", "static")
	cfg.Auth.DemoUsername = getenv("DEMO_USERNAME", "admin")
	cfg.Auth.DemoPassword = getenv("DEMO_PASSWORD", "pass")

	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		cfg.CORS.AllowOrigins = strings.Split(origins, ",")
	}

	cfg.Provisioner.MockDomain = getenv("RDS_MOCK_DOMAIN", "c123456789.us-east-1.rds.amazonaws.com")

	return &cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
