package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"rds-portal/internal/config"
	"rds-portal/internal/database"
	"rds-portal/internal/handlers"
	"rds-portal/internal/repositories"
	"rds-portal/internal/routes"
	"rds-portal/internal/services"
)

func NewServer() *http.Server {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(pool); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection and fail fast with a clear message
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect to Redis at %s: %v", cfg.Redis.Addr, err)
		}
		log.Println("Connected to Redis successfully")
	}

	// Dependency injection
	instanceRepo := repositories.NewInstanceRepository(pool)
	userRepo := repositories.NewUserRepository(pool)
	sessionRepo := repositories.NewSessionRepository(rdb)

	var authenticator services.Authenticator
	switch cfg.Auth.Strategy {
	case "provider":
		authenticator = &services.ProviderAuthenticator{Users: userRepo}
	default:
		authenticator = &services.StaticAuthenticator{
			Username: cfg.Auth.DemoUsername,
			Password: cfg.Auth.DemoPassword,
		}
	}
	log.Printf("Using %q authentication strategy", authenticator.Strategy())

	authService := services.NewAuthService(authenticator, sessionRepo, []byte(cfg.Session.Secret))
	provisioner := services.NewSimulatedProvisioner(cfg.Provisioner.MockDomain)
	instanceService := services.NewInstanceService(instanceRepo, provisioner)
	dashboardService := services.NewDashboardService(instanceRepo)

	authHandler := handlers.NewAuthHandler(authService, cfg.Session.CookieName)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, authService)
	instanceHandler := handlers.NewInstanceHandler(instanceService)

	// Initialize Gin router
	router := gin.Default()
	router.LoadHTMLGlob("web/templates/*.html")

	if len(cfg.CORS.AllowOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
		corsConfig.AllowCredentials = true
		router.Use(cors.New(corsConfig))
	}

	routes.RegisterRoutes(router, authService, cfg.Session.CookieName, authHandler, dashboardHandler, instanceHandler)

	// Create and configure the HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
