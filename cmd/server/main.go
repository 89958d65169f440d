package main

import (
	"context" // Context for the Redis ping

	"bankledger/internal/api"    // HTTP surface
	"bankledger/internal/config" // Configuration
	"bankledger/internal/ledger" // Ledger core
	"bankledger/internal/store"  // Snapshot stores

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Pick the snapshot store backend
	var (
		st  store.Store
		err error
	)
	switch cfg.StoreBackend {
	case "mysql":
		st, err = store.OpenMySQLStore(cfg.DSN()) // MySQL-backed snapshot store
		if err != nil {
			logrus.Fatalf("failed to connect to DB: %v", err)
		}
	case "json":
		st = store.NewJSONStore(cfg.DataFile) // File-backed snapshot store
	default:
		logrus.Fatalf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	// Load the ledger and build the core around it
	repo, err := ledger.NewRepository(st)
	if err != nil {
		logrus.Fatalf("failed to load ledger snapshot: %v", err)
	}
	eng := ledger.NewEngine(repo, ledger.BcryptVerifier{}) // Transaction engine
	guard := ledger.NewGuard(repo)                         // Access guard
	views := ledger.NewViews(repo)                         // Read-only views

	// Seed the admin user on a fresh deployment
	if cfg.AdminUsername != "" {
		if err := eng.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail); err != nil {
			logrus.Fatalf("failed to seed admin user: %v", err)
		}
	}

	// Setup the optional Redis read cache
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Wire the HTTP surface and start serving
	r := api.NewRouter(repo, eng, guard, views, redisClient, cfg.JWTSecret)
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}
	logrus.Infof("Server running on :%s (store=%s)", cfg.AppPort, cfg.StoreBackend)
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
