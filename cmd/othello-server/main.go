// FILE: othello/cmd/othello-server/main.go
// Package main implements the Othello server: a RESTful API for games
// against the engine, with optional persistence and user accounts.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"othello/cmd/othello-server/cli"
	"othello/internal/server/cache"
	"othello/internal/server/config"
	"othello/internal/server/http"
	"othello/internal/server/processor"
	"othello/internal/server/service"
	"othello/internal/server/storage"
)

const (
	gracefulShutdownTimeout = time.Second * 5
	cacheTTL                = 24 * time.Hour
)

func main() {
	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		os.Exit(0)
	}

	cfg := config.Load()

	// Flags override the environment
	var (
		apiHost       = flag.String("api-host", cfg.APIHost, "API server host")
		apiPort       = flag.Int("api-port", cfg.APIPort, "API server port")
		dev           = flag.Bool("dev", cfg.Dev, "Development mode (relaxed rate limits)")
		storagePath   = flag.String("storage-path", cfg.StoragePath, "Path to SQLite database file (disables persistence if empty)")
		redisAddr     = flag.String("redis", cfg.RedisAddr, "Redis address for the engine cache (in-memory cache if empty)")
		engineWorkers = flag.Int("engine-workers", cfg.EngineWorkers, "Concurrent engine searches")
		engineTimeout = flag.Duration("engine-timeout", cfg.EngineTimeout, "Maximum time per engine move")
		pidPath       = flag.String("pid", "", "Optional path to write PID file")
		pidLock       = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
	)
	flag.Parse()

	if *pidLock && *pidPath == "" {
		log.Fatal("Error: -pid-lock flag requires the -pid flag to be set")
	}

	if *pidPath != "" {
		pid, err := acquirePIDFile(*pidPath, *pidLock)
		if err != nil {
			log.Fatalf("Failed to manage PID file: %v", err)
		}
		defer pid.Release()
		log.Printf("PID file created at: %s (lock: %v)", *pidPath, *pidLock)
	}

	// 1. Storage (optional)
	var store *storage.Store
	if *storagePath != "" {
		log.Printf("Initializing persistent storage at: %s", *storagePath)
		var err error
		store, err = storage.NewStore(*storagePath, *dev)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		if err := store.InitDB(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("Warning: failed to close storage cleanly: %v", err)
			}
		}()
	} else {
		log.Printf("Persistent storage disabled (use -storage-path to enable)")
	}

	// 2. Engine result cache
	var engineCache cache.Cache
	if *redisAddr != "" {
		rc, err := cache.NewRedisCache(*redisAddr, cfg.RedisPassword, cfg.RedisDB, cacheTTL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		engineCache = rc
		log.Printf("Engine cache: Redis (%s)", *redisAddr)
	} else {
		engineCache = cache.NewMemoryCache(cfg.CacheSize)
		log.Printf("Engine cache: in-memory (%d entries)", cfg.CacheSize)
	}
	defer engineCache.Close()

	jwtSecret, err := loadJWTSecret(cfg.JWTSecret, *dev)
	if err != nil {
		log.Fatalf("Failed to prepare JWT secret: %v", err)
	}

	// 3. Service, processor and HTTP app
	svc := service.New(store, jwtSecret)
	proc := processor.New(svc, processor.Config{
		Workers: *engineWorkers,
		Timeout: *engineTimeout,
		Cache:   engineCache,
	})
	app := http.NewFiberApp(proc, svc, *dev)

	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	go func() {
		log.Printf("Othello API Server starting...")
		log.Printf("API Listening on: http://%s", apiAddr)
		log.Printf("Engine: %d worker(s), %v per move", *engineWorkers, *engineTimeout)
		if *dev {
			log.Printf("Rate Limit: 20 requests/second per IP (DEV MODE)")
		} else {
			log.Printf("Rate Limit: 10 requests/second per IP")
		}
		if *storagePath != "" {
			log.Printf("Storage: Enabled (%s)", *storagePath)
		} else {
			log.Printf("Storage: Disabled (auth features unavailable)")
		}
		log.Printf("API Endpoints: http://%s/api/v1/games", apiAddr)
		log.Printf("Auth Endpoints: http://%s/api/v1/auth/[register|login|me]", apiAddr)
		log.Printf("Health: http://%s/health", apiAddr)

		if err := app.Listen(apiAddr); err != nil {
			log.Printf("API server listen error: %v", err)
		}
	}()

	// Wait for an interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err = app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err = proc.Close(); err != nil {
		log.Printf("Processor close error: %v", err)
	}

	// Releases long-polling clients
	if err = svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.Printf("Service shutdown error: %v", err)
	}

	log.Println("Server exited")
}

// loadJWTSecret prefers a configured secret, then a fixed dev secret, then
// a random one that invalidates tokens on restart
func loadJWTSecret(configured string, dev bool) ([]byte, error) {
	switch {
	case configured != "":
		if len(configured) < 32 {
			return nil, fmt.Errorf("OTHELLO_JWT_SECRET must be at least 32 characters")
		}
		log.Printf("Using configured JWT secret")
		return []byte(configured), nil
	case dev:
		log.Printf("Using fixed JWT secret (dev mode)")
		return []byte("dev-secret-minimum-32-characters-long"), nil
	default:
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
		log.Printf("JWT secret generated (sessions valid until restart)")
		return secret, nil
	}
}
