// FILE: othello/internal/server/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server settings read from the environment. Command-line
// flags are applied on top by the server binary.
type Config struct {
	APIHost       string
	APIPort       int
	StoragePath   string // Empty disables persistence
	EngineWorkers int
	EngineTimeout time.Duration
	RedisAddr     string // Empty keeps the engine cache in memory
	RedisPassword string
	RedisDB       int
	CacheSize     int
	JWTSecret     string
	Dev           bool
}

// Load reads an optional .env file, then the OTHELLO_* variables
func Load(envFiles ...string) *Config {
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		log.Printf("No env file loaded: %v", err)
	}

	return &Config{
		APIHost:       GetEnv("OTHELLO_API_HOST", "localhost"),
		APIPort:       GetEnvAsInt("OTHELLO_API_PORT", 8080),
		StoragePath:   GetEnv("OTHELLO_STORAGE_PATH", ""),
		EngineWorkers: GetEnvAsInt("OTHELLO_ENGINE_WORKERS", 2),
		EngineTimeout: time.Duration(GetEnvAsInt("OTHELLO_ENGINE_TIMEOUT_MS", 5000)) * time.Millisecond,
		RedisAddr:     GetEnv("OTHELLO_REDIS_ADDR", ""),
		RedisPassword: GetEnv("OTHELLO_REDIS_PASSWORD", ""),
		RedisDB:       GetEnvAsInt("OTHELLO_REDIS_DB", 0),
		CacheSize:     GetEnvAsInt("OTHELLO_CACHE_SIZE", 4096),
		JWTSecret:     GetEnv("OTHELLO_JWT_SECRET", ""),
		Dev:           GetEnvAsBool("OTHELLO_DEV", false),
	}
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s: %s, using default: %t", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
