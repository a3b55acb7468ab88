// Package config loads the flat set of environment-backed settings this
// service needs. Every setting here is a scalar (URL, port, level, flag,
// count), so a
// direct os.Getenv-with-default pass is used instead of a layered config
// library — see DESIGN.md for why viper wasn't pulled in for this.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the full set of environment-derived settings for both front
// doors and the worker pool.
type Config struct {
	RedisURL   string
	MongoURL   string
	HTTPPort   int
	GRPCPort   int
	LogLevel   string
	LogJSON    bool
	WorkerPool int
}

// Load reads a .env file if present (ignored if absent, mirroring
// apex-build-platform's godotenv.Load() usage) and then environment
// variables, applying the documented defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		RedisURL:   getEnv("REDIS_URL", "redis://127.0.0.1/"),
		MongoURL:   getEnv("MONGO_URL", "mongodb://127.0.0.1:27017/syla"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogJSON:    getEnvBool("LOG_JSON", true),
		WorkerPool: getEnvInt("WORKER_POOL_SIZE", 4),
	}

	port, err := getEnvPort("PORT", 8082)
	if err != nil {
		return nil, err
	}
	cfg.HTTPPort = port

	grpcPort, err := getEnvPort("GRPC_PORT", 9082)
	if err != nil {
		return nil, err
	}
	cfg.GRPCPort = grpcPort

	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvPort(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
