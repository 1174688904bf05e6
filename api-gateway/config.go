package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the gateway's listen address and upstream locations.
type Config struct {
	Env             string
	Port            string
	AllowedOrigins  string
	JWTSecret       string
	AuthServiceURL  string
	CartServiceURL  string
	UpstreamTimeout time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:             getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AuthServiceURL:  getEnv("AUTH_SERVICE_URL", "http://auth-service:8081"),
		CartServiceURL:  getEnv("CART_SERVICE_URL", "http://cart-service:8086"),
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}
