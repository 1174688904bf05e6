package config

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	awspkg "github.com/shopswift/commerce-backend/pkg/aws"
	"github.com/shopswift/commerce-backend/services/common/logger"
	"go.uber.org/zap"
)

type Config struct {
	Env             string
	Port            string
	MongoURL        string
	MongoDB         string
	RedisURL        string
	ProductCacheTTL time.Duration
	EnforceStock    bool
	RequestTimeout  time.Duration
	AllowedOrigins  string
	JWTSecret       string

	EventBus     string
	KafkaBrokers string
	KafkaTopic   string
	SNSTopicARN  string

	UseSecrets bool
	SecretName string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		logger.Log.Debug("no .env file found, using environment")
	}

	return Config{
		Env:             getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "8086"),
		MongoURL:        getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "ecommerce"),
		RedisURL:        getEnv("REDIS_URL", "redis://redis:6379"),
		ProductCacheTTL: getDuration("PRODUCT_CACHE_TTL", 5*time.Minute),
		EnforceStock:    getBool("CART_ENFORCE_STOCK", false),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 30*time.Second),
		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		EventBus:        getOption("EVENT_BUS", "none"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", "localhost:9092"),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "cart-events"),
		SNSTopicARN:     getEnv("CART_SNS_TOPIC_ARN", ""),
		UseSecrets:      getBool("AWS_USE_SECRETS", false),
		SecretName:      getEnv("AWS_SECRET_NAME", "ecommerce/cart-service"),
	}
}

// ApplySecrets overrides connection strings and the JWT secret from a JSON
// secret in Secrets Manager. It is a no-op unless AWS_USE_SECRETS=true.
func (c *Config) ApplySecrets(ctx context.Context, sm awspkg.SecretGetter) error {
	if !c.UseSecrets || sm == nil {
		return nil
	}
	err := awspkg.ApplySecretJSON(ctx, sm, c.SecretName, map[string]*string{
		"MONGO_URL":  &c.MongoURL,
		"REDIS_URL":  &c.RedisURL,
		"JWT_SECRET": &c.JWTSecret,
	})
	if err != nil {
		logger.Log.Warn("secrets override failed, keeping environment values", zap.Error(err))
	}
	return err
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getOption reads a selector such as the event bus name, lowercased.
func getOption(key, defaultVal string) string {
	return strings.ToLower(strings.TrimSpace(getEnv(key, defaultVal)))
}

func getBool(key string, defaultVal bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return v
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}
