package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	awspkg "github.com/shopswift/commerce-backend/pkg/aws"
	"github.com/shopswift/commerce-backend/services/auth-service/database"
	"github.com/shopswift/commerce-backend/services/common/mailer"
)

// Config holds all environment variables for the auth-service.
type Config struct {
	Env            string
	Port           string
	AllowedOrigins string
	RequestTimeout time.Duration

	Postgres database.PostgresConfig

	MailTransport string
	SMTP          mailer.SMTPConfig
	MailQueueName string

	EventBus     string
	KafkaBrokers string
	KafkaTopic   string
	SNSTopicARN  string
}

// LoadConfig reads the environment (and .env). When AWS_USE_SECRETS=true the
// database and SMTP credentials are overridden from Secrets Manager, falling
// back to the environment on failure.
func LoadConfig(ctx context.Context, sm awspkg.SecretGetter) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8081"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 30*time.Second),
		Postgres: database.PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
		},
		MailTransport: getOption("MAIL_TRANSPORT", "smtp"),
		SMTP: mailer.SMTPConfig{
			Host:      getEnv("SMTP_SERVER", "smtp.gmail.com"),
			Port:      getEnv("SMTP_PORT", "587"),
			Username:  os.Getenv("SMTP_EMAIL"),
			Password:  os.Getenv("SMTP_PASSWORD"),
			FromEmail: os.Getenv("SMTP_EMAIL"),
			FromName:  getEnv("SMTP_SENDER_NAME", "ShopSwift"),
		},
		MailQueueName: getEnv("MAIL_QUEUE_NAME", "notification-email-queue"),
		EventBus:      getOption("EVENT_BUS", "none"),
		KafkaBrokers:  getEnv("KAFKA_BROKERS", "localhost:9092"),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "auth-events"),
		SNSTopicARN:   os.Getenv("AUTH_SNS_TOPIC_ARN"),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" && sm != nil {
		_ = awspkg.ApplySecretJSON(ctx, sm, getEnv("AWS_SECRET_NAME", "ecommerce/auth-service"), map[string]*string{
			"POSTGRES_PASSWORD": &cfg.Postgres.Password,
			"SMTP_PASSWORD":     &cfg.SMTP.Password,
		})
	}

	if cfg.Postgres.User == "" || cfg.Postgres.DBName == "" {
		return nil, fmt.Errorf("POSTGRES_USER and POSTGRES_DB are required")
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getOption reads a selector such as a transport name, lowercased so
// "SQS" and "sqs" pick the same branch everywhere.
func getOption(key, defaultVal string) string {
	return strings.ToLower(strings.TrimSpace(getEnv(key, defaultVal)))
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}
