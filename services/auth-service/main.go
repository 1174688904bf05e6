package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	awspkg "github.com/shopswift/commerce-backend/pkg/aws"
	"github.com/shopswift/commerce-backend/services/auth-service/controllers"
	"github.com/shopswift/commerce-backend/services/auth-service/database"
	"github.com/shopswift/commerce-backend/services/auth-service/models"
	"github.com/shopswift/commerce-backend/services/auth-service/repository"
	"github.com/shopswift/commerce-backend/services/auth-service/routes"
	"github.com/shopswift/commerce-backend/services/auth-service/services"
	apperrors "github.com/shopswift/commerce-backend/services/common/errors"
	"github.com/shopswift/commerce-backend/services/common/events"
	"github.com/shopswift/commerce-backend/services/common/logger"
	"github.com/shopswift/commerce-backend/services/common/mailer"
	"github.com/shopswift/commerce-backend/services/common/middleware"
	"go.uber.org/zap"
)

const serviceName = "auth-service"

func main() {
	ctx := context.Background()

	awsCfg, err := awspkg.LoadAWSConfig(ctx)
	if err != nil {
		logger.Initialize(os.Getenv("APP_ENV"))
		logger.Log.Fatal("failed to load AWS config", zap.Error(err))
	}

	cfg, err := LoadConfig(ctx, awspkg.NewSecretsClient(awsCfg))
	if err != nil {
		logger.Initialize(os.Getenv("APP_ENV"))
		logger.Log.Fatal("invalid configuration", zap.Error(err))
	}

	if cwLogs, err := awspkg.NewCloudWatchLogsClient(ctx, awsCfg, serviceName); err == nil && cwLogs.IsEnabled() {
		logger.InitializeWithWriter(cfg.Env, cwLogs)
	} else {
		logger.Initialize(cfg.Env)
	}
	defer func() { _ = logger.Log.Sync() }()

	db, err := database.Connect(cfg.Postgres, &models.User{})
	if err != nil {
		logger.Log.Fatal("could not connect to PostgreSQL", zap.Error(err))
	}

	var mailQueue awspkg.SQSSender
	if cfg.MailTransport == "sqs" {
		queueURL, err := awspkg.GetQueueURL(ctx, awsCfg, cfg.MailQueueName)
		if err != nil {
			logger.Log.Fatal("mail queue lookup failed", zap.Error(err))
		}
		mailQueue = awspkg.NewSQSProducer(awsCfg, queueURL)
	}
	mail, err := mailer.New(mailer.Config{Transport: cfg.MailTransport, SMTP: cfg.SMTP}, mailQueue)
	if err != nil {
		logger.Log.Fatal("mailer setup failed", zap.Error(err))
	}

	var snsClient awspkg.SNSPublisher
	if cfg.EventBus == "sns" {
		snsClient = awspkg.NewSNSClient(awsCfg)
	}
	publisher, err := events.New(events.Config{
		Bus:         cfg.EventBus,
		Brokers:     events.SplitBrokers(cfg.KafkaBrokers),
		Topic:       cfg.KafkaTopic,
		SNSTopicARN: cfg.SNSTopicARN,
	}, snsClient)
	if err != nil {
		logger.Log.Fatal("event publisher setup failed", zap.Error(err))
	}
	defer publisher.Close()

	resetService := services.NewPasswordResetService(repository.NewUserRepository(db), mail, publisher)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		logger.RequestID(),
		middleware.RequestLogger(logger.Log),
		middleware.MetricsMiddleware(awspkg.NewMetricsClient(awsCfg), serviceName),
		cors.New(cors.Config{
			AllowOrigins:     middleware.ParseOrigins(cfg.AllowedOrigins),
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.SecurityHeaders(),
		apperrors.ErrorMiddleware(logger.Log),
		middleware.RequestTimeout(cfg.RequestTimeout),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	routes.RegisterPasswordRoutes(r, controllers.NewPasswordController(resetService))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("Auth Service started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("shutdown error", zap.Error(err))
	}
	logger.Log.Info("Server shutdown complete.")
}
