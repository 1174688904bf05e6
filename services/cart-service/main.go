package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	awspkg "github.com/shopswift/commerce-backend/pkg/aws"
	"github.com/shopswift/commerce-backend/services/cart-service/config"
	"github.com/shopswift/commerce-backend/services/cart-service/controllers"
	"github.com/shopswift/commerce-backend/services/cart-service/database"
	"github.com/shopswift/commerce-backend/services/cart-service/routes"
	"github.com/shopswift/commerce-backend/services/cart-service/services"
	"github.com/shopswift/commerce-backend/services/common/auth"
	apperrors "github.com/shopswift/commerce-backend/services/common/errors"
	"github.com/shopswift/commerce-backend/services/common/events"
	"github.com/shopswift/commerce-backend/services/common/logger"
	"github.com/shopswift/commerce-backend/services/common/middleware"
	"go.uber.org/zap"
)

const serviceName = "cart-service"

func main() {
	cfg := config.Load()

	awsCfg, err := awspkg.LoadAWSConfig(context.Background())
	if err != nil {
		logger.Initialize(cfg.Env)
		logger.Log.Fatal("failed to load AWS config", zap.Error(err))
	}

	cwLogs, err := awspkg.NewCloudWatchLogsClient(context.Background(), awsCfg, serviceName)
	if err != nil || !cwLogs.IsEnabled() {
		logger.Initialize(cfg.Env)
	} else {
		logger.InitializeWithWriter(cfg.Env, cwLogs)
	}
	defer func() { _ = logger.Log.Sync() }()
	if err != nil {
		logger.Log.Warn("CloudWatch Logs disabled", zap.Error(err))
	}

	if cfg.UseSecrets {
		_ = cfg.ApplySecrets(context.Background(), awspkg.NewSecretsClient(awsCfg))
	}

	mongoClient, db, err := database.ConnectMongo(cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		logger.Log.Fatal("MongoDB connection failed", zap.Error(err))
	}
	defer func() {
		if err := database.DisconnectMongo(mongoClient); err != nil {
			logger.Log.Error("MongoDB disconnect failed", zap.Error(err))
		}
	}()

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Log.Fatal("Redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()

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

	products := database.NewCachedProductReader(
		database.NewRedisProductCache(redisClient, cfg.ProductCacheTTL),
		database.NewProductRepository(db),
	)
	cartService := services.NewCartService(
		database.NewCartRepository(db),
		products,
		publisher,
		services.WithStockEnforcement(cfg.EnforceStock),
	)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		logger.RequestID(),
		middleware.RequestLogger(logger.Log),
		middleware.MetricsMiddleware(awspkg.NewMetricsClient(awsCfg), serviceName),
		middleware.SecurityHeaders(),
		middleware.CORSMiddleware(middleware.ParseOrigins(cfg.AllowedOrigins)),
		apperrors.ErrorMiddleware(logger.Log),
		middleware.RequestTimeout(cfg.RequestTimeout),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	routes.RegisterCartRoutes(router, controllers.NewCartController(cartService), auth.NewTokenParser(cfg.JWTSecret))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("Cart Service is running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("shutdown error", zap.Error(err))
	}
	logger.Log.Info("Server shutdown complete.")
}
