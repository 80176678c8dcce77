package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/auth"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/domain"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/events"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/handler"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/menu"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/metrics"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/repository"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/repository/memory"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/repository/postgres"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/resilience"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/service"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/validation"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/pkg/config"
	pkglogger "github.com/cloud-wave-best-zizon/restaurant-order-service/pkg/logger"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/pkg/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := pkglogger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	logger.Info("Service configuration",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("store_driver", cfg.StoreDriver),
		zap.String("event_broker", cfg.EventBroker),
		zap.Bool("remote_menu", cfg.MenuServiceURL != ""))

	ctx := context.Background()

	// DB 연결 실패 시에도 서버는 메모리 데이터로 계속 동작
	fallbackPricing := domain.FallbackPricing(cfg.FallbackTaxRate)
	fallback := &service.Backend{
		Name:     config.DriverMemory,
		Orders:   memory.NewOrderStore(memory.SampleOrders(fallbackPricing)),
		Menu:     memory.NewMenuStore(memory.SampleMenu()),
		Pricing:  fallbackPricing,
		Degraded: true,
	}

	primary, db, err := buildPrimary(ctx, cfg)
	if err != nil {
		logger.Warn("Primary store unavailable, running on in-memory data",
			zap.String("store_driver", cfg.StoreDriver),
			zap.Error(err))
	}
	if db != nil {
		defer db.Close()
	}

	publisher := buildPublisher(cfg, logger)
	defer publisher.Close()

	orderService := service.NewOrderService(primary, fallback, publisher, logger, service.Options{
		Timeout: cfg.StoreTimeout,
		Breaker: resilience.Settings{
			MaxRequests:  cfg.BreakerMaxRequests,
			Interval:     cfg.BreakerInterval,
			Timeout:      cfg.BreakerTimeout,
			MinRequests:  cfg.BreakerMinRequests,
			FailureRatio: cfg.BreakerFailureRatio,
		},
	})
	orderHandler := handler.NewOrderHandler(orderService, validation.New(), logger, cfg.IsProduction())
	authenticator := auth.NewAuthenticator(cfg.JWTSecret)

	// Setup Gin Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(metrics.PrometheusMiddleware("order-service"))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handler.RegisterRoutes(router, orderHandler, middleware.Auth(authenticator, logger))

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server",
			zap.String("port", cfg.Port),
			zap.String("mode", orderService.Health().Mode))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	orderService.Close()
	logger.Info("Server stopped")
}

// buildPrimary connects the configured store. The returned *sql.DB is only
// set for the postgres driver.
func buildPrimary(ctx context.Context, cfg *config.Config) (*service.Backend, *sql.DB, error) {
	backend := &service.Backend{
		Name:    cfg.StoreDriver,
		Pricing: domain.PrimaryPricing(cfg.TaxRate),
	}

	var db *sql.DB
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return nil, nil, nil
	case config.DriverPostgres:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		var err error
		db, err = postgres.Open(connectCtx, cfg.DatabaseURI)
		if err != nil {
			return nil, nil, err
		}
		backend.Orders = postgres.NewOrderRepository(db)
		backend.Menu = postgres.NewMenuRepository(db)
	default:
		client, err := repository.NewDynamoDBClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		backend.Orders = repository.NewDynamoOrderRepository(client, cfg.OrderTableName)
		backend.Menu = repository.NewDynamoMenuRepository(client, cfg.MenuTableName)
	}

	if cfg.MenuServiceURL != "" {
		backend.Menu = menu.NewClient(cfg.MenuServiceURL, cfg.MenuTimeout)
	}
	return backend, db, nil
}

func buildPublisher(cfg *config.Config, logger *zap.Logger) events.Publisher {
	switch cfg.EventBroker {
	case config.BrokerKafka:
		return events.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	case config.BrokerRabbitMQ:
		p, err := events.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, logger)
		if err != nil {
			// 이벤트 없이도 주문 처리는 계속
			logger.Warn("RabbitMQ unavailable, order events disabled", zap.Error(err))
			return events.NoopPublisher{}
		}
		return p
	default:
		return events.NoopPublisher{}
	}
}
