package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-inventory-service/config"
	"github.com/fekuna/omnipos-inventory-service/migrations"
	"github.com/fekuna/omnipos-inventory-service/pkg/broker"
	"github.com/fekuna/omnipos-inventory-service/pkg/cache"
	"github.com/fekuna/omnipos-inventory-service/pkg/llm"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/mail"
	"github.com/fekuna/omnipos-inventory-service/pkg/postgres"
	"github.com/fekuna/omnipos-inventory-service/pkg/search"

	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/events"
	"github.com/fekuna/omnipos-inventory-service/internal/server"

	analyticsH "github.com/fekuna/omnipos-inventory-service/internal/analytics/handler"
	analyticsRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/analytics/repository"
	analyticsUCPkg "github.com/fekuna/omnipos-inventory-service/internal/analytics/usecase"

	assistantH "github.com/fekuna/omnipos-inventory-service/internal/assistant/handler"
	assistantRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/assistant/repository"
	assistantUCPkg "github.com/fekuna/omnipos-inventory-service/internal/assistant/usecase"

	authH "github.com/fekuna/omnipos-inventory-service/internal/auth/handler"
	authRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/auth/repository"
	authUCPkg "github.com/fekuna/omnipos-inventory-service/internal/auth/usecase"

	catH "github.com/fekuna/omnipos-inventory-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-inventory-service/internal/category/usecase"

	invH "github.com/fekuna/omnipos-inventory-service/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-inventory-service/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-inventory-service/internal/inventory/usecase"

	orderH "github.com/fekuna/omnipos-inventory-service/internal/order/handler"
	orderRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-inventory-service/internal/order/usecase"

	prodH "github.com/fekuna/omnipos-inventory-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-inventory-service/internal/product/usecase"

	alertH "github.com/fekuna/omnipos-inventory-service/internal/stockalert/handler"
	alertRepoPkg "github.com/fekuna/omnipos-inventory-service/internal/stockalert/repository"
	alertUCPkg "github.com/fekuna/omnipos-inventory-service/internal/stockalert/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.Load()

	// 2. Initialize Logger
	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.IsDevelopment(),
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect to Database
	pgCfg := &postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	}
	db, err := postgres.NewPostgres(pgCfg)
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if cfg.Postgres.AutoMigrate {
		if err := postgres.Migrate(pgCfg, migrations.FS); err != nil {
			appLogger.Fatal("Could not run migrations", zap.Error(err))
		}
		appLogger.Info("Database migrations applied")
	}

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch, product search falls back to SQL", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 6. Initialize Event Publisher
	publisher := newPublisher(cfg, appLogger)
	defer publisher.Close()

	// 7. Initialize LLM and Mail
	var generator llm.Generator
	gemini, err := llm.NewGeminiClient(ctx, &llm.Config{
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})
	if err != nil {
		appLogger.Warn("Gemini is not available, AI endpoints will fail", zap.Error(err))
		generator = llm.Unavailable(err)
	} else {
		generator = gemini
	}

	mailer := mail.NewSMTPSender(mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	})

	tokenMaker, err := auth.NewJWTMaker(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, cfg.JWT.ResetTokenTTL)
	if err != nil {
		appLogger.Fatal("Could not create token maker", zap.Error(err))
	}
	blacklist := auth.NewRedisBlacklist(redisClient)

	// 8. Initialize Repositories
	authRepo := authRepoPkg.NewPGRepository(db)
	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	alertRepo := alertRepoPkg.NewPGRepository(db)
	analyticsRepo := analyticsRepoPkg.NewPGRepository(db)
	assistantRepo := assistantRepoPkg.NewPGRepository(db)

	// 9. Initialize UseCases
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, redisClient, esClient, appLogger)
	notifier := events.NewBrokerNotifier(publisher, prodUC, appLogger)

	authUC := authUCPkg.NewAuthUseCase(authRepo, tokenMaker, blacklist, mailer, cfg.Server.FrontendURL, appLogger)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, notifier, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, notifier, appLogger)
	alertUC := alertUCPkg.NewStockAlertUseCase(alertRepo, appLogger)
	analyticsUC := analyticsUCPkg.NewAnalyticsUseCase(analyticsRepo, generator, redisClient, cfg.LLM.CacheTTL, appLogger)
	assistantUC := assistantUCPkg.NewAssistantUseCase(assistantRepo, analyticsRepo, generator, appLogger)

	// 10. Start Restock Listener
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.RestockTopic != "" {
		consumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.RestockTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer consumer.Close()
		go invListenerPkg.NewRestockListener(consumer, invUC, appLogger).Start(ctx)
		appLogger.Info("Listening for restock events", zap.String("topic", cfg.Kafka.RestockTopic))
	}

	// 11. Initialize Handlers
	limitAI := server.AILimiter(cfg.RateLimit.AIRequestsPerMinute)
	router := server.NewRouter(server.Handlers{
		Auth: authH.NewAuthHandler(authUC, tokenMaker, appLogger),
		API: []server.RouteRegistrar{
			prodH.NewProductHandler(prodUC, appLogger),
			catH.NewCategoryHandler(catUC, appLogger),
			invH.NewInventoryHandler(invUC, appLogger),
			orderH.NewOrderHandler(orderUC, appLogger),
			alertH.NewStockAlertHandler(alertUC, appLogger),
			analyticsH.NewAnalyticsHandler(analyticsUC, limitAI, appLogger),
			assistantH.NewAssistantHandler(assistantUC, limitAI, appLogger),
		},
	}, tokenMaker, server.Options{AllowedOrigins: cfg.CORS.AllowedOrigins}, appLogger)

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 12. Start gRPC Health Server
	grpcPort := cfg.Server.GRPCPort
	if !strings.HasPrefix(grpcPort, ":") {
		grpcPort = ":" + grpcPort
	}
	lis, err := net.Listen("tcp", grpcPort)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", grpcPort), zap.Error(err))
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		appLogger.Info("Starting gRPC health server", zap.String("port", grpcPort))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Error("gRPC server stopped", zap.Error(err))
		}
	}()

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", cfg.Server.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown did not finish cleanly", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

// newPublisher picks the bus named by EVENTS_DRIVER. A broker that cannot be
// reached degrades to dropping events.
func newPublisher(cfg *config.Config, log logger.ZapLogger) broker.Publisher {
	switch cfg.Events.Driver {
	case "kafka":
		log.Info("Publishing events to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
		return broker.NewKafkaPublisher(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
	case "rabbitmq":
		p, err := broker.NewRabbitMQPublisher(broker.RabbitMQConfig{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
		})
		if err != nil {
			log.Warn("Could not connect to RabbitMQ, events are dropped", zap.Error(err))
			return broker.NewNopPublisher()
		}
		log.Info("Publishing events to RabbitMQ", zap.String("exchange", cfg.RabbitMQ.Exchange))
		return p
	default:
		log.Info("Event publishing disabled", zap.String("driver", cfg.Events.Driver))
		return broker.NewNopPublisher()
	}
}
