package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bigfive/internal/cache"
	"bigfive/internal/config"
	"bigfive/internal/metrics"
	"bigfive/internal/schema"
	"bigfive/internal/service"
	"bigfive/internal/transport/rest"
	"bigfive/internal/transport/ws"
	"bigfive/web"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger is not up yet
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	// MongoDB connection (mongo schema source only)
	var db *mongo.Database
	if cfg.Schema.Source == config.SourceMongo {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer mongoClient.Disconnect(ctx)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			logger.Fatal("Failed to ping MongoDB", zap.Error(err))
		}
		logger.Info("Connected to MongoDB", zap.String("db", cfg.MongoDB))
		db = mongoClient.Database(cfg.MongoDB)
	}

	// Redis connection (schema cache, or redis schema source)
	var schemaCache cache.SchemaCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer rdb.Close()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			logger.Fatal("Failed to ping Redis", zap.Error(err))
		}
		logger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
		schemaCache = cache.NewSchemaCache(rdb, cfg.Schema.CacheTTL)
	}

	source, err := buildSource(cfg, db, schemaCache, logger)
	if err != nil {
		logger.Fatal("Failed to configure schema source", zap.Error(err))
	}

	skeleton := web.Skeleton
	if cfg.PagePath != "" {
		if skeleton, err = os.ReadFile(cfg.PagePath); err != nil {
			logger.Fatal("Failed to read page skeleton", zap.String("path", cfg.PagePath), zap.Error(err))
		}
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Services
	loader := schema.NewLoader(source, logger)
	loader.SetObserver(m)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.PageTTL)
	pages := service.NewPageService(loader, skeleton, tokens, m, cfg.PageTTL, logger)

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go pages.RunSweeper(sweepCtx, time.Minute)

	// WebSocket hub
	wsHub := ws.NewHub(logger)
	logger.Info("WebSocket hub started")

	container := &rest.Container{
		PageService: pages,
		WSHandler:   ws.NewHandler(wsHub, pages, tokens, m, logger),
		Gatherer:    reg,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("port", cfg.Port),
			zap.String("schemaSource", cfg.Schema.Source),
		)
		logger.Info("Endpoints: GET /, GET /v1/schema, WS /v1/ws/pages, GET /health, GET /metrics")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("ListenAndServe", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	stopSweeper()
	wsHub.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
