package main

import (
	"context"
	"fmt"
	"github.com/harishnarayan-coder/pizza-orders/internal/config"
	"github.com/harishnarayan-coder/pizza-orders/internal/inventory"
	kafkax "github.com/harishnarayan-coder/pizza-orders/internal/kafka"
	"github.com/harishnarayan-coder/pizza-orders/internal/logging"
	"github.com/harishnarayan-coder/pizza-orders/internal/notify"
	"github.com/harishnarayan-coder/pizza-orders/internal/orders"
	"github.com/harishnarayan-coder/pizza-orders/internal/postgres"
	"github.com/harishnarayan-coder/pizza-orders/internal/redisx"
	"github.com/harishnarayan-coder/pizza-orders/internal/sqlite"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// openLedger returns the shared stock ledger. The in-memory store lives
// inside the API process, so it cannot be scanned from here.
func openLedger(ctx context.Context, cfg config.Config, service string) (inventory.Ledger, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN, service)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		return &inventory.Repo{DB: db}, db.Close, nil
	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return &sqlite.Ledger{DB: db}, func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("STORE_DRIVER=%s is not shared with the api process", cfg.StoreDriver)
	}
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	service := cfg.ServiceName + "-lowstock"
	logger := logging.Must(service, cfg.Env, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger, closeLedger, err := openLedger(ctx, cfg, service)
	if err != nil {
		logger.Fatal("open ledger", zap.Error(err))
	}
	defer closeLedger()

	var sender inventory.Notifier = notify.NewLogSender(logger)
	if cfg.RabbitMQURL != "" {
		amqpSender, err := notify.DialAMQP(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Fatal("rabbitmq", zap.Error(err))
		}
		defer func() { _ = amqpSender.Close() }()
		sender = amqpSender
	}
	monitor := inventory.NewMonitor(ledger, sender, inventory.MonitorConfig{
		Recipient: cfg.AlertEmail,
		Threshold: cfg.LowStockThreshold,
	}, logger)

	handler := &inventory.Consumer{Monitor: monitor, EventType: orders.EventOrderPlaced, Log: logger}
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer func() { _ = rdb.Close() }()
		if err := redisx.Ping(ctx, rdb); err != nil {
			logger.Warn("redis unavailable; duplicate events will rescan", zap.Error(err))
		} else {
			handler.Dedup = &redisx.Dedup{Redis: rdb, Service: service}
		}
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.LowStockGroup, orders.TopicOrderPlaced, cfg.LowStockWorkers, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("lowstock consumer started",
			zap.String("group", cfg.LowStockGroup),
			zap.String("topic", orders.TopicOrderPlaced),
			zap.Int("workers", cfg.LowStockWorkers))
		return cons.Start(gctx, handler.HandleOrderPlaced)
	})
	if err := g.Wait(); err != nil {
		logger.Error("consumer exit", zap.Error(err))
	}
	logger.Info("lowstock consumer stopped")
}
