package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/harishnarayan-coder/pizza-orders/internal/config"
	"github.com/harishnarayan-coder/pizza-orders/internal/httpx"
	"github.com/harishnarayan-coder/pizza-orders/internal/inventory"
	kafkax "github.com/harishnarayan-coder/pizza-orders/internal/kafka"
	"github.com/harishnarayan-coder/pizza-orders/internal/logging"
	"github.com/harishnarayan-coder/pizza-orders/internal/memory"
	"github.com/harishnarayan-coder/pizza-orders/internal/metrics"
	"github.com/harishnarayan-coder/pizza-orders/internal/notify"
	"github.com/harishnarayan-coder/pizza-orders/internal/orders"
	"github.com/harishnarayan-coder/pizza-orders/internal/payment"
	"github.com/harishnarayan-coder/pizza-orders/internal/postgres"
	"github.com/harishnarayan-coder/pizza-orders/internal/redisx"
	"github.com/harishnarayan-coder/pizza-orders/internal/sqlite"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

type stores struct {
	ledger inventory.Ledger
	orders orders.Store
	close  func()
}

func openStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.ServiceName)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &stores{ledger: &inventory.Repo{DB: db}, orders: &orders.Repo{DB: db}, close: db.Close}, nil
	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return &stores{ledger: &sqlite.Ledger{DB: db}, orders: &sqlite.OrderStore{DB: db}, close: closeFn}, nil
	default:
		logger.Warn("using in-memory store; data is lost on restart")
		return &stores{ledger: memory.NewLedger(), orders: memory.NewOrderStore(), close: func() {}}, nil
	}
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.Must(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)

	// Storage
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer st.close()
	if cfg.SeedCatalog || cfg.StoreDriver == config.StoreMemory {
		if err := inventory.Seed(ctx, st.ledger, inventory.DefaultCatalog()); err != nil {
			logger.Fatal("seed catalog", zap.Error(err))
		}
		logger.Info("catalog seeded")
	}

	// Low-stock notifications
	var sender inventory.Notifier = notify.NewLogSender(logger)
	if cfg.RabbitMQURL != "" {
		amqpSender, err := notify.DialAMQP(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Fatal("rabbitmq", zap.Error(err))
		}
		defer func() { _ = amqpSender.Close() }()
		sender = amqpSender
	}
	monitor := inventory.NewMonitor(st.ledger, sender, inventory.MonitorConfig{
		Recipient: cfg.AlertEmail,
		Threshold: cfg.LowStockThreshold,
	}, logger)

	var (
		trigger  orders.LowStockTrigger
		async    *inventory.AsyncTrigger
		producer *kafkax.Producer
	)
	switch cfg.LowStockMode {
	case config.LowStockKafka:
		producer = kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024, logger)
		// runs until Close below, after in-flight requests have drained
		producer.Start(context.Background())
		trigger = &orders.EventTrigger{Producer: producer, Service: cfg.ServiceName}
	default:
		async = inventory.NewAsyncTrigger(monitor, 30*time.Second, logger)
		trigger = orders.TriggerFunc(func(ctx context.Context, o *orders.Order) { async.Trigger(ctx, o.ID) })
	}

	svc := orders.NewService(st.orders, st.ledger, inventory.NewReservation(st.ledger, logger), trigger, logger)

	// Payments
	var gateway payment.Gateway
	payCfg := payment.Config{
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
		Currency:  cfg.PaymentCurrency,
		Timeout:   cfg.PaymentGatewayTimeout,
	}
	if !payCfg.Simulated() {
		gateway = payment.NewHTTPGateway(cfg.PaymentGatewayURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	}
	verifier := payment.NewVerifier(payCfg, gateway, logger)
	if verifier.Simulated() {
		logger.Warn("payment gateway not configured; creating simulated intents")
	}

	// HTTP
	router := httpx.NewRouter(httpx.RouterOptions{Log: logger, CORSOrigins: cfg.CORSOrigins, Gatherer: reg})
	oh := &httpx.OrdersHandler{Service: svc}
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer func() { _ = rdb.Close() }()
		if err := redisx.Ping(ctx, rdb); err != nil {
			logger.Warn("redis unavailable; cache and idempotency disabled", zap.Error(err))
		} else {
			oh.Cache = redisx.NewOrderCache(rdb)
			oh.Idem = &redisx.Idempotency{Redis: rdb}
			if cfg.OrderRateLimit > 0 {
				oh.Limiter = &redisx.RateLimiter{Redis: rdb, Limit: cfg.OrderRateLimit, Window: cfg.OrderRateWindow}
			}
		}
	}
	oh.Register(router)
	(&httpx.PaymentHandler{Service: verifier}).Register(router)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr),
			zap.String("store", cfg.StoreDriver), zap.String("lowstock_mode", cfg.LowStockMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("server exit", zap.Error(err))
	}

	if async != nil {
		async.Wait()
	}
	if producer != nil {
		producer.Close()
		producer.WaitClosed()
	}
}
