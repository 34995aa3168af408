package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cafedev/brewline/internal/config"
	"github.com/cafedev/brewline/internal/core/ports"
	"github.com/cafedev/brewline/internal/core/services"
	"github.com/cafedev/brewline/internal/infra/httpx"
	"github.com/cafedev/brewline/internal/infra/notify"
	"github.com/cafedev/brewline/internal/infra/payment"
	"github.com/cafedev/brewline/internal/infra/storage/jsonfile"
	"github.com/cafedev/brewline/internal/infra/storage/memory"
	"github.com/cafedev/brewline/internal/infra/storage/postgres"
	"github.com/cafedev/brewline/internal/infra/storage/rediscache"
	"github.com/cafedev/brewline/internal/orderlog"
	orderlogsqlite "github.com/cafedev/brewline/internal/orderlog/sqlite"
	"github.com/cafedev/brewline/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	shutdown, err := telemetry.SetupTracer(ctx, cfg.ServiceName)
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	repo, closeRepo, err := buildRepository(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialise order store", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	notifier, closeNotifier, err := buildNotifier(cfg)
	if err != nil {
		slog.Error("failed to initialise notifier", "error", err)
		os.Exit(1)
	}
	defer closeNotifier()

	var (
		recorder orderlog.Recorder
		history  orderlog.History
	)
	if cfg.OrderLogPath != "" {
		eventLog, err := orderlogsqlite.Open(cfg.OrderLogPath)
		if err != nil {
			slog.Error("failed to open order event log", "path", cfg.OrderLogPath, "error", err)
			os.Exit(1)
		}
		defer eventLog.Close()
		recorder, history = eventLog, eventLog
	}

	processor := buildProcessor(cfg)
	orders := services.NewOrderService(repo, processor, notifier, services.NewPricingCalculator(), recorder)
	router := httpx.NewRouter(httpx.NewHandler(orders, history))

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("brewline running",
			"addr", cfg.HTTPAddr,
			"store", cfg.Store,
			"payment", processor.Name(),
			"order_log", cfg.OrderLogPath != "",
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

// buildRepository selects the order store from configuration and optionally
// layers the Redis cache in front of it.
func buildRepository(ctx context.Context, cfg *config.Config) (ports.OrderRepository, func(), error) {
	var (
		repo    ports.OrderRepository
		cleanup = func() {}
	)

	switch cfg.Store {
	case config.StoreMemory:
		repo = memory.New()
	case config.StoreJSONFile:
		jsonRepo, err := jsonfile.Open(cfg.JSONPath)
		if err != nil {
			return nil, nil, err
		}
		repo = jsonRepo
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		pgRepo := postgres.New(db)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		repo = pgRepo
		cleanup = func() { _ = db.Close() }
	}

	if cfg.RedisAddr != "" {
		cached := rediscache.New(repo, cfg.RedisAddr, cfg.CacheTTL)
		inner := cleanup
		cleanup = func() {
			_ = cached.Close()
			inner()
		}
		repo = cached
	}

	return repo, cleanup, nil
}

// buildNotifier always includes the console notifier; RabbitMQ publishing is
// added when AMQP_URL is configured.
func buildNotifier(cfg *config.Config) (ports.Notifier, func(), error) {
	console := notify.NewConsole(nil)
	if cfg.AMQPURL == "" {
		return console, func() {}, nil
	}

	publisher, err := notify.NewAMQP(cfg.AMQPURL)
	if err != nil {
		return nil, nil, err
	}
	return notify.NewComposite(console, publisher), publisher.Close, nil
}

func buildProcessor(cfg *config.Config) ports.PaymentProcessor {
	if cfg.Payment == config.PaymentCard {
		return payment.NewCard(cfg.CardLimit)
	}
	return payment.NewCash()
}
