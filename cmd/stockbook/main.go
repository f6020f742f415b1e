package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stockbook/stockbook/cmd/stockbook/cli"
	"github.com/stockbook/stockbook/internal/app"
	"github.com/stockbook/stockbook/internal/inventory"
	"github.com/stockbook/stockbook/internal/masterdata/products"
	"github.com/stockbook/stockbook/internal/masterdata/schedules"
	"github.com/stockbook/stockbook/internal/masterdata/suppliers"
	"github.com/stockbook/stockbook/internal/masterdata/warehouses"
	"github.com/stockbook/stockbook/internal/observability"
	"github.com/stockbook/stockbook/internal/payments"
	"github.com/stockbook/stockbook/internal/platform/cache"
	"github.com/stockbook/stockbook/internal/platform/db"
	"github.com/stockbook/stockbook/internal/rbac"
	"github.com/stockbook/stockbook/internal/shared"
	"github.com/stockbook/stockbook/internal/summary"
	"github.com/stockbook/stockbook/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		if err := runJobsCommand(ctx, cfg, os.Args[2:]); err != nil {
			logger.Error("jobs command", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionName, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()

	rbacService := rbac.NewService(rbac.NewRepository(dbpool))
	rbacMiddleware := rbac.Middleware{Service: rbacService, Logger: logger}
	gate := rbac.NewGate(rbacService, logger)

	inventoryService := inventory.NewService(inventory.NewRepository(dbpool), inventory.ServiceConfig{
		AllowNegativeStock: cfg.InventoryAllowNegative,
		Recorder:           metrics,
		Logger:             logger,
	})
	inventoryHandler := inventory.NewHandler(logger, inventory.NewActions(inventoryService, gate))

	if !cfg.PaymentsEnabled() {
		logger.Warn("STRIPE_SECRET_KEY not set, payment initiation will fail")
	}
	paymentService := payments.NewService(payments.NewRepository(dbpool), payments.NewStripeIntents(cfg.StripeSecretKey), logger)
	paymentsHandler := payments.NewHandler(logger, payments.NewActions(paymentService, gate))
	webhookHandler := payments.NewWebhookHandler(paymentService, cfg.StripeWebhookSecret, logger).WithObserver(metrics)

	syncer := summary.NewSyncer(summary.NewRepository(dbpool), inventoryService, cache.NewLocker(redisClient), logger)
	cronHandler := summary.NewCronHandler(syncer, cfg.CronSecret, logger)

	productsHandler := products.NewHandler(logger, products.NewService(products.NewRepository(dbpool)), rbacMiddleware)
	suppliersHandler := suppliers.NewHandler(logger, suppliers.NewService(suppliers.NewRepository(dbpool)), rbacMiddleware)
	warehousesHandler := warehouses.NewHandler(logger, warehouses.NewService(warehouses.NewRepository(dbpool)), rbacMiddleware)
	schedulesHandler := schedules.NewHandler(logger, schedules.NewService(schedules.NewRepository(dbpool)), rbacMiddleware)
	permissionsHandler := rbac.NewPermissionsHandler(logger, rbacService, rbacMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		CSRFManager:        csrfManager,
		InventoryHandler:   inventoryHandler,
		PaymentsHandler:    paymentsHandler,
		WebhookHandler:     webhookHandler,
		CronHandler:        cronHandler,
		ProductsHandler:    productsHandler,
		SuppliersHandler:   suppliersHandler,
		WarehousesHandler:  warehousesHandler,
		SchedulesHandler:   schedulesHandler,
		PermissionsHandler: permissionsHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

// runJobsCommand handles `stockbook jobs <trigger [day]|stats|scheduled>`.
func runJobsCommand(ctx context.Context, cfg *app.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: stockbook jobs <trigger [day]|stats|scheduled>")
	}
	c, err := cli.NewJobsCLI(cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer c.Close()

	switch args[0] {
	case "trigger":
		day := ""
		if len(args) > 1 {
			day = args[1]
		}
		info, err := c.Trigger(ctx, jobs.TaskSummarySync, day)
		if err != nil {
			return err
		}
		fmt.Printf("enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
	case "stats":
		stats, err := c.InspectQueue(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("queue=%s pending=%d active=%d scheduled=%d retry=%d\n",
			stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry)
	case "scheduled":
		tasks, err := c.ListScheduled(ctx, 20)
		if err != nil {
			return err
		}
		for _, t := range tasks {
			fmt.Printf("%s %s next=%s\n", t.ID, t.Type, t.NextProcessAt.Format(time.RFC3339))
		}
	default:
		return fmt.Errorf("jobs: unknown command %q", args[0])
	}
	return nil
}
