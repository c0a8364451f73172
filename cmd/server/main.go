package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"fulfillment-be/internal/config"
	"fulfillment-be/internal/db"
	"fulfillment-be/internal/delivery"
	"fulfillment-be/internal/fulfillment"
	"fulfillment-be/internal/logger"
	"fulfillment-be/internal/metrics"
	"fulfillment-be/internal/onboarding"
	"fulfillment-be/internal/order"
	"fulfillment-be/internal/rest"
	"fulfillment-be/internal/seller"

	"go.uber.org/zap"
)

// Seams for tests.
var (
	initDBFunc = db.InitDB
	notifyCtx  = func() (context.Context, context.CancelFunc) {
		return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	}
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	database := initDBFunc(cfg)
	defer database.Close()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return err
	}

	srv := newServer(cfg, database)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	ctx, stop := notifyCtx()
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return srv.Shutdown(context.Background())
}

func newServer(cfg *config.Config, database *sql.DB) *rest.Server {
	reg := metrics.NewRegistry()

	sellerRepo := seller.NewRepository(database)
	sellerSvc := seller.NewService(sellerRepo)
	gate := onboarding.NewService(sellerRepo, onboarding.FailMode(cfg.OnboardingFailMode), reg)

	orderSvc := order.NewService(order.NewRepository(database))
	deliverySvc := delivery.NewService(delivery.NewRepository(database))
	flow := fulfillment.NewService(orderSvc, deliverySvc, reg)

	return rest.NewServer(cfg, rest.Services{
		Sellers:    sellerSvc,
		Gate:       gate,
		Orders:     orderSvc,
		Deliveries: deliverySvc,
		Flow:       flow,
	}, reg)
}
