package main

import (
	"context"
	"time"

	"github.com/dukasoft/shop-services/reconciler/internal/config"
	"github.com/dukasoft/shop-services/reconciler/internal/publishers"
	"github.com/dukasoft/shop-services/reconciler/internal/repository"
	"github.com/dukasoft/shop-services/reconciler/internal/service"
	"github.com/dukasoft/shop-services/reconciler/pkg/httpclient"
	"github.com/dukasoft/shop-services/reconciler/pkg/mq"
	"github.com/dukasoft/shop-services/reconciler/pkg/mysql"
	"github.com/dukasoft/shop-services/reconciler/pkg/pesapal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,

			NewConnectionDB,
			NewMQConnection,
			NewMQPublisher,
			NewPesapalClient,

			repository.NewTransactionManager,
			repository.NewTransactionRepository,
			repository.NewAccountBalanceRepository,

			publishers.NewCompletedPublisher,

			service.NewReconcilerService,
			service.NewGatewaySyncService,
		),
		fx.Invoke(runSweeper),
	).Run()
}

// runSweeper is the consistency backstop: even when the redirect callback and
// the IPN are both lost, every pending transaction converges within one sweep
// interval.
func runSweeper(cfg *config.Config, gatewaySync service.GatewaySyncService, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{publishers.CompletedQueue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			go func() {
				ticker := time.NewTicker(cfg.Sweep.Interval)
				defer ticker.Stop()

				for {
					select {
					case <-ticker.C:
						report, err := gatewaySync.SyncAllPending(appCtx)
						if err != nil {
							logger.Error("failed to sweep pending transactions", zap.Error(err))
							continue
						}

						logger.Info("sweep cycle finished",
							zap.Int("processed", report.Processed),
							zap.Int("failed", report.Failed),
							zap.Int("unresolvable", report.Unresolvable))
					case <-appCtx.Done():
						logger.Info("sweeper context cancelled")
						return
					}
				}
			}()

			logger.Info("watchdog sweeper started", zap.Duration("interval", cfg.Sweep.Interval))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping watchdog sweeper")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	return mysql.NewConnection(ctx, cfg.Database, logger)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}

func NewPesapalClient(cfg *config.Config) pesapal.Client {
	client := httpclient.NewHTTPClient(cfg.Pesapal.Timeout)
	return pesapal.NewClient(cfg.Pesapal, client)
}
