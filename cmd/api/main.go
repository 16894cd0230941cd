package main

import (
	"context"

	"github.com/dukasoft/shop-services/reconciler/internal/api"
	v1 "github.com/dukasoft/shop-services/reconciler/internal/api/v1"
	"github.com/dukasoft/shop-services/reconciler/internal/api/validator"
	"github.com/dukasoft/shop-services/reconciler/internal/config"
	middleware "github.com/dukasoft/shop-services/reconciler/internal/errors"
	"github.com/dukasoft/shop-services/reconciler/internal/metrics"
	"github.com/dukasoft/shop-services/reconciler/internal/publishers"
	"github.com/dukasoft/shop-services/reconciler/internal/repository"
	"github.com/dukasoft/shop-services/reconciler/internal/service"
	"github.com/dukasoft/shop-services/reconciler/pkg/httpclient"
	"github.com/dukasoft/shop-services/reconciler/pkg/mq"
	"github.com/dukasoft/shop-services/reconciler/pkg/mysql"
	"github.com/dukasoft/shop-services/reconciler/pkg/pesapal"
	playgroundValidator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			metrics.NewMetrics,

			NewConnectionDB,
			NewMQConnection,
			NewMQPublisher,
			NewFiber,
			NewValidator,
			NewPesapalClient,

			repository.NewTransactionManager,
			repository.NewTransactionRepository,
			repository.NewAccountBalanceRepository,

			publishers.NewCompletedPublisher,

			service.NewReconcilerService,
			service.NewGatewaySyncService,
			service.NewLedgerService,

			v1.NewHandler,
		),
		fx.Invoke(startServer),
	).Run()
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, m *metrics.Metrics,
	logger *zap.Logger, rabbit *mq.RabbitMQ, lc fx.Lifecycle) {
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))
	api.SetupRoutes(app, handler)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{publishers.CompletedQueue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			go app.Listen(cfg.API.Port)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := app.ShutdownWithContext(ctx); err != nil {
				return err
			}
			return rabbit.Close()
		},
	})
}

func NewFiber() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
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

func NewValidator() validator.IXValidator {
	return validator.NewXValidator(playgroundValidator.New())
}

func NewPesapalClient(cfg *config.Config) pesapal.Client {
	client := httpclient.NewHTTPClient(cfg.Pesapal.Timeout)
	return pesapal.NewClient(cfg.Pesapal, client)
}
