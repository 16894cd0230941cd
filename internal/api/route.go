package api

import (
	v1 "github.com/dukasoft/shop-services/reconciler/internal/api/v1"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const prefixV1 = "/api/v1"

func SetupRoutes(app *fiber.App, handler *v1.Handler) {
	app.Get("/ping", handler.Pong)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/payments/callback", handler.Callback)
	app.Get("/payments/ipn", handler.Notification)
	app.Post("/payments/ipn", handler.Notification)
	app.Get("/payments/sweep", handler.Sweep)

	app.Post(prefixV1+"/payments", handler.RegisterPayment)
	app.Post(prefixV1+"/accounts", handler.CreateAccount)
	app.Get(prefixV1+"/accounts/:id/balance", handler.GetBalance)
}
