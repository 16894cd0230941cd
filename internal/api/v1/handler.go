package v1

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dukasoft/shop-services/reconciler/internal/api/contract"
	"github.com/dukasoft/shop-services/reconciler/internal/api/validator"
	"github.com/dukasoft/shop-services/reconciler/internal/config"
	"github.com/dukasoft/shop-services/reconciler/internal/constants"
	"github.com/dukasoft/shop-services/reconciler/internal/metrics"
	"github.com/dukasoft/shop-services/reconciler/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	redirectStatusError   = "error"
	redirectStatusPending = "pending"
)

type Handler struct {
	logger      *zap.Logger
	reconciler  service.ReconcilerService
	gatewaySync service.GatewaySyncService
	ledger      service.LedgerService
	XValidator  validator.IXValidator
	metrics     *metrics.Metrics
	clientURL   string
}

func NewHandler(logger *zap.Logger, reconciler service.ReconcilerService, gatewaySync service.GatewaySyncService,
	ledger service.LedgerService, XValidator validator.IXValidator, metrics *metrics.Metrics,
	cfg *config.Config) *Handler {
	return &Handler{
		logger:      logger,
		reconciler:  reconciler,
		gatewaySync: gatewaySync,
		ledger:      ledger,
		XValidator:  XValidator,
		metrics:     metrics,
		clientURL:   cfg.Client.URL,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

// Callback handles the browser returning from the gateway's hosted payment
// page. A human is waiting, so it polls briefly for a final status; anything
// unresolved degrades to a "pending" redirect and the watchdog sweep finishes
// the job later.
func (h *Handler) Callback(c *fiber.Ctx) error {
	ctx := c.UserContext()

	trackingID := c.Query("OrderTrackingId")
	merchantReference := c.Query("OrderMerchantReference")

	if trackingID == "" || merchantReference == "" {
		h.logger.Warn("Callback missing identifying parameters",
			zap.String("trackingID", trackingID),
			zap.String("merchantReference", merchantReference))
		return h.redirectToClient(c, redirectStatusError, merchantReference)
	}

	raw, err := h.gatewaySync.WaitForFinalStatus(ctx, trackingID)
	if err != nil {
		h.logger.Warn("Callback status poll failed, deferring to watchdog",
			zap.String("merchantReference", merchantReference),
			zap.Error(err))
		h.metrics.RecordGatewayPoll("error")
		return h.redirectToClient(c, redirectStatusPending, merchantReference)
	}

	if raw == nil {
		h.metrics.RecordGatewayPoll("undetermined")
		return h.redirectToClient(c, redirectStatusPending, merchantReference)
	}

	h.metrics.RecordGatewayPoll("final")

	cmd := service.ReconcileCommand{MerchantReference: merchantReference, RawStatus: *raw}

	result, err := h.reconciler.Reconcile(ctx, cmd)
	if err != nil {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) && serviceErr.Code == constants.ErrCodeTransactionNotFound {
			return h.redirectToClient(c, redirectStatusError, merchantReference)
		}

		h.logger.Error("Callback reconciliation failed, deferring to watchdog",
			zap.String("merchantReference", merchantReference),
			zap.Error(err))
		return h.redirectToClient(c, redirectStatusPending, merchantReference)
	}

	h.metrics.RecordReconciliation("callback", string(result.Status))
	h.metrics.RecordCreditsAwarded(result.CreditsAwarded)

	return h.redirectToClient(c, string(result.Status), merchantReference)
}

// Notification handles the gateway's server-to-server IPN. The gateway retries
// on any non-2xx response, so every processed notification is acked with the
// exact shape it expects, even when the payment is still pending.
func (h *Handler) Notification(c *fiber.Ctx) error {
	ctx := c.UserContext()

	request, ok := h.parseNotification(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"code":    constants.ErrCodeValidationFailed,
			"message": constants.GetErrorMessage(constants.ErrCodeValidationFailed),
		})
	}

	raw, err := h.gatewaySync.GetStatus(ctx, request.OrderTrackingID)
	if err != nil {
		h.logger.Error("Notification status lookup failed",
			zap.String("trackingID", request.OrderTrackingID),
			zap.String("merchantReference", request.OrderMerchantReference),
			zap.Error(err))
		h.metrics.RecordGatewayPoll("error")
		return err
	}

	cmd := service.ReconcileCommand{MerchantReference: request.OrderMerchantReference, RawStatus: raw}

	result, err := h.reconciler.Reconcile(ctx, cmd)
	if err != nil {
		h.logger.Error("Notification reconciliation failed",
			zap.String("merchantReference", request.OrderMerchantReference),
			zap.Error(err))
		return err
	}

	h.metrics.RecordReconciliation("ipn", string(result.Status))
	h.metrics.RecordCreditsAwarded(result.CreditsAwarded)

	h.logger.Info("Notification processed",
		zap.String("merchantReference", request.OrderMerchantReference),
		zap.String("status", string(result.Status)),
		zap.Int64("creditsAwarded", result.CreditsAwarded))

	return c.JSON(NotificationAck{
		OrderNotificationType:  request.OrderNotificationType,
		OrderTrackingID:        request.OrderTrackingID,
		OrderMerchantReference: request.OrderMerchantReference,
		Status:                 fiber.StatusOK,
	})
}

// Sweep runs the watchdog pass over all pending transactions. Invoked by an
// external scheduler; also available in-process via cmd/worker-sweep.
func (h *Handler) Sweep(c *fiber.Ctx) error {
	start := time.Now()

	report, err := h.gatewaySync.SyncAllPending(c.UserContext())
	if err != nil {
		h.logger.Error("Sweep failed", zap.Error(err))
		return err
	}

	h.metrics.RecordSweep(report.Processed, report.Failed, report.Unresolvable, time.Since(start))
	for _, detail := range report.Details {
		if detail.Error == "" {
			h.metrics.RecordReconciliation("sweep", detail.Status)
			h.metrics.RecordCreditsAwarded(detail.CreditsAwarded)
		}
	}

	return c.JSON(SweepResponse{
		Success:   true,
		Timestamp: time.Now().Format(time.RFC3339),
		Processed: report.Processed,
		Details:   report.Details,
	})
}

func (h *Handler) RegisterPayment(c *fiber.Ctx) error {
	var request RegisterPaymentRequest

	responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Warn("Register payment validation failed", zap.Any("request", request))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	cmd := service.RegisterPaymentCommand{
		MerchantReference: request.MerchantReference,
		GatewayTrackingID: request.GatewayTrackingID,
		Amount:            request.Amount,
		AccountID:         request.AccountID,
	}

	result, err := h.ledger.RegisterPayment(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(contract.Response{
		Successful: true,
		Code:       "success",
		Result:     result,
	})
}

func (h *Handler) CreateAccount(c *fiber.Ctx) error {
	var request CreateAccountRequest

	responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Warn("Create account validation failed", zap.Any("request", request))
		responseError.Code = constants.ErrCodeValidationFailed
		return c.JSON(responseError)
	}

	cmd := service.CreateAccountCommand{
		AccountID:      request.AccountID,
		InitialBalance: request.InitialBalance,
	}

	account, err := h.ledger.CreateAccount(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(contract.Response{
		Successful: true,
		Code:       "success",
		Result:     BalanceResponse{AccountID: account.AccountID, Balance: account.Balance},
	})
}

func (h *Handler) GetBalance(c *fiber.Ctx) error {
	accountID := c.Params("id")

	account, err := h.ledger.GetBalance(accountID)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{
		Successful: true,
		Code:       "success",
		Result:     BalanceResponse{AccountID: account.AccountID, Balance: account.Balance},
	})
}

func (h *Handler) parseNotification(c *fiber.Ctx) (NotificationRequest, bool) {
	var request NotificationRequest

	if c.Method() == fiber.MethodPost {
		if err := c.BodyParser(&request); err != nil {
			h.logger.Warn("Failed to parse notification body",
				zap.Error(err),
				zap.String("body", string(c.Body())))
		}
	}

	// the gateway's delivery shape is not guaranteed; fall back to the query
	// string for anything the body did not carry
	if request.OrderTrackingID == "" {
		request.OrderTrackingID = c.Query("OrderTrackingId")
	}
	if request.OrderMerchantReference == "" {
		request.OrderMerchantReference = c.Query("OrderMerchantReference")
	}
	if request.OrderNotificationType == "" {
		request.OrderNotificationType = c.Query("OrderNotificationType")
	}

	if request.OrderTrackingID == "" || request.OrderMerchantReference == "" {
		h.logger.Warn("Notification missing identifying fields",
			zap.String("trackingID", request.OrderTrackingID),
			zap.String("merchantReference", request.OrderMerchantReference))
		return request, false
	}

	return request, true
}

// redirectToClient sends an HTML page that breaks out of any frame the gateway
// left the browser in and lands the shopper back on the order history tab.
func (h *Handler) redirectToClient(c *fiber.Ctx, status, merchantReference string) error {
	target := fmt.Sprintf("%s?tab=history&status=%s&orderId=%s",
		h.clientURL, url.QueryEscape(status), url.QueryEscape(merchantReference))

	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Payment processed</title></head>
<body>
<script>window.top.location.href = %q;</script>
<noscript><a href=%q>Continue</a></noscript>
</body>
</html>`, target, target)

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(page)
}
