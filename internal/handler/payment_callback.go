package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"monerispay/internal/config"
	"monerispay/internal/middleware"
	"monerispay/internal/moneris"
)

// Verifier confirms a transaction with the gateway, server to server.
type Verifier interface {
	Verify(ctx context.Context, cfg moneris.Config, transactionKey string) (*moneris.Verification, error)
}

// ConfigSource loads the gateway configuration for one request.
type ConfigSource interface {
	GatewayConfig(ctx context.Context) (moneris.Config, error)
}

// PaymentCallbackHandler receives the gateway's browser-side return. Nothing
// the browser carries is trusted; approval only ever comes from the verifier.
// Every failure resolves to the neutral storefront destination with no
// diagnostic detail for the payer, but each category emits a structured event.
type PaymentCallbackHandler struct {
	settings   ConfigSource
	verifier   Verifier
	settlement *Settlement
	store      config.StoreConfig
	logger     *zap.Logger
}

func NewPaymentCallbackHandler(
	settings ConfigSource,
	verifier Verifier,
	settlement *Settlement,
	store config.StoreConfig,
	logger *zap.Logger,
) *PaymentCallbackHandler {
	return &PaymentCallbackHandler{
		settings:   settings,
		verifier:   verifier,
		settlement: settlement,
		store:      store,
		logger:     logger,
	}
}

// Success handles the gateway's success return path.
func (h *PaymentCallbackHandler) Success(c echo.Context) error {
	ctx := c.Request().Context()

	transactionKey := formOrQuery(c, "transactionKey")
	orderRef := formOrQuery(c, moneris.OrderReferenceField)
	if transactionKey == "" || orderRef == "" {
		// Abandoned or hand-crafted return; not worth a verification call.
		h.logger.Warn("payment callback: missing parameter",
			zap.Bool("has_transaction_key", transactionKey != ""),
			zap.Bool("has_order_ref", orderRef != ""))
		return h.redirectHome(c)
	}

	cfg, err := h.settings.GatewayConfig(ctx)
	if err != nil {
		h.logger.Error("payment callback: gateway config unavailable", zap.Error(err))
		return h.redirectHome(c)
	}

	verification, err := h.verifier.Verify(ctx, cfg, transactionKey)
	if err != nil {
		h.logVerifyFailure(err)
		return h.redirectHome(c)
	}
	// The gateway answered; from here on a replay of this key adds nothing,
	// so let the dedup layer record it.
	c.Set(middleware.CallbackVerifiedKey, true)

	if !verification.Approved {
		h.logger.Warn("payment callback: verification declined",
			zap.Int("response_code", verification.Code))
		return h.redirectHome(c)
	}

	orderID, err := strconv.ParseUint(orderRef, 10, 32)
	if err != nil || orderID == 0 {
		h.logger.Warn("payment callback: bad order reference", zap.String("order_ref", orderRef))
		return h.redirectHome(c)
	}

	// A replayed success return for an order that already settled still lands
	// on the completion page; the payer did pay.
	outcome := h.settlement.Settle(ctx, uint(orderID), verification)
	if outcome != SettlementSettled && outcome != SettlementAlreadyPaid {
		return h.redirectHome(c)
	}
	return c.Redirect(http.StatusFound, h.store.CompletedURL+"/"+strconv.FormatUint(orderID, 10))
}

// Fail handles the gateway's failure return path. The redirect to this route
// is trusted only as the fact of a failure; no payload is read.
func (h *PaymentCallbackHandler) Fail(c echo.Context) error {
	h.logger.Info("payment callback: fail path")
	return h.redirectHome(c)
}

func (h *PaymentCallbackHandler) redirectHome(c echo.Context) error {
	return c.Redirect(http.StatusFound, h.store.HomeURL)
}

func (h *PaymentCallbackHandler) logVerifyFailure(err error) {
	switch {
	case errors.Is(err, moneris.ErrEmptyResponse),
		errors.Is(err, moneris.ErrMalformedResponse),
		errors.Is(err, moneris.ErrMissingResponseCode):
		h.logger.Error("payment callback: malformed verification response", zap.Error(err))
	default:
		h.logger.Error("payment callback: verification call failed", zap.Error(err))
	}
}

// formOrQuery reads a callback parameter from the posted form first, then the
// query string; the gateway has used both over time.
func formOrQuery(c echo.Context, name string) string {
	if v := c.Request().PostFormValue(name); v != "" {
		return v
	}
	return c.QueryParam(name)
}
