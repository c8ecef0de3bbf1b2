package handler

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"monerispay/internal/config"
	"monerispay/internal/models"
	"monerispay/internal/moneris"
	"monerispay/internal/repository"
)

// CheckoutOrderStore is the slice of the order repository the handoff needs.
type CheckoutOrderStore interface {
	FindByIDWithAddresses(ctx context.Context, id uint) (*models.Order, error)
}

// CheckoutHandler produces the redirect handoff: an auto-submitting form that
// POSTs the field set to the hosted payment page.
type CheckoutHandler struct {
	orders   CheckoutOrderStore
	settings ConfigSource
	store    config.StoreConfig
	logger   *zap.Logger
}

func NewCheckoutHandler(orders CheckoutOrderStore, settings ConfigSource, store config.StoreConfig, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{orders: orders, settings: settings, store: store, logger: logger}
}

var redirectFormTmpl = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Redirecting to payment</title>
</head>
<body onload="document.forms[0].submit()">
    <form action="{{.Action}}" method="POST">
        {{range .Fields}}<input type="hidden" name="{{.Name}}" value="{{.Value}}">
        {{end}}<noscript><button type="submit">Continue to payment</button></noscript>
    </form>
    <p>Redirecting you to the payment page&hellip;</p>
</body>
</html>`))

// Pay renders the handoff form for a pending order.
func (h *CheckoutHandler) Pay(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 32)
	if err != nil || orderID == 0 {
		return c.Redirect(http.StatusFound, h.store.HomeURL)
	}

	order, err := h.orders.FindByIDWithAddresses(ctx, uint(orderID))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.Redirect(http.StatusFound, h.store.HomeURL)
	case err != nil:
		h.logger.Error("checkout: order lookup failed", zap.Error(err))
		return c.Redirect(http.StatusFound, h.store.HomeURL)
	}
	if !order.CanMarkAsPaid() {
		return c.Redirect(http.StatusFound, h.store.HomeURL)
	}

	cfg, err := h.settings.GatewayConfig(ctx)
	if err != nil {
		h.logger.Error("checkout: gateway config unavailable", zap.Error(err))
		return c.Redirect(http.StatusFound, h.store.HomeURL)
	}

	fields := moneris.BuildRedirectFields(cfg, order, order.BillingAddress, order.ShippingAddress)

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return redirectFormTmpl.Execute(c.Response().Writer, map[string]interface{}{
		"Action": moneris.PaymentURL(cfg),
		"Fields": fields,
	})
}
