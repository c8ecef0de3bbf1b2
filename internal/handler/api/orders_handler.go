package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"monerispay/internal/models"
	"monerispay/internal/moneris"
	"monerispay/internal/repository"
)

// OrdersHandler is the intake surface for orders awaiting payment. The
// storefront registers an order here, then sends the payer to the checkout
// handoff route with the returned id.
type OrdersHandler struct {
	orders *repository.OrderRepository
	logger *zap.Logger
}

func NewOrdersHandler(orders *repository.OrderRepository, logger *zap.Logger) *OrdersHandler {
	return &OrdersHandler{orders: orders, logger: logger}
}

type createOrderRequest struct {
	CustomerID      uint            `json:"customer_id"`
	OrderTotal      float64         `json:"order_total"`
	BillingAddress  models.Address  `json:"billing_address"`
	ShippingAddress *models.Address `json:"shipping_address"`
}

// Create registers a pending order.
func (h *OrdersHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, "invalid request body")
	}
	if req.OrderTotal <= 0 {
		return errorResponse(c, "order_total must be positive")
	}
	if strings.TrimSpace(req.BillingAddress.Address1) == "" {
		return errorResponse(c, "billing_address.address1 is required")
	}

	order := &models.Order{
		OrderGUID:       uuid.New().String(),
		CustomerID:      req.CustomerID,
		OrderTotal:      req.OrderTotal,
		PaymentStatus:   models.OrderStatusPending,
		BillingAddress:  &req.BillingAddress,
		ShippingAddress: req.ShippingAddress,
	}

	if err := h.orders.Create(c.Request().Context(), order); err != nil {
		h.logger.Error("orders: create failed", zap.Error(err))
		return errorResponse(c, "failed to create order")
	}

	h.logger.Info("order created",
		zap.Uint("order_id", order.ID),
		zap.String("order_guid", order.OrderGUID),
		zap.Float64("order_total", order.OrderTotal))
	return successResponse(c, "order created", order)
}

// orderResponse decorates an order with its repost eligibility. The
// storefront owns the retry-payment button and consults this flag before
// sending the payer back through the checkout handoff.
type orderResponse struct {
	*models.Order
	CanRepost bool `json:"can_repost"`
}

// Get returns an order with its payment state.
func (h *OrdersHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("orderID"), 10, 32)
	if err != nil || id == 0 {
		return errorResponse(c, "invalid order id")
	}

	order, err := h.orders.FindByIDWithAddresses(c.Request().Context(), uint(id))
	if errors.Is(err, repository.ErrNotFound) {
		return errorResponse(c, "order not found")
	}
	if err != nil {
		h.logger.Error("orders: lookup failed", zap.Error(err))
		return errorResponse(c, "failed to load order")
	}
	return successResponse(c, "ok", orderResponse{
		Order:     order,
		CanRepost: moneris.CanRepostPayment(order, time.Now()),
	})
}
