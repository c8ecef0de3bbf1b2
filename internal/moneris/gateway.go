package moneris

import (
	"errors"
	"fmt"
	"time"

	"monerispay/internal/models"
)

// ErrNotSupported is returned for operations the hosted payment page model
// cannot perform. The gateway is redirect-only and single-charge.
var ErrNotSupported = errors.New("moneris: operation not supported by hosted payment page")

// Capture is not supported; the HPP charges in one step.
func Capture(orderID uint) error {
	return fmt.Errorf("capture order %d: %w", orderID, ErrNotSupported)
}

// Refund is not supported.
func Refund(orderID uint) error {
	return fmt.Errorf("refund order %d: %w", orderID, ErrNotSupported)
}

// Void is not supported.
func Void(orderID uint) error {
	return fmt.Errorf("void order %d: %w", orderID, ErrNotSupported)
}

// ProcessRecurring is not supported.
func ProcessRecurring(orderID uint) error {
	return fmt.Errorf("recurring payment for order %d: %w", orderID, ErrNotSupported)
}

// AdditionalHandlingFee returns the surcharge configured for this payment
// method, either a fixed amount or a percentage of the order total.
func AdditionalHandlingFee(cfg Config, orderTotal float64) float64 {
	if cfg.AdditionalFee == 0 {
		return 0
	}
	if cfg.AdditionalFeePercentage {
		return orderTotal * cfg.AdditionalFee / 100
	}
	return cfg.AdditionalFee
}

// ChargeTotal is the amount actually posted to the gateway: the order total
// plus the additional handling fee.
func ChargeTotal(cfg Config, orderTotal float64) float64 {
	return orderTotal + AdditionalHandlingFee(cfg, orderTotal)
}

// CanRepostPayment reports whether a customer may be sent back to the hosted
// payment page for an order that was placed but never completed. At least one
// minute must have passed since the order was created.
func CanRepostPayment(order *models.Order, now time.Time) bool {
	if order == nil || !order.CanMarkAsPaid() {
		return false
	}
	return now.Sub(order.CreatedAt) >= time.Minute
}
