package handler

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"monerispay/internal/models"
	"monerispay/internal/moneris"
	"monerispay/internal/repository"
)

// SettlementOutcome describes what applying a verified payment did to an order.
type SettlementOutcome int

const (
	// SettlementSettled: the order transitioned pending -> paid.
	SettlementSettled SettlementOutcome = iota
	// SettlementAlreadyPaid: a duplicate or late callback; nothing changed.
	SettlementAlreadyPaid
	// SettlementNotEligible: the order is cancelled/expired; nothing changed.
	SettlementNotEligible
	// SettlementNotFound: no such order.
	SettlementNotFound
	// SettlementFailed: a storage error prevented settlement.
	SettlementFailed
)

// OrderStore is the slice of the order repository settlement needs.
type OrderStore interface {
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	MarkAsPaid(ctx context.Context, id uint, txn string) (bool, error)
}

// Settlement applies verified payment outcomes to orders, exactly once.
// The pending->paid transition here is the single source of truth for
// "payment received"; no other code path flips that state from callback data.
type Settlement struct {
	orders OrderStore
	logger *zap.Logger
}

func NewSettlement(orders OrderStore, logger *zap.Logger) *Settlement {
	return &Settlement{orders: orders, logger: logger}
}

// Settle marks the order paid based on an approved verification. Duplicate
// and late callbacks are no-ops: the conditional update in the store only
// succeeds while the order is still pending.
func (s *Settlement) Settle(ctx context.Context, orderID uint, verification *moneris.Verification) SettlementOutcome {
	log := s.logger.With(zap.Uint("order_id", orderID))

	order, err := s.orders.FindByID(ctx, orderID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		log.Warn("settlement: order not found")
		return SettlementNotFound
	case err != nil:
		log.Error("settlement: order lookup failed", zap.Error(err))
		return SettlementFailed
	}

	if order.PaymentStatus == models.OrderStatusPaid {
		log.Info("settlement: order already paid, skipping")
		return SettlementAlreadyPaid
	}
	if !order.CanMarkAsPaid() {
		log.Warn("settlement: order not eligible",
			zap.String("payment_status", string(order.PaymentStatus)))
		return SettlementNotEligible
	}

	// The transaction id rides along in the conditional update, so a lost
	// race leaves the winner's record untouched.
	txn, _ := verification.TransactionNumber()
	settled, err := s.orders.MarkAsPaid(ctx, orderID, txn)
	if err != nil {
		log.Error("settlement: mark as paid failed", zap.Error(err))
		return SettlementFailed
	}
	if !settled {
		// Lost the race against a concurrent callback.
		log.Info("settlement: order settled concurrently")
		return SettlementAlreadyPaid
	}

	log.Info("settlement: order marked as paid", zap.String("txn_num", txn))
	return SettlementSettled
}
