package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"monerispay/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// OrderRepository handles order database operations.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a new order.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID returns an order by its numeric id.
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDWithAddresses returns an order with its billing and shipping
// addresses preloaded.
func (r *OrderRepository) FindByIDWithAddresses(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("BillingAddress").
		Preload("ShippingAddress").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkAsPaid transitions a pending order to paid, storing the gateway's
// transaction identifier in the same statement. The eligibility check and the
// transition are one conditional UPDATE, so concurrent callbacks for the same
// order settle at most once and a lost race writes nothing at all. Returns
// false when the order was no longer pending.
func (r *OrderRepository) MarkAsPaid(ctx context.Context, id uint, txn string) (bool, error) {
	updates := map[string]interface{}{
		"payment_status": models.OrderStatusPaid,
		"paid_at":        time.Now(),
	}
	if txn != "" {
		updates["transaction_id"] = txn
	}
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, models.OrderStatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ExpireStalePending marks orders that stayed pending beyond the cutoff as
// expired and returns how many were affected.
func (r *OrderRepository) ExpireStalePending(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("payment_status = ? AND created_at < ?", models.OrderStatusPending, cutoff).
		Update("payment_status", models.OrderStatusExpired)
	return res.RowsAffected, res.Error
}
