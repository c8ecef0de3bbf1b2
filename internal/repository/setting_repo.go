package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"monerispay/internal/models"
	"monerispay/internal/moneris"
)

// SettingRepository handles the single-row gateway settings table.
type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get returns the stored gateway settings row.
func (r *SettingRepository) Get(ctx context.Context) (*models.GatewaySetting, error) {
	var setting models.GatewaySetting
	err := r.db.WithContext(ctx).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// GatewayConfig loads the settings and returns them as the immutable value
// the protocol components consume. Called once per request; nothing caches it.
func (r *SettingRepository) GatewayConfig(ctx context.Context) (moneris.Config, error) {
	setting, err := r.Get(ctx)
	if err != nil {
		return moneris.Config{}, err
	}
	return moneris.Config{
		StoreID:                 setting.PsStoreID,
		HPPKey:                  setting.HppKey,
		UseSandbox:              setting.UseSandbox,
		AdditionalFee:           setting.AdditionalFee,
		AdditionalFeePercentage: setting.AdditionalFeePercentage,
	}, nil
}

// Update overwrites the gateway settings row.
func (r *SettingRepository) Update(ctx context.Context, setting *models.GatewaySetting) error {
	current, err := r.Get(ctx)
	if err != nil {
		return err
	}
	setting.ID = current.ID
	return r.db.WithContext(ctx).Save(setting).Error
}
