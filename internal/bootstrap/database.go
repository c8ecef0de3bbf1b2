package bootstrap

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"monerispay/internal/models"
)

// MigrateAndSeed ensures required tables exist and inserts baseline rows for
// singleton tables.
func MigrateAndSeed(db *gorm.DB) error {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	if err := seedDefaults(db); err != nil {
		return fmt.Errorf("seed defaults failed: %w", err)
	}
	return nil
}

func allModels() []interface{} {
	return []interface{}{
		&models.Address{},
		&models.Order{},
		&models.GatewaySetting{},
	}
}

// seedDefaults creates the gateway settings row when missing. New installs
// start in sandbox mode with no fee, mirroring a fresh plugin install.
func seedDefaults(db *gorm.DB) error {
	var setting models.GatewaySetting
	err := db.First(&setting).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.Create(&models.GatewaySetting{
		UseSandbox:              true,
		AdditionalFeePercentage: false,
	}).Error
}
