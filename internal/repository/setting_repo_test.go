package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "ps_store_id", "hpp_key", "use_sandbox",
		"additional_fee", "additional_fee_percentage",
	})
}

func TestSettingRepository_GatewayConfig(t *testing.T) {
	t.Run("maps the settings row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSettingRepository(db)

		mock.ExpectQuery("SELECT \\* FROM `gateway_setting`").
			WillReturnRows(settingRows().AddRow(1, "store5", "hppkey", true, 2.5, false))

		cfg, err := repo.GatewayConfig(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "store5", cfg.StoreID)
		assert.Equal(t, "hppkey", cfg.HPPKey)
		assert.True(t, cfg.UseSandbox)
		assert.Equal(t, 2.5, cfg.AdditionalFee)
		assert.False(t, cfg.AdditionalFeePercentage)
	})

	t.Run("missing row maps to ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSettingRepository(db)

		mock.ExpectQuery("SELECT \\* FROM `gateway_setting`").
			WillReturnRows(settingRows())

		_, err := repo.GatewayConfig(context.Background())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
