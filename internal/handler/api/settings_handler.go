package api

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"monerispay/internal/models"
	"monerispay/internal/repository"
)

// SettingsHandler exposes the gateway configuration to the admin UI.
type SettingsHandler struct {
	settings *repository.SettingRepository
	logger   *zap.Logger
}

func NewSettingsHandler(settings *repository.SettingRepository, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger}
}

// Get returns the stored gateway settings. The shared key is masked; it can
// be overwritten but never read back out through the API.
func (h *SettingsHandler) Get(c echo.Context) error {
	setting, err := h.settings.Get(c.Request().Context())
	if err != nil {
		h.logger.Error("settings: load failed", zap.Error(err))
		return errorResponse(c, "failed to load settings")
	}
	setting.HppKey = maskKey(setting.HppKey)
	return successResponse(c, "ok", setting)
}

type updateSettingsRequest struct {
	PsStoreID               string  `json:"ps_store_id"`
	HppKey                  string  `json:"hpp_key"`
	UseSandbox              bool    `json:"use_sandbox"`
	AdditionalFee           float64 `json:"additional_fee"`
	AdditionalFeePercentage bool    `json:"additional_fee_percentage"`
}

// Update overwrites the gateway settings.
func (h *SettingsHandler) Update(c echo.Context) error {
	var req updateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, "invalid request body")
	}
	if strings.TrimSpace(req.PsStoreID) == "" {
		return errorResponse(c, "ps_store_id is required")
	}

	ctx := c.Request().Context()
	setting := &models.GatewaySetting{
		PsStoreID:               strings.TrimSpace(req.PsStoreID),
		HppKey:                  strings.TrimSpace(req.HppKey),
		UseSandbox:              req.UseSandbox,
		AdditionalFee:           req.AdditionalFee,
		AdditionalFeePercentage: req.AdditionalFeePercentage,
	}

	// An empty key in the request keeps the stored one, so admins can change
	// the sandbox flag without re-entering the secret.
	if setting.HppKey == "" {
		current, err := h.settings.Get(ctx)
		if err != nil {
			h.logger.Error("settings: load failed", zap.Error(err))
			return errorResponse(c, "failed to load settings")
		}
		setting.HppKey = current.HppKey
	}

	if err := h.settings.Update(ctx, setting); err != nil {
		h.logger.Error("settings: update failed", zap.Error(err))
		return errorResponse(c, "failed to save settings")
	}

	h.logger.Info("gateway settings updated",
		zap.String("ps_store_id", setting.PsStoreID),
		zap.Bool("use_sandbox", setting.UseSandbox))
	return successResponse(c, "settings saved", nil)
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
