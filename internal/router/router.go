package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"monerispay/internal/config"
	"monerispay/internal/handler"
	"monerispay/internal/handler/api"
	"monerispay/internal/middleware"
	"monerispay/internal/moneris"
	"monerispay/internal/repository"
)

// Setup configures all routes for the Echo server.
func Setup(
	e *echo.Echo,
	db *gorm.DB,
	cfg *config.Config,
	deduper middleware.CallbackDeduper,
	logger *zap.Logger,
) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.CORS())

	// Repositories
	orders := repository.NewOrderRepository(db)
	settings := repository.NewSettingRepository(db)

	// Protocol components
	verifier := moneris.NewVerifier(cfg.Gateway.VerifyTimeout, logger)
	settlement := handler.NewSettlement(orders, logger)

	// Handlers
	checkoutHandler := handler.NewCheckoutHandler(orders, settings, cfg.Store, logger)
	callbackHandler := handler.NewPaymentCallbackHandler(settings, verifier, settlement, cfg.Store, logger)
	settingsHandler := api.NewSettingsHandler(settings, logger)
	ordersHandler := api.NewOrdersHandler(orders, logger)

	// Checkout handoff to the hosted payment page
	e.GET("/checkout/pay/:orderID", checkoutHandler.Pay)
	e.POST("/checkout/pay/:orderID", checkoutHandler.Pay)

	// Gateway callback routes. The gateway has posted and query-string
	// redirected over time, so both methods are accepted.
	paymentGroup := e.Group("/payment/moneris")
	paymentGroup.GET("/success", callbackHandler.Success, middleware.CallbackDedup(deduper, cfg.Store.HomeURL))
	paymentGroup.POST("/success", callbackHandler.Success, middleware.CallbackDedup(deduper, cfg.Store.HomeURL))
	paymentGroup.GET("/fail", callbackHandler.Fail)
	paymentGroup.POST("/fail", callbackHandler.Fail)

	// Admin API group with token auth
	apiGroup := e.Group("/api")
	apiGroup.Use(middleware.APIAuth(cfg.API.Key))
	apiGroup.GET("/settings", settingsHandler.Get)
	apiGroup.POST("/settings", settingsHandler.Update)
	apiGroup.POST("/orders", ordersHandler.Create)
	apiGroup.GET("/orders/:orderID", ordersHandler.Get)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
}
