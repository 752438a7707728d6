package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/adapter/handler/http"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/config"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/provider"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/middleware/auth"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/usecase"
)

// Services bundles the use cases the HTTP surface exposes. They are
// built once in main and shared with the background scheduler.
type Services struct {
	Checkout  *usecase.CheckoutService
	Reconcile *usecase.ReconcileService
	Lifecycle *usecase.LifecycleService
	Reminders *usecase.ReminderService
	Reports   *usecase.ReportService
}

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	services Services
	checkout provider.CheckoutProvider
}

func NewServer(cfg *config.Config, logger *zap.Logger, services Services, checkout provider.CheckoutProvider) *Server {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	return &Server{
		config:   cfg,
		logger:   logger,
		echo:     e,
		services: services,
		checkout: checkout,
	}
}

func (s *Server) Start() error {
	// Setup routes
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Initialize handlers
	checkoutHandler := handlers.NewCheckoutHandler(s.logger, s.services.Checkout)
	paymentHandler := handlers.NewPaymentHandler(s.logger, s.services.Lifecycle)
	webhookHandler := handlers.NewWebhookHandler(s.logger, s.checkout, s.services.Reconcile)
	adminHandler := handlers.NewAdminHandler(s.logger, s.services.Lifecycle, s.services.Reminders, s.services.Reports)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Public routes: checkout is open to site visitors, the success
	// page polls the session status endpoint, and the cancel page
	// releases its own pending record.
	v1.POST("/checkout/donation", checkoutHandler.CreateDonation)
	v1.POST("/checkout/order", checkoutHandler.CreateOrder)
	v1.POST("/checkout/membership", checkoutHandler.CreateMembershipPayment)
	v1.GET("/checkout/session/:sessionId", checkoutHandler.CheckSessionStatus)
	v1.POST("/payments/:recordId/cancel", paymentHandler.Cancel)

	// Admin routes (require admin JWT)
	adminGroup := v1.Group("/admin", auth.JWTMiddleware(auth.JWTConfig{
		Secret:       s.config.JWT.Secret,
		Logger:       s.logger,
		RequiredRole: auth.RoleAdmin,
	}))
	adminGroup.POST("/cleanup", adminHandler.TriggerCleanup)
	adminGroup.POST("/renewal-reminders", adminHandler.TriggerRenewalReminders)
	adminGroup.GET("/payments", adminHandler.ListPayments)
	adminGroup.GET("/payments/stats", adminHandler.PaymentStats)
	adminGroup.GET("/payments/export", adminHandler.ExportPayments)

	// Webhook route (outside API versioning)
	s.echo.POST("/webhook", webhookHandler.HandleWebhook)
}
