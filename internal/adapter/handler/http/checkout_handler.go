package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainErrors "github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/errors"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/usecase"
)

type CheckoutHandler struct {
	logger   *zap.Logger
	checkout *usecase.CheckoutService
}

func NewCheckoutHandler(logger *zap.Logger, checkout *usecase.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		logger:   logger,
		checkout: checkout,
	}
}

func (h *CheckoutHandler) CreateDonation(c echo.Context) error {
	var req usecase.DonationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
		})
	}

	h.logger.Info("Starting donation checkout",
		zap.String("email", req.Email),
		zap.Float64("amount", req.Amount))

	result, err := h.checkout.StartDonation(c.Request().Context(), &req)
	if err != nil {
		return writeDomainError(c, err)
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *CheckoutHandler) CreateOrder(c echo.Context) error {
	var req usecase.OrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
		})
	}

	h.logger.Info("Starting order checkout",
		zap.String("email", req.Email),
		zap.Int64("product_id", req.ProductID),
		zap.Int("quantity", req.Quantity))

	result, err := h.checkout.StartOrder(c.Request().Context(), &req)
	if err != nil {
		return writeDomainError(c, err)
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *CheckoutHandler) CreateMembershipPayment(c echo.Context) error {
	var req usecase.MembershipRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
		})
	}

	h.logger.Info("Starting membership checkout",
		zap.Int64("member_id", req.MemberID),
		zap.Bool("is_renewal", req.IsRenewal))

	result, err := h.checkout.StartMembership(c.Request().Context(), &req)
	if err != nil {
		return writeDomainError(c, err)
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *CheckoutHandler) CheckSessionStatus(c echo.Context) error {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Session ID is required",
		})
	}

	status, err := h.checkout.GetSessionStatus(c.Request().Context(), sessionID)
	if err != nil {
		return writeDomainError(c, err)
	}

	return c.JSON(http.StatusOK, status)
}

// writeDomainError maps domain errors onto HTTP responses. Checkout
// failures carry an actionable message; internal failures stay generic
// with details attached.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case domainErrors.IsNotFound(err):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": err.Error(),
		})
	case domainErrors.IsClientError(err):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "Something went wrong processing the payment",
			"details": err.Error(),
		})
	}
}
