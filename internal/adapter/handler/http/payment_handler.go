package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/usecase"
)

type PaymentHandler struct {
	logger    *zap.Logger
	lifecycle *usecase.LifecycleService
}

func NewPaymentHandler(logger *zap.Logger, lifecycle *usecase.LifecycleService) *PaymentHandler {
	return &PaymentHandler{
		logger:    logger,
		lifecycle: lifecycle,
	}
}

// Cancel fails a still-pending record. Always reports the resulting
// state; calling it twice, or after completion, is harmless.
func (h *PaymentHandler) Cancel(c echo.Context) error {
	recordID, err := uuid.Parse(c.Param("recordId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid record ID",
		})
	}

	record, err := h.lifecycle.Cancel(c.Request().Context(), recordID)
	if err != nil {
		return writeDomainError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"record_id": record.PublicID,
		"status":    record.Status,
	})
}
