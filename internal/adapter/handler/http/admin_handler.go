package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/model"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/domain/repository"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/usecase"
)

type AdminHandler struct {
	logger    *zap.Logger
	lifecycle *usecase.LifecycleService
	reminders *usecase.ReminderService
	reports   *usecase.ReportService
}

func NewAdminHandler(logger *zap.Logger, lifecycle *usecase.LifecycleService, reminders *usecase.ReminderService, reports *usecase.ReportService) *AdminHandler {
	return &AdminHandler{
		logger:    logger,
		lifecycle: lifecycle,
		reminders: reminders,
		reports:   reports,
	}
}

// TriggerCleanup runs the expiry sweep and retention purge on demand.
func (h *AdminHandler) TriggerCleanup(c echo.Context) error {
	result, err := h.lifecycle.Sweep(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// TriggerRenewalReminders runs the reminder sweep on demand.
func (h *AdminHandler) TriggerRenewalReminders(c echo.Context) error {
	result, err := h.reminders.Run(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) ListPayments(c echo.Context) error {
	filter := listFilterFromQuery(c)

	page, err := h.reports.List(c.Request().Context(), filter)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *AdminHandler) PaymentStats(c echo.Context) error {
	stats, err := h.reports.Stats(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) ExportPayments(c echo.Context) error {
	filter := listFilterFromQuery(c)

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="payments.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	if err := h.reports.ExportCSV(c.Request().Context(), filter, c.Response()); err != nil {
		h.logger.Error("Failed to export payment records", zap.Error(err))
		return err
	}
	return nil
}

func listFilterFromQuery(c echo.Context) repository.RecordListFilter {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	return repository.RecordListFilter{
		Kind:   model.PaymentKind(c.QueryParam("kind")),
		Status: model.PaymentStatus(c.QueryParam("status")),
		Limit:  limit,
		Offset: offset,
	}
}
